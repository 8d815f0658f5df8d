// Package executor orchestrates one task call through the fixed four-stage
// lifecycle: before hooks, the exec stage, then success hooks on resolution
// or the error pass on failure.
//
// # Lifecycle
//
//	Idle -> Before -> Executing -> Success | Error
//
// The executor runs the before pass(es), invokes the exec stage, writes the
// result into the context and runs the success pass(es), or — on any failure
// in before/exec/task — writes the error, runs the error pass once, and
// returns the error. Nothing is caught and suppressed; [Executor.ExecNoError]
// is the only mode that converts a failure into an ordinary return value.
//
// # Exec Stage
//
// The exec stage is a strategy fixed at construction. [DefaultStage] lets
// plugins defining [hookgate.HookExec] intercept or replace the task;
// [DirectStage] always runs the task. Compositions that must guarantee the
// task executes (the gateway) construct their executor with DirectStage and
// expose no way to replace it.
package executor

import (
	"context"

	"github.com/jvillano/hookgate"
)

// Task is the unit of work the pipeline wraps: any callable taking the
// execution context, with no further constraints.
type Task[P any] func(ctx context.Context, ec *hookgate.ExecutionContext[P]) (any, error)

// Stage runs the exec stage of the lifecycle. It decides whether plugins may
// intercept the task.
type Stage[P any] func(
	ctx context.Context,
	plugins []*hookgate.Plugin[P],
	ec *hookgate.ExecutionContext[P],
	task Task[P],
) (any, error)

// DefaultStage runs the [hookgate.HookExec] pass with the task as the extra
// argument, letting plugins intercept or replace the call. If no plugin
// defines the hook, the task runs directly.
//
// An intercepting plugin receives the task as args[0] (typed Task[P]) and may
// call it, wrap it, or substitute its own result.
func DefaultStage[P any]() Stage[P] {
	return func(
		ctx context.Context,
		plugins []*hookgate.Plugin[P],
		ec *hookgate.ExecutionContext[P],
		task Task[P],
	) (any, error) {
		v, err := hookgate.RunHook(ctx, plugins, hookgate.HookExec, ec, task)
		if err != nil {
			return nil, err
		}
		if ec.Runtimes().Times == 0 {
			return task(ctx, ec)
		}
		return v, nil
	}
}

// DirectStage always runs the task, ignoring [hookgate.HookExec] plugins.
func DirectStage[P any]() Stage[P] {
	return func(
		ctx context.Context,
		plugins []*hookgate.Plugin[P],
		ec *hookgate.ExecutionContext[P],
		task Task[P],
	) (any, error) {
		return task(ctx, ec)
	}
}

// Plan names the hook passes run around the exec stage. The zero value is
// not useful; use [DefaultPlan] or build one explicitly (the gateway derives
// per-action plans).
//
// Failures always route through the single [hookgate.HookError] pass; the
// plan does not parameterize it.
type Plan struct {
	// Before passes run in order ahead of the exec stage.
	Before []string

	// Success passes run in order after the task resolves.
	Success []string
}

// DefaultPlan runs the general before and success passes only.
func DefaultPlan() Plan {
	return Plan{
		Before:  []string{hookgate.HookBefore},
		Success: []string{hookgate.HookSuccess},
	}
}

// Executor runs tasks through the lifecycle against its ordered plugin list.
//
// Register all plugins before executing; the plugin list is not guarded for
// concurrent mutation. Separate Exec calls on one Executor are independent —
// each operates on its own ExecutionContext.
type Executor[P any] struct {
	plugins []*hookgate.Plugin[P]
	stage   Stage[P]
}

// Option configures an Executor at construction.
type Option[P any] func(*Executor[P])

// WithStage fixes the exec-stage strategy. The default is [DefaultStage].
func WithStage[P any](s Stage[P]) Option[P] {
	return func(e *Executor[P]) {
		e.stage = s
	}
}

// New creates an Executor with no plugins and the default exec stage.
func New[P any](opts ...Option[P]) *Executor[P] {
	e := &Executor[P]{
		stage: DefaultStage[P](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Use appends plugins to the ordered list. Nothing is de-duplicated:
// registering the same plugin object twice runs its hooks twice. Returns the
// executor for chaining.
func (e *Executor[P]) Use(plugins ...*hookgate.Plugin[P]) *Executor[P] {
	e.plugins = append(e.plugins, plugins...)
	return e
}

// Plugins returns the registered plugin list in order.
func (e *Executor[P]) Plugins() []*hookgate.Plugin[P] {
	return e.plugins
}

// Exec runs one task through the default plan. On success it returns the
// stage result (also written to ec.ReturnValue before success hooks run). On
// any failure in before/exec/task it records the error on ec, runs the error
// pass once, and returns the error.
//
// A failure inside a success hook fails the call but does not fire the error
// pass; see [Executor.Invoke].
func (e *Executor[P]) Exec(
	ctx context.Context,
	ec *hookgate.ExecutionContext[P],
	task Task[P],
) (any, error) {
	return e.Invoke(ctx, ec, task, DefaultPlan())
}

// ExecSync is [Executor.Exec] for call sites that cannot block. Hooks and the
// task receive context.Background and must not block.
func (e *Executor[P]) ExecSync(
	ec *hookgate.ExecutionContext[P],
	task Task[P],
) (any, error) {
	return e.Invoke(context.Background(), ec, task, DefaultPlan())
}

// ExecNoError is Exec's no-throw twin: identical lifecycle (the error pass
// still fires exactly once on failure), but the error object becomes the
// call's result instead of a returned error.
func (e *Executor[P]) ExecNoError(
	ctx context.Context,
	ec *hookgate.ExecutionContext[P],
	task Task[P],
) any {
	v, err := e.Exec(ctx, ec, task)
	if err != nil {
		return err
	}
	return v
}

// ExecNoErrorSync is [Executor.ExecNoError] for call sites that cannot block.
func (e *Executor[P]) ExecNoErrorSync(
	ec *hookgate.ExecutionContext[P],
	task Task[P],
) any {
	v, err := e.ExecSync(ec, task)
	if err != nil {
		return err
	}
	return v
}

// Invoke runs one task with an explicit plan. This is the seam the action
// extension uses to insert per-action sub-stages without touching the
// lifecycle.
//
// Policy for success-pass failures: the call fails (the error is recorded on
// ec and returned) but the error pass is NOT fired. The error pass covers
// failures of before/exec/task only; re-entering it after the task completed
// would report a failure for work that actually succeeded.
func (e *Executor[P]) Invoke(
	ctx context.Context,
	ec *hookgate.ExecutionContext[P],
	task Task[P],
	plan Plan,
) (any, error) {
	if _, err := hookgate.RunHooks(ctx, e.plugins, plan.Before, ec); err != nil {
		return nil, e.fail(ctx, ec, err)
	}

	v, err := e.stage(ctx, e.plugins, ec, task)
	if err != nil {
		return nil, e.fail(ctx, ec, err)
	}

	ec.SetReturnValue(v)
	if _, err := hookgate.RunHooks(ctx, e.plugins, plan.Success, ec); err != nil {
		ec.SetErr(err)
		return nil, err
	}
	return v, nil
}

// fail records err, runs the error pass once, and returns the error the
// caller should see. A failure inside the error pass itself preempts the
// original error; the original stays readable from ec.Err.
func (e *Executor[P]) fail(
	ctx context.Context,
	ec *hookgate.ExecutionContext[P],
	err error,
) error {
	ec.SetErr(err)
	if _, herr := hookgate.RunHook(ctx, e.plugins, hookgate.HookError, ec); herr != nil {
		return herr
	}
	return err
}
