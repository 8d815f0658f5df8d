// Package gateway extends the task executor with action-derived hooks and
// ships the thin services built on top of them (login, logout, register,
// user info).
//
// # Action Hooks
//
// Each call names an action ("login", "getUserInfo", ...). Around the
// general lifecycle the gateway inserts two action-specific sub-stages:
//
//	onBefore (all plugins)
//	on{Action}Before (all plugins)
//	task
//	on{Action}Success (all plugins)
//	onSuccess (all plugins)
//
// There is no action-specific error stage: every failure routes through the
// single general onError pass, and consumers needing per-action error
// handling branch on [hookgate.ExecutionContext.Name] inside it.
//
// # Sealed Exec Stage
//
// The gateway's executor is constructed with [executor.DirectStage] and the
// gateway exposes no way to replace it, so plugins defining onExec cannot
// intercept the task: a gateway call always actually executes its service.
package gateway

import (
	"context"

	"github.com/jvillano/hookgate"
	"github.com/jvillano/hookgate/executor"
)

// Params carries a call's named parameters. Hooks may mutate the map in
// place; it is the only contractually mutable part of the context.
type Params = map[string]any

// Context is the execution context gateway calls run with.
type Context = hookgate.ExecutionContext[Params]

// Task is a gateway unit of work.
type Task = executor.Task[Params]

// ServiceMap resolves action names to their default task bodies. It is the
// explicit registration-time counterpart of looking a method up by name:
// actions are bound once, up front, and an unbound action yields nil rather
// than an error.
type ServiceMap map[string]Task

// Gateway runs named actions through the hook pipeline.
//
// Register plugins before executing; separate Exec calls are independent.
// The gateway provides no ordering between the side effects of two
// overlapping calls for the same action — that depends entirely on the store
// the services mutate.
type Gateway struct {
	exec     *executor.Executor[Params]
	services ServiceMap
}

// New creates a Gateway serving the given actions.
func New(services ServiceMap) *Gateway {
	if services == nil {
		services = ServiceMap{}
	}
	return &Gateway{
		exec:     executor.New(executor.WithStage(executor.DirectStage[Params]())),
		services: services,
	}
}

// Use appends plugins to the ordered list (no de-duplication). Returns the
// gateway for chaining.
func (g *Gateway) Use(plugins ...*hookgate.Plugin[Params]) *Gateway {
	g.exec.Use(plugins...)
	return g
}

// Plugins returns the registered plugin list in order.
func (g *Gateway) Plugins() []*hookgate.Plugin[Params] {
	return g.exec.Plugins()
}

// Exec runs the action's registered task through the action-extended
// lifecycle. An action with no registered task resolves to nil (not an
// error); hooks still run.
func (g *Gateway) Exec(ctx context.Context, action string, ec *Context) (any, error) {
	return g.ExecTask(ctx, action, ec, nil)
}

// ExecTask runs an explicit task under the action's hook names. A nil task
// falls back to the registered service for the action.
func (g *Gateway) ExecTask(ctx context.Context, action string, ec *Context, task Task) (any, error) {
	if task == nil {
		task = g.resolve(action)
	}
	return g.exec.Invoke(ctx, ec, task, actionPlan(action))
}

// ExecNoError is Exec's no-throw twin: the error object becomes the call's
// result, and the error pass still fires exactly once.
func (g *Gateway) ExecNoError(ctx context.Context, action string, ec *Context) any {
	v, err := g.Exec(ctx, action, ec)
	if err != nil {
		return err
	}
	return v
}

// resolve returns the registered task for action, or a task resolving to nil
// when the action is unbound.
func (g *Gateway) resolve(action string) Task {
	if task, ok := g.services[action]; ok {
		return task
	}
	return func(ctx context.Context, ec *Context) (any, error) {
		return nil, nil
	}
}

// actionPlan derives the pass lists for one action. An empty action derives
// the general names, so the general passes run twice; see [hookgate.HookName].
func actionPlan(action string) executor.Plan {
	return executor.Plan{
		Before: []string{
			hookgate.HookBefore,
			hookgate.HookName(action, hookgate.PhaseBefore),
		},
		Success: []string{
			hookgate.HookName(action, hookgate.PhaseSuccess),
			hookgate.HookSuccess,
		},
	}
}
