// Package hookgate provides a pluggable hook-execution pipeline: ordered sets
// of caller-supplied plugins run around one unit of work, with mid-pass
// short-circuiting, per-call runtime introspection, and action-derived hook
// names for per-operation extension.
//
// The root package holds the core types: [ExecutionContext], [Plugin], the
// hook-name vocabulary, and the pass runners ([RunHook], [RunHooks] and their
// sync twins). Orchestration lives in subpackages:
//
//   - executor: the four-stage task lifecycle (before, exec, success, error)
//   - gateway: action-derived hooks plus thin auth services built on them
//   - store: key/value adapters (memory, bbolt, redis)
//   - stream: line and SSE chunk splitters
//   - plugins/...: ready-made logging, metrics, and schema-validation plugins
//
// # Quick Start
//
//	audit := hookgate.NewPlugin[map[string]any]("audit").
//	    On(hookgate.HookBefore, func(
//	        ctx context.Context,
//	        ec *hookgate.ExecutionContext[map[string]any],
//	        args ...any,
//	    ) (hookgate.HookResult, error) {
//	        log.Printf("starting %s", ec.Name())
//	        return hookgate.Continue(), nil
//	    })
//
//	exec := executor.New[map[string]any]().Use(audit)
//	ec := hookgate.NewExecutionContext("login", map[string]any{"user": "ada"})
//	result, err := exec.Exec(ctx, ec, loginTask)
//
// # Flow Control
//
// Every hook returns a [HookResult] carrying an explicit flow directive:
// [Continue] (optionally with a value), [Break] (stop the pass, keep the
// running result), or [BreakWith] (stop the pass and fix its result to
// exactly the given value). The runner records what happened in the context's
// [HookRuntimes] for introspection, but control flow never depends on hooks
// mutating shared state.
//
// # Concurrency
//
// Within one pass, callbacks run strictly sequentially in registration order;
// the context-aware runners wait for each callback before invoking the next.
// Separate calls on the same plugin list are independent: each builds its own
// ExecutionContext. The pipeline provides no ordering between the side
// effects of overlapping calls.
package hookgate
