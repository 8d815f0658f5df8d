package hookgate

import "context"

// RunHook executes one pass: the named hook across plugins in registration
// order.
//
// The pass's bookkeeping in ec ([ExecutionContext.Runtimes]) is reset first,
// then for each plugin that defines the hook the callback is invoked with
// (ctx, ec, args...) and counted; plugins lacking the hook are skipped and
// not counted. A callback's non-nil value becomes the pass's provisional
// result, overwriting earlier values. [Break] stops the pass keeping the
// provisional result; [BreakWith] stops the pass and fixes the result to
// exactly the callback's value. A callback error propagates immediately: no
// later plugin runs.
//
// Callbacks never run concurrently; each is waited on before the next starts.
func RunHook[P any](
	ctx context.Context,
	plugins []*Plugin[P],
	hook string,
	ec *ExecutionContext[P],
	args ...any,
) (any, error) {
	ec.resetRuntimes(hook)

	var result any
	for i, p := range plugins {
		fn := p.Hook(hook)
		if fn == nil {
			continue
		}
		ec.noteInvocation(p.Name(), i)

		res, err := fn(ctx, ec, args...)
		if err != nil {
			return nil, err
		}

		switch res.Flow {
		case FlowReturn:
			ec.noteReturnBreak(res.Value)
			return res.Value, nil
		case FlowBreak:
			ec.noteBreak()
			return result, nil
		default:
			if res.Value != nil {
				result = res.Value
				ec.noteValue(res.Value)
			}
		}
	}
	return result, nil
}

// RunHooks executes the hook names in order, one [RunHook] pass each, feeding
// the running result forward: a pass's non-nil result overwrites the running
// result.
//
// A pass ended by [BreakWith] ends the whole run with exactly that value. A
// pass ended by [Break] ends the run keeping the running result; later hook
// names do not execute. Pass bookkeeping is reset at the start of every pass,
// so neither break flag leaks into the next hook name.
func RunHooks[P any](
	ctx context.Context,
	plugins []*Plugin[P],
	hooks []string,
	ec *ExecutionContext[P],
	args ...any,
) (any, error) {
	var result any
	for _, hook := range hooks {
		v, err := RunHook(ctx, plugins, hook, ec, args...)
		if err != nil {
			return nil, err
		}

		rt := ec.Runtimes()
		if rt.ReturnBreakChain {
			return v, nil
		}
		if v != nil {
			result = v
		}
		if rt.BreakChain {
			return result, nil
		}
	}
	return result, nil
}

// RunHookSync is [RunHook] for call sites that cannot block (constructors,
// hot paths with no context to thread). Callbacks receive context.Background
// and must not block; mixing a blocking callback into a sync-only plugin list
// is a caller error.
func RunHookSync[P any](
	plugins []*Plugin[P],
	hook string,
	ec *ExecutionContext[P],
	args ...any,
) (any, error) {
	return RunHook(context.Background(), plugins, hook, ec, args...)
}

// RunHooksSync is [RunHooks] for call sites that cannot block. See
// [RunHookSync] for the callback contract.
func RunHooksSync[P any](
	plugins []*Plugin[P],
	hooks []string,
	ec *ExecutionContext[P],
	args ...any,
) (any, error) {
	return RunHooks(context.Background(), plugins, hooks, ec, args...)
}
