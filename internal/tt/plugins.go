package tt

import (
	"context"

	"github.com/jvillano/hookgate"
)

// Trace creates a plugin whose every named hook records "<plugin>.<hook>"
// on the recorder and continues the pass.
func Trace[P any](rec *Recorder, name string, hooks ...string) *hookgate.Plugin[P] {
	p := hookgate.NewPlugin[P](name)
	for _, hook := range hooks {
		label := name + "." + hook
		p.On(hook, func(
			ctx context.Context,
			ec *hookgate.ExecutionContext[P],
			args ...any,
		) (hookgate.HookResult, error) {
			rec.Add(label)
			return hookgate.Continue(), nil
		})
	}
	return p
}

// FailOn creates a plugin that records the call and then fails the pass
// with err when the named hook runs.
func FailOn[P any](rec *Recorder, name, hook string, err error) *hookgate.Plugin[P] {
	p := hookgate.NewPlugin[P](name)
	p.On(hook, func(
		ctx context.Context,
		ec *hookgate.ExecutionContext[P],
		args ...any,
	) (hookgate.HookResult, error) {
		rec.Add(name + "." + hook)
		return hookgate.Continue(), err
	})
	return p
}
