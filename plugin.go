package hookgate

import "context"

// HookFunc is a single hook callback. It receives the per-call
// ExecutionContext plus whatever extra arguments the runner's caller supplied,
// and returns a [HookResult] directing the rest of the pass.
//
// An error return propagates immediately out of the runner: no later plugin
// in the pass runs, nothing is caught or suppressed.
//
// Callbacks invoked through the sync runners ([RunHookSync], [RunHooksSync])
// receive context.Background and must not block; registering a blocking
// callback on a sync-only path is a caller error, not handled defensively.
type HookFunc[P any] func(
	ctx context.Context,
	ec *ExecutionContext[P],
	args ...any,
) (HookResult, error)

// Flow directs the runner after a callback returns.
type Flow int

const (
	// FlowContinue proceeds to the next plugin in the pass.
	FlowContinue Flow = iota

	// FlowBreak stops the pass; its result stays whatever the running result
	// was before this callback.
	FlowBreak

	// FlowReturn stops the pass and fixes its result to exactly the
	// callback's value, even nil.
	FlowReturn
)

// HookResult is a callback's verdict: a flow directive plus an optional
// value. Build one with [Continue], [ContinueWith], [Break], or [BreakWith].
type HookResult struct {
	Flow  Flow
	Value any
}

// Continue proceeds to the next plugin without contributing a value.
func Continue() HookResult {
	return HookResult{Flow: FlowContinue}
}

// ContinueWith proceeds to the next plugin; a non-nil v becomes the pass's
// running result, overwriting any value from earlier plugins.
func ContinueWith(v any) HookResult {
	return HookResult{Flow: FlowContinue, Value: v}
}

// Break stops the pass. Plugins after the caller do not run; the pass result
// stays the last value recorded from earlier plugins in the same pass.
func Break() HookResult {
	return HookResult{Flow: FlowBreak}
}

// BreakWith stops the pass and fixes its result to exactly v, even when v is
// nil. In a multi-name run, the whole run ends with this value.
func BreakWith(v any) HookResult {
	return HookResult{Flow: FlowReturn, Value: v}
}

// Plugin is a named bundle of hook callbacks. The hook table is built once at
// registration: each [Plugin.On] call binds a callback to a hook name, fixed
// general names ([HookBefore], [HookSuccess], ...) and action-derived names
// ([HookName]) alike.
//
// Plugin names are informational. They are not required to be unique and the
// pipeline never de-duplicates: registering the same plugin twice runs its
// hooks twice.
//
// Build plugins before use and do not mutate them afterwards; the hook table
// is read without locking during passes.
type Plugin[P any] struct {
	name  string
	hooks map[string]HookFunc[P]
}

// NewPlugin creates an empty plugin with the given name.
func NewPlugin[P any](name string) *Plugin[P] {
	return &Plugin[P]{
		name:  name,
		hooks: make(map[string]HookFunc[P]),
	}
}

// On binds fn to the named hook, replacing any earlier binding for the same
// name. Returns the plugin for chaining.
func (p *Plugin[P]) On(hook string, fn HookFunc[P]) *Plugin[P] {
	p.hooks[hook] = fn
	return p
}

// Name returns the plugin's informational name.
func (p *Plugin[P]) Name() string {
	return p.name
}

// Hook returns the callback bound to the named hook, or nil.
func (p *Plugin[P]) Hook(name string) HookFunc[P] {
	return p.hooks[name]
}

// Has reports whether the plugin defines the named hook.
func (p *Plugin[P]) Has(name string) bool {
	_, ok := p.hooks[name]
	return ok
}
