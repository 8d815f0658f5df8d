package hookgate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExecutionContext carries one pipeline call: the caller's parameters, the
// eventual result or error, and per-pass runtime bookkeeping.
//
// Parameters are the only field hooks are contractually allowed to mutate;
// everything else is written by the runner and executor and read through
// snapshot accessors.
//
// A context is created fresh per call and discarded after; nothing in it
// survives to the next call except whatever external state a plugin chose to
// mutate.
type ExecutionContext[P any] struct {
	mu sync.RWMutex

	// Identity, fixed at construction.
	id        string
	name      string
	startedAt time.Time

	params      P
	returnValue any
	err         error

	runtimes HookRuntimes
}

// HookRuntimes is the scratch state of the current (or most recent) hook
// pass. It is reset at the start of every pass and mutated destructively as
// the pass proceeds; read it through [ExecutionContext.Runtimes].
type HookRuntimes struct {
	// PluginName is the name of the last plugin invoked in this pass.
	PluginName string

	// HookName is the hook name this pass is executing.
	HookName string

	// PluginIndex is the registration index of the last plugin invoked.
	// It is -1 until a plugin with the named hook has run.
	PluginIndex int

	// Times counts the plugins actually invoked for this pass. Plugins
	// lacking the named hook are skipped and not counted.
	Times int

	// BreakChain reports that a callback ended the pass early via [Break].
	BreakChain bool

	// ReturnBreakChain reports that a callback ended the pass and fixed its
	// result via [BreakWith].
	ReturnBreakChain bool

	// ReturnValue is the pass's running result: the last non-nil value a
	// callback produced, or the exact [BreakWith] value.
	ReturnValue any
}

// HookRuntimesPatch is a partial update for [HookRuntimes]. Nil fields are
// left unchanged by [ExecutionContext.MergeRuntimes].
type HookRuntimesPatch struct {
	PluginName       *string
	HookName         *string
	PluginIndex      *int
	Times            *int
	BreakChain       *bool
	ReturnBreakChain *bool
	ReturnValue      any
}

// NewExecutionContext creates a context for one call. The name identifies the
// call in logs (typically the action being executed); a unique ID is stamped
// for correlation.
func NewExecutionContext[P any](name string, params P) *ExecutionContext[P] {
	return &ExecutionContext[P]{
		id:        uuid.NewString(),
		name:      name,
		startedAt: time.Now(),
		params:    params,
		runtimes:  HookRuntimes{PluginIndex: -1},
	}
}

// ID returns the unique identifier stamped at construction.
func (ec *ExecutionContext[P]) ID() string {
	return ec.id
}

// Name returns the call name given at construction.
func (ec *ExecutionContext[P]) Name() string {
	return ec.name
}

// Elapsed returns the time since the context was created.
func (ec *ExecutionContext[P]) Elapsed() time.Duration {
	return time.Since(ec.startedAt)
}

// Params returns the caller's parameters. When P is a pointer or map type,
// hooks may mutate the referenced data in place.
func (ec *ExecutionContext[P]) Params() P {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return ec.params
}

// SetParams replaces the parameters wholesale. Hooks that only need to adjust
// fields of a map or pointer parameter should mutate through [Params] instead.
func (ec *ExecutionContext[P]) SetParams(params P) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.params = params
}

// ReturnValue returns the task's result. It is nil until the task resolves.
func (ec *ExecutionContext[P]) ReturnValue() any {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return ec.returnValue
}

// SetReturnValue records the task's result. Called by the executor when the
// exec stage resolves, before success hooks run.
func (ec *ExecutionContext[P]) SetReturnValue(v any) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.returnValue = v
}

// Err returns the recorded failure, if any.
func (ec *ExecutionContext[P]) Err() error {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return ec.err
}

// SetErr records a failure. Called by the executor before error hooks run.
func (ec *ExecutionContext[P]) SetErr(err error) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.err = err
}

// Runtimes returns a snapshot of the current pass's bookkeeping.
func (ec *ExecutionContext[P]) Runtimes() HookRuntimes {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return ec.runtimes
}

// MergeRuntimes shallow-merges the non-nil fields of patch into the current
// runtimes. The runner maintains runtimes itself; this is for plugins that
// stamp extra bookkeeping (the field set is fixed, so unknown state belongs
// in the plugin, not here).
func (ec *ExecutionContext[P]) MergeRuntimes(patch HookRuntimesPatch) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if patch.PluginName != nil {
		ec.runtimes.PluginName = *patch.PluginName
	}
	if patch.HookName != nil {
		ec.runtimes.HookName = *patch.HookName
	}
	if patch.PluginIndex != nil {
		ec.runtimes.PluginIndex = *patch.PluginIndex
	}
	if patch.Times != nil {
		ec.runtimes.Times = *patch.Times
	}
	if patch.BreakChain != nil {
		ec.runtimes.BreakChain = *patch.BreakChain
	}
	if patch.ReturnBreakChain != nil {
		ec.runtimes.ReturnBreakChain = *patch.ReturnBreakChain
	}
	if patch.ReturnValue != nil {
		ec.runtimes.ReturnValue = patch.ReturnValue
	}
}

// -----------------------------------------------------------------------------
// Runner-side mutation
// -----------------------------------------------------------------------------

// resetRuntimes starts a fresh pass for the named hook.
func (ec *ExecutionContext[P]) resetRuntimes(hook string) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.runtimes = HookRuntimes{
		HookName:    hook,
		PluginIndex: -1,
	}
}

// noteInvocation records that the plugin at index was invoked.
func (ec *ExecutionContext[P]) noteInvocation(pluginName string, index int) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.runtimes.PluginName = pluginName
	ec.runtimes.PluginIndex = index
	ec.runtimes.Times++
}

// noteValue records a callback's non-nil return value as the pass's running
// result.
func (ec *ExecutionContext[P]) noteValue(v any) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.runtimes.ReturnValue = v
}

// noteBreak marks the pass as ended early without a fixed result.
func (ec *ExecutionContext[P]) noteBreak() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.runtimes.BreakChain = true
}

// noteReturnBreak marks the pass as ended early with its result fixed to v.
func (ec *ExecutionContext[P]) noteReturnBreak(v any) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.runtimes.ReturnBreakChain = true
	ec.runtimes.ReturnValue = v
}
