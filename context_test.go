package hookgate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecutionContext_Defaults(t *testing.T) {
	ec := NewExecutionContext("login", map[string]any{"user": "ada"})

	assert.NotEmpty(t, ec.ID())
	assert.Equal(t, "login", ec.Name())
	assert.Equal(t, map[string]any{"user": "ada"}, ec.Params())
	assert.Nil(t, ec.ReturnValue())
	assert.NoError(t, ec.Err())

	rt := ec.Runtimes()
	assert.Equal(t, -1, rt.PluginIndex)
	assert.Equal(t, 0, rt.Times)
	assert.False(t, rt.BreakChain)
	assert.False(t, rt.ReturnBreakChain)
}

func TestExecutionContext_UniqueIDs(t *testing.T) {
	a := NewExecutionContext("a", 0)
	b := NewExecutionContext("b", 0)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestExecutionContext_SettersAndAccessors(t *testing.T) {
	ec := NewExecutionContext("test", map[string]any{})

	ec.SetParams(map[string]any{"k": "v"})
	assert.Equal(t, map[string]any{"k": "v"}, ec.Params())

	ec.SetReturnValue("result")
	assert.Equal(t, "result", ec.ReturnValue())

	boom := errors.New("boom")
	ec.SetErr(boom)
	assert.ErrorIs(t, ec.Err(), boom)
}

func TestMergeRuntimes_ShallowMergesOnlyProvidedFields(t *testing.T) {
	ec := NewExecutionContext("test", map[string]any{})
	ec.resetRuntimes(HookBefore)
	ec.noteInvocation("a", 0)

	times := 7
	brk := true
	ec.MergeRuntimes(HookRuntimesPatch{
		Times:       &times,
		BreakChain:  &brk,
		ReturnValue: "patched",
	})

	rt := ec.Runtimes()
	assert.Equal(t, 7, rt.Times)
	assert.True(t, rt.BreakChain)
	assert.Equal(t, "patched", rt.ReturnValue)

	// Untouched fields survive the merge.
	assert.Equal(t, "a", rt.PluginName)
	assert.Equal(t, 0, rt.PluginIndex)
	assert.Equal(t, HookBefore, rt.HookName)
	assert.False(t, rt.ReturnBreakChain)
}

func TestResetRuntimes_ClearsEverything(t *testing.T) {
	ec := NewExecutionContext("test", map[string]any{})
	ec.noteInvocation("a", 3)
	ec.noteValue("v")
	ec.noteBreak()
	ec.noteReturnBreak("fixed")

	ec.resetRuntimes(HookSuccess)

	rt := ec.Runtimes()
	require.Equal(t, HookRuntimes{HookName: HookSuccess, PluginIndex: -1}, rt)
}

func TestRuntimes_ReturnsSnapshot(t *testing.T) {
	ec := NewExecutionContext("test", map[string]any{})
	ec.resetRuntimes(HookBefore)

	snap := ec.Runtimes()
	ec.noteInvocation("a", 0)

	assert.Equal(t, 0, snap.Times, "snapshot must not alias live state")
	assert.Equal(t, 1, ec.Runtimes().Times)
}
