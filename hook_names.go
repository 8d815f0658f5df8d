package hookgate

import (
	"unicode"
	"unicode/utf8"
)

// Hook name constants define the fixed general hook vocabulary.
//
// # Naming Convention
//
// Hook names follow the pattern "on" + optional capitalized action + phase:
//
//	onBefore         // general: before the task runs
//	onExec           // general: intercepts the exec stage (default stage only)
//	onSuccess        // general: after the task resolves
//	onError          // general: after any failure in before/exec/task
//	onLoginBefore    // action "login": before the task runs
//	onLoginSuccess   // action "login": after the task resolves
//
// Action-derived names are produced by [HookName]; plugins supply callbacks
// for whichever names they care about.
const (
	// HookBefore runs across all plugins before the task.
	HookBefore = "onBefore"

	// HookExec lets plugins intercept the exec stage. Only honored by the
	// executor's default stage; the gateway's sealed stage ignores it so the
	// task always actually executes.
	HookExec = "onExec"

	// HookSuccess runs across all plugins after the task resolves.
	HookSuccess = "onSuccess"

	// HookError runs across all plugins after a failure in the before pass,
	// the exec stage, or the task itself. There is no action-specific error
	// hook: consumers branch on the action name inside HookError.
	HookError = "onError"
)

// Phase is the lifecycle phase an action-derived hook name targets.
type Phase string

const (
	// PhaseBefore derives the action's pre-task hook name.
	PhaseBefore Phase = "Before"

	// PhaseSuccess derives the action's post-success hook name.
	PhaseSuccess Phase = "Success"
)

// HookName derives the per-action hook name for a phase: "on" + the action
// with its first rune uppercased + the phase.
//
//	HookName("login", PhaseBefore)    // "onLoginBefore"
//	HookName("getUser", PhaseBefore)  // "onGetUserBefore"
//	HookName("x", PhaseSuccess)       // "onXSuccess"
//
// An empty action derives "onBefore"/"onSuccess", colliding with the general
// hook names, so the general passes run twice for that call. This is a
// documented edge case, not silently special-cased; callers wanting distinct
// per-action hooks must pick non-empty action names.
func HookName(action string, phase Phase) string {
	return "on" + capitalize(action) + string(phase)
}

// capitalize uppercases only the first rune, leaving the rest unchanged.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}
