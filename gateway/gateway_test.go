package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvillano/hookgate"
)

func push(calls *[]string, label string) hookgate.HookFunc[Params] {
	return func(ctx context.Context, ec *Context, args ...any) (hookgate.HookResult, error) {
		*calls = append(*calls, label)
		return hookgate.Continue(), nil
	}
}

// -----------------------------------------------------------------------------
// Action Hook Order Tests
// -----------------------------------------------------------------------------

func TestExec_ActionHookOrder(t *testing.T) {
	var calls []string
	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			calls = append(calls, "task")
			return "token", nil
		},
	}).Use(
		hookgate.NewPlugin[Params]("a").
			On(hookgate.HookBefore, push(&calls, "a.onBefore")).
			On("onLoginBefore", push(&calls, "a.onLoginBefore")).
			On("onLoginSuccess", push(&calls, "a.onLoginSuccess")).
			On(hookgate.HookSuccess, push(&calls, "a.onSuccess")),
		hookgate.NewPlugin[Params]("b").
			On(hookgate.HookBefore, push(&calls, "b.onBefore")).
			On("onLoginBefore", push(&calls, "b.onLoginBefore")).
			On("onLoginSuccess", push(&calls, "b.onLoginSuccess")).
			On(hookgate.HookSuccess, push(&calls, "b.onSuccess")),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	result, err := gw.Exec(context.Background(), "login", ec)

	require.NoError(t, err)
	assert.Equal(t, "token", result)
	assert.Equal(t, []string{
		"a.onBefore", "b.onBefore",
		"a.onLoginBefore", "b.onLoginBefore",
		"task",
		"a.onLoginSuccess", "b.onLoginSuccess",
		"a.onSuccess", "b.onSuccess",
	}, calls)
}

func TestExec_GeneralPassCompletesBeforeActionPass(t *testing.T) {
	// Plugin A defines both general and action-specific before hooks; plugin
	// B only the general one. All general hooks run before any action hook.
	var calls []string
	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return nil, nil
		},
	}).Use(
		hookgate.NewPlugin[Params]("A").
			On(hookgate.HookBefore, push(&calls, "A")).
			On("onLoginBefore", push(&calls, "A2")),
		hookgate.NewPlugin[Params]("B").
			On(hookgate.HookBefore, push(&calls, "B")),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	_, err := gw.Exec(context.Background(), "login", ec)

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A2"}, calls)
}

func TestExec_EmptyActionRunsGeneralPassesTwice(t *testing.T) {
	var beforeCalls int
	gw := New(ServiceMap{}).Use(
		hookgate.NewPlugin[Params]("p").On(hookgate.HookBefore, func(
			ctx context.Context, ec *Context, args ...any,
		) (hookgate.HookResult, error) {
			beforeCalls++
			return hookgate.Continue(), nil
		}),
	)

	ec := hookgate.NewExecutionContext("", Params{})
	_, err := gw.Exec(context.Background(), "", ec)

	require.NoError(t, err)
	assert.Equal(t, 2, beforeCalls,
		"the empty action derives onBefore, colliding with the general pass")
}

// -----------------------------------------------------------------------------
// Error Routing Tests
// -----------------------------------------------------------------------------

func TestExec_TaskErrorFiresGeneralErrorPassOnce(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return nil, boom
		},
	}).Use(
		hookgate.NewPlugin[Params]("e").On(hookgate.HookError, push(&calls, "E")),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	_, err := gw.Exec(context.Background(), "login", ec)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"E"}, calls, "error hooks fire exactly once")
	assert.ErrorIs(t, ec.Err(), boom)
}

func TestExecNoError_ReturnsErrorObjectAndFiresErrorPassOnce(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return nil, boom
		},
	}).Use(
		hookgate.NewPlugin[Params]("e").On(hookgate.HookError, push(&calls, "E")),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	result := gw.ExecNoError(context.Background(), "login", ec)

	assert.Equal(t, boom, result)
	assert.Equal(t, []string{"E"}, calls)
}

func TestExec_NoActionSpecificErrorStage(t *testing.T) {
	// Per-action error handling branches on the context name inside onError.
	boom := errors.New("boom")
	var seenAction string

	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return nil, boom
		},
	}).Use(
		hookgate.NewPlugin[Params]("e").
			On("onLoginError", push(new([]string), "never")).
			On(hookgate.HookError, func(
				ctx context.Context, ec *Context, args ...any,
			) (hookgate.HookResult, error) {
				seenAction = ec.Name()
				return hookgate.Continue(), nil
			}),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	_, err := gw.Exec(context.Background(), "login", ec)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "login", seenAction)
}

func TestExec_SuccessHookErrorDoesNotFireErrorPass(t *testing.T) {
	boom := errors.New("success hook failed")
	var errorCalls int

	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return "token", nil
		},
	}).Use(
		hookgate.NewPlugin[Params]("p").
			On("onLoginSuccess", func(
				ctx context.Context, ec *Context, args ...any,
			) (hookgate.HookResult, error) {
				return hookgate.Continue(), boom
			}).
			On(hookgate.HookError, func(
				ctx context.Context, ec *Context, args ...any,
			) (hookgate.HookResult, error) {
				errorCalls++
				return hookgate.Continue(), nil
			}),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	_, err := gw.Exec(context.Background(), "login", ec)

	assert.ErrorIs(t, err, boom, "the call fails even though the task resolved")
	assert.Equal(t, 0, errorCalls, "error hooks are not invoked for success-pass failures")
	assert.Equal(t, "token", ec.ReturnValue())
}

// -----------------------------------------------------------------------------
// Task Resolution Tests
// -----------------------------------------------------------------------------

func TestExec_UnboundActionYieldsNil(t *testing.T) {
	var hooksRan bool
	gw := New(ServiceMap{}).Use(
		hookgate.NewPlugin[Params]("p").On(hookgate.HookSuccess, func(
			ctx context.Context, ec *Context, args ...any,
		) (hookgate.HookResult, error) {
			hooksRan = true
			return hookgate.Continue(), nil
		}),
	)

	ec := hookgate.NewExecutionContext("unknown", Params{})
	result, err := gw.Exec(context.Background(), "unknown", ec)

	require.NoError(t, err, "a missing action is not an error")
	assert.Nil(t, result)
	assert.True(t, hooksRan, "the lifecycle still runs")
}

func TestExecTask_ExplicitTaskOverridesServiceMap(t *testing.T) {
	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return "from-service", nil
		},
	})

	ec := hookgate.NewExecutionContext("login", Params{})
	result, err := gw.ExecTask(context.Background(), "login", ec, func(
		ctx context.Context, ec *Context,
	) (any, error) {
		return "explicit", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "explicit", result)
}

func TestExec_SealedStageIgnoresExecHooks(t *testing.T) {
	var intercepted bool
	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return "real", nil
		},
	}).Use(
		hookgate.NewPlugin[Params]("interceptor").On(hookgate.HookExec, func(
			ctx context.Context, ec *Context, args ...any,
		) (hookgate.HookResult, error) {
			intercepted = true
			return hookgate.ContinueWith("intercepted"), nil
		}),
	)

	ec := hookgate.NewExecutionContext("login", Params{})
	result, err := gw.Exec(context.Background(), "login", ec)

	require.NoError(t, err)
	assert.Equal(t, "real", result, "the task always actually executes")
	assert.False(t, intercepted)
}

func TestExec_HooksMayMutateParams(t *testing.T) {
	gw := New(ServiceMap{
		"login": func(ctx context.Context, ec *Context) (any, error) {
			return ec.Params()["username"], nil
		},
	}).Use(
		hookgate.NewPlugin[Params]("normalizer").On(hookgate.HookBefore, func(
			ctx context.Context, ec *Context, args ...any,
		) (hookgate.HookResult, error) {
			p := ec.Params()
			if u, ok := p["username"].(string); ok {
				p["username"] = "normalized:" + u
			}
			return hookgate.Continue(), nil
		}),
	)

	ec := hookgate.NewExecutionContext("login", Params{"username": "Ada"})
	result, err := gw.Exec(context.Background(), "login", ec)

	require.NoError(t, err)
	assert.Equal(t, "normalized:Ada", result)
}
