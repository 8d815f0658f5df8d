// Package schema provides a parameter-validation plugin backed by compiled
// JSON Schema. Invalid parameters fail the call through the normal error
// path before the task runs.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/jvillano/hookgate"
)

// ValidationError wraps a JSON Schema validation failure.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a validator.
func Compile(raw map[string]any) (*jsonschema.Schema, error) {
	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// New returns a plugin validating map-shaped parameters against raw in the
// general before pass. A failing validation fails the call; the task does
// not run and error hooks fire.
//
// When the gateway mixes several actions over one plugin list, bind the
// validation to one action instead with [ForAction].
func New[P ~map[string]any](raw map[string]any) (*hookgate.Plugin[P], error) {
	return newPlugin[P](raw, hookgate.HookBefore)
}

// ForAction is [New] bound to the action's derived before hook, so only that
// action's parameters are validated.
func ForAction[P ~map[string]any](action string, raw map[string]any) (*hookgate.Plugin[P], error) {
	return newPlugin[P](raw, hookgate.HookName(action, hookgate.PhaseBefore))
}

// MustNew is [New] panicking on a bad schema. Use for schemas defined at
// init time.
func MustNew[P ~map[string]any](raw map[string]any) *hookgate.Plugin[P] {
	p, err := New[P](raw)
	if err != nil {
		panic(err)
	}
	return p
}

func newPlugin[P ~map[string]any](raw map[string]any, hook string) (*hookgate.Plugin[P], error) {
	compiled, err := Compile(raw)
	if err != nil {
		return nil, err
	}
	p := hookgate.NewPlugin[P]("schema").
		On(hook, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			if err := compiled.Validate(map[string]any(ec.Params())); err != nil {
				return hookgate.Continue(), &ValidationError{Err: err}
			}
			return hookgate.Continue(), nil
		})
	return p, nil
}
