// Package tt provides shared test helpers: a thread-safe call recorder
// and plugin factories that trace or fail hook passes.
package tt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Recorder collects call labels in order. Safe for concurrent use so
// traced plugins can run from any goroutine.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Add appends a label to the call log.
func (r *Recorder) Add(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, label)
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset clears the call log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// AssertCalls asserts the recorded call log equals expected, in order.
func AssertCalls(t *testing.T, r *Recorder, expected ...string) {
	t.Helper()
	assert.Equal(t, expected, r.Calls())
}
