// Package stream provides incremental text-chunk splitters for streamed
// responses: a plain line splitter and an SSE event splitter.
//
// Splitters are fed arbitrary chunk boundaries (a line or event may span
// many chunks, or one chunk may carry many) and emit only completed units;
// the unterminated tail stays buffered until the next Feed or a Flush.
package stream

import (
	"strings"
	"sync"
)

// LineSplitter splits a chunked character stream into complete lines.
// A line ends at '\n'; a preceding '\r' is stripped. Safe for concurrent
// use, though chunks from one stream should be fed sequentially to keep
// their order.
type LineSplitter struct {
	mu   sync.Mutex
	rest string
}

// NewLineSplitter creates an empty splitter.
func NewLineSplitter() *LineSplitter {
	return &LineSplitter{}
}

// Feed appends chunk to the buffer and returns all newly completed lines,
// without their terminators. Returns nil when no line completed.
func (s *LineSplitter) Feed(chunk string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rest += chunk
	if !strings.Contains(s.rest, "\n") {
		return nil
	}

	parts := strings.Split(s.rest, "\n")
	s.rest = parts[len(parts)-1]

	lines := make([]string, 0, len(parts)-1)
	for _, line := range parts[:len(parts)-1] {
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}

// Flush returns the buffered unterminated tail and clears it. The boolean
// reports whether there was one.
func (s *LineSplitter) Flush() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rest == "" {
		return "", false
	}
	tail := strings.TrimSuffix(s.rest, "\r")
	s.rest = ""
	return tail, true
}
