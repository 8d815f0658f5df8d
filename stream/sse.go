package stream

import (
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Event is one server-sent event assembled from a stream.
type Event struct {
	// Name is the value of the last "event:" field, empty when the
	// server sent none.
	Name string

	// Data is the event payload. Multiple "data:" lines are joined
	// with '\n', matching how EventSource reassembles them.
	Data string

	// ID is the value of the last "id:" field, if any.
	ID string

	// Retry is the value of the last "retry:" field in milliseconds,
	// zero when absent or unparseable.
	Retry int
}

// JSONField reads a field from a JSON data payload using a gjson path,
// e.g. "choices.0.delta.content". Returns "" when the payload is not
// JSON or the path does not resolve.
func (e Event) JSONField(path string) string {
	return gjson.Get(e.Data, path).String()
}

// SSESplitter splits a chunked server-sent-events stream into events.
// An event ends at a blank line; "event:", "data:", "id:" and "retry:"
// fields are collected, comment lines (leading ':') are ignored.
type SSESplitter struct {
	mu    sync.Mutex
	lines LineSplitter

	name     string
	data     []string
	id       string
	retry    int
	hasField bool
}

// NewSSESplitter creates an empty splitter.
func NewSSESplitter() *SSESplitter {
	return &SSESplitter{}
}

// Feed appends chunk to the stream and returns all events completed by
// it, in order. Returns nil when no event completed.
func (s *SSESplitter) Feed(chunk string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []Event
	for _, line := range s.lines.Feed(chunk) {
		if ev, ok := s.consume(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Flush dispatches the partially accumulated event, if any. Servers
// that close the connection without a trailing blank line still get
// their last event delivered this way.
func (s *SSESplitter) Flush() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tail, ok := s.lines.Flush(); ok {
		s.consume(tail)
	}
	if !s.hasField {
		return Event{}, false
	}
	return s.dispatch(), true
}

func (s *SSESplitter) consume(line string) (Event, bool) {
	if line == "" {
		if !s.hasField {
			return Event{}, false
		}
		return s.dispatch(), true
	}
	if strings.HasPrefix(line, ":") {
		// Comment, often used as a keep-alive.
		return Event{}, false
	}

	field, value, found := strings.Cut(line, ":")
	if !found {
		// A bare field name counts as a field with an empty value.
		field = line
		value = ""
	}
	value = strings.TrimPrefix(value, " ")

	switch field {
	case "event":
		s.name = value
	case "data":
		s.data = append(s.data, value)
	case "id":
		s.id = value
	case "retry":
		if ms, err := strconv.Atoi(value); err == nil {
			s.retry = ms
		}
	default:
		// Unknown fields are ignored per the SSE processing model.
		return Event{}, false
	}
	s.hasField = true
	return Event{}, false
}

func (s *SSESplitter) dispatch() Event {
	ev := Event{
		Name:  s.name,
		Data:  strings.Join(s.data, "\n"),
		ID:    s.id,
		Retry: s.retry,
	}
	s.name = ""
	s.data = nil
	s.id = ""
	s.retry = 0
	s.hasField = false
	return ev
}
