package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action is a control-plane operation recorded in the audit trail
type Action string

const (
	ActionAddSwitch      Action = "add_switch"
	ActionAddLink        Action = "add_link"
	ActionRemoveLink     Action = "remove_link"
	ActionLinkFailure    Action = "link_failure"
	ActionAddFlow        Action = "add_flow"
	ActionRemoveFlow     Action = "remove_flow"
	ActionClearFlowTable Action = "clear_flow_table"
)

// ResourceType is the kind of object an action touched
type ResourceType string

const (
	ResourceSwitch    ResourceType = "switch"
	ResourceLink      ResourceType = "link"
	ResourceFlow      ResourceType = "flow"
	ResourceFlowTable ResourceType = "flow_table"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event represents a single audit log entry
type Event struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Actor        string         `json:"actor,omitempty"`
	Action       Action         `json:"action"`
	ResourceType ResourceType   `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Status       Status         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Filter represents filtering criteria for audit events
type Filter struct {
	Actor        string
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	Status       Status
	StartTime    *time.Time
	EndTime      *time.Time
}

func (f *Filter) matches(e *Event) bool {
	if f == nil {
		return true
	}
	switch {
	case f.Actor != "" && e.Actor != f.Actor:
		return false
	case f.Action != "" && e.Action != f.Action:
		return false
	case f.ResourceType != "" && e.ResourceType != f.ResourceType:
		return false
	case f.ResourceID != "" && e.ResourceID != f.ResourceID:
		return false
	case f.Status != "" && e.Status != f.Status:
		return false
	case f.StartTime != nil && e.Timestamp.Before(*f.StartTime):
		return false
	case f.EndTime != nil && e.Timestamp.After(*f.EndTime):
		return false
	}
	return true
}

// Logger keeps the most recent events in a fixed-size circular buffer
type Logger struct {
	events     []*Event
	bufferSize int
	index      int
	count      int
	total      int64
	mu         sync.RWMutex
}

// NewLogger creates an audit logger holding at most bufferSize events.
// A non-positive size falls back to 1000.
func NewLogger(bufferSize int) *Logger {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Logger{
		events:     make([]*Event, bufferSize),
		bufferSize: bufferSize,
	}
}

// Log records an audit event, filling in ID and timestamp when unset
func (l *Logger) Log(event *Event) {
	if l == nil || event == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	l.events[l.index] = event
	l.index = (l.index + 1) % l.bufferSize
	if l.count < l.bufferSize {
		l.count++
	}
	l.total++
}

// Record is shorthand for logging the outcome of an action; a nil err
// records success.
func (l *Logger) Record(actor string, action Action, resource ResourceType, id string, err error, metadata map[string]any) {
	e := &Event{
		Actor:        actor,
		Action:       action,
		ResourceType: resource,
		ResourceID:   id,
		Status:       StatusSuccess,
		Metadata:     metadata,
	}
	if err != nil {
		e.Status = StatusFailure
		e.ErrorMessage = err.Error()
	}
	l.Log(e)
}

// GetEvents returns stored events oldest first, optionally filtered
func (l *Logger) GetEvents(filter *Filter) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Event, 0, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.index - l.count + i + l.bufferSize) % l.bufferSize
		event := l.events[idx]
		if event == nil || !filter.matches(event) {
			continue
		}
		result = append(result, event)
	}
	return result
}

// GetRecentEvents returns the n most recent events, newest first
func (l *Logger) GetRecentEvents(n int) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > l.count {
		n = l.count
	}
	if n < 0 {
		n = 0
	}

	result := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.index - 1 - i + l.bufferSize) % l.bufferSize
		if l.events[idx] != nil {
			result = append(result, l.events[idx])
		}
	}
	return result
}

// GetEventCount returns the number of events currently stored
func (l *Logger) GetEventCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// TotalLogged returns the number of events ever logged, including evicted ones
func (l *Logger) TotalLogged() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// Clear removes all events from the logger
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = make([]*Event, l.bufferSize)
	l.index = 0
	l.count = 0
}

// String returns a human-readable representation of an event
func (e *Event) String() string {
	actor := e.Actor
	if actor == "" {
		actor = "system"
	}
	s := fmt.Sprintf("[%s] %s %s %s %s (status: %s)",
		e.Timestamp.Format(time.RFC3339),
		actor,
		e.Action,
		e.ResourceType,
		e.ResourceID,
		e.Status,
	)
	if e.ErrorMessage != "" {
		s += ": " + e.ErrorMessage
	}
	return s
}
