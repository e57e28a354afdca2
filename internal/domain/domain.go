package domain

import (
	"time"

	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

// Snapshot captures the result of one fetch of a traffic API endpoint.
type Snapshot struct {
	ID         string          `json:"id"`
	Endpoint   string          `json:"endpoint"`
	StatusCode int             `json:"status_code"`
	Records    []reader.Record `json:"records"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Duration   time.Duration   `json:"duration"`
}

// OK reports whether the fetch produced a usable response.
func (s *Snapshot) OK() bool {
	return s.Error == "" && s.StatusCode >= 200 && s.StatusCode < 300
}

// EventType identifies fetch lifecycle events.
type EventType string

const (
	EventTypeFetchRequested EventType = "fetch.requested"
	EventTypeFetchSucceeded EventType = "fetch.succeeded"
	EventTypeFetchFailed    EventType = "fetch.failed"
)

// Event is published on the event bus for every fetch state change.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Endpoint  string                 `json:"endpoint"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
