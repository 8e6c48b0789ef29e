package models

import "time"

// Invocation is one journaled command dispatch. It records counts only; the
// location and query of a search are never stored.
type Invocation struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	Client      string    `json:"client,omitempty"` // session client, empty when auth is off
	Status      string    `json:"status"`           // ok, error
	DurationMS  int64     `json:"duration_ms"`
	ResultCount int       `json:"result_count"`
	Skipped     int       `json:"skipped"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	InvocationOK    = "ok"
	InvocationError = "error"
)
