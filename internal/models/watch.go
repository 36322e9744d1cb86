package models

import "time"

// WatchSnapshot is the watcher's view of the backend, served by the local
// relay.
type WatchSnapshot struct {
	Status      *ProxyStatus `json:"status"`
	StreamState string       `json:"stream_state"`
	UpdatedAt   time.Time    `json:"updated_at,omitzero"`
}

// Notification is a user-facing status change.
type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}
