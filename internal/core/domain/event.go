package domain

import "time"

// ErrorEvent records a single playback failure. Events are immutable once
// created and are kept in a bounded chronological log for diagnostics.
type ErrorEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Index     int       `json:"playlist_index"`
	URL       string    `json:"url"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Attempt   int       `json:"attempt"`
}
