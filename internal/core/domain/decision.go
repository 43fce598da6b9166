package domain

import "time"

// Action tells the playback controller what to do after a reported failure.
type Action string

const (
	ActionRetry               Action = "retry"
	ActionSkip                Action = "skip"
	ActionRequireIntervention Action = "require_intervention"
)

// Decision is the engine's verdict for a single failure report. For
// ActionRetry, Delay is how long the caller should wait before retrying.
// For ActionRequireIntervention it is the time remaining until automatic
// progression resumes. The caller owns the timer; the engine never sleeps.
type Decision struct {
	Action Action        `json:"action"`
	Kind   ErrorKind     `json:"kind"`
	Delay  time.Duration `json:"delay"`
}

// StatusLevel is the severity shown by the UI status indicator.
type StatusLevel string

const (
	StatusNone     StatusLevel = "none"
	StatusInfo     StatusLevel = "info"
	StatusWarning  StatusLevel = "warning"
	StatusCritical StatusLevel = "critical"
)

// StatusView is a read-only snapshot of the engine's health for display.
type StatusView struct {
	Level            StatusLevel `json:"level"`
	Message          string      `json:"message"`
	RemainingSeconds float64     `json:"remaining_seconds"`
}
