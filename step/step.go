// Package step provides the ordered feedback-step state machine driven by
// decoded stream events.
//
// Each step progresses through a small state machine:
//
//	processing -> success    (stream completed, or a new step supersedes it)
//	processing -> error      (stream failed, or the caller failed it)
//
// Terminal states (success, error) cannot transition further; a terminal
// step never regresses to processing. At most one step is processing at a
// time: the active step, always the most recently created one.
package step

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a step.
type Status string

const (
	// StatusProcessing indicates the step is open and still receiving
	// content.
	StatusProcessing Status = "processing"

	// StatusSuccess indicates the step finished successfully.
	StatusSuccess Status = "success"

	// StatusError indicates the step failed. Its content holds the
	// failure message.
	StatusError Status = "error"
)

// IsTerminal returns true if the status is a terminal (final) status.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusError:
		return true
	default:
		return false
	}
}

// Step is one unit of user-visible incremental feedback.
//
// Steps are created with strictly increasing sequence numbers and, once
// created, mutate only by content append or a single terminal status
// transition. The UI renders history by sequence number.
type Step struct {
	ID             uuid.UUID
	SequenceNumber int
	Title          string
	Content        string
	Status         Status
	CreatedAt      time.Time
}
