package step

import (
	"time"

	"github.com/google/uuid"
)

// implicitTitle names the step created when content arrives with no step
// open. A well-formed stream opens a step first; the implicit step keeps
// orphaned content visible instead of dropping it.
const implicitTitle = "Response"

// Machine exclusively owns the ordered step list for one session.
//
// The machine is unsynchronized: all mutation happens on the single
// goroutine that drives a stream, and the owning session serializes
// observer access.
type Machine struct {
	steps   []Step
	nextSeq int
}

// NewMachine creates an empty step machine.
func NewMachine() *Machine {
	return &Machine{nextSeq: 1}
}

// StartStep appends a new processing step and returns a copy of it.
// Sequence numbers are strictly increasing and never reused within a
// session run. If a previous step is somehow still processing, it is
// completed first so that at most one step is ever open.
func (m *Machine) StartStep(title string) Step {
	if i := m.activeIndex(); i >= 0 {
		m.steps[i].Status = StatusSuccess
	}

	s := Step{
		ID:             uuid.New(),
		SequenceNumber: m.nextSeq,
		Title:          title,
		Status:         StatusProcessing,
		CreatedAt:      time.Now(),
	}
	m.nextSeq++
	m.steps = append(m.steps, s)
	return s
}

// AppendToActiveStep concatenates text into the active step's content.
// If no step is processing, a new step is created to hold the content.
func (m *Machine) AppendToActiveStep(text string) {
	i := m.activeIndex()
	if i < 0 {
		m.StartStep(implicitTitle)
		i = len(m.steps) - 1
	}
	m.steps[i].Content += text
}

// CompleteActiveStep transitions the active step to success. An empty
// finalTitle keeps the step's existing title. A no-op when no step is
// processing.
func (m *Machine) CompleteActiveStep(finalTitle string) {
	i := m.activeIndex()
	if i < 0 {
		return
	}
	if finalTitle != "" {
		m.steps[i].Title = finalTitle
	}
	m.steps[i].Status = StatusSuccess
}

// FailActiveStep transitions the active step to error and sets its content
// to the failure message. Terminal: retrying the underlying operation means
// starting a brand-new step. If no step is processing, one is created so
// the failure is always visible.
func (m *Machine) FailActiveStep(message string) {
	i := m.activeIndex()
	if i < 0 {
		m.StartStep(implicitTitle)
		i = len(m.steps) - 1
	}
	m.steps[i].Content = message
	m.steps[i].Status = StatusError
}

// Active returns a copy of the active (processing) step, if any.
func (m *Machine) Active() (Step, bool) {
	if i := m.activeIndex(); i >= 0 {
		return m.steps[i], true
	}
	return Step{}, false
}

// Steps returns a snapshot of all steps in sequence order.
func (m *Machine) Steps() []Step {
	out := make([]Step, len(m.steps))
	copy(out, m.steps)
	return out
}

// Len returns the number of steps.
func (m *Machine) Len() int {
	return len(m.steps)
}

// Reset clears all steps and starts a fresh session counter. Used only on
// explicit user action, never automatically mid-stream.
func (m *Machine) Reset() {
	m.steps = nil
	m.nextSeq = 1
}

// activeIndex returns the index of the processing step, or -1. Only the
// most recently created step can be processing.
func (m *Machine) activeIndex() int {
	if n := len(m.steps); n > 0 && m.steps[n-1].Status == StatusProcessing {
		return n - 1
	}
	return -1
}
