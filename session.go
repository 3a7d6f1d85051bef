package streamfeed

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/forgeui/streamfeed/artifact"
	"github.com/forgeui/streamfeed/event"
	"github.com/forgeui/streamfeed/step"
)

// Session is the session-scoped aggregate a dashboard constructs at mount
// time and tears down at unmount. It exclusively owns one step machine and
// one artifact store; both share the session lifecycle and are cleared
// together.
//
// Mutation happens on the single goroutine driving a stream, but observers
// may read snapshots from elsewhere, so all access goes through one mutex.
type Session struct {
	id     uuid.UUID
	logger *slog.Logger

	mu        sync.Mutex
	machine   *step.Machine
	artifacts *artifact.Store
	observers []*observer
	nextObsID int64
}

type observer struct {
	fn func()
	id int64
}

// NewSession creates an empty session. A nil logger falls back to
// slog.Default().
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:        uuid.New(),
		logger:    logger,
		machine:   step.NewMachine(),
		artifacts: artifact.NewStore(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Begin opens a new feedback step for an incoming response. Optional: when
// the stream's first content arrives with no open step, one is created
// implicitly.
func (s *Session) Begin(title string) step.Step {
	s.mu.Lock()
	st := s.machine.StartStep(title)
	s.mu.Unlock()

	s.notify()
	return st
}

// Apply applies one decoded domain event: content deltas append to the
// active step, artifacts are recorded in creation order, stream end
// resolves the active step to success and stream error to error.
func (s *Session) Apply(ev event.Event) {
	s.mu.Lock()
	switch e := ev.(type) {
	case *event.ContentDelta:
		s.machine.AppendToActiveStep(e.Text)

	case *event.ArtifactCreated:
		s.artifacts.Record(e.Kind, e.Name, e.Payload)

	case *event.StreamEnd:
		s.machine.CompleteActiveStep("")

	case *event.StreamError:
		s.machine.FailActiveStep(e.Message)

	default:
		s.logger.Debug("ignoring unhandled event", "type", ev.Type())
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.notify()
}

// FailActive explicitly fails the active step. Used by callers that
// abandon a request and want the step resolved rather than left open.
func (s *Session) FailActive(message string) {
	s.mu.Lock()
	s.machine.FailActiveStep(message)
	s.mu.Unlock()

	s.notify()
}

// Steps returns a snapshot of the session's steps in sequence order.
func (s *Session) Steps() []step.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Steps()
}

// Artifacts returns a snapshot of recorded artifacts in creation order.
func (s *Session) Artifacts() []artifact.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifacts.List()
}

// OnChange registers an observer invoked after every state change. The UI
// subscribes and re-renders; observers must not mutate the session's state
// directly. Returns a function to unsubscribe.
func (s *Session) OnChange(fn func()) func() {
	s.mu.Lock()
	obs := &observer{fn: fn, id: s.nextObsID}
	s.nextObsID++
	s.observers = append(s.observers, obs)
	s.mu.Unlock()

	return func() { s.removeObserver(obs.id) }
}

func (s *Session) removeObserver(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, obs := range s.observers {
		if obs.id == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			break
		}
	}
}

// Clear atomically clears steps and artifacts together. Steps restart from
// a fresh sequence counter. Used only on explicit user action, never
// automatically mid-stream.
func (s *Session) Clear() {
	s.mu.Lock()
	s.machine.Reset()
	s.artifacts.Clear()
	s.mu.Unlock()

	s.notify()
}

// notify runs observers outside the state lock so they can take snapshots.
func (s *Session) notify() {
	s.mu.Lock()
	obs := make([]*observer, len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()

	for _, o := range obs {
		o.fn()
	}
}
