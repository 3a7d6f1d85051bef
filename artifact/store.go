// Package artifact retains structural objects discovered mid-stream.
package artifact

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what sort of structural object an artifact holds.
type Kind string

const (
	// KindSchema is a generated data schema.
	KindSchema Kind = "schema"

	// KindComponent is a generated UI component definition.
	KindComponent Kind = "component"
)

// IsValid returns true if the kind is a recognized artifact kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindSchema, KindComponent:
		return true
	default:
		return false
	}
}

// Artifact is a structural object emitted mid-stream. Immutable once
// recorded.
type Artifact struct {
	ID        uuid.UUID
	Kind      Kind
	Name      string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// Store is an ordered, append-only artifact collection.
//
// A Store is owned by a single session; the session serializes access, so
// the store itself is unsynchronized. Artifacts are never mutated or removed
// except by Clear, which the session invokes together with clearing its
// steps (they share the session lifecycle).
type Store struct {
	artifacts []Artifact
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Record appends an artifact in creation order and returns it.
func (s *Store) Record(kind Kind, name string, payload json.RawMessage) Artifact {
	a := Artifact{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	s.artifacts = append(s.artifacts, a)
	return a
}

// List returns a snapshot of the collection in creation order. The snapshot
// is a copy; iterating it repeatedly has no side effects on the store.
func (s *Store) List() []Artifact {
	out := make([]Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Len returns the number of recorded artifacts.
func (s *Store) Len() int {
	return len(s.artifacts)
}

// Clear removes all artifacts. Used only on explicit session clearing.
func (s *Store) Clear() {
	s.artifacts = nil
}
