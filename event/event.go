// Package event defines the typed domain events decoded from stream frames
// and the classifier that produces them.
package event

import (
	"encoding/json"

	"github.com/forgeui/streamfeed/artifact"
)

// Type represents the type of domain event.
type Type string

const (
	// TypeContentDelta carries incremental text for the active step.
	TypeContentDelta Type = "content_delta"

	// TypeArtifactCreated carries a structural object discovered mid-stream.
	TypeArtifactCreated Type = "artifact_created"

	// TypeStreamEnd marks the end of the stream. Terminal: no further
	// events follow for the request.
	TypeStreamEnd Type = "stream_end"

	// TypeStreamError signals stream failure. Terminal, like TypeStreamEnd.
	TypeStreamError Type = "stream_error"
)

// Event is a typed, application-level event decoded from a frame payload.
type Event interface {
	Type() Type
}

// ContentDelta is incremental text to append to the currently active step.
type ContentDelta struct {
	Text string
}

func (e *ContentDelta) Type() Type {
	return TypeContentDelta
}

// ArtifactCreated is a structural object (schema or component) emitted
// mid-stream.
type ArtifactCreated struct {
	Kind    artifact.Kind
	Name    string
	Payload json.RawMessage
}

func (e *ArtifactCreated) Type() Type {
	return TypeArtifactCreated
}

// StreamEnd is the terminal success marker.
type StreamEnd struct{}

func (e *StreamEnd) Type() Type {
	return TypeStreamEnd
}

// StreamError is the terminal failure marker. It covers both explicit
// server-signaled failure and transport failure translated at the decoding
// boundary; consumers never distinguish the two.
type StreamError struct {
	Message string
}

func (e *StreamError) Type() Type {
	return TypeStreamError
}
