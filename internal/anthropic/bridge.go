// Package anthropic adapts Anthropic SDK streaming events into streamfeed
// domain events, so a dashboard wired directly to the vendor API drives the
// same session path as the app's own streaming endpoint.
package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/forgeui/streamfeed/event"
)

// Convert maps one SDK streaming event to a domain event. Returns nil for
// events with no domain counterpart (message metadata, tool deltas, unknown
// future event types); callers drop nil without error.
func Convert(ev anthropic.MessageStreamEventUnion) event.Event {
	switch e := ev.AsAny().(type) {
	case anthropic.ContentBlockDeltaEvent:
		switch delta := e.Delta.AsAny().(type) {
		case anthropic.TextDelta:
			return &event.ContentDelta{Text: delta.Text}
		}
		return nil

	case anthropic.MessageStopEvent:
		return &event.StreamEnd{}

	default:
		// Ignore unknown events
		return nil
	}
}
