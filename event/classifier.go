package event

import (
	"encoding/json"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/forgeui/streamfeed/artifact"
	"github.com/forgeui/streamfeed/frame"
)

// Classifier parses frame payloads into domain events.
//
// Malformed payloads and unknown discriminators are dropped without an
// event and without an error: unrecognized future event types must never
// abort the stream. Drops are logged at debug level.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier creates a classifier. A nil logger falls back to
// slog.Default().
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Classify maps a frame to its domain event. The second return value is
// false when the frame was dropped.
//
// Mapping: the sentinel payload yields StreamEnd; a JSON object is switched
// on its "type" discriminator: "content" yields ContentDelta, "schema" and
// "component" yield ArtifactCreated with the payload taken from the
// same-named nested object. Everything else is dropped.
func (c *Classifier) Classify(f frame.Frame) (Event, bool) {
	if f.Payload == frame.Sentinel {
		return &StreamEnd{}, true
	}

	if !gjson.Valid(f.Payload) {
		c.logger.Debug("dropping malformed frame", "payload", f.Payload)
		return nil, false
	}

	switch gjson.Get(f.Payload, "type").String() {
	case "content":
		return &ContentDelta{Text: gjson.Get(f.Payload, "content").String()}, true

	case "schema":
		return c.artifactEvent(f.Payload, artifact.KindSchema, "schema")

	case "component":
		return c.artifactEvent(f.Payload, artifact.KindComponent, "component")

	default:
		c.logger.Debug("dropping frame with unknown type", "payload", f.Payload)
		return nil, false
	}
}

// artifactEvent extracts the nested object named after the discriminator.
func (c *Classifier) artifactEvent(payload string, kind artifact.Kind, field string) (Event, bool) {
	obj := gjson.Get(payload, field)
	if !obj.IsObject() {
		c.logger.Debug("dropping artifact frame without object payload", "kind", kind)
		return nil, false
	}
	return &ArtifactCreated{
		Kind:    kind,
		Name:    obj.Get("name").String(),
		Payload: json.RawMessage(obj.Raw),
	}, true
}
