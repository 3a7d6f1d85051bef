package event

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeui/streamfeed/artifact"
	"github.com/forgeui/streamfeed/frame"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
		dropped bool
	}{
		{
			name:    "content delta",
			payload: `{"type":"content","content":"Hello"}`,
			want:    &ContentDelta{Text: "Hello"},
		},
		{
			name:    "content delta with empty text",
			payload: `{"type":"content"}`,
			want:    &ContentDelta{Text: ""},
		},
		{
			name:    "schema artifact",
			payload: `{"type":"schema","schema":{"name":"Foo","fields":[]}}`,
			want: &ArtifactCreated{
				Kind:    artifact.KindSchema,
				Name:    "Foo",
				Payload: []byte(`{"name":"Foo","fields":[]}`),
			},
		},
		{
			name:    "component artifact",
			payload: `{"type":"component","component":{"name":"Card"}}`,
			want: &ArtifactCreated{
				Kind:    artifact.KindComponent,
				Name:    "Card",
				Payload: []byte(`{"name":"Card"}`),
			},
		},
		{
			name:    "sentinel yields stream end",
			payload: frame.Sentinel,
			want:    &StreamEnd{},
		},
		{
			name:    "unknown type dropped",
			payload: `{"type":"usage","tokens":12}`,
			dropped: true,
		},
		{
			name:    "missing type dropped",
			payload: `{"content":"orphan"}`,
			dropped: true,
		},
		{
			name:    "malformed json dropped",
			payload: `{"type":"content",`,
			dropped: true,
		},
		{
			name:    "opaque diagnostic text dropped",
			payload: "ping",
			dropped: true,
		},
		{
			name:    "schema without object payload dropped",
			payload: `{"type":"schema","schema":"not-an-object"}`,
			dropped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(discardLogger())

			got, ok := c.Classify(frame.Frame{Payload: tt.payload})
			if tt.dropped {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_NeverRaisesOnGarbage(t *testing.T) {
	c := NewClassifier(discardLogger())

	for _, payload := range []string{"", "{", "[]", "null", "true", `{"type":123}`} {
		ev, ok := c.Classify(frame.Frame{Payload: payload})
		assert.Nil(t, ev, "payload %q", payload)
		assert.False(t, ok, "payload %q", payload)
	}
}
