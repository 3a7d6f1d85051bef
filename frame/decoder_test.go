package frame

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func payloads(frames []Frame) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Payload)
	}
	return out
}

func TestDecoder_Feed(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{
			name:   "single complete frame",
			chunks: []string{"data: {\"type\":\"content\"}\n"},
			want:   []string{`{"type":"content"}`},
		},
		{
			name:   "many frames in one chunk",
			chunks: []string{"data: a\ndata: b\ndata: c\n"},
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "frame split across many chunks",
			chunks: []string{"da", "ta: {\"typ", "e\":\"content\"}", "\n"},
			want:   []string{`{"type":"content"}`},
		},
		{
			name:   "chunk with zero complete frames",
			chunks: []string{"data: partial"},
			want:   nil,
		},
		{
			name:   "blank keep-alive lines ignored",
			chunks: []string{"\n\ndata: a\n\n"},
			want:   []string{"a"},
		},
		{
			name:   "non-matching lines discarded",
			chunks: []string{": comment\nevent: other\ndata: a\n"},
			want:   []string{"a"},
		},
		{
			name:   "crlf terminators",
			chunks: []string{"data: a\r\ndata: b\r\n"},
			want:   []string{"a", "b"},
		},
		{
			name:   "sentinel stops emission with bytes remaining",
			chunks: []string{"data: a\ndata: [DONE]\ndata: late\n"},
			want:   []string{"a", "[DONE]"},
		},
		{
			name:   "nothing after sentinel across chunks",
			chunks: []string{"data: [DONE]\n", "data: late\n"},
			want:   []string{"[DONE]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(discardLogger())

			var got []string
			for _, chunk := range tt.chunks {
				got = append(got, payloads(d.FeedString(chunk))...)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

// TestDecoder_ChunkBoundaryInvariance feeds the same stream at every
// possible two-chunk split and requires the identical frame sequence.
func TestDecoder_ChunkBoundaryInvariance(t *testing.T) {
	stream := "data: {\"type\":\"content\",\"content\":\"Hel\"}\n" +
		"\n" +
		"data: {\"type\":\"schema\",\"schema\":{\"name\":\"Foo\"}}\n" +
		"data: [DONE]\n"

	whole := NewDecoder(discardLogger())
	want := payloads(whole.FeedString(stream))
	require.NotEmpty(t, want)

	for i := 0; i <= len(stream); i++ {
		d := NewDecoder(discardLogger())
		got := payloads(d.FeedString(stream[:i]))
		got = append(got, payloads(d.FeedString(stream[i:]))...)
		require.Equalf(t, want, got, "split at byte %d", i)
	}

	// Byte-at-a-time is the worst case.
	d := NewDecoder(discardLogger())
	var got []string
	for i := 0; i < len(stream); i++ {
		got = append(got, payloads(d.FeedString(stream[i:i+1]))...)
	}
	require.Equal(t, want, got)
}

func TestDecoder_CloseDiscardsPartialTail(t *testing.T) {
	d := NewDecoder(discardLogger())

	frames := d.FeedString("data: a\ndata: unterminated")
	assert.Equal(t, []string{"a"}, payloads(frames))

	d.Close()
	assert.True(t, d.Done())
	assert.Empty(t, d.FeedString("rest\n"))
}

func TestDecoder_FeedAfterSentinelReturnsNothing(t *testing.T) {
	d := NewDecoder(discardLogger())

	d.FeedString("data: [DONE]\n")
	assert.True(t, d.Done())
	assert.Empty(t, d.FeedString("data: a\n"))
}
