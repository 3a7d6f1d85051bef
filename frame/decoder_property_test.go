//go:build property
// +build property

package frame

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDecoder_SplitInvarianceProperty verifies that for any sequence of
// chunk splits of a well-formed stream, the decoder yields the identical
// frame sequence.
// Property: decode(chunks(stream, splits)) == decode(stream)
func TestDecoder_SplitInvarianceProperty(t *testing.T) {
	stream := "data: {\"type\":\"content\",\"content\":\"Hel\"}\n" +
		"data: {\"type\":\"content\",\"content\":\"lo\"}\n" +
		": keep-alive\n" +
		"data: {\"type\":\"component\",\"component\":{\"name\":\"Card\"}}\n" +
		"data: [DONE]\n"

	whole := NewDecoder(discardLogger())
	want := payloads(whole.FeedString(stream))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("decoded frames are split-invariant", prop.ForAll(
		func(cuts []int) bool {
			// Normalize cut points into ordered split offsets.
			offsets := make(map[int]bool)
			for _, c := range cuts {
				if c < 0 {
					c = -c
				}
				offsets[c%len(stream)] = true
			}

			d := NewDecoder(discardLogger())
			var got []string
			prev := 0
			for i := 0; i <= len(stream); i++ {
				if i == len(stream) || offsets[i] {
					got = append(got, payloads(d.FeedString(stream[prev:i]))...)
					prev = i
				}
			}

			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(stream))),
	))

	properties.TestingRun(t)
}
