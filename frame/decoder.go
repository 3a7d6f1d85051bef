// Package frame extracts discrete event frames from a chunked response
// stream.
//
// The wire format is newline-delimited text. Each meaningful line carries the
// "data: " prefix followed by a payload; every other line (blank keep-alives,
// comments) is discarded. Network chunk boundaries carry no meaning: a single
// chunk may contain zero, one, or many complete frames, and one frame may
// span many chunks. The Decoder reassembles frames regardless of how the
// bytes were divided.
package frame

import (
	"bytes"
	"log/slog"
	"strings"
)

// Prefix marks a line that carries a frame payload.
const Prefix = "data: "

// Sentinel is the payload of the terminator frame. Once seen, no further
// frames are emitted for the stream and any buffered bytes are discarded.
const Sentinel = "[DONE]"

// Frame is a single transport-level unit extracted from the stream.
// Frames are ephemeral: produced and consumed immediately, never persisted.
type Frame struct {
	// Payload is the line content after the recognized prefix, up to but
	// not including the newline terminator.
	Payload string
}

// Decoder turns a raw chunk sequence into complete frames.
//
// The decoder holds a single mutable buffer across Feed calls. It is not
// restartable: after the sentinel or Close, Feed returns nothing. A Decoder
// is owned by one streaming request and must not be shared.
type Decoder struct {
	buf    []byte
	done   bool
	logger *slog.Logger
}

// NewDecoder creates a decoder for one streaming request.
// A nil logger falls back to slog.Default().
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// Feed appends a chunk to the buffer and returns every frame completed by
// it, in order. The trailing partial line stays buffered for the next call.
func (d *Decoder) Feed(chunk []byte) []Frame {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)

	var frames []Frame
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(d.buf[:i]), "\r")
		d.buf = d.buf[i+1:]

		if !strings.HasPrefix(line, Prefix) {
			if line != "" {
				d.logger.Debug("discarding unrecognized stream line", "line", line)
			}
			continue
		}

		payload := line[len(Prefix):]
		frames = append(frames, Frame{Payload: payload})

		if payload == Sentinel {
			d.done = true
			if len(d.buf) > 0 {
				d.logger.Debug("discarding bytes after stream terminator", "bytes", len(d.buf))
				d.buf = nil
			}
			break
		}
	}
	return frames
}

// FeedString is Feed for text chunks.
func (d *Decoder) FeedString(chunk string) []Frame {
	return d.Feed([]byte(chunk))
}

// Done reports whether the sentinel has been seen or the decoder was closed.
func (d *Decoder) Done() bool {
	return d.done
}

// Close marks the end of the underlying stream. A non-empty residual buffer
// is a partial or malformed tail fragment; it is logged and dropped, never
// surfaced as a Frame.
func (d *Decoder) Close() {
	if !d.done && len(d.buf) > 0 {
		d.logger.Debug("discarding partial frame at stream end", "bytes", len(d.buf))
	}
	d.buf = nil
	d.done = true
}
