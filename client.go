package streamfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	anthropicinternal "github.com/forgeui/streamfeed/internal/anthropic"
	"github.com/forgeui/streamfeed/event"
	"github.com/forgeui/streamfeed/frame"
)

// Version is the current streamfeed version
const Version = "1.0.0"

// Turn is one prior conversation turn sent with a prompt.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PromptRequest is the outbound request that triggers a response stream.
type PromptRequest struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	History []Turn `json:"history,omitempty"`
}

// Client issues streaming prompt requests and feeds the decoded events
// into a session.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:   config.Endpoint,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Stream issues one streaming request and applies the decoded events to
// the session until the stream ends, fails, or ctx is cancelled.
//
// Transport failures are applied to the session as a stream error (the
// active step resolves to its error status) and additionally returned as a
// *TransportError for callers that log. Cancellation stops processing
// between chunks without applying anything further; in-flight steps are
// left in whatever state they had.
func (c *Client) Stream(ctx context.Context, req PromptRequest, sess *Session) error {
	if sess == nil {
		return ErrNilSession
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal prompt request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create prompt request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		terr := &TransportError{Op: "request", Err: err}
		sess.Apply(&event.StreamError{Message: terr.Error()})
		return terr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		terr := &TransportError{Op: "request", StatusCode: resp.StatusCode}
		sess.Apply(&event.StreamError{Message: terr.Error()})
		return terr
	}

	return Consume(ctx, resp.Body, sess, c.logger)
}

// Consume decodes a raw response stream into the session. It is the loop
// behind Client.Stream, exported for callers that obtain the byte stream
// elsewhere.
//
// Reader failures are applied to the session as a stream error and
// returned as a *TransportError. A stream that ends without the terminator
// frame is treated as truncated, which is also a transport failure.
func Consume(ctx context.Context, r io.Reader, sess *Session, logger *slog.Logger) error {
	if sess == nil {
		return ErrNilSession
	}
	if logger == nil {
		logger = slog.Default()
	}

	decoder := frame.NewDecoder(logger)
	classifier := event.NewClassifier(logger)
	buf := make([]byte, 4096)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			for _, f := range decoder.Feed(buf[:n]) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				ev, ok := classifier.Classify(f)
				if !ok {
					continue
				}
				sess.Apply(ev)
			}
			if decoder.Done() {
				return nil
			}
		}

		if readErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			decoder.Close()

			var terr *TransportError
			if errors.Is(readErr, io.EOF) {
				terr = &TransportError{Op: "read", Err: errors.New("stream ended before terminator")}
			} else {
				terr = &TransportError{Op: "read", Err: readErr}
			}
			sess.Apply(&event.StreamError{Message: terr.Error()})
			return terr
		}
	}
}

// StreamAnthropic consumes an Anthropic SDK message stream into the
// session, for dashboards wired directly to the vendor API. Vendor events
// with no domain counterpart are ignored; a stream error resolves the
// active step to its error status, matching Stream's semantics.
func StreamAnthropic(ctx context.Context, stream *ssestream.Stream[anthropic.MessageStreamEventUnion], sess *Session) error {
	if sess == nil {
		return ErrNilSession
	}

	for stream.Next() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if ev := anthropicinternal.Convert(stream.Current()); ev != nil {
			sess.Apply(ev)
		}
	}

	if err := stream.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		terr := &TransportError{Op: "read", Err: err}
		sess.Apply(&event.StreamError{Message: terr.Error()})
		return terr
	}
	return nil
}
