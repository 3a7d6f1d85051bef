package streamfeed

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Config holds the required configuration for a Client.
//
// Example:
//
//	client, err := streamfeed.NewClient(streamfeed.Config{
//	    Endpoint: "https://admin.example.com/api/prompt",
//	})
type Config struct {
	// Endpoint is the streaming prompt endpoint URL (required)
	Endpoint string

	// HTTPClient is the HTTP client used for streaming requests (optional)
	// Default: http.DefaultClient. Streaming responses have no natural
	// deadline, so do not set a client Timeout here; use the request
	// context to bound a stream.
	HTTPClient *http.Client

	// Logger receives drop and discard diagnostics (optional)
	// Default: slog.Default()
	Logger *slog.Logger
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: Endpoint is required", ErrInvalidConfig)
	}
	return nil
}
