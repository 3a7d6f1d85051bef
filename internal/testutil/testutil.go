// Package testutil provides in-memory stream and connection fakes for
// streamfeed tests.
package testutil

import (
	"context"
	"io"
)

// ChunkReader yields each chunk from exactly one Read call, so tests
// control how a stream is divided across reads. After the last chunk it
// returns io.EOF, or Err if set.
type ChunkReader struct {
	chunks [][]byte
	// Err, when set, is returned instead of io.EOF once the chunks are
	// exhausted. Use it to simulate a transport failure mid-stream.
	Err error
}

// NewChunkReader creates a reader over the given text chunks.
func NewChunkReader(chunks ...string) *ChunkReader {
	r := &ChunkReader{}
	for _, c := range chunks {
		r.chunks = append(r.chunks, []byte(c))
	}
	return r
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.Err != nil {
			return 0, r.Err
		}
		return 0, io.EOF
	}
	c := r.chunks[0]
	n := copy(p, c)
	if n < len(c) {
		r.chunks[0] = c[n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// ScriptedConn replays a script of inbound messages, then fails with Drop.
// It implements the notifier Conn contract without a real transport.
type ScriptedConn struct {
	messages [][]byte
	// Drop is returned from ReadMessage once the script is exhausted.
	Drop error
}

// NewScriptedConn creates a connection that delivers the given JSON
// messages in order.
func NewScriptedConn(drop error, messages ...string) *ScriptedConn {
	c := &ScriptedConn{Drop: drop}
	for _, m := range messages {
		c.messages = append(c.messages, []byte(m))
	}
	return c
}

func (c *ScriptedConn) ReadMessage(ctx context.Context) ([]byte, error) {
	if len(c.messages) == 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return nil, c.Drop
	}
	m := c.messages[0]
	c.messages = c.messages[1:]
	return m, nil
}

func (c *ScriptedConn) Close(ctx context.Context) error {
	return nil
}

// BlockingConn delivers the given messages, then blocks until the context
// is cancelled. Use it as the final connection in a reconnect script.
type BlockingConn struct {
	messages [][]byte
}

// NewBlockingConn creates a connection that delivers the given messages
// and then stays open.
func NewBlockingConn(messages ...string) *BlockingConn {
	c := &BlockingConn{}
	for _, m := range messages {
		c.messages = append(c.messages, []byte(m))
	}
	return c
}

func (c *BlockingConn) ReadMessage(ctx context.Context) ([]byte, error) {
	if len(c.messages) > 0 {
		m := c.messages[0]
		c.messages = c.messages[1:]
		return m, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *BlockingConn) Close(ctx context.Context) error {
	return nil
}
