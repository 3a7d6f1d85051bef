// Package notifier provides the resilient status channel used for
// out-of-band status pushes.
//
// A Channel wraps a persistent bidirectional connection behind a Dialer,
// detects closure or error, and reconnects after a fixed delay, forever,
// until Close is called. Consumers see inbound messages strictly in receipt
// order; each connection is logically independent and no replay is
// attempted, so a dropped connection may silently lose in-flight messages.
// That is an accepted limitation for this status-only channel.
//
// Connection state machine:
//
//	connecting -> open                    (handshake succeeds)
//	open -> reconnecting(1)               (unexpected closure or error)
//	reconnecting(n) -> reconnecting(n+1)  (repeated dial failure)
//	reconnecting(n) -> open               (dial succeeds)
//	* -> closed                           (explicit Close; terminal)
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
)

// MessageType represents the type of an inbound status message.
type MessageType string

// Message types dispatched by the channel.
const (
	MessageWorkflowStatus MessageType = "workflow_status"
	MessageSessionUpdate  MessageType = "session_update"
	MessageTaskProgress   MessageType = "task_progress"
)

// Message is a decoded inbound status message.
type Message struct {
	// Type is the message discriminator.
	Type MessageType

	// Payload is the raw JSON text of the message.
	Payload []byte

	// ReceivedAt is when the message was received.
	ReceivedAt time.Time
}

// Handler is called for an inbound message. Handlers run synchronously on
// the channel's read goroutine to maintain ordering; long operations should
// be done asynchronously.
type Handler func(msg *Message)

// Conn is a single established connection. ReadMessage blocks until the
// next inbound message or until the connection drops or ctx is cancelled.
type Conn interface {
	ReadMessage(ctx context.Context) ([]byte, error)
	Close(ctx context.Context) error
}

// Dialer establishes a new connection. The transport only delivers
// messages once the handshake has completed, so a returned Conn is open.
type Dialer func(ctx context.Context) (Conn, error)

// Phase is the coarse connection phase.
type Phase string

const (
	PhaseConnecting   Phase = "connecting"
	PhaseOpen         Phase = "open"
	PhaseReconnecting Phase = "reconnecting"
	PhaseClosed       Phase = "closed"
)

// ConnState is the observable connection state. Attempt is the current
// reconnect attempt number and is zero outside PhaseReconnecting.
type ConnState struct {
	Phase   Phase
	Attempt int
}

func (s ConnState) String() string {
	if s.Phase == PhaseReconnecting {
		return fmt.Sprintf("%s(%d)", s.Phase, s.Attempt)
	}
	return string(s.Phase)
}

// Config holds configuration for a Channel.
type Config struct {
	// ReconnectDelay is how long to wait before each reconnect attempt.
	// The delay is fixed: repeated failures do not change it, and there
	// is no attempt cap. Default: 5 seconds.
	ReconnectDelay time.Duration

	// NewBackOff optionally overrides the delay policy. When set it is
	// called once per Connect and its values are used between attempts;
	// ReconnectDelay is ignored. Returning backoff.Stop ends
	// reconnection as if Close had been called.
	NewBackOff func() backoff.BackOff

	// Logger receives drop and reconnect diagnostics. Default:
	// slog.Default().
	Logger *slog.Logger

	// OnError is called when a dial fails or a connection drops.
	OnError func(err error)

	// OnStateChange is called on every connection state transition.
	OnStateChange func(state ConnState)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ReconnectDelay: 5 * time.Second,
	}
}

// subscription is one registered handler.
type subscription struct {
	handler Handler
	id      int64
}

// Channel is the reconnecting status channel. Construct one per mounted
// dashboard session and Close it on unmount; Close cancels any pending
// reconnect wait.
type Channel struct {
	dial   Dialer
	config *Config
	logger *slog.Logger

	mu            sync.RWMutex
	subscriptions map[MessageType][]*subscription
	catchAll      []*subscription
	nextSubID     int64
	state         ConnState

	started atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// New creates a channel over the given dialer.
func New(dial Dialer, config *Config) *Channel {
	if config == nil {
		config = DefaultConfig()
	}
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = DefaultConfig().ReconnectDelay
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Channel{
		dial:          dial,
		config:        config,
		logger:        logger,
		subscriptions: make(map[MessageType][]*subscription),
		done:          make(chan struct{}),
	}
}

// Connect initiates the underlying connection and starts the reconnect
// loop. It returns immediately; observe progress via State or
// OnStateChange.
func (c *Channel) Connect(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyConnected
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.setState(ConnState{Phase: PhaseConnecting})
	go c.run(ctx)

	return nil
}

// Close forces the closed state and cancels any pending reconnect timer.
// Terminal: the channel cannot be reconnected.
func (c *Channel) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if !c.started.Load() {
		c.setState(ConnState{Phase: PhaseClosed})
		return nil
	}

	c.cancel()
	<-c.done
	return nil
}

// State returns the current connection state.
func (c *Channel) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers a handler for one message type.
// Returns a function to unsubscribe.
func (c *Channel) Subscribe(t MessageType, handler Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := &subscription{handler: handler, id: c.nextSubID}
	c.nextSubID++
	c.subscriptions[t] = append(c.subscriptions[t], sub)

	return func() { c.unsubscribe(t, sub.id) }
}

// OnMessage registers a handler invoked for every inbound message, in
// receipt order, regardless of how many reconnects have occurred.
// Returns a function to unsubscribe.
func (c *Channel) OnMessage(handler Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := &subscription{handler: handler, id: c.nextSubID}
	c.nextSubID++
	c.catchAll = append(c.catchAll, sub)

	return func() { c.unsubscribeAll(sub.id) }
}

func (c *Channel) unsubscribe(t MessageType, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subs := c.subscriptions[t]
	for i, sub := range subs {
		if sub.id == id {
			c.subscriptions[t] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}

func (c *Channel) unsubscribeAll(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.catchAll {
		if sub.id == id {
			c.catchAll = append(c.catchAll[:i], c.catchAll[i+1:]...)
			break
		}
	}
}

// run is the connect/read/reconnect loop.
func (c *Channel) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(ConnState{Phase: PhaseClosed})

	bo := c.newBackOff()
	attempt := 0

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			attempt++
			c.setState(ConnState{Phase: PhaseReconnecting, Attempt: attempt})
			c.reportError(fmt.Errorf("dial status channel: %w", err))
			if !c.wait(ctx, bo) {
				return
			}
			continue
		}

		attempt = 0
		bo.Reset()
		c.setState(ConnState{Phase: PhaseOpen})

		err = c.readLoop(ctx, conn)
		_ = conn.Close(context.WithoutCancel(ctx))
		if ctx.Err() != nil {
			return
		}

		attempt = 1
		c.setState(ConnState{Phase: PhaseReconnecting, Attempt: attempt})
		c.reportError(fmt.Errorf("status channel dropped: %w", err))
		if !c.wait(ctx, bo) {
			return
		}
	}
}

// readLoop dispatches inbound messages until the connection drops.
func (c *Channel) readLoop(ctx context.Context, conn Conn) error {
	for {
		payload, err := conn.ReadMessage(ctx)
		if err != nil {
			return err
		}
		c.dispatch(payload)
	}
}

// dispatch decodes and delivers one inbound message. Malformed payloads
// are dropped silently, mirroring the stream classifier's
// forward-compatibility policy.
func (c *Channel) dispatch(payload []byte) {
	if !gjson.ValidBytes(payload) {
		c.logger.Debug("dropping malformed status message", "bytes", len(payload))
		return
	}
	t := MessageType(gjson.GetBytes(payload, "type").String())
	if t == "" {
		c.logger.Debug("dropping status message without type")
		return
	}

	msg := &Message{
		Type:       t,
		Payload:    payload,
		ReceivedAt: time.Now(),
	}

	c.mu.RLock()
	subs := make([]*subscription, 0, len(c.subscriptions[t])+len(c.catchAll))
	subs = append(subs, c.subscriptions[t]...)
	subs = append(subs, c.catchAll...)
	c.mu.RUnlock()

	// Synchronous delivery preserves receipt order across handlers.
	for _, sub := range subs {
		sub.handler(msg)
	}
}

// wait sleeps for the next delay. Returns false when the channel should
// stop (context cancelled or the policy ended).
func (c *Channel) wait(ctx context.Context, bo backoff.BackOff) bool {
	d := bo.NextBackOff()
	if d == backoff.Stop {
		c.logger.Debug("reconnect policy stopped")
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Channel) newBackOff() backoff.BackOff {
	if c.config.NewBackOff != nil {
		return c.config.NewBackOff()
	}
	return backoff.NewConstantBackOff(c.config.ReconnectDelay)
}

func (c *Channel) setState(state ConnState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	if c.config.OnStateChange != nil {
		c.config.OnStateChange(state)
	}
}

func (c *Channel) reportError(err error) {
	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}
