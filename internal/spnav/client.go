// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package spnav is a client for the spacenavd daemon, which serves events
// from 6-DoF "space mouse" input devices over a UNIX domain socket.
//
// Each event arrives as a fixed size packet of eight native-endian int32
// words. The first word is 0 for motion, 1 for a button press and 2 for a
// button release. Motion packets carry x, y, z, rx, ry, rz and the sample
// period in the remaining words; button packets carry the button number in
// the second word.
//
// The Client reads packets on a background goroutine into a bounded buffer,
// so that PollEvent never blocks. When the buffer is full the oldest event
// is dropped.
package spnav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
)

// DefaultSocketPath is where spacenavd listens by default.
const DefaultSocketPath = "/var/run/spnav.sock"

// DefaultBufferSize is the number of events buffered between polls.
const DefaultBufferSize = 256

var (
	// ErrNotOpen is returned when closing or waiting on a closed client.
	ErrNotOpen = errors.New("spnav: connection not open")
	// ErrDisconnected is returned by WaitEvent once the daemon has gone away
	// and every buffered event was consumed.
	ErrDisconnected = errors.New("spnav: daemon disconnected")
)

// Dialer opens the daemon connection. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Option configures a Client.
type Option func(*Client)

// WithSocketPath overrides DefaultSocketPath.
func WithSocketPath(path string) Option {
	return func(c *Client) { c.path = path }
}

// WithDialer overrides the default dialer.
func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithBufferSize overrides DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bufSize = n
		}
	}
}

// Client is a connection to spacenavd. It is safe for concurrent use.
type Client struct {
	path    string
	dialer  Dialer
	bufSize int

	mu      sync.Mutex
	conn    net.Conn
	events  chan Event
	done    chan struct{}
	readErr error
}

// NewClient creates a client. It does not connect; call Open.
func NewClient(opts ...Option) *Client {
	c := &Client{
		path:    DefaultSocketPath,
		dialer:  &net.Dialer{},
		bufSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SocketPath returns the daemon socket the client connects to.
func (c *Client) SocketPath() string {
	return c.path
}

// Open connects to the daemon. Opening an open client is a no-op.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	conn, err := c.dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return fmt.Errorf("spnav: connect %s: %w", c.path, err)
	}

	c.conn = conn
	c.events = make(chan Event, c.bufSize)
	c.done = make(chan struct{})
	c.readErr = nil

	go c.readLoop(ctx, conn, c.events, c.done)
	ctxlog.FromContext(ctx).Debug("Connected to spacenavd.", "socket", c.path)
	return nil
}

// IsOpen reports whether Open succeeded and Close has not been called since.
func (c *Client) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close disconnects from the daemon and discards buffered events.
func (c *Client) Close() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.conn, c.events, c.done = nil, nil, nil
	c.mu.Unlock()

	if conn == nil {
		return ErrNotOpen
	}
	err := conn.Close()
	<-done
	return err
}

// Err returns the error that stopped the reader, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// PollEvent returns the oldest buffered event without blocking.
func (c *Client) PollEvent() (Event, bool) {
	c.mu.Lock()
	events := c.events
	c.mu.Unlock()
	if events == nil {
		return Event{}, false
	}

	select {
	case ev := <-events:
		return ev, true
	default:
		return Event{}, false
	}
}

// WaitEvent blocks until an event arrives, the context ends or the daemon
// disconnects.
func (c *Client) WaitEvent(ctx context.Context) (Event, error) {
	c.mu.Lock()
	events, done := c.events, c.done
	c.mu.Unlock()
	if events == nil {
		return Event{}, ErrNotOpen
	}

	select {
	case ev := <-events:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case <-done:
		// Drain anything the reader queued before it stopped.
		select {
		case ev := <-events:
			return ev, nil
		default:
			return Event{}, ErrDisconnected
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn net.Conn, events chan Event, done chan struct{}) {
	defer close(done)
	logger := ctxlog.FromContext(ctx)

	buf := make([]byte, PacketSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			if !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
				logger.Debug("spacenavd reader stopped.", "error", err)
				c.mu.Lock()
				c.readErr = err
				c.mu.Unlock()
			}
			return
		}

		var ev Event
		if err := ev.UnmarshalBinary(buf); err != nil {
			logger.Warn("Dropping malformed spacenavd packet.", "error", err)
			continue
		}

		select {
		case events <- ev:
		default:
			// Full: drop the oldest to make room.
			select {
			case <-events:
			default:
			}
			select {
			case events <- ev:
			default:
			}
		}
	}
}
