// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package spnav

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeDialer hands out the client end of an in-memory connection and keeps
// the daemon end for the test to write packets into.
type pipeDialer struct {
	daemon  net.Conn
	address string
	err     error
}

func (d *pipeDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.address = address
	client, daemon := net.Pipe()
	d.daemon = daemon
	return client, nil
}

func send(t *testing.T, conn net.Conn, events ...Event) {
	t.Helper()
	for _, ev := range events {
		b, err := ev.MarshalBinary()
		require.NoError(t, err)
		_, err = conn.Write(b)
		require.NoError(t, err)
	}
}

func waitEvent(t *testing.T, c *Client) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, err := c.WaitEvent(ctx)
	require.NoError(t, err)
	return ev
}

func TestClient_ReceivesEvents(t *testing.T) {
	t.Parallel()

	dialer := &pipeDialer{}
	c := NewClient(WithDialer(dialer), WithSocketPath("/tmp/test-spnav.sock"))
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, "/tmp/test-spnav.sock", dialer.address)
	assert.True(t, c.IsOpen())

	send(t, dialer.daemon, MotionEvent(1, -2, 3, -4, 5, -6, 16), ButtonEvent(1, true))

	assert.Equal(t, MotionEvent(1, -2, 3, -4, 5, -6, 16), waitEvent(t, c))
	assert.Equal(t, ButtonEvent(1, true), waitEvent(t, c))

	_, ok := c.PollEvent()
	assert.False(t, ok, "no more events expected")
}

func TestClient_PollEventAfterWrite(t *testing.T) {
	t.Parallel()

	dialer := &pipeDialer{}
	c := NewClient(WithDialer(dialer))
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	// net.Pipe writes return once the reader consumed them.
	send(t, dialer.daemon, ButtonEvent(0, false))

	require.Eventually(t, func() bool {
		ev, ok := c.PollEvent()
		return ok && ev == ButtonEvent(0, false)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestClient_DropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	dialer := &pipeDialer{}
	c := NewClient(WithDialer(dialer), WithBufferSize(2))
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	send(t, dialer.daemon, ButtonEvent(1, true), ButtonEvent(2, true), ButtonEvent(3, true))
	// Once the reader saw EOF every packet has been queued.
	require.NoError(t, dialer.daemon.Close())
	require.Eventually(t, func() bool { return c.Err() != nil }, 2*time.Second, 5*time.Millisecond)

	var got []int
	for {
		ev, ok := c.PollEvent()
		if !ok {
			break
		}
		got = append(got, ev.Button.Num)
	}
	assert.Equal(t, []int{2, 3}, got)
}

func TestClient_OpenFailure(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")
	c := NewClient(WithDialer(&pipeDialer{err: refused}))
	err := c.Open(context.Background())
	require.ErrorIs(t, err, refused)
	assert.False(t, c.IsOpen())
	assert.ErrorIs(t, c.Close(), ErrNotOpen)

	_, err = c.WaitEvent(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestClient_OpenTwiceIsNoop(t *testing.T) {
	t.Parallel()

	dialer := &pipeDialer{}
	c := NewClient(WithDialer(dialer))
	require.NoError(t, c.Open(context.Background()))
	first := dialer.daemon
	require.NoError(t, c.Open(context.Background()))
	assert.Same(t, first, dialer.daemon, "second open must not dial again")
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Close(), ErrNotOpen)
}

func TestClient_DaemonDisconnect(t *testing.T) {
	t.Parallel()

	dialer := &pipeDialer{}
	c := NewClient(WithDialer(dialer))
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	send(t, dialer.daemon, MotionEvent(0, 0, 1, 0, 0, 0, 8))
	require.NoError(t, dialer.daemon.Close())

	assert.Equal(t, MotionEvent(0, 0, 1, 0, 0, 0, 8), waitEvent(t, c), "buffered events survive a disconnect")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.WaitEvent(ctx)
	assert.ErrorIs(t, err, ErrDisconnected)
	assert.Error(t, c.Err())
}

func TestClient_WaitEventHonoursContext(t *testing.T) {
	t.Parallel()

	dialer := &pipeDialer{}
	c := NewClient(WithDialer(dialer))
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.WaitEvent(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_UnixSocket(t *testing.T) {
	t.Parallel()

	path := shortSocketPath(t)
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	c := NewClient(WithSocketPath(path))
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	daemon := <-accepted
	t.Cleanup(func() { _ = daemon.Close() })
	send(t, daemon, MotionEvent(10, 20, 30, 40, 50, 60, 70))

	assert.Equal(t, MotionEvent(10, 20, 30, 40, 50, 60, 70), waitEvent(t, c))
}
