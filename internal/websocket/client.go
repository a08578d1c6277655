// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package websocket

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClientClosed is returned by Send after Close.
var ErrClientClosed = errors.New("websocket client closed")

// frameWriter is the write half of a connection. *websocket.Conn implements it.
type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// clientIDCounter gives clients monotonically increasing ids so snapshots of
// the registry have a stable order.
var clientIDCounter atomic.Uint64

// Client is one display connection. All writes, keepalive pings included, go
// through writeMu so gorilla's one-writer rule holds.
type Client struct {
	id         uint64
	remoteAddr string
	conn       frameWriter
	ws         *websocket.Conn // read side; nil for clients built in tests
	writeWait  time.Duration

	writeMu   sync.Mutex
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn frameWriter, ws *websocket.Conn, remoteAddr string, writeWait time.Duration) *Client {
	return &Client{
		id:         clientIDCounter.Add(1),
		remoteAddr: remoteAddr,
		conn:       conn,
		ws:         ws,
		writeWait:  writeWait,
		done:       make(chan struct{}),
	}
}

// isClosed reports whether Close has been called.
func (c *Client) isClosed() bool {
	return c.closed.Load()
}

// Send writes one text frame with a write deadline.
func (c *Client) Send(frame string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return ErrClientClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(frame))
}

func (c *Client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return ErrClientClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// keepalive pings every period until the client closes or a ping fails.
func (c *Client) keepalive(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				// Closing the socket unblocks the read pump, which unregisters.
				c.Close(websocket.CloseGoingAway, "")
				return
			}
		}
	}
}

// Close sends a best-effort close frame and releases the connection. Safe to
// call more than once and from any goroutine.
func (c *Client) Close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)

		c.writeMu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
		c.writeMu.Unlock()

		_ = c.conn.Close()
	})
}
