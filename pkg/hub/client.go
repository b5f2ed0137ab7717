/*
 * Copyright 2025 Rotur.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package hub is the real-time telemetry/command hub: the registry of
// connected push-channel clients, the broadcast path producers publish
// through, and the dispatcher that routes inbound commands.
package hub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/rotur/roturlink/pkg/models"
)

// Conn is the transport a client sits on. The concrete implementation wraps
// a gorilla websocket connection; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
	RemoteAddr() string
}

// Client is one connected push-channel peer. It is owned exclusively by the
// Registry; producers only ever see the registry.
type Client struct {
	ID     string
	origin string
	conn   Conn

	// gorilla connections do not allow concurrent writers; every send,
	// broadcast or direct, goes through this mutex.
	writeMu sync.Mutex
}

// NewClient wraps a transport connection.
func NewClient(conn Conn, origin string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		origin: origin,
		conn:   conn,
	}
}

// Send delivers one event to this client.
func (c *Client) Send(ev models.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteJSON(ev)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Origin returns the Origin header the client connected with.
func (c *Client) Origin() string {
	return c.origin
}

// RemoteAddr returns the peer address.
func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr()
}
