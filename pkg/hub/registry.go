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

package hub

import (
	"sync"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/models"
)

// Registry tracks the live client set. It is mutated concurrently by the
// connection handlers (register/unregister) and by every producer's
// broadcast (prune on send failure).
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		clients: make(map[*Client]struct{}),
		logger:  log,
	}
}

// Register adds a client to the live set.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	count := len(r.clients)
	r.mu.Unlock()

	r.logger.Info().
		Str("client_id", c.ID).
		Str("remote_addr", c.RemoteAddr()).
		Str("origin", c.Origin()).
		Int("clients", count).
		Msg("Client connected")
}

// Unregister removes a client. Safe to call more than once.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	_, present := r.clients[c]
	delete(r.clients, c)
	count := len(r.clients)
	r.mu.Unlock()

	if present {
		r.logger.Info().
			Str("client_id", c.ID).
			Int("clients", count).
			Msg("Client disconnected")
	}
}

// Count returns the number of live clients. Producers use it for idle
// backoff.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// Broadcast delivers an event to every live client, best effort. A client
// whose delivery fails is removed and closed; the rest still receive the
// message. This is the only place connections are removed for I/O failure.
func (r *Registry) Broadcast(ev models.Event) {
	r.mu.RLock()
	targets := make([]*Client, 0, len(r.clients))

	for c := range r.clients {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		if err := c.Send(ev); err != nil {
			r.logger.Debug().
				Err(err).
				Str("client_id", c.ID).
				Str("cmd", ev.Cmd).
				Msg("Broadcast delivery failed, removing client")

			r.Unregister(c)
			_ = c.Close()
		}
	}
}
