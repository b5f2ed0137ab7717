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
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/policy"
)

// Handshake identity sent as the first frame of every connection. Clients
// key on the server name, so it stays fixed across releases.
const (
	ServerName    = "rotur-websocket"
	ServerVersion = "1.0.0"
)

// Handler upgrades HTTP requests to websocket connections, runs the greet
// sequence, and pumps inbound frames into the dispatcher.
type Handler struct {
	registry   *Registry
	dispatcher *Dispatcher
	store      *metrics.Store
	policy     *policy.Policy
	upgrader   websocket.Upgrader
	logger     logger.Logger
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(reg *Registry, disp *Dispatcher, store *metrics.Store, pol *policy.Policy, log logger.Logger) *Handler {
	h := &Handler{
		registry:   reg,
		dispatcher: disp,
		store:      store,
		policy:     pol,
		logger:     log,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return pol.IsPermitted(r.RemoteAddr, r.Header.Get("Origin"))
		},
	}

	return h
}

// wsConn adapts a gorilla connection to the Conn interface.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) WriteJSON(v interface{}) error { return w.conn.WriteJSON(v) }
func (w *wsConn) Close() error                  { return w.conn.Close() }
func (w *wsConn) RemoteAddr() string            { return w.conn.RemoteAddr().String() }

// ServeHTTP handles one websocket connection for its whole lifetime.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")

	if !h.policy.IsPermitted(r.RemoteAddr, origin) {
		h.logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Str("origin", origin).
			Msg("Connection rejected by origin policy")
		w.WriteHeader(http.StatusForbidden)

		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.logger.Debug().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Websocket upgrade failed")
		return
	}

	client := NewClient(&wsConn{conn: conn}, origin)

	h.registry.Register(client)
	defer func() {
		h.registry.Unregister(client)
		_ = client.Close()
	}()

	if err := h.greet(client); err != nil {
		h.logger.Debug().Err(err).Str("client_id", client.ID).Msg("Greet sequence failed")
		return
	}

	h.readLoop(r.Context(), client, conn)
}

// greet sends the fixed welcome sequence: identity, system info, the
// current metrics snapshot, and the current drive list. The client has a
// full picture before the first scheduled broadcast arrives.
func (h *Handler) greet(c *Client) error {
	events := []models.Event{
		{Cmd: models.EventHandshake, Val: models.HandshakePayload{Server: ServerName, Version: ServerVersion}},
		{Cmd: models.EventSystemInfo, Val: h.store.SystemInfo()},
		{Cmd: models.EventMetrics, Val: h.store.Snapshot()},
		{Cmd: models.EventDrivesUpdate, Val: models.DrivesPayload{
			Drives:     h.store.Drives(),
			ChangeType: models.DriveChangeInitial,
		}},
	}

	for _, ev := range events {
		if err := c.Send(ev); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) readLoop(ctx context.Context, c *Client, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Str("client_id", c.ID).Msg("Read loop ended")
			}

			return
		}

		// Each command runs on its own goroutine so a slow shell-out
		// never blocks subsequent commands from this client.
		go h.dispatcher.Dispatch(ctx, c, data)
	}
}
