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
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
	"github.com/rotur/roturlink/pkg/policy"
	"github.com/rotur/roturlink/pkg/runner"
)

type wireEvent struct {
	Cmd string          `json:"cmd"`
	Val json.RawMessage `json:"val"`
}

func newWSTestServer(t *testing.T, baseline []string) (*httptest.Server, *Registry) {
	t.Helper()

	log := logger.NewTestLogger()
	store := metrics.NewStore()
	store.SetSystemInfo(models.SystemInfo{Hostname: "testhost"})

	pol := policy.New(baseline)
	reg := NewRegistry(log)
	disp := NewDispatcher(store, &stubProvider{}, runner.New(1, 0, log), log)

	srv := httptest.NewServer(NewHandler(reg, disp, store, pol, log))
	t.Cleanup(srv.Close)

	return srv, reg
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev wireEvent
	require.NoError(t, conn.ReadJSON(&ev))

	return ev
}

func TestHandlerGreetSequence(t *testing.T) {
	srv, reg := newWSTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	handshake := readEvent(t, conn)
	require.Equal(t, models.EventHandshake, handshake.Cmd)

	var hs models.HandshakePayload
	require.NoError(t, json.Unmarshal(handshake.Val, &hs))
	assert.Equal(t, "rotur-websocket", hs.Server)
	assert.Equal(t, "1.0.0", hs.Version)

	assert.Equal(t, models.EventSystemInfo, readEvent(t, conn).Cmd)
	assert.Equal(t, models.EventMetrics, readEvent(t, conn).Cmd)

	drives := readEvent(t, conn)
	assert.Equal(t, models.EventDrivesUpdate, drives.Cmd)

	var payload models.DrivesPayload
	require.NoError(t, json.Unmarshal(drives.Val, &payload))
	assert.Equal(t, models.DriveChangeInitial, payload.ChangeType)

	// The client is registered once greeted.
	require.Eventually(t, func() bool { return reg.Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHandlerPingPong(t *testing.T) {
	srv, _ := newWSTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Drain the greet sequence.
	for i := 0; i < 4; i++ {
		readEvent(t, conn)
	}

	require.NoError(t, conn.WriteJSON(models.Command{Cmd: models.CmdPing}))

	pong := readEvent(t, conn)
	assert.Equal(t, models.EventPong, pong.Cmd)
}

func TestHandlerUnregistersOnDisconnect(t *testing.T) {
	srv, reg := newWSTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return reg.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return reg.Count() == 0 }, time.Second, 10*time.Millisecond)
}
