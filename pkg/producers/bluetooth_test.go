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

package producers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotur/roturlink/pkg/hub"
	"github.com/rotur/roturlink/pkg/logger"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
)

func newTracker(provider *fakeHost) (*bluetoothTracker, *metrics.Store) {
	store := metrics.NewStore()
	reg := hub.NewRegistry(logger.NewTestLogger())

	return newBluetoothTracker(store, provider, reg), store
}

func TestBluetoothTrackerMergesScanAndPaired(t *testing.T) {
	provider := &fakeHost{btAvail: true}
	provider.scan = []models.BluetoothDevice{
		{Name: "Speaker", Address: "11:22:33:44:55:66", RSSI: -48},
	}
	provider.paired = []models.BluetoothDevice{
		{Name: "K380", Address: "AA:BB:CC:DD:EE:FF", Connected: true},
	}

	tracker, store := newTracker(provider)

	require.NoError(t, tracker.run(context.Background()))

	devices := store.Bluetooth()
	require.Len(t, devices, 2)

	byAddr := map[string]models.BluetoothDevice{}
	for _, d := range devices {
		byAddr[d.Address] = d
	}

	speaker := byAddr["11:22:33:44:55:66"]
	assert.True(t, speaker.Nearby)
	assert.False(t, speaker.Paired)
	assert.Equal(t, -48, speaker.RSSI)

	keyboard := byAddr["AA:BB:CC:DD:EE:FF"]
	assert.True(t, keyboard.Paired)
	assert.True(t, keyboard.Connected)
}

func TestBluetoothTrackerAgesOutUnseenDevices(t *testing.T) {
	provider := &fakeHost{btAvail: true}
	tracker, _ := newTracker(provider)

	now := time.Now()

	tracker.devices["11:22:33:44:55:66"] = models.BluetoothDevice{
		Address:  "11:22:33:44:55:66",
		Nearby:   true,
		RSSI:     -50,
		LastSeen: float64(now.Add(-3*time.Minute).UnixNano()) / float64(time.Second),
	}

	tracker.age(now)

	d, ok := tracker.devices["11:22:33:44:55:66"]
	require.True(t, ok)
	assert.False(t, d.Nearby)
	assert.Equal(t, -100, d.RSSI)
}

func TestBluetoothTrackerDropsLongUnseenUnpaired(t *testing.T) {
	provider := &fakeHost{btAvail: true}
	tracker, _ := newTracker(provider)

	now := time.Now()
	stale := float64(now.Add(-11*time.Minute).UnixNano()) / float64(time.Second)

	tracker.devices["11:22:33:44:55:66"] = models.BluetoothDevice{
		Address: "11:22:33:44:55:66", LastSeen: stale,
	}
	tracker.devices["AA:BB:CC:DD:EE:FF"] = models.BluetoothDevice{
		Address: "AA:BB:CC:DD:EE:FF", Paired: true, LastSeen: stale,
	}

	tracker.age(now)

	_, gone := tracker.devices["11:22:33:44:55:66"]
	assert.False(t, gone)

	_, kept := tracker.devices["AA:BB:CC:DD:EE:FF"]
	assert.True(t, kept)
}

func TestBluetoothTrackerSkipsWithoutController(t *testing.T) {
	provider := &fakeHost{btAvail: false}
	provider.scan = []models.BluetoothDevice{{Address: "11:22:33:44:55:66"}}

	tracker, store := newTracker(provider)

	require.NoError(t, tracker.run(context.Background()))

	assert.Empty(t, store.Bluetooth())
	assert.True(t, store.LastUpdate(metrics.CategoryBluetooth).IsZero())
}
