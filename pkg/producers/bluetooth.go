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
	"sort"
	"time"

	"github.com/rotur/roturlink/pkg/host"
	"github.com/rotur/roturlink/pkg/hub"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
)

const (
	// A device unseen for nearbyTTL is marked out of range; after dropTTL
	// it is forgotten entirely unless it is paired.
	nearbyTTL = 2 * time.Minute
	dropTTL   = 10 * time.Minute

	outOfRangeRSSI = -100
)

// bluetoothTracker merges scan results and the paired device list into a
// persistent address-keyed view, aging out devices that stop advertising.
// Only the scheduler goroutine touches the map.
type bluetoothTracker struct {
	store    *metrics.Store
	provider host.Provider
	registry *hub.Registry

	devices map[string]models.BluetoothDevice
}

func newBluetoothTracker(store *metrics.Store, provider host.Provider, reg *hub.Registry) *bluetoothTracker {
	return &bluetoothTracker{
		store:    store,
		provider: provider,
		registry: reg,
		devices:  make(map[string]models.BluetoothDevice),
	}
}

func (t *bluetoothTracker) run(ctx context.Context) error {
	if !t.provider.BluetoothAvailable(ctx) {
		return nil
	}

	now := time.Now()

	for _, d := range t.provider.BluetoothScan(ctx) {
		d.Nearby = true
		d.LastSeen = unixSeconds(now)

		if prev, ok := t.devices[d.Address]; ok {
			d.Paired = d.Paired || prev.Paired
			if d.Name == "" {
				d.Name = prev.Name
			}
		}

		t.devices[d.Address] = d
	}

	for _, d := range t.provider.PairedDevices(ctx) {
		prev, ok := t.devices[d.Address]
		if !ok {
			d.Paired = true
			t.devices[d.Address] = d

			continue
		}

		prev.Paired = true
		prev.Connected = d.Connected

		if prev.Name == "" {
			prev.Name = d.Name
		}

		t.devices[d.Address] = prev
	}

	t.age(now)
	t.publish(now)

	return nil
}

func (t *bluetoothTracker) age(now time.Time) {
	for addr, d := range t.devices {
		seen := time.Unix(0, int64(d.LastSeen*float64(time.Second)))
		unseen := now.Sub(seen)

		if unseen > dropTTL && !d.Paired {
			delete(t.devices, addr)
			continue
		}

		if unseen > nearbyTTL && d.Nearby {
			d.Nearby = false
			d.RSSI = outOfRangeRSSI
			t.devices[addr] = d
		}
	}
}

func (t *bluetoothTracker) publish(now time.Time) {
	list := make([]models.BluetoothDevice, 0, len(t.devices))
	for _, d := range t.devices {
		list = append(list, d)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Address < list[j].Address })

	t.store.SetBluetooth(list)

	t.registry.Broadcast(models.Event{Cmd: models.EventBluetoothUpdate, Val: models.BluetoothPayload{
		Bluetooth: models.BluetoothSummary{
			Devices:   list,
			Count:     len(list),
			Timestamp: unixSeconds(now),
		},
	}})
}
