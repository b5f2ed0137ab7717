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

	"github.com/rotur/roturlink/pkg/host"
	"github.com/rotur/roturlink/pkg/hub"
	"github.com/rotur/roturlink/pkg/metrics"
	"github.com/rotur/roturlink/pkg/models"
)

// driveMonitor detects drives appearing and disappearing by diffing the
// device node set between cycles. Only the scheduler goroutine touches its
// state.
type driveMonitor struct {
	store    *metrics.Store
	provider host.Provider
	registry *hub.Registry

	prev        map[string]struct{}
	initialSent bool
}

func newDriveMonitor(store *metrics.Store, provider host.Provider, reg *hub.Registry) *driveMonitor {
	return &driveMonitor{
		store:    store,
		provider: provider,
		registry: reg,
		prev:     make(map[string]struct{}),
	}
}

func (m *driveMonitor) run(ctx context.Context) error {
	drives := m.provider.Drives(ctx)
	m.store.SetDrives(drives)

	current := make(map[string]struct{}, len(drives))
	for _, d := range drives {
		current[d.DeviceNode] = struct{}{}
	}

	if !m.initialSent {
		m.initialSent = true
		m.prev = current
		m.broadcast(drives, models.DriveChangeInitial)

		return nil
	}

	// An empty previous set is never diffed: the first drive to appear
	// after that produces no change event, only the periodic broadcast.
	if len(m.prev) == 0 {
		m.prev = current
		return nil
	}

	var added, removed bool

	for node := range current {
		if _, ok := m.prev[node]; !ok {
			added = true
			break
		}
	}

	for node := range m.prev {
		if _, ok := current[node]; !ok {
			removed = true
			break
		}
	}

	m.prev = current

	// A cycle that sees both a removal and an addition reports removal;
	// clients treat removal as the stronger invalidation of cached paths.
	switch {
	case removed:
		m.broadcast(drives, models.DriveChangeRemoval)
	case added:
		m.broadcast(drives, models.DriveChangeAddition)
	}

	return nil
}

func (m *driveMonitor) broadcast(drives []models.DriveRecord, changeType string) {
	m.registry.Broadcast(models.Event{Cmd: models.EventDrivesUpdate, Val: models.DrivesPayload{
		Drives:     drives,
		ChangeType: changeType,
	}})
}
