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

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotur/roturlink/pkg/models"
)

func TestStoreFieldIndependence(t *testing.T) {
	s := NewStore()

	s.SetCPU(models.CPUMetrics{Percent: 42})
	s.SetBattery(models.BatteryInfo{Present: true, Percent: 88})

	cpuStamp := s.LastUpdate(CategoryCPU)
	require.False(t, cpuStamp.IsZero())

	// Refreshing battery must not move the cpu stamp.
	s.SetBattery(models.BatteryInfo{Present: true, Percent: 87})

	assert.Equal(t, cpuStamp, s.LastUpdate(CategoryCPU))
	assert.True(t, s.LastUpdate(CategoryBattery).After(cpuStamp) || s.LastUpdate(CategoryBattery).Equal(cpuStamp))

	snap := s.Snapshot()
	assert.InDelta(t, 42, snap.CPU.Percent, 0.001)
	assert.InDelta(t, 87, snap.Battery.Percent, 0.001)
}

func TestSnapshotTimestampIdempotent(t *testing.T) {
	s := NewStore()

	s.SetCPU(models.CPUMetrics{Percent: 10})

	first := s.Snapshot()
	second := s.Snapshot()

	assert.Equal(t, first.Timestamp, second.Timestamp)
	assert.Positive(t, first.Timestamp)
}

func TestSnapshotEmptyStore(t *testing.T) {
	s := NewStore()

	snap := s.Snapshot()

	assert.Zero(t, snap.Timestamp)
	assert.Empty(t, snap.Drives)
}

func TestSnapshotTimestampAdvancesOnRefresh(t *testing.T) {
	s := NewStore()

	s.SetCPU(models.CPUMetrics{Percent: 10})
	first := s.Snapshot()

	s.SetMemory(models.MemoryMetrics{Total: 1 << 30, Used: 1 << 29, Percent: 50})
	second := s.Snapshot()

	assert.GreaterOrEqual(t, second.Timestamp, first.Timestamp)
	assert.Equal(t, uint64(1<<30), second.Memory.Total)
}

func TestDrivesReturnsCopy(t *testing.T) {
	s := NewStore()

	s.SetDrives([]models.DriveRecord{{DeviceNode: "/dev/sdb", Name: "STICK"}})

	drives := s.Drives()
	require.Len(t, drives, 1)

	drives[0].Name = "mutated"

	assert.Equal(t, "STICK", s.Drives()[0].Name)
}
