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

package host

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rotur/roturlink/pkg/models"
)

// ProbeSystemInfo builds the static host description once at startup.
// Failed probes leave zero values rather than failing the whole probe.
func ProbeSystemInfo(ctx context.Context, provider Provider) models.SystemInfo {
	info := models.SystemInfo{
		Platform: provider.Platform(),
		Bluetooth: models.BluetoothSupport{
			Available: provider.BluetoothAvailable(ctx),
			Backend:   "system",
		},
	}

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}

	if cores, err := cpu.CountsWithContext(ctx, false); err == nil {
		info.CPU.Cores = cores
	}

	if threads, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPU.Threads = threads
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.Memory.TotalGB = float64(vm.Total) / (1 << 30)
	}

	return info
}
