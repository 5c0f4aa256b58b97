// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collector

import (
	"context"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Source names used in logs and the source error metric.
const (
	SourceTopology    = "topology"
	SourceStat        = "stat"
	SourceMemory      = "memory"
	SourceLoad        = "load"
	SourceFilesystems = "filesystems"
	SourceDisks       = "disks"
	SourceNetwork     = "network"
	SourceProcesses   = "processes"
	SourceMicroarch   = "microarch"
)

// TopologySource reads the CPU layout and cache hierarchy.
type TopologySource interface {
	Topology(ctx context.Context) (*snapshot.Topology, error)
}

// StatSource reads the per-cpu mode counters and the kernel counters from a
// single read of the kernel statistics file.
type StatSource interface {
	Stat(ctx context.Context) (snapshot.KeyedCounterSet, *snapshot.Kernel, error)
}

// MemorySource reads memory usage.
type MemorySource interface {
	Memory(ctx context.Context) (*snapshot.Memory, error)
}

// LoadSource reads load averages.
type LoadSource interface {
	Load(ctx context.Context) (*snapshot.Load, error)
}

// FilesystemSource reads per-mount-point capacity.
type FilesystemSource interface {
	Filesystems(ctx context.Context) (snapshot.KeyedGaugeSet, error)
}

// DiskSource reads per-device I/O counters.
type DiskSource interface {
	Disks(ctx context.Context) (snapshot.KeyedCounterSet, error)
}

// NetworkSource reads per-interface traffic counters.
type NetworkSource interface {
	Network(ctx context.Context) (snapshot.KeyedCounterSet, error)
}

// ProcessSource reads per-process memory usage.
type ProcessSource interface {
	Processes(ctx context.Context) (snapshot.KeyedGaugeSet, error)
}

// MicroarchSource runs one hardware-counter measurement window. A nil sample
// with a nil error means no sample is available this cycle.
type MicroarchSource interface {
	Sample(ctx context.Context) (*snapshot.MicroarchSample, error)
}
