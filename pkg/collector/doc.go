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

// Package collector builds host snapshots from a set of narrow sources.
//
// # Sources
//
// Each pseudo-file family sits behind its own interface (TopologySource,
// StatSource, MemorySource, LoadSource, FilesystemSource, DiskSource,
// NetworkSource, ProcessSource) returning a structured record or a typed
// error. MicroarchSource wraps the hardware-counter sampler.
//
// # Factory Pattern
//
// The Factory interface abstracts source creation so tests can inject fakes:
//
//	factory, err := collector.NewDefaultFactory(
//	    collector.WithHostOptions(host.WithProcPath("/host/proc")),
//	    collector.WithProcesses(false),
//	    collector.WithMicroarch(sampler),
//	)
//	c := collector.New(factory)
//	snap := c.Produce(ctx, time.Now())
//
// # Cycle Semantics
//
// Produce runs the microarch window first so that its wait doubles as the
// polling cadence, then reads every other source sequentially. A failing
// source is logged at warn level, counted in nodestat_source_errors_total and
// leaves its sub-record nil or empty; the remaining sources still run.
//
// Subpackages:
//   - collector/host - procfs, sysfs and gopsutil backed readers
//   - collector/microarch - perf stat driven hardware-counter sampler
//   - collector/file - small pseudo-file parsing helpers
package collector
