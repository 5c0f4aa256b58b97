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
	"log/slog"
	"time"

	"github.com/NVIDIA/nodestat/pkg/defaults"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Collector builds one Snapshot per call from its sources.
type Collector struct {
	topology    TopologySource
	stat        StatSource
	memory      MemorySource
	load        LoadSource
	filesystems FilesystemSource
	disks       DiskSource
	network     NetworkSource
	processes   ProcessSource
	microarch   MicroarchSource

	sourceTimeout time.Duration
}

// New creates a Collector from the sources of factory.
func New(factory Factory) *Collector {
	return &Collector{
		topology:      factory.CreateTopologySource(),
		stat:          factory.CreateStatSource(),
		memory:        factory.CreateMemorySource(),
		load:          factory.CreateLoadSource(),
		filesystems:   factory.CreateFilesystemSource(),
		disks:         factory.CreateDiskSource(),
		network:       factory.CreateNetworkSource(),
		processes:     factory.CreateProcessSource(),
		microarch:     factory.CreateMicroarchSource(),
		sourceTimeout: defaults.SourceTimeout,
	}
}

// HasMicroarch reports whether Produce runs a measurement window.
func (c *Collector) HasMicroarch() bool {
	return c.microarch != nil
}

// Produce builds the snapshot for the cycle stamped now. The microarch window
// runs first; the remaining sources are then read one after another. A failed
// source leaves its sub-record nil or empty and never aborts the snapshot.
func (c *Collector) Produce(ctx context.Context, now time.Time) *snapshot.Snapshot {
	snap := snapshot.New(now)

	if c.microarch != nil {
		read(ctx, SourceMicroarch, 0, func(ctx context.Context) error {
			s, err := c.microarch.Sample(ctx)
			snap.Microarch = s
			return err
		})
	}

	if c.topology != nil {
		c.read(ctx, SourceTopology, func(ctx context.Context) (err error) {
			snap.Topology, err = c.topology.Topology(ctx)
			return err
		})
	}
	if c.stat != nil {
		c.read(ctx, SourceStat, func(ctx context.Context) (err error) {
			snap.CPU, snap.Kernel, err = c.stat.Stat(ctx)
			return err
		})
	}
	if c.memory != nil {
		c.read(ctx, SourceMemory, func(ctx context.Context) (err error) {
			snap.Memory, err = c.memory.Memory(ctx)
			return err
		})
	}
	if c.load != nil {
		c.read(ctx, SourceLoad, func(ctx context.Context) (err error) {
			snap.Load, err = c.load.Load(ctx)
			return err
		})
	}
	if c.filesystems != nil {
		c.read(ctx, SourceFilesystems, func(ctx context.Context) (err error) {
			snap.Filesystems, err = c.filesystems.Filesystems(ctx)
			return err
		})
	}
	if c.disks != nil {
		c.read(ctx, SourceDisks, func(ctx context.Context) (err error) {
			snap.Disks, err = c.disks.Disks(ctx)
			return err
		})
	}
	if c.network != nil {
		c.read(ctx, SourceNetwork, func(ctx context.Context) (err error) {
			snap.Network, err = c.network.Network(ctx)
			return err
		})
	}
	if c.processes != nil {
		c.read(ctx, SourceProcesses, func(ctx context.Context) (err error) {
			snap.Processes, err = c.processes.Processes(ctx)
			return err
		})
	}

	return snap
}

func (c *Collector) read(ctx context.Context, source string, fn func(context.Context) error) {
	read(ctx, source, c.sourceTimeout, fn)
}

// read runs fn with an optional timeout and records its outcome. Errors
// caused by cancellation of ctx are not source failures. Sources
// return nil records alongside an error, so a failed read leaves the
// sub-record unset.
func read(ctx context.Context, source string, timeout time.Duration, fn func(context.Context) error) {
	// a canceled cycle is discarded, so its sources are not read
	if ctx.Err() != nil {
		return
	}

	rctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(rctx)
	sourceDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err == nil {
		return
	}

	if ctx.Err() != nil {
		slog.Debug("source read interrupted",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return
	}

	sourceErrors.WithLabelValues(source).Inc()
	code := nserrors.CodeOf(err)
	if code == "" {
		code = nserrors.ErrCodeSourceUnavailable
	}
	slog.Warn("source read failed",
		slog.String("source", source),
		slog.String("code", string(code)),
		slog.String("error", err.Error()))
}
