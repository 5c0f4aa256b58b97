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

// Package snapshotter drives the collectors.
//
// Loop is the long-running exporter: every interval it asks the
// collector for a new snapshot, diffs it against the previous one with
// pkg/delta and applies the operations to the metric registry. Cycles are
// strictly sequential. When the microarch sampler is active its window
// paces the loop; otherwise the loop waits out the remainder of the
// interval on its clock. After the first applied cycle the loop marks the
// HTTP server ready and sends READY=1 to systemd, then WATCHDOG=1 every
// cycle when a watchdog is configured and STOPPING=1 on exit.
//
//	loop := snapshotter.NewLoop(collector.New(factory), reg,
//		snapshotter.WithInterval(time.Second),
//		snapshotter.WithReadiness(srv),
//	)
//	g.Go(func() error { return loop.Run(ctx) })
//
// NodeSnapshotter takes one snapshot and writes it through a serializer,
// wrapped in a Report carrying the host name and version.
//
//	s := &snapshotter.NodeSnapshotter{
//		Version:    version,
//		Serializer: serializer.NewFileWriterOrStdout(serializer.FormatYAML, ""),
//	}
//	if err := s.Measure(ctx); err != nil {
//		return err
//	}
//
// Self metrics: nodestat_cycle_duration_seconds, nodestat_cycles_total,
// nodestat_counter_resets_total, nodestat_apply_errors_total and
// nodestat_last_cycle_timestamp_seconds.
package snapshotter
