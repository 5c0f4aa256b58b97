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

package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/NVIDIA/nodestat/pkg/collector"
	"github.com/NVIDIA/nodestat/pkg/serializer"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
	"k8s.io/utils/clock"
)

const (
	// ReportKind is the kind of a one-shot report.
	ReportKind = "NodeSnapshot"
	// ReportAPIVersion is the schema version of a one-shot report.
	ReportAPIVersion = "nodestat.nvidia.com/v1alpha1"
)

// Report wraps a snapshot with identifying metadata for one-shot output.
type Report struct {
	Kind       string             `json:"kind" yaml:"kind"`
	APIVersion string             `json:"apiVersion" yaml:"apiVersion"`
	Metadata   map[string]string  `json:"metadata" yaml:"metadata"`
	Snapshot   *snapshot.Snapshot `json:"snapshot" yaml:"snapshot"`
}

// NodeSnapshotter produces a single snapshot of the current host and
// serializes it.
type NodeSnapshotter struct {
	// Version is the nodestat version recorded in the report metadata.
	Version string

	// Factory is the source factory to use. If nil, the default factory is used.
	Factory collector.Factory

	// Serializer is the serializer to use for output. If nil, a default stdout JSON serializer is used.
	Serializer serializer.Serializer

	// Clock stamps the snapshot. If nil, the real clock is used.
	Clock clock.PassiveClock
}

// Measure collects one snapshot and serializes it. Individual source failures
// leave their part of the snapshot empty; only factory or serialization
// failures are returned.
func (n *NodeSnapshotter) Measure(ctx context.Context) error {
	if n.Factory == nil {
		f, err := collector.NewDefaultFactory()
		if err != nil {
			snapshotCollectionTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to create source factory: %w", err)
		}
		n.Factory = f
	}
	if n.Clock == nil {
		n.Clock = clock.RealClock{}
	}

	slog.Debug("starting node snapshot")

	snap := collector.New(n.Factory).Produce(ctx, n.Clock.Now())
	if err := ctx.Err(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("snapshot interrupted: %w", err)
	}

	report := NewReport(n.Version, snap)

	if n.Serializer == nil {
		n.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	if err := n.Serializer.Serialize(ctx, report); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	return nil
}

// NewReport wraps snap with the host name and version.
func NewReport(version string, snap *snapshot.Snapshot) *Report {
	hostname, err := os.Hostname()
	if err != nil {
		slog.Debug("failed to read hostname", "error", err)
		hostname = "unknown"
	}
	return &Report{
		Kind:       ReportKind,
		APIVersion: ReportAPIVersion,
		Metadata: map[string]string{
			"source-node": hostname,
			"version":     version,
		},
		Snapshot: snap,
	}
}
