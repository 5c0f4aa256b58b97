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

package host

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Filesystems lists mounted filesystems and returns capacity gauges keyed by
// mount point. Mounts that fail statfs (stale NFS, permission) are skipped
// rather than failing the whole read.
func (r *Reader) Filesystems(ctx context.Context) (snapshot.KeyedGaugeSet, error) {
	gctx := r.gopsutilContext(ctx)

	parts, err := disk.PartitionsWithContext(gctx, true)
	if err != nil {
		return nil, unavailable("mounts", filepath.Join(r.procPath, "1", "mountinfo"), err)
	}

	set := make(snapshot.KeyedGaugeSet, len(parts))
	for _, p := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.fsTypeFilter.Excluded(p.Fstype) || r.mountFilter.Excluded(p.Mountpoint) {
			continue
		}
		key := snapshot.EntityKey(snapshot.LabelValue(p.Mountpoint))
		if _, seen := set[key]; seen {
			continue
		}

		u, err := disk.UsageWithContext(gctx, p.Mountpoint)
		if err != nil {
			slog.Debug("skipping filesystem",
				slog.String("mountpoint", p.Mountpoint),
				slog.String("error", err.Error()))
			continue
		}

		set[key] = snapshot.GaugeRecord{
			Labels: map[string]string{
				snapshot.LabelDevice: snapshot.LabelValue(p.Device),
				snapshot.LabelFSType: snapshot.LabelValue(p.Fstype),
			},
			Values: map[string]snapshot.Gauge{
				snapshot.KeyFSSize:      snapshot.G(float64(u.Total)),
				snapshot.KeyFSFree:      snapshot.G(float64(u.Total - u.Used)),
				snapshot.KeyFSAvail:     snapshot.G(float64(u.Free)),
				snapshot.KeyFSFiles:     snapshot.G(float64(u.InodesTotal)),
				snapshot.KeyFSFilesFree: snapshot.G(float64(u.InodesFree)),
			},
		}
	}

	return set, nil
}
