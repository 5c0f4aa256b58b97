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
	"path/filepath"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// sectorSize is the fixed unit of the sector counters in /proc/diskstats,
// independent of the device's physical sector size.
const sectorSize = 512

// Disks reads /proc/diskstats and returns per-device I/O counters with sector
// counts converted to bytes and tick counts converted to seconds.
func (r *Reader) Disks(ctx context.Context) (snapshot.KeyedCounterSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats, err := r.block.ProcDiskstats()
	if err != nil {
		return nil, unavailable("diskstats", filepath.Join(r.procPath, "diskstats"), err)
	}

	set := make(snapshot.KeyedCounterSet, len(stats))
	for _, d := range stats {
		if r.diskFilter.Excluded(d.DeviceName) {
			continue
		}
		set[snapshot.EntityKey(snapshot.LabelValue(d.DeviceName))] = snapshot.CounterRecord{
			Values: map[string]snapshot.Counter{
				snapshot.KeyDiskReadsCompleted:  snapshot.Count(d.ReadIOs),
				snapshot.KeyDiskReadsMerged:     snapshot.Count(d.ReadMerges),
				snapshot.KeyDiskReadBytes:       snapshot.Bytes(d.ReadSectors * sectorSize),
				snapshot.KeyDiskReadTime:        millis(d.ReadTicks),
				snapshot.KeyDiskWritesCompleted: snapshot.Count(d.WriteIOs),
				snapshot.KeyDiskWritesMerged:    snapshot.Count(d.WriteMerges),
				snapshot.KeyDiskWrittenBytes:    snapshot.Bytes(d.WriteSectors * sectorSize),
				snapshot.KeyDiskWriteTime:       millis(d.WriteTicks),
				snapshot.KeyDiskIOTime:          millis(d.IOsTotalTicks),
				snapshot.KeyDiskIOTimeWeighted:  millis(d.WeightedIOTicks),
			},
		}
	}

	return set, nil
}

func millis(ms uint64) snapshot.Counter {
	return snapshot.Seconds(float64(ms) / 1000)
}
