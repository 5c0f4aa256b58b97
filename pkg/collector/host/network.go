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

// Network reads /proc/net/dev and returns per-interface traffic counters.
// Interfaces matching the network exclusion patterns are skipped.
func (r *Reader) Network(ctx context.Context) (snapshot.KeyedCounterSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dev, err := r.proc.NetDev()
	if err != nil {
		return nil, unavailable("netdev", filepath.Join(r.procPath, "net", "dev"), err)
	}

	set := make(snapshot.KeyedCounterSet, len(dev))
	for name, line := range dev {
		if r.netFilter.Excluded(name) {
			continue
		}
		set[snapshot.EntityKey(snapshot.LabelValue(name))] = snapshot.CounterRecord{
			Values: map[string]snapshot.Counter{
				snapshot.KeyNetReceiveBytes:    snapshot.Bytes(line.RxBytes),
				snapshot.KeyNetReceivePackets:  snapshot.Count(line.RxPackets),
				snapshot.KeyNetReceiveErrs:     snapshot.Count(line.RxErrors),
				snapshot.KeyNetReceiveDrop:     snapshot.Count(line.RxDropped),
				snapshot.KeyNetTransmitBytes:   snapshot.Bytes(line.TxBytes),
				snapshot.KeyNetTransmitPackets: snapshot.Count(line.TxPackets),
				snapshot.KeyNetTransmitErrs:    snapshot.Count(line.TxErrors),
				snapshot.KeyNetTransmitDrop:    snapshot.Count(line.TxDropped),
			},
		}
	}

	return set, nil
}
