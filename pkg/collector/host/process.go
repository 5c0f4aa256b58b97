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
	"strconv"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Processes reads /proc/<pid>/stat for every live process and returns memory
// gauges keyed by pid. Processes that exit mid-scan are skipped.
func (r *Reader) Processes(ctx context.Context) (snapshot.KeyedGaugeSet, error) {
	procs, err := r.proc.AllProcs()
	if err != nil {
		return nil, unavailable("processes", r.procPath, err)
	}

	set := make(snapshot.KeyedGaugeSet, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st, err := p.Stat()
		if err != nil {
			continue
		}
		set[snapshot.EntityKey(strconv.Itoa(p.PID))] = snapshot.GaugeRecord{
			Labels: map[string]string{
				snapshot.LabelComm: snapshot.LabelValue(st.Comm),
			},
			Values: map[string]snapshot.Gauge{
				snapshot.KeyProcResident: snapshot.G(float64(st.ResidentMemory())),
				snapshot.KeyProcVirtual:  snapshot.G(float64(st.VirtualMemory())),
			},
		}
	}

	return set, nil
}
