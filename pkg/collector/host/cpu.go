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
	"strconv"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Stat reads /proc/stat once and returns the per-cpu mode counters together
// with the kernel-wide counters from the same read.
func (r *Reader) Stat(ctx context.Context) (snapshot.KeyedCounterSet, *snapshot.Kernel, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	st, err := r.proc.Stat()
	if err != nil {
		return nil, nil, unavailable("stat", filepath.Join(r.procPath, "stat"), err)
	}

	cpus := make(snapshot.KeyedCounterSet, len(st.CPU))
	for id, c := range st.CPU {
		key := snapshot.EntityKey(strconv.FormatInt(id, 10))
		cpus[key] = snapshot.CounterRecord{
			Values: map[string]snapshot.Counter{
				snapshot.KeyCPUUser:    snapshot.Seconds(c.User),
				snapshot.KeyCPUNice:    snapshot.Seconds(c.Nice),
				snapshot.KeyCPUSystem:  snapshot.Seconds(c.System),
				snapshot.KeyCPUIdle:    snapshot.Seconds(c.Idle),
				snapshot.KeyCPUIowait:  snapshot.Seconds(c.Iowait),
				snapshot.KeyCPUIRQ:     snapshot.Seconds(c.IRQ),
				snapshot.KeyCPUSoftIRQ: snapshot.Seconds(c.SoftIRQ),
				snapshot.KeyCPUSteal:   snapshot.Seconds(c.Steal),
			},
		}
	}

	kernel := &snapshot.Kernel{
		ContextSwitches: snapshot.Count(st.ContextSwitches),
		Interrupts:      snapshot.Count(st.IRQTotal),
		Forks:           snapshot.Count(st.ProcessCreated),
		BootTime:        snapshot.G(float64(st.BootTime)),
		ProcsRunning:    snapshot.G(float64(st.ProcessesRunning)),
		ProcsBlocked:    snapshot.G(float64(st.ProcessesBlocked)),
	}

	return cpus, kernel, nil
}
