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

	"github.com/shirou/gopsutil/v4/load"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Load reads the 1, 5 and 15 minute load averages.
func (r *Reader) Load(ctx context.Context) (*snapshot.Load, error) {
	avg, err := load.AvgWithContext(r.gopsutilContext(ctx))
	if err != nil {
		return nil, unavailable("loadavg", filepath.Join(r.procPath, "loadavg"), err)
	}

	return &snapshot.Load{
		Load1:  snapshot.G(avg.Load1),
		Load5:  snapshot.G(avg.Load5),
		Load15: snapshot.G(avg.Load15),
	}, nil
}
