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

	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Memory reads /proc/meminfo. MemTotal and MemFree are required; the other
// fields read as zero on kernels that do not report them.
func (r *Reader) Memory(ctx context.Context) (*snapshot.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(r.procPath, "meminfo")
	mi, err := r.proc.Meminfo()
	if err != nil {
		return nil, unavailable("meminfo", path, err)
	}

	if mi.MemTotalBytes == nil || mi.MemFreeBytes == nil {
		return nil, nserrors.NewWithContext(nserrors.ErrCodeParseFailure,
			"meminfo is missing MemTotal or MemFree", map[string]any{"path": path})
	}

	return &snapshot.Memory{
		Total:     bytesGauge(mi.MemTotalBytes),
		Free:      bytesGauge(mi.MemFreeBytes),
		Available: bytesGauge(mi.MemAvailableBytes),
		Buffers:   bytesGauge(mi.BuffersBytes),
		Cached:    bytesGauge(mi.CachedBytes),
		SwapTotal: bytesGauge(mi.SwapTotalBytes),
		SwapFree:  bytesGauge(mi.SwapFreeBytes),
	}, nil
}

func bytesGauge(v *uint64) snapshot.Gauge {
	if v == nil {
		return snapshot.G(0)
	}
	return snapshot.G(float64(*v))
}
