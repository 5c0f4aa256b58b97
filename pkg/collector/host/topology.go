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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"

	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Topology reads the CPU layout from sysfs, the cache hierarchy of cpu0 and
// the vendor and model name from /proc/cpuinfo. Only the sysfs CPU listing is
// required; cache and identity data are best effort.
func (r *Reader) Topology(ctx context.Context) (*snapshot.Topology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cpuDir := filepath.Join(r.sysPath, "devices", "system", "cpu")
	cpus, err := r.sys.CPUs()
	if err != nil {
		return nil, unavailable("topology", cpuDir, err)
	}
	if len(cpus) == 0 {
		return nil, nserrors.NewWithContext(nserrors.ErrCodeParseFailure,
			"no cpus found", map[string]any{"path": cpuDir})
	}

	packages := make(map[string]struct{})
	cores := make(map[string]struct{})
	for _, c := range cpus {
		t, err := c.Topology()
		if err != nil {
			// offline cpus have no topology directory
			slog.Debug("skipping cpu topology",
				slog.String("cpu", c.Number()),
				slog.String("error", err.Error()))
			continue
		}
		packages[t.PhysicalPackageID] = struct{}{}
		cores[t.PhysicalPackageID+"/"+t.CoreID] = struct{}{}
	}

	topo := &snapshot.Topology{
		Packages: snapshot.G(float64(len(packages))),
		Cores:    snapshot.G(float64(len(cores))),
		Threads:  snapshot.G(float64(len(cpus))),
	}

	caches, err := r.readCaches(filepath.Join(cpuDir, "cpu0", "cache"))
	if err != nil {
		slog.Debug("cache hierarchy unavailable", slog.String("error", err.Error()))
	} else {
		topo.Caches = caches
	}

	if info, err := cpu.InfoWithContext(r.gopsutilContext(ctx)); err == nil && len(info) > 0 {
		topo.Vendor = snapshot.LabelValue(info[0].VendorID)
		topo.Model = snapshot.LabelValue(info[0].ModelName)
	}

	return topo, nil
}

// readCaches reads <dir>/index*/{level,type,size}.
func (r *Reader) readCaches(dir string) (snapshot.KeyedGaugeSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	set := make(snapshot.KeyedGaugeSet)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "index") {
			continue
		}
		base := filepath.Join(dir, e.Name())

		level, err := r.parser.GetValue(filepath.Join(base, "level"))
		if err != nil {
			return nil, err
		}
		typ, err := r.parser.GetValue(filepath.Join(base, "type"))
		if err != nil {
			return nil, err
		}
		raw, err := r.parser.GetValue(filepath.Join(base, "size"))
		if err != nil {
			return nil, err
		}
		size, err := ParseCacheSize(raw)
		if err != nil {
			return nil, err
		}

		set[snapshot.EntityKey(e.Name())] = snapshot.GaugeRecord{
			Labels: map[string]string{
				snapshot.LabelCacheLevel: level,
				snapshot.LabelCacheType:  strings.ToLower(typ),
			},
			Values: map[string]snapshot.Gauge{
				snapshot.KeyCacheSize: snapshot.G(float64(size)),
			},
		}
	}

	return set, nil
}

// ParseCacheSize converts a sysfs cache size such as "32K" or "8192K" or "1M"
// into bytes. A bare number is taken as bytes.
func ParseCacheSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nserrors.New(nserrors.ErrCodeParseFailure, "empty cache size")
	}

	mult := uint64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1 << 10
	case 'M', 'm':
		mult = 1 << 20
	case 'G', 'g':
		mult = 1 << 30
	}
	if mult > 1 {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, nserrors.Wrap(nserrors.ErrCodeParseFailure,
			fmt.Sprintf("invalid cache size %q", s), err)
	}
	return n * mult, nil
}
