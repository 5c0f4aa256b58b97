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

package cli

import (
	"github.com/NVIDIA/nodestat/pkg/collector"
	"github.com/NVIDIA/nodestat/pkg/collector/host"
	"github.com/NVIDIA/nodestat/pkg/collector/microarch"
	"github.com/NVIDIA/nodestat/pkg/config"
)

func hostOptions(cfg *config.Config) []host.Option {
	opts := []host.Option{
		host.WithProcPath(cfg.ProcPath),
		host.WithSysPath(cfg.SysPath),
	}
	if cfg.Filters.Disks != nil {
		opts = append(opts, host.WithDiskExclude(cfg.Filters.Disks))
	}
	if cfg.Filters.Network != nil {
		opts = append(opts, host.WithNetworkExclude(cfg.Filters.Network))
	}
	if cfg.Filters.FSTypes != nil {
		opts = append(opts, host.WithFSTypeExclude(cfg.Filters.FSTypes))
	}
	if cfg.Filters.MountPoints != nil {
		opts = append(opts, host.WithMountPointExclude(cfg.Filters.MountPoints))
	}
	return opts
}

// newSampler builds the perf sampler whose window equals the cadence. A
// disabled sampler still answers every cycle with the zero placeholder.
func newSampler(cfg *config.Config) *microarch.Sampler {
	opts := []microarch.Option{
		microarch.WithWindow(cfg.Interval),
		microarch.WithGracePeriod(cfg.Microarch.GracePeriod),
		microarch.WithDisabled(!cfg.Microarch.Enabled),
	}
	if len(cfg.Microarch.Groups) > 0 {
		opts = append(opts, microarch.WithGroups(cfg.Microarch.Groups))
	}
	return microarch.New(microarch.NewPerfHelper(cfg.Microarch.PerfPath), opts...)
}

// newFactory wires the host readers and, when withMicroarch is set, the
// sampler.
func newFactory(cfg *config.Config, withMicroarch bool) (*collector.DefaultFactory, error) {
	opts := []collector.Option{
		collector.WithHostOptions(hostOptions(cfg)...),
		collector.WithProcesses(cfg.Processes),
	}
	if withMicroarch {
		opts = append(opts, collector.WithMicroarch(newSampler(cfg)))
	}
	return collector.NewDefaultFactory(opts...)
}
