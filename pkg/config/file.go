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

package config

import (
	"time"

	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
)

// File is the on-disk configuration (YAML or JSON). Every field is optional;
// durations use Go syntax ("1s", "500ms").
type File struct {
	LogLevel  string         `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Address   string         `json:"address,omitempty" yaml:"address,omitempty"`
	Port      int            `json:"port,omitempty" yaml:"port,omitempty"`
	Interval  string         `json:"interval,omitempty" yaml:"interval,omitempty"`
	ProcPath  string         `json:"procPath,omitempty" yaml:"procPath,omitempty"`
	SysPath   string         `json:"sysPath,omitempty" yaml:"sysPath,omitempty"`
	Processes *bool          `json:"processes,omitempty" yaml:"processes,omitempty"`
	Microarch *MicroarchFile `json:"microarch,omitempty" yaml:"microarch,omitempty"`
	Exclude   *FiltersFile   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// MicroarchFile is the microarch section of File.
type MicroarchFile struct {
	Enabled     *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	PerfPath    string   `json:"perfPath,omitempty" yaml:"perfPath,omitempty"`
	GracePeriod string   `json:"gracePeriod,omitempty" yaml:"gracePeriod,omitempty"`
	Groups      []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// FiltersFile is the exclude section of File.
type FiltersFile struct {
	Disks       []string `json:"disks,omitempty" yaml:"disks,omitempty"`
	Network     []string `json:"network,omitempty" yaml:"network,omitempty"`
	FSTypes     []string `json:"fsTypes,omitempty" yaml:"fsTypes,omitempty"`
	MountPoints []string `json:"mountPoints,omitempty" yaml:"mountPoints,omitempty"`
}

// ApplyFile overlays the fields set in f.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}

	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Address != "" {
		c.Address = f.Address
	}
	if f.Port != 0 {
		c.Port = f.Port
	}
	if f.Interval != "" {
		d, err := parseDuration("interval", f.Interval)
		if err != nil {
			return err
		}
		c.Interval = d
	}
	if f.ProcPath != "" {
		c.ProcPath = f.ProcPath
	}
	if f.SysPath != "" {
		c.SysPath = f.SysPath
	}
	if f.Processes != nil {
		c.Processes = *f.Processes
	}

	if m := f.Microarch; m != nil {
		if m.Enabled != nil {
			c.Microarch.Enabled = *m.Enabled
		}
		if m.PerfPath != "" {
			c.Microarch.PerfPath = m.PerfPath
		}
		if m.GracePeriod != "" {
			d, err := parseDuration("microarch.gracePeriod", m.GracePeriod)
			if err != nil {
				return err
			}
			c.Microarch.GracePeriod = d
		}
		if len(m.Groups) > 0 {
			c.Microarch.Groups = m.Groups
		}
	}

	if e := f.Exclude; e != nil {
		if e.Disks != nil {
			c.Filters.Disks = e.Disks
		}
		if e.Network != nil {
			c.Filters.Network = e.Network
		}
		if e.FSTypes != nil {
			c.Filters.FSTypes = e.FSTypes
		}
		if e.MountPoints != nil {
			c.Filters.MountPoints = e.MountPoints
		}
	}

	return nil
}

func parseDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, nserrors.WrapWithContext(nserrors.ErrCodeInvalidRequest,
			"invalid duration", err, map[string]any{"field": field, "value": v})
	}
	return d, nil
}
