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
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/NVIDIA/nodestat/pkg/defaults"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/serializer"
)

const (
	// EnvPort overrides the listen port.
	EnvPort = "PORT"
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "LOG_LEVEL"
	// EnvInterval overrides the cadence, as a Go duration.
	EnvInterval = "NODESTAT_INTERVAL"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Microarch configures the hardware-counter sampler.
type Microarch struct {
	Enabled     bool
	PerfPath    string
	GracePeriod time.Duration
	Groups      []string
}

// Filters exclude entities by glob pattern. Nil keeps the reader defaults.
type Filters struct {
	Disks       []string
	Network     []string
	FSTypes     []string
	MountPoints []string
}

// Config is the resolved runtime configuration.
type Config struct {
	LogLevel  string
	Address   string
	Port      int
	Interval  time.Duration
	ProcPath  string
	SysPath   string
	Processes bool
	Microarch Microarch
	Filters   Filters
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Port:      defaults.ServerPort,
		Interval:  defaults.PollInterval,
		ProcPath:  "/proc",
		SysPath:   "/sys",
		Processes: true,
		Microarch: Microarch{
			Enabled:     true,
			PerfPath:    "perf",
			GracePeriod: defaults.HelperGracePeriod,
		},
	}
}

// Load resolves the configuration from defaults, the optional file at path
// and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := serializer.FromFile[File](path)
		if err != nil {
			return nil, nserrors.WrapWithContext(nserrors.ErrCodeInvalidRequest,
				"failed to load config file", err, map[string]any{"path": path})
		}
		if err := cfg.ApplyFile(f); err != nil {
			return nil, err
		}
		slog.Debug("loaded config file", "path", path)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. Unparsable values are
// logged and ignored.
func (c *Config) ApplyEnv() {
	if portStr := os.Getenv(EnvPort); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			c.Port = port
		} else {
			slog.Warn("ignoring invalid port from environment", "env", EnvPort, "value", portStr)
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}

	if iv := os.Getenv(EnvInterval); iv != "" {
		d, err := time.ParseDuration(iv)
		if err != nil {
			slog.Warn("ignoring invalid interval from environment", "env", EnvInterval, "value", iv)
		} else {
			c.Interval = d
		}
	}
}

// Validate checks that the configuration can run.
func (c *Config) Validate() error {
	invalid := func(msg string, ctx map[string]any) error {
		return nserrors.NewWithContext(nserrors.ErrCodeInvalidRequest, msg, ctx)
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return invalid("unknown log level", map[string]any{"logLevel": c.LogLevel})
	}
	if c.Port < 1 || c.Port > 65535 {
		return invalid("port out of range", map[string]any{"port": c.Port})
	}
	if c.Interval < defaults.MinPollInterval {
		return invalid("interval below minimum", map[string]any{
			"interval": c.Interval.String(),
			"minimum":  defaults.MinPollInterval.String(),
		})
	}
	if c.ProcPath == "" || c.SysPath == "" {
		return invalid("proc and sys paths are required", nil)
	}
	if c.Microarch.Enabled {
		if c.Microarch.PerfPath == "" {
			return invalid("perf path is required when microarch sampling is enabled", nil)
		}
		if c.Microarch.GracePeriod <= 0 {
			return invalid("microarch grace period must be positive", map[string]any{
				"gracePeriod": c.Microarch.GracePeriod.String(),
			})
		}
	}
	return nil
}
