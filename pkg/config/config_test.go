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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NVIDIA/nodestat/pkg/defaults"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaults.ServerPort, cfg.Port)
	assert.Equal(t, defaults.PollInterval, cfg.Interval)
	assert.True(t, cfg.Processes)
	assert.True(t, cfg.Microarch.Enabled)
	assert.Equal(t, "perf", cfg.Microarch.PerfPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Interval, cfg.Interval)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "nodestat.yaml", `
logLevel: debug
address: 127.0.0.1
port: 9200
interval: 2s
procPath: /host/proc
sysPath: /host/sys
processes: false
microarch:
  enabled: false
  perfPath: /usr/bin/perf
  gracePeriod: 3s
  groups: [CacheMisses]
exclude:
  disks: ["loop*"]
  network: ["veth*", "cali*"]
  fsTypes: []
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1", cfg.Address)
	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, "/host/proc", cfg.ProcPath)
	assert.Equal(t, "/host/sys", cfg.SysPath)
	assert.False(t, cfg.Processes)
	assert.False(t, cfg.Microarch.Enabled)
	assert.Equal(t, "/usr/bin/perf", cfg.Microarch.PerfPath)
	assert.Equal(t, 3*time.Second, cfg.Microarch.GracePeriod)
	assert.Equal(t, []string{"CacheMisses"}, cfg.Microarch.Groups)
	assert.Equal(t, []string{"loop*"}, cfg.Filters.Disks)
	assert.Equal(t, []string{"veth*", "cali*"}, cfg.Filters.Network)
	assert.NotNil(t, cfg.Filters.FSTypes, "an explicit empty list clears the defaults")
	assert.Empty(t, cfg.Filters.FSTypes)
	assert.Nil(t, cfg.Filters.MountPoints)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "nodestat.json", `{"port": 9300, "interval": "500ms"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown field", "c.yaml", "intreval: 1s\n"},
		{"bad duration", "c.yaml", "interval: soon\n"},
		{"bad grace period", "c.yaml", "microarch:\n  gracePeriod: x\n"},
		{"interval too small", "c.yaml", "interval: 1ms\n"},
		{"malformed", "c.json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, nserrors.HasCode(err, nserrors.ErrCodeInvalidRequest), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "9400")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvInterval, "250ms")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 9400, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestApplyEnv_InvalidIgnored(t *testing.T) {
	t.Setenv(EnvPort, "nope")
	t.Setenv(EnvInterval, "fast")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, defaults.ServerPort, cfg.Port)
	assert.Equal(t, defaults.PollInterval, cfg.Interval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "c.yaml", "port: 9200\n")
	t.Setenv(EnvPort, "9500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9500, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"upper case log level", func(c *Config) { c.LogLevel = "DEBUG" }, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"interval too small", func(c *Config) { c.Interval = time.Millisecond }, true},
		{"minimum interval", func(c *Config) { c.Interval = defaults.MinPollInterval }, false},
		{"no proc path", func(c *Config) { c.ProcPath = "" }, true},
		{"no perf path", func(c *Config) { c.Microarch.PerfPath = "" }, true},
		{"no perf path when disabled", func(c *Config) {
			c.Microarch.Enabled = false
			c.Microarch.PerfPath = ""
		}, false},
		{"zero grace period", func(c *Config) { c.Microarch.GracePeriod = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, nserrors.HasCode(err, nserrors.ErrCodeInvalidRequest))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
