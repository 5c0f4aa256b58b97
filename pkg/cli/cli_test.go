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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nodestat/pkg/config"
	"github.com/NVIDIA/nodestat/pkg/serializer"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvPort, config.EnvLogLevel, config.EnvInterval, "NODESTAT_CONFIG"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{name: "json", format: "json", want: serializer.FormatJSON},
		{name: "yaml", format: "yaml", want: serializer.FormatYAML},
		{name: "table", format: "table", want: serializer.FormatTable},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got serializer.Format
			var gotErr error
			cmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{formatFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					got, gotErr = parseOutputFormat(cmd)
					return nil
				},
			}

			err := cmd.Run(context.Background(), []string{"test", "--format", tt.format})
			require.NoError(t, err)

			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			assert.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func runLoadConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var cfg *config.Config
	var loadErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: globalFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, loadErr = loadConfig(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return cfg, loadErr
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nodestat.yaml")
	content := `
port: 9500
interval: 5s
processes: true
microarch:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := runLoadConfig(t,
		"--config", path,
		"--port", "9600",
		"--no-processes",
		"--disable-microarch",
		"--proc-path", "/host/proc",
	)
	require.NoError(t, err)

	assert.Equal(t, 9600, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Interval, "file value kept when flag not set")
	assert.False(t, cfg.Processes)
	assert.False(t, cfg.Microarch.Enabled)
	assert.Equal(t, "/host/proc", cfg.ProcPath)
	assert.Equal(t, "/sys", cfg.SysPath)
}

func TestLoadConfig_EnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvInterval, "250ms")

	cfg, err := runLoadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)

	_, err := runLoadConfig(t, "--interval", "10ms")
	assert.Error(t, err)

	_, err = runLoadConfig(t, "--log-level", "verbose")
	assert.Error(t, err)
}

func TestNewFactory(t *testing.T) {
	cfg := config.Default()
	cfg.Filters.Disks = []string{"^loop"}

	f, err := newFactory(cfg, false)
	require.NoError(t, err)
	assert.Nil(t, f.CreateMicroarchSource())

	f, err = newFactory(cfg, true)
	require.NoError(t, err)
	assert.NotNil(t, f.CreateMicroarchSource())
}

func TestSnapshotCommand(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	procDir := filepath.Join(root, "proc")
	sysDir := filepath.Join(root, "sys")
	require.NoError(t, os.MkdirAll(procDir, 0o755))
	require.NoError(t, os.MkdirAll(sysDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(procDir, "loadavg"),
		[]byte("0.50 0.40 0.30 1/100 1234\n"), 0o600))

	out := filepath.Join(root, "snapshot.json")

	err := NewCommand().Run(context.Background(), []string{
		name, "snapshot",
		"--proc-path", procDir,
		"--sys-path", sysDir,
		"--no-processes",
		"--output", out,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"kind": "NodeSnapshot"`), string(data))
}

func TestSnapshotCommand_BadFormat(t *testing.T) {
	clearEnv(t)

	err := NewCommand().Run(context.Background(), []string{name, "snapshot", "--format", "xml"})
	assert.Error(t, err)
}
