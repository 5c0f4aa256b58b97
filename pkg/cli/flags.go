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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nodestat/pkg/collector/host"
	"github.com/NVIDIA/nodestat/pkg/collector/microarch"
	"github.com/NVIDIA/nodestat/pkg/config"
	"github.com/NVIDIA/nodestat/pkg/defaults"
	"github.com/NVIDIA/nodestat/pkg/serializer"
)

const (
	flagConfig           = "config"
	flagLogLevel         = "log-level"
	flagAddress          = "address"
	flagPort             = "port"
	flagInterval         = "interval"
	flagDisableMicroarch = "disable-microarch"
	flagPerfPath         = "perf-path"
	flagProcPath         = "proc-path"
	flagSysPath          = "sys-path"
	flagNoProcesses      = "no-processes"
	flagFormat           = "format"
	flagOutput           = "output"
	flagMicroarch        = "microarch"
)

// globalFlags are persistent: every subcommand accepts them.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "Path to a YAML or JSON configuration file",
			Sources: cli.EnvVars("NODESTAT_CONFIG"),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars(config.EnvLogLevel),
		},
		&cli.StringFlag{
			Name:  flagAddress,
			Usage: "Listen address (host part, empty for all interfaces)",
		},
		&cli.IntFlag{
			Name:    flagPort,
			Aliases: []string{"p"},
			Usage:   "Listen port",
			Value:   defaults.ServerPort,
			Sources: cli.EnvVars(config.EnvPort),
		},
		&cli.DurationFlag{
			Name:    flagInterval,
			Aliases: []string{"i"},
			Usage:   "Sampling cadence",
			Value:   defaults.PollInterval,
			Sources: cli.EnvVars(config.EnvInterval),
		},
		&cli.BoolFlag{
			Name:  flagDisableMicroarch,
			Usage: "Do not run the hardware-counter helper; microarch gauges stay at zero",
		},
		&cli.StringFlag{
			Name:  flagPerfPath,
			Usage: "Path to the perf binary",
			Value: microarch.DefaultPerfPath,
		},
		&cli.StringFlag{
			Name:  flagProcPath,
			Usage: "procfs mount point",
			Value: host.DefaultProcPath,
		},
		&cli.StringFlag{
			Name:  flagSysPath,
			Usage: "sysfs mount point",
			Value: host.DefaultSysPath,
		},
		&cli.BoolFlag{
			Name:  flagNoProcesses,
			Usage: "Skip per-process memory gauges",
		},
	}
}

var (
	outputFlag = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
)

// parseOutputFormat validates --format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String(flagFormat))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// loadConfig resolves the config file and environment, then applies the
// flags the user set explicitly.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet(flagLogLevel) {
		cfg.LogLevel = cmd.String(flagLogLevel)
	}
	if cmd.IsSet(flagAddress) {
		cfg.Address = cmd.String(flagAddress)
	}
	if cmd.IsSet(flagPort) {
		cfg.Port = int(cmd.Int(flagPort))
	}
	if cmd.IsSet(flagInterval) {
		cfg.Interval = cmd.Duration(flagInterval)
	}
	if cmd.Bool(flagDisableMicroarch) {
		cfg.Microarch.Enabled = false
	}
	if cmd.IsSet(flagPerfPath) {
		cfg.Microarch.PerfPath = cmd.String(flagPerfPath)
	}
	if cmd.IsSet(flagProcPath) {
		cfg.ProcPath = cmd.String(flagProcPath)
	}
	if cmd.IsSet(flagSysPath) {
		cfg.SysPath = cmd.String(flagSysPath)
	}
	if cmd.Bool(flagNoProcesses) {
		cfg.Processes = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
