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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/nodestat/pkg/serializer"
	"github.com/NVIDIA/nodestat/pkg/snapshotter"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Print one host snapshot",
		Description: `Read every source once and print the raw snapshot: CPU times, kernel
counters, memory, load, filesystems, disks, network devices, processes
and CPU topology. Counters are absolute values since boot.

The snapshot can be output in JSON, YAML, or table format.

# Examples

  nodestat snapshot
  nodestat snapshot --format table --no-processes
  nodestat snapshot --microarch --interval 2s --format yaml --output host.yaml`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagMicroarch,
				Usage: "Also run one hardware-counter window of --interval",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			factory, err := newFactory(cfg, cmd.Bool(flagMicroarch) && cfg.Microarch.Enabled)
			if err != nil {
				return fmt.Errorf("failed to create sources: %w", err)
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String(flagOutput))
			defer func() {
				if cerr := w.Close(); cerr != nil {
					slog.Warn("failed to close output", slog.String("error", cerr.Error()))
				}
			}()

			ns := snapshotter.NodeSnapshotter{
				Version:    version,
				Factory:    factory,
				Serializer: w,
			}
			return ns.Measure(ctx)
		},
	}
}
