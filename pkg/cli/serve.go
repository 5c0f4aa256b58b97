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
	"net/http"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/nodestat/pkg/collector"
	"github.com/NVIDIA/nodestat/pkg/delta"
	"github.com/NVIDIA/nodestat/pkg/logging"
	"github.com/NVIDIA/nodestat/pkg/registry"
	"github.com/NVIDIA/nodestat/pkg/server"
	"github.com/NVIDIA/nodestat/pkg/snapshotter"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the exporter (default command)",
		Description: `Sample the host once per interval and serve the results on /metrics.

/health reports liveness, /ready turns 200 once the first cycle has been
applied. Under systemd the process sends READY=1, WATCHDOG=1 when a
watchdog is configured, and STOPPING=1 on shutdown.

# Examples

  nodestat serve --port 9123 --interval 1s
  nodestat serve --proc-path /host/proc --sys-path /host/sys --disable-microarch`,
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)

	factory, err := newFactory(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to create sources: %w", err)
	}

	reg := registry.New()
	if err := reg.RegisterDescriptors(delta.Descriptors()); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	srv := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithAddress(cfg.Address),
		server.WithPort(cfg.Port),
		server.WithHandler(map[string]http.Handler{"/metrics": reg.Handler()}),
	)

	loop := snapshotter.NewLoop(collector.New(factory), reg,
		snapshotter.WithInterval(cfg.Interval),
		snapshotter.WithReadiness(srv),
	)

	slog.Info("starting exporter",
		slog.String("address", srv.Addr()),
		slog.Duration("interval", cfg.Interval),
		slog.Bool("microarch", cfg.Microarch.Enabled),
		slog.Bool("processes", cfg.Processes),
		slog.String("procPath", cfg.ProcPath),
		slog.String("sysPath", cfg.SysPath))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		return loop.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("exporter error: %w", err)
	}

	slog.Info("exporter stopped gracefully")
	return nil
}
