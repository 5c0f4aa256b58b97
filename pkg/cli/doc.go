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

// Package cli implements the nodestat command line.
//
// # Commands
//
// serve (default) - run the exporter:
//
//	nodestat [serve] [--port 9123] [--interval 1s] [--disable-microarch]
//
// Starts the sampling loop and the HTTP server (/metrics, /health, /ready, /)
// under one errgroup. SIGINT or SIGTERM stops both.
//
// snapshot - print one snapshot:
//
//	nodestat snapshot [--format json|yaml|table] [--output file] [--microarch]
//
// # Global Flags
//
//	--config, -c         YAML or JSON configuration file
//	--log-level          debug, info, warn, error (LOG_LEVEL)
//	--address            listen address
//	--port, -p           listen port (PORT)
//	--interval, -i       sampling cadence (NODESTAT_INTERVAL)
//	--disable-microarch  do not start perf
//	--perf-path          perf binary
//	--proc-path          procfs mount point
//	--sys-path           sysfs mount point
//	--no-processes       skip per-process gauges
//
// Flags override the environment, which overrides the configuration file.
package cli
