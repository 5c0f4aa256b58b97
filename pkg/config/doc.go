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

// Package config resolves the runtime configuration of nodestat.
//
// Precedence, lowest first: built-in defaults, the optional YAML or JSON
// file given with --config, the environment (PORT, LOG_LEVEL,
// NODESTAT_INTERVAL) and finally command line flags, which the cli
// package applies on top before calling Validate.
//
// Example file:
//
//	logLevel: info
//	port: 9123
//	interval: 1s
//	procPath: /host/proc
//	sysPath: /host/sys
//	processes: false
//	microarch:
//	  enabled: true
//	  perfPath: /usr/bin/perf
//	  gracePeriod: 2s
//	exclude:
//	  disks: ["loop*", "ram*"]
//	  network: ["veth*", "cali*"]
package config
