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

// Package microarch samples hardware performance counters through perf.
//
// A Sampler runs one measurement window per cycle:
//
//	Idle -> Sampling -> ParsingOutput -> Idle
//
// Sampling starts `perf stat -a -M <groups>` and waits exactly one window on
// the injected clock. The window equals the polling cadence, so the wait is
// the cycle's pacing rather than extra latency. The helper is then sent
// SIGINT so it prints its totals to stderr; if it has not exited after the
// grace period it is killed and the sample is dropped.
//
// ParsingOutput reads lines of the form
//
//	<count> <event> # <value> <name>
//
// and requires L1MPKI, L2MPKI, L3MPKI and CPI. IPC is reported as 1/CPI. A
// sample missing any of them is dropped whole.
//
// If perf cannot be started, or exits before the window ends (no PMU access,
// missing privileges), the sampler logs once and disables itself for the rest
// of the process lifetime, returning Placeholder on every later call.
//
// Tests drive the state machine with k8s.io/utils/clock/testing.FakeClock and
// a fake Helper.
package microarch
