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

// Package host reads kernel pseudo-files into snapshot records.
//
// A Reader is bound to a procfs and a sysfs mount point, which default to
// /proc and /sys and may point at host mounts when running in a container:
//
//	r, err := host.NewReader(host.WithProcPath("/host/proc"), host.WithSysPath("/host/sys"))
//	cpus, kernel, err := r.Stat(ctx)
//
// Parsing is delegated to github.com/prometheus/procfs for /proc/stat,
// /proc/meminfo, /proc/net/dev, /proc/diskstats, /proc/<pid>/stat and the
// sysfs CPU topology, and to github.com/shirou/gopsutil for load averages,
// mount enumeration, statfs and /proc/cpuinfo.
//
// Every method performs exactly one read of its source per call. Failures are
// returned as SOURCE_UNAVAILABLE (the file could not be read) or
// PARSE_FAILURE (the content had an unexpected shape) structured errors.
package host
