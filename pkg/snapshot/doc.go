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

// Package snapshot defines the immutable per-cycle capture of host state.
//
// A Snapshot groups sub-records by source. Counters are monotonically
// non-decreasing kernel values (CPU seconds, disk sectors, network bytes);
// gauges are instantaneous values that are never diffed. Keyed sets map an
// EntityKey (device, interface, mount point, pid) to a record and may gain or
// lose keys between two snapshots.
//
// A nil pointer sub-record or an empty keyed set means the source could not
// be read in that cycle.
//
// The polling loop holds at most two snapshots: the current one and the one
// from the previous cycle.
package snapshot
