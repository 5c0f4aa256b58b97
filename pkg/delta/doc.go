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

// Package delta turns two consecutive snapshots into metric operations.
//
// Diff is pure: it reads a previous and a current snapshot and returns the
// ordered list of SetGauge and IncrementCounter operations to apply to the
// registry. Gauges are emitted verbatim. Counters advance by the difference
// between the two snapshots; a counter that went backwards is taken as reset
// and advances by its full current value, as does any entity seen for the
// first time. Entities that vanished emit nothing, so their series are
// neither advanced nor removed.
//
// Descriptors lists every metric Diff can emit so a registry can register
// them up front.
package delta
