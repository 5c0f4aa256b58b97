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

package snapshot

import (
	"sort"
	"time"
)

// Unit identifies the unit a Counter is expressed in.
type Unit string

// String returns the string representation of the Unit.
func (u Unit) String() string {
	return string(u)
}

const (
	UnitCount   Unit = "count"
	UnitBytes   Unit = "bytes"
	UnitSeconds Unit = "seconds"
)

// EntityKey identifies a variable-cardinality tracked object such as a device
// name, an interface name, a mount point or a process id.
type EntityKey string

// Counter is a monotonically non-decreasing value within one boot.
// Time counters are stored already normalized to seconds.
type Counter struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// Count returns a Counter in UnitCount.
func Count(v uint64) Counter { return Counter{Value: float64(v), Unit: UnitCount} }

// Bytes returns a Counter in UnitBytes.
func Bytes(v uint64) Counter { return Counter{Value: float64(v), Unit: UnitBytes} }

// Seconds returns a Counter in UnitSeconds.
func Seconds(v float64) Counter { return Counter{Value: v, Unit: UnitSeconds} }

// Gauge is an instantaneous value.
type Gauge struct {
	Value float64 `json:"value" yaml:"value"`
}

// G is shorthand for building a Gauge.
func G(v float64) Gauge { return Gauge{Value: v} }

// CounterRecord is the set of counters tracked for one entity. Labels carries
// descriptive labels beyond the entity key itself.
type CounterRecord struct {
	Labels map[string]string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Values map[string]Counter `json:"values" yaml:"values"`
}

// GaugeRecord is the set of gauges tracked for one entity.
type GaugeRecord struct {
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Values map[string]Gauge  `json:"values" yaml:"values"`
}

// KeyedCounterSet maps entities to their counters. Keys may come and go between snapshots.
type KeyedCounterSet map[EntityKey]CounterRecord

// KeyedGaugeSet maps entities to their gauges. Keys may come and go between snapshots.
type KeyedGaugeSet map[EntityKey]GaugeRecord

// Keys returns the entity keys in sorted order.
func (s KeyedCounterSet) Keys() []EntityKey {
	return sortedKeys(s)
}

// Keys returns the entity keys in sorted order.
func (s KeyedGaugeSet) Keys() []EntityKey {
	return sortedKeys(s)
}

func sortedKeys[V any](m map[EntityKey]V) []EntityKey {
	keys := make([]EntityKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Topology describes the CPU layout of the host.
type Topology struct {
	Packages Gauge `json:"packages" yaml:"packages"`
	Cores    Gauge `json:"cores" yaml:"cores"`
	Threads  Gauge `json:"threads" yaml:"threads"`

	// Caches is keyed by the sysfs cache index of cpu0 (index0, index1, ...)
	// with level and type labels and a size_bytes gauge.
	Caches KeyedGaugeSet `json:"caches,omitempty" yaml:"caches,omitempty"`

	Vendor string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Kernel holds the system-wide counters of /proc/stat.
type Kernel struct {
	ContextSwitches Counter `json:"contextSwitches" yaml:"contextSwitches"`
	Interrupts      Counter `json:"interrupts" yaml:"interrupts"`
	Forks           Counter `json:"forks" yaml:"forks"`
	BootTime        Gauge   `json:"bootTime" yaml:"bootTime"`
	ProcsRunning    Gauge   `json:"procsRunning" yaml:"procsRunning"`
	ProcsBlocked    Gauge   `json:"procsBlocked" yaml:"procsBlocked"`
}

// Memory holds /proc/meminfo values in bytes.
type Memory struct {
	Total     Gauge `json:"total" yaml:"total"`
	Free      Gauge `json:"free" yaml:"free"`
	Available Gauge `json:"available" yaml:"available"`
	Buffers   Gauge `json:"buffers" yaml:"buffers"`
	Cached    Gauge `json:"cached" yaml:"cached"`
	SwapTotal Gauge `json:"swapTotal" yaml:"swapTotal"`
	SwapFree  Gauge `json:"swapFree" yaml:"swapFree"`
}

// Load holds the load averages.
type Load struct {
	Load1  Gauge `json:"load1" yaml:"load1"`
	Load5  Gauge `json:"load5" yaml:"load5"`
	Load15 Gauge `json:"load15" yaml:"load15"`
}

// MicroarchSample is one window of hardware-counter derived measurements.
// The values describe only the window they were measured over.
type MicroarchSample struct {
	L1MissRate float64 `json:"l1MissRate" yaml:"l1MissRate"`
	L2MissRate float64 `json:"l2MissRate" yaml:"l2MissRate"`
	L3MissRate float64 `json:"l3MissRate" yaml:"l3MissRate"`
	IPC        float64 `json:"ipc" yaml:"ipc"`
}

// Snapshot is one capture of all tracked host values. Nil or empty sub-records
// mark sources that were unavailable for the cycle.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	Topology    *Topology        `json:"topology,omitempty" yaml:"topology,omitempty"`
	CPU         KeyedCounterSet  `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Kernel      *Kernel          `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Memory      *Memory          `json:"memory,omitempty" yaml:"memory,omitempty"`
	Load        *Load            `json:"load,omitempty" yaml:"load,omitempty"`
	Filesystems KeyedGaugeSet    `json:"filesystems,omitempty" yaml:"filesystems,omitempty"`
	Disks       KeyedCounterSet  `json:"disks,omitempty" yaml:"disks,omitempty"`
	Network     KeyedCounterSet  `json:"network,omitempty" yaml:"network,omitempty"`
	Processes   KeyedGaugeSet    `json:"processes,omitempty" yaml:"processes,omitempty"`
	Microarch   *MicroarchSample `json:"microarch,omitempty" yaml:"microarch,omitempty"`
}

// New returns an empty Snapshot stamped with ts.
func New(ts time.Time) *Snapshot {
	return &Snapshot{Timestamp: ts}
}
