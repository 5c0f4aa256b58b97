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

package delta

import (
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Namespace prefixes every exported metric name.
const Namespace = "nodestat"

// Descriptor describes one exported metric.
type Descriptor struct {
	Name   string
	Help   string
	Kind   Kind
	Labels []string
}

// field maps one value of a record to a metric.
type field struct {
	key    string
	metric string
	help   string
	// const labels distinguishing fields that share a metric name
	constLabels map[string]string
}

// keyedFamily is a KeyedCounterSet or KeyedGaugeSet export definition.
type keyedFamily struct {
	keyLabel    string
	extraLabels []string
	fields      []field
}

func name(subsystem, metric string) string {
	return Namespace + "_" + subsystem + "_" + metric
}

var cpuFamily = func() keyedFamily {
	f := keyedFamily{keyLabel: snapshot.LabelCPU}
	for _, mode := range snapshot.CPUModes {
		f.fields = append(f.fields, field{
			key:         mode,
			metric:      name("cpu", "seconds_total"),
			help:        "Seconds the CPUs spent in each mode.",
			constLabels: map[string]string{snapshot.LabelMode: mode},
		})
	}
	return f
}()

var cacheFamily = keyedFamily{
	keyLabel:    snapshot.LabelCacheIndex,
	extraLabels: []string{snapshot.LabelCacheLevel, snapshot.LabelCacheType},
	fields: []field{
		{key: snapshot.KeyCacheSize, metric: name("cpu", "cache_size_bytes"), help: "Size of each CPU cache of the first CPU."},
	},
}

var filesystemFamily = keyedFamily{
	keyLabel:    snapshot.LabelMountPoint,
	extraLabels: []string{snapshot.LabelDevice, snapshot.LabelFSType},
	fields: []field{
		{key: snapshot.KeyFSSize, metric: name("filesystem", "size_bytes"), help: "Filesystem size in bytes."},
		{key: snapshot.KeyFSFree, metric: name("filesystem", "free_bytes"), help: "Filesystem free space in bytes."},
		{key: snapshot.KeyFSAvail, metric: name("filesystem", "avail_bytes"), help: "Filesystem space available to non-root users in bytes."},
		{key: snapshot.KeyFSFiles, metric: name("filesystem", "files"), help: "Filesystem total file nodes."},
		{key: snapshot.KeyFSFilesFree, metric: name("filesystem", "files_free"), help: "Filesystem free file nodes."},
	},
}

var diskFamily = keyedFamily{
	keyLabel: snapshot.LabelDevice,
	fields: []field{
		{key: snapshot.KeyDiskReadsCompleted, metric: name("disk", "reads_completed_total"), help: "The total number of reads completed successfully."},
		{key: snapshot.KeyDiskReadsMerged, metric: name("disk", "reads_merged_total"), help: "The total number of reads merged."},
		{key: snapshot.KeyDiskReadBytes, metric: name("disk", "read_bytes_total"), help: "The total number of bytes read successfully."},
		{key: snapshot.KeyDiskReadTime, metric: name("disk", "read_time_seconds_total"), help: "The total number of seconds spent by all reads."},
		{key: snapshot.KeyDiskWritesCompleted, metric: name("disk", "writes_completed_total"), help: "The total number of writes completed successfully."},
		{key: snapshot.KeyDiskWritesMerged, metric: name("disk", "writes_merged_total"), help: "The number of writes merged."},
		{key: snapshot.KeyDiskWrittenBytes, metric: name("disk", "written_bytes_total"), help: "The total number of bytes written successfully."},
		{key: snapshot.KeyDiskWriteTime, metric: name("disk", "write_time_seconds_total"), help: "This is the total number of seconds spent by all writes."},
		{key: snapshot.KeyDiskIOTime, metric: name("disk", "io_time_seconds_total"), help: "Total seconds spent doing I/Os."},
		{key: snapshot.KeyDiskIOTimeWeighted, metric: name("disk", "io_time_weighted_seconds_total"), help: "The weighted number of seconds spent doing I/Os."},
	},
}

var networkFamily = keyedFamily{
	keyLabel: snapshot.LabelDevice,
	fields: []field{
		{key: snapshot.KeyNetReceiveBytes, metric: name("network", "receive_bytes_total"), help: "Network device statistic receive_bytes."},
		{key: snapshot.KeyNetReceivePackets, metric: name("network", "receive_packets_total"), help: "Network device statistic receive_packets."},
		{key: snapshot.KeyNetReceiveErrs, metric: name("network", "receive_errs_total"), help: "Network device statistic receive_errs."},
		{key: snapshot.KeyNetReceiveDrop, metric: name("network", "receive_drop_total"), help: "Network device statistic receive_drop."},
		{key: snapshot.KeyNetTransmitBytes, metric: name("network", "transmit_bytes_total"), help: "Network device statistic transmit_bytes."},
		{key: snapshot.KeyNetTransmitPackets, metric: name("network", "transmit_packets_total"), help: "Network device statistic transmit_packets."},
		{key: snapshot.KeyNetTransmitErrs, metric: name("network", "transmit_errs_total"), help: "Network device statistic transmit_errs."},
		{key: snapshot.KeyNetTransmitDrop, metric: name("network", "transmit_drop_total"), help: "Network device statistic transmit_drop."},
	},
}

var processFamily = keyedFamily{
	keyLabel:    snapshot.LabelPID,
	extraLabels: []string{snapshot.LabelComm},
	fields: []field{
		{key: snapshot.KeyProcResident, metric: name("process", "resident_memory_bytes"), help: "Resident memory size of a process in bytes."},
		{key: snapshot.KeyProcVirtual, metric: name("process", "virtual_memory_bytes"), help: "Virtual memory size of a process in bytes."},
	},
}

type topologyGauge struct {
	metric string
	help   string
	get    func(*snapshot.Topology) snapshot.Gauge
}

var topologyGauges = []topologyGauge{
	{name("cpu", "packages"), "Number of physical CPU packages.", func(t *snapshot.Topology) snapshot.Gauge { return t.Packages }},
	{name("cpu", "cores"), "Number of physical CPU cores.", func(t *snapshot.Topology) snapshot.Gauge { return t.Cores }},
	{name("cpu", "threads"), "Number of logical CPUs.", func(t *snapshot.Topology) snapshot.Gauge { return t.Threads }},
}

var (
	metricCPUInfo       = name("cpu", "info")
	metricCPUUsageRatio = name("cpu", "usage_ratio")
)

type kernelCounter struct {
	metric string
	help   string
	get    func(*snapshot.Kernel) snapshot.Counter
}

var kernelCounters = []kernelCounter{
	{name("kernel", "context_switches_total"), "Total number of context switches.", func(k *snapshot.Kernel) snapshot.Counter { return k.ContextSwitches }},
	{name("kernel", "interrupts_total"), "Total number of interrupts serviced.", func(k *snapshot.Kernel) snapshot.Counter { return k.Interrupts }},
	{name("kernel", "forks_total"), "Total number of forks.", func(k *snapshot.Kernel) snapshot.Counter { return k.Forks }},
}

type kernelGauge struct {
	metric string
	help   string
	get    func(*snapshot.Kernel) snapshot.Gauge
}

var kernelGauges = []kernelGauge{
	{name("kernel", "boot_time_seconds"), "Node boot time, in unixtime.", func(k *snapshot.Kernel) snapshot.Gauge { return k.BootTime }},
	{name("kernel", "procs_running"), "Number of processes in runnable state.", func(k *snapshot.Kernel) snapshot.Gauge { return k.ProcsRunning }},
	{name("kernel", "procs_blocked"), "Number of processes blocked waiting for I/O to complete.", func(k *snapshot.Kernel) snapshot.Gauge { return k.ProcsBlocked }},
}

type memoryGauge struct {
	metric string
	help   string
	get    func(*snapshot.Memory) snapshot.Gauge
}

var memoryGauges = []memoryGauge{
	{name("memory", "total_bytes"), "Total usable memory in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.Total }},
	{name("memory", "free_bytes"), "Unused memory in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.Free }},
	{name("memory", "available_bytes"), "Memory available for new workloads without swapping, in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.Available }},
	{name("memory", "buffers_bytes"), "Memory used by kernel buffers in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.Buffers }},
	{name("memory", "cached_bytes"), "Memory used by the page cache in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.Cached }},
	{name("memory", "swap_total_bytes"), "Total swap space in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.SwapTotal }},
	{name("memory", "swap_free_bytes"), "Unused swap space in bytes.", func(m *snapshot.Memory) snapshot.Gauge { return m.SwapFree }},
}

type loadGauge struct {
	metric string
	help   string
	get    func(*snapshot.Load) snapshot.Gauge
}

var loadGauges = []loadGauge{
	{Namespace + "_load1", "1m load average.", func(l *snapshot.Load) snapshot.Gauge { return l.Load1 }},
	{Namespace + "_load5", "5m load average.", func(l *snapshot.Load) snapshot.Gauge { return l.Load5 }},
	{Namespace + "_load15", "15m load average.", func(l *snapshot.Load) snapshot.Gauge { return l.Load15 }},
}

type microarchGauge struct {
	metric string
	help   string
	get    func(*snapshot.MicroarchSample) float64
}

var microarchGauges = []microarchGauge{
	{name("microarch", "l1_miss_rate"), "L1 data cache misses per thousand instructions over the last window.", func(m *snapshot.MicroarchSample) float64 { return m.L1MissRate }},
	{name("microarch", "l2_miss_rate"), "L2 cache misses per thousand instructions over the last window.", func(m *snapshot.MicroarchSample) float64 { return m.L2MissRate }},
	{name("microarch", "l3_miss_rate"), "Last level cache misses per thousand instructions over the last window.", func(m *snapshot.MicroarchSample) float64 { return m.L3MissRate }},
	{name("microarch", "ipc"), "Instructions per cycle over the last window.", func(m *snapshot.MicroarchSample) float64 { return m.IPC }},
}

// Descriptors returns every metric Diff can emit, in emission order.
func Descriptors() []Descriptor {
	var out []Descriptor
	seen := make(map[string]bool)
	add := func(d Descriptor) {
		if seen[d.Name] {
			return
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	addFamily := func(f keyedFamily, kind Kind) {
		for _, fd := range f.fields {
			add(Descriptor{Name: fd.metric, Help: fd.help, Kind: kind, Labels: f.labelNames(fd)})
		}
	}

	for _, g := range topologyGauges {
		add(Descriptor{Name: g.metric, Help: g.help, Kind: SetGauge})
	}
	add(Descriptor{Name: metricCPUInfo, Help: "CPU vendor and model, value is always 1.", Kind: SetGauge,
		Labels: []string{snapshot.LabelVendor, snapshot.LabelModel}})
	addFamily(cacheFamily, SetGauge)
	addFamily(cpuFamily, IncrementCounter)
	add(Descriptor{Name: metricCPUUsageRatio, Help: "Fraction of CPU time spent busy over the last cycle, across all CPUs.", Kind: SetGauge})
	for _, c := range kernelCounters {
		add(Descriptor{Name: c.metric, Help: c.help, Kind: IncrementCounter})
	}
	for _, g := range kernelGauges {
		add(Descriptor{Name: g.metric, Help: g.help, Kind: SetGauge})
	}
	for _, g := range memoryGauges {
		add(Descriptor{Name: g.metric, Help: g.help, Kind: SetGauge})
	}
	for _, g := range loadGauges {
		add(Descriptor{Name: g.metric, Help: g.help, Kind: SetGauge})
	}
	addFamily(filesystemFamily, SetGauge)
	addFamily(diskFamily, IncrementCounter)
	addFamily(networkFamily, IncrementCounter)
	addFamily(processFamily, SetGauge)
	for _, g := range microarchGauges {
		add(Descriptor{Name: g.metric, Help: g.help, Kind: SetGauge})
	}

	return out
}

// labelNames returns the label names of one field: the entity key label,
// then const labels, then extra record labels.
func (f keyedFamily) labelNames(fd field) []string {
	names := append([]string{f.keyLabel}, sortedLabelKeys(fd.constLabels)...)
	return append(names, f.extraLabels...)
}
