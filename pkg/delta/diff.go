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
	"fmt"
	"sort"

	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Kind is the registry operation an Operation performs.
type Kind int

const (
	// SetGauge sets a gauge to Value.
	SetGauge Kind = iota
	// IncrementCounter adds Value, which is never negative, to a counter.
	IncrementCounter
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case SetGauge:
		return "set"
	case IncrementCounter:
		return "increment"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operation is one metric update produced by Diff.
type Operation struct {
	Metric string
	Labels map[string]string
	Kind   Kind
	Value  float64
	// Reset marks a counter increment that re-seeded after the counter
	// decreased between snapshots.
	Reset bool
}

// Diff returns the operations that advance the exported metrics from
// previous to current. It is a pure function of its inputs: the same pair
// always yields the same sequence, ordered by family, then entity key, then
// field.
//
// Counters increment by current-previous. A counter lower than its previous
// value is treated as reset and increments by its full current value; this
// can double count when a restart retained part of the old progress.
// Entities without a previous value, or a nil previous, are first-seen and
// also increment by their full value. Entities that disappeared emit nothing.
// Gauges always emit their current value.
func Diff(previous, current *snapshot.Snapshot) []Operation {
	if current == nil {
		return nil
	}
	prev := previous
	if prev == nil {
		prev = &snapshot.Snapshot{}
	}

	var ops []Operation

	if t := current.Topology; t != nil {
		for _, g := range topologyGauges {
			ops = append(ops, gauge(g.metric, nil, g.get(t).Value))
		}
		if t.Vendor != "" || t.Model != "" {
			ops = append(ops, gauge(metricCPUInfo, map[string]string{
				snapshot.LabelVendor: t.Vendor,
				snapshot.LabelModel:  t.Model,
			}, 1))
		}
		ops = append(ops, diffGauges(cacheFamily, t.Caches)...)
	}

	ops = append(ops, diffCounters(cpuFamily, prev.CPU, current.CPU)...)
	if ratio, ok := cpuUsage(prev.CPU, current.CPU); ok {
		ops = append(ops, gauge(metricCPUUsageRatio, nil, ratio))
	}

	if k := current.Kernel; k != nil {
		for _, c := range kernelCounters {
			var p *snapshot.Counter
			if prev.Kernel != nil {
				pv := c.get(prev.Kernel)
				p = &pv
			}
			ops = append(ops, counter(c.metric, nil, p, c.get(k)))
		}
		for _, g := range kernelGauges {
			ops = append(ops, gauge(g.metric, nil, g.get(k).Value))
		}
	}

	if m := current.Memory; m != nil {
		for _, g := range memoryGauges {
			ops = append(ops, gauge(g.metric, nil, g.get(m).Value))
		}
	}

	if l := current.Load; l != nil {
		for _, g := range loadGauges {
			ops = append(ops, gauge(g.metric, nil, g.get(l).Value))
		}
	}

	ops = append(ops, diffGauges(filesystemFamily, current.Filesystems)...)
	ops = append(ops, diffCounters(diskFamily, prev.Disks, current.Disks)...)
	ops = append(ops, diffCounters(networkFamily, prev.Network, current.Network)...)
	ops = append(ops, diffGauges(processFamily, current.Processes)...)

	if m := current.Microarch; m != nil {
		for _, g := range microarchGauges {
			ops = append(ops, gauge(g.metric, nil, g.get(m)))
		}
	}

	return ops
}

// CounterDelta applies the counter rule to one value pair. A nil previous is
// first-seen. The returned delta is never negative.
func CounterDelta(previous *snapshot.Counter, current snapshot.Counter) (delta float64, reset bool) {
	if previous == nil {
		return current.Value, false
	}
	if current.Value >= previous.Value {
		return current.Value - previous.Value, false
	}
	return current.Value, true
}

func counter(metric string, labels map[string]string, previous *snapshot.Counter, current snapshot.Counter) Operation {
	d, reset := CounterDelta(previous, current)
	return Operation{Metric: metric, Labels: labels, Kind: IncrementCounter, Value: d, Reset: reset}
}

func gauge(metric string, labels map[string]string, v float64) Operation {
	return Operation{Metric: metric, Labels: labels, Kind: SetGauge, Value: v}
}

func diffCounters(f keyedFamily, prev, cur snapshot.KeyedCounterSet) []Operation {
	ops := make([]Operation, 0, len(cur)*len(f.fields))
	for _, key := range cur.Keys() {
		rec := cur[key]
		prevRec, seen := prev[key]
		for _, fd := range f.fields {
			v, ok := rec.Values[fd.key]
			if !ok {
				continue
			}
			var p *snapshot.Counter
			if seen {
				if pv, ok := prevRec.Values[fd.key]; ok {
					p = &pv
				}
			}
			ops = append(ops, counter(fd.metric, f.labels(key, fd, rec.Labels), p, v))
		}
	}
	return ops
}

func diffGauges(f keyedFamily, cur snapshot.KeyedGaugeSet) []Operation {
	ops := make([]Operation, 0, len(cur)*len(f.fields))
	for _, key := range cur.Keys() {
		rec := cur[key]
		for _, fd := range f.fields {
			v, ok := rec.Values[fd.key]
			if !ok {
				continue
			}
			ops = append(ops, gauge(fd.metric, f.labels(key, fd, rec.Labels), v.Value))
		}
	}
	return ops
}

// labels builds the full label set of one field. Extra labels the record
// does not carry are set to the empty string so the label set always
// matches the descriptor.
func (f keyedFamily) labels(key snapshot.EntityKey, fd field, recLabels map[string]string) map[string]string {
	l := make(map[string]string, 1+len(fd.constLabels)+len(f.extraLabels))
	l[f.keyLabel] = string(key)
	for k, v := range fd.constLabels {
		l[k] = v
	}
	for _, name := range f.extraLabels {
		l[name] = recLabels[name]
	}
	return l
}

// cpuUsage returns the busy fraction of all CPU time elapsed between the two
// sets. CPUs missing from either side or whose counters went backwards are
// left out.
func cpuUsage(prev, cur snapshot.KeyedCounterSet) (float64, bool) {
	var busy, total float64
	for _, key := range cur.Keys() {
		p, ok := prev[key]
		if !ok {
			continue
		}
		var cpuBusy, cpuTotal float64
		valid := true
		for _, mode := range snapshot.CPUModes {
			d := cur[key].Values[mode].Value - p.Values[mode].Value
			if d < 0 {
				valid = false
				break
			}
			cpuTotal += d
			if mode != snapshot.KeyCPUIdle && mode != snapshot.KeyCPUIowait {
				cpuBusy += d
			}
		}
		if valid {
			busy += cpuBusy
			total += cpuTotal
		}
	}
	if total <= 0 {
		return 0, false
	}
	return busy / total, true
}

func sortedLabelKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
