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

package snapshotter

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NVIDIA/nodestat/pkg/collector"
	"github.com/NVIDIA/nodestat/pkg/delta"
	"github.com/NVIDIA/nodestat/pkg/registry"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

// diskScript returns one disk set per call, repeating the last one.
type diskScript struct {
	mu    sync.Mutex
	steps []snapshot.KeyedCounterSet
	calls int
}

func (d *diskScript) Disks(context.Context) (snapshot.KeyedCounterSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	if i >= len(d.steps) {
		i = len(d.steps) - 1
	}
	d.calls++
	return d.steps[i], nil
}

type memoryStub struct{}

func (memoryStub) Memory(context.Context) (*snapshot.Memory, error) {
	return &snapshot.Memory{Total: snapshot.G(1024), Free: snapshot.G(512)}, nil
}

type testFactory struct {
	disks     collector.DiskSource
	microarch collector.MicroarchSource
}

func (f *testFactory) CreateTopologySource() collector.TopologySource     { return nil }
func (f *testFactory) CreateStatSource() collector.StatSource             { return nil }
func (f *testFactory) CreateMemorySource() collector.MemorySource         { return memoryStub{} }
func (f *testFactory) CreateLoadSource() collector.LoadSource             { return nil }
func (f *testFactory) CreateFilesystemSource() collector.FilesystemSource { return nil }
func (f *testFactory) CreateNetworkSource() collector.NetworkSource       { return nil }
func (f *testFactory) CreateProcessSource() collector.ProcessSource       { return nil }
func (f *testFactory) CreateMicroarchSource() collector.MicroarchSource   { return f.microarch }

func (f *testFactory) CreateDiskSource() collector.DiskSource { return f.disks }

func disks(values map[string]float64) snapshot.KeyedCounterSet {
	set := snapshot.KeyedCounterSet{}
	for dev, v := range values {
		set[snapshot.EntityKey(dev)] = snapshot.CounterRecord{
			Values: map[string]snapshot.Counter{
				snapshot.KeyDiskReadBytes: {Value: v, Unit: snapshot.UnitBytes},
			},
		}
	}
	return set
}

// microarchScript returns one sample per call. A nil step is a window that
// produced no usable output.
type microarchScript struct {
	mu    sync.Mutex
	steps []*snapshot.MicroarchSample
	calls int
}

func (m *microarchScript) Sample(context.Context) (*snapshot.MicroarchSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	if i >= len(m.steps) || m.steps[i] == nil {
		return nil, errors.New("missing L2MPKI line")
	}
	return m.steps[i], nil
}

// recordingApplier forwards each cycle's operations on a channel.
type recordingApplier struct {
	applied chan []delta.Operation
	err     error
}

func newRecordingApplier() *recordingApplier {
	return &recordingApplier{applied: make(chan []delta.Operation, 16)}
}

func (r *recordingApplier) Apply(ops []delta.Operation) error {
	r.applied <- ops
	return r.err
}

type readyFlag struct {
	mu    sync.Mutex
	ready bool
	calls int
}

func (r *readyFlag) SetReady(ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = ready
	r.calls++
}

type recordingNotifier struct {
	mu     sync.Mutex
	states []string
}

func (n *recordingNotifier) Notify(state string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, state)
	return nil
}

func (n *recordingNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.states...)
}

func findOp(ops []delta.Operation, metric, device string) (delta.Operation, bool) {
	for _, op := range ops {
		if op.Metric == metric && op.Labels[snapshot.LabelDevice] == device {
			return op, true
		}
	}
	return delta.Operation{}, false
}

const readBytes = "nodestat_disk_read_bytes_total"

func TestLoop_CycleDiffsAgainstPrevious(t *testing.T) {
	script := &diskScript{steps: []snapshot.KeyedCounterSet{
		disks(map[string]float64{"sda": 1000}),
		disks(map[string]float64{"sda": 1500}),
		disks(map[string]float64{"sda": 200}),
	}}
	applier := newRecordingApplier()
	fc := clocktesting.NewFakeClock(time.Unix(1700000000, 0))
	l := NewLoop(collector.New(&testFactory{disks: script}), applier, WithClock(fc), WithNotifier(nil))

	resetsBefore := testutil.ToFloat64(counterResetsTotal)
	ctx := context.Background()

	require.True(t, l.Cycle(ctx))
	op, ok := findOp(<-applier.applied, readBytes, "sda")
	require.True(t, ok)
	assert.Equal(t, 1000.0, op.Value, "first-seen counter increments by its full value")

	require.True(t, l.Cycle(ctx))
	op, ok = findOp(<-applier.applied, readBytes, "sda")
	require.True(t, ok)
	assert.Equal(t, 500.0, op.Value)
	assert.False(t, op.Reset)

	require.True(t, l.Cycle(ctx))
	op, ok = findOp(<-applier.applied, readBytes, "sda")
	require.True(t, ok)
	assert.Equal(t, 200.0, op.Value)
	assert.True(t, op.Reset)

	assert.Equal(t, uint64(3), l.Cycles())
	assert.Equal(t, 1.0, testutil.ToFloat64(counterResetsTotal)-resetsBefore)
	require.NotNil(t, l.Previous())
	assert.Equal(t, fc.Now(), l.Previous().Timestamp)
}

func TestLoop_EntityChurn(t *testing.T) {
	script := &diskScript{steps: []snapshot.KeyedCounterSet{
		disks(map[string]float64{"sda": 10, "sdb": 20}),
		disks(map[string]float64{"sda": 15, "sdc": 7}),
	}}
	applier := newRecordingApplier()
	l := NewLoop(collector.New(&testFactory{disks: script}), applier,
		WithClock(clocktesting.NewFakeClock(time.Now())), WithNotifier(nil))

	require.True(t, l.Cycle(context.Background()))
	<-applier.applied
	require.True(t, l.Cycle(context.Background()))
	ops := <-applier.applied

	op, ok := findOp(ops, readBytes, "sda")
	require.True(t, ok)
	assert.Equal(t, 5.0, op.Value)

	op, ok = findOp(ops, readBytes, "sdc")
	require.True(t, ok)
	assert.Equal(t, 7.0, op.Value)

	_, ok = findOp(ops, readBytes, "sdb")
	assert.False(t, ok, "vanished device must not emit")
}

func TestLoop_CycleCanceled(t *testing.T) {
	applier := newRecordingApplier()
	l := NewLoop(collector.New(&testFactory{}), applier, WithNotifier(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, l.Cycle(ctx))
	assert.Nil(t, l.Previous())
	assert.Zero(t, l.Cycles())
	assert.Empty(t, applier.applied)
}

func TestLoop_ApplyErrorsDoNotStopCycle(t *testing.T) {
	applier := newRecordingApplier()
	applier.err = errors.Join(errors.New("a"), errors.New("b"))
	l := NewLoop(collector.New(&testFactory{}), applier, WithNotifier(nil))

	before := testutil.ToFloat64(applyErrorsTotal)
	assert.True(t, l.Cycle(context.Background()))
	<-applier.applied

	assert.Equal(t, 2.0, testutil.ToFloat64(applyErrorsTotal)-before)
	assert.NotNil(t, l.Previous())
}

func waitForWaiters(t *testing.T, fc *clocktesting.FakeClock) {
	t.Helper()
	require.Eventually(t, fc.HasWaiters, 5*time.Second, time.Millisecond)
}

func TestLoop_RunPadsToInterval(t *testing.T) {
	script := &diskScript{steps: []snapshot.KeyedCounterSet{
		disks(map[string]float64{"sda": 1}),
		disks(map[string]float64{"sda": 4}),
	}}
	applier := newRecordingApplier()
	ready := &readyFlag{}
	notifier := &recordingNotifier{}
	fc := clocktesting.NewFakeClock(time.Unix(1700000000, 0))

	l := NewLoop(collector.New(&testFactory{disks: script}), applier,
		WithClock(fc),
		WithInterval(time.Second),
		WithReadiness(ready),
		WithNotifier(notifier),
		WithWatchdog(30*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	<-applier.applied

	// the loop is now padding the first interval
	waitForWaiters(t, fc)
	select {
	case <-applier.applied:
		t.Fatal("second cycle started before the interval elapsed")
	default:
	}

	fc.Step(time.Second)
	ops := <-applier.applied
	op, ok := findOp(ops, readBytes, "sda")
	require.True(t, ok)
	assert.Equal(t, 3.0, op.Value)

	waitForWaiters(t, fc)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}

	ready.mu.Lock()
	assert.True(t, ready.ready)
	assert.Equal(t, 1, ready.calls)
	ready.mu.Unlock()

	states := notifier.snapshot()
	require.NotEmpty(t, states)
	assert.Equal(t, daemon.SdNotifyReady, states[0])
	assert.Equal(t, daemon.SdNotifyStopping, states[len(states)-1])
	assert.Contains(t, states, daemon.SdNotifyWatchdog)
	assert.Equal(t, uint64(2), l.Cycles())
}

func TestLoop_RunStopsOnCanceledContext(t *testing.T) {
	notifier := &recordingNotifier{}
	l := NewLoop(collector.New(&testFactory{}), newRecordingApplier(), WithNotifier(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, []string{daemon.SdNotifyStopping}, notifier.snapshot())
}

func TestLoop_AppliesToRegistry(t *testing.T) {
	script := &diskScript{steps: []snapshot.KeyedCounterSet{
		disks(map[string]float64{"sda": 1000}),
		disks(map[string]float64{"sda": 1500}),
		disks(map[string]float64{"sda": 200}),
	}}
	reg := registry.New()
	require.NoError(t, reg.RegisterDescriptors(delta.Descriptors()))

	l := NewLoop(collector.New(&testFactory{disks: script}), reg, WithNotifier(nil))
	for i := 0; i < 3; i++ {
		require.True(t, l.Cycle(context.Background()))
	}

	text := scrape(t, reg)
	assert.True(t, strings.Contains(text, `nodestat_disk_read_bytes_total{device="sda"} 1700`), text)
	assert.True(t, strings.Contains(text, `nodestat_memory_total_bytes 1024`), text)
}

func scrape(t *testing.T, reg *registry.Registry) string {
	t.Helper()
	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestLoop_MicroarchGaugesHoldOnDroppedSample(t *testing.T) {
	script := &microarchScript{steps: []*snapshot.MicroarchSample{
		{L1MissRate: 12.5, L2MissRate: 2.25, L3MissRate: 0.75, IPC: 0.8},
		nil,
	}}
	reg := registry.New()
	require.NoError(t, reg.RegisterDescriptors(delta.Descriptors()))

	l := NewLoop(collector.New(&testFactory{microarch: script}), reg, WithNotifier(nil))
	require.True(t, l.Cycle(context.Background()))
	first := scrape(t, reg)

	require.True(t, l.Cycle(context.Background()))
	second := scrape(t, reg)
	assert.Equal(t, 2, script.calls)

	for _, line := range []string{
		"nodestat_microarch_l1_miss_rate 12.5",
		"nodestat_microarch_l2_miss_rate 2.25",
		"nodestat_microarch_l3_miss_rate 0.75",
		"nodestat_microarch_ipc 0.8",
	} {
		assert.Contains(t, first, line)
		assert.Contains(t, second, line)
	}
}
