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

package microarch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/nodestat/pkg/defaults"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// State is the sampler's position in its measurement cycle.
type State int

const (
	StateIdle State = iota
	StateSampling
	StateParsingOutput
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSampling:
		return "sampling"
	case StateParsingOutput:
		return "parsing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Placeholder is the fixed sample published while the sampler is disabled.
func Placeholder() *snapshot.MicroarchSample {
	return &snapshot.MicroarchSample{}
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Sampler) {
		s.clock = c
	}
}

// WithWindow sets the measurement window, which should equal the polling cadence.
func WithWindow(d time.Duration) Option {
	return func(s *Sampler) {
		s.window = d
	}
}

// WithGracePeriod bounds the wait for the helper to exit after interrupt.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Sampler) {
		s.grace = d
	}
}

// WithGroups sets the metric groups passed to the helper.
func WithGroups(groups []string) Option {
	return func(s *Sampler) {
		s.groups = groups
	}
}

// WithDisabled starts the sampler permanently disabled.
func WithDisabled(disabled bool) Option {
	return func(s *Sampler) {
		s.disabled = disabled
	}
}

// Sampler runs one helper measurement window per call to Sample.
//
// The cycle is Idle -> Sampling -> ParsingOutput -> Idle. If the helper
// cannot run, the sampler disables itself for the rest of the process
// lifetime and returns Placeholder from then on.
type Sampler struct {
	helper Helper
	clock  clock.Clock
	window time.Duration
	grace  time.Duration
	groups []string

	mu       sync.Mutex
	state    State
	disabled bool
}

// New creates a Sampler driving helper.
func New(helper Helper, opts ...Option) *Sampler {
	s := &Sampler{
		helper: helper,
		clock:  clock.RealClock{},
		window: defaults.PollInterval,
		grace:  defaults.HelperGracePeriod,
		groups: DefaultGroups,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.disabled {
		slog.Info("microarch sampler disabled by configuration")
		microarchEnabled.Set(0)
	} else {
		microarchEnabled.Set(1)
	}

	return s
}

// State returns the current state.
func (s *Sampler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Disabled reports whether the sampler has been permanently disabled.
func (s *Sampler) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

func (s *Sampler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// disable turns the sampler off for good. Only the first call logs.
func (s *Sampler) disable(err error, diagnostics []byte) {
	s.mu.Lock()
	already := s.disabled
	s.disabled = true
	s.mu.Unlock()

	if already {
		return
	}

	microarchEnabled.Set(0)
	microarchSamples.WithLabelValues(statusUnavailable).Inc()
	attrs := []any{slog.String("error", err.Error())}
	if len(diagnostics) > 0 {
		attrs = append(attrs, slog.String("output", string(diagnostics)))
	}
	slog.Error("hardware-counter helper unavailable, microarch sampling disabled", attrs...)
}

// Sample runs one measurement window and returns its result. The call blocks
// for the window plus the helper's shutdown time. A dropped sample is
// reported as a nil sample with a TIMEOUT or PARSE_FAILURE error; the
// sampler stays enabled and tries again on the next call.
func (s *Sampler) Sample(ctx context.Context) (*snapshot.MicroarchSample, error) {
	if s.Disabled() {
		microarchSamples.WithLabelValues(statusPlaceholder).Inc()
		return Placeholder(), nil
	}

	defer s.setState(StateIdle)

	proc, err := s.helper.Start(ctx, s.groups)
	if err != nil {
		s.disable(err, nil)
		return Placeholder(), nil
	}

	s.setState(StateSampling)
	start := s.clock.Now()

	window := s.clock.NewTimer(s.window)
	select {
	case <-window.C():
	case <-proc.Done():
		window.Stop()
		s.disable(nserrors.NewWithContext(nserrors.ErrCodeHelperUnavailable,
			"helper exited during the measurement window", map[string]any{
				"elapsed": s.clock.Since(start).String(),
			}), proc.Diagnostics())
		return Placeholder(), nil
	case <-ctx.Done():
		window.Stop()
		s.stop(proc)
		return nil, ctx.Err()
	}

	if !s.stop(proc) {
		microarchSamples.WithLabelValues(statusTimeout).Inc()
		return nil, nserrors.NewWithContext(nserrors.ErrCodeTimeout,
			"helper did not exit within the grace period, sample dropped", map[string]any{
				"grace": s.grace.String(),
			})
	}

	s.setState(StateParsingOutput)
	sample, err := Parse(proc.Diagnostics())
	if err != nil {
		microarchSamples.WithLabelValues(statusParseFailed).Inc()
		return nil, err
	}

	microarchSamples.WithLabelValues(statusOK).Inc()
	slog.Debug("microarch sample",
		slog.Float64("l1_mpki", sample.L1MissRate),
		slog.Float64("l2_mpki", sample.L2MissRate),
		slog.Float64("l3_mpki", sample.L3MissRate),
		slog.Float64("ipc", sample.IPC))

	return sample, nil
}

// stop interrupts the helper and waits up to the grace period for it to exit.
// On expiry the helper is killed and reaped, and stop reports false.
func (s *Sampler) stop(proc Process) bool {
	if err := proc.Interrupt(); err != nil {
		slog.Warn("failed to interrupt helper", slog.String("error", err.Error()))
	}

	grace := s.clock.NewTimer(s.grace)
	defer grace.Stop()

	select {
	case <-proc.Done():
		return true
	case <-grace.C():
	}

	slog.Warn("helper ignored interrupt, killing", slog.Duration("grace", s.grace))
	if err := proc.Kill(); err != nil {
		slog.Warn("failed to kill helper", slog.String("error", err.Error()))
	}
	<-proc.Done()
	return false
}
