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
	"log/slog"
	"time"

	"github.com/NVIDIA/nodestat/pkg/collector"
	"github.com/NVIDIA/nodestat/pkg/defaults"
	"github.com/NVIDIA/nodestat/pkg/delta"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
	"github.com/coreos/go-systemd/v22/daemon"
	"k8s.io/utils/clock"
)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithClock sets the time source used for timestamps and padding.
func WithClock(c clock.Clock) LoopOption {
	return func(l *Loop) {
		l.clock = c
	}
}

// WithInterval sets the cadence.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithReadiness sets the target flipped ready after the first cycle.
func WithReadiness(r Readiness) LoopOption {
	return func(l *Loop) {
		l.readiness = r
	}
}

// WithNotifier sets the service manager notifier.
func WithNotifier(n Notifier) LoopOption {
	return func(l *Loop) {
		l.notifier = n
	}
}

// WithWatchdog forces the watchdog interval. Zero disables it.
func WithWatchdog(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.watchdog = &d
	}
}

// Loop runs one collect, diff and apply cycle per interval. It alone owns the
// previous snapshot; cycles never overlap.
type Loop struct {
	collector *collector.Collector
	applier   Applier
	clock     clock.Clock
	interval  time.Duration
	readiness Readiness
	notifier  Notifier
	watchdog  *time.Duration

	previous *snapshot.Snapshot
	cycles   uint64
}

// NewLoop returns a Loop that applies the operations of each cycle to applier.
func NewLoop(c *collector.Collector, applier Applier, opts ...LoopOption) *Loop {
	l := &Loop{
		collector: c,
		applier:   applier,
		clock:     clock.RealClock{},
		interval:  defaults.PollInterval,
		notifier:  SystemdNotifier{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cycles returns the number of completed cycles.
func (l *Loop) Cycles() uint64 {
	return l.cycles
}

// Previous returns the snapshot of the last completed cycle, or nil.
func (l *Loop) Previous() *snapshot.Snapshot {
	return l.previous
}

// Run cycles until ctx is done. It returns nil on cancellation; cycle
// failures are logged and never end the loop.
func (l *Loop) Run(ctx context.Context) error {
	watchdog := l.watchdogInterval()
	slog.Info("sampling loop started",
		slog.Duration("interval", l.interval),
		slog.Bool("microarch", l.collector.HasMicroarch()),
		slog.Duration("watchdog", watchdog))

	defer l.notify(daemon.SdNotifyStopping)

	for {
		start := l.clock.Now()

		if !l.Cycle(ctx) {
			slog.Info("sampling loop stopped", slog.Uint64("cycles", l.cycles))
			return nil
		}

		if l.cycles == 1 {
			if l.readiness != nil {
				l.readiness.SetReady(true)
			}
			l.notify(daemon.SdNotifyReady)
		}
		if watchdog > 0 {
			l.notify(daemon.SdNotifyWatchdog)
		}

		if !l.pad(ctx, start) {
			slog.Info("sampling loop stopped", slog.Uint64("cycles", l.cycles))
			return nil
		}
	}
}

// Cycle produces one snapshot, diffs it against the previous one and applies
// the result. It reports false when ctx ended before the cycle completed, in
// which case nothing is applied and the previous snapshot is kept.
func (l *Loop) Cycle(ctx context.Context) bool {
	start := l.clock.Now()

	current := l.collector.Produce(ctx, start)
	if ctx.Err() != nil {
		return false
	}

	ops := delta.Diff(l.previous, current)
	resets := 0
	for _, op := range ops {
		if !op.Reset {
			continue
		}
		resets++
		slog.Debug("counter reset, re-seeded from current value",
			"code", nserrors.ErrCodeCounterReset,
			"metric", op.Metric,
			"labels", op.Labels)
	}
	counterResetsTotal.Add(float64(resets))

	if err := l.applier.Apply(ops); err != nil {
		applyErrorsTotal.Add(float64(countErrors(err)))
		slog.Warn("cycle applied with errors", slog.String("error", err.Error()))
	}

	l.previous = current
	l.cycles++

	end := l.clock.Now()
	cycleDuration.Observe(end.Sub(start).Seconds())
	cyclesTotal.Inc()
	lastCycleTimestamp.Set(float64(end.UnixNano()) / 1e9)

	slog.Debug("cycle complete",
		slog.Uint64("cycle", l.cycles),
		slog.Int("operations", len(ops)),
		slog.Duration("duration", end.Sub(start)))
	return true
}

// pad waits out the rest of the interval when the cycle finished early, as
// it does when no microarch window paced it.
func (l *Loop) pad(ctx context.Context, start time.Time) bool {
	remaining := l.interval - l.clock.Since(start)
	if remaining <= 0 {
		return ctx.Err() == nil
	}

	t := l.clock.NewTimer(remaining)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C():
		return true
	}
}

func (l *Loop) watchdogInterval() time.Duration {
	if l.watchdog != nil {
		return *l.watchdog
	}
	if _, ok := l.notifier.(SystemdNotifier); !ok {
		return 0
	}
	return watchdogInterval()
}

func (l *Loop) notify(state string) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.Notify(state); err != nil {
		slog.Warn("failed to notify service manager", "state", state, "error", err)
	}
}

func countErrors(err error) int {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return len(joined.Unwrap())
	}
	return 1
}
