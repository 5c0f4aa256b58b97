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

package registry

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/nodestat/pkg/delta"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/logging"
)

// Gauge is a registered gauge family.
type Gauge struct {
	vec *prometheus.GaugeVec
}

// Set sets the series identified by labels to v.
func (g *Gauge) Set(labels map[string]string, v float64) error {
	m, err := g.vec.GetMetricWith(labels)
	if err != nil {
		return nserrors.Wrap(nserrors.ErrCodeInvalidRequest, "label set does not match gauge", err)
	}
	m.Set(v)
	return nil
}

// Counter is a registered counter family.
type Counter struct {
	vec *prometheus.CounterVec
}

// Increment adds delta to the series identified by labels. A negative delta
// is rejected.
func (c *Counter) Increment(labels map[string]string, delta float64) error {
	if delta < 0 {
		return nserrors.NewWithContext(nserrors.ErrCodeInvalidRequest,
			"counter increment must not be negative", map[string]any{"delta": delta})
	}
	m, err := c.vec.GetMetricWith(labels)
	if err != nil {
		return nserrors.Wrap(nserrors.ErrCodeInvalidRequest, "label set does not match counter", err)
	}
	m.Add(delta)
	return nil
}

// Registry owns the exported host metrics and dispatches delta operations
// to them by name.
type Registry struct {
	reg *prometheus.Registry

	mu       sync.RWMutex
	gauges   map[string]*Gauge
	counters map[string]*Counter
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		reg:      prometheus.NewRegistry(),
		gauges:   make(map[string]*Gauge),
		counters: make(map[string]*Counter),
	}
}

// RegisterGauge registers a gauge family. Registering the same name again
// returns the existing handle.
func (r *Registry) RegisterGauge(name, help string, labelNames []string) (*Gauge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gauges[name]; ok {
		return g, nil
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labelNames)
	if err := r.reg.Register(vec); err != nil {
		return nil, nserrors.WrapWithContext(nserrors.ErrCodeInternal,
			"failed to register gauge", err, map[string]any{"name": name})
	}
	g := &Gauge{vec: vec}
	r.gauges[name] = g
	return g, nil
}

// RegisterCounter registers a counter family. Registering the same name
// again returns the existing handle.
func (r *Registry) RegisterCounter(name, help string, labelNames []string) (*Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[name]; ok {
		return c, nil
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labelNames)
	if err := r.reg.Register(vec); err != nil {
		return nil, nserrors.WrapWithContext(nserrors.ErrCodeInternal,
			"failed to register counter", err, map[string]any{"name": name})
	}
	c := &Counter{vec: vec}
	r.counters[name] = c
	return c, nil
}

// RegisterDescriptors registers every descriptor.
func (r *Registry) RegisterDescriptors(descs []delta.Descriptor) error {
	for _, d := range descs {
		var err error
		switch d.Kind {
		case delta.SetGauge:
			_, err = r.RegisterGauge(d.Name, d.Help, d.Labels)
		case delta.IncrementCounter:
			_, err = r.RegisterCounter(d.Name, d.Help, d.Labels)
		default:
			err = nserrors.NewWithContext(nserrors.ErrCodeInternal,
				"unknown metric kind", map[string]any{"name": d.Name, "kind": d.Kind.String()})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Apply performs ops in order. A failing operation is logged and skipped;
// the others still apply. The returned error joins every failure.
func (r *Registry) Apply(ops []delta.Operation) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for _, op := range ops {
		if err := r.apply(op); err != nil {
			slog.Warn("failed to apply metric operation",
				slog.String("metric", op.Metric),
				slog.String("kind", op.Kind.String()),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (r *Registry) apply(op delta.Operation) error {
	switch op.Kind {
	case delta.SetGauge:
		g, ok := r.gauges[op.Metric]
		if !ok {
			return nserrors.NewWithContext(nserrors.ErrCodeNotFound, "gauge not registered",
				map[string]any{"name": op.Metric})
		}
		return g.Set(op.Labels, op.Value)
	case delta.IncrementCounter:
		c, ok := r.counters[op.Metric]
		if !ok {
			return nserrors.NewWithContext(nserrors.ErrCodeNotFound, "counter not registered",
				map[string]any{"name": op.Metric})
		}
		return c.Increment(op.Labels, op.Value)
	default:
		return fmt.Errorf("unknown operation kind %s", op.Kind)
	}
}

// Gatherer returns the host metrics together with the process-wide default
// registry, which carries the exporter's own metrics and the Go and process
// collectors.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return prometheus.Gatherers{r.reg, prometheus.DefaultGatherer}
}

// Handler serves Gatherer in the Prometheus exposition formats.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Gatherer(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn, false),
	})
}
