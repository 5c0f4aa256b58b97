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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/nodestat/pkg/delta"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
)

func TestCounterIncrement(t *testing.T) {
	r := New()
	c, err := r.RegisterCounter("test_reads_total", "Reads.", []string{"device"})
	require.NoError(t, err)

	require.NoError(t, c.Increment(map[string]string{"device": "sda"}, 500))
	require.NoError(t, c.Increment(map[string]string{"device": "sda"}, 200))
	assert.Equal(t, 700.0, testutil.ToFloat64(c.vec.WithLabelValues("sda")))

	t.Run("negative delta rejected", func(t *testing.T) {
		err := c.Increment(map[string]string{"device": "sda"}, -1)
		require.Error(t, err)
		assert.True(t, nserrors.HasCode(err, nserrors.ErrCodeInvalidRequest))
		assert.Equal(t, 700.0, testutil.ToFloat64(c.vec.WithLabelValues("sda")))
	})

	t.Run("wrong labels rejected", func(t *testing.T) {
		err := c.Increment(map[string]string{"iface": "eth0"}, 1)
		assert.Error(t, err)
	})
}

func TestGaugeSet(t *testing.T) {
	r := New()
	g, err := r.RegisterGauge("test_free_bytes", "Free.", nil)
	require.NoError(t, err)

	require.NoError(t, g.Set(nil, 10))
	require.NoError(t, g.Set(nil, 3))
	assert.Equal(t, 3.0, testutil.ToFloat64(g.vec.WithLabelValues()))
}

func TestRegisterIdempotent(t *testing.T) {
	r := New()
	g1, err := r.RegisterGauge("test_gauge", "A gauge.", nil)
	require.NoError(t, err)
	g2, err := r.RegisterGauge("test_gauge", "A gauge.", nil)
	require.NoError(t, err)
	assert.Same(t, g1, g2)

	_, err = r.RegisterCounter("test_gauge", "Clash.", nil)
	require.Error(t, err, "a name can only hold one metric type")
	assert.True(t, nserrors.HasCode(err, nserrors.ErrCodeInternal))
}

func TestRegisterDescriptors(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterDescriptors(delta.Descriptors()))

	for _, d := range delta.Descriptors() {
		switch d.Kind {
		case delta.SetGauge:
			assert.Contains(t, r.gauges, d.Name)
		case delta.IncrementCounter:
			assert.Contains(t, r.counters, d.Name)
		}
	}
}

func TestApply(t *testing.T) {
	r := New()
	_, err := r.RegisterCounter("test_reads_total", "Reads.", []string{"device"})
	require.NoError(t, err)
	_, err = r.RegisterGauge("test_load1", "Load.", nil)
	require.NoError(t, err)

	ops := []delta.Operation{
		{Metric: "test_reads_total", Labels: map[string]string{"device": "sda"}, Kind: delta.IncrementCounter, Value: 1000},
		{Metric: "test_unknown", Kind: delta.SetGauge, Value: 1},
		{Metric: "test_reads_total", Labels: map[string]string{"device": "sda"}, Kind: delta.IncrementCounter, Value: 500},
		{Metric: "test_load1", Kind: delta.SetGauge, Value: 0.25},
	}

	err = r.Apply(ops)
	require.Error(t, err)
	assert.True(t, nserrors.HasCode(err, nserrors.ErrCodeNotFound))

	// the failure does not block the other operations
	assert.Equal(t, 1500.0, testutil.ToFloat64(r.counters["test_reads_total"].vec.WithLabelValues("sda")))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.gauges["test_load1"].vec.WithLabelValues()))

	assert.NoError(t, r.Apply(nil))
}

func TestHandler(t *testing.T) {
	r := New()
	c, err := r.RegisterCounter("test_handler_total", "Handler test.", []string{"device"})
	require.NoError(t, err)
	require.NoError(t, c.Increment(map[string]string{"device": "sda"}, 42))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `test_handler_total{device="sda"} 42`)
	assert.True(t, strings.Contains(body, "go_goroutines"), "default gatherer is included")
}
