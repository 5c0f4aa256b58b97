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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodestat_cycle_duration_seconds",
			Help:    "Time taken by one sampling cycle, microarch window included",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 5},
		},
	)

	cyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodestat_cycles_total",
			Help: "Total number of completed sampling cycles",
		},
	)

	counterResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodestat_counter_resets_total",
			Help: "Total number of monotonic source counters observed going backwards",
		},
	)

	applyErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodestat_apply_errors_total",
			Help: "Total number of metric operations the registry rejected",
		},
	)

	lastCycleTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nodestat_last_cycle_timestamp_seconds",
			Help: "Unix time of the last completed sampling cycle",
		},
	)

	snapshotCollectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodestat_snapshot_collection_total",
			Help: "Total number of one-shot snapshot attempts",
		},
		[]string{"status"}, // success or error
	)
)
