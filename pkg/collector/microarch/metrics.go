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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sample outcomes.
const (
	statusOK          = "ok"
	statusParseFailed = "parse_failure"
	statusTimeout     = "timeout"
	statusUnavailable = "unavailable"
	statusPlaceholder = "placeholder"
)

var (
	microarchEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nodestat_microarch_enabled",
			Help: "Whether the hardware-counter sampler is active (1) or disabled (0)",
		},
	)

	microarchSamples = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodestat_microarch_samples_total",
			Help: "Total number of hardware-counter sample attempts by outcome",
		},
		[]string{"status"},
	)
)
