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
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/NVIDIA/nodestat/pkg/collector/file"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

// Metric names read from the helper's output.
const (
	MetricL1MPKI = "L1MPKI"
	MetricL2MPKI = "L2MPKI"
	MetricL3MPKI = "L3MPKI"
	MetricCPI    = "CPI"
)

var outputParser = file.NewParser(file.WithSkipComments(true))

// RequiredMetrics must all be present for a sample to be published.
var RequiredMetrics = []string{MetricL1MPKI, MetricL2MPKI, MetricL3MPKI, MetricCPI}

// ParseMetrics extracts derived metric values from perf stat output. Lines
// have the shape
//
//	<count> <event> # <value> <name> [extra]
//
// where count and value may carry thousands separators. Lines without a
// metric annotation are ignored, as are '#' header lines. When a name
// repeats the last value wins.
func ParseMetrics(output []byte) map[string]float64 {
	metrics := make(map[string]float64)

	lines, err := outputParser.Lines(output)
	if err != nil {
		slog.Debug("unreadable helper output", "error", err)
		return metrics
	}

	for _, line := range lines {
		left, right, found := strings.Cut(line, "#")
		if !found || len(strings.Fields(left)) < 2 {
			continue
		}
		fields := strings.Fields(right)
		if len(fields) < 2 {
			continue
		}
		v, err := parseNumber(fields[0])
		if err != nil {
			continue
		}
		metrics[fields[1]] = v
	}

	return metrics
}

// parseNumber reads a C-locale number with optional ',' thousands grouping.
// Commas that do not separate groups of exactly three digits, as in a
// decimal-comma "12,50", are rejected instead of silently scaling the value.
func parseNumber(s string) (float64, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	groups := strings.Split(whole, ",")
	if len(groups) > 1 {
		if groups[0] == "" || len(groups[0]) > 3 {
			return 0, fmt.Errorf("malformed digit grouping in %q", s)
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return 0, fmt.Errorf("malformed digit grouping in %q", s)
			}
		}
	}
	n := strings.Join(groups, "")
	if hasFrac {
		n += "." + frac
	}
	return strconv.ParseFloat(n, 64)
}

// Parse builds a MicroarchSample from perf stat output. Any missing required
// metric fails the whole sample; a partial sample is never returned.
func Parse(output []byte) (*snapshot.MicroarchSample, error) {
	metrics := ParseMetrics(output)

	var missing []string
	for _, name := range RequiredMetrics {
		if _, ok := metrics[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nserrors.NewWithContext(nserrors.ErrCodeParseFailure,
			"helper output is missing required metrics", map[string]any{
				"missing": strings.Join(missing, ","),
			})
	}

	cpi := metrics[MetricCPI]
	if cpi <= 0 {
		return nil, nserrors.NewWithContext(nserrors.ErrCodeParseFailure,
			"helper reported a non-positive CPI", map[string]any{
				"cpi": cpi,
			})
	}

	return &snapshot.MicroarchSample{
		L1MissRate: metrics[MetricL1MPKI],
		L2MissRate: metrics[MetricL2MPKI],
		L3MissRate: metrics[MetricL3MPKI],
		IPC:        1 / cpi,
	}, nil
}
