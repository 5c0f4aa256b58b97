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

// Package registry exposes delta operations as Prometheus metrics.
//
// It implements the gauge and counter handle contract on top of
// prometheus/client_golang vectors and dispatches delta.Operation values to
// them by metric name:
//
//	reg := registry.New()
//	if err := reg.RegisterDescriptors(delta.Descriptors()); err != nil {
//	    return err
//	}
//	_ = reg.Apply(delta.Diff(prev, cur))
//	http.Handle("/metrics", reg.Handler())
package registry
