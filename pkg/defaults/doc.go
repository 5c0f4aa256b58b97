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

// Package defaults provides centralized configuration constants for nodestat.
//
// This package defines the sampling cadence, the helper grace period, server
// timeouts and limits used across the codebase. Centralizing these values
// keeps the loop, the sampler, and the server consistent.
//
// # Usage
//
//	import "github.com/NVIDIA/nodestat/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SourceTimeout)
//	defer cancel()
//
// # Guidelines
//
//   - The microarch window always equals the poll interval
//   - HelperGracePeriod should stay well below the poll interval times a few cycles
//   - Server shutdown: 30s for graceful shutdown
package defaults
