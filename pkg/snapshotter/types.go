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

	"github.com/NVIDIA/nodestat/pkg/delta"
)

// Snapshotter defines the interface for taking a one-shot host snapshot.
type Snapshotter interface {
	Measure(ctx context.Context) error
}

// Applier receives the operations of each cycle.
type Applier interface {
	Apply(ops []delta.Operation) error
}

// Readiness is flipped once the first cycle has been applied.
type Readiness interface {
	SetReady(ready bool)
}

// Notifier forwards service manager state changes (READY=1, WATCHDOG=1, STOPPING=1).
type Notifier interface {
	Notify(state string) error
}
