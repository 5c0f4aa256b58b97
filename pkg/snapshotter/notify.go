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
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// SystemdNotifier sends sd_notify messages. Outside systemd every call is a no-op.
type SystemdNotifier struct{}

// Notify sends state on NOTIFY_SOCKET.
func (SystemdNotifier) Notify(state string) error {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		return err
	}
	if !sent {
		slog.Debug("sd_notify skipped, not running under systemd", "state", state)
	}
	return nil
}

// watchdogInterval returns how often WATCHDOG=1 must be sent, or 0 when the
// service manager does not expect it.
func watchdogInterval() time.Duration {
	d, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		slog.Warn("failed to read systemd watchdog settings", "error", err)
		return 0
	}
	return d
}
