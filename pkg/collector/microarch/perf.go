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
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
)

const (
	// DefaultPerfPath is resolved through PATH.
	DefaultPerfPath = "perf"
)

// DefaultGroups are the metric groups passed to perf: the cache-miss family
// and the cycles-per-instruction family.
var DefaultGroups = []string{"CacheMisses", "CPI"}

// Helper starts the external hardware-counter measurement.
type Helper interface {
	Start(ctx context.Context, groups []string) (Process, error)
}

// Process is a running helper.
type Process interface {
	// Interrupt asks the helper to stop and flush its output.
	Interrupt() error
	// Kill terminates the helper without waiting for output.
	Kill() error
	// Done is closed once the helper has exited and been reaped.
	Done() <-chan struct{}
	// Diagnostics returns the helper's diagnostic output. Only complete
	// after Done is closed.
	Diagnostics() []byte
}

// PerfHelper runs `perf stat -a -M <groups>` system wide.
type PerfHelper struct {
	Path string
	Args []string
}

// NewPerfHelper returns a helper invoking the perf binary at path.
func NewPerfHelper(path string) *PerfHelper {
	if path == "" {
		path = DefaultPerfPath
	}
	return &PerfHelper{Path: path}
}

// Start launches perf. The returned Process owns the child until Done closes.
func (h *PerfHelper) Start(_ context.Context, groups []string) (Process, error) {
	args := h.Args
	if args == nil {
		args = []string{"stat", "-a", "-M", strings.Join(groups, ",")}
	}

	p := &perfProcess{done: make(chan struct{})}
	// no CommandContext: the child is stopped with SIGINT so that it flushes
	p.cmd = exec.Command(h.Path, args...)
	p.cmd.Env = helperEnv()
	p.cmd.Stderr = &p.stderr

	if err := p.cmd.Start(); err != nil {
		return nil, nserrors.WrapWithContext(nserrors.ErrCodeHelperUnavailable,
			"failed to start helper", err, map[string]any{
				"path": h.Path,
				"args": strings.Join(args, " "),
			})
	}

	slog.Debug("helper started",
		slog.String("path", h.Path),
		slog.Int("pid", p.cmd.Process.Pid))

	go func() {
		// exit status is not meaningful: perf exits non-zero on SIGINT on some kernels
		_ = p.cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

// helperEnv pins the numeric locale so perf prints '.' decimals and ','
// grouping regardless of the host's LANG.
func helperEnv() []string {
	return append(os.Environ(), "LC_ALL=C")
}

type perfProcess struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan struct{}
}

func (p *perfProcess) Interrupt() error {
	return p.signal(unix.SIGINT)
}

func (p *perfProcess) Kill() error {
	return p.signal(unix.SIGKILL)
}

func (p *perfProcess) signal(sig unix.Signal) error {
	select {
	case <-p.done:
		return nil
	default:
	}
	return p.cmd.Process.Signal(sig)
}

func (p *perfProcess) Done() <-chan struct{} {
	return p.done
}

func (p *perfProcess) Diagnostics() []byte {
	select {
	case <-p.done:
		return p.stderr.Bytes()
	default:
		return nil
	}
}
