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
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
)

// script emulates perf: it runs until SIGINT, then prints its result to stderr.
const script = `#!/bin/sh
trap 'echo "  100 cycles # 0.5 CPI" >&2; exit 0' INT
while :; do sleep 0.01; done
`

func writeScript(t *testing.T) string {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-perf")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func TestPerfHelperInterruptFlushesOutput(t *testing.T) {
	h := NewPerfHelper(writeScript(t))
	h.Args = []string{}

	p, err := h.Start(context.Background(), DefaultGroups)
	require.NoError(t, err)

	assert.Nil(t, p.Diagnostics(), "output is only available after exit")

	// give the shell time to install its trap
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, p.Interrupt())

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		_ = p.Kill()
		t.Fatal("helper did not exit on interrupt")
	}

	assert.Contains(t, string(p.Diagnostics()), "0.5 CPI")
	assert.NoError(t, p.Interrupt(), "signaling an exited helper is a no-op")
}

func TestPerfHelperKill(t *testing.T) {
	h := NewPerfHelper("/bin/sh")
	h.Args = []string{"-c", "trap '' INT; while :; do sleep 0.01; done"}

	p, err := h.Start(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, p.Kill())

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("helper did not exit on kill")
	}
}

func TestPerfHelperForcesCLocale(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires a POSIX shell")
	}
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LANG", "de_DE.UTF-8")

	h := NewPerfHelper("/bin/sh")
	h.Args = []string{"-c", `echo "locale=$LC_ALL" >&2`}

	p, err := h.Start(context.Background(), nil)
	require.NoError(t, err)

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		_ = p.Kill()
		t.Fatal("helper did not exit")
	}

	assert.Equal(t, "locale=C\n", string(p.Diagnostics()))
}

func TestPerfHelperStartFailure(t *testing.T) {
	h := NewPerfHelper(filepath.Join(t.TempDir(), "no-such-perf"))

	_, err := h.Start(context.Background(), DefaultGroups)
	require.Error(t, err)
	assert.True(t, nserrors.HasCode(err, nserrors.ErrCodeHelperUnavailable))
}

func TestNewPerfHelperDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPerfPath, NewPerfHelper("").Path)
}
