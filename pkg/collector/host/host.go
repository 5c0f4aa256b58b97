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

package host

import (
	"context"
	"fmt"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/blockdevice"
	"github.com/prometheus/procfs/sysfs"
	"github.com/shirou/gopsutil/v4/common"

	"github.com/NVIDIA/nodestat/pkg/collector/file"
	nserrors "github.com/NVIDIA/nodestat/pkg/errors"
	"github.com/NVIDIA/nodestat/pkg/snapshot"
)

const (
	// DefaultProcPath is the procfs mount point.
	DefaultProcPath = procfs.DefaultMountPoint
	// DefaultSysPath is the sysfs mount point.
	DefaultSysPath = sysfs.DefaultMountPoint
)

var (
	// DefaultDiskExclude drops pseudo block devices.
	DefaultDiskExclude = []string{"loop*", "ram*", "zram*", "fd*", "sr*"}

	// DefaultFSTypeExclude drops virtual filesystems.
	DefaultFSTypeExclude = []string{
		"autofs", "binfmt_misc", "bpf", "cgroup*", "configfs", "debugfs",
		"devpts", "devtmpfs", "fusectl", "hugetlbfs", "mqueue", "nsfs",
		"overlay", "proc", "procfs", "pstore", "rpc_pipefs", "securityfs",
		"selinuxfs", "squashfs", "sysfs", "tracefs",
	}

	// DefaultMountPointExclude drops container and kernel runtime mounts.
	DefaultMountPointExclude = []string{"/dev*", "/proc*", "/sys*", "/run/containerd/*", "/var/lib/docker/*", "/var/lib/kubelet/*"}
)

// Option configures a Reader.
type Option func(*Reader)

// WithProcPath sets the procfs mount point, e.g. /host/proc inside a container.
func WithProcPath(path string) Option {
	return func(r *Reader) {
		r.procPath = path
	}
}

// WithSysPath sets the sysfs mount point.
func WithSysPath(path string) Option {
	return func(r *Reader) {
		r.sysPath = path
	}
}

// WithDiskExclude replaces the device exclusion patterns.
func WithDiskExclude(patterns []string) Option {
	return func(r *Reader) {
		r.diskFilter = snapshot.NewFilter(patterns)
	}
}

// WithNetworkExclude sets the interface exclusion patterns.
func WithNetworkExclude(patterns []string) Option {
	return func(r *Reader) {
		r.netFilter = snapshot.NewFilter(patterns)
	}
}

// WithFSTypeExclude replaces the filesystem type exclusion patterns.
func WithFSTypeExclude(patterns []string) Option {
	return func(r *Reader) {
		r.fsTypeFilter = snapshot.NewFilter(patterns)
	}
}

// WithMountPointExclude replaces the mount point exclusion patterns.
func WithMountPointExclude(patterns []string) Option {
	return func(r *Reader) {
		r.mountFilter = snapshot.NewFilter(patterns)
	}
}

// Reader reads host pseudo-files. Each method performs a single read of its
// source and returns a structured record, or a SOURCE_UNAVAILABLE /
// PARSE_FAILURE error.
type Reader struct {
	procPath string
	sysPath  string

	proc  procfs.FS
	sys   sysfs.FS
	block blockdevice.FS

	parser *file.Parser

	diskFilter   snapshot.Filter
	netFilter    snapshot.Filter
	fsTypeFilter snapshot.Filter
	mountFilter  snapshot.Filter
}

// NewReader opens the procfs and sysfs mount points.
func NewReader(opts ...Option) (*Reader, error) {
	r := &Reader{
		procPath:     DefaultProcPath,
		sysPath:      DefaultSysPath,
		parser:       file.NewParser(file.WithMaxSize(64 << 10)),
		diskFilter:   snapshot.NewFilter(DefaultDiskExclude),
		fsTypeFilter: snapshot.NewFilter(DefaultFSTypeExclude),
		mountFilter:  snapshot.NewFilter(DefaultMountPointExclude),
	}

	for _, opt := range opts {
		opt(r)
	}

	var err error
	if r.proc, err = procfs.NewFS(r.procPath); err != nil {
		return nil, fmt.Errorf("failed to open procfs at %s: %w", r.procPath, err)
	}
	if r.sys, err = sysfs.NewFS(r.sysPath); err != nil {
		return nil, fmt.Errorf("failed to open sysfs at %s: %w", r.sysPath, err)
	}
	if r.block, err = blockdevice.NewFS(r.procPath, r.sysPath); err != nil {
		return nil, fmt.Errorf("failed to open block devices: %w", err)
	}

	return r, nil
}

// gopsutilContext points gopsutil at the configured mount points.
func (r *Reader) gopsutilContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, common.EnvKey, common.EnvMap{
		common.HostProcEnvKey: r.procPath,
		common.HostSysEnvKey:  r.sysPath,
	})
}

func unavailable(source, path string, err error) error {
	return nserrors.WrapWithContext(nserrors.ErrCodeSourceUnavailable,
		"failed to read "+source, err, map[string]any{
			"source": source,
			"path":   path,
		})
}
