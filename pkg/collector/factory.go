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

package collector

import (
	"fmt"

	"github.com/NVIDIA/nodestat/pkg/collector/host"
)

// Factory creates sources with their dependencies.
// This interface enables dependency injection for testing. A factory may
// return nil for a source that is disabled; the Collector skips it.
type Factory interface {
	CreateTopologySource() TopologySource
	CreateStatSource() StatSource
	CreateMemorySource() MemorySource
	CreateLoadSource() LoadSource
	CreateFilesystemSource() FilesystemSource
	CreateDiskSource() DiskSource
	CreateNetworkSource() NetworkSource
	CreateProcessSource() ProcessSource
	CreateMicroarchSource() MicroarchSource
}

// Option is a functional option for configuring DefaultFactory instances.
type Option func(*DefaultFactory)

// WithHostOptions passes options to the underlying host.Reader.
func WithHostOptions(opts ...host.Option) Option {
	return func(f *DefaultFactory) {
		f.hostOpts = append(f.hostOpts, opts...)
	}
}

// WithProcesses enables or disables per-process collection.
func WithProcesses(enabled bool) Option {
	return func(f *DefaultFactory) {
		f.Processes = enabled
	}
}

// WithMicroarch sets the hardware-counter sampler. Without it no microarch
// sample is taken.
func WithMicroarch(m MicroarchSource) Option {
	return func(f *DefaultFactory) {
		f.Microarch = m
	}
}

// DefaultFactory creates sources backed by the host's procfs and sysfs.
type DefaultFactory struct {
	Processes bool
	Microarch MicroarchSource

	hostOpts []host.Option
	reader   *host.Reader
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) (*DefaultFactory, error) {
	f := &DefaultFactory{
		Processes: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	r, err := host.NewReader(f.hostOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create host reader: %w", err)
	}
	f.reader = r

	return f, nil
}

// CreateTopologySource creates the CPU topology source.
func (f *DefaultFactory) CreateTopologySource() TopologySource {
	return f.reader
}

// CreateStatSource creates the kernel statistics source.
func (f *DefaultFactory) CreateStatSource() StatSource {
	return f.reader
}

// CreateMemorySource creates the memory source.
func (f *DefaultFactory) CreateMemorySource() MemorySource {
	return f.reader
}

// CreateLoadSource creates the load average source.
func (f *DefaultFactory) CreateLoadSource() LoadSource {
	return f.reader
}

// CreateFilesystemSource creates the filesystem capacity source.
func (f *DefaultFactory) CreateFilesystemSource() FilesystemSource {
	return f.reader
}

// CreateDiskSource creates the block device source.
func (f *DefaultFactory) CreateDiskSource() DiskSource {
	return f.reader
}

// CreateNetworkSource creates the network interface source.
func (f *DefaultFactory) CreateNetworkSource() NetworkSource {
	return f.reader
}

// CreateProcessSource creates the process source, or nil when disabled.
func (f *DefaultFactory) CreateProcessSource() ProcessSource {
	if !f.Processes {
		return nil
	}
	return f.reader
}

// CreateMicroarchSource returns the configured sampler, which may be nil.
func (f *DefaultFactory) CreateMicroarchSource() MicroarchSource {
	return f.Microarch
}
