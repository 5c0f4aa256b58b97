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

package file

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const defaultMaxSize = 1 << 20

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small pseudo-files and text blobs into trimmed lines.
type Parser struct {
	maxSize      int
	skipComments bool
}

// WithMaxSize bounds the content size in bytes. Default is 1MiB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments drops lines whose first non-blank character is '#'.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// NewParser returns a Parser with the given options applied.
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetValue returns the first non-empty line of a single-value file such as
// /sys/devices/system/cpu/cpu0/cache/index0/size.
func (p *Parser) GetValue(path string) (string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("file %q is empty", path)
	}
	return lines[0], nil
}

// GetLines returns the non-empty lines of the file at path.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	lines, err := p.Lines(b)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", path, err)
	}
	return lines, nil
}

// Lines splits b on newlines and returns the trimmed, non-empty entries.
// b must be valid UTF-8 no larger than the configured maximum.
func (p *Parser) Lines(b []byte) ([]string, error) {
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("content exceeds maximum size of %d bytes", p.maxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content is not valid UTF-8")
	}

	var lines []string
	for line := range strings.Lines(string(b)) {
		line = strings.TrimSpace(line)
		if line == "" || (p.skipComments && strings.HasPrefix(line, "#")) {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
