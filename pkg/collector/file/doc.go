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

// Package file provides a small parser for pseudo-files and text blobs.
//
// Collectors use it for sysfs single-value files (cache level, type, size)
// and for splitting helper diagnostic output into lines. All content is
// validated as UTF-8 and bounded in size before it is split.
//
// # Usage
//
//	p := file.NewParser()
//	size, err := p.GetValue("/sys/devices/system/cpu/cpu0/cache/index0/size")
//	if err != nil {
//	    return fmt.Errorf("failed to read cache size: %w", err)
//	}
//
//	lines, err := p.Lines(stderr)
//
// Errors are wrapped with the path that failed so callers can log them as-is.
package file
