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

// Package serializer encodes and decodes nodestat data as JSON, YAML or a
// flat table.
//
// # Formats
//
//   - JSON: indented, suitable for piping into other tools
//   - YAML: gopkg.in/yaml.v3, used for configuration files
//   - Table: one FIELD/VALUE row per leaf, keyed by dotted json path,
//     numbers grouped with thousands separators (write-only)
//
// # Writing
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//		return err
//	}
//
// # Reading
//
// FromFile detects the format from the extension and decodes into a new
// value. Unknown fields are rejected so typos in configuration files fail
// loudly.
//
//	cfg, err := serializer.FromFile[config.File]("nodestat.yaml")
//
// # HTTP
//
// RespondJSON buffers the encoding before writing headers so a failed
// encode never produces a partial 200 response.
package serializer
