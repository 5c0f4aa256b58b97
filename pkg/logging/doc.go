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

// Package logging configures log/slog for nodestat.
//
// Every record is JSON on stderr and carries the module and version
// attributes. At debug level the source location is added as well.
//
//	logging.SetDefaultStructuredLoggerWithLevel("nodestat", version, "debug")
//	slog.Debug("cycle complete", "operations", len(ops))
//
// Levels are debug, info, warn (or warning) and error, matched
// case-insensitively. Anything else is info. SetDefaultStructuredLogger reads
// the level from LOG_LEVEL:
//
//	LOG_LEVEL=debug nodestat snapshot --format table
//
// A typical record:
//
//	{"time":"2025-01-15T10:30:00.123Z","level":"WARN","msg":"source unavailable",
//	 "module":"nodestat","version":"v0.3.0","source":"disks","error":"..."}
//
// NewLogLogger bridges the slog default into APIs that still take a
// *log.Logger, such as http.Server.ErrorLog and promhttp.HandlerOpts.ErrorLog.
package logging
