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

// Package server is the HTTP surface of the exporter.
//
// Routes:
//
//   - GET /health: liveness, always 200 while the process serves
//   - GET /ready: 503 until the polling loop applied its first cycle
//   - GET /: name, version, readiness and the route list
//   - any handler added with WithHandler, typically /metrics
//
// Added handlers and the index route run behind a middleware chain:
// request metrics, request ID (X-Request-Id, uuid), panic recovery,
// token bucket rate limiting (golang.org/x/time/rate) and debug
// request logging. Errors are returned as ErrorResponse JSON with a
// code from pkg/errors.
//
// Usage:
//
//	s := server.New(
//		server.WithName("nodestat"),
//		server.WithVersion(version),
//		server.WithHandler(map[string]http.Handler{"/metrics": reg.Handler()}),
//	)
//	g.Go(func() error { return s.Start(ctx) })
//
// The listen port defaults to 9123 and can be set with PORT.
// SHUTDOWN_TIMEOUT_SECONDS bounds graceful shutdown.
package server
