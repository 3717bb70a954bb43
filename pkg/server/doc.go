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

// Package server implements the ops HTTP endpoint of long-running dataeng
// commands: liveness, readiness and Prometheus metrics.
//
// # Endpoints
//
//	GET /health   always 200 with {"status": "healthy"}
//	GET /ready    200 while the server is serving, 503 otherwise
//	GET /metrics  Prometheus exposition (poll, API client and HTTP metrics)
//	GET /         name, version, readiness and routes
//
// Handlers registered through Config.Handlers run behind the middleware
// chain: metrics, request id (X-Request-Id, generated when missing or not a
// UUID), panic recovery, rate limiting (golang.org/x/time/rate) and debug
// request logging. Probes and /metrics bypass the chain.
//
// # Usage
//
//	cfg := server.NewConfig()
//	if err := cfg.SetAddress(":9090"); err != nil {
//	    return err
//	}
//	g, gctx := errgroup.WithContext(ctx)
//	g.Go(func() error { return server.New(cfg).Start(gctx) })
//
// Start returns after ctx is done and the server has shut down within
// Config.ShutdownTimeout.
//
// # Configuration
//
// NewConfig reads METRICS_PORT and SHUTDOWN_TIMEOUT_SECONDS; the latter lets
// the shutdown budget follow a pod's termination grace period.
//
// # Errors
//
// Error replies share one JSON shape:
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "rate limit exceeded",
//	  "details": {"limit": 100, "burst": 200},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": true
//	}
package server
