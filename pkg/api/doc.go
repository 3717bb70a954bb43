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

// Package api implements dataengd, a read-only HTTP inventory of the
// clusters and jobs known to the data-engineering service.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/dataeng-lifecycle/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (rate limited):
//   - GET /v1/clusters             - List clusters
//   - GET /v1/clusters?name=NAME   - Describe one cluster
//   - GET /v1/jobs                 - List jobs (?cluster=, ?order=newest|oldest)
//   - GET /v1/jobs?name=NAME       - Newest job ID for a name (case-insensitive)
//
// System endpoints:
//   - GET /health  - Liveness probe
//   - GET /ready   - Readiness probe
//   - GET /metrics - Prometheus metrics
//
// Service errors are returned as server.ErrorResponse bodies with the HTTP
// status that matches the error code (404 NOT_FOUND, 503 TRANSPORT, ...).
//
// # Configuration
//
//	DATAENG_CONFIG             Config location (file, URL or cm://namespace/name)
//	DATAENG_ENDPOINT           Service endpoint
//	DATAENG_API_KEY            API key
//	METRICS_PORT               Listen port (default 9090)
//	SHUTDOWN_TIMEOUT_SECONDS   Graceful shutdown budget
package api
