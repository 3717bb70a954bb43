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

package defaults

import "time"

// Poll intervals for remote resource status checks.
const (
	// ClusterPollInterval is the delay between cluster status checks.
	// Cluster creation takes minutes, so checking more often only burns API quota.
	ClusterPollInterval = 1 * time.Minute

	// JobPollInterval is the delay between job status checks.
	JobPollInterval = 30 * time.Second

	// KubeJobPollInterval is the delay between Kubernetes Job status checks.
	KubeJobPollInterval = 5 * time.Second
)

// Poll budgets. Zero means unbounded, matching the behavior of the sample
// programs; the CLI exposes flags to set a safety net.
const (
	// ClusterCreationTimeout is the default overall budget for cluster creation.
	ClusterCreationTimeout time.Duration = 0

	// JobCompletionTimeout is the default overall budget for job completion.
	JobCompletionTimeout time.Duration = 0

	// MaxPollAttempts is the default attempt budget.
	MaxPollAttempts = 0
)

// Server timeouts for the metrics HTTP server.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for calls to the provisioning API.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// API client limits.
const (
	// APIRateLimit is the sustained request rate allowed against the provisioning API.
	APIRateLimit = 5 // req/s

	// APIRateBurst is the request burst allowed against the provisioning API.
	APIRateBurst = 10
)

// CLI timeouts for command-line operations.
const (
	// CLIRequestTimeout bounds single request/response commands such as describe or list.
	CLIRequestTimeout = 1 * time.Minute

	// CleanupTimeout bounds cluster deletion after a workflow was canceled.
	CleanupTimeout = 30 * time.Second
)

// APIHandlerTimeout bounds a single inventory API request to the service.
const APIHandlerTimeout = 30 * time.Second

// Kubernetes API timeouts.
const (
	// ConfigMapWriteTimeout bounds writing a report to a ConfigMap.
	ConfigMapWriteTimeout = 30 * time.Second

	// AgentJobDeletionTimeout bounds waiting for a previous agent Job to go away.
	AgentJobDeletionTimeout = 30 * time.Second

	// AgentJobDeletionPollInterval is the cadence of the Job deletion check.
	AgentJobDeletionPollInterval = 500 * time.Millisecond
)

// Cluster sizing defaults.
const (
	// WorkersGroupSize is the default number of worker instances.
	WorkersGroupSize = 3
)
