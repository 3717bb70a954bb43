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

// Package defaults provides centralized configuration constants for dataeng.
//
// This package defines poll intervals, poll budgets, timeouts and client
// limits used across the codebase. Centralizing these values keeps the CLI,
// the API client and the workflows consistent.
//
// # Categories
//
//   - Poll intervals: cluster (1m), job (30s) and Kubernetes Job (5s) cadences
//   - Poll budgets: overall timeout and attempt limits, unbounded by default
//   - Server timeouts: for the metrics HTTP server
//   - HTTP client timeouts: for calls to the provisioning API
//   - API client limits: client-side request rate
//
// # Usage
//
//	policy := dataeng.ClusterCreationPolicy()
//	policy.Interval = defaults.ClusterPollInterval
package defaults
