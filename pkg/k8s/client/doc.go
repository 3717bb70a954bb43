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

// Package client builds Kubernetes clients.
//
// GetKubeClient returns a process-wide client created once with sync.Once.
// BuildKubeClient creates an uncached client for an explicit kubeconfig.
//
// Kubeconfig discovery order:
//
//  1. the explicit path
//  2. $KUBECONFIG
//  3. ~/.kube/config, if it exists
//  4. the in-cluster service account
//
// The client is used to wait on Kubernetes Jobs (pkg/k8s/jobstatus) and to
// read and write ConfigMaps (pkg/serializer).
package client
