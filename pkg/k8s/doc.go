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

// Package k8s provides the Kubernetes integration of dataeng.
//
// # Sub-packages
//
// client: Shared Kubernetes client with automatic authentication
//
//	clientset, config, err := client.GetKubeClient()
//	if err != nil {
//	    return err
//	}
//
// jobstatus: Maps batch/v1 Jobs onto job statuses so the shared poller can
// wait for them
//
//	ref, _ := jobstatus.ParseRef("spark/etl-nightly")
//	outcome, err := poll.New(jobstatus.Policy()).Poll(ctx, ref.String(), jobstatus.Fetcher(clientset, ref))
//
// agent: Runs dataeng commands as a Kubernetes Job with ConfigMap output
//
//	deployer := agent.NewDeployer(clientset, agentConfig)
//	if err := deployer.Deploy(ctx); err != nil {
//	    return err
//	}
//
// # Architecture
//
//   - Singleton Pattern: The client package uses sync.Once so a single
//     Kubernetes client is shared across the process.
//
//   - Automatic Authentication: The client detects whether it runs in-cluster
//     (service account) or out-of-cluster (kubeconfig file).
//
//   - Job-based Agent: The agent runs a workflow inside the cluster where the
//     service credentials live, and hands its report back via a ConfigMap.
//
// # Thread Safety
//
// The client is safe for concurrent use. Each agent Deployer is independent.
package k8s
