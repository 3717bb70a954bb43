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

// Package dataeng defines the data-engineering service domain model.
//
// It holds the cluster and job status enumerations, the request and
// response models, the Client interface implemented by the HTTP transport
// (pkg/dataeng/client) and the in-memory simulator (pkg/dataeng/sim), and
// the poll policies for each resource kind:
//
//	ClusterCreationPolicy  terminal CREATED, FAILED, TERMINATING, TERMINATED; success CREATED; 1m
//	ClusterDeletionPolicy  terminal TERMINATED, ARCHIVED, FAILED; success TERMINATED, ARCHIVED; 1m
//	JobCompletionPolicy    terminal COMPLETED, FAILED, TERMINATING, INTERRUPTED; success COMPLETED; 30s
//
// ClusterStatusFetcher and JobStatusFetcher adapt a Client to poll.FetchFunc:
//
//	out, err := poll.New(dataeng.JobCompletionPolicy()).
//	    Poll(ctx, jobID, dataeng.JobStatusFetcher(client, jobID))
package dataeng
