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

package dataeng

import "context"

// Client is the data-engineering service API used by the lifecycle workflows.
// Implementations return *errors.StructuredError values so callers can
// branch on the error code.
type Client interface {
	CreateAWSCluster(ctx context.Context, req *CreateAWSClusterRequest) (*CreateAWSClusterResponse, error)
	DescribeCluster(ctx context.Context, req *DescribeClusterRequest) (*DescribeClusterResponse, error)
	DeleteCluster(ctx context.Context, req *DeleteClusterRequest) (*DeleteClusterResponse, error)
	ListClusters(ctx context.Context, req *ListClustersRequest) (*ListClustersResponse, error)
	SubmitJobs(ctx context.Context, req *SubmitJobsRequest) (*SubmitJobsResponse, error)
	DescribeJob(ctx context.Context, req *DescribeJobRequest) (*DescribeJobResponse, error)
	ListJobs(ctx context.Context, req *ListJobsRequest) (*ListJobsResponse, error)
}
