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

import (
	"context"
	"fmt"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

// Resource kinds used in poll policies, logs and metrics.
const (
	KindCluster = "cluster"
	KindJob     = "job"
)

// ClusterCreationPolicy polls a new cluster until it is CREATED or has failed.
// TERMINATING counts as failure: a cluster being torn down during creation
// will never become usable.
func ClusterCreationPolicy() poll.Policy[ClusterStatus] {
	return poll.Policy[ClusterStatus]{
		Kind:        KindCluster,
		Terminal:    []ClusterStatus{ClusterCreated, ClusterFailed, ClusterTerminating, ClusterTerminated},
		Success:     []ClusterStatus{ClusterCreated},
		Interval:    defaults.ClusterPollInterval,
		Timeout:     defaults.ClusterCreationTimeout,
		MaxAttempts: defaults.MaxPollAttempts,
	}
}

// ClusterDeletionPolicy polls a cluster being deleted until it is gone.
// FAILED is terminal, so a cluster that was FAILED before the delete ends
// the poll at its first fetch.
func ClusterDeletionPolicy() poll.Policy[ClusterStatus] {
	return poll.Policy[ClusterStatus]{
		Kind:        KindCluster,
		Terminal:    []ClusterStatus{ClusterTerminated, ClusterArchived, ClusterFailed},
		Success:     []ClusterStatus{ClusterTerminated, ClusterArchived},
		Interval:    defaults.ClusterPollInterval,
		MaxAttempts: defaults.MaxPollAttempts,
	}
}

// JobCompletionPolicy polls a job until it completes or stops.
func JobCompletionPolicy() poll.Policy[JobStatus] {
	return poll.Policy[JobStatus]{
		Kind:        KindJob,
		Terminal:    []JobStatus{JobCompleted, JobFailed, JobTerminating, JobInterrupted},
		Success:     []JobStatus{JobCompleted},
		Interval:    defaults.JobPollInterval,
		Timeout:     defaults.JobCompletionTimeout,
		MaxAttempts: defaults.MaxPollAttempts,
	}
}

// ClusterStatusFetcher returns a poll fetch function that describes the named cluster.
func ClusterStatusFetcher(c Client, clusterName string) poll.FetchFunc[ClusterStatus] {
	req := &DescribeClusterRequest{ClusterName: clusterName}
	return func(ctx context.Context) (ClusterStatus, error) {
		resp, err := c.DescribeCluster(ctx, req)
		if err != nil {
			return "", err
		}
		if resp == nil || resp.Cluster == nil {
			return "", dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
				"describe cluster returned no cluster", map[string]any{"cluster": clusterName})
		}
		if !resp.Cluster.Status.IsValid() {
			return "", dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
				fmt.Sprintf("unrecognized cluster status %q", resp.Cluster.Status),
				map[string]any{"cluster": clusterName})
		}
		return resp.Cluster.Status, nil
	}
}

// JobStatusFetcher returns a poll fetch function that describes the job.
func JobStatusFetcher(c Client, jobID string) poll.FetchFunc[JobStatus] {
	req := &DescribeJobRequest{JobID: jobID}
	return func(ctx context.Context) (JobStatus, error) {
		resp, err := c.DescribeJob(ctx, req)
		if err != nil {
			return "", err
		}
		if resp == nil || resp.Job == nil {
			return "", dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
				"describe job returned no job", map[string]any{"jobId": jobID})
		}
		if !resp.Job.Status.IsValid() {
			return "", dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
				fmt.Sprintf("unrecognized job status %q", resp.Job.Status),
				map[string]any{"jobId": jobID})
		}
		return resp.Job.Status, nil
	}
}
