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

package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

func sparkJob(name string) dataeng.JobRequest {
	return dataeng.JobRequest{Name: name, Spark: &dataeng.SparkJob{MainClass: "Main", Jars: []string{"s3a://bucket/app.jar"}}}
}

func describeCluster(t *testing.T, s *Service, name string) dataeng.ClusterStatus {
	t.Helper()
	resp, err := s.DescribeCluster(context.Background(), &dataeng.DescribeClusterRequest{ClusterName: name})
	require.NoError(t, err)
	return resp.Cluster.Status
}

func describeJob(t *testing.T, s *Service, id string) dataeng.JobStatus {
	t.Helper()
	resp, err := s.DescribeJob(context.Background(), &dataeng.DescribeJobRequest{JobID: id})
	require.NoError(t, err)
	return resp.Job.Status
}

func TestService_ClusterProgression(t *testing.T) {
	s := New(WithCreatingPolls(2))
	ctx := context.Background()

	resp, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c1", ServiceType: dataeng.ServiceSpark})
	require.NoError(t, err)
	assert.Equal(t, dataeng.ClusterCreating, resp.Cluster.Status)

	assert.Equal(t, dataeng.ClusterCreating, describeCluster(t, s, "c1"))
	assert.Equal(t, dataeng.ClusterCreating, describeCluster(t, s, "c1"))
	assert.Equal(t, dataeng.ClusterCreated, describeCluster(t, s, "c1"))
	assert.Equal(t, dataeng.ClusterCreated, describeCluster(t, s, "c1"), "last status repeats")
	assert.Equal(t, 4, s.Calls("describeCluster"))
}

func TestService_ClusterScript(t *testing.T) {
	s := New(WithClusterScript("bad", dataeng.ClusterCreating, dataeng.ClusterFailed))
	_, err := s.CreateAWSCluster(context.Background(), &dataeng.CreateAWSClusterRequest{ClusterName: "bad"})
	require.NoError(t, err)

	assert.Equal(t, dataeng.ClusterCreating, describeCluster(t, s, "bad"))
	assert.Equal(t, dataeng.ClusterFailed, describeCluster(t, s, "bad"))
}

func TestService_CreateValidation(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest))

	_, err = s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c"})
	require.NoError(t, err)
	_, err = s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c"})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest), "duplicate name")

	_, err = s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{
		ClusterName: "d",
		Jobs:        []dataeng.JobRequest{{Name: "empty"}},
	})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest), "job without workload")
}

func TestService_DescribeUnknown(t *testing.T) {
	s := New()
	_, err := s.DescribeCluster(context.Background(), &dataeng.DescribeClusterRequest{ClusterName: "nope"})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeNotFound))

	_, err = s.DescribeJob(context.Background(), &dataeng.DescribeJobRequest{JobID: "nope"})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeNotFound))
}

func TestService_JobWaitsForCluster(t *testing.T) {
	s := New(WithCreatingPolls(1), WithRunningPolls(1))
	ctx := context.Background()

	_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	sub, err := s.SubmitJobs(ctx, &dataeng.SubmitJobsRequest{ClusterName: "c1", Jobs: []dataeng.JobRequest{sparkJob("j")}})
	require.NoError(t, err)
	require.Len(t, sub.Jobs, 1)
	id := sub.Jobs[0].JobID

	assert.Equal(t, dataeng.JobQueued, describeJob(t, s, id), "cluster still creating")
	assert.Equal(t, dataeng.JobQueued, describeJob(t, s, id))

	describeCluster(t, s, "c1")
	require.Equal(t, dataeng.ClusterCreated, describeCluster(t, s, "c1"))

	assert.Equal(t, dataeng.JobQueued, describeJob(t, s, id))
	assert.Equal(t, dataeng.JobRunning, describeJob(t, s, id))
	assert.Equal(t, dataeng.JobCompleted, describeJob(t, s, id))
	assert.Equal(t, dataeng.JobCompleted, describeJob(t, s, id))
}

func TestService_JobScript(t *testing.T) {
	s := New(WithCreatingPolls(0), WithJobScript("flaky", dataeng.JobRunning, dataeng.JobFailed))
	ctx := context.Background()

	_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	require.Equal(t, dataeng.ClusterCreated, describeCluster(t, s, "c1"))

	sub, err := s.SubmitJobs(ctx, &dataeng.SubmitJobsRequest{ClusterName: "c1", Jobs: []dataeng.JobRequest{sparkJob("flaky")}})
	require.NoError(t, err)

	id := sub.Jobs[0].JobID
	assert.Equal(t, dataeng.JobRunning, describeJob(t, s, id))
	assert.Equal(t, dataeng.JobFailed, describeJob(t, s, id))
}

func TestService_EmptyJobQueueTermination(t *testing.T) {
	s := New(WithCreatingPolls(1), WithRunningPolls(0))
	ctx := context.Background()

	_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{
		ClusterName:                   "aio",
		Jobs:                          []dataeng.JobRequest{sparkJob("embedded")},
		AutomaticTerminationCondition: ptr.To(dataeng.TerminateEmptyJobQueue),
	})
	require.NoError(t, err)

	describeCluster(t, s, "aio")
	require.Equal(t, dataeng.ClusterCreated, describeCluster(t, s, "aio"))

	jobs, err := s.ListJobs(ctx, &dataeng.ListJobsRequest{ClusterName: ptr.To("aio")})
	require.NoError(t, err)
	require.Len(t, jobs.Jobs, 1)
	id := jobs.Jobs[0].JobID

	assert.Equal(t, dataeng.ClusterCreated, describeCluster(t, s, "aio"), "job still pending")
	assert.Equal(t, dataeng.JobQueued, describeJob(t, s, id))
	assert.Equal(t, dataeng.JobCompleted, describeJob(t, s, id))

	assert.Equal(t, dataeng.ClusterTerminating, describeCluster(t, s, "aio"))
	assert.Equal(t, dataeng.ClusterTerminated, describeCluster(t, s, "aio"))
}

func TestService_Delete(t *testing.T) {
	s := New(WithCreatingPolls(0))
	ctx := context.Background()

	_, err := s.DeleteCluster(ctx, &dataeng.DeleteClusterRequest{ClusterName: "missing"})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeNotFound))

	_, err = s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	describeCluster(t, s, "c1")

	resp, err := s.DeleteCluster(ctx, &dataeng.DeleteClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, dataeng.ClusterTerminating, describeCluster(t, s, "c1"))
	assert.Equal(t, dataeng.ClusterTerminated, describeCluster(t, s, "c1"))

	_, err = s.SubmitJobs(ctx, &dataeng.SubmitJobsRequest{ClusterName: "c1", Jobs: []dataeng.JobRequest{sparkJob("late")}})
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest))
}

func TestService_ListJobsOrder(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	s := New(WithClock(clk))
	ctx := context.Background()

	_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	for _, n := range []string{"first", "second", "third"} {
		_, err := s.SubmitJobs(ctx, &dataeng.SubmitJobsRequest{ClusterName: "c1", Jobs: []dataeng.JobRequest{sparkJob(n)}})
		require.NoError(t, err)
		clk.Step(time.Minute)
	}

	names := func(order dataeng.ListOrder) []string {
		resp, err := s.ListJobs(ctx, &dataeng.ListJobsRequest{SortOrder: order})
		require.NoError(t, err)
		var out []string
		for _, j := range resp.Jobs {
			out = append(out, j.JobName)
		}
		return out
	}
	assert.Equal(t, []string{"third", "second", "first"}, names(dataeng.NewestToOldest))
	assert.Equal(t, []string{"first", "second", "third"}, names(dataeng.OldestToNewest))

	resp, err := s.ListJobs(ctx, &dataeng.ListJobsRequest{ClusterName: ptr.To("other")})
	require.NoError(t, err)
	assert.Empty(t, resp.Jobs)
}

func TestService_FailNext(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)

	injected := dataerrors.New(dataerrors.ErrCodeUnavailable, "service down")
	s.FailNext("describeCluster", injected)

	_, err = s.DescribeCluster(ctx, &dataeng.DescribeClusterRequest{ClusterName: "c1"})
	assert.ErrorIs(t, err, injected)

	_, err = s.DescribeCluster(ctx, &dataeng.DescribeClusterRequest{ClusterName: "c1"})
	assert.NoError(t, err, "fault is consumed")
}

func TestService_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListClusters(ctx, &dataeng.ListClustersRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_ListClusters(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, n := range []string{"a", "b"} {
		_, err := s.CreateAWSCluster(ctx, &dataeng.CreateAWSClusterRequest{ClusterName: n})
		require.NoError(t, err)
	}
	resp, err := s.ListClusters(ctx, &dataeng.ListClustersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Clusters, 2)
	assert.Equal(t, "a", resp.Clusters[0].ClusterName)
	assert.Equal(t, "b", resp.Clusters[1].ClusterName)
}
