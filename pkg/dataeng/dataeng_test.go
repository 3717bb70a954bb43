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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

func TestParseClusterStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ClusterStatus
		wantErr bool
	}{
		{"CREATED", ClusterCreated, false},
		{"created", ClusterCreated, false},
		{" Terminating ", ClusterTerminating, false},
		{"archived", ClusterArchived, false},
		{"", "", true},
		{"DONE", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClusterStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    JobStatus
		wantErr bool
	}{
		{"COMPLETED", JobCompleted, false},
		{"running", JobRunning, false},
		{"Interrupted", JobInterrupted, false},
		{"CREATED", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJobStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJobType(t *testing.T) {
	for in, want := range map[string]JobType{
		"spark":     JobTypeSpark,
		"HIVE":      JobTypeHive,
		"mapreduce": JobTypeMapReduce,
		"mr2":       JobTypeMapReduce,
	} {
		got, err := ParseJobType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseJobType("pig")
	assert.Error(t, err)
}

func TestParseServiceType(t *testing.T) {
	got, err := ParseServiceType("spark")
	require.NoError(t, err)
	assert.Equal(t, ServiceSpark, got)

	_, err = ParseServiceType("flink")
	assert.Error(t, err)
}

func TestClusterCreationPolicy(t *testing.T) {
	p := ClusterCreationPolicy()
	require.NoError(t, p.Validate())
	assert.Equal(t, time.Minute, p.Interval)

	tests := []struct {
		status   ClusterStatus
		terminal bool
		success  bool
	}{
		{ClusterCreating, false, false},
		{ClusterCreated, true, true},
		{ClusterFailed, true, false},
		{ClusterTerminating, true, false},
		{ClusterTerminated, true, false},
		{ClusterUnknown, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, p.IsTerminal(tt.status))
			assert.Equal(t, tt.success, p.IsSuccess(tt.status))
		})
	}
}

func TestClusterDeletionPolicy(t *testing.T) {
	p := ClusterDeletionPolicy()
	require.NoError(t, p.Validate())
	assert.False(t, p.IsTerminal(ClusterTerminating))
	assert.True(t, p.IsSuccess(ClusterTerminated))
	assert.True(t, p.IsSuccess(ClusterArchived))
	assert.True(t, p.IsTerminal(ClusterFailed))
	assert.False(t, p.IsSuccess(ClusterFailed))
}

func TestJobCompletionPolicy(t *testing.T) {
	p := JobCompletionPolicy()
	require.NoError(t, p.Validate())
	assert.Equal(t, 30*time.Second, p.Interval)

	for _, s := range []JobStatus{JobQueued, JobSubmitting, JobRunning, JobUnknown} {
		assert.False(t, p.IsTerminal(s), s)
	}
	for _, s := range []JobStatus{JobFailed, JobTerminating, JobInterrupted} {
		assert.True(t, p.IsTerminal(s), s)
		assert.False(t, p.IsSuccess(s), s)
	}
	assert.True(t, p.IsSuccess(JobCompleted))
}

func TestJobRequest_Type(t *testing.T) {
	assert.Equal(t, JobTypeSpark, JobRequest{Spark: &SparkJob{}}.Type())
	assert.Equal(t, JobTypeHive, JobRequest{Hive: &HiveJob{}}.Type())
	assert.Equal(t, JobTypeMapReduce, JobRequest{MapReduce: &MapReduceJob{}}.Type())
	assert.Equal(t, JobType(""), JobRequest{}.Type())
	assert.Equal(t, JobType(""), JobRequest{Spark: &SparkJob{}, Hive: &HiveJob{}}.Type())
}

func TestJob_JSONFlattensSummary(t *testing.T) {
	j := Job{JobSummary: JobSummary{JobID: "j-1", JobName: "n", Status: JobRunning}}
	b, err := json.Marshal(j)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "j-1", m["jobId"])
	assert.Equal(t, "RUNNING", m["status"])
}

// stubClient answers describe calls from fixed values.
type stubClient struct {
	Client
	cluster *DescribeClusterResponse
	job     *DescribeJobResponse
	err     error
}

func (s *stubClient) DescribeCluster(context.Context, *DescribeClusterRequest) (*DescribeClusterResponse, error) {
	return s.cluster, s.err
}

func (s *stubClient) DescribeJob(context.Context, *DescribeJobRequest) (*DescribeJobResponse, error) {
	return s.job, s.err
}

func TestClusterStatusFetcher(t *testing.T) {
	ctx := context.Background()

	c := &stubClient{cluster: &DescribeClusterResponse{Cluster: &Cluster{ClusterName: "c", Status: ClusterCreating}}}
	got, err := ClusterStatusFetcher(c, "c")(ctx)
	require.NoError(t, err)
	assert.Equal(t, ClusterCreating, got)

	boom := errors.New("boom")
	_, err = ClusterStatusFetcher(&stubClient{err: boom}, "c")(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = ClusterStatusFetcher(&stubClient{cluster: &DescribeClusterResponse{}}, "c")(ctx)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInternal))

	c = &stubClient{cluster: &DescribeClusterResponse{Cluster: &Cluster{Status: "BOGUS"}}}
	_, err = ClusterStatusFetcher(c, "c")(ctx)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInternal))
}

func TestJobStatusFetcher(t *testing.T) {
	ctx := context.Background()

	c := &stubClient{job: &DescribeJobResponse{Job: &Job{JobSummary: JobSummary{JobID: "j", Status: JobCompleted}}}}
	got, err := JobStatusFetcher(c, "j")(ctx)
	require.NoError(t, err)
	assert.Equal(t, JobCompleted, got)

	_, err = JobStatusFetcher(&stubClient{job: &DescribeJobResponse{}}, "j")(ctx)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInternal))
}
