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
	"fmt"
	"strings"
)

// ClusterStatus is the lifecycle status of a cluster.
type ClusterStatus string

const (
	ClusterCreating    ClusterStatus = "CREATING"
	ClusterCreated     ClusterStatus = "CREATED"
	ClusterFailed      ClusterStatus = "FAILED"
	ClusterTerminating ClusterStatus = "TERMINATING"
	ClusterTerminated  ClusterStatus = "TERMINATED"
	ClusterArchiving   ClusterStatus = "ARCHIVING"
	ClusterArchived    ClusterStatus = "ARCHIVED"
	ClusterUnknown     ClusterStatus = "UNKNOWN"
)

// SupportedClusterStatuses returns all cluster statuses.
func SupportedClusterStatuses() []ClusterStatus {
	return []ClusterStatus{
		ClusterCreating,
		ClusterCreated,
		ClusterFailed,
		ClusterTerminating,
		ClusterTerminated,
		ClusterArchiving,
		ClusterArchived,
		ClusterUnknown,
	}
}

// IsValid reports whether s is a known cluster status.
func (s ClusterStatus) IsValid() bool {
	for _, v := range SupportedClusterStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the status name.
func (s ClusterStatus) String() string {
	return string(s)
}

// ParseClusterStatus parses a case-insensitive cluster status name.
func ParseClusterStatus(s string) (ClusterStatus, error) {
	st := ClusterStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid cluster status %q, supported values: %v", s, SupportedClusterStatuses())
	}
	return st, nil
}

// JobStatus is the lifecycle status of a job.
type JobStatus string

const (
	JobQueued      JobStatus = "QUEUED"
	JobSubmitting  JobStatus = "SUBMITTING"
	JobRunning     JobStatus = "RUNNING"
	JobCompleted   JobStatus = "COMPLETED"
	JobFailed      JobStatus = "FAILED"
	JobTerminating JobStatus = "TERMINATING"
	JobInterrupted JobStatus = "INTERRUPTED"
	JobUnknown     JobStatus = "UNKNOWN"
)

// SupportedJobStatuses returns all job statuses.
func SupportedJobStatuses() []JobStatus {
	return []JobStatus{
		JobQueued,
		JobSubmitting,
		JobRunning,
		JobCompleted,
		JobFailed,
		JobTerminating,
		JobInterrupted,
		JobUnknown,
	}
}

// IsValid reports whether s is a known job status.
func (s JobStatus) IsValid() bool {
	for _, v := range SupportedJobStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the status name.
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus parses a case-insensitive job status name.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid job status %q, supported values: %v", s, SupportedJobStatuses())
	}
	return st, nil
}
