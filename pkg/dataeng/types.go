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
	"time"
)

// ServiceType is the compute engine a cluster runs.
type ServiceType string

const (
	ServiceSpark     ServiceType = "SPARK"
	ServiceSpark16   ServiceType = "SPARK_16"
	ServiceHive      ServiceType = "HIVE"
	ServiceHiveSpark ServiceType = "HIVE_ON_SPARK"
	ServiceMapReduce ServiceType = "MR2"
)

// SupportedServiceTypes returns all service types.
func SupportedServiceTypes() []ServiceType {
	return []ServiceType{ServiceSpark, ServiceSpark16, ServiceHive, ServiceHiveSpark, ServiceMapReduce}
}

// ParseServiceType parses a case-insensitive service type.
func ParseServiceType(s string) (ServiceType, error) {
	st := ServiceType(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range SupportedServiceTypes() {
		if st == v {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid service type %q, supported values: %v", s, SupportedServiceTypes())
}

// TerminationCondition controls automatic cluster termination.
type TerminationCondition string

const (
	TerminateNone          TerminationCondition = "NONE"
	TerminateEmptyJobQueue TerminationCondition = "EMPTY_JOB_QUEUE"
)

// JobType identifies the kind of workload a job runs.
type JobType string

const (
	JobTypeSpark     JobType = "SPARK"
	JobTypeHive      JobType = "HIVE"
	JobTypeMapReduce JobType = "MR2"
)

// ParseJobType parses a case-insensitive job type. "mapreduce" and "mr2"
// both map to JobTypeMapReduce.
func ParseJobType(s string) (JobType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spark":
		return JobTypeSpark, nil
	case "hive":
		return JobTypeHive, nil
	case "mapreduce", "mr2":
		return JobTypeMapReduce, nil
	default:
		return "", fmt.Errorf("invalid job type %q, supported values: spark, hive, mapreduce", s)
	}
}

// ListOrder is the ordering of list results.
type ListOrder string

const (
	NewestToOldest ListOrder = "NEWEST_TO_OLDEST"
	OldestToNewest ListOrder = "OLDEST_TO_NEWEST"
)

// Cluster describes a compute cluster.
type Cluster struct {
	ClusterName     string        `json:"clusterName" yaml:"clusterName"`
	CRN             string        `json:"crn,omitempty" yaml:"crn,omitempty"`
	Status          ClusterStatus `json:"status" yaml:"status"`
	ServiceType     ServiceType   `json:"serviceType,omitempty" yaml:"serviceType,omitempty"`
	CdhVersion      string        `json:"cdhVersion,omitempty" yaml:"cdhVersion,omitempty"`
	InstanceType    string        `json:"instanceType,omitempty" yaml:"instanceType,omitempty"`
	WorkersGroup    int           `json:"workersGroupSize,omitempty" yaml:"workersGroupSize,omitempty"`
	EnvironmentName string        `json:"environmentName,omitempty" yaml:"environmentName,omitempty"`
	CreationDate    time.Time     `json:"creationDate,omitzero" yaml:"creationDate,omitempty"`
}

// JobSummary is a job entry in a list result.
type JobSummary struct {
	JobID        string    `json:"jobId" yaml:"jobId"`
	JobName      string    `json:"jobName" yaml:"jobName"`
	JobType      JobType   `json:"jobType,omitempty" yaml:"jobType,omitempty"`
	ClusterName  string    `json:"clusterName,omitempty" yaml:"clusterName,omitempty"`
	Status       JobStatus `json:"status" yaml:"status"`
	CreationDate time.Time `json:"creationDate,omitzero" yaml:"creationDate,omitempty"`
}

// Job describes a single job.
type Job struct {
	JobSummary `json:",inline" yaml:",inline"`
	FailureAction string `json:"failureAction,omitempty" yaml:"failureAction,omitempty"`
}

// SparkJob is a Spark application.
type SparkJob struct {
	Jars                []string `json:"jars" yaml:"jars"`
	MainClass           string   `json:"mainClass" yaml:"mainClass"`
	ApplicationArgument []string `json:"applicationArguments,omitempty" yaml:"applicationArguments,omitempty"`
}

// HiveJob is a Hive script.
type HiveJob struct {
	Script string   `json:"script" yaml:"script"`
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
}

// MapReduceJob is a MapReduce application.
type MapReduceJob struct {
	Jars      []string `json:"jars" yaml:"jars"`
	MainClass string   `json:"mainClass" yaml:"mainClass"`
	Arguments []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// JobRequest is one job to submit. Exactly one of the workload fields is set.
type JobRequest struct {
	Name      string        `json:"name" yaml:"name"`
	Spark     *SparkJob     `json:"sparkJob,omitempty" yaml:"sparkJob,omitempty"`
	Hive      *HiveJob      `json:"hiveJob,omitempty" yaml:"hiveJob,omitempty"`
	MapReduce *MapReduceJob `json:"mr2Job,omitempty" yaml:"mr2Job,omitempty"`
}

// Type returns the workload type of the request, or "" when none or more than one is set.
func (r JobRequest) Type() JobType {
	var t JobType
	n := 0
	if r.Spark != nil {
		t = JobTypeSpark
		n++
	}
	if r.Hive != nil {
		t = JobTypeHive
		n++
	}
	if r.MapReduce != nil {
		t = JobTypeMapReduce
		n++
	}
	if n != 1 {
		return ""
	}
	return t
}

// ClouderaManagerCredentials are the CM admin credentials for a new cluster.
type ClouderaManagerCredentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// CreateAWSClusterRequest creates a cluster on AWS.
type CreateAWSClusterRequest struct {
	ClusterName                   string                     `json:"clusterName"`
	CdhVersion                    string                     `json:"cdhVersion"`
	ServiceType                   ServiceType                `json:"serviceType"`
	InstanceType                  string                     `json:"instanceType"`
	WorkersGroupSize              int                        `json:"workersGroupSize"`
	EnvironmentName               string                     `json:"environmentName"`
	SSHPrivateKey                 string                     `json:"sshPrivateKey,omitempty"`
	PublicKey                     string                     `json:"publicKey,omitempty"`
	ClouderaManagerCredentials    ClouderaManagerCredentials `json:"clouderaManagerCredentials"`
	Jobs                          []JobRequest               `json:"jobs,omitempty"`
	AutomaticTerminationCondition *TerminationCondition      `json:"automaticTerminationCondition,omitempty"`
}

// CreateAWSClusterResponse is the result of cluster creation.
type CreateAWSClusterResponse struct {
	Cluster *Cluster `json:"cluster"`
}

// DescribeClusterRequest describes a cluster by name.
type DescribeClusterRequest struct {
	ClusterName string `json:"clusterName"`
}

// DescribeClusterResponse holds the described cluster.
type DescribeClusterResponse struct {
	Cluster *Cluster `json:"cluster"`
}

// DeleteClusterRequest deletes a cluster by name.
type DeleteClusterRequest struct {
	ClusterName string `json:"clusterName"`
}

// DeleteClusterResponse carries the HTTP status code of the delete call.
type DeleteClusterResponse struct {
	StatusCode int `json:"-"`
}

// ListClustersRequest lists clusters.
type ListClustersRequest struct {
	PageSize  *int    `json:"pageSize,omitempty"`
	PageToken *string `json:"pageToken,omitempty"`
}

// ListClustersResponse holds a page of clusters.
type ListClustersResponse struct {
	Clusters      []Cluster `json:"clusters"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}

// SubmitJobsRequest submits jobs to an existing cluster.
type SubmitJobsRequest struct {
	ClusterName string       `json:"clusterName"`
	Jobs        []JobRequest `json:"jobs"`
}

// SubmitJobsResponse holds the submitted jobs in request order.
type SubmitJobsResponse struct {
	Jobs []JobSummary `json:"jobs"`
}

// DescribeJobRequest describes a job by id.
type DescribeJobRequest struct {
	JobID string `json:"jobId"`
}

// DescribeJobResponse holds the described job.
type DescribeJobResponse struct {
	Job *Job `json:"job"`
}

// ListJobsRequest lists jobs, optionally filtered by cluster.
type ListJobsRequest struct {
	ClusterName *string   `json:"clusterName,omitempty"`
	SortOrder   ListOrder `json:"sortOrder,omitempty"`
	PageSize    *int      `json:"pageSize,omitempty"`
	PageToken   *string   `json:"pageToken,omitempty"`
}

// ListJobsResponse holds a page of jobs.
type ListJobsResponse struct {
	Jobs          []JobSummary `json:"jobs"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}
