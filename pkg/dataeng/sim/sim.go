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
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

// Default script lengths.
const (
	DefaultCreatingPolls    = 2
	DefaultQueuedPolls      = 1
	DefaultRunningPolls     = 2
	DefaultTerminatingPolls = 1
)

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for creation timestamps.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithCreatingPolls sets how many describes report CREATING before a new
// cluster reports CREATED.
func WithCreatingPolls(n int) Option {
	return func(s *Service) {
		s.creatingPolls = n
	}
}

// WithRunningPolls sets how many describes report RUNNING before a job completes.
func WithRunningPolls(n int) Option {
	return func(s *Service) {
		s.runningPolls = n
	}
}

// WithClusterScript fixes the statuses reported by successive describes of
// the named cluster. The last status repeats.
func WithClusterScript(name string, statuses ...dataeng.ClusterStatus) Option {
	return func(s *Service) {
		s.clusterScripts[name] = statuses
	}
}

// WithJobScript fixes the statuses reported by successive describes of jobs
// with the given name once their cluster is CREATED. The last status repeats.
func WithJobScript(jobName string, statuses ...dataeng.JobStatus) Option {
	return func(s *Service) {
		s.jobScripts[jobName] = statuses
	}
}

type cluster struct {
	info       dataeng.Cluster
	script     []dataeng.ClusterStatus
	describes  int
	autoTerm   bool
	terminated []dataeng.ClusterStatus // teardown script, set on delete or auto-termination
	jobs       []string
}

type job struct {
	info      dataeng.Job
	script    []dataeng.JobStatus
	describes int
	seq       int
}

// Service is a deterministic in-memory dataeng.Client. Status advances one
// script step per describe call, so a poller drives it at its own cadence.
// It is safe for concurrent use.
type Service struct {
	mu sync.Mutex

	clock            clock.PassiveClock
	creatingPolls    int
	queuedPolls      int
	runningPolls     int
	terminatingPolls int
	clusterScripts   map[string][]dataeng.ClusterStatus
	jobScripts       map[string][]dataeng.JobStatus

	clusters map[string]*cluster
	order    []string
	jobs     map[string]*job
	seq      int
	faults   map[string][]error
	calls    map[string]int
}

var _ dataeng.Client = (*Service)(nil)

// New returns an empty simulated service.
func New(opts ...Option) *Service {
	s := &Service{
		clock:            clock.RealClock{},
		creatingPolls:    DefaultCreatingPolls,
		queuedPolls:      DefaultQueuedPolls,
		runningPolls:     DefaultRunningPolls,
		terminatingPolls: DefaultTerminatingPolls,
		clusterScripts:   make(map[string][]dataeng.ClusterStatus),
		jobScripts:       make(map[string][]dataeng.JobStatus),
		clusters:         make(map[string]*cluster),
		jobs:             make(map[string]*job),
		faults:           make(map[string][]error),
		calls:            make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailNext makes the next call of op return err. Faults queue per operation.
// Operation names match the HTTP client's (for example "describeCluster").
func (s *Service) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], err)
}

// Calls returns how many times op was called, including failed calls.
func (s *Service) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter records a call and pops an injected fault. Callers hold s.mu.
func (s *Service) enter(ctx context.Context, op string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return dataerrors.Wrap(dataerrors.ErrCodeTransport, op+": request canceled", err)
	}
	if q := s.faults[op]; len(q) > 0 {
		s.faults[op] = q[1:]
		return q[0]
	}
	return nil
}

func (s *Service) defaultClusterScript() []dataeng.ClusterStatus {
	script := make([]dataeng.ClusterStatus, 0, s.creatingPolls+1)
	for range s.creatingPolls {
		script = append(script, dataeng.ClusterCreating)
	}
	return append(script, dataeng.ClusterCreated)
}

func (s *Service) defaultJobScript() []dataeng.JobStatus {
	script := make([]dataeng.JobStatus, 0, s.queuedPolls+s.runningPolls+1)
	for range s.queuedPolls {
		script = append(script, dataeng.JobQueued)
	}
	for range s.runningPolls {
		script = append(script, dataeng.JobRunning)
	}
	return append(script, dataeng.JobCompleted)
}

func (s *Service) teardownScript() []dataeng.ClusterStatus {
	script := make([]dataeng.ClusterStatus, 0, s.terminatingPolls+1)
	for range s.terminatingPolls {
		script = append(script, dataeng.ClusterTerminating)
	}
	return append(script, dataeng.ClusterTerminated)
}

// CreateAWSCluster implements dataeng.Client.
func (s *Service) CreateAWSCluster(ctx context.Context, req *dataeng.CreateAWSClusterRequest) (*dataeng.CreateAWSClusterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "createAWSCluster"); err != nil {
		return nil, err
	}
	if req == nil || req.ClusterName == "" {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name is required")
	}
	if c, ok := s.clusters[req.ClusterName]; ok && c.info.Status != dataeng.ClusterTerminated {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			"cluster already exists", map[string]any{"cluster": req.ClusterName})
	}

	script, ok := s.clusterScripts[req.ClusterName]
	if !ok || len(script) == 0 {
		script = s.defaultClusterScript()
	}
	c := &cluster{
		info: dataeng.Cluster{
			ClusterName:     req.ClusterName,
			CRN:             "crn:dataeng:cluster:" + uuid.NewString(),
			Status:          script[0],
			ServiceType:     req.ServiceType,
			CdhVersion:      req.CdhVersion,
			InstanceType:    req.InstanceType,
			WorkersGroup:    req.WorkersGroupSize,
			EnvironmentName: req.EnvironmentName,
			CreationDate:    s.clock.Now(),
		},
		script:   script,
		autoTerm: req.AutomaticTerminationCondition != nil && *req.AutomaticTerminationCondition == dataeng.TerminateEmptyJobQueue,
	}
	if _, exists := s.clusters[req.ClusterName]; !exists {
		s.order = append(s.order, req.ClusterName)
	}
	s.clusters[req.ClusterName] = c

	for _, jr := range req.Jobs {
		if _, err := s.addJob(c, jr); err != nil {
			return nil, err
		}
	}

	info := c.info
	return &dataeng.CreateAWSClusterResponse{Cluster: &info}, nil
}

// addJob registers a queued job on c. Callers hold s.mu.
func (s *Service) addJob(c *cluster, jr dataeng.JobRequest) (dataeng.JobSummary, error) {
	jt := jr.Type()
	if jt == "" {
		return dataeng.JobSummary{}, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			"job must set exactly one of spark, hive or mapreduce", map[string]any{"job": jr.Name})
	}
	script, ok := s.jobScripts[jr.Name]
	if !ok || len(script) == 0 {
		script = s.defaultJobScript()
	}
	s.seq++
	j := &job{
		info: dataeng.Job{JobSummary: dataeng.JobSummary{
			JobID:        uuid.NewString(),
			JobName:      jr.Name,
			JobType:      jt,
			ClusterName:  c.info.ClusterName,
			Status:       dataeng.JobQueued,
			CreationDate: s.clock.Now(),
		}},
		script: script,
		seq:    s.seq,
	}
	s.jobs[j.info.JobID] = j
	c.jobs = append(c.jobs, j.info.JobID)
	return j.info.JobSummary, nil
}

// DescribeCluster implements dataeng.Client. Each call advances the cluster
// one step through its script.
func (s *Service) DescribeCluster(ctx context.Context, req *dataeng.DescribeClusterRequest) (*dataeng.DescribeClusterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "describeCluster"); err != nil {
		return nil, err
	}
	c, err := s.lookupCluster(req)
	if err != nil {
		return nil, err
	}

	if c.terminated == nil && c.autoTerm && c.info.Status == dataeng.ClusterCreated && s.jobsDone(c) {
		c.terminated = s.teardownScript()
		c.describes = 0
	}

	script := c.script
	if c.terminated != nil {
		script = c.terminated
	}
	c.info.Status = script[min(c.describes, len(script)-1)]
	c.describes++

	info := c.info
	return &dataeng.DescribeClusterResponse{Cluster: &info}, nil
}

func (s *Service) lookupCluster(req *dataeng.DescribeClusterRequest) (*cluster, error) {
	if req == nil || req.ClusterName == "" {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name is required")
	}
	c, ok := s.clusters[req.ClusterName]
	if !ok {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeNotFound,
			"cluster not found", map[string]any{"cluster": req.ClusterName})
	}
	return c, nil
}

// jobsDone reports whether c had jobs and all of them are terminal.
func (s *Service) jobsDone(c *cluster) bool {
	if len(c.jobs) == 0 {
		return false
	}
	policy := dataeng.JobCompletionPolicy()
	for _, id := range c.jobs {
		if !policy.IsTerminal(s.jobs[id].info.Status) {
			return false
		}
	}
	return true
}

// DeleteCluster implements dataeng.Client. The cluster reports TERMINATING
// and then TERMINATED on subsequent describes.
func (s *Service) DeleteCluster(ctx context.Context, req *dataeng.DeleteClusterRequest) (*dataeng.DeleteClusterResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "deleteCluster"); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name is required")
	}
	c, err := s.lookupCluster(&dataeng.DescribeClusterRequest{ClusterName: req.ClusterName})
	if err != nil {
		return nil, err
	}
	if c.terminated == nil {
		c.terminated = s.teardownScript()
		c.describes = 0
		c.info.Status = dataeng.ClusterTerminating
	}
	return &dataeng.DeleteClusterResponse{StatusCode: http.StatusOK}, nil
}

// ListClusters implements dataeng.Client. Clusters are listed in creation order.
func (s *Service) ListClusters(ctx context.Context, _ *dataeng.ListClustersRequest) (*dataeng.ListClustersResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "listClusters"); err != nil {
		return nil, err
	}
	out := make([]dataeng.Cluster, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.clusters[name].info)
	}
	return &dataeng.ListClustersResponse{Clusters: out}, nil
}

// SubmitJobs implements dataeng.Client.
func (s *Service) SubmitJobs(ctx context.Context, req *dataeng.SubmitJobsRequest) (*dataeng.SubmitJobsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "submitJobs"); err != nil {
		return nil, err
	}
	if req == nil || len(req.Jobs) == 0 {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "at least one job is required")
	}
	c, err := s.lookupCluster(&dataeng.DescribeClusterRequest{ClusterName: req.ClusterName})
	if err != nil {
		return nil, err
	}
	if c.terminated != nil || c.info.Status == dataeng.ClusterFailed {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("cluster is %s", c.info.Status), map[string]any{"cluster": req.ClusterName})
	}

	out := make([]dataeng.JobSummary, 0, len(req.Jobs))
	for _, jr := range req.Jobs {
		js, err := s.addJob(c, jr)
		if err != nil {
			return nil, err
		}
		out = append(out, js)
	}
	return &dataeng.SubmitJobsResponse{Jobs: out}, nil
}

// DescribeJob implements dataeng.Client. A job stays QUEUED until its
// cluster is CREATED; after that each call advances it one script step.
func (s *Service) DescribeJob(ctx context.Context, req *dataeng.DescribeJobRequest) (*dataeng.DescribeJobResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "describeJob"); err != nil {
		return nil, err
	}
	if req == nil || req.JobID == "" {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "job id is required")
	}
	j, ok := s.jobs[req.JobID]
	if !ok {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeNotFound,
			"job not found", map[string]any{"jobId": req.JobID})
	}

	if c := s.clusters[j.info.ClusterName]; c != nil && c.info.Status == dataeng.ClusterCreated {
		j.info.Status = j.script[min(j.describes, len(j.script)-1)]
		j.describes++
	}

	info := j.info
	return &dataeng.DescribeJobResponse{Job: &info}, nil
}

// ListJobs implements dataeng.Client.
func (s *Service) ListJobs(ctx context.Context, req *dataeng.ListJobsRequest) (*dataeng.ListJobsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "listJobs"); err != nil {
		return nil, err
	}

	matched := make([]*job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if req != nil && req.ClusterName != nil && *req.ClusterName != j.info.ClusterName {
			continue
		}
		matched = append(matched, j)
	}
	newestFirst := req != nil && req.SortOrder == dataeng.NewestToOldest
	slices.SortFunc(matched, func(a, b *job) int {
		if newestFirst {
			return b.seq - a.seq
		}
		return a.seq - b.seq
	})

	out := make([]dataeng.JobSummary, 0, len(matched))
	for _, j := range matched {
		out = append(out, j.info.JobSummary)
	}
	return &dataeng.ListJobsResponse{Jobs: out}, nil
}
