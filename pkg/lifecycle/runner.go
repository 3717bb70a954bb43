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

package lifecycle

import (
	"context"
	"log/slog"

	"golang.org/x/text/cases"
	"k8s.io/utils/clock"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/config"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

// listJobsPageSize bounds each ListJobs page while searching for a job by name.
const listJobsPageSize = 100

// Runner runs lifecycle operations against a data-engineering service.
type Runner struct {
	// Client is the service API.
	Client dataeng.Client

	// Config supplies cluster parameters, SSH keys and the job output location.
	Config *config.Config

	// Clock drives poll intervals. If nil, the real clock is used.
	Clock clock.Clock

	// ClusterObserver and JobObserver receive poll progress after it is
	// logged through Logger.
	ClusterObserver poll.Observer[dataeng.ClusterStatus]
	JobObserver     poll.Observer[dataeng.JobStatus]

	// Policies replace the default poll policies when set.
	ClusterPolicy  *poll.Policy[dataeng.ClusterStatus]
	DeletionPolicy *poll.Policy[dataeng.ClusterStatus]
	JobPolicy      *poll.Policy[dataeng.JobStatus]

	// Logger is used for workflow messages. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used by every poll.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) {
		r.Clock = c
	}
}

// WithClusterObserver sets the observer for cluster polls.
func WithClusterObserver(o poll.Observer[dataeng.ClusterStatus]) Option {
	return func(r *Runner) {
		r.ClusterObserver = o
	}
}

// WithJobObserver sets the observer for job polls.
func WithJobObserver(o poll.Observer[dataeng.JobStatus]) Option {
	return func(r *Runner) {
		r.JobObserver = o
	}
}

// WithClusterPolicy replaces the cluster creation poll policy.
func WithClusterPolicy(p poll.Policy[dataeng.ClusterStatus]) Option {
	return func(r *Runner) {
		r.ClusterPolicy = &p
	}
}

// WithDeletionPolicy replaces the cluster deletion poll policy.
func WithDeletionPolicy(p poll.Policy[dataeng.ClusterStatus]) Option {
	return func(r *Runner) {
		r.DeletionPolicy = &p
	}
}

// WithJobPolicy replaces the job completion poll policy.
func WithJobPolicy(p poll.Policy[dataeng.JobStatus]) Option {
	return func(r *Runner) {
		r.JobPolicy = &p
	}
}

// WithLogger sets the workflow logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = l
	}
}

// New returns a Runner for client. A nil cfg uses config.Default().
func New(client dataeng.Client, cfg *config.Config, opts ...Option) (*Runner, error) {
	if client == nil {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "dataeng client is required")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Runner{Client: client, Config: cfg}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) clusterPoller(p *poll.Policy[dataeng.ClusterStatus], def func() poll.Policy[dataeng.ClusterStatus]) *poll.Poller[dataeng.ClusterStatus] {
	policy := def()
	if p != nil {
		policy = *p
	}
	obs := poll.Observers[dataeng.ClusterStatus]{poll.LogObserver[dataeng.ClusterStatus]{Logger: r.Logger}}
	if r.ClusterObserver != nil {
		obs = append(obs, r.ClusterObserver)
	}
	opts := []poll.Option[dataeng.ClusterStatus]{poll.WithObserver(obs)}
	if r.Clock != nil {
		opts = append(opts, poll.WithClock[dataeng.ClusterStatus](r.Clock))
	}
	return poll.New(policy, opts...)
}

func (r *Runner) jobPoller() *poll.Poller[dataeng.JobStatus] {
	policy := dataeng.JobCompletionPolicy()
	if r.JobPolicy != nil {
		policy = *r.JobPolicy
	}
	obs := poll.Observers[dataeng.JobStatus]{poll.LogObserver[dataeng.JobStatus]{Logger: r.Logger}}
	if r.JobObserver != nil {
		obs = append(obs, r.JobObserver)
	}
	opts := []poll.Option[dataeng.JobStatus]{poll.WithObserver(obs)}
	if r.Clock != nil {
		opts = append(opts, poll.WithClock[dataeng.JobStatus](r.Clock))
	}
	return poll.New(policy, opts...)
}

// ClusterRequest builds a creation request for name from the configuration.
// The cluster is reachable with the configured SSH private key.
func (r *Runner) ClusterRequest(name string, service dataeng.ServiceType) (*dataeng.CreateAWSClusterRequest, error) {
	if name == "" {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name is required")
	}
	if service == "" {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "service type is required")
	}
	if err := r.Config.ValidateCluster(); err != nil {
		return nil, err
	}
	key, err := r.Config.SSHPrivateKey()
	if err != nil {
		return nil, err
	}
	req := r.baseRequest(name, service)
	req.SSHPrivateKey = key
	return req, nil
}

func (r *Runner) baseRequest(name string, service dataeng.ServiceType) *dataeng.CreateAWSClusterRequest {
	c := r.Config.AWSCluster
	return &dataeng.CreateAWSClusterRequest{
		ClusterName:      name,
		CdhVersion:       c.CdhVersion,
		ServiceType:      service,
		InstanceType:     c.InstanceType,
		WorkersGroupSize: c.WorkerSize,
		EnvironmentName:  c.EnvironmentName,
		ClouderaManagerCredentials: dataeng.ClouderaManagerCredentials{
			Username: c.CMUsername,
			Password: c.CMPassword,
		},
	}
}

// CreateAWSCluster creates a cluster and waits until it is CREATED or has
// failed. A cluster that fails is a normal return with Succeeded == false.
func (r *Runner) CreateAWSCluster(ctx context.Context, name string, service dataeng.ServiceType) (poll.Outcome[dataeng.ClusterStatus], error) {
	req, err := r.ClusterRequest(name, service)
	if err != nil {
		return poll.Outcome[dataeng.ClusterStatus]{Target: name, Kind: dataeng.KindCluster}, err
	}
	return r.createAndWait(ctx, req)
}

// StartCluster submits a creation request without waiting.
func (r *Runner) StartCluster(ctx context.Context, req *dataeng.CreateAWSClusterRequest) (*dataeng.Cluster, error) {
	resp, err := r.Client.CreateAWSCluster(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Cluster == nil {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
			"create cluster returned no cluster", map[string]any{"cluster": req.ClusterName})
	}
	r.logger().Info("cluster creation requested",
		"cluster", resp.Cluster.ClusterName,
		"crn", resp.Cluster.CRN,
		"serviceType", string(req.ServiceType),
		"jobs", len(req.Jobs))
	return resp.Cluster, nil
}

func (r *Runner) createAndWait(ctx context.Context, req *dataeng.CreateAWSClusterRequest) (poll.Outcome[dataeng.ClusterStatus], error) {
	if _, err := r.StartCluster(ctx, req); err != nil {
		return poll.Outcome[dataeng.ClusterStatus]{Target: req.ClusterName, Kind: dataeng.KindCluster}, err
	}
	out, err := r.WaitForCluster(ctx, req.ClusterName)
	if err == nil && !out.Succeeded {
		r.logger().Error("unable to create cluster",
			"cluster", req.ClusterName,
			"status", out.Status.String())
	}
	return out, err
}

// WaitForCluster polls the named cluster with the creation policy.
func (r *Runner) WaitForCluster(ctx context.Context, name string) (poll.Outcome[dataeng.ClusterStatus], error) {
	p := r.clusterPoller(r.ClusterPolicy, dataeng.ClusterCreationPolicy)
	return p.Poll(ctx, name, dataeng.ClusterStatusFetcher(r.Client, name))
}

// WaitForClusters polls several clusters concurrently. The first error
// cancels the remaining polls. Duplicate names are polled once.
func (r *Runner) WaitForClusters(ctx context.Context, names []string) (map[string]poll.Outcome[dataeng.ClusterStatus], error) {
	if len(names) == 0 {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "at least one cluster name is required")
	}
	targets := make(map[string]poll.FetchFunc[dataeng.ClusterStatus], len(names))
	for _, n := range names {
		if n == "" {
			return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name cannot be empty")
		}
		targets[n] = dataeng.ClusterStatusFetcher(r.Client, n)
	}
	p := r.clusterPoller(r.ClusterPolicy, dataeng.ClusterCreationPolicy)
	return p.PollAll(ctx, targets)
}

// DeleteCluster requests deletion of the named cluster and returns the
// service's HTTP status code.
func (r *Runner) DeleteCluster(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name is required")
	}
	resp, err := r.Client.DeleteCluster(ctx, &dataeng.DeleteClusterRequest{ClusterName: name})
	if err != nil {
		return 0, err
	}
	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	r.logger().Info("cluster deletion requested", "cluster", name, "httpStatus", code)
	return code, nil
}

// DeleteAndWait deletes the named cluster and polls it until it is gone.
func (r *Runner) DeleteAndWait(ctx context.Context, name string) (int, poll.Outcome[dataeng.ClusterStatus], error) {
	code, err := r.DeleteCluster(ctx, name)
	if err != nil {
		return code, poll.Outcome[dataeng.ClusterStatus]{Target: name, Kind: dataeng.KindCluster}, err
	}
	p := r.clusterPoller(r.DeletionPolicy, dataeng.ClusterDeletionPolicy)
	out, err := p.Poll(ctx, name, dataeng.ClusterStatusFetcher(r.Client, name))
	return code, out, err
}

// DescribeCluster returns the named cluster.
func (r *Runner) DescribeCluster(ctx context.Context, name string) (*dataeng.Cluster, error) {
	resp, err := r.Client.DescribeCluster(ctx, &dataeng.DescribeClusterRequest{ClusterName: name})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Cluster == nil {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
			"describe cluster returned no cluster", map[string]any{"cluster": name})
	}
	return resp.Cluster, nil
}

// ListClusters returns every cluster, following page tokens.
func (r *Runner) ListClusters(ctx context.Context) ([]dataeng.Cluster, error) {
	var (
		all   []dataeng.Cluster
		token *string
	)
	for {
		resp, err := r.Client.ListClusters(ctx, &dataeng.ListClustersRequest{PageToken: token})
		if err != nil {
			return nil, err
		}
		if resp == nil {
			break
		}
		all = append(all, resp.Clusters...)
		if resp.NextPageToken == "" {
			break
		}
		token = ptr.To(resp.NextPageToken)
	}
	r.logger().Info("listed clusters", "count", len(all))
	return all, nil
}

// SubmitJob submits one job to an existing cluster and returns its id.
func (r *Runner) SubmitJob(ctx context.Context, clusterName string, job dataeng.JobRequest) (string, error) {
	if clusterName == "" {
		return "", dataerrors.New(dataerrors.ErrCodeInvalidRequest, "cluster name is required")
	}
	resp, err := r.Client.SubmitJobs(ctx, &dataeng.SubmitJobsRequest{
		ClusterName: clusterName,
		Jobs:        []dataeng.JobRequest{job},
	})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Jobs) != 1 {
		return "", dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
			"submit jobs returned an unexpected number of jobs",
			map[string]any{"cluster": clusterName, "job": job.Name})
	}
	id := resp.Jobs[0].JobID
	r.logger().Info("job submitted", "cluster", clusterName, "job", job.Name, "jobId", id)
	return id, nil
}

// WaitForJob polls the job until it completes or stops.
func (r *Runner) WaitForJob(ctx context.Context, jobID string) (poll.Outcome[dataeng.JobStatus], error) {
	if jobID == "" {
		return poll.Outcome[dataeng.JobStatus]{Kind: dataeng.KindJob},
			dataerrors.New(dataerrors.ErrCodeInvalidRequest, "job id is required")
	}
	return r.jobPoller().Poll(ctx, jobID, dataeng.JobStatusFetcher(r.Client, jobID))
}

// ListJobs returns the jobs of clusterName, or of every cluster when it is
// empty, in the given order.
func (r *Runner) ListJobs(ctx context.Context, clusterName string, order dataeng.ListOrder) ([]dataeng.JobSummary, error) {
	var all []dataeng.JobSummary
	err := r.eachJob(ctx, clusterName, order, func(js dataeng.JobSummary) bool {
		all = append(all, js)
		return true
	})
	return all, err
}

// FindJobID returns the id of the newest job named jobName. Names match
// case-insensitively. A missing job is a NOT_FOUND error.
func (r *Runner) FindJobID(ctx context.Context, jobName string) (string, error) {
	return r.FindClusterJobID(ctx, "", jobName)
}

// FindClusterJobID is FindJobID restricted to one cluster. An empty
// clusterName searches every cluster.
func (r *Runner) FindClusterJobID(ctx context.Context, clusterName, jobName string) (string, error) {
	if jobName == "" {
		return "", dataerrors.New(dataerrors.ErrCodeInvalidRequest, "job name is required")
	}
	fold := cases.Fold()
	want := fold.String(jobName)

	var id string
	err := r.eachJob(ctx, clusterName, dataeng.NewestToOldest, func(js dataeng.JobSummary) bool {
		if fold.String(js.JobName) == want {
			id = js.JobID
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if id == "" {
		r.logger().Info("unable to locate job", "job", jobName, "cluster", clusterName)
		return "", dataerrors.NewWithContext(dataerrors.ErrCodeNotFound,
			"job not found", map[string]any{"job": jobName, "cluster": clusterName})
	}
	return id, nil
}

// eachJob pages through ListJobs until fn returns false.
func (r *Runner) eachJob(ctx context.Context, clusterName string, order dataeng.ListOrder, fn func(dataeng.JobSummary) bool) error {
	req := &dataeng.ListJobsRequest{
		SortOrder: order,
		PageSize:  ptr.To(listJobsPageSize),
	}
	if clusterName != "" {
		req.ClusterName = ptr.To(clusterName)
	}
	for {
		resp, err := r.Client.ListJobs(ctx, req)
		if err != nil {
			return err
		}
		if resp == nil {
			return nil
		}
		for _, js := range resp.Jobs {
			if !fn(js) {
				return nil
			}
		}
		if resp.NextPageToken == "" {
			return nil
		}
		req.PageToken = ptr.To(resp.NextPageToken)
	}
}
