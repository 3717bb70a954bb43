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
	"strings"
	"time"

	"k8s.io/utils/clock"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/header"
)

// Workflow names used in reports.
const (
	WorkflowAllInOne = "all-in-one"
	workflowPrefix   = "sample-"
)

// Workload selects a sample workflow.
type Workload struct {
	// Type is the sample job to run.
	Type dataeng.JobType

	// ClusterName defaults to the sample cluster name for Type.
	ClusterName string

	// ServiceType defaults to the sample service type for Type.
	ServiceType dataeng.ServiceType

	// Delete tears the cluster down once the workflow ends, whatever its result.
	Delete bool
}

// DefaultWorkload returns the sample workload for t.
func DefaultWorkload(t dataeng.JobType) Workload {
	w := Workload{Type: t}
	switch t {
	case dataeng.JobTypeSpark:
		w.ClusterName, w.ServiceType = SparkClusterName, dataeng.ServiceSpark
	case dataeng.JobTypeHive:
		w.ClusterName, w.ServiceType = HiveClusterName, dataeng.ServiceHiveSpark
	case dataeng.JobTypeMapReduce:
		w.ClusterName, w.ServiceType = MapReduceClusterName, dataeng.ServiceMapReduce
	}
	return w
}

func (w Workload) withDefaults() Workload {
	d := DefaultWorkload(w.Type)
	if w.ClusterName == "" {
		w.ClusterName = d.ClusterName
	}
	if w.ServiceType == "" {
		w.ServiceType = d.ServiceType
	}
	return w
}

func (r *Runner) now() time.Time {
	if r.Clock == nil {
		return clock.RealClock{}.Now()
	}
	return r.Clock.Now()
}

func (r *Runner) newReport(workflow, clusterName string) *Report {
	now := r.now()
	return &Report{
		Header: header.New(
			header.WithKind(header.KindWorkflowReport),
			header.WithMetadata(header.MetadataWorkflow, workflow),
			header.WithMetadata(header.MetadataTimestamp, now.UTC().Format(time.RFC3339)),
		),
		Workflow:    workflow,
		ClusterName: clusterName,
		StartedAt:   now,
	}
}

// RunWorkload creates the workload's cluster, submits the sample job once the
// cluster is CREATED and waits for the job. With Delete set the cluster is
// deleted at the end, also after a failure or cancellation.
//
// A cluster or job that ends in a failure status is reported through
// Report.Succeeded with a nil error.
func (r *Runner) RunWorkload(ctx context.Context, w Workload) (*Report, error) {
	w = w.withDefaults()
	rep := r.newReport(workflowPrefix+strings.ToLower(string(w.Type)), w.ClusterName)

	created, err := r.runWorkload(ctx, w, rep)
	if created && w.Delete {
		if derr := r.cleanup(ctx, rep); err == nil {
			err = derr
		}
	}
	return rep.finish(r.now(), err)
}

// SampleJob returns the sample job of type t writing to the configured
// output location. Jobs that write output require jobs.outputLocation.
func (r *Runner) SampleJob(t dataeng.JobType) (dataeng.JobRequest, error) {
	var output string
	if needsOutput(t) {
		if err := r.Config.ValidateJobs(); err != nil {
			return dataeng.JobRequest{}, err
		}
		output = r.Config.Jobs.OutputLocation
	}
	job, err := SampleJob(t, output)
	if err != nil {
		return dataeng.JobRequest{}, dataerrors.Wrap(dataerrors.ErrCodeInvalidRequest, "unsupported workload", err)
	}
	return job, nil
}

// runWorkload reports whether a cluster was created, so the caller knows
// whether there is anything to clean up.
func (r *Runner) runWorkload(ctx context.Context, w Workload, rep *Report) (bool, error) {
	job, err := r.SampleJob(w.Type)
	if err != nil {
		return false, err
	}
	rep.JobName = job.Name

	req, err := r.ClusterRequest(w.ClusterName, w.ServiceType)
	if err != nil {
		return false, err
	}
	if _, err := r.StartCluster(ctx, req); err != nil {
		return false, err
	}

	out, err := r.WaitForCluster(ctx, w.ClusterName)
	rep.Cluster = &out
	if err != nil {
		return true, err
	}
	if !out.Succeeded {
		r.logger().Error("cluster was not created as expected",
			"cluster", w.ClusterName, "status", out.Status.String())
		return true, nil
	}

	id, err := r.SubmitJob(ctx, w.ClusterName, job)
	if err != nil {
		return true, err
	}
	rep.JobID = id

	jout, err := r.WaitForJob(ctx, id)
	rep.Job = &jout
	return true, err
}

// cleanup deletes the report's cluster. When ctx is already done the delete
// is only requested, on a detached context bounded by defaults.CleanupTimeout.
// A cluster that was already FAILED is not waited on either: FAILED ends a
// deletion poll, so the wait would stop at its first fetch.
func (r *Runner) cleanup(ctx context.Context, rep *Report) error {
	d := &Deletion{}
	rep.Deletion = d

	failed := rep.Cluster != nil && rep.Cluster.Status == dataeng.ClusterFailed
	if ctx.Err() != nil || failed {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.CleanupTimeout)
		defer cancel()
		code, err := r.DeleteCluster(cctx, rep.ClusterName)
		d.HTTPStatus = code
		if err != nil {
			d.Error = err.Error()
		}
		return err
	}

	code, out, err := r.DeleteAndWait(ctx, rep.ClusterName)
	d.HTTPStatus = code
	if out.Attempts > 0 {
		d.Cluster = &out
	}
	if err != nil {
		d.Error = err.Error()
	}
	return err
}

// RunAllInOne creates a Spark cluster that carries the sample job in its
// creation request and terminates itself once the job queue is empty. After
// the cluster is CREATED the job is located by name and polled.
func (r *Runner) RunAllInOne(ctx context.Context, clusterName string) (*Report, error) {
	if clusterName == "" {
		clusterName = AllInOneClusterName
	}
	rep := r.newReport(WorkflowAllInOne, clusterName)
	rep.JobName = AllInOneJobName
	return rep.finish(r.now(), r.runAllInOne(ctx, rep))
}

func (r *Runner) runAllInOne(ctx context.Context, rep *Report) error {
	if err := r.Config.ValidateCluster(); err != nil {
		return err
	}
	if err := r.Config.ValidateJobs(); err != nil {
		return err
	}
	key, err := r.Config.SSHPublicKey()
	if err != nil {
		return err
	}

	req := r.baseRequest(rep.ClusterName, dataeng.ServiceSpark)
	req.PublicKey = key
	req.Jobs = []dataeng.JobRequest{AllInOneJob(r.Config.Jobs.OutputLocation)}
	req.AutomaticTerminationCondition = ptr.To(dataeng.TerminateEmptyJobQueue)

	if _, err := r.StartCluster(ctx, req); err != nil {
		return err
	}
	out, err := r.WaitForCluster(ctx, rep.ClusterName)
	rep.Cluster = &out
	if err != nil {
		return err
	}
	if !out.Succeeded {
		r.logger().Error("unable to create cluster",
			"cluster", rep.ClusterName, "status", out.Status.String())
		return nil
	}
	r.logger().Info("cluster created", "cluster", rep.ClusterName)

	id, err := r.FindClusterJobID(ctx, rep.ClusterName, AllInOneJobName)
	if err != nil {
		return err
	}
	rep.JobID = id

	jout, err := r.WaitForJob(ctx, id)
	rep.Job = &jout
	return err
}
