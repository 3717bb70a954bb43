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
	"fmt"
	"time"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/header"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

// Report summarizes one workflow run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Workflow    string                               `json:"workflow" yaml:"workflow"`
	ClusterName string                               `json:"clusterName" yaml:"clusterName"`
	JobName     string                               `json:"jobName,omitempty" yaml:"jobName,omitempty"`
	JobID       string                               `json:"jobId,omitempty" yaml:"jobId,omitempty"`
	Cluster     *poll.Outcome[dataeng.ClusterStatus] `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Job         *poll.Outcome[dataeng.JobStatus]     `json:"job,omitempty" yaml:"job,omitempty"`
	Deletion    *Deletion                            `json:"deletion,omitempty" yaml:"deletion,omitempty"`
	Succeeded   bool                                 `json:"succeeded" yaml:"succeeded"`
	Error       string                               `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   time.Time                            `json:"startedAt" yaml:"startedAt"`
	FinishedAt  time.Time                            `json:"finishedAt" yaml:"finishedAt"`
}

// Deletion records the teardown of a workflow cluster.
type Deletion struct {
	HTTPStatus int                                  `json:"httpStatus,omitempty" yaml:"httpStatus,omitempty"`
	Cluster    *poll.Outcome[dataeng.ClusterStatus] `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Error      string                               `json:"error,omitempty" yaml:"error,omitempty"`
}

func (d *Deletion) succeeded() bool {
	return d.Error == "" && (d.Cluster == nil || d.Cluster.Succeeded)
}

// Err returns nil when the workflow succeeded, and otherwise a structured
// error naming the statuses the workflow ended with.
func (r *Report) Err() error {
	if r.Succeeded {
		return nil
	}
	ctx := map[string]any{"workflow": r.Workflow, "cluster": r.ClusterName}
	if r.Cluster != nil {
		ctx["clusterStatus"] = r.Cluster.Status.String()
	}
	if r.Job != nil {
		ctx["jobId"] = r.JobID
		ctx["jobStatus"] = r.Job.Status.String()
	}
	msg := fmt.Sprintf("%s workflow did not succeed", r.Workflow)
	if r.Error != "" {
		msg = fmt.Sprintf("%s: %s", msg, r.Error)
	}
	return dataerrors.NewWithContext(dataerrors.ErrCodeInternal, msg, ctx)
}

func (r *Report) finish(now time.Time, err error) (*Report, error) {
	r.FinishedAt = now
	if err != nil {
		r.Error = err.Error()
	}
	r.Succeeded = err == nil &&
		r.Cluster != nil && r.Cluster.Succeeded &&
		r.Job != nil && r.Job.Succeeded &&
		(r.Deletion == nil || r.Deletion.succeeded())
	return r, err
}
