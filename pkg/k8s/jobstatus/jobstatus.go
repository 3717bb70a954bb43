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

package jobstatus

import (
	"context"
	"fmt"
	"strings"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

// KindKubeJob labels Kubernetes Job polls in logs and metrics.
const KindKubeJob = "kube-job"

// Ref identifies a Kubernetes Job.
type Ref struct {
	Namespace string
	Name      string
}

// String returns namespace/name.
func (r Ref) String() string {
	return r.Namespace + "/" + r.Name
}

// ParseRef parses "namespace/name". A bare name uses the default namespace.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	ns, name, found := strings.Cut(s, "/")
	if !found {
		ns, name = metav1.NamespaceDefault, s
	}
	if ns == "" || name == "" || strings.Contains(name, "/") {
		return Ref{}, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid job reference %q, expected namespace/name", s), nil)
	}
	return Ref{Namespace: ns, Name: name}, nil
}

// Policy is the job completion policy at the Kubernetes Job cadence.
func Policy() poll.Policy[dataeng.JobStatus] {
	p := dataeng.JobCompletionPolicy()
	p.Kind = KindKubeJob
	p.Interval = defaults.KubeJobPollInterval
	return p
}

// Status maps a batch/v1 Job onto a job status.
//
//	Complete=True                       COMPLETED
//	Failed=True                         FAILED
//	FailureTarget=True or being deleted TERMINATING
//	Suspended=True                      QUEUED
//	active or ready pods                RUNNING
//	started, no pods yet                SUBMITTING
//	not started                         QUEUED
func Status(job *batchv1.Job) dataeng.JobStatus {
	if job == nil {
		return dataeng.JobUnknown
	}

	var failureTarget, suspended bool
	for _, c := range job.Status.Conditions {
		if c.Status != corev1.ConditionTrue {
			continue
		}
		switch c.Type {
		case batchv1.JobComplete:
			return dataeng.JobCompleted
		case batchv1.JobFailed:
			return dataeng.JobFailed
		case batchv1.JobFailureTarget:
			failureTarget = true
		case batchv1.JobSuspended:
			suspended = true
		}
	}

	switch {
	case failureTarget, job.DeletionTimestamp != nil:
		return dataeng.JobTerminating
	case suspended:
		return dataeng.JobQueued
	case job.Status.Active > 0 || (job.Status.Ready != nil && *job.Status.Ready > 0):
		return dataeng.JobRunning
	case job.Status.StartTime != nil:
		return dataeng.JobSubmitting
	default:
		return dataeng.JobQueued
	}
}

// Fetcher returns a poll fetch function that reads the Job and maps its status.
// A missing Job is a NOT_FOUND error.
func Fetcher(kc client.Interface, ref Ref) poll.FetchFunc[dataeng.JobStatus] {
	return func(ctx context.Context) (dataeng.JobStatus, error) {
		job, err := kc.BatchV1().Jobs(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
		if err != nil {
			code := dataerrors.ErrCodeInternal
			switch {
			case apierrors.IsNotFound(err):
				code = dataerrors.ErrCodeNotFound
			case apierrors.IsUnauthorized(err), apierrors.IsForbidden(err):
				code = dataerrors.ErrCodeUnauthorized
			case apierrors.IsTooManyRequests(err):
				code = dataerrors.ErrCodeRateLimitExceeded
			case apierrors.IsServiceUnavailable(err):
				code = dataerrors.ErrCodeUnavailable
			}
			return "", dataerrors.WrapWithContext(code, "failed to get job", err,
				map[string]any{"job": ref.String()})
		}
		return Status(job), nil
	}
}
