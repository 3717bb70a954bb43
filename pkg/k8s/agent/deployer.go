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

package agent

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/jobstatus"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
)

// Deploy deploys the agent with all required resources.
// RBAC resources are reused if they exist; the Job is always recreated.
func (d *Deployer) Deploy(ctx context.Context) error {
	if err := d.config.Validate(); err != nil {
		return err
	}

	if _, err := d.CheckPermissions(ctx); err != nil {
		return dataerrors.Wrap(dataerrors.ErrCodeUnauthorized, "insufficient permissions to deploy agent", err)
	}

	if err := d.ensureServiceAccount(ctx); err != nil {
		return fmt.Errorf("failed to create ServiceAccount: %w", err)
	}

	if err := d.ensureRole(ctx); err != nil {
		return fmt.Errorf("failed to create Role: %w", err)
	}

	if err := d.ensureRoleBinding(ctx); err != nil {
		return fmt.Errorf("failed to create RoleBinding: %w", err)
	}

	if err := d.ensureJob(ctx); err != nil {
		return fmt.Errorf("failed to create Job: %w", err)
	}

	return nil
}

// Ref returns the reference of the agent Job.
func (d *Deployer) Ref() jobstatus.Ref {
	return jobstatus.Ref{Namespace: d.config.Namespace, Name: d.config.JobName}
}

// WaitForCompletion polls the agent Job until it reaches a terminal status
// under the given policy.
func (d *Deployer) WaitForCompletion(ctx context.Context, policy poll.Policy[dataeng.JobStatus],
	opts ...poll.Option[dataeng.JobStatus]) (poll.Outcome[dataeng.JobStatus], error) {
	ref := d.Ref()
	return poll.New(policy, opts...).Poll(ctx, ref.String(), jobstatus.Fetcher(d.clientset, ref))
}

// Result reads the value the agent wrote to its output ConfigMap.
func Result[T any](ctx context.Context, d *Deployer) (*T, error) {
	ns, name, err := serializer.ParseConfigMapURI(d.config.Output)
	if err != nil {
		return nil, dataerrors.Wrap(dataerrors.ErrCodeInvalidRequest, "invalid agent output", err)
	}
	return serializer.FromConfigMap[T](ctx, d.clientset, ns, name)
}

// Cleanup removes the agent Job and RBAC resources. The output ConfigMap is
// kept. Every resource is attempted; the errors are combined. If opts.Enabled
// is false, no cleanup is performed.
func (d *Deployer) Cleanup(ctx context.Context, opts CleanupOptions) error {
	if !opts.Enabled {
		return nil
	}

	var err error
	if e := d.deleteJob(ctx); e != nil {
		err = multierr.Append(err, fmt.Errorf("failed to delete Job: %w", e))
	}
	if e := d.deleteRoleBinding(ctx); e != nil {
		err = multierr.Append(err, fmt.Errorf("failed to delete RoleBinding: %w", e))
	}
	if e := d.deleteRole(ctx); e != nil {
		err = multierr.Append(err, fmt.Errorf("failed to delete Role: %w", e))
	}
	if e := d.deleteServiceAccount(ctx); e != nil {
		err = multierr.Append(err, fmt.Errorf("failed to delete ServiceAccount: %w", e))
	}
	return err
}

// ignoreAlreadyExists makes resource creation idempotent.
func ignoreAlreadyExists(err error) error {
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// ignoreNotFound makes resource deletion idempotent.
func ignoreNotFound(err error) error {
	if apierrors.IsNotFound(err) {
		return nil
	}
	return err
}
