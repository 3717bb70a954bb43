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

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
)

const containerName = "dataeng"

// ensureJob deletes any existing Job and creates a fresh one.
func (d *Deployer) ensureJob(ctx context.Context) error {
	propagationPolicy := metav1.DeletePropagationForeground
	err := d.clientset.BatchV1().Jobs(d.config.Namespace).Delete(
		ctx,
		d.config.JobName,
		metav1.DeleteOptions{
			PropagationPolicy: &propagationPolicy,
		},
	)
	if ignoreNotFound(err) != nil {
		return fmt.Errorf("failed to delete existing Job: %w", err)
	}

	if err == nil {
		if waitErr := d.waitForJobDeletion(ctx); waitErr != nil {
			return fmt.Errorf("timeout waiting for Job deletion: %w", waitErr)
		}
	}

	_, err = d.clientset.BatchV1().Jobs(d.config.Namespace).
		Create(ctx, d.buildJob(), metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Job: %w", err)
	}

	return nil
}

// args builds the dataeng command line: output and logging flags first, then
// the configured command.
func (d *Deployer) args() []string {
	logLevel := d.config.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	args := []string{
		"--log-level", logLevel,
		"--format", string(serializer.FormatYAML),
		"--output", d.config.Output,
	}
	if d.config.ConfigURI != "" {
		args = append(args, "--config", d.config.ConfigURI)
	}
	return append(args, d.config.Args...)
}

// buildJob constructs the Job specification. The agent only talks to the
// data engineering service and the Kubernetes API, so the pod runs
// unprivileged.
func (d *Deployer) buildJob() *batchv1.Job {
	var envFrom []corev1.EnvFromSource
	if d.config.CredentialsSecret != "" {
		envFrom = []corev1.EnvFromSource{{
			SecretRef: &corev1.SecretEnvSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: d.config.CredentialsSecret},
			},
		}}
	}

	return &batchv1.Job{
		ObjectMeta: d.objectMeta(d.config.JobName),
		Spec: batchv1.JobSpec{
			Completions:             ptr.To(int32(1)),
			Parallelism:             ptr.To(int32(1)),
			CompletionMode:          ptr.To(batchv1.NonIndexedCompletion),
			BackoffLimit:            ptr.To(int32(0)),
			TTLSecondsAfterFinished: ptr.To(int32(3600)),
			ActiveDeadlineSeconds:   ptr.To(int64(d.config.ActiveDeadline.Seconds())),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: d.labels(),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: d.config.ServiceAccountName,
					RestartPolicy:      corev1.RestartPolicyNever,
					NodeSelector:       d.config.NodeSelector,
					Tolerations:        d.config.Tolerations,
					ImagePullSecrets:   toLocalObjectReferences(d.config.ImagePullSecrets),
					SecurityContext: &corev1.PodSecurityContext{
						RunAsNonRoot: ptr.To(true),
						SeccompProfile: &corev1.SeccompProfile{
							Type: corev1.SeccompProfileTypeRuntimeDefault,
						},
					},
					Containers: []corev1.Container{
						{
							Name:    containerName,
							Image:   d.config.Image,
							Command: []string{binary},
							Args:    d.args(),
							EnvFrom: envFrom,
							Resources: corev1.ResourceRequirements{
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    mustParseQuantity("100m"),
									corev1.ResourceMemory: mustParseQuantity("128Mi"),
								},
								Limits: corev1.ResourceList{
									corev1.ResourceCPU:    mustParseQuantity("500m"),
									corev1.ResourceMemory: mustParseQuantity("512Mi"),
								},
							},
							SecurityContext: &corev1.SecurityContext{
								AllowPrivilegeEscalation: ptr.To(false),
								ReadOnlyRootFilesystem:   ptr.To(true),
								Capabilities: &corev1.Capabilities{
									Drop: []corev1.Capability{"ALL"},
								},
							},
						},
					},
				},
			},
		},
	}
}

// deleteJob deletes the Job and its pods.
func (d *Deployer) deleteJob(ctx context.Context) error {
	propagationPolicy := metav1.DeletePropagationForeground
	err := d.clientset.BatchV1().Jobs(d.config.Namespace).Delete(
		ctx,
		d.config.JobName,
		metav1.DeleteOptions{
			PropagationPolicy: &propagationPolicy,
		},
	)
	return ignoreNotFound(err)
}

// waitForJobDeletion waits for the Job to be fully deleted.
func (d *Deployer) waitForJobDeletion(ctx context.Context) error {
	return wait.PollUntilContextTimeout(ctx, defaults.AgentJobDeletionPollInterval, defaults.AgentJobDeletionTimeout, true,
		func(ctx context.Context) (bool, error) {
			_, err := d.clientset.BatchV1().Jobs(d.config.Namespace).
				Get(ctx, d.config.JobName, metav1.GetOptions{})
			if err == nil {
				return false, nil
			}
			if ignoreNotFound(err) == nil {
				return true, nil
			}
			return false, err
		},
	)
}

func mustParseQuantity(s string) resource.Quantity {
	return resource.MustParse(s)
}

// toLocalObjectReferences converts a slice of secret names to LocalObjectReferences.
func toLocalObjectReferences(names []string) []corev1.LocalObjectReference {
	if len(names) == 0 {
		return nil
	}
	refs := make([]corev1.LocalObjectReference, len(names))
	for i, name := range names {
		refs[i] = corev1.LocalObjectReference{Name: name}
	}
	return refs
}
