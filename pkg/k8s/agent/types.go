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
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
)

// Defaults for the agent Job.
const (
	DefaultNamespace      = "dataeng"
	DefaultName           = "dataeng-agent"
	DefaultImage          = "ghcr.io/nvidia/dataeng:latest"
	DefaultActiveDeadline = 6 * time.Hour

	// binary is the dataeng entrypoint in the agent image.
	binary = "/ko-app/dataeng"

	labelName     = "app.kubernetes.io/name"
	labelInstance = "app.kubernetes.io/instance"
	appName       = "dataeng-agent"
)

// Config holds the configuration for deploying the agent.
type Config struct {
	Namespace          string
	ServiceAccountName string
	JobName            string
	Image              string
	ImagePullSecrets   []string
	NodeSelector       map[string]string
	Tolerations        []corev1.Toleration

	// Args is the dataeng command run by the Job, e.g. ["run", "--type", "spark"].
	Args []string

	// ConfigURI is passed to the Job as --config. A cm:// URI must name a
	// ConfigMap in Namespace.
	ConfigURI string

	// CredentialsSecret names a Secret in Namespace whose keys become the
	// container's environment, e.g. DATAENG_API_KEY.
	CredentialsSecret string

	// Output is the cm://namespace/name URI the Job writes its result to.
	Output string

	// LogLevel is passed to the Job as --log-level.
	LogLevel string

	// ActiveDeadline bounds the Job run time. Zero uses DefaultActiveDeadline.
	ActiveDeadline time.Duration
}

// Validate checks the configuration is deployable.
func (c Config) Validate() error {
	missing := func(field string) error {
		return dataerrors.New(dataerrors.ErrCodeInvalidRequest, fmt.Sprintf("agent %s is required", field))
	}
	switch {
	case c.Namespace == "":
		return missing("namespace")
	case c.JobName == "":
		return missing("job name")
	case c.ServiceAccountName == "":
		return missing("service account name")
	case c.Image == "":
		return missing("image")
	case len(c.Args) == 0:
		return missing("command")
	}
	ns, _, err := serializer.ParseConfigMapURI(c.Output)
	if err != nil {
		return dataerrors.Wrap(dataerrors.ErrCodeInvalidRequest, "invalid agent output", err)
	}
	if ns != c.Namespace {
		return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			"agent output ConfigMap must be in the agent namespace",
			map[string]any{"output": c.Output, "namespace": c.Namespace})
	}
	return nil
}

// Deployer manages the deployment and lifecycle of the agent Job.
type Deployer struct {
	clientset client.Interface
	config    Config
}

// NewDeployer creates a new agent Deployer with the given configuration.
func NewDeployer(clientset client.Interface, config Config) *Deployer {
	if config.ActiveDeadline == 0 {
		config.ActiveDeadline = DefaultActiveDeadline
	}
	return &Deployer{
		clientset: clientset,
		config:    config,
	}
}

// CleanupOptions controls what resources to remove during cleanup.
type CleanupOptions struct {
	Enabled bool // If true, removes Job and all RBAC resources
}

// DefaultOutput returns the ConfigMap URI used when no output is set.
func DefaultOutput(namespace string) string {
	return fmt.Sprintf("%s%s/%s-report", serializer.ConfigMapURIScheme, namespace, DefaultName)
}

// ParseNodeSelectors parses node selector strings in format "key=value".
func ParseNodeSelectors(selectors []string) (map[string]string, error) {
	result := make(map[string]string, len(selectors))
	for _, s := range selectors {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid node selector %q, expected key=value", s), nil)
		}
		result[k] = v
	}
	return result, nil
}

// ParseTolerations parses toleration strings in format "key=value:effect" or
// "key:effect". A toleration without a value uses the Exists operator.
func ParseTolerations(tolerations []string) ([]corev1.Toleration, error) {
	result := make([]corev1.Toleration, 0, len(tolerations))
	for _, t := range tolerations {
		kv, effect, ok := strings.Cut(t, ":")
		if !ok || kv == "" || strings.Contains(effect, ":") {
			return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid toleration %q, expected key=value:effect or key:effect", t), nil)
		}

		tol := corev1.Toleration{Effect: corev1.TaintEffect(effect), Operator: corev1.TolerationOpExists}
		if key, value, hasValue := strings.Cut(kv, "="); hasValue {
			tol.Key, tol.Value, tol.Operator = key, value, corev1.TolerationOpEqual
		} else {
			tol.Key = kv
		}
		result = append(result, tol)
	}
	return result, nil
}
