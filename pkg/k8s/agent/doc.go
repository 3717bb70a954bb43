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

/*
Package agent runs dataeng commands inside a Kubernetes cluster.

The agent deploys a Kubernetes Job that runs the dataeng CLI, typically
"dataeng run", with the report written to a ConfigMap. The caller polls the
Job with the shared poller, then reads the report back from the ConfigMap.

# Deployment Strategy

RBAC resources (ServiceAccount, Role, RoleBinding) are namespace scoped and
created idempotently: if they exist, they are reused. The Job is deleted and
recreated on each deployment. The pod runs unprivileged; its only
permissions are reading and applying ConfigMaps in the agent namespace.
Service credentials reach the pod through a Secret exposed as environment
variables, e.g. DATAENG_API_KEY.

# Usage Example

	clientset, _, err := client.GetKubeClient()
	if err != nil {
		return err
	}

	d := agent.NewDeployer(clientset, agent.Config{
		Namespace:          "dataeng",
		ServiceAccountName: agent.DefaultName,
		JobName:            agent.DefaultName,
		Image:              agent.DefaultImage,
		Args:               []string{"run", "--type", "spark", "--delete"},
		ConfigURI:          "cm://dataeng/dataeng-config",
		CredentialsSecret:  "dataeng-credentials",
		Output:             agent.DefaultOutput("dataeng"),
	})
	if err := d.Deploy(ctx); err != nil {
		return err
	}
	defer d.Cleanup(context.WithoutCancel(ctx), agent.CleanupOptions{Enabled: true})

	outcome, err := d.WaitForCompletion(ctx, jobstatus.Policy())
	if err != nil {
		return err
	}

	rep, err := agent.Result[lifecycle.Report](ctx, d)

# Cleanup

Cleanup removes the Job and RBAC resources. The output ConfigMap is kept so
the report outlives the run.
*/
package agent
