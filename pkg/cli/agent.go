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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/agent"
	k8sclient "github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/jobstatus"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/lifecycle"
)

func agentCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "agent",
		Usage:     "Run a dataeng command as a Kubernetes Job and print its report",
		ArgsUsage: "-- <command> [flags]",
		Description: `Deploys a Job that runs the given dataeng command in the cluster, waits for it
and prints the report the Job stored in a ConfigMap. The Job runs unprivileged
with a namespace-scoped ServiceAccount.

Service credentials reach the Job through --credentials-secret, a Secret whose
keys become environment variables (e.g. DATAENG_API_KEY). Configuration is
read from --job-config, typically a ConfigMap URI.

Example:

  dataeng agent --namespace dataeng \
    --job-config cm://dataeng/dataeng-config \
    --credentials-secret dataeng-credentials \
    -- run --type spark --delete`,
		Flags: withPollFlags(
			kubeconfigFlag(),
			&cli.StringFlag{
				Name:  "namespace",
				Value: agent.DefaultNamespace,
				Usage: "Namespace for the agent Job, RBAC and report ConfigMap",
			},
			&cli.StringFlag{
				Name:  "image",
				Value: agent.DefaultImage,
				Usage: "Container image with the dataeng binary",
			},
			&cli.StringSliceFlag{
				Name:  "image-pull-secret",
				Usage: "Secret name for pulling the image (repeatable)",
			},
			&cli.StringFlag{
				Name:  "job-name",
				Value: agent.DefaultName,
				Usage: "Override default Job name",
			},
			&cli.StringFlag{
				Name:  "service-account-name",
				Value: agent.DefaultName,
				Usage: "Override default ServiceAccount name",
			},
			&cli.StringSliceFlag{
				Name:  "node-selector",
				Usage: "Node selector for Job scheduling (format: key=value, repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "toleration",
				Usage: "Toleration for Job scheduling (format: key=value:effect or key:effect, repeatable)",
			},
			&cli.StringFlag{
				Name:  "job-config",
				Usage: "Config URI passed to the Job as --config (e.g. cm://dataeng/dataeng-config)",
			},
			&cli.StringFlag{
				Name:  "credentials-secret",
				Usage: "Secret exposed to the Job as environment variables",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "ConfigMap URI the Job writes its report to (default: cm://<namespace>/dataeng-agent-report)",
			},
			&cli.BoolFlag{
				Name:  "cleanup",
				Value: true,
				Usage: "Remove the Job and RBAC resources when done",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return dataerrors.New(dataerrors.ErrCodeInvalidRequest, "a dataeng command is required after --")
			}
			nodeSelector, err := agent.ParseNodeSelectors(cmd.StringSlice("node-selector"))
			if err != nil {
				return err
			}
			tolerations, err := agent.ParseTolerations(cmd.StringSlice("toleration"))
			if err != nil {
				return err
			}

			ns := cmd.String("namespace")
			report := cmd.String("report")
			if report == "" {
				report = agent.DefaultOutput(ns)
			}
			cfg := agent.Config{
				Namespace:          ns,
				ServiceAccountName: cmd.String("service-account-name"),
				JobName:            cmd.String("job-name"),
				Image:              cmd.String("image"),
				ImagePullSecrets:   cmd.StringSlice("image-pull-secret"),
				NodeSelector:       nodeSelector,
				Tolerations:        tolerations,
				Args:               args,
				ConfigURI:          cmd.String("job-config"),
				CredentialsSecret:  cmd.String("credentials-secret"),
				Output:             report,
				LogLevel:           cmd.String("log-level"),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			kc, err := a.kubeClient(cmd)
			if err != nil {
				return err
			}
			d := agent.NewDeployer(kc, cfg)

			return withOps(ctx, cmd, func(ctx context.Context) error {
				slog.Info("deploying agent",
					"namespace", cfg.Namespace,
					"job", cfg.JobName,
					"image", cfg.Image,
					"command", strings.Join(args, " "))
				return runAgent(ctx, cmd, d, out)
			})
		},
	}
}

// runAgent deploys the Job, waits for it and writes the report it stored.
// Resources are cleaned up on a detached context so an interrupt still
// removes them.
func runAgent(ctx context.Context, cmd *cli.Command, d *agent.Deployer, out *output) error {
	if err := d.Deploy(ctx); err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.CleanupTimeout)
		defer cancel()
		if err := d.Cleanup(cctx, agent.CleanupOptions{Enabled: cmd.Bool("cleanup")}); err != nil {
			slog.Warn("agent cleanup failed", "job", d.Ref().String(), "error", err)
		}
	}()

	o, err := d.WaitForCompletion(ctx, applyPollFlags(cmd, jobstatus.Policy(), false))
	if err != nil {
		return err
	}
	if !o.Succeeded {
		if logs, lerr := d.PodLogs(ctx); lerr == nil {
			slog.Warn("agent job did not succeed", "job", d.Ref().String(), "status", o.Status.String(), "logs", logs)
		}
	}

	rep, err := agent.Result[lifecycle.Report](ctx, d)
	if err != nil {
		if !o.Succeeded {
			return outcomeErr(o)
		}
		return fmt.Errorf("failed to read agent report: %w", err)
	}
	return writeReport(ctx, out, rep, outcomeErr(o))
}

// kubeClient returns the injected Kubernetes client or builds one from
// --kubeconfig.
func (a *app) kubeClient(cmd *cli.Command) (k8sclient.Interface, error) {
	if a.kube != nil {
		return a.kube, nil
	}
	kc, _, err := k8sclient.GetKubeClientWithConfig(cmd.String("kubeconfig"))
	return kc, err
}
