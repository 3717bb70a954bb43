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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/jobstatus"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

// jobResult is the output of job submit and find.
type jobResult struct {
	ClusterName string                           `json:"clusterName,omitempty" yaml:"clusterName,omitempty"`
	JobName     string                           `json:"jobName,omitempty" yaml:"jobName,omitempty"`
	JobID       string                           `json:"jobId" yaml:"jobId"`
	Wait        *poll.Outcome[dataeng.JobStatus] `json:"wait,omitempty" yaml:"wait,omitempty"`
}

func jobCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Submit, find and wait for jobs",
		Commands: []*cli.Command{
			jobSubmitCmd(a),
			jobWaitCmd(a),
			jobListCmd(a),
			jobFindCmd(a),
		},
	}
}

func clusterFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "cluster",
		Usage:    "Cluster name",
		Required: required,
	}
}

func parseJobType(cmd *cli.Command) (dataeng.JobType, error) {
	v := cmd.String("type")
	if v == "" {
		return "", dataerrors.New(dataerrors.ErrCodeInvalidRequest, "--type is required")
	}
	t, err := dataeng.ParseJobType(v)
	if err != nil {
		return "", dataerrors.Wrap(dataerrors.ErrCodeInvalidRequest, "invalid --type", err)
	}
	return t, nil
}

func jobSubmitCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Submit a sample job to a cluster and wait for it to finish",
		Flags: withPollFlags(
			clusterFlag(true),
			jobTypeFlag(),
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "Return once the job is submitted",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			t, err := parseJobType(cmd)
			if err != nil {
				return err
			}
			r, err := a.newRunner(cmd)
			if err != nil {
				return err
			}
			job, err := r.SampleJob(t)
			if err != nil {
				return err
			}

			return withOps(ctx, cmd, func(ctx context.Context) error {
				res := jobResult{ClusterName: cmd.String("cluster"), JobName: job.Name}
				if res.JobID, err = r.SubmitJob(ctx, res.ClusterName, job); err != nil {
					return err
				}
				if cmd.Bool("no-wait") {
					return out.write(ctx, res)
				}

				o, werr := r.WaitForJob(ctx, res.JobID)
				res.Wait = &o
				if err := out.write(ctx, res); err != nil {
					return err
				}
				if werr != nil {
					return werr
				}
				return outcomeErr(o)
			})
		},
	}
}

func jobWaitCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "wait",
		Usage: "Wait for a service job or a Kubernetes Job to finish",
		Flags: withPollFlags(
			&cli.StringFlag{
				Name:  "id",
				Usage: "Service job ID",
			},
			&cli.StringFlag{
				Name:  "kube-job",
				Usage: "Kubernetes Job to wait for, as namespace/name",
			},
			kubeconfigFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			id, kubeJob := cmd.String("id"), cmd.String("kube-job")
			if (id == "") == (kubeJob == "") {
				return dataerrors.New(dataerrors.ErrCodeInvalidRequest, "exactly one of --id or --kube-job is required")
			}

			var wait func(context.Context) (poll.Outcome[dataeng.JobStatus], error)
			if kubeJob != "" {
				if wait, err = a.kubeJobWait(cmd, kubeJob); err != nil {
					return err
				}
			} else {
				r, err := a.newRunner(cmd)
				if err != nil {
					return err
				}
				wait = func(ctx context.Context) (poll.Outcome[dataeng.JobStatus], error) {
					return r.WaitForJob(ctx, id)
				}
			}

			return withOps(ctx, cmd, func(ctx context.Context) error {
				o, werr := wait(ctx)
				if err := out.write(ctx, o); err != nil {
					return err
				}
				if werr != nil {
					return werr
				}
				return outcomeErr(o)
			})
		},
	}
}

// kubeJobWait polls a batch/v1 Job with the job completion statuses.
func (a *app) kubeJobWait(cmd *cli.Command, s string) (func(context.Context) (poll.Outcome[dataeng.JobStatus], error), error) {
	ref, err := jobstatus.ParseRef(s)
	if err != nil {
		return nil, err
	}
	kc, err := a.kubeClient(cmd)
	if err != nil {
		return nil, err
	}
	p := poll.New(applyPollFlags(cmd, jobstatus.Policy(), false))
	fetch := jobstatus.Fetcher(kc, ref)
	return func(ctx context.Context) (poll.Outcome[dataeng.JobStatus], error) {
		return p.Poll(ctx, ref.String(), fetch)
	}, nil
}

func jobListCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List jobs, optionally for one cluster",
		Flags: []cli.Flag{
			clusterFlag(false),
			&cli.StringFlag{
				Name:  "order",
				Value: "newest",
				Usage: "Sort order (newest, oldest)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			var order dataeng.ListOrder
			switch strings.ToLower(cmd.String("order")) {
			case "newest":
				order = dataeng.NewestToOldest
			case "oldest":
				order = dataeng.OldestToNewest
			default:
				return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
					"invalid --order, supported values: newest, oldest",
					map[string]any{"order": cmd.String("order")})
			}
			r, err := a.newRunner(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(ctx)
			defer cancel()
			jobs, err := r.ListJobs(ctx, cmd.String("cluster"), order)
			if err != nil {
				return err
			}
			return out.write(ctx, jobs)
		},
	}
}

func jobFindCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Find the most recent job ID for a job name",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Job name (case-insensitive)",
				Required: true,
			},
			clusterFlag(false),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			r, err := a.newRunner(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(ctx)
			defer cancel()
			res := jobResult{ClusterName: cmd.String("cluster"), JobName: cmd.String("name")}
			if res.ClusterName != "" {
				res.JobID, err = r.FindClusterJobID(ctx, res.ClusterName, res.JobName)
			} else {
				res.JobID, err = r.FindJobID(ctx, res.JobName)
			}
			if err != nil {
				return err
			}
			return out.write(ctx, res)
		},
	}
}
