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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/lifecycle"
)

func runCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a sample workflow end to end and print its report",
		Description: `Creates the sample cluster for --type, waits for it, submits the sample job
and waits for the job to finish. With --delete the cluster is deleted once the
workflow ends, whatever its result.

The report is written even when the workflow fails; the exit code is non-zero
unless the cluster and the job both succeeded.`,
		Flags: withPollFlags(
			jobTypeFlag(),
			&cli.StringFlag{
				Name:  "cluster",
				Usage: "Cluster name (default: the sample cluster for --type)",
			},
			serviceTypeFlag(),
			&cli.BoolFlag{
				Name:  "delete",
				Usage: "Delete the cluster once the workflow ends",
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
			w := lifecycle.Workload{
				Type:        t,
				ClusterName: cmd.String("cluster"),
				Delete:      cmd.Bool("delete"),
			}
			if v := cmd.String("service-type"); v != "" {
				if w.ServiceType, err = dataeng.ParseServiceType(v); err != nil {
					return dataerrors.Wrap(dataerrors.ErrCodeInvalidRequest, "invalid --service-type", err)
				}
			}
			r, err := a.newRunner(cmd)
			if err != nil {
				return err
			}

			return withOps(ctx, cmd, func(ctx context.Context) error {
				rep, err := r.RunWorkload(ctx, w)
				return writeReport(ctx, out, rep, err)
			})
		},
		Commands: []*cli.Command{
			runAllInOneCmd(a),
		},
	}
}

func runAllInOneCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  lifecycle.WorkflowAllInOne,
		Usage: "Create a Spark cluster that runs the sample job and terminates itself",
		Flags: withPollFlags(
			&cli.StringFlag{
				Name:  "cluster",
				Value: lifecycle.AllInOneClusterName,
				Usage: "Cluster name",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			r, err := a.newRunner(cmd)
			if err != nil {
				return err
			}

			return withOps(ctx, cmd, func(ctx context.Context) error {
				rep, err := r.RunAllInOne(ctx, cmd.String("cluster"))
				return writeReport(ctx, out, rep, err)
			})
		},
	}
}

// writeReport writes rep and returns the workflow error, or the report's own
// failure when the workflow ran to completion without succeeding.
func writeReport(ctx context.Context, out *output, rep *lifecycle.Report, err error) error {
	if rep == nil {
		return err
	}
	if werr := out.write(ctx, rep); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	return rep.Err()
}
