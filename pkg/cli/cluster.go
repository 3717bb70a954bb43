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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

// clusterResult is the output of cluster create and delete.
type clusterResult struct {
	Cluster    *dataeng.Cluster                     `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	HTTPStatus int                                  `json:"httpStatus,omitempty" yaml:"httpStatus,omitempty"`
	Wait       *poll.Outcome[dataeng.ClusterStatus] `json:"wait,omitempty" yaml:"wait,omitempty"`
}

// outcomeErr returns an error when a poll ended on a failure status.
func outcomeErr[S comparable](o poll.Outcome[S]) error {
	if o.Succeeded {
		return nil
	}
	return dataerrors.NewWithContext(dataerrors.ErrCodeInternal,
		fmt.Sprintf("%s %s ended with status %v", o.Kind, o.Target, o.Status),
		map[string]any{"kind": o.Kind, "target": o.Target, "status": fmt.Sprint(o.Status)})
}

func clusterCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "cluster",
		Usage: "Create, inspect, wait for and delete clusters",
		Commands: []*cli.Command{
			clusterCreateCmd(a),
			clusterDescribeCmd(a),
			clusterListCmd(a),
			clusterWaitCmd(a),
			clusterDeleteCmd(a),
		},
	}
}

func clusterNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    "Cluster name",
		Required: true,
	}
}

func clusterCreateCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create an AWS cluster and wait until it is CREATED",
		Flags: withPollFlags(
			clusterNameFlag(),
			serviceTypeFlag(),
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "Return once the create request is accepted",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out, err := newOutput(cmd)
			if err != nil {
				return err
			}
			service := dataeng.ServiceSpark
			if v := cmd.String("service-type"); v != "" {
				if service, err = dataeng.ParseServiceType(v); err != nil {
					return dataerrors.Wrap(dataerrors.ErrCodeInvalidRequest, "invalid --service-type", err)
				}
			}
			r, err := a.newRunner(cmd)
			if err != nil {
				return err
			}

			return withOps(ctx, cmd, func(ctx context.Context) error {
				req, err := r.ClusterRequest(cmd.String("name"), service)
				if err != nil {
					return err
				}
				cluster, err := r.StartCluster(ctx, req)
				if err != nil {
					return err
				}
				res := clusterResult{Cluster: cluster}
				if cmd.Bool("no-wait") {
					return out.write(ctx, res)
				}

				o, werr := r.WaitForCluster(ctx, req.ClusterName)
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

func clusterDescribeCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Describe a cluster",
		Flags: []cli.Flag{clusterNameFlag()},
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
			c, err := r.DescribeCluster(ctx, cmd.String("name"))
			if err != nil {
				return err
			}
			return out.write(ctx, c)
		},
	}
}

func clusterListCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List clusters",
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
			clusters, err := r.ListClusters(ctx)
			if err != nil {
				return err
			}
			return out.write(ctx, clusters)
		},
	}
}

func clusterWaitCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "wait",
		Usage: "Wait for one or more clusters to finish creating",
		Flags: withPollFlags(
			&cli.StringSliceFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Cluster name (repeatable)",
				Required: true,
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
				outcomes, werr := r.WaitForClusters(ctx, cmd.StringSlice("name"))
				if outcomes != nil {
					if err := out.write(ctx, outcomes); err != nil {
						return err
					}
				}
				if werr != nil {
					return werr
				}
				for _, o := range outcomes {
					if err := outcomeErr(o); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func clusterDeleteCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a cluster",
		Flags: withPollFlags(
			clusterNameFlag(),
			&cli.BoolFlag{
				Name:  "wait",
				Usage: "Wait until the cluster is TERMINATED or ARCHIVED",
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
			clusterName := cmd.String("name")

			return withOps(ctx, cmd, func(ctx context.Context) error {
				if !cmd.Bool("wait") {
					code, err := r.DeleteCluster(ctx, clusterName)
					if err != nil {
						return err
					}
					return out.write(ctx, clusterResult{HTTPStatus: code})
				}

				code, o, werr := r.DeleteAndWait(ctx, clusterName)
				if code == 0 && werr != nil {
					return werr
				}
				if err := out.write(ctx, clusterResult{HTTPStatus: code, Wait: &o}); err != nil {
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
