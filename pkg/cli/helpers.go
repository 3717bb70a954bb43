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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/config"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng/sim"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/lifecycle"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/server"
)

// simulateInterval is the default poll interval against the simulated service.
const simulateInterval = 100 * time.Millisecond

func (a *app) simulated(cmd *cli.Command) bool {
	return a.client != nil || cmd.Bool("simulate")
}

// loadConfig reads --config and applies --endpoint.
func (a *app) loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if ep := cmd.String("endpoint"); ep != "" {
		cfg.Client.Endpoint = ep
	}
	if a.simulated(cmd) {
		applySimulationDefaults(cfg)
	}
	return cfg, nil
}

// applySimulationDefaults fills the settings a simulated run does not need
// from the user.
func applySimulationDefaults(cfg *config.Config) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&cfg.Client.Endpoint, "https://dataeng.simulated.invalid")
	fill(&cfg.AWSCluster.CdhVersion, "CDH514")
	fill(&cfg.AWSCluster.InstanceType, "m4.xlarge")
	fill(&cfg.AWSCluster.EnvironmentName, "simulated")
	fill(&cfg.AWSCluster.CMUsername, "admin")
	fill(&cfg.AWSCluster.CMPassword, "simulated")
	fill(&cfg.Jobs.OutputLocation, "s3a://simulated/output/")
	if cfg.Credentials.SSHPrivateKeyLocation == "" {
		fill(&cfg.Credentials.SSHPrivateKey, "simulated-private-key")
	}
	if cfg.Credentials.SSHPublicKeyLocation == "" {
		fill(&cfg.Credentials.SSHPublicKey, "simulated-public-key")
	}
}

// newClient returns the service client for cfg.
func (a *app) newClient(cmd *cli.Command, cfg *config.Config) (dataeng.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	if cmd.Bool("simulate") {
		slog.Warn("using simulated data-engineering service")
		return sim.New(), nil
	}
	return client.NewFromConfig(cfg, client.WithLogger(slog.Default()))
}

// newRunner builds a lifecycle runner with poll policies adjusted by the
// command's poll flags.
func (a *app) newRunner(cmd *cli.Command) (*lifecycle.Runner, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	c, err := a.newClient(cmd, cfg)
	if err != nil {
		return nil, err
	}
	simulated := a.simulated(cmd)
	return lifecycle.New(c, cfg,
		lifecycle.WithClusterPolicy(applyPollFlags(cmd, dataeng.ClusterCreationPolicy(), simulated)),
		lifecycle.WithDeletionPolicy(applyPollFlags(cmd, dataeng.ClusterDeletionPolicy(), simulated)),
		lifecycle.WithJobPolicy(applyPollFlags(cmd, dataeng.JobCompletionPolicy(), simulated)),
		lifecycle.WithLogger(slog.Default()),
	)
}

// applyPollFlags overrides p with the --interval, --timeout and
// --max-attempts flags that were set.
func applyPollFlags[S comparable](cmd *cli.Command, p poll.Policy[S], simulated bool) poll.Policy[S] {
	if simulated {
		p.Interval = simulateInterval
	}
	if cmd.IsSet("interval") {
		p.Interval = cmd.Duration("interval")
	}
	if cmd.IsSet("timeout") {
		p.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("max-attempts") {
		p.MaxAttempts = cmd.Int("max-attempts")
	}
	return p
}

// requestContext bounds a single request/response command.
func requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaults.CLIRequestTimeout)
}

// output writes command results with the global --format and --output flags.
type output struct {
	format serializer.Format
	path   string
}

// parseOutputFormat validates --format before any work is done.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format %q, supported values: %s",
				cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", ")),
			map[string]any{"format": cmd.String("format")})
	}
	return f, nil
}

func newOutput(cmd *cli.Command) (*output, error) {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	return &output{format: f, path: cmd.String("output")}, nil
}

func (o *output) write(ctx context.Context, v any) (err error) {
	w := serializer.NewFileWriterOrStdout(o.format, o.path)
	if c, ok := w.(serializer.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output: %w", cerr)
			}
		}()
	}
	// Results are still written when the command was interrupted.
	return w.Serialize(context.WithoutCancel(ctx), v)
}

// withOps runs fn with the ops endpoint serving when --metrics-address is set.
// The endpoint shuts down once fn returns.
func withOps(ctx context.Context, cmd *cli.Command, fn func(context.Context) error) error {
	addr := cmd.String("metrics-address")
	if addr == "" {
		return fn(ctx)
	}

	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version
	if err := cfg.SetAddress(addr); err != nil {
		return err
	}
	srv := server.New(cfg, server.WithLogger(slog.Default()))

	sctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	var ferr error
	g.Go(func() error {
		defer stop()
		ferr = fn(gctx)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ferr
}
