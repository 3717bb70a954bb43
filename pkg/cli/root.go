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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	k8sclient "github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/logging"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/poll"
)

const (
	name           = "dataeng"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitCanceled = 2
)

// app carries dependencies that tests replace. Zero values build the real ones.
type app struct {
	// client replaces the service client and implies simulated config defaults.
	client dataeng.Client

	// kube replaces the Kubernetes client used by job wait --kube-job and agent.
	kube k8sclient.Interface
}

// NewCommand returns the dataeng root command.
func NewCommand() *cli.Command {
	return newCommand(&app{})
}

func newCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Data-engineering cluster and job lifecycle CLI",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `Create clusters, submit jobs and wait for both to reach a terminal status.

Every wait polls the service at a fixed interval until the resource reaches a
terminal status, the optional timeout or attempt budget runs out, or the
command is interrupted (exit code 2).`,
		Flags: []cli.Flag{
			configFlag(),
			logLevelFlag(),
			endpointFlag(),
			simulateFlag(),
			metricsAddressFlag(),
			outputFlag(),
			formatFlag(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			clusterCmd(a),
			jobCmd(a),
			runCmd(a),
			agentCmd(a),
		},
	}
}

// Execute runs the CLI with os.Args and exits the process. SIGINT and
// SIGTERM cancel the running command.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := NewCommand().Run(ctx, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	signal.Stop(sigCh)
	cancel()
	os.Exit(ExitCode(err))
}

// ExitCode maps a command error to the process exit code: 2 when the command
// was canceled, 1 for any other error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case poll.IsCanceled(err),
		dataerrors.IsCode(err, dataerrors.ErrCodeCanceled),
		errors.Is(err, context.Canceled):
		return ExitCanceled
	default:
		return ExitError
	}
}
