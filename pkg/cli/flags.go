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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/config"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	k8sclient "github.com/NVIDIA/dataeng-lifecycle/pkg/k8s/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path/URI of the YAML config (file, http(s) URL or cm://namespace/name)",
		Sources: cli.EnvVars(config.EnvConfig),
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars("LOG_LEVEL"),
	}
}

func endpointFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "endpoint",
		Usage: fmt.Sprintf("Service endpoint, overrides client.endpoint and %s", config.EnvEndpoint),
	}
}

func simulateFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "simulate",
		Usage: "Run against an in-memory simulated service instead of the real API",
	}
}

func metricsAddressFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "metrics-address",
		Usage: "Serve /health, /ready and /metrics on this address (e.g. :9090) while the command runs",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output destination: file path or ConfigMap URI (cm://namespace/name). Default: stdout",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file (overrides KUBECONFIG env and default ~/.kube/config)",
		Sources: cli.EnvVars(k8sclient.EnvKubeconfig),
	}
}

func serviceTypeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "service-type",
		Usage: fmt.Sprintf("Cluster service type (supported values: %v)", dataeng.SupportedServiceTypes()),
	}
}

func jobTypeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "type",
		Usage: "Sample job type (supported values: spark, hive, mapreduce)",
	}
}

// pollFlags bound a wait. Zero values keep the policy defaults.
func pollFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Delay between status checks (default: 1m for clusters, 30s for jobs)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Give up waiting after this long (default: no limit)",
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Give up waiting after this many status checks (default: no limit)",
		},
	}
}

func withPollFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, pollFlags()...)
}
