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

package api

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/config"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng/client"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/lifecycle"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/logging"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/server"
)

const (
	name           = "dataengd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/dataeng-lifecycle/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the inventory API server and blocks until SIGINT or SIGTERM.
// The service connection is configured through DATAENG_CONFIG and the
// DATAENG_* environment overrides.
func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg, err := config.Load(os.Getenv(config.EnvConfig))
	if err != nil {
		return err
	}
	c, err := client.NewFromConfig(cfg, client.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	r, err := lifecycle.New(c, cfg, lifecycle.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	s := server.New(newServerConfig(NewHandler(r)))
	if err := s.Start(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

func newServerConfig(h *Handler) *server.Config {
	cfg := server.NewConfig()
	cfg.Name = name
	cfg.Version = version
	cfg.Handlers = h.Routes()
	return cfg
}
