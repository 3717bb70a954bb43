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

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantPort     int
		wantShutdown time.Duration
	}{
		{
			name:         "defaults",
			wantPort:     DefaultPort,
			wantShutdown: defaults.ServerShutdownTimeout,
		},
		{
			name:         "env overrides",
			env:          map[string]string{EnvMetricsPort: "9191", EnvShutdownTimeout: "5"},
			wantPort:     9191,
			wantShutdown: 5 * time.Second,
		},
		{
			name:         "invalid values ignored",
			env:          map[string]string{EnvMetricsPort: "http", EnvShutdownTimeout: "-3"},
			wantPort:     DefaultPort,
			wantShutdown: defaults.ServerShutdownTimeout,
		},
		{
			name:         "port out of range ignored",
			env:          map[string]string{EnvMetricsPort: "70000"},
			wantPort:     DefaultPort,
			wantShutdown: defaults.ServerShutdownTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parseConfig(envMap(tt.env))
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantShutdown, cfg.ShutdownTimeout)
			assert.Equal(t, defaults.ServerReadHeaderTimeout, cfg.ReadHeaderTimeout)
		})
	}
}

func TestConfig_SetAddress(t *testing.T) {
	tests := []struct {
		addr     string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{addr: ":9090", wantPort: 9090},
		{addr: "127.0.0.1:0", wantHost: "127.0.0.1", wantPort: 0},
		{addr: "[::1]:8080", wantHost: "::1", wantPort: 8080},
		{addr: "9090", wantErr: true},
		{addr: "localhost:port", wantErr: true},
		{addr: "localhost:99999", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			cfg := parseConfig(envMap(nil))
			err := cfg.SetAddress(tt.addr)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, cfg.Address)
			assert.Equal(t, tt.wantPort, cfg.Port)
		})
	}

	cfg := parseConfig(envMap(nil))
	require.NoError(t, cfg.SetAddress("[::1]:8080"))
	assert.Equal(t, "[::1]:8080", cfg.Addr())
}
