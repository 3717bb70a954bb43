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

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/config"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

func TestNewFromConfig(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"clusters":[]}`))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Client.Endpoint = srv.URL
	cfg.Client.APIKey = "from-config"

	c, err := NewFromConfig(cfg, WithRateLimit(0, 0))
	require.NoError(t, err)

	_, err = c.ListClusters(context.Background(), &dataeng.ListClustersRequest{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultApplicationName, got.Get(HeaderClientApplication))
	assert.Equal(t, "from-config", got.Get(HeaderAPIKey))
}

func TestNewFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{name: "missing endpoint", modify: func(*config.Config) {}},
		{name: "missing api key file", modify: func(c *config.Config) {
			c.Client.Endpoint = "https://dataeng.example.com"
			c.Client.APIKeyFile = "/nonexistent/api-key"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			_, err := NewFromConfig(cfg)
			require.Error(t, err)
			assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest))
		})
	}
}
