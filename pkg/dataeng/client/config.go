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
	"github.com/NVIDIA/dataeng-lifecycle/pkg/config"
)

// NewFromConfig returns a Client for the endpoint, application name and API
// key in cfg. Options are applied after the configured ones.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.ValidateClient(); err != nil {
		return nil, err
	}
	key, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	base := []Option{WithApplicationName(cfg.Client.ApplicationName)}
	if key != "" {
		base = append(base, WithAPIKey(key))
	}
	return New(cfg.Client.Endpoint, append(base, opts...)...)
}
