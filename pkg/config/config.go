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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
)

// Environment variables that override file values.
const (
	EnvConfig                = "DATAENG_CONFIG"
	EnvEndpoint              = "DATAENG_ENDPOINT"
	EnvApplicationName       = "DATAENG_APPLICATION_NAME"
	EnvAPIKey                = "DATAENG_API_KEY"
	EnvAPIKeyFile            = "DATAENG_API_KEY_FILE"
	EnvSSHPrivateKeyLocation = "DATAENG_SSH_PRIVATE_KEY_LOCATION"
	EnvSSHPublicKeyLocation  = "DATAENG_SSH_PUBLIC_KEY_LOCATION"
	EnvCdhVersion            = "DATAENG_CDH_VERSION"
	EnvInstanceType          = "DATAENG_INSTANCE_TYPE"
	EnvEnvironmentName       = "DATAENG_ENVIRONMENT_NAME"
	EnvWorkerSize            = "DATAENG_WORKER_SIZE"
	EnvCMUsername            = "DATAENG_CM_USERNAME"
	EnvCMPassword            = "DATAENG_CM_PASSWORD"
	EnvOutputLocation        = "DATAENG_OUTPUT_LOCATION"
)

// DefaultApplicationName identifies this tool to the service when the
// config does not name a client application.
const DefaultApplicationName = "dataeng-lifecycle"

// Config holds the sample workflow settings.
type Config struct {
	Client      ClientConfig      `json:"client" yaml:"client"`
	Credentials CredentialsConfig `json:"credentials" yaml:"credentials"`
	AWSCluster  AWSClusterConfig  `json:"awsCluster" yaml:"awsCluster"`
	Jobs        JobsConfig        `json:"jobs" yaml:"jobs"`
}

// ClientConfig configures the service client.
type ClientConfig struct {
	ApplicationName string `json:"applicationName" yaml:"applicationName"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	APIKey          string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	APIKeyFile      string `json:"apiKeyFile,omitempty" yaml:"apiKeyFile,omitempty"`
}

// CredentialsConfig holds the SSH keys used for new clusters. Inline key
// contents take precedence over the key file locations.
type CredentialsConfig struct {
	SSHPrivateKeyLocation string `json:"sshPrivateKeyLocation" yaml:"sshPrivateKeyLocation"`
	SSHPublicKeyLocation  string `json:"sshPublicKeyLocation" yaml:"sshPublicKeyLocation"`
	SSHPrivateKey         string `json:"sshPrivateKey,omitempty" yaml:"sshPrivateKey,omitempty"`
	SSHPublicKey          string `json:"sshPublicKey,omitempty" yaml:"sshPublicKey,omitempty"`
}

// AWSClusterConfig holds the cluster creation parameters.
type AWSClusterConfig struct {
	CdhVersion      string `json:"cdhVersion" yaml:"cdhVersion"`
	InstanceType    string `json:"instanceType" yaml:"instanceType"`
	EnvironmentName string `json:"environmentName" yaml:"environmentName"`
	WorkerSize      int    `json:"workerSize" yaml:"workerSize"`
	CMUsername      string `json:"cmUsername" yaml:"cmUsername"`
	CMPassword      string `json:"cmPassword" yaml:"cmPassword"`
}

// JobsConfig holds job parameters.
type JobsConfig struct {
	OutputLocation string `json:"outputLocation" yaml:"outputLocation"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			ApplicationName: DefaultApplicationName,
		},
		AWSCluster: AWSClusterConfig{
			WorkerSize: defaults.WorkersGroupSize,
		},
	}
}

// Load reads the config at path (local file, http(s) URL or cm://namespace/name)
// on top of the defaults and applies environment overrides. An empty path
// loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		f, err := serializer.FromFile[Config](path)
		if err != nil {
			return nil, dataerrors.WrapWithContext(dataerrors.ErrCodeInvalidRequest,
				"failed to load config", err, map[string]any{"path": path})
		}
		cfg.merge(f)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge copies the non-zero values of o into c.
func (c *Config) merge(o *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Client.ApplicationName, o.Client.ApplicationName)
	set(&c.Client.Endpoint, o.Client.Endpoint)
	set(&c.Client.APIKey, o.Client.APIKey)
	set(&c.Client.APIKeyFile, o.Client.APIKeyFile)
	set(&c.Credentials.SSHPrivateKeyLocation, o.Credentials.SSHPrivateKeyLocation)
	set(&c.Credentials.SSHPublicKeyLocation, o.Credentials.SSHPublicKeyLocation)
	set(&c.Credentials.SSHPrivateKey, o.Credentials.SSHPrivateKey)
	set(&c.Credentials.SSHPublicKey, o.Credentials.SSHPublicKey)
	set(&c.AWSCluster.CdhVersion, o.AWSCluster.CdhVersion)
	set(&c.AWSCluster.InstanceType, o.AWSCluster.InstanceType)
	set(&c.AWSCluster.EnvironmentName, o.AWSCluster.EnvironmentName)
	set(&c.AWSCluster.CMUsername, o.AWSCluster.CMUsername)
	set(&c.AWSCluster.CMPassword, o.AWSCluster.CMPassword)
	set(&c.Jobs.OutputLocation, o.Jobs.OutputLocation)
	if o.AWSCluster.WorkerSize != 0 {
		c.AWSCluster.WorkerSize = o.AWSCluster.WorkerSize
	}
}

// ApplyEnv overrides values from the environment using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		EnvEndpoint:              &c.Client.Endpoint,
		EnvApplicationName:       &c.Client.ApplicationName,
		EnvAPIKey:                &c.Client.APIKey,
		EnvAPIKeyFile:            &c.Client.APIKeyFile,
		EnvSSHPrivateKeyLocation: &c.Credentials.SSHPrivateKeyLocation,
		EnvSSHPublicKeyLocation:  &c.Credentials.SSHPublicKeyLocation,
		EnvCdhVersion:            &c.AWSCluster.CdhVersion,
		EnvInstanceType:          &c.AWSCluster.InstanceType,
		EnvEnvironmentName:       &c.AWSCluster.EnvironmentName,
		EnvCMUsername:            &c.AWSCluster.CMUsername,
		EnvCMPassword:            &c.AWSCluster.CMPassword,
		EnvOutputLocation:        &c.Jobs.OutputLocation,
	}
	for env, dst := range strs {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			*dst = v
		}
	}

	if v := strings.TrimSpace(getenv(EnvWorkerSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return dataerrors.WrapWithContext(dataerrors.ErrCodeInvalidRequest,
				"invalid worker size", err, map[string]any{"env": EnvWorkerSize, "value": v})
		}
		c.AWSCluster.WorkerSize = n
	}
	return nil
}

// ValidateClient checks the settings needed to talk to the service.
func (c *Config) ValidateClient() error {
	if c.Client.Endpoint == "" {
		return missing("client.endpoint", EnvEndpoint)
	}
	if c.Client.ApplicationName == "" {
		return missing("client.applicationName", EnvApplicationName)
	}
	return nil
}

// ValidateCluster checks the settings needed to create a cluster.
func (c *Config) ValidateCluster() error {
	required := []struct {
		field, env, value string
	}{
		{"awsCluster.cdhVersion", EnvCdhVersion, c.AWSCluster.CdhVersion},
		{"awsCluster.instanceType", EnvInstanceType, c.AWSCluster.InstanceType},
		{"awsCluster.environmentName", EnvEnvironmentName, c.AWSCluster.EnvironmentName},
		{"awsCluster.cmUsername", EnvCMUsername, c.AWSCluster.CMUsername},
		{"awsCluster.cmPassword", EnvCMPassword, c.AWSCluster.CMPassword},
	}
	for _, r := range required {
		if r.value == "" {
			return missing(r.field, r.env)
		}
	}
	if c.AWSCluster.WorkerSize < 1 {
		return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			"awsCluster.workerSize must be at least 1",
			map[string]any{"workerSize": c.AWSCluster.WorkerSize})
	}
	return nil
}

// ValidateJobs checks the settings needed to submit the sample jobs.
func (c *Config) ValidateJobs() error {
	if c.Jobs.OutputLocation == "" {
		return missing("jobs.outputLocation", EnvOutputLocation)
	}
	return nil
}

// Validate runs all validations.
func (c *Config) Validate() error {
	for _, v := range []func() error{c.ValidateClient, c.ValidateCluster, c.ValidateJobs} {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func missing(field, env string) error {
	return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
		fmt.Sprintf("%s is required (or set %s)", field, env),
		map[string]any{"field": field})
}

// ResolveAPIKey returns the API key, reading APIKeyFile when APIKey is empty.
// It returns "" when neither is set.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.Client.APIKey != "" {
		return c.Client.APIKey, nil
	}
	if c.Client.APIKeyFile == "" {
		return "", nil
	}
	b, err := readFile("client.apiKeyFile", c.Client.APIKeyFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(b), nil
}

// SSHPrivateKey returns the inline private key or reads the key file.
func (c *Config) SSHPrivateKey() (string, error) {
	if c.Credentials.SSHPrivateKey != "" {
		return c.Credentials.SSHPrivateKey, nil
	}
	if c.Credentials.SSHPrivateKeyLocation == "" {
		return "", missing("credentials.sshPrivateKeyLocation", EnvSSHPrivateKeyLocation)
	}
	return readFile("credentials.sshPrivateKeyLocation", c.Credentials.SSHPrivateKeyLocation)
}

// SSHPublicKey returns the inline public key or reads the key file.
func (c *Config) SSHPublicKey() (string, error) {
	if c.Credentials.SSHPublicKey != "" {
		return c.Credentials.SSHPublicKey, nil
	}
	if c.Credentials.SSHPublicKeyLocation == "" {
		return "", missing("credentials.sshPublicKeyLocation", EnvSSHPublicKeyLocation)
	}
	return readFile("credentials.sshPublicKeyLocation", c.Credentials.SSHPublicKeyLocation)
}

func readFile(field, path string) (string, error) {
	p, err := expandHome(path)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", dataerrors.WrapWithContext(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to read %s", field), err, map[string]any{"path": p})
	}
	return string(b), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", dataerrors.Wrap(dataerrors.ErrCodeInternal, "failed to resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
