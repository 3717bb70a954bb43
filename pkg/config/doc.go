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

// Package config loads the settings used by the sample lifecycle workflows.
//
// The file is YAML or JSON, read from a local path, an http(s) URL or a
// Kubernetes ConfigMap (cm://namespace/name):
//
//	client:
//	  applicationName: sample-app
//	  endpoint: https://dataeng.example.com
//	  apiKeyFile: ~/.dataeng/key
//	credentials:
//	  sshPrivateKeyLocation: ~/.ssh/dataeng
//	  sshPublicKeyLocation: ~/.ssh/dataeng.pub
//	awsCluster:
//	  cdhVersion: CDH514
//	  instanceType: m4.xlarge
//	  environmentName: sample-env
//	  workerSize: 3
//	  cmUsername: admin
//	  cmPassword: secret
//	jobs:
//	  outputLocation: s3a://my-bucket/output/
//
// Every value can be overridden with a DATAENG_* environment variable, for
// example DATAENG_ENDPOINT or DATAENG_WORKER_SIZE. Validation errors carry
// the INVALID_REQUEST code.
package config
