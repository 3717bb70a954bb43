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

// Package cli implements the dataeng command-line interface.
//
// # Commands
//
// cluster - Manage clusters:
//
//	dataeng cluster create --name Sample-Spark2 --service-type SPARK
//	dataeng cluster describe --name Sample-Spark2
//	dataeng cluster list
//	dataeng cluster wait --name a --name b --timeout 1h
//	dataeng cluster delete --name Sample-Spark2 --wait
//
// job - Submit and track jobs:
//
//	dataeng job submit --cluster Sample-Spark2 --type spark
//	dataeng job wait --id 5f2c...
//	dataeng job wait --kube-job spark/etl-nightly --kubeconfig ~/.kube/config
//	dataeng job list --cluster Sample-Spark2 --order oldest
//	dataeng job find --name sample-spark-job
//
// run - Run a sample workflow end to end:
//
//	dataeng run --type mapreduce --delete
//	dataeng run all-in-one --cluster Sample-Spark-AllInOne-2
//
// agent - Run a command as a Kubernetes Job and collect its report:
//
//	dataeng agent --namespace dataeng --credentials-secret dataeng-credentials -- run --type spark --delete
//
// Every wait polls at a fixed interval until a terminal status. The
// --interval, --timeout and --max-attempts flags override the defaults.
//
// # Global Flags
//
//	--config, -c        YAML config (file, http(s) URL or cm://namespace/name)
//	--endpoint          Service endpoint
//	--simulate          Use the in-memory simulated service
//	--metrics-address   Serve /health, /ready and /metrics while running
//	--output, -o        Output file path or ConfigMap URI (default: stdout)
//	--format, -t        Output format: yaml, json, table (default: yaml)
//	--log-level         debug, info, warn, error (default: info)
//
// # Environment Variables
//
//	DATAENG_CONFIG     Config location
//	DATAENG_ENDPOINT   Service endpoint
//	DATAENG_API_KEY    API key
//	LOG_LEVEL          Logging verbosity
//	KUBECONFIG         Kubeconfig used by job wait --kube-job and agent
//
// # Exit Codes
//
//	0  Success
//	1  Failure, including a cluster or job that ended in a failure status
//	2  Canceled by SIGINT or SIGTERM
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/dataeng-lifecycle/pkg/cli.version=1.0.0'"
package cli
