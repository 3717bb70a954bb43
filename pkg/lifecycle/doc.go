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

// Package lifecycle runs the data-engineering sample workflows: create a
// cluster, wait for it, submit a sample job, wait for the job and optionally
// tear the cluster down.
//
// # Runner
//
// A Runner combines a dataeng.Client with the loaded configuration. Every
// wait goes through the generic poller in pkg/poll, so clusters and jobs share
// one termination and cancellation model:
//
//	r, err := lifecycle.New(client, cfg)
//	if err != nil {
//	    return err
//	}
//	report, err := r.RunWorkload(ctx, lifecycle.DefaultWorkload(dataeng.JobTypeSpark))
//
// Poll intervals default to the values in pkg/defaults and can be replaced
// per resource with WithClusterPolicy, WithDeletionPolicy and WithJobPolicy.
// Tests inject a fake clock with WithClock.
//
// # Workflows
//
// RunWorkload creates a cluster for the Spark, Hive or MapReduce sample,
// submits the sample job once the cluster is CREATED and waits for it.
// RunAllInOne creates a Spark cluster with the job embedded in the creation
// request and EMPTY_JOB_QUEUE termination, then locates the job by name.
//
// Both return a Report that the CLI serializes. A workflow that ran to
// completion but did not succeed returns a nil error; Report.Err converts
// that into a structured error.
package lifecycle
