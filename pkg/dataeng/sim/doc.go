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

// Package sim is an in-memory data-engineering service for tests and dry runs.
//
// Service implements dataeng.Client without any network access. Every
// describe call advances the described resource one step through a scripted
// status progression, so a poller drives the simulation at its own cadence
// and tests stay deterministic:
//
//	cluster  CREATING x N -> CREATED
//	job      QUEUED -> RUNNING x N -> COMPLETED   (only while the cluster is CREATED)
//	delete   TERMINATING -> TERMINATED
//
// Clusters created with the EMPTY_JOB_QUEUE termination condition tear
// themselves down once all of their jobs are terminal.
//
// Scripts can be overridden per cluster or job name, and FailNext injects an
// error into the next call of an operation:
//
//	svc := sim.New(
//	    sim.WithClusterScript("c1", dataeng.ClusterCreating, dataeng.ClusterFailed),
//	)
//	svc.FailNext("describeJob", errors.New(errors.ErrCodeUnavailable, "down"))
package sim
