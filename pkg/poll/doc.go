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

// Package poll waits for asynchronous remote resources to reach a terminal status.
//
// # Overview
//
// A Poller repeatedly calls a status fetch function at a fixed interval until
// the returned status is in the policy's terminal set. It is used for cluster
// creation and deletion, job completion and Kubernetes Jobs alike; each
// resource kind supplies its own Policy.
//
// # State Machine
//
// A poll has two states: POLLING and TERMINATED(status). It starts in
// POLLING. Each iteration fetches once; a terminal status moves it to
// TERMINATED, which is absorbing. Otherwise it waits one interval and
// fetches again.
//
//   - The first fetch is immediate, so a resource that is already terminal
//     (for example a cluster that FAILED at submission) costs no wait.
//   - No wait follows the final fetch.
//   - The interval is part of the policy: clusters use one minute, jobs
//     thirty seconds.
//
// # Errors
//
// Only three things end a poll with an error:
//
//   - A fetch error. Wrapped in *TransportError under code TRANSPORT and
//     returned without retry.
//   - ctx done, before a fetch or during a wait. Matches ErrCanceled and the
//     context error, code CANCELED.
//   - The optional Timeout or MaxAttempts budget running out. Matches
//     ErrTimeout or ErrMaxAttempts, code TIMEOUT.
//
// A terminal failure status (FAILED, TERMINATING, ...) is a normal result:
// Poll returns it with Outcome.Succeeded set to false and a nil error.
//
// # Usage
//
//	p := &poll.Poller[dataeng.ClusterStatus]{
//	    Policy: dataeng.ClusterCreationPolicy(),
//	}
//	out, err := p.Poll(ctx, name, dataeng.ClusterStatusFetcher(client, name))
//	if err != nil {
//	    return err
//	}
//	if !out.Succeeded {
//	    slog.Error("cluster was not created", "status", out.Status)
//	}
//
// # Testing
//
// Timers come from Poller.Clock. Tests inject a fake clock from
// k8s.io/utils/clock/testing and step it instead of sleeping.
package poll
