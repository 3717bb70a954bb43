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

// Package jobstatus lets the generic poller wait on a Kubernetes batch/v1 Job.
//
// Status maps Job conditions and pod counts onto dataeng.JobStatus, so the
// same terminal set and success set as service jobs apply. Fetcher adapts a
// clientset to poll.FetchFunc:
//
//	ref, _ := jobstatus.ParseRef("batch/nightly-etl")
//	out, err := poll.New(jobstatus.Policy()).
//	    Poll(ctx, ref.String(), jobstatus.Fetcher(kc, ref))
package jobstatus
