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

package poll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for pollOutcomesTotal.
const (
	resultSuccess   = "success"
	resultFailure   = "failure"
	resultCanceled  = "canceled"
	resultTimeout   = "timeout"
	resultTransport = "transport_error"
)

var (
	pollAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataeng_poll_attempts_total",
			Help: "Total number of status fetches issued by pollers",
		},
		[]string{"kind"},
	)

	pollOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataeng_poll_outcomes_total",
			Help: "Total number of finished polls by result",
		},
		[]string{"kind", "result"}, // success, failure, canceled, timeout, transport_error
	)

	pollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataeng_poll_duration_seconds",
			Help:    "Time from first fetch to the end of a poll",
			Buckets: []float64{1, 10, 30, 60, 300, 600, 1200, 1800, 3600},
		},
		[]string{"kind"},
	)

	pollsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataeng_polls_in_flight",
			Help: "Current number of running polls",
		},
		[]string{"kind"},
	)
)
