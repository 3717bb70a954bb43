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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Poll intervals
		{"ClusterPollInterval", ClusterPollInterval, 10 * time.Second, 5 * time.Minute},
		{"JobPollInterval", JobPollInterval, 5 * time.Second, 2 * time.Minute},
		{"KubeJobPollInterval", KubeJobPollInterval, 1 * time.Second, 30 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 60 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},

		// HTTP client timeouts
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},

		// CLI timeouts
		{"CLIRequestTimeout", CLIRequestTimeout, 10 * time.Second, 5 * time.Minute},
		{"CleanupTimeout", CleanupTimeout, 10 * time.Second, 2 * time.Minute},

		// Kubernetes API timeouts
		{"ConfigMapWriteTimeout", ConfigMapWriteTimeout, 5 * time.Second, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestPollIntervalRelationships(t *testing.T) {
	// Clusters change state more slowly than jobs
	if JobPollInterval >= ClusterPollInterval {
		t.Errorf("JobPollInterval (%v) should be less than ClusterPollInterval (%v)",
			JobPollInterval, ClusterPollInterval)
	}

	// A single request must fit well inside one job poll interval
	if HTTPClientTimeout > JobPollInterval {
		t.Errorf("HTTPClientTimeout (%v) should not exceed JobPollInterval (%v)",
			HTTPClientTimeout, JobPollInterval)
	}
}

func TestPollBudgetsUnboundedByDefault(t *testing.T) {
	if ClusterCreationTimeout != 0 || JobCompletionTimeout != 0 || MaxPollAttempts != 0 {
		t.Error("poll budgets should default to unbounded")
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}

	if HTTPTLSHandshakeTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPTLSHandshakeTimeout, HTTPClientTimeout)
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	if ServerReadTimeout > ServerWriteTimeout {
		t.Errorf("ServerReadTimeout (%v) should not exceed ServerWriteTimeout (%v)",
			ServerReadTimeout, ServerWriteTimeout)
	}

	if ServerIdleTimeout < ServerWriteTimeout {
		t.Errorf("ServerIdleTimeout (%v) should be at least ServerWriteTimeout (%v)",
			ServerIdleTimeout, ServerWriteTimeout)
	}
}
