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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRateLimit(0, 0)}, opts...)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"https", "https://dataeng.example.com", false},
		{"trailing slash", "http://localhost:8080/", false},
		{"empty", "", true},
		{"no scheme", "dataeng.example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(c.Endpoint(), "/"))
		})
	}
}

func TestClient_RequestShape(t *testing.T) {
	var got *http.Request
	var body dataeng.DescribeClusterRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cluster":{"clusterName":"c1","status":"CREATING"}}`))
	}, WithApplicationName("sample-app"), WithAPIKey("secret"))

	resp, err := c.DescribeCluster(context.Background(), &dataeng.DescribeClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Cluster)
	assert.Equal(t, dataeng.ClusterCreating, resp.Cluster.Status)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/dataeng/describeCluster", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "sample-app", got.Header.Get(HeaderClientApplication))
	assert.Equal(t, "secret", got.Header.Get(HeaderAPIKey))
	_, err = uuid.Parse(got.Header.Get(HeaderRequestID))
	assert.NoError(t, err, "request id is a uuid")
	assert.Equal(t, "c1", body.ClusterName)
}

func TestClient_OptionalHeadersOmitted(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"clusters":[]}`))
	})

	_, err := c.ListClusters(context.Background(), &dataeng.ListClustersRequest{})
	require.NoError(t, err)
	assert.Empty(t, got.Get(HeaderAPIKey))
	assert.Empty(t, got.Get(HeaderClientApplication))
}

func TestClient_DeleteReturnsStatusCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dataeng/deleteCluster", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})

	resp, err := c.DeleteCluster(context.Background(), &dataeng.DeleteClusterRequest{ClusterName: "c1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestClient_SubmitAndListJobs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dataeng/submitJobs":
			var req dataeng.SubmitJobsRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if assert.Len(t, req.Jobs, 1) {
				assert.NotNil(t, req.Jobs[0].Spark)
			}
			_, _ = w.Write([]byte(`{"jobs":[{"jobId":"j-1","jobName":"sample","status":"QUEUED"}]}`))
		case "/dataeng/listJobs":
			var req dataeng.ListJobsRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, dataeng.NewestToOldest, req.SortOrder)
			_, _ = w.Write([]byte(`{"jobs":[{"jobId":"j-1","jobName":"sample","status":"RUNNING"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	sub, err := c.SubmitJobs(ctx, &dataeng.SubmitJobsRequest{
		ClusterName: "c1",
		Jobs:        []dataeng.JobRequest{{Name: "sample", Spark: &dataeng.SparkJob{MainClass: "m"}}},
	})
	require.NoError(t, err)
	require.Len(t, sub.Jobs, 1)
	assert.Equal(t, "j-1", sub.Jobs[0].JobID)

	list, err := c.ListJobs(ctx, &dataeng.ListJobsRequest{SortOrder: dataeng.NewestToOldest})
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)
	assert.Equal(t, dataeng.JobRunning, list.Jobs[0].Status)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		body   string
		code   dataerrors.ErrorCode
		msg    string
	}{
		{http.StatusBadRequest, `{"code":"BAD","message":"cluster name too long"}`, dataerrors.ErrCodeInvalidRequest, "cluster name too long"},
		{http.StatusUnauthorized, "", dataerrors.ErrCodeUnauthorized, "Unauthorized"},
		{http.StatusForbidden, "denied", dataerrors.ErrCodeUnauthorized, "denied"},
		{http.StatusNotFound, `{"message":"no such cluster"}`, dataerrors.ErrCodeNotFound, "no such cluster"},
		{http.StatusTooManyRequests, "", dataerrors.ErrCodeRateLimitExceeded, "Too Many Requests"},
		{http.StatusServiceUnavailable, "", dataerrors.ErrCodeUnavailable, "Service Unavailable"},
		{http.StatusGatewayTimeout, "", dataerrors.ErrCodeTimeout, "Gateway Timeout"},
		{http.StatusInternalServerError, "", dataerrors.ErrCodeInternal, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.DescribeJob(context.Background(), &dataeng.DescribeJobRequest{JobID: "j"})
			require.Error(t, err)
			assert.Equal(t, tt.code, dataerrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)

			var se *dataerrors.StructuredError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Context["httpStatus"])
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, WithRateLimit(0, 0))
	require.NoError(t, err)

	_, err = c.DescribeCluster(context.Background(), &dataeng.DescribeClusterRequest{ClusterName: "c"})
	require.Error(t, err)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeTransport))
}

func TestClient_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"cluster":`))
	})

	_, err := c.DescribeCluster(context.Background(), &dataeng.DescribeClusterRequest{ClusterName: "c"})
	require.Error(t, err)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInternal))
}

func TestClient_NilRequest(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) { calls.Add(1) })

	_, err := c.DescribeCluster(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeInvalidRequest))
	assert.Zero(t, calls.Load())
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"clusters":[]}`))
	}, WithRateLimit(0.001, 1))

	ctx := context.Background()
	_, err := c.ListClusters(ctx, &dataeng.ListClustersRequest{})
	require.NoError(t, err, "burst allows the first call")

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = c.ListClusters(ctx, &dataeng.ListClustersRequest{})
	require.Error(t, err)
	assert.True(t, dataerrors.IsCode(err, dataerrors.ErrCodeTransport))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, dataerrors.ErrCodeNotFound, CodeForStatus(404))
	assert.Equal(t, dataerrors.ErrCodeInternal, CodeForStatus(418))
}
