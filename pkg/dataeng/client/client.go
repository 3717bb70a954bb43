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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

const (
	// UserAgent is sent with every request.
	UserAgent = "dataeng-lifecycle/1.0"

	// HeaderRequestID carries the per-request id.
	HeaderRequestID = "X-Request-Id"

	// HeaderClientApplication carries the configured client application name.
	HeaderClientApplication = "X-Client-Application"

	// HeaderAPIKey carries the API key when one is configured.
	HeaderAPIKey = "X-Api-Key"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Operation names, used as the last path segment and as the metrics label.
const (
	OpCreateAWSCluster = "createAWSCluster"
	OpDescribeCluster  = "describeCluster"
	OpDeleteCluster    = "deleteCluster"
	OpListClusters     = "listClusters"
	OpSubmitJobs       = "submitJobs"
	OpDescribeJob      = "describeJob"
	OpListJobs         = "listJobs"
)

// Option configures a Client.
type Option func(*Client)

// WithApplicationName sets the client application name header.
func WithApplicationName(name string) Option {
	return func(c *Client) {
		c.applicationName = name
	}
}

// WithAPIKey sets the API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit sets the sustained request rate and burst.
// A non-positive limit disables rate limiting.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// Client calls the data-engineering service over HTTP with JSON bodies.
// It implements dataeng.Client and is safe for concurrent use.
type Client struct {
	endpoint        string
	applicationName string
	apiKey          string
	http            *http.Client
	limiter         *rate.Limiter
	logger          *slog.Logger
}

var _ dataeng.Client = (*Client)(nil)

// New returns a Client for the service at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "service endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			"service endpoint must be an http or https URL", map[string]any{"endpoint": endpoint})
	}

	c := &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newDefaultTransport(),
		},
		limiter: rate.NewLimiter(rate.Limit(defaults.APIRateLimit), defaults.APIRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

func newDefaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Endpoint returns the service base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// CreateAWSCluster implements dataeng.Client.
func (c *Client) CreateAWSCluster(ctx context.Context, req *dataeng.CreateAWSClusterRequest) (*dataeng.CreateAWSClusterResponse, error) {
	var resp dataeng.CreateAWSClusterResponse
	if _, err := c.call(ctx, OpCreateAWSCluster, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DescribeCluster implements dataeng.Client.
func (c *Client) DescribeCluster(ctx context.Context, req *dataeng.DescribeClusterRequest) (*dataeng.DescribeClusterResponse, error) {
	var resp dataeng.DescribeClusterResponse
	if _, err := c.call(ctx, OpDescribeCluster, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCluster implements dataeng.Client. The response carries the HTTP
// status code of the call.
func (c *Client) DeleteCluster(ctx context.Context, req *dataeng.DeleteClusterRequest) (*dataeng.DeleteClusterResponse, error) {
	code, err := c.call(ctx, OpDeleteCluster, req, nil)
	if err != nil {
		return nil, err
	}
	return &dataeng.DeleteClusterResponse{StatusCode: code}, nil
}

// ListClusters implements dataeng.Client.
func (c *Client) ListClusters(ctx context.Context, req *dataeng.ListClustersRequest) (*dataeng.ListClustersResponse, error) {
	var resp dataeng.ListClustersResponse
	if _, err := c.call(ctx, OpListClusters, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitJobs implements dataeng.Client.
func (c *Client) SubmitJobs(ctx context.Context, req *dataeng.SubmitJobsRequest) (*dataeng.SubmitJobsResponse, error) {
	var resp dataeng.SubmitJobsResponse
	if _, err := c.call(ctx, OpSubmitJobs, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DescribeJob implements dataeng.Client.
func (c *Client) DescribeJob(ctx context.Context, req *dataeng.DescribeJobRequest) (*dataeng.DescribeJobResponse, error) {
	var resp dataeng.DescribeJobResponse
	if _, err := c.call(ctx, OpDescribeJob, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListJobs implements dataeng.Client.
func (c *Client) ListJobs(ctx context.Context, req *dataeng.ListJobsRequest) (*dataeng.ListJobsResponse, error) {
	var resp dataeng.ListJobsResponse
	if _, err := c.call(ctx, OpListJobs, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call POSTs in as JSON to the operation and decodes the response into out
// when out is non-nil. It returns the HTTP status code.
func (c *Client) call(ctx context.Context, op string, in, out any) (int, error) {
	if isNil(in) {
		return 0, dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			"request is required", map[string]any{"operation": op})
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, transportErr(op, "", "rate limiter wait failed", err)
		}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return 0, dataerrors.WrapWithContext(dataerrors.ErrCodeInvalidRequest,
			"failed to encode request", err, map[string]any{"operation": op})
	}

	requestID := uuid.New().String()
	url := c.endpoint + "/dataeng/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, dataerrors.WrapWithContext(dataerrors.ErrCodeInvalidRequest,
			"failed to create request", err, map[string]any{"operation": op, "url": url})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if c.applicationName != "" {
		req.Header.Set(HeaderClientApplication, c.applicationName)
	}
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		return 0, transportErr(op, requestID, "request failed", err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	requestsTotal.WithLabelValues(op, status).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	c.logger.Debug("service call",
		"operation", op,
		"requestID", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, statusError(op, requestID, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return resp.StatusCode, dataerrors.WrapWithContext(dataerrors.ErrCodeInternal,
				"failed to decode response", err,
				map[string]any{"operation": op, "requestID": requestID})
		}
	}
	return resp.StatusCode, nil
}

func transportErr(op, requestID, msg string, err error) error {
	ctx := map[string]any{"operation": op}
	if requestID != "" {
		ctx["requestID"] = requestID
	}
	return dataerrors.WrapWithContext(dataerrors.ErrCodeTransport,
		fmt.Sprintf("%s: %s", op, msg), err, ctx)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
