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

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/NVIDIA/dataeng-lifecycle/pkg/dataeng"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/defaults"
	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/lifecycle"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/server"
)

// Handler serves read-only cluster and job inventory.
type Handler struct {
	runner *lifecycle.Runner
}

// NewHandler returns a Handler backed by r.
func NewHandler(r *lifecycle.Runner) *Handler {
	return &Handler{runner: r}
}

// Routes returns the handlers keyed by path.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/clusters": h.HandleClusters,
		"/v1/jobs":     h.HandleJobs,
	}
}

// ClusterList is the response of GET /v1/clusters.
type ClusterList struct {
	Clusters []dataeng.Cluster `json:"clusters"`
}

// JobList is the response of GET /v1/jobs.
type JobList struct {
	Jobs []dataeng.JobSummary `json:"jobs"`
}

// JobRef is the response of GET /v1/jobs?name=.
type JobRef struct {
	JobName     string `json:"jobName"`
	ClusterName string `json:"clusterName,omitempty"`
	JobID       string `json:"jobId"`
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed, dataerrors.ErrCodeInvalidRequest,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": []string{http.MethodGet},
		})
	return false
}

// HandleClusters lists clusters, or describes one when ?name= is set.
func (h *Handler) HandleClusters(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), defaults.APIHandlerTimeout)
	defer cancel()

	if n := r.URL.Query().Get("name"); n != "" {
		c, err := h.runner.DescribeCluster(ctx, n)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to describe cluster", map[string]any{"cluster": n})
			return
		}
		serializer.RespondJSON(w, http.StatusOK, c)
		return
	}

	clusters, err := h.runner.ListClusters(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to list clusters", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, ClusterList{Clusters: clusters})
}

// HandleJobs lists jobs filtered by ?cluster= and sorted by ?order=
// (newest, oldest). With ?name= it returns the newest job of that name.
func (h *Handler) HandleJobs(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	cluster := q.Get("cluster")

	order := dataeng.NewestToOldest
	switch strings.ToLower(q.Get("order")) {
	case "", "newest":
	case "oldest":
		order = dataeng.OldestToNewest
	default:
		server.WriteError(w, r, http.StatusBadRequest, dataerrors.ErrCodeInvalidRequest,
			"Invalid order, supported values: newest, oldest", false,
			map[string]any{"order": q.Get("order")})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.APIHandlerTimeout)
	defer cancel()

	if n := q.Get("name"); n != "" {
		var id string
		var err error
		if cluster != "" {
			id, err = h.runner.FindClusterJobID(ctx, cluster, n)
		} else {
			id, err = h.runner.FindJobID(ctx, n)
		}
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to find job", map[string]any{"job": n})
			return
		}
		serializer.RespondJSON(w, http.StatusOK, JobRef{JobName: n, ClusterName: cluster, JobID: id})
		return
	}

	jobs, err := h.runner.ListJobs(ctx, cluster, order)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to list jobs", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, JobList{Jobs: jobs})
}
