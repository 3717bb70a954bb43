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

package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
	"github.com/NVIDIA/dataeng-lifecycle/pkg/serializer"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes an error response carrying the request id.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code dataerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// httpStatus maps a structured error code onto an HTTP status.
func httpStatus(code dataerrors.ErrorCode) (int, bool) {
	switch code {
	case dataerrors.ErrCodeNotFound:
		return http.StatusNotFound, false
	case dataerrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest, false
	case dataerrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized, false
	case dataerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests, true
	case dataerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, true
	case dataerrors.ErrCodeUnavailable, dataerrors.ErrCodeTransport:
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, false
	}
}

// WriteErrorFromErr writes err using the status that matches its error code.
// Errors without a code are reported as INTERNAL.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, message string, details map[string]any) {
	code := dataerrors.CodeOf(err)
	if code == "" {
		code = dataerrors.ErrCodeInternal
	}
	status, retryable := httpStatus(code)
	if details == nil {
		details = make(map[string]any, 1)
	}
	details["error"] = err.Error()
	WriteError(w, r, status, code, message, retryable, details)
}
