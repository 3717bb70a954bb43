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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

// errorBody is the error payload returned by the service.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CodeForStatus maps an HTTP status code to an error code.
func CodeForStatus(status int) dataerrors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return dataerrors.ErrCodeInvalidRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return dataerrors.ErrCodeUnauthorized
	case http.StatusNotFound:
		return dataerrors.ErrCodeNotFound
	case http.StatusTooManyRequests:
		return dataerrors.ErrCodeRateLimitExceeded
	case http.StatusServiceUnavailable:
		return dataerrors.ErrCodeUnavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return dataerrors.ErrCodeTimeout
	default:
		return dataerrors.ErrCodeInternal
	}
}

// statusError builds a structured error from a non-2xx response.
func statusError(op, requestID string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(raw))
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Message != "" {
		msg = eb.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	ctx := map[string]any{
		"operation":  op,
		"requestID":  requestID,
		"httpStatus": resp.StatusCode,
	}
	if eb.Code != "" {
		ctx["serviceCode"] = eb.Code
	}
	return dataerrors.NewWithContext(CodeForStatus(resp.StatusCode),
		fmt.Sprintf("%s failed: %s", op, msg), ctx)
}
