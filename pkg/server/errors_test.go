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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

func TestWriteErrorFromErr(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantCode      dataerrors.ErrorCode
		wantRetryable bool
	}{
		{"not found", dataerrors.New(dataerrors.ErrCodeNotFound, "gone"), http.StatusNotFound, dataerrors.ErrCodeNotFound, false},
		{"invalid", dataerrors.New(dataerrors.ErrCodeInvalidRequest, "bad"), http.StatusBadRequest, dataerrors.ErrCodeInvalidRequest, false},
		{"unauthorized", dataerrors.New(dataerrors.ErrCodeUnauthorized, "no"), http.StatusUnauthorized, dataerrors.ErrCodeUnauthorized, false},
		{"rate limited", dataerrors.New(dataerrors.ErrCodeRateLimitExceeded, "slow down"), http.StatusTooManyRequests, dataerrors.ErrCodeRateLimitExceeded, true},
		{"timeout", dataerrors.New(dataerrors.ErrCodeTimeout, "slow"), http.StatusGatewayTimeout, dataerrors.ErrCodeTimeout, true},
		{"transport", dataerrors.New(dataerrors.ErrCodeTransport, "down"), http.StatusServiceUnavailable, dataerrors.ErrCodeTransport, true},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dataerrors.ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/test", nil)
			req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-1"))

			WriteErrorFromErr(rec, req, tt.err, "failed", map[string]any{"k": "v"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tt.wantCode), body.Code)
			assert.Equal(t, "failed", body.Message)
			assert.Equal(t, "req-1", body.RequestID)
			assert.Equal(t, tt.wantRetryable, body.Retryable)
			assert.Equal(t, "v", body.Details["k"])
			assert.Equal(t, tt.err.Error(), body.Details["error"])
		})
	}
}
