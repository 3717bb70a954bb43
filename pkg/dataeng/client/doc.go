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

// Package client is the HTTP transport for the data-engineering service.
//
// Every operation is a JSON POST to {endpoint}/dataeng/{operation}. Requests
// carry a fresh X-Request-Id, the configured X-Client-Application and, when
// set, the API key header. Calls are rate limited client side with a token
// bucket (golang.org/x/time/rate); waiting for a token honours ctx.
//
// Non-2xx responses become *errors.StructuredError values:
//
//	400      INVALID_REQUEST
//	401, 403 UNAUTHORIZED
//	404      NOT_FOUND
//	408, 504 TIMEOUT
//	429      RATE_LIMIT_EXCEEDED
//	503      SERVICE_UNAVAILABLE
//	other    INTERNAL
//
// Failures before a response arrives use TRANSPORT. The HTTP status is in
// the error context under "httpStatus".
//
// Usage:
//
//	c, err := client.New("https://dataeng.example.com",
//	    client.WithApplicationName("sample-app"),
//	    client.WithAPIKey(key))
package client
