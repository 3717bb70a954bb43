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
	"errors"
	"fmt"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

// Sentinel errors for the non-terminal ways a poll can end.
var (
	ErrCanceled    = errors.New("poll canceled")
	ErrTimeout     = errors.New("poll timed out")
	ErrMaxAttempts = errors.New("poll attempt budget exhausted")
)

// TransportError reports that the status fetch itself failed.
// The poller never retries it.
type TransportError struct {
	Target  string
	Attempt int
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("status fetch for %q failed on attempt %d: %v", e.Target, e.Attempt, e.Err)
}

// Unwrap returns the fetch error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsCanceled reports whether err ended a poll through cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsTimeout reports whether err ended a poll because a budget ran out.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrMaxAttempts)
}

// IsTransport reports whether err ended a poll because a fetch failed.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func outcomeContext[S comparable](o Outcome[S]) map[string]any {
	return map[string]any{
		"target":   o.Target,
		"kind":     o.Kind,
		"attempts": o.Attempts,
		"status":   fmt.Sprint(o.Status),
	}
}

func canceledError[S comparable](o Outcome[S], cause error) error {
	return dataerrors.WrapWithContext(dataerrors.ErrCodeCanceled,
		fmt.Sprintf("polling %s %q canceled", o.Kind, o.Target),
		fmt.Errorf("%w: %w", ErrCanceled, cause), outcomeContext(o))
}

func timeoutError[S comparable](o Outcome[S], sentinel error) error {
	return dataerrors.WrapWithContext(dataerrors.ErrCodeTimeout,
		fmt.Sprintf("%s %q did not reach a terminal status", o.Kind, o.Target),
		sentinel, outcomeContext(o))
}

func transportError[S comparable](o Outcome[S], cause error) error {
	return dataerrors.WrapWithContext(dataerrors.ErrCodeTransport,
		fmt.Sprintf("failed to fetch %s status", o.Kind),
		&TransportError{Target: o.Target, Attempt: o.Attempts, Err: cause}, outcomeContext(o))
}
