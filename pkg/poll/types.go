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
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

// FetchFunc returns the current status of a remote resource.
// An error is treated as a transport failure and ends the poll.
type FetchFunc[S comparable] func(ctx context.Context) (S, error)

// Policy describes how one kind of resource is polled.
type Policy[S comparable] struct {
	// Kind names the resource kind (e.g. "cluster", "job") for logs and metrics.
	Kind string

	// Terminal lists the statuses that end polling.
	Terminal []S

	// Success is the subset of Terminal that counts as success.
	// Every other terminal status is a terminal failure.
	Success []S

	// Interval is the delay between consecutive fetches.
	Interval time.Duration

	// Timeout bounds the whole poll. Zero means no bound.
	Timeout time.Duration

	// MaxAttempts bounds the number of fetches. Zero means no bound.
	MaxAttempts int
}

// Validate checks the policy is usable.
func (p Policy[S]) Validate() error {
	if len(p.Terminal) == 0 {
		return dataerrors.New(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s poll policy has no terminal statuses", p.kind()))
	}
	if p.Interval <= 0 {
		return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s poll interval must be positive", p.kind()),
			map[string]any{"interval": p.Interval.String()})
	}
	if p.Timeout < 0 || p.MaxAttempts < 0 {
		return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s poll budget cannot be negative", p.kind()),
			map[string]any{"timeout": p.Timeout.String(), "maxAttempts": p.MaxAttempts})
	}
	for _, s := range p.Success {
		if !p.IsTerminal(s) {
			return dataerrors.NewWithContext(dataerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s success status is not terminal", p.kind()),
				map[string]any{"status": fmt.Sprint(s)})
		}
	}
	return nil
}

// IsTerminal reports whether s ends polling.
func (p Policy[S]) IsTerminal(s S) bool {
	return slices.Contains(p.Terminal, s)
}

// IsSuccess reports whether s is a successful terminal status.
func (p Policy[S]) IsSuccess(s S) bool {
	return slices.Contains(p.Success, s)
}

func (p Policy[S]) kind() string {
	if p.Kind == "" {
		return "resource"
	}
	return p.Kind
}

// State is the state of a single poll operation.
type State int

const (
	// StatePolling is the initial state: the resource has not reached a terminal status.
	StatePolling State = iota
	// StateTerminated is absorbing: a terminal status was observed.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePolling:
		return "POLLING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the result of one poll operation.
// On error it holds the last observed status and the work done so far.
type Outcome[S comparable] struct {
	Target    string   `json:"target" yaml:"target"`
	Kind      string   `json:"kind" yaml:"kind"`
	State     State    `json:"-" yaml:"-"`
	Status    S        `json:"status" yaml:"status"`
	Succeeded bool     `json:"succeeded" yaml:"succeeded"`
	Attempts  int      `json:"attempts" yaml:"attempts"`
	Waits     int      `json:"waits" yaml:"waits"`
	Elapsed   Duration `json:"elapsed" yaml:"elapsed"`
}

// Duration is a time.Duration written as a duration string such as "2m30s".
type Duration time.Duration

// String returns the duration string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Terminated reports whether the outcome carries a terminal status.
func (o Outcome[S]) Terminated() bool {
	return o.State == StateTerminated
}
