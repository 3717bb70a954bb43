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
	"fmt"
	"log/slog"
)

// Observer receives poll progress. Attempt is called once per fetch that
// returned a status; Terminal is called once when a terminal status is reached.
type Observer[S comparable] interface {
	Attempt(target string, attempt int, status S)
	Terminal(outcome Outcome[S])
}

// LogObserver logs poll progress through slog.
// A nil Logger uses slog.Default().
type LogObserver[S comparable] struct {
	Logger *slog.Logger
}

func (l LogObserver[S]) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Attempt logs each observed status at debug level.
func (l LogObserver[S]) Attempt(target string, attempt int, status S) {
	l.logger().Debug("polled resource status",
		"target", target,
		"attempt", attempt,
		"status", fmt.Sprint(status))
}

// Terminal logs the terminal transition: info on success, warn on failure.
func (l LogObserver[S]) Terminal(o Outcome[S]) {
	attrs := []any{
		"kind", o.Kind,
		"target", o.Target,
		"status", fmt.Sprint(o.Status),
		"attempts", o.Attempts,
		"elapsed", o.Elapsed.String(),
	}
	if o.Succeeded {
		l.logger().Info("resource reached terminal status", attrs...)
		return
	}
	l.logger().Warn("resource reached terminal failure status", attrs...)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs[S comparable] struct {
	OnAttempt  func(target string, attempt int, status S)
	OnTerminal func(outcome Outcome[S])
}

// Attempt implements Observer.
func (f ObserverFuncs[S]) Attempt(target string, attempt int, status S) {
	if f.OnAttempt != nil {
		f.OnAttempt(target, attempt, status)
	}
}

// Terminal implements Observer.
func (f ObserverFuncs[S]) Terminal(outcome Outcome[S]) {
	if f.OnTerminal != nil {
		f.OnTerminal(outcome)
	}
}

// Observers fans out to several observers in order.
type Observers[S comparable] []Observer[S]

// Attempt implements Observer.
func (obs Observers[S]) Attempt(target string, attempt int, status S) {
	for _, o := range obs {
		o.Attempt(target, attempt, status)
	}
}

// Terminal implements Observer.
func (obs Observers[S]) Terminal(outcome Outcome[S]) {
	for _, o := range obs {
		o.Terminal(outcome)
	}
}
