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
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	dataerrors "github.com/NVIDIA/dataeng-lifecycle/pkg/errors"
)

// Poller fetches the status of a remote resource until it is terminal.
// A Poller holds no per-poll state and may run any number of polls concurrently.
type Poller[S comparable] struct {
	// Policy controls the terminal set, interval and budgets.
	Policy Policy[S]

	// Clock provides timers. If nil, the real clock is used.
	Clock clock.Clock

	// Observer receives progress. If nil, progress is logged through slog.
	Observer Observer[S]
}

// Option configures a Poller.
type Option[S comparable] func(*Poller[S])

// WithClock sets the clock used for intervals and the timeout.
func WithClock[S comparable](c clock.Clock) Option[S] {
	return func(p *Poller[S]) {
		p.Clock = c
	}
}

// WithObserver sets the progress observer.
func WithObserver[S comparable](o Observer[S]) Option[S] {
	return func(p *Poller[S]) {
		p.Observer = o
	}
}

// New returns a Poller for the given policy.
func New[S comparable](policy Policy[S], opts ...Option[S]) *Poller[S] {
	p := &Poller[S]{Policy: policy}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll runs one poll with the given policy using the real clock and the
// default log observer.
func Poll[S comparable](ctx context.Context, target string, fetch FetchFunc[S], policy Policy[S]) (Outcome[S], error) {
	return New(policy).Poll(ctx, target, fetch)
}

func (p *Poller[S]) clock() clock.Clock {
	if p.Clock == nil {
		return clock.RealClock{}
	}
	return p.Clock
}

func (p *Poller[S]) observer() Observer[S] {
	if p.Observer == nil {
		return LogObserver[S]{}
	}
	return p.Observer
}

// Poll fetches the status of target until it is terminal.
//
// The first fetch is immediate. A terminal status returns at once without a
// trailing wait; otherwise Poll waits exactly one interval and fetches again.
// Reaching a terminal failure status is a normal return with
// Outcome.Succeeded == false. Errors are returned only when the fetch fails,
// ctx is done, or the optional timeout or attempt budget runs out; the
// returned Outcome then holds the last observed status.
func (p *Poller[S]) Poll(ctx context.Context, target string, fetch FetchFunc[S]) (Outcome[S], error) {
	out := Outcome[S]{
		Target: target,
		Kind:   p.Policy.kind(),
		State:  StatePolling,
	}
	if err := p.Policy.Validate(); err != nil {
		return out, err
	}
	if fetch == nil {
		return out, dataerrors.New(dataerrors.ErrCodeInvalidRequest, "status fetch function is required")
	}

	clk := p.clock()
	obs := p.observer()
	start := clk.Now()

	pollsInFlight.WithLabelValues(out.Kind).Inc()
	defer pollsInFlight.WithLabelValues(out.Kind).Dec()

	finish := func(result string, err error) (Outcome[S], error) {
		out.Elapsed = Duration(clk.Since(start))
		pollOutcomesTotal.WithLabelValues(out.Kind, result).Inc()
		pollDuration.WithLabelValues(out.Kind).Observe(time.Duration(out.Elapsed).Seconds())
		return out, err
	}

	var deadline <-chan time.Time
	if p.Policy.Timeout > 0 {
		dt := clk.NewTimer(p.Policy.Timeout)
		defer dt.Stop()
		deadline = dt.C()
	}

	for out.State == StatePolling {
		// Cancellation and the deadline are checked before every fetch.
		if err := ctx.Err(); err != nil {
			return finish(resultCanceled, canceledError(out, err))
		}
		select {
		case <-deadline:
			return finish(resultTimeout, timeoutError(out, ErrTimeout))
		default:
		}

		out.Attempts++
		pollAttemptsTotal.WithLabelValues(out.Kind).Inc()

		status, err := fetch(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return finish(resultCanceled, canceledError(out, ctxErr))
			}
			return finish(resultTransport, transportError(out, err))
		}

		out.Status = status
		obs.Attempt(target, out.Attempts, status)

		if p.Policy.IsTerminal(status) {
			out.State = StateTerminated
			break
		}

		if p.Policy.MaxAttempts > 0 && out.Attempts >= p.Policy.MaxAttempts {
			return finish(resultTimeout, timeoutError(out, ErrMaxAttempts))
		}

		if err := p.wait(ctx, clk, deadline); err != nil {
			if errors.Is(err, ErrTimeout) {
				return finish(resultTimeout, timeoutError(out, ErrTimeout))
			}
			return finish(resultCanceled, canceledError(out, err))
		}
		out.Waits++
	}

	out.Succeeded = p.Policy.IsSuccess(out.Status)
	out.Elapsed = Duration(clk.Since(start))
	obs.Terminal(out)

	result := resultFailure
	if out.Succeeded {
		result = resultSuccess
	}
	return finish(result, nil)
}

// wait blocks for one interval. It returns ctx.Err() when ctx is done first
// and ErrTimeout when the deadline fires first.
func (p *Poller[S]) wait(ctx context.Context, clk clock.Clock, deadline <-chan time.Time) error {
	t := clk.NewTimer(p.Policy.Interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-deadline:
		return ErrTimeout
	case <-t.C():
		return nil
	}
}

// PollAll polls several independent targets concurrently with the same policy.
// The first error cancels the remaining polls. Outcomes are returned for every
// target that was polled, including those that ended in error.
func (p *Poller[S]) PollAll(ctx context.Context, targets map[string]FetchFunc[S]) (map[string]Outcome[S], error) {
	var mu sync.Mutex
	results := make(map[string]Outcome[S], len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for target, fetch := range targets {
		g.Go(func() error {
			out, err := p.Poll(gctx, target, fetch)
			mu.Lock()
			results[target] = out
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	return results, err
}
