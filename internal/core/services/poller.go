// Copyright 2025 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file tracks long-running video jobs to completion. The loop checks
// the completion flag before issuing each status request and blocks for the
// fixed interval between checks, so it never busy-waits. Cancellation is
// context based: the context is consulted before every status request, and
// an optional MaxWait caps the total polling time.

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultPollInterval is the fixed delay between job status checks.
const DefaultPollInterval = 5 * time.Second

// JobPoller drives a VideoJob to completion by polling at a fixed interval.
type JobPoller struct {
	backend GenerativeBackend
	// Interval between status checks. Zero means DefaultPollInterval.
	Interval time.Duration
	// MaxWait caps total polling time. Zero means no cap.
	MaxWait time.Duration
}

// NewJobPoller creates a poller over the given backend.
func NewJobPoller(backend GenerativeBackend, interval time.Duration, maxWait time.Duration) *JobPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &JobPoller{backend: backend, Interval: interval, MaxWait: maxWait}
}

// Await polls the job until it reports done, then returns its output
// reference. A job that completes without a reference is a generation
// failure (ErrNoGenerationResult); a transport failure during polling
// propagates as-is.
func (p *JobPoller) Await(ctx context.Context, job VideoJob) (string, error) {
	if p.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.MaxWait)
		defer cancel()
	}

	wait := backoff.WithContext(backoff.NewConstantBackOff(p.Interval), ctx)
	for !job.Done() {
		next := wait.NextBackOff()
		if next == backoff.Stop {
			return "", fmt.Errorf("polling cancelled: %w", ctx.Err())
		}
		timer := time.NewTimer(next)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("polling cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		updated, err := p.backend.PollVideo(ctx, job)
		if err != nil {
			return "", err
		}
		job = updated
	}

	ref := job.ResultRef()
	if ref == "" {
		return "", ErrNoGenerationResult
	}
	return ref, nil
}
