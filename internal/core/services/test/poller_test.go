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

// This file tests the long-running job poll loop.
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	test "github.com/jaycherian/gcp-go-media-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// TestPollerAwaitsUntilDone verifies that the poller checks the completion
// flag before each status request and issues exactly as many status calls
// as it takes for the job to report done.
func TestPollerAwaitsUntilDone(t *testing.T) {
	backend := &test.FakeBackend{PollsUntilDone: 3, VideoRef: "files/output-42"}
	poller := services.NewJobPoller(backend, time.Millisecond, 0)

	job, err := backend.SubmitVideo(context.Background(), services.VideoJobSpec{Prompt: "a dog on a beach"})
	assert.NoError(t, err)
	assert.False(t, job.Done())

	ref, err := poller.Await(context.Background(), job)
	assert.NoError(t, err)
	assert.Equal(t, "files/output-42", ref)
	assert.Equal(t, 3, backend.PollCalls)
}

// TestPollerImmediateCompletion verifies that a job already done on
// submission produces its reference without any status calls.
func TestPollerImmediateCompletion(t *testing.T) {
	backend := &test.FakeBackend{PollsUntilDone: 0, VideoRef: "files/output-1"}
	poller := services.NewJobPoller(backend, time.Millisecond, 0)

	job, err := backend.SubmitVideo(context.Background(), services.VideoJobSpec{Prompt: "p"})
	assert.NoError(t, err)

	ref, err := poller.Await(context.Background(), job)
	assert.NoError(t, err)
	assert.Equal(t, "files/output-1", ref)
	assert.Equal(t, 0, backend.PollCalls)
}

// TestPollerNoResult verifies that completion without an output reference
// is a generation failure, not a success with an empty payload.
func TestPollerNoResult(t *testing.T) {
	backend := &test.FakeBackend{PollsUntilDone: 1, VideoRef: ""}
	poller := services.NewJobPoller(backend, time.Millisecond, 0)

	job, err := backend.SubmitVideo(context.Background(), services.VideoJobSpec{Prompt: "p"})
	assert.NoError(t, err)

	_, err = poller.Await(context.Background(), job)
	assert.ErrorIs(t, err, services.ErrNoGenerationResult)
}

// TestPollerTransportFailure verifies that a failed status request
// propagates as-is.
func TestPollerTransportFailure(t *testing.T) {
	backend := &test.FakeBackend{PollsUntilDone: 2, PollErr: errors.New("connection reset")}
	poller := services.NewJobPoller(backend, time.Millisecond, 0)

	job, err := backend.SubmitVideo(context.Background(), services.VideoJobSpec{Prompt: "p"})
	assert.NoError(t, err)

	_, err = poller.Await(context.Background(), job)
	assert.EqualError(t, err, "connection reset")
}

// TestPollerCancellation verifies that a cancelled context stops the loop
// for a job that never completes.
func TestPollerCancellation(t *testing.T) {
	backend := &test.FakeBackend{PollsUntilDone: 1 << 30}
	poller := services.NewJobPoller(backend, 10*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	job, err := backend.SubmitVideo(ctx, services.VideoJobSpec{Prompt: "p"})
	assert.NoError(t, err)

	cancel()
	_, err = poller.Await(ctx, job)
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestPollerMaxWait verifies the optional cap on total polling time.
func TestPollerMaxWait(t *testing.T) {
	backend := &test.FakeBackend{PollsUntilDone: 1 << 30}
	poller := services.NewJobPoller(backend, 5*time.Millisecond, 25*time.Millisecond)

	job, err := backend.SubmitVideo(context.Background(), services.VideoJobSpec{Prompt: "p"})
	assert.NoError(t, err)

	_, err = poller.Await(context.Background(), job)
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
