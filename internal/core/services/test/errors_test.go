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

// This file tests the substring-based failure classification.
package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	"github.com/zeebo/assert"
)

// TestClassify checks every branch of the failure taxonomy, including the
// verbatim pass-through of unrecognized messages.
func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    services.ErrorKind
		wantMessage string
	}{
		{
			"safety block",
			errors.New("blocked: finish reason SAFETY"),
			services.ErrSafetyBlocked,
			"Content blocked by safety filters. Please modify your prompt.",
		},
		{
			"quota exhaustion",
			errors.New("rpc error: quota exceeded for quota metric"),
			services.ErrQuotaExceeded,
			"API quota exceeded. Please check your billing or try again later.",
		},
		{
			"stale credential",
			errors.New("googleapi: Error 404: Requested entity was not found."),
			services.ErrInvalidCredential,
			"Requested entity was not found. Please re-select your API key.",
		},
		{
			"unknown passes through verbatim",
			errors.New("boom"),
			services.ErrUnknown,
			"boom",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := services.Classify(tc.err)
			assert.Equal(t, tc.wantKind, got.Kind)
			assert.Equal(t, tc.wantMessage, got.Message)
		})
	}
}

// TestCredentialRequiredMessage pins the user-facing wording of the
// credential gate, capitalization included.
func TestCredentialRequiredMessage(t *testing.T) {
	assert.Equal(t,
		"API Key error. Please re-select your API key and try again.",
		services.ErrCredentialRequired.Error())
}

// TestClassifyNoResult verifies that a completed job with no payload maps
// onto the NoResult kind, even when wrapped.
func TestClassifyNoResult(t *testing.T) {
	got := services.Classify(services.ErrNoGenerationResult)
	assert.Equal(t, services.ErrNoResult, got.Kind)

	wrapped := fmt.Errorf("video path: %w", services.ErrNoGenerationResult)
	assert.Equal(t, services.ErrNoResult, services.Classify(wrapped).Kind)
}
