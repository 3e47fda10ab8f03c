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

// This file tests the arity validation policy for every generation mode.
package services_test

import (
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	"github.com/stretchr/testify/assert"
)

// TestValidateConstraintsPolicy covers the policy table: capacity, the
// per-mode input condition, and the message shown when the condition fails.
func TestValidateConstraintsPolicy(t *testing.T) {
	tests := []struct {
		name        string
		mode        model.GenerationMode
		attachments int
		hasActive   bool
		wantValid   bool
		wantMessage string
		wantMax     int
	}{
		{"chat with no inputs", model.ModeChat, 0, false, true, "", 0},
		{"chat rejects attachments via the count bound", model.ModeChat, 1, false, false, "", 0},
		{"image generation takes no inputs", model.ModeImage, 0, false, true, "", 0},
		{"text-to-video takes no inputs", model.ModeVideo, 0, false, true, "", 0},

		{"composition requires two images", model.ModeMultiImageComposition, 1, false, false, services.MsgAtLeastTwoImages, 10},
		{"composition with two images", model.ModeMultiImageComposition, 2, false, true, "", 10},
		{"composition at capacity", model.ModeMultiImageComposition, 10, false, true, "", 10},

		{"edit requires exactly one input", model.ModeEditImage, 0, false, false, services.MsgExactlyOneImage, 1},
		{"edit with a selected asset", model.ModeEditImage, 0, true, true, "", 1},
		{"edit with an attachment", model.ModeEditImage, 1, false, true, "", 1},
		{"edit with both inputs overflows", model.ModeEditImage, 1, true, false, services.MsgExactlyOneImage, 1},

		{"analysis requires exactly one input", model.ModeAnalyzeImage, 0, false, false, services.MsgExactlyOneImage, 1},
		{"analysis with one attachment", model.ModeAnalyzeImage, 1, false, true, "", 1},

		{"image-to-video requires one image", model.ModeVideoFromImage, 0, false, false, services.MsgExactlyOneImage, 1},
		{"image-to-video with one attachment", model.ModeVideoFromImage, 1, false, true, "", 1},

		{"reference video requires an attachment", model.ModeReferenceImageVideo, 0, false, false, services.MsgOneToThreeImages, 3},
		{"reference video with three attachments", model.ModeReferenceImageVideo, 3, false, true, "", 3},
		{"reference video over capacity", model.ModeReferenceImageVideo, 4, false, false, "", 3},

		{"interpolation requires selection and attachment", model.ModeFrameInterpolation, 1, false, false, services.MsgSelectedAndAttached, 2},
		{"interpolation satisfied", model.ModeFrameInterpolation, 1, true, true, "", 2},
		{"interpolation with two attachments", model.ModeFrameInterpolation, 2, true, false, services.MsgSelectedAndAttached, 2},

		{"extension requires a selected video only", model.ModeVideoExtension, 0, false, false, services.MsgSelectedVideoOnly, 1},
		{"extension satisfied", model.ModeVideoExtension, 0, true, true, "", 1},
		{"extension rejects attachments", model.ModeVideoExtension, 1, true, false, services.MsgSelectedVideoOnly, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := services.ValidateConstraints(tc.mode, tc.attachments, tc.hasActive)
			assert.Equal(t, tc.wantValid, got.IsValid)
			assert.Equal(t, tc.wantMessage, got.ValidationMessage)
			assert.Equal(t, tc.wantMax, got.MaxImages)
		})
	}
}

// TestValidateConstraintsCountBound verifies that the count bound is
// enforced independently of the per-mode condition: a valid condition can
// still be rejected by the capacity check, and an invalid verdict never
// flips back to valid as inputs grow.
func TestValidateConstraintsCountBound(t *testing.T) {
	// Composition condition holds at 11 attachments, but the capacity of
	// 10 does not.
	got := services.ValidateConstraints(model.ModeMultiImageComposition, 11, false)
	assert.False(t, got.IsValid)
	assert.Equal(t, "", got.ValidationMessage)

	// Once over capacity, adding more attachments never restores validity.
	for count := 11; count <= 20; count++ {
		verdict := services.ValidateConstraints(model.ModeMultiImageComposition, count, false)
		assert.False(t, verdict.IsValid, "count %d should stay invalid", count)
	}
}

// TestValidateConstraintsCurrentCount verifies that the reported count is
// the attachment count plus one when an asset is selected.
func TestValidateConstraintsCurrentCount(t *testing.T) {
	got := services.ValidateConstraints(model.ModeFrameInterpolation, 1, true)
	assert.Equal(t, 2, got.CurrentCount)
	assert.Equal(t, model.TypeInterpolation, got.GenerationType)
}
