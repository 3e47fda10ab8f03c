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

// Package services_test contains the test suite for the services package.
// This file tests the mode resolution rules.
package services_test

import (
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	"github.com/stretchr/testify/assert"
)

// TestResolveModePriority walks the resolution rules in priority order:
// explicit override first, then active-asset rules, then attachment-count
// rules, and chat as the fallback.
func TestResolveModePriority(t *testing.T) {
	tests := []struct {
		name        string
		explicit    model.GenerationMode
		attachments int
		activeType  model.AssetType
		want        model.GenerationMode
	}{
		{"no inputs falls back to chat", model.ModeChat, 0, "", model.ModeChat},
		{"single attachment implies image-to-video", model.ModeChat, 1, "", model.ModeVideoFromImage},
		{"two attachments imply reference video", model.ModeChat, 2, "", model.ModeReferenceImageVideo},
		{"many attachments still imply reference video", model.ModeChat, 5, "", model.ModeReferenceImageVideo},
		{"active image alone implies editing", model.ModeChat, 0, model.AssetTypeImage, model.ModeEditImage},
		{"active image plus attachment implies interpolation", model.ModeChat, 1, model.AssetTypeImage, model.ModeFrameInterpolation},
		{"active video implies extension", model.ModeChat, 0, model.AssetTypeVideo, model.ModeVideoExtension},
		{"active video wins over attachments", model.ModeChat, 2, model.AssetTypeVideo, model.ModeVideoExtension},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := services.ResolveMode(tc.explicit, tc.attachments, tc.activeType)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestResolveModeFromRequest resolves a populated request snapshot: the
// bare example request is plain chat, and attaching one image moves it to
// image-to-video.
func TestResolveModeFromRequest(t *testing.T) {
	req := model.GetExampleRequest()
	got := services.ResolveMode(req.ExplicitMode, len(req.Attachments), "")
	assert.Equal(t, model.ModeChat, got)

	req.Attachments = append(req.Attachments, model.GetExampleAttachment())
	got = services.ResolveMode(req.ExplicitMode, len(req.Attachments), "")
	assert.Equal(t, model.ModeVideoFromImage, got)
}

// TestResolveModeExplicitOverride verifies that any explicit non-chat mode
// is returned verbatim regardless of the attachment and selection state.
func TestResolveModeExplicitOverride(t *testing.T) {
	for _, mode := range model.GenerationModes() {
		if mode == model.ModeChat {
			continue
		}
		// Inputs that would otherwise resolve to video extension.
		got := services.ResolveMode(mode, 2, model.AssetTypeVideo)
		assert.Equal(t, mode, got)
	}
}
