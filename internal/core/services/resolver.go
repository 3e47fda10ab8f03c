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

// Package services implements the generation-orchestration engine: mode
// resolution, constraint validation, backend dispatch, job polling, failure
// classification, the asset library, and the timeline. The functions in this
// file resolve user intent plus input state into a single generation mode.
package services

import "github.com/jaycherian/gcp-go-media-studio/internal/core/model"

// ResolveMode maps the explicit mode override, the attachment count, and the
// active asset's type ("" when none is selected) onto one concrete
// generation mode. It is pure and total: callers re-invoke it on every
// change to any of its inputs.
//
// Priority order, first match wins:
//  1. an explicit non-chat override is returned verbatim
//  2. active video asset selects video extension
//  3. active asset plus attachments selects frame interpolation
//  4. active asset alone selects image editing
//  5. two or more attachments select reference-image video
//  6. a single attachment selects image-conditioned video
//  7. otherwise plain chat
func ResolveMode(explicit model.GenerationMode, attachmentCount int, activeType model.AssetType) model.GenerationMode {
	if explicit != model.ModeChat {
		return explicit
	}
	hasActive := activeType != ""
	switch {
	case hasActive && activeType == model.AssetTypeVideo:
		return model.ModeVideoExtension
	case hasActive && attachmentCount > 0:
		return model.ModeFrameInterpolation
	case hasActive:
		return model.ModeEditImage
	case attachmentCount >= 2:
		return model.ModeReferenceImageVideo
	case attachmentCount == 1:
		return model.ModeVideoFromImage
	default:
		return model.ModeChat
	}
}
