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

// This file validates that the attached and selected inputs satisfy the
// arity requirements of a generation mode, before any dispatch is allowed.

package services

import "github.com/jaycherian/gcp-go-media-studio/internal/core/model"

// Validation messages surfaced to the user when a mode's input requirements
// are not met.
const (
	MsgAtLeastTwoImages     = "Requires at least 2 images."
	MsgExactlyOneImage      = "Requires exactly 1 image."
	MsgOneToThreeImages     = "Requires 1-3 images."
	MsgSelectedAndAttached  = "Requires 1 selected asset and 1 attached image."
	MsgSelectedVideoOnly    = "Requires a selected video asset only."
)

// ValidateConstraints computes the arity verdict for a mode given the
// attachment count and whether an active asset is selected. currentCount is
// the attachment count plus one when an active asset exists.
//
// Validity is a double gate: currentCount must not exceed the mode's image
// capacity, and the mode's own input condition must hold. Both checks are
// evaluated independently, so a verdict can be invalid on the count bound
// even when the condition message reports a different problem.
func ValidateConstraints(mode model.GenerationMode, attachmentCount int, hasActiveAsset bool) model.GenerationConstraints {
	currentCount := attachmentCount
	if hasActiveAsset {
		currentCount++
	}

	out := model.GenerationConstraints{
		CurrentCount: currentCount,
		IsValid:      true,
	}

	switch mode {
	case model.ModeChat:
		out.MaxImages = 0
		out.GenerationType = model.TypeChat
	case model.ModeImage:
		out.MaxImages = 0
		out.GenerationType = model.TypeTextToImage
	case model.ModeVideo:
		out.MaxImages = 0
		out.GenerationType = model.TypeTextToVideo
	case model.ModeMultiImageComposition:
		out.MaxImages = 10
		out.GenerationType = model.TypeImageComposition
		if attachmentCount < 2 {
			out.IsValid = false
			out.ValidationMessage = MsgAtLeastTwoImages
		}
	case model.ModeEditImage:
		out.MaxImages = 1
		out.GenerationType = model.TypeImageEditing
		if currentCount != 1 {
			out.IsValid = false
			out.ValidationMessage = MsgExactlyOneImage
		}
	case model.ModeAnalyzeImage:
		out.MaxImages = 1
		out.GenerationType = model.TypeImageAnalysis
		if currentCount != 1 {
			out.IsValid = false
			out.ValidationMessage = MsgExactlyOneImage
		}
	case model.ModeVideoFromImage:
		out.MaxImages = 1
		out.GenerationType = model.TypeImageToVideo
		if currentCount != 1 {
			out.IsValid = false
			out.ValidationMessage = MsgExactlyOneImage
		}
	case model.ModeReferenceImageVideo:
		out.MaxImages = 3
		out.GenerationType = model.TypeReferenceVideo
		if attachmentCount < 1 {
			out.IsValid = false
			out.ValidationMessage = MsgOneToThreeImages
		}
	case model.ModeFrameInterpolation:
		out.MaxImages = 2
		out.GenerationType = model.TypeInterpolation
		if attachmentCount != 1 || !hasActiveAsset {
			out.IsValid = false
			out.ValidationMessage = MsgSelectedAndAttached
		}
	case model.ModeVideoExtension:
		out.MaxImages = 1
		out.GenerationType = model.TypeVideoExtension
		if !hasActiveAsset || attachmentCount != 0 {
			out.IsValid = false
			out.ValidationMessage = MsgSelectedVideoOnly
		}
	}

	// Count bound, applied on top of the per-mode condition.
	if currentCount > out.MaxImages {
		out.IsValid = false
	}

	return out
}
