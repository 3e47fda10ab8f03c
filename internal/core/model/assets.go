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

// Package model defines the data structures shared across the generation
// pipeline: library assets, timeline placements, attachments, generation
// modes, and the transfer objects that flow through the command chain.
//
// These types are deliberately plain. They carry no behavior beyond small
// derivation helpers so that the services package can treat them as values
// and the REST layer can marshal them directly.
package model

// AssetType identifies the media category of a library asset.
type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeVideo AssetType = "video"
	AssetTypeAudio AssetType = "audio"
)

// DefaultImageDurationSeconds is the timeline duration assigned to still
// images, which have no intrinsic runtime of their own.
const DefaultImageDurationSeconds = 5.0

// MediaAsset is a single entry in the asset library. Assets are created on
// successful generation or manual import and are immutable afterwards except
// for the edit-selection flag and the lazily resolved duration.
//
// Bytes and LocalPath are server-side conveniences and never serialized:
// Bytes feeds follow-up generations (edit, extension) without a re-read, and
// LocalPath points at the scratch-store file backing Url.
type MediaAsset struct {
	Id              string    `json:"id"`
	Type            AssetType `json:"type"`
	Url             string    `json:"url"`
	MimeType        string    `json:"mimeType,omitempty"`
	Prompt          string    `json:"prompt,omitempty"`
	Duration        float64   `json:"duration,omitempty"` // seconds, 0 = not yet resolved
	ParentAssetId   string    `json:"parentAssetId,omitempty"`
	SelectedForEdit bool      `json:"selectedForEdit"`
	Bytes           []byte    `json:"-"`
	LocalPath       string    `json:"-"`
}

// TimelineAsset is one placement of a library asset on the timeline. The
// placement has its own identity so a single source asset can appear more
// than once. The embedded asset's Duration is always resolved (> 0) by the
// time a placement exists.
type TimelineAsset struct {
	MediaAsset
	TimelineId string  `json:"timelineId"`
	StartTime  float64 `json:"startTime"`
	TrimStart  float64 `json:"trimStart"`
	TrimEnd    float64 `json:"trimEnd"`
}

// End returns the exclusive end offset of the placement on the track,
// ignoring trims. Used for the append-after-latest drop policy.
func (t *TimelineAsset) End() float64 {
	return t.StartTime + t.Duration
}

// TimelineUpdate is a partial mutation of an existing placement. Nil fields
// are left untouched.
type TimelineUpdate struct {
	StartTime *float64 `json:"startTime,omitempty"`
	TrimStart *float64 `json:"trimStart,omitempty"`
	TrimEnd   *float64 `json:"trimEnd,omitempty"`
}

// AttachedFile is an image the user attached to the pending submission. It
// is transient: the attachment list is cleared, and each preview url
// released, when the submission completes or fails.
type AttachedFile struct {
	Id       string    `json:"id"`
	Type     AssetType `json:"type"`
	MimeType string    `json:"mimeType"`
	Base64   string    `json:"base64,omitempty"`
	Url      string    `json:"url"`
	Bytes    []byte    `json:"-"`
}

// AspectRatio is the requested output shape for image and video synthesis.
type AspectRatio string

const (
	AspectSquare         AspectRatio = "1:1"
	AspectLandscape      AspectRatio = "16:9"
	AspectPortrait       AspectRatio = "9:16"
	AspectClassic        AspectRatio = "4:3"
	AspectClassicUpright AspectRatio = "3:4"
)

// AspectRatios returns the closed set of supported ratios, in display order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectSquare, AspectLandscape, AspectPortrait, AspectClassic, AspectClassicUpright}
}

// Valid reports whether the ratio is one of the supported presets.
func (a AspectRatio) Valid() bool {
	for _, r := range AspectRatios() {
		if a == r {
			return true
		}
	}
	return false
}

// Voice is a named text-to-speech voice preset.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"
)

// Voices returns the closed set of supported voice presets.
func Voices() []Voice {
	return []Voice{VoiceKore, VoicePuck, VoiceCharon, VoiceFenrir, VoiceZephyr}
}

// Valid reports whether the voice is one of the supported presets.
func (v Voice) Valid() bool {
	for _, p := range Voices() {
		if v == p {
			return true
		}
	}
	return false
}
