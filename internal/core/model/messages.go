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

// This file defines the generation modes, constraint verdicts, transcript
// entries, and the request/result transfer objects carried through the
// submission chain.

package model

// GenerationMode is the single selected kind of generation operation for the
// next submission. Exactly one mode is active per request.
type GenerationMode string

const (
	ModeChat                  GenerationMode = "chat"
	ModeImage                 GenerationMode = "image"
	ModeVideo                 GenerationMode = "video"
	ModeVideoFromImage        GenerationMode = "video-from-image"
	ModeEditImage             GenerationMode = "edit-image"
	ModeAnalyzeImage          GenerationMode = "analyze-image"
	ModeMultiImageComposition GenerationMode = "multi-image-composition"
	ModeReferenceImageVideo   GenerationMode = "reference-image-video"
	ModeFrameInterpolation    GenerationMode = "frame-interpolation"
	ModeVideoExtension        GenerationMode = "video-extension"
)

// GenerationModes returns every mode, in the order the surface lists them.
func GenerationModes() []GenerationMode {
	return []GenerationMode{
		ModeChat, ModeImage, ModeVideo, ModeVideoFromImage, ModeEditImage,
		ModeAnalyzeImage, ModeMultiImageComposition, ModeReferenceImageVideo,
		ModeFrameInterpolation, ModeVideoExtension,
	}
}

// IsVideo reports whether the mode produces its result through the
// long-running video job path rather than an immediate response.
func (m GenerationMode) IsVideo() bool {
	switch m {
	case ModeVideo, ModeVideoFromImage, ModeReferenceImageVideo, ModeFrameInterpolation, ModeVideoExtension:
		return true
	}
	return false
}

// GenerationType is the backend operation family behind a mode, surfaced to
// the UI alongside the constraint verdict.
type GenerationType string

const (
	TypeChat             GenerationType = "chat"
	TypeTextToImage      GenerationType = "text-to-image"
	TypeTextToVideo      GenerationType = "text-to-video"
	TypeImageToVideo     GenerationType = "image-to-video"
	TypeImageEditing     GenerationType = "image-editing"
	TypeImageAnalysis    GenerationType = "image-analysis"
	TypeImageComposition GenerationType = "multi-image-composition"
	TypeReferenceVideo   GenerationType = "reference-images-to-video"
	TypeInterpolation    GenerationType = "frame-interpolation"
	TypeVideoExtension   GenerationType = "video-extension"
)

// GenerationConstraints is the derived arity verdict for the current mode
// and input state. It is recomputed on every relevant state change and never
// stored.
type GenerationConstraints struct {
	MaxImages         int            `json:"maxImages"`
	CurrentCount      int            `json:"currentCount"`
	GenerationType    GenerationType `json:"generationType"`
	ValidationMessage string         `json:"validationMessage,omitempty"`
	IsValid           bool           `json:"isValid"`
}

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one append-only transcript entry. Entries are never mutated
// after insertion.
type ChatMessage struct {
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	MediaUrl string `json:"mediaUrl,omitempty"`
}

// InlineImage is an image payload passed inline to the backend, either as a
// generation reference or as the subject of an edit or analysis.
type InlineImage struct {
	Data     []byte
	MimeType string
}

// GenerationRequest is the immutable snapshot of user intent and input state
// taken at submission time. The resolver fills Mode from ExplicitMode and
// the attachment/active-asset state before anything else runs.
type GenerationRequest struct {
	Prompt       string
	ExplicitMode GenerationMode
	Mode         GenerationMode
	AspectRatio  AspectRatio
	Attachments  []*AttachedFile
	ActiveAsset  *MediaAsset
	ThinkingMode bool
	UseSearch    bool
}

// ActiveAssetType returns the active asset's type, or "" when none is
// selected.
func (r *GenerationRequest) ActiveAssetType() AssetType {
	if r.ActiveAsset == nil {
		return ""
	}
	return r.ActiveAsset.Type
}

// ResultKind is the payload family of a completed generation.
type ResultKind string

const (
	ResultText  ResultKind = "text"
	ResultImage ResultKind = "image"
	ResultVideo ResultKind = "video"
	ResultAudio ResultKind = "audio"
)

// AssetType maps the result payload family onto the library asset category.
// Text results have no asset representation and return "".
func (k ResultKind) AssetType() AssetType {
	switch k {
	case ResultImage:
		return AssetTypeImage
	case ResultVideo:
		return AssetTypeVideo
	case ResultAudio:
		return AssetTypeAudio
	}
	return ""
}

// GenerationResult is the artifact produced by a dispatch. Text results
// carry Text only; media results carry Bytes and MimeType, with Url filled
// in once the bytes are materialized into the scratch store.
type GenerationResult struct {
	Kind     ResultKind
	Text     string
	Bytes    []byte
	MimeType string
	Url      string
}
