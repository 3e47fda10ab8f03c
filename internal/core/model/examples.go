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

// This file provides factory functions for canonical example instances of
// the data models. They give tests a consistent, fully populated object to
// start from instead of rebuilding fixtures in every _test.go file.

package model

// GetExampleImageAsset creates a sample image MediaAsset as it would look
// right after a successful text-to-image generation.
func GetExampleImageAsset() *MediaAsset {
	return &MediaAsset{
		Id:       "asset-0001",
		Type:     AssetTypeImage,
		Url:      "http://localhost:8080/assets/asset-0001.png",
		MimeType: "image/png",
		Prompt:   "a lighthouse on a rocky coast at dusk",
		Duration: DefaultImageDurationSeconds,
	}
}

// GetExampleVideoAsset creates a sample video MediaAsset with a resolved
// duration, suitable for timeline placement and extension scenarios.
func GetExampleVideoAsset() *MediaAsset {
	return &MediaAsset{
		Id:       "asset-0002",
		Type:     AssetTypeVideo,
		Url:      "http://localhost:8080/assets/asset-0002.mp4",
		MimeType: "video/mp4",
		Prompt:   "waves rolling in under a stormy sky",
		Duration: 8,
		Bytes:    []byte("example-video-bytes"),
	}
}

// GetExampleAttachment creates a sample attached image file with an inline
// payload small enough to embed in test fixtures.
func GetExampleAttachment() *AttachedFile {
	return &AttachedFile{
		Id:       "attach-0001",
		Type:     AssetTypeImage,
		MimeType: "image/png",
		Base64:   "iVBORw0KGgo=",
		Url:      "http://localhost:8080/assets/attach-0001.png",
		Bytes:    []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	}
}

// GetExampleRequest creates a plain chat submission snapshot with no
// attachments and no active asset.
func GetExampleRequest() *GenerationRequest {
	return &GenerationRequest{
		Prompt:       "hello",
		ExplicitMode: ModeChat,
		AspectRatio:  AspectLandscape,
		Attachments:  make([]*AttachedFile, 0),
	}
}
