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

// This command turns generated bytes into a library asset with a locally
// addressable url. Text results pass through untouched. Media results are
// written to the scratch store, linked to their source asset for edits and
// extensions, and added to the library, which also resolves the duration
// of video output.

package commands

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// AssetMaterialize stores a media result and registers it in the library.
type AssetMaterialize struct {
	cor.BaseCommand
	library *services.Library
	store   *media.Store
}

// NewAssetMaterialize is the constructor for the AssetMaterialize command.
func NewAssetMaterialize(name string, library *services.Library, store *media.Store) *AssetMaterialize {
	return &AssetMaterialize{
		BaseCommand: *cor.NewBaseCommand(name),
		library:     library,
		store:       store,
	}
}

// Execute materializes the generation result into the library.
func (c *AssetMaterialize) Execute(context cor.Context) {
	result := context.Get(c.GetInputParam()).(*model.GenerationResult)

	if result.Kind == model.ResultText {
		context.Add(c.GetOutputParam(), result)
		return
	}

	req := context.Get(CtxGenerationRequest).(*model.GenerationRequest)

	handle, err := c.store.Put(result.Bytes, result.MimeType)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to store generated media: %w", err))
		return
	}
	result.Url = handle.Url

	asset := &model.MediaAsset{
		Id:        uuid.New().String(),
		Type:      result.Kind.AssetType(),
		Url:       handle.Url,
		MimeType:  result.MimeType,
		Prompt:    req.Prompt,
		Bytes:     result.Bytes,
		LocalPath: handle.Path,
	}
	if req.ActiveAsset != nil && (req.Mode == model.ModeEditImage || req.Mode == model.ModeVideoExtension) {
		asset.ParentAssetId = req.ActiveAsset.Id
	}

	if err := c.library.Add(context.GetContext(), asset); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxMaterializedAsset, asset)
	context.Add(c.GetOutputParam(), result)
}
