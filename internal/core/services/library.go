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

// This file holds the in-memory asset library: the newest-first collection
// of generated and imported assets, and the single "active" asset selected
// for editing or extension.

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// Library is the ordered collection of media assets. Newest assets sit at
// the front. At most one asset is selected for edit at a time.
type Library struct {
	mu     sync.Mutex
	assets []*model.MediaAsset
	prober media.DurationProber
}

// NewLibrary creates an empty library. The prober resolves durations for
// imported assets that arrive without one.
func NewLibrary(prober media.DurationProber) *Library {
	return &Library{
		assets: make([]*model.MediaAsset, 0),
		prober: prober,
	}
}

// Add prepends an asset to the library and clears any existing edit
// selection so the surface shows the newcomer unencumbered. Assets arriving
// without a resolved duration are probed when a local file backs them.
func (l *Library) Add(ctx context.Context, asset *model.MediaAsset) error {
	if asset.Duration == 0 {
		if asset.Type == model.AssetTypeImage {
			asset.Duration = model.DefaultImageDurationSeconds
		} else if asset.LocalPath != "" {
			duration, err := l.prober.Probe(ctx, asset.LocalPath, asset.Type)
			if err != nil {
				return fmt.Errorf("failed to resolve duration for asset %s: %w", asset.Id, err)
			}
			asset.Duration = duration
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.assets {
		a.SelectedForEdit = false
	}
	l.assets = append([]*model.MediaAsset{asset}, l.assets...)
	return nil
}

// Get returns the asset with the given id, or an error when absent.
func (l *Library) Get(id string) (*model.MediaAsset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.assets {
		if a.Id == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("asset %s not found in library", id)
}

// List returns the assets newest first.
func (l *Library) List() []*model.MediaAsset {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*model.MediaAsset, len(l.assets))
	copy(out, l.assets)
	return out
}

// Select toggles the edit selection of the given asset. Selecting an asset
// deselects every other one; selecting an already selected asset clears the
// selection entirely.
func (l *Library) Select(id string) (*model.MediaAsset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var target *model.MediaAsset
	for _, a := range l.assets {
		if a.Id == id {
			target = a
		}
	}
	if target == nil {
		return nil, fmt.Errorf("asset %s not found in library", id)
	}

	wasSelected := target.SelectedForEdit
	for _, a := range l.assets {
		a.SelectedForEdit = false
	}
	if !wasSelected {
		target.SelectedForEdit = true
		return target, nil
	}
	return nil, nil
}

// ClearSelection removes any edit selection.
func (l *Library) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.assets {
		a.SelectedForEdit = false
	}
}

// Active returns the asset currently selected for edit, or nil.
func (l *Library) Active() *model.MediaAsset {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.assets {
		if a.SelectedForEdit {
			return a
		}
	}
	return nil
}
