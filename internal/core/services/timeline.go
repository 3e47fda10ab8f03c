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

// This file maintains the ordered track of placed assets. The sequence is
// re-sorted by start time after every mutation, placements carry their own
// identity so one source asset can appear multiple times, and trims are
// non-destructive bounds validated against the resolved duration.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// dropPayload is the serialized object carried by the drag/drop transfer
// channel from the library to the timeline.
type dropPayload struct {
	Type    string `json:"type"`
	AssetId string `json:"assetId"`
}

const dropPayloadType = "libraryAsset"

// Timeline is the ordered sequence of placements.
type Timeline struct {
	mu         sync.Mutex
	placements []*model.TimelineAsset
	library    *Library
	prober     media.DurationProber
}

// NewTimeline creates an empty timeline. The library resolves drop payloads
// to source assets and the prober resolves unknown durations before a
// placement is created.
func NewTimeline(library *Library, prober media.DurationProber) *Timeline {
	return &Timeline{
		placements: make([]*model.TimelineAsset, 0),
		library:    library,
		prober:     prober,
	}
}

// PlaceAsset creates a placement of the source asset at startTime, with
// trim bounds zeroed and a fresh placement identity. The source's duration
// must be resolved first; a drop whose duration cannot be determined is
// rejected without touching the sequence.
func (t *Timeline) PlaceAsset(ctx context.Context, src *model.MediaAsset, startTime float64) (*model.TimelineAsset, error) {
	if startTime < 0 {
		return nil, fmt.Errorf("start time must not be negative")
	}

	duration := src.Duration
	if duration == 0 {
		if src.Type == model.AssetTypeImage {
			duration = model.DefaultImageDurationSeconds
		} else {
			if src.LocalPath == "" {
				return nil, fmt.Errorf("asset %s has no local file to probe for duration", src.Id)
			}
			probed, err := t.prober.Probe(ctx, src.LocalPath, src.Type)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve duration for asset %s: %w", src.Id, err)
			}
			duration = probed
		}
		src.Duration = duration
	}

	placement := &model.TimelineAsset{
		MediaAsset: *src,
		TimelineId: uuid.New().String(),
		StartTime:  startTime,
	}
	placement.Duration = duration

	t.mu.Lock()
	defer t.mu.Unlock()
	t.placements = append(t.placements, placement)
	t.resort()
	return placement, nil
}

// HandleDrop resolves a drag/drop payload to a library asset and places it.
// When dropTime is nil the placement is appended immediately after the
// latest occupied interval, so auto-appends never overlap. A malformed
// payload rejects the drop quietly; a failed duration resolution is a real
// error.
func (t *Timeline) HandleDrop(ctx context.Context, payload []byte, dropTime *float64) (*model.TimelineAsset, error) {
	var drop dropPayload
	if err := json.Unmarshal(payload, &drop); err != nil || drop.Type != dropPayloadType || drop.AssetId == "" {
		slog.Warn("ignoring malformed timeline drop payload", "payload", string(payload))
		return nil, nil
	}

	asset, err := t.library.Get(drop.AssetId)
	if err != nil {
		return nil, err
	}

	start := 0.0
	if dropTime != nil {
		start = *dropTime
	} else {
		start = t.NextFreeStart()
	}
	return t.PlaceAsset(ctx, asset, start)
}

// NextFreeStart returns the earliest offset after every existing placement,
// or 0 for an empty timeline.
func (t *Timeline) NextFreeStart() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	latest := 0.0
	for _, p := range t.placements {
		if end := p.End(); end > latest {
			latest = end
		}
	}
	return latest
}

// Update merges the non-nil fields of the update into the matching
// placement, validates the trim bounds against the duration, and re-sorts.
func (t *Timeline) Update(timelineId string, update model.TimelineUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	placement := t.find(timelineId)
	if placement == nil {
		return fmt.Errorf("placement %s not found", timelineId)
	}

	startTime := placement.StartTime
	trimStart := placement.TrimStart
	trimEnd := placement.TrimEnd
	if update.StartTime != nil {
		startTime = *update.StartTime
	}
	if update.TrimStart != nil {
		trimStart = *update.TrimStart
	}
	if update.TrimEnd != nil {
		trimEnd = *update.TrimEnd
	}

	if startTime < 0 || trimStart < 0 || trimEnd < 0 {
		return fmt.Errorf("placement offsets must not be negative")
	}
	if trimStart+trimEnd > placement.Duration {
		return fmt.Errorf("trims exceed the placement duration of %.2fs", placement.Duration)
	}

	placement.StartTime = startTime
	placement.TrimStart = trimStart
	placement.TrimEnd = trimEnd
	t.resort()
	return nil
}

// Remove deletes the matching placement. The source library asset is
// unaffected.
func (t *Timeline) Remove(timelineId string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, p := range t.placements {
		if p.TimelineId == timelineId {
			t.placements = append(t.placements[:i], t.placements[i+1:]...)
			t.resort()
			return nil
		}
	}
	return fmt.Errorf("placement %s not found", timelineId)
}

// Placements returns the sequence in track order.
func (t *Timeline) Placements() []*model.TimelineAsset {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*model.TimelineAsset, len(t.placements))
	copy(out, t.placements)
	return out
}

func (t *Timeline) find(timelineId string) *model.TimelineAsset {
	for _, p := range t.placements {
		if p.TimelineId == timelineId {
			return p
		}
	}
	return nil
}

// resort keeps the sequence ordered by start time ascending. Callers hold
// the lock.
func (t *Timeline) resort() {
	sort.SliceStable(t.placements, func(i, j int) bool {
		return t.placements[i].StartTime < t.placements[j].StartTime
	})
}
