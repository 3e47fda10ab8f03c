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

// This file tests the timeline ordering, drop handling, and trim rules.
package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	test "github.com/jaycherian/gcp-go-media-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestTimeline(prober *test.FakeProber) (*services.Library, *services.Timeline) {
	library := services.NewLibrary(prober)
	return library, services.NewTimeline(library, prober)
}

func imageAsset(id string) *model.MediaAsset {
	return &model.MediaAsset{Id: id, Type: model.AssetTypeImage, Url: "/assets/" + id + ".png"}
}

// TestTimelineSortedAfterEveryMutation verifies that the sequence is
// ordered by start time after placements, moves, and removals, regardless
// of insertion order.
func TestTimelineSortedAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	_, timeline := newTestTimeline(&test.FakeProber{Duration: 10})

	// Place out of order.
	starts := []float64{30, 5, 20, 0, 12}
	for i, s := range starts {
		_, err := timeline.PlaceAsset(ctx, imageAsset(fmt.Sprintf("a%d", i)), s)
		assert.NoError(t, err)
	}
	assertOrdered(t, timeline)

	// Move the first placement past the last.
	placements := timeline.Placements()
	newStart := 99.0
	err := timeline.Update(placements[0].TimelineId, model.TimelineUpdate{StartTime: &newStart})
	assert.NoError(t, err)
	assertOrdered(t, timeline)

	// Remove from the middle.
	placements = timeline.Placements()
	assert.NoError(t, timeline.Remove(placements[2].TimelineId))
	assertOrdered(t, timeline)
	assert.Equal(t, 4, len(timeline.Placements()))
}

func assertOrdered(t *testing.T, timeline *services.Timeline) {
	t.Helper()
	placements := timeline.Placements()
	for i := 1; i < len(placements); i++ {
		assert.LessOrEqual(t, placements[i-1].StartTime, placements[i].StartTime)
	}
}

// TestTimelinePlacementIdentity verifies that the same source asset can be
// placed twice and each placement carries its own identity.
func TestTimelinePlacementIdentity(t *testing.T) {
	ctx := context.Background()
	_, timeline := newTestTimeline(&test.FakeProber{Duration: 10})

	src := model.GetExampleImageAsset()
	first, err := timeline.PlaceAsset(ctx, src, 0)
	assert.NoError(t, err)
	second, err := timeline.PlaceAsset(ctx, src, 10)
	assert.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.NotEqual(t, first.TimelineId, second.TimelineId)
}

// TestTimelineFailedProbeLeavesSequenceUntouched verifies that a video
// whose duration cannot be resolved is rejected without a placement.
func TestTimelineFailedProbeLeavesSequenceUntouched(t *testing.T) {
	ctx := context.Background()
	_, timeline := newTestTimeline(&test.FakeProber{Err: errors.New("no stream info")})

	video := &model.MediaAsset{
		Id:        "v1",
		Type:      model.AssetTypeVideo,
		LocalPath: "/tmp/missing.mp4",
	}
	_, err := timeline.PlaceAsset(ctx, video, 0)
	assert.Error(t, err)
	assert.Equal(t, 0, len(timeline.Placements()))
}

// TestTimelineDrop covers the drag/drop path: a well-formed payload places
// the asset, a payload without a drop position appends after the latest
// occupied interval, and a malformed payload is ignored without an error.
func TestTimelineDrop(t *testing.T) {
	ctx := context.Background()
	library, timeline := newTestTimeline(&test.FakeProber{Duration: 10})

	asset := imageAsset("lib1")
	assert.NoError(t, library.Add(ctx, asset))

	// Explicit drop position.
	at := 3.0
	placement, err := timeline.HandleDrop(ctx, []byte(`{"type":"libraryAsset","assetId":"lib1"}`), &at)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, placement.StartTime)
	assert.Equal(t, model.DefaultImageDurationSeconds, placement.Duration)

	// No position: appended after the latest end (3 + 5).
	placement, err = timeline.HandleDrop(ctx, []byte(`{"type":"libraryAsset","assetId":"lib1"}`), nil)
	assert.NoError(t, err)
	assert.Equal(t, 8.0, placement.StartTime)

	// Malformed payloads reject the drop quietly.
	for _, payload := range []string{
		`not json at all`,
		`{"type":"somethingElse","assetId":"lib1"}`,
		`{"type":"libraryAsset"}`,
	} {
		placement, err = timeline.HandleDrop(ctx, []byte(payload), nil)
		assert.NoError(t, err)
		assert.Nil(t, placement)
	}
	assert.Equal(t, 2, len(timeline.Placements()))

	// A well-formed payload for an unknown asset is a real error.
	_, err = timeline.HandleDrop(ctx, []byte(`{"type":"libraryAsset","assetId":"ghost"}`), nil)
	assert.Error(t, err)
}

// TestTimelineUpdateTrims verifies the trim bounds: non-negative offsets
// and trimStart+trimEnd within the resolved duration.
func TestTimelineUpdateTrims(t *testing.T) {
	ctx := context.Background()
	_, timeline := newTestTimeline(&test.FakeProber{Duration: 10})

	video := &model.MediaAsset{
		Id:        "v1",
		Type:      model.AssetTypeVideo,
		LocalPath: "/tmp/clip.mp4",
	}
	placement, err := timeline.PlaceAsset(ctx, video, 0)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, placement.Duration)

	ts, te := 4.0, 6.0
	assert.NoError(t, timeline.Update(placement.TimelineId, model.TimelineUpdate{TrimStart: &ts, TrimEnd: &te}))

	// One more second of trim exceeds the duration.
	over := 7.0
	assert.Error(t, timeline.Update(placement.TimelineId, model.TimelineUpdate{TrimEnd: &over}))

	negative := -1.0
	assert.Error(t, timeline.Update(placement.TimelineId, model.TimelineUpdate{StartTime: &negative}))
	assert.Error(t, timeline.Update("ghost", model.TimelineUpdate{StartTime: &ts}))

	// The failed updates left the placement unchanged.
	current := timeline.Placements()[0]
	assert.Equal(t, 4.0, current.TrimStart)
	assert.Equal(t, 6.0, current.TrimEnd)
	assert.Equal(t, 0.0, current.StartTime)
}
