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

// This file tests the attachment list and its preview release accounting.
package services_test

import (
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttachments(t *testing.T) (*services.Attachments, *media.Store) {
	t.Helper()
	store, err := media.NewStore(t.TempDir(), "http://localhost/assets")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return services.NewAttachments(store), store
}

// TestAttachmentsAdd verifies that image bytes are accepted with a sniffed
// mime type and a preview url, and that non-image payloads are rejected.
func TestAttachmentsAdd(t *testing.T) {
	attachments, store := newTestAttachments(t)

	file, err := attachments.Add(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, model.AssetTypeImage, file.Type)
	assert.Equal(t, "image/png", file.MimeType)
	assert.NotEmpty(t, file.Base64)
	assert.NotEmpty(t, file.Url)
	assert.Equal(t, 1, attachments.Count())
	assert.Equal(t, 1, store.OpenCount())

	_, err = attachments.Add([]byte("plain text, not an image"))
	assert.Error(t, err)
	assert.Equal(t, 1, attachments.Count())
}

// TestAttachmentsRemove verifies that removal releases the preview object
// and that removing an unknown id is an error.
func TestAttachmentsRemove(t *testing.T) {
	attachments, store := newTestAttachments(t)

	file, err := attachments.Add(pngBytes)
	require.NoError(t, err)

	require.NoError(t, attachments.Remove(file.Id))
	assert.Equal(t, 0, attachments.Count())
	assert.Equal(t, 0, store.OpenCount())

	assert.Error(t, attachments.Remove(file.Id))
}

// TestAttachmentsClear verifies that clearing releases every preview.
func TestAttachmentsClear(t *testing.T) {
	attachments, store := newTestAttachments(t)

	for i := 0; i < 3; i++ {
		_, err := attachments.Add(pngBytes)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.OpenCount())

	attachments.Clear()
	assert.Equal(t, 0, attachments.Count())
	assert.Equal(t, 0, store.OpenCount())
}

// TestAttachmentsSnapshot verifies that the snapshot is insulated from
// later mutations of the list.
func TestAttachmentsSnapshot(t *testing.T) {
	attachments, _ := newTestAttachments(t)

	file, err := attachments.Add(pngBytes)
	require.NoError(t, err)

	snapshot := attachments.Snapshot()
	require.Equal(t, 1, len(snapshot))

	require.NoError(t, attachments.Remove(file.Id))
	assert.Equal(t, 1, len(snapshot))
	assert.Equal(t, file.Id, snapshot[0].Id)
}
