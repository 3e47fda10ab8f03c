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

// This file manages the images attached to the pending submission. Each
// attachment owns one preview object in the scratch store; the preview is
// released exactly once, either when the attachment is removed or when the
// list is cleared at the end of a submission.

package services

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// Attachments holds the files attached to the next generation request.
// Only images are accepted.
type Attachments struct {
	mu      sync.Mutex
	files   []*model.AttachedFile
	handles map[string]*media.ObjectHandle
	store   *media.Store
}

// NewAttachments creates an empty attachment list backed by the given
// scratch store.
func NewAttachments(store *media.Store) *Attachments {
	return &Attachments{
		files:   make([]*model.AttachedFile, 0),
		handles: make(map[string]*media.ObjectHandle),
		store:   store,
	}
}

// Add accepts raw image bytes, sniffs their type, stores a preview object,
// and appends the attachment. Non-image payloads are rejected.
func (s *Attachments) Add(data []byte) (*model.AttachedFile, error) {
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, fmt.Errorf("only image attachments are supported")
	}

	handle, err := s.store.Put(data, kind.MIME.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment preview: %w", err)
	}

	file := &model.AttachedFile{
		Id:       uuid.New().String(),
		Type:     model.AssetTypeImage,
		MimeType: kind.MIME.Value,
		Base64:   base64.StdEncoding.EncodeToString(data),
		Url:      handle.Url,
		Bytes:    data,
	}

	s.mu.Lock()
	s.files = append(s.files, file)
	s.handles[file.Id] = handle
	s.mu.Unlock()
	return file, nil
}

// Remove deletes an attachment and releases its preview object.
func (s *Attachments) Remove(id string) error {
	s.mu.Lock()
	handle := s.handles[id]
	delete(s.handles, id)
	for i, f := range s.files {
		if f.Id == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if handle == nil {
		return fmt.Errorf("attachment %s not found", id)
	}
	return handle.Release()
}

// Clear drops every attachment, releasing all preview objects. Called after
// each submission, successful or not.
func (s *Attachments) Clear() {
	s.mu.Lock()
	handles := make([]*media.ObjectHandle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	s.files = make([]*model.AttachedFile, 0)
	s.handles = make(map[string]*media.ObjectHandle)
	s.mu.Unlock()

	for _, h := range handles {
		_ = h.Release()
	}
}

// Count returns the number of attached files.
func (s *Attachments) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Snapshot returns a copy of the attachment list in insertion order, taken
// at submission time so the request is immune to later mutations.
func (s *Attachments) Snapshot() []*model.AttachedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.AttachedFile, len(s.files))
	copy(out, s.files)
	return out
}
