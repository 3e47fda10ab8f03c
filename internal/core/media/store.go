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

// Package media handles generated bytes on their way to a playable url:
// the scratch object store, the WAV container writer, and duration probing.
//
// The Store is a scoped-resource registry. Every Put hands back a handle
// whose Release must be called exactly once; releasing removes the backing
// file and the registry entry. Releasing twice is a guarded no-op, but a
// handle that is never released is a scratch-dir leak, so callers pair every
// Put with a Release on removal or on submission completion.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"google.golang.org/api/iterator"
)

// ObjectHandle is one stored object: a local file addressable through the
// server's asset route.
type ObjectHandle struct {
	Name string // object name, unique within the store
	Url  string // locally addressable url for previews and playback
	Path string // absolute path of the backing file

	mu       sync.Mutex
	released bool
	store    *Store
}

// Release removes the backing file and forgets the handle. Safe to call
// more than once; only the first call does work.
func (h *ObjectHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	h.store.forget(h.Name)
	return os.Remove(h.Path)
}

// Store is the scratch-dir object store backing asset and preview urls. An
// optional GCS mirror provides signed streaming urls for sharing outside
// the local process.
type Store struct {
	dir       string
	baseUrl   string
	bucket    *storage.BucketHandle
	signedTTL time.Duration

	mu   sync.Mutex
	open map[string]*ObjectHandle
}

// NewStore creates a store rooted at dir. Urls returned by Put are formed
// as baseUrl + "/" + object name.
func NewStore(dir string, baseUrl string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir %s: %w", dir, err)
	}
	return &Store{
		dir:     dir,
		baseUrl: strings.TrimRight(baseUrl, "/"),
		open:    make(map[string]*ObjectHandle),
	}, nil
}

// WithMirror attaches a GCS bucket used by Mirror and MirroredObjects.
func (s *Store) WithMirror(client *storage.Client, bucketName string, signedTTL time.Duration) *Store {
	s.bucket = client.Bucket(bucketName)
	s.signedTTL = signedTTL
	return s
}

// Put writes data into the scratch dir under a fresh name and returns its
// handle. The file extension is sniffed from the payload, falling back to
// the declared mime type.
func (s *Store) Put(data []byte, mimeType string) (*ObjectHandle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("refusing to store an empty object")
	}
	name := fmt.Sprintf("%s.%s", uuid.New().String(), extensionFor(data, mimeType))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return nil, fmt.Errorf("failed to write object %s: %w", name, err)
	}

	handle := &ObjectHandle{
		Name:  name,
		Url:   fmt.Sprintf("%s/%s", s.baseUrl, name),
		Path:  path,
		store: s,
	}
	s.mu.Lock()
	s.open[name] = handle
	s.mu.Unlock()
	return handle, nil
}

// Path resolves an object name to its backing file, rejecting names that
// escape the scratch dir.
func (s *Store) Path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("object %s not found: %w", name, err)
	}
	return path, nil
}

// Handle returns the open handle for an object name. Released and unknown
// objects are errors.
func (s *Store) Handle(name string) (*ObjectHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.open[name]
	if !ok {
		return nil, fmt.Errorf("object %s is not open", name)
	}
	return h, nil
}

// OpenCount returns the number of handles that have not been released.
func (s *Store) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Close releases every open handle. Used at shutdown and in tests.
func (s *Store) Close() {
	s.mu.Lock()
	handles := make([]*ObjectHandle, 0, len(s.open))
	for _, h := range s.open {
		handles = append(handles, h)
	}
	s.mu.Unlock()
	for _, h := range handles {
		_ = h.Release()
	}
}

func (s *Store) forget(name string) {
	s.mu.Lock()
	delete(s.open, name)
	s.mu.Unlock()
}

// Mirror uploads the object to the configured GCS bucket and returns a V4
// signed url for streaming it. Requires WithMirror.
func (s *Store) Mirror(ctx context.Context, h *ObjectHandle) (string, error) {
	if s.bucket == nil {
		return "", fmt.Errorf("no mirror bucket configured")
	}
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", h.Name, err)
	}

	writer := s.bucket.Object(h.Name).NewWriter(ctx)
	if _, err = writer.Write(data); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to upload object %s: %w", h.Name, err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload of %s: %w", h.Name, err)
	}

	signed, err := s.bucket.SignedURL(h.Name, &storage.SignedURLOptions{
		Method:  "GET",
		Scheme:  storage.SigningSchemeV4,
		Expires: time.Now().Add(s.signedTTL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", h.Name, err)
	}
	return signed, nil
}

// MirroredObjects lists the object names currently present in the mirror
// bucket.
func (s *Store) MirroredObjects(ctx context.Context) ([]string, error) {
	if s.bucket == nil {
		return nil, fmt.Errorf("no mirror bucket configured")
	}
	names := make([]string, 0)
	it := s.bucket.Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list mirror bucket: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// extensionFor sniffs the payload type, falling back to the declared mime
// type when the magic bytes are unrecognized.
func extensionFor(data []byte, mimeType string) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.Extension
	}
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "video/mp4":
		return "mp4"
	case "audio/wav":
		return "wav"
	default:
		return "bin"
	}
}
