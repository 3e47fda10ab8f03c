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

// This file turns text into a playable audio asset: the backend returns raw
// PCM, which is wrapped into a WAV container, stored, and added to the
// library.

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// Speech synthesizes narration audio assets.
type Speech struct {
	backend    GenerativeBackend
	store      *media.Store
	library    *Library
	sampleRate int
}

// NewSpeech creates the speech service. sampleRate is the PCM rate the
// backend model emits; 0 falls back to the 24 kHz default.
func NewSpeech(backend GenerativeBackend, store *media.Store, library *Library, sampleRate int) *Speech {
	if sampleRate <= 0 {
		sampleRate = media.SpeechSampleRate
	}
	return &Speech{backend: backend, store: store, library: library, sampleRate: sampleRate}
}

// Generate synthesizes the text with the given voice and returns the
// resulting library asset.
func (s *Speech) Generate(ctx context.Context, text string, voice model.Voice) (*model.MediaAsset, error) {
	if text == "" {
		return nil, fmt.Errorf("speech text must not be empty")
	}
	if !voice.Valid() {
		return nil, fmt.Errorf("unsupported voice: %s", voice)
	}

	pcm, err := s.backend.GenerateSpeech(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, ErrNoGenerationResult
	}

	wav := media.EncodeWAV(pcm, s.sampleRate, media.SpeechNumChannels)
	handle, err := s.store.Put(wav, "audio/wav")
	if err != nil {
		return nil, fmt.Errorf("failed to store synthesized audio: %w", err)
	}

	asset := &model.MediaAsset{
		Id:        uuid.New().String(),
		Type:      model.AssetTypeAudio,
		Url:       handle.Url,
		MimeType:  "audio/wav",
		Prompt:    text,
		Duration:  media.PCMDurationSeconds(pcm, s.sampleRate, media.SpeechNumChannels),
		Bytes:     wav,
		LocalPath: handle.Path,
	}
	if err := s.library.Add(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}
