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

// This file tests narration synthesis: PCM in, playable WAV library asset
// out.
package services_test

import (
	"context"
	"os"
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	test "github.com/jaycherian/gcp-go-media-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpeech(t *testing.T, backend *test.FakeBackend) (*services.Speech, *services.Library) {
	t.Helper()
	store, err := media.NewStore(t.TempDir(), "http://localhost/assets")
	require.NoError(t, err)
	t.Cleanup(store.Close)

	library := services.NewLibrary(&test.FakeProber{Duration: 1})
	return services.NewSpeech(backend, store, library, media.SpeechSampleRate), library
}

// TestSpeechGenerate verifies the full synthesis path: the PCM payload is
// wrapped in a WAV container, stored, and registered as an audio asset with
// the correct duration.
func TestSpeechGenerate(t *testing.T) {
	// Two seconds of 24 kHz mono 16-bit PCM.
	backend := &test.FakeBackend{SpeechPCM: make([]byte, 96000)}
	speech, library := newTestSpeech(t, backend)

	asset, err := speech.Generate(context.Background(), "Welcome to the show.", model.VoiceKore)
	require.NoError(t, err)
	assert.Equal(t, model.AssetTypeAudio, asset.Type)
	assert.Equal(t, "audio/wav", asset.MimeType)
	assert.Equal(t, 2.0, asset.Duration)
	assert.Equal(t, model.VoiceKore, backend.LastVoice)

	// The stored file is the WAV container: header plus payload.
	data, err := os.ReadFile(asset.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, 44+96000, len(data))
	assert.Equal(t, "RIFF", string(data[0:4]))

	assets := library.List()
	require.Equal(t, 1, len(assets))
	assert.Equal(t, asset.Id, assets[0].Id)
}

// TestSpeechConfiguredSampleRate verifies that a non-default PCM rate flows
// into both the WAV header math and the computed duration.
func TestSpeechConfiguredSampleRate(t *testing.T) {
	// One second of 16 kHz mono 16-bit PCM.
	backend := &test.FakeBackend{SpeechPCM: make([]byte, 32000)}
	store, err := media.NewStore(t.TempDir(), "http://localhost/assets")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	library := services.NewLibrary(&test.FakeProber{Duration: 1})

	speech := services.NewSpeech(backend, store, library, 16000)
	asset, err := speech.Generate(context.Background(), "low-rate narration", model.VoicePuck)
	require.NoError(t, err)
	assert.Equal(t, 1.0, asset.Duration)

	data, err := os.ReadFile(asset.LocalPath)
	require.NoError(t, err)
	// Sample rate at header offset 24, little endian: 16000 = 0x3E80.
	assert.Equal(t, []byte{0x80, 0x3E, 0x00, 0x00}, data[24:28])
}

// TestSpeechGenerateValidation verifies the input checks and the empty
// payload failure.
func TestSpeechGenerateValidation(t *testing.T) {
	speech, _ := newTestSpeech(t, &test.FakeBackend{})

	_, err := speech.Generate(context.Background(), "", model.VoiceKore)
	assert.Error(t, err)

	_, err = speech.Generate(context.Background(), "hello", model.Voice("NotAVoice"))
	assert.Error(t, err)

	// Backend success with no payload is a NoResult failure.
	_, err = speech.Generate(context.Background(), "hello", model.VoicePuck)
	assert.ErrorIs(t, err, services.ErrNoGenerationResult)
}
