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

// Package test provides helpers and fakes for the test suite: a cached
// test configuration loader, a scriptable generative backend, and a fixed
// duration prober.
package test

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-media-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// StateManager caches the application configuration during test runs so it
// is loaded from the TOML files only once per run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. Convenience to cut down on
// boilerplate in tests.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test configuration files
// under configs/ with the "test" runtime overrides.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// FakeJob is a scriptable video job handle.
type FakeJob struct {
	Completed bool
	Ref       string
}

func (j *FakeJob) Done() bool        { return j.Completed }
func (j *FakeJob) ResultRef() string { return j.Ref }

// FakeBackend is a scriptable stand-in for the generative backend. Each
// operation returns the configured value or error and records that it was
// called, so tests can assert on both outcomes and call counts.
type FakeBackend struct {
	mu sync.Mutex

	TextResponse     string
	TextErr          error
	ImageBytes       []byte
	ImageErr         error
	AnalysisResponse string
	SpeechPCM        []byte
	SpeechErr        error

	// PollsUntilDone is the number of PollVideo calls before the job
	// reports done. Zero means the job is done on submission.
	PollsUntilDone int
	VideoRef       string
	VideoBytes     []byte
	SubmitErr      error
	PollErr        error
	FetchErr       error

	TextCalls   int
	ImageCalls  int
	SubmitCalls int
	PollCalls   int
	FetchCalls  int
	SpeechCalls int

	LastPrompt   string
	LastTextOpts services.TextOptions
	LastSpec     services.VideoJobSpec
	LastVoice    model.Voice
}

func (b *FakeBackend) GenerateText(_ context.Context, prompt string, opts services.TextOptions) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.TextCalls++
	b.LastPrompt = prompt
	b.LastTextOpts = opts
	return b.TextResponse, b.TextErr
}

func (b *FakeBackend) GenerateImage(_ context.Context, prompt string, _ model.AspectRatio) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ImageCalls++
	b.LastPrompt = prompt
	return b.ImageBytes, b.ImageErr
}

func (b *FakeBackend) ComposeImage(_ context.Context, prompt string, _ []model.InlineImage) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ImageCalls++
	b.LastPrompt = prompt
	return b.ImageBytes, b.ImageErr
}

func (b *FakeBackend) EditImage(_ context.Context, prompt string, _ model.InlineImage) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ImageCalls++
	b.LastPrompt = prompt
	return b.ImageBytes, b.ImageErr
}

func (b *FakeBackend) AnalyzeImage(_ context.Context, prompt string, _ model.InlineImage) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LastPrompt = prompt
	return b.AnalysisResponse, nil
}

func (b *FakeBackend) SubmitVideo(_ context.Context, spec services.VideoJobSpec) (services.VideoJob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SubmitCalls++
	b.LastSpec = spec
	if b.SubmitErr != nil {
		return nil, b.SubmitErr
	}
	return &FakeJob{Completed: b.PollsUntilDone <= 0, Ref: b.VideoRef}, nil
}

func (b *FakeBackend) PollVideo(_ context.Context, _ services.VideoJob) (services.VideoJob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PollCalls++
	if b.PollErr != nil {
		return nil, b.PollErr
	}
	return &FakeJob{Completed: b.PollCalls >= b.PollsUntilDone, Ref: b.VideoRef}, nil
}

func (b *FakeBackend) FetchVideo(_ context.Context, _ string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.FetchCalls++
	if b.FetchErr != nil {
		return nil, b.FetchErr
	}
	return b.VideoBytes, nil
}

func (b *FakeBackend) GenerateSpeech(_ context.Context, _ string, voice model.Voice) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SpeechCalls++
	b.LastVoice = voice
	return b.SpeechPCM, b.SpeechErr
}

// FakeProber reports a fixed duration for every probe, or a scripted error.
type FakeProber struct {
	Duration float64
	Err      error
}

func (p *FakeProber) Probe(_ context.Context, _ string, _ model.AssetType) (float64, error) {
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Duration, nil
}
