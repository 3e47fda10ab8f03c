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

// This file builds the application state: configuration, cloud clients,
// the scratch store, and the services wired on top of them. One
// StateManager instance holds everything the route handlers need.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jaycherian/gcp-go-media-studio/internal/cloud"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/workflow"
)

// StateManager holds the shared dependencies for the server process. A
// single instance is created at startup and read by the route handlers.
type StateManager struct {
	config      *cloud.Config
	cloud       *cloud.ServiceClients
	store       *media.Store
	library     *services.Library
	timeline    *services.Timeline
	attachments *services.Attachments
	session     *services.AgentSession
	speech      *services.Speech
}

// state is the package-level singleton holding the application state.
var state = &StateManager{}

// SetupOS sets the environment variables the configuration loader uses to
// find the TOML files: the configs/ directory and the "local" runtime.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

// GetConfig provides the singleton application configuration, loading it
// from the TOML files on first use.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the full application state: cloud clients, the
// scratch store (with its optional GCS mirror), the duration prober, the
// library, timeline, and attachment services, the generation pipeline, and
// the agent session on top of it.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	store, err := media.NewStore(config.Storage.ScratchDir, config.Storage.AssetBaseUrl)
	if err != nil {
		panic(err)
	}
	if config.Storage.MirrorBucket != "" && cloudClients.StorageClient != nil {
		store = store.WithMirror(
			cloudClients.StorageClient,
			config.Storage.MirrorBucket,
			time.Duration(config.Storage.SignedUrlTTLHours)*time.Hour)
	}
	state.store = store

	prober := media.NewFFProbe(config.Tools.FFProbePath)
	state.library = services.NewLibrary(prober)
	state.timeline = services.NewTimeline(state.library, prober)
	state.attachments = services.NewAttachments(store)

	backend := cloud.NewGenAIBackend(config, cloudClients)
	poller := services.NewJobPoller(
		backend,
		time.Duration(config.Polling.IntervalSeconds)*time.Second,
		time.Duration(config.Polling.MaxWaitMinutes)*time.Minute)
	dispatcher := services.NewDispatcher(backend, poller)

	pipeline := workflow.NewGenerationPipeline(dispatcher, state.library, store)
	state.session = services.NewAgentSession(pipeline, state.library, state.attachments)
	state.speech = services.NewSpeech(backend, store, state.library, config.SpeechModel.SampleRate)
}
