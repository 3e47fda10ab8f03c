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

// Package workflow combines commands into the high-level orchestrations of
// the application. This file implements the submission pipeline that every
// agent prompt runs through.
package workflow

import (
	"github.com/jaycherian/gcp-go-media-studio/internal/core/commands"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// GenerationPipeline is the submission chain: resolve the mode, gate on
// arity constraints, dispatch to the backend, materialize any media into
// the library, and shape the assistant's transcript entry. The chain stops
// at the first recorded error, so an invalid request never reaches the
// backend.
type GenerationPipeline struct {
	cor.BaseCommand
	dispatcher *services.Dispatcher
	library    *services.Library
	store      *media.Store
	chain      cor.Chain
}

// Execute runs the submission chain.
func (p *GenerationPipeline) Execute(context cor.Context) {
	p.chain.Execute(context)
}

// initializeChain builds the command sequence. Called by the constructor.
func (p *GenerationPipeline) initializeChain() {
	out := cor.NewBaseChain(p.GetName())

	// Step 1: resolve explicit override + input state into one mode.
	out.AddCommand(commands.NewModeResolve("resolve-mode"))

	// Step 2: validate the attachment/selection arity for that mode.
	out.AddCommand(commands.NewConstraintGate("constraint-gate"))

	// Step 3: the single backend call, including the poll loop for video.
	out.AddCommand(commands.NewGenerationDispatch("dispatch-generation", p.dispatcher))

	// Step 4: store generated bytes and register the library asset.
	out.AddCommand(commands.NewAssetMaterialize("materialize-asset", p.library, p.store))

	// Step 5: build the assistant transcript entry.
	out.AddCommand(commands.NewTranscriptAppend("append-transcript"))

	p.chain = out
}

// NewGenerationPipeline is the constructor for the GenerationPipeline.
func NewGenerationPipeline(
	dispatcher *services.Dispatcher,
	library *services.Library,
	store *media.Store) *GenerationPipeline {

	pipeline := &GenerationPipeline{
		BaseCommand: *cor.NewBaseCommand("generation-pipeline"),
		dispatcher:  dispatcher,
		library:     library,
		store:       store,
	}
	pipeline.initializeChain()
	return pipeline
}
