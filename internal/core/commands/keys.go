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

// Package commands provides the concrete pipeline steps of the submission
// workflow. Each command embeds cor.BaseCommand and communicates with its
// neighbors through the shared chain context: the primary value flows
// through the CtxIn/CtxOut pipe, while the well-known keys below carry
// values needed by more than one step.
package commands

const (
	// CtxGenerationRequest holds the *model.GenerationRequest for the whole
	// chain execution, independent of the piped value.
	CtxGenerationRequest = "__GENERATION_REQUEST__"
	// CtxConstraints holds the *model.GenerationConstraints verdict
	// computed by the constraint gate.
	CtxConstraints = "__GENERATION_CONSTRAINTS__"
	// CtxMaterializedAsset holds the *model.MediaAsset created from a
	// media-producing generation.
	CtxMaterializedAsset = "__MATERIALIZED_ASSET__"
)
