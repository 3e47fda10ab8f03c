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

// This command is the first step of the submission chain. It resolves the
// request's explicit mode override, attachment count, and active-asset type
// into the single concrete mode the rest of the chain operates on, and
// pins the request under CtxGenerationRequest for later steps.

package commands

import (
	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// ModeResolve stamps the resolved generation mode onto the request.
type ModeResolve struct {
	cor.BaseCommand
}

// NewModeResolve is the constructor for the ModeResolve command.
func NewModeResolve(name string) *ModeResolve {
	return &ModeResolve{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute resolves and stamps the mode.
func (c *ModeResolve) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.GenerationRequest)

	req.Mode = services.ResolveMode(req.ExplicitMode, len(req.Attachments), req.ActiveAssetType())

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxGenerationRequest, req)
	context.Add(c.GetOutputParam(), req)
}
