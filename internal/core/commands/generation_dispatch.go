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

// This command invokes the backend. It is the only step that talks to the
// generative service, and it issues exactly one outbound request per chain
// execution. Video modes block here through the submit/poll/fetch sequence
// inside the dispatcher.

package commands

import (
	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// GenerationDispatch routes the validated request to the backend operation
// matching its mode.
type GenerationDispatch struct {
	cor.BaseCommand
	dispatcher *services.Dispatcher
}

// NewGenerationDispatch is the constructor for the GenerationDispatch
// command.
func NewGenerationDispatch(name string, dispatcher *services.Dispatcher) *GenerationDispatch {
	return &GenerationDispatch{
		BaseCommand: *cor.NewBaseCommand(name),
		dispatcher:  dispatcher,
	}
}

// Execute dispatches the request and pipes the produced artifact onward.
func (c *GenerationDispatch) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.GenerationRequest)

	result, err := c.dispatcher.Dispatch(context.GetContext(), req)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), result)
}
