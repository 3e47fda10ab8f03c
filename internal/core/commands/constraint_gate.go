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

// This command gates dispatch on the mode's arity requirements. An invalid
// verdict records an error on the chain context, which stops the chain
// before any backend call is made.

package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// ConstraintGate validates the request's inputs against its resolved mode.
type ConstraintGate struct {
	cor.BaseCommand
}

// NewConstraintGate is the constructor for the ConstraintGate command.
func NewConstraintGate(name string) *ConstraintGate {
	return &ConstraintGate{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute computes the verdict and blocks the chain when it is invalid.
func (c *ConstraintGate) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.GenerationRequest)

	constraints := services.ValidateConstraints(req.Mode, len(req.Attachments), req.ActiveAsset != nil)
	context.Add(CtxConstraints, &constraints)

	if !constraints.IsValid {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		message := constraints.ValidationMessage
		if message == "" {
			message = fmt.Sprintf("Too many images attached for this mode (maximum %d).", constraints.MaxImages)
		}
		context.AddError(c.GetName(), fmt.Errorf("%s", message))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), req)
}
