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

// This command is the final chain step. It shapes the generation result
// into the assistant's transcript entry: text results speak for themselves,
// media results get a short per-mode caption plus the playable url.

package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// TranscriptAppend builds the assistant transcript entry for a completed
// generation.
type TranscriptAppend struct {
	cor.BaseCommand
}

// NewTranscriptAppend is the constructor for the TranscriptAppend command.
func NewTranscriptAppend(name string) *TranscriptAppend {
	return &TranscriptAppend{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute builds the assistant message and pipes it out as the chain's
// final value.
func (c *TranscriptAppend) Execute(context cor.Context) {
	result := context.Get(c.GetInputParam()).(*model.GenerationResult)
	req := context.Get(CtxGenerationRequest).(*model.GenerationRequest)

	msg := &model.ChatMessage{Role: model.RoleAssistant}
	switch result.Kind {
	case model.ResultText:
		msg.Content = result.Text
	default:
		msg.Content = captionFor(req)
		msg.MediaUrl = result.Url
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), msg)
}

func captionFor(req *model.GenerationRequest) string {
	switch req.Mode {
	case model.ModeImage:
		return fmt.Sprintf("Generated image for: \"%s\"", req.Prompt)
	case model.ModeMultiImageComposition:
		return fmt.Sprintf("Composed a new image from %d reference images.", len(req.Attachments))
	case model.ModeEditImage:
		return fmt.Sprintf("Edited image: \"%s\"", req.Prompt)
	case model.ModeVideo:
		return fmt.Sprintf("Generated video for: \"%s\"", req.Prompt)
	case model.ModeVideoFromImage:
		return fmt.Sprintf("Generated video from your image: \"%s\"", req.Prompt)
	case model.ModeReferenceImageVideo:
		return fmt.Sprintf("Generated video from %d reference images.", len(req.Attachments))
	case model.ModeFrameInterpolation:
		return "Generated an interpolated video between your frames."
	case model.ModeVideoExtension:
		return "Extended the selected video."
	default:
		return fmt.Sprintf("Generated media for: \"%s\"", req.Prompt)
	}
}
