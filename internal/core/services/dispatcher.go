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

// This file owns the mode-to-operation routing: given a resolved, validated
// request it builds the backend-specific call shape and invokes exactly one
// backend operation. Video modes go through the submit/poll/fetch job path;
// everything else returns an immediate result.

package services

import (
	"context"
	"fmt"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// TextOptions tunes a text-completion call.
type TextOptions struct {
	// ThinkingMode selects the heavier model tier with an extended
	// reasoning budget.
	ThinkingMode bool
	// UseSearch grounds the completion with web search results.
	UseSearch bool
}

// VideoJobSpec is the request shape for a long-running video synthesis job.
// The backend selects its lighter model variant when no conditioning inputs
// are present and its heavier variant otherwise.
type VideoJobSpec struct {
	Prompt          string
	AspectRatio     model.AspectRatio
	Image           *model.InlineImage  // conditioning start image
	LastFrame       *model.InlineImage  // target final frame, enables interpolation
	ReferenceImages []model.InlineImage // 1-3 asset-type references
	PriorVideo      []byte              // existing video bytes for extension
}

// Conditioned reports whether the job carries any conditioning input that
// requires the heavier backend variant.
func (s *VideoJobSpec) Conditioned() bool {
	return s.LastFrame != nil || len(s.ReferenceImages) > 0 || len(s.PriorVideo) > 0
}

// VideoJob is the handle of a long-running video synthesis operation.
type VideoJob interface {
	// Done reports the completion flag from the most recent status snapshot.
	Done() bool
	// ResultRef returns the output media reference once done, or "" when
	// the job completed without producing one.
	ResultRef() string
}

// GenerativeBackend abstracts the external generative service. The
// production implementation lives in internal/cloud; tests substitute a
// fake. A single backend instance is created at startup and passed in, so
// every caller shares one underlying client.
type GenerativeBackend interface {
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error)
	GenerateImage(ctx context.Context, prompt string, aspect model.AspectRatio) ([]byte, error)
	ComposeImage(ctx context.Context, prompt string, refs []model.InlineImage) ([]byte, error)
	EditImage(ctx context.Context, prompt string, image model.InlineImage) ([]byte, error)
	AnalyzeImage(ctx context.Context, prompt string, image model.InlineImage) (string, error)
	SubmitVideo(ctx context.Context, spec VideoJobSpec) (VideoJob, error)
	PollVideo(ctx context.Context, job VideoJob) (VideoJob, error)
	FetchVideo(ctx context.Context, resultRef string) ([]byte, error)
	GenerateSpeech(ctx context.Context, text string, voice model.Voice) ([]byte, error)
}

// Dispatcher routes a validated generation request to the matching backend
// operation. The caller enforces single flight: exactly one outbound
// request per submission.
type Dispatcher struct {
	backend GenerativeBackend
	poller  *JobPoller
}

// NewDispatcher creates a dispatcher over the given backend, with the
// poller used for the long-running video path.
func NewDispatcher(backend GenerativeBackend, poller *JobPoller) *Dispatcher {
	return &Dispatcher{backend: backend, poller: poller}
}

// Dispatch invokes the single backend operation for the request's mode and
// returns the produced artifact.
func (d *Dispatcher) Dispatch(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	switch req.Mode {
	case model.ModeChat:
		text, err := d.backend.GenerateText(ctx, req.Prompt, TextOptions{
			ThinkingMode: req.ThinkingMode,
			UseSearch:    req.UseSearch,
		})
		if err != nil {
			return nil, err
		}
		return &model.GenerationResult{Kind: model.ResultText, Text: text}, nil

	case model.ModeImage:
		data, err := d.backend.GenerateImage(ctx, req.Prompt, req.AspectRatio)
		if err != nil {
			return nil, err
		}
		return imageResult(data), nil

	case model.ModeMultiImageComposition:
		data, err := d.backend.ComposeImage(ctx, req.Prompt, attachmentImages(req.Attachments))
		if err != nil {
			return nil, err
		}
		return imageResult(data), nil

	case model.ModeEditImage:
		subject, err := subjectImage(req)
		if err != nil {
			return nil, err
		}
		data, err := d.backend.EditImage(ctx, req.Prompt, *subject)
		if err != nil {
			return nil, err
		}
		return imageResult(data), nil

	case model.ModeAnalyzeImage:
		subject, err := subjectImage(req)
		if err != nil {
			return nil, err
		}
		text, err := d.backend.AnalyzeImage(ctx, req.Prompt, *subject)
		if err != nil {
			return nil, err
		}
		return &model.GenerationResult{Kind: model.ResultText, Text: text}, nil

	case model.ModeVideo, model.ModeVideoFromImage, model.ModeReferenceImageVideo,
		model.ModeFrameInterpolation, model.ModeVideoExtension:
		spec, err := buildVideoSpec(req)
		if err != nil {
			return nil, err
		}
		return d.runVideoJob(ctx, spec)

	default:
		return nil, fmt.Errorf("unsupported generation mode: %s", req.Mode)
	}
}

// runVideoJob is the submit, poll, fetch sequence shared by every video
// mode.
func (d *Dispatcher) runVideoJob(ctx context.Context, spec *VideoJobSpec) (*model.GenerationResult, error) {
	job, err := d.backend.SubmitVideo(ctx, *spec)
	if err != nil {
		return nil, err
	}
	ref, err := d.poller.Await(ctx, job)
	if err != nil {
		return nil, err
	}
	data, err := d.backend.FetchVideo(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &model.GenerationResult{Kind: model.ResultVideo, Bytes: data, MimeType: "video/mp4"}, nil
}

// buildVideoSpec maps a video-family request onto the job spec shape.
func buildVideoSpec(req *model.GenerationRequest) (*VideoJobSpec, error) {
	spec := &VideoJobSpec{Prompt: req.Prompt, AspectRatio: req.AspectRatio}

	switch req.Mode {
	case model.ModeVideo:
		// Prompt only.
	case model.ModeVideoFromImage:
		subject, err := subjectImage(req)
		if err != nil {
			return nil, err
		}
		spec.Image = subject
	case model.ModeReferenceImageVideo:
		refs := attachmentImages(req.Attachments)
		if len(refs) == 0 {
			return nil, fmt.Errorf("reference-image video requires at least one attached image")
		}
		spec.ReferenceImages = refs
	case model.ModeFrameInterpolation:
		if req.ActiveAsset == nil || len(req.ActiveAsset.Bytes) == 0 {
			return nil, fmt.Errorf("frame interpolation requires a selected start image")
		}
		if len(req.Attachments) == 0 {
			return nil, fmt.Errorf("frame interpolation requires an attached end image")
		}
		spec.Image = &model.InlineImage{Data: req.ActiveAsset.Bytes, MimeType: req.ActiveAsset.MimeType}
		spec.LastFrame = &model.InlineImage{
			Data:     req.Attachments[0].Bytes,
			MimeType: req.Attachments[0].MimeType,
		}
	case model.ModeVideoExtension:
		if req.ActiveAsset == nil || len(req.ActiveAsset.Bytes) == 0 {
			return nil, fmt.Errorf("video extension requires the selected video's bytes")
		}
		spec.PriorVideo = req.ActiveAsset.Bytes
	}
	return spec, nil
}

// subjectImage picks the single input image for edit, analysis, and
// image-to-video modes: the active asset when selected, otherwise the first
// attachment.
func subjectImage(req *model.GenerationRequest) (*model.InlineImage, error) {
	if req.ActiveAsset != nil {
		if len(req.ActiveAsset.Bytes) == 0 {
			return nil, fmt.Errorf("selected asset %s has no readable bytes", req.ActiveAsset.Id)
		}
		return &model.InlineImage{Data: req.ActiveAsset.Bytes, MimeType: req.ActiveAsset.MimeType}, nil
	}
	if len(req.Attachments) > 0 {
		return &model.InlineImage{
			Data:     req.Attachments[0].Bytes,
			MimeType: req.Attachments[0].MimeType,
		}, nil
	}
	return nil, fmt.Errorf("no input image supplied")
}

func attachmentImages(attachments []*model.AttachedFile) []model.InlineImage {
	out := make([]model.InlineImage, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, model.InlineImage{Data: a.Bytes, MimeType: a.MimeType})
	}
	return out
}

func imageResult(data []byte) *model.GenerationResult {
	return &model.GenerationResult{Kind: model.ResultImage, Bytes: data, MimeType: "image/png"}
}
