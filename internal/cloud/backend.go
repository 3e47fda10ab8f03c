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

// This file is the production implementation of the generative backend:
// every generation operation the dispatcher routes ends up here as a call
// against the shared genai client. Content-based calls (text, image edit
// and composition, analysis, speech) go through the rate-limited model
// wrappers; image synthesis and video jobs use their dedicated endpoints.

package cloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
)

// Logical model names expected in the agent_models configuration table.
const (
	ModelKeyCreativeFlash = "creative-flash" // fast chat and image analysis
	ModelKeyCreativePro   = "creative-pro"   // extended-reasoning chat
	ModelKeyFlashImage    = "flash-image"    // image edit and composition
	ModelKeySpeech        = "speech"         // text-to-speech
)

// videoReferenceTypeAsset tags a reference image as a subject asset for
// reference-conditioned video synthesis.
const videoReferenceTypeAsset = "asset"

// GenAIBackend implements services.GenerativeBackend over the shared genai
// client.
type GenAIBackend struct {
	config     *Config
	client     *genai.Client
	models     map[string]*QuotaAwareGenerativeAIModel
	httpClient *http.Client

	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewGenAIBackend creates the backend over already-initialized service
// clients.
func NewGenAIBackend(config *Config, clients *ServiceClients) *GenAIBackend {
	meter := otel.Meter("github.com/jaycherian/gcp-go-media-studio")
	inputTokens, _ := meter.Int64Counter("genai.tokens.input")
	outputTokens, _ := meter.Int64Counter("genai.tokens.output")
	retries, _ := meter.Int64Counter("genai.request.retries")

	return &GenAIBackend{
		config:             config,
		client:             clients.GenAIClient,
		models:             clients.AgentModels,
		httpClient:         &http.Client{Timeout: 5 * time.Minute},
		inputTokenCounter:  inputTokens,
		outputTokenCounter: outputTokens,
		retryCounter:       retries,
	}
}

func (b *GenAIBackend) model(key string) (*QuotaAwareGenerativeAIModel, error) {
	m, ok := b.models[key]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", key)
	}
	return m, nil
}

// GenerateText runs a single-turn completion. Thinking mode selects the pro
// tier with its configured reasoning budget; search grounding attaches the
// web search tool.
func (b *GenAIBackend) GenerateText(ctx context.Context, prompt string, opts services.TextOptions) (string, error) {
	key := ModelKeyCreativeFlash
	if opts.ThinkingMode {
		key = ModelKeyCreativePro
	}
	wrapper, err := b.model(key)
	if err != nil {
		return "", err
	}

	var override *genai.GenerateContentConfig
	if opts.ThinkingMode || opts.UseSearch {
		cfg := *wrapper.GenerativeContentConfig
		if opts.ThinkingMode {
			if budget := b.config.AgentModels[key].ThinkingBudget; budget > 0 {
				cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](budget)}
			}
		}
		if opts.UseSearch {
			cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
		}
		override = &cfg
	}

	resp, err := GenerateWithRetry(ctx, b.inputTokenCounter, b.outputTokenCounter, b.retryCounter, 0,
		wrapper, NewTextPart(prompt), override)
	if err != nil {
		return "", err
	}
	text := ResponseText(resp)
	if text == "" {
		return "", services.ErrNoGenerationResult
	}
	return text, nil
}

// GenerateImage synthesizes an image from text at the requested aspect
// ratio.
func (b *GenAIBackend) GenerateImage(ctx context.Context, prompt string, aspect model.AspectRatio) ([]byte, error) {
	resp, err := b.client.Models.GenerateImages(ctx, b.config.ImageModels.Generate, prompt,
		&genai.GenerateImagesConfig{
			NumberOfImages:   1,
			AspectRatio:      string(aspect),
			OutputMIMEType:   "image/png",
			IncludeRAIReason: true,
		})
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, services.ErrNoGenerationResult
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

// ComposeImage synthesizes one image from multiple reference images plus a
// prompt, using the image-out content model.
func (b *GenAIBackend) ComposeImage(ctx context.Context, prompt string, refs []model.InlineImage) ([]byte, error) {
	parts := make([]*genai.Part, 0, len(refs)+1)
	for _, ref := range refs {
		parts = append(parts, NewImagePart(ref.Data, ref.MimeType))
	}
	parts = append(parts, &genai.Part{Text: prompt})
	return b.generateImageContent(ctx, parts)
}

// EditImage applies a prompt-guided edit to a single image.
func (b *GenAIBackend) EditImage(ctx context.Context, prompt string, image model.InlineImage) ([]byte, error) {
	parts := []*genai.Part{
		NewImagePart(image.Data, image.MimeType),
		{Text: prompt},
	}
	return b.generateImageContent(ctx, parts)
}

func (b *GenAIBackend) generateImageContent(ctx context.Context, parts []*genai.Part) ([]byte, error) {
	wrapper, err := b.model(ModelKeyFlashImage)
	if err != nil {
		return nil, err
	}
	cfg := *wrapper.GenerativeContentConfig
	cfg.ResponseModalities = []string{"IMAGE", "TEXT"}

	content := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	resp, err := GenerateWithRetry(ctx, b.inputTokenCounter, b.outputTokenCounter, b.retryCounter, 0,
		wrapper, content, &cfg)
	if err != nil {
		return nil, err
	}
	data := ResponseInlineData(resp)
	if len(data) == 0 {
		return nil, services.ErrNoGenerationResult
	}
	return data, nil
}

// AnalyzeImage describes a single image, returning text.
func (b *GenAIBackend) AnalyzeImage(ctx context.Context, prompt string, image model.InlineImage) (string, error) {
	wrapper, err := b.model(ModelKeyCreativeFlash)
	if err != nil {
		return "", err
	}
	content := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			NewImagePart(image.Data, image.MimeType),
			{Text: prompt},
		},
	}}
	resp, err := GenerateWithRetry(ctx, b.inputTokenCounter, b.outputTokenCounter, b.retryCounter, 0,
		wrapper, content, nil)
	if err != nil {
		return "", err
	}
	text := ResponseText(resp)
	if text == "" {
		return "", services.ErrNoGenerationResult
	}
	return text, nil
}

// veoJob wraps the long-running video operation as a services.VideoJob.
type veoJob struct {
	op *genai.GenerateVideosOperation
}

func (j *veoJob) Done() bool {
	return j.op != nil && j.op.Done
}

func (j *veoJob) ResultRef() string {
	if j.op == nil || j.op.Response == nil || len(j.op.Response.GeneratedVideos) == 0 {
		return ""
	}
	video := j.op.Response.GeneratedVideos[0].Video
	if video == nil {
		return ""
	}
	return video.URI
}

// SubmitVideo starts a video synthesis job. The lighter model variant
// serves unconditioned prompts; reference images, target last frames, and
// extension inputs move the job to the heavier variant.
func (b *GenAIBackend) SubmitVideo(ctx context.Context, spec services.VideoJobSpec) (services.VideoJob, error) {
	modelName := b.config.VideoModels.Fast
	if spec.Conditioned() {
		modelName = b.config.VideoModels.Advanced
	}

	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    string(spec.AspectRatio),
		Resolution:     "720p",
	}
	if len(spec.PriorVideo) > 0 && b.config.VideoModels.ExtensionSeconds > 0 {
		cfg.DurationSeconds = genai.Ptr[int32](int32(b.config.VideoModels.ExtensionSeconds))
	}
	if spec.LastFrame != nil {
		cfg.LastFrame = &genai.Image{ImageBytes: spec.LastFrame.Data, MIMEType: spec.LastFrame.MimeType}
	}
	for _, ref := range spec.ReferenceImages {
		cfg.ReferenceImages = append(cfg.ReferenceImages, &genai.VideoGenerationReferenceImage{
			Image:         &genai.Image{ImageBytes: ref.Data, MIMEType: ref.MimeType},
			ReferenceType: videoReferenceTypeAsset,
		})
	}

	source := &genai.GenerateVideosSource{Prompt: spec.Prompt}
	if spec.Image != nil {
		source.Image = &genai.Image{ImageBytes: spec.Image.Data, MIMEType: spec.Image.MimeType}
	}
	if len(spec.PriorVideo) > 0 {
		source.Video = &genai.Video{VideoBytes: spec.PriorVideo, MIMEType: "video/mp4"}
	}

	op, err := b.client.Models.GenerateVideosFromSource(ctx, modelName, source, cfg)
	if err != nil {
		return nil, err
	}
	return &veoJob{op: op}, nil
}

// PollVideo refreshes the job's status snapshot.
func (b *GenAIBackend) PollVideo(ctx context.Context, job services.VideoJob) (services.VideoJob, error) {
	vj, ok := job.(*veoJob)
	if !ok {
		return nil, fmt.Errorf("unexpected job handle type %T", job)
	}
	op, err := b.client.Operations.GetVideosOperation(ctx, vj.op, nil)
	if err != nil {
		return nil, err
	}
	return &veoJob{op: op}, nil
}

// FetchVideo downloads the completed job's output. The result uri requires
// the API key as a query parameter when key authentication is in use.
func (b *GenAIBackend) FetchVideo(ctx context.Context, resultRef string) ([]byte, error) {
	url := resultRef
	if b.config.Application.APIKey != "" {
		url = fmt.Sprintf("%s&key=%s", resultRef, b.config.Application.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download generated video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video download returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generated video: %w", err)
	}
	if len(data) == 0 {
		return nil, services.ErrNoGenerationResult
	}
	return data, nil
}

// GenerateSpeech synthesizes raw PCM audio for the text with a prebuilt
// voice. The caller wraps the samples into a playable container.
func (b *GenAIBackend) GenerateSpeech(ctx context.Context, text string, voice model.Voice) ([]byte, error) {
	wrapper, err := b.model(ModelKeySpeech)
	if err != nil {
		return nil, err
	}
	cfg := *wrapper.GenerativeContentConfig
	cfg.ResponseModalities = []string{"AUDIO"}
	cfg.SpeechConfig = &genai.SpeechConfig{
		VoiceConfig: &genai.VoiceConfig{
			PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: string(voice)},
		},
	}

	resp, err := GenerateWithRetry(ctx, b.inputTokenCounter, b.outputTokenCounter, b.retryCounter, 0,
		wrapper, NewTextPart(text), &cfg)
	if err != nil {
		return nil, err
	}
	data := ResponseInlineData(resp)
	if len(data) == 0 {
		return nil, services.ErrNoGenerationResult
	}
	return data, nil
}
