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

// Package cloud owns the configuration structures and the clients for the
// external generative and storage services. This file centralizes every
// configurable parameter, loaded hierarchically from TOML files.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the content safety thresholds applied to
// generation calls. They are non-restrictive: the editing surface is a
// controlled environment and blocking decisions are surfaced to the user
// through the safety classifier instead.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// AgentModel configures one named generative model tier (e.g. the fast chat
// model vs the extended-reasoning model).
type AgentModel struct {
	Model              string  `toml:"model"`               // The backend model identifier.
	SystemInstructions string  `toml:"system_instructions"` // Optional system prompt.
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	ThinkingBudget     int32   `toml:"thinking_budget"` // Token budget for extended reasoning; 0 disables it.
	RateLimit          int     `toml:"rate_limit"`      // Requests per second allowed against this model.
}

// ImageModels names the image synthesis endpoints. Edit and composition go
// through the flash-image agent model instead.
type ImageModels struct {
	Generate string `toml:"generate"` // Text-to-image model (Imagen family).
}

// VideoModels names the video synthesis endpoints and the extension policy.
type VideoModels struct {
	Fast             string `toml:"fast"`              // Variant for unconditioned text-to-video.
	Advanced         string `toml:"advanced"`          // Variant for reference images, last frames, and extension.
	ExtensionSeconds int    `toml:"extension_seconds"` // Fixed increment added by a video extension.
}

// SpeechModel configures the PCM output rate of the text-to-speech model
// (the model itself is the "speech" agent model).
type SpeechModel struct {
	SampleRate int `toml:"sample_rate"`
}

// Storage configures the scratch store and the optional GCS mirror.
type Storage struct {
	ScratchDir        string `toml:"scratch_dir"`          // Local directory backing asset urls.
	AssetBaseUrl      string `toml:"asset_base_url"`       // Public prefix for scratch-store urls.
	MirrorBucket      string `toml:"mirror_bucket"`        // Optional GCS bucket for shareable copies.
	SignedUrlTTLHours int    `toml:"signed_url_ttl_hours"` // Lifetime of V4 signed mirror urls.
}

// Polling configures the long-running job poll loop.
type Polling struct {
	IntervalSeconds int `toml:"interval_seconds"` // Fixed delay between status checks.
	MaxWaitMinutes  int `toml:"max_wait_minutes"` // Total polling cap; 0 disables the cap.
}

// Tools configures external binaries the server shells out to.
type Tools struct {
	FFProbePath string `toml:"ffprobe_path"`
}

// Config is the root of the application configuration, loaded from TOML.
type Config struct {
	Application struct {
		Name            string `toml:"name"`
		GoogleProjectId string `toml:"google_project_id"` // Vertex project; empty when using an API key.
		GoogleLocation  string `toml:"location"`
		APIKey          string `toml:"api_key"` // Gemini API key; empty when using Vertex credentials.
		Port            int    `toml:"port"`
	} `toml:"application"`
	Storage     Storage               `toml:"storage"`
	Polling     Polling               `toml:"polling"`
	Tools       Tools                 `toml:"tools"`
	AgentModels map[string]AgentModel `toml:"agent_models"` // Keyed by logical name (e.g. "creative-flash").
	ImageModels ImageModels           `toml:"image_models"`
	VideoModels VideoModels           `toml:"video_models"`
	SpeechModel SpeechModel           `toml:"speech_model"`
}

// NewConfig creates a Config with its map fields initialized so the TOML
// loader can populate them without nil checks.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]AgentModel),
	}
}
