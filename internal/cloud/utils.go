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

// This file contains the hierarchical configuration loader and small
// helpers for talking to the generative API: a transient-retry wrapper
// around content generation and factories for prompt parts.

package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/BurntSushi/toml"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"              // Base name for configuration files.
	ConfigFileExtension = ".toml"             // Extension for configuration files.
	ConfigSeparator     = "."                 // Separator in override file names (".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // Env var naming the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // Env var naming the runtime ("local", "test", "prod").
	MaxRetries          = 3                   // Transient-failure retries per generation call.
)

// fileExists reports whether a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig hierarchically: the base ".env.toml" is
// read first, then the runtime-specific ".env.<runtime>.toml" overwrites
// any values it redefines. The config directory and runtime come from the
// GCP_CONFIG_PREFIX and GCP_RUNTIME environment variables.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// GenerateWithRetry executes a content-generation call through the
// rate-limited model wrapper, retrying transient failures up to MaxRetries
// and recording token usage and retry counts.
func GenerateWithRetry(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content,
	override *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {

	resp, err := model.GenerateContentWithConfig(ctx, content, override)
	if err != nil {
		if tryCount < MaxRetries && retryable(err) {
			retryCounter.Add(ctx, 1)
			return GenerateWithRetry(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, content, override)
		}
		return nil, err
	}

	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}
	return resp, nil
}

// retryable filters out failures that retrying cannot fix: safety blocks,
// quota exhaustion, and bad credentials must surface to the classifier
// immediately.
func retryable(err error) bool {
	msg := err.Error()
	return !strings.Contains(msg, "SAFETY") &&
		!strings.Contains(msg, "quota") &&
		!strings.Contains(msg, "Requested entity was not found")
}

// ResponseText concatenates the text parts of every candidate in the
// response.
func ResponseText(resp *genai.GenerateContentResponse) string {
	value := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += fmt.Sprint(part.Text)
			}
		}
	}
	return value
}

// ResponseInlineData returns the first inline binary payload in the
// response, or nil when the model produced none.
func ResponseInlineData(resp *genai.GenerateContentResponse) []byte {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// NewTextPart creates the content slice for a plain text prompt.
func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}

// NewImagePart creates an inline image part for multi-modal prompts.
func NewImagePart(data []byte, mimeType string) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}}
}
