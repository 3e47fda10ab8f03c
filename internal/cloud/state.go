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

// This file initializes and holds the clients for the external services.
// One ServiceClients container is created at startup and passed into the
// components that need it, so the whole process shares a single generative
// client and a single storage client.

package cloud

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/genai"
)

// ServiceClients is the dependency container for external connections.
type ServiceClients struct {
	// StorageClient is the GCS client backing the asset mirror. Nil when no
	// mirror bucket is configured.
	StorageClient *storage.Client
	// GenAIClient is the shared generative client for every model call.
	GenAIClient *genai.Client
	// AgentModels holds the rate-limited content models, keyed by logical
	// name from the configuration (e.g. "creative-flash").
	AgentModels map[string]*QuotaAwareGenerativeAIModel
}

// Close releases the client connections. The generative client carries no
// explicit close in the current library.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
}

// NewCloudServiceClients initializes every external client from the
// configuration. The generative client authenticates with the configured
// API key when one is set, and with Vertex project credentials otherwise.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	clientConfig := &genai.ClientConfig{}
	if config.Application.APIKey != "" {
		clientConfig.APIKey = config.Application.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	} else {
		clientConfig.Project = config.Application.GoogleProjectId
		clientConfig.Location = config.Application.GoogleLocation
		clientConfig.Backend = genai.BackendVertexAI
	}
	gc, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	var sc *storage.Client
	if config.Storage.MirrorBucket != "" {
		sc, err = storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	// Wrap each configured agent model with its generation settings and a
	// rate limiter.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		contentConfig := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](values.Temperature),
			TopP:            genai.Ptr[float32](values.TopP),
			TopK:            genai.Ptr[float32](values.TopK),
			MaxOutputTokens: values.MaxTokens,
			SafetySettings:  DefaultSafetySettings,
		}
		if values.SystemInstructions != "" {
			contentConfig.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: values.SystemInstructions}},
			}
		}
		agentModels[amKey] = NewQuotaAwareModel(contentConfig, values.Model, gc.Models, values.RateLimit)
	}

	return &ServiceClients{
		StorageClient: sc,
		GenAIClient:   gc,
		AgentModels:   agentModels,
	}, nil
}
