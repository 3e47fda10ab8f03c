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

// This file decorates the generative model handle with rate limiting. The
// backend services have per-minute quotas; the decorator keeps the server
// under them by blocking a call until the limiter grants a slot instead of
// letting the quota error surface to the user.

package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel wraps one named model plus its fixed content
// configuration behind a rate limiter. All content-based calls for that
// model go through this wrapper.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               *rate.Limiter
}

// NewQuotaAwareModel creates the wrapper. requestsPerSecond bounds both the
// sustained rate and the burst size.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond),
	}
}

// GenerateContent executes a content call with the wrapper's fixed
// configuration.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	return q.GenerateContentWithConfig(ctx, content, nil)
}

// GenerateContentWithConfig executes a content call, waiting for a rate
// limiter slot first. A non-nil override replaces the wrapper's fixed
// configuration for this one call, which lets callers switch response
// modalities or attach tools without a second wrapper.
func (q *QuotaAwareGenerativeAIModel) GenerateContentWithConfig(ctx context.Context, content []*genai.Content, override *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	config := q.GenerativeContentConfig
	if override != nil {
		config = override
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, config)
}
