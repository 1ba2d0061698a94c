// Copyright 2024 Google, LLC
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

// Package cloud provides components for interacting with external services.
// This file implements a decorator around the GenAI model handle that adds
// rate limiting, so the application stays inside the model API's
// requests-per-minute quota, plus the small TextGenerator interface the
// pipeline commands depend on. Depending on the interface rather than the
// concrete wrapper keeps the commands testable with a fake generator.
package cloud

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// TextGenerator is the capability the recommendation pipeline needs from a
// language model: one prompt in, one free-text answer out. A failed call
// returns a non-nil error, never an error-shaped success string.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// QuotaAwareGenerativeAIModel decorates a genai model handle with a rate
// limiter and per-model token metrics. It implements TextGenerator.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Generation settings (temperature, safety, system instructions).
	ModelName               string                       // The model identifier passed on every call.
	ModelHandle             *genai.Models                // The underlying genai model handle.
	RateLimit               *rate.Limiter                // Bounds outbound call frequency.

	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewQuotaAwareModel wraps a configured model handle with a limiter allowing
// requestsPerSecond calls per second (with an equal burst) and creates the
// token-usage counters for this model.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	out := &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond),
	}

	meter := otel.Meter("github.com/jaycherian/gcp-go-movie-recs")
	out.inputTokenCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	out.retryCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.retry", name))

	return out
}

// GenerateContent forwards one request to the model after waiting for a
// rate-limiter slot. Waiting rather than failing fast means a burst of user
// requests queues behind the quota instead of erroring.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}

// GenerateText satisfies TextGenerator: it sends a single text prompt
// through the retrying helper and returns the model's concatenated answer.
func (q *QuotaAwareGenerativeAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return GenerateTextResponse(
		ctx,
		q.inputTokenCounter,
		q.outputTokenCounter,
		q.retryCounter,
		0,
		q,
		genai.Text(prompt),
	)
}
