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

// Package commands provides the concrete Command implementations that make
// up the recommendation pipeline. This file defines the model call: the
// composed prompt goes out to the text generator and the raw free-text
// answer comes back. A failed call surfaces as a typed transport error on
// the context; it is never smuggled through as response text.
package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-movie-recs/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
)

// RecommendationCreator is a command that sends the composed prompt to the
// generative model and pipes the raw text answer to the formatter.
type RecommendationCreator struct {
	cor.BaseCommand
	generator cloud.TextGenerator
}

// NewRecommendationCreator creates the command. The generator is an
// interface so tests can substitute a fake for the rate-limited Gemini
// wrapper used in production.
func NewRecommendationCreator(name string, generator cloud.TextGenerator) *RecommendationCreator {
	return &RecommendationCreator{
		BaseCommand: *cor.NewBaseCommand(name),
		generator:   generator,
	}
}

// Execute sends the prompt and stores the model's raw response as the
// chain's output.
func (t *RecommendationCreator) Execute(context cor.Context) {
	prompt := context.Get(t.GetInputParam()).(string)

	rawText, err := t.generator.GenerateText(context.GetContext(), prompt)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), model.NewTransportError("model.generate", fmt.Errorf("recommendation request failed: %w", err)))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), rawText)
}
