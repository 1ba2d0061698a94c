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

// Package workflow assembles pipeline commands into executable chains.
// This file defines the recommendation workflow, the single chain behind
// the recommendation endpoint: fetch candidates from the catalog, compose
// the prompt, call the generative model, format the answer into cards.
//
// One workflow instance is built at startup and shared across requests; it
// holds only read-only dependencies. Every call to Recommend builds a fresh
// chain context, so all per-request state (candidate list, raw response,
// cards) stays request-local.
package workflow

import (
	"context"
	"fmt"
	"text/template"

	"github.com/jaycherian/gcp-go-movie-recs/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/commands"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/services"
)

// Names of the chain's commands, in execution order. Recommend uses the
// same order to pick the first recorded error deterministically.
var commandOrder = []string{
	"fetch-candidates",
	"compose-prompt",
	"request-recommendation",
	"format-recommendation",
}

// CardsOutputParamName is the context key the formatter stores the finished
// card list under.
const CardsOutputParamName = "__cards_output__"

// RecommendationWorkflow is the assembled recommendation chain plus the
// read-only dependencies its commands share.
type RecommendationWorkflow struct {
	cor.BaseCommand
	config    *cloud.Config
	catalog   *services.CatalogService
	generator cloud.TextGenerator
	chain     cor.Chain
}

// NewRecommendationWorkflow builds the workflow. The prompt template comes
// from the configuration when present, otherwise the compiled-in default is
// used. The generator is the interface implemented by the quota-aware
// Gemini wrapper in production and by fakes in tests.
func NewRecommendationWorkflow(config *cloud.Config, catalog *services.CatalogService, generator cloud.TextGenerator) (*RecommendationWorkflow, error) {
	templateText := config.PromptTemplates.Recommendation
	if templateText == "" {
		templateText = commands.DefaultRecommendationPrompt
	}
	promptTemplate, err := template.New("recommendation").Parse(templateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recommendation prompt template: %w", err)
	}

	out := &RecommendationWorkflow{
		BaseCommand: *cor.NewBaseCommand("recommendation-workflow"),
		config:      config,
		catalog:     catalog,
		generator:   generator,
	}
	out.initializeChain(promptTemplate)
	return out, nil
}

// initializeChain wires the four pipeline commands together. The chain's
// piping carries each command's primary output to the next; the candidate
// list additionally rides the CtxCandidates side channel from the fetcher
// to the formatter.
func (w *RecommendationWorkflow) initializeChain(promptTemplate *template.Template) {
	chain := cor.NewBaseChain(w.GetName())
	chain.AddCommand(commands.NewCandidateFetcher(commandOrder[0], w.catalog))
	chain.AddCommand(commands.NewPromptBuilder(commandOrder[1], promptTemplate))
	chain.AddCommand(commands.NewRecommendationCreator(commandOrder[2], w.generator))
	chain.AddCommand(commands.NewRecommendationFormatter(commandOrder[3], CardsOutputParamName, w.config.Catalog.PlaceholderPoster))
	w.chain = chain
}

// Execute runs the underlying chain against an externally prepared context.
func (w *RecommendationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Recommend runs the full pipeline for one user request and returns the
// finished cards. The card list may hold fewer than three entries, or none;
// partial success is not an error. Failures come back as the typed error of
// the first command that failed.
func (w *RecommendationWorkflow) Recommend(ctx context.Context, genre string, filterText string) ([]*model.RecommendationCard, error) {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.CtxGenre, genre)
	chainCtx.Add(commands.CtxFilter, filterText)

	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		recorded := chainCtx.GetErrors()
		for _, name := range commandOrder {
			if err, ok := recorded[name]; ok {
				return nil, err
			}
		}
		// A nested or renamed command failed; return whichever error is
		// present rather than losing it.
		for _, err := range recorded {
			return nil, err
		}
	}

	cards, ok := chainCtx.Get(CardsOutputParamName).([]*model.RecommendationCard)
	if !ok {
		return nil, fmt.Errorf("recommendation chain produced no card list")
	}
	return cards, nil
}
