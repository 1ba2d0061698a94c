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
// up the recommendation pipeline. This file defines the first step: fetching
// the candidate movie list from the catalog for the requested genre.
package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/services"
)

// Context keys for the request inputs and the candidate side channel. The
// candidate list is needed both by the prompt builder (next in the chain)
// and by the formatter (last in the chain), so it is published under its own
// key in addition to flowing through the chain's in/out piping.
const (
	CtxGenre      = "__genre__"
	CtxFilter     = "__filter__"
	CtxCandidates = "__candidates__"
)

// CandidateFetcher is a command that queries the catalog's discovery
// endpoint and places the normalized candidate list on the context.
type CandidateFetcher struct {
	cor.BaseCommand
	catalog *services.CatalogService
}

// NewCandidateFetcher creates the fetcher backed by the given catalog
// service. The command reads the genre and filter text from their context
// keys rather than the chain's piped input.
func NewCandidateFetcher(name string, catalog *services.CatalogService) *CandidateFetcher {
	out := &CandidateFetcher{
		BaseCommand: *cor.NewBaseCommand(name),
		catalog:     catalog,
	}
	out.InputParamName = CtxGenre
	return out
}

// Execute runs the discovery query and stores the result under both the
// candidate side-channel key and the chain's output slot.
func (t *CandidateFetcher) Execute(context cor.Context) {
	genre := context.Get(CtxGenre).(string)
	filterText, _ := context.Get(CtxFilter).(string)

	candidates, err := t.catalog.Discover(context.GetContext(), genre, filterText)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to fetch candidates: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxCandidates, candidates)
	context.Add(t.GetOutputParam(), candidates)
}
