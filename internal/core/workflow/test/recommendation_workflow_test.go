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

// Package workflow_test contains end-to-end tests for the recommendation
// workflow. The chain runs against a fake catalog served by httptest and a
// fake text generator, so the whole pipeline executes hermetically: fetch,
// compose, generate, format.
package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-movie-recs/internal/testutil"
	"github.com/zeebo/assert"
)

// exampleCatalogHandler serves a discovery page whose rows normalize into
// the same records as model.GetExampleCandidates().
func exampleCatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results": [
			{"title": "The Prestige", "release_date": "2006-10-19", "overview": "Rival magicians.", "vote_average": 8.2, "poster_path": "/prestige.jpg"},
			{"title": "Coherence", "release_date": "2013-08-01", "overview": "A comet fractures reality.", "vote_average": 7.2, "poster_path": ""},
			{"title": "Primer", "release_date": "", "overview": "Garage time travel.", "vote_average": 6.9, "poster_path": "/primer.jpg"}
		]}`)
	}
}

// buildWorkflow assembles a recommendation workflow against the fake
// catalog URL and the given fake generator.
func buildWorkflow(t *testing.T, catalogURL string, generator *test.FakeTextGenerator) *workflow.RecommendationWorkflow {
	config := test.GetTestConfig()
	config.Catalog.BaseURL = catalogURL

	catalog := &services.CatalogService{
		HTTPClient: http.DefaultClient,
		Catalog:    config.Catalog,
	}

	recWorkflow, err := workflow.NewRecommendationWorkflow(config, catalog, generator)
	assert.NoError(t, err)
	return recWorkflow
}

// TestRecommendEndToEnd runs the full chain with a well-formed canned model
// answer and checks that the finished cards join the model's explanations
// with the catalog's metadata.
func TestRecommendEndToEnd(t *testing.T) {
	server := httptest.NewServer(exampleCatalogHandler())
	defer server.Close()

	generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
	recWorkflow := buildWorkflow(t, server.URL, generator)

	cards, err := recWorkflow.Recommend(context.Background(), "Mystery", "with a strong plot twist")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(cards))

	// The prompt sent to the model carries the user inputs and every
	// candidate fetched from the catalog.
	assert.Equal(t, 1, len(generator.Prompts))
	prompt := generator.Prompts[0]
	assert.True(t, strings.Contains(prompt, "Genre: Mystery"))
	assert.True(t, strings.Contains(prompt, "with a strong plot twist"))
	assert.True(t, strings.Contains(prompt, "Title: The Prestige"))
	assert.True(t, strings.Contains(prompt, "Title: Coherence"))
	assert.True(t, strings.Contains(prompt, "Title: Primer"))

	// Card metadata comes from the catalog rows, with the placeholder
	// poster standing in for the record without artwork.
	assert.Equal(t, "The Prestige", cards[0].Title)
	assert.Equal(t, "2006", cards[0].Year)
	assert.Equal(t, "Coherence", cards[1].Title)
	assert.Equal(t, "/static/placeholder.png", cards[1].PosterURL)
	assert.Equal(t, "Primer", cards[2].Title)
	assert.Equal(t, model.YearUnknown, cards[2].Year)
}

// TestRecommendUnknownGenre verifies that the strict genre policy
// propagates out of the chain as ErrUnknownGenre and that neither the
// catalog nor the model is called.
func TestRecommendUnknownGenre(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("catalog must not be called for an unknown genre")
	}))
	defer server.Close()

	generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
	recWorkflow := buildWorkflow(t, server.URL, generator)

	cards, err := recWorkflow.Recommend(context.Background(), "Telenovela", "")
	assert.Nil(t, cards)
	assert.True(t, errors.Is(err, services.ErrUnknownGenre))
	assert.Equal(t, 0, len(generator.Prompts))
}

// TestRecommendGeneratorFailure verifies that a failed model call surfaces
// as a typed transport error and stops the chain before the formatter.
func TestRecommendGeneratorFailure(t *testing.T) {
	server := httptest.NewServer(exampleCatalogHandler())
	defer server.Close()

	generator := &test.FakeTextGenerator{Err: errors.New("deadline exceeded")}
	recWorkflow := buildWorkflow(t, server.URL, generator)

	cards, err := recWorkflow.Recommend(context.Background(), "Drama", "uplifting")
	assert.Nil(t, cards)

	var transportErr *model.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

// TestRecommendUnusableModelResponse verifies that an empty model answer
// comes back as a FormatError rather than an empty card list.
func TestRecommendUnusableModelResponse(t *testing.T) {
	server := httptest.NewServer(exampleCatalogHandler())
	defer server.Close()

	generator := &test.FakeTextGenerator{Response: "   "}
	recWorkflow := buildWorkflow(t, server.URL, generator)

	cards, err := recWorkflow.Recommend(context.Background(), "Drama", "")
	assert.Nil(t, cards)

	var formatErr *model.FormatError
	assert.True(t, errors.As(err, &formatErr))
}

// TestRecommendPartialMatchIsSuccess verifies that a response where only
// some lines match candidates still succeeds with the surviving cards.
func TestRecommendPartialMatchIsSuccess(t *testing.T) {
	server := httptest.NewServer(exampleCatalogHandler())
	defer server.Close()

	generator := &test.FakeTextGenerator{Response: test.GetPartiallyMatchedModelResponse()}
	recWorkflow := buildWorkflow(t, server.URL, generator)

	cards, err := recWorkflow.Recommend(context.Background(), "Sci-Fi", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(cards))
	assert.Equal(t, "The Prestige", cards[0].Title)
	assert.Equal(t, "Primer", cards[1].Title)
}
