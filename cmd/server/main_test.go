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

// This file tests the HTTP surface: request validation, the mapping from
// pipeline errors to response statuses, and the response body shapes. The
// workflow behind the handler runs against a fake catalog and a fake text
// generator, so no network or model credentials are needed.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-movie-recs/internal/testutil"
)

// newTestRouter builds a gin engine with the recommendation routes mounted
// the way main does, backed by a fake catalog and the given generator.
func newTestRouter(t *testing.T, catalogHandler http.HandlerFunc, generator *test.FakeTextGenerator) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(catalogHandler)

	config := test.GetTestConfig()
	config.Catalog.BaseURL = server.URL

	catalog := &services.CatalogService{
		HTTPClient: http.DefaultClient,
		Catalog:    config.Catalog,
	}
	recWorkflow, err := workflow.NewRecommendationWorkflow(config, catalog, generator)
	require.NoError(t, err)

	r := gin.New()
	apiV1 := r.Group("/api/v1")
	RecommendationRouter(apiV1, recWorkflow)
	return r, server.Close
}

// catalogWithExamples serves discovery rows matching the example candidate
// list used by the canned model responses.
func catalogWithExamples() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results": [
			{"title": "The Prestige", "release_date": "2006-10-19", "overview": "Rival magicians.", "vote_average": 8.2, "poster_path": "/prestige.jpg"},
			{"title": "Coherence", "release_date": "2013-08-01", "overview": "A comet fractures reality.", "vote_average": 7.2, "poster_path": ""},
			{"title": "Primer", "release_date": "", "overview": "Garage time travel.", "vote_average": 6.9, "poster_path": "/primer.jpg"}
		]}`)
	}
}

// postRecommendations sends a recommendation request body and returns the
// recorded response.
func postRecommendations(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestRecommendationsHappyPath verifies a successful request: a 200 with a
// server-assigned id, the echoed inputs, and one card per matched line.
func TestRecommendationsHappyPath(t *testing.T) {
	generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
	r, closeCatalog := newTestRouter(t, catalogWithExamples(), generator)
	defer closeCatalog()

	w := postRecommendations(r, `{"genre": "Mystery", "filter": "with a strong plot twist"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.RecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.ID)
	require.Equal(t, "Mystery", result.Genre)
	require.Equal(t, "with a strong plot twist", result.Filter)
	require.Len(t, result.Cards, 3)
	require.Equal(t, "The Prestige", result.Cards[0].Title)
	require.Equal(t, "/static/placeholder.png", result.Cards[1].PosterURL)
}

// TestRecommendationsMissingGenre verifies that a body without the
// required genre field is rejected with a 400 before the pipeline runs.
func TestRecommendationsMissingGenre(t *testing.T) {
	generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
	r, closeCatalog := newTestRouter(t, catalogWithExamples(), generator)
	defer closeCatalog()

	w := postRecommendations(r, `{"filter": "uplifting"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, generator.Prompts)
}

// TestRecommendationsUnknownGenre verifies the strict genre policy at the
// HTTP boundary: a 400 with a stable user-facing message.
func TestRecommendationsUnknownGenre(t *testing.T) {
	generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
	r, closeCatalog := newTestRouter(t, catalogWithExamples(), generator)
	defer closeCatalog()

	w := postRecommendations(r, `{"genre": "Telenovela"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "unknown genre")
}

// TestRecommendationsUpstreamFailures verifies the error mapping for the
// two backend failure families: transport failures and unusable model
// responses both come back as a 502 with a retryable message, never a 500.
func TestRecommendationsUpstreamFailures(t *testing.T) {
	t.Run("catalog down", func(t *testing.T) {
		generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
		r, closeCatalog := newTestRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, generator)
		defer closeCatalog()

		w := postRecommendations(r, `{"genre": "Drama"}`)
		require.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("model call fails", func(t *testing.T) {
		generator := &test.FakeTextGenerator{Err: fmt.Errorf("deadline exceeded")}
		r, closeCatalog := newTestRouter(t, catalogWithExamples(), generator)
		defer closeCatalog()

		w := postRecommendations(r, `{"genre": "Drama"}`)
		require.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unusable model response", func(t *testing.T) {
		generator := &test.FakeTextGenerator{Response: "Gemini API error: internal"}
		r, closeCatalog := newTestRouter(t, catalogWithExamples(), generator)
		defer closeCatalog()

		w := postRecommendations(r, `{"genre": "Drama"}`)
		require.Equal(t, http.StatusBadGateway, w.Code)
		require.Contains(t, w.Body.String(), "please try again")
	})
}

// TestGenresEndpoint verifies that the genre listing returns the full
// static table in alphabetical order.
func TestGenresEndpoint(t *testing.T) {
	generator := &test.FakeTextGenerator{Response: test.GetWellFormedModelResponse()}
	r, closeCatalog := newTestRouter(t, catalogWithExamples(), generator)
	defer closeCatalog()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Genres []string `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, services.GenreNames(), body.Genres)
	require.Contains(t, body.Genres, "Sci-Fi")
	require.Equal(t, "Action", body.Genres[0])
}
