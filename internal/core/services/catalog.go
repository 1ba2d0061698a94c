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

// Package services contains the business logic for interacting with the
// movie catalog. This file defines the CatalogService, which queries the
// catalog's discovery endpoint for candidate movies in a genre and
// normalizes the raw rows into CandidateMovie records.
//
// The service implements the filter-biasing rule: when the user's free-text
// filter asks for lesser-known titles, the query lowers the vote-count floor
// and raises the rating floor so that obscure but well-reviewed movies make
// it into the candidate list.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-movie-recs/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
)

// discoverMovie is the raw shape of one row in the catalog's discovery
// response. Only the fields the pipeline consumes are decoded.
type discoverMovie struct {
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
}

// discoverResponse is the envelope of the catalog's discovery endpoint.
type discoverResponse struct {
	Results []discoverMovie `json:"results"`
}

// CatalogService queries the movie catalog's discovery endpoint. The HTTP
// client and settings are injected at construction so tests can point the
// service at a fake catalog.
type CatalogService struct {
	HTTPClient *http.Client  // Shared outbound HTTP client; read-only after startup.
	Catalog    cloud.Catalog // Endpoint, credentials, and threshold settings.
}

// IsObscureRequest reports whether the filter text asks for lesser-known
// titles, using a case-insensitive substring match against the configured
// keyword family.
func (s *CatalogService) IsObscureRequest(filterText string) bool {
	lowered := strings.ToLower(filterText)
	for _, keyword := range s.Catalog.ObscureKeywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// DiscoverQuery builds the query parameters for a discovery request. It is
// split out from Discover so the threshold-selection rule is testable
// without a round trip.
func (s *CatalogService) DiscoverQuery(genreID int, filterText string) url.Values {
	minVotes := s.Catalog.BaselineMinVotes
	minRating := s.Catalog.BaselineMinRating
	if s.IsObscureRequest(filterText) {
		minVotes = s.Catalog.ObscureMinVotes
		minRating = s.Catalog.ObscureMinRating
	}

	params := url.Values{}
	params.Set("api_key", s.Catalog.APIKey)
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", s.Catalog.SortBy)
	params.Set("vote_count.gte", strconv.Itoa(minVotes))
	params.Set("vote_average.gte", strconv.FormatFloat(minRating, 'f', -1, 64))
	params.Set("language", s.Catalog.Language)
	return params
}

// Discover fetches candidate movies for a genre, biased by the user's
// filter text. It returns at most Catalog.MaxResults normalized candidates.
// An unknown genre returns ErrUnknownGenre; any transport failure or
// non-success status returns a *model.TransportError carrying the cause,
// never partial data.
func (s *CatalogService) Discover(ctx context.Context, genre string, filterText string) ([]*model.CandidateMovie, error) {
	genreID, err := GenreID(genre)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/discover/movie?%s", s.Catalog.BaseURL, s.DiscoverQuery(genreID, filterText).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, model.NewTransportError("catalog.discover", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, model.NewTransportError("catalog.discover", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewTransportError("catalog.discover", fmt.Errorf("unexpected status %s", resp.Status))
	}

	var payload discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, model.NewTransportError("catalog.discover", fmt.Errorf("failed to decode response: %w", err))
	}

	rows := payload.Results
	if len(rows) > s.Catalog.MaxResults {
		rows = rows[:s.Catalog.MaxResults]
	}

	out := make([]*model.CandidateMovie, 0, len(rows))
	for _, row := range rows {
		out = append(out, &model.CandidateMovie{
			Title:     row.Title,
			Year:      releaseYear(row.ReleaseDate),
			Overview:  row.Overview,
			Rating:    row.VoteAverage,
			PosterURL: posterURL(s.Catalog.ImageBaseURL, row.PosterPath),
		})
	}
	return out, nil
}

// releaseYear extracts the 4-character year from a catalog release date,
// substituting the sentinel when the field is absent or malformed.
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return model.YearUnknown
	}
	return releaseDate[:4]
}

// posterURL joins the image base URL with a record's poster path. A missing
// path yields the no-poster sentinel rather than a base-URL-only string.
func posterURL(imageBaseURL string, posterPath string) string {
	if posterPath == "" {
		return model.NoPoster
	}
	return imageBaseURL + posterPath
}
