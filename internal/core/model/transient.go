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

// Package model defines the core data structures for the application.
// Everything here is transient: records are built once per user request,
// passed read-only through the recommendation pipeline, and discarded when
// the response is written. Nothing in this package is ever persisted.
package model

// Sentinel values used when the catalog returns incomplete records.
const (
	// YearUnknown is stored in CandidateMovie.Year when the catalog's
	// release-date field is absent or too short to carry a year.
	YearUnknown = "unknown"

	// NoPoster is stored in CandidateMovie.PosterURL when the catalog
	// record carries no poster path. The formatter substitutes the
	// configured placeholder image before a card reaches the client.
	NoPoster = ""
)

// CandidateMovie is one row returned by the catalog's discovery endpoint.
// Title is the lookup key for re-associating the model's picks with their
// catalog metadata, so it must be unique within a single candidate list.
type CandidateMovie struct {
	Title     string  `json:"title"`      // The movie title, exactly as the catalog reports it.
	Year      string  `json:"year"`       // Four-character release year, or YearUnknown.
	Overview  string  `json:"overview"`   // Free-text synopsis; may be empty.
	Rating    float64 `json:"rating"`     // The catalog's average-vote score.
	PosterURL string  `json:"poster_url"` // Fully-qualified image URL, or NoPoster.
}

// RecommendationCard is one finalized, displayable recommendation. It joins
// the title and explanation extracted from the model's free-text answer with
// the year, rating, and poster of the matching CandidateMovie.
type RecommendationCard struct {
	Title       string  `json:"title"`
	Year        string  `json:"year"`
	Rating      float64 `json:"rating"`
	PosterURL   string  `json:"poster_url"`
	Explanation string  `json:"explanation"` // The model's justification for the pick; may be empty.
}

// RecommendationResult is the response body for a recommendation request.
// Cards may legitimately hold fewer than three entries; partial success is
// not an error.
type RecommendationResult struct {
	ID     string                `json:"id"` // Server-assigned request identifier.
	Genre  string                `json:"genre"`
	Filter string                `json:"filter"`
	Cards  []*RecommendationCard `json:"cards"`
}
