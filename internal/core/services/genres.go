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
// movie catalog. This file holds the static table mapping user-facing genre
// names to the catalog provider's numeric genre ids.
package services

import (
	"errors"
	"sort"
)

// ErrUnknownGenre is returned when a requested genre has no entry in the
// genre table. Genre validation is strict: there is no fallback to a
// generic "popular" query for unrecognized genres.
var ErrUnknownGenre = errors.New("genre not found in genre table")

// genreIDs maps the genres the application accepts to the catalog
// provider's numeric category ids.
var genreIDs = map[string]int{
	"Action":      28,
	"Adventure":   12,
	"Animation":   16,
	"Comedy":      35,
	"Crime":       80,
	"Documentary": 99,
	"Drama":       18,
	"Family":      10751,
	"Fantasy":     14,
	"History":     36,
	"Horror":      27,
	"Music":       10402,
	"Mystery":     9648,
	"Romance":     10749,
	"Sci-Fi":      878,
	"Thriller":    53,
	"War":         10752,
	"Western":     37,
}

// GenreID returns the catalog id for a genre name, or ErrUnknownGenre.
func GenreID(name string) (int, error) {
	id, ok := genreIDs[name]
	if !ok {
		return 0, ErrUnknownGenre
	}
	return id, nil
}

// GenreNames returns the accepted genre names in alphabetical order, for
// populating the selection form on the client.
func GenreNames() []string {
	out := make([]string, 0, len(genreIDs))
	for name := range genreIDs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
