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
// This file provides canned example data shared by the test suites.
package model

// GetExampleCandidates returns a small candidate list shaped like a real
// catalog discovery result, including one record without a poster and one
// without a usable release year.
func GetExampleCandidates() []*CandidateMovie {
	return []*CandidateMovie{
		{
			Title:     "The Prestige",
			Year:      "2006",
			Overview:  "Two rival stage magicians escalate a feud built on obsession and a buried secret.",
			Rating:    8.2,
			PosterURL: "https://image.tmdb.org/t/p/w500/prestige.jpg",
		},
		{
			Title:     "Coherence",
			Year:      "2013",
			Overview:  "A dinner party fractures into competing realities after a comet passes overhead.",
			Rating:    7.2,
			PosterURL: NoPoster,
		},
		{
			Title:     "Primer",
			Year:      YearUnknown,
			Overview:  "Two engineers stumble into time travel and lose control of their own timeline.",
			Rating:    6.9,
			PosterURL: "https://image.tmdb.org/t/p/w500/primer.jpg",
		},
	}
}
