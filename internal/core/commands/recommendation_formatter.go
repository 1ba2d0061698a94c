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
// up the recommendation pipeline. This file defines the formatter, the last
// and most delicate step: it parses the model's free-text answer against
// the line grammar the prompt demanded, re-associates each extracted title
// with its catalog record, and emits the finished recommendation cards.
//
// The parsing policy is deliberately lenient at the line level and strict
// at the response level. A response that is empty or is a recognized error
// payload fails as a whole (FormatError). Within a usable response, any
// line that does not conform to the grammar, or names a title outside the
// candidate list, is silently dropped: fewer correct cards beat a failed
// request. An empty card list is therefore a valid outcome, distinct from
// FormatError.
package commands

import (
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
)

// Grammar of the response lines the prompt's OUTPUT FORMAT requests.
const (
	// ErrorPayloadMarker identifies a response that is an error message
	// rather than a recommendation list.
	ErrorPayloadMarker = "Gemini API error"

	// titleDelimiter brackets the movie title on each numbered line.
	titleDelimiter = "**"

	// explanationMarker closes the bracketed rating field; the free-text
	// explanation is everything after its last occurrence.
	explanationMarker = "]:"
)

// lineMarkers are the numbered-list prefixes that identify recommendation
// lines. All other lines (preamble, blanks, commentary) are ignored.
var lineMarkers = []string{"1.", "2.", "3."}

// FormatRecommendations parses the model's raw response and builds one card
// per recommendation whose title exactly matches a candidate. Cards keep
// the response's line order. Candidates without a poster get the supplied
// placeholder path. The only failure mode is a *model.FormatError for a
// response that is empty or an error payload.
func FormatRecommendations(rawText string, candidates []*model.CandidateMovie, placeholderPoster string) ([]*model.RecommendationCard, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, &model.FormatError{Reason: "empty model response"}
	}
	if strings.Contains(rawText, ErrorPayloadMarker) {
		return nil, &model.FormatError{Reason: "model returned an error payload"}
	}

	// Titles are assumed unique within one candidate list, so the lookup
	// is a plain map on the exact title string.
	byTitle := make(map[string]*model.CandidateMovie, len(candidates))
	for _, candidate := range candidates {
		byTitle[candidate.Title] = candidate
	}

	cards := make([]*model.RecommendationCard, 0, len(lineMarkers))
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if !isRecommendationLine(line) {
			continue
		}

		title, ok := extractTitle(line)
		if !ok {
			// Malformed line; drop it without failing the batch.
			continue
		}

		candidate, ok := byTitle[title]
		if !ok {
			// The model paraphrased the title or named something outside
			// the candidate set.
			continue
		}

		posterURL := candidate.PosterURL
		if posterURL == model.NoPoster {
			posterURL = placeholderPoster
		}

		cards = append(cards, &model.RecommendationCard{
			Title:       candidate.Title,
			Year:        candidate.Year,
			Rating:      candidate.Rating,
			PosterURL:   posterURL,
			Explanation: extractExplanation(line),
		})
	}

	return cards, nil
}

// isRecommendationLine reports whether a line carries one of the expected
// numbered-list markers.
func isRecommendationLine(line string) bool {
	for _, marker := range lineMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// extractTitle returns the text strictly between the first two title
// delimiters, trimmed. It reports false when fewer than two delimiters are
// present.
func extractTitle(line string) (string, bool) {
	start := strings.Index(line, titleDelimiter)
	if start == -1 {
		return "", false
	}
	rest := line[start+len(titleDelimiter):]
	end := strings.Index(rest, titleDelimiter)
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractExplanation returns the text after the last explanation marker,
// trimmed, or the empty string when the marker is absent. A missing
// explanation never invalidates the line.
func extractExplanation(line string) string {
	idx := strings.LastIndex(line, explanationMarker)
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(line[idx+len(explanationMarker):])
}

// RecommendationFormatter is the command wrapper around
// FormatRecommendations. It reads the raw model response from the chain's
// piped input and the candidate list from the side-channel key published by
// the fetcher.
type RecommendationFormatter struct {
	cor.BaseCommand
	placeholderPoster string
}

// NewRecommendationFormatter creates the formatter. The placeholder is the
// image path substituted for candidates without catalog artwork.
func NewRecommendationFormatter(name string, outputParamName string, placeholderPoster string) *RecommendationFormatter {
	out := &RecommendationFormatter{
		BaseCommand:       *cor.NewBaseCommand(name),
		placeholderPoster: placeholderPoster,
	}
	out.OutputParamName = outputParamName
	return out
}

// Execute parses the raw response and stores the card list under both the
// command's named output and the chain's output slot.
func (t *RecommendationFormatter) Execute(context cor.Context) {
	rawText := context.Get(t.GetInputParam()).(string)
	candidates, _ := context.Get(CtxCandidates).([]*model.CandidateMovie)

	cards, err := FormatRecommendations(rawText, candidates, t.placeholderPoster)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to format recommendations: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), cards)
	context.Add(cor.CtxOut, cards)
}
