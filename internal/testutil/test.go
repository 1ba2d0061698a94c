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

// Package test provides utility functions and mock data to support the
// application's test suite. It supplies a hermetic configuration, a fake
// text generator that stands in for the Gemini model, and canned model
// responses that line up with the example candidate catalog.
package test

import (
	"context"
	"testing"

	"github.com/jaycherian/gcp-go-movie-recs/internal/cloud"
)

// HandleErr is a simple test helper function that checks if an error is not nil.
// If an error exists, it fails the test immediately by calling t.Errorf.
// This is a convenience function to reduce boilerplate error-checking code in tests.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestConfig returns a fully populated configuration for tests. It is
// built in code rather than loaded from TOML files so that the test suite
// never depends on the working directory or on environment variables. The
// catalog endpoints are placeholders that individual tests override with an
// httptest server URL.
//
// Returns:
//   - A pointer to a ready-to-use cloud.Config struct.
func GetTestConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Application.Name = "movie-recs-test"
	config.Application.Port = 0
	config.Catalog.APIKey = "test-api-key"
	config.Catalog.MaxResults = 15
	return config
}

// FakeTextGenerator is a cloud.TextGenerator double for tests. It records
// every prompt it receives and returns a canned response (or error), which
// lets workflow and handler tests run without a live Gemini backend.
type FakeTextGenerator struct {
	// Response is the text returned from every GenerateText call.
	Response string
	// Err, when non-nil, is returned instead of Response.
	Err error
	// Prompts accumulates the prompts passed to GenerateText, in order.
	Prompts []string
}

// GenerateText implements cloud.TextGenerator by recording the prompt and
// returning the configured canned response or error.
//
// Inputs:
//   - ctx: The context for the call (unused by the fake).
//   - prompt: The fully rendered prompt text.
//
// Returns:
//   - The configured response string and error.
func (f *FakeTextGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

// GetWellFormedModelResponse returns a model answer that follows the output
// format the recommendation prompt asks for, with all three titles drawn
// from model.GetExampleCandidates(). Formatting it should yield three cards
// in this exact order.
//
// Returns:
//   - A string containing three well-formed recommendation lines.
func GetWellFormedModelResponse() string {
	return `Here are three picks for you:

1.  **The Prestige** (2006) - Mystery | Rating: [8.2]: Two rival magicians push an obsession with the perfect trick into dark territory.
2.  **Coherence** (2013) - Sci-Fi | Rating: [7.2]: A dinner party unravels into branching realities after a comet passes overhead.
3.  **Primer** (unknown) - Sci-Fi | Rating: [6.9]: Two engineers stumble onto time travel and drown in their own causality.
`
}

// GetPartiallyMatchedModelResponse returns a model answer where the second
// line names a movie that is not in the example candidate list. Formatting
// it should yield two cards and silently drop the unmatched line.
//
// Returns:
//   - A string containing three lines, one of which cannot be matched.
func GetPartiallyMatchedModelResponse() string {
	return `1.  **The Prestige** (2006) - Mystery | Rating: [8.2]: A duel of stagecraft and sacrifice.
2.  **Inception** (2010) - Sci-Fi | Rating: [8.8]: A heist inside layered dreams.
3.  **Primer** (unknown) - Sci-Fi | Rating: [6.9]: Garage-built time travel with real consequences.
`
}
