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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the client container for the external services
// the application talks to: the movie catalog's HTTP API and the Gemini
// generative model.
//
// Structs:
//   - Catalog: endpoint, image base URL, and query-threshold settings for
//     the movie catalog's discovery API.
//   - PromptTemplates: text templates for prompts sent to the GenAI model.
//   - VertexAiLLMModel: tuning parameters for a generative model.
//   - Config: the top-level aggregate loaded by LoadConfig.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the default content safety thresholds for
// GenAI models. Movie overviews routinely trip the stricter thresholds
// (crime, horror), so all categories pass through unblocked.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Catalog holds the settings for the movie catalog's discovery endpoint.
// The two threshold pairs implement the "lesser-known" bias: when the user's
// filter text contains one of ObscureKeywords, the query drops the
// vote-count floor and raises the rating floor to surface obscure but
// well-reviewed titles.
type Catalog struct {
	BaseURL           string   `toml:"base_url"`            // Root of the catalog API, e.g. "https://api.themoviedb.org/3".
	ImageBaseURL      string   `toml:"image_base_url"`      // Prefix joined with each record's poster path.
	APIKey            string   `toml:"api_key"`             // Normally injected from the TMDB_API_KEY environment variable.
	Language          string   `toml:"language"`            // Language tag sent with every discovery request.
	SortBy            string   `toml:"sort_by"`             // Discovery sort key, e.g. "vote_average.desc".
	MaxResults        int      `toml:"max_results"`         // Candidate list cap per request.
	BaselineMinVotes  int      `toml:"baseline_min_votes"`  // vote_count floor for ordinary queries.
	BaselineMinRating float64  `toml:"baseline_min_rating"` // vote_average floor for ordinary queries.
	ObscureMinVotes   int      `toml:"obscure_min_votes"`   // vote_count floor when the filter asks for lesser-known titles.
	ObscureMinRating  float64  `toml:"obscure_min_rating"`  // vote_average floor when the filter asks for lesser-known titles.
	ObscureKeywords   []string `toml:"obscure_keywords"`    // Phrases that trigger the lesser-known thresholds (matched case-insensitively).
	PlaceholderPoster string   `toml:"placeholder_poster"`  // Image path substituted for candidates without a poster.
}

// PromptTemplates holds the templates for prompts sent to the GenAI model.
// An empty template falls back to the compiled-in default.
type PromptTemplates struct {
	Recommendation string `toml:"recommendation"` // The template for the recommendation request prompt.
}

// VertexAiLLMModel represents the configuration for a generative model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The model identifier, e.g. "gemini-2.5-flash".
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"` // Response MIME type, e.g. "text/plain".
	RateLimit          int     `toml:"rate_limit"`    // Requests per second allowed through the quota wrapper.
}

// Config represents the overall configuration for the application.
type Config struct {
	Application struct {
		Name            string `toml:"name"`              // The name of the application, used as the telemetry service name.
		GoogleProjectId string `toml:"google_project_id"` // Project for the Cloud Trace / Monitoring exporters.
		GeminiAPIKey    string `toml:"gemini_api_key"`    // Normally injected from the GEMINI_API_KEY environment variable.
		Port            int    `toml:"port"`              // HTTP listen port.
	} `toml:"application"`
	Catalog         Catalog                     `toml:"catalog"`
	PromptTemplates PromptTemplates             `toml:"prompt_templates"`
	AgentModels     map[string]VertexAiLLMModel `toml:"agent_models"` // Generative models keyed by a logical name (e.g. "cinephile-flash").
}

// NewConfig creates a Config with its map initialized and the catalog
// settings pre-populated with the production defaults, so an overlay file
// only needs to name the values it changes.
func NewConfig() *Config {
	out := &Config{
		AgentModels: make(map[string]VertexAiLLMModel),
	}
	out.Application.Name = "movie-recs"
	out.Application.Port = 8080
	out.Catalog = Catalog{
		BaseURL:           "https://api.themoviedb.org/3",
		ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
		Language:          "en-US",
		SortBy:            "vote_average.desc",
		MaxResults:        15,
		BaselineMinVotes:  500,
		BaselineMinRating: 6.5,
		ObscureMinVotes:   50,
		ObscureMinRating:  7.5,
		ObscureKeywords: []string{
			"lesser-known",
			"lesser known",
			"little-known",
			"hidden gem",
			"underrated",
			"obscure",
		},
		PlaceholderPoster: "/static/placeholder.png",
	}
	return out
}
