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

// Package cloud provides components for interacting with external services.
// This file contains the hierarchical configuration loader and the resilient
// text-generation helper used by the recommendation pipeline.
//
// Functions:
//   - LoadConfig: reads a base TOML file, overlays an environment-specific
//     TOML file (.env.<runtime>.toml), then overlays API-key secrets from
//     process environment variables.
//   - GenerateTextResponse: wraps a GenAI call with retries and token-usage
//     metrics, returning the model's concatenated text output.
package cloud

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"                // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"               // The file extension for configuration files.
	ConfigSeparator     = "."                   // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "MOVIE_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "MOVIE_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test").
	EnvCatalogAPIKey    = "TMDB_API_KEY"        // The environment variable carrying the catalog API key.
	EnvGeminiAPIKey     = "GEMINI_API_KEY"      // The environment variable carrying the Gemini API key.
	MaxRetries          = 3                     // The maximum number of times to retry a failed model call.
)

// fileExists reports whether a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the base TOML file, then from the
// environment-specific overlay file, and finally injects the two API-key
// secrets from environment variables. Secrets always win over file values so
// keys never have to live in a checked-in config.
func LoadConfig(baseConfig *Config) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the runtime overlay overwrite the base file.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}

	if key := os.Getenv(EnvCatalogAPIKey); key != "" {
		baseConfig.Catalog.APIKey = key
	}
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		baseConfig.Application.GeminiAPIKey = key
	}
}

// GenerateTextResponse executes a text request against a quota-aware model,
// retrying transient failures up to MaxRetries and recording token usage on
// the supplied counters. The response's candidate parts are concatenated
// into a single string with any markdown code fences stripped.
func GenerateTextResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content) (value string, err error) {
	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		if tryCount < MaxRetries {
			retryCounter.Add(ctx, 1)
			return GenerateTextResponse(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, content)
		}
		return "", err
	}

	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	value = ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += part.Text
			}
		}
	}
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return value, nil
}
