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
// This file initializes and holds the client objects the application needs:
// the Gemini client for recommendations and the HTTP client for the movie
// catalog. It acts as a dependency injection container: one ServiceClients
// struct is built at startup and handed to the components that need it, so
// nothing below the entry point reaches for process-wide singletons. All
// clients are read-only after initialization and safe for concurrent use.
package cloud

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ServiceClients is the container for every client that talks to an
// external service. Handlers and workflows receive it (or the specific
// client they need) at construction time.
type ServiceClients struct {
	GenAIClient       *genai.Client                           // Client for the Gemini API.
	CatalogHTTPClient *http.Client                            // HTTP client for the movie catalog API.
	AgentModels       map[string]*QuotaAwareGenerativeAIModel // Configured generative models, keyed by logical name.
}

// NewCloudServiceClients initializes all external service clients from the
// loaded configuration.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	if config.Application.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing Gemini API key: set %s", EnvGeminiAPIKey)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.Application.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}

	// Build a rate-limited wrapper for each configured agent model.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey := range config.AgentModels {
		values := config.AgentModels[amKey]
		generationConfig := &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](values.Temperature),
			TopP:              genai.Ptr[float32](values.TopP),
			TopK:              genai.Ptr[float32](values.TopK),
			MaxOutputTokens:   values.MaxTokens,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
			SafetySettings:    DefaultSafetySettings,
			ResponseMIMEType:  values.OutputFormat,
		}
		agentModels[amKey] = NewQuotaAwareModel(generationConfig, values.Model, gc.Models, values.RateLimit)
	}

	return &ServiceClients{
		GenAIClient:       gc,
		CatalogHTTPClient: &http.Client{},
		AgentModels:       agentModels,
	}, nil
}
