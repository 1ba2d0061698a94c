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

package main

import (
	"context"
	"log"
	"os"

	"github.com/jaycherian/gcp-go-movie-recs/internal/cloud"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/workflow"
)

// AgentModelName is the logical name of the generative model the
// recommendation workflow uses, as configured under [agent_models].
const AgentModelName = "cinephile-flash"

// StateManager holds the process-wide dependencies: configuration, service
// clients, and the assembled recommendation workflow. Everything here is
// built once during startup and read-only afterwards.
type StateManager struct {
	config      *cloud.Config
	cloud       *cloud.ServiceClients
	catalog     *services.CatalogService
	recWorkflow *workflow.RecommendationWorkflow
}

var state = &StateManager{}

// SetupOS points the configuration loader at the local config directory
// when the environment has not already chosen one.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState initializes the service clients, the catalog service, and the
// recommendation workflow.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		log.Fatalf("failed to initialize service clients: %v\n", err)
	}
	state.cloud = cloudClients

	generator, ok := cloudClients.AgentModels[AgentModelName]
	if !ok {
		log.Fatalf("agent model %q not found in configuration\n", AgentModelName)
	}

	state.catalog = &services.CatalogService{
		HTTPClient: cloudClients.CatalogHTTPClient,
		Catalog:    config.Catalog,
	}

	recWorkflow, err := workflow.NewRecommendationWorkflow(config, state.catalog, generator)
	if err != nil {
		log.Fatalf("failed to build recommendation workflow: %v\n", err)
	}
	state.recWorkflow = recWorkflow
}
