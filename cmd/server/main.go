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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/services"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/workflow"
	"github.com/jaycherian/gcp-go-movie-recs/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware(config.Application.Name))
	// Permissive CORS keeps local frontend development friction-free.
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	apiV1 := r.Group("/api/v1")
	{
		RecommendationRouter(apiV1, state.recWorkflow)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Application.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("Server ready", "port", config.Application.Port)

	// Wait for an interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// Give in-flight requests 5 seconds to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// recommendationRequest is the inbound form: a genre from the static table
// and a free-text mood/filter string.
type recommendationRequest struct {
	Genre  string `json:"genre" binding:"required"`
	Filter string `json:"filter"`
}

// RecommendationRouter sets up the routes for requesting recommendations
// and listing the accepted genres.
func RecommendationRouter(r *gin.RouterGroup, recWorkflow *workflow.RecommendationWorkflow) {
	recommendations := r.Group("/recommendations")
	{
		recommendations.POST("", func(c *gin.Context) {
			var req recommendationRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "genre is required"})
				return
			}

			cards, err := recWorkflow.Recommend(c.Request.Context(), req.Genre, req.Filter)
			if err != nil {
				status, message := mapRecommendationError(err)
				slog.ErrorContext(c.Request.Context(), "recommendation request failed",
					"genre", req.Genre, "error", err)
				c.JSON(status, gin.H{"error": message})
				return
			}

			c.JSON(http.StatusOK, &model.RecommendationResult{
				ID:     uuid.NewString(),
				Genre:  req.Genre,
				Filter: req.Filter,
				Cards:  cards,
			})
		})
	}

	r.GET("/genres", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"genres": services.GenreNames()})
	})
}

// mapRecommendationError translates the pipeline's typed errors into an
// HTTP status and a user-facing message. Internal detail stays in the logs.
func mapRecommendationError(err error) (int, string) {
	var transportErr *model.TransportError
	var formatErr *model.FormatError

	switch {
	case errors.Is(err, services.ErrUnknownGenre):
		return http.StatusBadRequest, "unknown genre"
	case errors.As(err, &formatErr):
		return http.StatusBadGateway, "could not get a recommendation, please try again"
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, "a backing service is unavailable, please try again"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
