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

// Package model_test contains the test suite for the model package. This
// file covers the pipeline's error taxonomy: callers must be able to branch
// on error type through arbitrary wrapping.
package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
	"github.com/zeebo/assert"
)

// TestTransportErrorUnwraps verifies that a wrapped transport error stays
// matchable with errors.As and keeps its underlying cause reachable with
// errors.Is.
func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("failed to fetch candidates: %w", model.NewTransportError("catalog.discover", cause))

	var transportErr *model.TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "catalog.discover", transportErr.Op)
	assert.True(t, errors.Is(err, cause))
}

// TestFormatErrorMessage verifies the error text carries the reason and
// that wrapping preserves the type.
func TestFormatErrorMessage(t *testing.T) {
	err := fmt.Errorf("failed to format recommendations: %w", &model.FormatError{Reason: "empty model response"})

	var formatErr *model.FormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "unusable model response: empty model response", formatErr.Error())
}
