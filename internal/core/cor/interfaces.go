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

// Package cor (Chain of Responsibility) provides the building blocks for
// sequential workflows. A workflow is a Chain of Commands that share a
// Context: each command reads its input from the context, does one unit of
// work, and writes its output back for the next command. The recommendation
// pipeline (fetch candidates, compose prompt, call the model, format cards)
// is a single such chain executed once per user request.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the context keys used for the chain's data piping.
// After each command runs, the chain moves the value stored under CtxOut to
// CtxIn so the next command picks it up as its primary input.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state for one workflow execution. It carries the
// piped data, any side-channel values commands publish under named keys,
// the errors each command records, and the Go context used for cancellation
// and tracing. A Context must never be shared between requests.
type Context interface {
	// SetContext swaps the underlying Go context. The chain uses this to
	// scope each command's work to its own trace span.
	SetContext(context context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a key-value pair and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes the value stored under key.
	Remove(key string)

	// AddError records a failure, keyed by the name of the command that
	// produced it.
	AddError(key string, err error)

	// GetErrors returns all recorded failures.
	GetErrors() map[string]error

	// HasErrors reports whether any command has failed.
	HasErrors() bool
}

// Executable is anything with a single unit of business logic.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, individually traceable step in a workflow.
type Command interface {
	Executable

	// GetName returns the command's unique name, used in spans and metrics.
	GetName() string

	// GetInputParam returns the context key the command reads its primary
	// input from.
	GetInputParam() string

	// GetOutputParam returns the context key the command writes its primary
	// output to.
	GetOutputParam() string

	// IsExecutable reports whether the context holds everything the command
	// needs to run. It is checked before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains can nest.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps executing after a
	// command records an error. The default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
