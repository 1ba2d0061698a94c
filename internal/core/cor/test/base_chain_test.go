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

// Package cor_test contains the test suite for the chain-of-responsibility
// framework: the in/out piping between commands and the stop-on-error
// behavior the recommendation pipeline relies on.
package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/cor"
	"github.com/zeebo/assert"
)

// appendCommand is a trivial command that appends its suffix to the piped
// string, or records an error when told to fail.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	fail   bool
	ran    bool
}

func newAppendCommand(name string, suffix string, fail bool) *appendCommand {
	return &appendCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		suffix:      suffix,
		fail:        fail,
	}
}

func (c *appendCommand) Execute(context cor.Context) {
	c.ran = true
	if c.fail {
		context.AddError(c.GetName(), errors.New("induced failure"))
		return
	}
	in := context.Get(c.GetInputParam()).(string)
	context.Add(c.GetOutputParam(), in+c.suffix)
}

// TestChainPipesOutputToInput verifies that each command's output value
// becomes the next command's input and that the final value stays readable
// on the chain's output slot.
func TestChainPipesOutputToInput(t *testing.T) {
	chain := cor.NewBaseChain("piping")
	chain.AddCommand(newAppendCommand("first", "-a", false))
	chain.AddCommand(newAppendCommand("second", "-b", false))

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, "seed")

	chain.Execute(chainCtx)
	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, "seed-a-b", chainCtx.Get(cor.CtxIn).(string))
}

// TestChainStopsOnError verifies the default stop-on-error behavior: once
// a command records a failure, later commands never run and the error stays
// keyed by the failing command's name.
func TestChainStopsOnError(t *testing.T) {
	failing := newAppendCommand("failing", "-x", true)
	skipped := newAppendCommand("skipped", "-y", false)

	chain := cor.NewBaseChain("stop-on-error")
	chain.AddCommand(failing)
	chain.AddCommand(skipped)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(cor.CtxIn, "seed")

	chain.Execute(chainCtx)
	assert.True(t, chainCtx.HasErrors())
	assert.True(t, failing.ran)
	assert.False(t, skipped.ran)

	_, recorded := chainCtx.GetErrors()["failing"]
	assert.True(t, recorded)
}

// TestCommandNotExecutableWithoutInput verifies the base precondition: a
// command whose input key is absent from the context is not executable.
func TestCommandNotExecutableWithoutInput(t *testing.T) {
	command := newAppendCommand("needs-input", "-a", false)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(context.Background())
	assert.False(t, command.IsExecutable(chainCtx))

	chainCtx.Add(cor.CtxIn, "seed")
	assert.True(t, command.IsExecutable(chainCtx))
}
