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

// Package model defines the core data structures for the application.
// This file defines the error taxonomy for the recommendation pipeline.
// Every failure is scoped to a single in-flight request; nothing here is
// fatal to the process. The two typed errors replace the original system's
// habit of returning error text indistinguishable from a success payload:
// callers branch on the error type, never on string content.
package model

import "fmt"

// TransportError reports that an outbound call (catalog discovery or model
// generation) failed or came back with a non-success status. It always
// carries the underlying cause and never partial data.
type TransportError struct {
	Op  string // The outbound operation that failed, e.g. "catalog.discover".
	Err error  // The underlying cause.
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps the cause of a failed outbound call.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// FormatError reports that the model's raw response was unusable as a whole:
// either empty or a recognized error payload. It is distinct from an empty
// card list, which means the model answered but nothing could be matched
// against the candidate set.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "unusable model response: " + e.Reason
}
