// Copyright 2025 Google, LLC
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

// This file classifies backend failures into a small taxonomy with
// user-facing messages. The backend communicates failures as human-readable
// message strings, not structured codes, so classification is substring
// matching. That contract is brittle: if the backend rewords a message, the
// failure silently falls through to Unknown. The matched substrings are
// "SAFETY", "quota", and "Requested entity was not found", in that order of
// precedence.

package services

import (
	"errors"
	"strings"
)

// ErrorKind is the failure taxonomy surfaced to the session layer.
type ErrorKind string

const (
	// ErrSafetyBlocked means the prompt or content was rejected by policy.
	// The user must edit the prompt, not retry as-is.
	ErrSafetyBlocked ErrorKind = "SafetyBlocked"
	// ErrQuotaExceeded means billing or quota is exhausted. Not retryable
	// without user action.
	ErrQuotaExceeded ErrorKind = "QuotaExceeded"
	// ErrInvalidCredential means the active credential is stale or wrong.
	// It signals upstream that credential selection must be re-prompted.
	ErrInvalidCredential ErrorKind = "InvalidCredential"
	// ErrNoResult means the backend reported success but returned no usable
	// payload. A generation failure, not a transport error.
	ErrNoResult ErrorKind = "NoResult"
	// ErrUnknown covers everything else; the original message passes
	// through verbatim.
	ErrUnknown ErrorKind = "Unknown"
)

// ErrNoGenerationResult is the sentinel for a job that completed without
// producing an output reference.
var ErrNoGenerationResult = errors.New("generation produced no result")

// ErrSessionBusy is returned when a submission arrives while another is
// still in flight.
var ErrSessionBusy = errors.New("a generation request is already in progress")

// ErrCredentialRequired is returned when a video mode is submitted after an
// invalid-credential failure and before the credential has been re-selected.
var ErrCredentialRequired = errors.New("API Key error. Please re-select your API key and try again.")

// ClassifiedError pairs a failure kind with the message shown to the user.
type ClassifiedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error satisfies the error interface so classified failures can flow
// through error returns unchanged.
func (e ClassifiedError) Error() string {
	return e.Message
}

// Classify maps a raw backend failure onto the taxonomy.
func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{Kind: ErrUnknown, Message: ""}
	}
	if errors.Is(err, ErrNoGenerationResult) {
		return ClassifiedError{Kind: ErrNoResult, Message: err.Error()}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "SAFETY"):
		return ClassifiedError{
			Kind:    ErrSafetyBlocked,
			Message: "Content blocked by safety filters. Please modify your prompt.",
		}
	case strings.Contains(msg, "quota"):
		return ClassifiedError{
			Kind:    ErrQuotaExceeded,
			Message: "API quota exceeded. Please check your billing or try again later.",
		}
	case strings.Contains(msg, "Requested entity was not found"):
		return ClassifiedError{
			Kind:    ErrInvalidCredential,
			Message: "Requested entity was not found. Please re-select your API key.",
		}
	default:
		return ClassifiedError{Kind: ErrUnknown, Message: msg}
	}
}
