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

// This file is the submission boundary. One generation request is in flight
// at a time: the busy flag is set before dispatch and cleared in a deferred
// cleanup path that also releases the attachment previews, so no outcome
// can leave the session wedged. Failures are classified here and appended
// to the transcript as assistant entries; they never escape as panics.

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/cor"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
)

// AgentSession owns the conversational state of the editing surface: the
// transcript, the pending-submission settings, the busy flag, and the
// credential-selected flag.
type AgentSession struct {
	mu                 sync.Mutex
	busy               bool
	credentialSelected bool
	transcript         []model.ChatMessage
	explicitMode       model.GenerationMode
	aspectRatio        model.AspectRatio
	thinkingMode       bool
	useSearch          bool

	pipeline    cor.Command
	library     *Library
	attachments *Attachments
}

// NewAgentSession creates a session over the submission pipeline. The
// credential starts out selected; an InvalidCredential failure clears it.
func NewAgentSession(pipeline cor.Command, library *Library, attachments *Attachments) *AgentSession {
	return &AgentSession{
		credentialSelected: true,
		transcript:         make([]model.ChatMessage, 0),
		explicitMode:       model.ModeChat,
		aspectRatio:        model.AspectLandscape,
		pipeline:           pipeline,
		library:            library,
		attachments:        attachments,
	}
}

// Busy reports whether a submission is in flight.
func (s *AgentSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// SetMode sets the explicit mode override for the next submission.
func (s *AgentSession) SetMode(mode model.GenerationMode) error {
	for _, m := range model.GenerationModes() {
		if mode == m {
			s.mu.Lock()
			s.explicitMode = mode
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("unknown generation mode: %s", mode)
}

// SetAspectRatio sets the output shape for the next submission.
func (s *AgentSession) SetAspectRatio(ratio model.AspectRatio) error {
	if !ratio.Valid() {
		return fmt.Errorf("unsupported aspect ratio: %s", ratio)
	}
	s.mu.Lock()
	s.aspectRatio = ratio
	s.mu.Unlock()
	return nil
}

// SetThinkingMode toggles the extended-reasoning model tier for chat.
func (s *AgentSession) SetThinkingMode(enabled bool) {
	s.mu.Lock()
	s.thinkingMode = enabled
	s.mu.Unlock()
}

// SetUseSearch toggles search grounding for chat completions.
func (s *AgentSession) SetUseSearch(enabled bool) {
	s.mu.Lock()
	s.useSearch = enabled
	s.mu.Unlock()
}

// SelectCredential marks the user's credential as re-selected, unblocking
// video submissions after an InvalidCredential failure.
func (s *AgentSession) SelectCredential() {
	s.mu.Lock()
	s.credentialSelected = true
	s.mu.Unlock()
}

// CredentialSelected reports whether a usable credential is selected.
func (s *AgentSession) CredentialSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentialSelected
}

// Transcript returns a copy of the append-only conversation history.
func (s *AgentSession) Transcript() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Constraints recomputes the mode resolution and arity verdict for the
// current attachment and selection state. Derived state, never stored.
func (s *AgentSession) Constraints() (model.GenerationMode, model.GenerationConstraints) {
	s.mu.Lock()
	explicit := s.explicitMode
	s.mu.Unlock()

	active := s.library.Active()
	activeType := model.AssetType("")
	if active != nil {
		activeType = active.Type
	}
	count := s.attachments.Count()
	mode := ResolveMode(explicit, count, activeType)
	return mode, ValidateConstraints(mode, count, active != nil)
}

// Submit runs one generation request through the pipeline and returns the
// assistant's transcript entry. A second submission while one is in flight
// returns ErrSessionBusy. On failure the classified message is appended to
// the transcript and returned along with the classified error; the busy
// flag and attachment previews are cleaned up on every path.
func (s *AgentSession) Submit(ctx context.Context, prompt string) (*model.ChatMessage, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrSessionBusy
	}
	s.busy = true
	explicit := s.explicitMode
	aspect := s.aspectRatio
	thinking := s.thinkingMode
	useSearch := s.useSearch
	s.mu.Unlock()

	defer func() {
		s.attachments.Clear()
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	req := &model.GenerationRequest{
		Prompt:       prompt,
		ExplicitMode: explicit,
		AspectRatio:  aspect,
		Attachments:  s.attachments.Snapshot(),
		ActiveAsset:  s.library.Active(),
		ThinkingMode: thinking,
		UseSearch:    useSearch,
	}
	mode := ResolveMode(req.ExplicitMode, len(req.Attachments), req.ActiveAssetType())

	s.appendMessage(model.ChatMessage{Role: model.RoleUser, Content: prompt})
	slog.Info("submitting generation request", "mode", string(mode), "attachments", len(req.Attachments))

	if mode.IsVideo() && !s.CredentialSelected() {
		return s.fail(ErrCredentialRequired)
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, req)
	defer chainCtx.Close()

	s.pipeline.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for name, err := range chainCtx.GetErrors() {
			slog.Error("generation pipeline failed", "command", name, "error", err)
			return s.fail(err)
		}
	}

	out, ok := chainCtx.Get(cor.CtxIn).(*model.ChatMessage)
	if !ok {
		return s.fail(ErrNoGenerationResult)
	}
	s.appendMessage(*out)
	return out, nil
}

// fail classifies the error, appends it to the transcript as an assistant
// entry, resets the credential flag when the credential itself is at fault,
// and hands the classified error back for the transport layer.
func (s *AgentSession) fail(err error) (*model.ChatMessage, error) {
	classified := Classify(err)
	if classified.Kind == ErrInvalidCredential {
		s.mu.Lock()
		s.credentialSelected = false
		s.mu.Unlock()
	}
	msg := model.ChatMessage{Role: model.RoleAssistant, Content: classified.Message}
	s.appendMessage(msg)
	return &msg, classified
}

func (s *AgentSession) appendMessage(msg model.ChatMessage) {
	s.mu.Lock()
	s.transcript = append(s.transcript, msg)
	s.mu.Unlock()
}
