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

// This file exercises the agent session end to end: a submission flows
// through the full generation chain against the fake backend, and every
// outcome path leaves the session in a clean state.
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-media-studio/internal/core/media"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/model"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/services"
	"github.com/jaycherian/gcp-go-media-studio/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-media-studio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes is a payload the type sniffer recognizes as a PNG image.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)

// sessionFixture wires a full session stack over the fake backend, with
// the scratch store rooted in the test's temp dir.
type sessionFixture struct {
	backend     *test.FakeBackend
	store       *media.Store
	library     *services.Library
	attachments *services.Attachments
	session     *services.AgentSession
}

func newSessionFixture(t *testing.T, backend *test.FakeBackend) *sessionFixture {
	t.Helper()
	store, err := media.NewStore(t.TempDir(), "http://localhost:8080/api/v1/assets")
	require.NoError(t, err)
	t.Cleanup(store.Close)

	prober := &test.FakeProber{Duration: 8}
	library := services.NewLibrary(prober)
	attachments := services.NewAttachments(store)

	poller := services.NewJobPoller(backend, time.Millisecond, 0)
	dispatcher := services.NewDispatcher(backend, poller)
	pipeline := workflow.NewGenerationPipeline(dispatcher, library, store)

	return &sessionFixture{
		backend:     backend,
		store:       store,
		library:     library,
		attachments: attachments,
		session:     services.NewAgentSession(pipeline, library, attachments),
	}
}

// TestSessionChatSubmission verifies the plain chat path: the prompt and
// the assistant's reply both land on the transcript and the busy flag is
// cleared afterwards.
func TestSessionChatSubmission(t *testing.T) {
	f := newSessionFixture(t, &test.FakeBackend{TextResponse: "Hi there!"})

	msg, err := f.session.Submit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Equal(t, "Hi there!", msg.Content)

	transcript := f.session.Transcript()
	require.Equal(t, 2, len(transcript))
	assert.Equal(t, model.RoleUser, transcript[0].Role)
	assert.Equal(t, "hello", transcript[0].Content)
	assert.Equal(t, "Hi there!", transcript[1].Content)

	assert.False(t, f.session.Busy())
	assert.Equal(t, 1, f.backend.TextCalls)
}

// TestSessionImageSubmission verifies that generated image bytes become a
// library asset with a playable url referenced by the transcript entry.
func TestSessionImageSubmission(t *testing.T) {
	f := newSessionFixture(t, &test.FakeBackend{ImageBytes: pngBytes})
	require.NoError(t, f.session.SetMode(model.ModeImage))

	msg, err := f.session.Submit(context.Background(), "a cat in a hat")
	require.NoError(t, err)
	assert.Equal(t, `Generated image for: "a cat in a hat"`, msg.Content)
	assert.NotEmpty(t, msg.MediaUrl)

	assets := f.library.List()
	require.Equal(t, 1, len(assets))
	assert.Equal(t, model.AssetTypeImage, assets[0].Type)
	assert.Equal(t, model.DefaultImageDurationSeconds, assets[0].Duration)
	assert.Equal(t, msg.MediaUrl, assets[0].Url)
	assert.Equal(t, 1, f.store.OpenCount())
}

// TestSessionVideoExtension verifies the long-running path end to end: the
// selected video's bytes feed the job spec, the polled result is fetched
// and materialized, and the new asset points back at its source.
func TestSessionVideoExtension(t *testing.T) {
	f := newSessionFixture(t, &test.FakeBackend{
		PollsUntilDone: 2,
		VideoRef:       "files/extended-1",
		VideoBytes:     []byte("fake mp4 payload"),
	})

	source := model.GetExampleVideoAsset()
	require.NoError(t, f.library.Add(context.Background(), source))
	selected, err := f.library.Select(source.Id)
	require.NoError(t, err)
	require.NotNil(t, selected)

	msg, err := f.session.Submit(context.Background(), "keep the camera panning")
	require.NoError(t, err)
	assert.Equal(t, "Extended the selected video.", msg.Content)
	assert.NotEmpty(t, msg.MediaUrl)

	assert.Equal(t, 1, f.backend.SubmitCalls)
	assert.Equal(t, 2, f.backend.PollCalls)
	assert.Equal(t, 1, f.backend.FetchCalls)
	assert.Equal(t, source.Bytes, f.backend.LastSpec.PriorVideo)

	assets := f.library.List()
	require.Equal(t, 2, len(assets))
	assert.Equal(t, model.AssetTypeVideo, assets[0].Type)
	assert.Equal(t, source.Id, assets[0].ParentAssetId)
	assert.Equal(t, 8.0, assets[0].Duration)
}

// TestSessionConstraintFailure verifies that an arity failure surfaces its
// validation message as the assistant entry and never reaches the backend.
func TestSessionConstraintFailure(t *testing.T) {
	f := newSessionFixture(t, &test.FakeBackend{})
	require.NoError(t, f.session.SetMode(model.ModeMultiImageComposition))

	_, err := f.attachments.Add(pngBytes)
	require.NoError(t, err)

	msg, err := f.session.Submit(context.Background(), "blend these")
	assert.Error(t, err)
	assert.Equal(t, services.MsgAtLeastTwoImages, msg.Content)
	assert.Equal(t, 0, f.backend.ImageCalls)

	// Cleanup ran: busy cleared, attachment previews released.
	assert.False(t, f.session.Busy())
	assert.Equal(t, 0, f.attachments.Count())
	assert.Equal(t, 0, f.store.OpenCount())
}

// TestSessionFailureClassification verifies that a backend failure is
// classified, appended to the transcript as an assistant entry, and leaves
// the busy flag cleared.
func TestSessionFailureClassification(t *testing.T) {
	f := newSessionFixture(t, &test.FakeBackend{
		TextErr: errors.New("rpc error: quota exceeded for metric"),
	})

	msg, err := f.session.Submit(context.Background(), "hello")
	require.Error(t, err)

	var classified services.ClassifiedError
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, services.ErrQuotaExceeded, classified.Kind)
	assert.Equal(t, "API quota exceeded. Please check your billing or try again later.", msg.Content)

	transcript := f.session.Transcript()
	require.Equal(t, 2, len(transcript))
	assert.Equal(t, model.RoleAssistant, transcript[1].Role)
	assert.False(t, f.session.Busy())
}

// TestSessionCredentialReset verifies the credential lifecycle: an
// invalid-credential failure clears the selected flag, video submissions
// are blocked until re-selection, and re-selecting unblocks them.
func TestSessionCredentialReset(t *testing.T) {
	f := newSessionFixture(t, &test.FakeBackend{
		SubmitErr: errors.New("googleapi: Error 404: Requested entity was not found."),
	})
	require.NoError(t, f.session.SetMode(model.ModeVideo))

	assert.True(t, f.session.CredentialSelected())
	_, err := f.session.Submit(context.Background(), "a storm over the sea")
	require.Error(t, err)

	var classified services.ClassifiedError
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, services.ErrInvalidCredential, classified.Kind)
	assert.False(t, f.session.CredentialSelected())

	// Video submissions are refused before the credential is re-selected,
	// without reaching the backend again.
	submitsBefore := f.backend.SubmitCalls
	msg, err := f.session.Submit(context.Background(), "try again")
	assert.Error(t, err)
	assert.Equal(t, services.ErrCredentialRequired.Error(), msg.Content)
	assert.Equal(t, submitsBefore, f.backend.SubmitCalls)

	// Re-selection unblocks the path.
	f.session.SelectCredential()
	f.backend.SubmitErr = nil
	f.backend.VideoRef = "files/ok"
	f.backend.VideoBytes = []byte("mp4")
	_, err = f.session.Submit(context.Background(), "a storm over the sea")
	assert.NoError(t, err)
	assert.True(t, f.session.CredentialSelected())
}
