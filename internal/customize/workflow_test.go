package customize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figuedmundo/resumator-sub003/internal/editor"
	"github.com/figuedmundo/resumator-sub003/internal/handoff"
	"github.com/figuedmundo/resumator-sub003/internal/store"
	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// captureSink records handoff payloads in memory.
type captureSink struct {
	payloads []handoff.Payload
	err      error
}

func (s *captureSink) Put(_ context.Context, p handoff.Payload) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.payloads = append(s.payloads, p)
	return uuid.New(), nil
}

func upcase(_ context.Context, content, _ string, _ types.CustomizeOptions) (string, error) {
	return "CUSTOMIZED: " + content, nil
}

func setupWorkflow(t *testing.T, customize store.CustomizeFunc, sink Sink) (*store.MemoryStore, *editor.Controller, *Workflow) {
	t.Helper()
	mem := store.NewMemoryStore(customize)
	doc, err := mem.CreateDocument(context.Background(), types.KindResume, "My Resume", "baseline content")
	require.NoError(t, err)

	ctrl := editor.NewController(mem, editor.Options{
		Kind:          types.KindResume,
		DocumentID:    doc.ID,
		AutosaveDelay: time.Hour, // keep autosave out of these tests
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(ctrl.Close)
	require.NoError(t, ctrl.Load(context.Background()))

	return mem, ctrl, New(mem, ctrl, sink, zerolog.Nop())
}

func TestWorkflow_PreviewRejectsEmptyJobDescription(t *testing.T) {
	_, _, w := setupWorkflow(t, upcase, nil)

	err := w.Preview(context.Background(), "   ", types.CustomizeOptions{})
	require.Error(t, err)
	assert.True(t, store.IsKind(err, store.KindValidation))
	assert.Equal(t, ViewEditing, w.CurrentView())
}

func TestWorkflow_PreviewHoldsOverlayWithoutTouchingHistory(t *testing.T) {
	mem, ctrl, w := setupWorkflow(t, upcase, nil)

	require.NoError(t, w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{}))

	assert.Equal(t, ViewCompare, w.CurrentView())
	overlay := w.Overlay()
	assert.Equal(t, "CUSTOMIZED: baseline content", overlay.ProposedContent)
	assert.Equal(t, "Go backend role", overlay.JobDescription)

	// The baseline draft and the version list are untouched.
	assert.Equal(t, "baseline content", w.Baseline())
	versions, err := mem.ListVersions(context.Background(), types.KindResume, ctrl.Snapshot().DocumentID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestWorkflow_PreviewFailureLeavesStateUntouched(t *testing.T) {
	boom := func(context.Context, string, string, types.CustomizeOptions) (string, error) {
		return "", errors.New("model unavailable")
	}
	_, _, w := setupWorkflow(t, boom, nil)

	err := w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{})
	require.Error(t, err)
	assert.True(t, store.IsKind(err, store.KindCustomize))

	assert.Equal(t, ViewEditing, w.CurrentView())
	assert.False(t, w.Overlay().Active())
	assert.Equal(t, "baseline content", w.Baseline())
}

func TestWorkflow_DiscardIsIdempotent(t *testing.T) {
	_, _, w := setupWorkflow(t, upcase, nil)
	require.NoError(t, w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{}))

	w.Discard()
	assert.Equal(t, ViewEditing, w.CurrentView())
	assert.False(t, w.Overlay().Active())
	assert.Equal(t, "baseline content", w.Baseline())

	// Discarding again is a no-op.
	w.Discard()
	assert.Equal(t, ViewEditing, w.CurrentView())
}

func TestWorkflow_SaveAsNewVersionAppendsHistory(t *testing.T) {
	mem, ctrl, w := setupWorkflow(t, upcase, nil)
	require.NoError(t, w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{}))

	version, err := w.SaveAsNewVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMIZED: baseline content", version.Content)
	assert.Equal(t, "Go backend role", version.JobDescription)
	assert.False(t, version.IsOriginal)

	// History is append-only: the original version still exists, unchanged.
	versions, err := mem.ListVersions(context.Background(), types.KindResume, ctrl.Snapshot().DocumentID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	for _, v := range versions {
		if v.IsOriginal {
			assert.Equal(t, "baseline content", v.Content)
		}
	}

	// The committed version becomes the selected one and the overlay clears.
	assert.Equal(t, version.ID, ctrl.SelectedVersionID())
	assert.False(t, w.Overlay().Active())
	assert.Equal(t, ViewEditing, w.CurrentView())
}

func TestWorkflow_SaveAsNewVersionWithDirtyDraft(t *testing.T) {
	mem, ctrl, w := setupWorkflow(t, upcase, nil)
	require.NoError(t, w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{}))

	// The user keeps editing while the preview is up. Under the default
	// block policy the controller refuses to switch versions, but the
	// commit itself already persisted and must be reported as a success.
	selectedBefore := ctrl.SelectedVersionID()
	ctrl.SetContent("edited while previewing")

	version, err := w.SaveAsNewVersion(context.Background())
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, "CUSTOMIZED: baseline content", version.Content)

	// Exactly one new version; a retry after the reported success must not
	// be possible because the overlay is cleared.
	versions, err := mem.ListVersions(context.Background(), types.KindResume, ctrl.Snapshot().DocumentID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.False(t, w.Overlay().Active())
	_, err = w.SaveAsNewVersion(context.Background())
	assert.ErrorIs(t, err, ErrNoOverlay)

	// The dirty draft and its selection are untouched.
	snap := ctrl.Snapshot()
	assert.Equal(t, selectedBefore, snap.SelectedVersionID)
	assert.Equal(t, "edited while previewing", snap.Draft.Content)
	assert.True(t, snap.Dirty)
}

func TestWorkflow_SaveAsNewVersionWithoutOverlay(t *testing.T) {
	_, _, w := setupWorkflow(t, upcase, nil)

	_, err := w.SaveAsNewVersion(context.Background())
	assert.ErrorIs(t, err, ErrNoOverlay)
}

func TestWorkflow_SaveAsApplicationHandsOffExactContent(t *testing.T) {
	sink := &captureSink{}
	_, ctrl, w := setupWorkflow(t, upcase, sink)
	require.NoError(t, w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{}))

	version, claimID, err := w.SaveAsApplication(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, claimID)

	require.Len(t, sink.payloads, 1)
	p := sink.payloads[0]
	assert.Equal(t, ctrl.Snapshot().DocumentID, p.DocumentID)
	assert.Equal(t, types.KindResume, p.Kind)
	assert.Equal(t, version.ID, p.VersionID)
	assert.Equal(t, "Go backend role", p.JobDescription)
	// The handoff carries the exact previewed content, never a regeneration.
	assert.Equal(t, "CUSTOMIZED: baseline content", p.CustomizedContent)
}

func TestWorkflow_SaveAsApplicationWithoutSink(t *testing.T) {
	_, _, w := setupWorkflow(t, upcase, nil)
	require.NoError(t, w.Preview(context.Background(), "Go backend role", types.CustomizeOptions{}))

	_, _, err := w.SaveAsApplication(context.Background())
	assert.ErrorIs(t, err, ErrNoSink)
}
