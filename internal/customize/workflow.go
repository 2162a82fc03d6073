// Package customize implements the AI customization workflow layered on a
// draft controller: previewing a tailored variant as an uncommitted
// overlay, discarding it, or committing it as a new version or an
// application handoff. Persisted data is never touched until an explicit
// commit.
package customize

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/figuedmundo/resumator-sub003/internal/editor"
	"github.com/figuedmundo/resumator-sub003/internal/handoff"
	"github.com/figuedmundo/resumator-sub003/internal/store"
	"github.com/figuedmundo/resumator-sub003/internal/types"
)

// Sink receives the navigation-surviving handoff payload when a
// customization is committed as an application.
type Sink interface {
	Put(ctx context.Context, p handoff.Payload) (uuid.UUID, error)
}

// View distinguishes the editing view from the compare view the workflow
// switches to after a successful preview.
type View string

// Workflow views
const (
	ViewEditing View = "editing"
	ViewCompare View = "compare"
)

// Workflow drives preview, discard and commit of AI-customized variants
// for the document owned by the given controller.
type Workflow struct {
	mu    sync.Mutex
	store store.Store
	ctrl  *editor.Controller
	sink  Sink
	log   zerolog.Logger

	overlay  types.Overlay
	view     View
	inFlight bool
}

// New creates a workflow over the controller's document. sink may be nil if
// the save-as-application path is not used.
func New(st store.Store, ctrl *editor.Controller, sink Sink, log zerolog.Logger) *Workflow {
	return &Workflow{
		store: st,
		ctrl:  ctrl,
		sink:  sink,
		log:   log.With().Str("component", "customize").Logger(),
		view:  ViewEditing,
	}
}

// Baseline returns the content discard reverts to: the controller's
// current draft content. It only ever changes through an explicit save.
func (w *Workflow) Baseline() string {
	return w.ctrl.Snapshot().Draft.Content
}

// Overlay returns the current overlay (zero value when none is active).
func (w *Workflow) Overlay() types.Overlay {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.overlay
}

// CurrentView reports whether the workflow is in editing or compare view.
func (w *Workflow) CurrentView() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Previewing reports whether a preview request is in flight.
func (w *Workflow) Previewing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Preview requests an AI-customized variant for the document. An empty job
// description is rejected synchronously, before any network call. On
// success the result is held as the overlay and the view switches to
// compare; the baseline and the version list stay untouched. On failure
// all prior state is left exactly as it was; retry is manual.
func (w *Workflow) Preview(ctx context.Context, jobDescription string, opts types.CustomizeOptions) error {
	if strings.TrimSpace(jobDescription) == "" {
		return &store.Error{Kind: store.KindValidation, Message: "job description must not be empty"}
	}

	snap := w.ctrl.Snapshot()
	if snap.IsNew || snap.DocumentID == uuid.Nil {
		return &store.Error{Kind: store.KindValidation, Message: "document must be saved before customization"}
	}

	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return ErrPreviewInFlight
	}
	w.inFlight = true
	w.mu.Unlock()

	content, err := w.store.RequestCustomization(ctx, snap.Kind, snap.DocumentID, jobDescription, opts)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		w.log.Warn().Err(err).Msg("customization preview failed")
		return err
	}
	w.overlay = types.Overlay{
		JobDescription:     jobDescription,
		CustomInstructions: opts.CustomInstructions,
		ProposedContent:    content,
	}
	w.view = ViewCompare
	return nil
}

// Discard resets the displayed content back to the baseline, clears the
// overlay and its inputs, and returns to the editing view. Idempotent:
// with no active overlay it is a no-op.
func (w *Workflow) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.overlay.Active() {
		w.view = ViewEditing
		return
	}
	w.overlay = types.Overlay{}
	w.view = ViewEditing
}

// SaveAsNewVersion commits the overlay as a brand-new version. History is
// append-only: prior versions are untouched. The controller's baseline
// moves to the committed content and the version list is refreshed. This
// is the only path that mutates persisted version history for a
// customization.
func (w *Workflow) SaveAsNewVersion(ctx context.Context) (*types.Version, error) {
	w.mu.Lock()
	if !w.overlay.Active() {
		w.mu.Unlock()
		return nil, ErrNoOverlay
	}
	overlay := w.overlay
	w.mu.Unlock()

	snap := w.ctrl.Snapshot()
	version, err := w.store.CreateVersion(ctx, snap.Kind, snap.DocumentID, overlay.ProposedContent, overlay.JobDescription)
	if err != nil {
		// Overlay stays; the user may retry or discard.
		return nil, err
	}

	if err := w.ctrl.RefreshVersions(ctx); err != nil {
		w.log.Warn().Err(err).Msg("version list refresh after commit failed; list is stale")
	}
	// The version is already persisted at this point. A failed switch (a
	// dirty draft under the block policy, most likely) must not report the
	// commit as failed: the user keeps their draft and can select the new
	// version once the draft is resolved.
	if err := w.ctrl.SelectVersion(ctx, version.ID); err != nil {
		w.log.Warn().Err(err).Msg("committed version not selected; draft kept")
	}

	w.mu.Lock()
	w.overlay = types.Overlay{}
	w.view = ViewEditing
	w.mu.Unlock()
	return version, nil
}

// SaveAsApplication commits the overlay as a new version, then writes the
// handoff payload for the application-creation flow and returns its claim
// id. The payload carries the exact previewed content, not a re-generated
// one, and survives a full page navigation.
func (w *Workflow) SaveAsApplication(ctx context.Context) (*types.Version, uuid.UUID, error) {
	if w.sink == nil {
		return nil, uuid.Nil, ErrNoSink
	}
	w.mu.Lock()
	overlay := w.overlay
	w.mu.Unlock()
	if !overlay.Active() {
		return nil, uuid.Nil, ErrNoOverlay
	}

	version, err := w.SaveAsNewVersion(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}

	snap := w.ctrl.Snapshot()
	claimID, err := w.sink.Put(ctx, handoff.Payload{
		DocumentID:        snap.DocumentID,
		Kind:              snap.Kind,
		VersionID:         version.ID,
		JobDescription:    overlay.JobDescription,
		CustomizedContent: overlay.ProposedContent,
	})
	if err != nil {
		return version, uuid.Nil, err
	}
	return version, claimID, nil
}
