package driving

import (
	"context"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

// LifecycleService drives the document workflow. Action execution is
// gated by the server-reported allowed_actions, never by locally
// recomputed permissions.
type LifecycleService interface {
	// List returns the documents visible to the current user.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns one document with versions and allowed_actions.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Create validates the draft and creates a document with its initial
	// version. Validation failures surface before any network call.
	Create(ctx context.Context, draft domain.DocumentDraft) (*domain.Document, error)

	// Apply executes a status-changing action. It refuses locally with
	// domain.ErrActionRejected when allowed_actions omits the action.
	// On a server-side rejection the returned document is a fresh
	// snapshot so the caller can re-render true state.
	Apply(ctx context.Context, doc *domain.Document, action domain.Action) (*domain.Document, error)

	// Resubmit appends a new version while the document stays in its
	// current (pending or rejected) status.
	Resubmit(ctx context.Context, doc *domain.Document, file domain.FileUpload) (*domain.Document, error)

	// Save replaces the current upload and metadata.
	Save(ctx context.Context, doc *domain.Document, draft domain.DocumentDraft) (*domain.Document, error)

	// Delete removes a document and all of its versions.
	Delete(ctx context.Context, documentID string) error

	// Users lists users for assignee selection.
	Users(ctx context.Context) ([]domain.UserLookup, error)
}

// SignatureService signs documents by embedding a signature image into
// the latest PDF version and publishing the result as a new version.
type SignatureService interface {
	// Sign runs the full pipeline: fetch, stamp, upload, esign.
	// Nothing is uploaded unless stamping succeeded.
	Sign(ctx context.Context, documentID string, signatureImage []byte) (*domain.Document, error)
}
