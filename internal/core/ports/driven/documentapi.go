package driven

import (
	"context"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

// DocumentAPI is the typed facade over the document and version endpoints.
// Every mutating call returns the authoritative new document
// representation; callers replace local state with it rather than patching
// fields, so server-computed fields (status, allowed_actions) never drift.
type DocumentAPI interface {
	// List returns all documents visible to the current user.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns one document with its versions and allowed_actions.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Create creates a document with its initial version.
	Create(ctx context.Context, draft domain.DocumentDraft) (*domain.Document, error)

	// Save replaces the document's metadata and uploads a new file.
	Save(ctx context.Context, documentID string, draft domain.DocumentDraft) (*domain.Document, error)

	// Delete removes a document and all of its versions.
	Delete(ctx context.Context, documentID string) error

	// Apply invokes a workflow action endpoint. Implementations re-fetch
	// when the server answers without a body.
	Apply(ctx context.Context, documentID string, action domain.Action) (*domain.Document, error)

	// CreateVersion appends a new version to the document.
	CreateVersion(ctx context.Context, documentID string, file domain.FileUpload) (*domain.Document, error)

	// Download fetches version content from its download URL.
	Download(ctx context.Context, url string) ([]byte, error)

	// Users lists users for the assignee picker.
	Users(ctx context.Context) ([]domain.UserLookup, error)
}
