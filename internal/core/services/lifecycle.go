package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driving"
	"github.com/docuflow-labs/docuflow-cli/internal/logger"
)

// Ensure LifecycleService implements the interface.
var _ driving.LifecycleService = (*LifecycleService)(nil)

// LifecycleService coordinates workflow actions against the document API.
// The rules (affordances, optimistic next status) live in the domain; this
// service enforces the guard-execute-refetch discipline around them.
type LifecycleService struct {
	api driven.DocumentAPI
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(api driven.DocumentAPI) *LifecycleService {
	return &LifecycleService{api: api}
}

// List returns all documents visible to the current user.
func (s *LifecycleService) List(ctx context.Context) ([]domain.Document, error) {
	return s.api.List(ctx)
}

// Get retrieves a document by ID.
func (s *LifecycleService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.api.Get(ctx, documentID)
}

// Create validates the draft and creates a document with its initial
// version. Title, file and assignee are required before any network call.
func (s *LifecycleService) Create(ctx context.Context, draft domain.DocumentDraft) (*domain.Document, error) {
	if err := draft.Validate(true); err != nil {
		return nil, err
	}
	return s.api.Create(ctx, draft)
}

// Apply executes a status-changing action.
//
// The action must be present in the document's server-reported
// allowed_actions; otherwise it is refused locally without a call. When
// the server declines the call (stale permission snapshot, racing
// reviewers), the document is re-fetched so the caller holds true current
// state, and the rejection is still returned.
func (s *LifecycleService) Apply(ctx context.Context, doc *domain.Document, action domain.Action) (*domain.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", domain.ErrValidation)
	}
	if !doc.Allows(action) {
		return doc, fmt.Errorf("%w: %s not in allowed actions", domain.ErrActionRejected, action)
	}

	if next, ok := domain.ExpectedStatus(action); ok {
		logger.Debug("applying %s to %s (optimistic status %s)", action, doc.DocumentID, next)
	}

	updated, err := s.api.Apply(ctx, doc.DocumentID, action)
	if err != nil {
		if errors.Is(err, domain.ErrActionRejected) {
			if fresh, ferr := s.api.Get(ctx, doc.DocumentID); ferr == nil {
				return fresh, err
			}
		}
		return doc, err
	}
	return updated, nil
}

// Resubmit appends a new version while the document remains in its
// current status. The server gates it through allowed_actions like any
// other action.
func (s *LifecycleService) Resubmit(ctx context.Context, doc *domain.Document, file domain.FileUpload) (*domain.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", domain.ErrValidation)
	}
	if file.Name == "" || len(file.Content) == 0 {
		return doc, fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	if !doc.Allows(domain.ActionResubmit) {
		return doc, fmt.Errorf("%w: resubmit not in allowed actions", domain.ErrActionRejected)
	}
	return s.api.CreateVersion(ctx, doc.DocumentID, file)
}

// Save replaces the document's upload and metadata. Assignee is not
// required here; the server keeps the current assignment.
func (s *LifecycleService) Save(ctx context.Context, doc *domain.Document, draft domain.DocumentDraft) (*domain.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", domain.ErrValidation)
	}
	if err := draft.Validate(false); err != nil {
		return doc, err
	}
	return s.api.Save(ctx, doc.DocumentID, draft)
}

// Delete removes a document and all of its versions. Permission is
// server-side: a declined delete surfaces as ErrActionRejected.
func (s *LifecycleService) Delete(ctx context.Context, documentID string) error {
	return s.api.Delete(ctx, documentID)
}

// Users lists users for assignee selection.
func (s *LifecycleService) Users(ctx context.Context) ([]domain.UserLookup, error) {
	return s.api.Users(ctx)
}
