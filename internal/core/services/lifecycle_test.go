package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

// fakeAPI is a scriptable test double for driven.DocumentAPI.
type fakeAPI struct {
	docs map[string]*domain.Document

	applyErr    error
	applyCalls  []domain.Action
	versionErr  error
	versionAdds int
	getCalls    int
	created     *domain.DocumentDraft
	downloads   map[string][]byte
	esignResult *domain.Document
	deleteErr   error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{docs: make(map[string]*domain.Document), downloads: make(map[string][]byte)}
}

func (f *fakeAPI) List(_ context.Context) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range f.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeAPI) Get(_ context.Context, id string) (*domain.Document, error) {
	f.getCalls++
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeAPI) Create(_ context.Context, draft domain.DocumentDraft) (*domain.Document, error) {
	f.created = &draft
	doc := &domain.Document{
		DocumentID: "new-doc",
		Title:      draft.Title,
		Status:     domain.StatusPending,
		Versions:   []domain.Version{{ID: 1, VersionNumber: 1, FileName: draft.File.Name}},
	}
	f.docs[doc.DocumentID] = doc
	return doc, nil
}

func (f *fakeAPI) Save(_ context.Context, id string, draft domain.DocumentDraft) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc.Title = draft.Title
	return doc, nil
}

func (f *fakeAPI) Apply(_ context.Context, id string, action domain.Action) (*domain.Document, error) {
	f.applyCalls = append(f.applyCalls, action)
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	if action == domain.ActionESign && f.esignResult != nil {
		return f.esignResult, nil
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if next, ok := domain.ExpectedStatus(action); ok {
		doc.Status = next
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeAPI) CreateVersion(_ context.Context, id string, file domain.FileUpload) (*domain.Document, error) {
	if f.versionErr != nil {
		return nil, f.versionErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.versionAdds++
	doc.Versions = append(doc.Versions, domain.Version{
		ID:            len(doc.Versions) + 1,
		VersionNumber: len(doc.Versions) + 1,
		FileName:      file.Name,
	})
	copied := *doc
	return &copied, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeAPI) Download(_ context.Context, url string) ([]byte, error) {
	data, ok := f.downloads[url]
	if !ok {
		return nil, fmt.Errorf("%w: no file at %s", domain.ErrNetworkFailure, url)
	}
	return data, nil
}

func (f *fakeAPI) Users(_ context.Context) ([]domain.UserLookup, error) {
	return []domain.UserLookup{{UserID: "u-1", Email: "a@x.com"}}, nil
}

func pendingDoc(actions ...domain.Action) *domain.Document {
	return &domain.Document{
		DocumentID:     "d-1",
		Title:          "Contract",
		Status:         domain.StatusPending,
		AllowedActions: actions,
		Versions:       []domain.Version{{ID: 1, VersionNumber: 1, FileName: "contract.pdf", DownloadURL: "/media/v1.pdf"}},
	}
}

func TestLifecycleService_Apply(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionApprove, domain.ActionReject)
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	updated, err := svc.Apply(context.Background(), doc, domain.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, []domain.Action{domain.ActionApprove}, api.applyCalls)
}

func TestLifecycleService_Apply_RefusedLocallyWithoutCall(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionApprove) // archive not offered
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	_, err := svc.Apply(context.Background(), doc, domain.ActionArchive)
	assert.ErrorIs(t, err, domain.ErrActionRejected)
	// The endpoint was never hit.
	assert.Empty(t, api.applyCalls)
}

func TestLifecycleService_Apply_ServerRejectionResyncs(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionApprove)
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	// Another reviewer won the race: the server now rejects and reports a
	// different state.
	api.applyErr = fmt.Errorf("%w: already approved", domain.ErrActionRejected)
	serverState := *doc
	serverState.Status = domain.StatusApproved
	serverState.AllowedActions = nil
	api.docs[doc.DocumentID] = &serverState

	fresh, err := svc.Apply(context.Background(), doc, domain.ActionApprove)
	assert.ErrorIs(t, err, domain.ErrActionRejected)
	// The caller receives the re-synced snapshot, not the stale one.
	require.NotNil(t, fresh)
	assert.Equal(t, domain.StatusApproved, fresh.Status)
	assert.Empty(t, fresh.AllowedActions)
}

func TestLifecycleService_Create_ValidatesBeforeNetwork(t *testing.T) {
	api := newFakeAPI()
	svc := NewLifecycleService(api)

	_, err := svc.Create(context.Background(), domain.DocumentDraft{Title: "no file"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, api.created)
}

func TestLifecycleService_Create(t *testing.T) {
	api := newFakeAPI()
	svc := NewLifecycleService(api)

	doc, err := svc.Create(context.Background(), domain.DocumentDraft{
		Title:      "Q3 Report",
		AssigneeID: "u-2",
		File:       domain.FileUpload{Name: "report.pdf", Content: []byte("%PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, doc.Status)
	require.Len(t, doc.Versions, 1)
	assert.Equal(t, 1, doc.Versions[0].VersionNumber)
}

func TestLifecycleService_Resubmit(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionResubmit)
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	updated, err := svc.Resubmit(context.Background(), doc, domain.FileUpload{
		Name:    "contract_v2.pdf",
		Content: []byte("%PDF"),
	})
	require.NoError(t, err)

	// Status unchanged, version count +1.
	assert.Equal(t, domain.StatusPending, updated.Status)
	assert.Len(t, updated.Versions, 2)
}

func TestLifecycleService_Save(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionApprove)
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	// No assignee required when replacing the upload.
	updated, err := svc.Save(context.Background(), doc, domain.DocumentDraft{
		Title: "Contract (amended)",
		File:  domain.FileUpload{Name: "contract.pdf", Content: []byte("%PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Contract (amended)", updated.Title)

	_, err = svc.Save(context.Background(), doc, domain.DocumentDraft{
		File: domain.FileUpload{Name: "contract.pdf", Content: []byte("%PDF")},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLifecycleService_Delete(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionApprove)
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	require.NoError(t, svc.Delete(context.Background(), doc.DocumentID))
	_, err := svc.Get(context.Background(), doc.DocumentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Server-side refusal passes through untouched.
	api.deleteErr = fmt.Errorf("%w: not the creator", domain.ErrActionRejected)
	assert.ErrorIs(t, svc.Delete(context.Background(), "d-2"), domain.ErrActionRejected)
}

func TestLifecycleService_Resubmit_RequiresAllowedAction(t *testing.T) {
	api := newFakeAPI()
	doc := pendingDoc(domain.ActionApprove)
	api.docs[doc.DocumentID] = doc
	svc := NewLifecycleService(api)

	_, err := svc.Resubmit(context.Background(), doc, domain.FileUpload{
		Name:    "contract_v2.pdf",
		Content: []byte("%PDF"),
	})
	assert.ErrorIs(t, err, domain.ErrActionRejected)
	assert.Zero(t, api.versionAdds)
}
