package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.DocumentAPI = (*Client)(nil)

// maxErrorBody caps how much of an error response is read for a message.
const maxErrorBody = 4096

// Client is the typed document API on top of the gateway. It carries no
// business logic: workflow rules live in the lifecycle service, and every
// mutating call hands back the server's authoritative representation.
type Client struct {
	gateway *Gateway
}

// NewClient creates a document API client.
func NewClient(gateway *Gateway) *Client {
	return &Client{gateway: gateway}
}

// List returns all documents for the current user.
func (c *Client) List(ctx context.Context) ([]domain.Document, error) {
	resp, err := c.gateway.Do(ctx, http.MethodGet, "/documents/", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}

	var docs []domain.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// Get retrieves one document with its versions and allowed_actions.
func (c *Client) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	resp, err := c.gateway.Do(ctx, http.MethodGet, "/documents/"+documentID+"/", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}
	return decodeDocument(resp.Body)
}

// Create creates a document with its initial version.
func (c *Client) Create(ctx context.Context, draft domain.DocumentDraft) (*domain.Document, error) {
	body, contentType, err := encodeDraft(draft, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.gateway.Do(ctx, http.MethodPost, "/documents/", body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}
	return decodeDocument(resp.Body)
}

// Save replaces the document's metadata and uploads a new file.
func (c *Client) Save(ctx context.Context, documentID string, draft domain.DocumentDraft) (*domain.Document, error) {
	body, contentType, err := encodeDraft(draft, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.gateway.Do(ctx, http.MethodPut, "/documents/"+documentID+"/", body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}
	return decodeDocument(resp.Body)
}

// Delete removes a document and all of its versions. The backend answers
// 204 No Content on success.
func (c *Client) Delete(ctx context.Context, documentID string) error {
	resp, err := c.gateway.Do(ctx, http.MethodDelete, "/documents/"+documentID+"/", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.mapError(resp)
	}
	return nil
}

// Apply invokes a workflow action endpoint. The backend may answer with
// the updated document or with 204 No Content; in the latter case the
// document is re-fetched so callers always receive authoritative state.
func (c *Client) Apply(ctx context.Context, documentID string, action domain.Action) (*domain.Document, error) {
	path := fmt.Sprintf("/documents/%s/action/%s/", documentID, action)
	resp, err := c.gateway.Do(ctx, http.MethodPut, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeDocument(resp.Body)
	case http.StatusNoContent:
		return c.Get(ctx, documentID)
	default:
		return nil, c.mapError(resp)
	}
}

// CreateVersion appends a new version to the document.
func (c *Client) CreateVersion(ctx context.Context, documentID string, file domain.FileUpload) (*domain.Document, error) {
	body, contentType, err := encodeMultipart(func(w *multipart.Writer) error {
		return writeFilePart(w, file)
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.gateway.Do(ctx, http.MethodPost, "/documents/"+documentID+"/versions/", body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return decodeDocument(resp.Body)
	case http.StatusNoContent:
		return c.Get(ctx, documentID)
	default:
		return nil, c.mapError(resp)
	}
}

// Download fetches version content from its download URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.gateway.Do(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read download: %v", domain.ErrNetworkFailure, err)
	}
	return data, nil
}

// Users lists users for the assignee picker.
func (c *Client) Users(ctx context.Context) ([]domain.UserLookup, error) {
	resp, err := c.gateway.Do(ctx, http.MethodGet, "/users/", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapError(resp)
	}

	var users []domain.UserLookup
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// decodeDocument decodes a document payload and enforces the version
// sequence invariant before handing it to callers.
func decodeDocument(r io.Reader) (*domain.Document, error) {
	var doc domain.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := domain.CheckVersions(doc.Versions); err != nil {
		return nil, err
	}
	return &doc, nil
}

// mapError converts a non-2xx response into a domain or API error.
func (c *Client) mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := errorMessage(raw)

	switch resp.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrActionRejected, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	default:
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    msg,
			URL:        resp.Request.URL.String(),
		}
	}
}

// errorMessage extracts the server's detail field when present.
func errorMessage(raw []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if len(raw) == 0 {
		return "request failed"
	}
	return string(raw)
}

// encodeDraft builds the multipart body for create and save calls.
func encodeDraft(draft domain.DocumentDraft, withAssignee bool) ([]byte, string, error) {
	return encodeMultipart(func(w *multipart.Writer) error {
		if err := w.WriteField("title", draft.Title); err != nil {
			return err
		}
		if draft.Description != "" {
			if err := w.WriteField("description", draft.Description); err != nil {
				return err
			}
		}
		if withAssignee {
			if err := w.WriteField("assignee_id", draft.AssigneeID); err != nil {
				return err
			}
		}
		return writeFilePart(w, draft.File)
	})
}

// encodeMultipart buffers a multipart body so the gateway can replay it.
func encodeMultipart(fill func(w *multipart.Writer) error) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return nil, "", fmt.Errorf("encode multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// writeFilePart writes the file field of an upload.
func writeFilePart(w *multipart.Writer, file domain.FileUpload) error {
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return err
	}
	_, err = part.Write(file.Content)
	return err
}
