package domain

import (
	"fmt"
	"time"
)

// Document represents an EDMS document as reported by the server.
// The server owns status, allowed_actions, and the version sequence; the
// client never patches these fields locally. After any mutating call the
// whole struct is replaced by the server's returned representation.
type Document struct {
	// DocumentID is the unique identifier (a server-assigned UUID).
	DocumentID string `json:"document_id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Status is the server-reported workflow status.
	Status Status `json:"status"`

	// CreatedBy identifies the creating user.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the server-side creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// AssignedTo identifies the current assignee, if any.
	AssignedTo *string `json:"assigned_to"`

	// Reviewer, Priority and Tags exist only on some deployments.
	// They are display hints and never feed the lifecycle rules.
	Reviewer *string  `json:"reviewer,omitempty"`
	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// AllowedActions is the authoritative set of actions the server
	// currently permits for the requesting user. The client only ever
	// offers actions from this set.
	AllowedActions []Action `json:"allowed_actions"`

	// Versions is the append-only version history, ascending by
	// version_number.
	Versions []Version `json:"versions"`
}

// Version is an immutable, sequentially numbered snapshot of a document's
// file content. A new signature or resubmission always produces a new
// version, never mutates an existing one.
type Version struct {
	ID            int       `json:"id"`
	VersionNumber int       `json:"version_number"`
	FileName      string    `json:"file_name"`
	DownloadURL   string    `json:"download_url"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserLookup is a display-only user reference used to populate
// assignee and reviewer pickers.
type UserLookup struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Allows reports whether the server permits the given action on this
// document for the requesting user.
func (d *Document) Allows(action Action) bool {
	for _, a := range d.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}

// LatestVersion returns the highest-numbered version, or false when the
// document has none.
func (d *Document) LatestVersion() (Version, bool) {
	if len(d.Versions) == 0 {
		return Version{}, false
	}
	latest := d.Versions[0]
	for _, v := range d.Versions[1:] {
		if v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	return latest, true
}

// CheckVersions verifies the version sequence invariant: ascending,
// gap-free version numbers starting at 1. Payloads violating it indicate a
// corrupt or reordered server response and must not be rendered.
func CheckVersions(versions []Version) error {
	for i, v := range versions {
		if v.VersionNumber != i+1 {
			return fmt.Errorf("%w: version %d at position %d", ErrVersionSequence, v.VersionNumber, i)
		}
	}
	return nil
}

// DocumentDraft carries the fields for creating a document with its
// initial version, or replacing the current upload.
type DocumentDraft struct {
	Title       string
	Description string
	AssigneeID  string
	File        FileUpload
}

// FileUpload is an in-memory file destined for a multipart request.
type FileUpload struct {
	Name    string
	Content []byte
}

// Validate checks the draft before any network call is made.
// Assignee is only required on create; Save reuses the draft without it.
func (d DocumentDraft) Validate(requireAssignee bool) error {
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if d.File.Name == "" || len(d.File.Content) == 0 {
		return fmt.Errorf("%w: file is required", ErrValidation)
	}
	if requireAssignee && d.AssigneeID == "" {
		return fmt.Errorf("%w: assignee is required", ErrValidation)
	}
	return nil
}
