package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driving"
	"github.com/docuflow-labs/docuflow-cli/internal/logger"
)

// Ensure SignaturePipeline implements the interface.
var _ driving.SignatureService = (*SignaturePipeline)(nil)

// SignaturePipeline embeds a signature image into the latest PDF version
// of a document and publishes the result as a new version, then invokes
// the esign action.
//
// The pipeline is atomic up to the upload: any failure while fetching or
// stamping aborts before anything is persisted, so a signed-but-unpublished
// state never exists. An upload failure leaves the document in its prior
// status; callers retry the whole pipeline from a fresh fetch, since the
// source bytes are not assumed cacheable.
type SignaturePipeline struct {
	api     driven.DocumentAPI
	stamper driven.SignatureStamper
}

// NewSignaturePipeline creates a new signature pipeline.
func NewSignaturePipeline(api driven.DocumentAPI, stamper driven.SignatureStamper) *SignaturePipeline {
	return &SignaturePipeline{api: api, stamper: stamper}
}

// Sign runs the pipeline for one document.
func (p *SignaturePipeline) Sign(ctx context.Context, documentID string, signatureImage []byte) (*domain.Document, error) {
	if len(signatureImage) == 0 {
		return nil, fmt.Errorf("%w: signature image is required", domain.ErrValidation)
	}

	// Always start from a fresh snapshot; allowed_actions may have moved.
	doc, err := p.api.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.Allows(domain.ActionESign) {
		return doc, fmt.Errorf("%w: esign not in allowed actions", domain.ErrActionRejected)
	}

	latest, ok := doc.LatestVersion()
	if !ok {
		return doc, fmt.Errorf("%w: document has no versions", domain.ErrVersionSequence)
	}

	source, err := p.api.Download(ctx, latest.DownloadURL)
	if err != nil {
		return doc, err
	}

	signed, err := p.stamper.Stamp(ctx, source, signatureImage)
	if err != nil {
		return doc, err
	}
	logger.Debug("stamped %s v%d (%d -> %d bytes)", documentID, latest.VersionNumber, len(source), len(signed))

	upload := domain.FileUpload{
		Name:    signedFileName(latest.FileName),
		Content: signed,
	}
	doc, err = p.api.CreateVersion(ctx, documentID, upload)
	if err != nil {
		return nil, fmt.Errorf("publish signed version: %w", err)
	}

	return p.api.Apply(ctx, documentID, domain.ActionESign)
}

// signedFileName derives the upload name for a signed copy.
func signedFileName(source string) string {
	base := strings.TrimSuffix(source, ".pdf")
	if base == "" {
		base = "document"
	}
	return base + "_signed.pdf"
}
