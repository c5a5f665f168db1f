// Package pdf embeds signature images into PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Signature images are PNG or JPEG only.
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
	"github.com/docuflow-labs/docuflow-cli/internal/core/ports/driven"
	"github.com/docuflow-labs/docuflow-cli/internal/logger"
)

// Placement policy for the embedded signature. The image is scaled to a
// quarter of its native size and inset 50pt from the page's bottom-right
// corner. The first page is always the signature target.
const (
	scaleFactor  = 0.25
	cornerMargin = 50 // pt
	targetPage   = "1"
)

// Ensure Stamper implements the interface.
var _ driven.SignatureStamper = (*Stamper)(nil)

// Stamper embeds a raster signature into the first page of a PDF using
// pdfcpu's image stamping. All other page content is left untouched, so
// stamping an already-signed output simply adds another signature.
type Stamper struct{}

// NewStamper creates a signature stamper.
func NewStamper() *Stamper {
	// The CLI carries its own defaults; never read or create a pdfcpu
	// config directory on the user's machine.
	api.DisableConfigDir()
	return &Stamper{}
}

// Stamp returns a new PDF byte stream with the signature image placed on
// the first page. The inputs are validated before any transformation:
// a non-PNG/JPEG image fails with domain.ErrUnsupportedImageFormat and an
// unparsable PDF with domain.ErrCorruptSource.
func (s *Stamper) Stamp(ctx context.Context, pdf []byte, signatureImage []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := sniffImage(signatureImage)
	if err != nil {
		return nil, err
	}

	pageCount, err := api.PageCount(bytes.NewReader(pdf), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSource, err)
	}
	if pageCount < 1 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrCorruptSource)
	}

	// "sc" is an ambiguous prefix (scalefactor vs strokecolor); spell it out.
	desc := fmt.Sprintf("scalefactor:%g abs, pos:br, off:-%d -%d, rot:0", scaleFactor, cornerMargin, cornerMargin)
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(signatureImage), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("prepare signature stamp: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &out, []string{targetPage}, wm, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSource, err)
	}

	logger.Debug("embedded %s signature on page 1 of %d", format, pageCount)
	return out.Bytes(), nil
}

// sniffImage decodes the image header and restricts the format.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnsupportedImageFormat, err)
	}
	if format != "png" && format != "jpeg" {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImageFormat, format)
	}
	return format, nil
}
