package driven

import "context"

// SignatureStamper embeds a raster signature image into a PDF and returns
// the new byte stream. The input PDF is never modified beyond the added
// signature on the first page.
type SignatureStamper interface {
	Stamp(ctx context.Context, pdf []byte, signatureImage []byte) ([]byte, error)
}
