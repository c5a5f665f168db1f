package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

// minimalPDF assembles a valid one-page PDF with a correct xref table.
func minimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 5)
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>")
	content := "BT ET"
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

	xref := buf.Len()
	buf.WriteString("xref\n0 5\n0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// signaturePNG renders a small opaque image as PNG bytes.
func signaturePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func signatureJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestStamper_Stamp_PNG(t *testing.T) {
	stamper := NewStamper()
	source := minimalPDF(t)

	signed, err := stamper.Stamp(context.Background(), source, signaturePNG(t))
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	// Page count is preserved; the signature is additive content only.
	pages, err := api.PageCount(bytes.NewReader(signed), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestStamper_Stamp_JPEG(t *testing.T) {
	stamper := NewStamper()

	signed, err := stamper.Stamp(context.Background(), minimalPDF(t), signatureJPEG(t))
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
}

func TestStamper_Stamp_RoundTrip(t *testing.T) {
	stamper := NewStamper()
	sig := signaturePNG(t)

	once, err := stamper.Stamp(context.Background(), minimalPDF(t), sig)
	require.NoError(t, err)

	// Re-running on the output (the new "latest version") must succeed
	// without corrupting the document.
	twice, err := stamper.Stamp(context.Background(), once, sig)
	require.NoError(t, err)

	pages, err := api.PageCount(bytes.NewReader(twice), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestStamper_Stamp_UnsupportedImage(t *testing.T) {
	stamper := NewStamper()

	_, err := stamper.Stamp(context.Background(), minimalPDF(t), []byte("GIF89a not really"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedImageFormat)
}

func TestStamper_Stamp_CorruptPDF(t *testing.T) {
	stamper := NewStamper()

	_, err := stamper.Stamp(context.Background(), []byte("definitely not a pdf"), signaturePNG(t))
	assert.ErrorIs(t, err, domain.ErrCorruptSource)
}

func TestStamper_Stamp_CancelledContext(t *testing.T) {
	stamper := NewStamper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stamper.Stamp(ctx, minimalPDF(t), signaturePNG(t))
	assert.ErrorIs(t, err, context.Canceled)
}
