package processor

import (
	"bytes"
	"strings"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
)

const pdfMagic = "%PDF"

// ValidatePDF checks the size floor and the magic header. It never parses.
func (p *PDFProcessor) ValidatePDF(data []byte) error {
	if len(data) < len(pdfMagic) {
		return apperr.TruncatedSource(len(data))
	}

	if !bytes.HasPrefix(data, []byte(pdfMagic)) {
		return apperr.CorruptSource()
	}

	return nil
}

// IsPDFContentType reports whether a Content-Type header names a PDF.
func IsPDFContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}
