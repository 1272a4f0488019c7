package processor

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Encode serializes the document back to PDF bytes.
func (p *PDFProcessor) Encode(doc *Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := api.WriteContext(doc.ctx, buf); err != nil {
		return nil, fmt.Errorf("failed to serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}
