// Package testutil provides PDF fixtures and helpers shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// PageSize is a page MediaBox in points. A non-zero Crop adds a CropBox
// [llx lly urx ury].
type PageSize struct {
	Width  float64
	Height float64
	Crop   [4]float64
}

var (
	A4          = PageSize{Width: 595.28, Height: 841.89}
	A4Landscape = PageSize{Width: 841.89, Height: 595.28}
	Letter      = PageSize{Width: 612, Height: 792}
	// LetterTrimmed is Letter with a half-inch bleed cropped on every side.
	LetterTrimmed = PageSize{Width: 612, Height: 792, Crop: [4]float64{36, 36, 576, 756}}
)

// BuildPDF writes a minimal, well-formed PDF with one page per size.
// Each page shows "Page N" in Helvetica so the document has real content.
func BuildPDF(sizes ...PageSize) []byte {
	if len(sizes) == 0 {
		sizes = []PageSize{A4}
	}

	var buf bytes.Buffer
	// 1 catalog, 2 pages, 3 font, then page/content pairs
	objCount := 3 + 2*len(sizes)
	offsets := make([]int, objCount+1)

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range sizes {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(sizes)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, size := range sizes {
		pageNum := 4 + 2*i
		contentNum := pageNum + 1
		cropBox := ""
		if size.Crop != [4]float64{} {
			cropBox = fmt.Sprintf(" /CropBox [%.2f %.2f %.2f %.2f]", size.Crop[0], size.Crop[1], size.Crop[2], size.Crop[3])
		}
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f]%s /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			size.Width, size.Height, cropBox, contentNum))

		content := fmt.Sprintf("BT /F1 24 Tf 72 %.2f Td (Page %d) Tj ET", size.Height-96, i+1)
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", objCount+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= objCount; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objCount+1, xrefOffset)

	return buf.Bytes()
}

// SourceServer serves body with the given content type and status and
// counts the requests it receives.
type SourceServer struct {
	*httptest.Server
	hits atomic.Int32
}

func NewSourceServer(t *testing.T, status int, contentType string, body []byte) *SourceServer {
	t.Helper()

	s := &SourceServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		} else {
			// A nil value stops net/http from sniffing one.
			w.Header()["Content-Type"] = nil
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)

	return s
}

// Hits returns how many requests reached the server.
func (s *SourceServer) Hits() int {
	return int(s.hits.Load())
}
