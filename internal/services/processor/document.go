package processor

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
)

// PageSize is the width and height of a page's visible area in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is a parsed PDF owned by a single request.
type Document struct {
	ctx   *model.Context
	Pages []PageSize
}

func (d *Document) PageCount() int {
	return len(d.Pages)
}

var configDirOnce sync.Once

// newConfiguration returns a fresh pdfcpu configuration that never touches
// the user's config directory.
func newConfiguration() *model.Configuration {
	configDirOnce.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.Cmd = model.ADDWATERMARKS
	return conf
}

// Open parses data into a page-structured document.
func (p *PDFProcessor) Open(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = apperr.ParseFailure("malformed document structure", fmt.Errorf("pdf parser panicked: %v", r))
		}
	}()

	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, apperr.ParseFailure(err.Error(), err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, apperr.ParseFailure(err.Error(), err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, apperr.ParseFailure("unable to count pages", err)
	}

	if ctx.PageCount == 0 {
		return nil, apperr.ParseFailure("document has no pages", nil)
	}
	if ctx.PageCount > p.maxPages {
		return nil, apperr.ParseFailure("too many pages",
			fmt.Errorf("%d pages exceeds limit of %d", ctx.PageCount, p.maxPages))
	}

	pages, err := visiblePageSizes(ctx)
	if err != nil {
		return nil, err
	}

	return &Document{ctx: ctx, Pages: pages}, nil
}

// visiblePageSizes returns each page's CropBox size, falling back to the
// MediaBox, with a quarter-turn /Rotate applied. Stamps are positioned
// against this box.
func visiblePageSizes(ctx *model.Context) ([]PageSize, error) {
	boundaries, err := ctx.PageBoundaries(nil)
	if err != nil {
		return nil, apperr.ParseFailure("unable to read page dimensions", err)
	}
	if len(boundaries) != ctx.PageCount {
		return nil, apperr.ParseFailure("inconsistent page tree",
			fmt.Errorf("found %d page sizes for %d pages", len(boundaries), ctx.PageCount))
	}

	pages := make([]PageSize, len(boundaries))
	for i, pb := range boundaries {
		box := pb.CropBox()
		if box == nil {
			return nil, apperr.ParseFailure("unable to read page dimensions",
				fmt.Errorf("page %d has no media box", i+1))
		}
		w, h := box.Width(), box.Height()
		if pb.Rot%180 != 0 {
			w, h = h, w
		}
		if w <= 0 || h <= 0 {
			return nil, apperr.ParseFailure("unable to read page dimensions",
				fmt.Errorf("page %d has an empty visible area", i+1))
		}
		pages[i] = PageSize{Width: w, Height: h}
	}
	return pages, nil
}
