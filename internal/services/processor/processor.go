package processor

import (
	"fmt"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/pkg/utils"
)

const DefaultMaxPages = 2000

type Options struct {
	Placement       string
	SiteAttribution string
	Style           Style
	MaxPages        int
}

// PDFProcessor validates, stamps and re-serializes PDF documents. It holds
// only read-only settings and is safe for concurrent use.
type PDFProcessor struct {
	placementName string
	placement     PlacementPolicy
	style         Style
	site          string
	maxPages      int
}

// Result is the outcome of stamping one document.
type Result struct {
	Data       []byte
	PageCount  int
	Placements []Placement
	SourceHash string
}

func NewPDFProcessor(opts Options) (*PDFProcessor, error) {
	name := opts.Placement
	if name == "" {
		name = PlacementLeftMargin
	}

	policy, err := LookupPlacement(name)
	if err != nil {
		return nil, err
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &PDFProcessor{
		placementName: name,
		placement:     policy,
		style:         opts.Style.normalized(),
		site:          opts.SiteAttribution,
		maxPages:      maxPages,
	}, nil
}

func (p *PDFProcessor) PlacementName() string {
	return p.placementName
}

func (p *PDFProcessor) ComposeStamp(recipient models.Recipient) *Stamp {
	return ComposeStamp(recipient, p.site, p.style)
}

// Plan computes one placement per page, in page order.
func (p *PDFProcessor) Plan(pages []PageSize, stamp *Stamp) []Placement {
	placements := make([]Placement, len(pages))
	for i, page := range pages {
		pl := p.placement(page.Width, page.Height, stamp)
		pl.Page = i + 1
		placements[i] = pl
	}
	return placements
}

// ProcessPDF runs validate -> parse -> stamp every page -> serialize.
func (p *PDFProcessor) ProcessPDF(data []byte, recipient models.Recipient) (result *Result, err error) {
	if err := p.ValidatePDF(data); err != nil {
		return nil, err
	}

	doc, err := p.Open(data)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = apperr.Unexpected(fmt.Errorf("pdf stamping panicked: %v", r))
		}
	}()

	stamp := p.ComposeStamp(recipient)
	placements := p.Plan(doc.Pages, stamp)

	if err := p.addWatermarks(doc, stamp, placements); err != nil {
		return nil, apperr.Unexpected(err)
	}

	out, err := p.Encode(doc)
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	return &Result{
		Data:       out,
		PageCount:  doc.PageCount(),
		Placements: placements,
		SourceHash: utils.HashBytes(data),
	}, nil
}
