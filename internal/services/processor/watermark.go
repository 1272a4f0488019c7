package processor

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// addWatermarks stamps every planned page in a single pass.
func (p *PDFProcessor) addWatermarks(doc *Document, stamp *Stamp, placements []Placement) error {
	wms := make(map[int]*model.Watermark, len(placements))

	for _, pl := range placements {
		page := doc.Pages[pl.Page-1]

		wm, err := pdfcpu.ParseTextWatermarkDetails(stamp.Text(), watermarkDescription(stamp, page, pl), true, types.POINTS)
		if err != nil {
			return fmt.Errorf("failed to build watermark for page %d: %w", pl.Page, err)
		}
		wms[pl.Page] = wm
	}

	if err := pdfcpu.AddWatermarksMap(doc.ctx, wms); err != nil {
		return fmt.Errorf("failed to stamp pages: %w", err)
	}

	return nil
}

// watermarkDescription renders a pdfcpu watermark description. The stamp
// is anchored at the page center and shifted so its own center lands on
// the placement center; pdfcpu rotates around that same point.
func watermarkDescription(stamp *Stamp, page PageSize, pl Placement) string {
	dx := pl.CenterX - page.Width/2
	dy := pl.CenterY - page.Height/2

	return fmt.Sprintf(
		"fontname:%s, points:%d, aligntext:l, fillcolor:%s, opacity:%.2f, rotation:%.0f, scalefactor:1 abs, position:c, offset:%.2f %.2f",
		stamp.Style.FontName,
		stamp.Style.FontSize,
		grayHex(stamp.Style.Gray),
		stamp.Style.Opacity,
		pl.Rotation,
		dx, dy,
	)
}

func grayHex(gray float64) string {
	v := uint8(gray*255 + 0.5)
	return fmt.Sprintf("#%02X%02X%02X", v, v, v)
}
