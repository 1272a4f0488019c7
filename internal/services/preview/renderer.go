package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/internal/services/processor"
)

const (
	// A4 portrait in points.
	defaultPageWidth  = 595.28
	defaultPageHeight = 841.89

	maxCanvasSize  = 1000
	maxPreviewSize = 400

	glyphWidth  = 7
	glyphHeight = 13
)

// Renderer draws the stamp a recipient would get onto a blank page, so the
// placement can be checked without stamping a real document.
type Renderer struct {
	processor *processor.PDFProcessor
}

func NewRenderer(p *processor.PDFProcessor) *Renderer {
	return &Renderer{processor: p}
}

// RenderPNG returns a PNG no larger than 400px on its longest side.
func (r *Renderer) RenderPNG(req *models.PreviewRequest) ([]byte, error) {
	page := processor.PageSize{Width: req.Width, Height: req.Height}
	if page.Width <= 0 || page.Height <= 0 {
		page = processor.PageSize{Width: defaultPageWidth, Height: defaultPageHeight}
	}

	stamp := r.processor.ComposeStamp(req.Recipient())
	pl := r.processor.Plan([]processor.PageSize{page}, stamp)[0]

	img := renderPage(page, stamp, pl)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, maxPreviewSize, maxPreviewSize, imaging.Lanczos), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPage(page processor.PageSize, stamp *processor.Stamp, pl processor.Placement) image.Image {
	scale := math.Min(1, maxCanvasSize/math.Max(page.Width, page.Height))
	w := int(math.Max(1, math.Round(page.Width*scale)))
	h := int(math.Max(1, math.Round(page.Height*scale)))

	canvas := imaging.New(w, h, color.White)
	drawBorder(canvas, color.NRGBA{R: 220, G: 220, B: 220, A: 255})

	block := textBlock(stamp)
	bw := int(math.Max(1, math.Round(pl.Width*scale)))
	bh := int(math.Max(1, math.Round(pl.Height*scale)))
	block = imaging.Resize(block, bw, bh, imaging.Lanczos)
	block = rotate(block, pl.Rotation)

	// Page space has its origin at the bottom-left; image space at the top-left.
	bounds := pl.Bounds()
	at := image.Pt(
		int(math.Round(bounds.MinX*scale)),
		int(math.Round((page.Height-bounds.MaxY)*scale)),
	)

	mask := image.NewUniform(color.Alpha{A: uint8(stamp.Style.Opacity*255 + 0.5)})
	draw.DrawMask(canvas, block.Bounds().Add(at), block, image.Point{}, mask, image.Point{}, draw.Over)

	return canvas
}

// textBlock draws the stamp lines with the fixed 7x13 face, left aligned.
func textBlock(stamp *processor.Stamp) *image.NRGBA {
	longest := 1
	for _, line := range stamp.Lines {
		if n := len([]rune(line)); n > longest {
			longest = n
		}
	}

	lineHeight := int(math.Round(glyphHeight * stamp.LineHeight() / float64(stamp.Style.FontSize)))
	block := image.NewNRGBA(image.Rect(0, 0, longest*glyphWidth, len(stamp.Lines)*lineHeight))

	v := uint8(stamp.Style.Gray*255 + 0.5)
	d := &font.Drawer{
		Dst:  block,
		Src:  image.NewUniform(color.NRGBA{R: v, G: v, B: v, A: 255}),
		Face: basicfont.Face7x13,
	}
	for i, line := range stamp.Lines {
		d.Dot = fixed.Point26_6{X: 0, Y: fixed.I(i*lineHeight + basicfont.Face7x13.Ascent)}
		d.DrawString(line)
	}

	return block
}

func rotate(img *image.NRGBA, degrees float64) *image.NRGBA {
	switch math.Mod(degrees, 360) {
	case 0:
		return img
	case 90, -270:
		return imaging.Rotate90(img)
	case 180, -180:
		return imaging.Rotate180(img)
	case 270, -90:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, degrees, color.Transparent)
	}
}

func drawBorder(img *image.NRGBA, c color.Color) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.Set(x, b.Min.Y, c)
		img.Set(x, b.Max.Y-1, c)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.Set(b.Min.X, y, c)
		img.Set(b.Max.X-1, y, c)
	}
}
