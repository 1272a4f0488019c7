package processor

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	PlacementLeftMargin = "left-margin"
	PlacementSpine      = "spine"
	PlacementCorner     = "corner"

	// Margins in points.
	edgeMargin = 20.0
	topMargin  = 40.0
)

// Placement positions a stamp on one page. Coordinates are PDF points with
// the origin at the page's lower-left corner; the stamp is rotated
// counter-clockwise by Rotation degrees around its center.
type Placement struct {
	Page     int     `json:"page"`
	CenterX  float64 `json:"center_x"`
	CenterY  float64 `json:"center_y"`
	Rotation float64 `json:"rotation"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in page space.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Bounds returns the rectangle covered by the rotated stamp.
func (p Placement) Bounds() Rect {
	w, h := p.extent()
	return Rect{
		MinX: p.CenterX - w/2,
		MinY: p.CenterY - h/2,
		MaxX: p.CenterX + w/2,
		MaxY: p.CenterY + h/2,
	}
}

func (p Placement) extent() (float64, float64) {
	rad := p.Rotation * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return p.Width*cos + p.Height*sin, p.Width*sin + p.Height*cos
}

// PlacementPolicy decides where the stamp goes on a page of the given size.
type PlacementPolicy func(pageWidth, pageHeight float64, stamp *Stamp) Placement

var placementPolicies = map[string]PlacementPolicy{
	PlacementLeftMargin: LeftMargin,
	PlacementSpine:      Spine,
	PlacementCorner:     Corner,
}

func LookupPlacement(name string) (PlacementPolicy, error) {
	policy, ok := placementPolicies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown watermark placement %q (want one of %s)",
			name, strings.Join(PlacementNames(), ", "))
	}
	return policy, nil
}

func PlacementNames() []string {
	names := make([]string, 0, len(placementPolicies))
	for name := range placementPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LeftMargin puts the block near the top-left corner, unrotated.
func LeftMargin(pageWidth, pageHeight float64, stamp *Stamp) Placement {
	w, h := stamp.Width(), stamp.Height()
	return fitToPage(Placement{
		CenterX: edgeMargin + w/2,
		CenterY: pageHeight - topMargin - h/2,
		Width:   w,
		Height:  h,
	}, pageWidth, pageHeight)
}

// Spine runs the stamp up the left edge, rotated 90 degrees and centered
// vertically.
func Spine(pageWidth, pageHeight float64, stamp *Stamp) Placement {
	w, h := stamp.Width(), stamp.Height()
	return fitToPage(Placement{
		CenterX:  edgeMargin + h/2,
		CenterY:  pageHeight / 2,
		Rotation: 90,
		Width:    w,
		Height:   h,
	}, pageWidth, pageHeight)
}

// Corner puts a small stamp in the bottom-right corner.
func Corner(pageWidth, pageHeight float64, stamp *Stamp) Placement {
	w, h := stamp.Width(), stamp.Height()
	return fitToPage(Placement{
		CenterX: pageWidth - edgeMargin - w/2,
		CenterY: edgeMargin + h/2,
		Width:   w,
		Height:  h,
	}, pageWidth, pageHeight)
}

// fitToPage shifts p so its bounds stay inside the page. A stamp larger
// than the page is centered on that axis.
func fitToPage(p Placement, pageWidth, pageHeight float64) Placement {
	w, h := p.extent()
	p.CenterX = clampAxis(p.CenterX, w, pageWidth)
	p.CenterY = clampAxis(p.CenterY, h, pageHeight)
	return p
}

func clampAxis(center, extent, limit float64) float64 {
	if extent >= limit {
		return limit / 2
	}
	return math.Min(math.Max(center, extent/2), limit-extent/2)
}
