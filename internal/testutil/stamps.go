package testutil

import (
	"bytes"
	"io"
	"math"
	"regexp"
	"strconv"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"
)

// Box is a rectangle in page space.
type Box struct {
	LLX, LLY, URX, URY float64
}

// Contains reports whether b lies inside box, allowing tol points of slack.
func (box Box) Contains(b Box, tol float64) bool {
	return b.LLX >= box.LLX-tol && b.LLY >= box.LLY-tol &&
		b.URX <= box.URX+tol && b.URY <= box.URY+tol
}

// PageStamp is the watermark form drawn on one page.
type PageStamp struct {
	Page int
	// Form is the decoded content stream of the form XObject.
	Form []byte
	// Drawn is the form's BBox mapped through the page's cm operator.
	Drawn Box
	// Visible is the page's CropBox, or its MediaBox when there is none.
	Visible Box
}

// HasText reports whether the form shows s in a Tj operation.
func (s PageStamp) HasText(text string) bool {
	return bytes.Contains(s.Form, []byte("("+text+")"))
}

var formDraw = regexp.MustCompile(`q (\S+) (\S+) (\S+) (\S+) (\S+) (\S+) cm /(\S+) gs /(\S+) Do Q`)

// PageStamps reads pdf and returns the stamp drawn on every page, in page
// order. It fails the test when a page carries no stamp.
func PageStamps(t *testing.T, pdf []byte) []PageStamp {
	t.Helper()

	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(pdf), conf)
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())

	boundaries, err := ctx.PageBoundaries(nil)
	require.NoError(t, err)

	stamps := make([]PageStamp, ctx.PageCount)
	for n := 1; n <= ctx.PageCount; n++ {
		r, err := pdfcpu.ExtractPageContent(ctx, n)
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)

		m := formDraw.FindSubmatch(content)
		require.NotNil(t, m, "page %d draws no stamp form", n)

		var cm [6]float64
		for i := range cm {
			cm[i], err = strconv.ParseFloat(string(m[i+1]), 64)
			require.NoError(t, err)
		}

		form := pageForm(t, ctx, n, string(m[8]))
		bbox := numbers(t, ctx, form.ArrayEntry("BBox"))
		require.Len(t, bbox, 4, "page %d form has no BBox", n)

		crop := boundaries[n-1].CropBox()
		require.NotNil(t, crop)

		stamps[n-1] = PageStamp{
			Page:    n,
			Form:    form.Content,
			Drawn:   transform(cm, Box{bbox[0], bbox[1], bbox[2], bbox[3]}),
			Visible: Box{crop.LL.X, crop.LL.Y, crop.UR.X, crop.UR.Y},
		}
	}
	return stamps
}

func pageForm(t *testing.T, ctx *model.Context, pageNr int, name string) *types.StreamDict {
	t.Helper()

	page, _, _, err := ctx.PageDict(pageNr, false)
	require.NoError(t, err)

	obj, found := page.Find("Resources")
	require.True(t, found, "page %d has no resources", pageNr)
	resources, err := ctx.DereferenceDict(obj)
	require.NoError(t, err)

	obj, found = resources.Find("XObject")
	require.True(t, found, "page %d has no XObjects", pageNr)
	xobjects, err := ctx.DereferenceDict(obj)
	require.NoError(t, err)

	obj, found = xobjects.Find(name)
	require.True(t, found, "page %d misses XObject %s", pageNr, name)
	sd, _, err := ctx.DereferenceStreamDict(obj)
	require.NoError(t, err)
	require.NotNil(t, sd)
	require.NoError(t, sd.Decode())

	return sd
}

func numbers(t *testing.T, ctx *model.Context, a types.Array) []float64 {
	t.Helper()

	out := make([]float64, len(a))
	for i, o := range a {
		f, err := ctx.DereferenceNumber(o)
		require.NoError(t, err)
		out[i] = f
	}
	return out
}

// transform maps the corners of b through the matrix [a b c d e f].
func transform(m [6]float64, b Box) Box {
	out := Box{LLX: math.Inf(1), LLY: math.Inf(1), URX: math.Inf(-1), URY: math.Inf(-1)}
	for _, p := range [][2]float64{{b.LLX, b.LLY}, {b.URX, b.LLY}, {b.URX, b.URY}, {b.LLX, b.URY}} {
		x := m[0]*p[0] + m[2]*p[1] + m[4]
		y := m[1]*p[0] + m[3]*p[1] + m[5]
		out.LLX, out.URX = math.Min(out.LLX, x), math.Max(out.URX, x)
		out.LLY, out.URY = math.Min(out.LLY, y), math.Max(out.URY, y)
	}
	return out
}
