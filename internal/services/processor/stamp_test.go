package processor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeStamp(t *testing.T) {
	stamp := ComposeStamp(ana, " Liviskov.com ", DefaultStyle())
	assert.Equal(t, []string{"Ana Silva", "ana@x.io", "Liviskov.com"}, stamp.Lines)
	assert.Equal(t, "Ana Silva\nana@x.io\nLiviskov.com", stamp.Text())

	noSite := ComposeStamp(ana, "", DefaultStyle())
	assert.Equal(t, []string{"Ana Silva", "ana@x.io"}, noSite.Lines)
}

func TestStamp_Metrics(t *testing.T) {
	stamp := ComposeStamp(ana, "Liviskov.com", DefaultStyle())

	// Helvetica's bounding box is 1156 units tall.
	assert.InDelta(t, 11.56, stamp.LineHeight(), 0.001)
	assert.InDelta(t, 34.68, stamp.Height(), 0.001)
	// "Liviskov.com" is the widest line: 5723 units at 10pt.
	assert.InDelta(t, 57.23, stamp.Width(), 0.001)
}

func TestStamp_WidthCoversWideEmail(t *testing.T) {
	rec := ana
	rec.Email = "maria.joao.wwmm@example.com"
	stamp := ComposeStamp(rec, "Liviskov.com", DefaultStyle())

	// A flat 0.55 em per glyph undershoots this line.
	assert.Greater(t, stamp.Width(), float64(len(rec.Email))*0.55*10)
}

func TestStamp_NonLatinRunesMeasureAsSpaces(t *testing.T) {
	stamp := ComposeStamp(ana, "本", DefaultStyle())
	assert.Equal(t, []string{"Ana Silva", "ana@x.io", "本"}, stamp.Lines)
	assert.InDelta(t, 2.78, stamp.lineWidth("本"), 0.001)
}

func TestStamp_FallbackMetricsForUnknownFont(t *testing.T) {
	stamp := ComposeStamp(ana, "", Style{FontName: "Brand-Sans", FontSize: 10, Opacity: 0.4, Gray: 0.6})

	assert.InDelta(t, 12.0, stamp.LineHeight(), 0.001)
	assert.InDelta(t, 9*fallbackGlyphWidth*10, stamp.Width(), 0.001)
}

func TestStyle_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   Style
		want Style
	}{
		{"zero value", Style{}, DefaultStyle()},
		{"opaque", Style{FontName: "Courier", FontSize: 12, Opacity: 1, Gray: 0.4},
			Style{FontName: "Courier", FontSize: 12, Opacity: DefaultOpacity, Gray: 0.4}},
		{"huge font", Style{FontSize: 500, Opacity: 0.3, Gray: 2},
			Style{FontName: DefaultFontName, FontSize: DefaultFontSize, Opacity: 0.3, Gray: DefaultGray}},
		{"black", Style{Opacity: 0.3, Gray: 0}, Style{FontName: DefaultFontName, FontSize: DefaultFontSize, Opacity: 0.3, Gray: DefaultGray}},
		{"near white", Style{Opacity: 0.3, Gray: 0.95}, Style{FontName: DefaultFontName, FontSize: DefaultFontSize, Opacity: 0.3, Gray: DefaultGray}},
		{"not a number", Style{Opacity: math.NaN(), Gray: math.NaN()}, DefaultStyle()},
		{"rounds up to opaque", Style{Opacity: 0.996, Gray: 0.6}, Style{FontName: DefaultFontName, FontSize: DefaultFontSize, Opacity: maxOpacity, Gray: 0.6}},
		{"rounds down to invisible", Style{Opacity: 0.001, Gray: 0.6}, Style{FontName: DefaultFontName, FontSize: DefaultFontSize, Opacity: minOpacity, Gray: 0.6}},
		{"rounded to two decimals", Style{Opacity: 0.333, Gray: 0.6}, Style{FontName: DefaultFontName, FontSize: DefaultFontSize, Opacity: 0.33, Gray: 0.6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized()
			assert.Equal(t, tt.want, got)
			assert.Greater(t, got.Opacity, 0.0)
			assert.Less(t, got.Opacity, 1.0)
			assert.GreaterOrEqual(t, got.Gray, minGray)
			assert.LessOrEqual(t, got.Gray, maxGray)
		})
	}
}
