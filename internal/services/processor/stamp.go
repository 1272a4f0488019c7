package processor

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/font"

	"github.com/phambaophuc/pdf-watermark/internal/models"
)

const (
	DefaultFontName = "Helvetica"
	DefaultFontSize = 10
	DefaultOpacity  = 0.4
	DefaultGray     = 0.6

	maxFontSize = 72

	// Gray stays in a neutral band: never black, never invisible on white.
	minGray = 0.3
	maxGray = 0.9

	// Opacity is written with two decimals.
	minOpacity = 0.01
	maxOpacity = 0.99

	// Fallback metrics for fonts pdfcpu has no widths for.
	fallbackLineSpacing = 1.2
	fallbackGlyphWidth  = 0.6
)

// Style is how the stamp is rendered.
type Style struct {
	FontName string
	FontSize int
	Opacity  float64
	Gray     float64
}

func DefaultStyle() Style {
	return Style{
		FontName: DefaultFontName,
		FontSize: DefaultFontSize,
		Opacity:  DefaultOpacity,
		Gray:     DefaultGray,
	}
}

// normalized replaces unset or out-of-range values with defaults. Opacity
// must be strictly between 0 and 1 so the mark is never invisible or
// opaque, and it stays so after rounding to two decimals.
func (s Style) normalized() Style {
	if s.FontName == "" {
		s.FontName = DefaultFontName
	}
	if s.FontSize <= 0 || s.FontSize > maxFontSize {
		s.FontSize = DefaultFontSize
	}
	if !(s.Opacity > 0 && s.Opacity < 1) {
		s.Opacity = DefaultOpacity
	}
	s.Opacity = math.Min(math.Max(math.Round(s.Opacity*100)/100, minOpacity), maxOpacity)
	if !(s.Gray >= minGray && s.Gray <= maxGray) {
		s.Gray = DefaultGray
	}
	return s
}

// Stamp is the attribution text for one recipient.
type Stamp struct {
	Lines []string
	Style Style
}

// ComposeStamp builds the three-line stamp "<first> <last>", "<email>",
// "<site>". The site line is left out when site is empty.
func ComposeStamp(recipient models.Recipient, site string, style Style) *Stamp {
	lines := []string{
		recipient.FullName(),
		strings.TrimSpace(recipient.Email),
	}
	if site = strings.TrimSpace(site); site != "" {
		lines = append(lines, site)
	}

	return &Stamp{
		Lines: lines,
		Style: style.normalized(),
	}
}

func (s *Stamp) Text() string {
	return strings.Join(s.Lines, "\n")
}

// LineHeight is the font's bounding box height at the stamp's size, the
// same advance pdfcpu uses between lines.
func (s *Stamp) LineHeight() float64 {
	if !font.IsCoreFont(s.Style.FontName) {
		return float64(s.Style.FontSize) * fallbackLineSpacing
	}
	return font.LineHeight(s.Style.FontName, s.Style.FontSize)
}

// Width is the rendered width of the longest line.
func (s *Stamp) Width() float64 {
	var widest float64
	for _, line := range s.Lines {
		if w := s.lineWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

func (s *Stamp) lineWidth(line string) float64 {
	if !font.IsCoreFont(s.Style.FontName) {
		return float64(utf8.RuneCountInString(line)) * fallbackGlyphWidth * float64(s.Style.FontSize)
	}
	return font.TextWidth(coreFontBytes(line), s.Style.FontName, s.Style.FontSize)
}

// coreFontBytes maps s to the single-byte codes a core font draws; runes
// outside Latin-1 become spaces.
func coreFontBytes(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = ' '
		}
		b = append(b, byte(r))
	}
	return string(b)
}

func (s *Stamp) Height() float64 {
	return float64(len(s.Lines)) * s.LineHeight()
}
