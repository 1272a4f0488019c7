package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatermarkDescription(t *testing.T) {
	stamp := ComposeStamp(ana, "", DefaultStyle())
	page := PageSize{Width: 600, Height: 800}
	pl := Placement{Page: 1, CenterX: 100, CenterY: 700, Rotation: 90}

	assert.Equal(t,
		"fontname:Helvetica, points:10, aligntext:l, fillcolor:#999999, opacity:0.40, rotation:90, scalefactor:1 abs, position:c, offset:-200.00 300.00",
		watermarkDescription(stamp, page, pl))
}

func TestGrayHex(t *testing.T) {
	assert.Equal(t, "#000000", grayHex(0))
	assert.Equal(t, "#999999", grayHex(0.6))
	assert.Equal(t, "#FFFFFF", grayHex(1))
}

func TestWatermarkDescription_OpacityNeverRoundsToOpaque(t *testing.T) {
	style := DefaultStyle()
	style.Opacity = 0.996
	stamp := ComposeStamp(ana, "", style)

	desc := watermarkDescription(stamp, PageSize{Width: 600, Height: 800}, Placement{CenterX: 300, CenterY: 400})
	assert.Contains(t, desc, "opacity:0.99,")
}
