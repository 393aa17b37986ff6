package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBA_String(t *testing.T) {
	tests := []struct {
		color RGBA
		want  string
	}{
		{RGBA{R: 54, G: 162, B: 235, A: 0.6}, "rgba(54, 162, 235, 0.6)"},
		{RGBA{R: 54, G: 162, B: 235, A: 1}, "rgba(54, 162, 235, 1)"},
		{RGBA{R: 0, G: 0, B: 0, A: 0}, "rgba(0, 0, 0, 0)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.color.String())
	}
}

func TestSegmentColor_Wraps(t *testing.T) {
	for i := 0; i < len(RatingPalette); i++ {
		assert.Equal(t, RatingPalette[i], SegmentColor(i))
		assert.Equal(t, SegmentColor(i), SegmentColor(i+len(RatingPalette)))
	}
	assert.Equal(t, SegmentColor(4), SegmentColor(-1))
}

func TestPaletteColors(t *testing.T) {
	fills := paletteColors(fillAlpha)
	assert.Len(t, fills, 5)
	assert.Equal(t, "rgba(255, 99, 132, 0.6)", fills[0])
	assert.Equal(t, "rgba(153, 102, 255, 0.6)", fills[4])
}
