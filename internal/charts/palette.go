package charts

import (
	"fmt"
	"strconv"
)

// RGBA is a CSS rgba() color.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// String formats the color the way Chart.js examples write it, e.g. "rgba(54, 162, 235, 0.6)".
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// WithAlpha returns the same color at a different opacity.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

const (
	fillAlpha   = 0.6
	borderAlpha = 1
)

var (
	blue   = RGBA{R: 54, G: 162, B: 235, A: borderAlpha}
	teal   = RGBA{R: 75, G: 192, B: 192, A: borderAlpha}
	purple = RGBA{R: 153, G: 102, B: 255, A: borderAlpha}
	red    = RGBA{R: 255, G: 99, B: 132, A: borderAlpha}
	yellow = RGBA{R: 255, G: 206, B: 86, A: borderAlpha}
)

// RatingPalette is the fixed set of doughnut segment colors. It is never extended:
// segments past the fifth reuse colors from the start.
var RatingPalette = [...]RGBA{red, blue, yellow, teal, purple}

// SegmentColor returns the opaque palette color used for doughnut segment i.
func SegmentColor(i int) RGBA {
	n := len(RatingPalette)
	return RatingPalette[((i%n)+n)%n]
}

// paletteColors renders the whole rating palette at the given opacity.
func paletteColors(alpha float64) Colors {
	out := make(Colors, len(RatingPalette))
	for i, c := range RatingPalette {
		out[i] = c.WithAlpha(alpha).String()
	}
	return out
}
