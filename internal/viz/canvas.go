package viz

import (
	"math"
	"math/cmplx"
	"strings"
)

const brailleBlank = 0x2800

// dotBits maps a sub-cell (row, col) to its Braille dot bit.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid of Braille cells. Each cell holds 2x4 dots, so
// the dot resolution is (2*Width) x (4*Height).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return &Canvas{Width: w, Height: h, Grid: grid}
}

// Set lights the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// plane maps the complex plane onto a canvas centred on the origin.
type plane struct {
	*Canvas
	cx, cy int
	scale  float64
}

func newPlane(c *Canvas, radius float64) plane {
	pw, ph := 2*c.Width, 4*c.Height
	return plane{
		Canvas: c,
		cx:     pw / 2,
		cy:     ph / 2,
		scale:  float64(min(pw, ph)/2-1) / radius,
	}
}

func (p plane) dot(z complex128) (int, int) {
	return p.cx + int(math.Round(real(z)*p.scale)),
		p.cy - int(math.Round(imag(z)*p.scale))
}

// axes draws a solid imaginary axis and a dotted real axis.
func (p plane) axes() {
	for y := 0; y < 4*p.Height; y++ {
		p.Set(p.cx, y)
	}
	for x := 0; x < 2*p.Width; x += 4 {
		p.Set(x, p.cy)
	}
}

// cross stamps a 3x3 diagonal cross at z.
func (p plane) cross(z complex128) {
	x, y := p.dot(z)
	for d := -1; d <= 1; d++ {
		p.Set(x+d, y+d)
		p.Set(x+d, y-d)
	}
}

// PoleMap plots poles as crosses on a w x h character canvas, scaled to the
// largest pole magnitude. Stable poles fall left of the imaginary axis.
func PoleMap(poles []complex128, w, h int) *Canvas {
	radius := 0.0
	for _, z := range poles {
		radius = math.Max(radius, cmplx.Abs(z))
	}
	if radius == 0 {
		radius = 1
	}

	p := newPlane(NewCanvas(w, h), 1.1*radius)
	p.axes()
	for _, z := range poles {
		p.cross(z)
	}
	return p.Canvas
}
