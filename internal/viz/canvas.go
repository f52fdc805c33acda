package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille pixel grid of Width x Height cells, which is
// 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights dot (x, y); out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PlotSeries draws values left to right scaled into [lo, hi], clamping
// outliers to the edges. Undefined samples break the line.
func (c *Canvas) PlotSeries(values []float64, lo, hi float64) {
	if len(values) == 0 || hi <= lo {
		return
	}
	w, h := c.Width*2, c.Height*4
	if len(values) > w {
		values = values[len(values)-w:]
	}

	y := func(v float64) int {
		norm := (math.Max(lo, math.Min(v, hi)) - lo) / (hi - lo)
		return h - 1 - int(norm*float64(h-1))
	}

	prevX, prevY, ok := 0, 0, false
	for i, v := range values {
		if math.IsNaN(v) {
			ok = false
			continue
		}
		x, py := i, y(v)
		if ok {
			c.DrawLine(prevX, prevY, x, py)
		} else {
			c.Set(x, py)
		}
		prevX, prevY, ok = x, py, true
	}
}

// HLine marks value v across the full width with a dotted line.
func (c *Canvas) HLine(v, lo, hi float64) {
	if hi <= lo || v < lo || v > hi {
		return
	}
	h := c.Height * 4
	y := h - 1 - int((v-lo)/(hi-lo)*float64(h-1))
	for x := 0; x < c.Width*2; x += 3 {
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
