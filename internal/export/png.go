package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultChartFile is the file name the bar chart download uses.
const DefaultChartFile = "equilibrium_chart.png"

const margin = 40

type plot struct {
	img *image.RGBA
	w   int
	h   int
}

func newPlot(width, height int) *plot {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	p := &plot{img: img, w: width, h: height}
	p.line(margin, height-margin, width-margin/2, height-margin, axis)
	p.line(margin, margin/2, margin, height-margin, axis)
	return p
}

// line draws with Bresenham's algorithm.
func (p *plot) line(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		p.img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
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

func (p *plot) rect(x0, y0, x1, y1 int, c color.RGBA) {
	draw.Draw(p.img, image.Rect(x0, y0, x1, y1), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func (p *plot) text(x, y int, s string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (p *plot) inner() (x0, y0, x1, y1 int) {
	return margin + 1, margin / 2, p.w - margin/2, p.h - margin - 1
}

// LinePNG renders lines sharing one y-axis. Undefined samples break a line.
func LinePNG(w io.Writer, lines []Line, title string, width, height int) error {
	if width < 4*margin || height < 4*margin {
		return fmt.Errorf("chart too small: %dx%d", width, height)
	}
	p := newPlot(width, height)
	x0, y0, x1, y1 := p.inner()

	lo, hi, n, ok := bounds(lines)
	if ok && n > 0 {
		px := func(i int) int {
			if n == 1 {
				return x0
			}
			return x0 + i*(x1-x0)/(n-1)
		}
		py := func(v float64) int {
			return y1 - int((v-lo)/(hi-lo)*float64(y1-y0))
		}
		for _, l := range lines {
			prevX, prevY, have := 0, 0, false
			for i, v := range l.Values {
				if !finite(v) {
					have = false
					continue
				}
				x, y := px(i), py(v)
				if have {
					p.line(prevX, prevY, x, y, l.Color)
				} else {
					p.img.SetRGBA(x, y, l.Color)
				}
				prevX, prevY, have = x, y, true
			}
		}
		p.text(4, y0+10, fmt.Sprintf("%.0f", hi), label)
		p.text(4, y1, fmt.Sprintf("%.0f", lo), label)
	}

	p.text(margin, 14, title, label)
	for i, l := range lines {
		p.text(margin+i*110, height-margin/2+4, l.Label, l.Color)
	}
	return png.Encode(w, p.img)
}

// BarPNG renders bars from a zero baseline. Negative and undefined values
// draw as empty slots.
func BarPNG(w io.Writer, bars []Bar, title string, width, height int) error {
	if width < 4*margin || height < 4*margin {
		return fmt.Errorf("chart too small: %dx%d", width, height)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars")
	}
	p := newPlot(width, height)
	x0, y0, x1, y1 := p.inner()

	hi := 0.0
	for _, b := range bars {
		if finite(b.Value) && b.Value > hi {
			hi = b.Value
		}
	}
	if hi == 0 {
		hi = 1
	}

	slot := (x1 - x0) / len(bars)
	for i, b := range bars {
		left := x0 + i*slot + slot/5
		right := x0 + (i+1)*slot - slot/5
		if finite(b.Value) && b.Value > 0 {
			top := y1 - int(b.Value/hi*float64(y1-y0))
			p.rect(left, top, right, y1, b.Color)
		}
		p.text(left, height-margin/2+4, b.Label, label)
		p.text(left, y0+12, fmt.Sprintf("%.3f M", b.Value), b.Color)
	}

	p.text(margin, 14, title, label)
	return png.Encode(w, p.img)
}

// WriteFile creates path and calls render with it.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
