package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/equilab/internal/particles"
)

// Glyphs per species; a cell shared by different species shows Mixed.
const (
	GlyphA     = 'a'
	GlyphB     = 'b'
	GlyphAB    = '@'
	GlyphMixed = '*'
	GlyphEmpty = ' '
)

type cell struct {
	species particles.Species
	count   int
	mixed   bool
}

// Field rasterizes particle positions onto Cols x Rows character cells.
type Field struct {
	Cols, Rows int
	cells      [][]cell
}

func NewField(cols, rows int) *Field {
	f := &Field{Cols: cols, Rows: rows, cells: make([][]cell, rows)}
	for i := range f.cells {
		f.cells[i] = make([]cell, cols)
	}
	return f
}

func (f *Field) Clear() {
	for i := range f.cells {
		for j := range f.cells[i] {
			f.cells[i][j] = cell{}
		}
	}
}

// Plot maps world coordinates in [0,w]x[0,h] onto the grid.
func (f *Field) Plot(ps []particles.Particle, w, h float64) {
	f.Clear()
	if w <= 0 || h <= 0 {
		return
	}
	for _, p := range ps {
		col := int(p.X / w * float64(f.Cols))
		row := int(p.Y / h * float64(f.Rows))
		col = max(0, min(col, f.Cols-1))
		row = max(0, min(row, f.Rows-1))

		c := &f.cells[row][col]
		if c.count > 0 && c.species != p.Species {
			c.mixed = true
		}
		c.species = p.Species
		c.count++
	}
}

// Glyph returns the rune drawn at (row, col).
func (f *Field) Glyph(row, col int) rune {
	c := f.cells[row][col]
	switch {
	case c.count == 0:
		return GlyphEmpty
	case c.mixed:
		return GlyphMixed
	case c.species == particles.ReactantA:
		return GlyphA
	case c.species == particles.ReactantB:
		return GlyphB
	default:
		return GlyphAB
	}
}

// Plain renders the grid without color.
func (f *Field) Plain() string {
	var b strings.Builder
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			b.WriteRune(f.Glyph(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colors each glyph with the theme's species colors.
func (f *Field) Render(t Theme) string {
	styles := map[rune]lipgloss.Style{
		GlyphA:     lipgloss.NewStyle().Foreground(t.A),
		GlyphB:     lipgloss.NewStyle().Foreground(t.B),
		GlyphAB:    lipgloss.NewStyle().Foreground(t.AB).Bold(true),
		GlyphMixed: lipgloss.NewStyle().Foreground(t.Text),
	}

	var b strings.Builder
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			g := f.Glyph(row, col)
			if s, ok := styles[g]; ok {
				b.WriteString(s.Render(string(g)))
			} else {
				b.WriteRune(g)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
