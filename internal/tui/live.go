package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws a plain ANSI view of the field. It is fed from a
// particles.Runner frame callback and throttles itself to frameRate.
type LiveRenderer struct {
	mu        sync.Mutex
	out       io.Writer
	frameRate int
	lastFrame time.Time
	field     *viz.Field
	width     float64
	height    float64
	banner    string
}

func NewLiveRenderer(out io.Writer, frameRate int, width, height float64) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		field:     viz.NewField(fieldCols, fieldRows),
		width:     width,
		height:    height,
	}
}

// OnFrame renders f with the population ps unless the last frame was too
// recent. Frames that enter equilibrium always render.
func (r *LiveRenderer) OnFrame(f particles.Frame, ps []particles.Particle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.Entered {
		r.banner = fmt.Sprintf("Equilibrium reached! Kc = %.2f", f.Kc)
	} else if !f.Reached {
		r.banner = ""
	}
	if !f.Entered && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.field.Plot(ps, r.width, r.height)
	fmt.Fprint(r.out, r.render(f))
}

func (r *LiveRenderer) render(f particles.Frame) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  A + B <=> AB  tick=%d\n", f.Tick))
	b.WriteString("  +" + strings.Repeat("-", fieldCols) + "+\n")
	for _, line := range strings.Split(strings.TrimRight(r.field.Plain(), "\n"), "\n") {
		b.WriteString("  |" + line + "|\n")
	}
	b.WriteString("  +" + strings.Repeat("-", fieldCols) + "+\n")
	b.WriteString(fmt.Sprintf("  A=%d B=%d AB=%d Kc=%s\n", f.Counts.A, f.Counts.B, f.Counts.AB, FormatKc(f.Kc)))
	if r.banner != "" {
		b.WriteString("  " + r.banner + "\n")
	}
	return b.String()
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
