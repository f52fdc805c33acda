package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/equilab/internal/logutil"
	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/viz"
)

const (
	screenW = 1280
	screenH = 720

	countStep  = 5
	targetStep = 0.1
	minTarget  = 0.1
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColFrame   = rl.NewColor(68, 68, 102, 255)
)

// App owns the window loop. The simulation is only touched from that loop.
type App struct {
	Sim   *particles.Simulation
	Theme viz.Theme
	Font  rl.Font
	log   *logutil.Logger

	// Field is the on-screen rectangle the simulation box maps to.
	Field rl.Rectangle
	err   error
}

func initWindow(fps int) {
	rl.InitWindow(screenW, screenH, "equilab")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to the raylib default.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(sim *particles.Simulation, theme viz.Theme, log *logutil.Logger) *App {
	return &App{
		Sim:   sim,
		Theme: theme,
		Font:  loadFont(),
		log:   log,
		Field: fitField(sim.Config(), 30, 80, 820, 480),
	}
}

// fitField scales the simulation box into the given area keeping its aspect.
func fitField(cfg particles.Config, x, y, w, h float32) rl.Rectangle {
	scale := float32(math.Min(float64(w)/cfg.Width, float64(h)/cfg.Height))
	return rl.NewRectangle(x, y, float32(cfg.Width)*scale, float32(cfg.Height)*scale)
}

// Run opens the window and blocks until it is closed.
func Run(sim *particles.Simulation, fps int, theme viz.Theme, log *logutil.Logger) {
	if fps <= 0 {
		fps = 60
	}
	initWindow(fps)
	defer rl.CloseWindow()

	app := NewApp(sim, theme, log)
	app.RunLoop()
	sim.Stop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	cfg := a.Sim.Config()
	c := a.Sim.Counts()

	step := countStep
	if shift {
		step = -countStep
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if !a.Sim.Start() {
			a.Sim.Stop()
		}
	case rl.IsKeyPressed(rl.KeyR):
		a.Sim.Reset()
	case rl.IsKeyPressed(rl.KeyUp):
		a.Sim.SetSpeed(cfg.Speed + 1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.Sim.SetSpeed(cfg.Speed - 1)
	case rl.IsKeyPressed(rl.KeyA):
		a.setCounts(particles.Counts{A: c.A + step, B: c.B, AB: c.AB})
	case rl.IsKeyPressed(rl.KeyB):
		a.setCounts(particles.Counts{A: c.A, B: c.B + step, AB: c.AB})
	case rl.IsKeyPressed(rl.KeyP):
		a.setCounts(particles.Counts{A: c.A, B: c.B, AB: c.AB + step})
	case rl.IsKeyPressed(rl.KeyK):
		delta := targetStep
		if shift {
			delta = -targetStep
		}
		a.err = a.Sim.SetTarget(math.Max(minTarget, cfg.TargetKc+delta))
	case rl.IsKeyPressed(rl.KeyT):
		a.Theme = viz.NextTheme(a.Theme)
	}

	if a.Sim.Status() == particles.Running {
		a.Sim.Step()
	}
}

func (a *App) setCounts(c particles.Counts) {
	c.A, c.B, c.AB = max(c.A, 0), max(c.B, 0), max(c.AB, 0)
	a.Sim.SetCounts(c)
	a.log.Debugf("repopulated with %d/%d/%d", c.A, c.B, c.AB)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawField()
	a.DrawHUD()
	a.DrawTelemetry()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	cfg := a.Sim.Config()
	c := a.Sim.Counts()

	a.drawText("equilab", 30, 30, 24, ColSelect)
	a.drawText(":: A + B <=> AB", 150, 34, 16, ColText)

	status, col := "IDLE", ColTextDim
	switch a.Sim.Status() {
	case particles.Running:
		status, col = "RUNNING", ColSelect
	case particles.Stopped:
		status = "STOPPED"
	}
	a.drawText(status, 1150, 30, 16, col)

	x, y := 880, 90
	line := func(label, value string, col rl.Color) {
		a.drawText(label, x, y, 16, ColText)
		a.drawText(value, x+140, y, 16, col)
		y += 28
	}
	line("tick", fmt.Sprintf("%d", a.Sim.TimeStep()), ColSelect)
	line("speed", fmt.Sprintf("%.0f", cfg.Speed), ColSelect)
	line("reactant A", fmt.Sprintf("%d", c.A), themeColor(a.Theme.A))
	line("reactant B", fmt.Sprintf("%d", c.B), themeColor(a.Theme.B))
	line("product AB", fmt.Sprintf("%d", c.AB), themeColor(a.Theme.AB))
	line("Kc", formatKc(c.Kc()), ColSelect)
	line("target", fmt.Sprintf("%.2f", cfg.TargetKc), ColSelect)

	if reached, value := a.Sim.Equilibrium(); reached {
		y += 12
		rl.DrawRectangle(int32(x-10), int32(y-6), 360, 34, themeColor(a.Theme.Success))
		a.drawText(fmt.Sprintf("Equilibrium reached! Kc = %.2f", value), x, y, 18, ColBg)
		y += 40
	}
	if a.err != nil {
		a.drawText(a.err.Error(), x, y+12, 14, rl.Red)
	}

	a.drawText("[SPACE] START/STOP  [R] RESET  [A/B/P] +5 (SHIFT -5)  [K] TARGET  [UP/DOWN] SPEED  [T] THEME  [Q] QUIT",
		30, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 1190, 690, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func formatKc(kc float64) string {
	switch {
	case math.IsNaN(kc):
		return "-"
	case math.IsInf(kc, 1):
		return "inf"
	default:
		return fmt.Sprintf("%.2f", kc)
	}
}
