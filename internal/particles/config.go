package particles

import (
	"math"

	"github.com/san-kum/equilab/internal/telemetry"
)

const (
	DefaultWidth           = 600.0
	DefaultHeight          = 400.0
	DefaultTargetKc        = 1.0
	DefaultSpeed           = 5.0
	DefaultTolerance       = 0.1
	DefaultCollisionRadius = 10.0

	MinSpeed = 1.0
	MaxSpeed = 10.0
)

type Config struct {
	Width           float64
	Height          float64
	Counts          Counts
	TargetKc        float64
	Speed           float64
	Tolerance       float64
	CollisionRadius float64
	HistoryCap      int
	Seed            int64
}

func DefaultConfig() Config {
	return Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Counts:          Counts{A: 50, B: 50},
		TargetKc:        DefaultTargetKc,
		Speed:           DefaultSpeed,
		Tolerance:       DefaultTolerance,
		CollisionRadius: DefaultCollisionRadius,
		HistoryCap:      telemetry.DefaultCapacity,
	}
}

// normalized replaces values the input boundary should have rejected. A bad
// target is kept as is; equilibrium evaluation skips it.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if !positive(c.Width) {
		c.Width = d.Width
	}
	if !positive(c.Height) {
		c.Height = d.Height
	}
	if !positive(c.Tolerance) {
		c.Tolerance = d.Tolerance
	}
	if !positive(c.CollisionRadius) {
		c.CollisionRadius = d.CollisionRadius
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = d.HistoryCap
	}
	c.Speed = clampSpeed(c.Speed)
	c.Counts = c.Counts.normalized()
	return c
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultSpeed
	}
	return math.Max(MinSpeed, math.Min(v, MaxSpeed))
}

// motionFactor scales velocities per tick.
func motionFactor(speed float64) float64 { return speed / 5 }

// reactionProbability is the chance a close A/B pair merges.
func reactionProbability(speed float64) float64 {
	return math.Min(1, speed/10)
}
