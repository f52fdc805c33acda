package particles

import "math/rand"

type Species int

const (
	ReactantA Species = iota
	ReactantB
	ProductAB
	// Merged marks a consumed reactant inside a single collision pass.
	Merged
)

func (s Species) String() string {
	switch s {
	case ReactantA:
		return "A"
	case ReactantB:
		return "B"
	case ProductAB:
		return "AB"
	case Merged:
		return "merged"
	default:
		return "unknown"
	}
}

type Particle struct {
	X, Y    float64
	VX, VY  float64
	Species Species
}

type Counts struct {
	A  int `yaml:"a" json:"a"`
	B  int `yaml:"b" json:"b"`
	AB int `yaml:"ab" json:"ab"`
}

// Atoms is the number of A and B units, free or bound. Collisions conserve it.
func (c Counts) Atoms() int { return c.A + c.B + 2*c.AB }

func (c Counts) Total() int { return c.A + c.B + c.AB }

func (c Counts) normalized() Counts {
	if c.A < 0 {
		c.A = 0
	}
	if c.B < 0 {
		c.B = 0
	}
	if c.AB < 0 {
		c.AB = 0
	}
	return c
}

// Kc is AB^2 / (A*B). It is +Inf or NaN when A or B is exhausted.
func (c Counts) Kc() float64 {
	num := float64(c.AB) * float64(c.AB)
	den := float64(c.A) * float64(c.B)
	return num / den
}

// CountSpecies filters the population.
func CountSpecies(ps []Particle) Counts {
	var c Counts
	for _, p := range ps {
		switch p.Species {
		case ReactantA:
			c.A++
		case ReactantB:
			c.B++
		case ProductAB:
			c.AB++
		}
	}
	return c
}

func randomVelocity(rng *rand.Rand) (float64, float64) {
	return (rng.Float64() - 0.5) * 2, (rng.Float64() - 0.5) * 2
}

func spawn(rng *rand.Rand, n int, sp Species, w, h float64) []Particle {
	out := make([]Particle, n)
	for i := range out {
		vx, vy := randomVelocity(rng)
		out[i] = Particle{
			X:       rng.Float64() * w,
			Y:       rng.Float64() * h,
			VX:      vx,
			VY:      vy,
			Species: sp,
		}
	}
	return out
}

// populate materializes a fresh population; nothing carries over.
func populate(rng *rand.Rand, c Counts, w, h float64) []Particle {
	ps := make([]Particle, 0, c.Total())
	ps = append(ps, spawn(rng, c.A, ReactantA, w, h)...)
	ps = append(ps, spawn(rng, c.B, ReactantB, w, h)...)
	ps = append(ps, spawn(rng, c.AB, ProductAB, w, h)...)
	return ps
}
