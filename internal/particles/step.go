package particles

import (
	"math"

	"github.com/san-kum/equilab/internal/notify"
)

// Step runs one tick: motion, collisions, equilibrium check, telemetry. It
// does not consult Status; callers tick only while Running, as Runner, Run
// and the front-ends do.
func (s *Simulation) Step() Frame {
	s.move()
	reactions := s.collide()

	counts := s.Counts()
	kc := counts.Kc()
	entered, left := s.evaluate(counts, kc)

	f := Frame{
		Tick:      s.tick,
		Counts:    counts,
		Kc:        kc,
		Reached:   s.reached,
		Entered:   entered,
		Left:      left,
		Reactions: reactions,
	}
	s.history.Push(f.Point())
	s.tick++
	return f
}

func (s *Simulation) move() {
	f := motionFactor(s.cfg.Speed)
	w, h := s.cfg.Width, s.cfg.Height
	for i := range s.particles {
		p := &s.particles[i]
		p.X += p.VX * f
		p.Y += p.VY * f

		if p.X < 0 || p.X > w {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > h {
			p.VY = -p.VY
		}
	}
}

// collide merges close A/B pairs. A reactant consumed earlier in the pass is
// never paired again. Besides the latched equilibrium flag, each reaction is
// gated on the live counts of this pass: once they are within tolerance of the
// target no further pair reacts, even though the flag only latches in
// evaluate after the pass. Without this one crowded tick can jump over the
// band, e.g. 50/50 with target 1 is only met at exactly 25 reactions.
func (s *Simulation) collide() int {
	var as, bs []int
	for i, p := range s.particles {
		switch p.Species {
		case ReactantA:
			as = append(as, i)
		case ReactantB:
			bs = append(bs, i)
		}
	}
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}

	prob := reactionProbability(s.cfg.Speed)
	r2 := s.cfg.CollisionRadius * s.cfg.CollisionRadius
	consumed := make([]bool, len(s.particles))
	live := CountSpecies(s.particles)
	reactions := 0

	for _, i := range as {
		for _, j := range bs {
			if consumed[i] {
				break
			}
			if consumed[j] {
				continue
			}
			a, b := s.particles[i], s.particles[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			if dx*dx+dy*dy >= r2 {
				continue
			}
			if s.reached || s.withinTolerance(live.Kc()) {
				return s.compact(reactions)
			}
			if s.rng.Float64() >= prob {
				continue
			}

			consumed[i], consumed[j] = true, true
			s.particles[i].Species = Merged
			s.particles[j].Species = Merged

			vx, vy := randomVelocity(s.rng)
			s.particles = append(s.particles, Particle{
				X:       (a.X + b.X) / 2,
				Y:       (a.Y + b.Y) / 2,
				VX:      vx,
				VY:      vy,
				Species: ProductAB,
			})
			live.A--
			live.B--
			live.AB++
			reactions++
		}
	}
	return s.compact(reactions)
}

// compact drops merged markers in place.
func (s *Simulation) compact(reactions int) int {
	if reactions == 0 {
		return 0
	}
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.Species != Merged {
			kept = append(kept, p)
		}
	}
	s.particles = kept
	return reactions
}

func (s *Simulation) withinTolerance(kc float64) bool {
	target := s.cfg.TargetKc
	if !positive(target) || math.IsNaN(kc) || math.IsInf(kc, 0) {
		return false
	}
	return math.Abs(kc-target) < s.cfg.Tolerance
}

// evaluate latches the equilibrium value on every entry into the tolerance
// band and clears it on exit.
func (s *Simulation) evaluate(c Counts, kc float64) (entered, left bool) {
	if c.A == 0 || c.B == 0 {
		s.log.Debugf("tick %d: Kc undefined with A=%d B=%d", s.tick, c.A, c.B)
	}

	within := s.withinTolerance(kc)
	switch {
	case within && !s.reached:
		s.reached = true
		s.value = kc
		s.emit(notify.EquilibriumReached, kc)
		return true, false
	case !within && s.reached:
		s.clearEquilibrium()
		s.emit(notify.EquilibriumLost, kc)
		return false, true
	}
	return false, false
}
