// Package particles simulates A + B <=> AB as a population of moving particles.
//
// A [Simulation] owns the population and advances it one tick at a time:
//
//   - motion: positions advance by velocity scaled by the speed setting,
//     velocities flip on wall contact
//   - collisions: A/B pairs closer than the collision radius may merge into
//     one AB particle at their midpoint
//   - equilibrium: Kc = AB^2 / (A*B) is compared with the target each tick
//   - telemetry: species counts are pushed into a bounded series
//
// # Example
//
//	s := particles.New(particles.DefaultConfig(), particles.WithNotifier(n))
//	res, err := s.Run(ctx, 10000, true)
//
// # Thread Safety
//
// Simulation is NOT safe for concurrent use. [Runner] drives a simulation
// from its own goroutine and serializes input changes through [Runner.Do].
package particles
