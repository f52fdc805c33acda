package particles_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/equilab/internal/notify"
	"github.com/san-kum/equilab/internal/particles"
)

var _ = Describe("Simulation", func() {
	var (
		sim    *particles.Simulation
		events []notify.Event
	)

	BeforeEach(func() {
		events = nil
		cfg := particles.DefaultConfig()
		cfg.Width, cfg.Height = 200, 200
		sim = particles.New(cfg,
			particles.WithRand(rand.New(rand.NewSource(7))),
			particles.WithNotifier(notify.Func(func(e notify.Event) { events = append(events, e) })),
		)
	})

	Describe("lifecycle", func() {
		It("starts idle with the configured population", func() {
			Expect(sim.Status()).To(Equal(particles.Idle))
			Expect(sim.Counts()).To(Equal(particles.Counts{A: 50, B: 50}))
		})

		It("moves between running, stopped and idle", func() {
			Expect(sim.Start()).To(BeTrue())
			Expect(sim.Status()).To(Equal(particles.Running))

			sim.Stop()
			Expect(sim.Status()).To(Equal(particles.Stopped))

			sim.Reset()
			Expect(sim.Status()).To(Equal(particles.Idle))
		})

		It("ignores stop while idle", func() {
			sim.Stop()
			Expect(sim.Status()).To(Equal(particles.Idle))
		})
	})

	Describe("reaching equilibrium", func() {
		It("settles within tolerance of the target and notifies once", func() {
			res, err := sim.Run(context.Background(), 20000, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Reached).To(BeTrue())
			Expect(math.Abs(res.Kc - 1.0)).To(BeNumerically("<", 0.1))
			Expect(res.Final.Atoms()).To(Equal(100))

			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(notify.EquilibriumReached))
			Expect(events[0].Target).To(Equal(1.0))
		})

		It("stops reacting once equilibrium is latched", func() {
			_, err := sim.Run(context.Background(), 20000, true)
			Expect(err).NotTo(HaveOccurred())
			before := sim.Counts()

			for i := 0; i < 100; i++ {
				f := sim.Step()
				Expect(f.Reactions).To(BeZero())
			}
			Expect(sim.Counts()).To(Equal(before))
		})

		It("restores the initial population on reset", func() {
			_, err := sim.Run(context.Background(), 20000, true)
			Expect(err).NotTo(HaveOccurred())

			sim.Reset()
			reached, value := sim.Equilibrium()
			Expect(reached).To(BeFalse())
			Expect(value).To(BeZero())
			Expect(sim.Counts()).To(Equal(particles.Counts{A: 50, B: 50}))
			Expect(sim.History()).To(BeEmpty())
		})
	})

	Describe("telemetry", func() {
		It("keeps at most the configured number of points", func() {
			for i := 0; i < 250; i++ {
				sim.Step()
			}
			h := sim.History()
			Expect(h).To(HaveLen(200))
			Expect(h[len(h)-1].Tick).To(Equal(249))
		})
	})
})
