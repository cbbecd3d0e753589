package forces_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apexsim/mbforce/internal/forces"
	"github.com/apexsim/mbforce/internal/mech"
	"github.com/apexsim/mbforce/internal/state"
)

// chainWithElements builds a two-mass chain and adopts the elements in
// the order given by adopt.
func chainWithElements(adopt func(sub *forces.Subsystem)) (*forces.Subsystem, *state.State) {
	chain, err := mech.NewChain([]float64{1, 2})
	Expect(err).NotTo(HaveOccurred())

	sub := forces.NewSubsystem(chain)
	adopt(sub)

	s := chain.NewState()
	sub.RealizeTopology(s)
	sub.RealizeModel(s)
	s.SetQ([]float64{0.5, 2})
	s.SetU([]float64{1, -1})
	return sub, s
}

var _ = Describe("Subsystem accumulation", func() {
	adoptForward := func(sub *forces.Subsystem) {
		_, err := forces.NewMobilityLinearSpring(sub, 0, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		_, err = forces.NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 4, 1)
		Expect(err).NotTo(HaveOccurred())
		_, err = forces.NewGlobalDamper(sub, 0.5)
		Expect(err).NotTo(HaveOccurred())
	}
	adoptReversed := func(sub *forces.Subsystem) {
		_, err := forces.NewGlobalDamper(sub, 0.5)
		Expect(err).NotTo(HaveOccurred())
		_, err = forces.NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 4, 1)
		Expect(err).NotTo(HaveOccurred())
		_, err = forces.NewMobilityLinearSpring(sub, 0, 10, 0)
		Expect(err).NotTo(HaveOccurred())
	}

	It("produces totals independent of adoption order", func() {
		subA, sA := chainWithElements(adoptForward)
		subB, sB := chainWithElements(adoptReversed)

		bodyA, _, mobilityA := subA.NewAccumulators(sA)
		subA.CalcForces(sA, bodyA, nil, mobilityA)

		bodyB, _, mobilityB := subB.NewAccumulators(sB)
		subB.CalcForces(sB, bodyB, nil, mobilityB)

		Expect(mobilityA).To(HaveLen(2))
		for i := range mobilityA {
			Expect(mobilityA[i]).To(BeNumerically("~", mobilityB[i], 1e-12))
		}
		for body := range bodyA {
			Expect(bodyA[body].Force.Sub(bodyB[body].Force).Len()).To(BeNumerically("<", 1e-12))
		}
	})

	It("sums potential energy over all elements", func() {
		sub, s := chainWithElements(adoptForward)

		// Mobility spring: 10/2 * 0.5^2. Two-point spring: distance
		// 1.5, rest 1, 4/2 * 0.5^2.
		Expect(sub.PotentialEnergy(s)).To(BeNumerically("~", 1.25+0.5, 1e-12))
	})

	It("applies equal and opposite two-point forces", func() {
		sub, s := chainWithElements(func(sub *forces.Subsystem) {
			_, err := forces.NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 4, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		bodyF, _, mobilityF := sub.NewAccumulators(s)
		sub.CalcForces(s, bodyF, nil, mobilityF)

		Expect(bodyF[1].Force.Add(bodyF[2].Force).Len()).To(BeNumerically("<", 1e-12))
		Expect(bodyF[1].Force.Len()).To(BeNumerically(">", 0))
	})

	It("zeroes the derivative block before every dynamics sweep", func() {
		chain, err := mech.NewChain([]float64{1})
		Expect(err).NotTo(HaveOccurred())
		sub := forces.NewSubsystem(chain)
		thermo, err := forces.NewThermostat(sub, 1, 1, 1)
		Expect(err).NotTo(HaveOccurred())

		s := chain.NewState()
		sub.RealizeTopology(s)
		sub.RealizeModel(s)
		s.SetU([]float64{1})

		sub.RealizeVelocity(s)
		sub.RealizeDynamics(s)
		first := append([]float64(nil), s.ZDot()...)

		// A second sweep over the same state must not accumulate.
		sub.RealizeDynamics(s)
		Expect(s.ZDot()).To(Equal(first))
		Expect(thermo.NumChains(s)).To(Equal(forces.DefaultNumChains))
	})
})
