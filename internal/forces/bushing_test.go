package forces

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

func bushingSetup(t *testing.T, stiffness, damping [6]float64) (*fakeMatter, *LinearBushing, *Subsystem, *state.State) {
	t.Helper()
	matter := newFakeMatter(3)
	sub := NewSubsystem(matter)
	b, err := NewBodyFrameBushing(sub, 1, 2, stiffness, damping)
	if err != nil {
		t.Fatal(err)
	}
	s := stateForMatter(matter)
	sub.RealizeTopology(s)
	return matter, b, sub, s
}

func TestBushingZeroDisplacementZeroForce(t *testing.T) {
	k := [6]float64{1, 2, 3, 4, 5, 6}
	_, b, sub, s := bushingSetup(t, k, [6]float64{})

	for _, q := range b.Q(s) {
		floatNear(t, q, 0, "coordinate")
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	b.CalcForce(s, bodyF, particleF, mobilityF)

	vecNear(t, bodyF[1].Force, mgl64.Vec3{}, "no force at zero displacement")
	vecNear(t, bodyF[2].Force, mgl64.Vec3{}, "no force at zero displacement")
	vecNear(t, bodyF[1].Moment, mgl64.Vec3{}, "no moment at zero displacement")
	floatNear(t, b.CalcPotentialEnergy(s), 0, "no stored energy")
}

func TestBushingTranslationalAxesDecouple(t *testing.T) {
	k := [6]float64{0, 0, 0, 10, 20, 30}
	matter, b, sub, s := bushingSetup(t, k, [6]float64{})
	matter.transforms[2].P = mgl64.Vec3{0.1, -0.2, 0.3}

	q := b.Q(s)
	want := [6]float64{0, 0, 0, 0.1, -0.2, 0.3}
	for i := range want {
		floatNear(t, q[i], want[i], "coordinate")
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	b.CalcForce(s, bodyF, particleF, mobilityF)

	// Each translational axis acts alone: f_i = -k_i * q_i on body B.
	vecNear(t, bodyF[2].Force, mgl64.Vec3{-1, 4, -9}, "per-axis restoring force")
	vecNear(t, bodyF[1].Force, mgl64.Vec3{1, -4, 9}, "equal and opposite on body A")

	pe := 0.5 * (10*0.01 + 20*0.04 + 30*0.09)
	floatNear(t, b.CalcPotentialEnergy(s), pe, "sum of per-axis energies")
}

func TestBushingPureRotationAboutZ(t *testing.T) {
	theta := 0.3
	k := [6]float64{0, 0, 7, 0, 0, 0}
	matter, b, sub, s := bushingSetup(t, k, [6]float64{})
	matter.transforms[2].R = mgl64.Rotate3DZ(theta)

	q := b.Q(s)
	floatNear(t, q[2], theta, "z Euler angle")
	floatNear(t, q[0], 0, "x Euler angle")
	floatNear(t, q[1], 0, "y Euler angle")

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	b.CalcForce(s, bodyF, particleF, mobilityF)

	vecNear(t, bodyF[2].Moment, mgl64.Vec3{0, 0, -7 * theta}, "restoring moment on B")
	vecNear(t, bodyF[1].Moment, mgl64.Vec3{0, 0, 7 * theta}, "reaction moment on A")
	vecNear(t, bodyF[2].Force, mgl64.Vec3{}, "pure moment")

	floatNear(t, b.CalcPotentialEnergy(s), 0.5*7*theta*theta, "rotational energy")
}

func TestBushingDampingResistsSeparationRate(t *testing.T) {
	c := [6]float64{0, 0, 0, 5, 0, 0}
	matter, b, sub, s := bushingSetup(t, [6]float64{}, c)
	matter.velocities[2].Linear = mgl64.Vec3{2, 0, 0}

	qdot := b.QDot(s)
	floatNear(t, qdot[3], 2, "translational rate")

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	b.CalcForce(s, bodyF, particleF, mobilityF)

	vecNear(t, bodyF[2].Force, mgl64.Vec3{-10, 0, 0}, "-c*qdot on B")
	vecNear(t, bodyF[1].Force, mgl64.Vec3{10, 0, 0}, "reaction on A")
	floatNear(t, b.CalcPotentialEnergy(s), 0, "damping stores no energy")
}

func TestBushingIsotropicTranslationBalances(t *testing.T) {
	k := [6]float64{0, 0, 0, 12, 12, 12}
	matter, b, sub, s := bushingSetup(t, k, [6]float64{})
	matter.transforms[1].P = mgl64.Vec3{1, 0.5, 0}
	matter.transforms[2].P = mgl64.Vec3{-0.3, 2, 1}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	b.CalcForce(s, bodyF, particleF, mobilityF)

	// Equal stiffness on all three axes makes the force central, so the
	// pair balances in both force and moment about the ground origin.
	total := bodyF[1].Force.Add(bodyF[2].Force)
	vecNear(t, total, mgl64.Vec3{}, "net force")

	moment := bodyF[1].Moment.Add(matter.transforms[1].P.Cross(bodyF[1].Force)).
		Add(bodyF[2].Moment).Add(matter.transforms[2].P.Cross(bodyF[2].Force))
	vecNear(t, moment, mgl64.Vec3{}, "net moment about ground origin")
}

func TestBushingPositionCacheComputedOnce(t *testing.T) {
	matter := newFakeMatter(3)
	counting := &countingMatter{Matter: matter}
	sub := NewSubsystem(counting)
	b, err := NewBodyFrameBushing(sub, 1, 2, [6]float64{}, [6]float64{})
	if err != nil {
		t.Fatal(err)
	}
	s := stateForMatter(matter)
	sub.RealizeTopology(s)

	b.Q(s)
	b.Q(s)
	b.XFM(s)
	b.CalcPotentialEnergy(s)

	if counting.transformCalls != 2 {
		t.Errorf("transform queries: got %d, want 2 (one per body)", counting.transformCalls)
	}
	if counting.velocityCalls != 0 {
		t.Errorf("position-only reads touched velocities %d times", counting.velocityCalls)
	}

	// A coordinate change invalidates the snapshot; the next read
	// recomputes exactly once more.
	s.Invalidate(state.Position)
	b.Q(s)
	b.Q(s)
	if counting.transformCalls != 4 {
		t.Errorf("transform queries after invalidation: got %d, want 4", counting.transformCalls)
	}
}

func TestBushingVelocityCacheComputedOnce(t *testing.T) {
	matter := newFakeMatter(3)
	counting := &countingMatter{Matter: matter}
	sub := NewSubsystem(counting)
	b, err := NewBodyFrameBushing(sub, 1, 2, [6]float64{}, [6]float64{})
	if err != nil {
		t.Fatal(err)
	}
	s := stateForMatter(matter)
	sub.RealizeTopology(s)

	b.QDot(s)
	b.VFM(s)
	b.F(s)

	if counting.velocityCalls != 2 {
		t.Errorf("velocity queries: got %d, want 2 (one per body)", counting.velocityCalls)
	}
}

func TestBushingOffsetFramesObserveRelativePose(t *testing.T) {
	matter := newFakeMatter(3)
	sub := NewSubsystem(matter)

	frameOnA := spatial.Transform{R: mgl64.Ident3(), P: mgl64.Vec3{1, 0, 0}}
	frameOnB := spatial.Transform{R: mgl64.Ident3(), P: mgl64.Vec3{0, 1, 0}}
	b, err := NewLinearBushing(sub, 1, frameOnA, 2, frameOnB, [6]float64{}, [6]float64{})
	if err != nil {
		t.Fatal(err)
	}
	s := stateForMatter(matter)
	sub.RealizeTopology(s)

	// Both bodies at the ground origin: M sits at (0,1,0), F at (1,0,0).
	xFM := b.XFM(s)
	vecNear(t, xFM.P, mgl64.Vec3{-1, 1, 0}, "relative frame offset")
}

func TestBushingRejectsNegativeCoefficients(t *testing.T) {
	matter := newFakeMatter(3)
	sub := NewSubsystem(matter)

	k := [6]float64{}
	k[2] = -1
	if _, err := NewBodyFrameBushing(sub, 1, 2, k, [6]float64{}); !errors.Is(err, ErrNegativeStiffness) {
		t.Errorf("got %v, want ErrNegativeStiffness", err)
	}

	c := [6]float64{}
	c[4] = -math.SmallestNonzeroFloat64
	if _, err := NewBodyFrameBushing(sub, 1, 2, [6]float64{}, c); !errors.Is(err, ErrNegativeDamping) {
		t.Errorf("got %v, want ErrNegativeDamping", err)
	}
}
