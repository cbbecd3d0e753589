package forces

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/apexsim/mbforce/internal/spatial"
	"github.com/apexsim/mbforce/internal/state"
)

const tol = 1e-12

func vecNear(t *testing.T, got, want mgl64.Vec3, label string) {
	t.Helper()
	if got.Sub(want).Len() > tol {
		t.Errorf("%s: got %v, want %v", label, got, want)
	}
}

func floatNear(t *testing.T, got, want float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %g, want %g", label, got, want)
	}
}

func twoBodySetup() (*fakeMatter, *Subsystem, *state.State) {
	matter := newFakeMatter(3)
	matter.transforms[2].P = mgl64.Vec3{3, 0, 0}
	return matter, NewSubsystem(matter), state.New()
}

func TestTwoPointLinearSpringForce(t *testing.T) {
	_, sub, s := twoBodySetup()

	// Distance 3, rest length 2, k = 10: tension 10 along +X.
	spring, err := NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 10, 2)
	if err != nil {
		t.Fatal(err)
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	spring.CalcForce(s, bodyF, particleF, mobilityF)

	vecNear(t, bodyF[1].Force, mgl64.Vec3{10, 0, 0}, "force on body1")
	vecNear(t, bodyF[2].Force, mgl64.Vec3{-10, 0, 0}, "force on body2")
	vecNear(t, bodyF[0].Force, mgl64.Vec3{}, "ground untouched")

	floatNear(t, spring.CalcPotentialEnergy(s), 5.0, "potential energy")
}

func TestTwoPointLinearSpringStationMoment(t *testing.T) {
	_, sub, s := twoBodySetup()

	spring, err := NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{0, 1, 0}, 2, mgl64.Vec3{}, 10, 2)
	if err != nil {
		t.Fatal(err)
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	spring.CalcForce(s, bodyF, particleF, mobilityF)

	// The station offset turns the line force into a moment about the
	// body origin: r x F with r = (0,1,0).
	f := bodyF[1].Force
	vecNear(t, bodyF[1].Moment, mgl64.Vec3{0, 1, 0}.Cross(f), "station moment")
}

func TestTwoPointLinearSpringRejectsNegativeStiffness(t *testing.T) {
	_, sub, _ := twoBodySetup()
	if _, err := NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, -1, 0); !errors.Is(err, ErrNegativeStiffness) {
		t.Errorf("got %v, want ErrNegativeStiffness", err)
	}
}

func TestTwoPointLinearDamperZeroAtZeroRelativeVelocity(t *testing.T) {
	_, sub, s := twoBodySetup()

	damper, err := NewTwoPointLinearDamper(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 5)
	if err != nil {
		t.Fatal(err)
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	damper.CalcForce(s, bodyF, particleF, mobilityF)

	vecNear(t, bodyF[1].Force, mgl64.Vec3{}, "no force at rest")
	vecNear(t, bodyF[2].Force, mgl64.Vec3{}, "no force at rest")
	floatNear(t, damper.CalcPotentialEnergy(s), 0, "dampers store no energy")
}

func TestTwoPointLinearDamperResistsSeparation(t *testing.T) {
	matter, sub, s := twoBodySetup()
	matter.velocities[2].Linear = mgl64.Vec3{1, 0, 0} // separating at 1

	damper, err := NewTwoPointLinearDamper(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 5)
	if err != nil {
		t.Fatal(err)
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	damper.CalcForce(s, bodyF, particleF, mobilityF)

	vecNear(t, bodyF[1].Force, mgl64.Vec3{5, 0, 0}, "body1 pulled after body2")
	vecNear(t, bodyF[2].Force, mgl64.Vec3{-5, 0, 0}, "body2 held back")
}

func TestTwoPointLinearDamperRejectsNegativeDamping(t *testing.T) {
	_, sub, _ := twoBodySetup()
	if _, err := NewTwoPointLinearDamper(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, -0.1); !errors.Is(err, ErrNegativeDamping) {
		t.Errorf("got %v, want ErrNegativeDamping", err)
	}
}

func TestTwoPointConstantForceIsAttractive(t *testing.T) {
	_, sub, s := twoBodySetup()

	cf := NewTwoPointConstantForce(sub, 1, mgl64.Vec3{}, 2, mgl64.Vec3{}, 7)

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	cf.CalcForce(s, bodyF, particleF, mobilityF)

	// Positive magnitude pulls the bodies together regardless of
	// distance.
	vecNear(t, bodyF[1].Force, mgl64.Vec3{7, 0, 0}, "body1 pulled toward body2")
	vecNear(t, bodyF[2].Force, mgl64.Vec3{-7, 0, 0}, "body2 pulled toward body1")
	floatNear(t, cf.CalcPotentialEnergy(s), 0, "no potential energy")
}

func TestTwoPointForcesBalance(t *testing.T) {
	matter, sub, s := twoBodySetup()
	matter.transforms[1].R = mgl64.Rotate3DZ(0.4)
	matter.transforms[1].P = mgl64.Vec3{-1, 2, 0.5}
	matter.velocities[1].Linear = mgl64.Vec3{0.3, -0.1, 0}
	matter.velocities[2].Linear = mgl64.Vec3{-0.2, 0.5, 0.1}

	if _, err := NewTwoPointLinearSpring(sub, 1, mgl64.Vec3{0.2, 0, 0}, 2, mgl64.Vec3{0, 0.1, 0}, 10, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTwoPointLinearDamper(sub, 1, mgl64.Vec3{0.2, 0, 0}, 2, mgl64.Vec3{0, 0.1, 0}, 3); err != nil {
		t.Fatal(err)
	}

	bodyF, particleF, mobilityF := sub.NewAccumulators(s)
	sub.CalcForces(s, bodyF, particleF, mobilityF)

	total := spatial.ForceVector{}
	for body := range bodyF {
		p := matter.transforms[body].P
		total = total.Add(spatial.ForceVector{
			Moment: bodyF[body].Moment.Add(p.Cross(bodyF[body].Force)),
			Force:  bodyF[body].Force,
		})
	}
	vecNear(t, total.Force, mgl64.Vec3{}, "net force")
	vecNear(t, total.Moment, mgl64.Vec3{}, "net moment about ground origin")
}
