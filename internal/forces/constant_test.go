package forces

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestConstantForceAtRotatedStation(t *testing.T) {
	matter := newFakeMatter(2)
	matter.transforms[1].R = mgl64.Rotate3DZ(math.Pi / 2)
	sub := NewSubsystem(matter)
	s := stateForMatter(matter)

	cf := NewConstantForce(sub, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 5})

	bodyF, _, _ := sub.NewAccumulators(s)
	cf.CalcForce(s, bodyF, nil, nil)

	// The body-fixed station (1,0,0) rotates to (0,1,0) in ground, so
	// the moment is (0,1,0) x (0,0,5).
	vecNear(t, bodyF[1].Force, mgl64.Vec3{0, 0, 5}, "ground-frame force")
	vecNear(t, bodyF[1].Moment, mgl64.Vec3{5, 0, 0}, "station moment")
	floatNear(t, cf.CalcPotentialEnergy(s), 0, "no potential energy")
}

func TestConstantTorque(t *testing.T) {
	matter := newFakeMatter(2)
	sub := NewSubsystem(matter)
	s := stateForMatter(matter)

	ct := NewConstantTorque(sub, 1, mgl64.Vec3{0, 3, 0})

	bodyF, _, _ := sub.NewAccumulators(s)
	ct.CalcForce(s, bodyF, nil, nil)
	ct.CalcForce(s, bodyF, nil, nil)

	vecNear(t, bodyF[1].Moment, mgl64.Vec3{0, 6, 0}, "accumulated moment")
	vecNear(t, bodyF[1].Force, mgl64.Vec3{}, "no linear force")
}
