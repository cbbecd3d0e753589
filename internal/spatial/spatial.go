// Package spatial provides the rigid-body algebra used by the force
// elements: 3-vectors and 3x3 rotations from mathgl, rigid transforms,
// and 6-component spatial motion/force vectors.
package spatial

import (
	"github.com/go-gl/mathgl/mgl64"
)

// MotionVector is a spatial velocity: angular velocity plus linear
// velocity of a frame, both expressed in the same frame.
type MotionVector struct {
	Angular mgl64.Vec3
	Linear  mgl64.Vec3
}

// ForceVector is a spatial force: a moment plus a linear force applied
// at a frame origin, both expressed in the same frame.
type ForceVector struct {
	Moment mgl64.Vec3
	Force  mgl64.Vec3
}

func (m MotionVector) Add(other MotionVector) MotionVector {
	return MotionVector{m.Angular.Add(other.Angular), m.Linear.Add(other.Linear)}
}

func (m MotionVector) Sub(other MotionVector) MotionVector {
	return MotionVector{m.Angular.Sub(other.Angular), m.Linear.Sub(other.Linear)}
}

func (f ForceVector) Add(other ForceVector) ForceVector {
	return ForceVector{f.Moment.Add(other.Moment), f.Force.Add(other.Force)}
}

func (f ForceVector) Sub(other ForceVector) ForceVector {
	return ForceVector{f.Moment.Sub(other.Moment), f.Force.Sub(other.Force)}
}

func (f ForceVector) Neg() ForceVector {
	return ForceVector{f.Moment.Mul(-1), f.Force.Mul(-1)}
}

// ShiftBy moves the point of application by r (new point to old point),
// adding the lever-arm moment r x F.
func (f ForceVector) ShiftBy(r mgl64.Vec3) ForceVector {
	return ForceVector{f.Moment.Add(r.Cross(f.Force)), f.Force}
}

// Dot is the work pairing between a spatial force and a spatial velocity.
func (f ForceVector) Dot(m MotionVector) float64 {
	return f.Moment.Dot(m.Angular) + f.Force.Dot(m.Linear)
}

// AtStation constructs the spatial force equivalent to applying force at
// a station offset r from the frame origin.
func AtStation(r, force mgl64.Vec3) ForceVector {
	return ForceVector{r.Cross(force), force}
}

// Transform is a rigid transform: rotation R followed by translation P.
// X_AB.TransformPoint maps a point measured in frame B to frame A.
type Transform struct {
	R mgl64.Mat3
	P mgl64.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{R: mgl64.Ident3()}
}

// Compose returns x*other, the transform from other's child frame to
// x's parent frame.
func (x Transform) Compose(other Transform) Transform {
	return Transform{
		R: x.R.Mul3(other.R),
		P: x.P.Add(x.R.Mul3x1(other.P)),
	}
}

// Inverse returns the transform in the opposite direction.
func (x Transform) Inverse() Transform {
	rt := x.R.Transpose()
	return Transform{R: rt, P: rt.Mul3x1(x.P).Mul(-1)}
}

func (x Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return x.P.Add(x.R.Mul3x1(p))
}

func (x Transform) RotateVec(v mgl64.Vec3) mgl64.Vec3 {
	return x.R.Mul3x1(v)
}
