package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// mat3Rows builds a Mat3 from row vectors; mathgl stores column-major.
func mat3Rows(r0, r1, r2 mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		r0[0], r1[0], r2[0],
		r0[1], r1[1], r2[1],
		r0[2], r1[2], r2[2],
	}
}

// BodyFixedXYZ builds a rotation from intrinsic (body-fixed) Euler angles
// applied in X, then Y, then Z order about the rotated axes.
func BodyFixedXYZ(q mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Rotate3DX(q[0]).Mul3(mgl64.Rotate3DY(q[1])).Mul3(mgl64.Rotate3DZ(q[2]))
}

// ToBodyFixedXYZ recovers the body-fixed X-Y-Z Euler angles from a
// rotation matrix. The middle angle is folded into [-pi/2, pi/2]; near
// the gimbal singularity the split between the outer angles is not
// unique and the caller gets one consistent choice.
func ToBodyFixedXYZ(r mgl64.Mat3) mgl64.Vec3 {
	sy := r.At(0, 2)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	return mgl64.Vec3{
		math.Atan2(-r.At(1, 2), r.At(2, 2)),
		math.Asin(sy),
		math.Atan2(-r.At(0, 1), r.At(0, 0)),
	}
}

// NBodyXYZ is the kinematic coupling matrix N(q) for the body-fixed XYZ
// sequence: qdot = N * w, where w is the angular velocity expressed in
// the outboard (fully rotated) frame. Singular at cos(q1) = 0.
func NBodyXYZ(q mgl64.Vec3) mgl64.Mat3 {
	s1, c1 := math.Sincos(q[1])
	s2, c2 := math.Sincos(q[2])
	ooc1 := 1 / c1
	return mat3Rows(
		mgl64.Vec3{c2 * ooc1, -s2 * ooc1, 0},
		mgl64.Vec3{s2, c2, 0},
		mgl64.Vec3{-s1 * c2 * ooc1, s1 * s2 * ooc1, 1},
	)
}
