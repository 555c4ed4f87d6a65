package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WrapDegrees normalizes an angle in degrees into [-180, 180).
func WrapDegrees(angle float32) float32 {
	angle = math32.Mod(angle, 360.0)
	if angle >= 180.0 {
		angle -= 360.0
	}
	if angle < -180.0 {
		angle += 360.0
	}
	return angle
}

// Float32ApproxEq determines whether two floating point numbers are close
// enough to each other by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec32ApproxEq determines whether two vectors are component-wise close
// enough to each other by a threshold of 1e-5.
func Vec32ApproxEq(a, b mgl32.Vec3) bool {
	return Float32ApproxEq(a[0], b[0]) && Float32ApproxEq(a[1], b[1]) && Float32ApproxEq(a[2], b[2])
}

// HorizontalSpeed returns the magnitude of the velocity projected onto the
// ground plane.
func HorizontalSpeed(vel mgl32.Vec3) float32 {
	return math32.Hypot(vel[0], vel[2])
}

// YawVector returns the unit direction vector on the ground plane for the
// given yaw in degrees.
func YawVector(yaw float32) mgl32.Vec3 {
	rad := mgl32.DegToRad(yaw)
	return mgl32.Vec3{math32.Cos(rad), 0, math32.Sin(rad)}
}
