package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space point or direction (Y is up).
type Vec3 = mgl64.Vec3

var (
	// Up is the world vertical axis; yaw rotates around it.
	Up = Vec3{0, 1, 0}
	// Forward is the facing direction at yaw 0.
	Forward = Vec3{0, 0, 1}
)

// Distance returns the straight-line distance between a and b.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// Flat projects v onto the ground plane.
func Flat(v Vec3) Vec3 {
	return Vec3{v.X(), 0, v.Z()}
}

// YawOf returns the yaw in degrees [0, 360) of a direction, measured
// clockwise from +Z when viewed from above.
func YawOf(dir Vec3) float64 {
	yaw := mgl64.RadToDeg(math.Atan2(dir.X(), dir.Z()))
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}

// YawForward returns the unit forward vector for a yaw in degrees.
func YawForward(yaw float64) Vec3 {
	return yawQuat(yaw).Rotate(Forward)
}

// WrapAngle normalizes an angle in degrees to (-180, 180].
func WrapAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// GroundAngle returns the unsigned angle in degrees between two directions
// after projecting both onto the ground plane.
func GroundAngle(a, b Vec3) float64 {
	fa, fb := Flat(a), Flat(b)
	la, lb := fa.Len(), fb.Len()
	if la < 1e-9 || lb < 1e-9 {
		return 0
	}
	cos := mgl64.Clamp(fa.Dot(fb)/(la*lb), -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// SignedYawAngle returns the signed horizontal angle, rounded to whole
// degrees, from a facing yaw to the direction from origin to target.
// Positive values are to the right.
func SignedYawAngle(yaw float64, origin, target Vec3) int {
	dir := Flat(target.Sub(origin))
	if dir.Len() < 1e-9 {
		return 0
	}
	return int(math.Round(WrapAngle(YawOf(dir) - yaw)))
}

// SlerpYaw spherically interpolates between two yaws. t is clamped to [0, 1]
// and the shortest arc is taken.
func SlerpYaw(from, to, t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	q1 := yawQuat(from)
	q2 := yawQuat(to)
	if q1.Dot(q2) < 0 {
		q2 = q2.Scale(-1)
	}
	return YawOf(mgl64.QuatSlerp(q1, q2, t).Rotate(Forward))
}

func yawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), Up)
}
