package model

// Location is an agent transform: world position plus yaw in degrees.
// Value type, passed by value.
type Location struct {
	Position Vec3
	Yaw      float64
}

// NewLocation creates a Location, normalizing yaw to [0, 360).
func NewLocation(pos Vec3, yaw float64) Location {
	return Location{Position: pos, Yaw: normalizeYaw(yaw)}
}

// WithYaw returns a copy with the yaw replaced.
func (l Location) WithYaw(yaw float64) Location {
	l.Yaw = normalizeYaw(yaw)
	return l
}

// WithPosition returns a copy with the position replaced.
func (l Location) WithPosition(pos Vec3) Location {
	l.Position = pos
	return l
}

// Forward returns the unit facing direction.
func (l Location) Forward() Vec3 {
	return YawForward(l.Yaw)
}

func normalizeYaw(yaw float64) float64 {
	yaw = WrapAngle(yaw)
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}
