package ai

import "github.com/udisondev/zombieai/internal/model"

// headPosition is the eye point line-of-sight checks start from.
func (z *ZombieAI) headPosition() model.Vec3 {
	return z.Position().Add(z.cfg.HeadOffset)
}

// IsVisible reports whether p is within maxDistance and no geometry on the
// search mask blocks the line from the agent's head to p.
func (z *ZombieAI) IsVisible(p model.Vec3, maxDistance float64) bool {
	if model.Distance(z.Position(), p) > maxDistance {
		return false
	}
	return !z.obstruction.Linecast(z.headPosition(), p, z.cfg.SearchMask)
}

// InFieldOfView reports whether p lies within a cone of fov degrees around
// the agent's facing, measured on the ground plane.
func (z *ZombieAI) InFieldOfView(p model.Vec3, fov float64) bool {
	dir := p.Sub(z.Position())
	return model.GroundAngle(z.loc.Forward(), dir) <= fov*0.5
}

func (z *ZombieAI) inDistance(d float64) bool {
	return model.Distance(z.Position(), z.target.Position()) <= d
}

// searchForTarget runs detection for one tick.
//
// With sights enabled the target must be visible and inside the sights
// cone. Once engaged (sights disabled) visibility alone keeps detection,
// and after losing sight detection survives for ChaseTimeHide seconds.
func (z *ZombieAI) searchForTarget(dt float64) bool {
	if z.target.IsDead() || z.cfg.TargetInvisible {
		return false
	}

	head := z.target.HeadPosition()
	detected := false

	switch {
	case z.enableSights:
		if z.IsVisible(head, z.cfg.SightsDistance) && z.InFieldOfView(z.target.Position(), z.cfg.SightsFOV) {
			z.chaseTime = 0
			detected = true
		}
	case z.IsVisible(head, z.cfg.SightsDistance):
		z.chaseTime = 0
		detected = true
	case z.chaseTime < z.cfg.ChaseTimeHide:
		z.chaseTime += dt
		detected = true
	}

	if detected {
		z.lastChasePosition = z.target.Position()
	}
	return detected
}
