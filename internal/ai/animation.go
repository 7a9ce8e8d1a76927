package ai

import "github.com/udisondev/zombieai/internal/model"

// Animator signal names.
const (
	SignalWalking       = "Walking"
	SignalRunning       = "Running"
	SignalPatrol        = "Patrol"
	SignalIdle          = "Idle"
	SignalScream        = "Scream"
	SignalAgonize       = "Agonize"
	SignalEat           = "Eat"
	SignalHit           = "Hit"
	SignalTurn          = "Turn"
	SignalAttack        = "Attack"
	SignalAttackState   = "AttackState"
	SignalIdleState     = "IdleState"
	SignalMovementSpeed = "MovementSpeed"
	SignalTurnAngle     = "TurnAngle"
)

// Animation state names reported through OnStateEnter.
const (
	StateAttackIdle = "AttackIdle"
	StateScream     = "Scream"
	StateAgony      = "Agony"
	StateEat        = "Eat"
	StateTurn       = "Turn"
)

// AnimationEvent is a keyed event fired from inside an animation clip.
type AnimationEvent int

const (
	// AnimationEventAttack - the attack swing connects
	AnimationEventAttack AnimationEvent = iota
	// AnimationEventScream - scream clip reaches its sound cue
	AnimationEventScream
	// AnimationEventAgony - agony clip reaches its sound cue
	AnimationEventAgony
	// AnimationEventEat - eat clip reaches its sound cue
	AnimationEventEat
)

// pose is the set of locomotion bools sent to the animator together.
type pose struct {
	walk, run, patrol, idle bool
	clearScream             bool
}

func (z *ZombieAI) setPose(p pose) {
	z.anim.SetBool(SignalWalking, p.walk)
	z.anim.SetBool(SignalRunning, p.run)
	z.anim.SetBool(SignalPatrol, p.patrol)
	z.anim.SetBool(SignalIdle, p.idle)
	if p.clearScream {
		z.anim.SetBool(SignalScream, false)
	}
}

// chasePose is walking or running, whichever the profile chases with.
func (z *ZombieAI) chasePose() pose {
	return pose{walk: !z.cfg.RunToTarget, run: z.cfg.RunToTarget}
}

// attack starts a random attack animation, never the same one twice in a row.
func (z *ZombieAI) attack() {
	if !z.cfg.EventPlayAttackSound {
		z.playSoundRandom(z.cfg.Sounds.Attack, z.cfg.Volumes.Attack)
	}
	z.lastAttack = z.randomUnique(0, z.cfg.AttackAnimations, z.lastAttack)
	z.anim.SetInteger(SignalAttackState, z.lastAttack)
	z.anim.SetTrigger(SignalAttack)
	z.canAttack = false
}

// OnStateEnter is called by the animator when a state starts playing.
func (z *ZombieAI) OnStateEnter(length float64, name string) {
	if z.dead {
		return
	}

	switch name {
	case StateAttackIdle:
		z.canAttack = true

	case StateScream:
		z.sched.after(timerWait, "wait-continue", length, z.waitToContinue)
		p := z.chasePose()
		p.clearScream = true
		z.setPose(p)

	case StateAgony:
		z.sched.after(timerWait, "wait-agony", length, func() {
			z.waitForAnimation(model.SecondaryAgony, true)
		})
		z.setPose(pose{walk: true})

	case StateEat:
		z.sched.after(timerWait, "wait-eat", length, func() {
			z.waitForAnimation(model.SecondaryEating, true)
		})
		z.setPose(pose{walk: true})

	case StateTurn:
		z.sched.after(timerWait, "wait-turn", length, func() {
			z.waitForAnimation(model.SecondaryReaction, false)
		})
		z.setPose(pose{patrol: true})
		z.startRootTurn(length)

	default:
		if !z.cfg.EnableScream || z.state.Secondary == model.SecondaryReaction && z.reactionPending {
			z.sched.after(timerWait, "wait-continue", length, z.waitToContinue)
			p := z.chasePose()
			p.clearScream = true
			z.setPose(p)
		}
	}
}

// OnAnimationEvent handles sound and damage cues fired by clips.
func (z *ZombieAI) OnAnimationEvent(ev AnimationEvent) {
	if z.dead {
		return
	}

	switch ev {
	case AnimationEventAttack:
		if z.cfg.EventPlayAttackSound {
			z.playSoundRandom(z.cfg.Sounds.Attack, z.cfg.Volumes.Attack)
		}
		if z.cfg.DamageTarget && z.InFieldOfView(z.target.Position(), z.cfg.AttackFOV) && z.inDistance(z.cfg.AttackDistance) {
			kick := model.Vec3{z.cfg.DamageKickback[0], z.cfg.DamageKickback[1], 0}
			z.target.ApplyKickback(kick, z.cfg.KickbackTime)
			z.target.ApplyDamage(z.randRange(z.cfg.DamageValue))
		}

	case AnimationEventScream:
		if z.cfg.EventPlayScreamSound {
			z.playSound(z.cfg.Sounds.Scream, z.cfg.Volumes.Scream)
		}

	case AnimationEventAgony:
		if z.cfg.EventPlayAgonySound {
			z.playSound(z.cfg.Sounds.Agonize, z.cfg.Volumes.Agonize)
		}

	case AnimationEventEat:
		if z.cfg.EventPlayEatSound {
			z.playSound(z.cfg.Sounds.Eating, z.cfg.Volumes.Eating)
		}
	}
}
