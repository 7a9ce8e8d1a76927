package sim

import (
	"log/slog"

	"github.com/udisondev/zombieai/internal/ai"
)

// AnimationSink receives state entries and clip events. Implemented by
// ai.ZombieAI.
type AnimationSink interface {
	OnStateEnter(length float64, name string)
	OnAnimationEvent(ev ai.AnimationEvent)
}

// Clip state names that the controller does not react to by name.
const (
	stateHit    = "Hit"
	stateAttack = "Attack"
)

// ClipLengths maps an animation state to its clip length in seconds.
type ClipLengths map[string]float64

// DefaultClipLengths returns the stock clip lengths.
func DefaultClipLengths() ClipLengths {
	return ClipLengths{
		ai.StateScream:     2.5,
		ai.StateAgony:      3,
		ai.StateEat:        4,
		ai.StateTurn:       1,
		ai.StateAttackIdle: 0.5,
		stateHit:           0.8,
		stateAttack:        1.2,
	}
}

// clip is a one-shot state currently playing.
type clip struct {
	name    string
	length  float64
	elapsed float64

	event      ai.AnimationEvent
	hasEvent   bool
	eventFired bool

	next string // state entered when the clip ends
}

// Animator plays one-shot clips in simulated time. Triggers and rising
// edges of the Scream bool start clips; each clip reports OnStateEnter on
// the next Step and fires its keyed event halfway through.
type Animator struct {
	agent string
	sink  AnimationSink
	clips ClipLengths

	bools    map[string]bool
	ints     map[string]int
	floats   map[string]float64
	queued   []string
	playing  *clip
	entered  []string
	disabled bool
}

// NewAnimator creates an animator for agent. Bind must be called before
// the first Step.
func NewAnimator(agent string, clips ClipLengths) *Animator {
	if clips == nil {
		clips = DefaultClipLengths()
	}
	return &Animator{
		agent:  agent,
		clips:  clips,
		bools:  make(map[string]bool),
		ints:   make(map[string]int),
		floats: make(map[string]float64),
	}
}

// Bind sets the receiver of state entries.
func (a *Animator) Bind(sink AnimationSink) {
	a.sink = sink
}

// SetBool implements ai.Animator.
func (a *Animator) SetBool(name string, value bool) {
	if a.disabled {
		return
	}
	prev := a.bools[name]
	a.bools[name] = value
	if name == ai.SignalScream && value && !prev {
		a.queue(ai.StateScream)
	}
}

// SetTrigger implements ai.Animator.
func (a *Animator) SetTrigger(name string) {
	if a.disabled {
		return
	}
	switch name {
	case ai.SignalAgonize:
		a.queue(ai.StateAgony)
	case ai.SignalEat:
		a.queue(ai.StateEat)
	case ai.SignalTurn:
		a.queue(ai.StateTurn)
	case ai.SignalHit:
		a.queue(stateHit)
	case ai.SignalAttack:
		a.queue(stateAttack)
	}
}

// SetInteger implements ai.Animator.
func (a *Animator) SetInteger(name string, value int) {
	if a.disabled {
		return
	}
	a.ints[name] = value
}

// SetFloat implements ai.Animator.
func (a *Animator) SetFloat(name string, value float64) {
	if a.disabled {
		return
	}
	a.floats[name] = value
}

// Disable stops all playback.
func (a *Animator) Disable() {
	a.disabled = true
	a.queued = nil
	a.playing = nil
}

// Bool returns the last value of a bool signal.
func (a *Animator) Bool(name string) bool { return a.bools[name] }

// Integer returns the last value of an integer signal.
func (a *Animator) Integer(name string) int { return a.ints[name] }

// Entered returns the states entered so far, in order.
func (a *Animator) Entered() []string {
	return append([]string(nil), a.entered...)
}

// Disabled reports whether Disable was called.
func (a *Animator) Disabled() bool { return a.disabled }

func (a *Animator) queue(state string) {
	a.queued = append(a.queued, state)
}

// Step delivers queued state entries and advances the playing clip.
func (a *Animator) Step(dt float64) {
	if a.disabled || a.sink == nil {
		return
	}

	queued := a.queued
	a.queued = nil
	for _, name := range queued {
		a.enter(name)
	}

	c := a.playing
	if c == nil {
		return
	}
	c.elapsed += dt
	if c.hasEvent && !c.eventFired && c.elapsed >= c.length/2 {
		c.eventFired = true
		a.sink.OnAnimationEvent(c.event)
	}
	if c.elapsed >= c.length {
		a.playing = nil
		if c.next != "" {
			a.queue(c.next)
		}
	}
}

func (a *Animator) enter(name string) {
	length := a.clips[name]
	c := &clip{name: name, length: length}

	switch name {
	case ai.StateScream:
		c.event, c.hasEvent = ai.AnimationEventScream, true
	case ai.StateAgony:
		c.event, c.hasEvent = ai.AnimationEventAgony, true
	case ai.StateEat:
		c.event, c.hasEvent = ai.AnimationEventEat, true
	case stateAttack:
		c.event, c.hasEvent = ai.AnimationEventAttack, true
		c.next = ai.StateAttackIdle
	}

	a.playing = c
	a.entered = append(a.entered, name)

	if ai.IsDebugEnabled() {
		slog.Debug("animation state entered", "agent", a.agent, "state", name, "length", length)
	}
	a.sink.OnStateEnter(length, name)
}
