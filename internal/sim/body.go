package sim

import (
	"log/slog"
)

// AudioLog is an audio source that logs every clip it plays.
type AudioLog struct {
	agent  string
	played []string
}

// NewAudioLog creates an audio source for agent.
func NewAudioLog(agent string) *AudioLog {
	return &AudioLog{agent: agent}
}

// Play implements ai.AudioSource.
func (a *AudioLog) Play(clip string, volume float64) {
	a.played = append(a.played, clip)
	slog.Debug("sound played", "agent", a.agent, "clip", clip, "volume", volume)
}

// Played returns the clips played so far, in order.
func (a *AudioLog) Played() []string {
	return append([]string(nil), a.played...)
}

// Health is an agent's hit points, capped at max.
type Health struct {
	current float64
	max     float64
}

// NewHealth creates full health.
func NewHealth(max float64) *Health {
	return &Health{current: max, max: max}
}

// AddHealth implements ai.Health. Negative amounts deal damage.
func (h *Health) AddHealth(amount float64) {
	h.current = min(h.current+amount, h.max)
}

// Current returns the remaining hit points.
func (h *Health) Current() float64 { return h.current }

// Depleted reports whether no hit points are left.
func (h *Health) Depleted() bool { return h.current <= 0 }

// Collider is an agent body that can be switched off.
type Collider struct {
	disabled bool
}

// Disable implements ai.Collider.
func (c *Collider) Disable() { c.disabled = true }

// Disabled reports whether Disable was called.
func (c *Collider) Disabled() bool { return c.disabled }
