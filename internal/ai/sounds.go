package ai

// playSound plays one clip. Empty clip names are skipped.
func (z *ZombieAI) playSound(clip string, volume float64) {
	if z.audio == nil || clip == "" {
		return
	}
	z.audio.Play(clip, volume)
}

// playSoundRandom plays a random clip from a slot, never the previous one.
func (z *ZombieAI) playSoundRandom(clips []string, volume float64) {
	if z.audio == nil || len(clips) == 0 {
		return
	}
	z.lastSound = z.randomUnique(0, len(clips), z.lastSound)
	z.playSound(clips[z.lastSound], volume)
}
