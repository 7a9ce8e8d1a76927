package ai

// timerKind groups timers for bulk cancellation.
type timerKind uint8

const (
	// timerWait gates a behaviour flag; cancelled by any reaction interrupt
	timerWait timerKind = iota
	// timerCooldown re-enables an ability; survives interrupts
	timerCooldown
	// timerLifecycle drives start-up steps
	timerLifecycle
)

func (k timerKind) String() string {
	switch k {
	case timerWait:
		return "wait"
	case timerCooldown:
		return "cooldown"
	case timerLifecycle:
		return "lifecycle"
	default:
		return "unknown"
	}
}

type timer struct {
	kind      timerKind
	name      string
	left      float64
	fn        func()
	cancelled bool
}

// scheduler holds one agent's suspended timers. Time advances only through
// advance, so behaviour is deterministic for a given tick sequence.
// Owned by the agent's tick; not safe for concurrent use.
type scheduler struct {
	timers []*timer
	firing []*timer // expired timers of the running advance
}

// after schedules fn to run once delay seconds have elapsed.
func (s *scheduler) after(kind timerKind, name string, delay float64, fn func()) {
	s.timers = append(s.timers, &timer{kind: kind, name: name, left: delay, fn: fn})
}

// advance moves time forward and runs every expired timer in scheduling
// order. Timers scheduled by callbacks start counting on the next advance.
func (s *scheduler) advance(dt float64) {
	if len(s.timers) == 0 {
		return
	}

	var due []*timer
	kept := s.timers[:0]
	for _, t := range s.timers {
		t.left -= dt
		if t.left <= 0 {
			due = append(due, t)
			continue
		}
		kept = append(kept, t)
	}
	clear(s.timers[len(kept):])
	s.timers = kept

	s.firing = due
	for _, t := range due {
		// an earlier callback may have cancelled this one
		if t.cancelled {
			continue
		}
		t.fn()
	}
	s.firing = nil
}

// cancel drops every timer of the given kind and returns how many were dropped.
func (s *scheduler) cancel(kind timerKind) int {
	n := 0
	for _, t := range s.firing {
		if t.kind == kind {
			t.cancelled = true
		}
	}
	kept := s.timers[:0]
	for _, t := range s.timers {
		if t.kind == kind {
			t.cancelled = true
			n++
			continue
		}
		kept = append(kept, t)
	}
	clear(s.timers[len(kept):])
	s.timers = kept
	return n
}

// cancelAll drops every timer.
func (s *scheduler) cancelAll() {
	for _, t := range s.firing {
		t.cancelled = true
	}
	for _, t := range s.timers {
		t.cancelled = true
	}
	s.timers = nil
}

// pending returns the number of live timers of a kind.
func (s *scheduler) pending(kind timerKind) int {
	n := 0
	for _, t := range s.timers {
		if t.kind == kind {
			n++
		}
	}
	return n
}

// has reports whether a live timer with the given name exists.
func (s *scheduler) has(name string) bool {
	for _, t := range s.timers {
		if t.name == name {
			return true
		}
	}
	return false
}
