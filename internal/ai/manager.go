package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// TickHook runs once per tick before the controllers.
type TickHook func(dt float64)

// TickManager drives registered controllers at a fixed interval.
// Each tick runs the hooks, then every controller in registration order.
type TickManager struct {
	mu          sync.Mutex
	controllers []Controller
	hooks       []TickHook

	interval time.Duration
	step     float64 // simulated seconds per tick

	elapsed         atomic.Uint64 // simulated milliseconds
	controllerCount atomic.Int32  // cached count of controllers (O(1) access)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTickManager creates a tick manager. Every tick advances simulated
// time by interval * scale.
func NewTickManager(interval time.Duration, scale float64) *TickManager {
	return &TickManager{
		interval: interval,
		step:     interval.Seconds() * scale,
		stopCh:   make(chan struct{}),
	}
}

// Register registers a controller and starts it. Registering an object ID
// twice replaces the previous controller in place.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	replaced := false
	for i, c := range m.controllers {
		if c.ObjectID() == objectID {
			m.controllers[i] = controller
			replaced = true
			break
		}
	}
	if !replaced {
		m.controllers = append(m.controllers, controller)
		m.controllerCount.Add(1)
	}
	m.mu.Unlock()

	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"state", controller.CurrentState())
}

// Unregister stops and removes a controller.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	var removed Controller
	for i, c := range m.controllers {
		if c.ObjectID() == objectID {
			removed = c
			m.controllers = append(m.controllers[:i], m.controllers[i+1:]...)
			m.controllerCount.Add(-1)
			break
		}
	}
	m.mu.Unlock()

	if removed == nil {
		return
	}
	removed.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// OnTick adds a hook that runs at the start of every tick.
func (m *TickManager) OnTick(hook TickHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Start starts the tick loop (blocks until context is canceled or Stop).
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval, "step", m.step)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			m.Step(m.step)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Step runs one tick of dt simulated seconds synchronously.
func (m *TickManager) Step(dt float64) {
	m.mu.Lock()
	hooks := append([]TickHook(nil), m.hooks...)
	controllers := append([]Controller(nil), m.controllers...)
	m.mu.Unlock()

	for _, h := range hooks {
		h(dt)
	}
	for _, c := range controllers {
		c.Tick(dt)
	}

	m.elapsed.Add(uint64(math.Round(dt * 1000)))

	if len(controllers) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(controllers), "dt", dt)
	}
}

// Elapsed returns the simulated time run so far.
func (m *TickManager) Elapsed() time.Duration {
	return time.Duration(m.elapsed.Load()) * time.Millisecond
}

// Count returns number of registered controllers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller registered for an object ID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.controllers {
		if c.ObjectID() == objectID {
			return c, nil
		}
	}
	return nil, fmt.Errorf("controller not found for objectID %d", objectID)
}
