package ai

import "github.com/udisondev/zombieai/internal/model"

// Controller represents a behaviour controller driven by TickManager
type Controller interface {
	// Start activates the controller
	Start()

	// Stop deactivates the controller
	Stop()

	// Tick advances the controller by dt simulated seconds
	Tick(dt float64)

	// CurrentState returns the behaviour layers
	CurrentState() model.State

	// ObjectID returns the runtime object ID
	ObjectID() uint32
}
