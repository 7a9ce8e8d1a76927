package nav

// Obstacle layers. A cell carries a bitmask of the layers occupying it;
// a zero mask is open floor.
const (
	LayerWall uint32 = 1 << 0 // blocks movement and sight
	LayerProp uint32 = 1 << 1 // blocks movement; blocks sight only when masked
	LayerAll         = LayerWall | LayerProp
)

// Grid text encoding, one rune per cell.
const (
	RuneFloor = '.'
	RuneWall  = '#'
	RuneProp  = '+'
)

// Pathfinding limits and weights.
const (
	MaxPathfindIterations = 7000
	WeightCardinal        = 1.0
	WeightDiagonal        = 1.414
)

// DefaultStoppingDistance is the agent stopping distance when none is given.
const DefaultStoppingDistance = 0.3
