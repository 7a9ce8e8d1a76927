package world

import "sync/atomic"

// ObjectIDGenerator hands out object IDs for scene entities.
// Waypoint claims store these IDs, so 0 is never issued.
//
// ID ranges (convention):
//
//	0x00000000:              invalid / unclaimed
//	0x10000000 - 0x1FFFFFFF: targets (players)
//	0x20000000 - 0x2FFFFFFF: NPC agents
type ObjectIDGenerator struct {
	nextTargetID atomic.Uint32
	nextAgentID  atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextTargetID.Store(0x10000000)
	gen.nextAgentID.Store(0x20000000)
	return gen
}

// NextTargetID generates next unique target object ID.
func (g *ObjectIDGenerator) NextTargetID() uint32 {
	return g.nextTargetID.Add(1)
}

// NextAgentID generates next unique NPC agent object ID.
func (g *ObjectIDGenerator) NextAgentID() uint32 {
	return g.nextAgentID.Add(1)
}

// IsAgentID reports whether id belongs to the agent range.
func IsAgentID(id uint32) bool {
	return id > 0x20000000 && id <= 0x2FFFFFFF
}
