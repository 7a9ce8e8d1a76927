package nav

import (
	"fmt"
	"math"

	"github.com/udisondev/zombieai/internal/model"
)

// Grid is a flat navigable surface made of square cells on the XZ plane.
// Cell (0, 0) starts at Origin; X grows with column, Z grows with row.
// Read-only after construction, safe for concurrent queries.
type Grid struct {
	width    int
	depth    int
	cellSize float64
	origin   model.Vec3
	cells    []uint32
}

// ParseGrid builds a grid from text rows ('.' floor, '#' wall, '+' prop).
// All rows must have the same length.
func ParseGrid(rows []string, cellSize float64, origin model.Vec3) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid has no rows")
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}

	width := len(rows[0])
	g := &Grid{
		width:    width,
		depth:    len(rows),
		cellSize: cellSize,
		origin:   origin,
		cells:    make([]uint32, width*len(rows)),
	}

	for z, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("grid row %d has %d cells, want %d", z, len(row), width)
		}
		for x, r := range row {
			var layers uint32
			switch r {
			case RuneFloor:
			case RuneWall:
				layers = LayerWall
			case RuneProp:
				layers = LayerProp
			default:
				return nil, fmt.Errorf("grid row %d col %d: unknown cell %q", z, x, r)
			}
			g.cells[z*width+x] = layers
		}
	}

	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Depth returns the number of rows.
func (g *Grid) Depth() int { return g.depth }

// CellSize returns the edge length of one cell in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// InBounds reports whether a cell index lies on the grid.
func (g *Grid) InBounds(cx, cz int) bool {
	return cx >= 0 && cz >= 0 && cx < g.width && cz < g.depth
}

// Layers returns the obstacle mask of a cell. Off-grid cells report 0.
func (g *Grid) Layers(cx, cz int) uint32 {
	if !g.InBounds(cx, cz) {
		return 0
	}
	return g.cells[cz*g.width+cx]
}

// Walkable reports whether a cell is on the grid and free of obstacles.
func (g *Grid) Walkable(cx, cz int) bool {
	return g.InBounds(cx, cz) && g.cells[cz*g.width+cx] == 0
}

// CellOf returns the cell containing a world position.
func (g *Grid) CellOf(p model.Vec3) (int, int) {
	cx := int(math.Floor((p.X() - g.origin.X()) / g.cellSize))
	cz := int(math.Floor((p.Z() - g.origin.Z()) / g.cellSize))
	return cx, cz
}

// Center returns the world position of a cell center at surface height.
func (g *Grid) Center(cx, cz int) model.Vec3 {
	return model.Vec3{
		g.origin.X() + (float64(cx)+0.5)*g.cellSize,
		g.origin.Y(),
		g.origin.Z() + (float64(cz)+0.5)*g.cellSize,
	}
}

// IsNavigable reports whether a world position stands on walkable floor.
func (g *Grid) IsNavigable(p model.Vec3) bool {
	return g.Walkable(g.CellOf(p))
}
