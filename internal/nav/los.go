package nav

import "github.com/udisondev/zombieai/internal/model"

// Linecast reports whether any cell between from and to carries a layer in
// mask. The cell containing from is skipped (the caster stands in it).
// Height is ignored: obstacles are full-height columns.
func (g *Grid) Linecast(from, to model.Vec3, mask uint32) bool {
	sx, sz := g.CellOf(from)
	ex, ez := g.CellOf(to)

	it := NewLineIterator(sx, sz, ex, ez)
	it.Next() // skip start

	for it.Next() {
		if g.Layers(it.X(), it.Z())&mask != 0 {
			return true
		}
	}
	return false
}

// CanMoveTo reports whether a straight walk between two cells crosses only
// walkable cells, without cutting wall corners on diagonal steps.
func (g *Grid) CanMoveTo(sx, sz, ex, ez int) bool {
	it := NewLineIterator(sx, sz, ex, ez)
	it.Next()

	prevX, prevZ := sx, sz
	for it.Next() {
		cx, cz := it.X(), it.Z()
		if !g.Walkable(cx, cz) {
			return false
		}
		if cx != prevX && cz != prevZ {
			if !g.Walkable(prevX, cz) || !g.Walkable(cx, prevZ) {
				return false
			}
		}
		prevX, prevZ = cx, cz
	}
	return true
}
