package nav

// LineIterator walks grid cells along a 2D Bresenham line.
type LineIterator struct {
	currentX, currentZ int
	targetX, targetZ   int
	deltaX, deltaZ     int
	stepX, stepZ       int
	err                int
	started            bool
}

// NewLineIterator creates a 2D Bresenham cell iterator from start to end.
func NewLineIterator(sx, sz, ex, ez int) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentZ: sz,
		targetX: ex, targetZ: ez,
		deltaX: absInt(ex - sx),
		deltaZ: -absInt(ez - sz),
		stepX:  1,
		stepZ:  1,
	}
	if sx > ex {
		it.stepX = -1
	}
	if sz > ez {
		it.stepZ = -1
	}
	it.err = it.deltaX + it.deltaZ
	return it
}

// Next advances the iterator to the next cell.
// Returns false when the target has already been returned.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // start cell
	}

	if it.currentX == it.targetX && it.currentZ == it.targetZ {
		return false
	}

	e2 := 2 * it.err
	if e2 >= it.deltaZ {
		it.err += it.deltaZ
		it.currentX += it.stepX
	}
	if e2 <= it.deltaX {
		it.err += it.deltaX
		it.currentZ += it.stepZ
	}
	return true
}

// X returns current cell column.
func (it *LineIterator) X() int { return it.currentX }

// Z returns current cell row.
func (it *LineIterator) Z() int { return it.currentZ }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
