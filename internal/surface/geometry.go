package surface

// Rect is a cell-based rectangle. X/Y address the top-left cell.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Right returns the first column past the rect.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the cell at x/y lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of two rects (empty when disjoint).
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate offsets the rect origin.
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Insets is the border+padding box reserved inside an element.
type Insets struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Flow selects how static children are placed.
type Flow int

// FlowColumn stacks children top to bottom; FlowRow places them left to right.
const (
	FlowColumn Flow = iota
	FlowRow
)
