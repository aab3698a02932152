// Package core provides the rendering primitives for the cartridge
// platform: the colored screen buffer, cell-space geometry, and the
// world-to-cell projection. It contains no external dependencies
// (especially no Bubble Tea) so it stays pure and testable.
package core

// Rect represents an axis-aligned bounding box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
// Uses standard AABB collision detection.
func (r Rect) Intersects(other Rect) bool {
	// No overlap if one rect is completely to the left, right, above, or below
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Projection maps world-space coordinates onto a screen of cells.
// Cartridges author positions in world units; the terminal decides how
// many cells those units get.
type Projection struct {
	WorldW, WorldH   float64
	ScreenW, ScreenH int
}

// ToCell converts a world position to a cell position.
func (p Projection) ToCell(wx, wy float64) (int, int) {
	if p.WorldW <= 0 || p.WorldH <= 0 {
		return 0, 0
	}
	x := int(wx / p.WorldW * float64(p.ScreenW))
	y := int(wy / p.WorldH * float64(p.ScreenH))
	return x, y
}

// ToWorld converts a cell position back to world space, at the center
// of the cell. Pointer input arrives in cells and hit tests run in
// world units.
func (p Projection) ToWorld(cx, cy int) (float64, float64) {
	if p.ScreenW <= 0 || p.ScreenH <= 0 {
		return 0, 0
	}
	x := (float64(cx) + 0.5) / float64(p.ScreenW) * p.WorldW
	y := (float64(cy) + 0.5) / float64(p.ScreenH) * p.WorldH
	return x, y
}

// SpanToCells converts world-space extents to cell extents, with a
// minimum of one cell so small nodes stay visible.
func (p Projection) SpanToCells(ww, wh float64) (int, int) {
	if p.WorldW <= 0 || p.WorldH <= 0 {
		return 1, 1
	}
	w := Max(1, int(ww/p.WorldW*float64(p.ScreenW)))
	h := Max(1, int(wh/p.WorldH*float64(p.ScreenH)))
	return w, h
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
