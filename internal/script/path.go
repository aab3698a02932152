package script

import (
	"strings"

	"github.com/pixelcart/pixelcart/internal/cart"
)

// Property paths are dot-separated traversals of plain nested data, e.g.
// "transform.x" or "params.hp". A missing or non-traversable intermediate
// segment makes reads report absence and writes no-op; paths never error.

// ResolvePath walks a dotted path from the root and returns the value at
// the end, or false if any segment fails to resolve.
func ResolvePath(root any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// ResolveNumber resolves a path to a numeric value.
func ResolveNumber(root any, path string) (float64, bool) {
	v, ok := ResolvePath(root, path)
	if !ok {
		return 0, false
	}
	return cart.Number(v)
}

// WritePath writes a numeric value at the end of a dotted path. It
// returns false, changing nothing, when the path does not resolve to a
// writable slot.
func WritePath(root any, path string, value float64) bool {
	if path == "" {
		return false
	}
	segs := strings.Split(path, ".")
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := step(cur, seg)
		if !ok {
			return false
		}
		cur = next
	}
	return writeLeaf(cur, segs[len(segs)-1], value)
}

// step resolves one path segment against the current value.
func step(cur any, seg string) (any, bool) {
	switch c := cur.(type) {
	case *cart.Node:
		switch seg {
		case "transform":
			return &c.Transform, true
		case "params":
			if c.Params == nil {
				return nil, false
			}
			return c.Params, true
		case "visible":
			return c.Visible, true
		default:
			return nil, false
		}
	case *cart.Transform2D:
		switch seg {
		case "x":
			return c.X, true
		case "y":
			return c.Y, true
		case "scaleX":
			return c.ScaleX, true
		case "scaleY":
			return c.ScaleY, true
		case "rotation":
			return c.Rotation, true
		case "skewX":
			return c.SkewX, true
		case "skewY":
			return c.SkewY, true
		case "alpha":
			return c.Alpha, true
		default:
			return nil, false
		}
	case map[string]any:
		v, ok := c[seg]
		return v, ok
	default:
		return nil, false
	}
}

// writeLeaf stores a numeric value into the final segment's slot.
func writeLeaf(parent any, seg string, value float64) bool {
	switch p := parent.(type) {
	case *cart.Node:
		// Node fields themselves are not numeric slots; only transform
		// fields and params entries are writable.
		return false
	case *cart.Transform2D:
		switch seg {
		case "x":
			p.X = value
		case "y":
			p.Y = value
		case "scaleX":
			p.ScaleX = value
		case "scaleY":
			p.ScaleY = value
		case "rotation":
			p.Rotation = value
		case "skewX":
			p.SkewX = value
		case "skewY":
			p.SkewY = value
		case "alpha":
			p.Alpha = value
		default:
			return false
		}
		return true
	case map[string]any:
		p[seg] = value
		return true
	default:
		return false
	}
}
