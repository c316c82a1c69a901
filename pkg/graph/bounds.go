package graph

import "math"

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// EmptyBox returns a box that contains nothing; extending it by any point
// yields that point.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// IsEmpty reports whether the box contains no point.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b Box3) Extend(p Vec3) Box3 {
	return Box3{
		Min: Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both.
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Size returns the edge lengths.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the centre point.
func (b Box3) Center() Vec3 {
	return b.Min.Mid(b.Max)
}

// Transform returns the world bounds of b after applying a.
func (b Box3) Transform(a Affine) Box3 {
	out := EmptyBox()
	if b.IsEmpty() {
		return out
	}
	for i := 0; i < 8; i++ {
		c := Vec3{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out = out.Extend(a.Apply(c))
	}
	return out
}

// Bounds returns the world-space bounds of every primitive under n.
func Bounds(n *Node) Box3 {
	box := EmptyBox()
	_ = Walk(n, func(v Visit) error {
		if pd, ok := v.Node.Data.(PrimitiveData); ok {
			box = box.Union(pd.LocalBounds().Transform(v.World))
		}
		return nil
	})
	return box
}
