// Package kernel defines the solid kernel a renderer meshes scene
// primitives with. Backends (sdfx) implement Kernel; the scene tree never
// depends on one.
//
// All primitives are centred on the origin: boxes span ±size/2, cylinders
// run along Y and prisms extrude an XY profile along Z. This matches the
// primitive conventions of pkg/graph.
package kernel

// Solid is an opaque handle to a backend solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and meshes solids.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(length, radius float64, segments int) Solid
	Prism(profile [][2]float64, depth float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler degrees, applied X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
