package graph

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Shape distinguishes between primitive solids.
type Shape int

const (
	ShapeBox      Shape = iota // axis-aligned box, centred
	ShapeCylinder              // round bar, axis along local Y, centred
	ShapePrism                 // XY profile extruded along local Z, centred
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapePrism:
		return "prism"
	default:
		return "unknown"
	}
}

// MarshalText renders the shape by name in exported scenes.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PrimitiveData describes one renderable solid. Which fields are meaningful
// depends on Shape: Size for boxes, Radius and Length for cylinders, Profile
// and Length (extrusion depth) for prisms.
type PrimitiveData struct {
	Shape    Shape   `json:"shape"`
	Size     Vec3    `json:"size,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Length   float64 `json:"length,omitempty"`
	Profile  []Vec2  `json:"profile,omitempty"`
	Material string  `json:"material,omitempty"`
}

func (PrimitiveData) nodeData() {}

// LocalBounds returns the primitive's axis-aligned box in its own frame.
func (p PrimitiveData) LocalBounds() Box3 {
	switch p.Shape {
	case ShapeBox:
		h := p.Size.Scale(0.5)
		return Box3{Min: h.Scale(-1), Max: h}
	case ShapeCylinder:
		return Box3{
			Min: Vec3{-p.Radius, -p.Length / 2, -p.Radius},
			Max: Vec3{p.Radius, p.Length / 2, p.Radius},
		}
	case ShapePrism:
		b := EmptyBox()
		for _, q := range p.Profile {
			b = b.Extend(Vec3{q.X, q.Y, -p.Length / 2})
			b = b.Extend(Vec3{q.X, q.Y, p.Length / 2})
		}
		return b
	default:
		return EmptyBox()
	}
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its children in the parent frame.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping (facade, level, sub-assembly).
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Part
// ---------------------------------------------------------------------------

// PartData is the catalog record attached to one physical item. It is
// reporting metadata only and never influences geometry.
type PartData struct {
	Type          string  `json:"type"`
	Variant       string  `json:"variant,omitempty"`
	Nominal       float64 `json:"nominal,omitempty"` // nominal length in metres
	Weight        float64 `json:"weight"`            // kg
	CatalogNumber string  `json:"catalogNumber"`
}

func (PartData) nodeData() {}
