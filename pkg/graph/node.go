package graph

import "fmt"

// NodeKind enumerates the types of nodes in the scene tree.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // renderable solid (box, cylinder, prism)
	NodeTransform                 // local placement of its children
	NodeGroup                     // logical grouping (assembly, level, facade)
	NodePart                      // one catalog item; carries PartData
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodePart:
		return "part"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in exported scenes.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is the fundamental element of the scene tree.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Data     NodeData `json:"data,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// Add appends children and returns n for chaining. Nil children are dropped.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Detach removes every child and returns how many were removed.
func (n *Node) Detach() int {
	count := len(n.Children)
	for i := range n.Children {
		n.Children[i] = nil
	}
	n.Children = nil
	return count
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Group creates a group node.
func Group(name string, children ...*Node) *Node {
	n := &Node{Kind: NodeGroup, Name: name, Data: GroupData{}}
	return n.Add(children...)
}

// Place wraps children in a transform node that translates them to at and
// rotates them by rot (Euler degrees, see Affine).
func Place(name string, at, rot Vec3, children ...*Node) *Node {
	td := TransformData{}
	if !at.IsZero() {
		t := at
		td.Translation = &t
	}
	if !rot.IsZero() {
		r := rot
		td.Rotation = &r
	}
	n := &Node{Kind: NodeTransform, Name: name, Data: td}
	return n.Add(children...)
}

// At is Place without rotation.
func At(at Vec3, children ...*Node) *Node {
	return Place("", at, Vec3{}, children...)
}

// Box creates a box primitive centred on the local origin.
func Box(name string, size Vec3, material string) *Node {
	return &Node{Kind: NodePrimitive, Name: name, Data: PrimitiveData{
		Shape:    ShapeBox,
		Size:     size,
		Material: material,
	}}
}

// Cylinder creates a cylinder centred on the local origin with its axis
// along local Y.
func Cylinder(name string, radius, length float64, material string) *Node {
	return &Node{Kind: NodePrimitive, Name: name, Data: PrimitiveData{
		Shape:    ShapeCylinder,
		Radius:   radius,
		Length:   length,
		Material: material,
	}}
}

// Prism creates a closed XY profile extruded along local Z, centred on z=0.
func Prism(name string, profile []Vec2, depth float64, material string) *Node {
	pts := make([]Vec2, len(profile))
	copy(pts, profile)
	return &Node{Kind: NodePrimitive, Name: name, Data: PrimitiveData{
		Shape:    ShapePrism,
		Profile:  pts,
		Length:   depth,
		Material: material,
	}}
}

// Part creates a part node carrying catalog metadata.
func Part(info PartData, children ...*Node) *Node {
	name := info.Type
	if info.Variant != "" {
		name = fmt.Sprintf("%s/%s", info.Type, info.Variant)
	}
	n := &Node{Kind: NodePart, Name: name, Data: info}
	return n.Add(children...)
}
