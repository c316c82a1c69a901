package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Scene is the top-level tree handed to renderers. Each root is typically
// one facade's assembly group. Each coordinator evaluation produces a new
// scene and releases the assemblies of the previous one.
type Scene struct {
	Roots   []*Node `json:"roots"`
	Version uint64  `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{}
}

// AddRoot registers a root node. Nil roots are ignored.
func (s *Scene) AddRoot(n *Node) {
	if n != nil {
		s.Roots = append(s.Roots, n)
	}
}

// Lookup returns the first root with the given name, or nil.
func (s *Scene) Lookup(name string) *Node {
	for _, r := range s.Roots {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// MustLookup returns the root with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no root named %q", name))
	}
	return n
}

// NodeCount returns the total number of nodes under all roots.
func (s *Scene) NodeCount() int {
	count := 0
	for _, r := range s.Roots {
		count += CountNodes(r)
	}
	return count
}

// Parts returns every part node in walk order.
func (s *Scene) Parts() []*Node {
	var parts []*Node
	for _, r := range s.Roots {
		parts = append(parts, Collect(r, NodePart)...)
	}
	return parts
}

// Bounds returns the world bounds of every root.
func (s *Scene) Bounds() Box3 {
	box := EmptyBox()
	for _, r := range s.Roots {
		box = box.Union(Bounds(r))
	}
	return box
}

// ---------------------------------------------------------------------------
// Traversal
// ---------------------------------------------------------------------------

// Visit is one step of a Walk: the node, its accumulated world transform,
// the slash-separated path of names from the root, and the nearest
// enclosing part (nil outside any part).
type Visit struct {
	Node  *Node
	World Affine
	Path  string
	Part  *Node
	Depth int
}

// SkipChildren may be returned by a Walk callback to prune the subtree.
var SkipChildren = errors.New("graph: skip children")

// Walk visits n and its descendants depth-first, parent before children.
// Returning SkipChildren prunes the current subtree; any other error stops
// the walk and is returned.
func Walk(n *Node, fn func(Visit) error) error {
	if n == nil {
		return nil
	}
	return walk(n, Identity(), "", nil, 0, fn)
}

func walk(n *Node, parent Affine, path string, part *Node, depth int, fn func(Visit) error) error {
	world := parent
	if td, ok := n.Data.(TransformData); ok {
		world = parent.Mul(FromTransform(td))
	}
	if n.Kind == NodePart {
		part = n
	}
	if n.Name != "" {
		if path == "" {
			path = n.Name
		} else {
			path = path + "/" + n.Name
		}
	}

	err := fn(Visit{Node: n, World: world, Path: path, Part: part, Depth: depth})
	if errors.Is(err, SkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if err := walk(c, world, path, part, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// CountNodes returns the number of nodes in the subtree rooted at n.
func CountNodes(n *Node) int {
	count := 0
	_ = Walk(n, func(Visit) error {
		count++
		return nil
	})
	return count
}

// Collect returns every node of the given kind under n, in walk order.
func Collect(n *Node, kind NodeKind) []*Node {
	var out []*Node
	_ = Walk(n, func(v Visit) error {
		if v.Node.Kind == kind {
			out = append(out, v.Node)
		}
		return nil
	})
	return out
}

// CountParts returns the number of part nodes whose type has the given
// prefix. An empty prefix counts every part.
func CountParts(n *Node, typePrefix string) int {
	count := 0
	for _, p := range Collect(n, NodePart) {
		if pd, ok := p.Data.(PartData); ok && strings.HasPrefix(pd.Type, typePrefix) {
			count++
		}
	}
	return count
}

// Find returns the first descendant of n (including n) with the given name.
func Find(n *Node, name string) *Node {
	var found *Node
	_ = Walk(n, func(v Visit) error {
		if found != nil {
			return SkipChildren
		}
		if v.Node.Name == name {
			found = v.Node
			return SkipChildren
		}
		return nil
	})
	return found
}
