package graph

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func nearVec(a, b Vec3) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

// buildColumn creates a small part tree: a standard tube placed at (2,0,3).
func buildColumn() *Node {
	tube := Cylinder("tube", 0.024, 2.0, "galvNew")
	standard := Part(PartData{Type: "standard", Nominal: 2.0, Weight: 9.3, CatalogNumber: "2617.200"},
		At(V3(0, 1, 0), tube))
	return Group("stage", At(V3(2, 0, 3), standard))
}

func TestNewScene(t *testing.T) {
	s := New()
	if s.NodeCount() != 0 {
		t.Errorf("empty scene should have 0 nodes, got %d", s.NodeCount())
	}
	if len(s.Parts()) != 0 {
		t.Errorf("empty scene should have 0 parts, got %d", len(s.Parts()))
	}
	if !s.Bounds().IsEmpty() {
		t.Error("empty scene should have empty bounds")
	}
}

func TestAddRootAndLookup(t *testing.T) {
	s := New()
	s.AddRoot(buildColumn())
	s.AddRoot(nil)

	if len(s.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(s.Roots))
	}
	if s.Lookup("stage") == nil {
		t.Fatal("Lookup(stage) returned nil")
	}
	if s.Lookup("missing") != nil {
		t.Error("Lookup(missing) should return nil")
	}
	// group, transform, part, transform, primitive
	if got := s.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := len(s.Parts()); got != 1 {
		t.Errorf("len(Parts()) = %d, want 1", got)
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup should panic for unknown name")
		}
	}()
	New().MustLookup("nothing")
}

func TestWalkAccumulatesTransforms(t *testing.T) {
	root := buildColumn()
	var tubeWorld Affine
	var tubePath string
	var tubePart *Node

	err := Walk(root, func(v Visit) error {
		if v.Node.Name == "tube" {
			tubeWorld = v.World
			tubePath = v.Path
			tubePart = v.Part
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := V3(2, 1, 3); !nearVec(tubeWorld.T, want) {
		t.Errorf("tube position = %v, want %v", tubeWorld.T, want)
	}
	if tubePath != "stage/standard/tube" {
		t.Errorf("tube path = %q, want %q", tubePath, "stage/standard/tube")
	}
	if tubePart == nil || tubePart.Name != "standard" {
		t.Errorf("tube part = %v, want the standard part", tubePart)
	}
}

func TestWalkSkipAndStop(t *testing.T) {
	root := buildColumn()

	visited := 0
	_ = Walk(root, func(v Visit) error {
		visited++
		if v.Node.Kind == NodePart {
			return SkipChildren
		}
		return nil
	})
	if visited != 3 {
		t.Errorf("visited = %d with SkipChildren at part, want 3", visited)
	}

	stop := errors.New("stop")
	err := Walk(root, func(v Visit) error {
		if v.Node.Kind == NodeTransform {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk error = %v, want %v", err, stop)
	}
}

func TestBounds(t *testing.T) {
	b := Bounds(buildColumn())
	want := Box3{Min: V3(2-0.024, 0, 3-0.024), Max: V3(2+0.024, 2, 3+0.024)}
	if !nearVec(b.Min, want.Min) || !nearVec(b.Max, want.Max) {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
}

func TestDetach(t *testing.T) {
	root := buildColumn()
	if got := root.Detach(); got != 1 {
		t.Errorf("Detach() = %d, want 1", got)
	}
	if len(root.Children) != 0 {
		t.Errorf("children after Detach = %d, want 0", len(root.Children))
	}
	if CountNodes(root) != 1 {
		t.Errorf("CountNodes after Detach = %d, want 1", CountNodes(root))
	}
}

func TestCountPartsAndFind(t *testing.T) {
	root := Group("g",
		Part(PartData{Type: "ledger/o"}),
		Part(PartData{Type: "ledger/u"}),
		Part(PartData{Type: "deck"}),
	)
	tests := []struct {
		prefix string
		want   int
	}{
		{"", 3},
		{"ledger", 2},
		{"deck", 1},
		{"brace", 0},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := CountParts(root, tt.prefix); got != tt.want {
				t.Errorf("CountParts(%q) = %d, want %d", tt.prefix, got, tt.want)
			}
		})
	}
	if Find(root, "deck") == nil {
		t.Error("Find(deck) returned nil")
	}
}

func TestPlaceOmitsZeroTransforms(t *testing.T) {
	n := Place("p", Vec3{}, Vec3{})
	td := n.Data.(TransformData)
	if td.Translation != nil || td.Rotation != nil {
		t.Errorf("zero placement should leave nil fields, got %+v", td)
	}
}

func TestWriteJSON(t *testing.T) {
	s := New()
	s.AddRoot(buildColumn())

	var tree bytes.Buffer
	if err := WriteJSON(&tree, s, false); err != nil {
		t.Fatalf("WriteJSON(tree): %v", err)
	}
	if !strings.Contains(tree.String(), `"kind": "part"`) {
		t.Errorf("tree JSON should name node kinds, got:\n%s", tree.String())
	}

	var flat bytes.Buffer
	if err := WriteJSON(&flat, s, true); err != nil {
		t.Fatalf("WriteJSON(flat): %v", err)
	}
	if !strings.Contains(flat.String(), `"partType": "standard"`) {
		t.Errorf("flat JSON should carry part types, got:\n%s", flat.String())
	}
	if got := len(Flatten(s)); got != 1 {
		t.Errorf("len(Flatten) = %d, want 1", got)
	}
}
