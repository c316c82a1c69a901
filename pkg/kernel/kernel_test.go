package kernel

import "testing"

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, -2, 3, -4, 5, 0, 2, 2, -6}}
	min, max := m.Bounds()
	if min != [3]float32{-4, -2, -6} {
		t.Errorf("min = %v, want [-4 -2 -6]", min)
	}
	if max != [3]float32{2, 5, 3} {
		t.Errorf("max = %v, want [2 5 3]", max)
	}

	min, max = (&Mesh{}).Bounds()
	if min != ([3]float32{}) || max != ([3]float32{}) {
		t.Errorf("empty mesh bounds = %v %v, want zero", min, max)
	}
}

// stubSolid is a Solid with fixed bounds.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable with centred primitives.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, -z / 2},
		maxBB: [3]float64{x / 2, y / 2, z / 2},
	}
}

func (k *stubKernel) Cylinder(length, radius float64, _ int) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -length / 2, -radius},
		maxBB: [3]float64{radius, length / 2, radius},
	}
}

func (k *stubKernel) Prism(profile [][2]float64, depth float64) (Solid, error) {
	s := &stubSolid{}
	for i, p := range profile {
		for a := 0; a < 2; a++ {
			if i == 0 || p[a] < s.minBB[a] {
				s.minBB[a] = p[a]
			}
			if i == 0 || p[a] > s.maxBB[a] {
				s.maxBB[a] = p[a]
			}
		}
	}
	s.minBB[2], s.maxBB[2] = -depth/2, depth/2
	return s, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelPrimitivesAreCentred(t *testing.T) {
	var k Kernel = &stubKernel{}
	prism, err := k.Prism([][2]float64{{0, 0}, {2, 0}, {0, 1}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		solid    Solid
		min, max [3]float64
	}{
		{"box", k.Box(2, 4, 6), [3]float64{-1, -2, -3}, [3]float64{1, 2, 3}},
		{"cylinder", k.Cylinder(3, 0.5, 16), [3]float64{-0.5, -1.5, -0.5}, [3]float64{0.5, 1.5, 0.5}},
		{"prism", prism, [3]float64{0, 0, -2}, [3]float64{2, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := tt.solid.BoundingBox()
			if min != tt.min || max != tt.max {
				t.Errorf("got %v..%v, want %v..%v", min, max, tt.min, tt.max)
			}
		})
	}
}
