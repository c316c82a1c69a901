package layout

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/graph"
)

// Grid is the column grid of a bay layout: node (i, j) sits at (X[i], Z[j])
// for i = 0..len(BaysX) and j = 0..len(BaysZ). Index j grows toward +Z, so
// j = 0 is the back row and j = NZ() the front row.
type Grid struct {
	BaysX []float64
	BaysZ []float64
	X     []float64
	Z     []float64
}

// NewGrid lays out bays on both axes and centres the grid on the origin.
func NewGrid(width, depth float64) Grid {
	return FromBays(Bays(width), Bays(depth))
}

// FromBays builds a centred grid from explicit bay sequences.
func FromBays(baysX, baysZ []float64) Grid {
	return Grid{
		BaysX: baysX,
		BaysZ: baysZ,
		X:     Positions(baysX),
		Z:     Positions(baysZ),
	}
}

// ModuleGrid builds a grid of whole full modules, rounding the requested
// dimensions to the nearest module count (at least one).
func ModuleGrid(width, depth float64) Grid {
	return FromBays(UniformBays(moduleCount(width)), UniformBays(moduleCount(depth)))
}

func moduleCount(d float64) int {
	if !finite(d) {
		return 1
	}
	return max(1, int(math.Round(d/ModuleFull)))
}

// NX is the number of bays along X.
func (g Grid) NX() int { return len(g.BaysX) }

// NZ is the number of bays along Z.
func (g Grid) NZ() int { return len(g.BaysZ) }

// Width is the buildable width.
func (g Grid) Width() float64 { return Total(g.BaysX) }

// Depth is the buildable depth.
func (g Grid) Depth() float64 { return Total(g.BaysZ) }

// Empty reports whether the grid has no bay on either axis.
func (g Grid) Empty() bool { return g.NX() == 0 || g.NZ() == 0 }

// Columns is the number of column nodes.
func (g Grid) Columns() int {
	if g.Empty() {
		return 0
	}
	return (g.NX() + 1) * (g.NZ() + 1)
}

// Node returns the ground position of node (i, j).
func (g Grid) Node(i, j int) graph.Vec3 {
	return graph.Vec3{X: g.X[i], Z: g.Z[j]}
}

// CentredSpan picks the widest run of nodes in pos no longer than limit,
// preferring the run whose midpoint is nearest zero. It returns 0, 0 when
// pos has fewer than two nodes.
func CentredSpan(pos []float64, limit float64) (lo, hi float64) {
	const eps = 1e-9
	best := -1.0
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			w := pos[j] - pos[i]
			if w > limit+eps {
				break
			}
			if w > best+eps || (math.Abs(w-best) <= eps && math.Abs(pos[i]+pos[j]) < math.Abs(lo+hi)-eps) {
				lo, hi, best = pos[i], pos[j], w
			}
		}
	}
	return lo, hi
}

// Cell is one bay of the grid.
type Cell struct {
	I, J   int
	Origin graph.Vec3 // node (I, J), the back-left corner
	W, D   float64    // span along X and Z
}

// Cells returns every bay cell in row-major order (i outer).
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.NX()*g.NZ())
	for i, w := range g.BaysX {
		for j, d := range g.BaysZ {
			cells = append(cells, Cell{I: i, J: j, Origin: g.Node(i, j), W: w, D: d})
		}
	}
	return cells
}

// IsBracedColumn reports whether bay index idx of count bays carries tower
// bracing: always the first and the last, every even interior index, but
// never the second-to-last.
func IsBracedColumn(idx, count int) bool {
	switch {
	case idx == 0, idx == count-1:
		return true
	case idx%2 == 0:
		return idx != count-2
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Roof plane
// ---------------------------------------------------------------------------

// RoofPlane is a single sloped plane between a front and a back eave
// height over a horizontal span.
type RoofPlane struct {
	Front float64
	Back  float64
	Span  float64
}

// Valid reports whether the plane has a positive span.
func (p RoofPlane) Valid() bool {
	return finite(p.Span) && p.Span > 0 && finite(p.Front) && finite(p.Back)
}

// Drop is the height difference from front to back.
func (p RoofPlane) Drop() float64 { return p.Front - p.Back }

// Angle is the slope angle in radians, positive when the front is higher.
func (p RoofPlane) Angle() float64 { return math.Atan2(p.Drop(), p.Span) }

// Length is the member length along the slope.
func (p RoofPlane) Length() float64 { return math.Hypot(p.Drop(), p.Span) }

// HeightAt interpolates the plane height at t in [0, 1] from front to back.
func (p RoofPlane) HeightAt(t float64) float64 {
	return p.Front + (p.Back-p.Front)*t
}
