package compose

import (
	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// BuildTowerBracing places four vertical diagonals in every braced cell
// between two ledger levels, one on each face of the cell. Gaps under
// MinBraceGap get none.
func BuildTowerBracing(p *catalog.Palette, g layout.Grid, yBottom, yTop float64) *graph.Node {
	bracing := graph.Group("bracing")
	if g.Empty() || yTop-yBottom < MinBraceGap {
		return bracing
	}
	for _, c := range g.Cells() {
		if !layout.IsBracedColumn(c.I, g.NX()) || !layout.IsBracedColumn(c.J, g.NZ()) {
			continue
		}
		p1 := c.Origin
		p2 := c.Origin.Add(graph.V3(c.W, 0, 0))
		p3 := c.Origin.Add(graph.V3(0, 0, c.D))
		p4 := c.Origin.Add(graph.V3(c.W, 0, c.D))
		for _, face := range [][2]graph.Vec3{{p1, p2}, {p3, p4}, {p1, p3}, {p2, p4}} {
			bracing.Add(diagonal(p, face[0], face[1], yBottom, yTop))
		}
	}
	return bracing
}

// diagonal runs a brace from the bottom rosette of column a to the top
// rosette of column b, both ends pulled in to the brace pivots.
func diagonal(p *catalog.Palette, a, b graph.Vec3, yBottom, yTop float64) *graph.Node {
	dir := b.Sub(a).Normalize()
	from := a.Add(dir.Scale(parts.BracePivotOffset)).Add(graph.V3(0, yBottom, 0))
	to := b.Sub(dir.Scale(parts.BracePivotOffset)).Add(graph.V3(0, yTop, 0))
	n, l := graph.Between("", from, to)
	return n.Add(parts.Brace(p, l))
}

// BaseDiagonalLift is how far above the base ledgers the horizontal
// diagonals sit.
const BaseDiagonalLift = 0.05

// BaseDiagonals places a horizontal diagonal in every cell of the front
// row and the middle column at base level y. Neighbouring diagonals
// alternate direction.
func BaseDiagonals(p *catalog.Palette, g layout.Grid, y float64) *graph.Node {
	diagonals := graph.Group("base-diagonals")
	if g.Empty() {
		return diagonals
	}
	mid := g.NX() / 2
	for _, c := range g.Cells() {
		if c.J != g.NZ()-1 && c.I != mid {
			continue
		}
		a := c.Origin
		b := c.Origin.Add(graph.V3(c.W, 0, c.D))
		if (c.I+c.J)%2 == 0 {
			a = c.Origin.Add(graph.V3(c.W, 0, 0))
			b = c.Origin.Add(graph.V3(0, 0, c.D))
		}
		diagonals.Add(diagonal(p, a, b, y+BaseDiagonalLift, y+BaseDiagonalLift))
	}
	return diagonals
}
