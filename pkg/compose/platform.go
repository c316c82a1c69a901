package compose

import (
	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
)

// PlatformSpec describes a decked scaffold platform.
type PlatformSpec struct {
	Width, Depth, Height float64
	Floor                FloorKind
	// Rails overrides the stage rails on the top floor; point it at an
	// empty Rails for an unrailed podium.
	Rails *Rails
}

// Platform is a built platform with the layout it was built on.
type Platform struct {
	Node  *graph.Node
	Grid  layout.Grid
	Stack layout.VerticalStack
}

// BuildPlatform builds a complete platform centred on the origin: one
// column per grid node, an O-ledger grid on every intermediate node level
// with tower bracing between levels, horizontal diagonals on the base
// level and the decked, railed floor on the top rosettes.
func BuildPlatform(p *catalog.Palette, spec PlatformSpec) Platform {
	g := layout.NewGrid(spec.Width, spec.Depth)
	s := layout.NewVerticalStack(spec.Height)
	out := Platform{Node: graph.Group("platform"), Grid: g, Stack: s}
	if g.Empty() {
		return out
	}

	columns := graph.Group("columns")
	for i := 0; i <= g.NX(); i++ {
		for j := 0; j <= g.NZ(); j++ {
			n := g.Node(i, j)
			columns.Add(ColumnStack(p, n.X, n.Z, s))
		}
	}

	levels := s.NodeLevels()
	last := len(levels) - 1
	structure := graph.Group("structure")
	for k := 0; k < last; k++ {
		structure.Add(LedgerGrid(p, g, levels[k]))
		if k == 0 {
			structure.Add(BaseDiagonals(p, g, levels[k]))
		}
		structure.Add(BuildTowerBracing(p, g, levels[k], levels[k+1]))
	}

	rails := StageRails(spec.Height)
	if spec.Rails != nil {
		rails = *spec.Rails
	}
	floor := BuildFloorLevel(p, g, levels[last], true, Floor{Kind: spec.Floor, Rails: rails})
	out.Node.Add(columns, structure, floor)
	return out
}

// DeckHeight returns the walking surface of a floor hanging on rosette y.
func DeckHeight(y float64) float64 {
	return y + DeckLift + layout.DeckThickness
}
