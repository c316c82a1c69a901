package compose

import (
	"slices"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// Rails lists the rail heights above the floor rosette on each perimeter
// edge. The front is the +Z edge, facing the audience.
type Rails struct {
	Front []float64
	Back  []float64
	Sides []float64
}

// HighPlatform is the platform height above which guardrails grow to
// 1.5 m and the front edge gets railed.
const HighPlatform = 2.5

// StageRails returns the rails of a stage deck: open to the audience
// unless the platform is high.
func StageRails(height float64) Rails {
	if height > HighPlatform {
		return Rails{Front: []float64{0.5, 1.0}, Back: []float64{0.5, 1.0, 1.5}, Sides: []float64{0.5, 1.0, 1.5}}
	}
	return Rails{Back: []float64{0.5, 1.0}, Sides: []float64{0.5, 1.0}}
}

// StandRails are the rails of a stand deck: railed all round, lower at
// the front facing the stage.
func StandRails() Rails {
	return Rails{Front: []float64{0.5, 1.0}, Back: []float64{0.5, 1.0, 1.5}, Sides: []float64{0.5, 1.0, 1.5}}
}

// Empty reports whether no edge is railed.
func (r Rails) Empty() bool {
	return len(r.Front) == 0 && len(r.Back) == 0 && len(r.Sides) == 0
}

func topRail(levels []float64) float64 {
	if len(levels) == 0 {
		return 0
	}
	return slices.Max(levels)
}

// postLength rounds a rail height up to a cataloged post.
func postLength(h float64) float64 {
	if h > 1.0 {
		return 1.5
	}
	return 1.0
}

// Guardrails places posts on every perimeter node touching a railed edge
// and O-ledger rails along the railed edges. Posts sit on the column tops
// above rosette y, each joined by a bolted spigot and a locking pin.
func Guardrails(p *catalog.Palette, g layout.Grid, y float64, r Rails) *graph.Node {
	rails := graph.Group("guardrails")
	if g.Empty() || r.Empty() {
		return rails
	}
	nx, nz := g.NX(), g.NZ()
	top := y + layout.TopRosetteOffset

	for i := 0; i <= nx; i++ {
		for j := 0; j <= nz; j++ {
			h := 0.0
			if i == 0 || i == nx {
				h = max(h, topRail(r.Sides))
			}
			if j == 0 {
				h = max(h, topRail(r.Back))
			}
			if j == nz {
				h = max(h, topRail(r.Front))
			}
			if h == 0 {
				continue
			}
			rails.Add(graph.At(g.Node(i, j), Post(p, top, postLength(h))))
		}
	}

	for _, edge := range []struct {
		j      int
		levels []float64
	}{{0, r.Back}, {nz, r.Front}} {
		for _, l := range edge.levels {
			for i, w := range g.BaysX {
				rails.Add(alongX(g.Node(i, edge.j).Add(graph.V3(0, y+l, 0)), parts.Ledger(p, w)))
			}
		}
	}
	for _, i := range []int{0, nx} {
		for _, l := range r.Sides {
			for j, d := range g.BaysZ {
				rails.Add(alongZ(g.Node(i, j).Add(graph.V3(0, y+l, 0)), parts.Ledger(p, d)))
			}
		}
	}
	return rails
}

// Post builds a standard of length h set on a column top at height top,
// joined by a bolted spigot and a locking pin. Guardrails and roof columns
// use it.
func Post(p *catalog.Palette, top, h float64) *graph.Node {
	return graph.Group("post",
		graph.At(graph.V3(0, top-parts.SpigotLength/2, 0), parts.Spigot(p, "withBolt")),
		graph.At(graph.V3(0, top-0.15, 0), parts.Bolt(p)),
		graph.At(graph.V3(0, top+0.15, 0), parts.LockingPin(p)),
		graph.At(graph.V3(0, top, 0), parts.Standard(p, h, "withoutSpigot")),
	)
}
