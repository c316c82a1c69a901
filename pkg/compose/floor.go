package compose

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// LedgerGrid places O-ledgers on every grid edge along both axes at
// height y.
func LedgerGrid(p *catalog.Palette, g layout.Grid, y float64) *graph.Node {
	grid := graph.Group("ledgers")
	if g.Empty() {
		return grid
	}
	for j := 0; j <= g.NZ(); j++ {
		for i, w := range g.BaysX {
			grid.Add(alongX(g.Node(i, j).Add(graph.V3(0, y, 0)), parts.Ledger(p, w)))
		}
	}
	for i := 0; i <= g.NX(); i++ {
		for j, d := range g.BaysZ {
			grid.Add(alongZ(g.Node(i, j).Add(graph.V3(0, y, 0)), parts.Ledger(p, d)))
		}
	}
	return grid
}

// spansX reports whether decks in a cell span along X. Only a half-wide
// cell over a full-depth bay turns its decks to span along Z.
func spansX(w, d float64) bool {
	return !(w < layout.ModuleFull-layout.RemainderThreshold && d >= layout.ModuleFull-layout.RemainderThreshold)
}

// BuildFloorLevel places the ledgers and decks of one floor hanging on the
// rosettes at height y. With a Layher floor every edge a deck rests on
// carries a U-ledger and every other edge an O-ledger; a Peri floor puts
// O-ledgers everywhere and one Peri bay on each cell. Guardrails are
// added only when isTop is set.
func BuildFloorLevel(p *catalog.Palette, g layout.Grid, y float64, isTop bool, f Floor) *graph.Node {
	f = f.withDefaults()
	level := graph.Group("floor")
	if g.Empty() {
		return level
	}

	if f.Kind == FloorPeri {
		level.Add(LedgerGrid(p, g, y))
		bays := graph.Group("decks")
		top := y + p.TubeRadius
		for _, c := range g.Cells() {
			bays.Add(graph.At(graph.V3(c.Origin.X, top, c.Origin.Z+c.D/2), parts.PeriBay(p, c.W, c.D)))
		}
		level.Add(bays)
	} else {
		level.Add(layherLedgers(p, g, y, f.Bearer), layherDecks(p, g, y+DeckLift, f.Deck))
	}

	if isTop {
		level.Add(Guardrails(p, g, y, f.Rails))
	}
	return level
}

// cellSpansX reports the deck direction of cell (i, j), false outside the
// grid.
func cellSpansX(g layout.Grid, i, j int) (x, inside bool) {
	if i < 0 || j < 0 || i >= g.NX() || j >= g.NZ() {
		return false, false
	}
	return spansX(g.BaysX[i], g.BaysZ[j]), true
}

func layherLedgers(p *catalog.Palette, g layout.Grid, y float64, bearer string) *graph.Node {
	ledgers := graph.Group("ledgers")
	lift := graph.V3(0, y, 0)

	// Edges along Z on x-line i bear decks of X-spanning cells beside them.
	for i := 0; i <= g.NX(); i++ {
		for j, d := range g.BaysZ {
			left, inL := cellSpansX(g, i-1, j)
			right, inR := cellSpansX(g, i, j)
			at := g.Node(i, j).Add(lift)
			if (inL && left) || (inR && right) {
				ledgers.Add(alongZ(at, parts.ULedger(p, d, bearer)))
			} else {
				ledgers.Add(alongZ(at, parts.Ledger(p, d)))
			}
		}
	}
	// Edges along X on z-line j bear decks of Z-spanning cells beside them.
	for j := 0; j <= g.NZ(); j++ {
		for i, w := range g.BaysX {
			back, inB := cellSpansX(g, i, j-1)
			front, inF := cellSpansX(g, i, j)
			at := g.Node(i, j).Add(lift)
			if (inB && !back) || (inF && !front) {
				ledgers.Add(alongX(at, parts.ULedger(p, w, bearer)))
			} else {
				ledgers.Add(alongX(at, parts.Ledger(p, w)))
			}
		}
	}
	return ledgers
}

// deckCount is the number of DeckWidth panels tiling a span.
func deckCount(span float64) int {
	return max(1, int(math.Round(span/parts.DeckWidth)))
}

func layherDecks(p *catalog.Palette, g layout.Grid, y float64, variant string) *graph.Node {
	decks := graph.Group("decks")
	for _, c := range g.Cells() {
		x, z := c.Origin.X, c.Origin.Z
		if spansX(c.W, c.D) {
			n := deckCount(c.D)
			for k := 0; k < n; k++ {
				zc := z + c.D*(float64(k)+0.5)/float64(n)
				decks.Add(alongX(graph.V3(x+DeckGap/2, y, zc), parts.Deck(p, c.W-DeckGap, parts.DeckWidth, variant)))
			}
			continue
		}
		n := deckCount(c.W)
		for k := 0; k < n; k++ {
			xc := x + c.W*(float64(k)+0.5)/float64(n)
			decks.Add(alongZ(graph.V3(xc, y, z+DeckGap/2), parts.Deck(p, c.D-DeckGap, parts.DeckWidth, variant)))
		}
	}
	return decks
}
