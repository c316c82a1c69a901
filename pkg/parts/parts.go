// Package parts builds the geometry of single catalog items. Every builder
// returns one part node carrying the catalog record, with the item's
// primitives in the part's local frame:
//
//   - standards, jacks, collars and spigots stand on y=0 and grow up +Y;
//   - ledgers, U-ledgers, lattice girders, decks and truss segments run
//     along +X from x=0 to their nominal length;
//   - braces are centred on the origin along local Y, ready for
//     graph.Between.
//
// Builders take the shared catalog palette by pointer; a nil palette means
// catalog.Default().
package parts

import (
	"errors"
	"fmt"
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
)

// StandOffset is the gap between a standard's axis and the mating face of
// a wedge head. Every member that hangs on a rosette starts there.
const StandOffset = 0.025

var (
	// ErrDimension is returned for a non-positive or non-finite dimension.
	ErrDimension = errors.New("dimension must be positive")
	// ErrUnknownType is returned for a type tag no builder handles.
	ErrUnknownType = errors.New("unknown part type")
)

// CreatePart builds one item with the default palette.
func CreatePart(t catalog.Type, dimension float64, variant string) (*graph.Node, error) {
	return Create(catalog.Default(), t, dimension, variant)
}

// Create builds one item. The dimension is the item's nominal length, or
// the diagonal length for braces, the extension for base jacks and the
// chain length for hoists. Fixed-size items ignore it beyond checking that
// it is positive. Dimensions missing from the catalog still yield a part,
// carrying the linear fallback weight.
func Create(p *catalog.Palette, t catalog.Type, dimension float64, variant string) (*graph.Node, error) {
	if !(dimension > 0) || math.IsInf(dimension, 1) {
		return nil, fmt.Errorf("parts: %s %v: %w", t, dimension, ErrDimension)
	}
	p = palette(p)

	switch t {
	case catalog.Standard:
		return Standard(p, dimension, variant), nil
	case catalog.Ledger:
		return Ledger(p, dimension), nil
	case catalog.ULedger:
		return ULedger(p, dimension, variant), nil
	case catalog.Brace:
		return Brace(p, dimension), nil
	case catalog.Tube:
		return Tube(p, dimension, variant), nil
	case catalog.ULatticeAlu, catalog.ULatticeLW, catalog.OLatticeLW:
		return LatticeGirder(p, t, dimension), nil
	case catalog.Deck:
		return Deck(p, dimension, DeckWidth, variant), nil
	case catalog.BaseJack:
		return BaseJack(p, dimension), nil
	case catalog.WoodPad:
		return WoodPad(p), nil
	case catalog.BaseCollar:
		return BaseCollar(p), nil
	case catalog.Spigot:
		return Spigot(p, variant), nil
	case catalog.LockingPin:
		return LockingPin(p), nil
	case catalog.Bolt:
		return Bolt(p), nil
	case catalog.Stairs:
		return Stairs(p, variant), nil
	case catalog.TrussH30V, catalog.TrussH40V, catalog.TrussH30D:
		return Truss(p, t, dimension), nil
	case catalog.MPTBase:
		return MPTBase(p), nil
	case catalog.MPTSleeve:
		return MPTSleeve(p), nil
	case catalog.MPTTop:
		return MPTTop(p), nil
	case catalog.BoxCorner:
		return BoxCorner(p), nil
	case catalog.RidgeNode:
		return RidgeNode(p), nil
	case catalog.ChainHoist:
		return ChainHoist(p, dimension), nil
	case catalog.Ballast:
		return Ballast(p, variant), nil
	case catalog.Canopy:
		return Canopy(p, dimension, dimension), nil
	case catalog.Scrim:
		return ScrimRect(p, dimension, dimension), nil
	default:
		return nil, fmt.Errorf("parts: %w %q", ErrUnknownType, t)
	}
}

func palette(p *catalog.Palette) *catalog.Palette {
	if p == nil {
		return catalog.Default()
	}
	return p
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// item wraps geometry in a part node carrying the catalog record.
func item(t catalog.Type, nominal float64, variant string, children ...*graph.Node) *graph.Node {
	return graph.Part(catalog.Lookup(t, nominal, variant).PartData(), children...)
}

// rodX is a cylinder of radius r along X from x0 to x1 at height y and
// depth z.
func rodX(name string, r, x0, x1, y, z float64, mat string) *graph.Node {
	return graph.Place("", graph.V3((x0+x1)/2, y, z), graph.V3(0, 0, 90),
		graph.Cylinder(name, r, x1-x0, mat))
}

// rodZ is a cylinder of radius r along Z centred at c.
func rodZ(name string, r, length float64, c graph.Vec3, mat string) *graph.Node {
	return graph.Place("", c, graph.V3(90, 0, 0), graph.Cylinder(name, r, length, mat))
}

// rodY is a cylinder of radius r along Y from y0 to y1 at (x, z).
func rodY(name string, r, y0, y1, x, z float64, mat string) *graph.Node {
	return graph.At(graph.V3(x, (y0+y1)/2, z), graph.Cylinder(name, r, y1-y0, mat))
}

// rod is a cylinder of radius r between two points. It returns nil for
// coincident points.
func rod(name string, r float64, a, b graph.Vec3, mat string) *graph.Node {
	d := a.DistanceTo(b)
	if d < 1e-9 {
		return nil
	}
	n, _ := graph.Between("", a, b, graph.Cylinder(name, r, d, mat))
	return n
}

// box is a box of the given size centred at c.
func box(name string, size, c graph.Vec3, mat string) *graph.Node {
	return graph.At(c, graph.Box(name, size, mat))
}

// endConnectors returns the wedge heads and wedges at both ends of a member
// running along X from 0 to length, hanging on rosettes at height y.
func endConnectors(p *catalog.Palette, length, y float64) []*graph.Node {
	return []*graph.Node{
		graph.At(graph.V3(StandOffset, y, 0), p.WedgeHead(false)),
		graph.At(graph.V3(length-StandOffset, y, 0), p.WedgeHead(true)),
		graph.At(graph.V3(2*StandOffset, y+0.045, 0), p.Wedge()),
		graph.At(graph.V3(length-2*StandOffset, y+0.045, 0), p.Wedge()),
	}
}
