package roof

import (
	"strings"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// Variant selects a Prolyte MPT roof layout.
type Variant int

const (
	VariantStandard   Variant = iota // gabled roof on four MPT towers
	VariantFrame                     // flat grid on four MPT towers
	VariantLayherBase                // gabled roof on towers set on scaffold podiums
	VariantSuspended                 // flat grid hung from four scaffold towers
)

var variantNames = [...]string{"standard", "frame", "layher_base", "suspended"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "unknown"
	}
	return variantNames[v]
}

// ParseVariant resolves a variant name. Unknown names resolve to
// VariantStandard with ok false; the empty name is the standard variant.
func ParseVariant(name string) (v Variant, ok bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return VariantStandard, true
	}
	for i, s := range variantNames {
		if s == n {
			return Variant(i), true
		}
	}
	return VariantStandard, false
}

// Prolyte roof dimensions.
const (
	ProlyteWidth     = 12.0
	ProlyteDepth     = 10.0
	ProlyteClearance = 7.0
	SuspendedHeight  = 8.0

	GridLift       = 0.20 // clearance to the grid axis
	RidgeRise      = 1.8
	Cantilever     = 2.0
	mastOverrun    = 2.0
	sleeveLift     = 0.30
	rafterEave     = 0.20
	canopyOverhang = 0.4
	canopyBase     = 0.35
	canopyTrim     = 0.1
	canopyFilm     = 0.02
	scrimSideShare = 0.7
	wireRadius     = 0.005
)

// ProlyteSpec sizes a Prolyte MPT roof. Width and depth are the tower
// spacing; Height is the clearance under the grid and takes the variant's
// default when zero.
type ProlyteSpec struct {
	Variant      Variant
	Width, Depth float64
	Height       float64
	NoCanopy     bool
	Scrim        bool
	Ballast      bool
}

// Prolyte builds a Prolyte MPT roof. An unknown variant is built as the
// standard one and logged.
func Prolyte(p *catalog.Palette, log *logger.Logger, s ProlyteSpec) *graph.Node {
	switch s.Variant {
	case VariantStandard:
		return prolyteStandard(p, log, s)
	case VariantFrame:
		return prolyteFrame(p, log, s)
	case VariantLayherBase:
		return prolyteLayherBase(p, log, s)
	case VariantSuspended:
		return prolyteSuspended(p, log, s)
	default:
		log.Warn("unknown prolyte variant, using standard", "variant", int(s.Variant))
		s.Variant = VariantStandard
		return prolyteStandard(p, log, s)
	}
}

func orDefault(f, def float64) float64 {
	if !positive(f) {
		return def
	}
	return f
}

func prolyteStandard(p *catalog.Palette, log *logger.Logger, s ProlyteSpec) *graph.Node {
	w, d := s.Width, s.Depth
	if !positive(w) || !positive(d) {
		return skipped(log, "prolyte", w, d)
	}
	clearance := orDefault(s.Height, ProlyteClearance)
	gridY := clearance + GridLift

	root := graph.Group("roof")
	towers := graph.Group("towers")
	for _, c := range corners(w, d) {
		segs := layout.MastSegments(parts.MPTBaseHeight, clearance+mastOverrun)
		towers.Add(graph.At(c, Tower(p, segs, clearance+sleeveLift)))
	}
	root.Add(towers, graph.At(graph.V3(0, gridY, 0), gable(p, w, d, parts.MPTSleeveWidth, !s.NoCanopy)))
	if s.Scrim {
		root.Add(prolyteScrims(p, w, d, gridY))
	}
	if s.Ballast {
		root.Add(towerBallast(p, w, d))
	}
	return root
}

// Tower builds an MPT tower standing on y=0: the base, an H30V mast of the
// given segments, the sleeve block centred at sleeveY, the top section on
// the mast and the chain hoist that lifts the sleeve.
func Tower(p *catalog.Palette, segments []float64, sleeveY float64) *graph.Node {
	t := graph.Group("tower", parts.MPTBase(p))
	y := parts.MPTBaseHeight
	for _, l := range segments {
		t.Add(graph.Place("", graph.V3(0, y, 0), graph.V3(0, 0, 90), parts.Truss(p, catalog.TrussH30V, l)))
		y += l
	}
	t.Add(
		graph.At(graph.V3(0, sleeveY, 0), parts.MPTSleeve(p)),
		graph.At(graph.V3(0, y, 0), parts.MPTTop(p)),
	)
	const hook, body = 0.2, 0.47
	if chain := y + hook - body - (sleeveY + parts.MPTSleeveHeight/2); chain > 0 {
		t.Add(graph.At(graph.V3(parts.H30VSize/2+0.15, y+hook, 0), parts.ChainHoist(p, chain)))
	}
	return t
}

// perimeterGrid builds four H40V runs on the grid axis y=0 between towers
// w by d apart, leaving gap at every corner for the sleeve.
func perimeterGrid(p *catalog.Palette, w, d, gap float64) *graph.Node {
	spanX, spanZ := w-gap, d-gap
	return graph.Group("grid",
		graph.At(graph.V3(-spanX/2, 0, -d/2), trussRun(p, catalog.TrussH40V, spanX)),
		graph.At(graph.V3(-spanX/2, 0, d/2), trussRun(p, catalog.TrussH40V, spanX)),
		alongZ(graph.V3(-w/2, 0, -spanZ/2), trussRun(p, catalog.TrussH40V, spanZ)),
		alongZ(graph.V3(w/2, 0, -spanZ/2), trussRun(p, catalog.TrussH40V, spanZ)),
	)
}

// gable builds the gabled roof on the grid axis: the perimeter grid, ridge
// supports on the back and front beams, the ridge beam cantilevered over
// the audience, H30D rafters from both eaves to the ridge, tension wires
// holding the cantilever and the canopy.
func gable(p *catalog.Palette, w, d, gap float64, canopy bool) *graph.Node {
	size := parts.H40VSize
	ridgeY := RidgeRise + size
	g := graph.Group("gable", perimeterGrid(p, w, d, gap))

	for _, z := range []float64{-d / 2, d / 2} {
		g.Add(graph.At(graph.V3(0, size/2, z), ridgeSupport(p)))
	}
	g.Add(graph.Group("ridge", alongZ(graph.V3(0, ridgeY, -d/2), trussRun(p, catalog.TrussH40V, d+Cantilever))))

	rafters := graph.Group("rafters")
	for _, z := range []float64{-d / 2, -d / 6, d / 6, d / 2, d/2 + Cantilever} {
		for _, sx := range []float64{-1, 1} {
			eave := graph.V3(sx*w/2, rafterEave, z)
			ridge := graph.V3(0, RidgeRise+rafterEave, z)
			dir := ridge.Sub(eave)
			rafters.Add(graph.Place("", eave, graph.AlignX(dir), parts.Truss(p, catalog.TrussH30D, dir.Length())))
		}
	}
	g.Add(rafters)

	tip := graph.V3(0, RidgeRise+0.4, d/2+Cantilever)
	g.Add(graph.Group("tension",
		link("wire", wireRadius, tip, graph.V3(-w/2, 0, d/2), catalog.MatBlackSteel),
		link("wire", wireRadius, tip, graph.V3(w/2, 0, d/2), catalog.MatBlackSteel),
	))

	if canopy {
		depth := d + Cantilever + 2*canopyTrim
		g.Add(graph.At(graph.V3(0, canopyBase, Cantilever/2),
			parts.CanopyProfile(p, chevron(w/2+canopyOverhang, RidgeRise+0.25, canopyFilm), depth)))
	}
	return g
}

// ridgeSupport builds the post that carries the ridge beam above a grid
// beam: a box corner on the beam, a vertical H40V spacer and the ridge
// node. Its origin is the top of the grid beam.
func ridgeSupport(p *catalog.Palette) *graph.Node {
	size := parts.H40VSize
	const node = 0.25
	s := graph.Group("ridge-support", graph.At(graph.V3(0, size/2, 0), parts.BoxCorner(p)))
	if spacer := RidgeRise - node - size; spacer > 0 {
		s.Add(graph.Place("", graph.V3(0, size, 0), graph.V3(0, 0, 90), parts.Truss(p, catalog.TrussH40V, spacer)))
	}
	return s.Add(graph.At(graph.V3(0, RidgeRise-node, 0), parts.RidgeNode(p)))
}

// chevron is the cross-section of a gabled membrane: an outer gable of
// half width a and apex h with an inner one film below it.
func chevron(a, h, film float64) []graph.Vec2 {
	k := film * a / h
	return []graph.Vec2{
		{X: -a, Y: 0}, {X: 0, Y: h}, {X: a, Y: 0},
		{X: a - k, Y: 0}, {X: 0, Y: h - film}, {X: -a + k, Y: 0},
	}
}

// prolyteScrims closes the back and the rear share of both sides from the
// ground up to height h.
func prolyteScrims(p *catalog.Palette, w, d, h float64) *graph.Node {
	side := d * scrimSideShare
	return graph.Group("scrims",
		backScrim(p, w, h, -d/2),
		sideScrim(p, -w/2, -d/2, h, -d/2+side, h),
		sideScrim(p, w/2, -d/2, h, -d/2+side, h),
	)
}

// towerBallast sets a ballast tank outside every tower of a w by d roof.
func towerBallast(p *catalog.Palette, w, d float64) *graph.Node {
	const reach = 2.0
	b := graph.Group("ballast")
	for _, c := range corners(w, d) {
		sx := 1.0
		if c.X < 0 {
			sx = -1
		}
		b.Add(graph.At(c.Add(graph.V3(sx*reach, 0, 0)), parts.Ballast(p, "")))
	}
	return b
}
