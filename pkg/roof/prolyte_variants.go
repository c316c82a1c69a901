package roof

import (
	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/compose"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// Frame variant limits.
const (
	FrameMinWidth, FrameMaxWidth = 6.0, 14.0
	FrameMinDepth, FrameMaxDepth = 4.0, 12.0
	FrameMidBeamWidth            = 10.0
	frameSleeveGap               = 0.6
	mastHeadroom                 = 1.5
	flatCanopyEdge               = 0.2
)

// clampSpan clamps v into [lo, hi] and logs when it had to.
func clampSpan(log *logger.Logger, name string, v, lo, hi float64) float64 {
	c := min(max(v, lo), hi)
	if c != v {
		log.Warn("prolyte span clamped", "span", name, "value", v, "clamped", c)
	}
	return c
}

// prolyteFrame builds the flat grid on four towers. Spans are clamped to
// the frame limits and wide grids get a mid beam along Z.
func prolyteFrame(p *catalog.Palette, log *logger.Logger, s ProlyteSpec) *graph.Node {
	if !positive(s.Width) || !positive(s.Depth) {
		return skipped(log, "prolyte frame", s.Width, s.Depth)
	}
	w := clampSpan(log, "width", s.Width, FrameMinWidth, FrameMaxWidth)
	d := clampSpan(log, "depth", s.Depth, FrameMinDepth, FrameMaxDepth)
	h := orDefault(s.Height, ProlyteClearance)
	gridY := h + GridLift

	towers := graph.Group("towers")
	for _, c := range corners(w, d) {
		segs := layout.MastSegments(parts.MPTBaseHeight, h+mastHeadroom)
		towers.Add(graph.At(c, Tower(p, segs, h+sleeveLift)))
	}

	grid := perimeterGrid(p, w, d, frameSleeveGap)
	if w > FrameMidBeamWidth {
		spanZ := d - frameSleeveGap
		grid.Add(alongZ(graph.V3(0, 0, -spanZ/2), trussRun(p, catalog.TrussH40V, spanZ)))
	}
	top := graph.At(graph.V3(0, gridY, 0), grid)
	if !s.NoCanopy {
		top.Add(flatCanopy(p, w, d))
	}

	root := graph.Group("roof", towers, top)
	if s.Scrim {
		root.Add(prolyteScrims(p, w, d, gridY))
	}
	if s.Ballast {
		root.Add(towerBallast(p, w, d))
	}
	return root
}

// flatCanopy lies on top of an H40V grid centred on its axis.
func flatCanopy(p *catalog.Palette, w, d float64) *graph.Node {
	y := parts.H40VSize/2 + parts.SheetThickness
	return graph.At(graph.V3(0, y, 0), parts.Canopy(p, w+2*flatCanopyEdge, d+2*flatCanopyEdge))
}

// Layher-base podium.
const (
	PodiumHeight = 1.0
	podiumSize   = layout.ModuleFull
	podiumSleeve = 0.25
	podiumMast   = 2.0
)

// prolyteLayherBase builds the gabled roof on towers standing on 2.07 m
// scaffold podiums one metre high.
func prolyteLayherBase(p *catalog.Palette, log *logger.Logger, s ProlyteSpec) *graph.Node {
	w, d := s.Width, s.Depth
	if !positive(w) || !positive(d) {
		return skipped(log, "prolyte layher_base", w, d)
	}
	h := orDefault(s.Height, ProlyteClearance)
	gridY := h + GridLift
	mastTop := h - PodiumHeight + mastHeadroom

	none := compose.Rails{}
	podiums := graph.Group("podiums")
	towers := graph.Group("towers")
	for _, c := range corners(w, d) {
		pl := compose.BuildPlatform(p, compose.PlatformSpec{
			Width: podiumSize, Depth: podiumSize, Height: PodiumHeight, Rails: &none,
		})
		podiums.Add(graph.At(c, pl.Node))
		segs := layout.FillSegments(mastTop-parts.MPTBaseHeight, podiumMast)
		towers.Add(graph.At(c.Add(graph.V3(0, PodiumHeight, 0)), Tower(p, segs, h-PodiumHeight+podiumSleeve)))
	}

	root := graph.Group("roof", podiums, towers,
		graph.At(graph.V3(0, gridY, 0), gable(p, w, d, parts.MPTSleeveWidth, !s.NoCanopy)))
	if s.Scrim {
		root.Add(prolyteScrims(p, w, d, gridY))
	}
	if s.Ballast {
		root.Add(towerBallast(p, w, d))
	}
	return root
}

// Suspended variant dimensions.
const (
	SupportSpreadX   = 3.0 // support towers stand this much wider than the grid
	SupportSpreadZ   = 2.0
	SupportOverrun   = 2.0 // support towers rise this much above the grid
	supportSize      = layout.ModuleFull
	supportLedgerGap = 2.0
	armLength        = 2.5
	armDrop          = 0.5
	hookInset        = 0.2
	hoistChain       = 0.3
	chainRadius      = 0.015
)

// prolyteSuspended builds a flat grid hung by chains from cantilever arms
// on four scaffold support towers standing outside it.
func prolyteSuspended(p *catalog.Palette, log *logger.Logger, s ProlyteSpec) *graph.Node {
	w, d := s.Width, s.Depth
	if !positive(w) || !positive(d) {
		return skipped(log, "prolyte suspended", w, d)
	}
	h := orDefault(s.Height, SuspendedHeight)

	grid := perimeterGrid(p, w, d, parts.H40VSize)
	for _, c := range corners(w, d) {
		grid.Add(graph.At(c, parts.BoxCorner(p)))
	}
	top := graph.At(graph.V3(0, h, 0), grid)
	if !s.NoCanopy {
		top.Add(flatCanopy(p, w, d))
	}

	th := h + SupportOverrun
	supports := graph.Group("supports")
	for _, c := range corners(w+SupportSpreadX, d+SupportSpreadZ) {
		t, topY := SupportTower(p, th)
		supports.Add(graph.At(c, t))

		dir := 1.0
		if c.X > 0 {
			dir = -1
		}
		armY := topY - armDrop
		hook := graph.V3(c.X+dir*(armLength-hookInset), armY-0.1, c.Z)
		corner := graph.V3(sign(c.X)*w/2, h+parts.H40VSize/2, sign(c.Z)*d/2)
		const hoistBody = 0.47
		chainTop := hook.Add(graph.V3(0, -hoistBody-hoistChain, 0))
		supports.Add(graph.Group("rigging",
			graph.At(graph.V3(c.X+dir*armLength/2, armY, c.Z),
				graph.Box("arm", graph.V3(armLength, 0.2, 0.1), catalog.MatBlackSteel)),
			graph.At(hook, parts.ChainHoist(p, hoistChain)),
			link("chain", chainRadius, chainTop, corner, catalog.MatBlackSteel),
		))
		if s.Ballast {
			supports.Add(graph.At(c, parts.Ballast(p, "")))
		}
	}

	root := graph.Group("roof", supports, top)
	if s.Scrim {
		root.Add(prolyteScrims(p, w, d, h))
	}
	return root
}

// SupportTower builds a 2.07 m square scaffold tower of height th centred
// on the origin: four greedy columns tied by O-ledgers every two metres.
// It returns the tower and the elevation of its column tops.
func SupportTower(p *catalog.Palette, th float64) (*graph.Node, float64) {
	half := supportSize / 2
	t := graph.Group("support-tower")
	top := 0.0
	for _, x := range []float64{-half, half} {
		for _, z := range []float64{-half, half} {
			col, y := compose.GreedyColumn(p, x, z, th)
			t.Add(col)
			top = y
		}
	}
	for y := compose.GreedyFirstStand + supportLedgerGap; y <= top-0.1; y += supportLedgerGap {
		t.Add(
			graph.At(graph.V3(-half, y, -half), parts.Ledger(p, supportSize)),
			graph.At(graph.V3(-half, y, half), parts.Ledger(p, supportSize)),
			alongZ(graph.V3(-half, y, -half), parts.Ledger(p, supportSize)),
			alongZ(graph.V3(half, y, -half), parts.Ledger(p, supportSize)),
		)
	}
	return t, top
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
