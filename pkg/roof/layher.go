package roof

import (
	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/compose"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// Layher roof dimensions.
const (
	LayherMaxWidth   = 3 * layout.ModuleFull
	LayherFrontEave  = 3.0
	LayherBackEave   = 2.5
	LayherRafters    = 7
	layherValance    = 0.6
	layherReach      = 0.2
	layherCanopyLift = 0.03
	layherCanopyEdge = 0.03
	layherCanopyTail = 0.4
)

// LayherSpec sizes a Layher sloped roof. Zero eaves take the defaults.
type LayherSpec struct {
	Width, Depth float64
	Front, Back  float64 // eave heights above the deck
	Scrim        bool
}

// Layher builds the sloped Layher roof standing on the stage deck: four
// posts, an O-lattice girder along the front and back eaves, seven tube
// rafters falling from front to back past both girders, the canopy with
// its valances and, on request, scrims on the back and both sides. The
// width is capped at three modules.
func Layher(p *catalog.Palette, log *logger.Logger, s LayherSpec) *graph.Node {
	w, d := s.Width, s.Depth
	if !positive(w) || !positive(d) {
		return skipped(log, "layher", w, d)
	}
	if w > LayherMaxWidth+1e-9 {
		log.Warn("layher roof width clamped", "width", w, "max", LayherMaxWidth)
		w = LayherMaxWidth
	}
	front, back := s.Front, s.Back
	if front <= 0 {
		front = LayherFrontEave
	}
	if back <= 0 {
		back = LayherBackEave
	}
	plane := layout.RoofPlane{Front: front, Back: back, Span: d}

	root := graph.Group("roof")
	posts := graph.Group("posts")
	for _, c := range corners(w, d) {
		h := back
		if c.Z > 0 {
			h = front
		}
		posts.Add(graph.At(c, compose.Post(p, 0, roofStandard(h, c.Z < 0))))
	}

	girders := graph.Group("girders",
		graph.At(graph.V3(-w/2, front-parts.GirderHeight, d/2), parts.LatticeGirder(p, catalog.OLatticeLW, w)),
		graph.At(graph.V3(-w/2, back-parts.GirderHeight, -d/2), parts.LatticeGirder(p, catalog.OLatticeLW, w)),
	)

	yF, yB := front+RafterRadius, back+RafterRadius
	rafters := graph.Group("rafters")
	for i := 0; i < LayherRafters; i++ {
		x := -w/2 + float64(i)*w/float64(LayherRafters-1)
		n, _ := rafter(p, graph.V3(x, yF, d/2), graph.V3(x, yB, -d/2))
		rafters.Add(n)
	}

	mid := (yF+yB)/2 + layherCanopyLift
	half := plane.Drop() / 2
	canopy := graph.Group("canopy",
		graph.Place("", graph.V3(0, mid, 0), pitch(plane.Drop(), d),
			parts.Canopy(p, w+2*layherCanopyEdge, plane.Length()+2*layherCanopyEdge+layherCanopyTail)),
		skirt(p, w, d, mid-half, mid+half, layherValance, layherReach),
	)
	root.Add(posts, girders, rafters, canopy)

	if s.Scrim {
		hF, hB := yF+0.02, yB+0.02
		o := ScrimOffset
		root.Add(graph.Group("scrims",
			backScrim(p, w+2*o, hB, -d/2-o),
			sideScrim(p, -w/2-o, -d/2-o, hB, d/2+o, hF),
			sideScrim(p, w/2+o, -d/2-o, hB, d/2+o, hF),
		))
	}
	return root
}

// roofStandard picks the post standard for an eave height. Back posts are
// always 2.5 m.
func roofStandard(h float64, isBack bool) float64 {
	switch {
	case isBack:
		return 2.5
	case h >= 3.8:
		return 4.0
	case h >= 2.8:
		return 3.0
	case h >= 2.3:
		return 2.5
	case h >= 1.8:
		return 2.0
	default:
		return 1.0
	}
}
