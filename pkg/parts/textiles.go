package parts

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
)

// SheetThickness is the modelled thickness of membranes and mesh.
const SheetThickness = 0.01

// Canopy builds a flat membrane of width w along X and length l along Z,
// centred on the origin.
func Canopy(p *catalog.Palette, w, l float64) *graph.Node {
	spec := catalog.LookupArea(catalog.Canopy, l, w, "")
	return graph.Part(spec.PartData(), graph.Box("membrane", graph.V3(w, SheetThickness, l), catalog.MatCanopy))
}

// CanopyProfile builds a membrane with the given XY cross-section
// extruded along Z over depth. Its weight uses half the outline's
// perimeter as the membrane width.
func CanopyProfile(p *catalog.Palette, profile []graph.Vec2, depth float64) *graph.Node {
	spec := catalog.LookupArea(catalog.Canopy, depth, perimeter(profile)/2, "")
	return graph.Part(spec.PartData(), graph.Prism("membrane", profile, depth, catalog.MatCanopy))
}

// Valance builds a membrane skirt with the given outline in the XY plane.
func Valance(p *catalog.Palette, outline []graph.Vec2) *graph.Node {
	area := math.Abs(graph.PolygonArea(outline))
	w := span(outline)
	h := 0.0
	if w > 0 {
		h = area / w
	}
	spec := catalog.LookupArea(catalog.Canopy, w, h, "")
	return graph.Part(spec.PartData(), graph.Prism("valance", outline, SheetThickness, catalog.MatCanopy))
}

// Scrim builds a mesh panel with the given outline in the XY plane.
func Scrim(p *catalog.Palette, outline []graph.Vec2) *graph.Node {
	area := math.Abs(graph.PolygonArea(outline))
	w := span(outline)
	h := 0.0
	if w > 0 {
		h = area / w
	}
	spec := catalog.LookupArea(catalog.Scrim, w, h, "")
	return graph.Part(spec.PartData(), graph.Prism("mesh", outline, SheetThickness, catalog.MatScrim))
}

// ScrimRect builds a rectangular mesh panel of width w standing on y=0,
// centred in X.
func ScrimRect(p *catalog.Palette, w, h float64) *graph.Node {
	return Scrim(p, []graph.Vec2{{X: -w / 2, Y: 0}, {X: w / 2, Y: 0}, {X: w / 2, Y: h}, {X: -w / 2, Y: h}})
}

func perimeter(pts []graph.Vec2) float64 {
	var sum float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		sum += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return sum
}

func span(pts []graph.Vec2) float64 {
	if len(pts) == 0 {
		return 0
	}
	lo, hi := pts[0].X, pts[0].X
	for _, q := range pts[1:] {
		lo, hi = min(lo, q.X), max(hi, q.X)
	}
	return hi - lo
}
