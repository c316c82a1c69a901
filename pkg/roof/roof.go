// Package roof synthesizes the roofs that stand over a stage or a FOH
// stand: the Layher sloped roof, the Prolyte MPT family and the sloped FOH
// roof, with their canopies, valances and mesh scrims.
//
// Every synthesizer returns a fresh group in the coordinates of the stage
// it covers: centred in X and Z, +Z toward the audience, y=0 on the
// surface the roof stands on. A roof with a non-positive span is skipped
// with a warning rather than built degenerate. Scrims close the back and
// the two sides, never the front.
package roof

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// ScrimOffset is how far scrims stand outside the structure they close.
const ScrimOffset = 0.05

// RafterRadius is the radius of the tube rafters carrying sloped canopies.
const RafterRadius = 0.024

// RafterOverrun is how far a rafter runs past each eave girder.
const RafterOverrun = 0.1

// rafter lays a tube rafter between the eave points a and b, extended by
// RafterOverrun past both. It returns the tube length.
func rafter(p *catalog.Palette, a, b graph.Vec3) (*graph.Node, float64) {
	over := b.Sub(a).Normalize().Scale(RafterOverrun)
	n, l := graph.Between("", a.Sub(over), b.Add(over))
	n.Add(parts.Tube(p, l, "alu"))
	return n, l
}

// skipped logs the zero-span guard and returns an empty roof group.
func skipped(log *logger.Logger, name string, width, depth float64) *graph.Node {
	log.Warn("roof span not positive, skipping canopy and scrims",
		"roof", name, "width", width, "depth", depth)
	return graph.Group("roof")
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}

// pitch returns Euler angles tilting a sheet lying in the XZ plane so that
// it rises by rise from its -Z edge to its +Z edge over span.
func pitch(rise, span float64) graph.Vec3 {
	return graph.V3(-graph.Deg(math.Atan2(rise, span)), 0, 0)
}

// sideScrim builds a scrim in the YZ plane at x, standing on y=0 and
// running from z0 (height h0) to z1 (height h1).
func sideScrim(p *catalog.Palette, x, z0, h0, z1, h1 float64) *graph.Node {
	outline := []graph.Vec2{
		{X: -z0, Y: 0}, {X: -z1, Y: 0}, {X: -z1, Y: h1}, {X: -z0, Y: h0},
	}
	return graph.Place("", graph.V3(x, 0, 0), graph.V3(0, 90, 0), parts.Scrim(p, outline))
}

// backScrim builds a rectangular scrim w wide and h high standing on y=0
// at depth z.
func backScrim(p *catalog.Palette, w, h, z float64) *graph.Node {
	return graph.At(graph.V3(0, 0, z), parts.ScrimRect(p, w, h))
}

// skirt builds the valances hanging drop below the edges of a pitched
// canopy w wide. The canopy plane passes through height yNeg at z=-d/2 and
// yPos at z=+d/2; the valances reach reach beyond both ends.
func skirt(p *catalog.Palette, w, d, yNeg, yPos, drop, reach float64) *graph.Node {
	slope := (yPos - yNeg) / d
	mid := (yNeg + yPos) / 2
	at := func(z float64) float64 { return mid + z*slope }
	zf, zb := d/2+reach, -d/2-reach
	half := w/2 + 0.03

	side := func(x float64) *graph.Node {
		outline := []graph.Vec2{
			{X: -zf, Y: at(zf)}, {X: -zb, Y: at(zb)},
			{X: -zb, Y: at(zb) - drop}, {X: -zf, Y: at(zf) - drop},
		}
		return graph.Place("", graph.V3(x, 0, 0), graph.V3(0, 90, 0), parts.Valance(p, outline))
	}
	end := func(z float64) *graph.Node {
		outline := []graph.Vec2{
			{X: -half, Y: -drop / 2}, {X: half, Y: -drop / 2},
			{X: half, Y: drop / 2}, {X: -half, Y: drop / 2},
		}
		return graph.At(graph.V3(0, at(z)-drop/2, z), parts.Valance(p, outline))
	}
	return graph.Group("valances", side(-half), side(half), end(zf), end(zb))
}

// link is a plain cylinder between two points, for wires and chains that
// carry no catalog record of their own.
func link(name string, r float64, a, b graph.Vec3, mat string) *graph.Node {
	d := a.DistanceTo(b)
	if d < 1e-9 {
		return nil
	}
	n, _ := graph.Between("", a, b, graph.Cylinder(name, r, d, mat))
	return n
}

// trussLengths are the cataloged truss segment lengths, longest first.
var trussLengths = []float64{4.0, 3.0, 2.5, 2.0, 1.5, 1.0, 0.5}

// trussSegments splits a run into cataloged segments, longest first. A
// remainder shorter than the smallest segment is closed with a custom one
// unless it is below 5 cm.
func trussSegments(length float64) []float64 {
	if !positive(length) {
		return nil
	}
	var segs []float64
	rest := length
	for _, l := range trussLengths {
		for rest >= l-1e-9 && len(segs) < 256 {
			segs = append(segs, l)
			rest -= l
		}
	}
	if rest > 0.05 {
		segs = append(segs, rest)
	}
	return segs
}

// trussRun builds a run of truss segments along +X from 0 to length.
func trussRun(p *catalog.Palette, t catalog.Type, length float64) *graph.Node {
	run := graph.Group("truss")
	x := 0.0
	for _, l := range trussSegments(length) {
		run.Add(graph.At(graph.V3(x, 0, 0), parts.Truss(p, t, l)))
		x += l
	}
	return run
}

// alongZ turns a member built along +X to run along +Z from at.
func alongZ(at graph.Vec3, member *graph.Node) *graph.Node {
	return graph.Place("", at, graph.V3(0, -90, 0), member)
}

// corners returns the four corners of a w by d rectangle centred on the
// origin, back row first.
func corners(w, d float64) []graph.Vec3 {
	return []graph.Vec3{
		graph.V3(-w/2, 0, -d/2), graph.V3(w/2, 0, -d/2),
		graph.V3(-w/2, 0, d/2), graph.V3(w/2, 0, d/2),
	}
}
