package parts

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
)

// ---------------------------------------------------------------------------
// Truss segments
// ---------------------------------------------------------------------------

// Truss cross-sections, chord centre to chord centre.
const (
	H40VSize = 0.39
	H30VSize = 0.29

	trussChordR   = 0.024
	trussBraceR   = 0.010
	trussPitch    = 0.5
	couplerLength = 0.05
	couplerRadius = 0.03
	maxTrussSteps = 400
)

// TrussSize returns the chord spacing of a truss type.
func TrussSize(t catalog.Type) float64 {
	if t == catalog.TrussH40V {
		return H40VSize
	}
	return H30VSize
}

// trussChords returns the chord positions in the YZ plane (X holds y, Y
// holds z). Square trusses are centred; the triangular H30D has its apex
// up.
func trussChords(t catalog.Type) []graph.Vec2 {
	s := TrussSize(t)
	h := s / 2
	if t == catalog.TrussH30D {
		tri := s * math.Sqrt(3) / 2
		return []graph.Vec2{{X: -tri / 3, Y: -h}, {X: -tri / 3, Y: h}, {X: 2 * tri / 3, Y: 0}}
	}
	return []graph.Vec2{{X: -h, Y: -h}, {X: -h, Y: h}, {X: h, Y: h}, {X: h, Y: -h}}
}

// Truss builds a truss segment along +X from 0 to length. Every face
// between two adjacent chords gets a zig-zag lacing; both ends get an end
// frame and conical couplers.
func Truss(p *catalog.Palette, t catalog.Type, length float64) *graph.Node {
	spec := catalog.Lookup(t, length, "")
	mat := spec.Material
	chords := trussChords(t)

	var g []*graph.Node
	for _, c := range chords {
		g = append(g,
			rodX("chord", trussChordR, 0, length, c.X, c.Y, mat),
			rodX("coupler", couplerRadius, 0, min(couplerLength, length), c.X, c.Y, catalog.MatHighSteel),
			rodX("coupler", couplerRadius, max(0, length-couplerLength), length, c.X, c.Y, catalog.MatHighSteel),
		)
	}

	steps := min(max(1, int(math.Ceil(length/trussPitch))), maxTrussSteps)
	dx := length / float64(steps)
	for f := range chords {
		a, b := chords[f], chords[(f+1)%len(chords)]
		for k := 0; k < steps; k++ {
			from, to := a, b
			if k%2 == 1 {
				from, to = b, a
			}
			g = append(g, rod("lacing", trussBraceR,
				graph.V3(float64(k)*dx, from.X, from.Y),
				graph.V3(float64(k+1)*dx, to.X, to.Y), mat))
		}
		for _, x := range []float64{StandOffset, length - StandOffset} {
			g = append(g, rod("end-frame", trussBraceR, graph.V3(x, a.X, a.Y), graph.V3(x, b.X, b.Y), mat))
		}
	}
	return graph.Part(spec.PartData(), g...)
}

// ---------------------------------------------------------------------------
// MPT tower
// ---------------------------------------------------------------------------

// MPT tower geometry.
const (
	MPTBaseHeight   = 0.2 // the mast starts here
	MPTSleeveHeight = 0.6
	MPTSleeveWidth  = 0.55
	MPTTopHeight    = 0.3

	mptBaseHalf     = 0.3
	outriggerLength = 1.5
	outriggerRadius = 0.03
)

// MPTBase builds the tower base standing on y=0: a beam frame, four mast
// couplers and four outriggers on levelling jacks.
func MPTBase(p *catalog.Palette) *graph.Node {
	const beamH, beamW = 0.15, 0.08
	h := mptBaseHalf
	y := MPTBaseHeight - beamH/2 - 0.005
	mast := H30VSize / 2

	g := []*graph.Node{
		box("beam", graph.V3(2*h, beamH, beamW), graph.V3(0, y, -(h - beamW/2)), catalog.MatAlu),
		box("beam", graph.V3(2*h, beamH, beamW), graph.V3(0, y, h-beamW/2), catalog.MatAlu),
		box("beam", graph.V3(beamW, beamH, 2*h), graph.V3(-(h - beamW/2), y, 0), catalog.MatAlu),
		box("beam", graph.V3(beamW, beamH, 2*h), graph.V3(h-beamW/2, y, 0), catalog.MatAlu),
	}
	for _, sx := range []float64{-1, 1} {
		for _, sz := range []float64{-1, 1} {
			g = append(g, rodY("coupler", couplerRadius, MPTBaseHeight-0.05, MPTBaseHeight+0.05, sx*mast, sz*mast, catalog.MatHighSteel))

			a := graph.V3(sx*h, y, sz*h)
			tip := a.Add(graph.V3(sx, 0, sz).Normalize().Scale(outriggerLength))
			g = append(g,
				rod("outrigger", outriggerRadius, a, tip, catalog.MatAlu),
				rodY("jack", 0.02, 0.01, y, tip.X, tip.Z, catalog.MatGalvNew),
				box("plate", graph.V3(0.15, 0.01, 0.15), graph.V3(tip.X, 0.005, tip.Z), catalog.MatGalvNew),
			)
		}
	}
	return item(catalog.MPTBase, 0, "", g...)
}

// MPTSleeve builds the sleeve block that carries the roof grid, centred on
// the origin.
func MPTSleeve(p *catalog.Palette) *graph.Node {
	w, hh := MPTSleeveWidth/2, MPTSleeveHeight/2
	const bar = 0.05
	post := w - bar/2

	var g []*graph.Node
	for _, sx := range []float64{-1, 1} {
		for _, sz := range []float64{-1, 1} {
			g = append(g, box("post", graph.V3(bar, MPTSleeveHeight, bar), graph.V3(sx*post, 0, sz*post), catalog.MatAlu))
		}
	}
	for _, y := range []float64{-hh + bar/2, hh - bar/2} {
		for _, s := range []float64{-1, 1} {
			g = append(g,
				box("frame", graph.V3(MPTSleeveWidth, bar, bar), graph.V3(0, y, s*post), catalog.MatAlu),
				box("frame", graph.V3(bar, bar, MPTSleeveWidth), graph.V3(s*post, y, 0), catalog.MatAlu),
			)
		}
		for _, s := range []float64{-1, 1} {
			g = append(g, rodZ("roller", 0.03, 0.08, graph.V3(s*(H30VSize/2+0.055), y*0.6, 0), catalog.MatPlasticBlack))
		}
	}
	for _, s := range []float64{-1, 1} {
		g = append(g,
			box("connector", graph.V3(0.06, 0.4, 0.06), graph.V3(s*(w+0.03), 0, 0), catalog.MatHighSteel),
			box("connector", graph.V3(0.06, 0.4, 0.06), graph.V3(0, 0, s*(w+0.03)), catalog.MatHighSteel),
		)
	}
	return item(catalog.MPTSleeve, 0, "", g...)
}

// MPTTop builds the top section standing on y=0 with its chain wheel.
func MPTTop(p *catalog.Palette) *graph.Node {
	const base = 0.35
	return item(catalog.MPTTop, 0, "",
		box("plate", graph.V3(base, 0.02, base), graph.V3(0, 0.01, 0), catalog.MatAlu),
		box("wall", graph.V3(base, 0.25, 0.02), graph.V3(0, 0.145, -(base/2 - 0.01)), catalog.MatAlu),
		box("wall", graph.V3(base, 0.25, 0.02), graph.V3(0, 0.145, base/2-0.01), catalog.MatAlu),
		rodZ("axle", 0.01, base, graph.V3(0, 0.2, 0), catalog.MatHighSteel),
		rodZ("wheel", 0.08, 0.04, graph.V3(0, 0.2, 0), catalog.MatPlasticBlack),
	)
}

// BoxCorner builds an H40V box corner, a cube of chord stubs centred on
// the origin.
func BoxCorner(p *catalog.Palette) *graph.Node {
	h := H40VSize / 2
	var g []*graph.Node
	for _, a := range []float64{-h, h} {
		for _, b := range []float64{-h, h} {
			g = append(g,
				rod("edge", trussChordR, graph.V3(-h, a, b), graph.V3(h, a, b), catalog.MatAlu),
				rod("edge", trussChordR, graph.V3(a, -h, b), graph.V3(a, h, b), catalog.MatAlu),
				rod("edge", trussChordR, graph.V3(a, b, -h), graph.V3(a, b, h), catalog.MatAlu),
			)
			for _, c := range []float64{-h, h} {
				g = append(g, box("node", graph.V3(0.06, 0.06, 0.06), graph.V3(a, b, c), catalog.MatAlu))
			}
		}
	}
	return item(catalog.BoxCorner, H40VSize, "", g...)
}

// RidgeNode builds the gable node where the ridge beam meets the front
// and back spans, centred on the origin.
func RidgeNode(p *catalog.Palette) *graph.Node {
	gable := []graph.Vec2{{X: -0.3, Y: 0}, {X: 0.3, Y: 0}, {X: 0, Y: 0.25}}
	return item(catalog.RidgeNode, 0, "",
		graph.At(graph.V3(0, 0, -0.2), graph.Prism("plate", gable, 0.02, catalog.MatAlu)),
		graph.At(graph.V3(0, 0, 0.2), graph.Prism("plate", gable, 0.02, catalog.MatAlu)),
		rodZ("tube", trussChordR, 0.4, graph.V3(0, 0.2, 0), catalog.MatAlu),
		rodZ("tube", trussChordR, 0.4, graph.V3(0, 0.02, 0), catalog.MatAlu),
	)
}

// ChainHoist builds a chain hoist hanging from its hook at the origin with
// the given length of load chain below the body.
func ChainHoist(p *catalog.Palette, chain float64) *graph.Node {
	const bodyTop, bodyH = -0.12, 0.35
	bottom := bodyTop - bodyH
	return item(catalog.ChainHoist, chain, "",
		rodY("hook", 0.015, bodyTop, 0, 0, 0, catalog.MatHighSteel),
		box("body", graph.V3(0.25, bodyH, 0.22), graph.V3(0, bodyTop-bodyH/2, 0), catalog.MatBlackSteel),
		rodY("chain", 0.01, bottom-chain, bottom, 0, 0, catalog.MatBlackSteel),
	)
}

// ---------------------------------------------------------------------------
// Ballast
// ---------------------------------------------------------------------------

// BallastTankSize is the outer size of an IBC tank.
var BallastTankSize = graph.V3(1.0, 1.0, 1.2)

// Ballast builds a water ballast tank standing on y=0: the tank, its cage
// and a tie-down strap across the top.
func Ballast(p *catalog.Palette, variant string) *graph.Node {
	s := BallastTankSize
	hx, hz := s.X/2, s.Z/2
	g := []*graph.Node{
		box("tank", s, graph.V3(0, s.Y/2, 0), catalog.MatTank),
		box("strap", graph.V3(s.X+0.1, 0.05, 0.1), graph.V3(0, s.Y+0.05, 0), catalog.MatStrap),
	}
	for _, x := range []float64{-hx, hx} {
		for _, z := range []float64{-hz, hz} {
			g = append(g, rodY("cage", 0.012, 0, s.Y, x, z, catalog.MatGalvNew))
		}
		g = append(g, rod("cage", 0.012, graph.V3(x, s.Y, -hz), graph.V3(x, s.Y, hz), catalog.MatGalvNew))
	}
	return item(catalog.Ballast, s.Y, variant, g...)
}
