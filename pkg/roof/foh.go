package roof

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// FOH roof dimensions.
const (
	FOHFrontRise   = 3.0 // stage side, above the top floor
	FOHBackRise    = 2.0
	FOHRafterPitch = 0.30
	fohValance     = 0.5
	fohReach       = 0.05
	fohCanopyLift  = 0.03
	fohCanopyEdge  = 0.03
)

// FOHSpec sizes a FOH roof over a stand w by d whose top floor is at Top.
// The high eave faces the stage on the -Z side.
type FOHSpec struct {
	Width, Depth float64
	Top          float64
	Scrim        bool
}

// FOHEaves returns the eave heights of a FOH roof over a top floor at top.
func FOHEaves(top float64) layout.RoofPlane {
	return layout.RoofPlane{Front: top + FOHFrontRise, Back: top + FOHBackRise}
}

// FOH builds the roof of a FOH stand: U lattice girders on the stage-side
// and rear column tops, aluminium rafters every 30 cm, the canopy and its
// valances and, on request, scrims on the back and both sides.
func FOH(p *catalog.Palette, log *logger.Logger, s FOHSpec) *graph.Node {
	w, d := s.Width, s.Depth
	if !positive(w) || !positive(d) {
		return skipped(log, "foh", w, d)
	}
	plane := FOHEaves(s.Top)
	plane.Span = d
	hi, lo := plane.Front, plane.Back

	girders := graph.Group("girders",
		graph.At(graph.V3(-w/2, hi-parts.GirderHeight, -d/2), parts.LatticeGirder(p, catalog.ULatticeAlu, w)),
		graph.At(graph.V3(-w/2, lo-parts.GirderHeight, d/2), parts.LatticeGirder(p, catalog.ULatticeAlu, w)),
	)

	count := int(math.Ceil(w / FOHRafterPitch))
	step := w / float64(count)
	yHi, yLo := hi+RafterRadius, lo+RafterRadius
	rafters := graph.Group("rafters")
	for k := 0; k <= count; k++ {
		x := -w/2 + float64(k)*step
		n, _ := rafter(p, graph.V3(x, yHi, -d/2), graph.V3(x, yLo, d/2))
		rafters.Add(n)
	}

	mid := (yHi+yLo)/2 + fohCanopyLift
	half := plane.Drop() / 2
	canopy := graph.Group("canopy",
		graph.Place("", graph.V3(0, mid, 0), pitch(-plane.Drop(), d),
			parts.Canopy(p, w+2*fohCanopyEdge, plane.Length()+2*fohCanopyEdge)),
		skirt(p, w, d, mid+half, mid-half, fohValance, fohReach),
	)

	root := graph.Group("roof", girders, rafters, canopy)
	if s.Scrim {
		o := ScrimOffset
		root.Add(graph.Group("scrims",
			backScrim(p, w, lo, d/2+o),
			sideScrim(p, -w/2-o, -d/2, hi, d/2, lo),
			sideScrim(p, w/2+o, -d/2, hi, d/2, lo),
		))
	}
	return root
}

// Mauser ballast frame.
const (
	mauserSize   = layout.ModuleFull
	mauserJack   = 0.10
	mauserPost   = 0.5
	mauserGirder = 0.7
	mauserBearer = mauserGirder + 0.25
	mauserTank   = mauserGirder + 0.3
)

// MauserBallast builds an IBC water tank on a small scaffold frame centred
// on the origin: four jacks with collars and short standards, two U
// lattice girders along Z and three U-ledgers carrying the tank.
func MauserBallast(p *catalog.Palette) *graph.Node {
	half := mauserSize / 2
	b := graph.Group("mauser")
	for _, x := range []float64{-half, half} {
		for _, z := range []float64{-half, half} {
			b.Add(graph.At(graph.V3(x, 0, z),
				graph.At(graph.V3(0, 0.05, 0), parts.BaseJack(p, mauserJack)),
				graph.At(graph.V3(0, 0.05+mauserJack, 0), parts.BaseCollar(p)),
				graph.At(graph.V3(0, 0.05+mauserJack+layout.CollarLength, 0), parts.Standard(p, mauserPost, "withoutSpigot")),
			))
		}
		b.Add(alongZ(graph.V3(x, mauserGirder, -half), parts.LatticeGirder(p, catalog.ULatticeLW, mauserSize)))
	}
	for _, z := range []float64{-half, 0, half} {
		b.Add(graph.At(graph.V3(-half, mauserBearer, z), parts.ULedger(p, mauserSize, "lwT14")))
	}
	return b.Add(graph.At(graph.V3(0, mauserTank, 0), parts.Ballast(p, "")))
}
