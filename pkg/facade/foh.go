package facade

import (
	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/compose"
	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/roof"
)

// FOH stand dimensions.
const (
	FOHMinSpan = layout.ModuleFull
	FOHMaxSpan = 3 * layout.ModuleFull
	FOHRail    = 1.2 // inner columns end this far above the top floor

	mauserOutset = 1.5 // ballast frames stand this far outside the side walls
	mauserInset  = 1.0 // and this far in from the rear edge
	towerGap     = 0.1
	fohBearer    = "lwT14"
)

// buildFOH builds the FOH stand in its own frame and places it fohDist in
// front of the stage. The stand faces the stage: its high eave and open
// front are on the -Z side.
func buildFOH(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node {
	w := clampFOH(log, "width", cfg.FohWidth)
	d := clampFOH(log, "depth", cfg.FohDepth)
	story, ok := layout.ParseStory(cfg.FohType)
	if !ok {
		log.Warn("unknown foh type, using ground", "fohType", cfg.FohType)
	}
	levels := story.Levels()
	top := story.Top()

	g := layout.ModuleGrid(w, d)
	nx, nz := g.NX(), g.NZ()

	columns := graph.Group("columns")
	for i := 0; i <= nx; i++ {
		for j := 0; j <= nz; j++ {
			n := g.Node(i, j)
			col, _ := compose.GreedyColumn(p, n.X, n.Z, columnHeight(i, j, nx, nz, top))
			columns.Add(col)
		}
	}

	floors := graph.Group("floors")
	for k, y := range levels {
		floors.Add(compose.BuildFloorLevel(p, g, y, k == len(levels)-1, compose.Floor{
			Bearer: fohBearer,
			Rails:  compose.StandRails(),
		}))
	}

	gw, gd := g.Width(), g.Depth()
	stand := graph.Group("stand", columns, floors,
		roof.FOH(p, log, roof.FOHSpec{Width: gw, Depth: gd, Top: top, Scrim: cfg.FohScrimOn()}),
		graph.Group("ballast",
			graph.At(graph.V3(-gw/2-mauserOutset, 0, gd/2-mauserInset), roof.MauserBallast(p)),
			graph.At(graph.V3(gw/2+mauserOutset, 0, gd/2-mauserInset), roof.MauserBallast(p)),
		),
	)
	if cfg.FohTower {
		t, _ := roof.SupportTower(p, top+roof.FOHFrontRise)
		stand.Add(graph.Group("tower",
			graph.At(graph.V3(0, 0, gd/2+layout.ModuleFull/2+towerGap), t)))
	}
	log.Debug("foh laid out", "story", story.String(), "width", gw, "depth", gd, "dist", cfg.FohDist)
	return graph.At(graph.V3(0, 0, cfg.FohDist), stand)
}

// columnHeight is the target top of column (i, j). Side columns carry the
// roof girders and follow the slope from the stage-side eave down to the
// rear one; inner columns end at the top rail.
func columnHeight(i, j, nx, nz int, top float64) float64 {
	if i != 0 && i != nx {
		return top + FOHRail
	}
	ratio := float64(j) / float64(nz)
	return top + roof.FOHFrontRise - (roof.FOHFrontRise-roof.FOHBackRise)*ratio
}

func clampFOH(log *logger.Logger, name string, v float64) float64 {
	c := min(max(v, FOHMinSpan), FOHMaxSpan)
	if c != v {
		log.Warn("foh span clamped", "span", name, "value", v, "clamped", c)
	}
	return c
}
