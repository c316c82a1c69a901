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

// System names.
const (
	NameStageFloor  = "stage-floor"
	NameLayherRoof  = "layher-roof"
	NameProlyteRoof = "prolyte-roof"
	NameFOH         = "foh"
	NameLayherTower = "layher-tower"
	NameLEDWall     = "led-wall"
)

// Preset dimensions.
const (
	TowerHeight     = 10.0
	LEDWallWidth    = 14.49
	LEDWallDepth    = 2.07
	LEDWallHeight   = 8.0
	ProlyteOversize = 2.0 // added to both stage spans under a Prolyte roof
)

// StageFloor returns the stage floor system.
func StageFloor(p *catalog.Palette, log *logger.Logger) *System {
	return New(NameStageFloor, p, log, buildStageFloor)
}

// LayherRoof returns the sloped Layher roof system, standing on the deck.
func LayherRoof(p *catalog.Palette, log *logger.Logger) *System {
	return New(NameLayherRoof, p, log, buildLayherRoof)
}

// ProlyteRoof returns the Prolyte MPT roof system.
func ProlyteRoof(p *catalog.Palette, log *logger.Logger) *System {
	return New(NameProlyteRoof, p, log, buildProlyteRoof)
}

// FOH returns the FOH stand system.
func FOH(p *catalog.Palette, log *logger.Logger) *System {
	return New(NameFOH, p, log, buildFOH)
}

// LayherTower returns the tower preset: the stage platform raised to
// TowerHeight.
func LayherTower(p *catalog.Palette, log *logger.Logger) *System {
	return New(NameLayherTower, p, log, func(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node {
		cfg.Height = TowerHeight
		return buildStageFloor(p, log, cfg)
	})
}

// LEDWall returns the LED wall preset: a narrow platform carrying the
// screen.
func LEDWall(p *catalog.Palette, log *logger.Logger) *System {
	return New(NameLEDWall, p, log, func(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node {
		cfg.Width, cfg.Depth, cfg.Height = LEDWallWidth, LEDWallDepth, LEDWallHeight
		return buildStageFloor(p, log, cfg)
	})
}

func buildStageFloor(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node {
	kind, ok := compose.ParseFloorKind(cfg.FloorType)
	if !ok {
		log.Warn("unknown floor type, using layher", "floorType", cfg.FloorType)
	}
	pl := compose.BuildPlatform(p, compose.PlatformSpec{
		Width: cfg.Width, Depth: cfg.Depth, Height: cfg.Height, Floor: kind,
	})
	log.Debug("stage floor laid out",
		"baysX", len(pl.Grid.BaysX), "baysZ", len(pl.Grid.BaysZ), "jack", pl.Stack.Jack)
	return pl.Node
}

// buildLayherRoof sizes the roof to the stage grid so every post stands on
// a column node. Grids wider than LayherMaxWidth get the centred run of
// whole bays that fits.
func buildLayherRoof(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node {
	g := layout.NewGrid(cfg.Width, cfg.Depth)
	x0, x1 := layout.CentredSpan(g.X, roof.LayherMaxWidth)
	if w := x1 - x0; w < g.Width()-1e-9 {
		log.Warn("layher roof narrowed to whole bays", "stageWidth", g.Width(), "roofWidth", w)
	}
	r := roof.Layher(p, log, roof.LayherSpec{
		Width: x1 - x0,
		Depth: g.Depth(),
		Scrim: cfg.LayherScrimOn(),
	})
	return graph.At(graph.V3((x0+x1)/2, cfg.Height, 0), r)
}

func buildProlyteRoof(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node {
	v, ok := roof.ParseVariant(cfg.ProlyteVariant)
	if !ok {
		log.Warn("unknown prolyte variant, using standard", "variant", cfg.ProlyteVariant)
	}
	return roof.Prolyte(p, log, roof.ProlyteSpec{
		Variant:  v,
		Width:    cfg.Width + ProlyteOversize,
		Depth:    cfg.Depth + ProlyteOversize,
		Height:   cfg.RoofClearance,
		NoCanopy: cfg.NoCanopy,
		Scrim:    cfg.ProlyteScrimOn(),
		Ballast:  cfg.Ballast,
	})
}
