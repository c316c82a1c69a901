package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/facade"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/logger"
)

// Roof families.
const (
	RoofProlyte = "prolyte"
	RoofLayher  = "layher"
)

// Result is one coordinated scene: the finished assemblies plus the view
// a renderer should use for them.
type Result struct {
	ID     string       `json:"id"`
	Config config.Scene `json:"config"`
	Scene  *graph.Scene `json:"scene"`
	Camera Camera       `json:"camera"`
	Env    Environment  `json:"environment"`
}

// Coordinator owns one System per staging system and decides, per
// configuration, which of them to build. It is not safe for concurrent
// use. A scene returned by Update stays valid until the next Update, which
// releases the assemblies it holds.
type Coordinator struct {
	log *logger.Logger

	floor, layherRoof, prolyteRoof, foh, tower, ledWall *facade.System

	active  []*facade.System
	camera  Camera
	env     Environment
	version uint64
}

// NewCoordinator creates a coordinator building with palette p.
func NewCoordinator(p *catalog.Palette, log *logger.Logger) *Coordinator {
	env, _ := Env(EnvMono)
	return &Coordinator{
		log:         log,
		floor:       facade.StageFloor(p, log),
		layherRoof:  facade.LayherRoof(p, log),
		prolyteRoof: facade.ProlyteRoof(p, log),
		foh:         facade.FOH(p, log),
		tower:       facade.LayherTower(p, log),
		ledWall:     facade.LEDWall(p, log),
		camera:      DefaultCamera(),
		env:         env,
	}
}

// Update clears every system and rebuilds the scene for cfg. mainType picks
// the systems: a stage floor with its roof and FOH, or one of the presets.
func (c *Coordinator) Update(cfg config.Scene) (*Result, error) {
	id := uuid.NewString()
	log := c.log.With("run", id)
	for _, key := range cfg.Normalize() {
		log.Warn("config value clamped", "key", key)
	}
	c.reset()

	if cfg.EnvMode != c.env.Mode {
		env, ok := Env(cfg.EnvMode)
		if !ok {
			log.Warn("unknown environment, using mono", "envMode", cfg.EnvMode)
		}
		c.env = env
	}

	for _, s := range c.plan(log, &cfg) {
		if err := s.Build(cfg); err != nil {
			c.reset()
			return nil, fmt.Errorf("engine: %w", err)
		}
		c.active = append(c.active, s)
	}

	c.version++
	scene := graph.New()
	scene.Version = c.version
	for _, s := range c.active {
		scene.AddRoot(s.Group())
	}
	c.camera = c.camera.Fit(scene.Bounds())
	log.Info("scene updated",
		"mainType", cfg.MainType, "systems", len(c.active), "parts", len(scene.Parts()))

	return &Result{ID: id, Config: cfg, Scene: scene, Camera: c.camera, Env: c.env}, nil
}

// plan picks the systems for cfg, fixing unknown discriminants in place.
func (c *Coordinator) plan(log *logger.Logger, cfg *config.Scene) []*facade.System {
	switch cfg.MainType {
	case config.StageWithRoof, config.StageNoRoof:
	case config.LayherTower:
		return []*facade.System{c.tower}
	case config.LEDWall:
		return []*facade.System{c.ledWall}
	default:
		log.Warn("unknown main type, using stageWithRoof", "mainType", cfg.MainType)
		cfg.MainType = config.StageWithRoof
	}

	plan := []*facade.System{c.floor}
	if cfg.RoofWanted() {
		switch strings.ToLower(cfg.RoofType) {
		case RoofLayher:
			plan = append(plan, c.layherRoof)
		case RoofProlyte:
			plan = append(plan, c.prolyteRoof)
		default:
			log.Warn("unknown roof type, using prolyte", "roofType", cfg.RoofType)
			cfg.RoofType = RoofProlyte
			plan = append(plan, c.prolyteRoof)
		}
	}
	if cfg.IncludeFoh {
		plan = append(plan, c.foh)
	}
	return plan
}

// Clear releases every built assembly.
func (c *Coordinator) Clear() {
	c.reset()
}

func (c *Coordinator) reset() {
	for _, s := range c.active {
		s.Clear()
	}
	c.active = c.active[:0]
}

// Camera returns the current camera.
func (c *Coordinator) Camera() Camera { return c.camera }

// Environment returns the current environment preset.
func (c *Coordinator) Environment() Environment { return c.env }
