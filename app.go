package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/engine"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/kernel"
	"github.com/marekdadej/Eventer/pkg/kernel/sdfx"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/render"
	"github.com/marekdadej/Eventer/pkg/report"
	"github.com/marekdadej/Eventer/pkg/tessellate"
)

// App is the front-end backend shared by the CLI and the HTTP server. It
// owns one coordinator; every request runs under a lock because an update
// releases the previous scene.
type App struct {
	log     *logger.Logger
	engine  *engine.Engine
	kernel  kernel.Kernel
	palette *catalog.Palette

	mu    sync.Mutex
	coord *engine.Coordinator
}

// Request selects the configuration to build: a stage script, an explicit
// configuration, or the defaults when both are empty. A script wins.
type Request struct {
	Script string        `json:"script,omitempty"`
	Config *config.Scene `json:"config,omitempty"`
}

// MeshData is a mesh as sent to the front end.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Path     string    `json:"path"`
	PartType string    `json:"partType,omitempty"`
	Color    string    `json:"color"`
}

// EvalErrorData is a script error or validation finding for the front end.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the front end. Slices are
// never nil so they encode as [].
type EvalResult struct {
	ID          string                      `json:"id,omitempty"`
	Config      config.Scene                `json:"config"`
	Version     uint64                      `json:"version"`
	Instances   []graph.Instance            `json:"instances"`
	Materials   map[string]catalog.Material `json:"materials"`
	Camera      engine.Camera               `json:"camera"`
	Environment engine.Environment          `json:"environment"`
	BOM         *report.BOM                 `json:"bom,omitempty"`
	Meshes      []MeshData                  `json:"meshes"`
	Errors      []EvalErrorData             `json:"errors"`
	Warnings    []EvalErrorData             `json:"warnings"`

	// Failed is set when the pipeline behind the script failed.
	Failed bool `json:"-"`
}

// scriptFault reports whether err is the script's own doing rather than a
// failure of the pipeline behind it.
func scriptFault(err error) bool {
	return errors.Is(err, engine.ErrTimeout)
}

func toErrorData(errs []engine.EvalError) []EvalErrorData {
	out := make([]EvalErrorData, 0, len(errs))
	for _, e := range errs {
		out = append(out, EvalErrorData{Line: e.Line, Message: e.Message})
	}
	return out
}

func newEvalResult() EvalResult {
	return EvalResult{
		Instances: []graph.Instance{},
		Materials: map[string]catalog.Material{},
		Meshes:    []MeshData{},
		Errors:    []EvalErrorData{},
		Warnings:  []EvalErrorData{},
	}
}

// NewApp creates an App with the default palette and the sdfx kernel.
func NewApp(log *logger.Logger, opts ...sdfx.Option) *App {
	p := catalog.Default()
	return &App{
		log:     log,
		engine:  engine.NewEngine(log),
		kernel:  sdfx.New(opts...),
		palette: p,
		coord:   engine.NewCoordinator(p, log),
	}
}

// resolve turns req into a configuration. Script errors come back as
// eval errors; a fatal engine failure as an error.
func (a *App) resolve(req Request) (config.Scene, []engine.EvalError, error) {
	if strings.TrimSpace(req.Script) != "" {
		return a.engine.Evaluate(req.Script)
	}
	if req.Config != nil {
		return *req.Config, nil, nil
	}
	return config.Default(), nil, nil
}

// with builds the scene for req and hands it to fn while the lock is held.
// The lock also keeps requests from superseding each other's scripts.
// fn must not keep the scene.
func (a *App) with(req Request, fn func(*engine.Result) error) ([]engine.EvalError, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg, evalErrs, err := a.resolve(req)
	if err != nil || len(evalErrs) > 0 {
		return evalErrs, err
	}
	res, err := a.coord.Update(cfg)
	if err != nil {
		return nil, err
	}
	return nil, fn(res)
}

// Evaluate builds the scene for req and returns it flattened, with the
// bill of materials. With meshes set every primitive is also tessellated.
func (a *App) Evaluate(ctx context.Context, req Request, meshes bool) EvalResult {
	result := newEvalResult()
	evalErrs, err := a.with(req, func(res *engine.Result) error {
		result.ID = res.ID
		result.Config = res.Config
		result.Version = res.Scene.Version
		result.Instances = append(result.Instances, graph.Flatten(res.Scene)...)
		result.Camera = res.Camera
		result.Environment = res.Env
		result.BOM = report.Build(res.Scene)
		for _, inst := range result.Instances {
			if m := inst.Primitive.Material; m != "" {
				result.Materials[m] = a.palette.Material(m)
			}
		}
		for _, w := range graph.ValidateAll(res.Scene).Warnings {
			result.Warnings = append(result.Warnings, EvalErrorData{Path: w.Path, Message: w.Message})
		}
		if !meshes {
			return nil
		}
		ms, err := tessellate.Tessellate(ctx, res.Scene, a.kernel)
		if err != nil {
			return fmt.Errorf("tessellation failed: %w", err)
		}
		for _, m := range ms {
			result.Meshes = append(result.Meshes, MeshData{
				Vertices: m.Vertices,
				Normals:  m.Normals,
				Indices:  m.Indices,
				Path:     m.Path,
				PartType: m.PartType,
				Color:    a.palette.Material(m.Material).Hex(),
			})
		}
		return nil
	})
	result.Errors = append(result.Errors, toErrorData(evalErrs)...)
	if err != nil {
		a.log.Warn("evaluate failed", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.Failed = !scriptFault(err)
	}
	return result
}

// BOM builds the scene for req and returns its bill of materials.
func (a *App) BOM(req Request) (*report.BOM, []engine.EvalError, error) {
	var bom *report.BOM
	evalErrs, err := a.with(req, func(res *engine.Result) error {
		bom = report.Build(res.Scene)
		return nil
	})
	return bom, evalErrs, err
}

// Plan builds the scene for req and writes its plan view to w as PNG, or
// as SVG when svg is set.
func (a *App) Plan(w io.Writer, req Request, opts render.Options, svg bool) ([]engine.EvalError, error) {
	return a.with(req, func(res *engine.Result) error {
		if opts.Palette == nil {
			opts.Palette = a.palette
		}
		if opts.Title == "" {
			opts.Title = res.Config.MainType
		}
		if svg {
			return render.WriteSVG(w, res.Scene, opts)
		}
		return render.WritePNG(w, res.Scene, opts)
	})
}

// Export builds the scene for req and writes it as JSON, nested or as the
// flat instance list.
func (a *App) Export(w io.Writer, req Request, flat bool) ([]engine.EvalError, error) {
	return a.with(req, func(res *engine.Result) error {
		return graph.WriteJSON(w, res.Scene, flat)
	})
}
