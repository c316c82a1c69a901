package engine

import (
	"math"
	"strings"

	"github.com/marekdadej/Eventer/pkg/graph"
)

// ---------------------------------------------------------------------------
// Camera
// ---------------------------------------------------------------------------

// Camera is a perspective viewpoint handed to renderers.
type Camera struct {
	Position graph.Vec3 `json:"position"`
	Target   graph.Vec3 `json:"target"`
	FOV      float64    `json:"fov"` // vertical, degrees
}

// Fit margin and the fallback view used for empty scenes.
const (
	DefaultFOV = 45.0
	fitMargin  = 1.5
)

// DefaultCamera looks at the stage area from the front right.
func DefaultCamera() Camera {
	return Camera{Position: graph.V3(30, 20, 40), Target: graph.V3(0, 5, 0), FOV: DefaultFOV}
}

// Fit aims the camera at the centre of b and backs it off along its
// current viewing direction until the largest extent of b fills the field
// of view with a 1.5x margin. An empty box resets to DefaultCamera.
func (c Camera) Fit(b graph.Box3) Camera {
	if b.IsEmpty() {
		return DefaultCamera()
	}
	fov := c.FOV
	if !(fov > 0 && fov < 180) {
		fov = DefaultFOV
	}
	size := b.Size()
	maxDim := max(size.X, size.Y, size.Z)
	dist := math.Abs(maxDim/(2*math.Tan(graph.Rad(fov)/2))) * fitMargin

	dir := c.Position.Sub(c.Target)
	if dir.Length() < 1e-9 {
		d := DefaultCamera()
		dir = d.Position.Sub(d.Target)
	}
	center := b.Center()
	return Camera{
		Position: center.Add(dir.Normalize().Scale(dist)),
		Target:   center,
		FOV:      fov,
	}
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// Light is a light source of an environment preset.
type Light struct {
	Color     uint32     `json:"color"`
	Ground    uint32     `json:"ground,omitempty"` // hemisphere lights only
	Intensity float64    `json:"intensity"`
	Position  graph.Vec3 `json:"position"`
	Shadow    float64    `json:"shadow,omitempty"` // half extent of the shadow camera
}

// Fog describes distance fog. Density is set for exponential fog, Near
// and Far for linear fog.
type Fog struct {
	Color   uint32  `json:"color"`
	Density float64 `json:"density,omitempty"`
	Near    float64 `json:"near,omitempty"`
	Far     float64 `json:"far,omitempty"`
}

// GridHelper is the reference grid drawn on the ground.
type GridHelper struct {
	Size      float64 `json:"size"`
	Divisions int     `json:"divisions"`
	Center    uint32  `json:"center"`
	Lines     uint32  `json:"lines"`
}

// Environment is a renderer-side preset: background, ground plane, fog
// and lights.
type Environment struct {
	Mode       string      `json:"mode"`
	Background uint32      `json:"background"`
	Ground     uint32      `json:"ground"`
	GroundSize float64     `json:"groundSize"`
	Fog        Fog         `json:"fog"`
	Grid       *GridHelper `json:"grid,omitempty"`
	Hemi       Light       `json:"hemi"`
	Sun        Light       `json:"sun"`
}

// Environment modes.
const (
	EnvMono    = "mono"
	EnvNatural = "natural"
)

const clearColor = 0xe0e0e0

// Env returns the preset for mode. Unknown modes resolve to mono with ok
// false.
func Env(mode string) (env Environment, ok bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case EnvNatural:
		return Environment{
			Mode:       EnvNatural,
			Background: 0x87ceeb,
			Ground:     0x3d8c40,
			GroundSize: 400,
			Fog:        Fog{Color: 0x87ceeb, Density: 0.0015},
			Hemi:       Light{Color: 0xffffff, Ground: 0x444444, Intensity: 1.2, Position: graph.V3(0, 100, 0)},
			Sun:        Light{Color: 0xffeebb, Intensity: 2.5, Position: graph.V3(60, 100, 60), Shadow: 100},
		}, true
	case EnvMono, "":
		ok = true
	}
	return Environment{
		Mode:       EnvMono,
		Background: clearColor,
		Ground:     0xdddddd,
		GroundSize: 400,
		Fog:        Fog{Color: clearColor, Near: 30, Far: 200},
		Grid:       &GridHelper{Size: 200, Divisions: 100, Center: 0x888888, Lines: 0xbbbbbb},
		Hemi:       Light{Color: 0xffffff, Ground: 0x444444, Intensity: 0.6, Position: graph.V3(0, 50, 0)},
		Sun:        Light{Color: 0xffdfba, Intensity: 1.5, Position: graph.V3(30, 50, 20), Shadow: 50},
	}, ok
}
