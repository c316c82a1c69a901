package catalog

import (
	"sort"

	"github.com/marekdadej/Eventer/pkg/graph"
)

// Material names. Primitives carry the name; renderers resolve it through
// the palette.
const (
	MatGalvNew      = "galvNew"
	MatGalvOld      = "galvOld"
	MatCastSteel    = "castSteel"
	MatHighSteel    = "highSteel"
	MatAlu          = "alu"
	MatPlywoodEvent = "plywoodEvent"
	MatPeriPlywood  = "periPlywood"
	MatPeriBeam     = "periBeam"
	MatPlasticRed   = "plasticRed"
	MatPlasticBlack = "plasticBlack"
	MatWood         = "wood"
	MatBlackSteel   = "blackSteel"
	MatTank         = "tank"
	MatStrap        = "strap"
	MatCanopy       = "canopy"
	MatScrim        = "scrim"
	MatLED          = "led"
)

// Material is the render hint of a material. Physical properties are not
// modelled.
type Material struct {
	Name      string  `json:"name"`
	Color     uint32  `json:"color"` // 0xRRGGBB
	Metalness float64 `json:"metalness"`
	Roughness float64 `json:"roughness"`
	Opacity   float64 `json:"opacity"`
}

// Hex returns the colour as "#rrggbb".
func (m Material) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte("#000000")
	for i := 0; i < 6; i++ {
		b[6-i] = digits[(m.Color>>(4*uint(i)))&0xf]
	}
	return string(b)
}

// Palette is the shared, immutable set of materials and connector
// prototypes every part builder draws from. Builders receive it by
// pointer and must not modify it; each call that returns a node returns a
// fresh one, so no node is ever shared between parts.
type Palette struct {
	materials map[string]Material

	// Rosette disc on a standard.
	RosetteRadius    float64
	RosetteThickness float64

	// Tube radii.
	TubeRadius   float64 // 48.3 mm scaffold tube
	SpigotRadius float64
	ThreadRadius float64

	// Wedge head profile (XY, extruded along Z) and the wedge.
	wedgeHead      []graph.Vec2
	WedgeHeadDepth float64
	WedgeSize      graph.Vec3
	WedgeTilt      float64 // degrees about Z
}

var defaultPalette = &Palette{
	materials: map[string]Material{
		MatGalvNew:      {MatGalvNew, 0xf0f4f8, 0.65, 0.25, 1},
		MatGalvOld:      {MatGalvOld, 0x8c969d, 0.4, 0.7, 1},
		MatCastSteel:    {MatCastSteel, 0x7a848f, 0.5, 0.6, 1},
		MatHighSteel:    {MatHighSteel, 0x9caab5, 0.8, 0.35, 1},
		MatAlu:          {MatAlu, 0xdce3e8, 0.6, 0.4, 1},
		MatPlywoodEvent: {MatPlywoodEvent, 0x3d2e24, 0.05, 0.9, 1},
		MatPeriPlywood:  {MatPeriPlywood, 0x222222, 0, 0.8, 1},
		MatPeriBeam:     {MatPeriBeam, 0xffcc00, 0.1, 0.6, 1},
		MatPlasticRed:   {MatPlasticRed, 0xcc0000, 0.1, 0.5, 1},
		MatPlasticBlack: {MatPlasticBlack, 0x111111, 0.1, 0.5, 1},
		MatWood:         {MatWood, 0x8b5a2b, 0, 0.9, 1},
		MatBlackSteel:   {MatBlackSteel, 0x222222, 0.6, 0.5, 1},
		MatTank:         {MatTank, 0xeeeeee, 0, 0.6, 0.85},
		MatStrap:        {MatStrap, 0x0044aa, 0, 0.8, 1},
		MatCanopy:       {MatCanopy, 0x1a1a1a, 0, 0.7, 1},
		MatScrim:        {MatScrim, 0x111111, 0, 0.9, 0.6},
		MatLED:          {MatLED, 0x0a0a14, 0.2, 0.3, 1},
	},
	RosetteRadius:    0.055,
	RosetteThickness: 0.008,
	TubeRadius:       0.02415,
	SpigotRadius:     0.019,
	ThreadRadius:     0.019,
	wedgeHead: []graph.Vec2{
		{X: 0, Y: -0.028}, {X: 0.055, Y: -0.028}, {X: 0.055, Y: 0.035},
		{X: 0, Y: 0.035}, {X: 0, Y: 0.015}, {X: 0.011, Y: 0}, {X: 0, Y: -0.015},
	},
	WedgeHeadDepth: 0.02,
	WedgeSize:      graph.Vec3{X: 0.006, Y: 0.11, Z: 0.03},
	WedgeTilt:      -8.6,
}

// Default returns the shared palette.
func Default() *Palette {
	return defaultPalette
}

// Material returns the named material, or galvanised steel for unknown names.
func (p *Palette) Material(name string) Material {
	if m, ok := p.materials[name]; ok {
		return m
	}
	return p.materials[MatGalvNew]
}

// MaterialNames returns every material name in sorted order.
func (p *Palette) MaterialNames() []string {
	names := make([]string, 0, len(p.materials))
	for n := range p.materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------------
// Connector prototypes
// ---------------------------------------------------------------------------

// Rosette returns a rosette disc centred on the local origin.
func (p *Palette) Rosette() *graph.Node {
	return graph.Cylinder("rosette", p.RosetteRadius, p.RosetteThickness, MatGalvNew)
}

// WedgeHead returns a cast wedge head whose mating face sits on x=0 and
// whose body extends toward +X. With flip set it faces -X.
func (p *Palette) WedgeHead(flip bool) *graph.Node {
	head := graph.Prism("wedge-head", p.wedgeHead, p.WedgeHeadDepth, MatCastSteel)
	if flip {
		return graph.Place("", graph.Vec3{}, graph.V3(0, 180, 0), head)
	}
	return head
}

// Wedge returns the locking wedge, tilted as when driven.
func (p *Palette) Wedge() *graph.Node {
	w := graph.Box("wedge", p.WedgeSize, MatHighSteel)
	return graph.Place("", graph.Vec3{}, graph.V3(0, 0, p.WedgeTilt), w)
}

// Tube returns a scaffold tube of the given length along local Y.
func (p *Palette) Tube(name string, length float64, material string) *graph.Node {
	return graph.Cylinder(name, p.TubeRadius, length, material)
}
