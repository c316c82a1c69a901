// Package render draws a scene in plan view, looking down the Y axis with
// +X to the right and the audience (+Z) at the bottom of the sheet. Every
// primitive is drawn as the outline of its footprint, lowest first, so
// decks and roofs cover the jacks and frames below them.
package render

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
)

// Options controls the sheet.
type Options struct {
	Width, Height int              // pixels, default 1024 x 768
	Margin        float64          // pixels around the drawing, default 40
	Palette       *catalog.Palette // default catalog.Default()
	Title         string
	Grid          float64 // metres between grid lines; zero draws none
}

const (
	defaultWidth  = 1024
	defaultHeight = 768
	defaultMargin = 40.0
	headerHeight  = 24.0
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Margin <= 0 {
		o.Margin = defaultMargin
	}
	if o.Palette == nil {
		o.Palette = catalog.Default()
	}
	return o
}

// view maps plan metres (x, z) to sheet pixels.
type view struct {
	scale  float64 // pixels per metre
	ox, oy float64
	bounds graph.Box3
}

func (v view) px(x, z float64) (float64, float64) {
	return v.ox + x*v.scale, v.oy + z*v.scale
}

// fit centres b on the sheet below the header, keeping the aspect ratio.
func fit(b graph.Box3, o Options) view {
	availW := float64(o.Width) - 2*o.Margin
	availH := float64(o.Height) - 2*o.Margin - headerHeight
	if b.IsEmpty() {
		return view{scale: 1, ox: float64(o.Width) / 2, oy: float64(o.Height) / 2, bounds: b}
	}
	size := b.Size()
	scale := math.Min(availW/math.Max(size.X, 1e-3), availH/math.Max(size.Z, 1e-3))
	c := b.Center()
	return view{
		scale:  scale,
		ox:     float64(o.Width)/2 - c.X*scale,
		oy:     o.Margin + headerHeight + availH/2 - c.Z*scale,
		bounds: b,
	}
}

// footprint is one primitive projected onto the sheet.
type footprint struct {
	pts    []graph.Vec2 // pixels, convex hull
	top    float64      // highest world Y
	fill   color.NRGBA
	stroke color.NRGBA
}

// project flattens s into footprints sorted bottom to top.
func project(s *graph.Scene, o Options) ([]footprint, view) {
	v := fit(s.Bounds(), o)
	var out []footprint
	for _, inst := range graph.Flatten(s) {
		local := inst.Primitive.LocalBounds()
		if local.IsEmpty() {
			continue
		}
		world := graph.Affine{R: inst.Basis, T: inst.Position}
		pts := make([]graph.Vec2, 0, 8)
		top := math.Inf(-1)
		for i := 0; i < 8; i++ {
			c := local.Min
			if i&1 != 0 {
				c.X = local.Max.X
			}
			if i&2 != 0 {
				c.Y = local.Max.Y
			}
			if i&4 != 0 {
				c.Z = local.Max.Z
			}
			w := world.Apply(c)
			top = math.Max(top, w.Y)
			x, y := v.px(w.X, w.Z)
			pts = append(pts, graph.V2(x, y))
		}
		m := o.Palette.Material(inst.Primitive.Material)
		out = append(out, footprint{
			pts:    hull(pts),
			top:    top,
			fill:   fillColor(m),
			stroke: strokeColor(m),
		})
	}
	slices.SortStableFunc(out, func(a, b footprint) int { return cmp.Compare(a.top, b.top) })
	return out, v
}

func fillColor(m catalog.Material) color.NRGBA {
	a := m.Opacity
	if a <= 0 || a > 1 {
		a = 1
	}
	return color.NRGBA{R: uint8(m.Color >> 16), G: uint8(m.Color >> 8), B: uint8(m.Color), A: uint8(math.Round(a * 255))}
}

func strokeColor(m catalog.Material) color.NRGBA {
	dim := func(c uint32) uint8 { return uint8(float64(c&0xff) * 0.55) }
	return color.NRGBA{R: dim(m.Color >> 16), G: dim(m.Color >> 8), B: dim(m.Color), A: 255}
}

// hull returns the convex hull of pts (monotone chain).
func hull(pts []graph.Vec2) []graph.Vec2 {
	p := slices.Clone(pts)
	slices.SortFunc(p, func(a, b graph.Vec2) int {
		return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y))
	})
	p = slices.Compact(p)
	if len(p) < 3 {
		return p
	}
	cross := func(o, a, b graph.Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	h := make([]graph.Vec2, 0, 2*len(p))
	for _, q := range p {
		for len(h) >= 2 && cross(h[len(h)-2], h[len(h)-1], q) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, q)
	}
	lower := len(h) + 1
	for i := len(p) - 2; i >= 0; i-- {
		q := p[i]
		for len(h) >= lower && cross(h[len(h)-2], h[len(h)-1], q) <= 0 {
			h = h[:len(h)-1]
		}
		h = append(h, q)
	}
	return h[:len(h)-1]
}

// gridLines returns the plan coordinates of grid lines covering b, spaced
// step apart and aligned to the origin.
func gridLines(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	var out []float64
	for x := math.Ceil(lo/step) * step; x <= hi+1e-9; x += step {
		out = append(out, x)
	}
	return out
}

// scaleBar picks a round bar length near a fifth of the drawing width.
func scaleBar(v view) float64 {
	if v.bounds.IsEmpty() {
		return 1
	}
	target := v.bounds.Size().X / 5
	for _, l := range []float64{0.5, 1, 2, 5, 10, 20, 50} {
		if l >= target {
			return l
		}
	}
	return 100
}
