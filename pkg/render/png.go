package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/marekdadej/Eventer/pkg/graph"
)

var (
	paper   = color.White
	ink     = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	gridInk = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// Plan draws s and returns the raster.
func Plan(s *graph.Scene, o Options) image.Image {
	return draw(s, o.withDefaults()).Image()
}

// WritePNG draws s and encodes it as PNG.
func WritePNG(w io.Writer, s *graph.Scene, o Options) error {
	if err := draw(s, o.withDefaults()).EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

func draw(s *graph.Scene, o Options) *gg.Context {
	dc := gg.NewContext(o.Width, o.Height)
	dc.SetColor(paper)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if s == nil {
		s = graph.New()
	}
	shapes, v := project(s, o)

	if o.Grid > 0 && !v.bounds.IsEmpty() {
		dc.SetColor(gridInk)
		dc.SetLineWidth(1)
		b := v.bounds
		for _, x := range gridLines(b.Min.X, b.Max.X, o.Grid) {
			x0, y0 := v.px(x, b.Min.Z)
			x1, y1 := v.px(x, b.Max.Z)
			dc.DrawLine(x0, y0, x1, y1)
		}
		for _, z := range gridLines(b.Min.Z, b.Max.Z, o.Grid) {
			x0, y0 := v.px(b.Min.X, z)
			x1, y1 := v.px(b.Max.X, z)
			dc.DrawLine(x0, y0, x1, y1)
		}
		dc.Stroke()
	}

	dc.SetLineWidth(0.75)
	for _, f := range shapes {
		if len(f.pts) < 2 {
			continue
		}
		dc.NewSubPath()
		for i, p := range f.pts {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
		dc.SetColor(f.fill)
		dc.FillPreserve()
		dc.SetColor(f.stroke)
		dc.Stroke()
	}

	dc.SetColor(ink)
	dc.DrawString(caption(o.Title, v, len(shapes)), o.Margin, o.Margin)

	if !v.bounds.IsEmpty() {
		l := scaleBar(v)
		x0, y := o.Margin, float64(o.Height)-o.Margin/2
		x1 := x0 + l*v.scale
		dc.SetLineWidth(2)
		dc.DrawLine(x0, y, x1, y)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%g m", l), x1+6, y, 0, 0.35)
	}
	return dc
}

// caption is the header line: title, plan extent and primitive count.
func caption(title string, v view, n int) string {
	if v.bounds.IsEmpty() {
		if title == "" {
			return "empty scene"
		}
		return title + "  (empty)"
	}
	size := v.bounds.Size()
	text := fmt.Sprintf("%.2f x %.2f m, %d primitives", size.X, size.Z, n)
	if title != "" {
		text = title + "  " + text
	}
	return text
}
