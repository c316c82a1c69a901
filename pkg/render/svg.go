package render

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/marekdadej/Eventer/pkg/graph"
)

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// WriteSVG draws s as an SVG document with the same layout as WritePNG.
func WriteSVG(w io.Writer, s *graph.Scene, o Options) error {
	o = o.withDefaults()
	if s == nil {
		s = graph.New()
	}
	shapes, v := project(s, o)

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(o.Width, o.Height)
	canvas.Rect(0, 0, o.Width, o.Height, "fill:#ffffff")

	if o.Grid > 0 && !v.bounds.IsEmpty() {
		b := v.bounds
		canvas.Gid("grid")
		for _, x := range gridLines(b.Min.X, b.Max.X, o.Grid) {
			x0, y0 := v.px(x, b.Min.Z)
			x1, y1 := v.px(x, b.Max.Z)
			canvas.Line(round(x0), round(y0), round(x1), round(y1), "stroke:#cccccc")
		}
		for _, z := range gridLines(b.Min.Z, b.Max.Z, o.Grid) {
			x0, y0 := v.px(b.Min.X, z)
			x1, y1 := v.px(b.Max.X, z)
			canvas.Line(round(x0), round(y0), round(x1), round(y1), "stroke:#cccccc")
		}
		canvas.Gend()
	}

	canvas.Gid("parts")
	for _, f := range shapes {
		if len(f.pts) < 3 {
			continue
		}
		xs := make([]int, len(f.pts))
		ys := make([]int, len(f.pts))
		for i, p := range f.pts {
			xs[i], ys[i] = round(p.X), round(p.Y)
		}
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:0.75",
			hex(f.fill), float64(f.fill.A)/255, hex(f.stroke)))
	}
	canvas.Gend()

	canvas.Text(round(o.Margin), round(o.Margin), caption(o.Title, v, len(shapes)),
		"font-family:monospace;font-size:13px;fill:#222222")
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("render: write svg: %w", ew.err)
	}
	return nil
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
