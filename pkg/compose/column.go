package compose

import (
	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
	"github.com/marekdadej/Eventer/pkg/parts"
)

// BuildColumnStack builds the column at (x, z) for a platform of the given
// height.
func BuildColumnStack(p *catalog.Palette, x, z, height float64) *graph.Node {
	return ColumnStack(p, x, z, layout.NewVerticalStack(height))
}

// ColumnStack builds one column from a precomputed stack: pad, jack, base
// collar and spigotless standards joined by loose spigots.
func ColumnStack(p *catalog.Palette, x, z float64, s layout.VerticalStack) *graph.Node {
	col := graph.Group("column",
		parts.WoodPad(p),
		graph.At(graph.V3(0, layout.WoodPadHeight, 0), parts.BaseJack(p, s.Jack)),
		graph.At(graph.V3(0, s.BaseStart(), 0), parts.BaseCollar(p)),
	)
	y := s.FirstStandard()
	for _, l := range s.Segments {
		col.Add(graph.At(graph.V3(0, y, 0), parts.Standard(p, l, "withoutSpigot")))
		y += l
	}
	for _, j := range s.Joints() {
		col.Add(graph.At(graph.V3(0, j-parts.SpigotLength/2, 0), parts.Spigot(p, "")))
	}
	return graph.At(graph.V3(x, 0, z), col)
}

// Greedy column base hardware.
const (
	GreedyJack       = 0.10
	greedyCollarAt   = layout.WoodPadHeight + GreedyJack
	GreedyFirstStand = greedyCollarAt + layout.CollarLength
)

// GreedyColumn builds a column of spigoted standards filling height with
// layout.GreedyStack on a fixed jack extension. It returns the column and
// the elevation of its top.
func GreedyColumn(p *catalog.Palette, x, z, height float64) (*graph.Node, float64) {
	col := graph.Group("column",
		parts.WoodPad(p),
		graph.At(graph.V3(0, layout.WoodPadHeight, 0), parts.BaseJack(p, GreedyJack)),
		graph.At(graph.V3(0, greedyCollarAt, 0), parts.BaseCollar(p)),
	)
	y := GreedyFirstStand
	for _, l := range layout.GreedyStack(height - GreedyFirstStand) {
		col.Add(graph.At(graph.V3(0, y, 0), parts.Standard(p, l, "withSpigot")))
		y += l
	}
	return graph.At(graph.V3(x, 0, z), col), y
}
