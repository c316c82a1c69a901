// Package report derives a bill of materials from a scene. It reads the
// part metadata only; geometry never influences the result.
package report

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
)

// Line is one BOM row: identical items counted together.
type Line struct {
	CatalogNumber string  `json:"catalogNumber"`
	Type          string  `json:"type"`
	Variant       string  `json:"variant,omitempty"`
	Nominal       float64 `json:"nominal,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitWeight    float64 `json:"unitWeight"`
	Weight        float64 `json:"weight"`
}

// Custom reports whether the row fell outside the catalog tables.
func (l Line) Custom() bool { return l.CatalogNumber == catalog.CustomCatalogNumber }

// System is the subtotal of one scene root.
type System struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Weight   float64 `json:"weight"`
}

// BOM is the bill of materials of a scene.
type BOM struct {
	Lines       []Line   `json:"lines"`
	Systems     []System `json:"systems"`
	Quantity    int      `json:"quantity"`
	TotalWeight float64  `json:"totalWeight"` // kg
	Custom      int      `json:"custom"`      // items without a catalog number
}

type item struct {
	system string
	data   graph.PartData
}

type lineKey struct {
	catalogNumber string
	typ           string
	variant       string
	nominal       int // mm
}

// Build counts every part of s. Parts nested inside other parts (a
// standard's rosettes, say) are counted in their own right.
func Build(s *graph.Scene) *BOM {
	b := &BOM{}
	if s == nil {
		return b
	}

	var items []item
	for _, r := range s.Roots {
		_ = graph.Walk(r, func(v graph.Visit) error {
			if pd, ok := v.Node.Data.(graph.PartData); ok {
				items = append(items, item{system: r.Name, data: pd})
			}
			return nil
		})
	}

	groups := lo.GroupBy(items, func(it item) lineKey {
		return lineKey{
			catalogNumber: it.data.CatalogNumber,
			typ:           it.data.Type,
			variant:       it.data.Variant,
			nominal:       int(math.Round(it.data.Nominal * 1000)),
		}
	})
	for _, group := range groups {
		first := group[0].data
		weight := lo.SumBy(group, func(it item) float64 { return it.data.Weight })
		b.Lines = append(b.Lines, Line{
			CatalogNumber: first.CatalogNumber,
			Type:          first.Type,
			Variant:       first.Variant,
			Nominal:       first.Nominal,
			Quantity:      len(group),
			UnitWeight:    first.Weight,
			Weight:        round2(weight),
		})
	}
	slices.SortFunc(b.Lines, func(x, y Line) int {
		return cmp.Or(
			cmp.Compare(x.Type, y.Type),
			cmp.Compare(x.Variant, y.Variant),
			cmp.Compare(x.Nominal, y.Nominal),
			cmp.Compare(x.CatalogNumber, y.CatalogNumber),
		)
	})

	perSystem := lo.GroupBy(items, func(it item) string { return it.system })
	for _, name := range lo.Uniq(lo.Map(items, func(it item, _ int) string { return it.system })) {
		group := perSystem[name]
		b.Systems = append(b.Systems, System{
			Name:     name,
			Quantity: len(group),
			Weight:   round2(lo.SumBy(group, func(it item) float64 { return it.data.Weight })),
		})
	}

	b.Quantity = len(items)
	b.TotalWeight = round2(lo.SumBy(b.Lines, func(l Line) float64 { return l.Weight }))
	b.Custom = lo.SumBy(lo.Filter(b.Lines, func(l Line, _ int) bool { return l.Custom() }),
		func(l Line) int { return l.Quantity })
	return b
}

// Line returns the row for a catalog number, if any.
func (b *BOM) Line(catalogNumber string) (Line, bool) {
	return lo.Find(b.Lines, func(l Line) bool { return l.CatalogNumber == catalogNumber })
}

// CountType returns how many items of type t the BOM holds.
func (b *BOM) CountType(t catalog.Type) int {
	return lo.SumBy(b.Lines, func(l Line) int {
		if l.Type == string(t) {
			return l.Quantity
		}
		return 0
	})
}

// WriteText writes an aligned plain-text table.
func (b *BOM) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "catalog no.\ttype\tvariant\tnominal\tqty\tunit kg\tkg\t")
	for _, l := range b.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t\n",
			l.CatalogNumber, l.Type, l.Variant, nominal(l.Nominal), l.Quantity, l.UnitWeight, l.Weight)
	}
	fmt.Fprintf(tw, "\t\t\ttotal\t%d\t\t%.2f\t\n", b.Quantity, b.TotalWeight)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: write text: %w", err)
	}
	return nil
}

// WriteCSV writes the lines as CSV with a header row.
func (b *BOM) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"catalogNumber", "type", "variant", "nominal", "quantity", "unitWeight", "weight"}}
	for _, l := range b.Lines {
		records = append(records, []string{
			l.CatalogNumber, l.Type, l.Variant, nominal(l.Nominal),
			strconv.Itoa(l.Quantity),
			strconv.FormatFloat(l.UnitWeight, 'f', 2, 64),
			strconv.FormatFloat(l.Weight, 'f', 2, 64),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}
	return nil
}

func nominal(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
