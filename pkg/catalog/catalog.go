package catalog

import (
	"fmt"
	"math"

	"github.com/marekdadej/Eventer/pkg/graph"
)

// Type tags one kind of physical item.
type Type string

const (
	// Layher Allround / LW
	Standard    Type = "standard"     // vertical standard with rosettes
	Ledger      Type = "ledger"       // horizontal O-ledger LW
	ULedger     Type = "uledger"      // U-ledger (deck bearer)
	Brace       Type = "brace"        // vertical diagonal
	ULatticeAlu Type = "girder/u-alu" // U lattice girder, aluminium
	ULatticeLW  Type = "girder/u-lw"  // U lattice girder, steel
	OLatticeLW  Type = "girder/o-lw"  // O lattice girder, steel
	Deck        Type = "deck"         // deck panel or Peri bay
	BaseJack    Type = "basejack"
	WoodPad     Type = "woodpad"
	BaseCollar  Type = "basecollar"
	Spigot      Type = "spigot"
	LockingPin  Type = "pin"
	Bolt        Type = "bolt"
	Stairs      Type = "stairs"
	Tube        Type = "tube" // plain scaffold tube (rafters)

	// Prolyte
	TrussH30V  Type = "truss/h30v"
	TrussH40V  Type = "truss/h40v"
	TrussH30D  Type = "truss/h30d"
	MPTBase    Type = "mpt/base"
	MPTSleeve  Type = "mpt/sleeve"
	MPTTop     Type = "mpt/top"
	BoxCorner  Type = "mpt/corner"
	RidgeNode  Type = "mpt/ridge-node"
	ChainHoist Type = "hoist"

	// Textiles and ballast
	Canopy  Type = "canopy"
	Scrim   Type = "scrim"
	Ballast Type = "ballast"
)

// CustomCatalogNumber marks a spec whose dimension is not in the tables.
const CustomCatalogNumber = "CUSTOM"

// PartSpec is the immutable catalog record of one item.
type PartSpec struct {
	Type          Type    `json:"type"`
	Variant       string  `json:"variant,omitempty"`
	Nominal       float64 `json:"nominal,omitempty"`
	Material      string  `json:"material"`
	Weight        float64 `json:"weight"`
	CatalogNumber string  `json:"catalogNumber"`
	Fallback      bool    `json:"fallback,omitempty"`
}

// PartData converts the spec into the scene-tree metadata payload.
func (s PartSpec) PartData() graph.PartData {
	return graph.PartData{
		Type:          string(s.Type),
		Variant:       s.Variant,
		Nominal:       s.Nominal,
		Weight:        s.Weight,
		CatalogNumber: s.CatalogNumber,
	}
}

// entry is one row of a table.
type entry struct {
	weight  float64
	catalog string
}

// table holds the rows of one (type, variant) pair.
type table struct {
	material string
	factor   float64 // kg per metre (or per m² for area tables) when not cataloged
	fixed    *entry  // items without a length key
	rows     map[int]entry
}

// key turns a nominal length into a table key in whole centimetres, so that
// 2.07 and 2.0700000001 address the same row.
func key(nominal float64) int {
	return int(math.Round(nominal * 100))
}

type tableKey struct {
	t       Type
	variant string
}

// defaults maps a type to the variant used when the caller passes none or
// one that has no table.
var defaults = map[Type]string{
	Standard: "withSpigot",
	ULedger:  "lwT14",
	Deck:     "i6",
	Stairs:   "5steps",
	Ballast:  "mauser",
}

// Lookup returns the spec for an item. Unknown variants use the type's
// default variant; unknown lengths use the linear fallback. Unknown types
// return a fallback spec with zero weight.
func Lookup(t Type, nominal float64, variant string) PartSpec {
	tb, variant := resolve(t, variant)
	spec := PartSpec{Type: t, Variant: variant, Nominal: nominal}
	if tb == nil {
		spec.Material = MatGalvNew
		spec.CatalogNumber = CustomCatalogNumber
		spec.Fallback = true
		return spec
	}
	spec.Material = tb.material

	if tb.fixed != nil {
		spec.Weight = tb.fixed.weight
		spec.CatalogNumber = tb.fixed.catalog
		return spec
	}
	if row, ok := tb.rows[key(nominal)]; ok {
		spec.Weight = row.weight
		spec.CatalogNumber = row.catalog
		return spec
	}
	spec.Weight = round2(math.Abs(nominal) * tb.factor)
	spec.CatalogNumber = CustomCatalogNumber
	spec.Fallback = true
	return spec
}

// LookupArea is Lookup for items priced by area (Peri bays, textiles).
// The nominal of the returned spec is the length.
func LookupArea(t Type, length, width float64, variant string) PartSpec {
	tb, variant := resolve(t, variant)
	spec := Lookup(t, length, variant)
	if tb == nil || tb.fixed != nil {
		return spec
	}
	if _, cataloged := tb.rows[key(length)]; cataloged {
		return spec
	}
	spec.Weight = round2(math.Abs(length*width) * tb.factor)
	return spec
}

func resolve(t Type, variant string) (*table, string) {
	if tb, ok := tables[tableKey{t, variant}]; ok {
		return tb, variant
	}
	if d, ok := defaults[t]; ok {
		if tb, ok := tables[tableKey{t, d}]; ok {
			return tb, d
		}
	}
	if tb, ok := tables[tableKey{t, ""}]; ok {
		return tb, ""
	}
	return nil, variant
}

// Known reports whether the (type, variant) pair has a table.
func Known(t Type, variant string) bool {
	_, ok := tables[tableKey{t, variant}]
	return ok
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

func rows(pairs ...interface{}) map[int]entry {
	m := make(map[int]entry, len(pairs)/3)
	for i := 0; i+2 < len(pairs); i += 3 {
		m[key(pairs[i].(float64))] = entry{weight: pairs[i+1].(float64), catalog: pairs[i+2].(string)}
	}
	return m
}

// perMetre generates rows for items whose weight is linear in length and
// whose catalog number encodes the length in centimetres.
func perMetre(prefix string, factor float64, lengths ...float64) map[int]entry {
	m := make(map[int]entry, len(lengths))
	for _, l := range lengths {
		m[key(l)] = entry{weight: round2(l * factor), catalog: fmt.Sprintf("%s.%03d", prefix, key(l))}
	}
	return m
}

var tables = map[tableKey]*table{
	{Standard, "withSpigot"}: {material: MatGalvNew, factor: 4.5, rows: rows(
		0.5, 2.7, "2617.050",
		1.0, 4.9, "2617.100",
		1.5, 7.1, "2617.150",
		2.0, 9.3, "2617.200",
		2.5, 11.5, "2617.250",
		3.0, 13.7, "2617.300",
		4.0, 18.1, "2617.400",
	)},
	{Standard, "withoutSpigot"}: {material: MatGalvNew, factor: 4.4, rows: rows(
		0.5, 2.2, "2619.050",
		1.0, 4.4, "2619.100",
		1.5, 6.6, "2619.150",
		2.0, 8.8, "2619.200",
	)},
	{Ledger, ""}: {material: MatGalvNew, factor: 3.5, rows: rows(
		0.73, 3.2, "2603.073",
		1.04, 4.0, "2603.103",
		1.09, 4.2, "2603.109",
		1.40, 5.1, "2603.140",
		1.57, 5.6, "2603.157",
		2.07, 7.2, "2603.207",
		2.57, 8.8, "2603.257",
		3.07, 10.3, "2603.307",
		4.14, 13.7, "2603.414",
	)},
	{ULedger, "lwT14"}: {material: MatGalvNew, factor: 5.0, rows: rows(
		0.73, 3.1, "2618.073",
		1.04, 4.2, "2618.103",
		1.09, 4.3, "2618.109",
		1.40, 5.4, "2618.139",
		1.57, 5.9, "2618.157",
		2.07, 7.7, "2618.207",
		2.57, 9.4, "2618.257",
		3.07, 11.2, "2618.307",
	)},
	{ULedger, "lwT14Reinforced"}: {material: MatGalvNew, factor: 5.0, rows: rows(
		1.40, 8.9, "2618.140",
		1.57, 9.4, "2613.157",
		2.07, 12.7, "2613.207",
		2.57, 15.7, "2613.257",
		3.07, 19.0, "2613.307",
	)},
	{ULedger, "event"}: {material: MatAlu, factor: 5.0, rows: rows(
		0.73, 4.5, "5400.073",
		1.04, 6.0, "5400.104",
		1.09, 6.3, "5400.109",
		1.40, 8.0, "5400.140",
		1.57, 9.0, "5400.157",
		2.07, 12.0, "5400.207",
		2.57, 15.0, "5400.257",
		3.07, 18.0, "5400.307",
	)},
	{Brace, ""}: {material: MatGalvNew, factor: 3.5, rows: rows(
		2.20, 10.0, "DETAILED",
		2.48, 10.0, "DETAILED",
		2.81, 10.0, "DETAILED",
		3.18, 10.0, "DETAILED",
		3.60, 10.0, "DETAILED",
	)},
	{ULatticeAlu, ""}: {material: MatAlu, factor: 5.0, rows: rows(
		1.57, 8.6, "3206.157",
		2.07, 12.3, "3206.207",
		2.57, 15.2, "3206.257",
		3.07, 17.0, "3206.307",
		4.14, 24.6, "3206.414",
		5.14, 30.2, "3206.514",
		6.14, 35.5, "3206.614",
		6.21, 36.5, "3206.621",
	)},
	{ULatticeLW, ""}: {material: MatGalvNew, factor: 10.0, rows: rows(
		2.07, 21.4, "2673.207",
		2.57, 24.9, "2673.257",
		3.07, 31.9, "2673.307",
		4.14, 40.0, "2673.414",
		5.14, 51.2, "2673.514",
		6.14, 60.5, "2673.614",
		6.21, 61.0, "2673.621",
	)},
	{OLatticeLW, ""}: {material: MatGalvNew, factor: 10.0, rows: rows(
		2.07, 22.2, "2674.207",
		2.57, 25.5, "2674.257",
		3.07, 30.9, "2674.307",
		4.14, 40.2, "2674.414",
		5.14, 51.2, "2674.514",
		6.14, 59.2, "2674.614",
		6.21, 60.0, "2674.621",
	)},
	{Deck, "i6"}: {material: MatPlywoodEvent, factor: 6.5, rows: rows(
		0.73, 5.6, "3883.073",
		1.04, 7.4, "3883.104",
		1.57, 10.5, "3883.157",
		2.07, 13.4, "3883.207",
		2.57, 16.4, "3883.257",
		3.07, 19.3, "3883.307",
	)},
	{Deck, "eventT16"}:   {material: MatPlywoodEvent, fixed: &entry{34.3, "5402.xxx"}},
	{Deck, "periBay"}:    {material: MatPeriPlywood, factor: 30.0, rows: map[int]entry{}},
	{BaseJack, "60a"}:    {material: MatGalvNew, fixed: &entry{3.6, "4002.060"}},
	{BaseJack, ""}:       {material: MatGalvNew, fixed: &entry{3.6, "4002.060"}},
	{WoodPad, ""}:        {material: MatPlywoodEvent, fixed: &entry{1.2, "WOOD.250"}},
	{BaseCollar, ""}:     {material: MatGalvNew, fixed: &entry{1.6, "2660.000"}},
	{Spigot, ""}:         {material: MatGalvNew, fixed: &entry{1.6, "214.000"}},
	{LockingPin, ""}:     {material: MatPlasticRed, fixed: &entry{0.1, "4000.001"}},
	{Bolt, ""}:           {material: MatHighSteel, fixed: &entry{0.06, "4905.062"}},
	{Tube, ""}:           {material: MatGalvNew, factor: 3.56, rows: perMetre("4604", 3.56, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0, 5.0, 6.0)},
	{Tube, "alu"}:        {material: MatAlu, factor: 1.7, rows: perMetre("4606", 1.7, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0, 5.0, 6.0)},
	{Stairs, "5steps"}:   {material: MatAlu, fixed: &entry{18.0, "2639.004"}},
	{Stairs, "9steps"}:   {material: MatAlu, fixed: &entry{34.0, "2639.009"}},
	{TrussH30V, ""}:      {material: MatAlu, factor: 6.0, rows: perMetre("H30V-L", 6.0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0)},
	{TrussH40V, ""}:      {material: MatAlu, factor: 8.5, rows: perMetre("H40V-L", 8.5, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0)},
	{TrussH30D, ""}:      {material: MatAlu, factor: 4.5, rows: perMetre("H30D-L", 4.5, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0)},
	// Tower hardware and hoists have no catalog rows; weights are
	// manufacturer brochure estimates.
	{MPTBase, ""}:        {material: MatAlu, fixed: &entry{85.0, "MPT-BASE"}},
	{MPTSleeve, ""}:      {material: MatAlu, fixed: &entry{42.0, "MPT-SLEEVE"}},
	{MPTTop, ""}:         {material: MatAlu, fixed: &entry{18.0, "MPT-TOP"}},
	{BoxCorner, ""}:      {material: MatAlu, fixed: &entry{7.5, "BC-40V"}},
	{RidgeNode, ""}:      {material: MatAlu, fixed: &entry{9.0, "RN-40V"}},
	{ChainHoist, ""}:     {material: MatBlackSteel, fixed: &entry{58.0, "HOIST-1T"}},
	{Ballast, "mauser"}:  {material: MatTank, fixed: &entry{1060.0, "IBC-1000"}},
	{Canopy, ""}:         {material: MatCanopy, factor: 0.65, rows: map[int]entry{}},
	{Scrim, ""}:          {material: MatScrim, factor: 0.30, rows: map[int]entry{}},
}
