package report_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/engine"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/logger"
	"github.com/marekdadej/Eventer/pkg/report"
)

func part(typ, variant, catalogNumber string, nominal, weight float64) *graph.Node {
	return graph.Part(graph.PartData{
		Type: typ, Variant: variant, Nominal: nominal, Weight: weight, CatalogNumber: catalogNumber,
	}, graph.Box("body", graph.V3(0.1, 0.1, 0.1), ""))
}

func sample() *graph.Scene {
	s := graph.New()
	s.AddRoot(graph.Group("floor",
		part("ledger", "", "2602.207", 2.07, 8.5),
		part("ledger", "", "2602.207", 2.07, 8.5),
		part("ledger", "", "2602.104", 1.04, 4.6),
		part("deck", "", "CUSTOM", 1.5, 12),
	))
	s.AddRoot(graph.Group("roof",
		part("ledger", "", "2602.207", 2.07, 8.5),
		part("truss/h30v", "", "H30V-L300", 3, 15.1),
	))
	return s
}

func TestBuild(t *testing.T) {
	b := report.Build(sample())

	if b.Quantity != 6 {
		t.Errorf("quantity = %d, want 6", b.Quantity)
	}
	if b.TotalWeight != 57.2 {
		t.Errorf("total weight = %v, want 57.2", b.TotalWeight)
	}
	if b.Custom != 1 {
		t.Errorf("custom = %d, want 1", b.Custom)
	}
	if len(b.Lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(b.Lines))
	}

	l, ok := b.Line("2602.207")
	if !ok {
		t.Fatal("missing line 2602.207")
	}
	if l.Quantity != 3 || l.Weight != 25.5 || l.UnitWeight != 8.5 {
		t.Errorf("line = %+v, want 3 x 8.5 = 25.5", l)
	}
	if got := b.CountType(catalog.Ledger); got != 4 {
		t.Errorf("ledgers = %d, want 4", got)
	}
}

func TestBuildOrdersLines(t *testing.T) {
	b := report.Build(sample())
	var got []string
	for _, l := range b.Lines {
		got = append(got, l.CatalogNumber)
	}
	want := []string{"CUSTOM", "2602.104", "2602.207", "H30V-L300"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuildSystems(t *testing.T) {
	b := report.Build(sample())
	if len(b.Systems) != 2 {
		t.Fatalf("systems = %d, want 2", len(b.Systems))
	}
	if b.Systems[0].Name != "floor" || b.Systems[0].Quantity != 4 || b.Systems[0].Weight != 33.6 {
		t.Errorf("floor = %+v, want 4 items, 33.6 kg", b.Systems[0])
	}
	if b.Systems[1].Name != "roof" || b.Systems[1].Quantity != 2 || b.Systems[1].Weight != 23.6 {
		t.Errorf("roof = %+v, want 2 items, 23.6 kg", b.Systems[1])
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, s := range []*graph.Scene{nil, graph.New()} {
		b := report.Build(s)
		if b.Quantity != 0 || b.TotalWeight != 0 || len(b.Lines) != 0 {
			t.Errorf("got %+v, want an empty BOM", b)
		}
	}
}

func TestNestedPartsCountSeparately(t *testing.T) {
	s := graph.New()
	std := graph.Part(graph.PartData{Type: "standard", CatalogNumber: "2602.200", Weight: 11},
		part("rosette", "", "ROS", 0, 0.5),
		part("rosette", "", "ROS", 0, 0.5),
	)
	s.AddRoot(graph.Group("tower", std))
	b := report.Build(s)
	if b.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", b.Quantity)
	}
	if b.TotalWeight != 12 {
		t.Errorf("total = %v, want 12", b.TotalWeight)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Build(sample()).WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"catalog no.", "2602.207", "25.50", "total", "57.20"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Build(sample()).WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("records = %d, want 5", len(records))
	}
	if records[0][0] != "catalogNumber" {
		t.Errorf("header = %v", records[0])
	}
	if records[3][0] != "2602.207" || records[3][4] != "3" {
		t.Errorf("row = %v, want 2602.207 x 3", records[3])
	}
}

func TestBuildFromCoordinatedScene(t *testing.T) {
	c := engine.NewCoordinator(catalog.Default(), logger.Nop())
	cfg := config.Default()
	cfg.Width, cfg.Depth, cfg.Height = 4.14, 4.14, 1.0
	cfg.MainType = config.StageNoRoof
	res, err := c.Update(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b := report.Build(res.Scene)
	if got := b.CountType(catalog.BaseJack); got != 9 {
		t.Errorf("base jacks = %d, want 9", got)
	}
	if b.TotalWeight <= 0 {
		t.Errorf("total weight = %v, want positive", b.TotalWeight)
	}
	if len(b.Systems) != 1 || b.Systems[0].Name != "stage-floor" {
		t.Errorf("systems = %+v, want the stage floor only", b.Systems)
	}
}
