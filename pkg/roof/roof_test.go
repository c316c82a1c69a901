package roof

import (
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/logger"
)

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.NewWithCore(core), logs
}

func count(n *graph.Node, t catalog.Type) int {
	return graph.CountParts(n, string(t))
}

func validate(t *testing.T, n *graph.Node) {
	t.Helper()
	s := graph.New()
	s.AddRoot(n)
	if res := graph.ValidateAll(s); !res.OK() {
		t.Errorf("validation errors: %v", res.Errors)
	}
}

func TestLayherRoof(t *testing.T) {
	tests := []struct {
		name   string
		scrim  bool
		scrims int
	}{
		{"no scrim", false, 0},
		{"with scrim", true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Layher(nil, logger.Nop(), LayherSpec{Width: 6.21, Depth: 4.14, Scrim: tt.scrim})
			want := map[catalog.Type]int{
				catalog.Standard:   4,
				catalog.OLatticeLW: 2,
				catalog.Tube:       LayherRafters,
				catalog.Canopy:     5,
				catalog.Scrim:      tt.scrims,
			}
			for typ, n := range want {
				if got := count(r, typ); got != n {
					t.Errorf("%s = %d, want %d", typ, got, n)
				}
			}
			validate(t, r)
		})
	}
}

func TestLayherRoofHeights(t *testing.T) {
	r := Layher(nil, logger.Nop(), LayherSpec{Width: 4.14, Depth: 4.14})
	b := graph.Bounds(graph.Find(r, "rafters"))
	rise := overrunRise(LayherFrontEave, LayherBackEave, 4.14)
	if math.Abs(b.Max.Y-(LayherFrontEave+2*RafterRadius+rise)) > 0.01 {
		t.Errorf("rafters reach %v, want front eave %v", b.Max.Y, LayherFrontEave)
	}
	if math.Abs(b.Min.Y-(LayherBackEave-rise)) > 0.01 {
		t.Errorf("rafters bottom at %v, want back eave %v", b.Min.Y, LayherBackEave)
	}
}

// overrunRise is the height a rafter gains over RafterOverrun of slope.
func overrunRise(front, back, span float64) float64 {
	return RafterOverrun * (front - back) / math.Hypot(front-back, span)
}

func TestRafterRunsPastBothEaves(t *testing.T) {
	tests := []struct {
		name string
		a, b graph.Vec3
	}{
		{"layher slope", graph.V3(0, 3.0, 2.07), graph.V3(0, 2.5, -2.07)},
		{"foh slope", graph.V3(1, 5.7, -2.07), graph.V3(1, 4.7, 2.07)},
		{"flat", graph.V3(0, 2, -1), graph.V3(0, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, l := rafter(nil, tt.a, tt.b)
			if want := tt.a.DistanceTo(tt.b) + 2*RafterOverrun; math.Abs(l-want) > 1e-9 {
				t.Errorf("got length %v, want %v", l, want)
			}
			if got := count(n, catalog.Tube); got != 1 {
				t.Errorf("got %d tubes, want 1", got)
			}
		})
	}

	d := 4.14
	r := Layher(nil, logger.Nop(), LayherSpec{Width: 4.14, Depth: d})
	b := graph.Bounds(graph.Find(r, "rafters"))
	past := RafterOverrun * d / math.Hypot(LayherFrontEave-LayherBackEave, d)
	if b.Max.Z < d/2+past-0.01 || b.Min.Z > -d/2-past+0.01 {
		t.Errorf("rafters span z %v..%v, want past the eaves at +-%v", b.Min.Z, b.Max.Z, d/2+past)
	}
}

func TestLayherRoofClampsWidth(t *testing.T) {
	log, logs := observed()
	r := Layher(nil, log, LayherSpec{Width: 10, Depth: 4.14})
	if logs.FilterMessage("layher roof width clamped").Len() != 1 {
		t.Error("expected a clamp warning")
	}
	if w := graph.Bounds(graph.Find(r, "girders")).Size().X; w > LayherMaxWidth+0.1 {
		t.Errorf("girders span %v, want at most %v", w, LayherMaxWidth)
	}
}

func TestZeroSpanSkipsRoof(t *testing.T) {
	builders := map[string]func(*logger.Logger) *graph.Node{
		"layher": func(l *logger.Logger) *graph.Node {
			return Layher(nil, l, LayherSpec{Width: 0, Depth: 4.14, Scrim: true})
		},
		"foh": func(l *logger.Logger) *graph.Node {
			return FOH(nil, l, FOHSpec{Width: 4.14, Depth: -1, Top: 2.7, Scrim: true})
		},
	}
	for _, v := range []Variant{VariantStandard, VariantFrame, VariantLayherBase, VariantSuspended} {
		builders["prolyte "+v.String()] = func(l *logger.Logger) *graph.Node {
			return Prolyte(nil, l, ProlyteSpec{Variant: v, Width: 12, Depth: 0, Scrim: true})
		}
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			log, logs := observed()
			r := build(log)
			if len(r.Children) != 0 {
				t.Errorf("got %d children, want an empty roof", len(r.Children))
			}
			if logs.FilterMessage("roof span not positive, skipping canopy and scrims").Len() != 1 {
				t.Error("expected a zero-span warning")
			}
		})
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
		ok   bool
	}{
		{"standard", VariantStandard, true},
		{"frame", VariantFrame, true},
		{"Layher_Base", VariantLayherBase, true},
		{" suspended ", VariantSuspended, true},
		{"", VariantStandard, true},
		{"tent", VariantStandard, false},
	}
	for _, tt := range tests {
		got, ok := ParseVariant(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseVariant(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if Variant(42).String() != "unknown" {
		t.Errorf("got %q, want unknown", Variant(42).String())
	}
}

func TestProlyteUnknownVariantFallsBack(t *testing.T) {
	log, logs := observed()
	got := Prolyte(nil, log, ProlyteSpec{Variant: Variant(42), Width: 12, Depth: 10})
	want := Prolyte(nil, logger.Nop(), ProlyteSpec{Variant: VariantStandard, Width: 12, Depth: 10})
	if !reflect.DeepEqual(got, want) {
		t.Error("unknown variant should build the standard roof")
	}
	if logs.FilterMessage("unknown prolyte variant, using standard").Len() != 1 {
		t.Error("expected an unknown-variant warning")
	}
}

func TestProlyteStandard(t *testing.T) {
	r := Prolyte(nil, logger.Nop(), ProlyteSpec{Width: 12, Depth: 10, Scrim: true, Ballast: true})
	want := map[catalog.Type]int{
		catalog.MPTBase:    4,
		catalog.MPTSleeve:  4,
		catalog.MPTTop:     4,
		catalog.ChainHoist: 4,
		catalog.BoxCorner:  2,
		catalog.RidgeNode:  2,
		catalog.TrussH30D:  10,
		catalog.Canopy:     1,
		catalog.Scrim:      3,
		catalog.Ballast:    4,
	}
	for typ, n := range want {
		if got := count(r, typ); got != n {
			t.Errorf("%s = %d, want %d", typ, got, n)
		}
	}
	b := graph.Bounds(r)
	if ridge := ProlyteClearance + GridLift + RidgeRise; b.Max.Y < ridge {
		t.Errorf("roof top %v below ridge %v", b.Max.Y, ridge)
	}
	if b.Max.Z < 10.0/2+Cantilever {
		t.Errorf("ridge ends at z=%v, want the cantilever over the audience", b.Max.Z)
	}
	validate(t, r)
}

func TestProlyteStandardNoCanopy(t *testing.T) {
	r := Prolyte(nil, logger.Nop(), ProlyteSpec{Width: 12, Depth: 10, NoCanopy: true})
	if got := count(r, catalog.Canopy); got != 0 {
		t.Errorf("canopies = %d, want 0", got)
	}
}

func TestProlyteFrame(t *testing.T) {
	tests := []struct {
		name    string
		width   float64
		beams   int
		clamped bool
	}{
		{"narrow", 8, 4, false},
		{"mid beam", 12, 5, false},
		{"clamped", 20, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observed()
			r := Prolyte(nil, log, ProlyteSpec{Variant: VariantFrame, Width: tt.width, Depth: 10})
			if got := len(graph.Find(r, "grid").Children); got != tt.beams {
				t.Errorf("grid beams = %d, want %d", got, tt.beams)
			}
			if got := logs.FilterMessage("prolyte span clamped").Len() == 1; got != tt.clamped {
				t.Errorf("clamp warning = %v, want %v", got, tt.clamped)
			}
			if w := graph.Bounds(graph.Find(r, "towers")).Size().X; w > FrameMaxWidth+3 {
				t.Errorf("towers span %v", w)
			}
			validate(t, r)
		})
	}
}

func TestProlyteLayherBase(t *testing.T) {
	r := Prolyte(nil, logger.Nop(), ProlyteSpec{Variant: VariantLayherBase, Width: 12, Depth: 10})
	podiums := graph.Find(r, "podiums")
	if got := len(podiums.Children); got != 4 {
		t.Fatalf("podiums = %d, want 4", got)
	}
	if got := count(podiums, catalog.Deck); got != 8 {
		t.Errorf("podium decks = %d, want 8", got)
	}
	_ = graph.Walk(r, func(v graph.Visit) error {
		if pd, ok := v.Node.Data.(graph.PartData); ok && pd.Type == string(catalog.MPTBase) {
			if y := v.World.Apply(graph.Vec3{}).Y; math.Abs(y-PodiumHeight) > 1e-9 {
				t.Errorf("tower base at y=%v, want %v", y, PodiumHeight)
			}
		}
		return nil
	})
	validate(t, r)
}

func TestProlyteSuspended(t *testing.T) {
	r := Prolyte(nil, logger.Nop(), ProlyteSpec{Variant: VariantSuspended, Width: 12, Depth: 10, Ballast: true})
	want := map[catalog.Type]int{
		catalog.MPTBase:    0,
		catalog.ChainHoist: 4,
		catalog.BoxCorner:  4,
		catalog.Ballast:    4,
	}
	for typ, n := range want {
		if got := count(r, typ); got != n {
			t.Errorf("%s = %d, want %d", typ, got, n)
		}
	}
	supports := graph.Bounds(graph.Find(r, "supports"))
	if supports.Max.Y < SuspendedHeight+SupportOverrun-0.5 {
		t.Errorf("support towers reach %v, want above the grid", supports.Max.Y)
	}
	if supports.Size().X < 12+SupportSpreadX {
		t.Errorf("support towers span %v, want outside the grid", supports.Size().X)
	}
	validate(t, r)
}

func TestFOHRoof(t *testing.T) {
	r := FOH(nil, logger.Nop(), FOHSpec{Width: 4.14, Depth: 4.14, Top: 2.7, Scrim: true})
	want := map[catalog.Type]int{
		catalog.ULatticeAlu: 2,
		catalog.Tube:        15,
		catalog.Canopy:      5,
		catalog.Scrim:       3,
	}
	for typ, n := range want {
		if got := count(r, typ); got != n {
			t.Errorf("%s = %d, want %d", typ, got, n)
		}
	}
	rafters := graph.Bounds(graph.Find(r, "rafters"))
	rise := overrunRise(2.7+FOHFrontRise, 2.7+FOHBackRise, 4.14)
	if math.Abs(rafters.Max.Y-(2.7+FOHFrontRise+2*RafterRadius+rise)) > 0.01 {
		t.Errorf("rafters reach %v, want %v", rafters.Max.Y, 2.7+FOHFrontRise)
	}
	validate(t, r)
}

func TestFOHEaves(t *testing.T) {
	p := FOHEaves(2.7)
	if math.Abs(p.Front-5.7) > 1e-9 || math.Abs(p.Back-4.7) > 1e-9 {
		t.Errorf("eaves = %v/%v, want 5.7/4.7", p.Front, p.Back)
	}
}

func TestMauserBallast(t *testing.T) {
	b := MauserBallast(nil)
	want := map[catalog.Type]int{
		catalog.BaseJack:   4,
		catalog.BaseCollar: 4,
		catalog.Standard:   4,
		catalog.ULatticeLW: 2,
		catalog.ULedger:    3,
		catalog.Ballast:    1,
	}
	for typ, n := range want {
		if got := count(b, typ); got != n {
			t.Errorf("%s = %d, want %d", typ, got, n)
		}
	}
	validate(t, b)
}

func TestTrussSegments(t *testing.T) {
	tests := []struct {
		length float64
		want   []float64
	}{
		{11.45, []float64{4, 4, 3, 0.45}},
		{8.0, []float64{4, 4}},
		{2.5, []float64{2.5}},
		{0.03, nil},
		{0, nil},
	}
	for _, tt := range tests {
		got := trussSegments(tt.length)
		if len(got) != len(tt.want) {
			t.Errorf("trussSegments(%v) = %v, want %v", tt.length, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("trussSegments(%v) = %v, want %v", tt.length, got, tt.want)
				break
			}
		}
	}
}
