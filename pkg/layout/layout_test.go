package layout

import (
	"math"
	"reflect"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBays(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		want      []float64
	}{
		{"minimal stage", 4.14, []float64{2.07, 2.07}},
		{"remainder bay", 5.0, []float64{2.07, 2.07, 1.04}},
		{"leftover below threshold", 4.5, []float64{2.07, 2.07}},
		{"leftover at threshold dropped", 2.57, []float64{2.07}},
		{"half only", 0.8, []float64{1.04}},
		{"just under a module", 2.06, []float64{2.07}},
		{"default stage width", 12.42, []float64{2.07, 2.07, 2.07, 2.07, 2.07, 2.07}},
		{"default stage depth", 10.35, []float64{2.07, 2.07, 2.07, 2.07, 2.07}},
		{"too small", 0.4, nil},
		{"zero", 0, nil},
		{"negative", -3, nil},
		{"nan", math.NaN(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bays(tt.requested)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bays(%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}

func TestBaysProperties(t *testing.T) {
	for w := 0.0; w <= 30; w += 0.01 {
		bays := Bays(w)
		for _, b := range bays {
			if b != ModuleFull && b != ModuleHalf {
				t.Fatalf("Bays(%v) has non-module span %v", w, b)
			}
		}
		if total := Total(bays); total > w+MaxOvershoot+1e-9 {
			t.Fatalf("Bays(%v) total %v exceeds bound", w, total)
		}
		if again := Bays(w); !reflect.DeepEqual(bays, again) {
			t.Fatalf("Bays(%v) not deterministic: %v vs %v", w, bays, again)
		}
	}
}

func TestPositionsCentred(t *testing.T) {
	pos := Positions([]float64{2.07, 2.07, 1.04})
	if len(pos) != 4 {
		t.Fatalf("got %d positions, want 4", len(pos))
	}
	if !near(pos[0], -2.59) || !near(pos[3], 2.59) {
		t.Errorf("positions = %v, want -2.59 .. 2.59", pos)
	}
}

func TestVerticalStackClosure(t *testing.T) {
	for h := MinStackHeight; h <= 12; h += 0.013 {
		s := NewVerticalStack(h)
		if !s.Closes() {
			t.Fatalf("stack for %v does not close: jack %v, top rosette %v, want %v",
				h, s.Jack, s.TopRosette(), s.Rosette)
		}
	}
}

func TestVerticalStackMinimalStage(t *testing.T) {
	s := NewVerticalStack(1.0)
	if !reflect.DeepEqual(s.Segments, []float64{0.5}) {
		t.Errorf("segments = %v, want [0.5]", s.Segments)
	}
	if !near(s.Jack, 0.134) {
		t.Errorf("jack = %v, want 0.134", s.Jack)
	}
	if !s.Closes() {
		t.Error("stack should close")
	}
	if got := s.NodeLevels(); len(got) != 2 {
		t.Errorf("node levels = %v, want collar and top rosette", got)
	}
}

func TestVerticalStackTall(t *testing.T) {
	s := NewVerticalStack(6.0)
	sum := 0.0
	for _, l := range s.Segments {
		sum += l
	}
	if len(s.Segments) < 2 {
		t.Fatalf("segments = %v, want several", s.Segments)
	}
	if len(s.Joints()) != len(s.Segments)-1 {
		t.Errorf("joints = %v for %d segments", s.Joints(), len(s.Segments))
	}
	if len(s.NodeLevels()) != len(s.Segments)+1 {
		t.Errorf("node levels = %v for %d segments", s.NodeLevels(), len(s.Segments))
	}
	if !s.Closes() {
		t.Errorf("stack %v jack %v does not close", s.Segments, s.Jack)
	}
}

func TestVerticalStackBelowMinimum(t *testing.T) {
	s := NewVerticalStack(0.3)
	if len(s.Segments) != 1 || s.Jack != JackMin {
		t.Errorf("got %v jack %v, want one standard on minimal jack", s.Segments, s.Jack)
	}
	if neg := NewVerticalStack(-4); neg.Height != 0 {
		t.Errorf("negative height not clamped: %v", neg.Height)
	}
}

func TestGreedyStack(t *testing.T) {
	tests := []struct {
		height float64
		want   []float64
	}{
		{3.9, []float64{3.0, 0.8999999999999999}},
		{8.0, []float64{4.0, 4.0}},
		{2.1, []float64{2.0}},
		{0.15, nil},
	}
	for _, tt := range tests {
		got := GreedyStack(tt.height)
		if len(got) != len(tt.want) {
			t.Errorf("GreedyStack(%v) = %v, want %v", tt.height, got, tt.want)
			continue
		}
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("GreedyStack(%v) = %v, want %v", tt.height, got, tt.want)
			}
		}
	}
}

func TestMastSegments(t *testing.T) {
	got := MastSegments(0.2, 9.0)
	want := []float64{2, 2, 2, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MastSegments = %v, want %v", got, want)
	}
}

func TestFillSegments(t *testing.T) {
	got := FillSegments(7.5, 2)
	if len(got) != 4 || !near(got[3], 1.5) {
		t.Errorf("FillSegments = %v, want [2 2 2 1.5]", got)
	}
	if FillSegments(3, 0) != nil {
		t.Error("zero size should yield nil")
	}
}

func TestStoryLevels(t *testing.T) {
	tests := []struct {
		name string
		want []float64
	}{
		{"ground", []float64{0.2}},
		{"twoStory", []float64{0.2, 2.7}},
		{"threeStory", []float64{0.2, 2.7, 5.2}},
		{"2", []float64{0.2, 2.7}},
		{"penthouse", []float64{0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := ParseStory(tt.name)
			got := s.Levels()
			if len(got) != len(tt.want) {
				t.Fatalf("levels = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("levels = %v, want %v", got, tt.want)
				}
			}
		})
	}
	if _, ok := ParseStory("penthouse"); ok {
		t.Error("unknown story should report !ok")
	}
	if got := TwoStory.Top(); !near(got, LevelBase+LevelStep) {
		t.Errorf("two-story top = %v, want base + 2.5", got)
	}
}

func TestGridMinimalStage(t *testing.T) {
	g := NewGrid(4.14, 4.14)
	if g.NX() != 2 || g.NZ() != 2 {
		t.Fatalf("grid %dx%d, want 2x2", g.NX(), g.NZ())
	}
	if got := g.Columns(); got != 9 {
		t.Errorf("columns = %d, want 9", got)
	}
	if got := len(g.Cells()); got != 4 {
		t.Errorf("cells = %d, want 4", got)
	}
	if n := g.Node(2, 2); !near(n.X, 2.07) || !near(n.Z, 2.07) {
		t.Errorf("front-right node = %v, want (2.07, 0, 2.07)", n)
	}
}

func TestGridEmpty(t *testing.T) {
	g := NewGrid(0.3, 6)
	if !g.Empty() || g.Columns() != 0 || len(g.Cells()) != 0 {
		t.Errorf("expected empty grid, got %+v", g)
	}
}

func TestCentredSpan(t *testing.T) {
	tests := []struct {
		name   string
		pos    []float64
		limit  float64
		lo, hi float64
	}{
		{"whole remainder grid", Positions(Bays(5.0)), 6.21, -2.59, 2.59},
		{"wider than limit keeps three bays", Positions(Bays(8.28)), 6.21, -4.14, 2.07},
		{"centred run wins", Positions(UniformBays(5)), 6.21, -3.105, 3.105},
		{"single node", []float64{0}, 6.21, 0, 0},
		{"empty", nil, 6.21, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := CentredSpan(tt.pos, tt.limit)
			if !near(lo, tt.lo) || !near(hi, tt.hi) {
				t.Errorf("got %v..%v, want %v..%v", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestModuleGrid(t *testing.T) {
	tests := []struct {
		w, d   float64
		nx, nz int
		wantW  float64
	}{
		{4.14, 4.14, 2, 2, 4.14},
		{5.0, 2.07, 2, 1, 4.14},
		{6.21, 3.2, 3, 2, 6.21},
		{0.5, 0.5, 1, 1, 2.07},
	}
	for _, tt := range tests {
		g := ModuleGrid(tt.w, tt.d)
		if g.NX() != tt.nx || g.NZ() != tt.nz || !near(g.Width(), tt.wantW) {
			t.Errorf("ModuleGrid(%v, %v) = %dx%d width %v, want %dx%d width %v",
				tt.w, tt.d, g.NX(), g.NZ(), g.Width(), tt.nx, tt.nz, tt.wantW)
		}
	}
}

func TestIsBracedColumn(t *testing.T) {
	tests := []struct {
		count int
		want  []bool
	}{
		{1, []bool{true}},
		{2, []bool{true, true}},
		{3, []bool{true, false, true}},
		{4, []bool{true, false, false, true}},
		{5, []bool{true, false, true, false, true}},
		{6, []bool{true, false, true, false, false, true}},
	}
	for _, tt := range tests {
		for i, want := range tt.want {
			if got := IsBracedColumn(i, tt.count); got != want {
				t.Errorf("IsBracedColumn(%d, %d) = %v, want %v", i, tt.count, got, want)
			}
		}
	}
}

func TestRoofPlane(t *testing.T) {
	p := RoofPlane{Front: 3.0, Back: 2.0, Span: 4.14}
	if !near(p.Length(), math.Sqrt(4.14*4.14+1)) {
		t.Errorf("length = %v", p.Length())
	}
	if !near(p.Angle(), math.Atan2(1, 4.14)) {
		t.Errorf("angle = %v", p.Angle())
	}
	if !near(p.HeightAt(0.5), 2.5) {
		t.Errorf("mid height = %v, want 2.5", p.HeightAt(0.5))
	}
	if (RoofPlane{Front: 3, Back: 2}).Valid() {
		t.Error("zero span should be invalid")
	}
}
