package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func TestDefaultIsNormal(t *testing.T) {
	s := Default()
	if changed := s.Normalize(); len(changed) != 0 {
		t.Errorf("default config changed on normalize: %v", changed)
	}
	if !reflect.DeepEqual(s, Default()) {
		t.Error("normalize altered the defaults")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Scene)
		check   func(Scene) bool
		changed []string
	}{
		{"missing width", func(s *Scene) { s.Width = 0 }, func(s Scene) bool { return s.Width == 12.42 }, nil},
		{"negative depth", func(s *Scene) { s.Depth = -3 }, func(s Scene) bool { return s.Depth == 10.35 }, []string{"depth"}},
		{"NaN height", func(s *Scene) { s.Height = math.NaN() }, func(s Scene) bool { return s.Height == 1.5 }, []string{"height"}},
		{"narrow", func(s *Scene) { s.Width = 1 }, func(s Scene) bool { return s.Width == MinSpan }, []string{"width"}},
		{"tall", func(s *Scene) { s.Height = 40 }, func(s Scene) bool { return s.Height == MaxHeight }, []string{"height"}},
		{"empty main type", func(s *Scene) { s.MainType = " " }, func(s Scene) bool { return s.MainType == StageWithRoof }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.edit(&s)
			changed := s.Normalize()
			if !tt.check(s) {
				t.Errorf("unexpected result: %+v", s)
			}
			if !slices.Equal(changed, tt.changed) {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	yamlDoc := []byte("width: 4.14\ndepth: 4.14\nheight: 1.0\nroofType: layher\nlayherScrim: true\n")
	jsonDoc := []byte(`{"width": 4.14, "depth": 4.14, "height": 1.0, "roofType": "layher", "layherScrim": true}`)

	for name, tc := range map[string]struct {
		data []byte
		f    Format
	}{
		"yaml": {yamlDoc, FormatYAML},
		"json": {jsonDoc, FormatJSON},
	} {
		t.Run(name, func(t *testing.T) {
			s, err := Decode(tc.data, tc.f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if s.Width != 4.14 || s.Height != 1.0 || s.RoofType != "layher" || !s.LayherScrimOn() {
				t.Errorf("got %+v", s)
			}
			if s.MainType != StageWithRoof || s.FohDist != 20 {
				t.Errorf("defaults lost: %+v", s)
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	if _, err := Decode([]byte("{"), FormatJSON); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.yml")
	if err := os.WriteFile(path, []byte("width: 1\nprolyteVariant: frame\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVENTER_HEIGHT", "2.0")
	t.Setenv("EVENTER_DEPTH", "not-a-number")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Width != MinSpan {
		t.Errorf("width = %v, want clamped to %v", s.Width, MinSpan)
	}
	if s.Height != 2.0 {
		t.Errorf("height = %v, want env override 2.0", s.Height)
	}
	if s.Depth != 10.35 {
		t.Errorf("depth = %v, want default 10.35", s.Depth)
	}
	if s.ProlyteVariant != "frame" {
		t.Errorf("variant = %q, want frame", s.ProlyteVariant)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("stage.toml"); err == nil {
		t.Error("expected an error for .toml")
	}
}

func TestScrimFlags(t *testing.T) {
	s := Default()
	if s.ProlyteScrimOn() || s.LayherScrimOn() || s.FohScrimOn() {
		t.Error("scrims on by default")
	}
	s.HasScrim = true
	if !s.ProlyteScrimOn() || !s.LayherScrimOn() || s.FohScrimOn() {
		t.Errorf("hasScrim gates roofs only: %+v", s)
	}
}

func TestRoofWanted(t *testing.T) {
	tests := []struct {
		main    string
		include bool
		want    bool
	}{
		{StageWithRoof, false, true},
		{StageNoRoof, false, false},
		{StageNoRoof, true, true},
		{LEDWall, true, false},
	}
	for _, tt := range tests {
		s := Scene{MainType: tt.main, IncludeRoof: tt.include}
		if got := s.RoofWanted(); got != tt.want {
			t.Errorf("%s include=%v: got %v, want %v", tt.main, tt.include, got, tt.want)
		}
	}
}
