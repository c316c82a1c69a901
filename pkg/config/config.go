// Package config holds the flat scene configuration: the struct with its
// documented defaults, clamping, file loading and environment overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

// Scene is the flat configuration of one generated scene. Field names
// follow the keys accepted in YAML and JSON.
type Scene struct {
	MainType string `yaml:"mainType" json:"mainType"`

	Width     float64 `yaml:"width" json:"width"`
	Depth     float64 `yaml:"depth" json:"depth"`
	Height    float64 `yaml:"height" json:"height"`
	FloorType string  `yaml:"floorType" json:"floorType"`

	IncludeRoof    bool    `yaml:"includeRoof" json:"includeRoof"`
	RoofType       string  `yaml:"roofType" json:"roofType"`
	ProlyteVariant string  `yaml:"prolyteVariant" json:"prolyteVariant"`
	RoofClearance  float64 `yaml:"roofClearance" json:"roofClearance"`
	NoCanopy       bool    `yaml:"noCanopy" json:"noCanopy"`
	Ballast        bool    `yaml:"ballast" json:"ballast"`

	Scrim        bool `yaml:"scrim" json:"scrim"`
	HasScrim     bool `yaml:"hasScrim" json:"hasScrim"`
	ProlyteScrim bool `yaml:"prolyteScrim" json:"prolyteScrim"`
	LayherScrim  bool `yaml:"layherScrim" json:"layherScrim"`

	IncludeFoh bool    `yaml:"includeFoh" json:"includeFoh"`
	FohType    string  `yaml:"fohType" json:"fohType"`
	FohWidth   float64 `yaml:"fohWidth" json:"fohWidth"`
	FohDepth   float64 `yaml:"fohDepth" json:"fohDepth"`
	FohDist    float64 `yaml:"fohDist" json:"fohDist"`
	FohScrim   bool    `yaml:"fohScrim" json:"fohScrim"`
	FohTower   bool    `yaml:"fohTower" json:"fohTower"`

	EnvMode string `yaml:"envMode" json:"envMode"`
}

// Main types.
const (
	StageWithRoof = "stageWithRoof"
	StageNoRoof   = "stageNoRoof"
	LayherTower   = "layherTower"
	LEDWall       = "ledWall"
)

// Limits applied by Normalize.
const (
	MinSpan      = 2.07
	MaxSpan      = 62.1
	MinHeight    = 0.6
	MaxHeight    = 12.0
	MinClearance = 3.0
	MaxClearance = 12.0
	MaxFohDist   = 100.0
)

// Default returns the documented defaults: a 12.42 x 10.35 m stage 1.5 m
// high under a standard Prolyte roof.
func Default() Scene {
	return Scene{
		MainType:       StageWithRoof,
		Width:          12.42,
		Depth:          10.35,
		Height:         1.5,
		FloorType:      "layher",
		RoofType:       "prolyte",
		ProlyteVariant: "standard",
		RoofClearance:  7.0,
		FohType:        "twoStory",
		FohWidth:       4.14,
		FohDepth:       4.14,
		FohDist:        20.0,
		EnvMode:        "mono",
	}
}

// Normalize replaces missing or non-finite numbers with their defaults,
// clamps the rest into range and fills empty discriminants. It returns the
// keys it changed.
func (s *Scene) Normalize() []string {
	def := Default()
	var changed []string
	num := func(key string, v *float64, dflt, lo, hi float64) {
		switch {
		case math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0:
			if *v != 0 {
				changed = append(changed, key)
			}
			*v = dflt
		case *v < lo:
			*v, changed = lo, append(changed, key)
		case *v > hi:
			*v, changed = hi, append(changed, key)
		}
	}
	num("width", &s.Width, def.Width, MinSpan, MaxSpan)
	num("depth", &s.Depth, def.Depth, MinSpan, MaxSpan)
	num("height", &s.Height, def.Height, MinHeight, MaxHeight)
	num("roofClearance", &s.RoofClearance, def.RoofClearance, MinClearance, MaxClearance)
	num("fohWidth", &s.FohWidth, def.FohWidth, MinSpan, MaxSpan)
	num("fohDepth", &s.FohDepth, def.FohDepth, MinSpan, MaxSpan)
	num("fohDist", &s.FohDist, def.FohDist, 0, MaxFohDist)

	str := func(v *string, dflt string) {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			*v = dflt
		}
	}
	str(&s.MainType, def.MainType)
	str(&s.FloorType, def.FloorType)
	str(&s.RoofType, def.RoofType)
	str(&s.ProlyteVariant, def.ProlyteVariant)
	str(&s.FohType, def.FohType)
	str(&s.EnvMode, def.EnvMode)
	return changed
}

// ProlyteScrimOn reports whether a Prolyte roof gets scrims.
func (s Scene) ProlyteScrimOn() bool { return s.ProlyteScrim || s.HasScrim || s.Scrim }

// LayherScrimOn reports whether a Layher roof gets scrims.
func (s Scene) LayherScrimOn() bool { return s.LayherScrim || s.HasScrim || s.Scrim }

// FohScrimOn reports whether the FOH roof gets scrims.
func (s Scene) FohScrimOn() bool { return s.FohScrim || s.Scrim }

// RoofWanted reports whether the main type carries a roof.
func (s Scene) RoofWanted() bool {
	return s.MainType == StageWithRoof || (s.MainType == StageNoRoof && s.IncludeRoof)
}

// ============================================================
// Loading
// ============================================================

// Format is a configuration encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("config: unsupported file extension %q", filepath.Ext(path))
	}
}

// Decode parses data over the defaults. Keys missing from data keep their
// default values. The result is not normalized.
func Decode(data []byte, f Format) (Scene, error) {
	s := Default()
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return Scene{}, fmt.Errorf("config: decode: %w", err)
	}
	return s, nil
}

// Load reads a YAML or JSON file, applies EVENTER_* environment overrides
// and normalizes the result.
func Load(path string) (Scene, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Scene{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("config: %w", err)
	}
	s, err := Decode(b, f)
	if err != nil {
		return Scene{}, err
	}
	s.ApplyEnv()
	s.Normalize()
	return s, nil
}

// ApplyEnv overrides fields from EVENTER_* environment variables.
// Unparseable numbers leave the field unchanged.
func (s *Scene) ApplyEnv() {
	s.MainType = getEnv("EVENTER_MAIN_TYPE", s.MainType)
	s.Width = getEnvAsFloat("EVENTER_WIDTH", s.Width)
	s.Depth = getEnvAsFloat("EVENTER_DEPTH", s.Depth)
	s.Height = getEnvAsFloat("EVENTER_HEIGHT", s.Height)
	s.FloorType = getEnv("EVENTER_FLOOR_TYPE", s.FloorType)
	s.RoofType = getEnv("EVENTER_ROOF_TYPE", s.RoofType)
	s.ProlyteVariant = getEnv("EVENTER_PROLYTE_VARIANT", s.ProlyteVariant)
	s.RoofClearance = getEnvAsFloat("EVENTER_ROOF_CLEARANCE", s.RoofClearance)
	s.FohType = getEnv("EVENTER_FOH_TYPE", s.FohType)
	s.EnvMode = getEnv("EVENTER_ENV_MODE", s.EnvMode)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
