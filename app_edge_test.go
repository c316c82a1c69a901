package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/logger"
)

// ---------------------------------------------------------------------------
// Empty and whitespace input fall back to the default configuration.
// ---------------------------------------------------------------------------

func TestE2EEmptyScriptUsesDefaults(t *testing.T) {
	app := newTestApp()
	for _, src := range []string{"", "   \n\t", "; only a comment\n"} {
		result := app.Evaluate(context.Background(), Request{Script: src}, false)
		if len(result.Errors) != 0 {
			t.Errorf("%q: unexpected errors %v", src, result.Errors)
			continue
		}
		if result.Config.Width != config.Default().Width {
			t.Errorf("%q: width = %v, want default %v", src, result.Config.Width, config.Default().Width)
		}
	}
}

// Slices are never nil so the front end always sees [].
func TestE2EResultSlicesNonNil(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(context.Background(), Request{Script: "(stage"}, false)

	if result.Meshes == nil || result.Errors == nil || result.Warnings == nil || result.Instances == nil {
		t.Error("result slices must be non-nil")
	}
	if result.Materials == nil {
		t.Error("materials must be non-nil")
	}
}

// ---------------------------------------------------------------------------
// Script errors carry a message; builtin errors name the bad option.
// ---------------------------------------------------------------------------

func TestE2EScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown option", `(stage :colour 3)`, "unknown option"},
		{"undefined symbol", `(stage :width bays)`, ""},
		{"missing paren", "(stage :width 4)\n(roof :type :layher", ""},
	}
	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := app.Evaluate(context.Background(), Request{Script: tt.src}, false)
			if len(result.Errors) == 0 {
				t.Fatal("expected an eval error")
			}
			e := result.Errors[0]
			if e.Message == "" {
				t.Error("error has no message")
			}
			if tt.want != "" && !strings.Contains(e.Message, tt.want) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Out-of-range values are clamped, not rejected.
// ---------------------------------------------------------------------------

func TestE2EClampedDimensions(t *testing.T) {
	app := newTestApp()
	result := app.Evaluate(context.Background(),
		Request{Script: `(stage :type :stageNoRoof :width 0 :depth -3 :height 1)`}, false)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Config.Width <= 0 || result.Config.Depth <= 0 {
		t.Errorf("size = %v x %v, want clamped to positive", result.Config.Width, result.Config.Depth)
	}
	if len(result.Instances) == 0 {
		t.Error("clamped stage has no instances")
	}
}

func TestE2EUnknownMainTypeFallsBack(t *testing.T) {
	app := newTestApp()
	cfg := config.Default()
	cfg.MainType = "circus"
	result := app.Evaluate(context.Background(), Request{Config: &cfg}, false)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Instances) == 0 {
		t.Error("fallback scene has no instances")
	}
}

// ---------------------------------------------------------------------------
// Rapid and concurrent evaluation: every run gets a new version and no run
// sees another's scene.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	app := newTestApp()
	var last uint64
	for i := 0; i < 5; i++ {
		result := app.Evaluate(context.Background(), Request{Script: smallStage}, false)
		if len(result.Errors) != 0 {
			t.Fatalf("run %d: %v", i, result.Errors)
		}
		if result.Version <= last {
			t.Errorf("run %d: version %d not after %d", i, result.Version, last)
		}
		last = result.Version
	}
}

func TestE2EConcurrentEvaluation(t *testing.T) {
	app := newTestApp()
	scripts := []string{
		smallStage,
		`(stage :type :stageNoRoof :width 4.14 :depth 2.07 :height 1)`,
	}
	want := make([]int, len(scripts))
	for i, src := range scripts {
		want[i] = len(app.Evaluate(context.Background(), Request{Script: src}, false).Instances)
	}
	if want[0] == want[1] {
		t.Fatalf("test scripts build the same instance count %d", want[0])
	}

	var wg sync.WaitGroup
	errs := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := i % len(scripts)
			got := len(app.Evaluate(context.Background(), Request{Script: scripts[k]}, false).Instances)
			if got != want[k] {
				errs <- scripts[k]
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for src := range errs {
		t.Errorf("%q: instance count differs from the serial run", src)
	}
}

// A cancelled context stops tessellation and is reported as an error.
func TestE2ECancelledMeshing(t *testing.T) {
	app := newTestApp()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := app.Evaluate(ctx, Request{Script: smallStage}, true)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a cancelled context")
	}
	if !result.Failed {
		t.Error("tessellation failure not marked as a pipeline failure")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// CLI
// ---------------------------------------------------------------------------

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-format", "csv", "-cells", "64", "-out", "bom.csv"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.format != "csv" || o.cells != 64 || o.out != "bom.csv" {
		t.Errorf("got %+v", o)
	}

	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Error("expected an error for an unknown flag")
	}
	if _, err := parseFlags([]string{"stray"}); err == nil {
		t.Error("expected an error for a positional argument")
	}
}

func TestRunFormats(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "stage.lisp")
	if err := os.WriteFile(script, []byte(smallStage), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format string
		check  func(string) bool
	}{
		{"json", func(s string) bool { return strings.HasPrefix(s, "{") }},
		{"flat", func(s string) bool { return strings.HasPrefix(s, "[") }},
		{"bom", func(s string) bool { return strings.Contains(s, "total") }},
		{"csv", func(s string) bool { return strings.HasPrefix(s, "catalogNumber,") }},
		{"svg", func(s string) bool { return strings.Contains(s, "<svg") }},
		{"png", func(s string) bool { return strings.HasPrefix(s, "\x89PNG") }},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			if err := run([]string{"-script", script, "-format", tt.format}, &out, logger.Nop()); err != nil {
				t.Fatalf("run: %v", err)
			}
			if !tt.check(strings.TrimSpace(out.String())) {
				t.Errorf("unexpected %s output: %.80q", tt.format, out.String())
			}
		})
	}
}

func TestRunConfigFileAndOut(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scene.yaml")
	yml := "mainType: stageNoRoof\nwidth: 2.07\ndepth: 2.07\nheight: 1\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "bom.csv")

	if err := run([]string{"-config", cfgPath, "-format", "csv", "-out", outPath}, &bytes.Buffer{}, logger.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "basejack") {
		t.Errorf("csv lacks base jacks:\n%s", b)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.lisp")
	if err := os.WriteFile(bad, []byte("(stage :colour 1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"-format", "dwg"}, "unknown format"},
		{"missing script", []string{"-script", filepath.Join(dir, "none.lisp")}, "read script"},
		{"bad config extension", []string{"-config", filepath.Join(dir, "scene.toml")}, "unsupported file extension"},
		{"script error", []string{"-script", bad}, "script:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, &bytes.Buffer{}, logger.Nop())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}
