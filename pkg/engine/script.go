package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/marekdadej/Eventer/pkg/config"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites a stage script into something zygomys reads:
//
//  1. :keyword becomes the string literal "__kw_keyword".
//  2. kebab-case identifiers become snake_case (zygomys reads the hyphen
//     as subtraction).
//  3. ; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"' || c == '`':
			j := skipString(b, i)
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipString returns the index just past the string literal opening at i.
// Backslash escapes apply inside double quotes only.
func skipString(b []byte, i int) int {
	quote := b[i]
	j := i + 1
	for j < len(b) && b[j] != quote {
		if quote == '"' && b[j] == '\\' {
			j++
		}
		j++
	}
	return min(j+1, len(b))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a call's arguments split into keyword options and
// positional values.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args. A keyword always takes the next argument as its
// value; a trailing keyword is a bare flag and maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		switch {
		case !ok:
			res.positional = append(res.positional, args[i])
		case i+1 < len(args):
			res.kw[name] = args[i+1]
			i++
		default:
			res.kw[name] = zygo.SexpNull
		}
	}
	return res
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

// toName accepts a keyword or a plain string.
func toName(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toBool accepts true/false, numbers, yes/no style names and a bare flag.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	if s == zygo.SexpNull {
		return true, nil
	}
	name, err := toName(s)
	if err != nil {
		return false, fmt.Errorf("expected boolean: %w", err)
	}
	switch strings.ToLower(name) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected boolean, got %q", name)
}

// option stores one parsed keyword value.
type option func(zygo.Sexp) error

func number(dst *float64) option {
	return func(v zygo.Sexp) (err error) {
		*dst, err = toFloat64(v)
		return err
	}
}

func text(dst *string) option {
	return func(v zygo.Sexp) (err error) {
		*dst, err = toName(v)
		return err
	}
}

func flag(dst ...*bool) option {
	return func(v zygo.Sexp) error {
		b, err := toBool(v)
		for _, d := range dst {
			*d = b
		}
		return err
	}
}

func negated(dst *bool) option {
	return func(v zygo.Sexp) error {
		b, err := toBool(v)
		*dst = !b
		return err
	}
}

// applyOptions runs opts over the keyword arguments of fn in name order.
func applyOptions(fn string, args []zygo.Sexp, opts map[string]option) error {
	pa := parseArgs(args)
	if len(pa.positional) > 0 {
		return fmt.Errorf("%s: unexpected argument %s", fn, pa.positional[0].SexpString(nil))
	}
	for _, k := range slices.Sorted(maps.Keys(pa.kw)) {
		opt, ok := opts[k]
		if !ok {
			return fmt.Errorf("%s: unknown option :%s", fn, k)
		}
		if err := opt(pa.kw[k]); err != nil {
			return fmt.Errorf("%s: %s: %w", fn, k, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the stage script builtins. Each one edits cfg
// and returns nil:
//
//	(stage :width 12.42 :depth 10.35 :height 1.5 :floor :layher :type :stageWithRoof)
//	(roof :type :prolyte :variant :frame :clearance 7 :scrim true :canopy false :ballast true)
//	(foh :width 4.14 :depth 4.14 :dist 20 :type :twoStory :scrim true :tower true)
//	(env :natural)
func registerBuiltins(env *zygo.Zlisp, cfg *config.Scene) {
	builtin := func(fn string, opts map[string]option, after func()) {
		env.AddFunction(fn, func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := applyOptions(fn, args, opts); err != nil {
				return zygo.SexpNull, err
			}
			if after != nil {
				after()
			}
			return zygo.SexpNull, nil
		})
	}

	builtin("stage", map[string]option{
		"width":  number(&cfg.Width),
		"depth":  number(&cfg.Depth),
		"height": number(&cfg.Height),
		"floor":  text(&cfg.FloorType),
		"type":   text(&cfg.MainType),
	}, nil)

	builtin("roof", map[string]option{
		"type":      text(&cfg.RoofType),
		"variant":   text(&cfg.ProlyteVariant),
		"clearance": number(&cfg.RoofClearance),
		"scrim":     flag(&cfg.ProlyteScrim, &cfg.LayherScrim),
		"canopy":    negated(&cfg.NoCanopy),
		"ballast":   flag(&cfg.Ballast),
	}, func() { cfg.IncludeRoof = true })

	builtin("foh", map[string]option{
		"width": number(&cfg.FohWidth),
		"depth": number(&cfg.FohDepth),
		"dist":  number(&cfg.FohDist),
		"type":  text(&cfg.FohType),
		"scrim": flag(&cfg.FohScrim),
		"tower": flag(&cfg.FohTower),
	}, func() { cfg.IncludeFoh = true })

	env.AddFunction("env", func(_ *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("env: expected one mode, got %d arguments", len(args))
		}
		mode, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("env: %w", err)
		}
		cfg.EnvMode = mode
		return zygo.SexpNull, nil
	})
}
