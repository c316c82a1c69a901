// Package engine coordinates scene generation. The Coordinator dispatches a
// flat configuration onto the staging systems and fits the camera; the
// Engine evaluates stage scripts (zygomys Lisp) into such a configuration
// in a sandbox with a generation counter and a hard timeout.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/logger"
)

// EvalError is a non-fatal error in a stage script, such as a parse error
// or a bad builtin argument.
type EvalError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates stage scripts. It is safe for concurrent use; each
// Evaluate runs in a fresh sandbox and a newer call supersedes older ones
// still running.
type Engine struct {
	log *logger.Logger
	gen generation
}

// NewEngine creates an Engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

// Evaluate runs source over the default configuration and returns the
// configuration it describes, not yet normalized.
//
// Return semantics:
//   - success: configuration, nil, nil
//   - script errors: zero configuration, eval errors, nil
//   - fatal failure (timeout, panic, superseded): zero configuration, nil, error
func (e *Engine) Evaluate(source string) (config.Scene, []EvalError, error) {
	gen := e.gen.next()
	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		cfg, evalErrs := evaluate(source)
		ch <- evalResult{cfg: cfg, errors: evalErrs}
	}()

	cfg, evalErrs, err := await(ch, gen, &e.gen, EvalTimeout)
	if err != nil {
		e.log.Warn("script evaluation failed", "generation", gen, "error", err)
	}
	return cfg, evalErrs, err
}

// evaluate runs source in a fresh zygomys sandbox with the stage builtins
// installed. Empty source yields the defaults.
func evaluate(source string) (config.Scene, []EvalError) {
	cfg := config.Default()
	if strings.TrimSpace(source) == "" {
		return cfg, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, &cfg)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return config.Scene{}, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return config.Scene{}, parseZygomysError(err)
	}
	return cfg, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError turns a zygomys error into an EvalError, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
