package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marekdadej/Eventer/pkg/config"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past EvalTimeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started first.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

// evalResult carries one evaluation's output through a channel.
type evalResult struct {
	cfg    config.Scene
	errors []EvalError
	err    error
}

// generation numbers evaluations. Only the latest one may deliver.
type generation struct {
	mu  sync.Mutex
	cur uint64
}

func (g *generation) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur++
	return g.cur
}

func (g *generation) latest(n uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return n == g.cur
}

// await waits up to limit for the result of evaluation n. A timed-out
// goroutine keeps running; its late result lands in the buffered channel
// and is dropped.
func await(ch <-chan evalResult, n uint64, g *generation, limit time.Duration) (config.Scene, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !g.latest(n) {
			return config.Scene{}, nil, ErrSuperseded
		}
		return res.cfg, res.errors, res.err
	case <-timer.C:
		return config.Scene{}, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
