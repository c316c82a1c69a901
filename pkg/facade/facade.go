// Package facade wraps each staging system (stage floor, roofs, FOH stand,
// towers, LED wall) behind a Build/Clear pair. A System owns one assembly
// group. Build regenerates it from a configuration and swaps it in only
// when the new tree validates, so a System always holds either the old
// assembly or the new one, never a partial build.
package facade

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/config"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/logger"
)

// Builder generates the assembly of one system. It never fails; bad input
// degrades to smaller output and is logged.
type Builder func(p *catalog.Palette, log *logger.Logger, cfg config.Scene) *graph.Node

// System owns the assembly group of one staging system. It is not safe for
// concurrent use; builds are synchronous.
type System struct {
	name  string
	p     *catalog.Palette
	log   *logger.Logger
	build Builder

	group   *graph.Node
	buildID string
}

// New creates a System that regenerates its group with b.
func New(name string, p *catalog.Palette, log *logger.Logger, b Builder) *System {
	return &System{name: name, p: p, log: log, build: b}
}

// Name returns the system's name, also used as its root group name.
func (s *System) Name() string { return s.name }

// Group returns the current assembly, or nil when cleared.
func (s *System) Group() *graph.Node { return s.group }

// BuildID identifies the current assembly. Empty when cleared.
func (s *System) BuildID() string { return s.buildID }

// Build regenerates the assembly from cfg. On error the previous assembly
// is kept untouched.
func (s *System) Build(cfg config.Scene) (err error) {
	id := uuid.NewString()
	log := s.log.With("system", s.name, "build", id)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("facade: %s: panic during build: %v", s.name, r)
		}
	}()

	n := s.build(s.p, log, cfg)
	if n == nil {
		return fmt.Errorf("facade: %s: builder returned no assembly", s.name)
	}
	root := graph.Group(s.name, n)

	sc := graph.New()
	sc.AddRoot(root)
	res := graph.ValidateAll(sc)
	if !res.OK() {
		errs := make([]error, len(res.Errors))
		for i, e := range res.Errors {
			errs[i] = e
		}
		return fmt.Errorf("facade: %s: invalid assembly: %w", s.name, errors.Join(errs...))
	}
	for _, w := range res.Warnings {
		log.Debug("assembly warning", "path", w.Path, "message", w.Message)
	}

	s.Clear()
	s.group, s.buildID = root, id
	log.Debug("system built", "parts", graph.CountParts(root, ""))
	return nil
}

// Clear detaches every node of the assembly and releases the group. It
// returns the number of nodes detached below the root.
func (s *System) Clear() int {
	if s.group == nil {
		return 0
	}
	n := release(s.group)
	s.group, s.buildID = nil, ""
	return n
}

func release(n *graph.Node) int {
	count := 0
	for _, c := range n.Children {
		count += 1 + release(c)
	}
	n.Detach()
	return count
}
