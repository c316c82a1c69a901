// Package compose assembles parts into structure: column stacks, ledger
// grids, floor levels with decks, tower bracing, base diagonals and
// guardrails. Functions are pure; they return fresh subtrees in the
// coordinates of the grid they were given and never fail. Degenerate
// input (an empty grid, a gap too small to brace) yields less output.
package compose

import (
	"strings"

	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
)

// FloorKind selects the decking system.
type FloorKind int

const (
	FloorLayher FloorKind = iota // U-ledgers carrying aluminium decks
	FloorPeri                    // Peri beam-and-plywood bays on O-ledgers
)

func (k FloorKind) String() string {
	if k == FloorPeri {
		return "peri"
	}
	return "layher"
}

// ParseFloorKind resolves a floor type name. Unknown names resolve to
// FloorLayher with ok false.
func ParseFloorKind(name string) (k FloorKind, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "layher", "":
		return FloorLayher, true
	case "peri":
		return FloorPeri, true
	default:
		return FloorLayher, false
	}
}

// Floor describes how a floor level is decked and, on the top level,
// railed.
type Floor struct {
	Kind   FloorKind
	Bearer string // U-ledger variant, "event" by default
	Deck   string // deck variant, "eventT16" by default
	Rails  Rails
}

func (f Floor) withDefaults() Floor {
	if f.Bearer == "" {
		f.Bearer = "event"
	}
	if f.Deck == "" {
		f.Deck = "eventT16"
	}
	return f
}

// DeckLift is the height of a deck frame's underside above the rosette
// its U-ledgers hang on.
const DeckLift = layout.TransomCenter - layout.DeckSink

// DeckGap is the clearance left between decks and ledger heads.
const DeckGap = 0.01

// MinBraceGap is the smallest vertical gap between two ledger levels that
// receives tower bracing.
const MinBraceGap = 0.4

// alongX places a member built along +X at p.
func alongX(p graph.Vec3, member *graph.Node) *graph.Node {
	return graph.At(p, member)
}

// alongZ places a member built along +X at p, turned to run along +Z.
func alongZ(p graph.Vec3, member *graph.Node) *graph.Node {
	return graph.Place("", p, graph.V3(0, -90, 0), member)
}
