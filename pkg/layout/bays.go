// Package layout turns continuous dimensions into the discrete module
// sequences every builder places parts on: bay spans along an axis,
// vertical stacks of standards, floor level sets and roof planes.
//
// Everything here is pure arithmetic over float64 metres. Functions never
// fail; out-of-range input yields a smaller valid result (possibly empty).
package layout

import (
	"math"

	"github.com/samber/lo"
)

// Module lengths of the Allround bay grid.
const (
	ModuleFull = 2.07
	ModuleHalf = 1.04

	// fullFit is the remainder at or above which another full module is
	// taken. It sits a centimetre below ModuleFull so 4.14 yields two bays.
	fullFit = 2.06

	// RemainderThreshold is the leftover above which a half module closes
	// the row. It is the single threshold used by every builder.
	RemainderThreshold = 0.5

	// MaxOvershoot bounds how far a layout may exceed the requested
	// dimension: a half module appended for a leftover just above the
	// threshold.
	MaxOvershoot = ModuleHalf - RemainderThreshold

	maxBays = 512
)

// Bays decomposes a requested dimension into module spans: full modules
// while the remainder allows, then one half module if the leftover exceeds
// RemainderThreshold. Non-finite or non-positive input yields no bays.
func Bays(requested float64) []float64 {
	if !finite(requested) || requested <= 0 {
		return nil
	}
	var bays []float64
	remaining := requested
	for remaining >= fullFit && len(bays) < maxBays {
		bays = append(bays, ModuleFull)
		remaining -= ModuleFull
	}
	if remaining > RemainderThreshold && len(bays) < maxBays {
		bays = append(bays, ModuleHalf)
	}
	return bays
}

// UniformBays returns n full modules.
func UniformBays(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n > maxBays {
		n = maxBays
	}
	return lo.Times(n, func(int) float64 { return ModuleFull })
}

// Total is the buildable dimension of a bay sequence.
func Total(bays []float64) float64 {
	return lo.Sum(bays)
}

// Positions returns the len(bays)+1 node coordinates of a bay sequence
// centred on zero.
func Positions(bays []float64) []float64 {
	pos := make([]float64, len(bays)+1)
	pos[0] = -Total(bays) / 2
	for i, b := range bays {
		pos[i+1] = pos[i] + b
	}
	return pos
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
