package layout

import "github.com/samber/lo"

// Base hardware of an Allround column, bottom to top.
const (
	WoodPadHeight    = 0.045 // anti-slip pad under the jack
	CollarLength     = 0.24
	CollarEffective  = 0.20 // collar length minus the part sleeved over the jack
	CollarRosette    = 0.17 // rosette height on the collar
	TopRosetteOffset = 0.025
	RosettePitch     = 0.5

	DeckThickness = 0.086
	DeckSink      = 0.05 // how far the deck frame drops into the U-ledger
	TransomHeight = 0.22
	TransomCenter = TransomHeight / 2

	JackMin = 0.05
	JackMax = 0.65

	// SpigotDrop is how far below a joint a spigot's centre sits.
	SpigotDrop = 0.26
)

// StandardLengths are the cataloged standard lengths, longest first.
var StandardLengths = []float64{4.0, 3.0, 2.0, 1.5, 1.0, 0.5}

const (
	stackFillLimit = 2.6 // fill above this is reduced with 2 m standards
	stackFiller    = 2.0
	maxSegments    = 256
)

// MinStackHeight is the lowest platform height whose stack still closes
// with the jack inside [JackMin, JackMax].
var MinStackHeight = JackMin + StandardLengths[len(StandardLengths)-1] +
	WoodPadHeight + CollarEffective - TopRosetteOffset +
	(DeckThickness - DeckSink) + TransomCenter

// VerticalStack is the column decomposition for one platform height.
type VerticalStack struct {
	Height   float64   // requested platform height
	Rosette  float64   // elevation of the top rosette the floor hangs on
	Jack     float64   // jack extension closing the gap
	Segments []float64 // standards, bottom first
}

// NewVerticalStack decomposes a platform height into standards plus one
// jack extension such that
//
//	WoodPadHeight + Jack + CollarEffective + sum(Segments) - TopRosetteOffset == Rosette
//
// for every height at or above MinStackHeight. Lower heights get a single
// 0.5 m standard on a minimally extended jack.
func NewVerticalStack(height float64) VerticalStack {
	if !finite(height) || height < 0 {
		height = 0
	}
	s := VerticalStack{
		Height:  height,
		Rosette: height - (DeckThickness - DeckSink) - TransomCenter,
	}
	fill := s.Rosette - WoodPadHeight - CollarEffective + TopRosetteOffset

	for fill > stackFillLimit && len(s.Segments) < maxSegments {
		s.Segments = append(s.Segments, stackFiller)
		fill -= stackFiller
	}
	for _, std := range StandardLengths {
		if jack := fill - std; jack >= JackMin && jack <= JackMax {
			s.Segments = append(s.Segments, std)
			s.Jack = jack
			return s
		}
	}
	last := StandardLengths[len(StandardLengths)-1]
	s.Segments = append(s.Segments, last)
	s.Jack = max(JackMin, fill-last)
	return s
}

// BaseStart is the elevation of the collar's lower end.
func (s VerticalStack) BaseStart() float64 {
	return WoodPadHeight + s.Jack
}

// FirstStandard is the elevation where the lowest standard starts.
func (s VerticalStack) FirstStandard() float64 {
	return s.BaseStart() + CollarEffective
}

// Top is the elevation of the top end of the highest standard.
func (s VerticalStack) Top() float64 {
	return s.FirstStandard() + lo.Sum(s.Segments)
}

// TopRosette is the elevation of the highest rosette.
func (s VerticalStack) TopRosette() float64 {
	return s.Top() - TopRosetteOffset
}

// Closes reports whether the stack reaches its target rosette with the
// jack inside its extension range.
func (s VerticalStack) Closes() bool {
	const eps = 1e-9
	d := s.TopRosette() - s.Rosette
	return d > -eps && d < eps && s.Jack >= JackMin-eps && s.Jack <= JackMax+eps
}

// Joints returns the elevations where one standard meets the next.
func (s VerticalStack) Joints() []float64 {
	var joints []float64
	y := s.FirstStandard()
	for i, l := range s.Segments {
		y += l
		if i < len(s.Segments)-1 {
			joints = append(joints, y)
		}
	}
	return joints
}

// NodeLevels returns the ledger levels of the stack: the collar rosette,
// the top rosette of every standard but the last, and the top rosette.
func (s VerticalStack) NodeLevels() []float64 {
	levels := []float64{s.BaseStart() + CollarRosette}
	for _, j := range s.Joints() {
		levels = append(levels, j-TopRosetteOffset)
	}
	return append(levels, s.TopRosette())
}

// ---------------------------------------------------------------------------
// Greedy stacks
// ---------------------------------------------------------------------------

// GreedyRemainder is the smallest remainder still closed by a segment.
const GreedyRemainder = 0.2

// GreedyStack fills a height with 4, 3 or 2 m standards and closes with
// whatever remains once less than 2 m is left. Remainders at or below
// GreedyRemainder are dropped. Used by FOH and tower columns whose height
// is not tied to a floor rosette.
func GreedyStack(height float64) []float64 {
	if !finite(height) {
		return nil
	}
	var segs []float64
	remaining := height
	for remaining > GreedyRemainder && len(segs) < maxSegments {
		seg := remaining
		switch {
		case remaining >= 4.0:
			seg = 4.0
		case remaining >= 3.0:
			seg = 3.0
		case remaining >= 2.0:
			seg = 2.0
		}
		segs = append(segs, seg)
		remaining -= seg
	}
	return segs
}

// MastSegments splits a truss mast running from start to top into 2 m
// sections, switching to 1 m sections once less than 2.5 m remains. The
// mast stops within 0.5 m of top.
func MastSegments(start, top float64) []float64 {
	if !finite(start) || !finite(top) {
		return nil
	}
	var segs []float64
	for y := start; y < top-0.5 && len(segs) < maxSegments; {
		seg := 2.0
		if top-y < 2.5 {
			seg = 1.0
		}
		segs = append(segs, seg)
		y += seg
	}
	return segs
}

// FillSegments splits a height into sections of at most size metres, the
// last one taking the remainder.
func FillSegments(height, size float64) []float64 {
	if !finite(height) || size <= 0 {
		return nil
	}
	var segs []float64
	for y := 0.0; height-y > 1e-9 && len(segs) < maxSegments; {
		seg := min(size, height-y)
		segs = append(segs, seg)
		y += seg
	}
	return segs
}
