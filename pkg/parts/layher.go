package parts

import (
	"math"

	"github.com/marekdadej/Eventer/pkg/catalog"
	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/layout"
)

// ---------------------------------------------------------------------------
// Standards
// ---------------------------------------------------------------------------

// Standard builds a vertical standard standing on y=0. Rosettes sit every
// half metre plus one just below the top. The "withSpigot" variant carries
// its own spigot above the tube.
func Standard(p *catalog.Palette, length float64, variant string) *graph.Node {
	p = palette(p)
	spec := catalog.Lookup(catalog.Standard, length, variant)
	r := p.TubeRadius

	g := []*graph.Node{
		rodY("tube", r, 0, length, 0, 0, catalog.MatGalvNew),
		rodY("cap", r+0.001, length-0.005, length, 0, 0, catalog.MatGalvNew),
	}
	for i := 1; i < int(length/layout.RosettePitch); i++ {
		y := float64(i) * layout.RosettePitch
		if y >= length-0.1 {
			break
		}
		g = append(g, graph.At(graph.V3(0, y, 0), p.Rosette()))
	}
	g = append(g, graph.At(graph.V3(0, length-layout.TopRosetteOffset, 0), p.Rosette()))

	sticker := 0.25
	if length > 0.5 {
		sticker = length - 0.3
	}
	sticker = max(0.15, sticker)
	g = append(g, rodY("sticker", r+0.001, sticker-0.04, sticker+0.04, 0, 0, catalog.MatStrap))

	for i := 1; i <= int(length); i++ {
		g = append(g, graph.Place("", graph.V3(r, float64(i)-0.25, 0), graph.V3(0, 0, 90),
			graph.Cylinder("rivet", 0.004, 0.012, catalog.MatGalvNew)))
	}
	if spec.Variant == "withSpigot" {
		g = append(g, rodY("spigot", p.SpigotRadius, length-0.05, length+0.2, 0, 0, catalog.MatGalvNew))
	}
	return graph.Part(spec.PartData(), g...)
}

// ---------------------------------------------------------------------------
// Ledgers
// ---------------------------------------------------------------------------

// ledgerHeadReach is how far a wedge head's body extends past its mating
// face; the tube starts there.
const ledgerHeadReach = 0.048

// Ledger builds an O-ledger along +X.
func Ledger(p *catalog.Palette, length float64) *graph.Node {
	p = palette(p)
	x0 := StandOffset + ledgerHeadReach

	var g []*graph.Node
	if length > 2*x0 {
		g = append(g, rodX("tube", p.TubeRadius, x0, length-x0, 0, 0, catalog.MatGalvNew))
	}
	g = append(g, endConnectors(p, length, 0)...)
	g = append(g, rodX("sticker", p.TubeRadius+0.001, length/2-0.04, length/2+0.04, 0, 0, catalog.MatStrap))
	return item(catalog.Ledger, length, "", g...)
}

// U-ledger profiles.
const (
	eventProfileHeight = 0.22
	eventProfileWidth  = 0.045
	eventSlotWidth     = 0.02
	eventSlotDepth     = 0.035

	lwProfileWidth     = 0.048
	lwProfileHeight    = 0.054
	lwProfileThickness = 0.0035

	reinforcementDrop = 0.4
)

// ULedger builds a U-ledger along +X. "event" is the 22 cm aluminium
// transom, "lwT14" the steel U profile and "lwT14Reinforced" adds a lower
// chord with zig-zag struts.
func ULedger(p *catalog.Palette, length float64, variant string) *graph.Node {
	p = palette(p)
	spec := catalog.Lookup(catalog.ULedger, length, variant)

	head := 0.045
	if spec.Material == catalog.MatAlu {
		head = 0.038
	}
	x0, x1 := StandOffset+head, length-StandOffset-head

	var g []*graph.Node
	if x1 > x0 {
		if spec.Variant == "event" {
			g = append(g, eventProfile(x0, x1)...)
		} else {
			g = append(g, lwProfile(x0, x1)...)
		}
		if spec.Variant == "lwT14Reinforced" {
			g = append(g, reinforcement(x0, x1)...)
		}
	}
	g = append(g, endConnectors(p, length, 0)...)
	return graph.Part(spec.PartData(), g...)
}

func eventProfile(x0, x1 float64) []*graph.Node {
	l, mid := x1-x0, (x0+x1)/2
	lipW := (eventProfileWidth - eventSlotWidth) / 2
	web := eventProfileHeight - eventSlotDepth
	top := eventProfileHeight / 2
	return []*graph.Node{
		box("profile", graph.V3(l, web, eventProfileWidth), graph.V3(mid, top-eventSlotDepth-web/2, 0), catalog.MatAlu),
		box("lip", graph.V3(l, eventSlotDepth, lipW), graph.V3(mid, top-eventSlotDepth/2, -(eventSlotWidth+lipW)/2), catalog.MatAlu),
		box("lip", graph.V3(l, eventSlotDepth, lipW), graph.V3(mid, top-eventSlotDepth/2, (eventSlotWidth+lipW)/2), catalog.MatAlu),
	}
}

func lwProfile(x0, x1 float64) []*graph.Node {
	l, mid := x1-x0, (x0+x1)/2
	th := lwProfileThickness
	wall := lwProfileWidth/2 - th/2
	return []*graph.Node{
		box("profile", graph.V3(l, th, lwProfileWidth), graph.V3(mid, -lwProfileHeight/2+th/2, 0), catalog.MatGalvNew),
		box("wall", graph.V3(l, lwProfileHeight, th), graph.V3(mid, 0, -wall), catalog.MatGalvNew),
		box("wall", graph.V3(l, lwProfileHeight, th), graph.V3(mid, 0, wall), catalog.MatGalvNew),
	}
}

func reinforcement(x0, x1 float64) []*graph.Node {
	top, bottom := -lwProfileHeight/2, -reinforcementDrop
	g := []*graph.Node{rodX("chord", 0.02, x0, x1, bottom, 0, catalog.MatGalvNew)}
	for k, x := 0, x0; x < x1 && k < maxLatticeBays; k, x = k+1, x+0.5 {
		next := min(x+0.5, x1)
		a, b := graph.V3(x, top, 0), graph.V3(next, bottom, 0)
		if k%2 == 1 {
			a, b = graph.V3(x, bottom, 0), graph.V3(next, top, 0)
		}
		g = append(g, rod("strut", 0.012, a, b, catalog.MatGalvNew))
	}
	return g
}

// ---------------------------------------------------------------------------
// Braces
// ---------------------------------------------------------------------------

// Brace head geometry.
const (
	BracePivotOffset = 0.058 // axis of the standard to the brace pivot
	braceTubeInset   = 0.08
	braceHeadInset   = 0.02
	braceTail        = 0.035
	braceTubeRadius  = 0.024
)

// braceLengths maps (height, bay) in centimetres to cataloged diagonal
// lengths.
var braceLengths = map[[2]int]float64{
	{200, 207}: 2.81,
	{200, 257}: 3.18,
	{200, 307}: 3.60,
	{150, 207}: 2.48,
	{100, 207}: 2.20,
}

func cm(f float64) int { return int(math.Round(f * 100)) }

// BraceLength returns the diagonal length of a brace spanning a bay of the
// given length over the given height.
func BraceLength(bay, height float64) float64 {
	if l, ok := braceLengths[[2]int{cm(height), cm(bay)}]; ok {
		return l
	}
	return math.Hypot(bay, height)
}

// BayBrace builds the brace for a bay and height.
func BayBrace(p *catalog.Palette, bay, height float64) *graph.Node {
	return Brace(p, BraceLength(bay, height))
}

// Brace builds a diagonal of the given pivot-to-pivot length, centred on
// the origin along local Y.
func Brace(p *catalog.Palette, length float64) *graph.Node {
	half := length / 2
	var g []*graph.Node
	if tube := length - 2*braceTubeInset; tube > 0 {
		g = append(g, graph.Cylinder("tube", braceTubeRadius, tube, catalog.MatGalvNew))
	}
	for _, sign := range []float64{-1, 1} {
		y := sign * (half - braceHeadInset)
		g = append(g,
			box("cheek", graph.V3(0.055, 0.06, 0.017), graph.V3(0, y, -0.0165), catalog.MatCastSteel),
			box("cheek", graph.V3(0.055, 0.06, 0.017), graph.V3(0, y, 0.0165), catalog.MatCastSteel),
			rodZ("pin", 0.008, 0.05, graph.V3(0, y, 0), catalog.MatHighSteel),
			box("wedge", graph.V3(0.02, 0.04, 0.015), graph.V3(0, y+sign*braceTail, 0), catalog.MatHighSteel),
		)
	}
	return item(catalog.Brace, length, "", g...)
}

// Tube builds a plain tube centred on the origin along local Y. The "alu"
// variant is the aluminium rafter tube.
func Tube(p *catalog.Palette, length float64, variant string) *graph.Node {
	p = palette(p)
	spec := catalog.Lookup(catalog.Tube, length, variant)
	return graph.Part(spec.PartData(), p.Tube("tube", length, spec.Material))
}

// ---------------------------------------------------------------------------
// Lattice girders
// ---------------------------------------------------------------------------

// Lattice girder geometry.
const (
	GirderHeight = 0.5
	girderEnd    = 0.05
	girderPitch  = 0.5
	girderChordR = 0.024
	girderBraceR = 0.016

	maxLatticeBays = 256
)

// LatticeGirder builds a U or O lattice girder along +X with its bottom
// chord on y=0 and its top chord at GirderHeight. U girders carry a U
// profile as top chord.
func LatticeGirder(p *catalog.Palette, t catalog.Type, length float64) *graph.Node {
	p = palette(p)
	spec := catalog.Lookup(t, length, "")
	mat := spec.Material
	h := GirderHeight
	x0, x1 := girderEnd, length-girderEnd

	var g []*graph.Node
	if x1 > x0 {
		g = append(g, rodX("chord", girderChordR, x0, x1, 0, 0, mat))
		if t == catalog.OLatticeLW {
			g = append(g, rodX("chord", girderChordR, x0, x1, h, 0, mat))
		} else {
			g = append(g, box("chord", graph.V3(x1-x0, lwProfileHeight, lwProfileWidth), graph.V3(length/2, h, 0), mat))
		}
		g = append(g, rodY("post", girderBraceR, 0, h, x0, 0, mat))
		for k, x := 0, x0; k < maxLatticeBays; k, x = k+1, x+girderPitch {
			next := x + girderPitch
			if next > x1 {
				break
			}
			g = append(g,
				rod("diagonal", girderBraceR, graph.V3(x, 0, 0), graph.V3(next, h, 0), mat),
				rodY("post", girderBraceR, 0, h, next, 0, mat),
			)
		}
	}
	g = append(g, endConnectors(p, length, 0)...)
	g = append(g,
		graph.At(graph.V3(StandOffset, h, 0), p.WedgeHead(false)),
		graph.At(graph.V3(length-StandOffset, h, 0), p.WedgeHead(true)),
	)
	return graph.Part(spec.PartData(), g...)
}

// ---------------------------------------------------------------------------
// Decks
// ---------------------------------------------------------------------------

// Deck geometry.
const (
	DeckWidth         = layout.ModuleHalf
	eventDeckChamfer  = 0.055
	eventFrameWidth   = 0.04
	eventPlyThickness = 0.012
	i6Thickness       = 0.054

	PeriBeamHeight   = 0.24
	periBeamWidth    = 0.08
	periBeamSpacing  = 0.5
	periBeamMargin   = 0.1
	periPlyThickness = 0.027
)

// Deck builds a deck panel along +X, centred in Z, standing on y=0.
// "eventT16" is the aluminium-framed stage deck, "i6" the steel-framed
// scaffold deck and "periBay" a beam-and-plywood bay.
func Deck(p *catalog.Palette, length, width float64, variant string) *graph.Node {
	spec := catalog.Lookup(catalog.Deck, length, variant)
	switch spec.Variant {
	case "periBay":
		return PeriBay(p, length, width)
	case "eventT16":
		return graph.Part(spec.PartData(), eventDeck(length, width)...)
	default:
		return graph.Part(spec.PartData(),
			box("plate", graph.V3(length, i6Thickness, width), graph.V3(length/2, i6Thickness/2, 0), catalog.MatPlywoodEvent),
			box("rim", graph.V3(length, 0.02, 0.01), graph.V3(length/2, 0.01, -width/2), catalog.MatGalvNew),
			box("rim", graph.V3(length, 0.02, 0.01), graph.V3(length/2, 0.01, width/2), catalog.MatGalvNew),
		)
	}
}

func eventDeck(l, w float64) []*graph.Node {
	h := layout.DeckThickness
	fw := eventFrameWidth
	c := min(eventDeckChamfer, l/4, w/4)

	g := []*graph.Node{
		box("frame", graph.V3(l, h, fw), graph.V3(l/2, h/2, -w/2+fw/2), catalog.MatAlu),
		box("frame", graph.V3(l, h, fw), graph.V3(l/2, h/2, w/2-fw/2), catalog.MatAlu),
	}
	if inner := w - 2*fw; inner > 0 {
		g = append(g,
			box("frame", graph.V3(fw, h, inner), graph.V3(fw/2, h/2, 0), catalog.MatAlu),
			box("frame", graph.V3(fw, h, inner), graph.V3(l-fw/2, h/2, 0), catalog.MatAlu),
		)
	}

	outline := []graph.Vec2{
		{X: c, Y: -w / 2}, {X: l - c, Y: -w / 2}, {X: l, Y: -w/2 + c}, {X: l, Y: w/2 - c},
		{X: l - c, Y: w / 2}, {X: c, Y: w / 2}, {X: 0, Y: w/2 - c}, {X: 0, Y: -w/2 + c},
	}
	// Rx(90) lays the XY outline flat with its Y on world Z.
	g = append(g, graph.Place("", graph.V3(0, h+eventPlyThickness/2, 0), graph.V3(90, 0, 0),
		graph.Prism("plywood", outline, eventPlyThickness, catalog.MatPlywoodEvent)))

	for _, x := range []float64{c / 2, l - c/2} {
		for _, z := range []float64{-w/2 + c/2, w/2 - c/2} {
			g = append(g, box("corner", graph.V3(c, 0.02, c), graph.V3(x, h-0.01, z), catalog.MatPlasticBlack))
		}
	}
	return g
}

// PeriBay builds a Peri bay: GT24 beams along X under a plywood sheet.
// Its weight comes from the area.
func PeriBay(p *catalog.Palette, length, width float64) *graph.Node {
	spec := catalog.LookupArea(catalog.Deck, length, width, "periBay")

	n := max(3, int(math.Ceil(width/periBeamSpacing))+1)
	margin := min(periBeamMargin, width/4)
	span := width - 2*margin

	g := make([]*graph.Node, 0, n+1)
	for k := 0; k < n; k++ {
		z := -width/2 + margin + span*float64(k)/float64(n-1)
		g = append(g, box("beam", graph.V3(length, PeriBeamHeight, periBeamWidth),
			graph.V3(length/2, PeriBeamHeight/2, z), catalog.MatPeriBeam))
	}
	g = append(g, box("plywood", graph.V3(length, periPlyThickness, width),
		graph.V3(length/2, PeriBeamHeight+periPlyThickness/2, 0), catalog.MatPeriPlywood))
	return graph.Part(spec.PartData(), g...)
}

// ---------------------------------------------------------------------------
// Base hardware
// ---------------------------------------------------------------------------

const (
	jackThread    = 0.6
	jackPlate     = 0.15
	jackPlateT    = 0.01
	jackStopMark  = 0.5
	WoodPadSize   = 0.25
	collarRadius  = 0.0265
	SpigotLength  = 0.52
	spigotRing    = 0.026
	pinLength     = 0.07
	pinRadius     = 0.0045
	boltLength    = 0.06
	boltRadius    = 0.006
	boltHeadR     = 0.011
	boltHeadWidth = 0.01
)

// BaseJack builds an adjustable base jack standing on y=0 with its wing
// nut at the given extension.
func BaseJack(p *catalog.Palette, extension float64) *graph.Node {
	p = palette(p)
	nut := min(max(extension, layout.JackMin), jackThread)
	return item(catalog.BaseJack, jackThread, "60a",
		box("plate", graph.V3(jackPlate, jackPlateT, jackPlate), graph.V3(0, jackPlateT/2, 0), catalog.MatGalvNew),
		rodY("thread", p.ThreadRadius, jackPlateT, jackPlateT+jackThread, 0, 0, catalog.MatHighSteel),
		rodY("stop", p.ThreadRadius+0.0005, jackStopMark-0.005, jackStopMark+0.005, 0, 0, catalog.MatPlasticRed),
		rodY("nut", 0.04, nut-0.02, nut, 0, 0, catalog.MatCastSteel),
		box("wing", graph.V3(0.16, 0.015, 0.015), graph.V3(0, nut-0.01, 0), catalog.MatCastSteel),
	)
}

// WoodPad builds the timber pad under a base jack.
func WoodPad(p *catalog.Palette) *graph.Node {
	return item(catalog.WoodPad, WoodPadSize, "",
		box("pad", graph.V3(WoodPadSize, layout.WoodPadHeight, WoodPadSize), graph.V3(0, layout.WoodPadHeight/2, 0), catalog.MatWood))
}

// BaseCollar builds the starter collar with its rosette.
func BaseCollar(p *catalog.Palette) *graph.Node {
	p = palette(p)
	return item(catalog.BaseCollar, layout.CollarLength, "",
		rodY("tube", collarRadius, 0, layout.CollarLength, 0, 0, catalog.MatGalvNew),
		rodY("rim", collarRadius+0.004, 0, 0.01, 0, 0, catalog.MatGalvNew),
		graph.At(graph.V3(0, layout.CollarRosette, 0), p.Rosette()),
	)
}

// Spigot builds a joining spigot from y=0 to SpigotLength with its stop
// ring at mid height. Place it at joint - SpigotLength/2.
func Spigot(p *catalog.Palette, variant string) *graph.Node {
	p = palette(p)
	g := []*graph.Node{
		rodY("spigot", p.SpigotRadius, 0, SpigotLength, 0, 0, catalog.MatGalvNew),
		rodY("ring", spigotRing, SpigotLength/2-0.005, SpigotLength/2+0.005, 0, 0, catalog.MatGalvNew),
	}
	if variant == "withBolt" {
		g = append(g, graph.Place("", graph.V3(0, SpigotLength/2-0.15, 0), graph.V3(0, 0, 90),
			graph.Cylinder("bore", boltRadius+0.001, 2*p.SpigotRadius+0.004, catalog.MatBlackSteel)))
	}
	return item(catalog.Spigot, SpigotLength, variant, g...)
}

// LockingPin builds the red locking pin along X.
func LockingPin(p *catalog.Palette) *graph.Node {
	return item(catalog.LockingPin, pinLength, "",
		rodX("pin", pinRadius, -pinLength/2, pinLength/2, 0, 0, catalog.MatPlasticRed))
}

// Bolt builds an M12 bolt along X with hex heads on both ends.
func Bolt(p *catalog.Palette) *graph.Node {
	h := boltLength / 2
	return item(catalog.Bolt, boltLength, "",
		rodX("shaft", boltRadius, -h, h, 0, 0, catalog.MatHighSteel),
		rodX("head", boltHeadR, -h-boltHeadWidth, -h, 0, 0, catalog.MatHighSteel),
		rodX("nut", boltHeadR, h, h+boltHeadWidth, 0, 0, catalog.MatHighSteel),
	)
}

// ---------------------------------------------------------------------------
// Stairs
// ---------------------------------------------------------------------------

// StairRise returns the rise and run of a stair variant.
func StairRise(variant string) (steps int, rise, run float64) {
	if variant == "9steps" {
		return 9, 2.0, 2.57
	}
	return 5, 1.0, 1.57
}

// Stairs builds a stair rising along +X from the origin, stringers at
// z = ±0.32.
func Stairs(p *catalog.Palette, variant string) *graph.Node {
	spec := catalog.Lookup(catalog.Stairs, 0, variant)
	steps, rise, run := StairRise(spec.Variant)
	spec.Nominal = rise

	slope := graph.Deg(math.Atan2(rise, run))
	hyp := math.Hypot(rise, run)

	var g []*graph.Node
	for _, z := range []float64{-0.32, 0.32} {
		g = append(g, graph.Place("", graph.V3(run/2, rise/2, z), graph.V3(0, 0, slope),
			graph.Box("stringer", graph.V3(hyp, 0.2, 0.04), catalog.MatAlu)))
	}
	for i := 1; i <= steps; i++ {
		x := run * (float64(i) - 0.5) / float64(steps)
		y := rise*float64(i)/float64(steps) - 0.02
		g = append(g, box("tread", graph.V3(0.25, 0.04, 0.6), graph.V3(x, y, 0), catalog.MatAlu))
	}
	return graph.Part(spec.PartData(), g...)
}
