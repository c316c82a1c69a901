package graph

import "math"

// Affine is a rigid transform: p' = R·p + T.
//
// Euler rotations (degrees) compose as R = Rz·Ry·Rx, so a vector is turned
// about X first, then Y, then Z. The sdfx kernel uses the same order.
type Affine struct {
	R [3][3]float64
	T Vec3
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{R: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// FromTransform builds the affine transform of a TransformData payload.
func FromTransform(td TransformData) Affine {
	a := Identity()
	if td.Rotation != nil {
		a.R = eulerMatrix(*td.Rotation)
	}
	if td.Translation != nil {
		a.T = *td.Translation
	}
	return a
}

// Mul returns a∘b: b is applied first, then a.
func (a Affine) Mul(b Affine) Affine {
	var out Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.R[i][j] = a.R[i][0]*b.R[0][j] + a.R[i][1]*b.R[1][j] + a.R[i][2]*b.R[2][j]
		}
	}
	out.T = a.Rotate(b.T).Add(a.T)
	return out
}

// Apply transforms a point.
func (a Affine) Apply(p Vec3) Vec3 {
	return a.Rotate(p).Add(a.T)
}

// Rotate transforms a direction (no translation).
func (a Affine) Rotate(v Vec3) Vec3 {
	return Vec3{
		X: a.R[0][0]*v.X + a.R[0][1]*v.Y + a.R[0][2]*v.Z,
		Y: a.R[1][0]*v.X + a.R[1][1]*v.Y + a.R[1][2]*v.Z,
		Z: a.R[2][0]*v.X + a.R[2][1]*v.Y + a.R[2][2]*v.Z,
	}
}

func eulerMatrix(deg Vec3) [3][3]float64 {
	x, y, z := Rad(deg.X), Rad(deg.Y), Rad(deg.Z)
	cx, sx := math.Cos(x), math.Sin(x)
	cy, sy := math.Cos(y), math.Sin(y)
	cz, sz := math.Cos(z), math.Sin(z)

	rx := [3][3]float64{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := [3][3]float64{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := [3][3]float64{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}

	return mat3Mul(rz, mat3Mul(ry, rx))
}

func mat3Mul(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// ---------------------------------------------------------------------------
// Orientation helpers
// ---------------------------------------------------------------------------

// AlignY returns Euler angles that turn local +Y onto dir. Cylinders are
// built along Y, so this orients a tube between two points.
func AlignY(dir Vec3) Vec3 {
	d := dir.Normalize()
	if d.IsZero() {
		return Vec3{}
	}
	return Vec3{
		X: Deg(math.Asin(clampUnit(d.Z))),
		Z: Deg(math.Atan2(-d.X, d.Y)),
	}
}

// AlignX returns Euler angles that turn local +X onto dir. Ledgers, girders
// and truss segments are built along X.
func AlignX(dir Vec3) Vec3 {
	d := dir.Normalize()
	if d.IsZero() {
		return Vec3{}
	}
	return Vec3{
		Y: Deg(math.Asin(clampUnit(-d.Z))),
		Z: Deg(math.Atan2(d.Y, d.X)),
	}
}

func clampUnit(f float64) float64 {
	return math.Max(-1, math.Min(1, f))
}

// Between returns a transform node holding children at the midpoint of a
// and b with local +Y along b-a, plus the distance between them.
func Between(name string, a, b Vec3, children ...*Node) (*Node, float64) {
	return Place(name, a.Mid(b), AlignY(b.Sub(a)), children...), a.DistanceTo(b)
}
