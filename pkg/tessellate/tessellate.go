// Package tessellate meshes a scene with a solid kernel. Every primitive
// becomes one mesh placed in world space; the scene itself is only read.
package tessellate

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/marekdadej/Eventer/pkg/graph"
	"github.com/marekdadej/Eventer/pkg/kernel"
)

// cylinderSegments is passed to kernels that facet round bars.
const cylinderSegments = 24

// Option configures Tessellate.
type Option func(*options)

type options struct {
	workers int
	filter  func(graph.Instance) bool
}

// WithWorkers bounds how many primitives are meshed at once. The default
// is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = max(n, 1) }
}

// WithFilter meshes only the instances keep accepts.
func WithFilter(keep func(graph.Instance) bool) Option {
	return func(o *options) { o.filter = keep }
}

// Tessellate returns one mesh per primitive of s, in walk order. Meshing
// fans out over a bounded worker pool; the first failure cancels the rest.
func Tessellate(ctx context.Context, s *graph.Scene, k kernel.Kernel, opts ...Option) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, fn := range opts {
		fn(&o)
	}

	var instances []graph.Instance
	for _, inst := range graph.Flatten(s) {
		if o.filter == nil || o.filter(inst) {
			instances = append(instances, inst)
		}
	}

	meshes := make([]*kernel.Mesh, len(instances))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, inst := range instances {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := meshInstance(k, inst)
			if err != nil {
				return fmt.Errorf("tessellate: %s: %w", inst.Path, err)
			}
			meshes[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// meshInstance builds the primitive's solid, moves it to its world
// placement and meshes it. Kernel panics are returned as errors.
func meshInstance(k kernel.Kernel, inst graph.Instance) (m *kernel.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("kernel panic: %v", r)
		}
	}()

	solid, err := primitive(k, inst.Primitive)
	if err != nil {
		return nil, err
	}
	if rot := eulerAngles(inst.Basis); !rot.IsZero() {
		solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	if p := inst.Position; !p.IsZero() {
		solid = k.Translate(solid, p.X, p.Y, p.Z)
	}

	m, err = k.ToMesh(solid)
	if err != nil {
		return nil, err
	}
	m.Path = inst.Path
	m.PartType = inst.PartType
	m.Material = inst.Primitive.Material
	return m, nil
}

func primitive(k kernel.Kernel, p graph.PrimitiveData) (kernel.Solid, error) {
	switch p.Shape {
	case graph.ShapeBox:
		return k.Box(p.Size.X, p.Size.Y, p.Size.Z), nil
	case graph.ShapeCylinder:
		return k.Cylinder(p.Length, p.Radius, cylinderSegments), nil
	case graph.ShapePrism:
		profile := make([][2]float64, len(p.Profile))
		for i, q := range p.Profile {
			profile[i] = [2]float64{q.X, q.Y}
		}
		return k.Prism(profile, p.Length)
	default:
		return nil, fmt.Errorf("unsupported shape %v", p.Shape)
	}
}

// eulerAngles recovers degrees (X, Y, Z) from a rotation composed as
// Rz·Ry·Rx. At gimbal lock X is taken as zero.
func eulerAngles(r [3][3]float64) graph.Vec3 {
	sy := -r[2][0]
	sy = math.Max(-1, math.Min(1, sy))
	y := math.Asin(sy)
	var x, z float64
	if math.Abs(math.Cos(y)) > 1e-9 {
		x = math.Atan2(r[2][1], r[2][2])
		z = math.Atan2(r[1][0], r[0][0])
	} else {
		z = math.Atan2(-r[0][1], r[1][1])
	}
	v := graph.V3(graph.Deg(x), graph.Deg(y), graph.Deg(z))
	return graph.V3(snap(v.X), snap(v.Y), snap(v.Z))
}

// snap drops rounding noise so an unrotated basis yields exact zeros.
func snap(deg float64) float64 {
	if math.Abs(deg) < 1e-9 {
		return 0
	}
	return deg
}
