package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, r := range s.Roots {
		_ = Walk(r, func(v Visit) error {
			switch d := v.Node.Data.(type) {
			case PrimitiveData:
				errs = append(errs, validatePrimitive(v.Path, d)...)
			case TransformData:
				if (d.Translation != nil && !d.Translation.IsFinite()) ||
					(d.Rotation != nil && !d.Rotation.IsFinite()) {
					errs = append(errs, ValidationError{
						Path:     v.Path,
						Message:  "transform is not finite",
						Severity: SeverityError,
					})
				}
			}
			return nil
		})
		warnings = append(warnings, validateBelowGround(r)...)
	}

	return errs, warnings
}

// validatePrimitive checks that every dimension of a solid is positive.
func validatePrimitive(path string, p PrimitiveData) []ValidationError {
	var errs []ValidationError
	bad := func(what string, val float64) {
		errs = append(errs, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf("%s %s is %.4f, must be positive", p.Shape, what, val),
			Severity: SeverityError,
		})
	}

	switch p.Shape {
	case ShapeBox:
		if !(p.Size.X > 0) {
			bad("dimension X", p.Size.X)
		}
		if !(p.Size.Y > 0) {
			bad("dimension Y", p.Size.Y)
		}
		if !(p.Size.Z > 0) {
			bad("dimension Z", p.Size.Z)
		}
	case ShapeCylinder:
		if !(p.Radius > 0) {
			bad("radius", p.Radius)
		}
		if !(p.Length > 0) {
			bad("length", p.Length)
		}
	case ShapePrism:
		if !(p.Length > 0) {
			bad("depth", p.Length)
		}
		if len(p.Profile) < 3 {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("prism profile has %d points, need at least 3", len(p.Profile)),
				Severity: SeverityError,
			})
		} else if area := math.Abs(PolygonArea(p.Profile)); area < 1e-9 {
			bad("profile area", area)
		}
	}
	return errs
}

// groundTolerance allows base plates to sit flush on y=0.
const groundTolerance = 1e-6

// validateBelowGround warns when geometry reaches under the ground plane.
func validateBelowGround(r *Node) []ValidationWarning {
	b := Bounds(r)
	if b.IsEmpty() || b.Min.Y >= -groundTolerance {
		return nil
	}
	return []ValidationWarning{{
		Path:    r.Name,
		Message: fmt.Sprintf("geometry extends %.3f m below ground", -b.Min.Y),
	}}
}

// ---------------------------------------------------------------------------
// Tier 3: catalog metadata (warnings only)
// ---------------------------------------------------------------------------

// validateCatalog flags parts without a weight or catalog number and parts
// that carry no renderable geometry.
func validateCatalog(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning
	for _, r := range s.Roots {
		_ = Walk(r, func(v Visit) error {
			pd, ok := v.Node.Data.(PartData)
			if !ok {
				return nil
			}
			if pd.CatalogNumber == "" {
				warnings = append(warnings, ValidationWarning{Path: v.Path, Message: "part has no catalog number"})
			}
			if pd.Weight <= 0 {
				warnings = append(warnings, ValidationWarning{Path: v.Path, Message: "part has no weight"})
			}
			if len(Collect(v.Node, NodePrimitive)) == 0 {
				warnings = append(warnings, ValidationWarning{Path: v.Path, Message: "part has no geometry"})
			}
			return nil
		})
	}
	return warnings
}
