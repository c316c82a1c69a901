package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding makes a scene
// unusable for rendering or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks rendering
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     string             // node path from the root (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Path    string
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking error was found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the Tier 1 structural checks on a scene and returns every
// finding. An empty slice means the tree is well formed. Read-only.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateKinds(s)...)
	errs = append(errs, validateSharing(s)...)
	return errs
}

// ValidateAll runs all tiers (structural, geometric, catalog) and returns
// a ValidationResult with separated errors and warnings.
func ValidateAll(s *Scene) ValidationResult {
	// Tier 1: structure.
	tier1 := Validate(s)

	// Tier 2: geometry.
	tier2Errs, tier2Warnings := validateGeometry(s)

	// Tier 3: catalog metadata.
	tier3Warnings := validateCatalog(s)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{Path: e.Path, Message: e.Message})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)
	result.Warnings = append(result.Warnings, tier3Warnings...)
	return result
}

// validateRoots checks that every root exists and is a group. Empty groups
// are legal (a cleared facade) but worth a warning.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, r := range s.Roots {
		if r == nil {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root %d is nil", i),
				Severity: SeverityError,
			})
			continue
		}
		if r.Kind != NodeGroup {
			errs = append(errs, ValidationError{
				Path:     r.Name,
				Message:  fmt.Sprintf("root must be a group, got %s", r.Kind),
				Severity: SeverityError,
			})
		}
		if len(r.Children) == 0 {
			errs = append(errs, ValidationError{
				Path:     r.Name,
				Message:  "root group has no children",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateKinds checks that each node's payload matches its kind and that
// primitives are leaves.
func validateKinds(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, r := range s.Roots {
		_ = Walk(r, func(v Visit) error {
			n := v.Node
			ok := true
			switch n.Kind {
			case NodePrimitive:
				_, ok = n.Data.(PrimitiveData)
				if ok && len(n.Children) > 0 {
					errs = append(errs, ValidationError{
						Path:     v.Path,
						Message:  "primitive node has children",
						Severity: SeverityError,
					})
				}
			case NodeTransform:
				_, ok = n.Data.(TransformData)
			case NodeGroup:
				_, ok = n.Data.(GroupData)
			case NodePart:
				_, ok = n.Data.(PartData)
			default:
				errs = append(errs, ValidationError{
					Path:     v.Path,
					Message:  fmt.Sprintf("unknown node kind %d", int(n.Kind)),
					Severity: SeverityError,
				})
				return nil
			}
			if !ok {
				errs = append(errs, ValidationError{
					Path:     v.Path,
					Message:  fmt.Sprintf("%s node has unexpected data type %T", n.Kind, n.Data),
					Severity: SeverityError,
				})
			}
			return nil
		})
	}
	return errs
}

// validateSharing checks that no node instance appears twice in the tree.
// Sharing would make Clear on one facade detach geometry of another.
func validateSharing(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[*Node]string)
	for _, r := range s.Roots {
		_ = Walk(r, func(v Visit) error {
			if first, dup := seen[v.Node]; dup {
				errs = append(errs, ValidationError{
					Path:     v.Path,
					Message:  fmt.Sprintf("node instance already used at %s", first),
					Severity: SeverityError,
				})
				return SkipChildren
			}
			seen[v.Node] = v.Path
			return nil
		})
	}
	return errs
}
