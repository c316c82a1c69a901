package graph

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Instance is one primitive with its resolved world placement. A flat list
// of instances is what a renderer binding needs; it never has to walk the
// tree or know what a part is.
type Instance struct {
	Path      string        `json:"path"`
	PartType  string        `json:"partType,omitempty"`
	Primitive PrimitiveData `json:"primitive"`
	Position  Vec3          `json:"position"`
	Basis     [3][3]float64 `json:"basis"` // rows of the world rotation
}

// Flatten resolves every primitive of the scene into world space.
func Flatten(s *Scene) []Instance {
	var out []Instance
	for _, r := range s.Roots {
		_ = Walk(r, func(v Visit) error {
			pd, ok := v.Node.Data.(PrimitiveData)
			if !ok {
				return nil
			}
			inst := Instance{
				Path:      v.Path,
				Primitive: pd,
				Position:  v.World.T,
				Basis:     v.World.R,
			}
			if v.Part != nil {
				if info, ok := v.Part.Data.(PartData); ok {
					inst.PartType = info.Type
				}
			}
			out = append(out, inst)
			return nil
		})
	}
	return out
}

// WriteJSON encodes the scene tree. With flat set it writes the Flatten
// instance list instead of the nested tree.
func WriteJSON(w io.Writer, s *Scene, flat bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var err error
	if flat {
		err = enc.Encode(Flatten(s))
	} else {
		err = enc.Encode(s)
	}
	if err != nil {
		return fmt.Errorf("graph: encode scene: %w", err)
	}
	return nil
}
