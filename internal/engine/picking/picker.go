package picking

import (
	"cmp"
	"slices"

	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// Hit is one mesh crossed by a pick ray.
type Hit struct {
	Mesh       *scene.Node
	Root       *scene.Node // nil when the mesh is not indexed
	Distance   float32
	Selectable bool
}

// Picker resolves pointer clicks to scene objects.
type Picker struct {
	index *scene.Index
}

// NewPicker creates a picker resolving roots through index.
func NewPicker(index *scene.Index) *Picker {
	return &Picker{index: index}
}

// Intersect returns every mesh under roots crossed by ray, nearest first.
func (p *Picker) Intersect(ray Ray, roots []*scene.Node) []Hit {
	var hits []Hit
	for _, r := range roots {
		r.Traverse(func(n *scene.Node) {
			box, ok := n.WorldBounds()
			if !ok {
				return
			}
			t, ok := ray.IntersectBox(box)
			if !ok {
				return
			}
			root, _ := p.index.Resolve(n)
			hits = append(hits, Hit{
				Mesh:       n,
				Root:       root,
				Distance:   t,
				Selectable: p.index.IsSelectable(n),
			})
		})
	}
	slices.SortStableFunc(hits, func(a, b Hit) int { return cmp.Compare(a.Distance, b.Distance) })
	return hits
}

// Pick casts a ray from cam through ndc and returns the nearest selectable
// hit. When nothing selectable was crossed the nearest hit of any kind is
// returned with Selectable false. ok is false only when nothing was hit.
func (p *Picker) Pick(ndc math.Vec2, cam RayCaster, roots []*scene.Node) (hit Hit, ok bool) {
	hits := p.Intersect(cam.RayFromScreenPoint(ndc), roots)
	if len(hits) == 0 {
		return Hit{}, false
	}
	for _, h := range hits {
		if h.Selectable {
			return h, true
		}
	}
	return hits[0], true
}
