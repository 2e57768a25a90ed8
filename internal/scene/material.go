package scene

import (
	"strconv"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/Faultbox/worldsmith/internal/logger"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// Material describes how a mesh is shaded. It stands in for a GPU-side
// material handle: Dispose releases it and the renderer must not use it after.
type Material struct {
	Name    string  `yaml:"name"`
	Color   string  `yaml:"color"` // "#rrggbb"
	Texture string  `yaml:"texture,omitempty"`
	Repeats float32 `yaml:"repeats,omitempty"`
	Opacity float32 `yaml:"opacity,omitempty"`
	Unlit   bool    `yaml:"unlit,omitempty"`

	disposed bool
}

// NewFlatMaterial returns an unlit single-color material.
func NewFlatMaterial(color string) *Material {
	return &Material{Name: "flat", Color: color, Opacity: 1, Unlit: true}
}

// Dispose releases the material. It is safe to call more than once.
func (m *Material) Dispose() { m.disposed = true }

// Disposed reports whether Dispose has been called.
func (m *Material) Disposed() bool { return m.disposed }

// Clone returns an independent, undisposed copy of m.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	out := &Material{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		logger.Error("material copy failed", zap.String("material", m.Name), zap.Error(err))
	}
	out.disposed = false
	return out
}

// CloneMaterials deep-copies every material in mats.
func CloneMaterials(mats []*Material) []*Material {
	if mats == nil {
		return nil
	}
	out := make([]*Material, len(mats))
	for i, m := range mats {
		out[i] = m.Clone()
	}
	return out
}

// Geometry is the shape of a mesh, reduced to what picking needs: its local
// bounds. Like Material it stands in for a GPU buffer handle.
type Geometry struct {
	Name   string
	Bounds math.Box3

	disposed bool
}

// Dispose releases the geometry. It is safe to call more than once.
func (g *Geometry) Dispose() { g.disposed = true }

// Disposed reports whether Dispose has been called.
func (g *Geometry) Disposed() bool { return g.disposed }

// Clone returns an independent, undisposed copy of g.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	return &Geometry{Name: g.Name, Bounds: g.Bounds}
}

// Mesh pairs a geometry with the material(s) it is drawn with.
// Multi-material meshes hold one material per geometry group.
type Mesh struct {
	Geometry  *Geometry
	Materials []*Material
}

func (m *Mesh) clone() *Mesh {
	return &Mesh{
		Geometry:  m.Geometry.Clone(),
		Materials: CloneMaterials(m.Materials),
	}
}

func (m *Mesh) dispose() {
	if m.Geometry != nil {
		m.Geometry.Dispose()
	}
	for _, mat := range m.Materials {
		if mat != nil {
			mat.Dispose()
		}
	}
}

// RGB returns the material color as 0..1 components. ok is false when
// Color is not "#rrggbb".
func (m *Material) RGB() (r, g, b float32, ok bool) {
	c := m.Color
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(c[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return float32(v>>16&0xff) / 255, float32(v>>8&0xff) / 255, float32(v&0xff) / 255, true
}
