package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// PrefabNode is one node of an on-disk model description. Nodes with
// bounds carry a mesh.
type PrefabNode struct {
	Name      string            `yaml:"name"`
	Position  [3]float32        `yaml:"position"`
	Rotation  [3]float32        `yaml:"rotation"` // XYZ Euler, radians
	Scale     *[3]float32       `yaml:"scale"`
	Bounds    *PrefabBounds     `yaml:"bounds"`
	Materials []*scene.Material `yaml:"materials"`
	Children  []PrefabNode      `yaml:"children"`
}

// PrefabBounds is a local axis-aligned box.
type PrefabBounds struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// FileLoader reads prefabs from "<Dir>/<name>.yaml".
type FileLoader struct {
	Dir string
}

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, name string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.Dir, name+".yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	return ParsePrefab(data, name)
}

// ParsePrefab decodes a YAML prefab into a node tree. The root node is
// named after the model regardless of the prefab's own name field.
func ParsePrefab(data []byte, name string) (*scene.Node, error) {
	var p PrefabNode
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing prefab %s: %w", name, err)
	}

	root := p.build()
	root.Name = name
	return root, nil
}

func (p PrefabNode) build() *scene.Node {
	n := scene.NewNode(p.Name)
	n.Position = math.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}
	n.Rotation = math.QuatFromEuler(math.Vec3{X: p.Rotation[0], Y: p.Rotation[1], Z: p.Rotation[2]})
	if p.Scale != nil {
		n.Scale = math.Vec3{X: p.Scale[0], Y: p.Scale[1], Z: p.Scale[2]}
	}

	if p.Bounds != nil {
		mats := p.Materials
		if len(mats) == 0 {
			mats = []*scene.Material{{Name: "default", Color: "#cccccc", Opacity: 1}}
		}
		n.Mesh = &scene.Mesh{
			Geometry: &scene.Geometry{
				Name: p.Name,
				Bounds: math.NewBox3(
					math.Vec3{X: p.Bounds.Min[0], Y: p.Bounds.Min[1], Z: p.Bounds.Min[2]},
					math.Vec3{X: p.Bounds.Max[0], Y: p.Bounds.Max[1], Z: p.Bounds.Max[2]},
				),
			},
			Materials: mats,
		}
	}

	for _, c := range p.Children {
		n.Add(c.build())
	}
	return n
}
