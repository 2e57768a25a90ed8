// Package persistence exports, imports and clears the placement of every
// selectable object in a scene together with its environment parameters.
package persistence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/multierr"

	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// DefaultExportFile is the file name the editor exports to.
const DefaultExportFile = "scene_export.json"

// ErrMalformedDocument is returned for documents whose node records do not
// parse. Import leaves the scene untouched when it sees one.
var ErrMalformedDocument = errors.New("malformed scene document")

// Document is the serialized form of a scene. Vectors are comma-joined
// decimal strings: "x,y,z" for position and scale, "x,y,z,w" for the
// rotation quaternion.
type Document struct {
	Ground *GroundRecord `json:"ground" yaml:"ground" toml:"ground,omitempty"`
	Skybox *SkyboxRecord `json:"skybox" yaml:"skybox" toml:"skybox,omitempty"`
	Sun    *SunRecord    `json:"sun,omitempty" yaml:"sun,omitempty" toml:"sun,omitempty"`
	Nodes  []NodeRecord  `json:"nodes" yaml:"nodes" toml:"nodes"`
}

// GroundRecord mirrors scene.GroundParams.
type GroundRecord struct {
	Texture string  `json:"texture" yaml:"texture" toml:"texture"`
	Repeats float32 `json:"repeats" yaml:"repeats" toml:"repeats"`
}

// SkyboxRecord mirrors scene.SkyboxParams.
type SkyboxRecord struct {
	Texture string `json:"texture" yaml:"texture" toml:"texture"`
}

// SunRecord mirrors scene.SunParams.
type SunRecord struct {
	Color     string  `json:"color" yaml:"color" toml:"color"`
	Intensity float32 `json:"intensity" yaml:"intensity" toml:"intensity"`
	X         float32 `json:"x" yaml:"x" toml:"x"`
	Z         float32 `json:"z" yaml:"z" toml:"z"`
}

// NodeRecord is one placed object. Name is the model name it is loaded by.
type NodeRecord struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Position string `json:"position" yaml:"position" toml:"position"`
	Rotation string `json:"rotation" yaml:"rotation" toml:"rotation"`
	Scale    string `json:"scale" yaml:"scale" toml:"scale"`
}

// Placement is a parsed NodeRecord.
type Placement struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// Placements parses every node record. All parse failures are reported
// together, each wrapped with ErrMalformedDocument.
func (d *Document) Placements() ([]Placement, error) {
	out := make([]Placement, 0, len(d.Nodes))
	var errs error
	for i, rec := range d.Nodes {
		p, err := rec.Placement()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: nodes[%d] (%q): %w", ErrMalformedDocument, i, rec.Name, err))
			continue
		}
		out = append(out, p)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// Validate reports whether every node record parses.
func (d *Document) Validate() error {
	_, err := d.Placements()
	return err
}

// Placement parses the record's vector strings.
func (r NodeRecord) Placement() (Placement, error) {
	p := Placement{Name: r.Name}
	if r.Name == "" {
		return p, errors.New("empty name")
	}

	pos, err := ParseVec3(r.Position)
	if err != nil {
		return p, fmt.Errorf("position: %w", err)
	}
	rot, err := ParseQuat(r.Rotation)
	if err != nil {
		return p, fmt.Errorf("rotation: %w", err)
	}
	scale, err := ParseVec3(r.Scale)
	if err != nil {
		return p, fmt.Errorf("scale: %w", err)
	}

	p.Position, p.Rotation, p.Scale = pos, rot, scale
	return p, nil
}

// RecordOf captures the transform of a scene object.
func RecordOf(n *scene.Node) NodeRecord {
	return NodeRecord{
		Name:     n.Name,
		Position: FormatVec3(n.Position),
		Rotation: FormatQuat(n.Rotation),
		Scale:    FormatVec3(n.Scale),
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// FormatVec3 joins v as "x,y,z".
func FormatVec3(v math.Vec3) string {
	return formatFloat(v.X) + "," + formatFloat(v.Y) + "," + formatFloat(v.Z)
}

// FormatQuat joins q as "x,y,z,w".
func FormatQuat(q math.Quat) string {
	return formatFloat(q.X) + "," + formatFloat(q.Y) + "," + formatFloat(q.Z) + "," + formatFloat(q.W)
}

// ParseVec3 parses "x,y,z".
func ParseVec3(s string) (math.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// ParseQuat parses "x,y,z,w".
func ParseQuat(s string) (math.Quat, error) {
	f, err := parseFloats(s, 4)
	if err != nil {
		return math.Quat{}, err
	}
	return math.Quat{X: f[0], Y: f[1], Z: f[2], W: f[3]}, nil
}

func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d components, got %d in %q", n, len(parts), s)
	}
	out := make([]float32, n)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		v := float32(f)
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return nil, fmt.Errorf("component %d: not finite", i)
		}
		out[i] = v
	}
	return out, nil
}
