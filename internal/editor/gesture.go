package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/worldsmith/internal/engine/picking"
	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// GestureState is the active manipulation. Exactly one is active at a time.
type GestureState int

const (
	Idle GestureState = iota
	Translate
	Rotate
	Scale
	DuplicatePlace
)

func (s GestureState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	case DuplicatePlace:
		return "duplicate"
	default:
		return fmt.Sprintf("GestureState(%d)", int(s))
	}
}

// Default pointer sensitivities.
const (
	DefaultRotateSensitivity = 0.01 // radians per pixel
	DefaultScaleSensitivity  = 0.01 // factor per pixel
)

// groundPlaneY is the height of the plane objects are dragged across.
const groundPlaneY = 0

// Gestures drives the selected object (or its duplicate) from pointer input.
// Rotate and scale measure pointer travel in pixels from the anchor, the
// pointer position when the gesture began.
type Gestures struct {
	RotateSensitivity float32
	ScaleSensitivity  float32

	scene     *scene.Scene
	selection *Selection
	log       *zap.Logger

	state   GestureState
	pointer math.Vec2 // last pointer position, pixels

	// Gesture scratch, valid while state != Idle.
	target     *scene.Node
	anchor     math.Vec2
	yOffset    float32
	hasOffset  bool
	startEuler math.Vec3
	startScale math.Vec3
}

// NewGestures creates an idle gesture controller.
func NewGestures(s *scene.Scene, sel *Selection, log *zap.Logger) *Gestures {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gestures{
		RotateSensitivity: DefaultRotateSensitivity,
		ScaleSensitivity:  DefaultScaleSensitivity,
		scene:             s,
		selection:         sel,
		log:               log,
	}
}

// State returns the active gesture.
func (g *Gestures) State() GestureState { return g.state }

// Target returns the object being manipulated, nil when idle.
func (g *Gestures) Target() *scene.Node { return g.target }

func (g *Gestures) begin(state GestureState, target *scene.Node) {
	g.state = state
	g.target = target
	g.anchor = g.pointer
	g.hasOffset = false
	g.startEuler = target.Rotation.Euler()
	g.startScale = target.Scale
	g.log.Debug("gesture started", zap.Stringer("state", state), zap.String("target", target.Name))
}

// Reset returns to Idle. A duplicate being placed stays in the scene.
func (g *Gestures) Reset() {
	if g.state != Idle {
		g.log.Debug("gesture ended", zap.Stringer("state", g.state))
	}
	g.state = Idle
	g.target = nil
	g.hasOffset = false
}

// ToggleTranslate switches between Translate and Idle.
func (g *Gestures) ToggleTranslate() {
	switch g.state {
	case Translate:
		g.Reset()
	case Idle:
		if sel := g.selection.Current(); sel != nil {
			g.begin(Translate, sel)
		}
	}
}

// BeginRotate enters Rotate from Idle, recording the current rotation.
func (g *Gestures) BeginRotate() {
	if g.state == Idle && g.selection.Current() != nil {
		g.begin(Rotate, g.selection.Current())
	}
}

// EndRotate leaves Rotate.
func (g *Gestures) EndRotate() {
	if g.state == Rotate {
		g.Reset()
	}
}

// BeginScale enters Scale from Idle, recording the current scale.
func (g *Gestures) BeginScale() {
	if g.state == Idle && g.selection.Current() != nil {
		g.begin(Scale, g.selection.Current())
	}
}

// EndScale leaves Scale.
func (g *Gestures) EndScale() {
	if g.state == Scale {
		g.Reset()
	}
}

// ToggleDuplicate starts placing a copy of the selection, or stops tracking
// the copy being placed. A stopped copy stays where it was left.
func (g *Gestures) ToggleDuplicate() {
	switch g.state {
	case DuplicatePlace:
		g.log.Info("duplicate placed", zap.String("name", g.target.Name), zap.Uint64("id", g.target.ID))
		g.Reset()
	case Idle:
		if sel := g.selection.Current(); sel != nil {
			g.begin(DuplicatePlace, g.duplicate(sel))
		}
	}
}

// duplicate clones src into the scene as a new selectable object. The
// copy of the highlighted mesh gets the original materials back.
func (g *Gestures) duplicate(src *scene.Node) *scene.Node {
	clone := src.Clone()
	if mesh := clone.FirstMesh(); mesh != nil && g.selection.Mesh() != nil {
		for _, m := range mesh.Mesh.Materials {
			m.Dispose()
		}
		mesh.Mesh.Materials = g.selection.OriginalMaterials()
	}
	g.scene.AddObject(clone, true)
	return clone
}

// PointerMove applies the active gesture for a pointer at pixel position px,
// ndc being the same position in normalized device coordinates.
func (g *Gestures) PointerMove(px, ndc math.Vec2, cam picking.RayCaster) {
	g.pointer = px
	if g.state == Idle || g.target == nil {
		return
	}

	delta := px.Sub(g.anchor)
	switch g.state {
	case Translate, DuplicatePlace:
		hit, ok := cam.RayFromScreenPoint(ndc).IntersectPlaneY(groundPlaneY)
		if !ok {
			return
		}
		if !g.hasOffset {
			g.yOffset = g.target.Position.Y - hit.Y
			g.hasOffset = true
		}
		g.target.Position = math.Vec3{X: hit.X, Y: hit.Y + g.yOffset, Z: hit.Z}

	case Rotate:
		e := g.startEuler
		e.Y += delta.X * g.RotateSensitivity
		g.target.Rotation = math.QuatFromEuler(e)

	case Scale:
		factor := 1 + delta.Y*g.ScaleSensitivity
		g.target.Scale = g.startScale.Scale(factor)
	}

	g.selection.Report(g.target)
}
