package editor

import "github.com/Faultbox/worldsmith/internal/scene"

// UnknownName is reported for objects without a name.
const UnknownName = "Unknown"

// Snapshot is the transform of the selected object as shown in the
// selection panel. Rotation is XYZ Euler in radians, for display only.
type Snapshot struct {
	Name                   string
	PosX, PosY, PosZ       float32
	RotX, RotY, RotZ       float32
	ScaleX, ScaleY, ScaleZ float32
}

// SnapshotOf captures n's local transform.
func SnapshotOf(n *scene.Node) *Snapshot {
	name := n.Name
	if name == "" {
		name = UnknownName
	}
	rot := n.Rotation.Euler()
	return &Snapshot{
		Name:   name,
		PosX:   n.Position.X,
		PosY:   n.Position.Y,
		PosZ:   n.Position.Z,
		RotX:   rot.X,
		RotY:   rot.Y,
		RotZ:   rot.Z,
		ScaleX: n.Scale.X,
		ScaleY: n.Scale.Y,
		ScaleZ: n.Scale.Z,
	}
}

// Observer is told about every selection change and every transform
// update of the selected object. A nil snapshot means nothing is selected.
type Observer interface {
	OnSelectionChanged(s *Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Snapshot)

// OnSelectionChanged implements Observer.
func (f ObserverFunc) OnSelectionChanged(s *Snapshot) { f(s) }
