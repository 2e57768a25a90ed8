package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/worldsmith/internal/scene"
)

// DefaultHighlightColor tints the selected object.
const DefaultHighlightColor = "#ff0000"

// Selection holds at most one selected object and the material pair of its
// representative mesh: the saved originals and the highlight overlay shown
// in their place. Whatever path ends a selection restores the originals.
type Selection struct {
	color    string
	observer Observer
	log      *zap.Logger

	root      *scene.Node
	mesh      *scene.Node
	originals []*scene.Material
	overlay   []*scene.Material
}

// NewSelection creates an empty selection. observer may be nil.
func NewSelection(color string, observer Observer, log *zap.Logger) *Selection {
	if color == "" {
		color = DefaultHighlightColor
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Selection{color: color, observer: observer, log: log}
}

// Current returns the selected root, or nil.
func (s *Selection) Current() *scene.Node { return s.root }

// Mesh returns the highlighted representative mesh, or nil.
func (s *Selection) Mesh() *scene.Node { return s.mesh }

// Select makes root the selection. Selecting the current root again only
// re-emits its snapshot. A nil root deselects.
func (s *Selection) Select(root *scene.Node) {
	if root == nil {
		s.Deselect()
		return
	}
	if root == s.root {
		s.Refresh()
		return
	}

	s.restore()
	s.root = root
	s.mesh = root.FirstMesh()
	if s.mesh != nil {
		s.highlight()
	}

	s.log.Debug("selected", zap.String("name", root.Name), zap.Uint64("id", root.ID))
	s.Report(root)
}

// Deselect restores the original materials and clears the selection.
// It does nothing when nothing is selected.
func (s *Selection) Deselect() {
	if s.root == nil {
		return
	}
	s.log.Debug("deselected", zap.String("name", s.root.Name))
	s.restore()
	s.notify(nil)
}

// Refresh re-emits the snapshot of the selected root.
func (s *Selection) Refresh() {
	if s.root != nil {
		s.Report(s.root)
	}
}

// Report emits the snapshot of n.
func (s *Selection) Report(n *scene.Node) {
	s.notify(SnapshotOf(n))
}

// OriginalMaterials returns fresh copies of the saved originals.
func (s *Selection) OriginalMaterials() []*scene.Material {
	return scene.CloneMaterials(s.originals)
}

// highlight saves copies of the mesh's materials and shows one flat
// highlight material per slot. The displaced materials are released.
func (s *Selection) highlight() {
	live := s.mesh.Mesh.Materials
	s.originals = scene.CloneMaterials(live)
	s.overlay = make([]*scene.Material, len(live))
	for i, m := range live {
		if m != nil {
			m.Dispose()
		}
		s.overlay[i] = scene.NewFlatMaterial(s.color)
	}
	s.mesh.Mesh.Materials = s.overlay
}

func (s *Selection) restore() {
	if s.mesh != nil && s.mesh.Mesh != nil && s.originals != nil {
		for _, m := range s.overlay {
			m.Dispose()
		}
		s.mesh.Mesh.Materials = s.originals
	}
	s.root, s.mesh = nil, nil
	s.originals, s.overlay = nil, nil
}

func (s *Selection) notify(snap *Snapshot) {
	if s.observer != nil {
		s.observer.OnSelectionChanged(snap)
	}
}
