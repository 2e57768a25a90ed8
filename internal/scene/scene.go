package scene

import "go.uber.org/zap"

// Scene is the root of the editor's scene graph. It exclusively owns its
// top-level nodes and keeps the index in step with what is attached.
type Scene struct {
	Environment

	root  *Node
	index *Index
	log   *zap.Logger
}

// New creates an empty scene with its own index.
func New(log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		root:  NewNode("scene"),
		index: NewIndex(),
		log:   log,
	}
}

// Index returns the scene's mesh-to-root index.
func (s *Scene) Index() *Index { return s.index }

// Root returns the scene root. Top-level objects are its children.
func (s *Scene) Root() *Node { return s.root }

// Objects returns the top-level nodes, including ground and skybox.
func (s *Scene) Objects() []*Node { return s.root.children }

// AddObject registers obj (selectable or not) and attaches it at top level.
func (s *Scene) AddObject(obj *Node, selectable bool) {
	s.index.Register(obj, selectable)
	s.root.Add(obj)
}

// RemoveObject releases obj's GPU resources, detaches it and drops it from
// the index. It reports whether obj was attached.
func (s *Scene) RemoveObject(obj *Node) bool {
	if obj.parent != s.root {
		return false
	}
	obj.Dispose()
	s.root.Remove(obj)
	s.index.Unregister(obj)
	return true
}

// Traverse visits every node below the root, depth first.
func (s *Scene) Traverse(fn func(*Node)) {
	for _, c := range s.root.children {
		c.Traverse(fn)
	}
}

// SelectableRoots returns every distinct selectable root, in first-encountered
// traversal order of their meshes.
func (s *Scene) SelectableRoots() []*Node {
	seen := make(map[*Node]bool)
	var roots []*Node
	s.Traverse(func(n *Node) {
		if n.Mesh == nil || !s.index.IsSelectable(n) {
			return
		}
		root, ok := s.index.Resolve(n)
		if !ok || seen[root] {
			return
		}
		seen[root] = true
		roots = append(roots, root)
	})
	return roots
}

// SetGround replaces the ground plane, building its material with f.
func (s *Scene) SetGround(p GroundParams, f GroundMaterialFactory) {
	if s.ground != nil {
		s.RemoveObject(s.ground)
	}
	s.Ground = p
	s.ground = newGroundNode(f.GroundMaterial(p.Texture, p.Repeats))
	s.AddObject(s.ground, false)
	s.log.Debug("ground changed", zap.String("texture", p.Texture), zap.Float32("repeats", p.Repeats))
}

// SetSkybox replaces the skybox.
func (s *Scene) SetSkybox(p SkyboxParams) {
	if s.skybox != nil {
		s.RemoveObject(s.skybox)
	}
	s.Skybox = p
	s.skybox = newSkyboxNode(p.Texture)
	s.AddObject(s.skybox, false)
	s.log.Debug("skybox changed", zap.String("texture", p.Texture))
}

// SetSun updates the sun light.
func (s *Scene) SetSun(p SunParams) {
	s.Sun = p
	s.log.Debug("sun changed",
		zap.String("color", p.Color),
		zap.Float32("intensity", p.Intensity),
		zap.Float32("x", p.X),
		zap.Float32("z", p.Z),
	)
}
