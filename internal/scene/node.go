// Package scene holds the editor's scene graph: nodes with transforms, their
// meshes and materials, the environment (ground, skybox, sun), and the index
// that maps every mesh back to its selectable root object.
package scene

import (
	"sync/atomic"

	"github.com/Faultbox/worldsmith/pkg/math"
)

var lastID atomic.Uint64

func nextID() uint64 { return lastID.Add(1) }

// Node is a scene object: a transform with optional mesh and children.
// A top-level Node is a logical object (a tree, a road piece); its
// descendants are the meshes it is built from.
type Node struct {
	ID       uint64
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Mesh     *Mesh

	parent   *Node
	children []*Node
}

// NewNode creates an empty group node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		ID:       nextID(),
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.One,
	}
}

// NewMeshNode creates a node drawing geom with the given materials.
func NewMeshNode(name string, geom *Geometry, mats ...*Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: geom, Materials: mats}
	return n
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse calls fn for n and every descendant, depth first, parents first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// FirstMesh returns the first mesh node under n in traversal order, n included.
// It is the object's representative mesh for highlighting.
func (n *Node) FirstMesh() *Node {
	if n.Mesh != nil {
		return n
	}
	for _, c := range n.children {
		if m := c.FirstMesh(); m != nil {
			return m
		}
	}
	return nil
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node transform in world space.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldBounds returns the world-space box of the node's own mesh.
// ok is false for nodes without geometry.
func (n *Node) WorldBounds() (box math.Box3, ok bool) {
	if n.Mesh == nil || n.Mesh.Geometry == nil {
		return math.Box3{}, false
	}
	return n.Mesh.Geometry.Bounds.Transform(n.WorldMatrix()), true
}

// Clone returns a detached deep copy of the subtree rooted at n. Every node
// gets a fresh ID; geometry and materials are copied, never shared.
func (n *Node) Clone() *Node {
	out := &Node{
		ID:       nextID(),
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
	}
	if n.Mesh != nil {
		out.Mesh = n.Mesh.clone()
	}
	for _, c := range n.children {
		out.Add(c.Clone())
	}
	return out
}

// Dispose releases the geometry and materials of every mesh in the subtree.
// The nodes stay attached; callers detach them afterwards.
func (n *Node) Dispose() {
	n.Traverse(func(d *Node) {
		if d.Mesh != nil {
			d.Mesh.dispose()
		}
	})
}
