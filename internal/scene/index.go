package scene

// indexEntry links a node to the top-level object that owns it.
type indexEntry struct {
	root       *Node
	selectable bool
}

// Index maps every node of a registered object back to that object's root,
// so a picked mesh resolves to its logical object without walking parents.
// Roots are non-owning references; the Scene owns the nodes.
type Index struct {
	entries map[*Node]indexEntry
	roots   []*Node
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[*Node]indexEntry)}
}

// Register marks root and all its descendants as owned by root.
// Registering a root again updates its flag and picks up new descendants.
func (x *Index) Register(root *Node, selectable bool) {
	if _, known := x.entries[root]; !known {
		x.roots = append(x.roots, root)
	}
	root.Traverse(func(n *Node) {
		x.entries[n] = indexEntry{root: root, selectable: selectable}
	})
}

// Unregister removes root and every node recorded as owned by it.
func (x *Index) Unregister(root *Node) {
	for n, e := range x.entries {
		if e.root == root {
			delete(x.entries, n)
		}
	}
	for i, r := range x.roots {
		if r == root {
			x.roots = append(x.roots[:i], x.roots[i+1:]...)
			break
		}
	}
}

// Resolve returns the root object that owns n.
func (x *Index) Resolve(n *Node) (*Node, bool) {
	e, ok := x.entries[n]
	return e.root, ok
}

// IsSelectable reports whether n belongs to a selectable object.
func (x *Index) IsSelectable(n *Node) bool {
	return x.entries[n].selectable
}

// Roots returns the selectable roots in registration order.
func (x *Index) Roots() []*Node {
	var out []*Node
	for _, r := range x.roots {
		if x.entries[r].selectable {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int { return len(x.entries) }
