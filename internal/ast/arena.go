package ast

import "sync/atomic"

// idCounter is the process-wide monotonic node-id source described in
// the design notes: it is read-modify-write under a relaxed atomic
// ordering, and its only invariant is uniqueness, not causal ordering
// across arenas built concurrently. Ordering within one arena is still
// monotonic because each arena's builder calls NextID sequentially.
var idCounter uint32

// NextID returns the next process-wide node id. The first id returned
// by a fresh process is 1; 0 is never assigned.
func NextID() NodeID {
	return NodeID(atomic.AddUint32(&idCounter, 1))
}

// Arena is a single indexed store for every syntax node parsed from one
// source file, plus parent and children indices. It is immutable after
// construction: the type checker reads it but never rewrites nodes.
type Arena struct {
	nodes    map[NodeID]Node
	parent   map[NodeID]NodeID
	children map[NodeID][]NodeID
	roots    []NodeID
}

// NewArena returns an empty, writable Arena. Use Builder to populate it
// during parsing; once parsing completes the Arena is treated as
// read-only by every later phase.
func NewArena() *Arena {
	return &Arena{
		nodes:    make(map[NodeID]Node),
		parent:   make(map[NodeID]NodeID),
		children: make(map[NodeID][]NodeID),
	}
}

// Insert adds n to the arena under its own id. If parent is non-zero,
// n is appended to parent's children list and recorded in the parent
// map; parent and children map entries always agree. If parent is
// zero, n is recorded as a root.
func (a *Arena) Insert(n Node, parent NodeID) {
	a.nodes[n.ID()] = n
	if parent == 0 {
		a.roots = append(a.roots, n.ID())
		return
	}
	a.parent[n.ID()] = parent
	a.children[parent] = append(a.children[parent], n.ID())
}

// FindNode returns the node stored at id, or nil, false if absent. O(1).
func (a *Arena) FindNode(id NodeID) (Node, bool) {
	n, ok := a.nodes[id]
	return n, ok
}

// FindParent returns id's parent, or 0, false for roots. O(1).
func (a *Arena) FindParent(id NodeID) (NodeID, bool) {
	p, ok := a.parent[id]
	return p, ok
}

// Children returns id's children in parse order. O(1) to obtain the
// slice; callers must not mutate it.
func (a *Arena) Children(id NodeID) []NodeID {
	return a.children[id]
}

// SourceFiles returns every SourceFile node in the arena. O(n).
func (a *Arena) SourceFiles() []*SourceFile {
	var out []*SourceFile
	for _, id := range a.roots {
		if sf, ok := a.nodes[id].(*SourceFile); ok {
			out = append(out, sf)
		}
	}
	return out
}

// Functions returns every FunctionDef node in the arena. O(n).
func (a *Arena) Functions() []*FunctionDef {
	var out []*FunctionDef
	for _, n := range a.nodes {
		if f, ok := n.(*FunctionDef); ok {
			out = append(out, f)
		}
	}
	return out
}

// ListTypeDefinitions returns every struct/enum/spec/type-alias
// definition node in the arena. O(n).
func (a *Arena) ListTypeDefinitions() []Node {
	var out []Node
	for _, n := range a.nodes {
		switch n.Kind() {
		case KindStructDef, KindEnumDef, KindSpecDef, KindTypeAliasDef:
			out = append(out, n)
		}
	}
	return out
}

// FilterNodes returns every node for which pred holds. O(n).
func (a *Arena) FilterNodes(pred func(Node) bool) []Node {
	var out []Node
	for _, n := range a.nodes {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// FindSourceFileForNode walks up from id until it reaches a root,
// returning that root's id iff the root is a SourceFile. O(depth).
func (a *Arena) FindSourceFileForNode(id NodeID) (NodeID, bool) {
	cur := id
	for {
		p, ok := a.parent[cur]
		if !ok {
			break
		}
		cur = p
	}
	if n, ok := a.nodes[cur]; ok && n.Kind() == KindSourceFile {
		return cur, true
	}
	return 0, false
}

// GetNodeSource returns the substring of the enclosing source file's
// text covered by id's byte offsets. O(depth).
func (a *Arena) GetNodeSource(id NodeID) (string, bool) {
	n, ok := a.nodes[id]
	if !ok {
		return "", false
	}
	sfID, ok := a.FindSourceFileForNode(id)
	if !ok {
		return "", false
	}
	sf, ok := a.nodes[sfID].(*SourceFile)
	if !ok {
		return "", false
	}
	loc := n.Loc()
	if loc.OffsetStart < 0 || loc.OffsetEnd > len(sf.Text) || loc.OffsetStart > loc.OffsetEnd {
		return "", false
	}
	return sf.Text[loc.OffsetStart:loc.OffsetEnd], true
}

// GetChildrenCmp does an iterative (non-recursive, to avoid stack
// overflow on deep expressions) depth-first descent from id, returning
// every descendant for which pred holds, including id itself.
func (a *Arena) GetChildrenCmp(id NodeID, pred func(Node) bool) []Node {
	var out []Node
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := a.nodes[cur]
		if !ok {
			continue
		}
		if pred(n) {
			out = append(out, n)
		}
		children := a.children[cur]
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// CheckIntegrity verifies the arena's structural invariant: every
// child id in every children-list entry maps back to the same parent
// in the parent map. It is intended for use in tests, not on the hot
// path.
func (a *Arena) CheckIntegrity() error {
	for parent, kids := range a.children {
		for _, kid := range kids {
			if got, ok := a.parent[kid]; !ok || got != parent {
				return integrityError{kid, parent, got}
			}
		}
	}
	return nil
}

type integrityError struct {
	child, wantParent, gotParent NodeID
}

func (e integrityError) Error() string {
	return "arena integrity: child has mismatched parent"
}
