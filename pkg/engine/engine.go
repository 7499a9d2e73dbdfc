// Package engine implements FreyjaTree's core: a concurrent, ordered,
// in-memory binary search tree keyed by string name and mapping to a
// string value. The tree is unbalanced by design (its shape is whatever
// insertion order produces); concurrency safety comes from per-node
// reader/writer locks and a hand-over-hand (lock-coupling) traversal,
// not from balancing.
//
// Every node in the tree is reachable only by walking down from a
// permanently-allocated sentinel root whose name and value are both the
// empty string. All real data lives in the sentinel's right subtree,
// since every non-empty key sorts after "". The sentinel removes the
// root-replacement special case from Add and Remove and is never
// destroyed.
package engine

import "github.com/segmentio/ksuid"

// ErrEmptyKey is returned by Query, Add, and Remove when called with the
// empty string. The engine's search primitive assumes its caller's key
// never equals the sentinel's own name (""), so the empty key is
// rejected at the boundary rather than handled inside search.
var ErrEmptyKey = &OpError{"name must not be empty"}

// OpError is the error type returned by engine operations. It carries a
// short message only; callers needing to distinguish error kinds should
// compare against the package's exported sentinel errors.
type OpError struct {
	Message string
}

func (e *OpError) Error() string {
	return e.Message
}

// AddResult describes the outcome of Tree.Add.
type AddResult int

const (
	// Added means a new node was created and linked into the tree.
	Added AddResult = iota
	// AlreadyPresent means the key already existed; the tree is unchanged.
	AlreadyPresent
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case AlreadyPresent:
		return "already present"
	default:
		return "unknown"
	}
}

// Node is one entry in the tree. name is the search key under
// lexicographic (Go string) ordering; value is its payload. left and
// right are the node's exclusively-owned children. Every Node also
// embeds the three-primitive reader/writer lock described in lock.go.
//
// id is a ksuid minted when the node is created. It has no bearing on
// ordering, search, or equality; nothing in the engine reads it, and no
// log line or metric carries it.
type Node struct {
	name  string
	value string
	left  *Node
	right *Node
	id    ksuid.KSUID

	lock rwlock
}

func newNode(name, value string) *Node {
	return &Node{name: name, value: value, id: ksuid.New()}
}

// Tree is a concurrent, ordered string-to-string store. The zero value
// is not usable; construct one with NewTree.
type Tree struct {
	root *Node // sentinel: name == "" && value == ""
}

// NewTree returns a Tree containing only the sentinel root. All keys
// added later will live in the sentinel's right subtree.
func NewTree() *Tree {
	return &Tree{root: newNode("", "")}
}
