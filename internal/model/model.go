// Package model defines core data structures for ipftree.
package model

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrNodeFrozen is returned when adding a child to a node that has already
// been attached to a parent.
var ErrNodeFrozen = errors.New("node is frozen and cannot be modified")

// Kind indicates what a node stands for.
type Kind int

const (
	Procedure Kind = iota
	Function
	Variable
)

// String returns the symbolic name used in rendered output.
func (k Kind) String() string {
	switch k {
	case Procedure:
		return "Procedure"
	case Function:
		return "Function"
	case Variable:
		return "Variable"
	default:
		return "Unknown"
	}
}

// Node is a procedure file or a symbol defined inside one.
//
// Children form a set keyed by structural identity (name, kind and the
// children themselves), so identical subtrees collapse into one entry. A node
// is frozen when it is attached to a parent and never changes afterwards.
type Node struct {
	Name string
	Kind Kind

	children map[string]*Node
	key      string
	frozen   bool
}

// NewNode returns an empty node.
func NewNode(name string, kind Kind) *Node {
	return &Node{Name: name, Kind: kind}
}

// AddChild attaches child to n, freezing child. A child structurally equal to
// an existing one is dropped.
func (n *Node) AddChild(child *Node) error {
	if n.frozen {
		return ErrNodeFrozen
	}
	child.freeze()
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, dup := n.children[child.key]; !dup {
		n.children[child.key] = child
	}
	return nil
}

// Children returns the child set ordered by structural key.
func (n *Node) Children() []*Node {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Node, len(keys))
	for i, k := range keys {
		out[i] = n.children[k]
	}
	return out
}

// Len returns the number of distinct children.
func (n *Node) Len() int {
	return len(n.children)
}

// Frozen reports whether n has been attached to a parent.
func (n *Node) Frozen() bool {
	return n.frozen
}

// Key returns the canonical structural key of n, e.g.
// `Procedure:"main"{Function:"Foo"{}}`.
func (n *Node) Key() string {
	if n.frozen {
		return n.key
	}
	return n.computeKey()
}

func (n *Node) freeze() {
	if n.frozen {
		return
	}
	n.key = n.computeKey()
	n.frozen = true
}

func (n *Node) computeKey() string {
	var b strings.Builder
	b.WriteString(n.Kind.String())
	b.WriteByte(':')
	b.WriteString(strconv.Quote(n.Name))
	b.WriteByte('{')
	for i, c := range n.Children() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Key())
	}
	b.WriteByte('}')
	return b.String()
}

// DirectiveKind distinguishes the two recognized line forms.
type DirectiveKind string

const (
	Include    DirectiveKind = "include"
	Definition DirectiveKind = "definition"
)

// Directive is one match found on a line of a procedure file.
type Directive struct {
	Kind  DirectiveKind
	Value string // include target or defined identifier
	Line  int
}

// ProcedureInfo summarizes a scanned procedure file for the include graph.
type ProcedureInfo struct {
	Name      string
	Path      string
	Includes  []string
	Functions []string
	Rank      float64
}

// Dependency represents an edge in the include graph:
// Source includes Target.
type Dependency struct {
	Source string
	Target string
}

// Listing is a ranked view of the include graph.
type Listing struct {
	Procedures   []ProcedureInfo
	Dependencies []Dependency
}
