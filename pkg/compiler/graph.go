package compiler

import (
	"github.com/rill-lang/rill/pkg/compiler/types"
)

// Reaction selects what an observer does when the observed node's type
// changes.
type Reaction uint8

const (
	// ReactMerge merges the incoming type into the observer's own type.
	ReactMerge Reaction = iota
	// ReactResolve re-runs call resolution on the observer's call. Used for a
	// call's receiver and arguments, whose types gate resolution.
	ReactResolve
)

type edge struct {
	target   *Node
	reaction Reaction
}

// Node is a vertex in the propagation graph: a mutable type plus the ordered
// set of observers to notify when it changes. Notification is synchronous and
// reentrant; an observer's reaction may assign further types on the same call
// stack.
type Node struct {
	typ   types.Type
	edges []edge

	// call is set when this node carries a call expression; ReactResolve
	// edges dereference it.
	call *Call

	// specializing is true while the node's call is mid-instantiation, so
	// cascades triggered by the instantiation itself cannot re-enter it.
	specializing bool
}

func (n *Node) Type() types.Type {
	return n.typ
}

// SetType merges t into the node's type. A nil type or a merge that changes
// nothing is a no-op; otherwise every observer is notified with the new type,
// in subscription order.
func (n *Node) SetType(t types.Type) error {
	if t == nil {
		return nil
	}

	merged := types.Merge(n.typ, t)
	if n.typ != nil && types.Equal(n.typ, merged) {
		return nil
	}

	n.typ = merged

	for _, e := range n.edges {
		if err := n.notify(e); err != nil {
			return err
		}
	}

	return nil
}

// AddObserver subscribes target to this node. A subscriber arriving after the
// node already has a type receives it immediately.
func (n *Node) AddObserver(target *Node, reaction Reaction) error {
	for _, e := range n.edges {
		if e.target == target && e.reaction == reaction {
			return nil
		}
	}

	e := edge{target: target, reaction: reaction}
	n.edges = append(n.edges, e)

	if n.typ == nil {
		return nil
	}

	return n.notify(e)
}

func (n *Node) notify(e edge) error {
	switch e.reaction {
	case ReactResolve:
		return e.target.call.recalculate()
	default:
		return e.target.SetType(n.typ)
	}
}

// Variable is a named node: a local, an instance field, or a synthesized
// parameter.
type Variable struct {
	Node
	name string
}

func newVariable(name string) *Variable {
	return &Variable{name: name}
}

func (v *Variable) Name() string {
	return v.name
}
