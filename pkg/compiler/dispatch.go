package compiler

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/rill-lang/rill/pkg/parser"
)

// Dispatch represents a call whose receiver or argument types are unions,
// expanded into one concrete member call per combination of concrete types.
// Its own type is the running merge of the member results.
type Dispatch struct {
	Node

	name        string
	recvChoices []types.Type
	argChoices  [][]types.Type
	calls       []*Call
}

func (d *Dispatch) Name() string {
	return d.name
}

// Size is the number of member calls: the full cartesian product of the
// receiver and argument type choices.
func (d *Dispatch) Size() int {
	return len(d.calls)
}

func (d *Dispatch) Calls() []*Call {
	return d.calls
}

func (d *Dispatch) target() {}

// dispatchFor builds the dispatch for (name, receiver type, argument types),
// or reuses the one a previous call site with the same shape built.
func (inf *inferencer) dispatchFor(name string, recvType types.Type, argTypes []types.Type, pos parser.Position) (*Dispatch, error) {
	key := dispatchKey(name, recvType, argTypes)
	if d, ok := inf.module.dispatches[key]; ok {
		return d, nil
	}

	d := &Dispatch{name: name}
	if recvType != nil {
		d.recvChoices = types.Members(recvType)
	}
	for _, t := range argTypes {
		d.argChoices = append(d.argChoices, types.Members(t))
	}

	size := max(len(d.recvChoices), 1)
	for _, choices := range d.argChoices {
		size *= len(choices)
	}
	if limit := inf.config.MaxUnion; limit > 0 && size > limit {
		return nil, pos.WrapError(fmt.Errorf("dispatch of %q expands to %d calls, over the configured limit of %d", name, size, limit))
	}

	inf.module.dispatches[key] = d
	inf.logger.Debug("expanding dispatch", "method", name, "members", size)

	recvs := d.recvChoices
	if recvs == nil {
		recvs = []types.Type{nil}
	}
	for _, recv := range recvs {
		if err := d.expand(inf, recv, nil, pos); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// expand enumerates argument choices depth-first, left to right, under one
// concrete receiver choice.
func (d *Dispatch) expand(inf *inferencer, recv types.Type, args []types.Type, pos parser.Position) error {
	if len(args) == len(d.argChoices) {
		return d.addMember(inf, recv, args, pos)
	}

	for _, t := range d.argChoices[len(args)] {
		if err := d.expand(inf, recv, append(args, t), pos); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatch) addMember(inf *inferencer, recv types.Type, args []types.Type, pos parser.Position) error {
	c := newCall(inf, d.name, pos)
	c.explicit = true

	if recv != nil {
		v := newVariable("self")
		if err := v.SetType(recv); err != nil {
			return err
		}
		c.recv = &v.Node
	}

	for i, t := range args {
		v := newVariable(fmt.Sprintf("arg%d", i))
		if err := v.SetType(t); err != nil {
			return err
		}
		c.args = append(c.args, &v.Node)
	}

	d.calls = append(d.calls, c)

	if err := c.recalculate(); err != nil {
		return err
	}

	return c.Node.AddObserver(&d.Node, ReactMerge)
}

func dispatchKey(name string, recvType types.Type, argTypes []types.Type) string {
	var sb strings.Builder
	if recvType != nil {
		sb.WriteString(recvType.Key())
		sb.WriteString("#")
	}
	sb.WriteString(name)
	sb.WriteString("(")
	sb.WriteString(instanceKey(argTypes))
	sb.WriteString(")")

	return sb.String()
}
