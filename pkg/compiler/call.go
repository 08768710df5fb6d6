package compiler

import (
	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/rill-lang/rill/pkg/parser"
)

// Target is what a call resolved to: a specialized Instance or a Dispatch.
type Target interface {
	target()
}

// Call is the typed node for a method-call expression. Its receiver and
// arguments observe it with ReactResolve, so any newly known input type
// re-runs recalculate.
type Call struct {
	Node

	inf  *inferencer
	name string
	recv *Node
	args []*Node

	// explicit is true when the source had parentheses or arguments; a bare
	// name gets the "undefined local variable or method" diagnostic instead.
	explicit bool

	resolved Target
	pos      parser.Position
}

func newCall(inf *inferencer, name string, pos parser.Position) *Call {
	c := &Call{
		inf:  inf,
		name: name,
		pos:  pos,
	}
	c.Node.call = c

	return c
}

func (c *Call) Name() string {
	return c.name
}

func (c *Call) Target() Target {
	return c.resolved
}

// currentKey identifies the call's inputs, receiver included, for detecting
// input changes that happened while the call itself was specializing.
func (c *Call) currentKey() string {
	argTypes := make([]types.Type, len(c.args))
	for i, a := range c.args {
		argTypes[i] = a.Type()
	}

	var recvType types.Type
	if c.recv != nil {
		recvType = c.recv.Type()
	}

	return dispatchKey(c.name, recvType, argTypes)
}

// recalculate resolves the call once its receiver (when present) and every
// argument have a known type. It is idempotent: repeated invocations with
// unchanged inputs hit the instance cache and the SetType short-circuit.
func (c *Call) recalculate() error {
	if c.specializing {
		return nil
	}

	if c.recv != nil && c.recv.Type() == nil {
		return nil
	}
	for _, a := range c.args {
		if a.Type() == nil {
			return nil
		}
	}

	var recvType types.Type
	if c.recv != nil {
		recvType = c.recv.Type()
	}

	argTypes := make([]types.Type, len(c.args))
	union := recvType != nil && types.IsUnion(recvType)
	for i, a := range c.args {
		argTypes[i] = a.Type()
		union = union || types.IsUnion(argTypes[i])
	}

	if union {
		d, err := c.inf.dispatchFor(c.name, recvType, argTypes, c.pos)
		if err != nil {
			return err
		}

		c.resolved = d

		return d.Node.AddObserver(&c.Node, ReactMerge)
	}

	scope := ""
	if recvType != nil {
		scope = recvType.Key()
	}

	def, ok := c.inf.module.LookupMethod(scope, c.name)
	if !ok {
		return c.pos.WrapError(UndefinedMethodError{
			Name:     c.name,
			Receiver: recvType,
			Explicit: c.explicit,
		})
	}

	if def.Arity() != len(c.args) {
		return c.pos.WrapError(ArityMismatchError{
			Name: c.name,
			Want: def.Arity(),
			Got:  len(c.args),
		})
	}

	inst, ok := def.lookupInstance(instanceKey(argTypes))
	if !ok {
		if def.Frozen() {
			return c.pos.WrapError(FrozenCallError{Name: c.name, Args: argTypes})
		}

		before := c.currentKey()

		c.specializing = true
		var err error
		inst, err = c.inf.specialize(def, recvType, argTypes, c.pos)
		c.specializing = false
		if err != nil {
			return err
		}

		c.resolved = inst

		if err := inst.result.AddObserver(&c.Node, ReactMerge); err != nil {
			return err
		}

		// Input notifications arriving while this call was specializing were
		// dropped by the guard; if the inputs moved on, resolve again.
		if c.currentKey() != before {
			return c.recalculate()
		}

		return nil
	}

	c.resolved = inst

	return inst.result.AddObserver(&c.Node, ReactMerge)
}
