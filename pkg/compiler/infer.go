package compiler

import (
	"fmt"
	"log/slog"

	"github.com/rill-lang/rill/pkg/compiler/config"
	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/rill-lang/rill/pkg/parser"
)

// Infer walks the program once, seeding literal types and wiring observer
// edges. Call resolution, specialization, and dispatch expansion all happen
// as types ripple through the graph during the walk itself.
func (c *Compiler) Infer(prog *parser.Program) (*Module, error) {
	inf := &inferencer{
		logger: c.logger,
		config: c.config,
		module: NewModule(),
	}

	if err := registerBuiltins(inf.module); err != nil {
		return nil, fmt.Errorf("failed to register builtins: %w", err)
	}

	w := inf.newWalker(nil, "", make(map[string]*Variable))

	main, err := w.walk(prog.Body)
	if err != nil {
		return nil, err
	}

	inf.module.main = main

	return inf.module, nil
}

type inferencer struct {
	logger *slog.Logger
	config config.Config
	module *Module
}

func (inf *inferencer) newWalker(owner *types.Object, scope string, vars map[string]*Variable) *walker {
	return &walker{
		inf:       inf,
		owner:     owner,
		scopeName: scope,
		vars:      vars,
		nodes:     make(map[parser.Node]*Node),
	}
}

// specialize builds a concrete instance of def for one exact tuple of
// argument types: fresh parameter variables carry the concrete types, and the
// body is walked with its own node map. The instance enters the cache before
// the body walk so that a recursive call with the same key reuses it instead
// of re-specializing.
func (inf *inferencer) specialize(def *Def, recvType types.Type, argTypes []types.Type, pos parser.Position) (*Instance, error) {
	inst := &Instance{
		def:    def,
		key:    instanceKey(argTypes),
		args:   argTypes,
		vars:   make(map[string]*Variable),
		result: &Node{},
	}

	var owner *types.Object
	if obj, ok := recvType.(*types.Object); ok {
		owner = obj
	}

	if recvType != nil {
		inst.self = newVariable("self")
		if err := inst.self.SetType(recvType); err != nil {
			return nil, err
		}
		inst.vars["self"] = inst.self
	}

	for i, param := range def.params {
		v := newVariable(param)
		if err := v.SetType(argTypes[i]); err != nil {
			return nil, err
		}
		inst.vars[param] = v
	}

	def.addInstance(inst)

	inf.logger.Debug("specializing method", "method", def.name, "args", inst.key)

	scope := ""
	if recvType != nil {
		scope = recvType.Key()
	}

	w := inf.newWalker(owner, scope, inst.vars)

	body, err := w.walk(def.body)
	if err != nil {
		return nil, pos.WrapError(&SpecializationError{Method: def.name, Key: inst.key, Err: err})
	}

	if err := body.AddObserver(inst.result, ReactMerge); err != nil {
		return nil, pos.WrapError(&SpecializationError{Method: def.name, Key: inst.key, Err: err})
	}

	return inst, nil
}

// walker walks one body: the top level, a class body, or a specialized method
// body. Graph nodes for syntax nodes live in the walker's own map, so the
// same unspecialized body can be walked once per instance without cloning.
type walker struct {
	inf *inferencer

	// owner is the enclosing object type, for instance-variable resolution
	// and self-instantiation.
	owner *types.Object

	// scopeName keys the method table definitions register into: "" for the
	// top level, the class name inside a class body.
	scopeName string

	vars  map[string]*Variable
	nodes map[parser.Node]*Node
}

func (w *walker) node(ast parser.Node) *Node {
	n, ok := w.nodes[ast]
	if !ok {
		n = &Node{}
		w.nodes[ast] = n
	}

	return n
}

func (w *walker) walk(node parser.Node) (*Node, error) {
	switch node := node.(type) {
	case *parser.Program:
		return w.walk(node.Body)
	case *parser.Block:
		return w.walkBlock(node)
	case *parser.BoolLit:
		n := w.node(node)
		return n, n.SetType(types.Bool)
	case *parser.IntLit:
		n := w.node(node)
		return n, n.SetType(types.Int)
	case *parser.FloatLit:
		n := w.node(node)
		return n, n.SetType(types.Float)
	case *parser.CharLit:
		n := w.node(node)
		return n, n.SetType(types.Char)
	case *parser.StringLit:
		n := w.node(node)
		return n, n.SetType(types.String)
	case *parser.Ident:
		return w.walkIdent(node)
	case *parser.IVar:
		return w.walkIVar(node)
	case *parser.Assign:
		return w.walkAssign(node)
	case *parser.Def:
		return w.walkDef(node)
	case *parser.ClassDef:
		return w.walkClass(node)
	case *parser.If:
		return w.walkIf(node)
	case *parser.While:
		return w.walkWhile(node)
	case *parser.Call:
		return w.walkCall(node)
	case *parser.Const:
		return nil, node.WrapError(fmt.Errorf("constant %s cannot be used as a value", node.Name))
	default:
		return nil, node.Pos().WrapError(fmt.Errorf("unhandled node %T", node))
	}
}

// walkBlock wires a block to its last statement; an empty block is Void.
func (w *walker) walkBlock(block *parser.Block) (*Node, error) {
	n := w.node(block)

	var last *Node
	for _, stmt := range block.Statements {
		s, err := w.walk(stmt)
		if err != nil {
			return nil, err
		}
		last = s
	}

	if last == nil {
		return n, n.SetType(types.Void)
	}

	return n, last.AddObserver(n, ReactMerge)
}

// walkIdent resolves a local, creating an unbound one on first reference.
func (w *walker) walkIdent(node *parser.Ident) (*Node, error) {
	n := w.node(node)

	v, ok := w.vars[node.Name]
	if !ok {
		v = newVariable(node.Name)
		w.vars[node.Name] = v
	}

	return n, v.AddObserver(n, ReactMerge)
}

func (w *walker) walkIVar(node *parser.IVar) (*Node, error) {
	if w.owner == nil {
		return nil, node.WrapError(fmt.Errorf("instance variable @%s referenced outside of a class", node.Name))
	}

	n := w.node(node)
	v := w.inf.module.InstanceVar(w.owner, node.Name)

	return n, v.AddObserver(n, ReactMerge)
}

// walkAssign subscribes the assignment node to its value and the target
// variable to the assignment node, so the assigned value's type flows into
// the variable and the assignment itself carries the value's type.
func (w *walker) walkAssign(node *parser.Assign) (*Node, error) {
	n := w.node(node)

	value, err := w.walk(node.Value)
	if err != nil {
		return nil, err
	}

	var v *Variable
	switch target := node.Target.(type) {
	case *parser.Ident:
		var ok bool
		v, ok = w.vars[target.Name]
		if !ok {
			v = newVariable(target.Name)
			w.vars[target.Name] = v
		}
	case *parser.IVar:
		if w.owner == nil {
			return nil, target.WrapError(fmt.Errorf("instance variable @%s referenced outside of a class", target.Name))
		}
		v = w.inf.module.InstanceVar(w.owner, target.Name)
	default:
		return nil, node.WrapError(fmt.Errorf("cannot assign to %T", node.Target))
	}

	if err := n.AddObserver(&v.Node, ReactMerge); err != nil {
		return nil, err
	}

	return n, value.AddObserver(n, ReactMerge)
}

// walkDef registers the definition without descending into its body; bodies
// are only walked when a call specializes them.
func (w *walker) walkDef(node *parser.Def) (*Node, error) {
	def := newDef(node.Name, node.Params, node.Body, w.owner)
	w.inf.module.DefineMethod(w.scopeName, def)

	return w.node(node), nil
}

func (w *walker) walkClass(node *parser.ClassDef) (*Node, error) {
	obj := w.inf.module.DefineType(node.Name)

	cw := w.inf.newWalker(obj, node.Name, make(map[string]*Variable))
	if _, err := cw.walkBlock(node.Body); err != nil {
		return nil, err
	}

	return w.node(node), nil
}

// walkIf subscribes the conditional to both branch results. With no else
// branch the conditional's type is only what the then branch contributes.
func (w *walker) walkIf(node *parser.If) (*Node, error) {
	n := w.node(node)

	if _, err := w.walk(node.Cond); err != nil {
		return nil, err
	}

	then, err := w.walk(node.Then)
	if err != nil {
		return nil, err
	}
	if err := then.AddObserver(n, ReactMerge); err != nil {
		return nil, err
	}

	if node.Else != nil {
		elseNode, err := w.walk(node.Else)
		if err != nil {
			return nil, err
		}
		if err := elseNode.AddObserver(n, ReactMerge); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// walkWhile types the loop Void; loops have no expression value.
func (w *walker) walkWhile(node *parser.While) (*Node, error) {
	if _, err := w.walk(node.Cond); err != nil {
		return nil, err
	}

	if _, err := w.walk(node.Body); err != nil {
		return nil, err
	}

	n := w.node(node)

	return n, n.SetType(types.Void)
}

func (w *walker) walkCall(node *parser.Call) (*Node, error) {
	if recv, ok := node.Receiver.(*parser.Const); ok && node.Name == "new" {
		return w.walkNew(node, recv)
	}

	c := newCall(w.inf, node.Name, node.Pos())
	c.explicit = node.HasParens || len(node.Args) > 0
	w.nodes[node] = &c.Node

	// Wire every input before subscribing any of them: a subscription to an
	// already-typed input resolves the call immediately, and resolution must
	// see the full argument list.
	if node.Receiver != nil {
		recv, err := w.walk(node.Receiver)
		if err != nil {
			return nil, err
		}
		c.recv = recv
	}

	for _, arg := range node.Args {
		a, err := w.walk(arg)
		if err != nil {
			return nil, err
		}
		c.args = append(c.args, a)
	}

	if c.recv != nil {
		if err := c.recv.AddObserver(&c.Node, ReactResolve); err != nil {
			return nil, err
		}
	}
	for _, a := range c.args {
		if err := a.AddObserver(&c.Node, ReactResolve); err != nil {
			return nil, err
		}
	}

	// No inputs means no future type change will ever trigger resolution.
	if c.recv == nil && len(c.args) == 0 {
		if err := c.recalculate(); err != nil {
			return nil, err
		}
	}

	return &c.Node, nil
}

// walkNew types a Type.new expression directly. A class instantiating itself
// reuses the enclosing object type instead of cloning, which is what breaks
// construction recursion; every other site gets a fresh clone so its
// instance-variable typing stays per-site.
func (w *walker) walkNew(node *parser.Call, recv *parser.Const) (*Node, error) {
	n := w.node(node)

	if w.owner != nil && w.owner.Name() == recv.Name {
		return n, n.SetType(w.owner)
	}

	obj, ok := w.inf.module.LookupType(recv.Name)
	if !ok {
		return nil, recv.WrapError(UnknownConstantError{Name: recv.Name})
	}

	return n, n.SetType(obj.Clone())
}
