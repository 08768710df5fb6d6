package compiler

import (
	"cmp"
	"maps"
	"slices"

	"github.com/rill-lang/rill/pkg/compiler/types"
)

// Module is the output of an inference run: the class registry, the method
// tables, and the per-object instance-variable tables. Method tables are
// keyed by scope name (a type's Key for receiver calls, "" for the top
// level), so object clones share their class's methods.
type Module struct {
	types      map[string]*types.Object
	methods    map[string]map[string]*Def
	ivars      map[*types.Object]map[string]*Variable
	dispatches map[string]*Dispatch

	main *Node
}

func NewModule() *Module {
	return &Module{
		types:      make(map[string]*types.Object),
		methods:    make(map[string]map[string]*Def),
		ivars:      make(map[*types.Object]map[string]*Variable),
		dispatches: make(map[string]*Dispatch),
	}
}

// DefineType registers an object type for name on first encounter and
// returns the canonical object thereafter.
func (m *Module) DefineType(name string) *types.Object {
	if obj, ok := m.types[name]; ok {
		return obj
	}

	obj := types.NewObject(name)
	m.types[name] = obj

	return obj
}

func (m *Module) LookupType(name string) (*types.Object, bool) {
	obj, ok := m.types[name]
	return obj, ok
}

func (m *Module) TypeNames() []string {
	return slices.Sorted(maps.Keys(m.types))
}

func (m *Module) DefineMethod(scope string, def *Def) {
	table, ok := m.methods[scope]
	if !ok {
		table = make(map[string]*Def)
		m.methods[scope] = table
	}

	table[def.Name()] = def
}

func (m *Module) LookupMethod(scope, name string) (*Def, bool) {
	def, ok := m.methods[scope][name]
	return def, ok
}

func (m *Module) Methods(scope string) []*Def {
	defs := slices.Collect(maps.Values(m.methods[scope]))
	slices.SortFunc(defs, func(a, b *Def) int {
		return cmp.Compare(a.Name(), b.Name())
	})

	return defs
}

// InstanceVar resolves an instance-variable slot on obj, creating it on first
// reference.
func (m *Module) InstanceVar(obj *types.Object, name string) *Variable {
	table, ok := m.ivars[obj]
	if !ok {
		table = make(map[string]*Variable)
		m.ivars[obj] = table
	}

	v, ok := table[name]
	if !ok {
		v = newVariable(name)
		table[name] = v
	}

	return v
}

// Dispatches lists the dispatch expansions built during the run, ordered by
// key.
func (m *Module) Dispatches() []*Dispatch {
	var dispatches []*Dispatch
	for _, key := range slices.Sorted(maps.Keys(m.dispatches)) {
		dispatches = append(dispatches, m.dispatches[key])
	}

	return dispatches
}

// ResultType is the inferred type of the program's top-level body, when it
// has one.
func (m *Module) ResultType() types.Type {
	if m.main == nil {
		return nil
	}

	return m.main.Type()
}
