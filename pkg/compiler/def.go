package compiler

import (
	"maps"
	"slices"
	"strings"

	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/rill-lang/rill/pkg/parser"
)

// Def is an unspecialized method definition. Its body is only type-checked
// when a call specializes it for a concrete tuple of argument types; the
// resulting instances are cached here and never invalidated within a run.
type Def struct {
	name   string
	params []string
	body   *parser.Block
	owner  *types.Object

	// frozen marks a native definition: no body, callable only with argument
	// types already present in instances.
	frozen bool

	instances map[string]*Instance
}

func newDef(name string, params []string, body *parser.Block, owner *types.Object) *Def {
	return &Def{
		name:      name,
		params:    params,
		body:      body,
		owner:     owner,
		instances: make(map[string]*Instance),
	}
}

// NewNativeDef declares a frozen definition. Signatures are added with
// AddNativeSignature.
func NewNativeDef(name string, params ...string) *Def {
	return &Def{
		name:      name,
		params:    params,
		frozen:    true,
		instances: make(map[string]*Instance),
	}
}

func (d *Def) Name() string {
	return d.name
}

func (d *Def) Arity() int {
	return len(d.params)
}

func (d *Def) Frozen() bool {
	return d.frozen
}

func (d *Def) Owner() *types.Object {
	return d.owner
}

// AddNativeSignature records a recognized argument-type tuple and its result
// type for a frozen definition.
func (d *Def) AddNativeSignature(args []types.Type, result types.Type) error {
	inst := &Instance{
		def:    d,
		key:    instanceKey(args),
		args:   args,
		result: &Node{},
	}
	if err := inst.result.SetType(result); err != nil {
		return err
	}

	d.instances[inst.key] = inst

	return nil
}

func (d *Def) lookupInstance(key string) (*Instance, bool) {
	inst, ok := d.instances[key]
	return inst, ok
}

func (d *Def) addInstance(inst *Instance) {
	d.instances[inst.key] = inst
}

// Instances lists the specializations built so far, ordered by key.
func (d *Def) Instances() []*Instance {
	var insts []*Instance
	for _, key := range slices.Sorted(maps.Keys(d.instances)) {
		insts = append(insts, d.instances[key])
	}

	return insts
}

// Instance is one concrete specialization of a Def: parameter variables bound
// to exact argument types and a result node fed by the specialized body.
type Instance struct {
	def  *Def
	key  string
	args []types.Type

	vars   map[string]*Variable
	self   *Variable
	result *Node
}

func (i *Instance) Def() *Def {
	return i.def
}

func (i *Instance) Key() string {
	return i.key
}

func (i *Instance) Args() []types.Type {
	return i.args
}

func (i *Instance) Result() types.Type {
	return i.result.Type()
}

func (i *Instance) target() {}

func instanceKey(args []types.Type) string {
	keys := make([]string, len(args))
	for i, t := range args {
		keys[i] = t.Key()
	}

	return strings.Join(keys, ", ")
}
