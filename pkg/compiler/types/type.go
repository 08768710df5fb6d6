package types

// Type is the representation of a semantic Rill type. Key is stable across a
// run and is what the specialization cache and union normalization key on.
type Type interface {
	String() string
	Key() string
}

type Primitive struct {
	name string
}

func (p *Primitive) String() string {
	return p.name
}

func (p *Primitive) Key() string {
	return p.name
}

var (
	Bool   = &Primitive{name: "Bool"}
	Int    = &Primitive{name: "Int"}
	Float  = &Primitive{name: "Float"}
	Char   = &Primitive{name: "Char"}
	String = &Primitive{name: "String"}
	Void   = &Primitive{name: "Void"}
)

// Primitives lists every built-in primitive type.
func Primitives() []*Primitive {
	return []*Primitive{Bool, Int, Float, Char, String, Void}
}

// Object is the type of instances of a user-defined class. Each `new` site
// gets its own clone so instance-variable typing stays per-site; clones share
// the class name and therefore the same method table and cache keys.
type Object struct {
	name string
}

func NewObject(name string) *Object {
	return &Object{name: name}
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) String() string {
	return o.name
}

func (o *Object) Key() string {
	return o.name
}

func (o *Object) Clone() *Object {
	return &Object{name: o.name}
}

func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Key() == b.Key()
}

// Members iterates union membership: the members of a union, or the type
// itself for a concrete type.
func Members(t Type) []Type {
	if u, ok := t.(*Union); ok {
		return u.Members()
	}

	return []Type{t}
}

func IsUnion(t Type) bool {
	_, ok := t.(*Union)
	return ok
}
