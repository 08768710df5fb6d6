package compiler

import (
	"github.com/rill-lang/rill/pkg/compiler/types"
)

// registerBuiltins installs the frozen native definitions on the primitive
// types and the top-level scope. Operators are ordinary methods on the left
// operand.
func registerBuiltins(m *Module) error {
	for _, num := range []*types.Primitive{types.Int, types.Float} {
		for _, op := range []string{"+", "-", "*", "/"} {
			if err := defineNative(m, num, op, []types.Type{num}, num); err != nil {
				return err
			}
		}
		for _, op := range []string{"<", ">", "==", "!="} {
			if err := defineNative(m, num, op, []types.Type{num}, types.Bool); err != nil {
				return err
			}
		}
	}

	if err := defineNative(m, types.String, "+", []types.Type{types.String}, types.String); err != nil {
		return err
	}
	if err := defineNative(m, types.String, "size", nil, types.Int); err != nil {
		return err
	}
	for _, scope := range []*types.Primitive{types.String, types.Bool, types.Char} {
		for _, op := range []string{"==", "!="} {
			if err := defineNative(m, scope, op, []types.Type{scope}, types.Bool); err != nil {
				return err
			}
		}
	}

	puts := NewNativeDef("puts", "value")
	for _, t := range types.Primitives() {
		if t == types.Void {
			continue
		}
		if err := puts.AddNativeSignature([]types.Type{t}, types.Void); err != nil {
			return err
		}
	}
	m.DefineMethod("", puts)

	return nil
}

func defineNative(m *Module, scope *types.Primitive, name string, args []types.Type, result types.Type) error {
	def, ok := m.LookupMethod(scope.Key(), name)
	if !ok {
		params := make([]string, len(args))
		for i := range args {
			params[i] = "other"
		}
		def = NewNativeDef(name, params...)
		m.DefineMethod(scope.Key(), def)
	}

	return def.AddNativeSignature(args, result)
}
