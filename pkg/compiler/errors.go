package compiler

import (
	"fmt"

	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/rill-lang/rill/pkg/parser"
)

type PositionError = parser.PositionError

// UndefinedMethodError reports a call with no matching definition in scope.
// The message distinguishes receiver calls, explicit calls, and bare names,
// since a bare name may equally be a misspelled local.
type UndefinedMethodError struct {
	Name     string
	Receiver types.Type
	Explicit bool
}

func (e UndefinedMethodError) Error() string {
	switch {
	case e.Receiver != nil:
		return fmt.Sprintf("undefined method %q for %s", e.Name, e.Receiver)
	case e.Explicit:
		return fmt.Sprintf("undefined method %q", e.Name)
	default:
		return fmt.Sprintf("undefined local variable or method %q", e.Name)
	}
}

type ArityMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e ArityMismatchError) Error() string {
	return fmt.Sprintf("wrong number of arguments for %q (%d for %d)", e.Name, e.Got, e.Want)
}

// FrozenCallError reports a native method invoked with argument types it has
// no signature for. Natives have no body to specialize.
type FrozenCallError struct {
	Name string
	Args []types.Type
}

func (e FrozenCallError) Error() string {
	return fmt.Sprintf("no native signature for %q with argument types (%s)", e.Name, instanceKey(e.Args))
}

type UnknownConstantError struct {
	Name string
}

func (e UnknownConstantError) Error() string {
	return fmt.Sprintf("unknown constant %q", e.Name)
}

// SpecializationError wraps a failure inside a specialized method body so the
// surfaced diagnostic names the whole instantiation chain.
type SpecializationError struct {
	Method string
	Key    string
	Err    error
}

func (e *SpecializationError) Error() string {
	return fmt.Sprintf("instantiating '%s(%s)': %v", e.Method, e.Key, e.Err)
}

func (e *SpecializationError) Unwrap() error {
	return e.Err
}
