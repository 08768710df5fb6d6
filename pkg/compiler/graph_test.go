package compiler

import (
	"testing"

	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/stretchr/testify/require"
)

func TestLateSubscriptionDelivery(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	r.NoError(a.SetType(types.Int))

	b := &Node{}
	r.NoError(a.AddObserver(b, ReactMerge))
	r.True(types.Equal(types.Int, b.Type()))
}

func TestSetTypeNilIsNoop(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	r.NoError(a.SetType(nil))
	r.Nil(a.Type())

	r.NoError(a.SetType(types.Int))
	r.NoError(a.SetType(nil))
	r.True(types.Equal(types.Int, a.Type()))
}

func TestSetTypeMerges(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	b := &Node{}
	r.NoError(a.AddObserver(b, ReactMerge))

	r.NoError(a.SetType(types.Int))
	r.NoError(a.SetType(types.String))

	r.True(types.IsUnion(a.Type()))
	r.True(types.Equal(a.Type(), b.Type()))
}

func TestAssignmentOrderIrrelevant(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	r.NoError(a.SetType(types.Int))
	r.NoError(a.SetType(types.String))
	r.NoError(a.SetType(types.Bool))

	b := &Node{}
	r.NoError(b.SetType(types.Bool))
	r.NoError(b.SetType(types.Int))
	r.NoError(b.SetType(types.String))

	r.True(types.Equal(a.Type(), b.Type()))
}

func TestAddObserverDedupes(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	b := &Node{}
	r.NoError(a.AddObserver(b, ReactMerge))
	r.NoError(a.AddObserver(b, ReactMerge))
	r.Len(a.edges, 1)
}

func TestObserverCycleTerminates(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	b := &Node{}
	r.NoError(a.AddObserver(b, ReactMerge))
	r.NoError(b.AddObserver(a, ReactMerge))

	r.NoError(a.SetType(types.Int))
	r.True(types.Equal(types.Int, b.Type()))

	r.NoError(b.SetType(types.String))
	r.True(types.IsUnion(a.Type()))
	r.True(types.Equal(a.Type(), b.Type()))
}

func TestNotificationCascades(t *testing.T) {
	r := require.New(t)

	a := &Node{}
	b := &Node{}
	c := &Node{}
	r.NoError(a.AddObserver(b, ReactMerge))
	r.NoError(b.AddObserver(c, ReactMerge))

	r.NoError(a.SetType(types.Float))
	r.True(types.Equal(types.Float, c.Type()))
}

func TestVariableName(t *testing.T) {
	r := require.New(t)

	v := newVariable("x")
	r.Equal("x", v.Name())
	r.NoError(v.SetType(types.Int))
	r.True(types.Equal(types.Int, v.Type()))
}
