package types_test

import (
	"testing"

	"github.com/rill-lang/rill/pkg/compiler/types"
	"github.com/stretchr/testify/require"
)

func TestMergeIdempotent(t *testing.T) {
	r := require.New(t)

	r.True(types.Equal(types.Int, types.Merge(types.Int, types.Int)))
	r.False(types.IsUnion(types.Merge(types.Int, types.Int)))
}

func TestMergeUnion(t *testing.T) {
	r := require.New(t)

	u := types.Merge(types.Int, types.String)
	r.True(types.IsUnion(u))
	r.Len(types.Members(u), 2)
}

func TestMergeCommutative(t *testing.T) {
	r := require.New(t)

	ab := types.Merge(types.Int, types.String)
	ba := types.Merge(types.String, types.Int)
	r.True(types.Equal(ab, ba))
	r.Equal(ab.Key(), ba.Key())
}

func TestMergeAssociative(t *testing.T) {
	r := require.New(t)

	left := types.Merge(types.Merge(types.Int, types.String), types.Bool)
	right := types.Merge(types.Int, types.Merge(types.String, types.Bool))
	r.True(types.Equal(left, right))
	r.Len(types.Members(left), 3)
}

func TestMergeFlattensAndDedupes(t *testing.T) {
	r := require.New(t)

	u := types.Merge(types.Int, types.String)
	v := types.Merge(u, types.Merge(types.Int, types.Bool))
	r.Len(types.Members(v), 3)

	again := types.Merge(v, u)
	r.True(types.Equal(v, again))
}

func TestMergeNil(t *testing.T) {
	r := require.New(t)

	r.True(types.Equal(types.Int, types.Merge(nil, types.Int)))
	r.True(types.Equal(types.Int, types.Merge(types.Int, nil)))
}

func TestObjectClone(t *testing.T) {
	r := require.New(t)

	obj := types.NewObject("Point")
	clone := obj.Clone()
	r.NotSame(obj, clone)
	r.True(types.Equal(obj, clone))
	r.Equal("Point", clone.Key())

	// Clones collapse in a union, they are the same class.
	r.False(types.IsUnion(types.Merge(obj, clone)))
}

func TestMembersConcrete(t *testing.T) {
	r := require.New(t)

	members := types.Members(types.Float)
	r.Len(members, 1)
	r.True(types.Equal(types.Float, members[0]))
}

func TestUnionString(t *testing.T) {
	r := require.New(t)

	u := types.Merge(types.String, types.Int)
	r.Equal("Int | String", u.String())
}
