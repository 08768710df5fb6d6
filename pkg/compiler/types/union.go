package types

import (
	"slices"
	"strings"
)

// Union is "one of several concrete types". Members are flattened, deduped by
// Key, and kept sorted by Key so that Merge is order-independent.
type Union struct {
	members []Type
}

func (u *Union) Members() []Type {
	return u.members
}

func (u *Union) String() string {
	names := make([]string, len(u.members))
	for i, m := range u.members {
		names[i] = m.String()
	}

	return strings.Join(names, " | ")
}

func (u *Union) Key() string {
	keys := make([]string, len(u.members))
	for i, m := range u.members {
		keys[i] = m.Key()
	}

	return strings.Join(keys, "|")
}

// Merge combines two types into one: the input when both agree, a normalized
// union otherwise. Commutative, associative, and idempotent.
func Merge(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	return normalize(append(Members(a), Members(b)...))
}

func normalize(members []Type) Type {
	flat := make([]Type, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		for _, c := range Members(m) {
			if seen[c.Key()] {
				continue
			}
			seen[c.Key()] = true
			flat = append(flat, c)
		}
	}

	if len(flat) == 1 {
		return flat[0]
	}

	slices.SortFunc(flat, func(a, b Type) int {
		return strings.Compare(a.Key(), b.Key())
	})

	return &Union{members: flat}
}
