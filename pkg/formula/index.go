package formula

import (
	"maps"
	"slices"
)

// Index resolves user input to canonical names. Each canonical name owns
// exactly one normalized key.
//
// The zero value is an empty index; use [NewIndex] to populate one.
type Index struct {
	byKey map[string]Name
}

// NewIndex normalizes every name and records key -> name.
//
// Returns ErrInvalidName if a name is empty or has no letters, and an
// [*AmbiguousNameError] if two distinct names produce the same key.
// Repeated identical names are accepted.
func NewIndex(names []Name) (*Index, error) {
	idx := &Index{byKey: make(map[string]Name, len(names))}
	for _, n := range names {
		key := Normalize(string(n))
		if key == "" {
			return nil, invalidName(n)
		}
		if prev, ok := idx.byKey[key]; ok && prev != n {
			return nil, &AmbiguousNameError{Key: key, First: prev, Second: n}
		}
		idx.byKey[key] = n
	}
	return idx, nil
}

// Resolve normalizes raw and returns the canonical name it refers to, or
// ErrNotFound.
func (x *Index) Resolve(raw string) (Name, error) {
	if x == nil {
		return "", ErrNotFound
	}
	if n, ok := x.byKey[Normalize(raw)]; ok {
		return n, nil
	}
	return "", ErrNotFound
}

// Contains reports whether name is one of the indexed canonical names.
func (x *Index) Contains(name Name) bool {
	if x == nil {
		return false
	}
	n, ok := x.byKey[Normalize(string(name))]
	return ok && n == name
}

// Len returns the number of indexed names.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byKey)
}

// Names returns the indexed canonical names in ascending order.
func (x *Index) Names() []Name {
	if x == nil {
		return nil
	}
	return slices.Sorted(maps.Values(x.byKey))
}
