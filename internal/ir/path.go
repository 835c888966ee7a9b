package ir

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

// StateID names a state within one nesting level.
type StateID string

// Input is a discrete symbol presented to a machine by Fire.
type Input string

// NewInput returns s as an Input in Unicode NFC. Loaded documents store
// their inputs in NFC, so text from users goes through here before Fire.
func NewInput(s string) Input {
	return Input(norm.NFC.String(s))
}

// StatePath is a root-to-leaf sequence of StateID addressing a fully
// resolved, possibly nested, discrete state.
//
// A nil StatePath is absent; StatePath{} is empty. Equal distinguishes them.
type StatePath []StateID

// Path builds a StatePath from ids. Path() returns an empty, non-nil path.
func Path(ids ...StateID) StatePath {
	p := make(StatePath, len(ids))
	copy(p, ids)
	return p
}

// Equal reports whether a and b address the same state.
//
// Two absent paths are equal. An absent path never equals a present one,
// even an empty one. Present paths are equal when they have the same length
// and element-wise equal ids.
func Equal(a, b StatePath) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal is the method form of Equal.
func (p StatePath) Equal(other StatePath) bool {
	return Equal(p, other)
}

// Hash returns an order-sensitive hash of the path.
// Equal paths hash equally; permutations of the same ids hash differently.
func (p StatePath) Hash() uint64 {
	var h uint64 = 17
	for _, id := range p {
		h = h*31 + xxhash.Sum64String(string(id))
	}
	return h
}

// Clone returns a copy of p that shares no storage with it.
// Clone of an absent path is absent.
func (p StatePath) Clone() StatePath {
	if p == nil {
		return nil
	}
	return Path(p...)
}

// Append returns a new path with ids appended. p is never aliased.
func (p StatePath) Append(ids ...StateID) StatePath {
	out := make(StatePath, 0, len(p)+len(ids))
	out = append(out, p...)
	return append(out, ids...)
}

// HasPrefix reports whether prefix is a leading sub-sequence of p.
func (p StatePath) HasPrefix(prefix StatePath) bool {
	if len(prefix) > len(p) {
		return false
	}
	return Equal(p[:len(prefix)], prefix)
}

// Leaf returns the last id in the path, or "" for an empty path.
func (p StatePath) Leaf() StateID {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// String renders the path as slash-separated ids. Debug output only.
func (p StatePath) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = string(id)
	}
	return strings.Join(parts, "/")
}

// ParsePath is the inverse of String. An empty string yields an empty path.
func ParsePath(s string) StatePath {
	if s == "" {
		return StatePath{}
	}
	parts := strings.Split(s, "/")
	p := make(StatePath, len(parts))
	for i, part := range parts {
		p[i] = StateID(part)
	}
	return p
}

// PathIndex assigns dense indexes to distinct paths.
//
// Paths are bucketed by Hash and disambiguated with Equal, so colliding
// hashes never merge two distinct paths.
type PathIndex struct {
	buckets map[uint64][]pathEntry
	n       int
}

type pathEntry struct {
	path  StatePath
	index int
}

// NewPathIndex creates an empty index.
func NewPathIndex() *PathIndex {
	return &PathIndex{buckets: make(map[uint64][]pathEntry)}
}

// Add registers path and returns its index. The boolean is false when the
// path was already present, in which case the existing index is returned.
func (x *PathIndex) Add(path StatePath) (int, bool) {
	h := path.Hash()
	for _, e := range x.buckets[h] {
		if Equal(e.path, path) {
			return e.index, false
		}
	}
	idx := x.n
	x.buckets[h] = append(x.buckets[h], pathEntry{path: path.Clone(), index: idx})
	x.n++
	return idx, true
}

// Lookup returns the index registered for path.
func (x *PathIndex) Lookup(path StatePath) (int, bool) {
	for _, e := range x.buckets[path.Hash()] {
		if Equal(e.path, path) {
			return e.index, true
		}
	}
	return 0, false
}

// Len returns the number of distinct paths registered.
func (x *PathIndex) Len() int {
	return x.n
}
