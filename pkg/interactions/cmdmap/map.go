package cmdmap

import (
	"github.com/cenngo/interactions/pkg/interactions/errors"
)

// Capture is one named regex capture produced by a wildcard match.
type Capture struct {
	Name  string
	Value string
}

// Match is the result of a successful Lookup.
type Match[T any] struct {
	Value    T
	Captures []Capture
}

// Map is a named, concurrent trie from slash-word or custom-id segments to
// leaves of type T. SlashMap and InteractionMap are both instances of Map
// configured with different split functions (see SplitWords and
// SplitCustomID).
type Map[T any] struct {
	root   *Node[T]
	syntax WildcardSyntax
}

// New creates an empty Map using the given wildcard syntax for compiling
// wildcard leaf patterns.
func New[T any](syntax WildcardSyntax) *Map[T] {
	return &Map[T]{root: NewNode[T](""), syntax: syntax}
}

// Root returns the map's root node, primarily for introspection/Stats.
func (m *Map[T]) Root() *Node[T] {
	return m.root
}

// supportsWildcards is implemented by leaf values that opt in to wildcard
// compilation for their final path segment.
type supportsWildcards interface {
	SupportsWildcardRouting() bool
}

// Insert walks/creates nodes along path[0 : len(path)-1] and inserts value
// at the final segment. If value implements supportsWildcards and reports
// true, and the final segment contains wildcard syntax, the segment is
// compiled to an anchored regex and appended to the node's wildcard
// bucket; a normalized-pattern collision with an already-inserted
// wildcard leaf is rejected with KindDuplicateCommand, matching spec.md
// §8 scenario 4. Otherwise the value is inserted as an exact leaf; an
// existing exact leaf at the same key is also rejected.
func Insert[T any](m *Map[T], path []string, value T) error {
	if len(path) == 0 {
		return errors.ParseFailed("cannot insert at empty path")
	}

	parent := m.root.Descend(path[:len(path)-1])
	last := path[len(path)-1]

	wantsWildcard := false
	if sw, ok := any(value).(supportsWildcards); ok {
		wantsWildcard = sw.SupportsWildcardRouting()
	}

	if wantsWildcard && HasWildcard(last, m.syntax) {
		re, names, err := Compile(last, m.syntax)
		if err != nil {
			return errors.ParseFailed(err.Error())
		}
		normalized := NormalizedKey(last, m.syntax)

		parent.mu.Lock()
		defer parent.mu.Unlock()
		for _, existing := range parent.wildcard {
			if NormalizedKey(existing.RawPattern, m.syntax) == normalized {
				return errors.DuplicateCommand("duplicate wildcard pattern at this node: " + last)
			}
		}
		leaf := &Leaf[T]{Value: value, Pattern: re, Names: names, RawPattern: last, insertOrder: parent.nextOrder}
		parent.nextOrder++
		parent.wildcard = append(parent.wildcard, leaf)
		return nil
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()
	if _, exists := parent.exact[last]; exists {
		return errors.DuplicateCommand("duplicate command at path: " + last)
	}
	parent.exact[last] = &Leaf[T]{Value: value}
	return nil
}

// Lookup descends along path; at the final segment it prefers an exact
// match, falling back to the first wildcard leaf (in insertion order)
// whose pattern matches the entire segment.
func Lookup[T any](m *Map[T], path []string) (Match[T], bool) {
	var zero Match[T]
	if len(path) == 0 {
		return zero, false
	}

	node, ok := m.root.Walk(path[:len(path)-1])
	if !ok {
		return zero, false
	}
	last := path[len(path)-1]

	node.mu.RLock()
	defer node.mu.RUnlock()

	if leaf, exists := node.exact[last]; exists {
		return Match[T]{Value: leaf.Value}, true
	}

	for _, leaf := range node.wildcard {
		sub := leaf.Pattern.FindStringSubmatch(last)
		if sub == nil {
			continue
		}
		captures := make([]Capture, 0, len(leaf.Names))
		for _, name := range leaf.Names {
			idx := leaf.Pattern.SubexpIndex(name)
			if idx >= 0 && idx < len(sub) {
				captures = append(captures, Capture{Name: name, Value: sub[idx]})
			}
		}
		return Match[T]{Value: leaf.Value, Captures: captures}, true
	}

	return zero, false
}

// Remove deletes the exact or wildcard leaf at path's final segment. It
// never reclaims now-empty intermediate nodes (bounded by the total
// command count ever registered, per spec.md §4.2).
func Remove[T any](m *Map[T], path []string) bool {
	if len(path) == 0 {
		return false
	}
	node, ok := m.root.Walk(path[:len(path)-1])
	if !ok {
		return false
	}
	last := path[len(path)-1]

	node.mu.Lock()
	defer node.mu.Unlock()

	if _, exists := node.exact[last]; exists {
		delete(node.exact, last)
		return true
	}

	normalized := NormalizedKey(last, m.syntax)
	for i, leaf := range node.wildcard {
		if NormalizedKey(leaf.RawPattern, m.syntax) == normalized {
			node.wildcard = append(node.wildcard[:i], node.wildcard[i+1:]...)
			return true
		}
	}
	return false
}
