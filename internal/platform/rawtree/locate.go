package rawtree

import (
	"reflect"
	"sort"
	"strings"
)

// The provider relocates the same semantic field across payload revisions, so
// nothing here addresses nodes by path. Every lookup walks the whole graph and
// matches on key names or node shape.
//
// Traversal is iterative depth-first with a visited set keyed by node
// identity, which makes it safe on self-referential graphs and guarantees each
// mapping/sequence node is expanded once. Map keys are walked in sorted order
// so "first match" is deterministic.

type frame struct {
	key string
	val Value
}

// EachEntry invokes visit for every reachable node, passing the map key (or
// containing field for sequence elements) the node hangs under. The root is
// visited with an empty key. Returning true stops the walk.
func EachEntry(root Value, visit func(key string, v Value) bool) {
	if root.Kind() == KindAbsent {
		return
	}

	visited := make(map[uintptr]struct{})
	stack := []frame{{key: "", val: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen := markVisited(visited, top.val); seen {
			continue
		}
		if visit(top.key, top.val) {
			return
		}

		switch top.val.Kind() {
		case KindMap:
			m, _ := top.val.Map()
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, frame{key: keys[i], val: From(m[keys[i]])})
			}
		case KindSeq:
			s, _ := top.val.Seq()
			for i := len(s) - 1; i >= 0; i-- {
				stack = append(stack, frame{key: top.key, val: From(s[i])})
			}
		}
	}
}

// markVisited records container nodes by identity and reports whether the node
// was already expanded. Scalars are never deduplicated.
func markVisited(visited map[uintptr]struct{}, v Value) bool {
	var id uintptr
	switch v.Kind() {
	case KindMap:
		m, _ := v.Map()
		id = reflect.ValueOf(m).Pointer()
	case KindSeq:
		s, _ := v.Seq()
		if len(s) == 0 {
			return false
		}
		id = reflect.ValueOf(s).Pointer()
	default:
		return false
	}

	if _, seen := visited[id]; seen {
		return true
	}
	visited[id] = struct{}{}
	return false
}

// FindEntry returns the first map entry whose key and value satisfy match.
func FindEntry(root Value, match func(key string, v Value) bool) (string, Value, bool) {
	var (
		foundKey string
		foundVal Value
		found    bool
	)
	EachEntry(root, func(key string, v Value) bool {
		if key == "" {
			return false
		}
		if match(key, v) {
			foundKey, foundVal, found = key, v, true
			return true
		}
		return false
	})
	return foundKey, foundVal, found
}

// FindKey returns the first value stored under a key satisfying match.
func FindKey(root Value, match func(key string) bool) (Value, bool) {
	_, v, ok := FindEntry(root, func(key string, _ Value) bool {
		return match(key)
	})
	return v, ok
}

// FindNode returns the first mapping node satisfying pred, wherever it sits.
func FindNode(root Value, pred func(node Value) bool) (Value, bool) {
	var (
		foundVal Value
		found    bool
	)
	EachEntry(root, func(_ string, v Value) bool {
		if v.Kind() != KindMap {
			return false
		}
		if pred(v) {
			foundVal, found = v, true
			return true
		}
		return false
	})
	return foundVal, found
}

// KeyFold reports whether key equals any candidate ignoring case.
func KeyFold(key string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(key, c) {
			return true
		}
	}
	return false
}

// KeySuffixFold reports whether key ends with any candidate ignoring case.
func KeySuffixFold(key string, suffixes ...string) bool {
	lower := strings.ToLower(key)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// SeqOfMaps reports whether v is a non-empty sequence whose elements are all
// mapping nodes, the shape of every provider table we care about.
func SeqOfMaps(v Value) bool {
	s, ok := v.Seq()
	if !ok || len(s) == 0 {
		return false
	}
	for _, item := range s {
		if _, isMap := item.(map[string]any); !isMap {
			return false
		}
	}
	return true
}
