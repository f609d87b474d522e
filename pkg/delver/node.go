// Package delver resolves delimited field paths against JSON-shaped value
// trees. When a path meets an array partway through, the remaining path is
// broadcast across every element, so one logical path can yield a nested
// sequence of results whose depth mirrors the array nesting it crossed.
package delver

import "sort"

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindAbsent marks a missing value (an unresolved branch or a key that
	// was never present). The zero Node is absent.
	KindAbsent Kind = iota
	// KindScalar holds a string, number, bool, or null.
	KindScalar
	// KindObject holds string-keyed children.
	KindObject
	// KindArray holds an ordered sequence of children.
	KindArray
)

// Node is a tagged variant over the shapes a JSON-compatible value can take.
// Shape is discovered at traversal time; there is no schema. Nodes are
// immutable once built.
type Node struct {
	kind   Kind
	scalar any
	object map[string]Node
	array  []Node
}

// Absent returns the absent Node. Equivalent to the zero value.
func Absent() Node {
	return Node{}
}

// Null returns a scalar Node holding null. Null is a value (unlike absent),
// though a falsy one.
func Null() Node {
	return Node{kind: KindScalar}
}

// Scalar wraps a scalar value. A nil argument yields null.
func Scalar(v any) Node {
	return Node{kind: KindScalar, scalar: v}
}

// Object wraps string-keyed children. The map is used as-is; callers must not
// mutate it afterwards.
func Object(children map[string]Node) Node {
	return Node{kind: KindObject, object: children}
}

// Array wraps an ordered sequence of children. The slice is used as-is;
// callers must not mutate it afterwards.
func Array(elems ...Node) Node {
	return Node{kind: KindArray, array: elems}
}

// FromValue converts an arbitrary decoded tree (the map[string]any / []any
// shapes produced by encoding/json, yaml.v3, and go-toml) into a Node.
// Unrecognized types are treated as scalars.
func FromValue(v any) Node {
	switch t := v.(type) {
	case nil:
		return Null()
	case Node:
		return t
	case map[string]any:
		children := make(map[string]Node, len(t))
		for k, cv := range t {
			children[k] = FromValue(cv)
		}
		return Object(children)
	case map[any]any:
		// Older YAML decoders key maps with any; only string keys are
		// addressable by a path segment, so coerce where possible.
		children := make(map[string]Node, len(t))
		for k, cv := range t {
			if ks, ok := k.(string); ok {
				children[ks] = FromValue(cv)
			}
		}
		return Object(children)
	case []any:
		elems := make([]Node, len(t))
		for i, ev := range t {
			elems[i] = FromValue(ev)
		}
		return Node{kind: KindArray, array: elems}
	default:
		return Scalar(v)
	}
}

// FromValues converts a slice of decoded records into Nodes, preserving order.
func FromValues(vs []any) []Node {
	nodes := make([]Node, len(vs))
	for i, v := range vs {
		nodes[i] = FromValue(v)
	}
	return nodes
}

// Kind reports the shape of the node.
func (n Node) Kind() Kind {
	return n.kind
}

// IsAbsent reports whether the node stands for a missing value.
func (n Node) IsAbsent() bool {
	return n.kind == KindAbsent
}

// Field returns the child stored under key and whether the key exists.
// Non-object nodes have no fields.
func (n Node) Field(key string) (Node, bool) {
	if n.kind != KindObject {
		return Node{}, false
	}
	child, ok := n.object[key]
	return child, ok
}

// Keys returns the sorted field names of an object node.
func (n Node) Keys() []string {
	if n.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(n.object))
	for k := range n.object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the element count of an array node, 0 otherwise.
func (n Node) Len() int {
	if n.kind != KindArray {
		return 0
	}
	return len(n.array)
}

// Elems returns the elements of an array node. The returned slice must not
// be mutated.
func (n Node) Elems() []Node {
	if n.kind != KindArray {
		return nil
	}
	return n.array
}

// Interface converts the node back into plain Go values: map[string]any for
// objects, []any for arrays, the held value for scalars, and nil for both
// null and absent. Callers that need to tell null from absent should check
// IsAbsent first.
func (n Node) Interface() any {
	switch n.kind {
	case KindObject:
		out := make(map[string]any, len(n.object))
		for k, child := range n.object {
			out[k] = child.Interface()
		}
		return out
	case KindArray:
		out := make([]any, len(n.array))
		for i, elem := range n.array {
			out[i] = elem.Interface()
		}
		return out
	case KindScalar:
		return n.scalar
	default:
		return nil
	}
}

// truthy implements the loose-presence rule: absent, null, false, empty
// string, and numeric zero all count as "not there". Objects and arrays are
// always truthy, even when empty.
func (n Node) truthy() bool {
	switch n.kind {
	case KindObject, KindArray:
		return true
	case KindScalar:
		switch v := n.scalar.(type) {
		case nil:
			return false
		case bool:
			return v
		case string:
			return v != ""
		case int:
			return v != 0
		case int64:
			return v != 0
		case uint64:
			return v != 0
		case float64:
			return v != 0
		case float32:
			return v != 0
		default:
			return true
		}
	default:
		return false
	}
}
