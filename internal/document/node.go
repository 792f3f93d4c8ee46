package document

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the three shapes a decoded YAML value can take, plus null.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindMap
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "mapping"
	case KindSeq:
		return "sequence"
	default:
		return "null"
	}
}

// Entry is one key/value pair of a mapping. KeyNode carries the resolved
// key scalar when the entry was decoded from YAML.
type Entry struct {
	Key     string
	KeyNode *Node
	Value   *Node
}

// KeyScalar returns the key as a scalar node, falling back to a string
// scalar of Key.
func (e Entry) KeyScalar() *Node {
	if e.KeyNode != nil {
		return e.KeyNode
	}
	return String(e.Key)
}

// Node is an immutable, untyped document tree. Mappings keep the order in
// which their keys first appeared in the source document.
//
// Every accessor is nil-safe so rules can chain lookups without checking
// intermediate results.
type Node struct {
	kind    Kind
	tag     string
	value   string
	entries []Entry
	index   map[string]int
	items   []*Node

	// number holds the decoded value of !!int and !!float scalars.
	number any
}

// Scalar builds a scalar node. tag is a short YAML tag such as "!!str".
func Scalar(tag, value string) *Node {
	if tag == "!!null" {
		return &Node{kind: KindNull, tag: tag, value: value}
	}
	return &Node{kind: KindScalar, tag: tag, value: value}
}

// String builds a "!!str" scalar node.
func String(value string) *Node { return Scalar("!!str", value) }

// Null builds a null node.
func Null() *Node { return &Node{kind: KindNull, tag: "!!null"} }

// Map builds a mapping node from ordered entries. A repeated key replaces the
// earlier value but keeps the earlier position.
func Map(entries ...Entry) *Node {
	n := &Node{kind: KindMap, tag: "!!map", index: make(map[string]int, len(entries))}
	for _, e := range entries {
		n.set(e)
	}
	return n
}

// Seq builds a sequence node.
func Seq(items ...*Node) *Node {
	return &Node{kind: KindSeq, tag: "!!seq", items: items}
}

func (n *Node) set(e Entry) {
	if e.Value == nil {
		e.Value = Null()
	}
	if i, ok := n.index[e.Key]; ok {
		n.entries[i].Value = e.Value
		return
	}
	n.index[e.Key] = len(n.entries)
	n.entries = append(n.entries, e)
}

// Kind returns the node kind; a nil node is null.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsNull() bool   { return n.Kind() == KindNull }
func (n *Node) IsScalar() bool { return n.Kind() == KindScalar }
func (n *Node) IsMap() bool    { return n.Kind() == KindMap }
func (n *Node) IsSeq() bool    { return n.Kind() == KindSeq }

// Tag returns the resolved short tag ("!!str", "!!int", "!!map", ...).
func (n *Node) Tag() string {
	if n == nil {
		return "!!null"
	}
	return n.tag
}

// IsString reports whether n is a string scalar.
func (n *Node) IsString() bool { return n.IsScalar() && n.tag == "!!str" }

// Text returns the literal text of a scalar, or "" for any other node.
func (n *Node) Text() string {
	if !n.IsScalar() {
		return ""
	}
	return n.value
}

// Int returns the integer value of a numeric scalar as YAML resolved it, so
// 010 is 8 and 0x10 is 16. Floats are truncated toward zero. A string scalar
// counts when its trimmed text is a plain decimal integer.
func (n *Node) Int() (int, bool) {
	if !n.IsScalar() {
		return 0, false
	}
	switch v := n.number.(type) {
	case int:
		return v, true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		if math.IsNaN(v) || v < math.MinInt || v >= math.MaxInt {
			return 0, false
		}
		return int(math.Trunc(v)), true
	}
	if n.IsString() {
		i, err := strconv.Atoi(strings.TrimSpace(n.value))
		return i, err == nil
	}
	return 0, false
}

// Len returns the number of entries of a mapping, items of a sequence, or
// bytes of a scalar's text.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindMap:
		return len(n.entries)
	case KindSeq:
		return len(n.items)
	case KindScalar:
		return len(n.value)
	}
	return 0
}

// Empty reports whether n is null, a collection without elements, or the
// empty string. Non-string scalars such as 0 or false are not empty.
func (n *Node) Empty() bool {
	switch n.Kind() {
	case KindNull:
		return true
	case KindMap, KindSeq:
		return n.Len() == 0
	}
	return n.IsString() && n.value == ""
}

// Has reports whether a mapping contains key, whatever its value.
func (n *Node) Has(key string) bool {
	if !n.IsMap() {
		return false
	}
	_, ok := n.index[key]
	return ok
}

// Get returns the value stored under key, or nil when n is not a mapping or
// the key is absent. A key present with a null value yields a null node.
func (n *Node) Get(key string) *Node {
	if !n.IsMap() {
		return nil
	}
	i, ok := n.index[key]
	if !ok {
		return nil
	}
	return n.entries[i].Value
}

// Defined reports whether key is present in the mapping, not null, and not
// empty. It is the guard every rule applies before dereferencing a field.
func (n *Node) Defined(key string) bool {
	v := n.Get(key)
	return v != nil && !v.Empty()
}

// Keys returns mapping keys in document order.
func (n *Node) Keys() []string {
	if !n.IsMap() {
		return nil
	}
	out := make([]string, len(n.entries))
	for i, e := range n.entries {
		out[i] = e.Key
	}
	return out
}

// Entries returns mapping entries in document order.
func (n *Node) Entries() []Entry {
	if !n.IsMap() {
		return nil
	}
	out := make([]Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Items returns the elements of a sequence.
func (n *Node) Items() []*Node {
	if !n.IsSeq() {
		return nil
	}
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}
