// Package document decodes untrusted YAML uploads into an ordered, untyped
// tree that rules can walk without type assertions.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var (
	// ErrSyntax is returned when the input is not well-formed YAML.
	ErrSyntax = errors.New("document: syntax error")
	// ErrNotMapping is returned when the input parses but its top level is
	// not a mapping (including an empty document).
	ErrNotMapping = errors.New("document: top level is not a mapping")
)

// Decode parses a single YAML document and returns its root mapping.
func Decode(data []byte) (*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotMapping
		}
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return nil, fmt.Errorf("%w: expected a single document", ErrSyntax)
	}

	b := &builder{seen: make(map[*yaml.Node]*Node)}
	n, err := b.build(&root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if !n.IsMap() {
		return nil, ErrNotMapping
	}
	return n, nil
}

// builder converts yaml.Node trees. Aliases share the converted anchor node.
type builder struct {
	seen map[*yaml.Node]*Node
}

func (b *builder) build(y *yaml.Node) (*Node, error) {
	if y == nil {
		return Null(), nil
	}
	if n, ok := b.seen[y]; ok {
		return n, nil
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Null(), nil
		}
		return b.build(y.Content[0])
	case yaml.AliasNode:
		return b.build(y.Alias)
	case yaml.ScalarNode:
		n := scalar(y)
		b.seen[y] = n
		return n, nil
	case yaml.SequenceNode:
		n := Seq()
		b.seen[y] = n
		for _, c := range y.Content {
			item, err := b.build(c)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}
		return n, nil
	case yaml.MappingNode:
		return b.buildMap(y)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", y.Line, y.Kind)
}

func (b *builder) buildMap(y *yaml.Node) (*Node, error) {
	if len(y.Content)%2 != 0 {
		return nil, fmt.Errorf("line %d: odd number of mapping items", y.Line)
	}
	n := Map()
	b.seen[y] = n

	// Merged entries go first so explicit keys override them.
	var merged, explicit []Entry
	for i := 0; i < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			entries, err := b.mergeEntries(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, entries...)
			continue
		}
		key, err := keyScalar(k)
		if err != nil {
			return nil, err
		}
		val, err := b.build(v)
		if err != nil {
			return nil, err
		}
		explicit = append(explicit, Entry{Key: key.value, KeyNode: key, Value: val})
	}
	for _, e := range merged {
		n.set(e)
	}
	for _, e := range explicit {
		n.set(e)
	}
	return n, nil
}

// mergeEntries resolves the value of a "<<" key. For a sequence of mappings
// earlier mappings take precedence over later ones.
func (b *builder) mergeEntries(v *yaml.Node) ([]Entry, error) {
	src, err := b.build(v)
	if err != nil {
		return nil, err
	}
	switch src.Kind() {
	case KindMap:
		return src.Entries(), nil
	case KindSeq:
		items := src.Items()
		var out []Entry
		for i := len(items) - 1; i >= 0; i-- {
			if !items[i].IsMap() {
				return nil, fmt.Errorf("line %d: merge sequence must contain mappings", v.Line)
			}
			out = append(out, items[i].Entries()...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge value must be a mapping", v.Line)
}

// scalar converts a scalar yaml.Node, keeping the decoded value of numbers.
func scalar(y *yaml.Node) *Node {
	n := Scalar(y.ShortTag(), y.Value)
	switch n.tag {
	case "!!int", "!!float":
		var v any
		if err := y.Decode(&v); err == nil {
			n.number = v
		}
	}
	return n
}

func keyScalar(k *yaml.Node) (*Node, error) {
	for k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
	}
	return scalar(k), nil
}
