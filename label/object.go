package label

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the kind of a label value.
type Kind int

const (
	KindText Kind = iota // leaf value
	KindNode             // OBJECT or GROUP container
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNode:
		return "Node"
	default:
		return "Unknown"
	}
}

// Value is a label value: either a leaf [Text] or a nested [Node].
type Value interface {
	Kind() Kind
	String() string
}

// Text is a leaf label value as it appeared in the header, with multi-line
// values joined by single spaces. No type conversion is applied.
type Text string

func (t Text) Kind() Kind     { return KindText }
func (t Text) String() string { return string(t) }

// Node maps label keys to values. Nested containers are stored as Nodes.
type Node map[string]Value

func (n Node) Kind() Kind { return KindNode }

// String returns a compact single-line representation with sorted keys.
func (n Node) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range n.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		switch v := n[k].(type) {
		case Text:
			b.WriteString(strconv.Quote(string(v)))
		default:
			b.WriteString(v.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Get returns the value stored at key, or nil.
func (n Node) Get(key string) Value {
	return n[key]
}

// GetText returns the leaf value stored at key.
func (n Node) GetText(key string) (string, bool) {
	if t, ok := n[key].(Text); ok {
		return string(t), true
	}
	return "", false
}

// GetNode returns the container stored at key.
func (n Node) GetNode(key string) (Node, bool) {
	child, ok := n[key].(Node)
	return child, ok
}

// Has reports whether key is present at this level.
func (n Node) Has(key string) bool {
	_, ok := n[key]
	return ok
}

// Set stores a value at key, replacing any previous value.
func (n Node) Set(key string, value Value) {
	n[key] = value
}

// Len returns the number of labels at this level.
func (n Node) Len() int {
	return len(n)
}

// Keys returns the keys at this level in sorted order.
func (n Node) Keys() []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves a dotted path such as "IMAGE.LINES". Each element but the
// last must name a container. Keys containing dots cannot be reached this
// way; use Get on the enclosing node instead.
func (n Node) Lookup(path string) (Value, bool) {
	parts := strings.Split(path, ".")
	cur := n
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		cur, ok = v.(Node)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// LookupText resolves a dotted path to a leaf value.
func (n Node) LookupText(path string) (string, bool) {
	v, ok := n.Lookup(path)
	if !ok {
		return "", false
	}
	t, ok := v.(Text)
	return string(t), ok
}

// Int resolves a dotted path and parses the leaf value as a base-10
// integer. A missing label, a container, or a non-integer value yields a
// *ConversionError.
func (n Node) Int(path string) (int64, error) {
	v, ok := n.Lookup(path)
	if !ok {
		return 0, &ConversionError{Key: path, Err: ErrMissing}
	}
	t, ok := v.(Text)
	if !ok {
		return 0, &ConversionError{Key: path, Value: v.String(), Err: fmt.Errorf("label is a %s", v.Kind())}
	}
	i, err := strconv.ParseInt(string(t), 10, 64)
	if err != nil {
		return 0, &ConversionError{Key: path, Value: string(t), Err: err}
	}
	return i, nil
}
