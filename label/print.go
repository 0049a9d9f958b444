package label

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes label trees in an indented, PDS-like layout with keys
// sorted at every level.
type Printer struct {
	// Indent is repeated once per nesting level. Defaults to two spaces.
	Indent string

	// Key, when set, decorates every key before it is written.
	Key func(string) string
}

// Fprint writes n to w with the default Printer.
func Fprint(w io.Writer, n Node) error {
	return (&Printer{}).Fprint(w, n)
}

// Fprint writes n to w.
func (p *Printer) Fprint(w io.Writer, n Node) error {
	return p.print(w, n, 0)
}

func (p *Printer) print(w io.Writer, n Node, depth int) error {
	indent := p.Indent
	if indent == "" {
		indent = "  "
	}
	prefix := strings.Repeat(indent, depth)

	for _, k := range n.Keys() {
		name := k
		if p.Key != nil {
			name = p.Key(k)
		}
		switch v := n[k].(type) {
		case Node:
			if _, err := fmt.Fprintf(w, "%s%s:\n", prefix, name); err != nil {
				return err
			}
			if err := p.print(w, v, depth+1); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, "%s%s = %s\n", prefix, name, v); err != nil {
				return err
			}
		}
	}
	return nil
}
