package label

import (
	"fmt"
	"io"
	"strings"
)

// containers maps each container start keyword to its end keyword.
var containers = map[string]string{
	"OBJECT": "END_OBJECT",
	"GROUP":  "END_GROUP",
}

const reservedEndPrefix = "END_"

func isContainerEnd(key string) bool {
	return key == "END_OBJECT" || key == "END_GROUP"
}

// RecordSource yields records in document order and io.EOF when done.
// *Reader satisfies it.
type RecordSource interface {
	Next() (Record, error)
}

// pending is a container that has been opened but not yet closed.
type pending struct {
	end    string // expected end keyword
	name   string // value of the start record
	line   int
	parent Node
}

// Parser builds label trees. A Parser holds only configuration, so one
// instance may parse any number of headers, including concurrently.
type Parser struct {
	cfg config
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	return &Parser{cfg: newConfig(opts)}
}

// Parse reads the header at the current position of r and returns its
// label tree together with any warnings. No tree is returned on error.
func (p *Parser) Parse(r io.Reader) (Node, []Warning, error) {
	rd := newReader(r, p.cfg)
	root, warnings, err := p.BuildFrom(rd)
	return root, append(rd.Warnings(), warnings...), err
}

// Build assembles a label tree from records already in memory.
func (p *Parser) Build(records []Record) (Node, []Warning, error) {
	return p.BuildFrom(&sliceSource{records: records})
}

// BuildFrom assembles a label tree from src in a single pass. Containers
// are tracked on an explicit stack, so nesting depth is bounded only by
// memory.
func (p *Parser) BuildFrom(src RecordSource) (Node, []Warning, error) {
	d := newDiag(p.cfg.logger, "parser")
	root := Node{}
	current := root
	var stack []pending

	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, d.warnings, err
		}

		k, v := rec.Key, rec.Value
		if k == "" {
			return nil, d.warnings, &StructuralError{Line: rec.Line, Value: v, Msg: "record has an empty key"}
		}
		if k != strings.TrimSpace(k) || v != strings.TrimSpace(v) {
			return nil, d.warnings, &StructuralError{
				Line:  rec.Line,
				Key:   k,
				Value: v,
				Msg:   fmt.Sprintf("extraneous whitespace in record %q = %q", k, v),
			}
		}

		if end, ok := containers[k]; ok {
			stack = append(stack, pending{end: end, name: v, line: rec.Line, parent: current})
			current = Node{}
			continue
		}

		if isContainerEnd(k) {
			if len(stack) == 0 {
				d.warn(rec.Line, k, "%s = %s closes nothing", k, v)
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.end != k {
				d.warn(rec.Line, k, "%s closes %s opened at line %d",
					k, strings.TrimPrefix(top.end, reservedEndPrefix), top.line)
			}
			if top.name != v {
				d.warn(rec.Line, k, "container opened as %q is stored as %q", top.name, v)
			}
			if err := p.assign(d, top.parent, rec, current); err != nil {
				return nil, d.warnings, err
			}
			current = top.parent
			continue
		}

		if strings.HasPrefix(k, reservedEndPrefix) {
			return nil, d.warnings, &StructuralError{
				Line: rec.Line,
				Key:  k,
				Msg:  fmt.Sprintf("unsupported nesting keyword %s", k),
			}
		}
		if err := p.assign(d, current, rec, Text(v)); err != nil {
			return nil, d.warnings, err
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, d.warnings, &StructuralError{
			Line:  top.line,
			Key:   strings.TrimPrefix(top.end, reservedEndPrefix),
			Value: top.name,
			Msg: fmt.Sprintf("%d unclosed container(s), innermost %s = %s",
				len(stack), strings.TrimPrefix(top.end, reservedEndPrefix), top.name),
		}
	}

	d.debug("parsed header", "labels", len(root))
	return root, d.warnings, nil
}

// assign stores value in n under the key the record names: the record key
// for leaves, the record value for closed containers.
func (p *Parser) assign(d *diag, n Node, rec Record, value Value) error {
	key := rec.Key
	if value.Kind() == KindNode {
		key = rec.Value
	}
	if n.Has(key) {
		if p.cfg.rejectDuplicates {
			return &StructuralError{Line: rec.Line, Key: key, Msg: fmt.Sprintf("duplicate key %s", key)}
		}
		d.warn(rec.Line, key, "duplicate key, previous value replaced")
	}
	n.Set(key, value)
	return nil
}

type sliceSource struct {
	records []Record
	pos     int
}

func (s *sliceSource) Next() (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}
