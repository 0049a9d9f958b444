package label

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	endOfHeader  = "END"
	recordMarker = "="
	commentStart = "/*"
	commentEnd   = "*/"
)

// Record is one KEY = VALUE pair of a header, in document order. Key and
// Value carry no surrounding whitespace; a value that spanned several
// lines has its tokens joined by single spaces.
type Record struct {
	Key   string
	Value string
	Line  int // 1-based line of the key token
}

// token is a whitespace-delimited word of the header.
type token struct {
	text string
	line int
}

// Reader turns a PDS header into a sequence of Records. The whole header
// is tokenized on the first call to Next, so no record is produced for a
// source that fails to decode. A Reader is single use.
type Reader struct {
	src     io.Reader
	cfg     config
	diag    *diag
	records []Record
	pos     int
	started bool
	err     error
}

// NewReader creates a Reader for the header at the current position of r.
// The Reader may buffer bytes past the END line; callers that need the
// data following the header must seek r themselves.
func NewReader(r io.Reader, opts ...Option) *Reader {
	return newReader(r, newConfig(opts))
}

func newReader(r io.Reader, cfg config) *Reader {
	return &Reader{
		src:  r,
		cfg:  cfg,
		diag: newDiag(cfg.logger, "reader"),
	}
}

// Next returns the next record. It returns io.EOF once every record has
// been returned.
func (r *Reader) Next() (Record, error) {
	if !r.started {
		r.started = true
		r.err = r.tokenize()
	}
	if r.err != nil {
		return Record{}, r.err
	}
	if r.pos >= len(r.records) {
		return Record{}, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

// ReadAll returns the remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// Warnings returns the diagnostics collected so far.
func (r *Reader) Warnings() []Warning {
	return r.diag.warnings
}

// decoder strips a byte order mark and applies the configured encoding.
func (r *Reader) decoder() io.Reader {
	var t transform.Transformer = transform.Nop
	if r.cfg.encoding != nil {
		t = r.cfg.encoding.NewDecoder()
	}
	return transform.NewReader(r.src, unicode.BOMOverride(t))
}

// tokenize reads the header line by line up to END and assembles records.
func (r *Reader) tokenize() error {
	br := bufio.NewReader(r.decoder())
	var tokens []token
	lineNo := 0

	for {
		raw, err := br.ReadBytes('\n')
		if len(raw) > 0 {
			lineNo++
			done, lerr := r.scanLine(raw, lineNo, &tokens)
			if lerr != nil {
				return lerr
			}
			if done {
				break
			}
		}
		if err == io.EOF {
			r.diag.debug("header ended without END line", "lines", lineNo)
			break
		}
		if err != nil {
			return fmt.Errorf("label: reading line %d: %w", lineNo+1, err)
		}
	}

	r.assemble(tokens)
	r.diag.debug("tokenized header",
		"lines", lineNo,
		"tokens", len(tokens),
		"records", len(r.records))
	return nil
}

// scanLine appends the tokens of one physical line. It reports true when
// the line terminates the header.
func (r *Reader) scanLine(raw []byte, lineNo int, tokens *[]token) (bool, error) {
	if !utf8.Valid(raw) {
		return false, &DecodeError{Line: lineNo}
	}

	line := strings.TrimSpace(string(raw))
	switch {
	case line == "":
		return false, nil
	case strings.HasPrefix(line, commentStart):
		if !strings.Contains(line, commentEnd) {
			r.diag.warn(lineNo, "", "possible multi-line comment")
		}
		return false, nil
	case line == endOfHeader:
		return true, nil
	}

	for _, f := range strings.Fields(line) {
		*tokens = append(*tokens, token{text: f, line: lineNo})
	}
	return false, nil
}

// assemble locates every "=" marker and builds the records around them.
// A value runs from the token after its marker up to, but excluding, the
// key token of the next record. The last value runs to the end.
func (r *Reader) assemble(tokens []token) {
	var marks []int
	for i, t := range tokens {
		if t.text == recordMarker {
			marks = append(marks, i)
		}
	}

	if len(marks) > 0 && marks[0] > 1 {
		r.diag.debug("ignoring tokens before first record", "count", marks[0]-1)
	}

	r.records = make([]Record, 0, len(marks))
	for i, m := range marks {
		if m == 0 || tokens[m-1].text == recordMarker {
			r.diag.warn(tokens[m].line, "", "record marker without a key")
			continue
		}

		start, end := m+1, len(tokens)
		if i+1 < len(marks) {
			end = marks[i+1] - 1
		}
		if start > end {
			start = end
		}

		words := make([]string, 0, end-start)
		for _, t := range tokens[start:end] {
			words = append(words, t.text)
		}

		key := tokens[m-1]
		r.records = append(r.records, Record{
			Key:   key.text,
			Value: strings.Join(words, " "),
			Line:  key.line,
		})
	}
}
