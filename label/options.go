package label

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Option configures a Reader or Parser.
type Option func(*config)

type config struct {
	logger           *slog.Logger
	encoding         encoding.Encoding
	rejectDuplicates bool
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger routes debug traces and warnings to l. A nil logger disables
// logging, which is the default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithEncoding decodes the header with enc before tokenizing. Without it
// the header must be UTF-8 (which includes plain ASCII).
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *config) { c.encoding = enc }
}

// RejectDuplicateKeys makes the Parser fail with a *StructuralError when a
// key repeats within one container. By default the last value wins and a
// warning is recorded.
func RejectDuplicateKeys() Option {
	return func(c *config) { c.rejectDuplicates = true }
}

// LookupEncoding returns the encoding registered under a charset name such
// as "latin1" or "windows-1252".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	return enc, nil
}

// Warning is a non-fatal diagnostic found while reading or parsing.
type Warning struct {
	Line    int // 1-based physical line, 0 when unknown
	Key     string
	Message string
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", w.Line)
	}
	if w.Key != "" {
		b.WriteString(w.Key)
		b.WriteString(": ")
	}
	b.WriteString(w.Message)
	return b.String()
}

// FormatWarnings joins warnings into one message, one per line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}

// diag collects warnings and forwards them, with debug traces, to an
// optional logger.
type diag struct {
	logger   *slog.Logger
	warnings []Warning
}

func newDiag(l *slog.Logger, component string) *diag {
	if l != nil {
		l = l.With(slog.String("component", component))
	}
	return &diag{logger: l}
}

func (d *diag) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
	}
}

func (d *diag) warn(line int, key, format string, args ...any) {
	w := Warning{Line: line, Key: key, Message: fmt.Sprintf(format, args...)}
	d.warnings = append(d.warnings, w)
	if d.logger != nil {
		d.logger.Warn(w.Message, slog.Int("line", line), slog.String("key", key))
	}
}
