package pds

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/encoding"

	"github.com/tsawler/pds/extract"
	"github.com/tsawler/pds/format"
	"github.com/tsawler/pds/label"
)

// ErrSize reports a product whose length disagrees with its label.
var ErrSize = errors.New("product size mismatch")

// SizeError is returned by Validate when the product is not exactly
// FILE_RECORDS * RECORD_BYTES long.
type SizeError struct {
	Expected int64
	Actual   int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("product is %d bytes, labels declare %d", e.Actual, e.Expected)
}

// Is reports whether target is ErrSize.
func (e *SizeError) Is(target error) bool { return target == ErrSize }

// Extractor provides a fluent interface for reading PDS products.
// Each configuration method returns a new Extractor instance, so chains
// may branch from a shared base. Terminal operations open, rewind and
// close the source through the receiver and must not run concurrently on
// one Extractor; give each goroutine its own, as ExtractFiles does.
type Extractor struct {
	// Source
	filename string
	src      io.ReadSeeker
	start    int64

	// Lifecycle
	file       *os.File // set when the Extractor opened filename itself
	ownsSource bool
	opened     bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated while opening the source
	warnings []label.Warning
}

// clone creates a shallow copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:   e.filename,
		src:        e.src,
		start:      e.start,
		file:       e.file,
		ownsSource: e.ownsSource,
		opened:     e.opened,
		options:    e.options.clone(),
		err:        e.err,
		warnings:   append([]label.Warning(nil), e.warnings...),
	}
}

// ensureSource opens the product if not already open and rewinds it to the
// start of the header.
func (e *Extractor) ensureSource() error {
	if !e.opened {
		if err := e.open(); err != nil {
			return err
		}
	}
	if _, err := e.src.Seek(e.start, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding source: %w", err)
	}
	return nil
}

func (e *Extractor) open() error {
	if e.src != nil {
		pos, err := e.src.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("locating header: %w", err)
		}
		e.start = pos
		e.opened = true
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	f, err := os.Open(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open product: %w", err)
	}
	e.warnings = nil
	kind, err := format.DetectFromReader(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to read product: %w", err)
	}
	if kind == format.Unknown {
		e.warnings = append(e.warnings, label.Warning{
			Message: fmt.Sprintf("%s does not start with a PDS label", e.filename),
		})
	}
	e.file = f
	e.src = f
	e.start = 0
	e.ownsSource = true
	e.opened = true
	return nil
}

// Close releases the file opened by the Extractor, if any.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsSource && e.file != nil {
		err := e.file.Close()
		e.file = nil
		e.src = nil
		e.ownsSource = false
		e.opened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithLogger routes debug traces and suppressed failures to l.
//
// Example:
//
//	res, err := pds.Open("FRAME.IMG").WithLogger(slog.Default()).Image()
func (e *Extractor) WithLogger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// WithEncoding decodes the label header with enc instead of UTF-8.
func (e *Extractor) WithEncoding(enc encoding.Encoding) *Extractor {
	newExt := e.clone()
	newExt.options.encoding = enc
	return newExt
}

// Charset decodes the label header with the encoding registered under
// name, such as "latin1" or "windows-1252". An unknown name fails every
// terminal operation.
//
// Example:
//
//	labels, _, err := pds.Open("OLD.LBL").Charset("latin1").Labels()
func (e *Extractor) Charset(name string) *Extractor {
	newExt := e.clone()
	enc, err := label.LookupEncoding(name)
	if err != nil {
		if newExt.err == nil {
			newExt.err = err
		}
		return newExt
	}
	newExt.options.encoding = enc
	return newExt
}

// IgnoreUnsupported makes Image return a Result without an image, instead
// of an error, when the product holds no supported image.
func (e *Extractor) IgnoreUnsupported() *Extractor {
	newExt := e.clone()
	newExt.options.ignoreUnsupported = true
	return newExt
}

// IgnoreChecksum makes Image return a Result without an image, instead of
// an error, when the samples do not match MD5_CHECKSUM.
func (e *Extractor) IgnoreChecksum() *Extractor {
	newExt := e.clone()
	newExt.options.ignoreChecksum = true
	return newExt
}

// RejectDuplicateKeys makes a repeated key within one object a structural
// error instead of a warning.
func (e *Extractor) RejectDuplicateKeys() *Extractor {
	newExt := e.clone()
	newExt.options.rejectDuplicates = true
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Labels parses the label header.
//
// Example:
//
//	labels, warnings, err := pds.Open("FRAME.IMG").Labels()
func (e *Extractor) Labels() (label.Node, []label.Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	defer e.Close()

	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	labels, warnings, err := label.NewParser(e.options.labelOptions()...).Parse(e.src)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing labels: %w", err)
	}
	return labels, append(append([]label.Warning(nil), e.warnings...), warnings...), nil
}

// Image extracts the image of the product. Failures the Extractor was told
// to ignore leave Result.Image nil and are listed in Result.Suppressed.
//
// Example:
//
//	res, err := pds.Open("FRAME.IMG").Image()
//	if err == nil && res.Image != nil {
//	    err = res.Image.Encode(w, extract.PNG)
//	}
func (e *Extractor) Image() (*extract.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	defer e.Close()

	if err := e.ensureSource(); err != nil {
		return nil, err
	}
	res, err := extract.NewImageExtractor(e.options.extractConfig()).ExtractImage(e.src)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(append([]label.Warning(nil), e.warnings...), res.Warnings...)
	return res, nil
}

// Validate checks that the product is exactly FILE_RECORDS * RECORD_BYTES
// bytes long.
func (e *Extractor) Validate() error {
	if e.err != nil {
		return e.err
	}
	defer e.Close()

	if err := e.ensureSource(); err != nil {
		return err
	}
	labels, _, err := label.NewParser(e.options.labelOptions()...).Parse(e.src)
	if err != nil {
		return fmt.Errorf("parsing labels: %w", err)
	}
	records, err := labels.Int(extract.LabelFileRecords)
	if err != nil {
		return err
	}
	recordBytes, err := labels.Int(extract.LabelRecordBytes)
	if err != nil {
		return err
	}

	end, err := e.src.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("measuring product: %w", err)
	}
	expected := records * recordBytes
	if actual := end - e.start; actual != expected {
		return &SizeError{Expected: expected, Actual: actual}
	}
	return nil
}
