package extract

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/pds/label"
)

// Labels interpreted by the image extractor.
const (
	LabelRecordType  = "RECORD_TYPE"
	LabelRecordBytes = "RECORD_BYTES"
	LabelFileRecords = "FILE_RECORDS"
	LabelImage       = "IMAGE"
	LabelPointer     = "^IMAGE"
	LabelLineSamples = "IMAGE.LINE_SAMPLES"
	LabelLines       = "IMAGE.LINES"
	LabelSampleBits  = "IMAGE.SAMPLE_BITS"
	LabelSampleType  = "IMAGE.SAMPLE_TYPE"
	LabelChecksum    = "IMAGE.MD5_CHECKSUM"
)

const (
	supportedRecordType = "FIXED_LENGTH"
	supportedSampleBits = 8
	bytesUnit           = "<BYTES>"
)

var supportedSampleTypes = map[string]bool{
	"UNSIGNED_INTEGER":     true,
	"MSB_UNSIGNED_INTEGER": true,
	"LSB_INTEGER":          true,
}

// Artifact is a payload extracted from a product.
type Artifact interface {
	// Object returns the name of the label object describing the payload.
	Object() string
}

// Extractor extracts one kind of payload from a PDS product.
type Extractor interface {
	Extract(src io.ReadSeeker) (Artifact, label.Node, error)
}

// Result is the outcome of an image extraction.
type Result struct {
	// Image is nil when the product carries no supported image or when a
	// failure was suppressed by the Config.
	Image *Image

	Labels   label.Node
	Warnings []label.Warning

	// Suppressed holds the failures that Config turned into a nil Image.
	Suppressed []error
}

// ImageExtractor extracts single-band 8-bit images. It holds no per-file
// state and may be shared between goroutines.
type ImageExtractor struct {
	cfg    Config
	parser *label.Parser
	logger *slog.Logger
}

var _ Extractor = (*ImageExtractor)(nil)

// NewImageExtractor creates an ImageExtractor.
func NewImageExtractor(cfg Config) *ImageExtractor {
	logger := cfg.Logger
	if logger != nil {
		logger = logger.With(slog.String("component", "extract"))
	}
	parser := cfg.Parser
	if parser == nil {
		parser = label.NewParser(label.WithLogger(cfg.Logger))
	}
	return &ImageExtractor{cfg: cfg, parser: parser, logger: logger}
}

// Extract implements Extractor. The Artifact is nil when no image was
// extracted.
func (e *ImageExtractor) Extract(src io.ReadSeeker) (Artifact, label.Node, error) {
	res, err := e.ExtractImage(src)
	if err != nil {
		return nil, nil, err
	}
	if res.Image == nil {
		return nil, res.Labels, nil
	}
	return res.Image, res.Labels, nil
}

// ExtractImage parses the header at the current position of src and
// extracts the image it describes. On return src is positioned after the
// image samples; closing it is left to the caller.
func (e *ImageExtractor) ExtractImage(src io.ReadSeeker) (*Result, error) {
	labels, warnings, err := e.parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing labels: %w", err)
	}
	e.debug("parsed labels", "labels", labels.Len(), "warnings", len(warnings))

	res, err := e.FromLabels(labels, src)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// FromLabels extracts the image described by labels from src. labels is
// only read.
func (e *ImageExtractor) FromLabels(labels label.Node, src io.ReadSeeker) (*Result, error) {
	res := &Result{Labels: labels}

	if unsupported := CheckSupport(labels); len(unsupported) > 0 {
		if e.cfg.RaiseNotSupported {
			return nil, unsupported[0]
		}
		e.suppress(res, unsupported...)
		return res, nil
	}
	e.debug("image is supported")

	width, height, err := Dimensions(labels)
	if err != nil {
		return nil, err
	}
	offset, err := Offset(labels)
	if err != nil {
		return nil, err
	}
	expected, verify := Checksum(labels)
	e.debug("resolved image", "width", width, "height", height, "offset", offset, "md5", expected)

	data, err := readSamples(src, offset, int64(width)*int64(height))
	if err != nil {
		return nil, err
	}

	if verify {
		sum := md5.Sum(data)
		actual := hex.EncodeToString(sum[:])
		if actual != expected {
			cerr := &ChecksumError{Expected: expected, Actual: actual}
			if e.cfg.RaiseChecksum {
				return nil, cerr
			}
			e.suppress(res, cerr)
			return res, nil
		}
		e.debug("checksum verified")
	}

	sampleType, _ := labels.LookupText(LabelSampleType)
	res.Image = newImage(data, width, height)
	res.Image.SampleType = sampleType
	res.Image.Offset = offset
	if verify {
		res.Image.Checksum = expected
	}
	return res, nil
}

func (e *ImageExtractor) suppress(res *Result, errs ...error) {
	for _, err := range errs {
		res.Suppressed = append(res.Suppressed, err)
		res.Warnings = append(res.Warnings, label.Warning{Message: err.Error()})
		if e.logger != nil {
			e.logger.Warn("image not extracted", slog.String("reason", err.Error()))
		}
	}
}

func (e *ImageExtractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
	}
}

// CheckSupport returns one *NotSupportedError per unmet requirement, or
// nil when the image can be extracted. A SAMPLE_BITS value that is not an
// integer counts as unsupported rather than as a conversion failure.
func CheckSupport(labels label.Node) []error {
	var errs []error

	recordType, ok := labels.GetText(LabelRecordType)
	if !ok || recordType != supportedRecordType {
		errs = append(errs, &NotSupportedError{Label: LabelRecordType, Value: recordType})
	}

	image, ok := labels.GetNode(LabelImage)
	if !ok {
		return append(errs, &NotSupportedError{Label: LabelImage})
	}

	bits, _ := image.GetText("SAMPLE_BITS")
	if n, err := strconv.Atoi(bits); err != nil || n != supportedSampleBits {
		errs = append(errs, &NotSupportedError{Label: LabelSampleBits, Value: bits})
	}

	sampleType, _ := image.GetText("SAMPLE_TYPE")
	if !supportedSampleTypes[sampleType] {
		errs = append(errs, &NotSupportedError{Label: LabelSampleType, Value: sampleType})
	}

	return errs
}

// Dimensions returns the image width (LINE_SAMPLES) and height (LINES).
func Dimensions(labels label.Node) (width, height int, err error) {
	w, err := dimension(labels, LabelLineSamples)
	if err != nil {
		return 0, 0, err
	}
	h, err := dimension(labels, LabelLines)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func dimension(labels label.Node, path string) (int, error) {
	v, err := labels.Int(path)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > math.MaxInt32 {
		s, _ := labels.LookupText(path)
		return 0, &label.ConversionError{Key: path, Value: s, Err: errors.New("out of range")}
	}
	return int(v), nil
}

// Offset resolves the ^IMAGE pointer to an absolute byte offset. A single
// value is a 1-based record number; a value with <BYTES> units is already
// a byte offset.
func Offset(labels label.Node) (int64, error) {
	pointer, ok := labels.GetText(LabelPointer)
	if !ok {
		return 0, &PointerFormatError{Pointer: LabelPointer, Msg: "pointer not found"}
	}

	var offset int64
	fields := strings.Fields(trimQuotes(pointer))
	switch len(fields) {
	case 1:
		record, err := parsePointerValue(fields[0])
		if err != nil {
			return 0, err
		}
		if record < 1 {
			return 0, &PointerFormatError{Pointer: LabelPointer, Value: pointer, Msg: "record numbers start at 1"}
		}
		recordBytes, err := labels.Int(LabelRecordBytes)
		if err != nil {
			return 0, err
		}
		if recordBytes <= 0 {
			s, _ := labels.GetText(LabelRecordBytes)
			return 0, &label.ConversionError{Key: LabelRecordBytes, Value: s, Err: errors.New("must be positive")}
		}
		if record-1 > math.MaxInt64/recordBytes {
			return 0, &PointerFormatError{Pointer: LabelPointer, Value: pointer, Msg: "offset overflows"}
		}
		offset = (record - 1) * recordBytes
	case 2:
		if fields[1] != bytesUnit {
			return 0, &PointerFormatError{
				Pointer: LabelPointer,
				Value:   pointer,
				Msg:     fmt.Sprintf("expected %s units but found %s", bytesUnit, fields[1]),
			}
		}
		b, err := parsePointerValue(fields[0])
		if err != nil {
			return 0, err
		}
		offset = b
	default:
		return 0, &PointerFormatError{
			Pointer: LabelPointer,
			Value:   pointer,
			Msg:     "expected a record number or a byte offset",
		}
	}

	if offset < 0 {
		return 0, &PointerFormatError{Pointer: LabelPointer, Value: pointer, Msg: "resolves before start of file"}
	}
	return offset, nil
}

// trimQuotes removes one pair of surrounding double quotes.
func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parsePointerValue(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &label.ConversionError{Key: LabelPointer, Value: s, Err: err}
	}
	return n, nil
}

// Checksum returns the expected MD5 digest of the samples. The label value
// is quoted, so one character is dropped from each end. ok is false when
// the label carries no checksum.
func Checksum(labels label.Node) (digest string, ok bool) {
	v, ok := labels.LookupText(LabelChecksum)
	if !ok {
		return "", false
	}
	if len(v) < 2 {
		return "", true
	}
	return v[1 : len(v)-1], true
}

// readSamples reads n bytes at offset. The source size is checked first so
// that a corrupt label cannot force a huge allocation.
func readSamples(src io.ReadSeeker, offset, n int64) ([]byte, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("finding end of data: %w", err)
	}
	if offset > size || n > size-offset {
		return nil, fmt.Errorf("image of %d bytes at offset %d extends past end of data (%d bytes): %w",
			n, offset, size, io.ErrUnexpectedEOF)
	}
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to image at offset %d: %w", offset, err)
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(src, data); err != nil {
		return nil, fmt.Errorf("reading %d image bytes at offset %d: %w", n, offset, err)
	}
	return data, nil
}
