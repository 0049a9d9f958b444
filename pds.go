// Package pds provides a fluent API for reading NASA Planetary Data System
// products: the attached label header and the 8-bit image it describes.
//
// Basic usage:
//
//	labels, warnings, err := pds.Open("FRAME.IMG").Labels()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", label.FormatWarnings(warnings))
//	}
//
// With options:
//
//	res, err := pds.Open("FRAME.IMG").
//	    IgnoreChecksum().
//	    WithLogger(logger).
//	    Image()
//
// The label, extract and view packages are available for lower-level use.
package pds

import (
	"bytes"
	"io"

	"github.com/tsawler/pds/label"
)

// Open returns an Extractor for the product stored at filename. The file
// is opened by the first terminal operation and closed when it returns.
//
// Example:
//
//	labels, warnings, err := pds.Open("FRAME.IMG").Labels()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns an Extractor reading the product from src. The header
// must start at the current position of src and pointer offsets are taken
// from the start of src.
// Note: The caller is responsible for closing src.
//
// Example:
//
//	f, err := os.Open("FRAME.IMG")
//	if err != nil {
//	    // handle error
//	}
//	defer f.Close()
//	res, err := pds.FromReader(f).Image()
func FromReader(src io.ReadSeeker) *Extractor {
	return &Extractor{
		src:     src,
		options: defaultOptions(),
	}
}

// FromBytes returns an Extractor for a product held in memory.
func FromBytes(data []byte) *Extractor {
	return FromReader(bytes.NewReader(data))
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := pds.Must(pds.Open("FRAME.IMG").Image())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustLabels is a helper that wraps a call to Labels() and panics if the
// error is non-nil. It discards warnings and returns just the labels.
//
// Example:
//
//	labels := pds.MustLabels(pds.Open("FRAME.IMG").Labels())
func MustLabels[T any](val T, _ []label.Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
