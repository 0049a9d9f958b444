// Package format provides PDS product detection.
package format

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a kind of PDS file.
type Format int

const (
	// Unknown indicates an unrecognized file.
	Unknown Format = iota
	// Label indicates a file that starts with a PDS label header. The
	// header may be detached or followed by the data it describes.
	Label
	// Image indicates an image product (.IMG), usually with an attached
	// label.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Label:
		return "Label"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Label:
		return ".lbl"
	case Image:
		return ".img"
	default:
		return ""
	}
}

// Detect determines the format from the filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".lbl":
		return Label
	case ".img":
		return Image
	default:
		return Unknown
	}
}

// signatures are the keywords a PDS header may open with. SFDU-wrapped
// products start with a CCSD label before PDS_VERSION_ID.
var signatures = [][]byte{
	[]byte("PDS_VERSION_ID"),
	[]byte("ODL_VERSION_ID"),
	[]byte("CCSD"),
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFromMagic checks the leading bytes for a PDS header. It returns
// Label when one is found; the leading bytes cannot tell an attached label
// from a detached one.
func DetectFromMagic(data []byte) Format {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")

	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return Label
		}
	}
	return Unknown
}

// DetectFromReader inspects the first bytes of r.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 64)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile combines content and extension detection. A file without a
// PDS header is Unknown whatever its name; one with a header is reported
// by its extension, defaulting to Label.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	magic, err := DetectFromReader(f)
	if err != nil || magic == Unknown {
		return Unknown, err
	}
	if ext := Detect(path); ext != Unknown {
		return ext, nil
	}
	return Label, nil
}
