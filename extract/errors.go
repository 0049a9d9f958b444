package extract

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors of this package through
// errors.Is.
var (
	ErrNotSupported = errors.New("extract: image not supported")
	ErrChecksum     = errors.New("extract: checksum verification failed")
	ErrPointer      = errors.New("extract: malformed data pointer")
)

// NotSupportedError reports a product whose image cannot be extracted
// because of its encoding, or because it carries no IMAGE object.
type NotSupportedError struct {
	Label string // label that failed the check
	Value string // its value, empty when missing
}

func (e *NotSupportedError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("extract: %s not found", e.Label)
	}
	return fmt.Sprintf("extract: %s %q is not supported", e.Label, e.Value)
}

func (e *NotSupportedError) Is(target error) bool { return target == ErrNotSupported }

// ChecksumError reports image samples whose MD5 digest differs from the
// one recorded in the label.
type ChecksumError struct {
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("extract: verification failed: expected MD5 %q but got %q", e.Expected, e.Actual)
}

func (e *ChecksumError) Is(target error) bool { return target == ErrChecksum }

// PointerFormatError reports a data pointer that cannot be resolved to a
// byte offset.
type PointerFormatError struct {
	Pointer string // pointer label, e.g. ^IMAGE
	Value   string
	Msg     string
}

func (e *PointerFormatError) Error() string {
	return fmt.Sprintf("extract: %s = %s: %s", e.Pointer, e.Value, e.Msg)
}

func (e *PointerFormatError) Is(target error) bool { return target == ErrPointer }
