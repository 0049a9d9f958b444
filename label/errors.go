package label

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors of this package through
// errors.Is.
var (
	// ErrDecode is matched by *DecodeError.
	ErrDecode = errors.New("label: invalid text encoding")

	// ErrStructure is matched by *StructuralError.
	ErrStructure = errors.New("label: malformed structure")

	// ErrConversion is matched by *ConversionError.
	ErrConversion = errors.New("label: invalid value")

	// ErrMissing is wrapped by a *ConversionError for a label that does
	// not exist.
	ErrMissing = errors.New("label not found")
)

// DecodeError reports header bytes that are not valid text.
type DecodeError struct {
	Line int // 1-based physical line
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("label: line %d: cannot decode text: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("label: line %d: not valid UTF-8", e.Line)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// StructuralError reports a header whose records cannot form a label tree:
// unbalanced containers, an unrecognised END_ key, surrounding whitespace
// in a record, or a rejected duplicate key.
type StructuralError struct {
	Line  int // line of the offending record, 0 when not tied to one
	Key   string
	Value string
	Msg   string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("label: line %d: %s", e.Line, e.Msg)
	}
	return "label: " + e.Msg
}

func (e *StructuralError) Is(target error) bool { return target == ErrStructure }

// ConversionError reports a label whose value cannot be read as the type a
// caller asked for.
type ConversionError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	if errors.Is(e.Err, ErrMissing) {
		return fmt.Sprintf("label %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("label %s: cannot convert %q: %v", e.Key, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }
