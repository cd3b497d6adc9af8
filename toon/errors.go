package toon

import "fmt"

// ErrorKind classifies a decode failure.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	InvalidErrorKind ErrorKind = iota
	IndentationError
	InvalidHeader
	CountMismatch
	InvalidEscape
	BlankInsideArray
	PathConflict
)

var errorKindStr = [...]string{
	InvalidErrorKind: "invalid",
	IndentationError: "indentation error",
	InvalidHeader:    "invalid header",
	CountMismatch:    "count mismatch",
	InvalidEscape:    "invalid escape",
	BlankInsideArray: "blank line inside array",
	PathConflict:     "path conflict",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStr) {
		return errorKindStr[InvalidErrorKind]
	}
	return errorKindStr[k]
}

// DecodeError is the concrete error type returned by Decode. It carries
// the 1-based source line at which the failure was detected, when known.
type DecodeError struct {
	Kind     ErrorKind
	Message  string
	Line     int // 0 if not applicable
	LineText string
	Expected string
	Actual   string

	err error
}

// Error satisfies the error interface.
func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("toon: %s", e.Message)
}

// Unwrap supports error wrapping.
func (e *DecodeError) Unwrap() error { return e.err }

func newDecodeError(kind ErrorKind, line int, lineText, msg string, args ...any) *DecodeError {
	return &DecodeError{
		Kind:     kind,
		Message:  fmt.Sprintf(msg, args...),
		Line:     line,
		LineText: lineText,
	}
}

func wrapDecodeError(kind ErrorKind, line int, lineText string, err error) *DecodeError {
	return &DecodeError{
		Kind:     kind,
		Message:  err.Error(),
		Line:     line,
		LineText: lineText,
		err:      err,
	}
}
