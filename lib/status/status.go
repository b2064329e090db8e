package status

import (
	"errors"
	"fmt"

	"github.com/kvbridge/kvbridge/lib/engine"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// Code classifies a bridge-level failure.
type Code uint64

const (
	CodeOK                Code = iota // 0: Operation completed successfully.
	CodeUnknownError                  // 1: Unrecognized engine return code.
	CodeBadValue                      // 2: Invalid argument reported by the engine.
	CodeNoSuchKey                     // 3: A looked-up key does not exist.
	CodeFailedToParse                 // 4: A configuration string violated the grammar.
	CodeUnsupportedFormat             // 5: Metadata format version outside the supported range.
	CodeDuplicateKey                  // 6: A key occurred twice where keys must be unique.
	CodeCursorNotFound                // 7: A cursor could not be opened at the requested uri.
	CodeNotFoundInConfig              // 8: A key is absent from a configuration string.
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknownError:
		return "UnknownError"
	case CodeBadValue:
		return "BadValue"
	case CodeNoSuchKey:
		return "NoSuchKey"
	case CodeFailedToParse:
		return "FailedToParse"
	case CodeUnsupportedFormat:
		return "UnsupportedFormat"
	case CodeDuplicateKey:
		return "DuplicateKey"
	case CodeCursorNotFound:
		return "CursorNotFound"
	case CodeNotFoundInConfig:
		return "NotFoundInConfig"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the typed error produced throughout the bridge. It wraps a Code
// and a message, and optionally an underlying error.
type Error struct {
	Code Code   // The error classification
	Msg  string // The error message
	Err  error  // Optional underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error that carries an underlying error.
func Wrap(code Code, err error, msg string) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// CodeOf returns the Code carried by err, or CodeOK for nil. Errors outside
// the bridge taxonomy report CodeUnknownError.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknownError
}

// --------------------------------------------------------------------------
// Engine Code Translation
// --------------------------------------------------------------------------

// FromEngineCode translates a raw engine return code into a typed error.
//
//   - CodeOK returns nil.
//   - The rollback sentinel never returns: it raises the WriteConflict
//     signal, which must propagate to a transaction-retry boundary (see
//     Retry). It deliberately bypasses the error return so that callers
//     cannot mistake it for an ordinary failure.
//   - The panic sentinel never returns: the engine is in an unrecoverable
//     state and the invariant system aborts.
//   - The invalid-argument code maps to CodeBadValue, everything else to
//     CodeUnknownError. Both carry the optional prefix, the numeric code and
//     the engine's description text.
func FromEngineCode(code engine.Code, prefix string) error {
	if code == engine.CodeOK {
		return nil
	}

	if code == engine.CodeRollback {
		panic(WriteConflict{})
	}

	Invariant(code != engine.CodePanic, "engine reported an unrecoverable failure")

	msg := fmt.Sprintf("%d: %s", int(code), engine.Strerror(code))
	if prefix != "" {
		msg = prefix + " " + msg
	}

	if code == engine.CodeInvalidArg {
		return New(CodeBadValue, msg)
	}

	return New(CodeUnknownError, msg)
}
