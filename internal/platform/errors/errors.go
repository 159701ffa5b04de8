// Package errors is the structured error shared by the batcher, the ledger and
// the HTTP envelope. Import it as perr next to the standard errors package
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable class carried in the envelope;
// the numeric values are on the wire, so new codes go at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota
	ErrorCodePanic                     // recovered handler panic
	ErrorCodeUnavailable               // queue closed or store down
	ErrorCodeConflict                  // clashes with stored state
	ErrorCodeUnauthorized              // missing or unknown bearer token
	ErrorCodeInvalidArgument           // bad query or config parameter
	ErrorCodeValidation                // body decoded but broke a rule
	ErrorCodeJSON                      // body is not JSON of the right shape
	ErrorCodeDB                        // storage failure
	ErrorCodeBadGateway                // backend unreachable or non-2xx
	ErrorCodeBadUpstream               // backend reply undecodable
	ErrorCodeAborted                   // worker gave up before producing a result
)

var codeInfo = map[ErrorCode]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusBadRequest},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeBadGateway:      {"bad_gateway", http.StatusBadGateway},
	ErrorCodeBadUpstream:     {"bad_upstream", http.StatusBadGateway},
	ErrorCodeAborted:         {"aborted", http.StatusInternalServerError},
}

func (c ErrorCode) String() string {
	if i, ok := codeInfo[c]; ok {
		return i.name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode maps c to a status; unknown codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if i, ok := codeInfo[c]; ok {
		return i.status
	}
	return http.StatusInternalServerError
}

// Error is a coded message with an optional offending field and wrapped cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	orig  error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig != nil:
		return e.msg + ": " + e.orig.Error()
	default:
		return e.msg
	}
}

func (e *Error) Unwrap() error { return e.orig }

// Code is the error class
func (e *Error) Code() ErrorCode { return e.code }

// Field names the request field at fault, if any
func (e *Error) Field() string { return e.field }

// Wire is what a client sees of an error; the wrapped cause never leaks
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom converts any error; foreign errors keep their text under Unknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root unwraps err down to its innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// CodeOf is err's class, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err's class is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField copies err with field set; foreign errors come back unchanged
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// New is a coded error with a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrapf keeps orig as the cause behind a coded message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

func ctor(code ErrorCode) func(string, ...any) error {
	return func(format string, a ...any) error { return Newf(code, format, a...) }
}

// Formatted constructors, one per code callers raise directly
var (
	InvalidArgf   = ctor(ErrorCodeInvalidArgument)
	JSONErrf      = ctor(ErrorCodeJSON)
	PanicErrf     = ctor(ErrorCodePanic)
	Unauthorizedf = ctor(ErrorCodeUnauthorized)
	Conflictf     = ctor(ErrorCodeConflict)
	Unavailablef  = ctor(ErrorCodeUnavailable)
	BadGatewayf   = ctor(ErrorCodeBadGateway)
	BadUpstreamf  = ctor(ErrorCodeBadUpstream)
)
