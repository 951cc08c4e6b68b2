package analysis

import (
	"errors"
	"fmt"
)

// Kind classifies a query failure for display and propagation.
type Kind string

const (
	KindNetwork    Kind = "network"     // request never reached the service or never came back
	KindService    Kind = "service"     // service answered with a failure or an unusable body
	KindEmptyInput Kind = "empty_input" // text required but absent; no request was made
	KindStale      Kind = "stale"       // response superseded by a newer request; never shown
)

// Error codes.
const (
	CodeUnreachable      = "SERVICE_UNREACHABLE"
	CodeReadFailed       = "RESPONSE_READ_FAILED"
	CodeStatus           = "SERVICE_STATUS"
	CodeMalformedPayload = "MALFORMED_PAYLOAD"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeStaleResponse    = "STALE_RESPONSE"
)

// Error is a typed query failure. It never accompanies a partially filled entity.
type Error struct {
	Code       string
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrEmptyInput = &Error{Code: CodeEmptyInput, Kind: KindEmptyInput, Message: "input text is empty"}
	ErrStale      = &Error{Code: CodeStaleResponse, Kind: KindStale, Message: "response superseded"}
)

func networkError(op string, cause error) *Error {
	return &Error{
		Code:    CodeUnreachable,
		Kind:    KindNetwork,
		Op:      op,
		Message: "analysis service unreachable",
		Cause:   cause,
	}
}

func readError(op string, cause error) *Error {
	return &Error{
		Code:    CodeReadFailed,
		Kind:    KindNetwork,
		Op:      op,
		Message: "failed to read response body",
		Cause:   cause,
	}
}

func statusError(op string, status int, body string) *Error {
	return &Error{
		Code:       CodeStatus,
		Kind:       KindService,
		Op:         op,
		StatusCode: status,
		Message:    fmt.Sprintf("service returned status %d: %s", status, body),
	}
}

func decodeError(op string, cause error) *Error {
	return &Error{
		Code:    CodeMalformedPayload,
		Kind:    KindService,
		Op:      op,
		Message: "response does not match the expected shape",
		Cause:   cause,
	}
}

func emptyInputError(op string) *Error {
	return &Error{
		Code:    CodeEmptyInput,
		Kind:    KindEmptyInput,
		Op:      op,
		Message: "input text is empty",
	}
}

// KindOf returns the failure kind of err, or "" when err is not a query failure.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}
