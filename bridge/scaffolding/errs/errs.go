// Package errs provides the error type returned by http handlers.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode is an application level error classification that maps to an
// http status code.
type ErrCode struct {
	value int
}

// Value returns the integer value of the code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the name of the code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// Set of codes used by the handlers.
var (
	InvalidArgument = ErrCode{value: 1}
	NotFound        = ErrCode{value: 2}
	Internal        = ErrCode{value: 3}
	Unavailable     = ErrCode{value: 4}

	// InternalOnlyLog is logged with its message and sent to the client as a
	// generic internal error.
	InternalOnlyLog = ErrCode{value: 5}
)

var codeNames = map[ErrCode]string{
	InvalidArgument: "invalid_argument",
	NotFound:        "not_found",
	Internal:        "internal",
	Unavailable:     "unavailable",
	InternalOnlyLog: "internal_only_log",
}

var httpStatus = map[ErrCode]int{
	InvalidArgument: http.StatusBadRequest,
	NotFound:        http.StatusNotFound,
	Internal:        http.StatusInternalServerError,
	Unavailable:     http.StatusServiceUnavailable,
	InternalOnlyLog: http.StatusInternalServerError,
}

// Error represents an error in the system. Message and ID are sent to the
// client, the cause only goes to the logs.
type Error struct {
	Code     ErrCode `json:"-"`
	Message  string  `json:"error"`
	ID       string  `json:"id,omitempty"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
	cause    error
}

// Newf constructs an error with a formatted client message.
func Newf(code ErrCode, format string, v ...any) *Error {
	return newError(code, fmt.Sprintf(format, v...), nil)
}

// Wrap constructs an error with a fixed client message and keeps cause for
// logging.
func Wrap(code ErrCode, message string, cause error) *Error {
	return newError(code, message, cause)
}

func newError(code ErrCode, message string, cause error) *Error {
	pc, filename, line, _ := runtime.Caller(2)

	return &Error{
		Code:     code,
		Message:  message,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		cause:    cause,
	}
}

// WithID attaches the record id to the client payload.
func (e *Error) WithID(id string) *Error {
	e.ID = id
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Encode implements the web.Encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

// HTTPStatus implements the web package's status interface.
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Equal tells the errors package's Is function how to compare errors.
func (e *Error) Equal(e2 *Error) bool {
	return e.Code == e2.Code && e.Message == e2.Message
}

// GetError returns the *Error in err's chain, or nil.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
