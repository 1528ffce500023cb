package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// General error codes
const (
	NOERROR    int = 0
	EMISSING   int = 122 // referenced element or resource does not exist
	EINVALID   int = 123 // validation failed
	EMALFORMED int = 124 // attribute value cannot be parsed
	EGEOMETRY  int = 125 // degenerate geometry, adjustment skipped
	EINTERNAL  int = 126 // internal error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case EMALFORMED:
		return "malformed value"
	case EGEOMETRY:
		return "degenerate geometry"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// --- Display errors --------------------------------------------------------

// ErrorReporter receives non-fatal display errors. Text layout never aborts
// on malformed input; it omits the offending value and reports it here.
type ErrorReporter interface {
	ReportError(err error)
}

// ErrorList is an ErrorReporter which collects errors. It is safe for
// concurrent use.
type ErrorList struct {
	sync.Mutex
	errs []error
}

// ReportError appends err to the list. nil errors are ignored.
func (el *ErrorList) ReportError(err error) {
	if err == nil {
		return
	}
	el.Lock()
	defer el.Unlock()
	el.errs = append(el.errs, err)
}

// Errors returns a copy of the errors collected so far.
func (el *ErrorList) Errors() []error {
	el.Lock()
	defer el.Unlock()
	errs := make([]error, len(el.errs))
	copy(errs, el.errs)
	return errs
}

// Len returns the number of errors collected.
func (el *ErrorList) Len() int {
	el.Lock()
	defer el.Unlock()
	return len(el.errs)
}

// Reset drops all collected errors.
func (el *ErrorList) Reset() {
	el.Lock()
	defer el.Unlock()
	el.errs = el.errs[:0]
}

func (el *ErrorList) String() string {
	el.Lock()
	defer el.Unlock()
	var b strings.Builder
	for _, err := range el.errs {
		if e, ok := err.(AppError); ok {
			fmt.Fprintf(&b, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
			continue
		}
		fmt.Fprintf(&b, "Error: %s\n", err.Error())
	}
	return b.String()
}

var _ ErrorReporter = &ErrorList{}

// Report sends err to r if r is non-nil.
func Report(r ErrorReporter, err error) {
	if r != nil && err != nil {
		r.ReportError(err)
	}
}
