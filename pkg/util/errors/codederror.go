package errors

import (
	"fmt"
)

// CodedError - an error carrying a numeric code used to classify failures
type CodedError struct {
	error

	formattedErr bool
	Code         int    `json:"code"`
	Message      string `json:"message"`
	formatArgs   []interface{}
	cause        error
}

// New - Creates a new coded error
func New(errCode int, errMessage string) *CodedError {
	return &CodedError{formattedErr: false, Code: errCode, Message: errMessage}
}

// Newf - Creates a new coded error whose message is a format string
func Newf(errCode int, errMessage string) *CodedError {
	return &CodedError{formattedErr: true, Code: errCode, Message: errMessage}
}

// Wrap - add additional data to a defined error
func Wrap(codedErr *CodedError, info string) *CodedError {
	message := codedErr.Message
	if info != "" {
		message += fmt.Sprintf(": %s", info)
	}
	return &CodedError{
		formattedErr: codedErr.formattedErr,
		Code:         codedErr.Code,
		Message:      message,
		formatArgs:   codedErr.formatArgs,
		cause:        codedErr.cause,
	}
}

// FormatError - Creates an error with applied formatting
func (e *CodedError) FormatError(args ...interface{}) error {
	return &CodedError{formattedErr: e.formattedErr, Code: e.Code, Message: e.Message, formatArgs: args}
}

// FormatErrorWithCause - Creates an error with applied formatting that unwraps to cause
func (e *CodedError) FormatErrorWithCause(cause error, args ...interface{}) error {
	return &CodedError{formattedErr: e.formattedErr, Code: e.Code, Message: e.Message, formatArgs: args, cause: cause}
}

// WithCause - returns a copy of the error that unwraps to cause
func (e *CodedError) WithCause(cause error) *CodedError {
	return &CodedError{
		formattedErr: e.formattedErr,
		Code:         e.Code,
		Message:      e.Message,
		formatArgs:   e.formatArgs,
		cause:        cause,
	}
}

// Error - Returns the formatted error message
func (e *CodedError) Error() string {
	msg := e.Message
	if e.formattedErr {
		msg = fmt.Sprintf(e.Message, e.formatArgs...)
	}
	if e.cause != nil {
		return fmt.Sprintf("[Error Code %d] - %s: %s", e.Code, msg, e.cause.Error())
	}
	return fmt.Sprintf("[Error Code %d] - %s", e.Code, msg)
}

// Unwrap - returns the underlying cause, if any
func (e *CodedError) Unwrap() error {
	return e.cause
}

// Is - two coded errors match when their codes are equal
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// GetErrorCode - Returns the error code
func (e *CodedError) GetErrorCode() int {
	return e.Code
}
