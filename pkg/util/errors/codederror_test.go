package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	code := 1001
	msg := "this is a test error"
	newErr := New(code, msg)

	assert.NotNil(t, newErr, "The error returned by New was nil")
	assert.IsType(t, &CodedError{}, newErr, "The new error was not of CodedError type")
	assert.Implements(t, (*error)(nil), newErr, "The CodedError struct does not implement error")
	assert.Contains(t, newErr.Error(), msg, "The error msg returned was incorrect")
	assert.Contains(t, newErr.FormatError().Error(), msg, "The error msg returned was incorrect")
	assert.Equal(t, code, newErr.GetErrorCode(), "The error code returned was incorrect")
}

func TestNewfError(t *testing.T) {
	code := 1001
	msg := "format %s test error"
	newErr := Newf(code, msg)

	assert.Contains(t, newErr.FormatError("value").Error(), fmt.Sprintf(msg, "value"), "The error msg returned was incorrect")
	assert.Equal(t, "[Error Code 1001] - format value test error", newErr.FormatError("value").Error())
}

func TestWrapError(t *testing.T) {
	code := 1001
	msg := "this is a test error"
	newErr := New(code, msg)

	wrapMsg := "wrapped message"
	wrapErr := Wrap(newErr, wrapMsg)

	assert.Contains(t, wrapErr.Error(), msg+": "+wrapMsg, "The error msg returned was incorrect")
	assert.Equal(t, code, wrapErr.GetErrorCode(), "The error code returned was incorrect")
}

func TestErrorsIsAndCause(t *testing.T) {
	base := New(1201, "validation failed")
	cause := stderrors.New("missing app_name")

	err := fmt.Errorf("record web1: %w", base.WithCause(cause))

	assert.True(t, stderrors.Is(err, base))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, New(1202, "other")))
	assert.Contains(t, err.Error(), "[Error Code 1201] - validation failed: missing app_name")

	var coded *CodedError
	assert.True(t, stderrors.As(err, &coded))
	assert.Equal(t, 1201, coded.GetErrorCode())
}

func TestFormatErrorWithCause(t *testing.T) {
	base := Newf(1103, "could not request an access token from %s")
	cause := stderrors.New("connection refused")

	err := base.FormatErrorWithCause(cause, "Luminate OAuth server")
	assert.Equal(t, "[Error Code 1103] - could not request an access token from Luminate OAuth server: connection refused", err.Error())
	assert.True(t, stderrors.Is(err, base))
	assert.True(t, stderrors.Is(err, cause))
}
