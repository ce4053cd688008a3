package luminate

import errors "github.com/luminatesec/luminate-client/pkg/util/errors"

// Errors hit while creating the client or calling the Luminate API
var (
	ErrAuthentication     = errors.Newf(1110, "authentication against %s failed")
	ErrBadClientSetting   = errors.Newf(1111, "invalid luminate client setting %s")
	ErrSSHUsersRequired   = errors.New(1201, "a request for creating an SSH application must include SSH users")
	ErrUnexpectedStatus   = errors.Newf(1301, "%s returned status %d: %s")
	ErrMissingApplication = errors.Newf(1302, "create application %s returned no application id")
	ErrRequest            = errors.Newf(1303, "%s request failed")
)

// APIError - a response from the Luminate API with a status other than the expected one
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

// Error -
func (e *APIError) Error() string {
	return ErrUnexpectedStatus.FormatError(e.Operation, e.StatusCode, e.Body).Error()
}

// Is - matches ErrUnexpectedStatus
func (e *APIError) Is(target error) bool {
	return ErrUnexpectedStatus.Is(target)
}

