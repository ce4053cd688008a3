package provisioning

import errors "github.com/luminatesec/luminate-client/pkg/util/errors"

// Errors hit while turning application records into Luminate calls
var (
	ErrMissingProperty    = errors.Newf(1202, "section %s is missing required property %s")
	ErrBadApplicationType = errors.Newf(1203, "section %s has invalid app_type %s, expected HTTP or SSH")
	ErrMissingIDP         = errors.Newf(1204, "section %s assigns %s without an idp")
	ErrUnexpectedFailure  = errors.Newf(1205, "unexpected failure while processing section %s")
	ErrRecordsFailed      = errors.Newf(1206, "%d of %d application records did not complete")
)
