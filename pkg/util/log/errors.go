package log

import errors "github.com/luminatesec/luminate-client/pkg/util/errors"

// Log Config Errors
var (
	ErrInvalidLogConfig = errors.Newf(1410, "logging configuration error - %v does not meet criteria (%v)")
	ErrLogFileHook      = errors.Newf(1411, "unable to create the log file %v")
)
