package config

import errors "github.com/luminatesec/luminate-client/pkg/util/errors"

// Errors hit when loading, validating or parsing config
var (
	ErrReadingConfigFile   = errors.Newf(1001, "failed reading configuration file %s")
	ErrMissingConfigFile   = errors.Newf(1002, "configuration file %s does not exist")
	ErrMissingSection      = errors.Newf(1003, "configuration file %s has no [%s] section")
	ErrBadConfig           = errors.Newf(1004, "error with config %s, please set and/or check its value")
	ErrBadTLSConfig        = errors.Newf(1005, "error with ssl config %s, please check its value")
	ErrBadNotificationType = errors.Newf(1006, "invalid notification type %s, expected SMTP or WEBHOOK")
	ErrBadSMTPAuthType     = errors.Newf(1007, "invalid smtp auth type %s, expected NONE, ANONYMOUS, LOGIN or PLAIN")
)
