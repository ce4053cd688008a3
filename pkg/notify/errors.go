package notify

import errors "github.com/luminatesec/luminate-client/pkg/util/errors"

// Errors hit when sending the run report
var (
	ErrNotification     = errors.Newf(1420, "could not send notification via %s, check notify config")
	ErrNotificationData = errors.New(1421, "error creating notification request")
	ErrSendEmail        = errors.New(1422, "error sending email to SMTP server")
	ErrWebhookStatus    = errors.Newf(1423, "webhook %s returned status %d")
)
