package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/hashicorp/go-multierror"

	"github.com/luminatesec/luminate-client/pkg/api"
	"github.com/luminatesec/luminate-client/pkg/config"
	"github.com/luminatesec/luminate-client/pkg/notify/template"
	"github.com/luminatesec/luminate-client/pkg/provisioning"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

// ReportNotification - the run report as it is posted to the webhook and used to fill in the email template
type ReportNotification struct {
	RunID              string                `json:"runId"`
	File               string                `json:"file,omitempty"`
	Summary            string                `json:"summary"`
	StartTime          time.Time             `json:"startTime"`
	EndTime            time.Time             `json:"endTime"`
	Succeeded          int                   `json:"succeeded"`
	PartiallySucceeded int                   `json:"partiallySucceeded"`
	Failed             int                   `json:"failed"`
	Skipped            int                   `json:"skipped"`
	Results            []provisioning.Result `json:"results"`
}

// NewReportNotification - creates the notification of a run report
func NewReportNotification(report *provisioning.Report) *ReportNotification {
	return &ReportNotification{
		RunID:              report.RunID,
		File:               report.File,
		Summary:            report.Summary(),
		StartTime:          report.StartTime,
		EndTime:            report.EndTime,
		Succeeded:          report.Count(provisioning.Succeeded),
		PartiallySucceeded: report.Count(provisioning.PartiallySucceeded),
		Failed:             report.Count(provisioning.Failed),
		Skipped:            report.Count(provisioning.Skipped),
		Results:            report.Results,
	}
}

type sendMailFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// Notifier - sends run reports to every configured notification type
type Notifier struct {
	cfg       config.NotificationConfig
	apiClient api.Client
	logger    log.FieldLogger
	sendMail  sendMailFunc
}

// NotifierOption -
type NotifierOption func(*Notifier)

// WithAPIClient - the client used for webhook calls
func WithAPIClient(apiClient api.Client) NotifierOption {
	return func(n *Notifier) {
		n.apiClient = apiClient
	}
}

// WithLogger -
func WithLogger(logger log.FieldLogger) NotifierOption {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNotifier - creates a notifier for the config
func NewNotifier(cfg config.NotificationConfig, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		cfg:      cfg,
		logger:   log.NewFieldLogger(),
		sendMail: smtp.SendMail,
	}
	for _, o := range opts {
		o(n)
	}
	n.logger = n.logger.WithComponent("notifier").WithPackage("notify")
	if n.apiClient == nil {
		n.apiClient = api.NewClient(config.NewTLSConfig(), "", api.WithLogger(n.logger))
	}
	return n
}

// Notify - sends the report to every notification type, a failing type does not stop the others
func (n *Notifier) Notify(report *provisioning.Report) error {
	if report == nil || n.cfg == nil {
		return nil
	}

	notification := NewReportNotification(report)
	var result *multierror.Error
	for _, notificationType := range n.cfg.GetNotificationTypes() {
		switch notificationType {
		case config.NotifyWebhook:
			if err := n.notifyViaWebhook(notification); err != nil {
				n.logger.WithError(err).Error("could not send notification via webhook")
				result = multierror.Append(result, ErrNotification.FormatErrorWithCause(err, "webhook"))
				continue
			}
			n.logger.WithField("url", n.cfg.GetWebhookURL()).Debug("webhook notification sent")

		case config.NotifySMTP:
			if err := n.notifyViaSMTP(notification); err != nil {
				n.logger.WithError(err).Error("could not send notification via smtp server")
				result = multierror.Append(result, ErrNotification.FormatErrorWithCause(err, "smtp"))
				continue
			}
			n.logger.WithField("recipients", strings.Join(n.cfg.GetSMTPRecipients(), ",")).Debug("email notification sent")
		}
	}
	return result.ErrorOrNil()
}

func (n *Notifier) notifyViaWebhook(notification *ReportNotification) error {
	buffer, err := json.Marshal(notification)
	if err != nil {
		return ErrNotificationData.WithCause(err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range n.cfg.GetWebhookHeaders() {
		headers[k] = v
	}

	resp, err := n.apiClient.Send(api.Request{
		Method:  api.POST,
		URL:     n.cfg.GetWebhookURL(),
		Headers: headers,
		Body:    buffer,
	})
	if err != nil {
		return err
	}
	if resp == nil || resp.Code < http.StatusOK || resp.Code >= http.StatusMultipleChoices {
		code := 0
		if resp != nil {
			code = resp.Code
		}
		return ErrWebhookStatus.FormatError(n.cfg.GetWebhookURL(), code)
	}
	return nil
}

func (n *Notifier) notifyViaSMTP(notification *ReportNotification) error {
	// determine the auth type to use
	var auth sasl.Client
	n.logger.Debugf("SMTP authorization type %s", n.cfg.GetSMTPAuthType())

	switch n.cfg.GetSMTPAuthType() {
	case config.LoginAuth:
		auth = sasl.NewLoginClient(n.cfg.GetSMTPUsername(), n.cfg.GetSMTPPassword())
	case config.PlainAuth:
		auth = sasl.NewPlainClient(n.cfg.GetSMTPIdentity(), n.cfg.GetSMTPUsername(), n.cfg.GetSMTPPassword())
	case config.AnonymousAuth:
		auth = sasl.NewAnonymousClient(n.cfg.GetSMTPFromAddress())
	}

	msg, err := n.BuildSMTPMessage(notification)
	if err != nil {
		return err
	}
	if err := n.sendMail(n.cfg.GetSMTPURL(), auth, n.cfg.GetSMTPFromAddress(), n.cfg.GetSMTPRecipients(), msg); err != nil {
		return ErrSendEmail.WithCause(err)
	}
	return nil
}

// BuildSMTPMessage - the email with the rendered report as its body
func (n *Notifier) BuildSMTPMessage(notification *ReportNotification) (*strings.Reader, error) {
	body, err := template.Render(n.cfg.GetSMTPBody(), reportTemplate(notification))
	if err != nil {
		return nil, ErrNotificationData.WithCause(err)
	}

	mime := mimeMap{
		"MIME-version": "1.0",
		"Content-Type": "text/html",
		"charset":      "UTF-8",
	}

	fromAddress := fmt.Sprintf("From: %s", n.cfg.GetSMTPFromAddress())
	toAddress := fmt.Sprintf("To: %s", strings.Join(n.cfg.GetSMTPRecipients(), ", "))
	subject := fmt.Sprintf("Subject: %s", n.cfg.GetSMTPSubject())

	n.logger.Debugf("Sending email %s, %s, %s", fromAddress, toAddress, subject)

	msgArray := []string{
		fromAddress,
		toAddress,
		subject,
		mime.String(),
		body,
	}
	return strings.NewReader(strings.Join(msgArray, "\n")), nil
}

func reportTemplate(notification *ReportNotification) template.ReportTemplate {
	data := template.ReportTemplate{
		RunID:     notification.RunID,
		File:      notification.File,
		Summary:   notification.Summary,
		StartTime: notification.StartTime.Format(time.RFC3339),
		EndTime:   notification.EndTime.Format(time.RFC3339),
		Results:   make([]template.ResultTemplate, 0, len(notification.Results)),
	}
	for _, r := range notification.Results {
		data.Results = append(data.Results, template.ResultTemplate{
			Section:       r.Section,
			Application:   r.ApplicationName,
			ApplicationID: r.ApplicationID,
			Outcome:       string(r.Outcome),
			Step:          string(r.FailedStep),
			Error:         r.Error,
		})
	}
	return data
}
