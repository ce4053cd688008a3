package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/luminatesec/luminate-client/pkg/cmd/properties"
	"github.com/luminatesec/luminate-client/pkg/notify/template"
)

// NotificationType - how a run summary is delivered
type NotificationType string

// NotificationTypes
const (
	NotifySMTP    = NotificationType("SMTP")
	NotifyWebhook = NotificationType("WEBHOOK")
)

// SMTPAuthType - the type of authentication methods the SMTP client supports
type SMTPAuthType string

// SMTPAuthTypes -
const (
	AnonymousAuth = SMTPAuthType("ANONYMOUS")
	LoginAuth     = SMTPAuthType("LOGIN")
	PlainAuth     = SMTPAuthType("PLAIN")
	NoAuth        = SMTPAuthType("NONE")
)

// NotificationConfig - Interface to get the run summary notification config
type NotificationConfig interface {
	GetNotificationTypes() []NotificationType
	GetWebhookURL() string
	GetWebhookHeaders() map[string]string
	GetSMTPURL() string
	GetSMTPHost() string
	GetSMTPFromAddress() string
	GetSMTPRecipients() []string
	GetSMTPAuthType() SMTPAuthType
	GetSMTPIdentity() string
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPSubject() string
	GetSMTPBody() string
	ValidateCfg() error
}

// NotificationConfiguration - Structure to hold the notification config
type NotificationConfiguration struct {
	Types   []NotificationType
	SMTP    *smtp    `config:"smtp"`
	Webhook *webhook `config:"webhook"`
}

// These constants are the paths that the settings is at in a config file
const (
	pathNotifyTypes      = "notify.types"
	pathWebhookURL       = "notify.webhook.url"
	pathWebhookHeaders   = "notify.webhook.headers"
	pathSMTPHost         = "notify.smtp.host"
	pathSMTPPort         = "notify.smtp.port"
	pathSMTPFrom         = "notify.smtp.fromAddress"
	pathSMTPRecipients   = "notify.smtp.recipients"
	pathSMTPAuthType     = "notify.smtp.authType"
	pathSMTPIdentity     = "notify.smtp.identity"
	pathSMTPUsername     = "notify.smtp.username"
	pathSMTPPassword     = "notify.smtp.password"
	pathSMTPSubject      = "notify.smtp.subject"
	pathSMTPBody         = "notify.smtp.body"
	defaultSMTPSubject   = "Luminate provisioning report"
	defaultSMTPPort      = 25
	webhookHeaderExample = "Header=Content-Type,Value=application/json,Header=X-Token,Value=abc"
)

// AddNotificationConfigProperties -
func AddNotificationConfigProperties(props properties.Properties) {
	props.AddStringSliceProperty(pathNotifyTypes, []string{}, "Where to send the run summary (SMTP, WEBHOOK)")
	props.AddStringProperty(pathWebhookURL, "", "URL the run summary is posted to")
	props.AddStringProperty(pathWebhookHeaders, "", "Headers for the webhook call, e.g. "+webhookHeaderExample)
	props.AddStringProperty(pathSMTPHost, "", "SMTP server host")
	props.AddIntProperty(pathSMTPPort, defaultSMTPPort, "SMTP server port")
	props.AddStringProperty(pathSMTPFrom, "", "Sender address of the run summary email")
	props.AddStringSliceProperty(pathSMTPRecipients, []string{}, "Recipients of the run summary email")
	props.AddStringProperty(pathSMTPAuthType, string(NoAuth), "SMTP auth type (NONE, ANONYMOUS, LOGIN, PLAIN)")
	props.AddStringProperty(pathSMTPIdentity, "", "SMTP identity, used by PLAIN auth")
	props.AddStringProperty(pathSMTPUsername, "", "SMTP username")
	props.AddStringProperty(pathSMTPPassword, "", "SMTP password")
	props.AddStringProperty(pathSMTPSubject, defaultSMTPSubject, "Subject of the run summary email")
	props.AddStringProperty(pathSMTPBody, "", "Go template of the run summary email body, a report table is sent when empty")
}

type webhook struct {
	URL     string `config:"webhook.url"`
	Headers string `config:"webhook.headers"`
	headers map[string]string
}

type smtp struct {
	Host       string       `config:"smtp.host"`
	Port       int          `config:"smtp.port"`
	From       string       `config:"smtp.fromAddress"`
	Recipients []string     `config:"smtp.recipients"`
	AuthType   SMTPAuthType `config:"smtp.authType"`
	Identity   string       `config:"smtp.identity"`
	Username   string       `config:"smtp.username"`
	Password   string       `config:"smtp.password"`
	Subject    string       `config:"smtp.subject"`
	Body       string       `config:"smtp.body"`
}

// ParseNotificationConfig -
func ParseNotificationConfig(props properties.Properties) (NotificationConfig, error) {
	cfg := &NotificationConfiguration{
		Types: make([]NotificationType, 0),
		Webhook: &webhook{
			URL:     props.StringPropertyValue(pathWebhookURL),
			Headers: props.StringPropertyValue(pathWebhookHeaders),
		},
		SMTP: &smtp{
			Host:       props.StringPropertyValue(pathSMTPHost),
			Port:       props.IntPropertyValue(pathSMTPPort),
			From:       props.StringPropertyValue(pathSMTPFrom),
			Recipients: props.StringSlicePropertyValue(pathSMTPRecipients),
			AuthType:   SMTPAuthType(strings.ToUpper(props.StringPropertyValue(pathSMTPAuthType))),
			Identity:   props.StringPropertyValue(pathSMTPIdentity),
			Username:   props.StringPropertyValue(pathSMTPUsername),
			Password:   props.StringPropertyValue(pathSMTPPassword),
			Subject:    props.StringPropertyValue(pathSMTPSubject),
			Body:       props.StringPropertyValue(pathSMTPBody),
		},
	}

	for _, t := range props.StringSlicePropertyValue(pathNotifyTypes) {
		if t == "" {
			continue
		}
		cfg.Types = append(cfg.Types, NotificationType(strings.ToUpper(t)))
	}

	if err := cfg.ValidateCfg(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewNotificationConfig - Creates a config that sends nothing
func NewNotificationConfig() NotificationConfig {
	return &NotificationConfiguration{
		Types:   make([]NotificationType, 0),
		Webhook: &webhook{},
		SMTP:    &smtp{AuthType: NoAuth},
	}
}

// GetNotificationTypes -
func (n *NotificationConfiguration) GetNotificationTypes() []NotificationType {
	return n.Types
}

// GetWebhookURL - Returns the webhook url for notifications
func (n *NotificationConfiguration) GetWebhookURL() string {
	return n.Webhook.URL
}

// GetWebhookHeaders - Returns the notification headers
func (n *NotificationConfiguration) GetWebhookHeaders() map[string]string {
	return n.Webhook.headers
}

// GetSMTPURL - Returns the URL for the SMTP server
func (n *NotificationConfiguration) GetSMTPURL() string {
	return fmt.Sprintf("%s:%d", n.SMTP.Host, n.SMTP.Port)
}

// GetSMTPHost - Returns the Host for the SMTP server
func (n *NotificationConfiguration) GetSMTPHost() string {
	return n.SMTP.Host
}

// GetSMTPFromAddress -
func (n *NotificationConfiguration) GetSMTPFromAddress() string {
	return n.SMTP.From
}

// GetSMTPRecipients -
func (n *NotificationConfiguration) GetSMTPRecipients() []string {
	return n.SMTP.Recipients
}

// GetSMTPAuthType -
func (n *NotificationConfiguration) GetSMTPAuthType() SMTPAuthType {
	return n.SMTP.AuthType
}

// GetSMTPIdentity -
func (n *NotificationConfiguration) GetSMTPIdentity() string {
	return n.SMTP.Identity
}

// GetSMTPUsername -
func (n *NotificationConfiguration) GetSMTPUsername() string {
	return n.SMTP.Username
}

// GetSMTPPassword -
func (n *NotificationConfiguration) GetSMTPPassword() string {
	return n.SMTP.Password
}

// GetSMTPSubject -
func (n *NotificationConfiguration) GetSMTPSubject() string {
	return n.SMTP.Subject
}

// GetSMTPBody - the email body template, empty for the default report table
func (n *NotificationConfiguration) GetSMTPBody() string {
	return n.SMTP.Body
}

// ValidateCfg - checks every requested notification type has what it needs to be sent
func (n *NotificationConfiguration) ValidateCfg() error {
	for _, t := range n.Types {
		switch t {
		case NotifyWebhook:
			if err := n.validateWebhook(); err != nil {
				return err
			}
		case NotifySMTP:
			if err := n.validateSMTP(); err != nil {
				return err
			}
		default:
			return ErrBadNotificationType.FormatError(t)
		}
	}
	return nil
}

func (n *NotificationConfiguration) validateWebhook() error {
	if _, err := url.ParseRequestURI(n.Webhook.URL); err != nil {
		return ErrBadConfig.FormatError(pathWebhookURL)
	}

	// Header=Content-Type,Value=application/json, Header=X-Token,Value=abc
	n.Webhook.headers = map[string]string{}
	if n.Webhook.Headers == "" {
		return nil
	}
	headers := strings.Replace(n.Webhook.Headers, ", ", ",", -1)
	for _, headerValue := range strings.Split(headers, ",Header=") {
		hvArray := strings.Split(headerValue, ",Value=")
		if len(hvArray) != 2 {
			return ErrBadConfig.FormatError(pathWebhookHeaders)
		}
		name := strings.TrimPrefix(hvArray[0], "Header=") // the first header in the list
		n.Webhook.headers[name] = hvArray[1]
	}
	return nil
}

func (n *NotificationConfiguration) validateSMTP() error {
	if n.SMTP.Host == "" {
		return ErrBadConfig.FormatError(pathSMTPHost)
	}
	if n.SMTP.Port <= 0 {
		return ErrBadConfig.FormatError(pathSMTPPort)
	}
	if n.SMTP.From == "" {
		return ErrBadConfig.FormatError(pathSMTPFrom)
	}
	if len(n.SMTP.Recipients) == 0 {
		return ErrBadConfig.FormatError(pathSMTPRecipients)
	}

	if n.SMTP.Subject == "" {
		n.SMTP.Subject = defaultSMTPSubject
	}
	if err := template.ValidateBody(n.SMTP.Body); err != nil {
		return ErrBadConfig.FormatError(pathSMTPBody + " - " + err.Error())
	}

	switch n.SMTP.AuthType {
	case "":
		n.SMTP.AuthType = NoAuth
	case NoAuth, AnonymousAuth:
	case LoginAuth, PlainAuth:
		if n.SMTP.Username == "" {
			return ErrBadConfig.FormatError(pathSMTPUsername)
		}
	default:
		return ErrBadSMTPAuthType.FormatError(n.SMTP.AuthType)
	}
	return nil
}
