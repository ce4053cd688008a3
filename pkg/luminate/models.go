package luminate

import "strings"

// ApplicationType - the protocol a Luminate application is reached by
type ApplicationType string

// Application types
const (
	ApplicationHTTP ApplicationType = "HTTP"
	ApplicationSSH  ApplicationType = "SSH"
)

// ParseApplicationType - case insensitive, false when the value is not a known type
func ParseApplicationType(value string) (ApplicationType, bool) {
	switch ApplicationType(strings.ToUpper(strings.TrimSpace(value))) {
	case ApplicationHTTP:
		return ApplicationHTTP, true
	case ApplicationSSH:
		return ApplicationSSH, true
	}
	return "", false
}

// Application - an application to register at a site
type Application struct {
	Name            string
	Description     string
	Type            ApplicationType
	InternalAddress string
	SiteName        string
	SSHUsers        []string
}

// validate - an SSH application must name the users allowed to log in
func (a Application) validate() error {
	if a.Type == ApplicationSSH && len(a.SSHUsers) == 0 {
		return ErrSSHUsersRequired
	}
	return nil
}

type connectionSettings struct {
	InternalAddress string `json:"internal_address"`
}

type applicationPayload struct {
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Type               ApplicationType    `json:"type"`
	ConnectionSettings connectionSettings `json:"connection_settings"`
	SiteName           string             `json:"site_name"`
	SSHUsers           []string           `json:"ssh_users,omitempty"`
}

func newApplicationPayload(app Application) applicationPayload {
	payload := applicationPayload{
		Name:               app.Name,
		Description:        app.Description,
		Type:               app.Type,
		ConnectionSettings: connectionSettings{InternalAddress: app.InternalAddress},
		SiteName:           app.SiteName,
	}
	if app.Type == ApplicationSSH {
		payload.SSHUsers = app.SSHUsers
	}
	return payload
}

type assignUserPayload struct {
	Email    string   `json:"email"`
	IDPName  string   `json:"idp_name"`
	SSHUsers []string `json:"ssh_users,omitempty"`
}

type assignGroupPayload struct {
	Name     string   `json:"name"`
	IDPName  string   `json:"idp_name"`
	SSHUsers []string `json:"ssh_users,omitempty"`
}
