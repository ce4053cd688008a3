package provisioning

import (
	"strings"

	"github.com/luminatesec/luminate-client/pkg/luminate"
)

// keys of an application record
const (
	keyAppName          = "app_name"
	keyAppType          = "app_type"
	keyInternalAddress  = "internal_address"
	keySiteName         = "site_name"
	keyDescription      = "description"
	keySSHUsers         = "ssh_users"
	keyEmail            = "email"
	keyGroupName        = "group_name"
	keyIDP              = "idp"
	keyAssignedSSHUsers = "assigned_ssh_users"
)

var requiredKeys = []string{keyAppName, keyAppType, keyInternalAddress, keySiteName}

// AssignmentKind - who, if anyone, is granted access to a created application
type AssignmentKind int

// Assignment kinds
const (
	AssignNone AssignmentKind = iota
	AssignUser
	AssignGroup
)

var assignmentKindNames = map[AssignmentKind]string{
	AssignNone:  "none",
	AssignUser:  "user",
	AssignGroup: "group",
}

func (k AssignmentKind) String() string {
	return assignmentKindNames[k]
}

// Assignment - a user, by email, or a group, by name, of an identity provider
type Assignment struct {
	Kind     AssignmentKind
	Identity string
	IDP      string
	SSHUsers []string
}

// Record - a validated application record
type Record struct {
	Section     string
	Application luminate.Application
	Assignment  Assignment
}

// ParseRecord - validates the section and builds the record it describes. An email takes
// precedence over a group name. A missing idp is left for the assignment step to report.
func ParseRecord(section Section) (Record, error) {
	for _, key := range requiredKeys {
		if !section.Has(key) {
			return Record{}, ErrMissingProperty.FormatError(section.Name, key)
		}
	}

	appType, ok := luminate.ParseApplicationType(section.Get(keyAppType))
	if !ok {
		return Record{}, ErrBadApplicationType.FormatError(section.Name, section.Get(keyAppType))
	}

	record := Record{
		Section: section.Name,
		Application: luminate.Application{
			Name:            section.Get(keyAppName),
			Description:     section.Get(keyDescription),
			Type:            appType,
			InternalAddress: section.Get(keyInternalAddress),
			SiteName:        section.Get(keySiteName),
			SSHUsers:        splitList(section.Get(keySSHUsers)),
		},
	}

	switch {
	case section.Has(keyEmail):
		record.Assignment = Assignment{Kind: AssignUser, Identity: section.Get(keyEmail)}
	case section.Has(keyGroupName):
		record.Assignment = Assignment{Kind: AssignGroup, Identity: section.Get(keyGroupName)}
	default:
		return record, nil
	}
	record.Assignment.IDP = section.Get(keyIDP)
	record.Assignment.SSHUsers = splitList(section.Get(keyAssignedSSHUsers))
	return record, nil
}

// splitList - comma separated values, blanks dropped, nil when nothing is left
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
