package provisioning

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminatesec/luminate-client/pkg/luminate"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

type call struct {
	op       string
	id       string
	app      luminate.Application
	identity string
	idp      string
	sshUsers []string
}

// mockClient - records every call, errors are keyed by operation and application name
type mockClient struct {
	calls       []call
	ids         map[string]string
	createErr   map[string]error
	updateErr   map[string]error
	assignErr   map[string]error
	panicOnName string
}

func newMockClient() *mockClient {
	return &mockClient{
		ids:       map[string]string{},
		createErr: map[string]error{},
		updateErr: map[string]error{},
		assignErr: map[string]error{},
	}
}

func (m *mockClient) CreateApplication(app luminate.Application) (string, error) {
	m.calls = append(m.calls, call{op: "create", app: app})
	if app.Type == luminate.ApplicationSSH && len(app.SSHUsers) == 0 {
		return "", luminate.ErrSSHUsersRequired
	}
	if err := m.createErr[app.Name]; err != nil {
		return "", err
	}
	if id, ok := m.ids[app.Name]; ok {
		return id, nil
	}
	return "id-" + app.Name, nil
}

func (m *mockClient) UpdateApplication(id string, app luminate.Application) error {
	m.calls = append(m.calls, call{op: "update", id: id, app: app})
	if app.Name == m.panicOnName {
		panic("update exploded")
	}
	return m.updateErr[app.Name]
}

func (m *mockClient) AssignUserToApp(id, email, idp string, sshUsers []string) error {
	m.calls = append(m.calls, call{op: "assign-user", id: id, identity: email, idp: idp, sshUsers: sshUsers})
	return m.assignErr[id]
}

func (m *mockClient) AssignGroupToApp(id, name, idp string, sshUsers []string) error {
	m.calls = append(m.calls, call{op: "assign-group", id: id, identity: name, idp: idp, sshUsers: sshUsers})
	return m.assignErr[id]
}

func (m *mockClient) ops() []string {
	ops := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		ops = append(ops, c.op)
	}
	return ops
}

func record(name string, extra ...string) Section {
	keys := map[string]string{
		keyAppName:         name,
		keyAppType:         "HTTP",
		keyInternalAddress: "10.0.0.5",
		keySiteName:        "site-a",
	}
	for i := 0; i+1 < len(extra); i += 2 {
		keys[extra[i]] = extra[i+1]
	}
	return Section{Name: name, Keys: keys}
}

func newTestProvisioner(client luminate.Client) (*Provisioner, *test.Hook, metrics.Registry) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	registry := metrics.NewRegistry()
	return NewProvisioner(client, WithLogger(log.NewFieldLoggerFrom(logger)), WithRegistry(registry)), hook, registry
}

func counter(registry metrics.Registry, name string) int64 {
	return registry.Get(name).(metrics.Counter).Count()
}

func criticalEntries(hook *test.Hook) []*logrus.Entry {
	entries := make([]*logrus.Entry, 0)
	for _, entry := range hook.AllEntries() {
		if entry.Data["severity"] == "critical" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func TestConfigureUserAssignment(t *testing.T) {
	client := newMockClient()
	client.ids["web1"] = "abc123"
	p, _, registry := newTestProvisioner(client)

	report := p.Configure([]Section{record("web1", keyEmail, "u@x.com", keyIDP, "okta")})

	require.Len(t, report.Results, 1)
	result := report.Results[0]
	assert.Equal(t, Succeeded, result.Outcome)
	assert.Equal(t, "abc123", result.ApplicationID)
	assert.Equal(t, "user u@x.com", result.Assignment)
	assert.Nil(t, report.Err())
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, []string{"create", "update", "assign-user"}, client.ops())
	assert.Equal(t, "", client.calls[0].app.Description)
	assert.Equal(t, "abc123", client.calls[1].id)
	assert.Equal(t, DescriptionMarker, client.calls[1].app.Description)
	assert.Equal(t, call{op: "assign-user", id: "abc123", identity: "u@x.com", idp: "okta"}, client.calls[2])

	assert.Equal(t, int64(1), counter(registry, MetricRecords))
	assert.Equal(t, int64(1), counter(registry, MetricAppsCreated))
	assert.Equal(t, int64(1), counter(registry, MetricAppsUpdated))
	assert.Equal(t, int64(1), counter(registry, MetricAssignments))
	assert.Equal(t, int64(0), counter(registry, MetricFailures))
}

func TestConfigureAssignmentRouting(t *testing.T) {
	client := newMockClient()
	p, _, _ := newTestProvisioner(client)

	report := p.Configure([]Section{
		record("group", keyGroupName, "admins", keyIDP, "okta", keyAssignedSSHUsers, "bob,carol"),
		record("both", keyEmail, "u@x.com", keyGroupName, "admins", keyIDP, "okta"),
		record("nobody"),
	})
	assert.Nil(t, report.Err())
	assert.Equal(t, 3, report.Count(Succeeded))

	assert.Equal(t, []string{
		"create", "update", "assign-group",
		"create", "update", "assign-user",
		"create", "update",
	}, client.ops())
	assert.Equal(t, []string{"bob", "carol"}, client.calls[2].sshUsers)
	assert.Equal(t, "admins", client.calls[2].identity)
	assert.Equal(t, "u@x.com", client.calls[5].identity)
}

func TestConfigureSkipsIncompleteRecords(t *testing.T) {
	client := newMockClient()
	p, hook, registry := newTestProvisioner(client)

	incomplete := record("broken")
	delete(incomplete.Keys, keySiteName)
	badType := record("rdp", keyAppType, "RDP")

	report := p.Configure([]Section{incomplete, badType, record("web1")})

	assert.Equal(t, Skipped, report.Results[0].Outcome)
	assert.Equal(t, StepParse, report.Results[0].FailedStep)
	assert.True(t, errors.Is(report.Results[0].Err, ErrMissingProperty))
	assert.Equal(t, Skipped, report.Results[1].Outcome)
	assert.True(t, errors.Is(report.Results[1].Err, ErrBadApplicationType))
	assert.Equal(t, Succeeded, report.Results[2].Outcome)

	// only the valid record reached the client
	assert.Equal(t, []string{"create", "update"}, client.ops())
	assert.Len(t, criticalEntries(hook), 2)
	assert.Equal(t, int64(3), counter(registry, MetricRecords))
	assert.Equal(t, int64(2), counter(registry, MetricFailures))
}

func TestConfigureSSHWithoutUsers(t *testing.T) {
	client := newMockClient()
	p, hook, _ := newTestProvisioner(client)

	report := p.Configure([]Section{
		record("bastion", keyAppType, "SSH", keyEmail, "u@x.com", keyIDP, "okta"),
		record("web1"),
	})

	result := report.Results[0]
	assert.Equal(t, Failed, result.Outcome)
	assert.Equal(t, StepCreate, result.FailedStep)
	assert.True(t, errors.Is(result.Err, luminate.ErrSSHUsersRequired))
	assert.Equal(t, Succeeded, report.Results[1].Outcome)
	assert.Equal(t, []string{"create", "create", "update"}, client.ops())

	critical := criticalEntries(hook)
	require.Len(t, critical, 1)
	assert.Equal(t, "bastion", critical[0].Data["section"])
}

func TestConfigureCreateFailure(t *testing.T) {
	client := newMockClient()
	client.createErr["web1"] = &luminate.APIError{Operation: "create application", StatusCode: http.StatusInternalServerError, Body: "boom"}
	p, hook, registry := newTestProvisioner(client)

	report := p.Configure([]Section{
		record("web1", keyEmail, "u@x.com", keyIDP, "okta"),
		record("web2", keyEmail, "u@x.com", keyIDP, "okta"),
	})

	assert.Equal(t, Failed, report.Results[0].Outcome)
	assert.Equal(t, StepCreate, report.Results[0].FailedStep)
	assert.Equal(t, "", report.Results[0].ApplicationID)
	assert.Equal(t, Succeeded, report.Results[1].Outcome)

	// no update or assignment for the failed record
	assert.Equal(t, []string{"create", "create", "update", "assign-user"}, client.ops())

	critical := criticalEntries(hook)
	require.Len(t, critical, 1)
	assert.Contains(t, fmt.Sprint(critical[0].Data[logrus.ErrorKey]), "status 500")
	assert.Contains(t, fmt.Sprint(critical[0].Data[logrus.ErrorKey]), "boom")
	assert.Equal(t, int64(1), counter(registry, MetricAppsCreated))
	assert.Equal(t, int64(1), counter(registry, MetricFailures))
}

func TestConfigureUpdateIsBestEffort(t *testing.T) {
	client := newMockClient()
	client.updateErr["web1"] = errors.New("update rejected")
	p, _, registry := newTestProvisioner(client)

	report := p.Configure([]Section{record("web1", keyGroupName, "admins", keyIDP, "okta")})

	result := report.Results[0]
	assert.Equal(t, PartiallySucceeded, result.Outcome)
	assert.Equal(t, StepUpdate, result.FailedStep)
	assert.Equal(t, "update rejected", result.Error)
	assert.Equal(t, []string{"create", "update", "assign-group"}, client.ops())
	assert.Equal(t, int64(0), counter(registry, MetricAppsUpdated))
	assert.Equal(t, int64(1), counter(registry, MetricAssignments))
	assert.NotNil(t, report.Err())
}

func TestConfigureMissingIDP(t *testing.T) {
	client := newMockClient()
	client.ids["web1"] = "abc123"
	p, hook, _ := newTestProvisioner(client)

	report := p.Configure([]Section{record("web1", keyEmail, "u@x.com")})

	result := report.Results[0]
	assert.Equal(t, Failed, result.Outcome)
	assert.Equal(t, StepAssign, result.FailedStep)
	assert.True(t, errors.Is(result.Err, ErrMissingIDP))
	assert.Equal(t, []string{"create", "update"}, client.ops())

	critical := criticalEntries(hook)
	require.Len(t, critical, 1)
	assert.Equal(t, "u@x.com", critical[0].Data["user"])
	assert.Equal(t, "abc123", critical[0].Data["appId"])
}

func TestConfigureAssignFailure(t *testing.T) {
	client := newMockClient()
	client.ids["web1"] = "abc123"
	client.assignErr["abc123"] = errors.New("no such idp")
	p, hook, _ := newTestProvisioner(client)

	report := p.Configure([]Section{
		record("web1", keyGroupName, "admins", keyIDP, "unknown"),
		record("web2"),
	})

	assert.Equal(t, Failed, report.Results[0].Outcome)
	assert.Equal(t, StepAssign, report.Results[0].FailedStep)
	assert.Equal(t, Succeeded, report.Results[1].Outcome)

	critical := criticalEntries(hook)
	require.Len(t, critical, 1)
	assert.Equal(t, "admins", critical[0].Data["group"])
	assert.Equal(t, "abc123", critical[0].Data["appId"])
}

func TestConfigureRecoversPanics(t *testing.T) {
	client := newMockClient()
	client.panicOnName = "web1"
	p, hook, registry := newTestProvisioner(client)

	report := p.Configure([]Section{record("web1", keyEmail, "u@x.com", keyIDP, "okta"), record("web2")})

	result := report.Results[0]
	assert.Equal(t, Failed, result.Outcome)
	assert.Equal(t, StepUpdate, result.FailedStep)
	assert.Equal(t, "id-web1", result.ApplicationID)
	assert.True(t, errors.Is(result.Err, ErrUnexpectedFailure))
	assert.Contains(t, result.Error, "update exploded")
	assert.Equal(t, Succeeded, report.Results[1].Outcome)
	assert.Len(t, criticalEntries(hook), 1)
	assert.Equal(t, int64(1), counter(registry, MetricFailures))
}

func TestConfigureApplications(t *testing.T) {
	path := writeApplications(t, "luminate.applications", `
[web1]
app_name = web1
app_type = HTTP
internal_address = 10.0.0.5
site_name = site-a
email = u@x.com
idp = okta
assigned_ssh_users = bob,carol
`)

	client := newMockClient()
	client.ids["web1"] = "abc123"
	code, report := ConfigureApplications(client, path)
	assert.Equal(t, CompletionOK, code)
	require.NotNil(t, report)
	assert.Equal(t, path, report.File)
	assert.Equal(t, 1, report.Count(Succeeded))
	assert.Equal(t, []string{"bob", "carol"}, client.calls[2].sshUsers)

	client = newMockClient()
	code, report = ConfigureApplications(client, filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, CompletionConfigFail, code)
	assert.Nil(t, report)
	assert.Empty(t, client.calls)
}
