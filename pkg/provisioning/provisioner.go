package provisioning

import (
	"time"

	"github.com/google/uuid"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"

	"github.com/luminatesec/luminate-client/pkg/luminate"
	"github.com/luminatesec/luminate-client/pkg/util/exception"
	"github.com/luminatesec/luminate-client/pkg/util/log"
)

// DescriptionMarker - appended to the description of every application by the update step
const DescriptionMarker = " (created automatically by luminate-client)"

// Completion codes returned by ConfigureApplications
const (
	CompletionOK         = 0
	CompletionConfigFail = -1
)

// Option - configures a Provisioner
type Option func(*Provisioner)

// WithLogger - the logger the run is reported to
func WithLogger(logger log.FieldLogger) Option {
	return func(p *Provisioner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRegistry - the registry the run counters are kept in
func WithRegistry(registry metrics.Registry) Option {
	return func(p *Provisioner) {
		p.registry = registry
	}
}

// Provisioner - creates the applications of a set of records, one record at a time
type Provisioner struct {
	client   luminate.Client
	logger   log.FieldLogger
	registry metrics.Registry
	metrics  *runMetrics
}

// NewProvisioner -
func NewProvisioner(client luminate.Client, opts ...Option) *Provisioner {
	p := &Provisioner{
		client: client,
		logger: log.NewFieldLogger(),
	}
	for _, o := range opts {
		o(p)
	}
	p.logger = p.logger.WithComponent("provisioner").WithPackage("provisioning")
	p.metrics = newRunMetrics(p.registry)
	return p
}

// Configure - processes the sections in order, a failing section never stops the run
func (p *Provisioner) Configure(sections []Section) *Report {
	report := &Report{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
		Results:   make([]Result, 0, len(sections)),
	}
	logger := p.logger.WithField("runId", report.RunID)
	logger.WithField("records", len(sections)).Info("configuring applications")

	for _, section := range sections {
		report.Results = append(report.Results, p.configureSection(logger, section))
	}

	report.EndTime = time.Now()
	logger.WithFields(logrus.Fields(p.metrics.fields())).Info(report.Summary())
	return report
}

func (p *Provisioner) configureSection(logger log.FieldLogger, section Section) (result Result) {
	p.metrics.inc(MetricRecords)
	logger = logger.WithField("section", section.Name)
	result = Result{Section: section.Name, Outcome: Succeeded}
	step := StepParse

	exception.Block{
		Try: func() {
			p.configureRecord(logger, section, &result, &step)
		},
		Catch: func(err error) {
			logger.
				WithField("appId", result.ApplicationID).
				WithError(err).
				Critical("unexpected failure configuring application")
			result.fail(Failed, step, ErrUnexpectedFailure.FormatErrorWithCause(err, section.Name))
		},
		Finally: func() {
			if result.Err != nil {
				p.metrics.inc(MetricFailures)
			}
		},
	}.Do()
	return result
}

// configureRecord - step is kept current so a recovered panic can name where it happened
func (p *Provisioner) configureRecord(logger log.FieldLogger, section Section, result *Result, step *Step) {
	logger.WithField("keys", len(section.Keys)).Debug("parsing application record")
	record, err := ParseRecord(section)
	if err != nil {
		logger.WithError(err).Critical("skipping application record")
		result.fail(Skipped, StepParse, err)
		return
	}
	result.ApplicationName = record.Application.Name
	if record.Assignment.Kind != AssignNone {
		result.Assignment = record.Assignment.Kind.String() + " " + record.Assignment.Identity
	}

	app := record.Application
	logger = logger.WithField("app", app.Name)
	logger.WithField("type", app.Type).Debug("creating application")
	*step = StepCreate
	id, err := p.client.CreateApplication(app)
	if err != nil {
		logger.WithError(err).Critical("failed to create application")
		result.fail(Failed, StepCreate, err)
		return
	}
	result.ApplicationID = id
	p.metrics.inc(MetricAppsCreated)
	logger = logger.WithField("appId", id)
	logger.Info("application created")

	app.Description += DescriptionMarker
	*step = StepUpdate
	if err := p.client.UpdateApplication(id, app); err != nil {
		logger.WithError(err).Error("failed to update application, continuing with the assignment")
		result.fail(PartiallySucceeded, StepUpdate, err)
	} else {
		p.metrics.inc(MetricAppsUpdated)
	}

	*step = StepAssign
	if err := p.assign(logger, id, record); err != nil {
		result.fail(Failed, StepAssign, err)
	}
}

func (p *Provisioner) assign(logger log.FieldLogger, id string, record Record) error {
	assignment := record.Assignment
	if assignment.Kind == AssignNone {
		logger.Debug("no user or group configured for assignment")
		return nil
	}

	logger = logger.
		WithField(assignment.Kind.String(), assignment.Identity).
		WithField("idp", assignment.IDP)
	if assignment.IDP == "" {
		err := ErrMissingIDP.FormatError(record.Section, assignment.Kind.String()+" "+assignment.Identity)
		logger.WithError(err).Critical("assignment not attempted")
		return err
	}

	var err error
	logger.Debugf("assigning %s to application", assignment.Kind)
	switch assignment.Kind {
	case AssignUser:
		err = p.client.AssignUserToApp(id, assignment.Identity, assignment.IDP, assignment.SSHUsers)
	case AssignGroup:
		err = p.client.AssignGroupToApp(id, assignment.Identity, assignment.IDP, assignment.SSHUsers)
	}
	if err != nil {
		logger.WithError(err).Criticalf("failed to assign %s to application", assignment.Kind)
		return err
	}
	p.metrics.inc(MetricAssignments)
	logger.Infof("%s assigned to application", assignment.Kind)
	return nil
}

// ConfigureApplications - loads the applications file and configures every record in it. The
// completion code is CompletionConfigFail, with a nil report, when the file cannot be read.
func ConfigureApplications(client luminate.Client, path string, opts ...Option) (int, *Report) {
	p := NewProvisioner(client, opts...)

	p.logger.WithField("file", path).Debug("reading applications configuration file")
	sections, err := LoadApplications(path)
	if err != nil {
		p.logger.WithError(err).Critical("failed reading applications configuration file")
		return CompletionConfigFail, nil
	}

	report := p.Configure(sections)
	report.File = path
	return CompletionOK, report
}
