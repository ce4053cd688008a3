package template

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
)

// DefaultBody - the email body used when none is configured
const DefaultBody = `<p>Luminate provisioning run {{.RunID}} of {{.File}}</p>
<p>{{.Summary}}</p>
<table>
<tr><th>Section</th><th>Application</th><th>Id</th><th>Outcome</th><th>Step</th><th>Error</th></tr>
{{range .Results}}<tr><td>{{.Section}}</td><td>{{.Application}}</td><td>{{.ApplicationID}}</td><td>{{.Outcome}}</td><td>{{.Step}}</td><td>{{.Error}}</td></tr>
{{end}}</table>
<p>Started {{.StartTime}}, finished {{.EndTime}}</p>`

// ReportTemplate - the run data available to an email template
type ReportTemplate struct {
	RunID     string
	File      string
	Summary   string
	StartTime string
	EndTime   string
	Results   []ResultTemplate
}

// ResultTemplate - one record of the run
type ResultTemplate struct {
	Section       string
	Application   string
	ApplicationID string
	Outcome       string
	Step          string
	Error         string
}

// ValidateBody - parses the body and executes it against an empty report
func ValidateBody(body string) error {
	_, err := Render(body, ReportTemplate{Results: []ResultTemplate{{}}})
	return err
}

// Render - executes the body, an empty body renders DefaultBody
func Render(body string, data ReportTemplate) (string, error) {
	if body == "" {
		body = DefaultBody
	}

	t, err := template.New("reportTemplate").Parse(body)
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	err = t.Execute(&rendered, data)

	// "template: reportTemplate:1:9: executing "reportTemplate" at <.Foo>: can't evaluate field Foo in type template.ReportTemplate"
	if err != nil {
		errString := err.Error()
		indexCantEvaluate := strings.Index(errString, "can't evaluate")
		indexInType := strings.Index(errString, "in type")
		if indexCantEvaluate > 0 && indexInType > indexCantEvaluate {
			errString = errString[indexCantEvaluate:indexInType] + "for SMTP template : " + body
		}
		return "", errors.New(errString)
	}

	return rendered.String(), nil
}
