package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDefaultBody(t *testing.T) {
	body, err := Render("", ReportTemplate{
		RunID:   "run-1",
		File:    "conf/luminate.applications",
		Summary: "1 records: 0 succeeded, 0 partially succeeded, 1 failed, 0 skipped",
		Results: []ResultTemplate{
			{Section: "web1", Application: "web1", Outcome: "failed", Step: "create", Error: "status 500: <html>"},
		},
	})
	assert.Nil(t, err)
	assert.Contains(t, body, "run-1")
	assert.Contains(t, body, "<td>web1</td>")
	assert.Contains(t, body, "status 500: &lt;html&gt;")
}

func TestRenderCustomBody(t *testing.T) {
	body, err := Render("run {{.RunID}}: {{len .Results}} records", ReportTemplate{RunID: "run-2", Results: []ResultTemplate{{}, {}}})
	assert.Nil(t, err)
	assert.Equal(t, "run run-2: 2 records", body)
}

func TestValidateBody(t *testing.T) {
	assert.Nil(t, ValidateBody(""))
	assert.Nil(t, ValidateBody("{{range .Results}}{{.Section}}{{end}}"))

	err := ValidateBody("{{.Unknown}}")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "can't evaluate field Unknown")
	assert.Contains(t, err.Error(), "for SMTP template")

	assert.NotNil(t, ValidateBody("{{.RunID"))
}
