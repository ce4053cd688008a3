package provisioning

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	report := &Report{}
	assert.Nil(t, report.Err())
	assert.Equal(t, "0 records: 0 succeeded, 0 partially succeeded, 0 failed, 0 skipped", report.Summary())

	createErr := errors.New("create failed")
	updateErr := errors.New("update failed")

	ok := Result{Section: "ok", Outcome: Succeeded}
	partial := Result{Section: "partial", Outcome: Succeeded}
	partial.fail(PartiallySucceeded, StepUpdate, updateErr)
	failed := Result{Section: "failed", Outcome: Succeeded}
	failed.fail(Failed, StepCreate, createErr)
	report.Results = []Result{ok, partial, failed}

	assert.Equal(t, 1, report.Count(Succeeded))
	assert.Equal(t, 1, report.Count(Failed))
	assert.Equal(t, 0, report.Count(Skipped))
	assert.Len(t, report.Failures(), 2)
	assert.Equal(t, "3 records: 1 succeeded, 1 partially succeeded, 1 failed, 0 skipped", report.Summary())

	err := report.Err()
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, createErr))
	assert.True(t, errors.Is(err, updateErr))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "partial: update failed")
}

func TestResultJSON(t *testing.T) {
	result := Result{Section: "web1", ApplicationID: "abc123", Outcome: Succeeded}
	result.fail(Failed, StepAssign, errors.New("no such idp"))

	data, err := json.Marshal(result)
	require.Nil(t, err)
	assert.JSONEq(t, `{
		"section": "web1",
		"applicationId": "abc123",
		"outcome": "failed",
		"failedStep": "assign",
		"error": "no such idp"
	}`, string(data))
}
