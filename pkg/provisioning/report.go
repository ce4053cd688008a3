package provisioning

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Outcome - how far a record got
type Outcome string

// Outcomes
const (
	Succeeded          Outcome = "succeeded"
	PartiallySucceeded Outcome = "partially succeeded"
	Failed             Outcome = "failed"
	Skipped            Outcome = "skipped"
)

// Step - the stage of a record a failure happened in
type Step string

// Steps
const (
	StepParse  Step = "parse"
	StepCreate Step = "create"
	StepUpdate Step = "update"
	StepAssign Step = "assign"
)

// Result - the outcome of one record
type Result struct {
	Section         string  `json:"section"`
	ApplicationName string  `json:"applicationName,omitempty"`
	ApplicationID   string  `json:"applicationId,omitempty"`
	Assignment      string  `json:"assignment,omitempty"`
	Outcome         Outcome `json:"outcome"`
	FailedStep      Step    `json:"failedStep,omitempty"`
	Err             error   `json:"-"`
	Error           string  `json:"error,omitempty"`
}

func (r *Result) fail(outcome Outcome, step Step, err error) {
	r.Outcome = outcome
	r.FailedStep = step
	r.Err = err
	r.Error = err.Error()
}

// Report - the results of one run, in record order
type Report struct {
	RunID     string    `json:"runId"`
	File      string    `json:"file,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Results   []Result  `json:"results"`
}

// Count - the number of results with the outcome
func (r *Report) Count(outcome Outcome) int {
	count := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			count++
		}
	}
	return count
}

// Failures - every result that carries an error, partial successes included
func (r *Report) Failures() []Result {
	failures := make([]Result, 0)
	for _, result := range r.Results {
		if result.Err != nil {
			failures = append(failures, result)
		}
	}
	return failures
}

// Err - all record errors combined, nil when every record succeeded
func (r *Report) Err() error {
	var result *multierror.Error
	for _, failure := range r.Failures() {
		result = multierror.Append(result, fmt.Errorf("%s: %w", failure.Section, failure.Err))
	}
	return result.ErrorOrNil()
}

// Summary - a one line description of the run
func (r *Report) Summary() string {
	return fmt.Sprintf("%d records: %d succeeded, %d partially succeeded, %d failed, %d skipped",
		len(r.Results),
		r.Count(Succeeded),
		r.Count(PartiallySucceeded),
		r.Count(Failed),
		r.Count(Skipped),
	)
}
