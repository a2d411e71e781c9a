// internal/application/wizard/models.go
package wizard

import (
	"context"

	stepvalidator "candidate-intake/internal/application/step-validator"
	submitapplication "candidate-intake/internal/application/submit-application"
	"candidate-intake/internal/models"
)

const TotalSteps = 4

type StepStatus string

const (
	StepUntouched  StepStatus = "untouched"
	StepValidating StepStatus = "validating"
	StepValid      StepStatus = "valid"
	StepInvalid    StepStatus = "invalid"
)

type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSuccess    SubmissionStatus = "success"
	SubmissionError      SubmissionStatus = "error"
)

var stepTitles = map[int]string{
	1: "About You",
	2: "Your Experience",
	3: "How You Work",
	4: "Availability",
}

// Title returns the heading of step, or "" for an unknown step.
func Title(step int) string {
	return stepTitles[step]
}

type Validator interface {
	ValidateStep(ctx context.Context, step int, record models.Record) stepvalidator.Result
	ValidateAll(ctx context.Context, record models.Record) stepvalidator.Result
}

type Submitter interface {
	Submit(ctx context.Context, record models.Record) submitapplication.Result
}

// DraftStore is the part of the persistence adapter the wizard needs.
type DraftStore interface {
	Clear(ctx context.Context) error
}

// Notifier is the toast sink.
type Notifier interface {
	Error(message string)
	Success(message string)
}

type nopNotifier struct{}

func (nopNotifier) Error(string)   {}
func (nopNotifier) Success(string) {}
