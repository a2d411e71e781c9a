// internal/application/wizard/wizard.go
package wizard

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	formstate "candidate-intake/internal/application/form-state"
	stepvalidator "candidate-intake/internal/application/step-validator"
	submitapplication "candidate-intake/internal/application/submit-application"
	apperrors "candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/models"
)

const (
	SingleErrorFallback = "Please fix the error in the form."
	SuccessMessage      = "Application submitted. Thank you!"
)

// Wizard drives step navigation, step validation and the final submission
// over a shared form state.
type Wizard struct {
	state     *formstate.State
	validator Validator
	submitter Submitter
	drafts    DraftStore
	notifier  Notifier
	logger    logger.Logger

	mu              sync.Mutex
	current         int
	statuses        map[int]StepStatus
	errors          stepvalidator.ErrorMap
	submission      SubmissionStatus
	submissionError string
}

func New(state *formstate.State, validator Validator, submitter Submitter, drafts DraftStore, notifier Notifier, log logger.Logger) *Wizard {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	statuses := make(map[int]StepStatus, TotalSteps)
	for step := 1; step <= TotalSteps; step++ {
		statuses[step] = StepUntouched
	}
	return &Wizard{
		state:      state,
		validator:  validator,
		submitter:  submitter,
		drafts:     drafts,
		notifier:   notifier,
		logger:     log.WithFields(map[string]interface{}{"component": "wizard"}),
		current:    1,
		statuses:   statuses,
		errors:     stepvalidator.ErrorMap{},
		submission: SubmissionIdle,
	}
}

func (w *Wizard) Current() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Wizard) IsFirstStep() bool { return w.Current() == 1 }

func (w *Wizard) IsLastStep() bool { return w.Current() == TotalSteps }

// Progress is the current step as a percentage of all steps.
func (w *Wizard) Progress() float64 {
	return float64(w.Current()) / TotalSteps * 100
}

func (w *Wizard) StepStatus(step int) StepStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.statuses[step]
}

// Errors returns a copy of the field errors currently shown.
func (w *Wizard) Errors() stepvalidator.ErrorMap {
	w.mu.Lock()
	defer w.mu.Unlock()
	return stepvalidator.ErrorMap{}.Merge(w.errors)
}

// Submission reports the submission status and its error message.
func (w *Wizard) Submission() (SubmissionStatus, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submission, w.submissionError
}

// Next validates the current step and advances when it passes. It reports
// whether the step was valid; the last step is validated but not left.
func (w *Wizard) Next(ctx context.Context) bool {
	step := w.Current()
	if !w.ValidateStep(ctx, step) {
		return false
	}

	w.mu.Lock()
	if w.current == step && w.current < TotalSteps {
		w.current++
	}
	w.mu.Unlock()
	return true
}

func (w *Wizard) Previous() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current > 1 {
		w.current--
	}
}

// GoTo jumps to step without validating; out-of-range steps are ignored.
func (w *Wizard) GoTo(step int) bool {
	if step < 1 || step > TotalSteps {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = step
	return true
}

// ValidateStep re-validates one step: the step's previous errors are
// cleared first, normalised values are written back to the state and the
// new errors are merged over the remaining ones.
func (w *Wizard) ValidateStep(ctx context.Context, step int) bool {
	w.mu.Lock()
	w.errors.Clear(stepvalidator.FieldsForStep(step)...)
	w.errors.Clear(stepvalidator.FormErrorKey)
	w.statuses[step] = StepValidating
	w.mu.Unlock()

	result := w.validator.ValidateStep(ctx, step, w.state.Snapshot())
	w.applyNormalized(result.Data)

	w.mu.Lock()
	w.errors = w.errors.Merge(result.Errors)
	if result.IsValid {
		w.statuses[step] = StepValid
	} else {
		w.statuses[step] = StepInvalid
	}
	w.mu.Unlock()

	if !result.IsValid {
		w.notifyErrors(result.Errors)
	}
	return result.IsValid
}

// ValidateAll clears every error and validates steps 1 to 4.
func (w *Wizard) ValidateAll(ctx context.Context) bool {
	w.mu.Lock()
	w.errors = stepvalidator.ErrorMap{}
	for step := 1; step <= TotalSteps; step++ {
		w.statuses[step] = StepValidating
	}
	w.mu.Unlock()

	result := w.validator.ValidateAll(ctx, w.state.Snapshot())
	w.applyNormalized(result.Data)

	w.mu.Lock()
	w.errors = w.errors.Merge(result.Errors)
	_, fault := result.Errors[stepvalidator.FormErrorKey]
	for step := 1; step <= TotalSteps; step++ {
		status := StepValid
		if fault {
			status = StepInvalid
		}
		for _, f := range stepvalidator.FieldsForStep(step) {
			if _, bad := result.Errors[f]; bad {
				status = StepInvalid
				break
			}
		}
		w.statuses[step] = status
	}
	w.mu.Unlock()

	if !result.IsValid {
		w.notifyErrors(result.Errors)
	}
	return result.IsValid
}

// Submit validates every step and hands the record to the submitter. Only
// one submission may be in flight. A validation failure returns a
// FIELD_VALIDATION_FAILED error and leaves the wizard on its current step.
func (w *Wizard) Submit(ctx context.Context) (submitapplication.Result, error) {
	w.mu.Lock()
	if w.submission == SubmissionSubmitting {
		w.mu.Unlock()
		return submitapplication.Result{}, apperrors.NewSubmissionInProgressError()
	}
	w.submission = SubmissionSubmitting
	w.submissionError = ""
	w.mu.Unlock()

	if !w.ValidateAll(ctx) {
		errs := w.Errors()
		w.setSubmission(SubmissionIdle, "")
		return submitapplication.Result{}, apperrors.NewFieldValidationError(firstInvalidStep(errs), len(errs))
	}

	result := w.submitter.Submit(ctx, w.state.Snapshot())
	if !result.Success {
		w.logger.Warn("submission failed", map[string]interface{}{
			"error":   result.Error,
			"retries": result.Retries,
		})
		w.setSubmission(SubmissionError, result.Error)
		w.notifier.Error(result.Error)
		return result, nil
	}

	if w.drafts != nil {
		if err := w.drafts.Clear(ctx); err != nil {
			w.logger.Error("failed to clear draft after submission", map[string]interface{}{"error": err})
		}
	}
	w.setSubmission(SubmissionSuccess, "")
	w.notifier.Success(SuccessMessage)
	w.logger.Info("application submitted", map[string]interface{}{
		"retries":      result.Retries,
		"submissionId": result.SubmissionID,
	})
	return result, nil
}

// Retry re-submits after a failed submission.
func (w *Wizard) Retry(ctx context.Context) (submitapplication.Result, error) {
	return w.Submit(ctx)
}

// GoBack leaves the error view and returns to the form; answers are kept.
func (w *Wizard) GoBack() {
	w.setSubmission(SubmissionIdle, "")
}

func (w *Wizard) setSubmission(status SubmissionStatus, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submission = status
	w.submissionError = message
}

// applyNormalized writes back values the validator changed, such as a
// lowercased email.
func (w *Wizard) applyNormalized(data models.Record) {
	changes := models.Record{}
	for field, value := range data {
		current, ok := w.state.Get(field)
		if value == nil || (ok && reflect.DeepEqual(current, value)) {
			continue
		}
		if field == models.FieldCV {
			if _, isList := current.(models.AttachmentList); !isList {
				continue
			}
		}
		changes[field] = value
	}
	if len(changes) > 0 {
		w.state.SetMany(changes)
	}
}

// notifyErrors shows one message for a single error and a count otherwise.
func (w *Wizard) notifyErrors(errs stepvalidator.ErrorMap) {
	switch len(errs) {
	case 0:
		return
	case 1:
		for _, msg := range errs {
			if msg == "" {
				msg = SingleErrorFallback
			}
			w.notifier.Error(msg)
		}
	default:
		w.notifier.Error(AggregateMessage(len(errs)))
	}
}

// AggregateMessage is the summary shown when several fields are invalid.
func AggregateMessage(count int) string {
	return fmt.Sprintf("%d fields need to be fixed. Please review the form.", count)
}

func firstInvalidStep(errs stepvalidator.ErrorMap) int {
	for step := 1; step <= TotalSteps; step++ {
		for _, f := range stepvalidator.FieldsForStep(step) {
			if _, ok := errs[f]; ok {
				return step
			}
		}
	}
	return 0
}
