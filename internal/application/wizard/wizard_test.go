package wizard

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formstate "candidate-intake/internal/application/form-state"
	stepvalidator "candidate-intake/internal/application/step-validator"
	submitapplication "candidate-intake/internal/application/submit-application"
	apperrors "candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/observability"
	"candidate-intake/internal/models"
)

type recordingNotifier struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

type fakeSubmitter struct {
	mu      sync.Mutex
	results []submitapplication.Result
	records []models.Record
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeSubmitter) Submit(_ context.Context, record models.Record) submitapplication.Result {
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	idx := len(f.records) - 1
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	return f.results[idx]
}

type fakeDrafts struct {
	clears int
}

func (d *fakeDrafts) Clear(context.Context) error {
	d.clears++
	return nil
}

type fixture struct {
	wizard    *Wizard
	state     *formstate.State
	notifier  *recordingNotifier
	submitter *fakeSubmitter
	drafts    *fakeDrafts
}

func newFixture(t *testing.T, record models.Record, results ...submitapplication.Result) *fixture {
	if len(results) == 0 {
		results = []submitapplication.Result{{Success: true}}
	}
	f := &fixture{
		state:     formstate.New(record),
		notifier:  &recordingNotifier{},
		submitter: &fakeSubmitter{results: results},
		drafts:    &fakeDrafts{},
	}
	validator := stepvalidator.New(logger.NewTestLogger(t), observability.NewNoop())
	f.wizard = New(f.state, validator, f.submitter, f.drafts, f.notifier, logger.NewTestLogger(t))
	return f
}

func completeRecord() models.Record {
	return models.Record{
		models.FieldName:         "Ana Souza",
		models.FieldEmail:        "ANA@EXAMPLE.COM",
		models.FieldLinkedIn:     "https://www.linkedin.com/in/ana",
		models.FieldLocation:     "São Paulo, SP, Brasil",
		models.FieldExpPython:    "3-5",
		models.FieldExpLLM:       "profissional",
		models.FieldRAGLevel:     "nao",
		models.FieldTechs:        []string{"go"},
		models.FieldGitHub:       "https://github.com/ana",
		models.FieldCV:           models.NewAttachment("cv.pdf", "application/pdf", 1024, time.Unix(0, 0), nil),
		models.FieldMotivation:   strings.Repeat("m", 40),
		models.FieldLearning:     strings.Repeat("l", 40),
		models.FieldHoursPerWeek: "15-25",
		models.FieldAvailability: "imediata",
	}
}

// ==========================
// Navigation
// ==========================

func TestWizard_Navigation(t *testing.T) {
	f := newFixture(t, nil)
	w := f.wizard

	assert.Equal(t, 1, w.Current())
	assert.True(t, w.IsFirstStep())
	assert.Equal(t, 25.0, w.Progress())

	w.Previous()
	assert.Equal(t, 1, w.Current())

	assert.True(t, w.GoTo(4))
	assert.True(t, w.IsLastStep())
	assert.Equal(t, 100.0, w.Progress())

	assert.False(t, w.GoTo(5))
	assert.False(t, w.GoTo(0))
	assert.Equal(t, 4, w.Current())

	w.Previous()
	assert.Equal(t, 3, w.Current())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "About You", Title(1))
	assert.Equal(t, "Availability", Title(4))
	assert.Empty(t, Title(7))
}

func TestWizard_NextAdvancesOnlyWhenValid(t *testing.T) {
	f := newFixture(t, models.Record{models.FieldName: "Ana Souza"})
	w := f.wizard

	assert.Equal(t, StepUntouched, w.StepStatus(1))
	assert.False(t, w.Next(context.Background()))
	assert.Equal(t, 1, w.Current())
	assert.Equal(t, StepInvalid, w.StepStatus(1))
	assert.Equal(t, []string{AggregateMessage(3)}, f.notifier.errors)

	f.state.SetMany(models.Record{
		models.FieldEmail:    "ANA@EXAMPLE.COM",
		models.FieldLinkedIn: "https://www.linkedin.com/in/ana",
		models.FieldLocation: "São Paulo, SP, Brasil",
	})
	assert.True(t, w.Next(context.Background()))
	assert.Equal(t, 2, w.Current())
	assert.Equal(t, StepValid, w.StepStatus(1))
	assert.Empty(t, w.Errors())

	email, _ := f.state.Get(models.FieldEmail)
	assert.Equal(t, "ana@example.com", email, "normalised value written back")
}

func TestWizard_SingleErrorShowsItsMessage(t *testing.T) {
	record := completeRecord()
	record[models.FieldLocation] = "São Paulo"
	f := newFixture(t, record)

	assert.False(t, f.wizard.Next(context.Background()))
	assert.Equal(t, []string{"Select city, state and country"}, f.notifier.errors)
}

func TestWizard_RevalidationClearsOnlyThatStep(t *testing.T) {
	record := completeRecord()
	delete(record, models.FieldName)
	record[models.FieldExpPython] = ""
	f := newFixture(t, record)
	w := f.wizard

	w.ValidateStep(context.Background(), 2)
	w.ValidateStep(context.Background(), 1)
	assert.Contains(t, w.Errors(), models.FieldName)
	assert.Contains(t, w.Errors(), models.FieldExpPython)

	f.state.Set(models.FieldName, "Ana Souza")
	assert.True(t, w.ValidateStep(context.Background(), 1))
	assert.NotContains(t, w.Errors(), models.FieldName)
	assert.Contains(t, w.Errors(), models.FieldExpPython)
}

func TestWizard_LastStepDoesNotAdvance(t *testing.T) {
	f := newFixture(t, completeRecord())
	f.wizard.GoTo(4)

	assert.True(t, f.wizard.Next(context.Background()))
	assert.Equal(t, 4, f.wizard.Current())
}

// ==========================
// Submission
// ==========================

func TestWizard_SubmitSuccess(t *testing.T) {
	f := newFixture(t, completeRecord(), submitapplication.Result{Success: true, Retries: 1})

	result, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	status, msg := f.wizard.Submission()
	assert.Equal(t, SubmissionSuccess, status)
	assert.Empty(t, msg)
	assert.Equal(t, 1, f.drafts.clears)
	assert.Equal(t, []string{SuccessMessage}, f.notifier.successes)

	require.Len(t, f.submitter.records, 1)
	assert.Equal(t, "ana@example.com", f.submitter.records[0][models.FieldEmail])
	for step := 1; step <= TotalSteps; step++ {
		assert.Equal(t, StepValid, f.wizard.StepStatus(step))
	}
}

func TestWizard_SubmitValidationFailure(t *testing.T) {
	record := completeRecord()
	record[models.FieldRAGLevel] = "avancado"
	f := newFixture(t, record)

	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeFieldValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "step: 3")
	assert.Equal(t, 3, stdErr.Metadata["step"])

	assert.Empty(t, f.submitter.records)
	assert.Equal(t, 0, f.drafts.clears)
	assert.Equal(t, StepInvalid, f.wizard.StepStatus(3))
	assert.Equal(t, StepValid, f.wizard.StepStatus(2))
	assert.Equal(t, []string{AggregateMessage(4)}, f.notifier.errors)

	status, _ := f.wizard.Submission()
	assert.Equal(t, SubmissionIdle, status)
}

func TestWizard_SubmitFailureThenRetry(t *testing.T) {
	f := newFixture(t, completeRecord(),
		submitapplication.Result{Success: false, Error: "Server error. Please try again later.", Retries: 3},
		submitapplication.Result{Success: true},
	)

	result, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)

	status, msg := f.wizard.Submission()
	assert.Equal(t, SubmissionError, status)
	assert.Equal(t, "Server error. Please try again later.", msg)
	assert.Equal(t, 0, f.drafts.clears, "draft kept after failure")
	assert.Equal(t, []string{"Server error. Please try again later."}, f.notifier.errors)

	result, err = f.wizard.Retry(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, f.drafts.clears)
}

func TestWizard_GoBackKeepsData(t *testing.T) {
	f := newFixture(t, completeRecord(), submitapplication.Result{Success: false, Error: "boom"})

	_, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)

	f.wizard.GoBack()
	status, msg := f.wizard.Submission()
	assert.Equal(t, SubmissionIdle, status)
	assert.Empty(t, msg)
	assert.Equal(t, "Ana Souza", f.state.Snapshot()[models.FieldName])
}

func TestWizard_SubmitGuardsConcurrentSubmission(t *testing.T) {
	f := newFixture(t, completeRecord())
	f.submitter.block = make(chan struct{})
	f.submitter.entered = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.wizard.Submit(context.Background())
	}()

	<-f.submitter.entered
	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSubmissionInProgress, apperrors.Normalize(err).Code)

	close(f.submitter.block)
	<-done

	status, _ := f.wizard.Submission()
	assert.Equal(t, SubmissionSuccess, status)
}
