// cmd/intake/fill.go
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"candidate-intake/internal/application/collaborators"
	formstate "candidate-intake/internal/application/form-state"
	stepvalidator "candidate-intake/internal/application/step-validator"
	"candidate-intake/internal/application/wizard"
	apperrors "candidate-intake/internal/common/errors"
	"candidate-intake/internal/models"
)

type questionKind int

const (
	kindText questionKind = iota
	kindChoice
	kindList
	kindLocation
	kindPhone
	kindFile
)

type question struct {
	label   string
	kind    questionKind
	options []string
}

var questions = map[string]question{
	models.FieldName:     {label: "Full name"},
	models.FieldEmail:    {label: "Email"},
	models.FieldWhatsApp: {label: "WhatsApp", kind: kindPhone},
	models.FieldLinkedIn: {label: "LinkedIn profile URL"},
	models.FieldLocation: {label: "Location", kind: kindLocation},

	models.FieldExpPython: {label: "Python experience", kind: kindChoice, options: models.PythonExperienceValues},
	models.FieldExpLLM:    {label: "LLM experience", kind: kindChoice, options: models.LLMExperienceValues},
	models.FieldRAGLevel:  {label: "How well do you know RAG?", kind: kindChoice, options: models.RAGKnowledgeValues},
	models.FieldTechs:     {label: "Technologies (comma separated)", kind: kindList},
	models.FieldGitHub:    {label: "GitHub profile URL"},
	models.FieldProject:   {label: "Project you are proud of (optional URL)"},
	models.FieldCV:        {label: "Path to your CV (PDF, max 5MB)", kind: kindFile},

	models.FieldMBTI:            {label: "MBTI (optional, e.g. INTJ)"},
	models.FieldDISC:            {label: "DISC (optional, e.g. DI)"},
	models.FieldEnneagram:       {label: "Enneagram (optional, e.g. 5w4)"},
	models.FieldMotivation:      {label: "Why this role?"},
	models.FieldLearning:        {label: "Something you learned recently"},
	models.FieldSolvedProblem:   {label: "A hard problem you solved"},
	models.FieldChunking:        {label: "How would you choose a chunking strategy?"},
	models.FieldDebugging:       {label: "How would you debug poor retrieval?"},
	models.FieldEvaluation:      {label: "How would you evaluate a RAG pipeline?"},
	models.FieldFailureLearning: {label: "Tell us about a failure and what it taught you"},

	models.FieldHoursPerWeek: {label: "Hours per week", kind: kindChoice, options: models.HoursPerWeekValues},
	models.FieldAvailability: {label: "When can you start?", kind: kindChoice, options: models.StartAvailabilityValues},
	models.FieldHourlyRate:   {label: "Hourly rate (e.g. R$ 150,00)"},
	models.FieldComments:     {label: "Anything else? (optional)"},
}

// filler walks the wizard interactively over a prompter.
type filler struct {
	in        *prompter
	state     *formstate.State
	wizard    *wizard.Wizard
	locations collaborators.LocationDirectory
	phones    collaborators.PhoneFormatter
	saved     *models.AttachmentMetadata
}

// run returns nil when the application was submitted or the candidate chose
// to leave; answers stay in the draft either way.
func (f *filler) run(ctx context.Context) error {
	fmt.Fprintln(f.in.out, "Type :back to return to the previous step or :quit to save and leave.")

	var only []string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := f.wizard.Current()
		fmt.Fprintf(f.in.out, "\n── Step %d of %d: %s (%.0f%%) ──\n", step, wizard.TotalSteps, wizard.Title(step), f.wizard.Progress())

		err := f.askStep(step, only)
		switch {
		case errors.Is(err, errBack):
			f.wizard.Previous()
			only = nil
			continue
		case errors.Is(err, errQuit):
			fmt.Fprintln(f.in.out, "\nYour answers are saved. Run fill again to continue.")
			return nil
		case err != nil:
			return err
		}

		if !f.wizard.Next(ctx) {
			only = f.invalidFields(step)
			continue
		}
		only = nil
		if step < wizard.TotalSteps {
			continue
		}

		done, err := f.submit(ctx)
		if err != nil || done {
			return err
		}
	}
}

// askStep prompts for the step's fields, or just those in only when set.
func (f *filler) askStep(step int, only []string) error {
	fields := only
	if len(fields) == 0 {
		fields = f.visibleFields(step)
	}
	errs := f.wizard.Errors()
	for _, field := range fields {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(f.in.out, "  ! %s\n", msg)
		}
		if err := f.ask(field); err != nil {
			return err
		}
	}
	return nil
}

func (f *filler) visibleFields(step int) []string {
	fields := stepvalidator.FieldsForStep(step)
	if step != 3 {
		return fields
	}
	rag, _ := f.state.Get(models.FieldRAGLevel)
	if models.ShowTechnicalQuestions(fmt.Sprint(rag)) {
		return fields
	}

	technical := map[string]bool{}
	for _, field := range models.TechnicalQuestionFields {
		technical[field] = true
	}
	out := fields[:0]
	for _, field := range fields {
		if !technical[field] {
			out = append(out, field)
		}
	}
	return out
}

func (f *filler) invalidFields(step int) []string {
	errs := f.wizard.Errors()
	var out []string
	for _, field := range stepvalidator.FieldsForStep(step) {
		if _, ok := errs[field]; ok {
			out = append(out, field)
		}
	}
	return out
}

func (f *filler) ask(field string) error {
	q, ok := questions[field]
	if !ok {
		return nil
	}
	current := f.currentText(field)

	switch q.kind {
	case kindChoice:
		value, err := f.in.choose(q.label, q.options, current)
		if err != nil {
			return err
		}
		f.state.Set(field, value)

	case kindList:
		value, err := f.in.line(q.label, current)
		if err != nil {
			return err
		}
		f.state.Set(field, splitList(value))

	case kindPhone:
		value, err := f.in.line(q.label, current)
		if err != nil {
			return err
		}
		if formatted, fmtErr := f.phones.Format(value); fmtErr == nil {
			value = formatted
		}
		f.state.Set(field, value)

	case kindLocation:
		return f.askLocation(q.label, current)

	case kindFile:
		return f.askAttachment(field, q.label)

	default:
		value, err := f.in.line(q.label, current)
		if err != nil {
			return err
		}
		f.state.Set(field, value)
	}
	return nil
}

func (f *filler) currentText(field string) string {
	v, ok := f.state.Get(field)
	if !ok || v == nil {
		return ""
	}
	switch tv := v.(type) {
	case string:
		return tv
	case []string:
		return strings.Join(tv, ", ")
	default:
		return fmt.Sprint(tv)
	}
}

func (f *filler) askLocation(label, current string) error {
	if current != "" {
		change, err := f.in.confirm(fmt.Sprintf("%s: %s. Change it?", label, current))
		if err != nil || !change {
			return err
		}
	}

	country, err := f.in.choose("Country", f.locations.Countries(), "")
	if err != nil {
		return err
	}
	region, err := f.in.choose("State / region", f.locations.Regions(country), "")
	if err != nil {
		return err
	}
	city, err := f.in.choose("City", f.locations.Cities(country, region), "")
	if err != nil {
		return err
	}

	location, err := collaborators.ComposeLocation(city, region, country)
	if err != nil {
		f.state.Set(models.FieldLocation, "")
		return nil
	}
	f.state.Set(models.FieldLocation, location)
	return nil
}

func (f *filler) askAttachment(field, label string) error {
	current := ""
	if cv := models.NormalizeAttachment(f.stateValue(field)); cv != nil {
		current = cv.Name
	} else if f.saved != nil {
		fmt.Fprintf(f.in.out, "  Previously selected %s (%d bytes). Please select it again.\n", f.saved.Filename, f.saved.Size)
	}

	for {
		path, err := f.in.line(label, current)
		if err != nil {
			return err
		}
		if path == "" || path == current {
			return nil
		}
		cv, err := models.NewAttachmentFromFile(path)
		if err != nil {
			fmt.Fprintf(f.in.out, "  ! %v\n", err)
			continue
		}
		f.state.Set(field, cv)
		return nil
	}
}

func (f *filler) stateValue(field string) interface{} {
	v, _ := f.state.Get(field)
	return v
}

// submit reports true once there is nothing left to do in this session.
func (f *filler) submit(ctx context.Context) (bool, error) {
	fmt.Fprintln(f.in.out, "\nSubmitting your application...")
	result, err := f.wizard.Submit(ctx)

	for {
		if err != nil {
			stdErr := apperrors.Normalize(err)
			if step, ok := stdErr.Metadata["step"].(int); ok && stdErr.Code == apperrors.ErrCodeFieldValidationFailed {
				f.wizard.GoTo(step)
				return false, nil
			}
			return false, err
		}
		if result.Success {
			fmt.Fprintf(f.in.out, "Reference: %s\n", result.SubmissionID)
			return true, nil
		}

		choice, chooseErr := f.in.choose("The submission failed. What now?", []string{"retry", "back to the form", "leave"}, "")
		if errors.Is(chooseErr, errBack) {
			choice = "back to the form"
		} else if chooseErr != nil && !errors.Is(chooseErr, errQuit) {
			return false, chooseErr
		}
		switch choice {
		case "retry":
			fmt.Fprintln(f.in.out, "Retrying...")
			result, err = f.wizard.Retry(ctx)
		case "back to the form":
			f.wizard.GoBack()
			return false, nil
		default:
			fmt.Fprintln(f.in.out, "Your answers are saved. Run fill again to continue.")
			return true, nil
		}
	}
}
