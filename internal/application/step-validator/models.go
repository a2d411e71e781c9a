// internal/application/step-validator/models.go
package stepvalidator

import "candidate-intake/internal/models"

// FormErrorKey holds a form-level message that belongs to no single field.
const FormErrorKey = "_form"

const GenericFailureMessage = "Validation could not be completed. Please try again."

// ErrorMap is field name → message, at most one message per field.
type ErrorMap map[string]string

// Merge returns a new map with other layered over m; other wins on conflict.
func (m ErrorMap) Merge(other ErrorMap) ErrorMap {
	out := make(ErrorMap, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Clear removes the given fields in place.
func (m ErrorMap) Clear(fields ...string) {
	for _, f := range fields {
		delete(m, f)
	}
}

// Fields lists the keys in step order where known, form-level key last.
func (m ErrorMap) Fields() []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for step := 1; step <= 4; step++ {
		for _, f := range FieldsForStep(step) {
			if _, ok := m[f]; ok {
				out = append(out, f)
				seen[f] = true
			}
		}
	}
	for k := range m {
		if !seen[k] && k != FormErrorKey {
			out = append(out, k)
		}
	}
	if _, ok := m[FormErrorKey]; ok {
		out = append(out, FormErrorKey)
	}
	return out
}

// Result is the validator output contract. Data carries the normalised
// values of the fields that passed and is not part of the wire form.
type Result struct {
	IsValid bool          `json:"isValid"`
	Errors  ErrorMap      `json:"errors,omitempty"`
	Data    models.Record `json:"-"`
}

var stepFields = map[int][]string{
	1: {
		models.FieldName,
		models.FieldEmail,
		models.FieldWhatsApp,
		models.FieldLinkedIn,
		models.FieldLocation,
	},
	2: {
		models.FieldExpPython,
		models.FieldExpLLM,
		models.FieldRAGLevel,
		models.FieldTechs,
		models.FieldGitHub,
		models.FieldProject,
		models.FieldCV,
	},
	3: {
		models.FieldMBTI,
		models.FieldDISC,
		models.FieldEnneagram,
		models.FieldMotivation,
		models.FieldLearning,
		models.FieldSolvedProblem,
		models.FieldChunking,
		models.FieldDebugging,
		models.FieldEvaluation,
		models.FieldFailureLearning,
	},
	4: {
		models.FieldHoursPerWeek,
		models.FieldAvailability,
		models.FieldHourlyRate,
		models.FieldComments,
	},
}

// FieldsForStep returns a copy of the step's field list; unknown steps yield nil.
func FieldsForStep(step int) []string {
	fields, ok := stepFields[step]
	if !ok {
		return nil
	}
	return append([]string(nil), fields...)
}
