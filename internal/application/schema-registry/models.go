// internal/application/schema-registry/models.go
package schemaregistry

import (
	"context"
	"regexp"
)

// Variant names the shape a step schema was resolved to.
type Variant string

const (
	VariantStatic            Variant = "static"
	VariantTechnicalRequired Variant = "technical-required"
	VariantTechnicalOptional Variant = "technical-optional"
)

// CheckFunc is a pure predicate over a single field value. An error means
// the rule could not be evaluated, not that the value is invalid.
type CheckFunc func(ctx context.Context, value interface{}) (bool, error)

// Rule pairs a check with the message reported when it fails.
type Rule struct {
	Name    string
	Message string
	Check   CheckFunc
}

// FieldRule is the ordered rule chain for one field. Transform runs before
// the rules and its result is what the rules see and what is reported as
// the field's normalised value.
type FieldRule struct {
	Field     string
	Transform func(value interface{}) interface{}
	Rules     []Rule
}

// Schema is an ordered, read-only set of field rules for one step.
type Schema struct {
	Step    int
	Variant Variant
	Fields  []FieldRule
}

// Field looks up the rule chain for name.
func (s *Schema) Field(name string) (FieldRule, bool) {
	for _, f := range s.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldRule{}, false
}

// Evaluate runs the chain and stops at the first failing rule. message is
// empty when every rule passed.
func (f FieldRule) Evaluate(ctx context.Context, value interface{}) (normalized interface{}, message string, err error) {
	normalized = value
	if f.Transform != nil {
		normalized = f.Transform(value)
	}

	for _, rule := range f.Rules {
		if err := ctx.Err(); err != nil {
			return normalized, "", err
		}
		ok, err := rule.Check(ctx, normalized)
		if err != nil {
			return normalized, "", err
		}
		if !ok {
			return normalized, rule.Message, nil
		}
	}
	return normalized, "", nil
}

const (
	MaxAttachmentSize  = 5 * 1024 * 1024
	AcceptedAttachment = "application/pdf"
	MaxTechs           = 15
	MaxHourlyRate      = 999999
)

// Predefined patterns
var (
	phoneRegex      = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	mbtiRegex       = regexp.MustCompile(`^[IE][NS][TF][JP]$`)
	discRegex       = regexp.MustCompile(`^[DISC]{1,4}$`)
	enneagramRegex  = regexp.MustCompile(`^[1-9]w?[0-9]?$`)
	enneagramWing   = regexp.MustCompile(`^([1-9])(w([0-9]))?$`)
	hourlyRateRegex = regexp.MustCompile(`^(R\$\s)?\d{1,3}(\.\d{3})*(,\d{2})?$`)
)
