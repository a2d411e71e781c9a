// internal/application/step-validator/validator.go
package stepvalidator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	schemaregistry "candidate-intake/internal/application/schema-registry"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/common/observability"
	"candidate-intake/internal/models"
)

type Validator struct {
	logger logger.Logger
	obs    *observability.Observability
}

func New(log logger.Logger, obs *observability.Observability) *Validator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Validator{
		logger: log.WithFields(map[string]interface{}{"component": "step-validator"}),
		obs:    obs,
	}
}

// ValidateStep validates the step's fields of record. Invalid input is
// reported in Result.Errors; an internal fault is reported as a single
// form-level entry, never as a Go error or panic.
func (v *Validator) ValidateStep(ctx context.Context, step int, record models.Record) (result Result) {
	start := time.Now()
	ctx, span := v.obs.StartSpan(ctx, "stepvalidator.ValidateStep", attribute.Int("step", step))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation panicked", map[string]interface{}{
				"step":  step,
				"panic": fmt.Sprint(r),
			})
			result = faultResult()
		}
		v.record(ctx, step, result, time.Since(start))
		if !result.IsValid {
			span.SetStatus(codes.Error, "invalid")
		}
	}()

	schema, err := schemaregistry.SchemaFor(step, record)
	if err != nil {
		v.logger.Error("failed to resolve schema", map[string]interface{}{
			"step":  step,
			"error": err,
		})
		return faultResult()
	}

	// absent fields are projected as nil so required rules still run
	projection := make(models.Record, len(schema.Fields))
	for _, field := range FieldsForStep(step) {
		projection[field] = record[field]
	}

	errs := ErrorMap{}
	data := models.Record{}
	for _, rule := range schema.Fields {
		value, ok := projection[rule.Field]
		if !ok {
			continue
		}
		normalized, msg, err := rule.Evaluate(ctx, value)
		if err != nil {
			v.logger.Error("rule evaluation failed", map[string]interface{}{
				"step":  step,
				"field": rule.Field,
				"error": err,
			})
			return faultResult()
		}
		if msg != "" {
			errs[rule.Field] = msg
			continue
		}
		data[rule.Field] = normalized
	}

	if len(errs) > 0 {
		return Result{IsValid: false, Errors: errs, Data: data}
	}
	return Result{IsValid: true, Data: data}
}

// ValidateAll validates steps 1 through 4 in order and merges the errors.
func (v *Validator) ValidateAll(ctx context.Context, record models.Record) Result {
	merged := ErrorMap{}
	data := models.Record{}
	for step := 1; step <= schemaregistry.TotalSteps; step++ {
		r := v.ValidateStep(ctx, step, record)
		merged = merged.Merge(r.Errors)
		for k, val := range r.Data {
			data[k] = val
		}
	}

	if len(merged) > 0 {
		return Result{IsValid: false, Errors: merged, Data: data}
	}
	return Result{IsValid: true, Data: data}
}

func faultResult() Result {
	return Result{IsValid: false, Errors: ErrorMap{FormErrorKey: GenericFailureMessage}}
}

func (v *Validator) record(ctx context.Context, step int, result Result, duration time.Duration) {
	outcome := "valid"
	if !result.IsValid {
		outcome = "invalid"
	}
	if _, fault := result.Errors[FormErrorKey]; fault {
		outcome = "error"
	}

	metrics.StepValidations.WithLabelValues(strconv.Itoa(step), outcome).Inc()
	for field := range result.Errors {
		metrics.FieldErrors.WithLabelValues(field).Inc()
	}
	v.obs.RecordValidation(ctx, step, result.IsValid, duration)

	v.logger.Debug("step validated", map[string]interface{}{
		"step":       step,
		"isValid":    result.IsValid,
		"errorCount": len(result.Errors),
		"durationMs": duration.Milliseconds(),
	})
}
