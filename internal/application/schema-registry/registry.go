// internal/application/schema-registry/registry.go
package schemaregistry

import (
	"fmt"

	"candidate-intake/internal/models"
)

const TotalSteps = 4

const invalidText = "Invalid value - expected text"

// The five schemas are built once and never mutated; step 3 has two
// explicit variants instead of an extension applied at runtime.
var (
	step1Schema         = buildStep1()
	step2Schema         = buildStep2()
	step3OptionalSchema = buildStep3(false)
	step3RequiredSchema = buildStep3(true)
	step4Schema         = buildStep4()
)

// SchemaFor resolves the schema for step. Step 3 depends on the RAG
// knowledge level already present in record.
func SchemaFor(step int, record models.Record) (*Schema, error) {
	switch step {
	case 1:
		return step1Schema, nil
	case 2:
		return step2Schema, nil
	case 3:
		return Step3Schema(models.ShowTechnicalQuestions(record.StringValue(models.FieldRAGLevel))), nil
	case 4:
		return step4Schema, nil
	default:
		return nil, fmt.Errorf("unknown step %d", step)
	}
}

// Step3Schema selects the step 3 variant by discriminant.
func Step3Schema(showTechnical bool) *Schema {
	if showTechnical {
		return step3RequiredSchema
	}
	return step3OptionalSchema
}

func buildStep1() *Schema {
	return &Schema{
		Step:    1,
		Variant: VariantStatic,
		Fields: []FieldRule{
			{Field: models.FieldName, Rules: []Rule{
				isText(invalidText),
				minLength(3, "Name is too short (minimum 3 characters)"),
				maxLength(100, "Name is too long"),
			}},
			{Field: models.FieldEmail, Transform: lowerCase, Rules: []Rule{
				isText(invalidText),
				email("Invalid email"),
			}},
			{Field: models.FieldWhatsApp, Rules: []Rule{
				isText(invalidText),
				optionalPattern(phoneRegex, "Invalid phone number - use the international format (e.g. +55 11 99999-9999)"),
			}},
			{Field: models.FieldLinkedIn, Rules: []Rule{
				isText(invalidText),
				url("Invalid LinkedIn - enter the full URL (https://...)"),
				containsFold("linkedin.com", "URL must be a LinkedIn profile"),
			}},
			{Field: models.FieldLocation, Rules: []Rule{
				isText(invalidText),
				minLength(3, "Location is too short"),
				maxLength(100, "Location is too long"),
				locationParts("Select city, state and country"),
			}},
		},
	}
}

func buildStep2() *Schema {
	return &Schema{
		Step:    2,
		Variant: VariantStatic,
		Fields: []FieldRule{
			enumField(models.FieldExpPython, models.PythonExperienceValues,
				"Please select your Python experience",
				"Invalid value for Python experience"),
			enumField(models.FieldExpLLM, models.LLMExperienceValues,
				"Please select your level with LLMs",
				"Invalid value for LLM level"),
			enumField(models.FieldRAGLevel, models.RAGKnowledgeValues,
				"Please select your RAG knowledge",
				"Invalid value for RAG knowledge"),
			{Field: models.FieldTechs, Transform: stringList, Rules: []Rule{
				maxItems(MaxTechs, fmt.Sprintf("At most %d technologies allowed", MaxTechs)),
			}},
			{Field: models.FieldGitHub, Rules: []Rule{
				isText(invalidText),
				nonEmpty("GitHub is required"),
				url("Invalid GitHub - enter the full URL (https://...)"),
				containsFold("github.com", "URL must be a GitHub profile (e.g. https://github.com/yourprofile)"),
			}},
			{Field: models.FieldProject, Rules: []Rule{
				isText(invalidText),
				optionalURL("Invalid project URL - enter a full URL (https://...)"),
			}},
			{Field: models.FieldCV, Transform: firstAttachment, Rules: []Rule{
				attachmentRequired("CV is required - upload your PDF"),
				attachmentMaxSize(MaxAttachmentSize, "File too large (max 5MB)"),
				attachmentType(AcceptedAttachment, "Only PDF files are accepted"),
			}},
		},
	}
}

func buildStep3(showTechnical bool) *Schema {
	variant := VariantTechnicalOptional
	if showTechnical {
		variant = VariantTechnicalRequired
	}

	fields := []FieldRule{
		{Field: models.FieldMBTI, Rules: []Rule{
			isText(invalidText),
			optionalPattern(mbtiRegex, "Invalid MBTI - expected 4 letters (e.g. INTJ, ENFP)"),
		}},
		{Field: models.FieldDISC, Rules: []Rule{
			isText(invalidText),
			optionalPattern(discRegex, "Invalid DISC - use 1-4 of the letters D, I, S, C (e.g. D, DI, ISC)"),
		}},
		{Field: models.FieldEnneagram, Rules: []Rule{
			isText(invalidText),
			optionalPattern(enneagramRegex, "Invalid enneagram - expected a number 1-9, optionally with a wing (e.g. 5, 5w4)"),
			enneagramAdjacentWing("Invalid enneagram wing - it must be adjacent to the main type (e.g. 5w4, 5w6)"),
		}},
		{Field: models.FieldMotivation, Rules: []Rule{
			isText(invalidText),
			minLength(20, "Too short - tell us a bit more (minimum 20 characters)"),
			maxLength(1000, "Too long (maximum 1000 characters)"),
		}},
		{Field: models.FieldLearning, Rules: []Rule{
			isText(invalidText),
			minLength(20, "Too short - describe your approach (minimum 20 characters)"),
			maxLength(1000, "Too long (maximum 1000 characters)"),
		}},
		optionalText(models.FieldSolvedProblem),
	}

	if !showTechnical {
		for _, f := range models.TechnicalQuestionFields {
			fields = append(fields, optionalText(f))
		}
		return &Schema{Step: 3, Variant: variant, Fields: fields}
	}

	short := map[string]string{
		models.FieldChunking:        "Too short - explain your approach (minimum 20 characters)",
		models.FieldDebugging:       "Too short - describe your process (minimum 20 characters)",
		models.FieldEvaluation:      "Too short - explain the metrics (minimum 20 characters)",
		models.FieldFailureLearning: "Too short - share what you learned (minimum 20 characters)",
	}
	for _, f := range models.TechnicalQuestionFields {
		fields = append(fields, FieldRule{Field: f, Rules: []Rule{
			isText(invalidText),
			minLength(20, short[f]),
			maxLength(1500, "Too long (maximum 1500 characters)"),
		}})
	}
	return &Schema{Step: 3, Variant: variant, Fields: fields}
}

func buildStep4() *Schema {
	return &Schema{
		Step:    4,
		Variant: VariantStatic,
		Fields: []FieldRule{
			enumField(models.FieldHoursPerWeek, models.HoursPerWeekValues,
				"Please select how many hours per week",
				"Invalid value for hours per week"),
			enumField(models.FieldAvailability, models.StartAvailabilityValues,
				"Please select your availability",
				"Invalid value for availability"),
			{Field: models.FieldHourlyRate, Rules: []Rule{
				isText(invalidText),
				optionalPattern(hourlyRateRegex, "Invalid rate - use the Brazilian format: R$ 100,00 or R$ 1.500,50"),
				hourlyRateRange("Rate must be between R$ 0,00 and R$ 999.999,00"),
			}},
			{Field: models.FieldComments, Rules: []Rule{
				isText(invalidText),
				maxLength(1000, "Comments are too long (maximum 1000 characters)"),
			}},
		},
	}
}

func enumField(field string, values []string, emptyMessage, invalidMessage string) FieldRule {
	return FieldRule{Field: field, Rules: []Rule{
		isText(invalidText),
		nonEmpty(emptyMessage),
		oneOf(values, invalidMessage),
	}}
}

func optionalText(field string) FieldRule {
	return FieldRule{Field: field, Rules: []Rule{isText(invalidText)}}
}
