// internal/application/form-persistence/snapshot.go
package formpersistence

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"candidate-intake/internal/models"
)

// StorageKey is the default snapshot slot name.
const StorageKey = "ai-engineer-form-draft"

var snapshotSchema = gojsonschema.NewGoLoader(buildSnapshotSchema())

func buildSnapshotSchema() map[string]interface{} {
	properties := map[string]interface{}{
		models.FieldTechs: map[string]interface{}{
			"type":  []string{"array", "null"},
			"items": map[string]interface{}{"type": "string"},
		},
		models.FieldCVMetadata: map[string]interface{}{
			"type":     []string{"object", "null"},
			"required": []string{"filename", "size", "lastModified"},
			"properties": map[string]interface{}{
				"filename":     map[string]interface{}{"type": "string"},
				"size":         map[string]interface{}{"type": "integer", "minimum": 0},
				"lastModified": map[string]interface{}{"type": "integer"},
			},
		},
	}
	for _, f := range []string{
		models.FieldName, models.FieldEmail, models.FieldWhatsApp, models.FieldLinkedIn, models.FieldLocation,
		models.FieldExpPython, models.FieldExpLLM, models.FieldRAGLevel, models.FieldGitHub, models.FieldProject,
		models.FieldMBTI, models.FieldDISC, models.FieldEnneagram, models.FieldMotivation, models.FieldLearning,
		models.FieldSolvedProblem, models.FieldChunking, models.FieldDebugging, models.FieldEvaluation,
		models.FieldFailureLearning, models.FieldHoursPerWeek, models.FieldAvailability, models.FieldHourlyRate,
		models.FieldComments,
	} {
		properties[f] = map[string]interface{}{"type": []string{"string", "null"}}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

// EncodeSnapshot serialises record without the raw attachment. When an
// attachment is present its metadata is stored under cv_metadata instead.
// Nil values are omitted.
func EncodeSnapshot(record models.Record) ([]byte, error) {
	out := make(map[string]interface{}, len(record)+1)
	for k, v := range record {
		if v == nil || k == models.FieldCV || k == models.FieldCVMetadata {
			continue
		}
		out[k] = v
	}
	if att := record.Attachment(); att != nil {
		out[models.FieldCVMetadata] = att.Metadata()
	}
	return json.Marshal(out)
}

// DecodeSnapshot parses and structurally checks a snapshot. The returned
// record never contains cv, cv_metadata or null values.
func DecodeSnapshot(data []byte) (models.Record, *models.AttachmentMetadata, error) {
	result, err := gojsonschema.Validate(snapshotSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, nil, fmt.Errorf("snapshot does not match schema: %s", strings.Join(msgs, "; "))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}

	var meta struct {
		CV *models.AttachmentMetadata `json:"cv_metadata"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot metadata: %w", err)
	}

	record := make(models.Record, len(raw))
	for k, v := range raw {
		if v == nil || k == models.FieldCV || k == models.FieldCVMetadata {
			continue
		}
		if list, ok := v.([]interface{}); ok && k == models.FieldTechs {
			techs := make([]string, 0, len(list))
			for _, item := range list {
				techs = append(techs, item.(string))
			}
			v = techs
		}
		record[k] = v
	}
	return record, meta.CV, nil
}
