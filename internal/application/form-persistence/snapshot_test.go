package formpersistence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-intake/internal/models"
)

func TestEncodeSnapshot_ReplacesAttachmentWithMetadata(t *testing.T) {
	modTime := time.UnixMilli(1700000000123)
	record := models.Record{
		models.FieldName: "Ana",
		models.FieldCV:   models.NewAttachment("cv.pdf", "application/pdf", 2048, modTime, nil),
		models.FieldMBTI: nil,
	}

	data, err := EncodeSnapshot(record)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"nome": "Ana",
		"cv_metadata": {"filename": "cv.pdf", "size": 2048, "lastModified": 1700000000123}
	}`, string(data))
}

func TestEncodeSnapshot_DropsStaleMetadataWithoutAttachment(t *testing.T) {
	record := models.Record{
		models.FieldName:       "Ana",
		models.FieldCVMetadata: models.AttachmentMetadata{Filename: "old.pdf"},
	}

	data, err := EncodeSnapshot(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nome":"Ana"}`, string(data))
}

func TestDecodeSnapshot(t *testing.T) {
	data := []byte(`{
		"nome": "Ana",
		"techs": ["go", "python"],
		"cv": {"anything": true},
		"cv_metadata": {"filename": "cv.pdf", "size": 10, "lastModified": 5}
	}`)

	record, meta, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, models.Record{
		models.FieldName:  "Ana",
		models.FieldTechs: []string{"go", "python"},
	}, record)
	require.NotNil(t, meta)
	assert.Equal(t, models.AttachmentMetadata{Filename: "cv.pdf", Size: 10, LastModified: 5}, *meta)
}

func TestDecodeSnapshot_SkipsNullValues(t *testing.T) {
	data := []byte(`{
		"nome": "Ana",
		"whatsapp": null,
		"techs": null,
		"cv_metadata": null
	}`)

	record, meta, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, models.Record{models.FieldName: "Ana"}, record)
	assert.Nil(t, meta)
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{nome:`},
		{"array", `["nome"]`},
		{"wrong field type", `{"nome": 42}`},
		{"techs not strings", `{"techs": [1, 2]}`},
		{"metadata incomplete", `{"cv_metadata": {"filename": "cv.pdf"}}`},
		{"negative size", `{"cv_metadata": {"filename": "cv.pdf", "size": -1, "lastModified": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeSnapshot([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSnapshot_RoundTripStep1(t *testing.T) {
	record := models.Record{
		models.FieldName:     "Ana Souza",
		models.FieldEmail:    "ana@example.com",
		models.FieldWhatsApp: "+5511999999999",
		models.FieldLinkedIn: "https://www.linkedin.com/in/ana",
		models.FieldLocation: "São Paulo, SP, Brasil",
		models.FieldCV:       models.NewAttachment("cv.pdf", "application/pdf", 99, time.UnixMilli(42), nil),
	}

	data, err := EncodeSnapshot(record)
	require.NoError(t, err)
	restored, meta, err := DecodeSnapshot(data)
	require.NoError(t, err)

	want := record.Clone()
	delete(want, models.FieldCV)
	assert.Equal(t, want, restored)
	assert.Equal(t, &models.AttachmentMetadata{Filename: "cv.pdf", Size: 99, LastModified: 42}, meta)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, models.FieldCV)
}
