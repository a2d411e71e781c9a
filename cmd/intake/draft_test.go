package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidate-intake/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func TestLoadDraft(t *testing.T) {
	dir := t.TempDir()
	draft := writeFile(t, dir, "draft.json", `{
		"nome": "Ana Souza",
		"techs": ["go", "python"],
		"cv_metadata": {"filename": "old.pdf", "size": 10, "lastModified": 0}
	}`)
	cv := writeFile(t, dir, "cv.pdf", samplePDF)

	record, err := loadDraft(draft, cv)
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", record[models.FieldName])
	assert.Equal(t, []string{"go", "python"}, record[models.FieldTechs])
	assert.NotContains(t, record, models.FieldCVMetadata)

	att := record.Attachment()
	require.NotNil(t, att)
	assert.Equal(t, "cv.pdf", att.Name)
	assert.Equal(t, "application/pdf", att.MimeType)
}

func TestLoadDraft_WithoutCV(t *testing.T) {
	draft := writeFile(t, t.TempDir(), "draft.json", `{"email": "ana@example.com"}`)

	record, err := loadDraft(draft, "")
	require.NoError(t, err)
	assert.Nil(t, record.Attachment())
}

func TestLoadDraft_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadDraft(filepath.Join(dir, "missing.json"), "")
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.json", `{"techs": "go"}`)
	_, err = loadDraft(bad, "")
	assert.Error(t, err)

	ok := writeFile(t, dir, "ok.json", `{}`)
	_, err = loadDraft(ok, filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
