// cmd/intake/draft.go
package main

import (
	"fmt"
	"os"

	formpersistence "candidate-intake/internal/application/form-persistence"
	"candidate-intake/internal/models"
)

// loadDraft reads answers in the saved-draft format. The CV is never part of
// a draft file, so it is attached from cvPath when given.
func loadDraft(path, cvPath string) (models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	record, _, err := formpersistence.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("invalid draft %s: %w", path, err)
	}

	if cvPath != "" {
		cv, err := models.NewAttachmentFromFile(cvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CV: %w", err)
		}
		record[models.FieldCV] = cv
	}
	return record, nil
}
