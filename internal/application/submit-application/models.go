// internal/application/submit-application/models.go
package submitapplication

import (
	"fmt"

	apperrors "candidate-intake/internal/common/errors"
	"candidate-intake/internal/models"
)

// Envelope is the JSON body posted to the webhook.
type Envelope struct {
	FormData    models.Record `json:"formData"`
	SubmittedAt string        `json:"submittedAt"`
	UserAgent   string        `json:"userAgent"`
}

// Result is the outcome of one submission. Retries counts the attempts made
// after the first one.
type Result struct {
	Success      bool                     `json:"success"`
	Error        string                   `json:"error,omitempty"`
	Retries      int                      `json:"retries"`
	StatusCode   int                      `json:"statusCode,omitempty"`
	SubmissionID string                   `json:"submissionId,omitempty"`
	Err          *apperrors.StandardError `json:"-"`
}

const (
	MsgNotConfigured = "Webhook URL not configured. Please contact support."
	MsgPreparation   = "Failed to prepare submission data."
	MsgNetwork       = "Network error. Please check your connection and try again."
	MsgExhausted     = "Failed to submit form after multiple attempts."
	MsgBadRequest    = "Invalid form data. Please check your inputs."
	MsgUnauthorized  = "Authorization failed. Please contact support."
	MsgNotFound      = "Submission endpoint not found. Please contact support."
	MsgTooLarge      = "File too large. Please use a smaller CV file."
	MsgRateLimited   = "Too many requests. Please try again later."
	MsgServerError   = "Server error. Please try again later."
)

// MessageForStatus maps an HTTP status to the user-facing message; 0 means
// no response was received.
func MessageForStatus(status int) string {
	switch {
	case status == 0:
		return MsgNetwork
	case status == 400:
		return MsgBadRequest
	case status == 401, status == 403:
		return MsgUnauthorized
	case status == 404:
		return MsgNotFound
	case status == 413:
		return MsgTooLarge
	case status == 429:
		return MsgRateLimited
	case status >= 500 && status < 600:
		return MsgServerError
	default:
		return fmt.Sprintf("Submission failed (Error %d). Please try again.", status)
	}
}
