package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{0, true},
		{408, true},
		{429, true},
		{500, true},
		{503, true},
		{599, true},
		{400, false},
		{401, false},
		{404, false},
		{413, false},
		{302, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableStatus(tt.status))
		})
	}
}

func TestNewTransportError_Classification(t *testing.T) {
	transient := NewTransportError(503, "Server error. Please try again later.", nil)
	assert.Equal(t, ErrCodeTransportTransient, transient.Code)
	assert.True(t, transient.Retryable)
	assert.Equal(t, 503, transient.StatusCode)

	terminal := NewTransportError(400, "Invalid form data. Please check your inputs.", fmt.Errorf("bad request"))
	assert.Equal(t, ErrCodeTransportTerminal, terminal.Code)
	assert.False(t, terminal.Retryable)
	assert.Equal(t, "bad request", terminal.Details)
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	std := NewConfigurationError("Webhook URL not configured. Please contact support.", "")
	wrapped := fmt.Errorf("submit: %w", std)
	require.Same(t, std, Normalize(wrapped))

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("wrap: %w", NewTransportError(0, "network", nil))))
	assert.False(t, IsRetryable(NewTransportError(404, "not found", nil)))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeConfiguration))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeFieldValidationFailed))
	assert.Equal(t, "PAYLOAD", GetErrorCategory(ErrCodePayloadPreparation))
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeTransportTerminal))
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeRetriesExhausted))
	assert.Equal(t, "PERSISTENCE", GetErrorCategory(ErrCodeSnapshotCorrupted))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
