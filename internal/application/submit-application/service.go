// internal/application/submit-application/service.go
package submitapplication

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "candidate-intake/internal/common/errors"
	httpclient "candidate-intake/internal/common/http"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/common/observability"
	"candidate-intake/internal/models"
)

const (
	SubmissionIDHeader = "X-Submission-Id"
	timestampLayout    = "2006-01-02T15:04:05.000Z07:00"
)

// Poster is the transport the service posts through.
type Poster interface {
	PostJSON(ctx context.Context, url string, body []byte, headers map[string]string) (*httpclient.Response, error)
}

type Service struct {
	config *Config
	client Poster
	logger logger.Logger
	obs    *observability.Observability

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithSleep replaces the backoff wait.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) { s.sleep = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func WithObservability(obs *observability.Observability) Option {
	return func(s *Service) { s.obs = obs }
}

func NewService(config *Config, client Poster, log logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if client == nil {
		client = httpclient.NewClient(config.Timeout)
	}
	s := &Service{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "submit-application"}),
		sleep:  sleepContext,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit posts record to the webhook, retrying transient failures with
// exponential backoff. It never returns a Go error: every failure is
// reported through Result.
func (s *Service) Submit(ctx context.Context, record models.Record) Result {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, "submitapplication.Submit")
	defer span.End()

	metrics.SubmissionsInFlight.Inc()
	defer metrics.SubmissionsInFlight.Dec()

	result := s.submit(ctx, record)

	outcome, code := "success", ""
	if !result.Success {
		outcome = "failure"
		if result.Err != nil {
			code = string(result.Err.Code)
		}
		span.SetStatus(codes.Error, result.Error)
	}
	span.SetAttributes(
		attribute.Bool("success", result.Success),
		attribute.Int("retries", result.Retries),
		attribute.String("submission_id", result.SubmissionID),
	)
	metrics.Submissions.WithLabelValues(outcome, code).Inc()
	metrics.SubmissionDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	s.obs.RecordSubmission(ctx, result.Success, result.Retries, time.Since(start))

	return result
}

func (s *Service) submit(ctx context.Context, record models.Record) Result {
	if s.config.WebhookURL == "" {
		s.logger.Error("webhook URL not configured", nil)
		return Result{
			Success: false,
			Error:   MsgNotConfigured,
			Err:     apperrors.NewConfigurationError(MsgNotConfigured, "submission.webhook_url is empty"),
		}
	}

	envelope := s.prepareEnvelope(record)
	body, err := json.Marshal(envelope)
	if err != nil {
		prepErr := apperrors.NewPayloadPreparationError("envelope", err)
		s.logger.Error("failed to encode submission", map[string]interface{}{"error": prepErr.Error()})
		return Result{Success: false, Error: MsgPreparation, Err: prepErr}
	}

	submissionID := s.newID()
	headers := map[string]string{
		SubmissionIDHeader: submissionID,
		"User-Agent":       s.config.UserAgent,
	}
	log := s.logger.WithFields(map[string]interface{}{"submissionId": submissionID})

	var lastErr *apperrors.StandardError
	attempt := 0
	for ; attempt <= s.config.MaxRetries; attempt++ {
		status, cause := s.post(ctx, body, headers)
		metrics.SubmissionAttempts.WithLabelValues(metrics.StatusClass(status)).Inc()

		if cause == nil && status >= 200 && status < 300 {
			log.Info("submission delivered", map[string]interface{}{
				"status":  status,
				"retries": attempt,
				"bytes":   len(body),
			})
			return Result{Success: true, Retries: attempt, StatusCode: status, SubmissionID: submissionID}
		}

		lastErr = apperrors.NewTransportError(status, MessageForStatus(status), cause)
		log.Warn("submission attempt failed", map[string]interface{}{
			"attempt":   attempt + 1,
			"status":    status,
			"retryable": lastErr.Retryable,
			"error":     lastErr.Error(),
		})

		if !lastErr.Retryable || attempt == s.config.MaxRetries {
			break
		}

		delay := s.config.InitialDelay * time.Duration(1<<attempt)
		log.Info("retrying submission", map[string]interface{}{
			"nextRetryIn": delay.String(),
			"attempt":     attempt + 1,
			"maxRetries":  s.config.MaxRetries,
		})
		if err := s.sleep(ctx, delay); err != nil {
			log.Warn("submission cancelled during backoff", map[string]interface{}{"error": err})
			break
		}
	}

	result := Result{Success: false, Retries: attempt, SubmissionID: submissionID}
	if attempt > s.config.MaxRetries {
		result.Retries = s.config.MaxRetries
	}
	if lastErr == nil {
		result.Error = MsgExhausted
		result.Err = apperrors.NewRetriesExhaustedError(MsgExhausted, result.Retries)
		return result
	}

	result.Error = lastErr.Message
	result.StatusCode = lastErr.StatusCode
	result.Err = lastErr
	if lastErr.Retryable {
		result.Err = apperrors.NewRetriesExhaustedError(lastErr.Message, result.Retries)
		result.Err.StatusCode = lastErr.StatusCode
	}
	log.Error("submission failed", map[string]interface{}{
		"retries": result.Retries,
		"code":    string(result.Err.Code),
		"status":  lastErr.StatusCode,
	})
	return result
}

// post returns status 0 with a cause when no response was received.
func (s *Service) post(ctx context.Context, body []byte, headers map[string]string) (int, error) {
	resp, err := s.client.PostJSON(ctx, s.config.WebhookURL, body, headers)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// prepareEnvelope copies record, inlining the attachment as base64. An
// attachment that cannot be read is dropped and the submission continues.
func (s *Service) prepareEnvelope(record models.Record) Envelope {
	formData := record.Clone()
	delete(formData, models.FieldCVMetadata)

	if att := models.NormalizeAttachment(formData[models.FieldCV]); att != nil {
		payload, err := EncodeAttachment(att)
		if err != nil {
			s.logger.Warn("dropping attachment from submission", map[string]interface{}{
				"error": apperrors.NewPayloadPreparationError("cv", err).Error(),
			})
			delete(formData, models.FieldCV)
		} else {
			formData[models.FieldCV] = payload
		}
	} else {
		delete(formData, models.FieldCV)
	}

	return Envelope{
		FormData:    formData,
		SubmittedAt: s.now().UTC().Format(timestampLayout),
		UserAgent:   s.config.UserAgent,
	}
}

// EncodeAttachment reads the attachment content into its transport form.
func EncodeAttachment(att *models.Attachment) (*models.AttachmentPayload, error) {
	rc, err := att.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if _, err := io.Copy(enc, rc); err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode attachment: %w", err)
	}

	return &models.AttachmentPayload{
		Filename:    att.Name,
		Size:        att.Size,
		MimeType:    att.MimeType,
		EncodedData: buf.String(),
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
