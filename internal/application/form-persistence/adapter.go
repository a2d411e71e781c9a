// internal/application/form-persistence/adapter.go
package formpersistence

import (
	"context"
	"errors"
	"sync"
	"time"

	formstate "candidate-intake/internal/application/form-state"
	apperrors "candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/models"
)

const (
	DefaultDebounce = 1000 * time.Millisecond
	writeTimeout    = 5 * time.Second
)

// Adapter mirrors form state into a Store. Changes are debounced: each
// change cancels the pending write and schedules a new one, so a burst of
// edits produces a single write of the latest record.
type Adapter struct {
	store    Store
	logger   logger.Logger
	debounce time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	generation  uint64
	pending     models.Record
	inflight    models.Record // taken by a timer fire, not yet stored
	inflightGen uint64
	unsubscribe func()
	closed      bool

	// serialises store writes between timer fires and Flush
	writeMu sync.Mutex
}

func NewAdapter(store Store, debounce time.Duration, log logger.Logger) *Adapter {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Adapter{
		store:    store,
		debounce: debounce,
		logger: log.WithFields(map[string]interface{}{
			"component": "form-persistence",
			"backend":   store.Backend(),
		}),
	}
}

// Restore hydrates state from the saved snapshot, skipping the attachment.
// A snapshot that cannot be parsed is cleared and restore reports nothing.
// The returned metadata describes the attachment selected before, if any.
func (a *Adapter) Restore(ctx context.Context, state *formstate.State) (*models.AttachmentMetadata, error) {
	record, meta, err := a.load(ctx)
	if err != nil || record == nil {
		return nil, err
	}

	if len(record) > 0 {
		state.SetMany(record)
	}
	a.logger.Info("draft restored", map[string]interface{}{
		"fields":        len(record),
		"hasAttachment": meta != nil,
	})
	return meta, nil
}

// HasSaved reports whether a parseable snapshot exists.
func (a *Adapter) HasSaved(ctx context.Context) (bool, error) {
	record, _, err := a.load(ctx)
	if err != nil {
		return false, err
	}
	return record != nil, nil
}

// SavedAttachmentMetadata returns the attachment metadata of the saved
// snapshot, or nil.
func (a *Adapter) SavedAttachmentMetadata(ctx context.Context) (*models.AttachmentMetadata, error) {
	_, meta, err := a.load(ctx)
	return meta, err
}

// load returns a nil record when there is no usable snapshot.
func (a *Adapter) load(ctx context.Context) (models.Record, *models.AttachmentMetadata, error) {
	data, err := a.store.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperrors.NewSnapshotStoreError("load", err)
	}

	record, meta, err := DecodeSnapshot(data)
	if err != nil {
		a.logger.Warn("discarding corrupted draft", map[string]interface{}{
			"error": apperrors.NewSnapshotCorruptedError(err).Error(),
		})
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			return nil, nil, apperrors.NewSnapshotStoreError("clear", clearErr)
		}
		return nil, nil, nil
	}
	return record, meta, nil
}

// Attach subscribes to state changes. Calling Attach again replaces the
// previous subscription.
func (a *Adapter) Attach(state *formstate.State) {
	unsubscribe := state.Subscribe(func(snapshot models.Record, _ []string) {
		a.schedule(snapshot)
	})

	a.mu.Lock()
	previous := a.unsubscribe
	a.unsubscribe = unsubscribe
	a.closed = false
	a.mu.Unlock()

	if previous != nil {
		previous()
	}
}

func (a *Adapter) schedule(snapshot models.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.generation++
	gen := a.generation
	a.pending = snapshot
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() { a.fire(gen) })
}

func (a *Adapter) fire(gen uint64) {
	a.mu.Lock()
	// a newer change, Flush, Clear or Close superseded this timer
	if gen != a.generation || a.closed || a.pending == nil {
		a.mu.Unlock()
		return
	}
	record := a.pending
	a.pending = nil
	a.inflight = record
	a.inflightGen = gen
	a.timer = nil
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := a.write(ctx, record, &gen); err != nil {
		a.logger.Error("failed to save draft", map[string]interface{}{"error": err})
	}

	a.mu.Lock()
	if a.inflightGen == gen {
		a.inflight = nil
	}
	a.mu.Unlock()
}

// cancelPending drops any scheduled write and returns the newest record not
// yet stored. A record already taken by a timer fire counts: that fire's
// write is superseded by the generation bump and will not store it.
func (a *Adapter) cancelPending() models.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	record := a.pending
	if record == nil {
		record = a.inflight
	}
	a.pending = nil
	a.inflight = nil
	return record
}

// Pending reports whether a debounced write is scheduled.
func (a *Adapter) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil || a.inflight != nil
}

// Flush writes a scheduled snapshot immediately.
func (a *Adapter) Flush(ctx context.Context) error {
	record := a.cancelPending()
	if record == nil {
		return nil
	}
	return a.write(ctx, record, nil)
}

// Save writes record immediately, superseding any scheduled write.
func (a *Adapter) Save(ctx context.Context, record models.Record) error {
	a.cancelPending()
	return a.write(ctx, record, nil)
}

// Clear drops the pending write and the saved snapshot.
func (a *Adapter) Clear(ctx context.Context) error {
	a.cancelPending()

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if err := a.store.Clear(ctx); err != nil {
		return apperrors.NewSnapshotStoreError("clear", err)
	}
	a.logger.Info("draft cleared", nil)
	return nil
}

// Close cancels any pending write and stops observing state.
func (a *Adapter) Close() error {
	a.cancelPending()

	a.mu.Lock()
	a.closed = true
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return nil
}

// write stores record. A non-nil gen makes the write conditional on no
// newer change, Flush, Clear or Close having happened since it was taken.
func (a *Adapter) write(ctx context.Context, record models.Record, gen *uint64) error {
	data, err := EncodeSnapshot(record)
	if err != nil {
		metrics.SnapshotWrites.WithLabelValues(a.store.Backend(), "encode_error").Inc()
		return apperrors.NewSnapshotStoreError("encode", err)
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if gen != nil && !a.isCurrent(*gen) {
		return nil
	}
	if err := a.store.Save(ctx, data); err != nil {
		metrics.SnapshotWrites.WithLabelValues(a.store.Backend(), "error").Inc()
		return apperrors.NewSnapshotStoreError("save", err)
	}

	metrics.SnapshotWrites.WithLabelValues(a.store.Backend(), "ok").Inc()
	a.logger.Debug("draft saved", map[string]interface{}{"bytes": len(data)})
	return nil
}

func (a *Adapter) isCurrent(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return gen == a.generation && !a.closed
}
