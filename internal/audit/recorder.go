package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
)

// Recorder accepts audit records for best-effort persistence. Failures never
// propagate to the caller.
type Recorder interface {
	Record(record domain.AuditRecord)
}

// AsyncRecorder queues records on a buffered channel and drains them into
// the audit store from a background goroutine. Record never blocks: when the
// queue is full the record is dropped and a warning logged.
type AsyncRecorder struct {
	repo    repository.AuditRepository
	logger  *zap.Logger
	queue   chan domain.AuditRecord
	done    chan struct{}
	once    sync.Once
	timeout time.Duration
}

// NewAsyncRecorder starts the drain goroutine.
func NewAsyncRecorder(repo repository.AuditRepository, logger *zap.Logger, queueSize int) *AsyncRecorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &AsyncRecorder{
		repo:    repo,
		logger:  logger,
		queue:   make(chan domain.AuditRecord, queueSize),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}
	go r.drain()
	return r
}

// Record enqueues one audit record. Fire-and-forget: a full queue drops the
// record rather than blocking the request path.
func (r *AsyncRecorder) Record(record domain.AuditRecord) {
	select {
	case r.queue <- record:
	default:
		r.logger.Warn("audit queue full; dropping record", zap.String("action", record.Action))
	}
}

// Close stops accepting records and drains what is already queued.
func (r *AsyncRecorder) Close() {
	r.once.Do(func() {
		close(r.queue)
		<-r.done
	})
}

func (r *AsyncRecorder) drain() {
	defer close(r.done)
	for record := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := r.repo.Append(ctx, &record)
		cancel()
		if err != nil {
			// Best-effort: audit write failures must never fail the
			// triggering operation.
			r.logger.Warn("audit write failed",
				zap.String("action", record.Action),
				zap.Error(err))
		}
	}
}
