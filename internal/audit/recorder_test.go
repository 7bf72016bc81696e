package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
)

type capturingAuditRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord

	started chan struct{}
	release chan struct{}
	blocked bool
}

func (r *capturingAuditRepo) Append(_ context.Context, record *domain.AuditRecord) error {
	if r.started != nil && !r.blocked {
		r.blocked = true
		close(r.started)
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *capturingAuditRepo) all() []domain.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditRecord{}, r.records...)
}

func TestAsyncRecorderPersistsRecords(t *testing.T) {
	repo := &capturingAuditRepo{}
	recorder := NewAsyncRecorder(repo, zap.NewNop(), 8)

	recorder.Record(domain.AuditRecord{Action: "login_success"})
	recorder.Record(domain.AuditRecord{Action: "timesheet_submitted"})
	recorder.Close()

	records := repo.all()
	require.Len(t, records, 2)
	assert.Equal(t, "login_success", records[0].Action)
	assert.Equal(t, "timesheet_submitted", records[1].Action)
}

func TestAsyncRecorderDropsWhenQueueFull(t *testing.T) {
	repo := &capturingAuditRepo{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	recorder := NewAsyncRecorder(repo, zap.NewNop(), 1)

	// first record occupies the drain goroutine inside Append
	recorder.Record(domain.AuditRecord{Action: "first"})
	<-repo.started

	// second fills the queue, third has nowhere to go
	recorder.Record(domain.AuditRecord{Action: "second"})
	recorder.Record(domain.AuditRecord{Action: "dropped"})

	close(repo.release)
	recorder.Close()

	records := repo.all()
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Action)
	assert.Equal(t, "second", records[1].Action)
}

func TestAsyncRecorderCloseIsIdempotent(t *testing.T) {
	recorder := NewAsyncRecorder(&capturingAuditRepo{}, zap.NewNop(), 4)
	recorder.Close()
	recorder.Close()
}
