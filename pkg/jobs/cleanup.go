// Package jobs runs the orphaned-blob compensation workers. When a
// submission fails after one or more uploads already landed in the blob
// store, the orchestrator hands the stranded objects here for best-effort
// remote deletion instead of blocking the request on a rollback.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talentdesk/intake-api/pkg/storage"
)

// CleanupTask identifies one stranded blob to remove.
type CleanupTask struct {
	ObjectID string
	Kind     storage.Kind
	Reason   string
	Attempt  int
	Enqueued time.Time
}

// CleanupConfig tunes the worker pool.
type CleanupConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// CleanupQueue deletes stranded blobs in the background with bounded
// retries. Failures past the retry limit are logged and dropped; a
// periodic reconciliation against the metadata table is the fallback.
type CleanupQueue struct {
	store      storage.BlobStore
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	tasks   chan CleanupTask
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewCleanupQueue builds a queue deleting from the provided blob store.
func NewCleanupQueue(store storage.BlobStore, cfg CleanupConfig) *CleanupQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 8
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &CleanupQueue{
		store:      store,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		tasks:      make(chan CleanupTask, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call once.
func (q *CleanupQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Infow("cleanup queue started", "workers", q.workers)
}

// Stop cancels workers and waits for them to exit.
func (q *CleanupQueue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Sugar().Infow("cleanup queue stopped")
}

// Enqueue schedules a stranded blob for deletion. Never blocks the
// submission path: a full buffer drops the task with a log line.
func (q *CleanupQueue) Enqueue(task CleanupTask) error {
	q.mu.Lock()
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("cleanup queue not started")
	}
	if task.Enqueued.IsZero() {
		task.Enqueued = time.Now().UTC()
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		q.logger.Sugar().Errorw("cleanup buffer full, dropping task",
			"object_id", task.ObjectID, "reason", task.Reason)
		return fmt.Errorf("cleanup buffer full")
	}
}

func (q *CleanupQueue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case task := <-q.tasks:
			if err := q.store.Delete(q.ctx, task.ObjectID, task.Kind); err != nil {
				q.handleFailure(task, err)
				continue
			}
			q.logger.Sugar().Infow("stranded blob removed",
				"object_id", task.ObjectID, "reason", task.Reason, "attempt", task.Attempt)
		}
	}
}

func (q *CleanupQueue) handleFailure(task CleanupTask, err error) {
	task.Attempt++
	if task.Attempt > q.maxRetries {
		q.logger.Sugar().Errorw("cleanup exceeded retries",
			"object_id", task.ObjectID, "reason", task.Reason, "error", err)
		return
	}
	q.logger.Sugar().Warnw("cleanup failed, retrying",
		"object_id", task.ObjectID, "attempt", task.Attempt, "error", err)

	go func(t CleanupTask) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			return
		case <-timer.C:
			select {
			case q.tasks <- t:
			default:
				q.logger.Sugar().Errorw("failed to requeue cleanup task", "object_id", t.ObjectID)
			}
		}
	}(task)
}
