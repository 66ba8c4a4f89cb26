package sync

import (
	"fmt"
	"log"
	"time"

	"github.com/eduboutique/storefront/internal/models"
)

// Default retry discipline for deferred sync tasks.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultBackoff      = 60 * time.Second
	DefaultMaxRetries   = 3
	claimBatchSize      = 20
)

// TaskStore is the persistence surface of the deferred task queue.
type TaskStore interface {
	Enqueue(taskType models.TaskType, entityID string) error
	DuePending(limit int) ([]models.SyncTask, error)
	MarkProcessing(t *models.SyncTask) error
	MarkDone(t *models.SyncTask) error
	MarkRetry(t *models.SyncTask, runAt time.Time, errMsg string) error
	MarkFailed(t *models.SyncTask, errMsg string) error
}

// Handler executes one task type against the entity's local id.
type Handler func(entityID string) error

// Dispatcher drains the deferred task queue. Failed tasks are retried with
// a fixed backoff until their retry budget is exhausted; the engines
// themselves never retry.
type Dispatcher struct {
	store    TaskStore
	handlers map[models.TaskType]Handler
	interval time.Duration
	backoff  time.Duration
	stop     chan struct{}
}

// NewDispatcher creates a dispatcher with the default poll and backoff.
func NewDispatcher(store TaskStore) *Dispatcher {
	return &Dispatcher{
		store:    store,
		handlers: make(map[models.TaskType]Handler),
		interval: DefaultPollInterval,
		backoff:  DefaultBackoff,
		stop:     make(chan struct{}),
	}
}

// Register binds a handler to a task type. Must be called before Start.
func (d *Dispatcher) Register(taskType models.TaskType, h Handler) {
	d.handlers[taskType] = h
}

// Start begins draining the queue in a background goroutine.
func (d *Dispatcher) Start() {
	go func() {
		log.Println("📬 Sync task dispatcher started")

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.RunOnce()
			case <-d.stop:
				log.Println("🛑 Sync task dispatcher stopped")
				return
			}
		}
	}()
}

// Stop halts the dispatcher.
func (d *Dispatcher) Stop() {
	close(d.stop)
}

// RunOnce claims and executes one batch of due tasks.
func (d *Dispatcher) RunOnce() {
	tasks, err := d.store.DuePending(claimBatchSize)
	if err != nil {
		log.Printf("🔴 Task queue poll failed: %v", err)
		return
	}

	for i := range tasks {
		d.runTask(&tasks[i])
	}
}

func (d *Dispatcher) runTask(t *models.SyncTask) {
	h, ok := d.handlers[t.TaskType]
	if !ok {
		if err := d.store.MarkFailed(t, fmt.Sprintf("no handler for task type %q", t.TaskType)); err != nil {
			log.Printf("🔴 Failed to mark task %d failed: %v", t.ID, err)
		}
		return
	}

	if err := d.store.MarkProcessing(t); err != nil {
		log.Printf("🔴 Failed to claim task %d: %v", t.ID, err)
		return
	}

	err := h(t.EntityID)
	if err == nil {
		if err := d.store.MarkDone(t); err != nil {
			log.Printf("🔴 Failed to mark task %d done: %v", t.ID, err)
		}
		return
	}

	attempts := t.RetryCount + 1
	if attempts >= t.MaxRetries {
		log.Printf("🔴 Task %d (%s %s) failed permanently after %d attempts: %v",
			t.ID, t.TaskType, t.EntityID, attempts, err)
		if markErr := d.store.MarkFailed(t, err.Error()); markErr != nil {
			log.Printf("🔴 Failed to mark task %d failed: %v", t.ID, markErr)
		}
		return
	}

	runAt := time.Now().UTC().Add(d.backoff)
	log.Printf("⚠️ Task %d (%s %s) failed, retry %d/%d at %s: %v",
		t.ID, t.TaskType, t.EntityID, attempts, t.MaxRetries, runAt.Format(time.RFC3339), err)
	if markErr := d.store.MarkRetry(t, runAt, err.Error()); markErr != nil {
		log.Printf("🔴 Failed to reschedule task %d: %v", t.ID, markErr)
	}
}
