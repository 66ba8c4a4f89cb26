package models

import "time"

// TaskType identifies what a queued sync task should do.
type TaskType string

const (
	TaskPushProduct  TaskType = "push_product"
	TaskPushStock    TaskType = "push_stock"
	TaskPushCustomer TaskType = "push_customer"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskDone       = "done"
	TaskFailed     = "failed"
)

// SyncTask is one deferred push-back job. Failed tasks are retried with a
// fixed backoff until MaxRetries is exhausted.
type SyncTask struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TaskType     TaskType   `gorm:"type:varchar(30);not null" json:"task_type"`
	EntityID     string     `gorm:"type:uuid;not null;index" json:"entity_id"`
	Status       string     `gorm:"type:varchar(20);default:'pending';index:idx_due" json:"status"`
	RetryCount   int        `gorm:"default:0" json:"retry_count"`
	MaxRetries   int        `gorm:"default:3" json:"max_retries"`
	ScheduledAt  time.Time  `gorm:"not null;index:idx_due" json:"scheduled_at"`
	ProcessedAt  *time.Time `json:"processed_at"`
	ErrorMessage *string    `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (SyncTask) TableName() string { return "sync_tasks" }
