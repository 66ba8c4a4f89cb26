package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/sync"
)

// Tasks is the GORM-backed deferred task queue.
type Tasks struct {
	db *gorm.DB
}

// NewTasks creates a task store.
func NewTasks(db *gorm.DB) *Tasks {
	return &Tasks{db: db}
}

// Enqueue schedules a task for immediate pickup. Duplicate pending tasks for
// the same entity and type are collapsed into one.
func (s *Tasks) Enqueue(taskType models.TaskType, entityID string) error {
	var count int64
	err := s.db.Model(&models.SyncTask{}).
		Where("task_type = ? AND entity_id = ? AND status = ?", taskType, entityID, models.TaskPending).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	task := models.SyncTask{
		TaskType:    taskType,
		EntityID:    entityID,
		Status:      models.TaskPending,
		MaxRetries:  sync.DefaultMaxRetries,
		ScheduledAt: time.Now().UTC(),
	}
	return s.db.Create(&task).Error
}

// DuePending returns pending tasks whose scheduled time has passed, oldest
// first.
func (s *Tasks) DuePending(limit int) ([]models.SyncTask, error) {
	var tasks []models.SyncTask
	err := s.db.
		Where("status = ? AND scheduled_at <= ?", models.TaskPending, time.Now().UTC()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// MarkProcessing claims a pending task. The status guard makes the claim
// safe against a second dispatcher polling the same rows.
func (s *Tasks) MarkProcessing(t *models.SyncTask) error {
	res := s.db.Model(t).
		Where("status = ?", models.TaskPending).
		Update("status", models.TaskProcessing)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	t.Status = models.TaskProcessing
	return nil
}

func (s *Tasks) MarkDone(t *models.SyncTask) error {
	now := time.Now().UTC()
	t.Status = models.TaskDone
	t.ProcessedAt = &now
	return s.db.Model(t).Updates(map[string]interface{}{
		"status":       models.TaskDone,
		"processed_at": now,
	}).Error
}

// MarkRetry returns the task to pending with an incremented retry count and
// a later scheduled time.
func (s *Tasks) MarkRetry(t *models.SyncTask, runAt time.Time, errMsg string) error {
	t.Status = models.TaskPending
	t.RetryCount++
	t.ScheduledAt = runAt
	t.ErrorMessage = &errMsg
	return s.db.Model(t).Updates(map[string]interface{}{
		"status":        models.TaskPending,
		"retry_count":   t.RetryCount,
		"scheduled_at":  runAt,
		"error_message": errMsg,
	}).Error
}

func (s *Tasks) MarkFailed(t *models.SyncTask, errMsg string) error {
	now := time.Now().UTC()
	t.Status = models.TaskFailed
	t.RetryCount++
	t.ProcessedAt = &now
	t.ErrorMessage = &errMsg
	return s.db.Model(t).Updates(map[string]interface{}{
		"status":        models.TaskFailed,
		"retry_count":   t.RetryCount,
		"processed_at":  now,
		"error_message": errMsg,
	}).Error
}
