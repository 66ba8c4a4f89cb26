package store

import (
	"log"

	"gorm.io/gorm"

	"github.com/eduboutique/storefront/internal/models"
)

// Audit persists the append-only Odoo RPC audit trail. A failed audit write
// is logged and swallowed so it can never fail the sync operation itself.
type Audit struct {
	db *gorm.DB
}

// NewAudit creates an audit recorder.
func NewAudit(db *gorm.DB) *Audit {
	return &Audit{db: db}
}

func (a *Audit) Record(entry *models.OdooSyncLog) {
	if err := a.db.Create(entry).Error; err != nil {
		log.Printf("⚠️ Failed to write sync log entry (%s %s): %v", entry.Operation, entry.Model, err)
	}
}

// Recent returns the newest audit entries, paged.
func (a *Audit) Recent(limit, offset int) ([]models.OdooSyncLog, int64, error) {
	var total int64
	if err := a.db.Model(&models.OdooSyncLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.OdooSyncLog
	err := a.db.Order("synced_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
