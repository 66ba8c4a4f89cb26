package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit log operation kinds.
const (
	OpSearch = "search"
	OpRead   = "read"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Audit log directions.
const (
	DirectionToOdoo   = "to_odoo"
	DirectionFromOdoo = "from_odoo"
)

// Audit log statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPending = "pending"
)

// OdooSyncLog is an append-only record of one RPC call against Odoo. Sync
// code only ever inserts rows; pruning is left to an external retention job.
type OdooSyncLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Model        string         `gorm:"type:varchar(100);not null;index" json:"model"`
	RecordID     *int64         `json:"record_id"`
	Operation    string         `gorm:"type:varchar(20);not null" json:"operation"`
	Direction    string         `gorm:"type:varchar(20);not null" json:"direction"`
	Status       string         `gorm:"type:varchar(20);not null;index" json:"status"`
	RequestData  datatypes.JSON `gorm:"type:jsonb" json:"request_data"`
	ResponseData datatypes.JSON `gorm:"type:jsonb" json:"response_data"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message"`
	SyncedAt     time.Time      `gorm:"not null;index" json:"synced_at"`
}

func (OdooSyncLog) TableName() string { return "odoo_sync_logs" }
