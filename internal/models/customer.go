package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer provenance tags. CustomerSourceOdoo marks records created by a
// pull from the ERP.
const (
	CustomerSourceWebsite = "website"
	CustomerSourceInquiry = "inquiry"
	CustomerSourceOdoo    = "odoo"
	CustomerSourceManual  = "manual"
)

// Customer mirrors the storefront's customer master data. Email is the
// natural key across both systems: when a record has no Odoo partner id yet,
// matching is done by email.
type Customer struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	Phone   string `json:"phone"`
	Mobile  string `json:"mobile"`
	Street  string `json:"street"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Type    string `gorm:"type:varchar(20);default:'individual'" json:"type"` // individual or company
	Source  string `gorm:"type:varchar(20);default:'manual'" json:"source"`
	Active  bool   `gorm:"column:is_active;default:true" json:"is_active"`

	OdooPartnerID *int64     `gorm:"uniqueIndex" json:"odoo_partner_id"`
	OdooSyncedAt  *time.Time `json:"odoo_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Linked reports whether the customer is linked to an Odoo partner.
func (c *Customer) Linked() bool { return c.OdooPartnerID != nil }
