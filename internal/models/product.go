package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockStatus is derived from stock quantity, never set directly by users.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLowStock   StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

const lowStockThreshold = 10

// DeriveStockStatus maps a quantity to its stock status. This is the single
// definition of the thresholds; every place that recomputes stock status
// must go through it.
func DeriveStockStatus(quantity int) StockStatus {
	if quantity > lowStockThreshold {
		return StockInStock
	}
	if quantity > 0 {
		return StockLowStock
	}
	return StockOutOfStock
}

// Product is a catalog entry (a book, in practice). Products carry two Odoo
// link columns: OdooProductID is set once the product exists in Odoo, and
// OdooSyncedAt records the last successful sync in either direction.
type Product struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`
	Description string      `gorm:"type:text" json:"description"`
	PriceUSD    float64     `gorm:"type:decimal(10,2)" json:"price_usd"`
	PriceZWL    float64     `gorm:"type:decimal(14,2)" json:"price_zwl"`
	CategoryID  *string     `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ISBN        string      `gorm:"index" json:"isbn"`
	ItemCode    string      `json:"item_code"`
	Author      string      `json:"author"`
	Publisher   string      `json:"publisher"`
	CoverImage  string      `json:"cover_image"`
	StockQty    int         `gorm:"column:stock_quantity;default:0" json:"stock_quantity"`
	StockStatus StockStatus `gorm:"type:varchar(20);default:'out_of_stock'" json:"stock_status"`
	Featured    bool        `gorm:"default:false" json:"featured"`

	OdooProductID *int64     `gorm:"uniqueIndex" json:"odoo_product_id"`
	OdooSyncedAt  *time.Time `json:"odoo_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns a UUID primary key.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Linked reports whether the product is linked to an Odoo record.
func (p *Product) Linked() bool { return p.OdooProductID != nil }
