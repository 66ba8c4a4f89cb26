package sync

import (
	"fmt"
	"time"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/odoo"
)

// Strategy selects how a true bidirectional conflict is resolved. It is
// supplied per sync run, not persisted per entity.
type Strategy string

const (
	RemoteWins Strategy = "remote_wins"
	LocalWins  Strategy = "local_wins"
	NewestWins Strategy = "newest_wins"
)

// ParseStrategy normalizes a strategy name. The legacy "odoo_wins" spelling
// is accepted as an alias for remote_wins.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "remote_wins", "odoo_wins":
		return RemoteWins, nil
	case "local_wins":
		return LocalWins, nil
	case "newest_wins", "":
		return NewestWins, nil
	default:
		return "", fmt.Errorf("unknown conflict strategy %q", s)
	}
}

// Decision is the outcome of conflict resolution for one entity.
type Decision int

const (
	ApplyRemote Decision = iota
	KeepLocal
)

// PullStats summarizes one pull batch.
type PullStats struct {
	Synced    int `json:"synced"`
	Skipped   int `json:"skipped"`
	Conflicts int `json:"conflicts"`
	Errors    int `json:"errors"`
}

// PushStats summarizes one push batch.
type PushStats struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// StockStats summarizes one stock-only pull.
type StockStats struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// FullStats merges the pull and push halves of a full sync.
type FullStats struct {
	Pulled    int `json:"pulled"`
	Pushed    int `json:"pushed"`
	Skipped   int `json:"skipped"`
	Conflicts int `json:"conflicts"`
	Errors    int `json:"errors"`
}

// RPC is the slice of the Odoo client the engines use.
type RPC interface {
	Search(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error)
	Read(model string, ids []int64, fields []string) ([]odoo.Record, error)
	Create(model string, values map[string]interface{}) (int64, error)
	Update(model string, id int64, values map[string]interface{}) error
	Delete(model string, id int64) error
}

// ProductCounts is the product half of the status summary.
type ProductCounts struct {
	Total    int64      `json:"total"`
	Synced   int64      `json:"synced"`
	Unsynced int64      `json:"unsynced"`
	LastSync *time.Time `json:"last_sync"`
}

// CustomerCounts is the customer half of the status summary.
type CustomerCounts struct {
	Total    int64      `json:"total"`
	Synced   int64      `json:"synced"`
	Unsynced int64      `json:"unsynced"`
	LastSync *time.Time `json:"last_sync"`
}

// ProductStore is the local persistence surface the product engine needs.
// Find methods return (nil, nil) when no row matches. Create and Save fire
// the registered change notifier unless the write happens under an active
// pull session.
type ProductStore interface {
	FindByID(id string) (*models.Product, error)
	FindByOdooID(odooID int64) (*models.Product, error)
	FindBySlug(slug string) (*models.Product, error)
	ListUnlinked() ([]models.Product, error)
	ListLinked() ([]models.Product, error)
	UniqueSlug(title string) (string, error)
	Create(sess *PullSession, p *models.Product) error
	Save(sess *PullSession, p *models.Product, changed FieldSet) error
	CategoryByID(id string) (*models.Category, error)
	SaveCategory(c *models.Category) error
	Counts() (ProductCounts, error)
	Transaction(fn func(ProductStore) error) error
}

// CustomerStore is the local persistence surface the customer engine needs.
type CustomerStore interface {
	FindByID(id string) (*models.Customer, error)
	FindByOdooIDOrEmail(odooID int64, email string) (*models.Customer, error)
	ListUnlinked() ([]models.Customer, error)
	Create(sess *PullSession, c *models.Customer) error
	Save(sess *PullSession, c *models.Customer, changed FieldSet) error
	Counts() (CustomerCounts, error)
	Transaction(fn func(CustomerStore) error) error
}

// ImageStore persists product cover images pulled from the ERP and loads
// them back for pushes.
type ImageStore interface {
	SaveProductImage(slug string, data []byte) (string, error)
	LoadImage(path string) ([]byte, error)
}

// TaskQueue enqueues deferred push-back tasks.
type TaskQueue interface {
	Enqueue(taskType models.TaskType, entityID string) error
}
