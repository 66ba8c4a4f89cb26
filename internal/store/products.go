package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/sync"
)

// Products is the GORM-backed product store. Writes made outside a pull
// session fire the registered notifier after they commit.
type Products struct {
	db       *gorm.DB
	notifier sync.Notifier
}

// NewProducts creates a product store.
func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

// SetNotifier registers the change notifier. Called once at startup.
func (s *Products) SetNotifier(n sync.Notifier) { s.notifier = n }

func (s *Products) with(db *gorm.DB) *Products {
	return &Products{db: db, notifier: s.notifier}
}

func (s *Products) FindByID(id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Products) FindByOdooID(odooID int64) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, "odoo_product_id = ?", odooID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Products) FindBySlug(slug string) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Products) ListUnlinked() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("odoo_product_id IS NULL").Find(&products).Error
	return products, err
}

func (s *Products) ListLinked() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("odoo_product_id IS NOT NULL").Find(&products).Error
	return products, err
}

// UniqueSlug derives a slug from the title and suffixes it until no other
// product claims it.
func (s *Products) UniqueSlug(title string) (string, error) {
	base := sync.Slugify(title)
	if base == "" {
		base = "product"
	}

	slug := base
	for n := 1; ; n++ {
		var count int64
		if err := s.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *Products) Create(sess *sync.PullSession, p *models.Product) error {
	if err := s.db.Create(p).Error; err != nil {
		return err
	}
	if s.notifier != nil && !sess.Active() {
		s.notifier.ProductCreated(p)
	}
	return nil
}

// Save persists the changed columns. A nil change set writes the whole row.
func (s *Products) Save(sess *sync.PullSession, p *models.Product, changed sync.FieldSet) error {
	var err error
	if changed == nil {
		err = s.db.Save(p).Error
	} else {
		err = s.db.Model(p).Select(columns(changed)).Updates(p).Error
	}
	if err != nil {
		return err
	}
	if s.notifier != nil && !sess.Active() {
		s.notifier.ProductUpdated(p, changed)
	}
	return nil
}

// Delete removes a product and notifies. Remote records are never unlinked
// by a local delete.
func (s *Products) Delete(sess *sync.PullSession, p *models.Product) error {
	if err := s.db.Delete(p).Error; err != nil {
		return err
	}
	if s.notifier != nil && !sess.Active() {
		s.notifier.ProductDeleted(p)
	}
	return nil
}

func (s *Products) CategoryByID(id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Products) SaveCategory(c *models.Category) error {
	return s.db.Save(c).Error
}

func (s *Products) Counts() (sync.ProductCounts, error) {
	var counts sync.ProductCounts

	if err := s.db.Model(&models.Product{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := s.db.Model(&models.Product{}).
		Where("odoo_product_id IS NOT NULL").
		Count(&counts.Synced).Error; err != nil {
		return counts, err
	}
	counts.Unsynced = counts.Total - counts.Synced

	var last models.Product
	err := s.db.Where("odoo_synced_at IS NOT NULL").
		Order("odoo_synced_at DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return counts, err
	}
	counts.LastSync = last.OdooSyncedAt

	return counts, nil
}

func (s *Products) Transaction(fn func(sync.ProductStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(s.with(tx))
	})
}

// columns maps a field set to column names, always including updated_at so
// selective updates still bump the row timestamp.
func columns(changed sync.FieldSet) []string {
	cols := make([]string, 0, changed.Len()+1)
	for f := range changed {
		cols = append(cols, string(f))
	}
	cols = append(cols, "updated_at")
	return cols
}
