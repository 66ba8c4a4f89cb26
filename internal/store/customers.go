package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/sync"
)

// Customers is the GORM-backed customer store.
type Customers struct {
	db       *gorm.DB
	notifier sync.Notifier
}

// NewCustomers creates a customer store.
func NewCustomers(db *gorm.DB) *Customers {
	return &Customers{db: db}
}

// SetNotifier registers the change notifier. Called once at startup.
func (s *Customers) SetNotifier(n sync.Notifier) { s.notifier = n }

func (s *Customers) with(db *gorm.DB) *Customers {
	return &Customers{db: db, notifier: s.notifier}
}

func (s *Customers) FindByID(id string) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindByOdooIDOrEmail matches by partner id first, then by email.
func (s *Customers) FindByOdooIDOrEmail(odooID int64, email string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.First(&c, "odoo_partner_id = ?", odooID).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.First(&c, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Customers) ListUnlinked() ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.Where("odoo_partner_id IS NULL").Find(&customers).Error
	return customers, err
}

func (s *Customers) Create(sess *sync.PullSession, c *models.Customer) error {
	if err := s.db.Create(c).Error; err != nil {
		return err
	}
	if s.notifier != nil && !sess.Active() {
		s.notifier.CustomerSaved(c, nil, true)
	}
	return nil
}

func (s *Customers) Save(sess *sync.PullSession, c *models.Customer, changed sync.FieldSet) error {
	var err error
	if changed == nil {
		err = s.db.Save(c).Error
	} else {
		err = s.db.Model(c).Select(columns(changed)).Updates(c).Error
	}
	if err != nil {
		return err
	}
	if s.notifier != nil && !sess.Active() {
		s.notifier.CustomerSaved(c, changed, false)
	}
	return nil
}

func (s *Customers) Counts() (sync.CustomerCounts, error) {
	var counts sync.CustomerCounts

	if err := s.db.Model(&models.Customer{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := s.db.Model(&models.Customer{}).
		Where("odoo_partner_id IS NOT NULL").
		Count(&counts.Synced).Error; err != nil {
		return counts, err
	}
	counts.Unsynced = counts.Total - counts.Synced

	var last models.Customer
	err := s.db.Where("odoo_synced_at IS NOT NULL").
		Order("odoo_synced_at DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return counts, err
	}
	counts.LastSync = last.OdooSyncedAt

	return counts, nil
}

func (s *Customers) Transaction(fn func(sync.CustomerStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(s.with(tx))
	})
}
