package sync

import (
	"fmt"
	"log"
	"time"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/odoo"
)

const partnerModel = "res.partner"

// customerPullFields are the remote columns fetched on every customer pull.
var customerPullFields = []string{
	"name",
	"email",
	"phone",
	"mobile",
	"street",
	"street2",
	"city",
	"zip",
	"company_type",
	"write_date",
}

// CustomerEngine synchronizes customer master data with the ERP. Unlike
// products there is no conflict resolution: the ERP is authoritative for
// customer contact data, so pull always overwrites.
type CustomerEngine struct {
	rpc   RPC
	store CustomerStore
}

// NewCustomerEngine creates a customer engine.
func NewCustomerEngine(rpc RPC, store CustomerStore) *CustomerEngine {
	return &CustomerEngine{rpc: rpc, store: store}
}

func (e *CustomerEngine) withStore(s CustomerStore) *CustomerEngine {
	clone := *e
	clone.store = s
	return &clone
}

// PullAll lists remote customers and matches-or-creates each locally.
// Matching is by partner id first, then by email; records without an email
// cannot be reconciled and are skipped.
func (e *CustomerEngine) PullAll() (PullStats, error) {
	var stats PullStats

	log.Println("📥 Odoo: Pulling customers...")

	domain := []interface{}{
		[]interface{}{"customer_rank", ">", 0},
		[]interface{}{"is_company", "=", false},
	}
	records, err := e.rpc.Search(partnerModel, domain, customerPullFields, 0)
	if err != nil {
		return stats, fmt.Errorf("failed to list remote customers: %w", err)
	}

	log.Printf("📥 Odoo: Found %d customers", len(records))

	sess := BeginPull()
	defer sess.End()

	for _, rec := range records {
		email := rec.Str("email")
		if email == "" {
			stats.Skipped++
			continue
		}

		if err := e.pullOne(sess, rec, email); err != nil {
			log.Printf("❌ Failed to sync customer %q from Odoo: %v", email, err)
			stats.Errors++
			continue
		}
		stats.Synced++
	}

	return stats, nil
}

func (e *CustomerEngine) pullOne(sess *PullSession, rec odoo.Record, email string) error {
	odooID := rec.ID()

	c, err := e.store.FindByOdooIDOrEmail(odooID, email)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if c != nil {
		c.OdooPartnerID = &odooID
		c.Name = rec.Str("name")
		if v := rec.Str("phone"); v != "" {
			c.Phone = v
		}
		if v := rec.Str("mobile"); v != "" {
			c.Mobile = v
		}
		if v := rec.Str("street"); v != "" {
			c.Street = v
		}
		if v := rec.Str("street2"); v != "" {
			c.Street2 = v
		}
		if v := rec.Str("city"); v != "" {
			c.City = v
		}
		if v := rec.Str("zip"); v != "" {
			c.Zip = v
		}
		c.OdooSyncedAt = &now

		changed := NewFieldSet(
			FieldName, FieldPhone, FieldMobile, FieldStreet, FieldStreet2,
			FieldCity, FieldZip, FieldOdooPartnerID, FieldOdooSyncedAt,
		)
		if err := e.store.Save(sess, c, changed); err != nil {
			return err
		}
		log.Printf("✅ Updated customer from Odoo: %s", c.Email)
		return nil
	}

	customerType := "individual"
	if rec.Str("company_type") == "company" {
		customerType = "company"
	}

	c = &models.Customer{
		Name:          rec.Str("name"),
		Email:         email,
		Phone:         rec.Str("phone"),
		Mobile:        rec.Str("mobile"),
		Street:        rec.Str("street"),
		Street2:       rec.Str("street2"),
		City:          rec.Str("city"),
		Zip:           rec.Str("zip"),
		Type:          customerType,
		Source:        models.CustomerSourceOdoo,
		Active:        true,
		OdooPartnerID: &odooID,
		OdooSyncedAt:  &now,
	}
	if err := e.store.Create(sess, c); err != nil {
		return err
	}

	log.Printf("✅ Created customer from Odoo: %s", c.Email)
	return nil
}

// PushAll pushes every local customer without an Odoo partner link.
func (e *CustomerEngine) PushAll() (PushStats, error) {
	var stats PushStats

	log.Println("📤 Odoo: Pushing local customers...")

	customers, err := e.store.ListUnlinked()
	if err != nil {
		return stats, err
	}

	log.Printf("📤 Odoo: Found %d local-only customers", len(customers))

	for i := range customers {
		if err := e.PushCustomer(&customers[i]); err != nil {
			log.Printf("❌ Failed to push customer %q: %v", customers[i].Email, err)
			stats.Errors++
			continue
		}
		stats.Synced++
	}

	return stats, nil
}

// PushCustomer sends one customer to the ERP: link by email match when the
// partner already exists, create otherwise. Already-linked customers are a
// no-op, which makes queued pushes idempotent.
func (e *CustomerEngine) PushCustomer(c *models.Customer) error {
	if c.Linked() {
		log.Printf("⏭️ Customer already synced to Odoo: %s", c.Email)
		return nil
	}

	existing, err := e.rpc.Search(partnerModel,
		[]interface{}{[]interface{}{"email", "=", c.Email}},
		[]string{"id", "name", "email"}, 1)
	if err != nil {
		return err
	}

	var odooID int64
	if len(existing) > 0 {
		odooID = existing[0].ID()
		log.Printf("🔗 Linked customer to existing Odoo partner %d: %s", odooID, c.Email)
	} else {
		companyType := "person"
		if c.Type == "company" {
			companyType = "company"
		}

		odooID, err = e.rpc.Create(partnerModel, map[string]interface{}{
			"name":          c.Name,
			"email":         c.Email,
			"phone":         c.Phone,
			"mobile":        c.Mobile,
			"street":        c.Street,
			"street2":       c.Street2,
			"city":          c.City,
			"zip":           c.Zip,
			"customer_rank": 1,
			"company_type":  companyType,
		})
		if err != nil {
			return err
		}
		log.Printf("✅ Created customer in Odoo (%d): %s", odooID, c.Email)
	}

	now := time.Now().UTC()
	c.OdooPartnerID = &odooID
	c.OdooSyncedAt = &now
	return e.store.Save(nil, c, NewFieldSet(FieldOdooPartnerID, FieldOdooSyncedAt))
}

// FullSync runs pull then push inside one transaction, with the same
// all-or-nothing discipline as the product engine.
func (e *CustomerEngine) FullSync() (FullStats, error) {
	var stats FullStats

	err := e.store.Transaction(func(tx CustomerStore) error {
		eng := e.withStore(tx)

		pull, err := eng.PullAll()
		if err != nil {
			return err
		}

		push, err := eng.PushAll()
		if err != nil {
			return err
		}

		stats = FullStats{
			Pulled:  pull.Synced,
			Pushed:  push.Synced,
			Skipped: pull.Skipped + push.Skipped,
			Errors:  pull.Errors + push.Errors,
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Customer sync failed: %v", err)
		return FullStats{}, err
	}

	log.Printf("✅ Customer sync completed: pulled=%d pushed=%d errors=%d",
		stats.Pulled, stats.Pushed, stats.Errors)
	return stats, nil
}

// Status returns the customer sync status summary.
func (e *CustomerEngine) Status() (CustomerCounts, error) {
	return e.store.Counts()
}
