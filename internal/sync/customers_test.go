package sync

import (
	"fmt"
	"testing"
	"time"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/odoo"
)

// fakeCustomerStore is an in-memory CustomerStore.
type fakeCustomerStore struct {
	customers []*models.Customer
	writes    []writeRecord
}

func (s *fakeCustomerStore) FindByID(id string) (*models.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *fakeCustomerStore) FindByOdooIDOrEmail(odooID int64, email string) (*models.Customer, error) {
	for _, c := range s.customers {
		if c.OdooPartnerID != nil && *c.OdooPartnerID == odooID {
			return c, nil
		}
	}
	for _, c := range s.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (s *fakeCustomerStore) ListUnlinked() ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range s.customers {
		if c.OdooPartnerID == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeCustomerStore) Create(sess *PullSession, c *models.Customer) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%d", len(s.customers)+1)
	}
	s.customers = append(s.customers, c)
	s.writes = append(s.writes, writeRecord{underPull: sess.Active()})
	return nil
}

func (s *fakeCustomerStore) Save(sess *PullSession, c *models.Customer, changed FieldSet) error {
	for i, existing := range s.customers {
		if existing.ID == c.ID {
			s.customers[i] = c
			break
		}
	}
	s.writes = append(s.writes, writeRecord{underPull: sess.Active(), changed: changed})
	return nil
}

func (s *fakeCustomerStore) Counts() (CustomerCounts, error) {
	var counts CustomerCounts
	for _, c := range s.customers {
		counts.Total++
		if c.OdooPartnerID != nil {
			counts.Synced++
		}
	}
	counts.Unsynced = counts.Total - counts.Synced
	return counts, nil
}

func (s *fakeCustomerStore) Transaction(fn func(CustomerStore) error) error {
	return fn(s)
}

func partnerRecord() odoo.Record {
	return odoo.Record{
		"id":           int64(301),
		"name":         "Tendai Moyo",
		"email":        "tendai@example.com",
		"phone":        "+263 4 123456",
		"mobile":       false,
		"street":       "12 Samora Machel Ave",
		"street2":      false,
		"city":         "Harare",
		"zip":          false,
		"company_type": "person",
		"write_date":   "2025-06-01 10:00:00",
	}
}

func TestCustomerPullCreates(t *testing.T) {
	rpc := &fakeRPC{
		searchFn: func(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error) {
			return []odoo.Record{partnerRecord()}, nil
		},
	}
	store := &fakeCustomerStore{}
	engine := NewCustomerEngine(rpc, store)

	stats, err := engine.PullAll()
	if err != nil {
		t.Fatalf("PullAll() error = %v", err)
	}
	if stats.Synced != 1 {
		t.Fatalf("stats = %+v, want 1 synced", stats)
	}

	c := store.customers[0]
	if c.Email != "tendai@example.com" || c.Name != "Tendai Moyo" {
		t.Errorf("contact fields = %q/%q", c.Name, c.Email)
	}
	if c.Source != models.CustomerSourceOdoo {
		t.Errorf("pulled customer source = %q, want odoo", c.Source)
	}
	if c.Type != "individual" {
		t.Errorf("company_type person should map to individual, got %q", c.Type)
	}
	if c.Mobile != "" || c.Street2 != "" {
		t.Error("false-valued remote fields should come through empty")
	}
	if c.OdooPartnerID == nil || *c.OdooPartnerID != 301 {
		t.Error("customer not linked to remote partner 301")
	}
	if !c.Active {
		t.Error("pulled customer should be active")
	}
}

func TestCustomerPullSkipsMissingEmail(t *testing.T) {
	rec := partnerRecord()
	rec["email"] = false

	rpc := &fakeRPC{
		searchFn: func(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error) {
			return []odoo.Record{rec}, nil
		},
	}
	store := &fakeCustomerStore{}
	engine := NewCustomerEngine(rpc, store)

	stats, err := engine.PullAll()
	if err != nil {
		t.Fatalf("PullAll() error = %v", err)
	}
	if stats.Skipped != 1 || stats.Synced != 0 {
		t.Errorf("stats = %+v, want 1 skipped", stats)
	}
	if len(store.customers) != 0 {
		t.Error("customer without email must not be created")
	}
}

func TestCustomerPullMatchesByEmail(t *testing.T) {
	rpc := &fakeRPC{
		searchFn: func(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error) {
			return []odoo.Record{partnerRecord()}, nil
		},
	}
	store := &fakeCustomerStore{customers: []*models.Customer{{
		ID:     "local1",
		Name:   "T. Moyo",
		Email:  "tendai@example.com",
		Source: models.CustomerSourceWebsite,
	}}}
	engine := NewCustomerEngine(rpc, store)

	stats, err := engine.PullAll()
	if err != nil {
		t.Fatalf("PullAll() error = %v", err)
	}
	if stats.Synced != 1 {
		t.Fatalf("stats = %+v, want 1 synced", stats)
	}
	if len(store.customers) != 1 {
		t.Fatal("email match must not create a duplicate")
	}

	c := store.customers[0]
	if c.OdooPartnerID == nil || *c.OdooPartnerID != 301 {
		t.Error("matched customer was not linked")
	}
	if c.Name != "Tendai Moyo" {
		t.Error("remote contact data is authoritative on pull")
	}
	if c.Source != models.CustomerSourceWebsite {
		t.Error("provenance must not be rewritten by a pull")
	}

	for _, w := range store.writes {
		if !w.underPull {
			t.Error("pull writes must run under an active pull session")
		}
	}
}

func TestPushCustomerLinksByEmail(t *testing.T) {
	rpc := &fakeRPC{
		searchFn: func(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error) {
			return []odoo.Record{{"id": int64(88), "name": "Existing", "email": "a@b.cd"}}, nil
		},
	}
	c := &models.Customer{ID: "local1", Name: "A B", Email: "a@b.cd"}
	store := &fakeCustomerStore{customers: []*models.Customer{c}}
	engine := NewCustomerEngine(rpc, store)

	if err := engine.PushCustomer(c); err != nil {
		t.Fatalf("PushCustomer() error = %v", err)
	}
	if len(rpc.creates) != 0 {
		t.Error("email match must link, not create a remote duplicate")
	}
	if c.OdooPartnerID == nil || *c.OdooPartnerID != 88 {
		t.Error("customer not linked to the matched partner")
	}
}

func TestPushCustomerCreatesWhenUnmatched(t *testing.T) {
	rpc := &fakeRPC{
		createFn: func(model string, values map[string]interface{}) (int64, error) {
			return 99, nil
		},
	}
	c := &models.Customer{ID: "local1", Name: "New Person", Email: "new@example.com", Type: "individual"}
	store := &fakeCustomerStore{customers: []*models.Customer{c}}
	engine := NewCustomerEngine(rpc, store)

	if err := engine.PushCustomer(c); err != nil {
		t.Fatalf("PushCustomer() error = %v", err)
	}
	if len(rpc.creates) != 1 {
		t.Fatalf("expected one remote create, got %d", len(rpc.creates))
	}
	values := rpc.creates[0]
	if values["customer_rank"] != 1 || values["company_type"] != "person" {
		t.Errorf("remote values = %+v", values)
	}
	if c.OdooPartnerID == nil || *c.OdooPartnerID != 99 {
		t.Error("customer not linked to the created partner")
	}
	if c.OdooSyncedAt == nil {
		t.Error("push must stamp the sync time")
	}
}

func TestPushCustomerAlreadyLinkedIsNoop(t *testing.T) {
	rpc := &fakeRPC{
		searchFn: func(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error) {
			t.Fatal("linked customer must not hit the ERP")
			return nil, nil
		},
	}
	partnerID := int64(301)
	synced := time.Now().UTC()
	c := &models.Customer{ID: "local1", Email: "done@example.com", OdooPartnerID: &partnerID, OdooSyncedAt: &synced}
	engine := NewCustomerEngine(rpc, &fakeCustomerStore{})

	if err := engine.PushCustomer(c); err != nil {
		t.Fatalf("PushCustomer() error = %v", err)
	}
}

func TestCustomerFullSync(t *testing.T) {
	rpc := &fakeRPC{
		searchFn: func(model string, domain []interface{}, fields []string, limit int) ([]odoo.Record, error) {
			if limit == 0 {
				return []odoo.Record{partnerRecord()}, nil
			}
			return nil, nil
		},
		createFn: func(model string, values map[string]interface{}) (int64, error) {
			return 500, nil
		},
	}
	store := &fakeCustomerStore{customers: []*models.Customer{{
		ID:    "local1",
		Name:  "Local Only",
		Email: "local@example.com",
	}}}
	engine := NewCustomerEngine(rpc, store)

	stats, err := engine.FullSync()
	if err != nil {
		t.Fatalf("FullSync() error = %v", err)
	}
	if stats.Pulled != 1 || stats.Pushed != 1 {
		t.Errorf("stats = %+v, want 1 pulled and 1 pushed", stats)
	}
}
