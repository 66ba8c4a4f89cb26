package sync

import (
	"log"

	"github.com/eduboutique/storefront/internal/models"
)

// Notifier receives post-write notifications from the local stores. Stores
// call it after every successful write made outside a pull session.
type Notifier interface {
	ProductCreated(p *models.Product)
	ProductUpdated(p *models.Product, changed FieldSet)
	ProductDeleted(p *models.Product)
	CustomerSaved(c *models.Customer, changed FieldSet, created bool)
}

// Observer turns local change notifications into deferred push tasks. It is
// registered with the stores at startup.
type Observer struct {
	tasks TaskQueue
}

// NewObserver creates an observer that enqueues onto the given queue.
func NewObserver(tasks TaskQueue) *Observer {
	return &Observer{tasks: tasks}
}

// ProductCreated enqueues a full push for a locally created product.
func (o *Observer) ProductCreated(p *models.Product) {
	log.Printf("🪝 Product created locally, queueing push: %s", p.Title)
	o.enqueue(models.TaskPushProduct, p.ID)
}

// ProductUpdated triages a product update. Metadata-only writes and writes
// that touch no sync-relevant field are suppressed; a change to stock
// quantity alone takes the lightweight stock path; anything else queues a
// full push.
func (o *Observer) ProductUpdated(p *models.Product, changed FieldSet) {
	nonMeta := changed.Diff(ProductMetaFields)
	if nonMeta.Len() == 0 {
		// Housekeeping write from a previous sync
		return
	}

	syncable := nonMeta.Intersect(ProductSyncFields)
	if syncable.Len() == 0 {
		return
	}

	if syncable.Len() == 1 && syncable.Has(FieldStockQuantity) {
		log.Printf("🪝 Stock changed for %s, queueing stock push", p.Title)
		o.enqueue(models.TaskPushStock, p.ID)
		return
	}

	log.Printf("🪝 Product updated locally, queueing push: %s", p.Title)
	o.enqueue(models.TaskPushProduct, p.ID)
}

// ProductDeleted only logs. The ERP archives products; the sync engine
// never unlinks remote records.
func (o *Observer) ProductDeleted(p *models.Product) {
	odooID := int64(0)
	if p.OdooProductID != nil {
		odooID = *p.OdooProductID
	}
	log.Printf("🗑️ Product deleted locally (odoo_product_id=%d): %s", odooID, p.Title)
}

// CustomerSaved enqueues a push for customers touched outside a pull.
// Metadata-only updates are housekeeping and do not re-push.
func (o *Observer) CustomerSaved(c *models.Customer, changed FieldSet, created bool) {
	if created {
		log.Printf("🪝 Customer created locally, queueing push: %s", c.Email)
		o.enqueue(models.TaskPushCustomer, c.ID)
		return
	}

	if changed.Diff(CustomerMetaFields).Intersect(CustomerSyncFields).Len() == 0 {
		return
	}
	o.enqueue(models.TaskPushCustomer, c.ID)
}

func (o *Observer) enqueue(taskType models.TaskType, entityID string) {
	if o.tasks == nil {
		return
	}
	if err := o.tasks.Enqueue(taskType, entityID); err != nil {
		log.Printf("🔴 Failed to enqueue %s for %s: %v", taskType, entityID, err)
	}
}
