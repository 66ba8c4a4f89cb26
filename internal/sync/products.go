package sync

import (
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/odoo"
)

// Odoo model names the product engine talks to.
const (
	productModel  = "product.product"
	categoryModel = "product.category"
	quantModel    = "stock.quant"
	locationModel = "stock.location"
)

// productPullFields are the remote columns fetched on every product pull.
var productPullFields = []string{
	"name",
	"default_code",
	"list_price",
	"qty_available",
	"description_sale",
	"image_1920",
	"categ_id",
	"write_date",
}

// zwlRate is the approximate USD→ZWL conversion applied when creating a
// local product from remote data; the ERP only carries the USD price.
const zwlRate = 35000

// ProductEngine synchronizes the product catalog with the ERP in both
// directions. All remote calls are sequential, one entity at a time.
type ProductEngine struct {
	rpc      RPC
	store    ProductStore
	images   ImageStore
	strategy Strategy
}

// NewProductEngine creates a product engine. images may be nil, in which
// case cover images are neither imported nor pushed.
func NewProductEngine(rpc RPC, store ProductStore, images ImageStore, strategy Strategy) *ProductEngine {
	return &ProductEngine{rpc: rpc, store: store, images: images, strategy: strategy}
}

// withStore returns a copy of the engine bound to a different store, used
// to run pull+push inside one transaction.
func (e *ProductEngine) withStore(s ProductStore) *ProductEngine {
	clone := *e
	clone.store = s
	return &clone
}

// WithStrategy returns a copy of the engine using a different conflict
// strategy for one run.
func (e *ProductEngine) WithStrategy(strategy Strategy) *ProductEngine {
	clone := *e
	clone.strategy = strategy
	return &clone
}

// PullAll lists all sellable remote products and merges each into local
// storage. Per-entity failures are counted and do not abort the batch.
func (e *ProductEngine) PullAll() (PullStats, error) {
	var stats PullStats

	log.Println("📥 Odoo: Pulling products...")

	domain := []interface{}{
		[]interface{}{"sale_ok", "=", true},
	}
	records, err := e.rpc.Search(productModel, domain, productPullFields, 0)
	if err != nil {
		return stats, fmt.Errorf("failed to list remote products: %w", err)
	}

	log.Printf("📥 Odoo: Found %d products", len(records))

	sess := BeginPull()
	defer sess.End()

	for _, rec := range records {
		outcome, err := e.pullOne(sess, rec)
		if err != nil {
			log.Printf("❌ Failed to sync product %d from Odoo: %v", rec.ID(), err)
			stats.Errors++
			continue
		}
		switch outcome {
		case "synced":
			stats.Synced++
		case "skipped":
			stats.Skipped++
		case "conflict":
			stats.Conflicts++
		}
	}

	return stats, nil
}

// pullOne merges one remote product. Matching is by odoo id first, then by
// slug of the remote name, covering products created independently on both
// sides under the same title.
func (e *ProductEngine) pullOne(sess *PullSession, rec odoo.Record) (string, error) {
	odooID := rec.ID()

	remoteUpdated, ok := rec.Time("write_date")
	if !ok {
		remoteUpdated = time.Now().UTC()
	}

	p, err := e.store.FindByOdooID(odooID)
	if err != nil {
		return "", err
	}

	if p == nil {
		// Slug fallback only claims unlinked products: a product already
		// linked to a different remote id is a distinct record that happens
		// to share a title, and gets its own suffixed slug on create.
		candidate, err := e.store.FindBySlug(Slugify(rec.Str("name")))
		if err != nil {
			return "", err
		}
		if candidate != nil && !candidate.Linked() {
			log.Printf("🔗 Found local product by slug, linking to Odoo %d: %s", odooID, candidate.Title)
			p = candidate
		}
	}

	if p != nil {
		return e.mergeRemote(sess, p, rec, remoteUpdated)
	}

	if err := e.createFromRemote(sess, rec); err != nil {
		return "", err
	}
	return "synced", nil
}

// mergeRemote resolves the two versions and applies remote data when it wins.
func (e *ProductEngine) mergeRemote(sess *PullSession, p *models.Product, rec odoo.Record, remoteUpdated time.Time) (string, error) {
	if Resolve(e.strategy, p.UpdatedAt, remoteUpdated, p.OdooSyncedAt) == KeepLocal {
		log.Printf("⚔️ Conflict resolved: local wins (%s, strategy=%s)", p.Title, e.strategy)
		return "conflict", nil
	}

	odooID := rec.ID()
	qty := int(rec.Int("qty_available"))
	now := time.Now().UTC()

	p.OdooProductID = &odooID
	p.Title = rec.Str("name")
	p.PriceUSD = rec.Float("list_price")
	p.StockQty = qty
	p.StockStatus = models.DeriveStockStatus(qty)
	if desc := rec.Str("description_sale"); desc != "" {
		p.Description = desc
	}
	p.OdooSyncedAt = &now

	changed := NewFieldSet(
		FieldTitle, FieldPriceUSD, FieldStockQuantity, FieldStockStatus,
		FieldDescription, FieldOdooProductID, FieldOdooSyncedAt,
	)
	if err := e.store.Save(sess, p, changed); err != nil {
		return "", err
	}

	log.Printf("✅ Updated product from Odoo: %s", p.Title)
	return "synced", nil
}

// createFromRemote creates a new local product from remote fields.
func (e *ProductEngine) createFromRemote(sess *PullSession, rec odoo.Record) error {
	title := rec.Str("name")

	slug, err := e.store.UniqueSlug(title)
	if err != nil {
		return err
	}

	odooID := rec.ID()
	qty := int(rec.Int("qty_available"))
	price := rec.Float("list_price")
	now := time.Now().UTC()

	p := &models.Product{
		Title:         title,
		Slug:          slug,
		Description:   rec.Str("description_sale"),
		PriceUSD:      price,
		PriceZWL:      price * zwlRate,
		ISBN:          rec.Str("default_code"),
		StockQty:      qty,
		StockStatus:   models.DeriveStockStatus(qty),
		OdooProductID: &odooID,
		OdooSyncedAt:  &now,
	}

	if err := e.store.Create(sess, p); err != nil {
		return err
	}

	if img := rec.Str("image_1920"); img != "" {
		e.importImage(sess, p, img)
	}

	log.Printf("✅ Created product from Odoo: %s", p.Title)
	return nil
}

// importImage decodes and stores an embedded cover image. Image failures
// are secondary and never fail the product sync.
func (e *ProductEngine) importImage(sess *PullSession, p *models.Product, b64 string) {
	if e.images == nil {
		return
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		log.Printf("⚠️ Failed to decode image for %s: %v", p.Title, err)
		return
	}

	path, err := e.images.SaveProductImage(p.Slug, data)
	if err != nil {
		log.Printf("⚠️ Failed to store image for %s: %v", p.Title, err)
		return
	}

	p.CoverImage = path
	if err := e.store.Save(sess, p, NewFieldSet(FieldCoverImage)); err != nil {
		log.Printf("⚠️ Failed to save image path for %s: %v", p.Title, err)
	}
}

// PushAll pushes every local product that has no Odoo link yet. Per-item
// failures are caught, counted and do not abort the batch.
func (e *ProductEngine) PushAll() (PushStats, error) {
	var stats PushStats

	log.Println("📤 Odoo: Pushing local products...")

	products, err := e.store.ListUnlinked()
	if err != nil {
		return stats, err
	}

	log.Printf("📤 Odoo: Found %d local-only products", len(products))

	for i := range products {
		if err := e.PushProduct(&products[i]); err != nil {
			log.Printf("❌ Failed to push product %q: %v", products[i].Title, err)
			stats.Errors++
			continue
		}
		stats.Synced++
	}

	return stats, nil
}

// PushProduct sends one product to the ERP. Unlinked products are first
// matched against remote records by exact name; linked ones get a field
// update in place.
func (e *ProductEngine) PushProduct(p *models.Product) error {
	if p.Linked() {
		if err := e.rpc.Update(productModel, *p.OdooProductID, e.remoteValues(p)); err != nil {
			return err
		}
		return e.stampSynced(p)
	}

	// Exact-name matching is a dedup heuristic carried over from the
	// storefront's first release: identical unrelated titles will link to
	// the wrong record, and near-identical titles will duplicate.
	existing, err := e.rpc.Search(productModel,
		[]interface{}{[]interface{}{"name", "=", p.Title}},
		[]string{"id", "name"}, 1)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		odooID := existing[0].ID()
		p.OdooProductID = &odooID
		log.Printf("🔗 Linked local product to existing Odoo product %d: %s", odooID, p.Title)
		return e.stampSynced(p)
	}

	odooID, err := e.rpc.Create(productModel, e.remoteValues(p))
	if err != nil {
		return err
	}

	p.OdooProductID = &odooID
	log.Printf("✅ Created product in Odoo (%d): %s", odooID, p.Title)
	return e.stampSynced(p)
}

// remoteValues maps a local product to Odoo field values. Odoo 17 storable
// goods use type "consu".
func (e *ProductEngine) remoteValues(p *models.Product) map[string]interface{} {
	code := p.ISBN
	if code == "" {
		code = p.ItemCode
	}
	if code == "" {
		code = p.Slug
	}

	values := map[string]interface{}{
		"name":             p.Title,
		"default_code":     code,
		"list_price":       p.PriceUSD,
		"description_sale": p.Description,
		"sale_ok":          true,
		"purchase_ok":      true,
		"type":             "consu",
	}

	if p.CoverImage != "" && e.images != nil {
		if data, err := e.images.LoadImage(p.CoverImage); err == nil {
			values["image_1920"] = base64.StdEncoding.EncodeToString(data)
		} else {
			log.Printf("⚠️ Cover image unreadable for %s: %v", p.Title, err)
		}
	}

	if p.CategoryID != nil {
		if categID, err := e.pushCategory(*p.CategoryID); err != nil {
			// Category linkage is secondary; push the product without it
			log.Printf("⚠️ Failed to sync category for %s: %v", p.Title, err)
		} else if categID != 0 {
			values["categ_id"] = categID
		}
	}

	return values
}

// pushCategory ensures the product's category exists remotely and returns
// its Odoo id.
func (e *ProductEngine) pushCategory(categoryID string) (int64, error) {
	c, err := e.store.CategoryByID(categoryID)
	if err != nil || c == nil {
		return 0, err
	}
	if c.OdooCategoryID != nil {
		return *c.OdooCategoryID, nil
	}

	existing, err := e.rpc.Search(categoryModel,
		[]interface{}{[]interface{}{"name", "=", c.Name}},
		[]string{"id", "name"}, 1)
	if err != nil {
		return 0, err
	}

	var odooID int64
	if len(existing) > 0 {
		odooID = existing[0].ID()
	} else {
		odooID, err = e.rpc.Create(categoryModel, map[string]interface{}{"name": c.Name})
		if err != nil {
			return 0, err
		}
		log.Printf("✅ Created category in Odoo (%d): %s", odooID, c.Name)
	}

	c.OdooCategoryID = &odooID
	if err := e.store.SaveCategory(c); err != nil {
		return 0, err
	}
	return odooID, nil
}

// stampSynced records the link and sync time. This is a housekeeping write;
// hook triage recognizes the metadata-only field set and stays quiet.
func (e *ProductEngine) stampSynced(p *models.Product) error {
	now := time.Now().UTC()
	p.OdooSyncedAt = &now
	return e.store.Save(nil, p, NewFieldSet(FieldOdooProductID, FieldOdooSyncedAt))
}

// SyncStockLevels re-reads only the remote quantity for every linked
// product and recomputes the local stock status. Full-field reconciliation
// is deliberately skipped here; this loop runs every few minutes.
func (e *ProductEngine) SyncStockLevels() (StockStats, error) {
	var stats StockStats

	products, err := e.store.ListLinked()
	if err != nil {
		return stats, err
	}

	sess := BeginPull()
	defer sess.End()

	for i := range products {
		p := &products[i]

		records, err := e.rpc.Read(productModel, []int64{*p.OdooProductID}, []string{"qty_available"})
		if err != nil {
			log.Printf("❌ Failed to sync stock for %q: %v", p.Title, err)
			stats.Errors++
			continue
		}
		if len(records) == 0 {
			continue
		}

		qty := int(records[0].Int("qty_available"))
		now := time.Now().UTC()
		p.StockQty = qty
		p.StockStatus = models.DeriveStockStatus(qty)
		p.OdooSyncedAt = &now

		changed := NewFieldSet(FieldStockQuantity, FieldStockStatus, FieldOdooSyncedAt)
		if err := e.store.Save(sess, p, changed); err != nil {
			log.Printf("❌ Failed to save stock for %q: %v", p.Title, err)
			stats.Errors++
			continue
		}
		stats.Updated++
	}

	return stats, nil
}

// PushStock sends one product's stock quantity to the ERP by updating its
// first stock quant, creating one in the internal Stock location when none
// exists. Used by the deferred task queue when only stock changed locally.
func (e *ProductEngine) PushStock(p *models.Product) error {
	if !p.Linked() {
		log.Printf("⏭️ Product not linked to Odoo, skipping stock push: %s", p.Title)
		return nil
	}

	quants, err := e.rpc.Search(quantModel,
		[]interface{}{[]interface{}{"product_id", "=", *p.OdooProductID}},
		[]string{"id", "quantity", "location_id"}, 0)
	if err != nil {
		return err
	}

	if len(quants) > 0 {
		// Only the first quant is adjusted
		if err := e.rpc.Update(quantModel, quants[0].ID(), map[string]interface{}{
			"quantity": p.StockQty,
		}); err != nil {
			return err
		}
	} else if err := e.createStockQuant(p); err != nil {
		// Quant creation is secondary; do not fail the task
		log.Printf("⚠️ Failed to create stock quant for %s: %v", p.Title, err)
	}

	return e.stampSynced(p)
}

func (e *ProductEngine) createStockQuant(p *models.Product) error {
	locations, err := e.rpc.Search(locationModel,
		[]interface{}{
			[]interface{}{"usage", "=", "internal"},
			[]interface{}{"name", "=", "Stock"},
		},
		[]string{"id", "name"}, 1)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return fmt.Errorf("no internal stock location found in Odoo")
	}

	_, err = e.rpc.Create(quantModel, map[string]interface{}{
		"product_id":  *p.OdooProductID,
		"location_id": locations[0].ID(),
		"quantity":    p.StockQty,
	})
	return err
}

// FullSync runs pull then push inside one transaction. Pull completes fully
// before push starts, so products linked during pull are already excluded
// from push's unlinked query. A failure in either phase rolls back both.
func (e *ProductEngine) FullSync() (FullStats, error) {
	var stats FullStats

	err := e.store.Transaction(func(tx ProductStore) error {
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
			Pulled:    pull.Synced,
			Pushed:    push.Synced,
			Skipped:   pull.Skipped + push.Skipped,
			Conflicts: pull.Conflicts,
			Errors:    pull.Errors + push.Errors,
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Product sync failed: %v", err)
		return FullStats{}, err
	}

	log.Printf("✅ Product sync completed: pulled=%d pushed=%d conflicts=%d errors=%d",
		stats.Pulled, stats.Pushed, stats.Conflicts, stats.Errors)
	return stats, nil
}

// Status returns the product sync status summary.
func (e *ProductEngine) Status() (ProductCounts, error) {
	return e.store.Counts()
}
