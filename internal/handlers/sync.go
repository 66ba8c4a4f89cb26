package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eduboutique/storefront/internal/store"
	"github.com/eduboutique/storefront/internal/sync"
)

// SyncHandler exposes the Odoo sync engines over HTTP. Sync runs are long
// RPC conversations, so trigger endpoints kick off a background run and
// return 202 immediately.
type SyncHandler struct {
	products  *sync.ProductEngine
	customers *sync.CustomerEngine
	audit     *store.Audit
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(products *sync.ProductEngine, customers *sync.CustomerEngine, audit *store.Audit) *SyncHandler {
	return &SyncHandler{
		products:  products,
		customers: customers,
		audit:     audit,
	}
}

// RegisterRoutes registers sync routes
func (sh *SyncHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/sync/products", sh.TriggerProductSync).Methods("POST")
	r.HandleFunc("/api/sync/pull", sh.TriggerPull).Methods("POST")
	r.HandleFunc("/api/sync/push", sh.TriggerPush).Methods("POST")
	r.HandleFunc("/api/sync/stock", sh.TriggerStockSync).Methods("POST")
	r.HandleFunc("/api/sync/customers", sh.TriggerCustomerSync).Methods("POST")
	r.HandleFunc("/api/sync/full", sh.TriggerFullSync).Methods("POST")

	r.HandleFunc("/api/sync/status", sh.GetSyncStatus).Methods("GET")
	r.HandleFunc("/api/sync/logs", sh.GetSyncLogs).Methods("GET")
}

// productEngine resolves the engine for this request, honoring an optional
// ?strategy= override.
func (sh *SyncHandler) productEngine(r *http.Request) (*sync.ProductEngine, error) {
	raw := r.URL.Query().Get("strategy")
	if raw == "" {
		return sh.products, nil
	}
	strategy, err := sync.ParseStrategy(raw)
	if err != nil {
		return nil, err
	}
	return sh.products.WithStrategy(strategy), nil
}

// TriggerProductSync starts a full bidirectional product sync.
func (sh *SyncHandler) TriggerProductSync(w http.ResponseWriter, r *http.Request) {
	engine, err := sh.productEngine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		if _, err := engine.FullSync(); err != nil {
			log.Printf("❌ Product sync failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "sync": "products"})
}

// TriggerPull starts a pull-only product sync.
func (sh *SyncHandler) TriggerPull(w http.ResponseWriter, r *http.Request) {
	engine, err := sh.productEngine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		if _, err := engine.PullAll(); err != nil {
			log.Printf("❌ Product pull failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "sync": "pull"})
}

// TriggerPush starts a push-only product sync.
func (sh *SyncHandler) TriggerPush(w http.ResponseWriter, r *http.Request) {
	go func() {
		if _, err := sh.products.PushAll(); err != nil {
			log.Printf("❌ Product push failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "sync": "push"})
}

// TriggerStockSync starts a stock-only pull.
func (sh *SyncHandler) TriggerStockSync(w http.ResponseWriter, r *http.Request) {
	go func() {
		if _, err := sh.products.SyncStockLevels(); err != nil {
			log.Printf("❌ Stock sync failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "sync": "stock"})
}

// TriggerCustomerSync starts a full customer sync.
func (sh *SyncHandler) TriggerCustomerSync(w http.ResponseWriter, r *http.Request) {
	go func() {
		if _, err := sh.customers.FullSync(); err != nil {
			log.Printf("❌ Customer sync failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "sync": "customers"})
}

// TriggerFullSync runs products then customers.
func (sh *SyncHandler) TriggerFullSync(w http.ResponseWriter, r *http.Request) {
	engine, err := sh.productEngine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		if _, err := engine.FullSync(); err != nil {
			log.Printf("❌ Product sync failed: %v", err)
			return
		}
		if _, err := sh.customers.FullSync(); err != nil {
			log.Printf("❌ Customer sync failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "sync": "full"})
}

// GetSyncStatus returns link counts and whether a pull is in flight.
func (sh *SyncHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	products, err := sh.products.Status()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	customers, err := sh.customers.Status()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pull_in_progress": sync.PullInProgress(),
		"products":         products,
		"customers":        customers,
	})
}

// GetSyncLogs returns the newest audit entries, paged with ?limit= and
// ?offset=.
func (sh *SyncHandler) GetSyncLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, total, err := sh.audit.Recent(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"logs":   entries,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
