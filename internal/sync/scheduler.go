package sync

import (
	"log"
	"time"
)

// Scheduler runs the periodic sync passes: a full product sync every
// products interval and a lightweight stock-only pull every stock interval.
type Scheduler struct {
	products      *ProductEngine
	customers     *CustomerEngine
	productsEvery time.Duration
	stockEvery    time.Duration
	stop          chan struct{}
}

// NewScheduler creates a scheduler. Intervals are in minutes; zero or
// negative values fall back to 30 and 15.
func NewScheduler(products *ProductEngine, customers *CustomerEngine, productsMinutes, stockMinutes int) *Scheduler {
	if productsMinutes <= 0 {
		productsMinutes = 30
	}
	if stockMinutes <= 0 {
		stockMinutes = 15
	}
	return &Scheduler{
		products:      products,
		customers:     customers,
		productsEvery: time.Duration(productsMinutes) * time.Minute,
		stockEvery:    time.Duration(stockMinutes) * time.Minute,
		stop:          make(chan struct{}),
	}
}

// Start launches the schedule loop in a background goroutine.
func (s *Scheduler) Start() {
	go func() {
		log.Printf("📡 Odoo sync scheduler started (products every %s, stock every %s)",
			s.productsEvery, s.stockEvery)

		productTicker := time.NewTicker(s.productsEvery)
		stockTicker := time.NewTicker(s.stockEvery)
		defer productTicker.Stop()
		defer stockTicker.Stop()

		for {
			select {
			case <-productTicker.C:
				if _, err := s.products.FullSync(); err != nil {
					log.Printf("❌ Scheduled product sync failed: %v", err)
				}
				if _, err := s.customers.FullSync(); err != nil {
					log.Printf("❌ Scheduled customer sync failed: %v", err)
				}
			case <-stockTicker.C:
				if stats, err := s.products.SyncStockLevels(); err != nil {
					log.Printf("❌ Scheduled stock sync failed: %v", err)
				} else {
					log.Printf("✅ Stock sync completed: updated=%d errors=%d", stats.Updated, stats.Errors)
				}
			case <-s.stop:
				log.Println("🛑 Odoo sync scheduler stopped")
				return
			}
		}
	}()
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	close(s.stop)
}
