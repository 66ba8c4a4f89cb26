package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eduboutique/storefront/internal/config"
	"github.com/eduboutique/storefront/internal/database"
	"github.com/eduboutique/storefront/internal/handlers"
	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/odoo"
	"github.com/eduboutique/storefront/internal/store"
	"github.com/eduboutique/storefront/internal/sync"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-migrate schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Customer{},

		// Sync tables
		&models.OdooSyncLog{},
		&models.SyncTask{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire the sync subsystem
	strategy, err := sync.ParseStrategy(cfg.Sync.Strategy)
	if err != nil {
		log.Fatalf("Failed to parse conflict strategy: %v", err)
	}

	audit := store.NewAudit(db.DB)
	products := store.NewProducts(db.DB)
	customers := store.NewCustomers(db.DB)
	tasks := store.NewTasks(db.DB)
	images := store.NewImages(cfg.ImageDir)

	client := odoo.NewClient(cfg.Odoo.URL, cfg.Odoo.Database, cfg.Odoo.Username, cfg.Odoo.Password, audit)

	productEngine := sync.NewProductEngine(client, products, images, strategy)
	customerEngine := sync.NewCustomerEngine(client, customers)

	// Local changes enqueue deferred push tasks through the observer.
	observer := sync.NewObserver(tasks)
	products.SetNotifier(observer)
	customers.SetNotifier(observer)

	dispatcher := sync.NewDispatcher(tasks)
	dispatcher.Register(models.TaskPushProduct, func(id string) error {
		p, err := products.FindByID(id)
		if err != nil || p == nil {
			return err
		}
		return productEngine.PushProduct(p)
	})
	dispatcher.Register(models.TaskPushStock, func(id string) error {
		p, err := products.FindByID(id)
		if err != nil || p == nil {
			return err
		}
		return productEngine.PushStock(p)
	})
	dispatcher.Register(models.TaskPushCustomer, func(id string) error {
		c, err := customers.FindByID(id)
		if err != nil || c == nil {
			return err
		}
		return customerEngine.PushCustomer(c)
	})

	scheduler := sync.NewScheduler(productEngine, customerEngine,
		cfg.Sync.ProductsInterval, cfg.Sync.StockInterval)

	if cfg.Odoo.Enabled() {
		if err := client.TestConnection(); err != nil {
			log.Printf("⚠️ Odoo: Connection test failed: %v", err)
		} else {
			log.Println("✅ Odoo: Connection verified")
		}
		dispatcher.Start()
		scheduler.Start()
	} else {
		log.Println("⚠️ Odoo: Not configured, sync disabled")
	}

	// 5. Set up HTTP router
	router := handlers.NewRouter()
	syncHandler := handlers.NewSyncHandler(productEngine, customerEngine, audit)
	syncHandler.RegisterRoutes(router.Router)

	// 6. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if cfg.Odoo.Enabled() {
		scheduler.Stop()
		dispatcher.Stop()
	}

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
