package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/eduboutique/storefront/internal/config"
	"github.com/eduboutique/storefront/internal/database"
	"github.com/eduboutique/storefront/internal/models"
	"github.com/eduboutique/storefront/internal/odoo"
	"github.com/eduboutique/storefront/internal/store"
	"github.com/eduboutique/storefront/internal/sync"
)

// odoosync runs one sync pass from the command line and prints the outcome.
func main() {
	syncType := flag.String("type", "all", "what to sync: all, products, stock, push, pull, customers, status")
	strategyFlag := flag.String("strategy", "", "conflict strategy override: remote_wins, local_wins, newest_wins")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Odoo.Enabled() {
		log.Fatal("Odoo is not configured (set ODOO_URL)")
	}

	strategyName := cfg.Sync.Strategy
	if *strategyFlag != "" {
		strategyName = *strategyFlag
	}
	strategy, err := sync.ParseStrategy(strategyName)
	if err != nil {
		log.Fatalf("Invalid strategy: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Customer{},
		&models.OdooSyncLog{},
		&models.SyncTask{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v", err)
	}

	audit := store.NewAudit(db.DB)
	client := odoo.NewClient(cfg.Odoo.URL, cfg.Odoo.Database, cfg.Odoo.Username, cfg.Odoo.Password, audit)

	products := sync.NewProductEngine(client, store.NewProducts(db.DB), store.NewImages(cfg.ImageDir), strategy)
	customers := sync.NewCustomerEngine(client, store.NewCustomers(db.DB))

	if err := client.TestConnection(); err != nil {
		log.Fatalf("Odoo connection failed: %v", err)
	}

	switch *syncType {
	case "all":
		pStats, pErr := products.FullSync()
		cStats, cErr := customers.FullSync()
		printFull("Products", pStats)
		printFull("Customers", cStats)
		exitOn(pErr, cErr)

	case "products":
		stats, err := products.FullSync()
		printFull("Products", stats)
		exitOn(err)

	case "stock":
		stats, err := products.SyncStockLevels()
		printRows("Stock",
			row{"updated", stats.Updated},
			row{"errors", stats.Errors})
		exitOn(err)

	case "push":
		stats, err := products.PushAll()
		printRows("Push",
			row{"synced", stats.Synced},
			row{"skipped", stats.Skipped},
			row{"errors", stats.Errors})
		exitOn(err)

	case "pull":
		stats, err := products.PullAll()
		printRows("Pull",
			row{"synced", stats.Synced},
			row{"skipped", stats.Skipped},
			row{"conflicts", stats.Conflicts},
			row{"errors", stats.Errors})
		exitOn(err)

	case "customers":
		stats, err := customers.FullSync()
		printFull("Customers", stats)
		exitOn(err)

	case "status":
		pCounts, pErr := products.Status()
		cCounts, cErr := customers.Status()
		printRows("Products",
			row{"total", pCounts.Total},
			row{"synced", pCounts.Synced},
			row{"unsynced", pCounts.Unsynced})
		printRows("Customers",
			row{"total", cCounts.Total},
			row{"synced", cCounts.Synced},
			row{"unsynced", cCounts.Unsynced})
		if pCounts.LastSync != nil {
			fmt.Printf("Last product sync: %s\n", pCounts.LastSync.Format("2006-01-02 15:04:05"))
		}
		if cCounts.LastSync != nil {
			fmt.Printf("Last customer sync: %s\n", cCounts.LastSync.Format("2006-01-02 15:04:05"))
		}
		exitOn(pErr, cErr)

	default:
		log.Fatalf("Unknown sync type %q (want all, products, stock, push, pull, customers or status)", *syncType)
	}
}

type row struct {
	label string
	value interface{}
}

func printFull(title string, stats sync.FullStats) {
	printRows(title,
		row{"pulled", stats.Pulled},
		row{"pushed", stats.Pushed},
		row{"skipped", stats.Skipped},
		row{"conflicts", stats.Conflicts},
		row{"errors", stats.Errors})
}

func printRows(title string, rows ...row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s:\n", title)
	for _, r := range rows {
		fmt.Fprintf(w, "  %s\t%v\n", r.label, r.value)
	}
	w.Flush()
}

// exitOn exits non-zero if any error is set. Stats are printed first so a
// partially failed run still reports what it did.
func exitOn(errs ...error) {
	failed := false
	for _, err := range errs {
		if err != nil {
			log.Printf("❌ %v", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
