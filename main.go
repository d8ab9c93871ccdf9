package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pharmacare/m/internal/api"
	"pharmacare/m/internal/billing"
	"pharmacare/m/internal/config"
	"pharmacare/m/internal/database"
	"pharmacare/m/internal/inventory"
	"pharmacare/m/internal/invoice"
	"pharmacare/m/internal/migrations"
	"pharmacare/m/internal/party"
	"pharmacare/m/internal/reports"
	"pharmacare/m/internal/seed"
	"pharmacare/m/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.Must(logger.New())
	defer log.Sync()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.EnsureAdmin(db, "admin", "admin")
	seed.LoadMedicines(db, "assets/medicines.csv")

	inv := inventory.New(db, logger.Named(log, "inventory"))
	suppliers := party.NewSupplierStore(db, logger.Named(log, "suppliers"))
	customers := party.NewCustomerStore(db, logger.Named(log, "customers"))
	ledger := billing.NewLedger(db, logger.Named(log, "billing"))
	reporting := reports.New(db, logger.Named(log, "reports"))

	// Supplier mutations invalidate the inventory form's name cache.
	suppliers.OnChange(func() {
		if err := inv.RefreshSuppliers(); err != nil {
			log.Warn("supplier cache refresh failed", zap.Error(err))
		}
	})

	renderer, err := invoice.NewRenderer(cfg.ChromePath, logger.Named(log, "invoice"))
	if err != nil {
		log.Fatal("unable to parse invoice template", zap.Error(err))
	}

	handler := api.New(db, inv, suppliers, customers, ledger, reporting, renderer, cfg.Secret, logger.Named(log, "api"))

	log.Info("pharmacy server starting", zap.String("port", cfg.HTTPPort))
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
