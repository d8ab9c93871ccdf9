package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"pharmacare/m/internal/billing"
	"pharmacare/m/internal/inventory"
	"pharmacare/m/internal/invoice"
	"pharmacare/m/internal/party"
	"pharmacare/m/internal/reports"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db        *sqlx.DB
	inventory *inventory.Store
	suppliers *party.SupplierStore
	customers *party.CustomerStore
	ledger    *billing.Ledger
	reports   *reports.Store
	renderer  *invoice.Renderer
	secret    string
	log       *zap.Logger
}

// New constructs a Handler.
func New(db *sqlx.DB, inv *inventory.Store, sup *party.SupplierStore, cus *party.CustomerStore,
	ledger *billing.Ledger, rep *reports.Store, renderer *invoice.Renderer, secret string, log *zap.Logger) *Handler {
	return &Handler{
		db:        db,
		inventory: inv,
		suppliers: sup,
		customers: cus,
		ledger:    ledger,
		reports:   rep,
		renderer:  renderer,
		secret:    secret,
		log:       log,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.addMedicine)
			r.Get("/search", h.searchMedicines)
			r.Get("/low-stock", h.lowStockMedicines)
			r.Get("/suppliers", h.supplierNames)
			r.Get("/{id}", h.getMedicine)
			r.Put("/{id}", h.updateMedicine)
			r.Delete("/{id}", h.deleteMedicine)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.addSupplier)
			r.Get("/search", h.searchSuppliers)
			r.Put("/{id}", h.updateSupplier)
			r.Delete("/{id}", h.deleteSupplier)
			r.Post("/{id}/supplies", h.addSupplyRecord)
		})
		pr.Get("/supplies", h.listSupplyRecords)

		pr.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.addCustomer)
			r.Get("/search", h.searchCustomers)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		pr.Route("/bills", func(r chi.Router) {
			r.Post("/", h.createBill)
			r.Get("/", h.listBills)
			r.Get("/search", h.searchBills)
			r.Get("/{id}", h.getBillDetails)
			r.Get("/{id}/preview", h.previewBill)
			r.Post("/{id}/export", h.exportBill)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/sales/monthly", h.monthlySales)
			r.Get("/best-sellers", h.bestSellers)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
