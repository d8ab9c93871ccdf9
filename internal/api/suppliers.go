package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pharmacare/m/domain"
	"pharmacare/m/internal/party"
)

type supplierRequest struct {
	SupplierID string `json:"supplier_id,omitempty"`
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list suppliers")
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) searchSuppliers(w http.ResponseWriter, r *http.Request) {
	field := party.SupplierSearchField(r.URL.Query().Get("by"))
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	suppliers, err := h.suppliers.Search(r.Context(), field, term)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) addSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	sup := domain.Supplier{
		SupplierID: strings.TrimSpace(req.SupplierID),
		Name:       strings.TrimSpace(req.Name),
		Contact:    req.Contact,
		Email:      req.Email,
		Address:    req.Address,
	}
	if sup.SupplierID == "" {
		sup.SupplierID = domain.NewSupplierID()
	}
	if err := h.suppliers.Add(r.Context(), sup); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add supplier")
		return
	}
	respondJSON(w, http.StatusCreated, sup)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	sup := domain.Supplier{
		SupplierID: chi.URLParam(r, "id"),
		Name:       strings.TrimSpace(req.Name),
		Contact:    req.Contact,
		Email:      req.Email,
		Address:    req.Address,
	}
	if err := h.suppliers.Update(r.Context(), sup); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.suppliers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type supplyRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int64  `json:"quantity"`
	Amount     string `json:"amount"`
	SupplyDate string `json:"supply_date,omitempty"`
}

func (h *Handler) addSupplyRecord(w http.ResponseWriter, r *http.Request) {
	var req supplyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || amount.IsNegative() {
		respondError(w, http.StatusBadRequest, "amount must be a non-negative decimal")
		return
	}
	supplyDate := strings.TrimSpace(req.SupplyDate)
	if supplyDate == "" {
		supplyDate = time.Now().Format("2006-01-02")
	}
	rec := domain.SupplyRecord{
		SupplierID: chi.URLParam(r, "id"),
		MedicineID: strings.TrimSpace(req.MedicineID),
		Quantity:   req.Quantity,
		Amount:     amount,
		SupplyDate: supplyDate,
	}
	if err := h.suppliers.AddSupplyRecord(r.Context(), rec); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "supply recorded"})
}

func (h *Handler) listSupplyRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.suppliers.SupplyRecords(r.Context(), q.Get("supplier_id"), q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list supply records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}
