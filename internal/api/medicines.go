package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pharmacare/m/domain"
	"pharmacare/m/internal/inventory"
)

type medicineRequest struct {
	MedicineID   string `json:"medicine_id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	SupplierID   string `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	Price        string `json:"price"`
	Quantity     int64  `json:"quantity"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	Location     string `json:"location,omitempty"`
}

func (h *Handler) medicineFromRequest(r *http.Request, req medicineRequest) (domain.Medicine, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Medicine{}, &domain.ValidationError{Details: "name is required"}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return domain.Medicine{}, &domain.ValidationError{Details: "price must be a non-negative decimal"}
	}
	if req.Quantity < 0 {
		return domain.Medicine{}, &domain.ValidationError{Details: "quantity must not be negative"}
	}

	supplierID := strings.TrimSpace(req.SupplierID)
	if supplierID == "" && strings.TrimSpace(req.SupplierName) != "" {
		supplierID, err = h.inventory.SupplierIDByName(r.Context(), strings.TrimSpace(req.SupplierName))
		if err != nil {
			return domain.Medicine{}, err
		}
	}

	return domain.Medicine{
		MedicineID:  strings.TrimSpace(req.MedicineID),
		Name:        strings.TrimSpace(req.Name),
		Description: nullIfEmpty(req.Description),
		SupplierID:  nullIfEmpty(supplierID),
		Price:       price,
		Quantity:    req.Quantity,
		ExpiryDate:  nullIfEmpty(req.ExpiryDate),
		Location:    nullIfEmpty(req.Location),
	}, nil
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.inventory.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	field := inventory.SearchField(r.URL.Query().Get("by"))
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	medicines, err := h.inventory.Search(r.Context(), field, term)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	med, err := h.inventory.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	med, err := h.medicineFromRequest(r, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if med.MedicineID == "" {
		med.MedicineID = domain.NewMedicineID()
	}
	if err := h.inventory.Add(r.Context(), med); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add medicine")
		return
	}
	respondJSON(w, http.StatusCreated, med)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	med, err := h.medicineFromRequest(r, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	med.MedicineID = chi.URLParam(r, "id")
	if err := h.inventory.Update(r.Context(), med); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) lowStockMedicines(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.ParseInt(r.URL.Query().Get("threshold"), 10, 64)
	if threshold <= 0 {
		threshold = 10
	}
	medicines, err := h.inventory.LowStock(r.Context(), threshold)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list low stock medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) supplierNames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.inventory.SupplierNames())
}
