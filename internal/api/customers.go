package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacare/m/domain"
)

type customerRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list customers")
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) searchCustomers(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	customers, err := h.customers.Search(r.Context(), term)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to search customers")
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	c := domain.Customer{
		CustomerID: strings.TrimSpace(req.CustomerID),
		Name:       strings.TrimSpace(req.Name),
		Contact:    req.Contact,
		Email:      req.Email,
		Address:    req.Address,
	}
	if c.CustomerID == "" {
		c.CustomerID = domain.NewCustomerID()
	}
	if err := h.customers.Add(r.Context(), c); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add customer")
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	c := domain.Customer{
		CustomerID: chi.URLParam(r, "id"),
		Name:       strings.TrimSpace(req.Name),
		Contact:    req.Contact,
		Email:      req.Email,
		Address:    req.Address,
	}
	if err := h.customers.Update(r.Context(), c); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
