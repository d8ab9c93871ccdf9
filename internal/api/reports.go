package api

import (
	"net/http"
	"strconv"
)

func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Monthly(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch monthly sales")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) bestSellers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.reports.BestSellers(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch best sellers")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
