package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmacare/m/internal/billing"
)

type billLineRequest struct {
	Medicine string      `json:"medicine"`
	Quantity json.Number `json:"quantity"`
}

type billRequest struct {
	CustomerID string            `json:"customer_id"`
	Items      []billLineRequest `json:"items"`
}

// createBill replays the submitted lines through a fresh bill builder, so
// every line is validated against a current inventory read, then commits.
// A failed commit changes nothing; the client may resubmit as-is.
func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	builder := billing.NewBuilder(h.inventory, h.ledger)
	for _, line := range req.Items {
		if _, err := builder.AddLine(r.Context(), line.Medicine, line.Quantity.String()); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	bill, err := builder.Commit(r.Context(), req.CustomerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, bill)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from != "" && to != "" {
		bills, err := h.ledger.FilterByDate(r.Context(), from, to)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to filter bills")
			return
		}
		respondJSON(w, http.StatusOK, bills)
		return
	}
	bills, err := h.ledger.All(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list bills")
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *Handler) searchBills(w http.ResponseWriter, r *http.Request) {
	field := billing.BillSearchField(r.URL.Query().Get("by"))
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	bills, err := h.ledger.Search(r.Context(), field, term)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *Handler) getBillDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.ledger.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (h *Handler) previewBill(w http.ResponseWriter, r *http.Request) {
	details, err := h.ledger.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	html, err := h.renderer.RenderHTML(details)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render bill")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

type exportRequest struct {
	Path string `json:"path"`
}

func (h *Handler) exportBill(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	details, err := h.ledger.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.renderer.ExportPDF(r.Context(), details, req.Path); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to export bill: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "exported", "path": req.Path})
}
