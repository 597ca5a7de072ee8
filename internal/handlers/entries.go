package handlers

import (
	"net/http"

	"ledger/internal/services"
	"ledger/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Amounts may arrive as JSON numbers or strings ("12.50").
type createEntryRequest struct {
	AccountID string           `json:"accountId"`
	Type      string           `json:"type"`
	Amount    *decimal.Decimal `json:"amount"`
	Date      string           `json:"date"`
	Reason    string           `json:"reason"`
}

type updateEntryRequest struct {
	Type   *string          `json:"type"`
	Amount *decimal.Decimal `json:"amount"`
	Date   *string          `json:"date"`
	Reason *string          `json:"reason"`
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.entries.CreateEntry(r.Context(), services.CreateEntryRequest{
		OwnerID:   userID,
		AccountID: req.AccountID,
		Type:      req.Type,
		Amount:    amount,
		Date:      date,
		Reason:    req.Reason,
	})
	if err != nil {
		respondServiceError(w, "create entry", err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Entry created successfully", newEntryView(entry))
}

func (h *Handler) GetAllEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	entries, err := h.entries.GetAllEntries(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "list entries", err)
		return
	}
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryWithAccountView(entry))
	}
	respondSuccess(w, http.StatusOK, "Entries fetched successfully", views)
}

func (h *Handler) GetEntriesByAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	entries, err := h.entries.GetEntriesByAccount(r.Context(), userID, chi.URLParam(r, "accountId"))
	if err != nil {
		respondServiceError(w, "list account entries", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Entries fetched successfully", newEntryViews(entries))
}

func (h *Handler) GetEntriesByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	start, err := parseDate(query.Get("startDate"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(query.Get("endDate"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.entries.GetEntriesByDateRange(r.Context(), userID, chi.URLParam(r, "accountId"), store.DateRange{Start: start, End: end})
	if err != nil {
		respondServiceError(w, "list entries by date", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Entries fetched successfully", newEntryViews(entries))
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	entry, err := h.entries.GetEntry(r.Context(), userID, chi.URLParam(r, "entryId"))
	if err != nil {
		respondServiceError(w, "get entry", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Entry fetched successfully", newEntryWithAccountView(entry))
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req updateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	svcReq := services.UpdateEntryRequest{
		OwnerID: userID,
		EntryID: chi.URLParam(r, "entryId"),
		Type:    req.Type,
		Amount:  amount,
		Reason:  req.Reason,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		svcReq.Date = date
	}
	entry, err := h.entries.UpdateEntry(r.Context(), svcReq)
	if err != nil {
		respondServiceError(w, "update entry", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Entry updated successfully", newEntryView(entry))
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	if err := h.entries.DeleteEntry(r.Context(), userID, chi.URLParam(r, "entryId")); err != nil {
		respondServiceError(w, "delete entry", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Entry deleted successfully", nil)
}
