package handlers

import (
	"net/http"

	"ledger/internal/money"
	"ledger/internal/services"

	"github.com/go-chi/chi/v5"
)

// accountName is the field older clients send; name wins when both are set.
type createAccountRequest struct {
	Name        string `json:"name"`
	AccountName string `json:"accountName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r createAccountRequest) name() string {
	if r.Name != "" {
		return r.Name
	}
	return r.AccountName
}

// updateAccountRequest uses pointers so an omitted field is told apart from an
// empty one.
type updateAccountRequest struct {
	Name        *string `json:"name"`
	AccountName *string `json:"accountName"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (r updateAccountRequest) name() *string {
	if r.Name != nil {
		return r.Name
	}
	return r.AccountName
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	account, err := h.accounts.CreateAccount(r.Context(), services.CreateAccountRequest{
		OwnerID:     userID,
		Name:        req.name(),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondServiceError(w, "create account", err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Account created successfully", newAccountView(account))
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "list accounts", err)
		return
	}
	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, newAccountSummaryView(account))
	}
	respondSuccess(w, http.StatusOK, "Accounts fetched successfully", views)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	account, err := h.accounts.GetAccount(r.Context(), userID, chi.URLParam(r, "accountId"))
	if err != nil {
		respondServiceError(w, "get account", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Account fetched successfully", newAccountView(account))
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	account, err := h.accounts.UpdateAccount(r.Context(), services.UpdateAccountRequest{
		OwnerID:     userID,
		AccountID:   chi.URLParam(r, "accountId"),
		Name:        req.name(),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondServiceError(w, "update account", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Account updated successfully", newAccountView(account))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	if err := h.accounts.DeleteAccount(r.Context(), userID, chi.URLParam(r, "accountId")); err != nil {
		respondServiceError(w, "delete account", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Account deleted successfully", nil)
}

func (h *Handler) GetAccountBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountId")
	balance, err := h.accounts.GetAccountBalance(r.Context(), userID, accountID)
	if err != nil {
		respondServiceError(w, "get account balance", err)
		return
	}
	respondSuccess(w, http.StatusOK, "Balance fetched successfully", map[string]string{
		"accountId": accountID,
		"balance":   money.FormatMinor(balance),
	})
}

func (h *Handler) ReconcileAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}
	checks, err := h.accounts.Reconcile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "reconcile accounts", err)
		return
	}
	views := make([]balanceCheckView, 0, len(checks))
	for _, check := range checks {
		views = append(views, balanceCheckView{
			AccountID:         check.AccountID,
			Name:              check.Name,
			CachedBalance:     money.FormatMinor(check.CachedBalance),
			CalculatedBalance: money.FormatMinor(check.CalculatedBalance),
			Difference:        money.FormatMinor(check.Difference),
		})
	}
	respondSuccess(w, http.StatusOK, "Balances reconciled", views)
}
