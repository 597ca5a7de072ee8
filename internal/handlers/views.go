package handlers

import (
	"time"

	"ledger/internal/ledger"
	"ledger/internal/models"
	"ledger/internal/money"
)

// Amounts and balances leave the API as decimal strings such as "80.00".

type accountView struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phoneNumber"`
	Balance     string         `json:"balance"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	LastEntry   *lastEntryView `json:"lastEntry,omitempty"`
}

type lastEntryView struct {
	Type      ledger.EntryType `json:"type"`
	Amount    string           `json:"amount"`
	Date      time.Time        `json:"date"`
	CreatedAt time.Time        `json:"createdAt"`
}

type entryView struct {
	ID                 string           `json:"id"`
	AccountID          string           `json:"accountId"`
	OwnerID            string           `json:"ownerId"`
	Type               ledger.EntryType `json:"type"`
	Amount             string           `json:"amount"`
	Date               time.Time        `json:"date"`
	Reason             string           `json:"reason"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
	AccountName        string           `json:"accountName,omitempty"`
	AccountPhoneNumber string           `json:"accountPhoneNumber,omitempty"`
}

type balanceCheckView struct {
	AccountID         string `json:"accountId"`
	Name              string `json:"name"`
	CachedBalance     string `json:"cachedBalance"`
	CalculatedBalance string `json:"calculatedBalance"`
	Difference        string `json:"difference"`
}

type userView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func newAccountView(account models.Account) accountView {
	return accountView{
		ID:          account.ID,
		OwnerID:     account.OwnerID,
		Name:        account.Name,
		PhoneNumber: account.PhoneNumber,
		Balance:     money.FormatMinor(account.Balance),
		IsActive:    account.IsActive,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

func newAccountSummaryView(summary models.AccountSummary) accountView {
	view := newAccountView(summary.Account)
	if summary.LastEntry != nil {
		view.LastEntry = &lastEntryView{
			Type:      summary.LastEntry.Type,
			Amount:    money.FormatMinor(summary.LastEntry.Amount),
			Date:      summary.LastEntry.Date,
			CreatedAt: summary.LastEntry.CreatedAt,
		}
	}
	return view
}

func newEntryView(entry models.Entry) entryView {
	return entryView{
		ID:        entry.ID,
		AccountID: entry.AccountID,
		OwnerID:   entry.OwnerID,
		Type:      entry.Type,
		Amount:    money.FormatMinor(entry.Amount),
		Date:      entry.Date,
		Reason:    entry.Reason,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func newEntryWithAccountView(entry models.EntryWithAccount) entryView {
	view := newEntryView(entry.Entry)
	view.AccountName = entry.AccountName
	view.AccountPhoneNumber = entry.AccountPhoneNumber
	return view
}

func newEntryViews(entries []models.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, newEntryView(entry))
	}
	return views
}

func newUserView(user models.User) userView {
	createdAt := user.CreatedAt
	return userView{ID: user.ID, Username: user.Username, CreatedAt: &createdAt}
}
