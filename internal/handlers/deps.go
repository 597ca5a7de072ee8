package handlers

import (
	"context"

	"ledger/internal/models"
	"ledger/internal/services"
	"ledger/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, passwordHash string) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, req services.CreateAccountRequest) (models.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]models.AccountSummary, error)
	GetAccount(ctx context.Context, ownerID, accountID string) (models.Account, error)
	UpdateAccount(ctx context.Context, req services.UpdateAccountRequest) (models.Account, error)
	DeleteAccount(ctx context.Context, ownerID, accountID string) error
	GetAccountBalance(ctx context.Context, ownerID, accountID string) (int64, error)
	Reconcile(ctx context.Context, ownerID string) ([]models.BalanceCheck, error)
}

type EntryService interface {
	CreateEntry(ctx context.Context, req services.CreateEntryRequest) (models.Entry, error)
	GetEntriesByAccount(ctx context.Context, ownerID, accountID string) ([]models.Entry, error)
	GetEntriesByDateRange(ctx context.Context, ownerID, accountID string, dates store.DateRange) ([]models.Entry, error)
	GetEntry(ctx context.Context, ownerID, entryID string) (models.EntryWithAccount, error)
	GetAllEntries(ctx context.Context, ownerID string) ([]models.EntryWithAccount, error)
	UpdateEntry(ctx context.Context, req services.UpdateEntryRequest) (models.Entry, error)
	DeleteEntry(ctx context.Context, ownerID, entryID string) error
}
