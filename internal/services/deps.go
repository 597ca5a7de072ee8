package services

import (
	"context"

	"ledger/internal/models"
	"ledger/internal/store"
	"ledger/internal/websocket"
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Getter, account *models.Account) error
	GetActive(ctx context.Context, accountID, ownerID string) (models.Account, error)
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	ActiveNameExists(ctx context.Context, ownerID, name string) (bool, error)
	ListActiveWithLastEntry(ctx context.Context, ownerID string) ([]models.AccountSummary, error)
	Update(ctx context.Context, tx store.Getter, accountID, name, phoneNumber string) (models.Account, error)
	Deactivate(ctx context.Context, tx store.Execer, accountID string) (int64, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error
	BalanceChecks(ctx context.Context, ownerID string) ([]models.BalanceCheck, error)
}

type EntryStore interface {
	Create(ctx context.Context, tx store.Getter, entry *models.Entry) error
	GetForOwner(ctx context.Context, entryID, ownerID string) (models.EntryWithAccount, error)
	ListByAccount(ctx context.Context, ownerID, accountID string, dates store.DateRange) ([]models.Entry, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.EntryWithAccount, error)
	ListForAccount(ctx context.Context, accountID string) ([]models.Entry, error)
	Update(ctx context.Context, tx store.Getter, entry *models.Entry) error
	Delete(ctx context.Context, tx store.Execer, entryID string) (int64, error)
}

type BalanceHub interface {
	BroadcastBalance(ownerID string, update websocket.BalanceUpdate)
}
