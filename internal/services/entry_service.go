package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ledger/internal/db"
	"ledger/internal/ledger"
	"ledger/internal/models"
	"ledger/internal/money"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EntryService records movements against accounts and keeps each account's
// cached balance in step.
//
// Every mutation reads the account balance, computes the new value with the
// ledger rules and writes it back in the same transaction as the entry. The
// read is not locked, so two concurrent writers on one account can lose a
// delta (last write wins). AccountService.GetAccountBalance repairs such drift.
type EntryService struct {
	txRunner db.TxRunner
	accounts AccountStore
	entries  EntryStore
	hub      BalanceHub
	now      func() time.Time
}

func NewEntryService(txRunner db.TxRunner, accounts AccountStore, entries EntryStore, hub BalanceHub) *EntryService {
	return &EntryService{
		txRunner: txRunner,
		accounts: accounts,
		entries:  entries,
		hub:      hub,
		now:      time.Now,
	}
}

type CreateEntryRequest struct {
	OwnerID   string
	AccountID string
	Type      string
	// Amount is in minor units; nil means missing. The sign is dropped.
	Amount *int64
	Date   *time.Time
	Reason string
}

func (s *EntryService) CreateEntry(ctx context.Context, req CreateEntryRequest) (models.Entry, error) {
	if req.AccountID == "" || req.Type == "" || req.Amount == nil || *req.Amount == 0 {
		return models.Entry{}, ErrEntryFields
	}
	entryType, err := ledger.ParseEntryType(req.Type)
	if err != nil {
		return models.Entry{}, invalid(err.Error())
	}
	if !amountInRange(*req.Amount) {
		return models.Entry{}, ErrAmountTooLarge
	}
	account, err := s.accounts.GetActive(ctx, req.AccountID, req.OwnerID)
	if err != nil {
		return models.Entry{}, lookupFailed(err, ErrAccountNotFound, "load account")
	}
	date := s.now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	entry := models.Entry{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		OwnerID:   req.OwnerID,
		Type:      entryType,
		Amount:    ledger.Abs(*req.Amount),
		Date:      date,
		Reason:    strings.TrimSpace(req.Reason),
	}
	balance, err := ledger.Apply(account.Balance, entry.Movement())
	if err != nil {
		return models.Entry{}, ErrBalanceOutOfRange
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.entries.Create(ctx, tx, &entry); err != nil {
			return err
		}
		return s.accounts.UpdateBalance(ctx, tx, account.ID, balance)
	})
	if err != nil {
		return models.Entry{}, unexpected("create entry", err)
	}
	s.publish(account, balance, "entry_created", entry.ID)
	return entry, nil
}

func (s *EntryService) GetEntriesByAccount(ctx context.Context, ownerID, accountID string) ([]models.Entry, error) {
	return s.GetEntriesByDateRange(ctx, ownerID, accountID, store.DateRange{})
}

// GetEntriesByDateRange lists the owner's entries of an active account, oldest
// business date first. Nil bounds are not applied.
func (s *EntryService) GetEntriesByDateRange(ctx context.Context, ownerID, accountID string, dates store.DateRange) ([]models.Entry, error) {
	if _, err := s.accounts.GetActive(ctx, accountID, ownerID); err != nil {
		return nil, lookupFailed(err, ErrAccountNotFound, "load account")
	}
	entries, err := s.entries.ListByAccount(ctx, ownerID, accountID, dates)
	if err != nil {
		return nil, unexpected("list entries", err)
	}
	return entries, nil
}

func (s *EntryService) GetEntry(ctx context.Context, ownerID, entryID string) (models.EntryWithAccount, error) {
	entry, err := s.entries.GetForOwner(ctx, entryID, ownerID)
	if err != nil {
		return models.EntryWithAccount{}, lookupFailed(err, ErrEntryNotFound, "load entry")
	}
	return entry, nil
}

// GetAllEntries includes entries of soft-deleted accounts.
func (s *EntryService) GetAllEntries(ctx context.Context, ownerID string) ([]models.EntryWithAccount, error) {
	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, unexpected("list entries", err)
	}
	return entries, nil
}

// UpdateEntryRequest leaves a field unchanged when it is nil. An empty type
// also keeps the stored one; an amount of 0 is stored as 0.
type UpdateEntryRequest struct {
	OwnerID string
	EntryID string
	Type    *string
	Amount  *int64
	Date    *time.Time
	Reason  *string
}

func (s *EntryService) UpdateEntry(ctx context.Context, req UpdateEntryRequest) (models.Entry, error) {
	stored, account, err := s.loadForWrite(ctx, req.OwnerID, req.EntryID)
	if err != nil {
		return models.Entry{}, err
	}
	next := stored
	if req.Type != nil && *req.Type != "" {
		entryType, err := ledger.ParseEntryType(*req.Type)
		if err != nil {
			return models.Entry{}, invalid(err.Error())
		}
		next.Type = entryType
	}
	if req.Amount != nil {
		if !amountInRange(*req.Amount) {
			return models.Entry{}, ErrAmountTooLarge
		}
		next.Amount = ledger.Abs(*req.Amount)
	}
	if req.Date != nil {
		next.Date = *req.Date
	}
	if req.Reason != nil {
		next.Reason = strings.TrimSpace(*req.Reason)
	}
	balance, err := ledger.Replace(account.Balance, stored.Movement(), next.Movement())
	if err != nil {
		return models.Entry{}, ErrBalanceOutOfRange
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.entries.Update(ctx, tx, &next); err != nil {
			return err
		}
		return s.accounts.UpdateBalance(ctx, tx, account.ID, balance)
	})
	if err != nil {
		return models.Entry{}, unexpected("update entry", err)
	}
	s.publish(account, balance, "entry_updated", next.ID)
	return next, nil
}

// DeleteEntry removes the entry for good, unlike accounts which are only
// deactivated. When the row is already gone by the time of the delete, the
// balance is left untouched and ErrEntryNotFound is returned.
func (s *EntryService) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	stored, account, err := s.loadForWrite(ctx, ownerID, entryID)
	if err != nil {
		return err
	}
	balance, err := ledger.Remove(account.Balance, stored.Movement())
	if err != nil {
		return unexpected("delete entry", err)
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		deleted, err := s.entries.Delete(ctx, tx, stored.ID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrEntryNotFound
		}
		return s.accounts.UpdateBalance(ctx, tx, account.ID, balance)
	})
	if errors.Is(err, ErrEntryNotFound) {
		return ErrEntryNotFound
	}
	if err != nil {
		return unexpected("delete entry", err)
	}
	s.publish(account, balance, "entry_deleted", stored.ID)
	return nil
}

// loadForWrite fetches the owner's entry and its account. The account is read
// by id alone: authorization rests on the entry's owner.
func (s *EntryService) loadForWrite(ctx context.Context, ownerID, entryID string) (models.Entry, models.Account, error) {
	stored, err := s.entries.GetForOwner(ctx, entryID, ownerID)
	if err != nil {
		return models.Entry{}, models.Account{}, lookupFailed(err, ErrEntryNotFound, "load entry")
	}
	account, err := s.accounts.GetByID(ctx, stored.AccountID)
	if err != nil {
		return models.Entry{}, models.Account{}, unexpected("load entry account", err)
	}
	return stored.Entry, account, nil
}

func amountInRange(amount int64) bool {
	return amount <= money.MaxAmount && amount >= -money.MaxAmount
}

func (s *EntryService) publish(account models.Account, balance int64, cause, entryID string) {
	s.hub.BroadcastBalance(account.OwnerID, websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   money.FormatMinor(balance),
		Cause:     cause,
		EntryID:   entryID,
	})
}
