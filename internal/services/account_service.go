package services

import (
	"context"
	"strings"

	"ledger/internal/db"
	"ledger/internal/ledger"
	"ledger/internal/models"
	"ledger/internal/money"
	"ledger/internal/validator"
	"ledger/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AccountService manages an owner's accounts. Accounts are never removed:
// deletion clears is_active and every lookup treats inactive accounts as
// missing.
type AccountService struct {
	txRunner db.TxRunner
	accounts AccountStore
	entries  EntryStore
	hub      BalanceHub
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore, entries EntryStore, hub BalanceHub) *AccountService {
	return &AccountService{
		txRunner: txRunner,
		accounts: accounts,
		entries:  entries,
		hub:      hub,
	}
}

type CreateAccountRequest struct {
	OwnerID     string
	Name        string
	PhoneNumber string
}

func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if err := validator.ValidateAccountName(name); err != nil {
		return models.Account{}, invalid("Account name is required")
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if err := validator.ValidatePhone(phone); err != nil {
		return models.Account{}, invalid(err.Error())
	}
	exists, err := s.accounts.ActiveNameExists(ctx, req.OwnerID, name)
	if err != nil {
		return models.Account{}, unexpected("check account name", err)
	}
	if exists {
		return models.Account{}, ErrDuplicateName
	}
	account := models.Account{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		Name:        name,
		PhoneNumber: phone,
		IsActive:    true,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Create(ctx, tx, &account)
	})
	if err != nil {
		return models.Account{}, unexpected("create account", err)
	}
	return account, nil
}

// ListAccounts returns active accounts, newest first, each with its latest
// entry by business date.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID string) ([]models.AccountSummary, error) {
	accounts, err := s.accounts.ListActiveWithLastEntry(ctx, ownerID)
	if err != nil {
		return nil, unexpected("list accounts", err)
	}
	return accounts, nil
}

func (s *AccountService) GetAccount(ctx context.Context, ownerID, accountID string) (models.Account, error) {
	account, err := s.accounts.GetActive(ctx, accountID, ownerID)
	if err != nil {
		return models.Account{}, lookupFailed(err, ErrAccountNotFound, "load account")
	}
	return account, nil
}

// UpdateAccountRequest leaves a field unchanged when it is nil. An empty name
// also keeps the current one; an empty phone number clears it.
type UpdateAccountRequest struct {
	OwnerID     string
	AccountID   string
	Name        *string
	PhoneNumber *string
}

// UpdateAccount does not re-check name uniqueness, so a rename can produce a
// duplicate active name.
func (s *AccountService) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (models.Account, error) {
	current, err := s.GetAccount(ctx, req.OwnerID, req.AccountID)
	if err != nil {
		return models.Account{}, err
	}
	name := current.Name
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name = strings.TrimSpace(*req.Name)
	}
	phone := current.PhoneNumber
	if req.PhoneNumber != nil {
		phone = strings.TrimSpace(*req.PhoneNumber)
		if err := validator.ValidatePhone(phone); err != nil {
			return models.Account{}, invalid(err.Error())
		}
	}
	var updated models.Account
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		updated, err = s.accounts.Update(ctx, tx, current.ID, name, phone)
		return err
	})
	if err != nil {
		return models.Account{}, unexpected("update account", err)
	}
	return updated, nil
}

// DeleteAccount soft-deletes the account. Its entries are left in place and
// still show up in the owner's full entry list.
func (s *AccountService) DeleteAccount(ctx context.Context, ownerID, accountID string) error {
	account, err := s.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return err
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := s.accounts.Deactivate(ctx, tx, account.ID)
		return err
	})
	if err != nil {
		return unexpected("delete account", err)
	}
	return nil
}

// GetAccountBalance recomputes the balance from every entry of the account,
// stores it over the cached value and returns it. This is how drift left by
// concurrent entry writes is repaired.
func (s *AccountService) GetAccountBalance(ctx context.Context, ownerID, accountID string) (int64, error) {
	account, err := s.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return 0, err
	}
	entries, err := s.entries.ListForAccount(ctx, account.ID)
	if err != nil {
		return 0, unexpected("load entries", err)
	}
	movements := make([]ledger.Movement, 0, len(entries))
	for _, entry := range entries {
		movements = append(movements, entry.Movement())
	}
	balance, err := ledger.Recompute(movements)
	if err != nil {
		return 0, unexpected("recompute balance", err)
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.UpdateBalance(ctx, tx, account.ID, balance)
	})
	if err != nil {
		return 0, unexpected("store balance", err)
	}
	s.hub.BroadcastBalance(account.OwnerID, websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   money.FormatMinor(balance),
		Cause:     "recomputed",
	})
	return balance, nil
}

// Reconcile reports, per active account, how far the cached balance is from
// the entry history. Nothing is written.
func (s *AccountService) Reconcile(ctx context.Context, ownerID string) ([]models.BalanceCheck, error) {
	checks, err := s.accounts.BalanceChecks(ctx, ownerID)
	if err != nil {
		return nil, unexpected("reconcile balances", err)
	}
	return checks, nil
}
