package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"ledger/internal/ledger"
	"ledger/internal/models"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type recordingHub struct {
	mu      sync.Mutex
	updates []websocket.BalanceUpdate
}

func (h *recordingHub) BroadcastBalance(_ string, update websocket.BalanceUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
}

func (h *recordingHub) last() websocket.BalanceUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.updates) == 0 {
		return websocket.BalanceUpdate{}
	}
	return h.updates[len(h.updates)-1]
}

// memDB backs memAccounts and memEntries. Every write advances a fake clock
// so created_at ordering is deterministic.
type memDB struct {
	mu       sync.Mutex
	clock    time.Time
	accounts map[string]models.Account
	entries  map[string]models.Entry
	failWith error
}

func newMemDB() *memDB {
	return &memDB{
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		accounts: make(map[string]models.Account),
		entries:  make(map[string]models.Entry),
	}
}

func (m *memDB) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memDB) balanceOf(accountID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[accountID].Balance
}

func (m *memDB) setBalance(accountID string, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account := m.accounts[accountID]
	account.Balance = balance
	m.accounts[accountID] = account
}

type memAccounts struct {
	db *memDB
}

func (s memAccounts) Create(_ context.Context, _ store.Getter, account *models.Account) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	now := s.db.tick()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.db.accounts[account.ID] = *account
	return nil
}

func (s memAccounts) GetActive(_ context.Context, accountID, ownerID string) (models.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	account, ok := s.db.accounts[accountID]
	if !ok || account.OwnerID != ownerID || !account.IsActive {
		return models.Account{}, sql.ErrNoRows
	}
	return account, nil
}

func (s memAccounts) GetByID(_ context.Context, accountID string) (models.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	account, ok := s.db.accounts[accountID]
	if !ok {
		return models.Account{}, sql.ErrNoRows
	}
	return account, nil
}

func (s memAccounts) ActiveNameExists(_ context.Context, ownerID, name string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, account := range s.db.accounts {
		if account.OwnerID == ownerID && account.Name == name && account.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (s memAccounts) ListActiveWithLastEntry(_ context.Context, ownerID string) ([]models.AccountSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var summaries []models.AccountSummary
	for _, account := range s.db.accounts {
		if account.OwnerID != ownerID || !account.IsActive {
			continue
		}
		summary := models.AccountSummary{Account: account}
		var latest *models.Entry
		for _, entry := range s.db.entries {
			if entry.AccountID != account.ID {
				continue
			}
			if latest == nil || entry.Date.After(latest.Date) ||
				(entry.Date.Equal(latest.Date) && entry.CreatedAt.After(latest.CreatedAt)) {
				e := entry
				latest = &e
			}
		}
		if latest != nil {
			summary.LastEntry = &models.LastEntry{Type: latest.Type, Amount: latest.Amount, Date: latest.Date, CreatedAt: latest.CreatedAt}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s memAccounts) Update(_ context.Context, _ store.Getter, accountID, name, phoneNumber string) (models.Account, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	account, ok := s.db.accounts[accountID]
	if !ok {
		return models.Account{}, sql.ErrNoRows
	}
	account.Name = name
	account.PhoneNumber = phoneNumber
	account.UpdatedAt = s.db.tick()
	s.db.accounts[accountID] = account
	return account, nil
}

func (s memAccounts) Deactivate(_ context.Context, _ store.Execer, accountID string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	account, ok := s.db.accounts[accountID]
	if !ok {
		return 0, nil
	}
	account.IsActive = false
	s.db.accounts[accountID] = account
	return 1, nil
}

func (s memAccounts) UpdateBalance(_ context.Context, _ store.Execer, accountID string, balance int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	account := s.db.accounts[accountID]
	account.Balance = balance
	account.UpdatedAt = s.db.tick()
	s.db.accounts[accountID] = account
	return nil
}

func (s memAccounts) BalanceChecks(_ context.Context, ownerID string) ([]models.BalanceCheck, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var checks []models.BalanceCheck
	for _, account := range s.db.accounts {
		if account.OwnerID != ownerID || !account.IsActive {
			continue
		}
		var calculated int64
		for _, entry := range s.db.entries {
			if entry.AccountID == account.ID {
				if entry.Type == ledger.Given {
					calculated += entry.Amount
				} else {
					calculated -= entry.Amount
				}
			}
		}
		checks = append(checks, models.BalanceCheck{
			AccountID:         account.ID,
			Name:              account.Name,
			CachedBalance:     account.Balance,
			CalculatedBalance: calculated,
			Difference:        account.Balance - calculated,
		})
	}
	return checks, nil
}

type memEntries struct {
	db *memDB
}

func (s memEntries) Create(_ context.Context, _ store.Getter, entry *models.Entry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	now := s.db.tick()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.db.entries[entry.ID] = *entry
	return nil
}

func (s memEntries) withAccount(entry models.Entry) models.EntryWithAccount {
	account := s.db.accounts[entry.AccountID]
	return models.EntryWithAccount{Entry: entry, AccountName: account.Name, AccountPhoneNumber: account.PhoneNumber}
}

func (s memEntries) GetForOwner(_ context.Context, entryID, ownerID string) (models.EntryWithAccount, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	entry, ok := s.db.entries[entryID]
	if !ok || entry.OwnerID != ownerID {
		return models.EntryWithAccount{}, sql.ErrNoRows
	}
	return s.withAccount(entry), nil
}

func (s memEntries) ListByAccount(_ context.Context, ownerID, accountID string, dates store.DateRange) ([]models.Entry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	entries := []models.Entry{}
	for _, entry := range s.db.entries {
		if entry.AccountID != accountID || entry.OwnerID != ownerID {
			continue
		}
		if dates.Start != nil && entry.Date.Before(*dates.Start) {
			continue
		}
		if dates.End != nil && entry.Date.After(*dates.End) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s memEntries) ListByOwner(_ context.Context, ownerID string) ([]models.EntryWithAccount, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var entries []models.EntryWithAccount
	for _, entry := range s.db.entries {
		if entry.OwnerID == ownerID {
			entries = append(entries, s.withAccount(entry))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s memEntries) ListForAccount(_ context.Context, accountID string) ([]models.Entry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var entries []models.Entry
	for _, entry := range s.db.entries {
		if entry.AccountID == accountID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s memEntries) Update(_ context.Context, _ store.Getter, entry *models.Entry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	stored, ok := s.db.entries[entry.ID]
	if !ok {
		return sql.ErrNoRows
	}
	entry.CreatedAt = stored.CreatedAt
	entry.UpdatedAt = s.db.tick()
	s.db.entries[entry.ID] = *entry
	return nil
}

func (s memEntries) Delete(_ context.Context, _ store.Execer, entryID string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return 0, s.db.failWith
	}
	if _, ok := s.db.entries[entryID]; !ok {
		return 0, nil
	}
	delete(s.db.entries, entryID)
	return 1, nil
}

type fixture struct {
	db       *memDB
	hub      *recordingHub
	accounts *AccountService
	entries  *EntryService
}

func newFixture() *fixture {
	db := newMemDB()
	hub := &recordingHub{}
	return &fixture{
		db:       db,
		hub:      hub,
		accounts: NewAccountService(fakeTxRunner{}, memAccounts{db: db}, memEntries{db: db}, hub),
		entries:  NewEntryService(fakeTxRunner{}, memAccounts{db: db}, memEntries{db: db}, hub),
	}
}

func int64Ptr(value int64) *int64 {
	return &value
}

func stringPtr(value string) *string {
	return &value
}

func timePtr(value time.Time) *time.Time {
	return &value
}
