package models

import (
	"time"

	"ledger/internal/ledger"
)

type User struct {
	ID            string    `db:"id" json:"id"`
	Username      string    `db:"username" json:"username"`
	UsernameLower string    `db:"username_lower" json:"-"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type Account struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"ownerId"`
	Name        string    `db:"name" json:"name"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	Balance     int64     `db:"balance" json:"balance"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Entry struct {
	ID        string           `db:"id" json:"id"`
	AccountID string           `db:"account_id" json:"accountId"`
	OwnerID   string           `db:"owner_id" json:"ownerId"`
	Type      ledger.EntryType `db:"type" json:"type"`
	Amount    int64            `db:"amount" json:"amount"`
	Date      time.Time        `db:"date" json:"date"`
	Reason    string           `db:"reason" json:"reason"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

func (e Entry) Movement() ledger.Movement {
	return ledger.Movement{Type: e.Type, Amount: e.Amount}
}

// LastEntry is the most recent entry of an account by business date.
type LastEntry struct {
	Type      ledger.EntryType
	Amount    int64
	Date      time.Time
	CreatedAt time.Time
}

// AccountSummary is an account together with its most recent entry, if any.
type AccountSummary struct {
	Account
	LastEntry *LastEntry
}

// EntryWithAccount is an entry joined with its account's contact details.
type EntryWithAccount struct {
	Entry
	AccountName        string
	AccountPhoneNumber string
}

// BalanceCheck compares the cached balance of an account with its entry history.
type BalanceCheck struct {
	AccountID         string
	Name              string
	CachedBalance     int64
	CalculatedBalance int64
	Difference        int64
}
