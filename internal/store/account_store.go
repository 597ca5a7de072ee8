package store

import (
	"context"
	"database/sql"
	"time"

	"ledger/internal/ledger"
	"ledger/internal/models"
)

type AccountStore struct {
	db DB
}

const accountColumns = `id, owner_id, name, phone_number, balance, is_active, created_at, updated_at`

type accountSummaryRow struct {
	models.Account
	LastType      sql.NullString `db:"last_type"`
	LastAmount    sql.NullInt64  `db:"last_amount"`
	LastDate      sql.NullTime   `db:"last_date"`
	LastCreatedAt sql.NullTime   `db:"last_created_at"`
}

type balanceCheckRow struct {
	AccountID         string `db:"account_id"`
	Name              string `db:"name"`
	CachedBalance     int64  `db:"cached_balance"`
	CalculatedBalance int64  `db:"calculated_balance"`
	Difference        int64  `db:"difference"`
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Getter, account *models.Account) error {
	var stamps timestamps
	err := tx.GetContext(ctx, &stamps, `
		INSERT INTO accounts (id, owner_id, name, phone_number, balance, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, account.ID, account.OwnerID, account.Name, account.PhoneNumber, account.Balance, account.IsActive)
	if err != nil {
		return err
	}
	account.CreatedAt = stamps.CreatedAt
	account.UpdatedAt = stamps.UpdatedAt
	return nil
}

// GetActive returns sql.ErrNoRows when the account is missing, soft-deleted or
// owned by someone else.
func (s *AccountStore) GetActive(ctx context.Context, accountID, ownerID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1 AND owner_id = $2 AND is_active = TRUE
	`, accountID, ownerID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) ActiveNameExists(ctx context.Context, ownerID, name string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM accounts
			WHERE owner_id = $1 AND name = $2 AND is_active = TRUE
		)
	`, ownerID, name)
	return exists, err
}

func (s *AccountStore) ListActiveWithLastEntry(ctx context.Context, ownerID string) ([]models.AccountSummary, error) {
	var rows []accountSummaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id, a.owner_id, a.name, a.phone_number, a.balance, a.is_active, a.created_at, a.updated_at,
		       le.type AS last_type,
		       le.amount AS last_amount,
		       le.date AS last_date,
		       le.created_at AS last_created_at
		FROM accounts a
		LEFT JOIN LATERAL (
			SELECT e.type, e.amount, e.date, e.created_at
			FROM entries e
			WHERE e.account_id = a.id
			ORDER BY e.date DESC, e.created_at DESC
			LIMIT 1
		) le ON TRUE
		WHERE a.owner_id = $1 AND a.is_active = TRUE
		ORDER BY a.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.AccountSummary, 0, len(rows))
	for _, row := range rows {
		summary := models.AccountSummary{Account: row.Account}
		if row.LastType.Valid {
			summary.LastEntry = &models.LastEntry{
				Type:      ledger.EntryType(row.LastType.String),
				Amount:    row.LastAmount.Int64,
				Date:      row.LastDate.Time,
				CreatedAt: row.LastCreatedAt.Time,
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Update overwrites name and phone and returns the stored row.
func (s *AccountStore) Update(ctx context.Context, tx Getter, accountID, name, phoneNumber string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		UPDATE accounts
		SET name = $1, phone_number = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+accountColumns, name, phoneNumber, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) Deactivate(ctx context.Context, tx Execer, accountID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateBalance overwrites the cached balance. There is no compare-and-swap:
// the last writer wins.
func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}

func (s *AccountStore) BalanceChecks(ctx context.Context, ownerID string) ([]models.BalanceCheck, error) {
	var rows []balanceCheckRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id AS account_id,
		       a.name,
		       a.balance AS cached_balance,
		       COALESCE(SUM(CASE WHEN e.type = 'given' THEN e.amount ELSE -e.amount END), 0) AS calculated_balance,
		       (a.balance - COALESCE(SUM(CASE WHEN e.type = 'given' THEN e.amount ELSE -e.amount END), 0)) AS difference
		FROM accounts a
		LEFT JOIN entries e ON e.account_id = a.id
		WHERE a.owner_id = $1 AND a.is_active = TRUE
		GROUP BY a.id, a.name, a.balance, a.created_at
		ORDER BY a.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	checks := make([]models.BalanceCheck, 0, len(rows))
	for _, row := range rows {
		checks = append(checks, models.BalanceCheck(row))
	}
	return checks, nil
}

type timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
