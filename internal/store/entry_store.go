package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"ledger/internal/models"
)

type EntryStore struct {
	db DB
}

const entryColumns = `e.id, e.account_id, e.owner_id, e.type, e.amount, e.date, e.reason, e.created_at, e.updated_at`

type entryWithAccountRow struct {
	models.Entry
	AccountName        string `db:"account_name"`
	AccountPhoneNumber string `db:"account_phone_number"`
}

func (r entryWithAccountRow) toModel() models.EntryWithAccount {
	return models.EntryWithAccount{
		Entry:              r.Entry,
		AccountName:        r.AccountName,
		AccountPhoneNumber: r.AccountPhoneNumber,
	}
}

// DateRange bounds entries by business date. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func NewEntryStore(db DB) *EntryStore {
	return &EntryStore{db: db}
}

func (s *EntryStore) Create(ctx context.Context, tx Getter, entry *models.Entry) error {
	var stamps timestamps
	err := tx.GetContext(ctx, &stamps, `
		INSERT INTO entries (id, account_id, owner_id, type, amount, date, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, entry.ID, entry.AccountID, entry.OwnerID, string(entry.Type), entry.Amount, entry.Date, entry.Reason)
	if err != nil {
		return err
	}
	entry.CreatedAt = stamps.CreatedAt
	entry.UpdatedAt = stamps.UpdatedAt
	return nil
}

func (s *EntryStore) GetForOwner(ctx context.Context, entryID, ownerID string) (models.EntryWithAccount, error) {
	var row entryWithAccountRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+entryColumns+`,
		       a.name AS account_name,
		       a.phone_number AS account_phone_number
		FROM entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE e.id = $1 AND e.owner_id = $2
	`, entryID, ownerID)
	if err != nil {
		return models.EntryWithAccount{}, err
	}
	return row.toModel(), nil
}

// ListByAccount returns the owner's entries of an account, oldest business
// date first.
func (s *EntryStore) ListByAccount(ctx context.Context, ownerID, accountID string, dates DateRange) ([]models.Entry, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT ` + entryColumns + `
		FROM entries e
		WHERE e.account_id = $1 AND e.owner_id = $2`)
	args := []any{accountID, ownerID}
	if dates.Start != nil {
		args = append(args, *dates.Start)
		query.WriteString(` AND e.date >= $` + strconv.Itoa(len(args)))
	}
	if dates.End != nil {
		args = append(args, *dates.End)
		query.WriteString(` AND e.date <= $` + strconv.Itoa(len(args)))
	}
	query.WriteString(`
		ORDER BY e.date ASC, e.created_at ASC`)
	rows := []models.Entry{}
	if err := s.db.SelectContext(ctx, &rows, query.String(), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByOwner spans every account of the owner, soft-deleted ones included,
// newest business date first.
func (s *EntryStore) ListByOwner(ctx context.Context, ownerID string) ([]models.EntryWithAccount, error) {
	var rows []entryWithAccountRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+entryColumns+`,
		       a.name AS account_name,
		       a.phone_number AS account_phone_number
		FROM entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE e.owner_id = $1
		ORDER BY e.date DESC, e.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.EntryWithAccount, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}

// ListForAccount returns every entry of an account regardless of who
// recorded it.
func (s *EntryStore) ListForAccount(ctx context.Context, accountID string) ([]models.Entry, error) {
	rows := []models.Entry{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+entryColumns+`
		FROM entries e
		WHERE e.account_id = $1
	`, accountID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *EntryStore) Update(ctx context.Context, tx Getter, entry *models.Entry) error {
	var stamps timestamps
	err := tx.GetContext(ctx, &stamps, `
		UPDATE entries
		SET type = $1, amount = $2, date = $3, reason = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING created_at, updated_at
	`, string(entry.Type), entry.Amount, entry.Date, entry.Reason, entry.ID)
	if err != nil {
		return err
	}
	entry.CreatedAt = stamps.CreatedAt
	entry.UpdatedAt = stamps.UpdatedAt
	return nil
}

func (s *EntryStore) Delete(ctx context.Context, tx Execer, entryID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, entryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
