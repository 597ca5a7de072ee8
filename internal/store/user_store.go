package store

import (
	"context"
	"strings"

	"ledger/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// CanonicalUsername is the case-insensitive form kept in username_lower. The
// store derives it on every write so callers never set it directly.
func CanonicalUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, passwordHash string) error {
	query := `
		INSERT INTO users (id, username, username_lower, password_hash)
		VALUES ($1, $2, $3, $4)
	`
	username = strings.TrimSpace(username)
	_, err := tx.ExecContext(ctx, query, id, username, CanonicalUsername(username), passwordHash)
	return err
}

// GetByUsername matches case-insensitively and includes the password hash.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, username_lower, password_hash, created_at, updated_at
		FROM users
		WHERE username_lower = $1
	`, CanonicalUsername(username))
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, username_lower, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}
