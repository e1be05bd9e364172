package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/model"
)

// UserRepository defines user database operations.
type UserRepository interface {
	// Create inserts a new user. A taken username is an invariant
	// violation, enforced by the schema's UNIQUE constraint.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the user, or nil if no row matches.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByUsername returns the user, or nil if no row matches.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

func (r *mysqlUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (user_id, username, password_hash, fullname) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.Fullname)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperr.Invariant("username %s is already taken", user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *mysqlUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT user_id, username, password_hash, fullname FROM users WHERE user_id = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Fullname)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row for id %s: %w", id, err)
	}
	return user, nil
}

func (r *mysqlUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT user_id, username, password_hash, fullname FROM users WHERE username = ?`

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Fullname)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user row for username %s: %w", username, err)
	}
	return user, nil
}
