package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/model"
)

// CollaborationRepository defines collaboration grant database operations.
type CollaborationRepository interface {
	// Create inserts a collaboration grant. A duplicate (playlist, user)
	// pair is an invariant violation, enforced by the schema's UNIQUE
	// constraint.
	Create(ctx context.Context, collaboration *model.Collaboration) error

	// Delete revokes the grant. Returns false if none existed.
	Delete(ctx context.Context, playlistID, userID string) (bool, error)

	// Exists reports whether a grant exists for the pair.
	Exists(ctx context.Context, playlistID, userID string) (bool, error)
}

// mysqlCollaborationRepository implements CollaborationRepository for MySQL.
type mysqlCollaborationRepository struct {
	db *sql.DB
}

// NewMySQLCollaborationRepository creates a new mysqlCollaborationRepository.
func NewMySQLCollaborationRepository(db *sql.DB) CollaborationRepository {
	return &mysqlCollaborationRepository{db: db}
}

func (r *mysqlCollaborationRepository) Create(ctx context.Context, collaboration *model.Collaboration) error {
	query := `INSERT INTO collaborations (collaboration_id, playlist_id, user_id) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, collaboration.ID, collaboration.PlaylistID, collaboration.UserID)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperr.Invariant("user %s already collaborates on playlist %s",
				collaboration.UserID, collaboration.PlaylistID)
		}
		return fmt.Errorf("failed to insert collaboration: %w", err)
	}
	return nil
}

func (r *mysqlCollaborationRepository) Delete(ctx context.Context, playlistID, userID string) (bool, error) {
	query := `DELETE FROM collaborations WHERE playlist_id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, playlistID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete collaboration for playlist %s: %w", playlistID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for playlist %s: %w", playlistID, err)
	}
	return affected > 0, nil
}

func (r *mysqlCollaborationRepository) Exists(ctx context.Context, playlistID, userID string) (bool, error) {
	query := `SELECT COUNT(*) FROM collaborations WHERE playlist_id = ? AND user_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, playlistID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check collaboration for playlist %s: %w", playlistID, err)
	}
	return count > 0, nil
}
