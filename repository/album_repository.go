package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/model"
)

// AlbumRepository defines album and album-like database operations.
type AlbumRepository interface {
	// Create inserts a new album row.
	Create(ctx context.Context, album *model.Album) error

	// GetByID returns the album row without its song list, or nil if
	// no row matches.
	GetByID(ctx context.Context, id string) (*model.Album, error)

	// Update rewrites name and year. Returns false if no row matched.
	Update(ctx context.Context, id, name string, year int) (bool, error)

	// Delete removes the album row. Dependent songs and likes go with
	// it via the schema's cascading deletes. Returns false if no row
	// matched.
	Delete(ctx context.Context, id string) (bool, error)

	// SetCover assigns the cover URL. Returns false if no row matched.
	SetCover(ctx context.Context, id, coverURL string) (bool, error)

	// HasLike reports whether a like row exists for the pair.
	HasLike(ctx context.Context, albumID, userID string) (bool, error)

	// AddLike inserts a like row. A duplicate pair is an invariant
	// violation, enforced by the schema's UNIQUE constraint.
	AddLike(ctx context.Context, albumID, userID string) error

	// DeleteLike removes the like row. Returns false if none existed.
	DeleteLike(ctx context.Context, albumID, userID string) (bool, error)

	// CountLikes returns the number of likes for the album.
	CountLikes(ctx context.Context, albumID string) (int, error)
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	db *sql.DB
}

// NewMySQLAlbumRepository creates a new mysqlAlbumRepository.
func NewMySQLAlbumRepository(db *sql.DB) AlbumRepository {
	return &mysqlAlbumRepository{db: db}
}

func (r *mysqlAlbumRepository) Create(ctx context.Context, album *model.Album) error {
	query := `INSERT INTO albums (album_id, name, year) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, album.ID, album.Name, album.Year); err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}
	return nil
}

func (r *mysqlAlbumRepository) GetByID(ctx context.Context, id string) (*model.Album, error) {
	query := `SELECT album_id, name, year, cover_url FROM albums WHERE album_id = ?`

	album := &model.Album{}
	var coverURL sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&album.ID, &album.Name, &album.Year, &coverURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan album row for id %s: %w", id, err)
	}
	if coverURL.Valid {
		album.CoverURL = &coverURL.String
	}
	return album, nil
}

func (r *mysqlAlbumRepository) Update(ctx context.Context, id, name string, year int) (bool, error) {
	query := `UPDATE albums SET name = ?, year = ? WHERE album_id = ?`

	res, err := r.db.ExecContext(ctx, query, name, year, id)
	if err != nil {
		return false, fmt.Errorf("failed to update album %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for album %s: %w", id, err)
	}
	return affected > 0, nil
}

func (r *mysqlAlbumRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM albums WHERE album_id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete album %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for album %s: %w", id, err)
	}
	return affected > 0, nil
}

func (r *mysqlAlbumRepository) SetCover(ctx context.Context, id, coverURL string) (bool, error) {
	query := `UPDATE albums SET cover_url = ? WHERE album_id = ?`

	res, err := r.db.ExecContext(ctx, query, coverURL, id)
	if err != nil {
		return false, fmt.Errorf("failed to set cover for album %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for album %s: %w", id, err)
	}
	return affected > 0, nil
}

func (r *mysqlAlbumRepository) HasLike(ctx context.Context, albumID, userID string) (bool, error) {
	query := `SELECT COUNT(*) FROM user_album_likes WHERE album_id = ? AND user_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, albumID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check like for album %s: %w", albumID, err)
	}
	return count > 0, nil
}

func (r *mysqlAlbumRepository) AddLike(ctx context.Context, albumID, userID string) error {
	query := `INSERT INTO user_album_likes (user_id, album_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, albumID); err != nil {
		if isDuplicateEntry(err) {
			return apperr.Invariant("album %s already liked by user %s", albumID, userID)
		}
		return fmt.Errorf("failed to insert like for album %s: %w", albumID, err)
	}
	return nil
}

func (r *mysqlAlbumRepository) DeleteLike(ctx context.Context, albumID, userID string) (bool, error) {
	query := `DELETE FROM user_album_likes WHERE album_id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, albumID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like for album %s: %w", albumID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for album %s: %w", albumID, err)
	}
	return affected > 0, nil
}

func (r *mysqlAlbumRepository) CountLikes(ctx context.Context, albumID string) (int, error) {
	query := `SELECT COUNT(*) FROM user_album_likes WHERE album_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, albumID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes for album %s: %w", albumID, err)
	}
	return count, nil
}
