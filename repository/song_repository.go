package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abimdanu/openmusic-api/model"
)

// SongRepository defines song database operations.
type SongRepository interface {
	// Create inserts a new song row.
	Create(ctx context.Context, song *model.Song) error

	// List returns song summaries matching the case-insensitive
	// substring filters. An empty filter matches everything.
	List(ctx context.Context, title, performer string) ([]model.SongSummary, error)

	// GetByID returns the song, or nil if no row matches.
	GetByID(ctx context.Context, id string) (*model.Song, error)

	// GetSummariesByAlbumID returns summaries of the album's songs in
	// insertion order.
	GetSummariesByAlbumID(ctx context.Context, albumID string) ([]model.SongSummary, error)

	// Update rewrites the song's fields. Returns false if no row matched.
	Update(ctx context.Context, song *model.Song) (bool, error)

	// Delete removes the song row. Returns false if no row matched.
	Delete(ctx context.Context, id string) (bool, error)
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

func (r *mysqlSongRepository) Create(ctx context.Context, song *model.Song) error {
	query := `
		INSERT INTO songs (song_id, title, year, performer, genre, duration, album_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		song.ID,
		song.Title,
		song.Year,
		song.Performer,
		song.Genre,
		song.Duration,
		song.AlbumID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}
	return nil
}

func (r *mysqlSongRepository) List(ctx context.Context, title, performer string) ([]model.SongSummary, error) {
	query := `
		SELECT song_id, title, performer
		FROM songs
		WHERE LOWER(title) LIKE LOWER(?) AND LOWER(performer) LIKE LOWER(?)
	`

	rows, err := r.db.QueryContext(ctx, query, "%"+title+"%", "%"+performer+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []model.SongSummary{}
	for rows.Next() {
		var song model.SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate song rows: %w", err)
	}

	return songs, nil
}

func (r *mysqlSongRepository) GetByID(ctx context.Context, id string) (*model.Song, error) {
	query := `SELECT song_id, title, year, performer, genre, duration, album_id FROM songs WHERE song_id = ?`

	song := &model.Song{}
	var duration sql.NullInt64
	var albumID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&song.ID,
		&song.Title,
		&song.Year,
		&song.Performer,
		&song.Genre,
		&duration,
		&albumID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan song row for id %s: %w", id, err)
	}
	if duration.Valid {
		d := int(duration.Int64)
		song.Duration = &d
	}
	if albumID.Valid {
		song.AlbumID = &albumID.String
	}
	return song, nil
}

func (r *mysqlSongRepository) GetSummariesByAlbumID(ctx context.Context, albumID string) ([]model.SongSummary, error) {
	query := `SELECT song_id, title, performer FROM songs WHERE album_id = ? ORDER BY created_at, song_id`

	rows, err := r.db.QueryContext(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for album %s: %w", albumID, err)
	}
	defer rows.Close()

	songs := []model.SongSummary{}
	for rows.Next() {
		var song model.SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate song rows: %w", err)
	}

	return songs, nil
}

func (r *mysqlSongRepository) Update(ctx context.Context, song *model.Song) (bool, error) {
	query := `
		UPDATE songs
		SET title = ?, year = ?, performer = ?, genre = ?, duration = ?, album_id = ?
		WHERE song_id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		song.Title,
		song.Year,
		song.Performer,
		song.Genre,
		song.Duration,
		song.AlbumID,
		song.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update song %s: %w", song.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for song %s: %w", song.ID, err)
	}
	return affected > 0, nil
}

func (r *mysqlSongRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM songs WHERE song_id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete song %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for song %s: %w", id, err)
	}
	return affected > 0, nil
}
