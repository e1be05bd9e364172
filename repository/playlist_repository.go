package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/model"
)

// PlaylistRepository defines playlist, membership and activity ledger
// database operations.
type PlaylistRepository interface {
	// Create inserts a new playlist row.
	Create(ctx context.Context, playlist *model.Playlist) error

	// GetByID returns the playlist row, or nil if no row matches.
	GetByID(ctx context.Context, id string) (*model.Playlist, error)

	// ListByOwner returns the user's playlists joined with the owner's
	// username.
	ListByOwner(ctx context.Context, owner string) ([]model.PlaylistSummary, error)

	// Delete removes the playlist row. Memberships, collaborations and
	// activities cascade in the schema. Returns false if no row matched.
	Delete(ctx context.Context, id string) (bool, error)

	// AddSong inserts a membership edge. A duplicate (playlist, song)
	// pair is an invariant violation, enforced by the schema's UNIQUE
	// constraint.
	AddSong(ctx context.Context, edgeID, playlistID, songID string) error

	// RemoveSong deletes a membership edge. Returns false if none existed.
	RemoveSong(ctx context.Context, playlistID, songID string) (bool, error)

	// GetWithSongs returns the playlist joined with the owner's
	// username and its songs, or nil if the playlist does not exist.
	GetWithSongs(ctx context.Context, id string) (*model.PlaylistWithSongs, error)

	// AddActivity appends one row to the playlist's ledger. Rows are
	// never updated or deleted.
	AddActivity(ctx context.Context, playlistID, songID, userID, action string, at time.Time) error

	// ListActivities returns the ledger in insertion order, joined with
	// usernames and song titles.
	ListActivities(ctx context.Context, playlistID string) ([]model.Activity, error)
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

func (r *mysqlPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	query := `INSERT INTO playlists (playlist_id, name, owner) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, playlist.ID, playlist.Name, playlist.Owner); err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	query := `SELECT playlist_id, name, owner FROM playlists WHERE playlist_id = ?`

	playlist := &model.Playlist{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&playlist.ID, &playlist.Name, &playlist.Owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan playlist row for id %s: %w", id, err)
	}
	return playlist, nil
}

func (r *mysqlPlaylistRepository) ListByOwner(ctx context.Context, owner string) ([]model.PlaylistSummary, error) {
	query := `
		SELECT p.playlist_id, p.name, u.username
		FROM playlists p
		JOIN users u ON p.owner = u.user_id
		WHERE p.owner = ?
	`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for owner %s: %w", owner, err)
	}
	defer rows.Close()

	playlists := []model.PlaylistSummary{}
	for rows.Next() {
		var playlist model.PlaylistSummary
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Username); err != nil {
			return nil, fmt.Errorf("failed to scan playlist row: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist rows: %w", err)
	}

	return playlists, nil
}

func (r *mysqlPlaylistRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM playlists WHERE playlist_id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete playlist %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for playlist %s: %w", id, err)
	}
	return affected > 0, nil
}

func (r *mysqlPlaylistRepository) AddSong(ctx context.Context, edgeID, playlistID, songID string) error {
	query := `INSERT INTO playlist_songs (playlist_song_id, playlist_id, song_id) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, edgeID, playlistID, songID); err != nil {
		if isDuplicateEntry(err) {
			return apperr.Invariant("song %s already in playlist %s", songID, playlistID)
		}
		return fmt.Errorf("failed to add song %s to playlist %s: %w", songID, playlistID, err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID string) (bool, error) {
	query := `DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`

	res, err := r.db.ExecContext(ctx, query, playlistID, songID)
	if err != nil {
		return false, fmt.Errorf("failed to remove song %s from playlist %s: %w", songID, playlistID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for playlist %s: %w", playlistID, err)
	}
	return affected > 0, nil
}

func (r *mysqlPlaylistRepository) GetWithSongs(ctx context.Context, id string) (*model.PlaylistWithSongs, error) {
	playlistQuery := `
		SELECT p.playlist_id, p.name, u.username
		FROM playlists p
		JOIN users u ON p.owner = u.user_id
		WHERE p.playlist_id = ?
	`

	playlist := &model.PlaylistWithSongs{}
	err := r.db.QueryRowContext(ctx, playlistQuery, id).Scan(&playlist.ID, &playlist.Name, &playlist.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan playlist row for id %s: %w", id, err)
	}

	songsQuery := `
		SELECT s.song_id, s.title, s.performer
		FROM songs s
		JOIN playlist_songs ps ON s.song_id = ps.song_id
		WHERE ps.playlist_id = ?
	`

	rows, err := r.db.QueryContext(ctx, songsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for playlist %s: %w", id, err)
	}
	defer rows.Close()

	playlist.Songs = []model.SongSummary{}
	for rows.Next() {
		var song model.SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		playlist.Songs = append(playlist.Songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate song rows: %w", err)
	}

	return playlist, nil
}

func (r *mysqlPlaylistRepository) AddActivity(ctx context.Context, playlistID, songID, userID, action string, at time.Time) error {
	query := `
		INSERT INTO playlist_song_activities (playlist_id, song_id, user_id, action, time)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, playlistID, songID, userID, action, at); err != nil {
		return fmt.Errorf("failed to record activity for playlist %s: %w", playlistID, err)
	}
	return nil
}

func (r *mysqlPlaylistRepository) ListActivities(ctx context.Context, playlistID string) ([]model.Activity, error) {
	query := `
		SELECT u.username, s.title, a.action, a.time
		FROM playlist_song_activities a
		JOIN users u ON a.user_id = u.user_id
		JOIN songs s ON a.song_id = s.song_id
		WHERE a.playlist_id = ?
		ORDER BY a.activity_id
	`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities for playlist %s: %w", playlistID, err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var activity model.Activity
		if err := rows.Scan(&activity.Username, &activity.Title, &activity.Action, &activity.Time); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return activities, nil
}
