package db

import (
	"database/sql"
	"fmt"

	"github.com/abimdanu/openmusic-api/config"
	"github.com/abimdanu/openmusic-api/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// Connect opens a connection pool to the database.
func Connect(cfg *config.Config) (*sql.DB, error) {
	// clientFoundRows makes RowsAffected count matched rows, so an
	// UPDATE that writes identical values still distinguishes "row
	// exists" from "no such row".
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database")
	return conn, nil
}

// InitSchema creates the tables if they don't exist.
//
// Uniqueness that the services report as invariant violations is also
// enforced structurally here (UNIQUE constraints), so the loser of a
// concurrent check-then-insert race is rejected by the database itself.
// Cascading deletes keep dependent songs, likes, playlist songs and
// collaborations consistent without application involvement.
func InitSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id VARCHAR(50) PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			fullname VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT uq_users_username UNIQUE (username)
		);`,
		`CREATE TABLE IF NOT EXISTS albums (
			album_id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			year INT NOT NULL,
			cover_url VARCHAR(767),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS songs (
			song_id VARCHAR(50) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			year INT NOT NULL,
			performer VARCHAR(255) NOT NULL,
			genre VARCHAR(100) NOT NULL,
			duration INT,
			album_id VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_songs_album FOREIGN KEY (album_id) REFERENCES albums(album_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS user_album_likes (
			album_like_id INT AUTO_INCREMENT PRIMARY KEY,
			user_id VARCHAR(50) NOT NULL,
			album_id VARCHAR(50) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_likes_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
			CONSTRAINT fk_likes_album FOREIGN KEY (album_id) REFERENCES albums(album_id) ON DELETE CASCADE,
			CONSTRAINT uq_likes_user_album UNIQUE (user_id, album_id)
		);`,
		`CREATE TABLE IF NOT EXISTS playlists (
			playlist_id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			owner VARCHAR(50) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_playlists_owner FOREIGN KEY (owner) REFERENCES users(user_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS playlist_songs (
			playlist_song_id VARCHAR(50) PRIMARY KEY,
			playlist_id VARCHAR(50) NOT NULL,
			song_id VARCHAR(50) NOT NULL,
			CONSTRAINT fk_psongs_playlist FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id) ON DELETE CASCADE,
			CONSTRAINT fk_psongs_song FOREIGN KEY (song_id) REFERENCES songs(song_id) ON DELETE CASCADE,
			CONSTRAINT uq_psongs_playlist_song UNIQUE (playlist_id, song_id)
		);`,
		`CREATE TABLE IF NOT EXISTS collaborations (
			collaboration_id VARCHAR(50) PRIMARY KEY,
			playlist_id VARCHAR(50) NOT NULL,
			user_id VARCHAR(50) NOT NULL,
			CONSTRAINT fk_collabs_playlist FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id) ON DELETE CASCADE,
			CONSTRAINT fk_collabs_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
			CONSTRAINT uq_collabs_playlist_user UNIQUE (playlist_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS playlist_song_activities (
			activity_id INT AUTO_INCREMENT PRIMARY KEY,
			playlist_id VARCHAR(50) NOT NULL,
			song_id VARCHAR(50) NOT NULL,
			user_id VARCHAR(50) NOT NULL,
			action VARCHAR(10) NOT NULL,
			time TIMESTAMP NOT NULL,
			CONSTRAINT fk_activities_playlist FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id) ON DELETE CASCADE
		);`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	logger.Info("Database schema initialized")
	return nil
}
