// Package playlist implements playlist management, the two-tier
// (owner / collaborator) access control and the append-only activity
// ledger.
package playlist

import (
	"context"
	"time"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/model"
	"github.com/abimdanu/openmusic-api/repository"

	"github.com/google/uuid"
)

// accessLevel is the outcome of evaluating a (playlist, user) pair
// against current store state. Nothing is memoized: revoking a
// collaboration takes effect on the very next call.
type accessLevel int

const (
	accessMissing accessLevel = iota // playlist does not exist
	accessOwner
	accessCollaborator
	accessDenied
)

// Service owns playlists, collaborations and the activity ledger.
type Service struct {
	playlists      repository.PlaylistRepository
	collaborations repository.CollaborationRepository
	songs          repository.SongRepository
	users          repository.UserRepository
}

// NewService creates a playlist Service.
func NewService(
	playlists repository.PlaylistRepository,
	collaborations repository.CollaborationRepository,
	songs repository.SongRepository,
	users repository.UserRepository,
) *Service {
	return &Service{
		playlists:      playlists,
		collaborations: collaborations,
		songs:          songs,
		users:          users,
	}
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Create inserts a new playlist owned by owner and returns its id.
// Ownership is immutable after this point.
func (s *Service) Create(ctx context.Context, name, owner string) (string, error) {
	playlist := &model.Playlist{
		ID:    newID("playlist"),
		Name:  name,
		Owner: owner,
	}

	if err := s.playlists.Create(ctx, playlist); err != nil {
		return "", err
	}
	return playlist.ID, nil
}

// List returns the playlists owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]model.PlaylistSummary, error) {
	return s.playlists.ListByOwner(ctx, userID)
}

// Delete removes a playlist. Owner-exclusive.
func (s *Service) Delete(ctx context.Context, playlistID, userID string) error {
	if err := s.VerifyOwner(ctx, playlistID, userID); err != nil {
		return err
	}

	ok, err := s.playlists.Delete(ctx, playlistID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("playlist %s not found", playlistID)
	}
	return nil
}

// evaluate derives the caller's grant for the playlist. The
// collaboration lookup only happens when the caller is not the owner.
func (s *Service) evaluate(ctx context.Context, playlistID, userID string) (accessLevel, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		return accessMissing, err
	}
	if playlist == nil {
		return accessMissing, nil
	}
	if playlist.Owner == userID {
		return accessOwner, nil
	}

	collaborator, err := s.collaborations.Exists(ctx, playlistID, userID)
	if err != nil {
		return accessDenied, err
	}
	if collaborator {
		return accessCollaborator, nil
	}
	return accessDenied, nil
}

// VerifyOwner succeeds only for the playlist's owner. Used for
// owner-exclusive operations: deleting the playlist, managing
// collaborations and exporting.
func (s *Service) VerifyOwner(ctx context.Context, playlistID, userID string) error {
	level, err := s.evaluate(ctx, playlistID, userID)
	if err != nil {
		return err
	}
	switch level {
	case accessMissing:
		return apperr.NotFound("playlist %s not found", playlistID)
	case accessOwner:
		return nil
	default:
		// Collaborators and strangers alike get the ownership error.
		return apperr.Authorization("user %s is not the owner of playlist %s", userID, playlistID)
	}
}

// VerifyAccess succeeds for the owner or a registered collaborator. A
// caller with neither grant gets the same authorization reason the
// owner check reports, regardless of which grant path failed.
func (s *Service) VerifyAccess(ctx context.Context, playlistID, userID string) error {
	level, err := s.evaluate(ctx, playlistID, userID)
	if err != nil {
		return err
	}
	switch level {
	case accessMissing:
		return apperr.NotFound("playlist %s not found", playlistID)
	case accessOwner, accessCollaborator:
		return nil
	default:
		return apperr.Authorization("user %s is not the owner of playlist %s", userID, playlistID)
	}
}

// AddSong adds a song to the playlist and appends an "add" row to the
// ledger. Accessible to the owner and collaborators. Adding a song
// twice is an invariant violation.
func (s *Service) AddSong(ctx context.Context, playlistID, songID, userID string) error {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return err
	}
	if song == nil {
		return apperr.NotFound("song %s not found", songID)
	}

	if err := s.playlists.AddSong(ctx, newID("psong"), playlistID, songID); err != nil {
		return err
	}

	// Recorded after the membership change; the two writes are not one
	// transaction.
	return s.playlists.AddActivity(ctx, playlistID, songID, userID, model.ActivityAdd, time.Now())
}

// RemoveSong removes a song from the playlist and appends a "delete"
// row to the ledger. Removing a song that is not a member is an
// invariant violation.
func (s *Service) RemoveSong(ctx context.Context, playlistID, songID, userID string) error {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	ok, err := s.playlists.RemoveSong(ctx, playlistID, songID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Invariant("song %s is not in playlist %s", songID, playlistID)
	}

	return s.playlists.AddActivity(ctx, playlistID, songID, userID, model.ActivityDelete, time.Now())
}

// GetSongs returns the playlist with its songs. Accessible to the owner
// and collaborators.
func (s *Service) GetSongs(ctx context.Context, playlistID, userID string) (*model.PlaylistWithSongs, error) {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.GetWithSongs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, apperr.NotFound("playlist %s not found", playlistID)
	}
	return playlist, nil
}

// Activities returns the playlist's ledger in insertion order, joined
// with usernames and song titles. Never cached.
func (s *Service) Activities(ctx context.Context, playlistID, userID string) ([]model.Activity, error) {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	return s.playlists.ListActivities(ctx, playlistID)
}

// AddCollaboration grants collaboratorID access to the playlist.
// Owner-exclusive. The grantee must exist.
func (s *Service) AddCollaboration(ctx context.Context, playlistID, collaboratorID, actorID string) (string, error) {
	if err := s.VerifyOwner(ctx, playlistID, actorID); err != nil {
		return "", err
	}

	user, err := s.users.GetByID(ctx, collaboratorID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound("user %s not found", collaboratorID)
	}

	collaboration := &model.Collaboration{
		ID:         newID("collab"),
		PlaylistID: playlistID,
		UserID:     collaboratorID,
	}
	if err := s.collaborations.Create(ctx, collaboration); err != nil {
		return "", err
	}
	return collaboration.ID, nil
}

// DeleteCollaboration revokes a grant. Owner-exclusive. Revoking a
// grant that does not exist is an invariant violation.
func (s *Service) DeleteCollaboration(ctx context.Context, playlistID, collaboratorID, actorID string) error {
	if err := s.VerifyOwner(ctx, playlistID, actorID); err != nil {
		return err
	}

	ok, err := s.collaborations.Delete(ctx, playlistID, collaboratorID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Invariant("user %s does not collaborate on playlist %s", collaboratorID, playlistID)
	}
	return nil
}
