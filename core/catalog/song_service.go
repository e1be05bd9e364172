package catalog

import (
	"context"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/cache"
	"github.com/abimdanu/openmusic-api/model"
	"github.com/abimdanu/openmusic-api/repository"
)

// SongService is the song catalog. Songs are not cached individually;
// what a song mutation invalidates is its parent album's aggregate,
// whose denormalized song list it changes.
type SongService struct {
	songs repository.SongRepository
	store cache.Store
}

// NewSongService creates a SongService.
func NewSongService(songs repository.SongRepository, store cache.Store) *SongService {
	return &SongService{songs: songs, store: store}
}

// SongInput carries the writable song fields.
type SongInput struct {
	Title     string
	Year      int
	Performer string
	Genre     string
	Duration  *int
	AlbumID   *string
}

// Create inserts a new song and returns its generated id. If the song
// references an album, that album's cache entry is invalidated.
func (s *SongService) Create(ctx context.Context, input SongInput) (string, error) {
	song := &model.Song{
		ID:        newID("song"),
		Title:     input.Title,
		Year:      input.Year,
		Performer: input.Performer,
		Genre:     input.Genre,
		Duration:  input.Duration,
		AlbumID:   input.AlbumID,
	}

	err := cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		return s.songs.Create(ctx, song)
	}, albumKeys(input.AlbumID)...)
	if err != nil {
		return "", err
	}
	return song.ID, nil
}

// List returns song summaries matching the filters. The result set is
// unbounded and filter-keyed, so it is always served from the database.
func (s *SongService) List(ctx context.Context, title, performer string) ([]model.SongSummary, error) {
	return s.songs.List(ctx, title, performer)
}

// Get returns a single song.
func (s *SongService) Get(ctx context.Context, id string) (*model.Song, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, apperr.NotFound("song %s not found", id)
	}
	return song, nil
}

// Update rewrites the song's fields and invalidates the albums whose
// song lists change: the one the song currently belongs to, and the one
// it is being moved to if that differs.
func (s *SongService) Update(ctx context.Context, id string, input SongInput) error {
	existing, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("song %s not found", id)
	}

	song := &model.Song{
		ID:        id,
		Title:     input.Title,
		Year:      input.Year,
		Performer: input.Performer,
		Genre:     input.Genre,
		Duration:  input.Duration,
		AlbumID:   input.AlbumID,
	}

	keys := albumKeys(existing.AlbumID)
	if input.AlbumID != nil && (existing.AlbumID == nil || *existing.AlbumID != *input.AlbumID) {
		keys = append(keys, cache.AlbumKey(*input.AlbumID))
	}

	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		ok, err := s.songs.Update(ctx, song)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("song %s not found", id)
		}
		return nil
	}, keys...)
}

// Delete removes the song. The parent album id is resolved before the
// delete, while the row still exists, so the right entry can be
// invalidated afterwards.
func (s *SongService) Delete(ctx context.Context, id string) error {
	existing, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("song %s not found", id)
	}

	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		ok, err := s.songs.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("song %s not found", id)
		}
		return nil
	}, albumKeys(existing.AlbumID)...)
}

// albumKeys returns the album cache key for a song's parent, or nothing
// for a standalone song.
func albumKeys(albumID *string) []string {
	if albumID == nil {
		return nil
	}
	return []string{cache.AlbumKey(*albumID)}
}
