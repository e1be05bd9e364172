package catalog

import (
	"context"
	"time"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/cache"
	"github.com/abimdanu/openmusic-api/model"
	"github.com/abimdanu/openmusic-api/repository"
)

// AlbumService is the album catalog. The album aggregate (row plus
// denormalized song list) is cached under albums:{id}; the like count
// is cached separately under album-likes:{id} so the two payload shapes
// never share a key.
type AlbumService struct {
	albums repository.AlbumRepository
	songs  repository.SongRepository
	store  cache.Store
	ttl    time.Duration
}

// NewAlbumService creates an AlbumService.
func NewAlbumService(albums repository.AlbumRepository, songs repository.SongRepository, store cache.Store, ttl time.Duration) *AlbumService {
	return &AlbumService{albums: albums, songs: songs, store: store, ttl: ttl}
}

// Create inserts a new album and returns its generated id. Nothing is
// cached yet under the new key, so there is no cache interaction.
func (s *AlbumService) Create(ctx context.Context, name string, year int) (string, error) {
	album := &model.Album{
		ID:   newID("album"),
		Name: name,
		Year: year,
	}

	if err := s.albums.Create(ctx, album); err != nil {
		return "", err
	}
	return album.ID, nil
}

// Get returns the album aggregate and where it was served from. On a
// cache miss the song list is recomputed from the database; the cache
// never originates it.
func (s *AlbumService) Get(ctx context.Context, id string) (*model.Album, cache.Source, error) {
	return cache.Fetch(ctx, s.store, cache.AlbumKey(id), s.ttl, func(ctx context.Context) (*model.Album, error) {
		album, err := s.albums.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if album == nil {
			return nil, apperr.NotFound("album %s not found", id)
		}

		songs, err := s.songs.GetSummariesByAlbumID(ctx, id)
		if err != nil {
			return nil, err
		}
		album.Songs = songs
		return album, nil
	})
}

// Update rewrites name and year, then invalidates the album projection.
func (s *AlbumService) Update(ctx context.Context, id, name string, year int) error {
	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		ok, err := s.albums.Update(ctx, id, name, year)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("album %s not found", id)
		}
		return nil
	}, cache.AlbumKey(id))
}

// Delete removes the album and both of its cache entries. Dependent
// songs and likes are removed by the database's cascading deletes.
func (s *AlbumService) Delete(ctx context.Context, id string) error {
	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		ok, err := s.albums.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("album %s not found", id)
		}
		return nil
	}, cache.AlbumKey(id), cache.AlbumLikesKey(id))
}

// SetCover assigns the album's cover URL and invalidates the album
// projection.
func (s *AlbumService) SetCover(ctx context.Context, id, coverURL string) error {
	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		ok, err := s.albums.SetCover(ctx, id, coverURL)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("album %s not found", id)
		}
		return nil
	}, cache.AlbumKey(id))
}

// Like records a like for (album, user). Liking an album twice is an
// invariant violation; the UNIQUE constraint backs the existence check
// so a concurrent duplicate is rejected by the database as well.
func (s *AlbumService) Like(ctx context.Context, albumID, userID string) error {
	album, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return err
	}
	if album == nil {
		return apperr.NotFound("album %s not found", albumID)
	}

	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		liked, err := s.albums.HasLike(ctx, albumID, userID)
		if err != nil {
			return err
		}
		if liked {
			return apperr.Invariant("album %s already liked by user %s", albumID, userID)
		}
		return s.albums.AddLike(ctx, albumID, userID)
	}, cache.AlbumKey(albumID), cache.AlbumLikesKey(albumID))
}

// Unlike removes a like. Unliking an album that was never liked is an
// invariant violation.
func (s *AlbumService) Unlike(ctx context.Context, albumID, userID string) error {
	return cache.Mutate(ctx, s.store, func(ctx context.Context) error {
		ok, err := s.albums.DeleteLike(ctx, albumID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Invariant("album %s was not liked by user %s", albumID, userID)
		}
		return nil
	}, cache.AlbumKey(albumID), cache.AlbumLikesKey(albumID))
}

// LikeCount returns the album's like count and where it was served from.
func (s *AlbumService) LikeCount(ctx context.Context, albumID string) (int, cache.Source, error) {
	return cache.Fetch(ctx, s.store, cache.AlbumLikesKey(albumID), s.ttl, func(ctx context.Context) (int, error) {
		album, err := s.albums.GetByID(ctx, albumID)
		if err != nil {
			return 0, err
		}
		if album == nil {
			return 0, apperr.NotFound("album %s not found", albumID)
		}
		return s.albums.CountLikes(ctx, albumID)
	})
}
