package catalog

import (
	"context"
	"testing"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/cache"
)

func newSongFixture() (*SongService, *fakeSongRepo, *fakeStore) {
	songs := &fakeSongRepo{}
	store := newFakeStore()
	return NewSongService(songs, store), songs, store
}

func strptr(s string) *string { return &s }

func TestSongServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("song in an album invalidates that album", func(t *testing.T) {
		svc, _, store := newSongFixture()

		id, err := svc.Create(ctx, SongInput{
			Title:     "Yellow",
			Year:      2000,
			Performer: "Coldplay",
			Genre:     "Alternative",
			AlbumID:   strptr("album-1"),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id == "" {
			t.Error("expected a generated id")
		}
		if !store.deleted(cache.AlbumKey("album-1")) {
			t.Errorf("expected album key invalidated, got %v", store.deletes)
		}
	})

	t.Run("standalone song touches no cache", func(t *testing.T) {
		svc, _, store := newSongFixture()

		_, err := svc.Create(ctx, SongInput{Title: "Single", Year: 2020, Performer: "Nobody", Genre: "Pop"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(store.deletes) != 0 {
			t.Errorf("expected no invalidation, got %v", store.deletes)
		}
	})
}

func TestSongServiceGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newSongFixture()

	duration := 266
	id, err := svc.Create(ctx, SongInput{
		Title:     "Clocks",
		Year:      2002,
		Performer: "Coldplay",
		Genre:     "Alternative",
		Duration:  &duration,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	song, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if song.Title != "Clocks" || song.Duration == nil || *song.Duration != 266 {
		t.Errorf("unexpected song %+v", song)
	}

	if _, err := svc.Get(ctx, "song-missing"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSongServiceList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newSongFixture()

	svc.Create(ctx, SongInput{Title: "Yellow", Year: 2000, Performer: "Coldplay", Genre: "Alternative"})
	svc.Create(ctx, SongInput{Title: "Mellow Yellow", Year: 1966, Performer: "Donovan", Genre: "Pop"})
	svc.Create(ctx, SongInput{Title: "Trouble", Year: 2000, Performer: "Coldplay", Genre: "Alternative"})

	t.Run("title filter matches case-insensitive substrings", func(t *testing.T) {
		got, err := svc.List(ctx, "yellow", "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(got))
		}
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		got, err := svc.List(ctx, "yellow", "coldplay")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Yellow" {
			t.Fatalf("expected just Yellow, got %+v", got)
		}
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		got, err := svc.List(ctx, "", "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(got))
		}
	})
}

func TestSongServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("moving a song invalidates both albums", func(t *testing.T) {
		svc, _, store := newSongFixture()

		id, _ := svc.Create(ctx, SongInput{
			Title: "Yellow", Year: 2000, Performer: "Coldplay", Genre: "Alternative",
			AlbumID: strptr("album-1"),
		})
		store.deletes = nil

		err := svc.Update(ctx, id, SongInput{
			Title: "Yellow", Year: 2000, Performer: "Coldplay", Genre: "Alternative",
			AlbumID: strptr("album-2"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !store.deleted(cache.AlbumKey("album-1")) || !store.deleted(cache.AlbumKey("album-2")) {
			t.Errorf("expected both album keys invalidated, got %v", store.deletes)
		}
	})

	t.Run("attaching a standalone song invalidates the new album", func(t *testing.T) {
		svc, _, store := newSongFixture()

		id, _ := svc.Create(ctx, SongInput{Title: "Single", Year: 2020, Performer: "Nobody", Genre: "Pop"})
		store.deletes = nil

		err := svc.Update(ctx, id, SongInput{
			Title: "Single", Year: 2020, Performer: "Nobody", Genre: "Pop",
			AlbumID: strptr("album-3"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !store.deleted(cache.AlbumKey("album-3")) {
			t.Errorf("expected new album key invalidated, got %v", store.deletes)
		}
	})

	t.Run("unknown song is not found", func(t *testing.T) {
		svc, _, _ := newSongFixture()

		err := svc.Update(ctx, "song-missing", SongInput{Title: "x", Year: 2000, Performer: "y", Genre: "z"})
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestSongServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("parent album is invalidated even though the row is gone", func(t *testing.T) {
		svc, _, store := newSongFixture()

		id, _ := svc.Create(ctx, SongInput{
			Title: "Yellow", Year: 2000, Performer: "Coldplay", Genre: "Alternative",
			AlbumID: strptr("album-1"),
		})
		store.deletes = nil

		if err := svc.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if !store.deleted(cache.AlbumKey("album-1")) {
			t.Errorf("expected album key invalidated, got %v", store.deletes)
		}

		if _, err := svc.Get(ctx, id); !apperr.IsNotFound(err) {
			t.Fatalf("expected not found after delete, got %v", err)
		}
	})

	t.Run("unknown song is not found", func(t *testing.T) {
		svc, _, _ := newSongFixture()

		if err := svc.Delete(ctx, "song-missing"); !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
