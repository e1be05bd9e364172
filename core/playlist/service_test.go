package playlist

import (
	"context"
	"testing"
	"time"

	"github.com/abimdanu/openmusic-api/apperr"
	"github.com/abimdanu/openmusic-api/model"
)

// fakePlaylistRepo is an in-memory PlaylistRepository with an ordered
// activity ledger.
type fakePlaylistRepo struct {
	playlists  map[string]*model.Playlist
	member     map[string]map[string]bool // playlistID -> songID
	activities map[string][]model.Activity
	usernames  map[string]string
	titles     map[string]string
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists:  map[string]*model.Playlist{},
		member:     map[string]map[string]bool{},
		activities: map[string][]model.Activity{},
		usernames:  map[string]string{},
		titles:     map[string]string{},
	}
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist *model.Playlist) error {
	copied := *playlist
	r.playlists[playlist.ID] = &copied
	return nil
}

func (r *fakePlaylistRepo) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	copied := *playlist
	return &copied, nil
}

func (r *fakePlaylistRepo) ListByOwner(ctx context.Context, owner string) ([]model.PlaylistSummary, error) {
	summaries := []model.PlaylistSummary{}
	for _, playlist := range r.playlists {
		if playlist.Owner == owner {
			summaries = append(summaries, model.PlaylistSummary{
				ID:       playlist.ID,
				Name:     playlist.Name,
				Username: r.usernames[owner],
			})
		}
	}
	return summaries, nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.playlists[id]; !ok {
		return false, nil
	}
	delete(r.playlists, id)
	delete(r.member, id)
	delete(r.activities, id)
	return true, nil
}

func (r *fakePlaylistRepo) AddSong(ctx context.Context, edgeID, playlistID, songID string) error {
	if r.member[playlistID][songID] {
		return apperr.Invariant("song %s is already in playlist %s", songID, playlistID)
	}
	if r.member[playlistID] == nil {
		r.member[playlistID] = map[string]bool{}
	}
	r.member[playlistID][songID] = true
	return nil
}

func (r *fakePlaylistRepo) RemoveSong(ctx context.Context, playlistID, songID string) (bool, error) {
	if !r.member[playlistID][songID] {
		return false, nil
	}
	delete(r.member[playlistID], songID)
	return true, nil
}

func (r *fakePlaylistRepo) GetWithSongs(ctx context.Context, id string) (*model.PlaylistWithSongs, error) {
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, nil
	}
	result := &model.PlaylistWithSongs{
		ID:       playlist.ID,
		Name:     playlist.Name,
		Username: r.usernames[playlist.Owner],
		Songs:    []model.SongSummary{},
	}
	for songID := range r.member[id] {
		result.Songs = append(result.Songs, model.SongSummary{ID: songID, Title: r.titles[songID]})
	}
	return result, nil
}

func (r *fakePlaylistRepo) AddActivity(ctx context.Context, playlistID, songID, userID, action string, at time.Time) error {
	r.activities[playlistID] = append(r.activities[playlistID], model.Activity{
		Username: r.usernames[userID],
		Title:    r.titles[songID],
		Action:   action,
		Time:     at,
	})
	return nil
}

func (r *fakePlaylistRepo) ListActivities(ctx context.Context, playlistID string) ([]model.Activity, error) {
	return r.activities[playlistID], nil
}

// fakeCollabRepo is an in-memory CollaborationRepository.
type fakeCollabRepo struct {
	grants map[string]map[string]bool // playlistID -> userID
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{grants: map[string]map[string]bool{}}
}

func (r *fakeCollabRepo) Create(ctx context.Context, collaboration *model.Collaboration) error {
	if r.grants[collaboration.PlaylistID][collaboration.UserID] {
		return apperr.Invariant("user %s already collaborates on playlist %s", collaboration.UserID, collaboration.PlaylistID)
	}
	if r.grants[collaboration.PlaylistID] == nil {
		r.grants[collaboration.PlaylistID] = map[string]bool{}
	}
	r.grants[collaboration.PlaylistID][collaboration.UserID] = true
	return nil
}

func (r *fakeCollabRepo) Delete(ctx context.Context, playlistID, userID string) (bool, error) {
	if !r.grants[playlistID][userID] {
		return false, nil
	}
	delete(r.grants[playlistID], userID)
	return true, nil
}

func (r *fakeCollabRepo) Exists(ctx context.Context, playlistID, userID string) (bool, error) {
	return r.grants[playlistID][userID], nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, user := range users {
		r.users[user.ID] = user
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; ok {
		return apperr.Invariant("username %s is already taken", user.Username)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

// fakeSongRepo carries just enough of SongRepository for membership checks.
type fakeSongRepo struct {
	songs map[string]*model.Song
}

func newFakeSongRepo(songs ...*model.Song) *fakeSongRepo {
	r := &fakeSongRepo{songs: map[string]*model.Song{}}
	for _, song := range songs {
		r.songs[song.ID] = song
	}
	return r
}

func (r *fakeSongRepo) Create(ctx context.Context, song *model.Song) error {
	r.songs[song.ID] = song
	return nil
}

func (r *fakeSongRepo) List(ctx context.Context, title, performer string) ([]model.SongSummary, error) {
	return nil, nil
}

func (r *fakeSongRepo) GetByID(ctx context.Context, id string) (*model.Song, error) {
	song, ok := r.songs[id]
	if !ok {
		return nil, nil
	}
	return song, nil
}

func (r *fakeSongRepo) GetSummariesByAlbumID(ctx context.Context, albumID string) ([]model.SongSummary, error) {
	return nil, nil
}

func (r *fakeSongRepo) Update(ctx context.Context, song *model.Song) (bool, error) {
	return false, nil
}

func (r *fakeSongRepo) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fixture struct {
	svc       *Service
	playlists *fakePlaylistRepo
	collabs   *fakeCollabRepo
}

// newFixture builds a service with an owner, a collaborator, a stranger
// and one song ready to use.
func newFixture(t *testing.T) (*fixture, string) {
	t.Helper()

	playlists := newFakePlaylistRepo()
	collabs := newFakeCollabRepo()
	songs := newFakeSongRepo(&model.Song{ID: "song-1", Title: "Yellow", Performer: "Coldplay"})
	users := newFakeUserRepo(
		&model.User{ID: "user-owner", Username: "alice"},
		&model.User{ID: "user-collab", Username: "bob"},
		&model.User{ID: "user-stranger", Username: "mallory"},
	)
	playlists.usernames["user-owner"] = "alice"
	playlists.usernames["user-collab"] = "bob"
	playlists.titles["song-1"] = "Yellow"

	svc := NewService(playlists, collabs, songs, users)

	playlistID, err := svc.Create(context.Background(), "Road Trip", "user-owner")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	return &fixture{svc: svc, playlists: playlists, collabs: collabs}, playlistID
}

func TestVerifyOwner(t *testing.T) {
	ctx := context.Background()
	f, playlistID := newFixture(t)

	t.Run("owner passes", func(t *testing.T) {
		if err := f.svc.VerifyOwner(ctx, playlistID, "user-owner"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("collaborator is rejected", func(t *testing.T) {
		if _, err := f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner"); err != nil {
			t.Fatalf("add collaboration: %v", err)
		}
		err := f.svc.VerifyOwner(ctx, playlistID, "user-collab")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		err := f.svc.VerifyOwner(ctx, playlistID, "user-stranger")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
	})

	t.Run("missing playlist is not found, not forbidden", func(t *testing.T) {
		err := f.svc.VerifyOwner(ctx, "playlist-missing", "user-owner")
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestVerifyAccess(t *testing.T) {
	ctx := context.Background()
	f, playlistID := newFixture(t)

	if _, err := f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner"); err != nil {
		t.Fatalf("add collaboration: %v", err)
	}

	t.Run("owner and collaborator pass", func(t *testing.T) {
		if err := f.svc.VerifyAccess(ctx, playlistID, "user-owner"); err != nil {
			t.Fatalf("owner: %v", err)
		}
		if err := f.svc.VerifyAccess(ctx, playlistID, "user-collab"); err != nil {
			t.Fatalf("collaborator: %v", err)
		}
	})

	t.Run("stranger gets the ownership reason", func(t *testing.T) {
		err := f.svc.VerifyAccess(ctx, playlistID, "user-stranger")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
		want := f.svc.VerifyOwner(ctx, playlistID, "user-stranger")
		if err.Error() != want.Error() {
			t.Errorf("access denial %q differs from ownership denial %q", err, want)
		}
	})

	t.Run("revocation takes effect immediately", func(t *testing.T) {
		if err := f.svc.DeleteCollaboration(ctx, playlistID, "user-collab", "user-owner"); err != nil {
			t.Fatalf("delete collaboration: %v", err)
		}
		err := f.svc.VerifyAccess(ctx, playlistID, "user-collab")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error after revocation, got %v", err)
		}
	})
}

func TestPlaylistSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("collaborator can add and remove songs", func(t *testing.T) {
		f, playlistID := newFixture(t)
		f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner")

		if err := f.svc.AddSong(ctx, playlistID, "song-1", "user-collab"); err != nil {
			t.Fatalf("add song: %v", err)
		}
		if err := f.svc.RemoveSong(ctx, playlistID, "song-1", "user-collab"); err != nil {
			t.Fatalf("remove song: %v", err)
		}
	})

	t.Run("stranger cannot add songs", func(t *testing.T) {
		f, playlistID := newFixture(t)
		err := f.svc.AddSong(ctx, playlistID, "song-1", "user-stranger")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
	})

	t.Run("adding an unknown song is not found", func(t *testing.T) {
		f, playlistID := newFixture(t)
		err := f.svc.AddSong(ctx, playlistID, "song-missing", "user-owner")
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("adding a song twice violates the invariant", func(t *testing.T) {
		f, playlistID := newFixture(t)
		if err := f.svc.AddSong(ctx, playlistID, "song-1", "user-owner"); err != nil {
			t.Fatalf("add song: %v", err)
		}
		err := f.svc.AddSong(ctx, playlistID, "song-1", "user-owner")
		if !apperr.IsInvariant(err) {
			t.Fatalf("expected invariant violation, got %v", err)
		}
	})

	t.Run("removing an absent song violates the invariant", func(t *testing.T) {
		f, playlistID := newFixture(t)
		err := f.svc.RemoveSong(ctx, playlistID, "song-1", "user-owner")
		if !apperr.IsInvariant(err) {
			t.Fatalf("expected invariant violation, got %v", err)
		}
	})

	t.Run("get songs returns the playlist with members", func(t *testing.T) {
		f, playlistID := newFixture(t)
		f.svc.AddSong(ctx, playlistID, "song-1", "user-owner")

		got, err := f.svc.GetSongs(ctx, playlistID, "user-owner")
		if err != nil {
			t.Fatalf("get songs: %v", err)
		}
		if got.Name != "Road Trip" || got.Username != "alice" {
			t.Errorf("unexpected playlist %+v", got)
		}
		if len(got.Songs) != 1 || got.Songs[0].ID != "song-1" {
			t.Errorf("unexpected songs %+v", got.Songs)
		}
	})
}

func TestActivities(t *testing.T) {
	ctx := context.Background()
	f, playlistID := newFixture(t)
	f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner")

	f.svc.AddSong(ctx, playlistID, "song-1", "user-owner")
	f.svc.RemoveSong(ctx, playlistID, "song-1", "user-collab")
	f.svc.AddSong(ctx, playlistID, "song-1", "user-owner")

	activities, err := f.svc.Activities(ctx, playlistID, "user-owner")
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(activities))
	}

	wantActions := []string{model.ActivityAdd, model.ActivityDelete, model.ActivityAdd}
	wantUsers := []string{"alice", "bob", "alice"}
	for i, activity := range activities {
		if activity.Action != wantActions[i] {
			t.Errorf("row %d: expected action %q, got %q", i, wantActions[i], activity.Action)
		}
		if activity.Username != wantUsers[i] {
			t.Errorf("row %d: expected user %q, got %q", i, wantUsers[i], activity.Username)
		}
		if activity.Title != "Yellow" {
			t.Errorf("row %d: expected title Yellow, got %q", i, activity.Title)
		}
	}
	for i := 1; i < len(activities); i++ {
		if activities[i].Time.Before(activities[i-1].Time) {
			t.Errorf("ledger rows out of order at %d", i)
		}
	}

	t.Run("stranger cannot read the ledger", func(t *testing.T) {
		_, err := f.svc.Activities(ctx, playlistID, "user-stranger")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
	})
}

func TestCollaborations(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner can grant", func(t *testing.T) {
		f, playlistID := newFixture(t)
		f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner")

		_, err := f.svc.AddCollaboration(ctx, playlistID, "user-stranger", "user-collab")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
	})

	t.Run("grantee must exist", func(t *testing.T) {
		f, playlistID := newFixture(t)
		_, err := f.svc.AddCollaboration(ctx, playlistID, "user-missing", "user-owner")
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("duplicate grant violates the invariant", func(t *testing.T) {
		f, playlistID := newFixture(t)
		if _, err := f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner"); err != nil {
			t.Fatalf("add collaboration: %v", err)
		}
		_, err := f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner")
		if !apperr.IsInvariant(err) {
			t.Fatalf("expected invariant violation, got %v", err)
		}
	})

	t.Run("revoking a missing grant violates the invariant", func(t *testing.T) {
		f, playlistID := newFixture(t)
		err := f.svc.DeleteCollaboration(ctx, playlistID, "user-collab", "user-owner")
		if !apperr.IsInvariant(err) {
			t.Fatalf("expected invariant violation, got %v", err)
		}
	})
}

func TestPlaylistLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("list returns only owned playlists", func(t *testing.T) {
		f, _ := newFixture(t)
		f.svc.Create(ctx, "Workout", "user-owner")

		owned, err := f.svc.List(ctx, "user-owner")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(owned) != 2 {
			t.Errorf("expected 2 playlists, got %d", len(owned))
		}

		other, _ := f.svc.List(ctx, "user-collab")
		if len(other) != 0 {
			t.Errorf("expected no playlists for the collaborator, got %d", len(other))
		}
	})

	t.Run("only the owner can delete", func(t *testing.T) {
		f, playlistID := newFixture(t)
		f.svc.AddCollaboration(ctx, playlistID, "user-collab", "user-owner")

		err := f.svc.Delete(ctx, playlistID, "user-collab")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}

		if err := f.svc.Delete(ctx, playlistID, "user-owner"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := f.svc.VerifyAccess(ctx, playlistID, "user-owner"); !apperr.IsNotFound(err) {
			t.Fatalf("expected not found after delete, got %v", err)
		}
	})
}
