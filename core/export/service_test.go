package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abimdanu/openmusic-api/apperr"
)

// fakeVerifier grants ownership to a single (playlist, user) pair.
type fakeVerifier struct {
	playlistID string
	ownerID    string
}

func (v *fakeVerifier) VerifyOwner(ctx context.Context, playlistID, userID string) error {
	if playlistID != v.playlistID {
		return apperr.NotFound("playlist %s not found", playlistID)
	}
	if userID != v.ownerID {
		return apperr.Authorization("user %s is not the owner of playlist %s", userID, playlistID)
	}
	return nil
}

// fakeProducer records what was published.
type fakeProducer struct {
	topic   string
	payload []byte
	err     error
	calls   int
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, payload []byte) error {
	p.calls++
	p.topic = topic
	p.payload = payload
	return p.err
}

func TestRequestExport(t *testing.T) {
	ctx := context.Background()
	verifier := &fakeVerifier{playlistID: "playlist-1", ownerID: "user-owner"}

	t.Run("owner's request is published on the configured topic", func(t *testing.T) {
		producer := &fakeProducer{}
		svc := NewService(verifier, producer, "export:playlists")

		err := svc.RequestExport(ctx, "playlist-1", "user-owner", "owner@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if producer.topic != "export:playlists" {
			t.Errorf("expected topic export:playlists, got %q", producer.topic)
		}

		var got message
		if err := json.Unmarshal(producer.payload, &got); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if got.PlaylistID != "playlist-1" || got.TargetEmail != "owner@example.com" {
			t.Errorf("unexpected payload %+v", got)
		}
	})

	t.Run("non-owner is rejected before anything is published", func(t *testing.T) {
		producer := &fakeProducer{}
		svc := NewService(verifier, producer, "export:playlists")

		err := svc.RequestExport(ctx, "playlist-1", "user-collab", "collab@example.com")
		if !apperr.IsAuthorization(err) {
			t.Fatalf("expected authorization error, got %v", err)
		}
		if producer.calls != 0 {
			t.Errorf("expected no publish, got %d", producer.calls)
		}
	})

	t.Run("missing playlist is not found", func(t *testing.T) {
		producer := &fakeProducer{}
		svc := NewService(verifier, producer, "export:playlists")

		err := svc.RequestExport(ctx, "playlist-missing", "user-owner", "owner@example.com")
		if !apperr.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
		if producer.calls != 0 {
			t.Errorf("expected no publish, got %d", producer.calls)
		}
	})

	t.Run("publish failure is surfaced", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("connection refused")}
		svc := NewService(verifier, producer, "export:playlists")

		err := svc.RequestExport(ctx, "playlist-1", "user-owner", "owner@example.com")
		if err == nil {
			t.Fatal("expected a publish error")
		}
	})
}
