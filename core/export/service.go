// Package export enqueues playlist export jobs. Rendering and emailing
// the export is a separate consumer process; this side only validates
// ownership and publishes.
package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abimdanu/openmusic-api/queue"
)

// OwnerVerifier is the slice of the playlist service the export gateway
// needs: export is owner-exclusive.
type OwnerVerifier interface {
	VerifyOwner(ctx context.Context, playlistID, userID string) error
}

// message is the payload the consumer receives.
type message struct {
	PlaylistID  string `json:"playlistId"`
	TargetEmail string `json:"targetEmail"`
}

// Service is the export gateway.
type Service struct {
	access   OwnerVerifier
	producer queue.Producer
	topic    string
}

// NewService creates an export Service publishing on the given topic.
func NewService(access OwnerVerifier, producer queue.Producer, topic string) *Service {
	return &Service{access: access, producer: producer, topic: topic}
}

// RequestExport verifies ownership, then publishes the job and returns
// without waiting for it to run. A publish failure is surfaced to the
// caller; there is no retry here.
func (s *Service) RequestExport(ctx context.Context, playlistID, userID, targetEmail string) error {
	if err := s.access.VerifyOwner(ctx, playlistID, userID); err != nil {
		return err
	}

	payload, err := json.Marshal(message{
		PlaylistID:  playlistID,
		TargetEmail: targetEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal export message: %w", err)
	}

	return s.producer.Publish(ctx, s.topic, payload)
}
