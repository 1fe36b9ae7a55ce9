package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"batepapo-service/internal/models"
	"batepapo-service/internal/observability"
	"batepapo-service/internal/policy"
	"batepapo-service/internal/repositories"
	"batepapo-service/internal/telemetry"
)

const (
	joinedText   = "entra na sala..."
	departedText = "sai da sala..."
)

// PresenceService implements the presence registry: join, heartbeat and the
// liveness sweep. A participant is "logged in" exactly while its record
// exists.
type PresenceService struct {
	participants repositories.ParticipantRepository
	messages     repositories.MessageRepository
	emitter      *telemetry.EventEmitter
	ttl          time.Duration
	now          func() time.Time
}

// NewPresenceService constructs a PresenceService with the given inactivity
// threshold.
func NewPresenceService(participants repositories.ParticipantRepository, messages repositories.MessageRepository, emitter *telemetry.EventEmitter, ttl time.Duration) *PresenceService {
	return &PresenceService{
		participants: participants,
		messages:     messages,
		emitter:      emitter,
		ttl:          ttl,
		now:          time.Now,
	}
}

// Join registers a new participant and appends the join notice to the room
// log. The returned notice has already been persisted; callers only fan it
// out. Duplicate names fail with repositories.ErrNameTaken.
func (s *PresenceService) Join(ctx context.Context, name string) (models.Participant, models.Message, error) {
	participant := models.Participant{Name: name, LastStatus: s.now()}
	if err := s.participants.CreateParticipant(ctx, participant); err != nil {
		return models.Participant{}, models.Message{}, err
	}

	notice, err := s.appendStatus(ctx, name, joinedText)
	if err != nil {
		return models.Participant{}, models.Message{}, err
	}

	s.emitter.Emit(ctx, telemetry.EventParticipantJoined, telemetry.ParticipantEvent{Name: name})
	observability.IncParticipantJoined()
	return participant, notice, nil
}

// Heartbeat refreshes the participant's last-status time. Repeated calls are
// idempotent; an unknown name fails with repositories.ErrParticipantNotFound.
func (s *PresenceService) Heartbeat(ctx context.Context, name string) error {
	return s.participants.RefreshLastStatus(ctx, name, s.now())
}

// IsPresent reports whether a live record exists for name.
func (s *PresenceService) IsPresent(ctx context.Context, name string) (bool, error) {
	_, err := s.participants.GetParticipant(ctx, name)
	if errors.Is(err, repositories.ErrParticipantNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListParticipants returns a snapshot of everyone currently present.
func (s *PresenceService) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return s.participants.ListParticipants(ctx)
}

// SweepExpired evicts every participant whose inactivity reached the TTL.
// The expiry decision is taken on a single snapshot read at sweep start; a
// heartbeat racing the sweep may still lose its participant (last writer
// wins on last_status, an accepted tradeoff).
//
// Each eviction appends a departure notice, then removes the record. Per-
// participant failures are collected and do not abort the rest of the
// sweep; the aggregate error is returned alongside whatever succeeded.
func (s *PresenceService) SweepExpired(ctx context.Context) ([]models.Participant, []models.Message, error) {
	snapshot, err := s.participants.ListParticipants(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list participants: %w", err)
	}

	now := s.now()
	stale := lo.Filter(snapshot, func(p models.Participant, _ int) bool {
		return policy.Expired(p, now, s.ttl)
	})

	var (
		evicted  []models.Participant
		notices  []models.Message
		failures []error
	)
	for _, participant := range stale {
		notice, err := s.appendStatus(ctx, participant.Name, departedText)
		if err != nil {
			failures = append(failures, fmt.Errorf("departure notice for %s: %w", participant.Name, err))
			continue
		}

		removed, err := s.participants.DeleteParticipant(ctx, participant.Name)
		if err != nil {
			failures = append(failures, fmt.Errorf("remove %s: %w", participant.Name, err))
			continue
		}
		if !removed {
			// Lost the removal race to a concurrent sweep.
			continue
		}

		evicted = append(evicted, participant)
		notices = append(notices, notice)
		s.emitter.Emit(ctx, telemetry.EventParticipantLeft, telemetry.ParticipantEvent{Name: participant.Name, Reason: "inactivity"})
	}

	observability.AddParticipantsEvicted(len(evicted))
	return evicted, notices, errors.Join(failures...)
}

func (s *PresenceService) appendStatus(ctx context.Context, name, text string) (models.Message, error) {
	notice := models.Message{
		ID:   uuid.NewString(),
		From: name,
		To:   models.Broadcast,
		Text: text,
		Type: models.KindStatus,
		Time: s.now().Format(models.TimeLayout),
	}
	return s.messages.CreateMessage(ctx, notice)
}
