package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"batepapo-service/internal/models"
	"batepapo-service/internal/observability"
	"batepapo-service/internal/policy"
	"batepapo-service/internal/repositories"
	"batepapo-service/internal/telemetry"
)

var (
	// ErrSenderNotPresent means the sender has no live presence record.
	ErrSenderNotPresent = errors.New("sender is not logged in")
	// ErrForbidden means the actor is not the original sender of the message.
	ErrForbidden = errors.New("actor is not the message sender")
)

// MessageService implements the room log: append, visibility-filtered
// retrieval and sender-authorized mutation.
type MessageService struct {
	messages     repositories.MessageRepository
	participants repositories.ParticipantRepository
	emitter      *telemetry.EventEmitter
	now          func() time.Time
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages repositories.MessageRepository, participants repositories.ParticipantRepository, emitter *telemetry.EventEmitter) *MessageService {
	return &MessageService{
		messages:     messages,
		participants: participants,
		emitter:      emitter,
		now:          time.Now,
	}
}

// Post appends a message from a currently present sender. The sender only
// needs to be present now; the record stays valid after its eviction.
func (s *MessageService) Post(ctx context.Context, from, to, text, kind string) (models.Message, error) {
	if _, err := s.participants.GetParticipant(ctx, from); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return models.Message{}, ErrSenderNotPresent
		}
		return models.Message{}, err
	}

	msg := models.Message{
		ID:   uuid.NewString(),
		From: from,
		To:   to,
		Text: text,
		Type: kind,
		Time: s.now().Format(models.TimeLayout),
	}
	created, err := s.messages.CreateMessage(ctx, msg)
	if err != nil {
		return models.Message{}, err
	}

	s.emitter.Emit(ctx, telemetry.EventMessagePosted, telemetry.MessageEvent{ID: created.ID, From: created.From, To: created.To, Type: created.Type})
	observability.IncMessagePosted(created.Type)
	return created, nil
}

// ListVisible returns the messages viewer may see. Without a limit the
// result is the full visible log in insertion order. With a limit it is the
// last limit entries, newest first. The ordering asymmetry is part of the
// API contract.
func (s *MessageService) ListVisible(ctx context.Context, viewer string, limit *int) ([]models.Message, error) {
	all, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, err
	}

	visible := lo.Filter(all, func(m models.Message, _ int) bool {
		return policy.Visible(m, viewer)
	})

	if limit == nil {
		return visible, nil
	}

	if *limit < len(visible) {
		visible = visible[len(visible)-*limit:]
	}
	return lo.Reverse(visible), nil
}

// Edit replaces the mutable fields of a message and refreshes its time.
// Only the original sender may edit; id, sender and log position survive.
func (s *MessageService) Edit(ctx context.Context, id, actor, to, text, kind string) (models.Message, error) {
	msg, err := s.messages.GetMessage(ctx, id)
	if err != nil {
		return models.Message{}, err
	}
	if !policy.CanMutate(msg, actor) {
		return models.Message{}, ErrForbidden
	}

	msg.To = to
	msg.Text = text
	msg.Type = kind
	msg.Time = s.now().Format(models.TimeLayout)
	if err := s.messages.UpdateMessage(ctx, msg); err != nil {
		return models.Message{}, err
	}

	s.emitter.Emit(ctx, telemetry.EventMessageEdited, telemetry.MessageEvent{ID: msg.ID, From: msg.From, To: msg.To, Type: msg.Type})
	return msg, nil
}

// Delete removes a message permanently. Only the original sender may.
func (s *MessageService) Delete(ctx context.Context, id, actor string) error {
	msg, err := s.messages.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(msg, actor) {
		return ErrForbidden
	}

	if err := s.messages.DeleteMessage(ctx, id); err != nil {
		return err
	}

	s.emitter.Emit(ctx, telemetry.EventMessageDeleted, telemetry.MessageEvent{ID: msg.ID, From: msg.From, To: msg.To, Type: msg.Type})
	return nil
}
