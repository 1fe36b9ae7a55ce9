package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"batepapo-service/internal/models"
)

type ParticipantRepositoryMock struct {
	mock.Mock
}

func (m *ParticipantRepositoryMock) CreateParticipant(ctx context.Context, participant models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) GetParticipant(ctx context.Context, name string) (models.Participant, error) {
	args := m.Called(ctx, name)
	var participant models.Participant
	if val := args.Get(0); val != nil {
		participant = val.(models.Participant)
	}
	return participant, args.Error(1)
}

func (m *ParticipantRepositoryMock) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	args := m.Called(ctx)
	var list []models.Participant
	if val := args.Get(0); val != nil {
		list = val.([]models.Participant)
	}
	return list, args.Error(1)
}

func (m *ParticipantRepositoryMock) RefreshLastStatus(ctx context.Context, name string, at time.Time) error {
	args := m.Called(ctx, name, at)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) DeleteParticipant(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var created models.Message
	if val := args.Get(0); val != nil {
		created = val.(models.Message)
	}
	return created, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context) ([]models.Message, error) {
	args := m.Called(ctx)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, id string) (models.Message, error) {
	args := m.Called(ctx, id)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateMessage(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
