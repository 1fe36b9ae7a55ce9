package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"batepapo-service/internal/models"
)

var (
	ErrNameTaken           = errors.New("participant name already taken")
	ErrParticipantNotFound = errors.New("participant not found")
)

// ParticipantRepository abstracts presence persistence.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant models.Participant) error
	GetParticipant(ctx context.Context, name string) (models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	RefreshLastStatus(ctx context.Context, name string, at time.Time) error
	DeleteParticipant(ctx context.Context, name string) (bool, error)
}

// ParticipantRepo is a sqlx implementation of ParticipantRepository.
type ParticipantRepo struct {
	db *sqlx.DB
}

// NewParticipantRepo constructs a ParticipantRepo.
func NewParticipantRepo(db *sqlx.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// CreateParticipant inserts a presence record. The name is the primary key,
// so a duplicate insert loses the race atomically and reports ErrNameTaken.
func (r *ParticipantRepo) CreateParticipant(ctx context.Context, participant models.Participant) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (name, last_status) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		participant.Name, participant.LastStatus)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNameTaken
	}
	return nil
}

// GetParticipant retrieves a single presence record by name.
func (r *ParticipantRepo) GetParticipant(ctx context.Context, name string) (models.Participant, error) {
	var participant models.Participant
	err := r.db.GetContext(ctx, &participant,
		`SELECT name, last_status FROM participants WHERE name=$1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, ErrParticipantNotFound
	}
	return participant, err
}

// ListParticipants returns a snapshot of every presence record.
func (r *ParticipantRepo) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.SelectContext(ctx, &participants,
		`SELECT name, last_status FROM participants`)
	return participants, err
}

// RefreshLastStatus moves a participant's heartbeat forward. Last writer
// wins; a refresh racing an eviction may lose, which the caller accepts.
func (r *ParticipantRepo) RefreshLastStatus(ctx context.Context, name string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE participants SET last_status=$2 WHERE name=$1`, name, at)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// DeleteParticipant removes a presence record. The removed flag tells
// concurrent sweeps apart: only the caller that actually deleted the row
// gets true.
func (r *ParticipantRepo) DeleteParticipant(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE name=$1`, name)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
