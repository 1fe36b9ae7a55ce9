package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"batepapo-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts the room log persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) (models.Message, error)
	ListMessages(ctx context.Context) ([]models.Message, error)
	GetMessage(ctx context.Context, id string) (models.Message, error)
	UpdateMessage(ctx context.Context, msg models.Message) error
	DeleteMessage(ctx context.Context, id string) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a message to the log and returns it with its
// assigned sequence number.
func (r *MessageRepo) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (id, from_name, to_name, text, type, time) VALUES ($1, $2, $3, $4, $5, $6) RETURNING seq`,
		msg.ID, msg.From, msg.To, msg.Text, msg.Type, msg.Time).
		Scan(&msg.Seq)
	return msg, err
}

// ListMessages returns the whole log in insertion order.
func (r *MessageRepo) ListMessages(ctx context.Context) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT seq, id, from_name, to_name, text, type, time FROM messages ORDER BY seq ASC`)
	return msgs, err
}

// GetMessage retrieves a single message by its opaque id.
func (r *MessageRepo) GetMessage(ctx context.Context, id string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT seq, id, from_name, to_name, text, type, time FROM messages WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// UpdateMessage replaces the mutable fields of a message, keeping id, sender
// and log position.
func (r *MessageRepo) UpdateMessage(ctx context.Context, msg models.Message) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET to_name=$2, text=$3, type=$4, time=$5 WHERE id=$1`,
		msg.ID, msg.To, msg.Text, msg.Type, msg.Time)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// DeleteMessage removes a message permanently.
func (r *MessageRepo) DeleteMessage(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
