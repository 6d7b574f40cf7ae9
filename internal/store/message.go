package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateMessageParams represents parameters for creating a message
type CreateMessageParams struct {
	LeadID      uuid.UUID
	Content     string
	Direction   MessageDirection
	Status      MessageStatus
	TwilioSID   *string
	ScheduledAt *time.Time
	SentAt      *time.Time
}

const sqlCreateMessage = `
INSERT INTO messages (lead_id, content, direction, status, twilio_sid, scheduled_at, sent_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, lead_id, content, direction, status, twilio_sid, scheduled_at, sent_at, delivered_at, read_at, created_at
`

// CreateMessage creates a new message record
func (s *Store) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	var message Message
	err := s.db.GetContext(ctx, &message, sqlCreateMessage,
		params.LeadID,
		params.Content,
		params.Direction,
		params.Status,
		params.TwilioSID,
		params.ScheduledAt,
		params.SentAt)
	if err != nil {
		s.logger.Error(ctx, "failed to create message", err)
		return Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}

const sqlGetMessageByID = `
SELECT id, lead_id, content, direction, status, twilio_sid, scheduled_at, sent_at, delivered_at, read_at, created_at
FROM messages
WHERE id = $1
`

// GetMessageByID retrieves a message by ID
func (s *Store) GetMessageByID(ctx context.Context, messageID uuid.UUID) (Message, error) {
	var message Message
	err := s.db.GetContext(ctx, &message, sqlGetMessageByID, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get message by id", err)
		return Message{}, fmt.Errorf("failed to get message by id: %w", err)
	}
	return message, nil
}

const sqlListMessagesByLead = `
SELECT id, lead_id, content, direction, status, twilio_sid, scheduled_at, sent_at, delivered_at, read_at, created_at
FROM messages
WHERE lead_id = $1
ORDER BY created_at
`

// ListMessagesByLead retrieves a lead's messages in chronological order
func (s *Store) ListMessagesByLead(ctx context.Context, leadID uuid.UUID) ([]Message, error) {
	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages, sqlListMessagesByLead, leadID)
	if err != nil {
		s.logger.Error(ctx, "failed to list messages by lead", err)
		return nil, fmt.Errorf("failed to list messages by lead: %w", err)
	}
	return messages, nil
}

const sqlMarkMessageSent = `
UPDATE messages
SET status = 'sent',
    twilio_sid = $2,
    sent_at = $3
WHERE id = $1
`

// MarkMessageSent transitions a message to sent with its channel SID
func (s *Store) MarkMessageSent(ctx context.Context, messageID uuid.UUID, twilioSID string, sentAt time.Time) error {
	result, err := s.db.ExecContext(ctx, sqlMarkMessageSent, messageID, twilioSID, sentAt)
	if err != nil {
		s.logger.Error(ctx, "failed to mark message sent", err)
		return fmt.Errorf("failed to mark message sent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlMarkMessageFailed = `
UPDATE messages
SET status = 'failed'
WHERE id = $1
`

// MarkMessageFailed transitions a message to failed
func (s *Store) MarkMessageFailed(ctx context.Context, messageID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlMarkMessageFailed, messageID)
	if err != nil {
		s.logger.Error(ctx, "failed to mark message failed", err)
		return fmt.Errorf("failed to mark message failed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlGetScheduledMessagesDue = `
SELECT id, lead_id, content, direction, status, twilio_sid, scheduled_at, sent_at, delivered_at, read_at, created_at
FROM messages
WHERE status = 'scheduled'
  AND scheduled_at <= $1
ORDER BY scheduled_at
`

// GetScheduledMessagesDue retrieves scheduled messages whose send time
// has arrived
func (s *Store) GetScheduledMessagesDue(ctx context.Context, now time.Time) ([]Message, error) {
	messages := []Message{}
	err := s.db.SelectContext(ctx, &messages, sqlGetScheduledMessagesDue, now)
	if err != nil {
		s.logger.Error(ctx, "failed to get scheduled messages due", err)
		return nil, fmt.Errorf("failed to get scheduled messages due: %w", err)
	}
	return messages, nil
}
