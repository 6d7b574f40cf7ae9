package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for JSONB")
	}

	// Handle empty or null JSON
	if len(bytes) == 0 || string(bytes) == "null" {
		*j = make(JSONB)
		return nil
	}

	result := make(JSONB)
	err := json.Unmarshal(bytes, &result)
	if err != nil {
		return err
	}
	*j = result
	return nil
}

// Lead is a prospect in the sales pipeline. The phone number is the
// canonical identity and never changes after creation.
type Lead struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	PhoneNumber     string       `db:"phone_number" json:"phone_number"`
	Email           *string      `db:"email" json:"email,omitempty"`
	Company         *string      `db:"company" json:"company,omitempty"`
	Status          LeadStatus   `db:"status" json:"status"`
	Source          LeadSource   `db:"source" json:"source"`
	InterestLevel   int          `db:"interest_level" json:"interest_level"`
	Priority        LeadPriority `db:"priority" json:"priority"`
	Notes           *string      `db:"notes" json:"notes,omitempty"`
	EstimatedValue  *float64     `db:"estimated_value" json:"estimated_value,omitempty"`
	ProjectType     *string      `db:"project_type" json:"project_type,omitempty"`
	Location        *string      `db:"location" json:"location,omitempty"`
	NextFollowUp    *time.Time   `db:"next_follow_up" json:"next_follow_up,omitempty"`
	LastContactDate *time.Time   `db:"last_contact_date" json:"last_contact_date,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// MessageTemplate is a reusable message body with {placeholder} tokens.
type MessageTemplate struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Category  TemplateCategory `db:"category" json:"category"`
	Content   string           `db:"content" json:"content"`
	Variables JSONB            `db:"variables" json:"variables,omitempty"`
	IsActive  bool             `db:"is_active" json:"is_active"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// Message is a WhatsApp message tied to a lead. Content is stored fully
// rendered; templates are never re-expanded after persistence.
type Message struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	LeadID      uuid.UUID        `db:"lead_id" json:"lead_id"`
	Content     string           `db:"content" json:"content"`
	Direction   MessageDirection `db:"direction" json:"direction"`
	Status      MessageStatus    `db:"status" json:"status"`
	TwilioSID   *string          `db:"twilio_sid" json:"twilio_sid,omitempty"`
	ScheduledAt *time.Time       `db:"scheduled_at" json:"scheduled_at,omitempty"`
	SentAt      *time.Time       `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt *time.Time       `db:"delivered_at" json:"delivered_at,omitempty"`
	ReadAt      *time.Time       `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// Campaign is a bulk send targeting leads by status and/or source.
type Campaign struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Description   *string     `db:"description" json:"description,omitempty"`
	TemplateID    uuid.UUID   `db:"template_id" json:"template_id"`
	TargetStatus  *LeadStatus `db:"target_status" json:"target_status,omitempty"`
	TargetSource  *LeadSource `db:"target_source" json:"target_source,omitempty"`
	ScheduledDate *time.Time  `db:"scheduled_date" json:"scheduled_date,omitempty"`
	IsActive      bool        `db:"is_active" json:"is_active"`
	ExecutedAt    *time.Time  `db:"executed_at" json:"executed_at,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// CampaignResult records one successful campaign send to one lead.
type CampaignResult struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	CampaignID  uuid.UUID     `db:"campaign_id" json:"campaign_id"`
	LeadID      uuid.UUID     `db:"lead_id" json:"lead_id"`
	MessageID   uuid.UUID     `db:"message_id" json:"message_id"`
	Status      MessageStatus `db:"status" json:"status"`
	SentAt      *time.Time    `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt *time.Time    `db:"delivered_at" json:"delivered_at,omitempty"`
	ReadAt      *time.Time    `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// Interaction is an append-only audit entry on a lead.
type Interaction struct {
	ID              uuid.UUID `db:"id" json:"id"`
	LeadID          uuid.UUID `db:"lead_id" json:"lead_id"`
	InteractionType string    `db:"interaction_type" json:"interaction_type"`
	Description     *string   `db:"description" json:"description,omitempty"`
	Outcome         *string   `db:"outcome" json:"outcome,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
