package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateTemplateParams represents parameters for creating a message template
type CreateTemplateParams struct {
	Name      string
	Category  TemplateCategory
	Content   string
	Variables JSONB
	IsActive  bool
}

// UpdateTemplateParams represents parameters for updating a message template
type UpdateTemplateParams struct {
	Name      *string
	Category  *TemplateCategory
	Content   *string
	Variables JSONB
	IsActive  *bool
}

const sqlCreateTemplate = `
INSERT INTO message_templates (name, category, content, variables, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, category, content, variables, is_active, created_at, updated_at
`

// CreateTemplate creates a new message template
func (s *Store) CreateTemplate(ctx context.Context, params CreateTemplateParams) (MessageTemplate, error) {
	var template MessageTemplate
	err := s.db.GetContext(ctx, &template, sqlCreateTemplate,
		params.Name,
		params.Category,
		params.Content,
		params.Variables,
		params.IsActive)
	if err != nil {
		s.logger.Error(ctx, "failed to create template", err)
		return MessageTemplate{}, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

const sqlGetTemplateByID = `
SELECT id, name, category, content, variables, is_active, created_at, updated_at
FROM message_templates
WHERE id = $1
`

// GetTemplateByID retrieves a message template by ID
func (s *Store) GetTemplateByID(ctx context.Context, templateID uuid.UUID) (MessageTemplate, error) {
	var template MessageTemplate
	err := s.db.GetContext(ctx, &template, sqlGetTemplateByID, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MessageTemplate{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get template by id", err)
		return MessageTemplate{}, fmt.Errorf("failed to get template by id: %w", err)
	}
	return template, nil
}

const sqlListTemplates = `
SELECT id, name, category, content, variables, is_active, created_at, updated_at
FROM message_templates
ORDER BY created_at DESC
`

// ListTemplates retrieves all message templates, newest first
func (s *Store) ListTemplates(ctx context.Context) ([]MessageTemplate, error) {
	templates := []MessageTemplate{}
	err := s.db.SelectContext(ctx, &templates, sqlListTemplates)
	if err != nil {
		s.logger.Error(ctx, "failed to list templates", err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

const sqlGetActiveTemplateByCategory = `
SELECT id, name, category, content, variables, is_active, created_at, updated_at
FROM message_templates
WHERE category = $1 AND is_active = true
ORDER BY created_at, id
LIMIT 1
`

// GetActiveTemplateByCategory retrieves the first active template in a
// category. Ordering by created_at with id as tie-break keeps the
// selection deterministic; it is not a ranking.
func (s *Store) GetActiveTemplateByCategory(ctx context.Context, category TemplateCategory) (MessageTemplate, error) {
	var template MessageTemplate
	err := s.db.GetContext(ctx, &template, sqlGetActiveTemplateByCategory, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MessageTemplate{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get active template by category", err)
		return MessageTemplate{}, fmt.Errorf("failed to get active template by category: %w", err)
	}
	return template, nil
}

const sqlUpdateTemplate = `
UPDATE message_templates
SET name = COALESCE($2, name),
    category = COALESCE($3, category),
    content = COALESCE($4, content),
    variables = COALESCE($5, variables),
    is_active = COALESCE($6, is_active),
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, category, content, variables, is_active, created_at, updated_at
`

// UpdateTemplate applies a partial update to a message template
func (s *Store) UpdateTemplate(ctx context.Context, templateID uuid.UUID, params UpdateTemplateParams) (MessageTemplate, error) {
	var template MessageTemplate
	err := s.db.GetContext(ctx, &template, sqlUpdateTemplate,
		templateID,
		params.Name,
		params.Category,
		params.Content,
		params.Variables,
		params.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MessageTemplate{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update template", err)
		return MessageTemplate{}, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

const sqlDeleteTemplate = `
DELETE FROM message_templates
WHERE id = $1
`

// DeleteTemplate removes a message template
func (s *Store) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteTemplate, templateID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete template", err)
		return fmt.Errorf("failed to delete template: %w", err)
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
