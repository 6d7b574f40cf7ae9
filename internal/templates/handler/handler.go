package handler

import (
	"errors"
	"net/http"

	"nexa-crm/internal/apierrors"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"
	"nexa-crm/internal/templates/processor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor *processor.TemplateProcessor
	logger    *observability.Logger
}

func New(processor *processor.TemplateProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// CreateTemplateRequest creates a reusable message template. Variables
// lists the placeholders the content uses, for the dashboard's benefit.
type CreateTemplateRequest struct {
	Name      string         `json:"name" binding:"required,min=1"`
	Category  string         `json:"category" binding:"required,oneof=welcome follow_up reminder offer custom"`
	Content   string         `json:"content" binding:"required,min=1"`
	Variables map[string]any `json:"variables,omitempty"`
	IsActive  *bool          `json:"is_active,omitempty"`
}

// UpdateTemplateRequest updates selected template fields.
type UpdateTemplateRequest struct {
	Name      *string        `json:"name,omitempty" binding:"omitempty,min=1"`
	Category  *string        `json:"category,omitempty" binding:"omitempty,oneof=welcome follow_up reminder offer custom"`
	Content   *string        `json:"content,omitempty" binding:"omitempty,min=1"`
	Variables map[string]any `json:"variables,omitempty"`
	IsActive  *bool          `json:"is_active,omitempty"`
}

func (h Handler) HandleCreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	category, err := store.ParseTemplateCategory(req.Category)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CATEGORY", err.Error())
		return
	}

	params := store.CreateTemplateParams{
		Name:      req.Name,
		Category:  category,
		Content:   req.Content,
		Variables: store.JSONB(req.Variables),
		IsActive:  true,
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	template, err := h.processor.CreateTemplate(c.Request.Context(), params)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h Handler) HandleListTemplates(c *gin.Context) {
	templates, err := h.processor.ListTemplates(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h Handler) HandleGetTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_TEMPLATE_ID", "template id must be a valid UUID")
		return
	}

	template, err := h.processor.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "template not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h Handler) HandleUpdateTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_TEMPLATE_ID", "template id must be a valid UUID")
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	params := store.UpdateTemplateParams{
		Name:      req.Name,
		Content:   req.Content,
		Variables: store.JSONB(req.Variables),
		IsActive:  req.IsActive,
	}
	if req.Category != nil {
		category, err := store.ParseTemplateCategory(*req.Category)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_CATEGORY", err.Error())
			return
		}
		params.Category = &category
	}

	template, err := h.processor.UpdateTemplate(c.Request.Context(), templateID, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "template not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h Handler) HandleDeleteTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_TEMPLATE_ID", "template id must be a valid UUID")
		return
	}

	if err := h.processor.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "template not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
