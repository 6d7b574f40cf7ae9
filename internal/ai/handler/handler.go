package handler

import (
	"context"
	"errors"
	"net/http"

	"nexa-crm/internal/ai/processor"
	"nexa-crm/internal/apierrors"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeadFetcher loads the lead a prediction or analysis refers to.
type LeadFetcher interface {
	GetLeadByID(ctx context.Context, id uuid.UUID) (store.Lead, error)
}

type Handler struct {
	processor *processor.AIProcessor
	leads     LeadFetcher
	logger    *observability.Logger
}

func New(processor *processor.AIProcessor, leads LeadFetcher, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		leads:     leads,
		logger:    logger,
	}
}

// AnalyzeIntentRequest carries the inbound message to classify. LeadID
// is optional; without it the analysis runs on an anonymous lead.
type AnalyzeIntentRequest struct {
	Message string  `json:"message" binding:"required,min=1"`
	LeadID  *string `json:"lead_id,omitempty" binding:"omitempty,uuid"`
}

func (h Handler) HandleAnalyzeIntent(c *gin.Context) {
	ctx := c.Request.Context()

	var req AnalyzeIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	var lead store.Lead
	if req.LeadID != nil {
		leadID, err := uuid.Parse(*req.LeadID)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead_id must be a valid UUID")
			return
		}
		lead, err = h.leads.GetLeadByID(ctx, leadID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				apierrors.NotFound(c, "lead not found")
				return
			}
			apierrors.InternalError(c, err)
			return
		}
	}

	analysis := h.processor.AnalyzeIntent(ctx, req.Message, lead)
	c.JSON(http.StatusOK, analysis)
}

func (h Handler) HandlePredictConversion(c *gin.Context) {
	ctx := c.Request.Context()

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	lead, err := h.leads.GetLeadByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	prediction, err := h.processor.PredictConversion(ctx, lead)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// GenerateMessageRequest asks for a personalized message of a given
// type for a lead.
type GenerateMessageRequest struct {
	LeadID      string `json:"lead_id" binding:"required,uuid"`
	MessageType string `json:"message_type" binding:"required,oneof=welcome follow_up offer reminder"`
}

func (h Handler) HandleGenerateMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req GenerateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead_id must be a valid UUID")
		return
	}

	lead, err := h.leads.GetLeadByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	message := h.processor.GeneratePersonalizedMessage(ctx, lead, req.MessageType)
	c.JSON(http.StatusOK, gin.H{"lead_id": lead.ID, "message_type": req.MessageType, "message": message})
}
