package handler

import (
	"errors"
	"net/http"
	"time"

	"nexa-crm/internal/apierrors"
	"nexa-crm/internal/campaigns/processor"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor *processor.CampaignProcessor
	logger    *observability.Logger
}

func New(processor *processor.CampaignProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// CreateCampaignRequest creates a campaign tied to a template.
type CreateCampaignRequest struct {
	Name          string     `json:"name" binding:"required,min=1"`
	Description   *string    `json:"description,omitempty"`
	TemplateID    string     `json:"template_id" binding:"required,uuid"`
	TargetStatus  *string    `json:"target_status,omitempty" binding:"omitempty,oneof=new contacted interested qualified converted lost"`
	TargetSource  *string    `json:"target_source,omitempty" binding:"omitempty,oneof=website whatsapp referral social event other"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

// UpdateCampaignRequest updates selected fields of a campaign.
type UpdateCampaignRequest struct {
	Name          *string    `json:"name,omitempty" binding:"omitempty,min=1"`
	Description   *string    `json:"description,omitempty"`
	TemplateID    *string    `json:"template_id,omitempty" binding:"omitempty,uuid"`
	TargetStatus  *string    `json:"target_status,omitempty" binding:"omitempty,oneof=new contacted interested qualified converted lost"`
	TargetSource  *string    `json:"target_source,omitempty" binding:"omitempty,oneof=website whatsapp referral social event other"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

func (h Handler) HandleCreateCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_TEMPLATE_ID", "template_id must be a valid UUID")
		return
	}

	params := store.CreateCampaignParams{
		Name:          req.Name,
		Description:   req.Description,
		TemplateID:    templateID,
		ScheduledDate: req.ScheduledDate,
		IsActive:      true,
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}
	if req.TargetStatus != nil {
		status, err := store.ParseLeadStatus(*req.TargetStatus)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TARGET_STATUS", err.Error())
			return
		}
		params.TargetStatus = &status
	}
	if req.TargetSource != nil {
		source, err := store.ParseLeadSource(*req.TargetSource)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TARGET_SOURCE", err.Error())
			return
		}
		params.TargetSource = &source
	}

	campaign, err := h.processor.CreateCampaign(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "template not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

func (h Handler) HandleListCampaigns(c *gin.Context) {
	campaigns, err := h.processor.ListCampaigns(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h Handler) HandleGetCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CAMPAIGN_ID", "campaign id must be a valid UUID")
		return
	}

	campaign, err := h.processor.GetCampaign(c.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "campaign not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h Handler) HandleUpdateCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CAMPAIGN_ID", "campaign id must be a valid UUID")
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	params := store.UpdateCampaignParams{
		Name:          req.Name,
		Description:   req.Description,
		ScheduledDate: req.ScheduledDate,
		IsActive:      req.IsActive,
	}
	if req.TemplateID != nil {
		templateID, err := uuid.Parse(*req.TemplateID)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TEMPLATE_ID", "template_id must be a valid UUID")
			return
		}
		params.TemplateID = &templateID
	}
	if req.TargetStatus != nil {
		status, err := store.ParseLeadStatus(*req.TargetStatus)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TARGET_STATUS", err.Error())
			return
		}
		params.TargetStatus = &status
	}
	if req.TargetSource != nil {
		source, err := store.ParseLeadSource(*req.TargetSource)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TARGET_SOURCE", err.Error())
			return
		}
		params.TargetSource = &source
	}

	campaign, err := h.processor.UpdateCampaign(ctx, campaignID, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "campaign not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h Handler) HandleDeleteCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CAMPAIGN_ID", "campaign id must be a valid UUID")
		return
	}

	if err := h.processor.DeleteCampaign(c.Request.Context(), campaignID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "campaign not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handler) HandleExecuteCampaign(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CAMPAIGN_ID", "campaign id must be a valid UUID")
		return
	}

	summary, err := h.processor.ExecuteCampaign(c.Request.Context(), campaignID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	if !summary.Executed {
		apierrors.NotFound(c, "campaign not found or inactive")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h Handler) HandleCampaignPerformance(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CAMPAIGN_ID", "campaign id must be a valid UUID")
		return
	}

	report, err := h.processor.AnalyzeCampaignPerformance(c.Request.Context(), campaignID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			apierrors.NotFound(c, "campaign not found")
		case errors.Is(err, processor.ErrNoResults):
			apierrors.BadRequest(c, "NO_RESULTS", "campaign has no results to analyze")
		default:
			apierrors.InternalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
