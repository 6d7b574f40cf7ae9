package handler

import (
	"errors"
	"net/http"
	"time"

	"nexa-crm/internal/apierrors"
	"nexa-crm/internal/leads/processor"
	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor *processor.LeadProcessor
	logger    *observability.Logger
}

func New(processor *processor.LeadProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// CreateLeadRequest registers a lead. Only the phone number is
// mandatory; everything else enriches the record.
type CreateLeadRequest struct {
	Name           string   `json:"name"`
	PhoneNumber    string   `json:"phone_number" binding:"required,min=6"`
	Email          *string  `json:"email,omitempty" binding:"omitempty,email"`
	Company        *string  `json:"company,omitempty"`
	Source         *string  `json:"source,omitempty" binding:"omitempty,oneof=website whatsapp referral social event other"`
	InterestLevel  *int     `json:"interest_level,omitempty" binding:"omitempty,gte=1,lte=5"`
	Priority       *string  `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	Notes          *string  `json:"notes,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty" binding:"omitempty,gte=0"`
	ProjectType    *string  `json:"project_type,omitempty"`
	Location       *string  `json:"location,omitempty"`
}

func (h Handler) HandleCreateLead(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	params := store.CreateLeadParams{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Company:        req.Company,
		Status:         store.LeadStatusNew,
		Source:         store.LeadSourceWebsite,
		InterestLevel:  1,
		Priority:       store.LeadPriorityMedium,
		Notes:          req.Notes,
		EstimatedValue: req.EstimatedValue,
		ProjectType:    req.ProjectType,
		Location:       req.Location,
	}
	if req.Source != nil {
		source, err := store.ParseLeadSource(*req.Source)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_SOURCE", err.Error())
			return
		}
		params.Source = source
	}
	if req.InterestLevel != nil {
		params.InterestLevel = *req.InterestLevel
	}
	if req.Priority != nil {
		priority, err := store.ParseLeadPriority(*req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_PRIORITY", err.Error())
			return
		}
		params.Priority = priority
	}

	lead, created, err := h.processor.CreateLead(ctx, params)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, lead)
}

func (h Handler) HandleListLeads(c *gin.Context) {
	var filter store.ListLeadsFilter
	if raw := c.Query("status"); raw != "" {
		status, err := store.ParseLeadStatus(raw)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_STATUS", err.Error())
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("source"); raw != "" {
		source, err := store.ParseLeadSource(raw)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_SOURCE", err.Error())
			return
		}
		filter.Source = &source
	}

	leads, err := h.processor.ListLeads(c.Request.Context(), filter)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h Handler) HandleGetLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	lead, err := h.processor.GetLead(c.Request.Context(), leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateLeadRequest updates selected lead fields. The phone number is
// not updatable.
type UpdateLeadRequest struct {
	Name           *string    `json:"name,omitempty"`
	Email          *string    `json:"email,omitempty" binding:"omitempty,email"`
	Company        *string    `json:"company,omitempty"`
	Status         *string    `json:"status,omitempty" binding:"omitempty,oneof=new contacted interested qualified converted lost"`
	InterestLevel  *int       `json:"interest_level,omitempty" binding:"omitempty,gte=1,lte=5"`
	Priority       *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	Notes          *string    `json:"notes,omitempty"`
	EstimatedValue *float64   `json:"estimated_value,omitempty" binding:"omitempty,gte=0"`
	ProjectType    *string    `json:"project_type,omitempty"`
	Location       *string    `json:"location,omitempty"`
	NextFollowUp   *time.Time `json:"next_follow_up,omitempty"`
}

func (h Handler) HandleUpdateLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	params := store.UpdateLeadParams{
		Name:           req.Name,
		Email:          req.Email,
		Company:        req.Company,
		InterestLevel:  req.InterestLevel,
		Notes:          req.Notes,
		EstimatedValue: req.EstimatedValue,
		ProjectType:    req.ProjectType,
		Location:       req.Location,
		NextFollowUp:   req.NextFollowUp,
	}
	if req.Status != nil {
		status, err := store.ParseLeadStatus(*req.Status)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_STATUS", err.Error())
			return
		}
		params.Status = &status
	}
	if req.Priority != nil {
		priority, err := store.ParseLeadPriority(*req.Priority)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_PRIORITY", err.Error())
			return
		}
		params.Priority = &priority
	}

	lead, err := h.processor.UpdateLead(c.Request.Context(), leadID, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateStatusRequest moves a lead through the pipeline.
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=new contacted interested qualified converted lost"`
	Notes  *string `json:"notes,omitempty"`
}

func (h Handler) HandleUpdateStatus(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	status, err := store.ParseLeadStatus(req.Status)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_STATUS", err.Error())
		return
	}

	lead, err := h.processor.UpdateStatus(c.Request.Context(), leadID, status, req.Notes)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h Handler) HandleDeleteLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	if err := h.processor.DeleteLead(c.Request.Context(), leadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendMessageRequest sends a one-off message to the lead, either from
// raw content or an existing template, optionally at a later time.
type SendMessageRequest struct {
	Content     string     `json:"content"`
	TemplateID  *string    `json:"template_id,omitempty" binding:"omitempty,uuid"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (h Handler) HandleSendMessage(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	if req.Content == "" && req.TemplateID == nil {
		apierrors.BadRequest(c, "EMPTY_MESSAGE", "either content or template_id is required")
		return
	}

	params := processor.SendMessageParams{
		LeadID:      leadID,
		Content:     req.Content,
		ScheduledAt: req.ScheduledAt,
	}
	if req.TemplateID != nil {
		templateID, err := uuid.Parse(*req.TemplateID)
		if err != nil {
			apierrors.BadRequest(c, "INVALID_TEMPLATE_ID", "template_id must be a valid UUID")
			return
		}
		params.TemplateID = &templateID
	}

	result, err := h.processor.SendMessage(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "lead or template not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	if !result.Success {
		if result.ErrorKind == messaging.ErrorKindChannelUnconfigured {
			apierrors.ServiceUnavailable(c, "CHANNEL_UNCONFIGURED", "WhatsApp channel is not configured", nil)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error_kind": string(result.ErrorKind)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
}

func (h Handler) HandleListInteractions(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	interactions, err := h.processor.ListInteractions(c.Request.Context(), leadID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

func (h Handler) HandleListMessages(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_LEAD_ID", "lead id must be a valid UUID")
		return
	}

	messages, err := h.processor.ListMessages(c.Request.Context(), leadID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// HandleImportLeads accepts a multipart CSV upload under the "file"
// field.
func (h Handler) HandleImportLeads(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "MISSING_FILE", "a CSV file upload named 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	defer file.Close()

	result, err := h.processor.ImportLeadsFromCSV(c.Request.Context(), file)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_CSV", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h Handler) HandleAnalytics(c *gin.Context) {
	analytics, err := h.processor.GetAnalytics(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
