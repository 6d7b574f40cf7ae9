package api

import (
	"net/http"

	aiHandler "nexa-crm/internal/ai/handler"
	campaignHandler "nexa-crm/internal/campaigns/handler"
	leadHandler "nexa-crm/internal/leads/handler"
	templateHandler "nexa-crm/internal/templates/handler"
	"nexa-crm/internal/webhooks"

	"github.com/gin-gonic/gin"
)

type API struct {
	router          *gin.RouterGroup
	leadHandler     leadHandler.Handler
	templateHandler templateHandler.Handler
	campaignHandler campaignHandler.Handler
	aiHandler       aiHandler.Handler
	webhookHandler  webhooks.Handler
}

func New(
	router *gin.RouterGroup,
	leadHandler leadHandler.Handler,
	templateHandler templateHandler.Handler,
	campaignHandler campaignHandler.Handler,
	aiHandler aiHandler.Handler,
	webhookHandler webhooks.Handler,
) API {
	return API{
		router:          router,
		leadHandler:     leadHandler,
		templateHandler: templateHandler,
		campaignHandler: campaignHandler,
		aiHandler:       aiHandler,
		webhookHandler:  webhookHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	apiGroup := a.router.Group("/api")
	{
		leadGroup := apiGroup.Group("/leads")
		leadGroup.POST("", a.leadHandler.HandleCreateLead)
		leadGroup.GET("", a.leadHandler.HandleListLeads)
		leadGroup.POST("/import", a.leadHandler.HandleImportLeads)
		leadGroup.GET("/:id", a.leadHandler.HandleGetLead)
		leadGroup.PUT("/:id", a.leadHandler.HandleUpdateLead)
		leadGroup.DELETE("/:id", a.leadHandler.HandleDeleteLead)
		leadGroup.PUT("/:id/status", a.leadHandler.HandleUpdateStatus)
		leadGroup.POST("/:id/send-message", a.leadHandler.HandleSendMessage)
		leadGroup.GET("/:id/messages", a.leadHandler.HandleListMessages)
		leadGroup.GET("/:id/interactions", a.leadHandler.HandleListInteractions)

		templateGroup := apiGroup.Group("/templates")
		templateGroup.POST("", a.templateHandler.HandleCreateTemplate)
		templateGroup.GET("", a.templateHandler.HandleListTemplates)
		templateGroup.GET("/:id", a.templateHandler.HandleGetTemplate)
		templateGroup.PUT("/:id", a.templateHandler.HandleUpdateTemplate)
		templateGroup.DELETE("/:id", a.templateHandler.HandleDeleteTemplate)

		campaignGroup := apiGroup.Group("/campaigns")
		campaignGroup.POST("", a.campaignHandler.HandleCreateCampaign)
		campaignGroup.GET("", a.campaignHandler.HandleListCampaigns)
		campaignGroup.GET("/:id", a.campaignHandler.HandleGetCampaign)
		campaignGroup.PUT("/:id", a.campaignHandler.HandleUpdateCampaign)
		campaignGroup.DELETE("/:id", a.campaignHandler.HandleDeleteCampaign)
		campaignGroup.POST("/:id/execute", a.campaignHandler.HandleExecuteCampaign)
		campaignGroup.GET("/:id/performance", a.campaignHandler.HandleCampaignPerformance)

		aiGroup := apiGroup.Group("/ai")
		aiGroup.POST("/analyze-intent", a.aiHandler.HandleAnalyzeIntent)
		aiGroup.GET("/predict-conversion/:id", a.aiHandler.HandlePredictConversion)
		aiGroup.POST("/generate-message", a.aiHandler.HandleGenerateMessage)

		apiGroup.GET("/analytics", a.leadHandler.HandleAnalytics)
	}

	a.router.POST("/webhooks/whatsapp", a.webhookHandler.HandleInboundWhatsApp)
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
