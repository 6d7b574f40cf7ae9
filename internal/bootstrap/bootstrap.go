package bootstrap

import (
	"context"
	"fmt"

	"nexa-crm/internal/config"
	"nexa-crm/internal/followup"
	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/scheduler"
	"nexa-crm/internal/store"
	"nexa-crm/internal/webhooks"

	aiHandler "nexa-crm/internal/ai/handler"
	aiProcessor "nexa-crm/internal/ai/processor"
	campaignHandler "nexa-crm/internal/campaigns/handler"
	campaignProcessor "nexa-crm/internal/campaigns/processor"
	"nexa-crm/internal/clients/mail"
	openaiClient "nexa-crm/internal/clients/openai"
	twilioClient "nexa-crm/internal/clients/twilio"
	leadHandler "nexa-crm/internal/leads/handler"
	leadProcessor "nexa-crm/internal/leads/processor"
	templateHandler "nexa-crm/internal/templates/handler"
	templateProcessor "nexa-crm/internal/templates/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	LeadHandler     leadHandler.Handler
	TemplateHandler templateHandler.Handler
	CampaignHandler campaignHandler.Handler
	AIHandler       aiHandler.Handler
	WebhookHandler  webhooks.Handler

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// Initialize sets up all application dependencies. Twilio, OpenAI and
// Resend credentials are optional: a missing credential leaves that
// integration nil and the owning component degrades at call time
// instead of failing startup.
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize the WhatsApp channel when Twilio is configured
	var channel messaging.Channel
	if cfg.Messaging.TwilioAccountSID != "" && cfg.Messaging.TwilioAuthToken != "" && cfg.Messaging.WhatsAppFrom != "" {
		twilio, err := twilioClient.New(cfg.Messaging.TwilioAccountSID, cfg.Messaging.TwilioAuthToken, cfg.Messaging.WhatsAppFrom, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create twilio client: %w", err)
		}
		channel = twilio
	} else {
		logger.Warn(ctx, "Twilio credentials not set, WhatsApp sends will be recorded as failed")
	}

	// Initialize the completion client when OpenAI is configured
	var completer aiProcessor.Completer
	if cfg.Services.OpenAIAPIKey != "" {
		openai, err := openaiClient.New(cfg.Services.OpenAIAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		completer = openai
	} else {
		logger.Warn(ctx, "OpenAI API key not set, intent analysis falls back to keywords")
	}

	// Initialize the mail client when Resend is configured
	var mailer followup.Mailer
	if cfg.Services.ResendAPIKey != "" {
		mailClient, err := mail.NewResendClient(cfg.Services.ResendAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create resend client: %w", err)
		}
		mailer = mailClient
	} else {
		logger.Warn(ctx, "Resend API key not set, weekly summary emails disabled")
	}

	// Initialize the message dispatcher
	dispatcher := messaging.NewDispatcher(&deps.Store, channel, cfg.Messaging.DefaultCountryCode, logger)

	// Initialize lead processor and handler
	leadProc := leadProcessor.New(&deps.Store, dispatcher, cfg.Messaging.DefaultCountryCode, logger)
	deps.LeadHandler = leadHandler.New(leadProc, logger)

	// Initialize template processor and handler
	templateProc := templateProcessor.New(&deps.Store, logger)
	deps.TemplateHandler = templateHandler.New(templateProc, logger)

	// Initialize campaign processor and handler
	campaignProc := campaignProcessor.New(&deps.Store, dispatcher, logger)
	deps.CampaignHandler = campaignHandler.New(campaignProc, logger)

	// Initialize AI processor and handler
	aiProc := aiProcessor.New(completer, &deps.Store, logger)
	deps.AIHandler = aiHandler.New(aiProc, &deps.Store, logger)

	// Initialize inbound webhook handler
	deps.WebhookHandler = webhooks.New(leadProc, &deps.Store, dispatcher, aiProc, logger)

	// Initialize follow-up processor
	followUpProc := followup.New(&deps.Store, dispatcher, channel, mailer, followup.Config{
		AdminWhatsApp:      cfg.Messaging.AdminWhatsApp,
		AdminEmail:         cfg.Services.AdminEmail,
		EmailSender:        cfg.Services.DefaultEmailSender,
		DefaultCountryCode: cfg.Messaging.DefaultCountryCode,
	}, logger)

	// Register background jobs
	deps.Scheduler = scheduler.New(logger)
	deps.Scheduler.Register(followup.ReminderJob{Processor: followUpProc})
	deps.Scheduler.Register(followup.WeeklySummaryJob{Processor: followUpProc})
	deps.Scheduler.Register(followup.ScheduledDispatchJob{Processor: followUpProc})
	deps.Scheduler.Register(campaignProcessor.PollJob{Processor: campaignProc})

	return deps, nil
}
