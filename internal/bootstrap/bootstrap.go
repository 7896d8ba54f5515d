package bootstrap

import (
	"context"
	"fmt"

	"dispatch-server/internal/alerts"
	"dispatch-server/internal/auth"
	"dispatch-server/internal/clients/mail"
	"dispatch-server/internal/clients/retell"
	"dispatch-server/internal/config"
	"dispatch-server/internal/extraction"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"

	callsHandler "dispatch-server/internal/calls/handler"
	callsProcessor "dispatch-server/internal/calls/processor"
	configurationsHandler "dispatch-server/internal/configurations/handler"
	configurationsProcessor "dispatch-server/internal/configurations/processor"
	webhooksHandler "dispatch-server/internal/webhooks/handler"
	webhooksProcessor "dispatch-server/internal/webhooks/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Middleware
	AuthMiddleware auth.Middleware

	// Handlers
	CallsHandler          callsHandler.Handler
	WebhooksHandler       webhooksHandler.Handler
	ConfigurationsHandler configurationsHandler.Handler

	// Startup seeding, run in the background once the server is up
	ConfigurationsProcessor configurationsProcessor.ConfigurationProcessor
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	var err error
	deps.Store, err = store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	retellClient, err := retell.NewClient(cfg.Provider.APIKey, cfg.Provider.BaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create retell client: %w", err)
	}

	extractor, err := extraction.New(cfg.Services.OpenAIAPIKey, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	// Emergency alerting is optional; without a Resend key the alert service
	// stays disabled and webhook processing carries on without it.
	var alertService *alerts.Service
	if cfg.Services.ResendAPIKey != "" {
		mailClient, err := mail.NewResendClient(cfg.Services.ResendAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create resend client: %w", err)
		}
		alertService = alerts.NewService(mailClient, cfg.Services.DefaultEmailSender, cfg.Services.DispatcherEmail, logger)
	} else {
		alertService = alerts.NewService(nil, cfg.Services.DefaultEmailSender, "", logger)
	}

	deps.AuthMiddleware = auth.NewMiddleware(cfg.Auth.JWTSecret, logger)

	callProcessor := callsProcessor.New(&deps.Store, retellClient, cfg.Provider.FromNumber, logger)
	deps.CallsHandler = callsHandler.New(callProcessor, logger)

	webhookProcessor := webhooksProcessor.New(&deps.Store, extractor, alertService, logger)
	deps.WebhooksHandler = webhooksHandler.New(webhookProcessor, logger)

	deps.ConfigurationsProcessor = configurationsProcessor.New(&deps.Store, retellClient, logger)
	deps.ConfigurationsHandler = configurationsHandler.New(deps.ConfigurationsProcessor, logger)

	return deps, nil
}

// SeedAgents makes sure both scenario agents exist at the provider. Run in a
// goroutine from the server; failures are logged, the API serves regardless.
func (d *Dependencies) SeedAgents(ctx context.Context) {
	d.ConfigurationsProcessor.EnsureDefaultAgents(ctx)
}

// Cleanup releases held resources.
func (d *Dependencies) Cleanup() {
	if db := d.Store.DB(); db != nil {
		_ = db.Close()
	}
}
