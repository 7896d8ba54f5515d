package processor

import (
	"context"
	"errors"
	"fmt"

	"dispatch-server/internal/extraction"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"
)

// WebhookStore defines the database operations required by WebhookProcessor
type WebhookStore interface {
	GetCallLogByProviderCallID(ctx context.Context, providerCallID string) (store.CallLog, error)
	MarkCallInProgress(ctx context.Context, providerCallID string) (bool, error)
	MarkCallCompleted(ctx context.Context, providerCallID string) (bool, error)
	SaveCallResult(ctx context.Context, providerCallID, transcript string, structuredData store.JSONB) error
	SaveCallTranscript(ctx context.Context, providerCallID, transcript string) error
}

// Extractor derives structured data from call transcripts
type Extractor interface {
	ExtractCheckin(ctx context.Context, transcript string) (extraction.CheckinData, error)
	ExtractEmergency(ctx context.Context, transcript string) (extraction.EmergencyData, error)
}

// AlertSender notifies the dispatcher about escalated emergencies
type AlertSender interface {
	NotifyEmergency(ctx context.Context, call *store.CallLog, data extraction.EmergencyData) error
}

// WebhookProcessor applies provider call events to call records. Updates are
// conditional and field-scoped so duplicate or out-of-order deliveries settle
// on the same final state.
type WebhookProcessor struct {
	store     WebhookStore
	extractor Extractor
	alerts    AlertSender
	logger    *observability.Logger
}

func New(webhookStore WebhookStore, extractor Extractor, alerts AlertSender, logger *observability.Logger) WebhookProcessor {
	return WebhookProcessor{
		store:     webhookStore,
		extractor: extractor,
		alerts:    alerts,
		logger:    logger,
	}
}

// HandleEvent applies a single provider event. Unknown event kinds and
// unknown provider call ids are benign no-ops; the returned Outcome records
// what happened for logging.
func (p WebhookProcessor) HandleEvent(ctx context.Context, event Event) (Outcome, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "event_kind", Value: string(event.Kind)},
		observability.Field{Key: "provider_call_id", Value: event.ProviderCallID},
	)

	switch event.Kind {
	case EventKindCallStarted:
		return p.handleCallStarted(ctx, event)
	case EventKindCallEnded:
		return p.handleCallEnded(ctx, event)
	case EventKindCallAnalyzed:
		return p.handleCallAnalyzed(ctx, event)
	default:
		p.logger.Info(ctx, "ignoring unrecognized webhook event")
		return OutcomeIgnored, nil
	}
}

func (p WebhookProcessor) handleCallStarted(ctx context.Context, event Event) (Outcome, error) {
	applied, err := p.store.MarkCallInProgress(ctx, event.ProviderCallID)
	if err != nil {
		p.logger.Error(ctx, "failed to mark call in progress", err)
		return OutcomeNoOp, fmt.Errorf("failed to mark call in progress: %w", err)
	}
	if !applied {
		// Either the call already progressed past initiated or the provider
		// id is unknown to us. Both are fine.
		p.logger.Info(ctx, "call_started had no effect")
		return OutcomeNoOp, nil
	}
	p.logger.Info(ctx, "call marked in progress")
	return OutcomeApplied, nil
}

func (p WebhookProcessor) handleCallEnded(ctx context.Context, event Event) (Outcome, error) {
	if event.Transcript != "" {
		return p.ProcessTranscript(ctx, event.ProviderCallID, event.Transcript)
	}

	applied, err := p.store.MarkCallCompleted(ctx, event.ProviderCallID)
	if err != nil {
		p.logger.Error(ctx, "failed to mark call completed", err)
		return OutcomeNoOp, fmt.Errorf("failed to mark call completed: %w", err)
	}
	if !applied {
		// Unknown provider id or a call already in a terminal state.
		p.logger.Info(ctx, "call_ended had no effect")
		return OutcomeNoOp, nil
	}
	p.logger.Info(ctx, "call marked completed without transcript")
	return OutcomeApplied, nil
}

func (p WebhookProcessor) handleCallAnalyzed(ctx context.Context, event Event) (Outcome, error) {
	if event.Transcript == "" {
		p.logger.Warn(ctx, "call_analyzed event without transcript")
		return OutcomeNoOp, nil
	}
	return p.ProcessTranscript(ctx, event.ProviderCallID, event.Transcript)
}

// ProcessTranscript extracts structured data from a transcript and stores it
// alongside the raw text. Extraction failures still preserve the transcript
// and complete the call. Re-delivery rewrites the same derived fields, so the
// operation is idempotent.
func (p WebhookProcessor) ProcessTranscript(ctx context.Context, providerCallID, transcript string) (Outcome, error) {
	callLog, err := p.store.GetCallLogByProviderCallID(ctx, providerCallID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.logger.Warn(ctx, "transcript for unknown provider call id")
			return OutcomeNotFound, nil
		}
		p.logger.Error(ctx, "failed to look up call log", err)
		return OutcomeNoOp, fmt.Errorf("failed to look up call log: %w", err)
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_log_id", Value: callLog.ID.String()},
		observability.Field{Key: "scenario_type", Value: callLog.ScenarioType},
	)

	structuredData, emergencyData, extractErr := p.extract(ctx, callLog.ScenarioType, transcript)
	if extractErr != nil {
		p.logger.Error(ctx, "extraction failed, saving transcript only", extractErr)
		if err := p.store.SaveCallTranscript(ctx, providerCallID, transcript); err != nil {
			p.logger.Error(ctx, "failed to save transcript", err)
			return OutcomeNoOp, fmt.Errorf("failed to save transcript: %w", err)
		}
		return OutcomeApplied, nil
	}

	if err := p.store.SaveCallResult(ctx, providerCallID, transcript, structuredData); err != nil {
		p.logger.Error(ctx, "failed to save call result", err)
		return OutcomeNoOp, fmt.Errorf("failed to save call result: %w", err)
	}
	p.logger.Info(ctx, "call result saved")

	// Alert only on the first successful extraction. The record fetched above
	// predates this update, so a non-nil StructuredData means a prior
	// delivery already produced the result and notified.
	if emergencyData != nil && p.alerts != nil && callLog.StructuredData == nil {
		// Notification failures must not fail the event; the record is
		// already saved.
		if err := p.alerts.NotifyEmergency(ctx, &callLog, *emergencyData); err != nil {
			p.logger.Error(ctx, "emergency notification failed", err)
		}
	}
	return OutcomeApplied, nil
}

// extract runs the scenario-appropriate extractor. An unknown scenario is
// treated like an extraction failure so the transcript is still preserved.
func (p WebhookProcessor) extract(ctx context.Context, scenarioType, transcript string) (store.JSONB, *extraction.EmergencyData, error) {
	switch scenarioType {
	case store.ScenarioCheckin:
		data, err := p.extractor.ExtractCheckin(ctx, transcript)
		if err != nil {
			return nil, nil, err
		}
		return data.AsJSONB(), nil, nil
	case store.ScenarioEmergency:
		data, err := p.extractor.ExtractEmergency(ctx, transcript)
		if err != nil {
			return nil, nil, err
		}
		return data.AsJSONB(), &data, nil
	default:
		p.logger.Warn(ctx, "unknown scenario type, skipping extraction")
		return nil, nil, fmt.Errorf("unknown scenario type %q", scenarioType)
	}
}
