package processor

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"dispatch-server/internal/clients/retell"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"

	"github.com/google/uuid"
)

// CallStore defines the database operations required by CallProcessor
type CallStore interface {
	CreateCallLog(ctx context.Context, params store.CreateCallLogParams) (store.CallLog, error)
	GetCallLogByID(ctx context.Context, id uuid.UUID) (store.CallLog, error)
	SetProviderCallID(ctx context.Context, id uuid.UUID, providerCallID string) error
	ListCallLogs(ctx context.Context, orderBy string, ascending bool) ([]store.CallLog, error)
	MarkCallFailed(ctx context.Context, id uuid.UUID) error
	GetAgentConfigurationByScenario(ctx context.Context, scenarioType string) (store.AgentConfiguration, error)
}

// VoiceProvider defines the telephony operations required by CallProcessor
type VoiceProvider interface {
	CreateWebCall(ctx context.Context, agentID string, dynamicVariables map[string]string) (retell.WebCall, error)
	CreatePhoneCall(ctx context.Context, agentID, fromNumber, toNumber string, dynamicVariables map[string]string) (retell.PhoneCall, error)
}

var (
	ErrAgentNotConfigured = errors.New("no agent configured for scenario")
	ErrMissingFromNumber  = errors.New("no outbound phone number configured")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrCallLogCreation    = errors.New("failed to create call log")
	ErrCallNotFound       = errors.New("call not found")
	ErrProviderCall       = errors.New("voice provider call failed")
)

var phoneNumberPattern = regexp.MustCompile(`^\+?1?\d{10,15}$`)

// CallProcessor creates call records and starts calls with the voice provider.
type CallProcessor struct {
	store      CallStore
	provider   VoiceProvider
	fromNumber string
	logger     *observability.Logger
}

// InitiatedCall is the result of starting a call.
type InitiatedCall struct {
	CallLog     store.CallLog
	AccessToken string
}

func New(callStore CallStore, provider VoiceProvider, fromNumber string, logger *observability.Logger) CallProcessor {
	return CallProcessor{
		store:      callStore,
		provider:   provider,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// InitiatePhoneCall creates a call log and dials the driver through the
// voice provider. A provider failure leaves the record in place with no
// provider call id so the attempt stays auditable.
func (p CallProcessor) InitiatePhoneCall(ctx context.Context, driverName, driverPhone, loadNumber, scenario string) (InitiatedCall, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "scenario_type", Value: scenario},
		observability.Field{Key: "load_number", Value: loadNumber},
	)

	if p.fromNumber == "" {
		return InitiatedCall{}, ErrMissingFromNumber
	}
	if !phoneNumberPattern.MatchString(driverPhone) {
		return InitiatedCall{}, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, driverPhone)
	}
	if driverPhone == p.fromNumber {
		return InitiatedCall{}, fmt.Errorf("%w: destination matches outbound number", ErrInvalidPhoneNumber)
	}

	agentConfig, err := p.agentForScenario(ctx, scenario)
	if err != nil {
		return InitiatedCall{}, err
	}

	callLog, err := p.store.CreateCallLog(ctx, store.CreateCallLogParams{
		DriverName:   driverName,
		DriverPhone:  driverPhone,
		LoadNumber:   loadNumber,
		ScenarioType: scenario,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create call log", err)
		return InitiatedCall{}, fmt.Errorf("%w: %v", ErrCallLogCreation, err)
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_log_id", Value: callLog.ID.String()})

	phoneCall, err := p.provider.CreatePhoneCall(ctx, agentConfig.AgentID.String, p.fromNumber, driverPhone, dynamicVariables(driverName, loadNumber))
	if err != nil {
		p.logger.Error(ctx, "provider phone call failed", err)
		p.markFailed(ctx, callLog.ID)
		return InitiatedCall{}, fmt.Errorf("%w: %v", ErrProviderCall, err)
	}

	if err := p.store.SetProviderCallID(ctx, callLog.ID, phoneCall.CallID); err != nil {
		p.logger.Error(ctx, "failed to attach provider call id", err)
		return InitiatedCall{}, fmt.Errorf("failed to attach provider call id: %w", err)
	}
	callLog.ProviderCallID.String = phoneCall.CallID
	callLog.ProviderCallID.Valid = true

	p.logger.Info(ctx, "phone call initiated")
	return InitiatedCall{CallLog: callLog}, nil
}

// InitiateWebCall creates a call log and a browser call session. The driver
// phone column carries a fixed marker since no telephony is involved.
func (p CallProcessor) InitiateWebCall(ctx context.Context, driverName, loadNumber, scenario string) (InitiatedCall, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "scenario_type", Value: scenario},
		observability.Field{Key: "load_number", Value: loadNumber},
	)

	agentConfig, err := p.agentForScenario(ctx, scenario)
	if err != nil {
		return InitiatedCall{}, err
	}

	callLog, err := p.store.CreateCallLog(ctx, store.CreateCallLogParams{
		DriverName:   driverName,
		DriverPhone:  store.WebCallPhoneMarker,
		LoadNumber:   loadNumber,
		ScenarioType: scenario,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create call log", err)
		return InitiatedCall{}, fmt.Errorf("%w: %v", ErrCallLogCreation, err)
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_log_id", Value: callLog.ID.String()})

	webCall, err := p.provider.CreateWebCall(ctx, agentConfig.AgentID.String, dynamicVariables(driverName, loadNumber))
	if err != nil {
		p.logger.Error(ctx, "provider web call failed", err)
		p.markFailed(ctx, callLog.ID)
		return InitiatedCall{}, fmt.Errorf("%w: %v", ErrProviderCall, err)
	}

	if err := p.store.SetProviderCallID(ctx, callLog.ID, webCall.CallID); err != nil {
		p.logger.Error(ctx, "failed to attach provider call id", err)
		return InitiatedCall{}, fmt.Errorf("failed to attach provider call id: %w", err)
	}
	callLog.ProviderCallID.String = webCall.CallID
	callLog.ProviderCallID.Valid = true

	p.logger.Info(ctx, "web call initiated")
	return InitiatedCall{CallLog: callLog, AccessToken: webCall.AccessToken}, nil
}

// GetCall returns a single call log by id.
func (p CallProcessor) GetCall(ctx context.Context, id uuid.UUID) (store.CallLog, error) {
	callLog, err := p.store.GetCallLogByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.CallLog{}, ErrCallNotFound
		}
		return store.CallLog{}, fmt.Errorf("failed to get call log: %w", err)
	}
	return callLog, nil
}

// ListCalls returns call logs ordered by a whitelisted column.
func (p CallProcessor) ListCalls(ctx context.Context, orderBy string, ascending bool) ([]store.CallLog, error) {
	callLogs, err := p.store.ListCallLogs(ctx, orderBy, ascending)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	return callLogs, nil
}

func (p CallProcessor) agentForScenario(ctx context.Context, scenario string) (store.AgentConfiguration, error) {
	agentConfig, err := p.store.GetAgentConfigurationByScenario(ctx, scenario)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.AgentConfiguration{}, fmt.Errorf("%w: %s", ErrAgentNotConfigured, scenario)
		}
		return store.AgentConfiguration{}, fmt.Errorf("failed to load agent configuration: %w", err)
	}
	if !agentConfig.AgentID.Valid || agentConfig.AgentID.String == "" {
		return store.AgentConfiguration{}, fmt.Errorf("%w: %s has no provider agent", ErrAgentNotConfigured, scenario)
	}
	return agentConfig, nil
}

// markFailed is best effort. The call log survives either way so operators
// can see the attempt.
func (p CallProcessor) markFailed(ctx context.Context, id uuid.UUID) {
	if err := p.store.MarkCallFailed(ctx, id); err != nil {
		p.logger.Error(ctx, "failed to mark call log failed", err)
	}
}

func dynamicVariables(driverName, loadNumber string) map[string]string {
	return map[string]string{
		"driver_name": driverName,
		"load_number": loadNumber,
	}
}
