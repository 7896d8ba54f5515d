package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dispatch-server/internal/clients/retell"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"
)

// ConfigStore defines the database operations required by ConfigurationProcessor
type ConfigStore interface {
	GetAgentConfigurationByScenario(ctx context.Context, scenarioType string) (store.AgentConfiguration, error)
	UpsertAgentConfiguration(ctx context.Context, params store.UpsertAgentConfigurationParams) (store.AgentConfiguration, error)
	SetAgentConfigurationLLMID(ctx context.Context, scenarioType, llmID string) error
	SetAgentConfigurationAgentID(ctx context.Context, scenarioType, agentID string) error
	ListAgentConfigurations(ctx context.Context) ([]store.AgentConfiguration, error)
}

// AgentProvider defines the voice provider operations required to keep
// provider-side LLMs and agents in sync with stored configurations
type AgentProvider interface {
	CreateLLM(ctx context.Context, generalPrompt string, generalTools []retell.Tool) (string, error)
	UpdateLLM(ctx context.Context, llmID, generalPrompt string, generalTools []retell.Tool) error
	CreateAgent(ctx context.Context, agentName, llmID, voiceID string) (string, error)
}

var (
	ErrInvalidScenario       = errors.New("invalid scenario type")
	ErrConfigurationNotFound = errors.New("configuration not found")
)

// ConfigurationProcessor manages agent configurations and mirrors them to the
// voice provider.
type ConfigurationProcessor struct {
	store    ConfigStore
	provider AgentProvider
	logger   *observability.Logger
}

func New(configStore ConfigStore, provider AgentProvider, logger *observability.Logger) ConfigurationProcessor {
	return ConfigurationProcessor{
		store:    configStore,
		provider: provider,
		logger:   logger,
	}
}

// SaveConfiguration upserts a configuration and syncs the provider LLM and
// agent. A provider sync failure is logged but the stored configuration is
// kept, so operators can retry by saving again.
func (p ConfigurationProcessor) SaveConfiguration(ctx context.Context, scenarioType, systemPrompt string, voiceSettings store.JSONB) (store.AgentConfiguration, error) {
	if !store.IsValidScenario(scenarioType) {
		return store.AgentConfiguration{}, fmt.Errorf("%w: %q", ErrInvalidScenario, scenarioType)
	}
	if voiceSettings == nil {
		voiceSettings = DefaultVoiceSettings()
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "scenario_type", Value: scenarioType})

	config, err := p.store.UpsertAgentConfiguration(ctx, store.UpsertAgentConfigurationParams{
		ScenarioType:  scenarioType,
		SystemPrompt:  systemPrompt,
		VoiceSettings: voiceSettings,
	})
	if err != nil {
		return store.AgentConfiguration{}, fmt.Errorf("failed to save configuration: %w", err)
	}

	if err := p.syncProviderAgent(ctx, config); err != nil {
		p.logger.Error(ctx, "provider sync failed, configuration saved without agent", err)
	}

	saved, err := p.store.GetAgentConfigurationByScenario(ctx, scenarioType)
	if err != nil {
		return store.AgentConfiguration{}, fmt.Errorf("failed to reload configuration: %w", err)
	}
	return saved, nil
}

// GetConfiguration returns the configuration for a scenario.
func (p ConfigurationProcessor) GetConfiguration(ctx context.Context, scenarioType string) (store.AgentConfiguration, error) {
	if !store.IsValidScenario(scenarioType) {
		return store.AgentConfiguration{}, fmt.Errorf("%w: %q", ErrInvalidScenario, scenarioType)
	}

	config, err := p.store.GetAgentConfigurationByScenario(ctx, scenarioType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.AgentConfiguration{}, fmt.Errorf("%w: %s", ErrConfigurationNotFound, scenarioType)
		}
		return store.AgentConfiguration{}, fmt.Errorf("failed to get configuration: %w", err)
	}
	return config, nil
}

// ListConfigurations returns all stored configurations.
func (p ConfigurationProcessor) ListConfigurations(ctx context.Context) ([]store.AgentConfiguration, error) {
	configs, err := p.store.ListAgentConfigurations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}
	return configs, nil
}

// EnsureDefaultAgents seeds the check-in and emergency configurations with
// the default prompts when absent and makes sure each has a provider LLM and
// agent. Failures for one scenario do not block the other; this runs at
// startup and the API can still serve whatever did get configured.
func (p ConfigurationProcessor) EnsureDefaultAgents(ctx context.Context) {
	for _, scenarioType := range []string{store.ScenarioCheckin, store.ScenarioEmergency} {
		if err := p.ensureAgent(ctx, scenarioType); err != nil {
			p.logger.Error(ctx, fmt.Sprintf("failed to ensure %s agent", scenarioType), err)
		}
	}
}

func (p ConfigurationProcessor) ensureAgent(ctx context.Context, scenarioType string) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "scenario_type", Value: scenarioType})

	config, err := p.store.GetAgentConfigurationByScenario(ctx, scenarioType)
	if errors.Is(err, store.ErrNotFound) {
		p.logger.Info(ctx, "seeding default agent configuration")
		config, err = p.store.UpsertAgentConfiguration(ctx, store.UpsertAgentConfigurationParams{
			ScenarioType:  scenarioType,
			SystemPrompt:  defaultPrompts[scenarioType],
			VoiceSettings: DefaultVoiceSettings(),
		})
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.LLMID.Valid && config.AgentID.Valid {
		// Keep the provider LLM aligned with the stored prompt and the
		// end-call tool.
		if err := p.provider.UpdateLLM(ctx, config.LLMID.String, config.SystemPrompt, []retell.Tool{retell.EndCallTool}); err != nil {
			p.logger.Error(ctx, "failed to refresh provider llm", err)
		}
		p.logger.Info(ctx, "agent already configured")
		return nil
	}

	return p.syncProviderAgent(ctx, config)
}

// syncProviderAgent creates the provider LLM and agent a configuration is
// missing, or pushes the current prompt to an existing LLM.
func (p ConfigurationProcessor) syncProviderAgent(ctx context.Context, config store.AgentConfiguration) error {
	tools := []retell.Tool{retell.EndCallTool}

	llmID := config.LLMID.String
	if !config.LLMID.Valid || llmID == "" {
		created, err := p.provider.CreateLLM(ctx, config.SystemPrompt, tools)
		if err != nil {
			return fmt.Errorf("failed to create provider llm: %w", err)
		}
		llmID = created
		if err := p.store.SetAgentConfigurationLLMID(ctx, config.ScenarioType, llmID); err != nil {
			return fmt.Errorf("failed to store llm id: %w", err)
		}
		p.logger.Info(ctx, "provider llm created")
	} else {
		if err := p.provider.UpdateLLM(ctx, llmID, config.SystemPrompt, tools); err != nil {
			return fmt.Errorf("failed to update provider llm: %w", err)
		}
		p.logger.Info(ctx, "provider llm updated")
	}

	if !config.AgentID.Valid || config.AgentID.String == "" {
		agentName := fmt.Sprintf("Dispatch %s Agent", titleCase(config.ScenarioType))
		agentID, err := p.provider.CreateAgent(ctx, agentName, llmID, voiceID(config.VoiceSettings))
		if err != nil {
			return fmt.Errorf("failed to create provider agent: %w", err)
		}
		if err := p.store.SetAgentConfigurationAgentID(ctx, config.ScenarioType, agentID); err != nil {
			return fmt.Errorf("failed to store agent id: %w", err)
		}
		p.logger.Info(ctx, "provider agent created")
	}
	return nil
}

func voiceID(settings store.JSONB) string {
	if settings != nil {
		if id, ok := settings["voice_id"].(string); ok && id != "" {
			return id
		}
	}
	return defaultVoiceID
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
