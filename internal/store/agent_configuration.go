package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AgentConfiguration struct {
	ID            uuid.UUID      `db:"id"`
	ScenarioType  string         `db:"scenario_type"`
	SystemPrompt  string         `db:"system_prompt"`
	VoiceSettings JSONB          `db:"voice_settings"`
	LLMID         sql.NullString `db:"llm_id"`
	AgentID       sql.NullString `db:"agent_id"`
	CreatedAt     time.Time      `db:"created_at"`
}

type UpsertAgentConfigurationParams struct {
	ScenarioType  string
	SystemPrompt  string
	VoiceSettings JSONB
}

const sqlGetAgentConfigurationByScenario = `
SELECT * FROM agent_configurations WHERE scenario_type = $1`

func (s *Store) GetAgentConfigurationByScenario(ctx context.Context, scenarioType string) (AgentConfiguration, error) {
	var config AgentConfiguration
	err := s.db.GetContext(ctx, &config, sqlGetAgentConfigurationByScenario, scenarioType)
	if err != nil {
		if err == sql.ErrNoRows {
			return AgentConfiguration{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get agent configuration", err)
		return AgentConfiguration{}, fmt.Errorf("failed to get agent configuration: %w", err)
	}
	return config, nil
}

const sqlUpsertAgentConfiguration = `
INSERT INTO agent_configurations (scenario_type, system_prompt, voice_settings)
VALUES ($1, $2, $3)
ON CONFLICT (scenario_type)
DO UPDATE SET system_prompt = EXCLUDED.system_prompt, voice_settings = EXCLUDED.voice_settings
RETURNING *`

func (s *Store) UpsertAgentConfiguration(ctx context.Context, params UpsertAgentConfigurationParams) (AgentConfiguration, error) {
	var config AgentConfiguration
	err := s.db.GetContext(ctx, &config, sqlUpsertAgentConfiguration,
		params.ScenarioType, params.SystemPrompt, params.VoiceSettings)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert agent configuration", err)
		return AgentConfiguration{}, fmt.Errorf("failed to upsert agent configuration: %w", err)
	}
	return config, nil
}

const sqlSetAgentConfigurationLLMID = `
UPDATE agent_configurations SET llm_id = $2 WHERE scenario_type = $1`

func (s *Store) SetAgentConfigurationLLMID(ctx context.Context, scenarioType, llmID string) error {
	result, err := s.db.ExecContext(ctx, sqlSetAgentConfigurationLLMID, scenarioType, llmID)
	if err != nil {
		s.logger.Error(ctx, "failed to set agent configuration LLM ID", err)
		return fmt.Errorf("failed to set agent configuration LLM ID: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlSetAgentConfigurationAgentID = `
UPDATE agent_configurations SET agent_id = $2 WHERE scenario_type = $1`

func (s *Store) SetAgentConfigurationAgentID(ctx context.Context, scenarioType, agentID string) error {
	result, err := s.db.ExecContext(ctx, sqlSetAgentConfigurationAgentID, scenarioType, agentID)
	if err != nil {
		s.logger.Error(ctx, "failed to set agent configuration agent ID", err)
		return fmt.Errorf("failed to set agent configuration agent ID: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlListAgentConfigurations = `
SELECT * FROM agent_configurations ORDER BY scenario_type`

func (s *Store) ListAgentConfigurations(ctx context.Context) ([]AgentConfiguration, error) {
	var configs []AgentConfiguration
	err := s.db.SelectContext(ctx, &configs, sqlListAgentConfigurations)
	if err != nil {
		s.logger.Error(ctx, "failed to list agent configurations", err)
		return nil, fmt.Errorf("failed to list agent configurations: %w", err)
	}
	return configs, nil
}
