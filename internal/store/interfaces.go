package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Storer defines all public methods available on the Store
type Storer interface {
	// Database
	DB() *sqlx.DB

	// Call log operations
	CreateCallLog(ctx context.Context, params CreateCallLogParams) (CallLog, error)
	GetCallLogByID(ctx context.Context, id uuid.UUID) (CallLog, error)
	GetCallLogByProviderCallID(ctx context.Context, providerCallID string) (CallLog, error)
	SetProviderCallID(ctx context.Context, id uuid.UUID, providerCallID string) error
	MarkCallInProgress(ctx context.Context, providerCallID string) (bool, error)
	MarkCallCompleted(ctx context.Context, providerCallID string) (bool, error)
	MarkCallFailed(ctx context.Context, id uuid.UUID) error
	SaveCallResult(ctx context.Context, providerCallID, transcript string, structuredData JSONB) error
	SaveCallTranscript(ctx context.Context, providerCallID, transcript string) error
	ListCallLogs(ctx context.Context, orderBy string, ascending bool) ([]CallLog, error)

	// Agent configuration operations
	GetAgentConfigurationByScenario(ctx context.Context, scenarioType string) (AgentConfiguration, error)
	UpsertAgentConfiguration(ctx context.Context, params UpsertAgentConfigurationParams) (AgentConfiguration, error)
	SetAgentConfigurationLLMID(ctx context.Context, scenarioType, llmID string) error
	SetAgentConfigurationAgentID(ctx context.Context, scenarioType, agentID string) error
	ListAgentConfigurations(ctx context.Context) ([]AgentConfiguration, error)
}
