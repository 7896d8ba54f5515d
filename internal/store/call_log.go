package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type CallLog struct {
	ID             uuid.UUID      `db:"id"`
	DriverName     string         `db:"driver_name"`
	DriverPhone    string         `db:"driver_phone"`
	LoadNumber     string         `db:"load_number"`
	ScenarioType   string         `db:"scenario_type"`
	CallStatus     string         `db:"call_status"`
	ProviderCallID sql.NullString `db:"provider_call_id"`
	RawTranscript  sql.NullString `db:"raw_transcript"`
	StructuredData JSONB          `db:"structured_data"`
	CreatedAt      time.Time      `db:"created_at"`
}

type CreateCallLogParams struct {
	DriverName   string
	DriverPhone  string
	LoadNumber   string
	ScenarioType string
}

const sqlCreateCallLog = `
INSERT INTO call_logs (driver_name, driver_phone, load_number, scenario_type, call_status)
VALUES ($1, $2, $3, $4, $5)
RETURNING *`

func (s *Store) CreateCallLog(ctx context.Context, params CreateCallLogParams) (CallLog, error) {
	var callLog CallLog
	err := s.db.GetContext(ctx, &callLog, sqlCreateCallLog,
		params.DriverName, params.DriverPhone, params.LoadNumber, params.ScenarioType, CallStatusInitiated)
	if err != nil {
		s.logger.Error(ctx, "failed to create call log", err)
		return CallLog{}, fmt.Errorf("failed to create call log: %w", err)
	}
	return callLog, nil
}

const sqlGetCallLogByID = `
SELECT * FROM call_logs WHERE id = $1`

func (s *Store) GetCallLogByID(ctx context.Context, id uuid.UUID) (CallLog, error) {
	var callLog CallLog
	err := s.db.GetContext(ctx, &callLog, sqlGetCallLogByID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return CallLog{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get call log by ID", err)
		return CallLog{}, fmt.Errorf("failed to get call log by ID: %w", err)
	}
	return callLog, nil
}

const sqlGetCallLogByProviderCallID = `
SELECT * FROM call_logs WHERE provider_call_id = $1`

func (s *Store) GetCallLogByProviderCallID(ctx context.Context, providerCallID string) (CallLog, error) {
	var callLog CallLog
	err := s.db.GetContext(ctx, &callLog, sqlGetCallLogByProviderCallID, providerCallID)
	if err != nil {
		if err == sql.ErrNoRows {
			return CallLog{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get call log by provider call ID", err)
		return CallLog{}, fmt.Errorf("failed to get call log by provider call ID: %w", err)
	}
	return callLog, nil
}

// provider_call_id is write-once: the update only applies while it is NULL.
const sqlSetProviderCallID = `
UPDATE call_logs SET provider_call_id = $2 WHERE id = $1 AND provider_call_id IS NULL`

func (s *Store) SetProviderCallID(ctx context.Context, id uuid.UUID, providerCallID string) error {
	result, err := s.db.ExecContext(ctx, sqlSetProviderCallID, id, providerCallID)
	if err != nil {
		s.logger.Error(ctx, "failed to set provider call ID", err)
		return fmt.Errorf("failed to set provider call ID: %w", err)
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

// Conditional on the current status so duplicate or late call_started events
// never regress a call that already moved past initiated.
const sqlMarkCallInProgress = `
UPDATE call_logs SET call_status = $2 WHERE provider_call_id = $1 AND call_status = $3`

func (s *Store) MarkCallInProgress(ctx context.Context, providerCallID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, sqlMarkCallInProgress,
		providerCallID, CallStatusInProgress, CallStatusInitiated)
	if err != nil {
		s.logger.Error(ctx, "failed to mark call in progress", err)
		return false, fmt.Errorf("failed to mark call in progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

const sqlMarkCallCompleted = `
UPDATE call_logs SET call_status = $2 WHERE provider_call_id = $1 AND call_status <> $3`

func (s *Store) MarkCallCompleted(ctx context.Context, providerCallID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, sqlMarkCallCompleted,
		providerCallID, CallStatusCompleted, CallStatusFailed)
	if err != nil {
		s.logger.Error(ctx, "failed to mark call completed", err)
		return false, fmt.Errorf("failed to mark call completed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

const sqlMarkCallFailed = `
UPDATE call_logs SET call_status = $2 WHERE id = $1 AND call_status NOT IN ($3, $4)`

func (s *Store) MarkCallFailed(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, sqlMarkCallFailed,
		id, CallStatusFailed, CallStatusCompleted, CallStatusFailed)
	if err != nil {
		s.logger.Error(ctx, "failed to mark call failed", err)
		return fmt.Errorf("failed to mark call failed: %w", err)
	}
	return nil
}

// Transcript updates set only the fields the event owns; re-applying the same
// event rewrites the same derived values, which keeps delivery idempotent.
const sqlSaveCallResult = `
UPDATE call_logs
SET raw_transcript = $2, structured_data = $3, call_status = $4
WHERE provider_call_id = $1 AND call_status <> $5`

func (s *Store) SaveCallResult(ctx context.Context, providerCallID, transcript string, structuredData JSONB) error {
	_, err := s.db.ExecContext(ctx, sqlSaveCallResult,
		providerCallID, transcript, structuredData, CallStatusCompleted, CallStatusFailed)
	if err != nil {
		s.logger.Error(ctx, "failed to save call result", err)
		return fmt.Errorf("failed to save call result: %w", err)
	}
	return nil
}

const sqlSaveCallTranscript = `
UPDATE call_logs
SET raw_transcript = $2, call_status = $3
WHERE provider_call_id = $1 AND call_status <> $4`

func (s *Store) SaveCallTranscript(ctx context.Context, providerCallID, transcript string) error {
	_, err := s.db.ExecContext(ctx, sqlSaveCallTranscript,
		providerCallID, transcript, CallStatusCompleted, CallStatusFailed)
	if err != nil {
		s.logger.Error(ctx, "failed to save call transcript", err)
		return fmt.Errorf("failed to save call transcript: %w", err)
	}
	return nil
}

// Whitelist of sortable columns for ListCallLogs. Anything else falls back to
// created_at.
var callLogOrderColumns = map[string]bool{
	"created_at":    true,
	"driver_name":   true,
	"load_number":   true,
	"scenario_type": true,
	"call_status":   true,
}

func (s *Store) ListCallLogs(ctx context.Context, orderBy string, ascending bool) ([]CallLog, error) {
	if !callLogOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf("SELECT * FROM call_logs ORDER BY %s %s", orderBy, direction)

	var callLogs []CallLog
	err := s.db.SelectContext(ctx, &callLogs, query)
	if err != nil {
		s.logger.Error(ctx, "failed to list call logs", err)
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}
	return callLogs, nil
}
