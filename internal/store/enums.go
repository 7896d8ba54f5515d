package store

// Scenario types determine which agent and extraction schema apply to a call.
const (
	ScenarioCheckin   = "checkin"
	ScenarioEmergency = "emergency"
)

// Call statuses. Status only moves forward: initiated -> in_progress ->
// completed, with failed reachable from any non-terminal state.
const (
	CallStatusInitiated  = "initiated"
	CallStatusInProgress = "in_progress"
	CallStatusCompleted  = "completed"
	CallStatusFailed     = "failed"
)

// WebCallPhoneMarker is stored in driver_phone for browser-based calls so
// real phone numbers are never conflated with web sessions.
const WebCallPhoneMarker = "web-call"

// IsValidScenario reports whether s is a recognized scenario type.
func IsValidScenario(s string) bool {
	return s == ScenarioCheckin || s == ScenarioEmergency
}
