package extraction

import (
	"encoding/json"

	"dispatch-server/internal/store"
)

// Fallback values when a field was not mentioned in the transcript. Check-in
// and emergency schemas use different sentinels; keep them distinct.
const (
	CheckinUnknown   = "N/A"
	EmergencyUnknown = "Unknown"
)

// CheckinData holds the structured fields extracted from a driver check-in
// call transcript.
type CheckinData struct {
	CallOutcome             string `json:"call_outcome"`
	DriverStatus            string `json:"driver_status"`
	CurrentLocation         string `json:"current_location"`
	ETA                     string `json:"eta"`
	DelayReason             string `json:"delay_reason"`
	UnloadingStatus         string `json:"unloading_status"`
	PODReminderAcknowledged bool   `json:"pod_reminder_acknowledged"`
}

// EmergencyData holds the structured fields extracted from an emergency call
// transcript.
type EmergencyData struct {
	CallOutcome       string `json:"call_outcome"`
	EmergencyType     string `json:"emergency_type"`
	SafetyStatus      string `json:"safety_status"`
	InjuryStatus      string `json:"injury_status"`
	EmergencyLocation string `json:"emergency_location"`
	LoadSecure        bool   `json:"load_secure"`
	EscalationStatus  string `json:"escalation_status"`
}

func decodeCheckin(content string) (CheckinData, error) {
	var data CheckinData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return CheckinData{}, ErrMalformedResponse
	}
	normalizeCheckin(&data)
	return data, nil
}

func decodeEmergency(content string) (EmergencyData, error) {
	var data EmergencyData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return EmergencyData{}, ErrMalformedResponse
	}
	normalizeEmergency(&data)
	return data, nil
}

func normalizeCheckin(data *CheckinData) {
	fillEmpty(&data.CallOutcome, CheckinUnknown)
	fillEmpty(&data.DriverStatus, CheckinUnknown)
	fillEmpty(&data.CurrentLocation, CheckinUnknown)
	fillEmpty(&data.ETA, CheckinUnknown)
	fillEmpty(&data.DelayReason, CheckinUnknown)
	fillEmpty(&data.UnloadingStatus, CheckinUnknown)
}

func normalizeEmergency(data *EmergencyData) {
	fillEmpty(&data.CallOutcome, "Emergency Escalation")
	fillEmpty(&data.EmergencyType, EmergencyUnknown)
	fillEmpty(&data.SafetyStatus, EmergencyUnknown)
	fillEmpty(&data.InjuryStatus, EmergencyUnknown)
	fillEmpty(&data.EmergencyLocation, EmergencyUnknown)
	fillEmpty(&data.EscalationStatus, EmergencyUnknown)
}

func fillEmpty(s *string, fallback string) {
	if *s == "" {
		*s = fallback
	}
}

// AsJSONB flattens the extracted data into the store's JSONB representation.
func (d CheckinData) AsJSONB() store.JSONB {
	return toJSONB(d)
}

// AsJSONB flattens the extracted data into the store's JSONB representation.
func (d EmergencyData) AsJSONB() store.JSONB {
	return toJSONB(d)
}

func toJSONB(v interface{}) store.JSONB {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	result := make(store.JSONB)
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	return result
}
