package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCheckin(t *testing.T) {
	t.Run("fills missing fields with N/A", func(t *testing.T) {
		data, err := decodeCheckin(`{"call_outcome": "In-Transit Update", "driver_status": "Driving"}`)
		require.NoError(t, err)
		assert.Equal(t, "In-Transit Update", data.CallOutcome)
		assert.Equal(t, "Driving", data.DriverStatus)
		assert.Equal(t, CheckinUnknown, data.CurrentLocation)
		assert.Equal(t, CheckinUnknown, data.ETA)
		assert.Equal(t, CheckinUnknown, data.DelayReason)
		assert.Equal(t, CheckinUnknown, data.UnloadingStatus)
		assert.False(t, data.PODReminderAcknowledged)
	})

	t.Run("preserves full payload", func(t *testing.T) {
		data, err := decodeCheckin(`{
			"call_outcome": "Arrival Confirmation",
			"driver_status": "Unloading",
			"current_location": "Dallas, TX",
			"eta": "N/A",
			"delay_reason": "N/A",
			"unloading_status": "In door 42",
			"pod_reminder_acknowledged": true
		}`)
		require.NoError(t, err)
		assert.Equal(t, "Arrival Confirmation", data.CallOutcome)
		assert.Equal(t, "In door 42", data.UnloadingStatus)
		assert.True(t, data.PODReminderAcknowledged)
	})

	t.Run("rejects non-JSON output", func(t *testing.T) {
		_, err := decodeCheckin("I could not determine the driver status.")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("rejects mistyped fields", func(t *testing.T) {
		_, err := decodeCheckin(`{"call_outcome": 7}`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestDecodeEmergency(t *testing.T) {
	t.Run("fills missing fields with Unknown", func(t *testing.T) {
		data, err := decodeEmergency(`{"emergency_type": "Breakdown"}`)
		require.NoError(t, err)
		assert.Equal(t, "Emergency Escalation", data.CallOutcome)
		assert.Equal(t, "Breakdown", data.EmergencyType)
		assert.Equal(t, EmergencyUnknown, data.SafetyStatus)
		assert.Equal(t, EmergencyUnknown, data.InjuryStatus)
		assert.Equal(t, EmergencyUnknown, data.EmergencyLocation)
		assert.Equal(t, EmergencyUnknown, data.EscalationStatus)
		assert.False(t, data.LoadSecure)
	})

	t.Run("preserves full payload", func(t *testing.T) {
		data, err := decodeEmergency(`{
			"call_outcome": "Emergency Escalation",
			"emergency_type": "Accident",
			"safety_status": "Driver safe",
			"injury_status": "No injuries",
			"emergency_location": "I-10 westbound, mile 254",
			"load_secure": true,
			"escalation_status": "Connected to dispatcher"
		}`)
		require.NoError(t, err)
		assert.Equal(t, "Accident", data.EmergencyType)
		assert.Equal(t, "I-10 westbound, mile 254", data.EmergencyLocation)
		assert.True(t, data.LoadSecure)
	})

	t.Run("rejects non-JSON output", func(t *testing.T) {
		_, err := decodeEmergency("```json\nnot valid\n```")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestCheckinDataAsJSONB(t *testing.T) {
	data := CheckinData{
		CallOutcome:             "In-Transit Update",
		DriverStatus:            "Driving",
		CurrentLocation:         "Flagstaff, AZ",
		ETA:                     "Tomorrow, 8:00 AM",
		DelayReason:             "N/A",
		UnloadingStatus:         "N/A",
		PODReminderAcknowledged: false,
	}

	jsonb := data.AsJSONB()
	assert.Equal(t, "In-Transit Update", jsonb["call_outcome"])
	assert.Equal(t, "Flagstaff, AZ", jsonb["current_location"])
	assert.Equal(t, false, jsonb["pod_reminder_acknowledged"])
}

func TestEmergencyDataAsJSONB(t *testing.T) {
	data := EmergencyData{
		CallOutcome:       "Emergency Escalation",
		EmergencyType:     "Medical",
		SafetyStatus:      "Driver requesting help",
		InjuryStatus:      "Possible injury",
		EmergencyLocation: "Rest stop near Amarillo, TX",
		LoadSecure:        true,
		EscalationStatus:  "Escalated to human dispatcher",
	}

	jsonb := data.AsJSONB()
	assert.Equal(t, "Medical", jsonb["emergency_type"])
	assert.Equal(t, true, jsonb["load_secure"])
}
