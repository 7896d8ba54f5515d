package alerts

import (
	"context"
	"errors"
	"testing"

	"dispatch-server/internal/extraction"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	from    string
	to      string
	subject string
	html    string
	calls   int
	err     error
}

func (f *fakeEmailSender) SendEmail(_ context.Context, from, to, subject, htmlContent string) (string, error) {
	f.calls++
	f.from = from
	f.to = to
	f.subject = subject
	f.html = htmlContent
	if f.err != nil {
		return "", f.err
	}
	return "email-123", nil
}

func testCallLog() *store.CallLog {
	return &store.CallLog{
		ID:           uuid.New(),
		DriverName:   "Mike Chen",
		DriverPhone:  "+14155550123",
		LoadNumber:   "LD-4512",
		ScenarioType: store.ScenarioEmergency,
	}
}

func TestNotifyEmergency(t *testing.T) {
	logger := observability.NewLogger()

	t.Run("sends to configured dispatcher", func(t *testing.T) {
		sender := &fakeEmailSender{}
		svc := NewService(sender, "alerts@example.com", "dispatch@example.com", logger)

		err := svc.NotifyEmergency(context.Background(), testCallLog(), extraction.EmergencyData{
			CallOutcome:       "Emergency Escalation",
			EmergencyType:     "Accident",
			SafetyStatus:      "Driver safe",
			InjuryStatus:      "No injuries",
			EmergencyLocation: "I-10 westbound, mile 254",
			LoadSecure:        true,
			EscalationStatus:  "Connected to dispatcher",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, sender.calls)
		assert.Equal(t, "alerts@example.com", sender.from)
		assert.Equal(t, "dispatch@example.com", sender.to)
		assert.Contains(t, sender.subject, "Accident")
		assert.Contains(t, sender.subject, "LD-4512")
		assert.Contains(t, sender.html, "Mike Chen")
		assert.Contains(t, sender.html, "I-10 westbound, mile 254")
		assert.Contains(t, sender.html, "Load secure: Yes")
	})

	t.Run("no-op when dispatcher email unset", func(t *testing.T) {
		sender := &fakeEmailSender{}
		svc := NewService(sender, "alerts@example.com", "", logger)

		err := svc.NotifyEmergency(context.Background(), testCallLog(), extraction.EmergencyData{})
		require.NoError(t, err)
		assert.Zero(t, sender.calls)
		assert.False(t, svc.Enabled())
	})

	t.Run("propagates send failures", func(t *testing.T) {
		sender := &fakeEmailSender{err: errors.New("rate limited")}
		svc := NewService(sender, "alerts@example.com", "dispatch@example.com", logger)

		err := svc.NotifyEmergency(context.Background(), testCallLog(), extraction.EmergencyData{EmergencyType: "Breakdown"})
		assert.Error(t, err)
	})

	t.Run("escapes html in extracted fields", func(t *testing.T) {
		sender := &fakeEmailSender{}
		svc := NewService(sender, "alerts@example.com", "dispatch@example.com", logger)

		err := svc.NotifyEmergency(context.Background(), testCallLog(), extraction.EmergencyData{
			EmergencyType: "<script>alert(1)</script>",
		})
		require.NoError(t, err)
		assert.NotContains(t, sender.html, "<script>")
	})
}
