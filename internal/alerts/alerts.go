package alerts

import (
	"context"
	"fmt"
	"html"

	"dispatch-server/internal/extraction"
	"dispatch-server/internal/observability"
	"dispatch-server/internal/store"
)

// EmailSender sends a single email and returns the provider message id.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, htmlContent string) (string, error)
}

// Service notifies the dispatcher when an emergency call is escalated.
// When no dispatcher email is configured the service is a no-op.
type Service struct {
	sender          EmailSender
	from            string
	dispatcherEmail string
	logger          *observability.Logger
}

func NewService(sender EmailSender, from, dispatcherEmail string, logger *observability.Logger) *Service {
	return &Service{
		sender:          sender,
		from:            from,
		dispatcherEmail: dispatcherEmail,
		logger:          logger,
	}
}

// Enabled reports whether emergency notifications are configured.
func (s *Service) Enabled() bool {
	return s.sender != nil && s.dispatcherEmail != ""
}

// NotifyEmergency emails the dispatcher about an escalated emergency call.
func (s *Service) NotifyEmergency(ctx context.Context, call *store.CallLog, data extraction.EmergencyData) error {
	if !s.Enabled() {
		s.logger.Debug(ctx, "emergency notifications disabled, skipping")
		return nil
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_log_id", Value: call.ID.String()},
		observability.Field{Key: "emergency_type", Value: data.EmergencyType},
	)

	subject := fmt.Sprintf("Emergency escalation: %s (load %s)", data.EmergencyType, call.LoadNumber)
	body := emergencyEmailBody(call, data)

	if _, err := s.sender.SendEmail(ctx, s.from, s.dispatcherEmail, subject, body); err != nil {
		s.logger.Error(ctx, "failed to send emergency notification", err)
		return fmt.Errorf("failed to send emergency notification: %w", err)
	}

	s.logger.Info(ctx, "emergency notification sent")
	return nil
}

func emergencyEmailBody(call *store.CallLog, data extraction.EmergencyData) string {
	loadSecure := "No"
	if data.LoadSecure {
		loadSecure = "Yes"
	}

	return fmt.Sprintf(`<h2>Emergency escalation</h2>
<p>An emergency was reported during a call with <strong>%s</strong> (load <strong>%s</strong>).</p>
<ul>
<li>Emergency type: %s</li>
<li>Safety status: %s</li>
<li>Injury status: %s</li>
<li>Location: %s</li>
<li>Load secure: %s</li>
<li>Escalation status: %s</li>
</ul>
<p>Call log id: %s</p>`,
		html.EscapeString(call.DriverName),
		html.EscapeString(call.LoadNumber),
		html.EscapeString(data.EmergencyType),
		html.EscapeString(data.SafetyStatus),
		html.EscapeString(data.InjuryStatus),
		html.EscapeString(data.EmergencyLocation),
		loadSecure,
		html.EscapeString(data.EscalationStatus),
		call.ID.String(),
	)
}
