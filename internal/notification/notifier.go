// Package notification delivers human-readable updates about pipeline
// progress to recruiters and candidates. Delivery is driven by domain
// events, so a failed notification never blocks a transition.
package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hirestack/ats/internal/application/dispatcher"
	"github.com/hirestack/ats/internal/domain/event"
)

// Sender delivers a formatted message for an application. Implementations
// must tolerate at-least-once delivery.
type Sender interface {
	Send(ctx context.Context, applicationID, message string) error
}

// LogSender writes notifications to the structured log. It stands in for
// an email or chat integration in deployments that have none configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-backed sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, applicationID, message string) error {
	s.logger.Info("Notification delivered",
		zap.String("application_id", applicationID),
		zap.String("message", message))
	return nil
}

// Notifier subscribes to pipeline events and forwards them to a Sender.
type Notifier struct {
	sender Sender
	logger *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(sender Sender, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		logger: logger,
	}
}

// Register subscribes the notifier to every event type it reports on.
func (n *Notifier) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStageChanged, "notify-stage-changed", n.handle)
	d.SubscribeNamed(event.TypeInterviewScheduled, "notify-interview-scheduled", n.handle)
	d.SubscribeNamed(event.TypeTaskAssigned, "notify-task-assigned", n.handle)
	d.SubscribeNamed(event.TypeCompensationApproved, "notify-compensation-approved", n.handle)
	d.SubscribeNamed(event.TypeOfferSent, "notify-offer-sent", n.handle)
	d.SubscribeNamed(event.TypeOfferSigned, "notify-offer-signed", n.handle)
	d.SubscribeNamed(event.TypeOfferDeclined, "notify-offer-declined", n.handle)
	d.SubscribeNamed(event.TypeApplicationHired, "notify-hired", n.handle)
	d.SubscribeNamed(event.TypeApplicationRejected, "notify-rejected", n.handle)
}

func (n *Notifier) handle(ctx context.Context, evt *event.Event) error {
	message := Format(evt)
	if message == "" {
		return nil
	}
	if err := n.sender.Send(ctx, evt.ApplicationID, message); err != nil {
		n.logger.Warn("Failed to deliver notification",
			zap.String("event_type", evt.Type.String()),
			zap.String("application_id", evt.ApplicationID),
			zap.Error(err))
		return err
	}
	return nil
}

// Format renders an event as a one-line human-readable message. Unknown
// event types render as "".
func Format(evt *event.Event) string {
	switch evt.Type {
	case event.TypeStageChanged:
		from := joinStage(evt.PayloadString("from_stage"), evt.PayloadString("from_sub_stage"))
		to := joinStage(evt.PayloadString("to_stage"), evt.PayloadString("to_sub_stage"))
		return fmt.Sprintf("Application moved from %s to %s", from, to)
	case event.TypeInterviewScheduled:
		return fmt.Sprintf("Interview scheduled for %s", evt.PayloadString("scheduled_at"))
	case event.TypeTaskAssigned:
		return fmt.Sprintf("Technical task assigned: %s", evt.PayloadString("title"))
	case event.TypeCompensationApproved:
		return fmt.Sprintf("Compensation package approved by %s", evt.PayloadString("approved_by"))
	case event.TypeOfferSent:
		return "Offer sent to the candidate"
	case event.TypeOfferSigned:
		return "Candidate signed the offer"
	case event.TypeOfferDeclined:
		return "Offer was declined or withdrawn"
	case event.TypeApplicationHired:
		return "Candidate hired"
	case event.TypeApplicationRejected:
		return "Application rejected"
	default:
		return ""
	}
}

func joinStage(stage, sub string) string {
	if sub == "" {
		return stage
	}
	return stage + "/" + sub
}
