package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/config"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/events"
)

// NotificationService emits email notifications for workflow events. Actual
// delivery is handled by an external mailer; this service logs the outbound
// message shape.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to workflow events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTimesheetSubmitted, n.handleSubmitted)
	n.dispatcher.Subscribe(events.EventTimesheetApproved, n.handleDecision)
	n.dispatcher.Subscribe(events.EventTimesheetRejected, n.handleDecision)
}

func (n *NotificationService) handleSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("TimesheetSubmitted",
		zap.String("timesheet_id", event.TimesheetID),
		zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event, "/timesheets/"+event.TimesheetID)
	return nil
}

func (n *NotificationService) handleDecision(ctx context.Context, event events.Event) error {
	n.logger.Info("TimesheetDecision",
		zap.String("timesheet_id", event.TimesheetID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	path := "/timesheets/" + event.TimesheetID
	if event.Type == events.EventTimesheetRejected {
		path += "/edit"
	}
	n.sendEmailStub(ctx, event, path)
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, event events.Event, path string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("from_name", n.cfg.EmailName),
		zap.String("link", n.cfg.FrontendURL+path),
		zap.String("event_type", string(event.Type)))
}
