package service

import (
	"context"
	"encoding/json"

	"medrag-be/internal/dto"
	"medrag-be/internal/pkg/logger"
	"medrag-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotificationService interface {
	Consume(ctx context.Context) error
}

// notificationService drains the diagnosis-notice topic and sends the
// notice emails. Delivery is best effort: a failed send is logged and the
// message acknowledged, it is never allowed to fail the diagnosis itself.
type notificationService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		logger:       log,
	}
}

func (ns *notificationService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(msg)
		}
	}()

	return nil
}

func (ns *notificationService) processMessage(msg *message.Message) {
	var payload dto.DiagnosisNoticeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ns.logger.Error("notification", "failed to unmarshal notice message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	if err := ns.emailService.SendDiagnosisNotice(payload.Email, payload.CaseId, payload.Diagnosis); err != nil {
		ns.logger.Warn("notification", "failed to send diagnosis notice", map[string]interface{}{
			"case_id": payload.CaseId,
			"error":   err.Error(),
		})
		// Best effort: do not redeliver, the diagnosis itself succeeded.
		msg.Ack()
		return
	}

	ns.logger.Info("notification", "diagnosis notice sent", map[string]interface{}{
		"case_id": payload.CaseId,
	})
	msg.Ack()
}
