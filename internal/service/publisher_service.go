package service

import (
	"context"
	"encoding/json"
	"log"

	"clinical-intel-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishAudit(ctx context.Context, event *dto.AuditEventMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishAudit(ctx context.Context, event *dto.AuditEventMessage) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		log.Printf("[ERROR] Failed to publish audit event %s: %v", event.EventType, err)
		return err
	}

	return nil
}
