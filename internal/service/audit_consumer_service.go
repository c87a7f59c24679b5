package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

// auditConsumerService drains the audit topic and persists each event as a
// system log row. It runs for the lifetime of the process.
type auditConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewAuditConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IAuditConsumerService {
	return &auditConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *auditConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *auditConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event dto.AuditEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Printf("[ERROR] Failed to unmarshal audit event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	row := &entity.SystemLog{
		Id:        uuid.New(),
		Level:     "INFO",
		Message:   event.Message,
		CreatedAt: time.Now(),
	}
	if event.Module != "" {
		module := event.Module
		row.Module = &module
	}
	if len(event.Details) > 0 {
		if raw, err := json.Marshal(event.Details); err == nil {
			details := string(raw)
			row.Details = &details
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SystemLogRepository().Create(ctx, row); err != nil {
		log.Printf("[ERROR] Failed to persist audit event %s: %v", event.EventType, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
