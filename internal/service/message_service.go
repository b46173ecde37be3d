package service

import (
	"context"
	"strings"

	"mailgun-mock/internal/extract"
	"mailgun-mock/internal/logger"
	"mailgun-mock/internal/model"
	"mailgun-mock/internal/repository"
	"mailgun-mock/internal/sse"
)

type messageService struct {
	messageRepo repository.MessageRepository
	extractor   *extract.Extractor
	notifier    Notifier
	logger      *logger.Logger
}

// NewMessageService wires the store to the extractor. notifier may be nil.
func NewMessageService(messageRepo repository.MessageRepository, extractor *extract.Extractor, notifier Notifier, logger *logger.Logger) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		extractor:   extractor,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *messageService) Ingest(ctx context.Context, form *extract.Form) *model.Message {
	message := s.extractor.Extract(form)
	s.messageRepo.Ingest(ctx, message)

	s.logger.Infof("Email received: id=%s from=%q to=%q subject=%q attachments=[%s]",
		message.ID, message.From, message.To, message.Subject, strings.Join(message.AttachmentNames, ", "))
	s.logger.Debugf("Email %s bodies: text=%d bytes html=%d bytes", message.ID, len(message.TextBody), len(message.HTMLBody))

	s.notify(sse.EventMessage, map[string]string{
		"id":      message.ID,
		"subject": message.Subject,
	})
	return message
}

func (s *messageService) GetMessages(ctx context.Context) []model.Message {
	return s.messageRepo.Snapshot(ctx)
}

func (s *messageService) Clear(ctx context.Context) {
	count := s.messageRepo.Len(ctx)
	s.messageRepo.Clear(ctx)
	s.logger.Info("Cleared", count, "stored emails")

	s.notify(sse.EventClear, map[string]int{"cleared": count})
}

func (s *messageService) notify(eventType string, data interface{}) {
	if s.notifier != nil {
		s.notifier.Broadcast(eventType, data)
	}
}
