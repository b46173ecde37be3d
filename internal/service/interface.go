package service

import (
	"context"

	"mailgun-mock/internal/extract"
	"mailgun-mock/internal/model"
)

type MessageService interface {
	Ingest(ctx context.Context, form *extract.Form) *model.Message
	GetMessages(ctx context.Context) []model.Message
	Clear(ctx context.Context)
}

// Notifier is told about store changes. The SSE manager implements it.
type Notifier interface {
	Broadcast(eventType string, data interface{})
}
