package repository

import (
	"context"

	"mailgun-mock/internal/model"
)

// MessageRepository holds captured messages, newest first.
// None of its operations can fail.
type MessageRepository interface {
	Ingest(ctx context.Context, message *model.Message)
	Snapshot(ctx context.Context) []model.Message
	Clear(ctx context.Context)
	Len(ctx context.Context) int
}
