package repository

import (
	"context"

	"github.com/oksasatya/eventhub/internal/domain/entity"
)

// EventSource supplies the fixed event universe loaded at start.
type EventSource interface {
	Events(ctx context.Context) ([]entity.Event, error)
}

// MessageSource supplies the fixed chat message universe loaded at start.
type MessageSource interface {
	Messages(ctx context.Context) ([]entity.ChatMessage, error)
}
