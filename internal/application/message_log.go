package application

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	repo "github.com/oksasatya/eventhub/internal/domain/repository"
	"github.com/oksasatya/eventhub/pkg/helpers"
)

type MessageLogState struct {
	Messages []entity.ChatMessage `json:"messages"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
}

type MessageLogStats struct {
	Messages int   `json:"messages"`
	Posted   int64 `json:"posted"`
}

// MessageLog is the append-only chat log shared by all events.
type MessageLog struct {
	Source   repo.MessageSource
	Identity IdentityReader
	Logger   *logrus.Logger
	Clock    helpers.Clock
	Latency  time.Duration

	mu       sync.RWMutex
	messages []entity.ChatMessage
	loading  bool
	lastErr  string
	posted   int64
}

func NewMessageLog(source repo.MessageSource, identity IdentityReader, logger *logrus.Logger, latency time.Duration) *MessageLog {
	return &MessageLog{
		Source:   source,
		Identity: identity,
		Logger:   logger,
		Clock:    helpers.SystemClock,
		Latency:  latency,
		loading:  true,
	}
}

// Initialize loads the message universe and sorts it once by ascending timestamp.
func (l *MessageLog) Initialize(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.lastErr = ""
	l.mu.Unlock()

	msgs, err := l.load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.lastErr = MsgLoadMessages
		if l.Logger != nil {
			l.Logger.WithError(err).Error("load chat messages failed")
		}
		return fmt.Errorf("load messages: %w", err)
	}
	slices.SortStableFunc(msgs, func(a, b entity.ChatMessage) int { return a.Timestamp.Compare(b.Timestamp) })
	l.messages = msgs
	return nil
}

func (l *MessageLog) load(ctx context.Context) ([]entity.ChatMessage, error) {
	if err := helpers.Delay(ctx, l.Latency); err != nil {
		return nil, err
	}
	return l.Source.Messages(ctx)
}

// Post appends a message authored by the current identity. Without an
// identity it does nothing and reports false.
func (l *MessageLog) Post(eventID, content string, attachments []entity.Attachment) (entity.ChatMessage, bool) {
	user, ok := l.Identity.Current()
	if !ok {
		return entity.ChatMessage{}, false
	}

	msg := entity.ChatMessage{
		ID:          uuid.NewString(),
		EventID:     eventID,
		UserID:      user.ID,
		Content:     content,
		Attachments: slices.Clone(attachments),
	}

	// The timestamp is taken under the lock and never precedes the tail,
	// so the log stays in ascending order without re-sorting.
	l.mu.Lock()
	msg.Timestamp = l.now()
	if n := len(l.messages); n > 0 && msg.Timestamp.Before(l.messages[n-1].Timestamp) {
		msg.Timestamp = l.messages[n-1].Timestamp
	}
	l.messages = append(l.messages, msg)
	l.posted++
	l.mu.Unlock()

	if l.Logger != nil {
		l.Logger.WithFields(logrus.Fields{"event_id": eventID, "user_id": user.ID, "message_id": msg.ID}).Debug("message posted")
	}
	return msg, true
}

// ForEvent returns the messages of one event in log order.
func (l *MessageLog) ForEvent(eventID string) []entity.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lo.Filter(l.messages, func(m entity.ChatMessage, _ int) bool { return m.EventID == eventID })
}

func (l *MessageLog) State() MessageLogState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return MessageLogState{
		Messages: slices.Clone(l.messages),
		Loading:  l.loading,
		Error:    l.lastErr,
	}
}

func (l *MessageLog) Stats() MessageLogStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return MessageLogStats{Messages: len(l.messages), Posted: l.posted}
}

func (l *MessageLog) now() time.Time {
	if l.Clock == nil {
		return helpers.SystemClock()
	}
	return l.Clock()
}
