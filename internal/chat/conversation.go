package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/healthdesk/internal/intent"
	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/records"
	"go.uber.org/zap"
)

// ErrEmptyInput is returned by Send for blank messages
var ErrEmptyInput = errors.New("message is empty")

// DefaultTypingDelay is how long the assistant appears to type
const DefaultTypingDelay = time.Second

const (
	Greeting   = "Hello! I'm your AI health assistant. I can help you with general health questions, medication information, and provide health tips. How can I assist you today?"
	ErrorReply = "Sorry, I encountered an error. Please try again."
)

var quickReplies = []string{
	"I have a fever",
	"Headache remedy",
	"Diet tips",
	"Exercise advice",
}

// Conversation is one chat session with the assistant. Messages are kept in
// chronological order; when a history store is set they are also persisted.
type Conversation struct {
	responder intent.Responder
	history   *records.Store
	delay     time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	messages []models.ChatMessage
	pending  int // replies being prepared
	lastID   int64
}

// NewConversation starts a conversation with the greeting. history may be nil.
func NewConversation(responder intent.Responder, history *records.Store, delay time.Duration, logger *zap.Logger) *Conversation {
	c := &Conversation{
		responder: responder,
		history:   history,
		delay:     delay,
		logger:    logger,
		now:       time.Now,
	}
	c.messages = []models.ChatMessage{c.newMessage(Greeting, models.OriginAssistant)}
	return c
}

// Load restores persisted messages after the greeting
func (c *Conversation) Load(ctx context.Context) error {
	if c.history == nil {
		return nil
	}

	stored, err := c.history.Messages(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	restored := c.messages[:1:1]
	for i := len(stored) - 1; i >= 0; i-- {
		restored = append(restored, stored[i])
		if id, err := strconv.ParseInt(stored[i].ID, 10, 64); err == nil && id > c.lastID {
			c.lastID = id
		}
	}
	c.messages = restored
	return nil
}

// newMessage must be called with mu held or before the conversation is shared
func (c *Conversation) newMessage(text string, origin models.Origin) models.ChatMessage {
	now := c.now()
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id

	return models.ChatMessage{
		ID:        strconv.FormatInt(id, 10),
		Text:      text,
		Origin:    origin,
		CreatedAt: now.UTC(),
	}
}

// Send posts a user message and waits for the assistant's reply
func (c *Conversation) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyInput
	}

	c.mu.Lock()
	userMsg := c.newMessage(text, models.OriginUser)
	c.messages = append(c.messages, userMsg)
	c.pending++
	c.mu.Unlock()

	reply, err := c.reply(ctx, text)

	c.mu.Lock()
	botMsg := c.newMessage(reply, models.OriginAssistant)
	c.messages = append(c.messages, botMsg)
	c.pending--
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Error sending message", zap.Error(err))
		return botMsg, err
	}

	c.persist(ctx, userMsg, botMsg)
	return botMsg, nil
}

func (c *Conversation) reply(ctx context.Context, text string) (string, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ErrorReply, ctx.Err()
		case <-timer.C:
		}
	}
	return c.responder.Respond(text), nil
}

func (c *Conversation) persist(ctx context.Context, msgs ...models.ChatMessage) {
	if c.history == nil {
		return
	}
	for _, msg := range msgs {
		if err := c.history.AppendMessage(ctx, msg); err != nil {
			c.logger.Error("Failed to save chat message",
				zap.Error(err),
				zap.String("message_id", msg.ID))
			return
		}
	}
}

// Messages returns a snapshot in chronological order
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]models.ChatMessage(nil), c.messages...)
}

// Typing reports whether any reply is being prepared
func (c *Conversation) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending > 0
}

// QuickReplies suggests openers while only the greeting has been shown
func (c *Conversation) QuickReplies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.messages) > 1 {
		return nil
	}
	return append([]string(nil), quickReplies...)
}

// Reset drops everything but a fresh greeting and clears persisted history
func (c *Conversation) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.messages = []models.ChatMessage{c.newMessage(Greeting, models.OriginAssistant)}
	c.mu.Unlock()

	if c.history == nil {
		return nil
	}
	return c.history.Clear(ctx, models.KindChat)
}
