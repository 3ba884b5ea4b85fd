package chat

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/healthdesk/internal/intent"
	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/records"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestNewConversation_Greeting(t *testing.T) {
	c := NewConversation(intent.Default(), nil, 0, zap.NewNop())

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.True(t, msgs[0].IsBot())
	assert.Len(t, c.QuickReplies(), 4)
}

func TestSend_AppendsUserAndAssistant(t *testing.T) {
	c := NewConversation(intent.Default(), nil, 0, zap.NewNop())

	reply, err := c.Send(context.Background(), "  I have a fever  ")
	require.NoError(t, err)
	assert.Equal(t, intent.Default().Respond("fever"), reply.Text)
	assert.Equal(t, models.OriginAssistant, reply.Origin)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "I have a fever", msgs[1].Text)
	assert.Equal(t, models.OriginUser, msgs[1].Origin)
	assert.Equal(t, reply, msgs[2])
	assert.Nil(t, c.QuickReplies())
	assert.False(t, c.Typing())
}

func TestSend_RejectsEmpty(t *testing.T) {
	c := NewConversation(intent.Default(), nil, 0, zap.NewNop())

	_, err := c.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Len(t, c.Messages(), 1)
}

func TestSend_IDsAreMonotonic(t *testing.T) {
	c := NewConversation(intent.Default(), nil, 0, zap.NewNop())
	c.now = fixedClock()

	for i := 0; i < 3; i++ {
		_, err := c.Send(context.Background(), "diet")
		require.NoError(t, err)
	}

	var prev int64
	for _, msg := range c.Messages() {
		id, err := strconv.ParseInt(msg.ID, 10, 64)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestSend_TypingDuringDelay(t *testing.T) {
	c := NewConversation(intent.Default(), nil, 50*time.Millisecond, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Send(context.Background(), "stress")
		assert.NoError(t, err)
	}()

	assert.Eventually(t, c.Typing, time.Second, time.Millisecond)
	wg.Wait()
	assert.False(t, c.Typing())
}

// gatedResponder holds each reply until its input's gate is closed
type gatedResponder struct {
	entered chan string
	gates   map[string]chan struct{}
}

func (g *gatedResponder) Respond(input string) string {
	g.entered <- input
	<-g.gates[input]
	return "reply to " + input
}

func TestSend_TypingWhileAnyReplyPending(t *testing.T) {
	responder := &gatedResponder{
		entered: make(chan string, 2),
		gates: map[string]chan struct{}{
			"first":  make(chan struct{}),
			"second": make(chan struct{}),
		},
	}
	c := NewConversation(responder, nil, 0, zap.NewNop())

	firstDone := make(chan struct{})
	secondDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		c.Send(context.Background(), "first")
	}()
	go func() {
		defer close(secondDone)
		c.Send(context.Background(), "second")
	}()
	<-responder.entered
	<-responder.entered

	close(responder.gates["first"])
	<-firstDone
	assert.True(t, c.Typing(), "second reply is still pending")

	close(responder.gates["second"])
	<-secondDone
	assert.False(t, c.Typing())
}

func TestSend_CancelledWhileTyping(t *testing.T) {
	c := NewConversation(intent.Default(), nil, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply, err := c.Send(ctx, "fever")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrorReply, reply.Text)
	assert.False(t, c.Typing())
}

func TestConversation_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := records.New(storage.NewMemoryStorage(), 0, zap.NewNop())

	first := NewConversation(intent.Default(), store, 0, zap.NewNop())
	_, err := first.Send(ctx, "workout plan")
	require.NoError(t, err)
	_, err = first.Send(ctx, "purple elephant")
	require.NoError(t, err)

	stored, err := store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "purple elephant", stored[1].Text, "newest first in the store")

	second := NewConversation(intent.Default(), store, 0, zap.NewNop())
	require.NoError(t, second.Load(ctx))

	msgs := second.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.Equal(t, "workout plan", msgs[1].Text)
	assert.Equal(t, "purple elephant", msgs[3].Text)
	assert.Contains(t, msgs[4].Text, `"purple elephant"`)

	reply, err := second.Send(ctx, "mood")
	require.NoError(t, err)
	lastStored, _ := strconv.ParseInt(msgs[4].ID, 10, 64)
	newID, _ := strconv.ParseInt(reply.ID, 10, 64)
	assert.Greater(t, newID, lastStored)

	require.NoError(t, second.Reset(ctx))
	assert.Len(t, second.Messages(), 1)
	stored, err = store.Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
