package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/healthdesk/internal/analysis"
	"github.com/xaenox/healthdesk/internal/assistant"
	"github.com/xaenox/healthdesk/internal/intent"
	"github.com/xaenox/healthdesk/internal/session"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/zap"
)

// sender is the part of the Telegram API the handlers use
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api       *tgbotapi.BotAPI
	out       sender
	kv        storage.KV
	responder intent.Responder
	analyzer  analysis.Analyzer
	opts      assistant.Options
	logger    *zap.Logger

	mu    sync.Mutex
	desks map[int64]*chatDesk
	wg    sync.WaitGroup
}

// chatDesk is the assistant state of one Telegram chat
type chatDesk struct {
	desk        *assistant.Desk
	unsubscribe func()
}

func New(token string, debug bool, kv storage.KV, responder intent.Responder, analyzer analysis.Analyzer, opts assistant.Options, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	b := newBot(api, kv, responder, analyzer, opts, logger)
	b.api = api
	return b, nil
}

func newBot(out sender, kv storage.KV, responder intent.Responder, analyzer analysis.Analyzer, opts assistant.Options, logger *zap.Logger) *Bot {
	return &Bot{
		out:       out,
		kv:        kv,
		responder: responder,
		analyzer:  analyzer,
		opts:      opts,
		logger:    logger,
		desks:     make(map[int64]*chatDesk),
	}
}

// Start consumes updates until ctx is done
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	var handlers sync.WaitGroup
	defer handlers.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			handlers.Add(1)
			go func(message *tgbotapi.Message) {
				defer handlers.Done()
				b.handleMessage(ctx, message)
			}(update.Message)
		}
	}
}

// RefreshSessions re-reads every known chat's session each interval so that
// changes made directly in the store reach the chat.
func (b *Bot) RefreshSessions(ctx context.Context, interval time.Duration) error {
	return session.Poll(ctx, interval, b.sessionManagers)
}

func (b *Bot) sessionManagers() []*session.Manager {
	b.mu.Lock()
	defer b.mu.Unlock()

	managers := make([]*session.Manager, 0, len(b.desks))
	for _, cd := range b.desks {
		managers = append(managers, cd.desk.Sessions())
	}
	return managers
}

// Close ends session subscriptions and waits for their goroutines
func (b *Bot) Close() {
	b.mu.Lock()
	for _, cd := range b.desks {
		cd.unsubscribe()
	}
	b.desks = make(map[int64]*chatDesk)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bot) deskFor(ctx context.Context, chatID int64) *assistant.Desk {
	b.mu.Lock()
	cd, ok := b.desks[chatID]
	b.mu.Unlock()
	if ok {
		return cd.desk
	}

	// Loading does KV I/O, so it runs without holding mu.
	kv := storage.WithPrefix(b.kv, fmt.Sprintf("chat:%d:", chatID))
	desk := assistant.New(kv, b.responder, b.analyzer, b.opts, b.logger.With(zap.Int64("chat_id", chatID)))
	if err := desk.Load(ctx); err != nil {
		b.logger.Error("Failed to load chat state", zap.Error(err), zap.Int64("chat_id", chatID))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Another handler may have loaded the same chat meanwhile.
	if cd, ok := b.desks[chatID]; ok {
		return cd.desk
	}

	// Subscribe after loading so a restored session does not trigger a notice.
	events, unsubscribe := desk.Sessions().Subscribe()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for ev := range events {
			if ev.Previous != nil && ev.Current == nil {
				b.sendMessage(chatID, "You have been signed out. Use /login to sign in again.")
			}
		}
	}()

	b.desks[chatID] = &chatDesk{desk: desk, unsubscribe: unsubscribe}
	return desk
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	desk := b.deskFor(ctx, message.Chat.ID)
	if desk.CurrentSession(ctx) == nil {
		b.sendMessage(message.Chat.ID, "Please sign in first: /login <email> <password>")
		return
	}

	if file := selectedFile(message); file != nil {
		b.handleUpload(ctx, message, desk, file)
		return
	}

	b.handleChat(ctx, message, desk)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.handleHelp(message)
	case "login":
		b.handleLogin(ctx, message)
	case "logout":
		b.handleLogout(ctx, message)
	case "whoami":
		b.handleWhoAmI(ctx, message)
	case "reports":
		b.handleReports(ctx, message)
	case "tip":
		b.sendMessage(message.Chat.ID, "💡 "+intent.HealthTip(nil))
	case "clear":
		b.handleClear(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}
