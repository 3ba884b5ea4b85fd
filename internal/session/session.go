package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("please fill in all fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DemoToken is stored as the auth token on every successful demo login
const DemoToken = "demo_token_123"

type demoAccount struct {
	password string
	role     models.Role
}

var demoAccounts = map[string]demoAccount{
	"patient@test.com": {password: "12345", role: models.RolePatient},
	"doctor@test.com":  {password: "12345", role: models.RoleDoctor},
}

// authKeys are cleared on logout
var authKeys = []string{models.KeyToken, models.KeyRole, models.KeyName, models.KeyEmail}

// Event is delivered to subscribers whenever the session changes.
// A nil Current means the user is signed out.
type Event struct {
	Previous *models.Session
	Current  *models.Session
}

// Manager owns the session state derived from the stored auth values and
// notifies subscribers when it changes.
type Manager struct {
	kv     storage.KV
	logger *zap.Logger

	mu     sync.Mutex
	last   *models.Session
	subs   map[int]chan Event
	nextID int
}

func NewManager(kv storage.KV, logger *zap.Logger) *Manager {
	return &Manager{
		kv:     kv,
		logger: logger,
		subs:   make(map[int]chan Event),
	}
}

// Current reads the session from the store. A session exists only when both
// the token and the role are present and non-empty.
func (m *Manager) Current(ctx context.Context) (*models.Session, error) {
	token, err := m.get(ctx, models.KeyToken)
	if err != nil {
		return nil, err
	}
	role, err := m.get(ctx, models.KeyRole)
	if err != nil {
		return nil, err
	}
	if token == "" || role == "" {
		return nil, nil
	}

	name, err := m.get(ctx, models.KeyName)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if name, err = m.get(ctx, models.KeyEmail); err != nil {
			return nil, err
		}
	}

	return &models.Session{Role: models.Role(role), DisplayName: name}, nil
}

func (m *Manager) get(ctx context.Context, key string) (string, error) {
	value, _, err := m.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return strings.TrimSpace(value), nil
}

// Login checks the demo credentials and stores the auth values
func (m *Manager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	account, ok := demoAccounts[strings.ToLower(email)]
	if !ok || account.password != password {
		m.logger.Info("Rejected login", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	for _, kv := range [][2]string{
		{models.KeyToken, DemoToken},
		{models.KeyRole, string(account.role)},
		{models.KeyEmail, email},
	} {
		if err := m.kv.Set(ctx, kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", kv[0], err)
		}
	}

	m.logger.Info("User logged in", zap.String("email", email), zap.String("role", string(account.role)))
	return m.Refresh(ctx)
}

// Logout removes every stored auth value
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.MultiRemove(ctx, authKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	_, err := m.Refresh(ctx)
	return err
}

// Refresh re-reads the store and notifies subscribers if the session
// changed since the last read. Store errors count as signed out.
func (m *Manager) Refresh(ctx context.Context) (*models.Session, error) {
	current, err := m.Current(ctx)
	if err != nil {
		m.logger.Error("Failed to check auth status", zap.Error(err))
		current = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !equal(m.last, current) {
		event := Event{Previous: m.last, Current: current}
		m.last = current
		for id, ch := range m.subs {
			select {
			case ch <- event:
			default:
				m.logger.Warn("Dropping session event for slow subscriber", zap.Int("subscriber", id))
			}
		}
	}

	return current, err
}

// Subscribe returns a channel of session changes and a func that ends the
// subscription and closes the channel.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan Event, 8)
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
}

// Poll refreshes every manager returned by managers each interval until ctx
// is done, so changes made to the store by other writers reach subscribers.
// managers is called on every tick and may return a different set each time.
func Poll(ctx context.Context, interval time.Duration, managers func() []*Manager) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, m := range managers() {
				if ctx.Err() != nil {
					return nil
				}
				m.Refresh(ctx)
			}
		}
	}
}

func equal(a, b *models.Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
