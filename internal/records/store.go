package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/zap"
)

// ErrCorrupt is returned when a stored sequence is not a JSON array
var ErrCorrupt = errors.New("stored records are corrupt")

// Store keeps most-recent-first sequences of records, one per kind, each
// persisted as a single JSON array under the kind's key.
//
// Appends are serialized so two appends from this process never lose each
// other's record. Writers in other processes sharing the backend are not
// coordinated with.
type Store struct {
	kv         storage.KV
	maxEntries int
	logger     *zap.Logger

	mu sync.Mutex
}

// New returns a store over kv. maxEntries <= 0 leaves sequences unbounded;
// otherwise the oldest records beyond the cap are dropped on append.
func New(kv storage.KV, maxEntries int, logger *zap.Logger) *Store {
	return &Store{
		kv:         kv,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Append inserts record at the head of the kind's sequence
func Append[T any](ctx context.Context, s *Store, kind models.RecordKind, record T) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", kind, err)
	}
	return s.prepend(ctx, kind, encoded)
}

// ReadAll returns the kind's sequence most-recent-first, or an empty slice
// when nothing has been stored yet.
func ReadAll[T any](ctx context.Context, s *Store, kind models.RecordKind) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, kind.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	out := []T{}
	if !ok || raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, kind, err)
	}
	// A stored JSON null decodes to a nil slice.
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *Store) prepend(ctx context.Context, kind models.RecordKind, encoded json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := ReadAll[json.RawMessage](ctx, s, kind)
	if err != nil {
		return err
	}

	sequence := make([]json.RawMessage, 0, len(existing)+1)
	sequence = append(sequence, encoded)
	sequence = append(sequence, existing...)

	if s.maxEntries > 0 && len(sequence) > s.maxEntries {
		s.logger.Debug("Trimming record sequence",
			zap.String("kind", string(kind)),
			zap.Int("dropped", len(sequence)-s.maxEntries))
		sequence = sequence[:s.maxEntries]
	}

	payload, err := json.Marshal(sequence)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	if err := s.kv.Set(ctx, kind.Key(), string(payload)); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

// Clear removes the kind's sequence
func (s *Store) Clear(ctx context.Context, kind models.RecordKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.MultiRemove(ctx, kind.Key())
}

func (s *Store) AppendReport(ctx context.Context, record *models.AnalysisRecord) error {
	if record == nil {
		return errors.New("nil analysis record")
	}
	return Append(ctx, s, models.KindReports, record)
}

// Reports returns stored analysis records, newest first
func (s *Store) Reports(ctx context.Context) ([]models.AnalysisRecord, error) {
	return ReadAll[models.AnalysisRecord](ctx, s, models.KindReports)
}

func (s *Store) AppendMessage(ctx context.Context, msg models.ChatMessage) error {
	return Append(ctx, s, models.KindChat, msg)
}

// Messages returns stored chat messages, newest first
func (s *Store) Messages(ctx context.Context) ([]models.ChatMessage, error) {
	return ReadAll[models.ChatMessage](ctx, s, models.KindChat)
}
