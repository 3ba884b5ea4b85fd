// Package assistant exposes the operations the UI front ends call: reply to
// text, analyze a report, store and list reports, and manage the session.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xaenox/healthdesk/internal/analysis"
	"github.com/xaenox/healthdesk/internal/chat"
	"github.com/xaenox/healthdesk/internal/intent"
	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/records"
	"github.com/xaenox/healthdesk/internal/review"
	"github.com/xaenox/healthdesk/internal/session"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/zap"
)

// ErrDoctorsOnly is returned when a non-doctor asks for the review queue
var ErrDoctorsOnly = errors.New("available to doctors only")

type Options struct {
	TypingDelay time.Duration
	MaxEntries  int
	// Queue defaults to the demo review queue
	Queue review.Queue
}

// Desk is one user's view of the assistant, backed by that user's KV store
type Desk struct {
	sessions     *session.Manager
	records      *records.Store
	conversation *chat.Conversation
	analyzer     analysis.Analyzer
	queue        review.Queue
	logger       *zap.Logger
}

func New(kv storage.KV, responder intent.Responder, analyzer analysis.Analyzer, opts Options, logger *zap.Logger) *Desk {
	store := records.New(kv, opts.MaxEntries, logger)
	queue := opts.Queue
	if queue == nil {
		queue = review.NewMockQueue(logger)
	}
	return &Desk{
		sessions:     session.NewManager(kv, logger),
		records:      store,
		conversation: chat.NewConversation(responder, store, opts.TypingDelay, logger),
		analyzer:     analyzer,
		queue:        queue,
		logger:       logger,
	}
}

// Load restores chat history and the last known session
func (d *Desk) Load(ctx context.Context) error {
	if err := d.conversation.Load(ctx); err != nil {
		d.logger.Error("Failed to load chat history", zap.Error(err))
	}
	_, err := d.sessions.Refresh(ctx)
	return err
}

func (d *Desk) Respond(ctx context.Context, text string) (models.ChatMessage, error) {
	return d.conversation.Send(ctx, text)
}

// Analyze runs the analyzer on file and stores the result. A failure to store
// is logged and does not fail the upload.
func (d *Desk) Analyze(ctx context.Context, file *models.SelectedFile) (*models.AnalysisRecord, error) {
	if file == nil {
		return nil, analysis.ErrNoFile
	}

	record, err := d.analyzer.Analyze(ctx, file)
	if err != nil {
		d.logger.Error("Upload error", zap.Error(err), zap.String("file_name", file.Name))
		return nil, err
	}

	if err := d.records.AppendReport(ctx, record); err != nil {
		d.logger.Error("Error saving report locally",
			zap.Error(err),
			zap.String("record_id", record.ID))
	}
	return record, nil
}

func (d *Desk) Append(ctx context.Context, record *models.AnalysisRecord) error {
	return d.records.AppendReport(ctx, record)
}

// Reports lists stored reports newest first. Store errors yield an empty list.
func (d *Desk) Reports(ctx context.Context) []models.AnalysisRecord {
	reports, err := d.records.Reports(ctx)
	if err != nil {
		d.logger.Error("Error loading reports", zap.Error(err))
		return []models.AnalysisRecord{}
	}
	return reports
}

// CurrentSession returns the signed-in user or nil. Store errors count as signed out.
func (d *Desk) CurrentSession(ctx context.Context) *models.Session {
	s, err := d.sessions.Current(ctx)
	if err != nil {
		d.logger.Error("Error checking auth status", zap.Error(err))
		return nil
	}
	return s
}

// ReviewQueue returns the processed patient reports and their summary for a
// signed-in doctor.
func (d *Desk) ReviewQueue(ctx context.Context) ([]models.ProcessedReport, models.ReviewStats, error) {
	if s := d.CurrentSession(ctx); s == nil || s.Role != models.RoleDoctor {
		return nil, models.ReviewStats{}, ErrDoctorsOnly
	}

	reports, err := d.queue.Processed(ctx)
	if err != nil {
		return nil, models.ReviewStats{}, fmt.Errorf("failed to load review queue: %w", err)
	}
	stats, err := d.queue.Stats(ctx)
	if err != nil {
		return nil, models.ReviewStats{}, fmt.Errorf("failed to load review stats: %w", err)
	}
	return reports, stats, nil
}

func (d *Desk) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return d.sessions.Login(ctx, email, password)
}

// Logout clears the session and the chat history. Reports are kept.
func (d *Desk) Logout(ctx context.Context) error {
	if err := d.sessions.Logout(ctx); err != nil {
		return err
	}
	if err := d.conversation.Reset(ctx); err != nil {
		d.logger.Error("Failed to clear chat history", zap.Error(err))
	}
	return nil
}

func (d *Desk) Sessions() *session.Manager {
	return d.sessions
}

func (d *Desk) Conversation() *chat.Conversation {
	return d.conversation
}
