package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/healthdesk/internal/analysis"
	"github.com/xaenox/healthdesk/internal/intent"
	"github.com/xaenox/healthdesk/internal/models"
	"github.com/xaenox/healthdesk/internal/storage"
	"go.uber.org/zap"
)

func newDesk(kv storage.KV, analyzer analysis.Analyzer) *Desk {
	if analyzer == nil {
		analyzer = analysis.NewMockAnalyzer(0, zap.NewNop())
	}
	return New(kv, intent.Default(), analyzer, Options{}, zap.NewNop())
}

func TestDesk_AnalyzeStoresReport(t *testing.T) {
	ctx := context.Background()
	d := newDesk(storage.NewMemoryStorage(), nil)

	first, err := d.Analyze(ctx, &models.SelectedFile{Name: "gallery_image.jpg", MimeType: "image/jpeg"})
	require.NoError(t, err)
	second, err := d.Analyze(ctx, &models.SelectedFile{Name: "labs.pdf", MimeType: "application/pdf"})
	require.NoError(t, err)

	reports := d.Reports(ctx)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
}

func TestDesk_AnalyzeWithoutFile(t *testing.T) {
	d := newDesk(storage.NewMemoryStorage(), nil)

	_, err := d.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, analysis.ErrNoFile)
	assert.Empty(t, d.Reports(context.Background()))
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, *models.SelectedFile) (*models.AnalysisRecord, error) {
	return nil, analysis.ErrAnalysisFailed
}

func TestDesk_AnalyzeFailureStoresNothing(t *testing.T) {
	d := newDesk(storage.NewMemoryStorage(), failingAnalyzer{})

	_, err := d.Analyze(context.Background(), &models.SelectedFile{Name: "x.pdf"})
	assert.ErrorIs(t, err, analysis.ErrAnalysisFailed)
	assert.Empty(t, d.Reports(context.Background()))
}

type readOnlyKV struct {
	storage.KV
}

func (readOnlyKV) Set(context.Context, string, string) error {
	return errors.New("read-only")
}

func TestDesk_StoreFailureDoesNotFailUpload(t *testing.T) {
	d := newDesk(readOnlyKV{storage.NewMemoryStorage()}, nil)

	record, err := d.Analyze(context.Background(), &models.SelectedFile{Name: "x.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "x.pdf", record.SourceFileName)
}

func TestDesk_SessionAndChat(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStorage()
	d := newDesk(kv, nil)

	assert.Nil(t, d.CurrentSession(ctx))

	_, err := d.Login(ctx, "doctor@test.com", "12345")
	require.NoError(t, err)
	s := d.CurrentSession(ctx)
	require.NotNil(t, s)
	assert.Equal(t, models.RoleDoctor, s.Role)

	reply, err := d.Respond(ctx, "I have a headache and fever")
	require.NoError(t, err)
	assert.Equal(t, intent.Default().Respond("fever"), reply.Text)
	require.NoError(t, d.Append(ctx, &models.AnalysisRecord{ID: "manual"}))

	require.NoError(t, d.Logout(ctx))
	assert.Nil(t, d.CurrentSession(ctx))
	assert.Len(t, d.Conversation().Messages(), 1)
	assert.Len(t, d.Reports(ctx), 1)

	// A fresh desk over the same store restores nothing after logout.
	again := newDesk(kv, nil)
	require.NoError(t, again.Load(ctx))
	assert.Len(t, again.Conversation().Messages(), 1)
}

func TestDesk_ReviewQueueForDoctors(t *testing.T) {
	ctx := context.Background()
	d := newDesk(storage.NewMemoryStorage(), nil)

	_, _, err := d.ReviewQueue(ctx)
	assert.ErrorIs(t, err, ErrDoctorsOnly)

	_, err = d.Login(ctx, "patient@test.com", "12345")
	require.NoError(t, err)
	_, _, err = d.ReviewQueue(ctx)
	assert.ErrorIs(t, err, ErrDoctorsOnly)

	require.NoError(t, d.Logout(ctx))
	_, err = d.Login(ctx, "doctor@test.com", "12345")
	require.NoError(t, err)

	reports, stats, err := d.ReviewQueue(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
	assert.Equal(t, 8, stats.PendingReview)
}

type brokenQueue struct{}

func (brokenQueue) Processed(context.Context) ([]models.ProcessedReport, error) {
	return nil, errors.New("queue offline")
}

func (brokenQueue) Stats(context.Context) (models.ReviewStats, error) {
	return models.ReviewStats{}, nil
}

func TestDesk_ReviewQueueError(t *testing.T) {
	ctx := context.Background()
	d := New(storage.NewMemoryStorage(), intent.Default(), analysis.NewMockAnalyzer(0, zap.NewNop()), Options{Queue: brokenQueue{}}, zap.NewNop())

	_, err := d.Login(ctx, "doctor@test.com", "12345")
	require.NoError(t, err)

	_, _, err = d.ReviewQueue(ctx)
	assert.ErrorContains(t, err, "queue offline")
}
