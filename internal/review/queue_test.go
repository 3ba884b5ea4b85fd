package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/healthdesk/internal/models"
	"go.uber.org/zap"
)

func TestMockQueue_Processed(t *testing.T) {
	q := NewMockQueue(zap.NewNop())

	reports, err := q.Processed(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "John Doe", reports[0].PatientName)
	assert.Equal(t, models.PriorityUrgent, reports[1].Priority)
	assert.Equal(t, models.StatusPending, reports[2].Status)
	for i := 1; i < len(reports); i++ {
		assert.False(t, reports[i].Date.After(reports[i-1].Date), "queue must be newest first")
	}
}

func TestMockQueue_ProcessedReturnsCopy(t *testing.T) {
	q := NewMockQueue(zap.NewNop())

	first, err := q.Processed(context.Background())
	require.NoError(t, err)
	first[0].PatientName = "changed"

	second, err := q.Processed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "John Doe", second[0].PatientName)
}

func TestMockQueue_Stats(t *testing.T) {
	stats, err := NewMockQueue(zap.NewNop()).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStats{TotalReports: 156, AnalyzedToday: 23, PendingReview: 8}, stats)
}

func TestMockQueue_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := NewMockQueue(zap.NewNop())
	_, err := q.Processed(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = q.Stats(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
