// Package review provides the processed-report queue shown to doctors.
package review

import (
	"context"
	"sort"
	"time"

	"github.com/xaenox/healthdesk/internal/models"
	"go.uber.org/zap"
)

// Queue lists processed patient reports for review
type Queue interface {
	Processed(ctx context.Context) ([]models.ProcessedReport, error)
	Stats(ctx context.Context) (models.ReviewStats, error)
}

var demoReports = []models.ProcessedReport{
	{
		ID:          1,
		PatientName: "John Doe",
		ReportType:  "Blood Test",
		Date:        time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusAnalyzed,
		Priority:    models.PriorityNormal,
		Diagnosis:   "All parameters within normal range",
	},
	{
		ID:          2,
		PatientName: "Jane Smith",
		ReportType:  "X-Ray",
		Date:        time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusAnalyzed,
		Priority:    models.PriorityUrgent,
		Diagnosis:   "Possible fracture detected",
	},
	{
		ID:          3,
		PatientName: "Mike Johnson",
		ReportType:  "MRI Scan",
		Date:        time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusPending,
		Priority:    models.PriorityHigh,
		Diagnosis:   "Analysis in progress",
	},
}

var demoStats = models.ReviewStats{
	TotalReports:  156,
	AnalyzedToday: 23,
	PendingReview: 8,
}

// MockQueue serves a fixed demo queue
type MockQueue struct {
	logger *zap.Logger
}

func NewMockQueue(logger *zap.Logger) *MockQueue {
	return &MockQueue{logger: logger}
}

// Processed returns the demo reports newest first
func (q *MockQueue) Processed(ctx context.Context) ([]models.ProcessedReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reports := append([]models.ProcessedReport(nil), demoReports...)
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Date.After(reports[j].Date)
	})

	q.logger.Debug("Serving demo review queue", zap.Int("reports", len(reports)))
	return reports, nil
}

func (q *MockQueue) Stats(ctx context.Context) (models.ReviewStats, error) {
	if err := ctx.Err(); err != nil {
		return models.ReviewStats{}, err
	}
	return demoStats, nil
}
