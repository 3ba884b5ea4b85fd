package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/healthdesk/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNoFile is returned when Analyze is called without a selected file
	ErrNoFile = errors.New("no file selected")
	// ErrAnalysisFailed marks a backend failure the user may retry
	ErrAnalysisFailed = errors.New("report analysis failed")
)

// DefaultDelay is how long the mock analyzer pretends to work
const DefaultDelay = 2 * time.Second

// Analyzer turns an uploaded report into an analysis record
type Analyzer interface {
	Analyze(ctx context.Context, file *models.SelectedFile) (*models.AnalysisRecord, error)
}

const (
	mockDiagnosis    = "Based on the uploaded report, the blood test shows normal glucose levels (95 mg/dL) and cholesterol within acceptable range (180 mg/dL). Slight elevation in white blood cell count may indicate minor infection."
	mockPrescription = "Continue current medications. Increase water intake to 8-10 glasses daily. Follow up in 2 weeks if symptoms persist. Consider vitamin D supplementation."
	mockConfidence   = 0.92
)

var mockRecommendations = []string{
	"Schedule follow-up appointment in 2 weeks",
	"Monitor symptoms daily",
	"Maintain current diet and exercise routine",
}

// MockAnalyzer returns a fixed analysis after a simulated delay
type MockAnalyzer struct {
	delay  time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewMockAnalyzer(delay time.Duration, logger *zap.Logger) *MockAnalyzer {
	if delay < 0 {
		delay = 0
	}
	return &MockAnalyzer{
		delay:  delay,
		now:    time.Now,
		logger: logger,
	}
}

func (a *MockAnalyzer) Analyze(ctx context.Context, file *models.SelectedFile) (*models.AnalysisRecord, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	record := &models.AnalysisRecord{
		ID:                 uuid.New().String(),
		SourceFileName:     file.Name,
		CreatedAt:          a.now().UTC(),
		DiagnosisText:      mockDiagnosis,
		RecommendationText: mockPrescription,
		Confidence:         mockConfidence,
		Recommendations:    append([]string(nil), mockRecommendations...),
	}

	a.logger.Debug("Generated mock analysis",
		zap.String("record_id", record.ID),
		zap.String("file_name", file.Name),
		zap.String("mime_type", file.MimeType))

	return record, nil
}
