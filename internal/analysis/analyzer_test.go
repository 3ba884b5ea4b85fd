package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/healthdesk/internal/models"
	"go.uber.org/zap"
)

func TestMockAnalyzer_FixedTemplate(t *testing.T) {
	a := NewMockAnalyzer(0, zap.NewNop())
	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	file := &models.SelectedFile{URI: "file:///tmp/blood.pdf", MimeType: "application/pdf", Name: "blood.pdf", SizeBytes: 2048}
	record, err := a.Analyze(context.Background(), file)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "blood.pdf", record.SourceFileName)
	assert.Equal(t, fixed, record.CreatedAt)
	assert.Equal(t, mockDiagnosis, record.DiagnosisText)
	assert.Equal(t, mockPrescription, record.RecommendationText)
	assert.InDelta(t, 0.92, record.Confidence, 1e-9)
	assert.Equal(t, mockRecommendations, record.Recommendations)
}

func TestMockAnalyzer_FreshIDs(t *testing.T) {
	a := NewMockAnalyzer(0, zap.NewNop())
	file := &models.SelectedFile{Name: "scan.jpg", MimeType: "image/jpeg"}

	first, err := a.Analyze(context.Background(), file)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), file)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	// Records do not share the recommendations backing array.
	first.Recommendations[0] = "changed"
	assert.Equal(t, mockRecommendations[0], second.Recommendations[0])
}

func TestMockAnalyzer_RejectsMissingFile(t *testing.T) {
	a := NewMockAnalyzer(time.Hour, zap.NewNop())

	_, err := a.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestMockAnalyzer_WaitsForDelay(t *testing.T) {
	a := NewMockAnalyzer(30*time.Millisecond, zap.NewNop())

	start := time.Now()
	_, err := a.Analyze(context.Background(), &models.SelectedFile{Name: "x.pdf"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestMockAnalyzer_Cancellation(t *testing.T) {
	a := NewMockAnalyzer(time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, &models.SelectedFile{Name: "x.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeCompleter struct {
	req     openai.ChatCompletionRequest
	content string
	err     error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func newTestOpenAIAnalyzer(client chatCompleter) *OpenAIAnalyzer {
	a := NewOpenAIAnalyzer("test-key", "", "gpt-4o-mini", 300, 0.2, zap.NewNop())
	a.client = client
	return a
}

func TestOpenAIAnalyzer_ParsesResponse(t *testing.T) {
	fake := &fakeCompleter{content: `{"diagnosis":"Mild anemia","prescription":"Iron supplements","confidence":1.4,"recommendations":["Retest in 1 month"]}`}
	a := newTestOpenAIAnalyzer(fake)

	record, err := a.Analyze(context.Background(), &models.SelectedFile{Name: "cbc.pdf", MimeType: "application/pdf", SizeBytes: 1536})
	require.NoError(t, err)

	assert.Equal(t, "cbc.pdf", record.SourceFileName)
	assert.Equal(t, "Mild anemia", record.DiagnosisText)
	assert.Equal(t, "Iron supplements", record.RecommendationText)
	assert.Equal(t, 1.0, record.Confidence)
	assert.Equal(t, []string{"Retest in 1 month"}, record.Recommendations)

	require.Len(t, fake.req.Messages, 1)
	parts := fake.req.Messages[0].MultiContent
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0].Text, "File name: cbc.pdf")
	assert.Contains(t, parts[0].Text, "File size: 1.5 KB")
}

func TestOpenAIAnalyzer_InlinesLocalImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xray.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	fake := &fakeCompleter{content: `{"diagnosis":"ok","prescription":"none","confidence":0.5,"recommendations":[]}`}
	a := newTestOpenAIAnalyzer(fake)

	_, err := a.Analyze(context.Background(), &models.SelectedFile{URI: "file://" + path, Name: "xray.png", MimeType: "image/png"})
	require.NoError(t, err)

	parts := fake.req.Messages[0].MultiContent
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, "data:image/png;base64,cG5nLWJ5dGVz", parts[1].ImageURL.URL)
}

func TestOpenAIAnalyzer_Failures(t *testing.T) {
	file := &models.SelectedFile{Name: "report.pdf", MimeType: "application/pdf"}

	t.Run("transport", func(t *testing.T) {
		a := newTestOpenAIAnalyzer(&fakeCompleter{err: errors.New("connection reset")})
		_, err := a.Analyze(context.Background(), file)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("malformed json", func(t *testing.T) {
		a := newTestOpenAIAnalyzer(&fakeCompleter{content: "not json"})
		_, err := a.Analyze(context.Background(), file)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("missing file", func(t *testing.T) {
		a := newTestOpenAIAnalyzer(&fakeCompleter{})
		_, err := a.Analyze(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNoFile)
	})
}
