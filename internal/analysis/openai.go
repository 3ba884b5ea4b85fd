package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/healthdesk/internal/models"
	"go.uber.org/zap"
)

// maxInlineImageBytes bounds images sent inline as data URLs
const maxInlineImageBytes = 4 << 20

type gptAnalysis struct {
	Diagnosis       string   `json:"diagnosis"`
	Prescription    string   `json:"prescription"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIAnalyzer asks a chat completion model to read the report
type OpenAIAnalyzer struct {
	client      chatCompleter
	model       string
	maxTokens   int
	temperature float64
	now         func() time.Time
	logger      *zap.Logger
}

func NewOpenAIAnalyzer(apiKey, baseURL, model string, maxTokens int, temperature float64, logger *zap.Logger) *OpenAIAnalyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIAnalyzer{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		now:         time.Now,
		logger:      logger,
	}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, file *models.SelectedFile) (*models.AnalysisRecord, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	prompt := fmt.Sprintf(`Analyze the following medical report and provide a structured analysis with:
- A diagnosis summary
- A prescription or care plan
- Your confidence between 0 and 1
- Up to 5 short follow-up recommendations

Return the response as a JSON object with this structure:
{
    "diagnosis": "diagnosis_summary",
    "prescription": "care_plan",
    "confidence": 0.0,
    "recommendations": ["recommendation1", "recommendation2", ...]
}

File name: %s
File type: %s
File size: %s`, file.Name, file.MimeType, models.FormatSize(file.SizeBytes))

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: prompt},
	}
	if dataURL, ok := a.inlineImage(file); ok {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:         openai.ChatMessageRoleUser,
					MultiContent: parts,
				},
			},
			MaxTokens:   a.maxTokens,
			Temperature: float32(a.temperature),
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		a.logger.Error("Failed to get GPT response", zap.Error(err), zap.String("file_name", file.Name))
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrAnalysisFailed)
	}

	var parsed gptAnalysis
	response := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		a.logger.Error("Failed to parse GPT response",
			zap.Error(err),
			zap.String("response", response))
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	return &models.AnalysisRecord{
		ID:                 uuid.New().String(),
		SourceFileName:     file.Name,
		CreatedAt:          a.now().UTC(),
		DiagnosisText:      parsed.Diagnosis,
		RecommendationText: parsed.Prescription,
		Confidence:         clamp(parsed.Confidence),
		Recommendations:    parsed.Recommendations,
	}, nil
}

// inlineImage reads a local image into a data URL. Anything else is described by metadata only.
func (a *OpenAIAnalyzer) inlineImage(file *models.SelectedFile) (string, bool) {
	if !file.IsImage() || file.URI == "" {
		return "", false
	}

	path := strings.TrimPrefix(file.URI, "file://")
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxInlineImageBytes {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		a.logger.Warn("Failed to read image for analysis", zap.Error(err), zap.String("path", path))
		return "", false
	}
	return "data:" + file.MimeType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

func clamp(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
