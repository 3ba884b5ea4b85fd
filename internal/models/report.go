package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// AnalysisRecord is the result of analysing an uploaded medical report
type AnalysisRecord struct {
	ID                 string    `json:"id"`
	SourceFileName     string    `json:"filename"`
	CreatedAt          time.Time `json:"timestamp"`
	DiagnosisText      string    `json:"diagnosis"`
	RecommendationText string    `json:"prescription"`
	Confidence         float64   `json:"confidence"`
	Recommendations    []string  `json:"recommendations"`
}

// SelectedFile describes a file picked for upload. It is never persisted.
type SelectedFile struct {
	URI       string `json:"uri"`
	MimeType  string `json:"type"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size"`
}

func (f *SelectedFile) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

func (f *SelectedFile) IsPDF() bool {
	return f.MimeType == "application/pdf"
}

var sizeUnits = []string{"Bytes", "KB", "MB"}

// FormatSize renders a byte count the way the upload screen shows it,
// e.g. "1.5 KB" or "0 Bytes". Sizes beyond megabytes stay in MB.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	i, unit := 0, int64(1)
	for i < len(sizeUnits)-1 && bytes >= unit*k {
		i++
		unit *= k
	}
	value := float64(bytes) / float64(unit)
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}
