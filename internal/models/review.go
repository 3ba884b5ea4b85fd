package models

import "time"

type ReviewStatus string

const (
	StatusAnalyzed ReviewStatus = "Analyzed"
	StatusPending  ReviewStatus = "Pending"
)

type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
)

// ProcessedReport is a patient report as it appears in a doctor's review queue
type ProcessedReport struct {
	ID          int          `json:"id"`
	PatientName string       `json:"patientName"`
	ReportType  string       `json:"reportType"`
	Date        time.Time    `json:"date"`
	Status      ReviewStatus `json:"status"`
	Priority    Priority     `json:"priority"`
	Diagnosis   string       `json:"diagnosis"`
}

// ReviewStats summarises the queue for the doctor's dashboard
type ReviewStats struct {
	TotalReports  int `json:"totalReports"`
	AnalyzedToday int `json:"analyzedToday"`
	PendingReview int `json:"pendingReview"`
}
