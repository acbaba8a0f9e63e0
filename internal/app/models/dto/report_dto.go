package dto

import (
	"time"

	"github.com/deniz/bookbridge/internal/app/models"
)

// CreateReportRequest represents a complaint filed against a book
type CreateReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReportResponse represents one open report in the admin review list
type ReportResponse struct {
	ID            string    `json:"id"`
	BookID        string    `json:"bookId"`
	BookTitle     string    `json:"bookTitle"`
	BookOwner     string    `json:"bookOwner"`
	ReporterUID   string    `json:"reporterUid"`
	ReporterName  string    `json:"reporterName"`
	ReporterClass string    `json:"reporterClass"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReportListResponse represents the admin review queue
type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
}

// FromReport converts a models.Report to a ReportResponse
func FromReport(report *models.Report) ReportResponse {
	return ReportResponse{
		ID:            report.ID.String(),
		BookID:        report.BookID.String(),
		BookTitle:     report.BookTitle,
		BookOwner:     report.BookOwner,
		ReporterUID:   report.ReporterUID.String(),
		ReporterName:  report.ReporterName,
		ReporterClass: report.ReporterClass,
		Reason:        report.Reason,
		Timestamp:     report.CreatedAt,
	}
}
