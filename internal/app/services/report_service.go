package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/repositories"
	"github.com/deniz/bookbridge/internal/pkg/realtime"
)

// ReportService handles listing complaints. Filing never touches the reported
// book; resolution either dismisses the report or removes the book and every
// report against it.
type ReportService struct {
	reportRepo *repositories.ReportRepository
	bookRepo   *repositories.BookRepository
	userRepo   *repositories.UserRepository
	publisher  snapshotPublisher
	logger     zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo *repositories.ReportRepository,
	bookRepo *repositories.BookRepository,
	userRepo *repositories.UserRepository,
	publisher snapshotPublisher,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *ReportService) publishReports(ctx context.Context) {
	reports, err := s.reportRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load reports for snapshot broadcast")
		return
	}
	s.publisher.Publish(realtime.CollectionReports, reports)
}

// Create files a report against a book. The book's title and owner are
// snapshotted into the report so it stays readable after the book changes.
func (s *ReportService) Create(ctx context.Context, actor lifecycle.Actor, bookID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	reporter, err := s.userRepo.GetByID(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		BookID:        book.ID,
		BookTitle:     book.Title,
		BookOwner:     book.CurrentOwner,
		ReporterUID:   reporter.ID,
		ReporterName:  reporter.Name,
		ReporterClass: reporter.StudentClass,
		Reason:        req.Reason,
	}

	id, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = id

	s.logger.Info().
		Str("reportID", id.String()).
		Str("bookID", book.ID.String()).
		Msg("Report filed")
	s.publishReports(ctx)
	return report, nil
}

// GetAll returns every open report, newest first. Admin only.
func (s *ReportService) GetAll(ctx context.Context) ([]*models.Report, error) {
	return s.reportRepo.GetAll(ctx)
}

// Dismiss removes a report without touching the book. Dismissing an already
// resolved report is not an error.
func (s *ReportService) Dismiss(ctx context.Context, id uuid.UUID) error {
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("reportID", id.String()).Msg("Report dismissed")
	s.publishReports(ctx)
	return nil
}

// ResolveByDeletingBook removes the reported book and every report filed
// against it.
func (s *ReportService) ResolveByDeletingBook(ctx context.Context, id uuid.UUID) error {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookRepo.Delete(ctx, report.BookID); err != nil {
		return err
	}
	if err := s.reportRepo.DeleteByBookID(ctx, report.BookID); err != nil {
		return err
	}

	s.logger.Info().
		Str("reportID", id.String()).
		Str("bookID", report.BookID.String()).
		Msg("Report resolved by deleting book")

	s.publishReports(ctx)
	if books, err := s.bookRepo.GetAllUnpaged(ctx); err == nil {
		s.publisher.Publish(realtime.CollectionBooks, books)
	}
	return nil
}
