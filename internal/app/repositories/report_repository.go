package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/logger"
)

// ReportRepository handles database operations for Report.
type ReportRepository struct {
	DB *pgxpool.Pool
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) selectReportQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"id", "book_id", "book_title", "book_owner", "reporter_uid",
		"reporter_name", "reporter_class", "reason", "created_at",
	).From("reports").
		PlaceholderFormat(squirrel.Dollar)
}

func scanReport(row pgx.Row) (*models.Report, error) {
	var report models.Report
	err := row.Scan(
		&report.ID, &report.BookID, &report.BookTitle, &report.BookOwner,
		&report.ReporterUID, &report.ReporterName, &report.ReporterClass,
		&report.Reason, &report.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReportNotFound
		}
		logger.Error().Err(err).Msg("Error scanning report row")
		return nil, err
	}
	return &report, nil
}

// Create inserts a new report and returns its generated ID.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) (uuid.UUID, error) {
	sql, args, err := squirrel.Insert("reports").
		Columns("book_id", "book_title", "book_owner", "reporter_uid",
			"reporter_name", "reporter_class", "reason").
		Values(report.BookID, report.BookTitle, report.BookOwner, report.ReporterUID,
			report.ReporterName, report.ReporterClass, report.Reason).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create report SQL")
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create report query")
		return uuid.Nil, err
	}

	return id, nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	sqlStr, args, err := r.selectReportQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get report by ID SQL")
		return nil, err
	}

	return scanReport(r.DB.QueryRow(ctx, sqlStr, args...))
}

// GetAll retrieves every open report, newest first.
func (r *ReportRepository) GetAll(ctx context.Context) ([]*models.Report, error) {
	sqlStr, args, err := r.selectReportQuery().OrderBy("created_at DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all reports SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all reports query")
		return nil, err
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one report during get all")
			continue
		}
		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through report rows")
		return nil, err
	}

	return reports, nil
}

// Delete removes a report by ID. Dismissing a report that is already gone is
// not an error.
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("reports").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete report SQL")
		return err
	}

	_, err = r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete report query")
		return err
	}

	return nil
}

// DeleteByBookID removes every report filed against a book. Used when an
// admin deletes the reported book itself.
func (r *ReportRepository) DeleteByBookID(ctx context.Context, bookID uuid.UUID) error {
	sql, args, err := squirrel.Delete("reports").
		Where(squirrel.Eq{"book_id": bookID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete reports by book SQL")
		return err
	}

	_, err = r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete reports by book query")
		return err
	}

	return nil
}
