package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/helpers"
	"github.com/deniz/bookbridge/internal/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetAllBooksParams holds parameters for filtering and pagination.
type GetAllBooksParams struct {
	Subject    *string
	ClassLevel *string
	Type       *string
	Search     *string
	OwnerID    *uuid.UUID
	Page       int
	Size       int
}

// BookRepository handles database operations for Book. The waitlist and
// history columns are JSONB, so a book row is read and written as one
// document. Concurrent writers follow last-write-wins: the UPDATE carries no
// version check and simply overwrites the whole document.
type BookRepository struct {
	DB *pgxpool.Pool
}

// NewBookRepository creates a new instance of BookRepository.
func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{DB: db}
}

func (r *BookRepository) selectBookQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"id", "title", "subject", "class_level", "author", "remark", "book_type",
		"owner_id", "current_owner", "contact", "owner_privacy", "handover_status",
		"waitlist", "history", "image_url", "created_at",
	).From("books").
		PlaceholderFormat(squirrel.Dollar)
}

func scanBook(row pgx.Row) (*models.Book, error) {
	var book models.Book
	var waitlistRaw, historyRaw []byte
	err := row.Scan(
		&book.ID, &book.Title, &book.Subject, &book.ClassLevel, &book.Author,
		&book.Remark, &book.Type, &book.OwnerID, &book.CurrentOwner, &book.Contact,
		&book.OwnerPrivacy, &book.Handover, &waitlistRaw, &historyRaw,
		&book.ImageURL, &book.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookNotFound
		}
		logger.Error().Err(err).Msg("Error scanning book row")
		return nil, err
	}

	if err := json.Unmarshal(waitlistRaw, &book.Waitlist); err != nil {
		return nil, fmt.Errorf("failed to decode waitlist: %w", err)
	}
	if err := json.Unmarshal(historyRaw, &book.History); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if book.Waitlist == nil {
		book.Waitlist = []models.BorrowRequest{}
	}
	if book.History == nil {
		book.History = []models.HistoryEvent{}
	}

	return &book, nil
}

func encodeDocument(book *models.Book) (waitlist, history []byte, err error) {
	wl := book.Waitlist
	if wl == nil {
		wl = []models.BorrowRequest{}
	}
	hs := book.History
	if hs == nil {
		hs = []models.HistoryEvent{}
	}
	waitlist, err = json.Marshal(wl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode waitlist: %w", err)
	}
	history, err = json.Marshal(hs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return waitlist, history, nil
}

// Create inserts a new book listing and returns its generated ID.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) (uuid.UUID, error) {
	waitlistRaw, historyRaw, err := encodeDocument(book)
	if err != nil {
		return uuid.Nil, err
	}

	sql, args, err := squirrel.Insert("books").
		Columns("title", "subject", "class_level", "author", "remark", "book_type",
			"owner_id", "current_owner", "contact", "owner_privacy", "handover_status",
			"waitlist", "history", "image_url").
		Values(book.Title, book.Subject, book.ClassLevel, book.Author, book.Remark,
			book.Type, book.OwnerID, book.CurrentOwner, book.Contact, book.OwnerPrivacy,
			book.Handover, waitlistRaw, historyRaw, book.ImageURL).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create book SQL")
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.DB.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create book query")
		return uuid.Nil, err
	}

	return id, nil
}

// GetByID retrieves a single book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	sqlStr, args, err := r.selectBookQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get book by ID SQL")
		return nil, err
	}

	row := r.DB.QueryRow(ctx, sqlStr, args...)
	return scanBook(row)
}

// GetAll retrieves a paginated and filtered list of books, newest first.
func (r *BookRepository) GetAll(ctx context.Context, params GetAllBooksParams) ([]*models.Book, dto.PaginationInfo, error) {
	sqlBuilder := r.selectBookQuery()
	countBuilder := squirrel.Select("count(*)").From("books").
		PlaceholderFormat(squirrel.Dollar)

	if params.Subject != nil && *params.Subject != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"subject": *params.Subject})
		countBuilder = countBuilder.Where(squirrel.Eq{"subject": *params.Subject})
	}
	if params.ClassLevel != nil && *params.ClassLevel != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"class_level": *params.ClassLevel})
		countBuilder = countBuilder.Where(squirrel.Eq{"class_level": *params.ClassLevel})
	}
	if params.Type != nil && *params.Type != "" {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"book_type": *params.Type})
		countBuilder = countBuilder.Where(squirrel.Eq{"book_type": *params.Type})
	}
	if params.Search != nil && *params.Search != "" {
		pattern := "%" + strings.TrimSpace(*params.Search) + "%"
		cond := squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"author": pattern},
		}
		sqlBuilder = sqlBuilder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}
	if params.OwnerID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"owner_id": *params.OwnerID})
		countBuilder = countBuilder.Where(squirrel.Eq{"owner_id": *params.OwnerID})
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count books SQL")
		return nil, dto.PaginationInfo{}, err
	}

	var totalItems int64
	err = r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing count books query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)

	if totalItems == 0 {
		return []*models.Book{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlBuilder = sqlBuilder.OrderBy("created_at DESC").Limit(uint64(limit)).Offset(offset)

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all books SQL")
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all books query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	books := make([]*models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one book during get all")
			continue
		}
		books = append(books, book)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through book rows")
		return nil, pagination, fmt.Errorf("database iteration error: %w", err)
	}

	return books, pagination, nil
}

// GetAllUnpaged retrieves every book, newest first. Used for snapshot
// broadcasts and for the notification projection, both of which need the
// whole collection.
func (r *BookRepository) GetAllUnpaged(ctx context.Context) ([]*models.Book, error) {
	sqlStr, args, err := r.selectBookQuery().OrderBy("created_at DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all books SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all books query")
		return nil, err
	}
	defer rows.Close()

	books := make([]*models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one book during unpaged get")
			continue
		}
		books = append(books, book)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through book rows")
		return nil, err
	}

	return books, nil
}

// update overwrites the whole book document. No version check: the last
// writer wins, matching the collection's single-document write model.
func (r *BookRepository) update(ctx context.Context, book *models.Book) error {
	waitlistRaw, historyRaw, err := encodeDocument(book)
	if err != nil {
		return err
	}

	sql, args, err := squirrel.Update("books").
		Set("title", book.Title).
		Set("subject", book.Subject).
		Set("class_level", book.ClassLevel).
		Set("author", book.Author).
		Set("remark", book.Remark).
		Set("book_type", book.Type).
		Set("owner_id", book.OwnerID).
		Set("current_owner", book.CurrentOwner).
		Set("contact", book.Contact).
		Set("owner_privacy", book.OwnerPrivacy).
		Set("handover_status", book.Handover).
		Set("waitlist", waitlistRaw).
		Set("history", historyRaw).
		Set("image_url", book.ImageURL).
		Where(squirrel.Eq{"id": book.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update book SQL")
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update book query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBookNotFound
	}

	return nil
}

// ApplyTransition reads the book, runs fn on the snapshot and writes the
// result back as one whole-document UPDATE. fn must be pure: it gets a value
// copy and returns the next document. If fn returns an error nothing is
// written.
func (r *BookRepository) ApplyTransition(ctx context.Context, id uuid.UUID, fn func(models.Book) (models.Book, error)) (*models.Book, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := fn(*current)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := r.update(ctx, &next); err != nil {
		return nil, err
	}

	return &next, nil
}

// Delete removes a book by its ID. Deleting an already-deleted book is not an
// error; removal is idempotent.
func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("books").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete book SQL")
		return err
	}

	_, err = r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete book query")
		return err
	}

	return nil
}
