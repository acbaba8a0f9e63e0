package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/repositories"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/realtime"
)

// bookRepo is the slice of BookRepository the service needs. Tests substitute
// an in-memory fake.
type bookRepo interface {
	Create(ctx context.Context, book *models.Book) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	GetAll(ctx context.Context, params repositories.GetAllBooksParams) ([]*models.Book, dto.PaginationInfo, error)
	GetAllUnpaged(ctx context.Context) ([]*models.Book, error)
	ApplyTransition(ctx context.Context, id uuid.UUID, fn func(models.Book) (models.Book, error)) (*models.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type reportCascader interface {
	DeleteByBookID(ctx context.Context, bookID uuid.UUID) error
}

// snapshotPublisher pushes full-collection frames to connected clients.
type snapshotPublisher interface {
	Publish(collection string, data interface{})
}

// BookService orchestrates the book lifecycle: listing, borrow requests,
// approvals, handover and receipt. Every transition goes through the pure
// functions in the lifecycle package; this layer adds persistence, actor
// resolution and snapshot publishing.
type BookService struct {
	bookRepo   bookRepo
	userRepo   userReader
	reportRepo reportCascader
	publisher  snapshotPublisher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewBookService creates a new BookService
func NewBookService(
	bookRepo bookRepo,
	userRepo userReader,
	reportRepo reportCascader,
	publisher snapshotPublisher,
	logger zerolog.Logger,
) *BookService {
	return &BookService{
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		reportRepo: reportRepo,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// publishBooks pushes the full book collection to all connected clients. A
// failed read only costs the broadcast, never the request that triggered it.
func (s *BookService) publishBooks(ctx context.Context) {
	books, err := s.bookRepo.GetAllUnpaged(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load books for snapshot broadcast")
		return
	}
	s.publisher.Publish(realtime.CollectionBooks, books)
}

// Create lists a new book owned by the acting user.
func (s *BookService) Create(ctx context.Context, actor lifecycle.Actor, req *dto.CreateBookRequest) (*models.Book, error) {
	owner, err := s.userRepo.GetByID(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	book, err := lifecycle.NewListing(owner, lifecycle.ListingAttrs{
		Title:      req.Title,
		Subject:    req.Subject,
		ClassLevel: req.ClassLevel,
		Author:     req.Author,
		Remark:     req.Remark,
		Type:       models.BookType(req.Type),
		ImageURL:   req.ImageURL,
	}, s.now())
	if err != nil {
		return nil, err
	}

	id, err := s.bookRepo.Create(ctx, &book)
	if err != nil {
		return nil, err
	}
	book.ID = id

	s.logger.Info().Str("bookID", id.String()).Str("ownerID", actor.UID.String()).Msg("Book listed")
	s.publishBooks(ctx)
	return &book, nil
}

// GetAll returns a filtered page of listings rendered for the viewer.
func (s *BookService) GetAll(ctx context.Context, viewer lifecycle.Actor, filter *dto.BookFilterRequest) (*dto.BookListResponse, error) {
	books, pagination, err := s.bookRepo.GetAll(ctx, repositories.GetAllBooksParams{
		Subject:    filter.Subject,
		ClassLevel: filter.ClassLevel,
		Type:       filter.Type,
		Search:     filter.Search,
		Page:       filter.Page,
		Size:       filter.PageSize,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.BookListResponse{
		Books:      make([]dto.BookResponse, 0, len(books)),
		Pagination: pagination,
	}
	for _, book := range books {
		resp.Books = append(resp.Books, dto.FromBook(book, viewer))
	}
	return resp, nil
}

// GetByID returns a single listing rendered for the viewer.
func (s *BookService) GetByID(ctx context.Context, viewer lifecycle.Actor, id uuid.UUID) (*dto.BookResponse, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromBook(book, viewer)
	return &resp, nil
}

// Update patches the editable metadata of a listing.
func (s *BookService) Update(ctx context.Context, actor lifecycle.Actor, id uuid.UUID, req *dto.UpdateBookRequest) (*models.Book, error) {
	book, err := s.bookRepo.ApplyTransition(ctx, id, func(b models.Book) (models.Book, error) {
		return lifecycle.EditMetadata(b, actor, lifecycle.MetadataPatch{
			Title:      req.Title,
			Subject:    req.Subject,
			Author:     req.Author,
			ClassLevel: req.ClassLevel,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishBooks(ctx)
	return book, nil
}

// Delete removes a listing. The owner may delete until the book transferred,
// an admin always can. Reports filed against the book go with it.
func (s *BookService) Delete(ctx context.Context, actor lifecycle.Actor, id uuid.UUID) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !lifecycle.CanDelete(book, actor) {
		return apperrors.NewForbiddenError("not allowed to delete this book")
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.reportRepo.DeleteByBookID(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("bookID", id.String()).Msg("Failed to delete reports for removed book")
	}

	s.logger.Info().Str("bookID", id.String()).Str("actorID", actor.UID.String()).Msg("Book deleted")
	s.publishBooks(ctx)
	return nil
}

// SubmitRequest places the acting user on the waitlist of a book.
func (s *BookService) SubmitRequest(ctx context.Context, actor lifecycle.Actor, bookID uuid.UUID, message string) (*models.Book, error) {
	requester, err := s.userRepo.GetByID(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	book, err := s.bookRepo.ApplyTransition(ctx, bookID, func(b models.Book) (models.Book, error) {
		return lifecycle.SubmitRequest(b, actor, requester, message)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("bookID", bookID.String()).Str("requesterID", actor.UID.String()).Msg("Borrow request submitted")
	s.publishBooks(ctx)
	return book, nil
}

// applyWaitlistTransition runs one of the waitlist-targeting transitions and
// reports whether it matched an entry. A no-match is not an error.
func (s *BookService) applyWaitlistTransition(
	ctx context.Context,
	bookID uuid.UUID,
	fn func(models.Book) (models.Book, lifecycle.Outcome, error),
) (*models.Book, lifecycle.Outcome, error) {
	outcome := lifecycle.OutcomeNoMatch
	book, err := s.bookRepo.ApplyTransition(ctx, bookID, func(b models.Book) (models.Book, error) {
		next, o, err := fn(b)
		outcome = o
		return next, err
	})
	if err != nil {
		return nil, lifecycle.OutcomeNoMatch, err
	}
	return book, outcome, nil
}

// Approve marks the pending request of targetUID as approved.
func (s *BookService) Approve(ctx context.Context, actor lifecycle.Actor, bookID, targetUID uuid.UUID) (*models.Book, lifecycle.Outcome, error) {
	book, outcome, err := s.applyWaitlistTransition(ctx, bookID, func(b models.Book) (models.Book, lifecycle.Outcome, error) {
		return lifecycle.Approve(b, actor, targetUID)
	})
	if err != nil {
		return nil, outcome, err
	}

	s.logger.Info().
		Str("bookID", bookID.String()).
		Str("targetUID", targetUID.String()).
		Bool("applied", outcome == lifecycle.OutcomeApplied).
		Msg("Borrow request approval processed")
	s.publishBooks(ctx)
	return book, outcome, nil
}

// Reject marks the pending request of targetUID as rejected.
func (s *BookService) Reject(ctx context.Context, actor lifecycle.Actor, bookID, targetUID uuid.UUID) (*models.Book, lifecycle.Outcome, error) {
	book, outcome, err := s.applyWaitlistTransition(ctx, bookID, func(b models.Book) (models.Book, lifecycle.Outcome, error) {
		return lifecycle.Reject(b, actor, targetUID)
	})
	if err != nil {
		return nil, outcome, err
	}

	s.logger.Info().
		Str("bookID", bookID.String()).
		Str("targetUID", targetUID.String()).
		Bool("applied", outcome == lifecycle.OutcomeApplied).
		Msg("Borrow request rejection processed")
	s.publishBooks(ctx)
	return book, outcome, nil
}

// MarkHandedOver records the physical handover to the approved requester.
func (s *BookService) MarkHandedOver(ctx context.Context, actor lifecycle.Actor, bookID, targetUID uuid.UUID) (*models.Book, lifecycle.Outcome, error) {
	book, outcome, err := s.applyWaitlistTransition(ctx, bookID, func(b models.Book) (models.Book, lifecycle.Outcome, error) {
		return lifecycle.MarkHandedOver(b, actor, targetUID)
	})
	if err != nil {
		return nil, outcome, err
	}

	s.logger.Info().
		Str("bookID", bookID.String()).
		Str("targetUID", targetUID.String()).
		Bool("applied", outcome == lifecycle.OutcomeApplied).
		Msg("Handover processed")
	s.publishBooks(ctx)
	return book, outcome, nil
}

// ConfirmReceipt completes the transfer to the acting user.
func (s *BookService) ConfirmReceipt(ctx context.Context, actor lifecycle.Actor, bookID uuid.UUID) (*models.Book, lifecycle.Outcome, error) {
	receiver, err := s.userRepo.GetByID(ctx, actor.UID)
	if err != nil {
		return nil, lifecycle.OutcomeNoMatch, err
	}

	book, outcome, err := s.applyWaitlistTransition(ctx, bookID, func(b models.Book) (models.Book, lifecycle.Outcome, error) {
		return lifecycle.ConfirmReceipt(b, actor, receiver, s.now())
	})
	if err != nil {
		return nil, outcome, err
	}

	s.logger.Info().
		Str("bookID", bookID.String()).
		Str("receiverID", actor.UID.String()).
		Bool("applied", outcome == lifecycle.OutcomeApplied).
		Msg("Receipt processed")
	s.publishBooks(ctx)
	return book, outcome, nil
}

// Notifications returns the pending-request view for the acting user: one
// entry per owned book with pending requests, plus the total count.
func (s *BookService) Notifications(ctx context.Context, actor lifecycle.Actor) (*dto.NotificationsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UID)
	if err != nil {
		return nil, err
	}

	books, err := s.bookRepo.GetAllUnpaged(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.Book, 0, len(books))
	for _, b := range books {
		snapshots = append(snapshots, *b)
	}

	total, items := lifecycle.PendingNotifications(snapshots, user)
	return &dto.NotificationsResponse{
		Total: total,
		Items: items,
	}, nil
}
