package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/bookbridge/internal/app/lifecycle"
	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/repositories"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/helpers"
)

// fakeBookRepo keeps books in memory and mirrors the repository's
// whole-document write behavior, including last-write-wins.
type fakeBookRepo struct {
	books map[uuid.UUID]models.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]models.Book)}
}

func (f *fakeBookRepo) Create(_ context.Context, book *models.Book) (uuid.UUID, error) {
	id := uuid.New()
	stored := *book
	stored.ID = id
	stored.CreatedAt = time.Now()
	f.books[id] = stored
	return id, nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	copied := book
	return &copied, nil
}

func (f *fakeBookRepo) GetAll(_ context.Context, params repositories.GetAllBooksParams) ([]*models.Book, dto.PaginationInfo, error) {
	books := make([]*models.Book, 0, len(f.books))
	for id := range f.books {
		b := f.books[id]
		books = append(books, &b)
	}
	return books, helpers.NewPaginationInfo(int64(len(books)), params.Page, params.Size), nil
}

func (f *fakeBookRepo) GetAllUnpaged(_ context.Context) ([]*models.Book, error) {
	books := make([]*models.Book, 0, len(f.books))
	for id := range f.books {
		b := f.books[id]
		books = append(books, &b)
	}
	return books, nil
}

func (f *fakeBookRepo) ApplyTransition(ctx context.Context, id uuid.UUID, fn func(models.Book) (models.Book, error)) (*models.Book, error) {
	current, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(*current)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	f.books[id] = next
	return &next, nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.books, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

type fakeReportRepo struct {
	deletedForBook []uuid.UUID
}

func (f *fakeReportRepo) DeleteByBookID(_ context.Context, bookID uuid.UUID) error {
	f.deletedForBook = append(f.deletedForBook, bookID)
	return nil
}

type recordingPublisher struct {
	collections []string
}

func (p *recordingPublisher) Publish(collection string, _ interface{}) {
	p.collections = append(p.collections, collection)
}

type serviceFixture struct {
	service   *BookService
	bookRepo  *fakeBookRepo
	userRepo  *fakeUserRepo
	reports   *fakeReportRepo
	publisher *recordingPublisher
}

func newFixture(users ...*models.User) *serviceFixture {
	userRepo := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		userRepo.users[u.ID] = u
	}
	bookRepo := newFakeBookRepo()
	reports := &fakeReportRepo{}
	publisher := &recordingPublisher{}

	return &serviceFixture{
		service:   NewBookService(bookRepo, userRepo, reports, publisher, zerolog.Nop()),
		bookRepo:  bookRepo,
		userRepo:  userRepo,
		reports:   reports,
		publisher: publisher,
	}
}

func newUser(name, phone string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Phone:        phone,
		Name:         name,
		StudentClass: "9-A",
		Role:         models.RoleStudent,
	}
}

func asActor(u *models.User) lifecycle.Actor {
	return lifecycle.Actor{UID: u.ID, Role: u.Role}
}

func Test_BookService_Create_StoresListingAndBroadcasts(t *testing.T) {
	// arrange
	owner := newUser("Ali Kaya", "5550000001")
	fx := newFixture(owner)

	// act
	book, err := fx.service.Create(context.Background(), asActor(owner), &dto.CreateBookRequest{
		Title:      "Mathematics 9",
		Subject:    "Mathematics",
		ClassLevel: "9",
		Type:       "SHARING",
	})

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, book.ID)
	require.Len(t, book.History, 1)
	assert.Equal(t, models.ActionListed, book.History[0].Action)
	assert.Contains(t, fx.publisher.collections, "books")

	stored, err := fx.bookRepo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, stored.OwnerID)
}

func Test_BookService_Create_RejectsInvalidType(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	fx := newFixture(owner)

	_, err := fx.service.Create(context.Background(), asActor(owner), &dto.CreateBookRequest{
		Title: "Mathematics 9",
		Type:  "LOAN",
	})

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func Test_BookService_SubmitRequest_AppendsPendingEntry(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	borrower := newUser("Ayşe Demir", "5550000002")
	fx := newFixture(owner, borrower)

	book, err := fx.service.Create(context.Background(), asActor(owner), &dto.CreateBookRequest{
		Title: "Physics 10", Subject: "Physics", ClassLevel: "10", Type: "SHARING",
	})
	require.NoError(t, err)

	updated, err := fx.service.SubmitRequest(context.Background(), asActor(borrower), book.ID, "I need this for next term")

	require.NoError(t, err)
	require.Len(t, updated.Waitlist, 1)
	assert.Equal(t, borrower.ID, updated.Waitlist[0].UID)
	assert.Equal(t, models.RequestStatusPending, updated.Waitlist[0].Status)
}

func Test_BookService_SubmitRequest_RejectsOwner(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	fx := newFixture(owner)

	book, err := fx.service.Create(context.Background(), asActor(owner), &dto.CreateBookRequest{
		Title: "Physics 10", Type: "SHARING",
	})
	require.NoError(t, err)

	_, err = fx.service.SubmitRequest(context.Background(), asActor(owner), book.ID, "mine already")

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func Test_BookService_Approve_ReportsNoMatchForUnknownUser(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	fx := newFixture(owner)

	book, err := fx.service.Create(context.Background(), asActor(owner), &dto.CreateBookRequest{
		Title: "Physics 10", Type: "SHARING",
	})
	require.NoError(t, err)

	_, outcome, err := fx.service.Approve(context.Background(), asActor(owner), book.ID, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeNoMatch, outcome)
}

func Test_BookService_FullTransferFlow(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	borrower := newUser("Ayşe Demir", "5550000002")
	fx := newFixture(owner, borrower)
	ctx := context.Background()

	book, err := fx.service.Create(ctx, asActor(owner), &dto.CreateBookRequest{
		Title: "Chemistry 11", Subject: "Chemistry", ClassLevel: "11", Type: "SHARING",
	})
	require.NoError(t, err)

	_, err = fx.service.SubmitRequest(ctx, asActor(borrower), book.ID, "please")
	require.NoError(t, err)

	_, outcome, err := fx.service.Approve(ctx, asActor(owner), book.ID, borrower.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.OutcomeApplied, outcome)

	_, outcome, err = fx.service.MarkHandedOver(ctx, asActor(owner), book.ID, borrower.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.OutcomeApplied, outcome)

	received, outcome, err := fx.service.ConfirmReceipt(ctx, asActor(borrower), book.ID)
	require.NoError(t, err)
	require.Equal(t, lifecycle.OutcomeApplied, outcome)

	assert.Equal(t, borrower.ID, received.OwnerID)
	assert.Equal(t, borrower.Name, received.CurrentOwner)
	assert.Empty(t, received.Waitlist)
	require.Len(t, received.History, 1)
	assert.Equal(t, models.ActionReceived, received.History[0].Action)

	// A second confirmation finds no handed_over entry and changes nothing
	again, outcome, err := fx.service.ConfirmReceipt(ctx, asActor(borrower), book.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.OutcomeNoMatch, outcome)
	assert.Equal(t, received.OwnerID, again.OwnerID)
}

func Test_BookService_Delete_RequiresEligibility(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	other := newUser("Ayşe Demir", "5550000002")
	fx := newFixture(owner, other)
	ctx := context.Background()

	book, err := fx.service.Create(ctx, asActor(owner), &dto.CreateBookRequest{
		Title: "Biology 9", Type: "DONATION",
	})
	require.NoError(t, err)

	err = fx.service.Delete(ctx, asActor(other), book.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = fx.service.Delete(ctx, asActor(owner), book.ID)
	require.NoError(t, err)
	assert.Contains(t, fx.reports.deletedForBook, book.ID)

	_, err = fx.bookRepo.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func Test_BookService_Notifications_CountsPendingOnOwnedBooks(t *testing.T) {
	owner := newUser("Ali Kaya", "5550000001")
	borrowerA := newUser("Ayşe Demir", "5550000002")
	borrowerB := newUser("Mehmet Can", "5550000003")
	fx := newFixture(owner, borrowerA, borrowerB)
	ctx := context.Background()

	book, err := fx.service.Create(ctx, asActor(owner), &dto.CreateBookRequest{
		Title: "Geography 9", Type: "SHARING",
	})
	require.NoError(t, err)

	_, err = fx.service.SubmitRequest(ctx, asActor(borrowerA), book.ID, "first")
	require.NoError(t, err)
	_, err = fx.service.SubmitRequest(ctx, asActor(borrowerB), book.ID, "second")
	require.NoError(t, err)

	resp, err := fx.service.Notifications(ctx, asActor(owner))

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, book.ID, resp.Items[0].BookID)

	// The borrowers see nothing pending on books they do not own
	resp, err = fx.service.Notifications(ctx, asActor(borrowerA))
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Items)
}
